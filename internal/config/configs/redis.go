package configs

import "time"

// Redis holds connection settings for the fast cache. Addr is a host:port
// pair accepted by go-redis.
type Redis struct {
	Addr     string `env:"ADDRESS" envDefault:"localhost:6379"`
	Password string `env:"PASSWORD"`
	DB       int    `env:"DB" envDefault:"0"`
	PoolSize int    `env:"POOL_SIZE" envDefault:"20"`
	// DialTimeout bounds the initial connection attempt at startup.
	DialTimeout time.Duration `env:"DIAL_TIMEOUT" envDefault:"5s"`
}
