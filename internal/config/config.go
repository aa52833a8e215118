package config

import (
	"github.com/caarlos0/env/v11"

	"ctv-ads/internal/config/configs"
)

// Config aggregates all configuration sections for the application. Fields
// are populated from environment variables using the caarlos0/env library. The
// nested structs are tagged with envPrefix so their fields are parsed with
// the given prefix. See the individual types in the configs package for
// default values and options. Use Load to construct a Config.
type Config struct {
	// Env specifies the deployment environment (e.g. prod, dev).
	Env string `env:"ENV" envDefault:"prod"`

	HTTP configs.HTTP   `envPrefix:"HTTP_"`
	Log  configs.Logger `envPrefix:"LOG_"`

	// Psql configures the system of record.
	Psql configs.Postgres `envPrefix:"PSQL_"`
	// Redis configures the fast cache connection.
	Redis configs.Redis `envPrefix:"REDIS_"`

	Cache    configs.Cache    `envPrefix:"CACHE_"`
	Sync     configs.Sync     `envPrefix:"SYNC_"`
	Decision configs.Decision `envPrefix:"DECISION_"`
	Batch    configs.Batch    `envPrefix:"BATCH_"`
}

// Load reads configuration from environment variables into a Config. If
// parsing fails, an error is returned. All fields are loaded with their
// specified defaults when no environment variable is provided.
func Load() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return cfg, err
	}
	return cfg, nil
}
