package configs

import "time"

// HTTP configures the API server that fronts the ad decision service and
// the impression pipeline.
type HTTP struct {
	Port uint16 `env:"PORT" envDefault:"8080"`
	// ReadHeaderTimeout guards against slow clients holding connections.
	ReadHeaderTimeout time.Duration `env:"READ_HEADER_TIMEOUT" envDefault:"5s"`
	// ShutdownTimeout bounds graceful shutdown of in-flight requests.
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT" envDefault:"5s"`
}
