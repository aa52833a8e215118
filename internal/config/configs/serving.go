package configs

import "time"

// Cache controls the lifetime of catalog entries written to the fast cache.
// Every campaign, creative and ranked-set key receives the same TTL so a
// stalled synchronizer degrades towards no-fill instead of serving stale ads.
type Cache struct {
	TTL time.Duration `env:"TTL" envDefault:"1h"`
}

// Sync configures the cache synchronizer.
type Sync struct {
	// Interval between two full synchronization cycles.
	Interval time.Duration `env:"INTERVAL" envDefault:"5s"`
	// Timeout bounds a single cycle, reads and writes included.
	Timeout time.Duration `env:"TIMEOUT" envDefault:"10s"`
	// NotifyBuffer is the capacity of the targeted-sync queue.
	NotifyBuffer int `env:"NOTIFY_BUFFER" envDefault:"256"`
	// Listen enables the Postgres LISTEN/NOTIFY change feed.
	Listen        bool   `env:"LISTEN" envDefault:"true"`
	ListenChannel string `env:"LISTEN_CHANNEL" envDefault:"catalog_changes"`
}

// Decision configures the ad decision service.
type Decision struct {
	// Timeout is the deadline applied to all cache reads of one request.
	Timeout time.Duration `env:"TIMEOUT" envDefault:"50ms"`
	// PageSize is how many ranked campaigns are read from the cache per
	// round trip. The whole ranked set is walked before no-fill.
	PageSize int `env:"PAGE_SIZE" envDefault:"50"`
}

// Batch configures the impression batching pipeline.
type Batch struct {
	Size         int           `env:"SIZE" envDefault:"100"`
	Interval     time.Duration `env:"INTERVAL" envDefault:"5s"`
	MaxQueue     int           `env:"MAX_QUEUE" envDefault:"100000"`
	MaxBackoff   time.Duration `env:"MAX_BACKOFF" envDefault:"1m"`
	FlushTimeout time.Duration `env:"FLUSH_TIMEOUT" envDefault:"10s"`
}
