package rigtune

import (
	"time"
)

// Options configures the dashboard service.
type Options struct {
	ListenAddr  string
	CatalogFile string // optional YAML seed; empty uses the embedded catalog
	StaticDir   string // optional built client to serve at /

	AllowedOrigins []string

	RateLimit RateLimitConfig
	Log       LogConfig
	HTTP      HTTPConfig
}

type RateLimitConfig struct {
	RequestsPerSecond int // <= 0 disables limiting
	Burst             int
}

type LogConfig struct {
	Level  string
	Format string // "text" or "json"
}

type HTTPConfig struct {
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	IdleTimeout     time.Duration
	ShutdownTimeout time.Duration
}

// DefaultOptions gives baseline sensible defaults for local dev.
func DefaultOptions() Options {
	opts := Options{
		ListenAddr:     ":3000",
		AllowedOrigins: []string{"*"},
	}
	opts.RateLimit = RateLimitConfig{
		RequestsPerSecond: 50,
		Burst:             100,
	}
	opts.Log = LogConfig{
		Level:  "info",
		Format: "text",
	}
	opts.HTTP = HTTPConfig{
		ReadTimeout:     10 * time.Second,
		WriteTimeout:    10 * time.Second,
		IdleTimeout:     60 * time.Second,
		ShutdownTimeout: 5 * time.Second,
	}
	return opts
}
