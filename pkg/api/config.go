package api

import "time"

// Config tunes the HTTP API.
type Config struct {
	MaxBodySize      int64         `env:"API_MAX_BODY_SIZE" envDefault:"1048576"` // Bytes accepted per request body.
	ReadinessTimeout time.Duration `env:"API_READINESS_TIMEOUT" envDefault:"2s"`
}

const defaultMaxBodySize = 1 << 20

func (c Config) withDefaults() Config {
	if c.MaxBodySize <= 0 {
		c.MaxBodySize = defaultMaxBodySize
	}
	if c.ReadinessTimeout <= 0 {
		c.ReadinessTimeout = 2 * time.Second
	}
	return c
}
