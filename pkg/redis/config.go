package redis

import "time"

// Config describes a Redis connection. An empty ConnectionURL means Redis is
// not configured.
type Config struct {
	ConnectionURL  string        `env:"REDIS_URL"`                              // redis://:password@localhost:6379/0
	KeyPrefix      string        `env:"REDIS_KEY_PREFIX" envDefault:"docval:"`  // Prepended to every key written by docval.
	RetryAttempts  int           `env:"REDIS_RETRY_ATTEMPTS" envDefault:"3"`    // Connection attempts before giving up.
	RetryInterval  time.Duration `env:"REDIS_RETRY_INTERVAL" envDefault:"2s"`   // Pause between attempts.
	ConnectTimeout time.Duration `env:"REDIS_CONNECT_TIMEOUT" envDefault:"30s"` // Upper bound for the whole Connect call.
}

// Enabled reports whether a connection URL is set.
func (c Config) Enabled() bool {
	return c.ConnectionURL != ""
}
