// Package config loads typed configuration from environment variables.
//
// It wraps github.com/caarlos0/env/v11 for struct-tag parsing and
// github.com/joho/godotenv for .env files. The default .env file in the
// working directory is read once on first use; LoadEnv reads additional
// files explicitly.
//
// Every configuration type is parsed once per prefix and cached, so
// components can call Load from anywhere without paying for repeated parsing
// or seeing different values. Reset clears the cache.
//
// # Usage
//
//	type Config struct {
//		Addr        string        `env:"HTTP_ADDR" envDefault:":8080"`
//		MaxBodySize int64         `env:"MAX_BODY_SIZE" envDefault:"1048576"`
//		ReadTimeout time.Duration `env:"HTTP_READ_TIMEOUT" envDefault:"10s"`
//	}
//
//	var cfg Config
//	if err := config.LoadWithPrefix(&cfg, config.Prefix); err != nil {
//		return err // wraps ErrParsingConfig
//	}
//
// With the "DOCVAL_" prefix the fields above read DOCVAL_HTTP_ADDR,
// DOCVAL_MAX_BODY_SIZE and DOCVAL_HTTP_READ_TIMEOUT.
package config
