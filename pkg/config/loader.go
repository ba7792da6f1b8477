package config

import (
	"errors"
	"fmt"
	"reflect"
	"sync"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Prefix is the environment prefix used by the docval binaries.
const Prefix = "DOCVAL_"

// cache holds one parsed copy per configuration type and prefix.
type cache struct {
	mu     sync.Mutex
	values map[string]any
}

var (
	loaded = &cache{values: make(map[string]any)}

	defaultEnvLoaded sync.Once
)

// Load parses environment variables into v according to its env tags. The
// default .env file is read once, if present. Each configuration type is
// parsed once and served from cache afterwards.
//
//	type ServerConfig struct {
//		Addr string `env:"HTTP_ADDR" envDefault:":8080"`
//	}
//
//	var cfg ServerConfig
//	if err := config.Load(&cfg); err != nil {
//		return err
//	}
func Load[T any](v *T) error {
	return load(v, "")
}

// LoadWithPrefix is Load with every env tag prefixed, so a field tagged
// `env:"HTTP_ADDR"` loaded with prefix "DOCVAL_" reads DOCVAL_HTTP_ADDR.
func LoadWithPrefix[T any](v *T, prefix string) error {
	return load(v, prefix)
}

// MustLoad works like Load but panics on failure.
func MustLoad[T any](v *T) {
	if err := Load(v); err != nil {
		panic(fmt.Sprintf("failed to load required configuration: %v", err))
	}
}

// LoadEnv reads the given .env files into the process environment. Variables
// that are already set are left untouched.
func LoadEnv(paths ...string) error {
	if err := godotenv.Load(paths...); err != nil {
		return errors.Join(ErrLoadingEnvFile, err)
	}
	return nil
}

// Reset drops every cached configuration. Tests use it after changing the
// environment.
func Reset() {
	loaded.mu.Lock()
	defer loaded.mu.Unlock()
	loaded.values = make(map[string]any)
}

func load[T any](v *T, prefix string) error {
	defaultEnvLoaded.Do(func() {
		// The default .env file is optional.
		_ = godotenv.Load()
	})
	if v == nil {
		return ErrNilPointer
	}

	key := prefix + typeName[T]()

	loaded.mu.Lock()
	defer loaded.mu.Unlock()

	if cached, ok := loaded.values[key]; ok {
		*v = cached.(T)
		return nil
	}

	var parsed T
	if err := env.ParseWithOptions(&parsed, env.Options{Prefix: prefix}); err != nil {
		return errors.Join(ErrParsingConfig, err)
	}
	loaded.values[key] = parsed
	*v = parsed
	return nil
}

func typeName[T any]() string {
	t := reflect.TypeFor[T]()
	return t.PkgPath() + "." + t.String()
}
