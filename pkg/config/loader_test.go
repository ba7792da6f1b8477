package config_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/docval/pkg/config"
)

type defaultsConfig struct {
	Addr    string        `env:"TEST_DEFAULTS_ADDR" envDefault:":8080"`
	Timeout time.Duration `env:"TEST_DEFAULTS_TIMEOUT" envDefault:"5s"`
	Debug   bool          `env:"TEST_DEFAULTS_DEBUG" envDefault:"false"`
}

type prefixedConfig struct {
	Name string `env:"TEST_PREFIXED_NAME" envDefault:"unset"`
}

type requiredConfig struct {
	Token string `env:"TEST_REQUIRED_TOKEN,required"`
}

type cachedConfig struct {
	Value string `env:"TEST_CACHED_VALUE"`
}

type fileConfig struct {
	Value string   `env:"TEST_FILE_VALUE"`
	List  []string `env:"TEST_FILE_LIST" envSeparator:","`
}

func TestLoad(t *testing.T) {
	t.Run("applies defaults", func(t *testing.T) {
		config.Reset()

		var cfg defaultsConfig
		require.NoError(t, config.Load(&cfg))

		assert.Equal(t, ":8080", cfg.Addr)
		assert.Equal(t, 5*time.Second, cfg.Timeout)
		assert.False(t, cfg.Debug)
	})

	t.Run("reads environment values", func(t *testing.T) {
		config.Reset()
		t.Setenv("TEST_DEFAULTS_ADDR", ":9090")
		t.Setenv("TEST_DEFAULTS_DEBUG", "true")

		var cfg defaultsConfig
		require.NoError(t, config.Load(&cfg))

		assert.Equal(t, ":9090", cfg.Addr)
		assert.True(t, cfg.Debug)
	})

	t.Run("reports missing required values", func(t *testing.T) {
		config.Reset()

		var cfg requiredConfig
		err := config.Load(&cfg)
		assert.ErrorIs(t, err, config.ErrParsingConfig)
	})

	t.Run("rejects nil pointers", func(t *testing.T) {
		assert.ErrorIs(t, config.Load[defaultsConfig](nil), config.ErrNilPointer)
	})

	t.Run("caches the first parse", func(t *testing.T) {
		config.Reset()
		t.Setenv("TEST_CACHED_VALUE", "first")

		var first cachedConfig
		require.NoError(t, config.Load(&first))

		t.Setenv("TEST_CACHED_VALUE", "second")
		var second cachedConfig
		require.NoError(t, config.Load(&second))
		assert.Equal(t, "first", second.Value)

		config.Reset()
		var third cachedConfig
		require.NoError(t, config.Load(&third))
		assert.Equal(t, "second", third.Value)
	})
}

func TestLoadWithPrefix(t *testing.T) {
	config.Reset()
	t.Setenv("TEST_PREFIXED_NAME", "bare")
	t.Setenv("DOCVAL_TEST_PREFIXED_NAME", "prefixed")

	var prefixed prefixedConfig
	require.NoError(t, config.LoadWithPrefix(&prefixed, config.Prefix))
	assert.Equal(t, "prefixed", prefixed.Name)

	var bare prefixedConfig
	require.NoError(t, config.Load(&bare))
	assert.Equal(t, "bare", bare.Name)
}

func TestLoadEnv(t *testing.T) {
	t.Run("loads an explicit file", func(t *testing.T) {
		config.Reset()
		// godotenv does not override variables that are already set.
		t.Setenv("DOCVAL_TEST_FILE_VALUE", "from_env")

		require.NoError(t, config.LoadEnv("testdata/.env.test"))

		var cfg fileConfig
		require.NoError(t, config.LoadWithPrefix(&cfg, config.Prefix))
		assert.Equal(t, "from_env", cfg.Value)
		assert.Equal(t, []string{"a", "b", "c"}, cfg.List)
	})

	t.Run("fails on missing files", func(t *testing.T) {
		err := config.LoadEnv("testdata/does-not-exist.env")
		assert.ErrorIs(t, err, config.ErrLoadingEnvFile)
	})
}
