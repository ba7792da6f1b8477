package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/go-json-experiment/json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/docval/pkg/config"
	"github.com/dmitrymomot/docval/pkg/logger"
	"github.com/dmitrymomot/docval/pkg/ruleset"
)

const signupRules = `
name: signup
rules:
  email: [required, email]
  age: [integer, [min, 18]]
`

func writeFile(t *testing.T, dir, name, data string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(data), 0o600))
	return path
}

func run(t *testing.T, stdin string, args ...string) (int, string, string) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	code := execute(context.Background(), args, strings.NewReader(stdin), &stdout, &stderr)
	return code, stdout.String(), stderr.String()
}

func TestValidateCommand(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	rules := writeFile(t, dir, "signup.yaml", signupRules)
	valid := writeFile(t, dir, "valid.json", `{"email": "user@example.com", "age": 30}`)
	invalid := writeFile(t, dir, "invalid.yml", "email: nope\nage: 12\n")

	t.Run("valid document", func(t *testing.T) {
		t.Parallel()
		code, stdout, _ := run(t, "", "validate", "--rules", rules, valid)
		assert.Equal(t, exitValid, code)
		assert.Contains(t, stdout, "valid signup")
	})

	t.Run("invalid document", func(t *testing.T) {
		t.Parallel()
		code, stdout, stderr := run(t, "", "validate", "-r", rules, invalid)
		assert.Equal(t, exitInvalid, code)
		assert.Empty(t, stderr)
		assert.Contains(t, stdout, "invalid signup")
		assert.Contains(t, stdout, "age:")
		assert.Contains(t, stdout, "(min)")
		assert.Contains(t, stdout, "(email)")
	})

	t.Run("json output from stdin", func(t *testing.T) {
		t.Parallel()
		code, stdout, _ := run(t, `{"email": "user@example.com", "age": "x"}`,
			"validate", "--rules", rules, "--output", "json", "-")
		assert.Equal(t, exitInvalid, code)

		var res struct {
			Valid  bool                        `json:"valid"`
			Errors map[string][]map[string]any `json:"errors"`
		}
		require.NoError(t, json.Unmarshal([]byte(stdout), &res))
		assert.False(t, res.Valid)
		assert.Contains(t, res.Errors, "age")
		assert.NotContains(t, res.Errors, "email")
	})

	t.Run("format override", func(t *testing.T) {
		t.Parallel()
		code, _, _ := run(t, "email: user@example.com\nage: 40\n",
			"validate", "--rules", rules, "--format", "yaml")
		assert.Equal(t, exitValid, code)
	})

	t.Run("ruleset format override", func(t *testing.T) {
		t.Parallel()
		path := writeFile(t, t.TempDir(), "rules.txt", `{"email": ["required"]}`)
		code, stdout, _ := run(t, `{}`, "validate", "--rules", path, "--ruleset-format", "json")
		assert.Equal(t, exitInvalid, code)
		assert.Contains(t, stdout, "invalid rules")
	})

	t.Run("missing rules flag", func(t *testing.T) {
		t.Parallel()
		code, _, stderr := run(t, "{}", "validate")
		assert.Equal(t, exitUsage, code)
		assert.Contains(t, stderr, "rules")
	})

	t.Run("rules that do not compile", func(t *testing.T) {
		t.Parallel()
		path := writeFile(t, t.TempDir(), "broken.json", `{"email": ["no_such_rule"]}`)
		code, _, stderr := run(t, "{}", "validate", "--rules", path)
		assert.Equal(t, exitUsage, code)
		assert.Contains(t, stderr, "no_such_rule")
	})

	t.Run("malformed document", func(t *testing.T) {
		t.Parallel()
		code, _, stderr := run(t, "{", "validate", "--rules", rules)
		assert.Equal(t, exitUsage, code)
		assert.Contains(t, stderr, "invalid document")
	})

	t.Run("unknown output", func(t *testing.T) {
		t.Parallel()
		code, _, _ := run(t, "{}", "validate", "--rules", rules, "-o", "xml")
		assert.Equal(t, exitUsage, code)
	})
}

func TestCheckCommand(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	good := writeFile(t, dir, "signup.yaml", signupRules)
	bad := writeFile(t, dir, "broken.json", `{"age": [["between", 1]]}`)

	code, stdout, _ := run(t, "", "check", good)
	assert.Equal(t, exitValid, code)
	assert.Contains(t, stdout, "ok "+good+" (signup, 2 fields)")

	code, stdout, stderr := run(t, "", "check", good, bad)
	assert.Equal(t, exitUsage, code)
	assert.Contains(t, stdout, "FAIL "+bad)
	assert.Contains(t, stderr, "1 of 2 rule sets failed")

	code, _, _ = run(t, "", "check")
	assert.Equal(t, exitUsage, code)
}

func TestVersionCommand(t *testing.T) {
	t.Parallel()

	code, stdout, _ := run(t, "", "version")
	assert.Equal(t, exitValid, code)
	assert.True(t, strings.HasPrefix(stdout, "docval version "))
}

func TestServeConfig(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "signup.yaml", signupRules)

	t.Setenv("DOCVAL_ENV", "staging")
	t.Setenv("DOCVAL_RULESETS_DIR", dir)
	t.Setenv("DOCVAL_HTTP_ADDR", ":9090")
	t.Setenv("DOCVAL_LOG_LEVEL", "debug")
	config.Reset()
	t.Cleanup(config.Reset)

	var cfg serveConfig
	require.NoError(t, config.LoadWithPrefix(&cfg, config.Prefix))
	assert.Equal(t, "staging", cfg.Env)
	assert.Equal(t, ":9090", cfg.HTTP.Addr)
	assert.Equal(t, dir, cfg.Rulesets.Dir)
	assert.Equal(t, 128, cfg.CacheSize)
	assert.False(t, cfg.Redis.Enabled())

	_, env, err := newLogger(cfg)
	require.NoError(t, err)
	assert.True(t, env.IsStaging())

	t.Run("directory store", func(t *testing.T) {
		var reloaded []string
		backend, err := openStore(context.Background(), cfg, logger.Discard(), func(changed []string) {
			reloaded = append(reloaded, changed...)
		})
		require.NoError(t, err)
		defer backend.close()

		require.NotNil(t, backend.dir)
		names, err := backend.store.List(context.Background())
		require.NoError(t, err)
		assert.Equal(t, []string{"signup"}, names)
		assert.Equal(t, []string{"signup"}, reloaded)
	})

	t.Run("memory store", func(t *testing.T) {
		mem := cfg
		mem.Rulesets.Dir = ""
		backend, err := openStore(context.Background(), mem, logger.Discard(), nil)
		require.NoError(t, err)
		defer backend.close()

		assert.Nil(t, backend.dir)
		_, ok := backend.store.(*ruleset.MemoryStore)
		assert.True(t, ok)
	})

	t.Run("unknown environment", func(t *testing.T) {
		bad := cfg
		bad.Env = "moon"
		_, _, err := newLogger(bad)
		require.Error(t, err)
	})
}
