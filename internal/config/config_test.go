package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/abacus/internal/config"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := config.LoadWithEnv("", nil)
	require.NoError(t, err)
	assert.Equal(t, config.Default(), cfg)

	cfg, err = config.LoadWithEnv(filepath.Join(t.TempDir(), "missing.yaml"), nil)
	require.NoError(t, err)
	assert.Equal(t, "deg", cfg.AngleMode)
	assert.Equal(t, "scientific", cfg.Keymap)
	assert.Equal(t, config.BackendMemory, cfg.Store.Backend)
	assert.Equal(t, 8080, cfg.HTTP.Port)
	assert.Equal(t, "info", cfg.Log.Level)
}

func TestLoad_YAML(t *testing.T) {
	path := writeFile(t, "abacus.yaml", `
angle_mode: rad
keymap: basic
store:
  backend: redis
  redis:
    addr: redis:6379
    db: 2
    ttl: 30m
http:
  port: 9090
`)
	cfg, err := config.LoadWithEnv(path, nil)
	require.NoError(t, err)

	assert.Equal(t, "rad", cfg.AngleMode)
	assert.Equal(t, "basic", cfg.Keymap)
	assert.Equal(t, config.BackendRedis, cfg.Store.Backend)
	assert.Equal(t, "redis:6379", cfg.Store.Redis.Addr)
	assert.Equal(t, 2, cfg.Store.Redis.DB)
	assert.Equal(t, 30*time.Minute, cfg.Store.Redis.TTL)
	assert.Equal(t, "abacus:session:", cfg.Store.Redis.Prefix, "unset keys keep defaults")
	assert.Equal(t, 9090, cfg.HTTP.Port)
}

func TestLoad_JSON(t *testing.T) {
	path := writeFile(t, "abacus.json", `{"store": {"backend": "file", "dir": "/tmp/s"}}`)
	cfg, err := config.LoadWithEnv(path, nil)
	require.NoError(t, err)
	assert.Equal(t, config.BackendFile, cfg.Store.Backend)
	assert.Equal(t, "/tmp/s", cfg.Store.Dir)
}

func TestLoad_EnvOverrides(t *testing.T) {
	path := writeFile(t, "abacus.yaml", "http:\n  port: 9090\n")
	cfg, err := config.LoadWithEnv(path, []string{
		"ABACUS_HTTP_PORT=7070",
		"ABACUS_ANGLE_MODE=rad",
		"ABACUS_STORE_BACKEND=redis",
		"ABACUS_STORE_REDIS_ADDR=cache:6379",
		"ABACUS_STORE_REDIS_TTL=1h",
		"ABACUS_LOG_LEVEL=debug",
		"ABACUS_MAX_INPUT_SIZE=10",
		"HOME=/root",
	})
	require.NoError(t, err)

	assert.Equal(t, 7070, cfg.HTTP.Port)
	assert.Equal(t, "rad", cfg.AngleMode)
	assert.Equal(t, config.BackendRedis, cfg.Store.Backend)
	assert.Equal(t, "cache:6379", cfg.Store.Redis.Addr)
	assert.Equal(t, time.Hour, cfg.Store.Redis.TTL)
	assert.Equal(t, "debug", cfg.Log.Level)
}

func TestLoad_Invalid(t *testing.T) {
	cases := map[string]string{
		"angle":   "angle_mode: grad\n",
		"keymap":  "keymap: programmer\n",
		"backend": "store:\n  backend: s3\n",
		"port":    "http:\n  port: 70000\n",
		"unknown": "colour: blue\n",
		"syntax":  "angle_mode: [\n",
	}
	for name, content := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := config.LoadWithEnv(writeFile(t, "abacus.yaml", content), nil)
			assert.Error(t, err)
		})
	}
}
