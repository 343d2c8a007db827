// Package config loads abacus host configuration from a YAML or JSON file
// with ABACUS_* environment overrides.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/mitchellh/mapstructure"
	"gopkg.in/yaml.v3"
)

// EnvPrefix marks environment variables that override file values.
// ABACUS_STORE_REDIS_ADDR maps to store.redis.addr.
const EnvPrefix = "ABACUS_"

// Store backends.
const (
	BackendMemory = "memory"
	BackendFile   = "file"
	BackendRedis  = "redis"
)

// Config is the host configuration shared by the CLI commands.
type Config struct {
	AngleMode string      `mapstructure:"angle_mode" yaml:"angle_mode" json:"angle_mode"`
	Keymap    string      `mapstructure:"keymap" yaml:"keymap" json:"keymap"`
	Store     StoreConfig `mapstructure:"store" yaml:"store" json:"store"`
	HTTP      HTTPConfig  `mapstructure:"http" yaml:"http" json:"http"`
	Log       LogConfig   `mapstructure:"log" yaml:"log" json:"log"`
}

type StoreConfig struct {
	Backend string      `mapstructure:"backend" yaml:"backend" json:"backend"`
	Dir     string      `mapstructure:"dir" yaml:"dir" json:"dir"`
	Redis   RedisConfig `mapstructure:"redis" yaml:"redis" json:"redis"`
}

type RedisConfig struct {
	Addr     string        `mapstructure:"addr" yaml:"addr" json:"addr"`
	Password string        `mapstructure:"password" yaml:"password" json:"password"`
	DB       int           `mapstructure:"db" yaml:"db" json:"db"`
	Prefix   string        `mapstructure:"prefix" yaml:"prefix" json:"prefix"`
	TTL      time.Duration `mapstructure:"ttl" yaml:"ttl" json:"ttl"`
}

type HTTPConfig struct {
	Port int `mapstructure:"port" yaml:"port" json:"port"`
}

type LogConfig struct {
	Level string `mapstructure:"level" yaml:"level" json:"level"`
}

// Default returns the configuration used when no file is present.
func Default() Config {
	return Config{
		AngleMode: "deg",
		Keymap:    "scientific",
		Store: StoreConfig{
			Backend: BackendMemory,
			Dir:     ".abacus/sessions",
			Redis: RedisConfig{
				Addr:   "localhost:6379",
				Prefix: "abacus:session:",
			},
		},
		HTTP: HTTPConfig{Port: 8080},
		Log:  LogConfig{Level: "info"},
	}
}

// Load reads path (if it exists), applies the environment and decodes the result
// over the defaults. An empty path or a missing file yields the defaults plus env.
func Load(path string) (Config, error) {
	return LoadWithEnv(path, os.Environ())
}

// LoadWithEnv is Load with an explicit environment, as returned by os.Environ.
func LoadWithEnv(path string, environ []string) (Config, error) {
	raw, err := readFile(path)
	if err != nil {
		return Config{}, err
	}
	applyEnv(raw, environ)

	cfg := Default()
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           &cfg,
		WeaklyTypedInput: true,
		ErrorUnused:      true,
		DecodeHook:       mapstructure.StringToTimeDurationHookFunc(),
	})
	if err != nil {
		return Config{}, err
	}
	if err := dec.Decode(raw); err != nil {
		return Config{}, fmt.Errorf("invalid config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks enumerated values.
func (c Config) Validate() error {
	switch c.AngleMode {
	case "deg", "rad":
	default:
		return fmt.Errorf("invalid angle_mode %q (want deg or rad)", c.AngleMode)
	}
	switch c.Keymap {
	case "basic", "scientific":
	default:
		return fmt.Errorf("invalid keymap %q (want basic or scientific)", c.Keymap)
	}
	switch c.Store.Backend {
	case BackendMemory, BackendFile, BackendRedis:
	default:
		return fmt.Errorf("invalid store.backend %q", c.Store.Backend)
	}
	if c.HTTP.Port < 0 || c.HTTP.Port > 65535 {
		return fmt.Errorf("invalid http.port %d", c.HTTP.Port)
	}
	return nil
}

func readFile(path string) (map[string]any, error) {
	raw := map[string]any{}
	if path == "" {
		return raw, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return raw, nil
		}
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	if strings.ToLower(filepath.Ext(path)) == ".json" {
		if err := json.Unmarshal(data, &raw); err != nil {
			return nil, fmt.Errorf("failed to parse %s: %w", filepath.Base(path), err)
		}
	} else if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", filepath.Base(path), err)
	}
	if raw == nil {
		raw = map[string]any{}
	}
	return raw, nil
}

// applyEnv writes ABACUS_A_B_C=v into raw["a"]["b_c"] or raw["a_b"]["c"],
// whichever names a known section. Unknown sections are ignored.
func applyEnv(raw map[string]any, environ []string) {
	for _, kv := range environ {
		key, value, ok := strings.Cut(kv, "=")
		if !ok || !strings.HasPrefix(key, EnvPrefix) {
			continue
		}
		path := envPath(strings.ToLower(strings.TrimPrefix(key, EnvPrefix)))
		if path == nil {
			continue
		}
		setPath(raw, path, value)
	}
}

var sections = map[string][]string{
	"store.redis": {"addr", "password", "db", "prefix", "ttl"},
	"store":       {"backend", "dir"},
	"http":        {"port"},
	"log":         {"level"},
	"":            {"angle_mode", "keymap"},
}

func envPath(name string) []string {
	for section, fields := range sections {
		prefix := strings.ReplaceAll(section, ".", "_")
		rest := name
		if prefix != "" {
			var ok bool
			rest, ok = strings.CutPrefix(name, prefix+"_")
			if !ok {
				continue
			}
		}
		for _, f := range fields {
			if rest == f {
				if section == "" {
					return []string{f}
				}
				return append(strings.Split(section, "."), f)
			}
		}
	}
	return nil
}

func setPath(raw map[string]any, path []string, value string) {
	m := raw
	for _, p := range path[:len(path)-1] {
		next, ok := m[p].(map[string]any)
		if !ok {
			next = map[string]any{}
			m[p] = next
		}
		m = next
	}
	m[path[len(path)-1]] = value
}
