// Package settings persists user preferences for the interactive calculator:
// theme, key layout and starting angle mode.
package settings

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/aretw0/abacus"
	"github.com/aretw0/abacus/pkg/domain"
	"github.com/aretw0/abacus/pkg/keymap"
)

// FileName is the settings file inside the abacus config directory.
const FileName = "settings.yaml"

// Settings mirrors the preferences toggled in the calculator UI.
type Settings struct {
	DarkMode   bool             `yaml:"dark_mode" json:"dark_mode"`
	Scientific bool             `yaml:"scientific" json:"scientific"`
	AngleMode  domain.AngleMode `yaml:"angle_mode" json:"angle_mode"`
}

// Default returns the preferences of a fresh install.
func Default() Settings {
	return Settings{
		DarkMode:   true,
		Scientific: true,
		AngleMode:  domain.AngleDegrees,
	}
}

// DefaultPath returns <user config dir>/abacus/settings.yaml.
func DefaultPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("failed to locate config dir: %w", err)
	}
	return filepath.Join(dir, "abacus", FileName), nil
}

// Load reads settings from path. A missing file yields Default.
func Load(path string) (Settings, error) {
	s := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return s, nil
		}
		return s, fmt.Errorf("failed to read settings: %w", err)
	}
	if err := yaml.Unmarshal(data, &s); err != nil {
		return Default(), fmt.Errorf("failed to parse settings: %w", err)
	}
	if !s.AngleMode.Valid() {
		return Default(), fmt.Errorf("%w: %q", domain.ErrInvalidAngleMode, s.AngleMode)
	}
	return s, nil
}

// Save writes settings to path, creating parent directories.
func Save(path string, s Settings) error {
	if !s.AngleMode.Valid() {
		return fmt.Errorf("%w: %q", domain.ErrInvalidAngleMode, s.AngleMode)
	}
	data, err := yaml.Marshal(s)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create settings dir: %w", err)
	}
	return os.WriteFile(path, data, 0644)
}

// Profile returns the key layout the settings select.
func (s Settings) Profile() keymap.Profile {
	if s.Scientific {
		return keymap.ProfileScientific
	}
	return keymap.ProfileBasic
}

// Options converts the settings into calculator options.
func (s Settings) Options() []abacus.Option {
	return []abacus.Option{
		abacus.WithKeymap(s.Profile()),
		abacus.WithAngleMode(s.AngleMode),
	}
}

// Keys lists the names accepted by Get and Set.
func Keys() []string {
	return []string{"dark_mode", "scientific", "angle_mode"}
}

// Get returns one setting as text.
func (s Settings) Get(key string) (string, error) {
	switch key {
	case "dark_mode":
		return strconv.FormatBool(s.DarkMode), nil
	case "scientific":
		return strconv.FormatBool(s.Scientific), nil
	case "angle_mode":
		return string(s.AngleMode), nil
	}
	return "", fmt.Errorf("unknown setting %q (valid: %s)", key, strings.Join(Keys(), ", "))
}

// Set parses value into one setting.
func (s *Settings) Set(key, value string) error {
	switch key {
	case "dark_mode", "scientific":
		b, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("invalid value for %s: %q", key, value)
		}
		if key == "dark_mode" {
			s.DarkMode = b
		} else {
			s.Scientific = b
		}
		return nil
	case "angle_mode":
		mode, err := domain.ParseAngleMode(value)
		if err != nil {
			return fmt.Errorf("%w: %q", err, value)
		}
		s.AngleMode = mode
		return nil
	}
	return fmt.Errorf("unknown setting %q (valid: %s)", key, strings.Join(Keys(), ", "))
}
