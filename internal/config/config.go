// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package config loads and persists zentra's settings. Configuration lives
// in ~/.zentra/config.toml; environment variables override the file, and
// built-in defaults fill anything left unset.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/jeranaias/zentra-tui/internal/translate"
	"github.com/jeranaias/zentra-tui/internal/util"
)

// ============================================================================
// Paths
// ============================================================================

// Dir returns the zentra home directory, honoring ZENTRA_HOME for tests and
// unusual setups.
func Dir() string {
	if dir := os.Getenv("ZENTRA_HOME"); dir != "" {
		return dir
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ".zentra"
	}
	return filepath.Join(home, ".zentra")
}

// DefaultPath is where the config file lives.
func DefaultPath() string { return filepath.Join(Dir(), "config.toml") }

// ConversationsDir is where conversation history is stored.
func ConversationsDir() string { return filepath.Join(Dir(), "conversations") }

// TranslationsDB is the translation cache database.
func TranslationsDB() string { return filepath.Join(Dir(), "translations.db") }

// ============================================================================
// Config
// ============================================================================

// Config is the full settings tree.
type Config struct {
	Backend   Backend   `toml:"backend" json:"backend"`
	Delivery  Delivery  `toml:"delivery" json:"delivery"`
	Companion Companion `toml:"companion" json:"companion"`
	Language  Language  `toml:"language" json:"language"`
	Limits    Limits    `toml:"limits" json:"limits"`
	UI        UI        `toml:"ui" json:"ui"`
}

// Backend is how to reach the Zentrafuge API.
type Backend struct {
	Endpoint       string `toml:"endpoint" json:"endpoint"`
	TimeoutSeconds int    `toml:"timeout_seconds" json:"timeout_seconds"`
	Verbose        bool   `toml:"verbose" json:"verbose"`
}

// Delivery tunes the retry state machine.
type Delivery struct {
	MaxAttempts     int `toml:"max_attempts" json:"max_attempts"`
	BackoffMS       int `toml:"backoff_ms" json:"backoff_ms"`
	RedirectGraceMS int `toml:"redirect_grace_ms" json:"redirect_grace_ms"`
}

// Companion holds per-user companion settings.
type Companion struct {
	Name        string            `toml:"name" json:"name"`
	Augment     string            `toml:"augment" json:"augment"`
	Preferences map[string]string `toml:"preferences" json:"preferences"`
}

// PreferenceMap converts the preferences to the wire format the chat
// endpoint takes.
func (c Companion) PreferenceMap() map[string]any {
	if len(c.Preferences) == 0 {
		return nil
	}
	out := make(map[string]any, len(c.Preferences))
	for k, v := range c.Preferences {
		out[k] = v
	}
	return out
}

// Language selects the interface language.
type Language struct {
	Code string `toml:"code" json:"code"`
}

// Limits are the client-side send quotas and history cap.
type Limits struct {
	PerMinute  int `toml:"per_minute" json:"per_minute"`
	PerHour    int `toml:"per_hour" json:"per_hour"`
	MaxHistory int `toml:"max_history" json:"max_history"`
}

// UI configures the terminal interface.
type UI struct {
	Theme    string `toml:"theme" json:"theme"`
	Markdown bool   `toml:"markdown" json:"markdown"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Backend: Backend{
			Endpoint:       "https://api.zentrafuge.com",
			TimeoutSeconds: 30,
		},
		Delivery: Delivery{
			MaxAttempts:     3,
			BackoffMS:       1000,
			RedirectGraceMS: 2000,
		},
		Companion: Companion{
			Name:    "Cael",
			Augment: "auto",
		},
		Language: Language{Code: "en"},
		Limits: Limits{
			PerMinute:  10,
			PerHour:    50,
			MaxHistory: 200,
		},
		UI: UI{
			Theme:    "dark",
			Markdown: true,
		},
	}
}

// ============================================================================
// Load and save
// ============================================================================

// Load reads the config at path (DefaultPath when empty), layering file
// values over defaults and environment variables over both. A missing file
// is not an error; it just means defaults.
func Load(path string) (*Config, error) {
	if path == "" {
		path = DefaultPath()
	}
	cfg := Default()

	if data, err := os.ReadFile(path); err == nil {
		if strings.HasSuffix(path, ".json") {
			if err := json.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("parse %s: %w", path, err)
			}
		} else if err := toml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse %s: %w", path, err)
		}
	} else if !os.IsNotExist(err) {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}

	cfg.applyEnv()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// applyEnv layers ZENTRA_* variables over the loaded values.
func (c *Config) applyEnv() {
	if v := os.Getenv("ZENTRA_ENDPOINT"); v != "" {
		c.Backend.Endpoint = v
	}
	if v := os.Getenv("ZENTRA_LANG"); v != "" {
		c.Language.Code = v
	}
	if v := os.Getenv("ZENTRA_THEME"); v != "" {
		c.UI.Theme = v
	}
	if v := os.Getenv("ZENTRA_AUGMENT"); v != "" {
		c.Companion.Augment = v
	}
	if v := os.Getenv("ZENTRA_VERBOSE"); v == "1" || v == "true" {
		c.Backend.Verbose = true
	}
}

// Validate rejects values the rest of the program cannot work with.
func (c *Config) Validate() error {
	if c.Backend.Endpoint == "" {
		return errors.New("backend.endpoint must not be empty")
	}
	if !strings.HasPrefix(c.Backend.Endpoint, "http://") && !strings.HasPrefix(c.Backend.Endpoint, "https://") {
		return fmt.Errorf("backend.endpoint %q must be an http(s) URL", c.Backend.Endpoint)
	}
	if c.Delivery.MaxAttempts < 1 {
		return fmt.Errorf("delivery.max_attempts = %d, must be at least 1", c.Delivery.MaxAttempts)
	}
	if c.Delivery.BackoffMS < 0 || c.Delivery.RedirectGraceMS < 0 {
		return errors.New("delivery timings must not be negative")
	}
	switch c.Companion.Augment {
	case "auto", "never", "always":
	default:
		return fmt.Errorf("companion.augment %q must be auto, never, or always", c.Companion.Augment)
	}
	if !translate.Supported(c.Language.Code) {
		return fmt.Errorf("language.code %q is not supported (supported: %s)",
			c.Language.Code, strings.Join(translate.Languages(), ", "))
	}
	switch c.UI.Theme {
	case "dark", "light":
	default:
		return fmt.Errorf("ui.theme %q must be dark or light", c.UI.Theme)
	}
	return nil
}

// Save writes the config with owner-only permissions, as JSON when the
// path says so and TOML otherwise.
func (c *Config) Save(path string) error {
	if path == "" {
		path = DefaultPath()
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}

	var data []byte
	if strings.HasSuffix(path, ".json") {
		out, err := json.MarshalIndent(c, "", "  ")
		if err != nil {
			return fmt.Errorf("encode config: %w", err)
		}
		data = out
	} else {
		var buf strings.Builder
		if err := toml.NewEncoder(&buf).Encode(c); err != nil {
			return fmt.Errorf("encode config: %w", err)
		}
		data = []byte(buf.String())
	}
	return util.AtomicWriteFile(path, data, 0o600)
}

// ============================================================================
// Dot-notation access
// ============================================================================

// Keys lists every settable config key, for help output.
func Keys() []string {
	return []string{
		"backend.endpoint",
		"backend.timeout_seconds",
		"backend.verbose",
		"delivery.max_attempts",
		"delivery.backoff_ms",
		"delivery.redirect_grace_ms",
		"companion.name",
		"companion.augment",
		"language.code",
		"limits.per_minute",
		"limits.per_hour",
		"limits.max_history",
		"ui.theme",
		"ui.markdown",
	}
}

// Get returns the value at a dot-notation key.
func (c *Config) Get(key string) (string, error) {
	switch key {
	case "backend.endpoint":
		return c.Backend.Endpoint, nil
	case "backend.timeout_seconds":
		return strconv.Itoa(c.Backend.TimeoutSeconds), nil
	case "backend.verbose":
		return strconv.FormatBool(c.Backend.Verbose), nil
	case "delivery.max_attempts":
		return strconv.Itoa(c.Delivery.MaxAttempts), nil
	case "delivery.backoff_ms":
		return strconv.Itoa(c.Delivery.BackoffMS), nil
	case "delivery.redirect_grace_ms":
		return strconv.Itoa(c.Delivery.RedirectGraceMS), nil
	case "companion.name":
		return c.Companion.Name, nil
	case "companion.augment":
		return c.Companion.Augment, nil
	case "language.code":
		return c.Language.Code, nil
	case "limits.per_minute":
		return strconv.Itoa(c.Limits.PerMinute), nil
	case "limits.per_hour":
		return strconv.Itoa(c.Limits.PerHour), nil
	case "limits.max_history":
		return strconv.Itoa(c.Limits.MaxHistory), nil
	case "ui.theme":
		return c.UI.Theme, nil
	case "ui.markdown":
		return strconv.FormatBool(c.UI.Markdown), nil
	default:
		return "", fmt.Errorf("unknown config key %q", key)
	}
}

// Set updates the value at a dot-notation key, then re-validates the whole
// config. On any failure the previous value is restored.
func (c *Config) Set(key, value string) error {
	backup := *c
	var err error
	switch key {
	case "backend.endpoint":
		c.Backend.Endpoint = value
	case "backend.timeout_seconds":
		c.Backend.TimeoutSeconds, err = parseInt(key, value)
	case "backend.verbose":
		c.Backend.Verbose, err = parseBool(key, value)
	case "delivery.max_attempts":
		c.Delivery.MaxAttempts, err = parseInt(key, value)
	case "delivery.backoff_ms":
		c.Delivery.BackoffMS, err = parseInt(key, value)
	case "delivery.redirect_grace_ms":
		c.Delivery.RedirectGraceMS, err = parseInt(key, value)
	case "companion.name":
		c.Companion.Name = value
	case "companion.augment":
		c.Companion.Augment = value
	case "language.code":
		c.Language.Code = strings.ToLower(value)
	case "limits.per_minute":
		c.Limits.PerMinute, err = parseInt(key, value)
	case "limits.per_hour":
		c.Limits.PerHour, err = parseInt(key, value)
	case "limits.max_history":
		c.Limits.MaxHistory, err = parseInt(key, value)
	case "ui.theme":
		c.UI.Theme = value
	case "ui.markdown":
		c.UI.Markdown, err = parseBool(key, value)
	default:
		return fmt.Errorf("unknown config key %q", key)
	}
	if err != nil {
		*c = backup
		return err
	}
	if err := c.Validate(); err != nil {
		*c = backup
		return err
	}
	return nil
}

func parseInt(key, value string) (int, error) {
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("%s: %q is not a number", key, value)
	}
	return n, nil
}

func parseBool(key, value string) (bool, error) {
	b, err := strconv.ParseBool(value)
	if err != nil {
		return false, fmt.Errorf("%s: %q is not true or false", key, value)
	}
	return b, nil
}
