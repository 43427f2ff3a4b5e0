package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// Config holds all pokedex configuration.
type Config struct {
	API     APIConfig     `yaml:"api"`
	Lookup  LookupConfig  `yaml:"lookup"`
	Display DisplayConfig `yaml:"display"`
	Cache   CacheConfig   `yaml:"cache"`
	Logging LoggingConfig `yaml:"logging"`
}

// APIConfig configures the remote data gateway.
type APIConfig struct {
	BaseURL   string        `yaml:"base_url" validate:"required,url"`
	MaxID     int           `yaml:"max_id" validate:"min=1"`
	UserAgent string        `yaml:"user_agent"`
	Breaker   BreakerConfig `yaml:"breaker"`
}

// BreakerConfig tunes the circuit breaker in front of the API.
type BreakerConfig struct {
	Enabled     bool          `yaml:"enabled"`
	MaxFailures uint32        `yaml:"max_failures" validate:"min=1"`
	Cooldown    time.Duration `yaml:"cooldown"`
}

// LookupConfig configures the request orchestrator.
type LookupConfig struct {
	// Start is the id or name loaded when the TUI opens.
	Start string `yaml:"start" validate:"required"`
	// StrictSecondary hides the record when species or evolution data fails.
	StrictSecondary bool `yaml:"strict_secondary"`
}

// DisplayConfig configures rendering.
type DisplayConfig struct {
	Theme       string `yaml:"theme" validate:"oneof=classic neon mono"`
	Sprites     bool   `yaml:"sprites"`
	SpriteWidth int    `yaml:"sprite_width" validate:"min=8,max=96"`
	StageWidth  int    `yaml:"stage_width" validate:"min=8,max=48"`
}

// CacheConfig configures the on-disk asset cache.
type CacheConfig struct {
	Name         string   `yaml:"name" validate:"required"`
	Dir          string   `yaml:"dir" validate:"required"`
	WriteThrough bool     `yaml:"write_through"`
	Manifest     []string `yaml:"manifest" validate:"dive,url"`
}

// LoggingConfig configures the zap logger.
type LoggingConfig struct {
	Level string `yaml:"level" validate:"oneof=debug info warn error"`
	File  string `yaml:"file"`
}

var validate = validator.New()

// DefaultDir is ~/.pokedex, falling back to the working directory.
func DefaultDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".pokedex"
	}
	return filepath.Join(home, ".pokedex")
}

// DefaultPath is the config file read when no --config flag is given.
func DefaultPath() string { return filepath.Join(DefaultDir(), "config.yaml") }

// DefaultConfig returns a config that works against the public PokeAPI.
func DefaultConfig() *Config {
	dir := DefaultDir()
	return &Config{
		API: APIConfig{
			BaseURL:   "https://pokeapi.co/api/v2",
			MaxID:     1025,
			UserAgent: "pokedex-tui",
			Breaker: BreakerConfig{
				Enabled:     true,
				MaxFailures: 5,
				Cooldown:    30 * time.Second,
			},
		},
		Lookup: LookupConfig{Start: "1"},
		Display: DisplayConfig{
			Theme:       "classic",
			Sprites:     true,
			SpriteWidth: 40,
			StageWidth:  20,
		},
		Cache: CacheConfig{
			Name:         "pokedex-v1",
			Dir:          filepath.Join(dir, "cache"),
			WriteThrough: true,
		},
		Logging: LoggingConfig{
			Level: "info",
			File:  filepath.Join(dir, "pokedex.log"),
		},
	}
}

// Load reads path over the defaults, applies env overrides and validates.
// A missing file is not an error.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()
	if path != "" {
		b, err := os.ReadFile(path)
		switch {
		case errors.Is(err, os.ErrNotExist):
		case err != nil:
			return nil, fmt.Errorf("read config: %w", err)
		default:
			if err := yaml.Unmarshal(b, cfg); err != nil {
				return nil, fmt.Errorf("parse config: %w", err)
			}
		}
	}
	cfg.applyEnvOverrides()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Save writes the config as YAML, creating parent directories.
func (c *Config) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("mkdir: %w", err)
	}
	b, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("yaml marshal: %w", err)
	}
	if err := os.WriteFile(path, b, 0o644); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}

// Validate checks struct tags.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

func (c *Config) applyEnvOverrides() {
	if v := strings.TrimSpace(os.Getenv("POKEDEX_API_URL")); v != "" {
		c.API.BaseURL = strings.TrimRight(v, "/")
	}
	if v := strings.TrimSpace(os.Getenv("POKEDEX_MAX_ID")); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.API.MaxID = n
		}
	}
	if v := strings.TrimSpace(os.Getenv("POKEDEX_THEME")); v != "" {
		c.Display.Theme = strings.ToLower(v)
	}
	if v := strings.TrimSpace(os.Getenv("POKEDEX_LOG_LEVEL")); v != "" {
		c.Logging.Level = strings.ToLower(v)
	}
	if v := strings.TrimSpace(os.Getenv("POKEDEX_CACHE_DIR")); v != "" {
		c.Cache.Dir = v
	}
}
