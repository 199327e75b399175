// Package config provides configuration management for the journal service.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	apperrors "trading-journal/internal/errors"
)

// Config holds all application configuration.
type Config struct {
	Server ServerConfig `mapstructure:"server"`
	Store  StoreConfig  `mapstructure:"store"`
	Coach  CoachConfig  `mapstructure:"coach"`
	Log    LogConfig    `mapstructure:"log"`
}

// ServerConfig holds HTTP server configuration.
type ServerConfig struct {
	Addr           string   `mapstructure:"addr"`
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

// StoreConfig holds persistence configuration.
type StoreConfig struct {
	DBPath    string `mapstructure:"db_path"`
	ThemePath string `mapstructure:"theme_path"`
}

// CoachConfig holds AI coach client configuration.
type CoachConfig struct {
	APIKey  string `mapstructure:"api_key"`
	BaseURL string `mapstructure:"base_url"`
	Model   string `mapstructure:"model"`
}

// LogConfig holds logging configuration.
type LogConfig struct {
	Level string `mapstructure:"level"`
}

// DefaultConfigDir returns the default configuration directory.
func DefaultConfigDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".config/trading-journal"
	}
	return filepath.Join(home, ".config", "trading-journal")
}

// Load loads configuration from the specified directory. If configDir is
// empty, the default config directory is used. A .env file in the working
// directory is honored before environment overrides are applied.
func Load(configDir string) (*Config, error) {
	if configDir == "" {
		configDir = DefaultConfigDir()
	}

	// Pick up a local .env if present, matching the deployment convention
	// of the frontend tooling.
	_ = godotenv.Load()

	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("toml")
	v.AddConfigPath(configDir)

	setDefaults(v, configDir)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("loading config.toml: %w", err)
		}
		if err := createTemplateConfig(configDir); err != nil {
			return nil, fmt.Errorf("creating config template: %w", err)
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("parsing config.toml: %w", err)
	}

	applyEnvOverrides(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper, configDir string) {
	v.SetDefault("server.addr", ":8000")
	v.SetDefault("server.allowed_origins", []string{
		"http://localhost:5173",
		"http://localhost:3000",
		"http://127.0.0.1:5173",
	})
	v.SetDefault("store.db_path", filepath.Join(configDir, "journal.db"))
	v.SetDefault("store.theme_path", filepath.Join(configDir, "themes.json"))
	v.SetDefault("coach.base_url", "https://api.groq.com/openai/v1")
	v.SetDefault("coach.model", "llama-3.1-8b-instant")
	v.SetDefault("log.level", "info")
}

func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("AI_COACH_API_KEY"); v != "" {
		cfg.Coach.APIKey = v
	}
	if v := os.Getenv("GROQ_API_KEY"); v != "" {
		cfg.Coach.APIKey = v
	}
	if v := os.Getenv("AI_COACH_BASE_URL"); v != "" {
		cfg.Coach.BaseURL = v
	}
	if v := os.Getenv("AI_COACH_MODEL"); v != "" {
		cfg.Coach.Model = v
	}
	if v := os.Getenv("JOURNAL_DB_PATH"); v != "" {
		cfg.Store.DBPath = v
	}
	if v := os.Getenv("JOURNAL_ADDR"); v != "" {
		cfg.Server.Addr = v
	}
	if v := os.Getenv("JOURNAL_LOG_LEVEL"); v != "" {
		cfg.Log.Level = v
	}
}

// Validate validates the configuration. A missing coach API key is fatal at
// startup, not deferred to the first request.
func (c *Config) Validate() error {
	if c.Coach.APIKey == "" {
		return fmt.Errorf("%w: coach api_key is required (set GROQ_API_KEY or coach.api_key in config.toml)", apperrors.ErrConfigInvalid)
	}
	if c.Coach.Model == "" {
		return fmt.Errorf("%w: coach model must not be empty", apperrors.ErrConfigInvalid)
	}
	if c.Server.Addr == "" {
		return fmt.Errorf("%w: server addr must not be empty", apperrors.ErrConfigInvalid)
	}
	if c.Store.DBPath == "" {
		return fmt.Errorf("%w: store db_path must not be empty", apperrors.ErrConfigInvalid)
	}
	return nil
}

func createTemplateConfig(configDir string) error {
	if err := os.MkdirAll(configDir, 0755); err != nil {
		return err
	}

	template := `# Trading journal configuration

[server]
addr = ":8000"
allowed_origins = ["http://localhost:5173", "http://localhost:3000", "http://127.0.0.1:5173"]

[store]
# db_path = "~/.config/trading-journal/journal.db"

[coach]
# api_key = "your-api-key"
base_url = "https://api.groq.com/openai/v1"
model = "llama-3.1-8b-instant"

[log]
level = "info"
`

	path := filepath.Join(configDir, "config.toml")
	if _, err := os.Stat(path); err == nil {
		return nil
	}
	return os.WriteFile(path, []byte(template), 0644)
}
