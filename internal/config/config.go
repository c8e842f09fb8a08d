package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	defaultBackendBaseURL = "http://localhost:8000"
	defaultDBPath         = "lector.db"
	defaultChatModel      = "default"
	defaultRequestTimeout = 30 * time.Second
)

var knownChatModels = []string{"default", "small", "large"}

// Config holds runtime settings for the CLI app. Values come from an
// optional YAML file first, then environment variables on top.
type Config struct {
	BackendBaseURL string        `yaml:"backend_base_url"`
	DBPath         string        `yaml:"db_path"`
	ChatModel      string        `yaml:"chat_model"`
	VoiceID        string        `yaml:"voice_id"`
	RequestTimeout time.Duration `yaml:"request_timeout"`
}

// Load reads the config file at path when it exists, applies
// environment overrides and fills in defaults. An empty path skips the
// file step entirely.
func Load(path string) (Config, error) {
	var cfg Config

	if path != "" {
		raw, err := os.ReadFile(path)
		if err != nil && !errors.Is(err, os.ErrNotExist) {
			return Config{}, fmt.Errorf("read config file %s: %w", path, err)
		}
		if err == nil {
			if err := yaml.Unmarshal(raw, &cfg); err != nil {
				return Config{}, fmt.Errorf("parse config file %s: %w", path, err)
			}
		}
	}

	applyEnv(&cfg)

	if cfg.BackendBaseURL == "" {
		cfg.BackendBaseURL = defaultBackendBaseURL
	}
	if cfg.DBPath == "" {
		cfg.DBPath = defaultDBPath
	}
	if cfg.ChatModel == "" {
		cfg.ChatModel = defaultChatModel
	}
	if cfg.RequestTimeout == 0 {
		cfg.RequestTimeout = defaultRequestTimeout
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

// LoadFromEnv loads the config file named by LECTOR_CONFIG, falling
// back to lector.yaml under the user config directory, with
// environment overrides on top. A missing file is not an error.
func LoadFromEnv() (Config, error) {
	return Load(configFilePath())
}

func configFilePath() string {
	if v := os.Getenv("LECTOR_CONFIG"); v != "" {
		return v
	}
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, "lector", "lector.yaml")
}

func applyEnv(cfg *Config) {
	if v := os.Getenv("LECTOR_BACKEND_URL"); v != "" {
		cfg.BackendBaseURL = v
	}
	if v := os.Getenv("LECTOR_DB_PATH"); v != "" {
		cfg.DBPath = v
	}
	if v := os.Getenv("LECTOR_CHAT_MODEL"); v != "" {
		cfg.ChatModel = v
	}
	if v := os.Getenv("LECTOR_VOICE_ID"); v != "" {
		cfg.VoiceID = v
	}
	if v := os.Getenv("LECTOR_REQUEST_TIMEOUT"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			cfg.RequestTimeout = d
		}
	}
}

func (c Config) Validate() error {
	if c.BackendBaseURL == "" {
		return errors.New("BackendBaseURL is required")
	}
	if c.BackendBaseURL[len(c.BackendBaseURL)-1] == '/' {
		return fmt.Errorf("BackendBaseURL must not end with '/': %s", c.BackendBaseURL)
	}
	if c.DBPath == "" {
		return errors.New("DBPath is required")
	}
	if !isKnownChatModel(c.ChatModel) {
		return fmt.Errorf("ChatModel must be one of default, small, large: %s", c.ChatModel)
	}
	if c.RequestTimeout <= 0 {
		return fmt.Errorf("RequestTimeout must be positive: %s", c.RequestTimeout)
	}
	return nil
}

func isKnownChatModel(model string) bool {
	for _, known := range knownChatModels {
		if model == known {
			return true
		}
	}
	return false
}
