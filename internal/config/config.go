package config

import (
	"bytes"
	"errors"
	"fmt"
	"os"

	"github.com/brk3/habiterm/internal/keyring"
	"github.com/natefinch/atomic"
	"go.yaml.in/yaml/v4"
)

const (
	DefaultPath       = "config.yaml"
	DriverBolt        = "bolt"
	DriverSQLite      = "sqlite"
	TimerNotifyBell   = "bell"
	TimerNotifyEmail  = "email"
	TimerNotifyNone   = "none"
	defaultAPIBaseURL = "http://localhost:8080"
)

type Config struct {
	APIBaseURL string        `yaml:"api_base_url"`
	ListenAddr string        `yaml:"listen_addr"`
	AuthToken  string        `yaml:"auth_token"`
	Storage    StorageConfig `yaml:"storage"`
	Log        LogConfig     `yaml:"log"`
	Resend     ResendConfig  `yaml:"resend"`
	Timer      TimerConfig   `yaml:"timer"`
}

type StorageConfig struct {
	Driver string `yaml:"driver"`
	Path   string `yaml:"path"`
}

type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
	File   string `yaml:"file"`
}

type ResendConfig struct {
	APIKey string `yaml:"api_key"`
	From   string `yaml:"from"`
	To     string `yaml:"to"`
}

type TimerConfig struct {
	// Notify selects how the end of a session is announced: bell, email or none.
	Notify string `yaml:"notify"`
}

func Default() Config {
	return Config{
		APIBaseURL: defaultAPIBaseURL,
		ListenAddr: ":8080",
		Storage: StorageConfig{
			Driver: DriverBolt,
			Path:   "habiterm.db",
		},
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
		Resend: ResendConfig{
			From: "onboarding@resend.dev",
		},
		Timer: TimerConfig{
			Notify: TimerNotifyBell,
		},
	}
}

// Load reads the file named by HABITERM_CONFIG, or config.yaml. An explicitly
// named file must exist; a missing default file yields the defaults.
func Load() (*Config, error) {
	path, explicit := os.LookupEnv("HABITERM_CONFIG")
	if !explicit || path == "" {
		path = DefaultPath
		explicit = false
	}

	cfg, err := LoadFile(path)
	if errors.Is(err, os.ErrNotExist) && !explicit {
		d := Default()
		cfg = &d
		err = nil
	}
	if err != nil {
		return nil, err
	}

	applyEnv(cfg)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func LoadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}
	cfg := Default()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	return &cfg, nil
}

func (c *Config) Validate() error {
	switch c.Storage.Driver {
	case DriverBolt, DriverSQLite:
	default:
		return fmt.Errorf("unknown storage driver %q", c.Storage.Driver)
	}
	if c.Storage.Path == "" {
		return fmt.Errorf("storage path is required")
	}
	switch c.Timer.Notify {
	case TimerNotifyBell, TimerNotifyEmail, TimerNotifyNone:
	default:
		return fmt.Errorf("unknown timer notify mode %q", c.Timer.Notify)
	}
	return nil
}

// ResendAPIKey resolves the key from config, then HABITERM_RESEND_API_KEY,
// then the OS keyring.
func (c *Config) ResendAPIKey() (string, error) {
	if c.Resend.APIKey != "" {
		return c.Resend.APIKey, nil
	}
	if v := os.Getenv("HABITERM_RESEND_API_KEY"); v != "" {
		return v, nil
	}
	key, err := keyring.GetResendAPIKey()
	if err != nil {
		return "", fmt.Errorf("no resend API key configured: %w", err)
	}
	return key, nil
}

// WriteDefault writes the default config to path without leaving a partial
// file behind on failure.
func WriteDefault(path string) error {
	d, err := yaml.Marshal(Default())
	if err != nil {
		return err
	}
	return atomic.WriteFile(path, bytes.NewReader(d))
}

func applyEnv(c *Config) {
	c.APIBaseURL = getenv("HABITERM_API_BASE", c.APIBaseURL)
	c.Storage.Path = getenv("HABITERM_DB_PATH", c.Storage.Path)
	c.AuthToken = getenv("HABITERM_AUTH_TOKEN", c.AuthToken)
	c.Log.Level = getenv("HABITERM_LOG_LEVEL", c.Log.Level)
	c.Resend.To = getenv("HABITERM_NOTIFY_EMAIL", c.Resend.To)
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
