package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// DevSecret signs tokens when JWT_SECRET is not configured. Never use it in production.
const DevSecret = "noteful-dev-secret-change-in-prod"

// Config holds the server settings.
type Config struct {
	Port      string        `yaml:"port"`
	DBDriver  string        `yaml:"db_driver"`
	DBConn    string        `yaml:"db_conn"`
	JWTSecret string        `yaml:"jwt_secret"`
	JWTExpiry time.Duration `yaml:"jwt_expiry"`
	LogLevel  string        `yaml:"log_level"`
	LogFormat string        `yaml:"log_format"`
}

func defaults() Config {
	return Config{
		Port:      "8080",
		DBDriver:  "sqlite3",
		DBConn:    "./noteful.db",
		JWTExpiry: 7 * 24 * time.Hour,
		LogLevel:  "info",
		LogFormat: "json",
	}
}

// Load builds the configuration from defaults, an optional .env file, the
// YAML file named by NOTEFUL_CONFIG and finally the environment.
func Load() (Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, fmt.Errorf("load .env: %w", err)
	}

	cfg := defaults()
	if path := os.Getenv("NOTEFUL_CONFIG"); path != "" {
		if err := loadFile(path, &cfg); err != nil {
			return Config{}, err
		}
	}
	if err := applyEnv(&cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func loadFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parse config: %w", err)
	}
	return nil
}

func applyEnv(cfg *Config) error {
	for key, dst := range map[string]*string{
		"PORT":       &cfg.Port,
		"DB_DRIVER":  &cfg.DBDriver,
		"DB_CONN":    &cfg.DBConn,
		"JWT_SECRET": &cfg.JWTSecret,
		"LOG_LEVEL":  &cfg.LogLevel,
		"LOG_FORMAT": &cfg.LogFormat,
	} {
		if v := os.Getenv(key); v != "" {
			*dst = v
		}
	}

	if v := os.Getenv("JWT_EXPIRY"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("parse JWT_EXPIRY: %w", err)
		}
		cfg.JWTExpiry = d
	}
	return nil
}

// EnsureSecret falls back to DevSecret when no JWT secret is configured and
// reports whether the development secret is in use.
func (c *Config) EnsureSecret() bool {
	if c.JWTSecret == "" {
		c.JWTSecret = DevSecret
		return true
	}
	return c.JWTSecret == DevSecret
}
