// Package config loads server configuration from an optional YAML file with
// environment variable overrides.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds every tunable of the server process.
type Config struct {
	ListenAddr     string        `yaml:"listenAddr"`
	DatabasePath   string        `yaml:"databasePath"`
	RevocationPath string        `yaml:"revocationPath"`
	JWTSecret      string        `yaml:"jwtSecret"`
	SessionTTL     time.Duration `yaml:"sessionTTL"`
	ResetTokenTTL  time.Duration `yaml:"resetTokenTTL"`
	CookieSecure   bool          `yaml:"cookieSecure"`
	AuthRatePerMin float64       `yaml:"authRatePerMin"`
	AuthRateBurst  int           `yaml:"authRateBurst"`
	LogLevel       string        `yaml:"logLevel"`
}

// Default returns the configuration used when no file or env overrides are
// present.
func Default() Config {
	return Config{
		ListenAddr:     ":5000",
		DatabasePath:   "skripsit.db",
		RevocationPath: "revoked.db",
		SessionTTL:     24 * time.Hour,
		ResetTokenTTL:  time.Hour,
		CookieSecure:   false,
		AuthRatePerMin: 30,
		AuthRateBurst:  10,
		LogLevel:       "info",
	}
}

// Load reads configuration from configPath (or the default candidates when
// empty), applies env overrides, and validates the result.
func Load(configPath string) (Config, error) {
	cfg := Default()

	candidates := make([]string, 0, 2)
	if configPath != "" {
		candidates = append(candidates, configPath)
	} else {
		candidates = append(candidates,
			"configs/config.yaml",
			"/etc/skripsit/config.yaml",
		)
	}

	for _, path := range candidates {
		data, err := os.ReadFile(path)
		if err != nil {
			if configPath != "" {
				return Config{}, fmt.Errorf("read config %s: %w", path, err)
			}
			continue
		}

		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("parse config %s: %w", path, err)
		}
		break
	}

	applyEnvOverrides(&cfg)

	if err := cfg.validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

func (c Config) validate() error {
	if c.JWTSecret == "" {
		return fmt.Errorf("jwtSecret is required (set SKRIPSIT_JWT_SECRET or the config file)")
	}
	if len(c.JWTSecret) < 32 {
		return fmt.Errorf("jwtSecret must be at least 32 bytes")
	}
	if c.SessionTTL <= 0 {
		return fmt.Errorf("sessionTTL must be positive")
	}
	return nil
}

func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("SKRIPSIT_LISTEN_ADDR"); v != "" {
		cfg.ListenAddr = v
	}
	if v := os.Getenv("SKRIPSIT_DB_PATH"); v != "" {
		cfg.DatabasePath = v
	}
	if v := os.Getenv("SKRIPSIT_REVOCATION_PATH"); v != "" {
		cfg.RevocationPath = v
	}
	if v := os.Getenv("SKRIPSIT_JWT_SECRET"); v != "" {
		cfg.JWTSecret = v
	}
	if v := os.Getenv("SKRIPSIT_SESSION_TTL"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			cfg.SessionTTL = d
		}
	}
	if v := os.Getenv("SKRIPSIT_RESET_TOKEN_TTL"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			cfg.ResetTokenTTL = d
		}
	}
	if v := os.Getenv("SKRIPSIT_COOKIE_SECURE"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			cfg.CookieSecure = b
		}
	}
	if v := os.Getenv("SKRIPSIT_LOG_LEVEL"); v != "" {
		cfg.LogLevel = v
	}
}
