// Package config loads startup configuration from YAML with environment
// variable overrides for containerized deployments.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

const (
	// DefaultConfigPath is used when --config is not provided.
	DefaultConfigPath = "config.yml"

	defaultPort       = 4000
	defaultEnv        = "development"
	defaultRedisURL   = "redis://localhost:6379/0"
	defaultDBHost     = "127.0.0.1"
	defaultDBPort     = 3306
	defaultDBUser     = "root"
	defaultDBPassword = "password"
	defaultDBName     = "tiendita"
	defaultDBCharset  = "utf8mb4"
	defaultDBLoc      = "Local"
)

// Load reads the YAML file at path, applies env overrides and defaults.
// A missing file is not an error; env vars and defaults carry a minimal
// deployment.
func Load(path string) (*AppConfig, error) {
	cfg := &AppConfig{}

	raw, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(raw, cfg); err != nil {
			return nil, fmt.Errorf("parse %s: %w", path, err)
		}
	case os.IsNotExist(err):
		// fall through to env + defaults
	default:
		return nil, fmt.Errorf("read %s: %w", path, err)
	}

	applyEnvOverrides(cfg)
	applyDefaults(cfg)
	return cfg, nil
}

func applyEnvOverrides(cfg *AppConfig) {
	if v := os.Getenv("POS_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			cfg.Port = port
		}
	}
	if v := os.Getenv("POS_DSN"); v != "" {
		cfg.DSN = v
	}
	if v := os.Getenv("POS_REDIS_URL"); v != "" {
		cfg.RedisURL = v
	}
	if v := os.Getenv("POS_ENV"); v != "" {
		cfg.Env = v
	}
	if v := os.Getenv("POS_JWT_SECRET"); v != "" {
		cfg.JWTSecret = v
	}
}

func applyDefaults(cfg *AppConfig) {
	if cfg.Port == 0 {
		cfg.Port = defaultPort
	}
	if strings.TrimSpace(cfg.Env) == "" {
		cfg.Env = defaultEnv
	}
	if strings.TrimSpace(cfg.RedisURL) == "" {
		cfg.RedisURL = defaultRedisURL
	}
	if strings.TrimSpace(cfg.DSN) == "" {
		cfg.DSN = cfg.Database.DSNValue()
	}
}
