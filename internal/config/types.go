package config

import "time"

// AppConfig holds runtime startup configuration loaded from YAML.
type AppConfig struct {
	Port           int            `yaml:"port"`
	DSN            string         `yaml:"dsn"` // full MySQL DSN, overrides Database
	RedisURL       string         `yaml:"redis_url"`
	Database       DatabaseConfig `yaml:"database"`
	Env            string         `yaml:"env"` // "development" | "production"
	JWTSecret      string         `yaml:"jwt_secret"`
	Timezone       string         `yaml:"timezone"`
	AllowedOrigins []string       `yaml:"allowed_origins"`
	Session        SessionConfig  `yaml:"session"`
	Paths          PathsConfig    `yaml:"paths"`
}

// DatabaseConfig is the piecewise alternative to a full DSN.
type DatabaseConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	Name     string `yaml:"name"`
	Charset  string `yaml:"charset"`
	Loc      string `yaml:"loc"`
}

// SessionConfig tunes the login session lifecycle.
type SessionConfig struct {
	TTLMinutes     int `yaml:"ttl_minutes"`
	RefreshMinutes int `yaml:"refresh_minutes"`
}

// PathsConfig points at writable directories.
type PathsConfig struct {
	Logs string `yaml:"logs"`
}

// IsDev reports whether the app runs in development mode.
func (c *AppConfig) IsDev() bool { return c.Env != "production" }

// SessionTTL returns the configured session lifetime, or zero when unset so
// the session service falls back to its default.
func (c *AppConfig) SessionTTL() time.Duration {
	return time.Duration(c.Session.TTLMinutes) * time.Minute
}

// SessionRefreshWindow returns the configured refresh window, or zero.
func (c *AppConfig) SessionRefreshWindow() time.Duration {
	return time.Duration(c.Session.RefreshMinutes) * time.Minute
}

// LogDir returns the log directory, defaulting next to the binary.
func (c *AppConfig) LogDir() string {
	if c.Paths.Logs != "" {
		return c.Paths.Logs
	}
	return "logs"
}
