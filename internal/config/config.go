package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds all application configuration.
type Config struct {
	Database DatabaseConfig
	HTTP     HTTPConfig
	GRPC     GRPCConfig
	Auth     AuthConfig
	Admin    AdminConfig
	Log      LogConfig
}

// DatabaseConfig contains database-related settings.
type DatabaseConfig struct {
	Path string // SQLite database file path
}

// HTTPConfig contains web server settings.
type HTTPConfig struct {
	Address string // listen address (e.g., ":8080")
	GinMode string // gin.DebugMode, gin.ReleaseMode or gin.TestMode
}

// GRPCConfig contains settings of the gRPC health endpoint.
type GRPCConfig struct {
	Address string // empty disables the health server
}

// AuthConfig contains session settings.
type AuthConfig struct {
	SessionSecret string        // HS256 signing secret for the session cookie
	SessionTTL    time.Duration // lifetime of a login session
	CookieSecure  bool          // mark the session cookie Secure (HTTPS only)
}

// AdminConfig describes the bootstrap admin account created at startup.
type AdminConfig struct {
	Username string
	Password string // empty disables seeding
}

// LogConfig controls the logrus logger.
type LogConfig struct {
	Level  string // logrus level name
	Format string // "json" or "text"
}

// Load loads configuration from environment variables with sensible defaults.
func Load() (*Config, error) {
	cfg, err := load(getEnv("SESSION_SECRET", ""))
	if err != nil {
		return nil, err
	}

	// Validate critical settings
	if cfg.Auth.SessionSecret == "" {
		return nil, fmt.Errorf("SESSION_SECRET environment variable is not set; required for production")
	}
	return cfg, nil
}

// LoadWithDefaults is like Load but uses a default SESSION_SECRET in development.
// WARNING: Only use in development! Use Load() in production.
func LoadWithDefaults() (*Config, error) {
	return load(getEnv("SESSION_SECRET", "dev-secret-change-me"))
}

func load(secret string) (*Config, error) {
	ttlMinutes, err := getEnvInt("SESSION_TTL_MINUTES", 24*60)
	if err != nil {
		return nil, err
	}
	if ttlMinutes <= 0 {
		return nil, fmt.Errorf("SESSION_TTL_MINUTES must be positive, got %d", ttlMinutes)
	}
	secure, err := getEnvBool("COOKIE_SECURE", false)
	if err != nil {
		return nil, err
	}
	format := strings.ToLower(getEnv("LOG_FORMAT", "json"))
	if format != "json" && format != "text" {
		return nil, fmt.Errorf("LOG_FORMAT must be json or text, got %q", format)
	}

	return &Config{
		Database: DatabaseConfig{
			Path: getEnv("DB_PATH", "library.db"),
		},
		HTTP: HTTPConfig{
			Address: getEnv("HTTP_ADDRESS", ":8080"),
			GinMode: getEnv("GIN_MODE", "release"),
		},
		GRPC: GRPCConfig{
			Address: getEnv("GRPC_ADDRESS", ":50051"),
		},
		Auth: AuthConfig{
			SessionSecret: secret,
			SessionTTL:    time.Duration(ttlMinutes) * time.Minute,
			CookieSecure:  secure,
		},
		Admin: AdminConfig{
			Username: getEnv("DEFAULT_ADMIN_USERNAME", "admin"),
			Password: getEnv("DEFAULT_ADMIN_PASSWORD", ""),
		},
		Log: LogConfig{
			Level:  getEnv("LOG_LEVEL", "info"),
			Format: format,
		},
	}, nil
}

// getEnv retrieves an environment variable with a default fallback.
func getEnv(key, defaultVal string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultVal
}

// getEnvInt retrieves an environment variable as an integer with a default fallback.
func getEnvInt(key string, defaultVal int) (int, error) {
	if value, exists := os.LookupEnv(key); exists {
		intVal, err := strconv.Atoi(value)
		if err != nil {
			return 0, fmt.Errorf("invalid integer for %s: %w", key, err)
		}
		return intVal, nil
	}
	return defaultVal, nil
}

func getEnvBool(key string, defaultVal bool) (bool, error) {
	if value, exists := os.LookupEnv(key); exists {
		b, err := strconv.ParseBool(value)
		if err != nil {
			return false, fmt.Errorf("invalid boolean for %s: %w", key, err)
		}
		return b, nil
	}
	return defaultVal, nil
}

// String returns a string representation of the config (sensitive values are masked).
func (c *Config) String() string {
	return fmt.Sprintf("Config{DB: %s, HTTP: %s, gRPC: %s, SessionTTL: %s, Admin: %s, Auth: *** (masked) ***}",
		c.Database.Path, c.HTTP.Address, c.GRPC.Address, c.Auth.SessionTTL, c.Admin.Username)
}
