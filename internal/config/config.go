package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config holds all application configuration.
type Config struct {
	Database DatabaseConfig `yaml:"database"`
	HTTP     HTTPConfig     `yaml:"http"`
	GRPC     GRPCConfig     `yaml:"grpc"`
	Auth     AuthConfig     `yaml:"auth"`
	Redis    RedisConfig    `yaml:"redis"`
	Log      LogConfig      `yaml:"log"`
}

// DatabaseConfig contains database-related settings.
type DatabaseConfig struct {
	Path string `yaml:"path"` // SQLite database file path
}

// HTTPConfig contains REST server settings.
type HTTPConfig struct {
	Address string `yaml:"address"` // e.g. ":8080"
}

// GRPCConfig contains gRPC server settings.
type GRPCConfig struct {
	Address string `yaml:"address"` // gRPC server listen address (e.g., ":50051")
}

// AuthConfig contains authentication settings.
type AuthConfig struct {
	JWTSecret                 string        `yaml:"jwt_secret"`
	TokenTTL                  time.Duration `yaml:"token_ttl"`
	BcryptCost                int           `yaml:"bcrypt_cost"`
	RegistrationRequiresAdmin bool          `yaml:"registration_requires_admin"`
}

// RedisConfig backs the login throttle. An empty Addr disables throttling.
type RedisConfig struct {
	Addr          string        `yaml:"addr"`
	Password      string        `yaml:"password"`
	MaxFailures   int           `yaml:"max_failures"`
	FailureWindow time.Duration `yaml:"failure_window"`
}

// LogConfig selects the minimum log level: debug, info, warn or error.
type LogConfig struct {
	Level string `yaml:"level"`
}

const devJWTSecret = "dev-secret-change-me"

func defaults() *Config {
	return &Config{
		Database: DatabaseConfig{Path: "app.db"},
		HTTP:     HTTPConfig{Address: ":8080"},
		GRPC:     GRPCConfig{Address: ":50051"},
		Auth: AuthConfig{
			TokenTTL:   time.Hour,
			BcryptCost: 10,
		},
		Redis: RedisConfig{
			MaxFailures:   5,
			FailureWindow: 15 * time.Minute,
		},
		Log: LogConfig{Level: "info"},
	}
}

// Load builds the configuration from defaults, then the YAML file named by
// CONFIG_FILE (if any), then environment variables. A .env file in the
// working directory is loaded first without overriding the real environment.
func Load() (*Config, error) {
	cfg, err := load()
	if err != nil {
		return nil, err
	}

	// Validate critical settings
	if cfg.Auth.JWTSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET environment variable is not set; required for production")
	}
	return cfg, nil
}

// LoadWithDefaults is like Load but uses a safe default for JWT_SECRET in development.
// WARNING: Only use in development! Use Load() in production.
func LoadWithDefaults() (*Config, error) {
	cfg, err := load()
	if err != nil {
		return nil, err
	}
	if cfg.Auth.JWTSecret == "" {
		cfg.Auth.JWTSecret = devJWTSecret
	}
	return cfg, nil
}

func load() (*Config, error) {
	_ = godotenv.Load()

	cfg := defaults()
	if path := getEnv("CONFIG_FILE", ""); path != "" {
		if err := loadFile(path, cfg); err != nil {
			return nil, err
		}
	}
	if err := applyEnv(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func loadFile(path string, cfg *Config) error {
	b, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}
	if err := yaml.Unmarshal(b, cfg); err != nil {
		return fmt.Errorf("parse config file %s: %w", path, err)
	}
	return nil
}

func applyEnv(cfg *Config) error {
	var err error
	cfg.Database.Path = getEnv("DB_PATH", cfg.Database.Path)
	cfg.HTTP.Address = getEnv("HTTP_ADDRESS", cfg.HTTP.Address)
	cfg.GRPC.Address = getEnv("GRPC_ADDRESS", cfg.GRPC.Address)
	cfg.Auth.JWTSecret = getEnv("JWT_SECRET", cfg.Auth.JWTSecret)
	if cfg.Auth.TokenTTL, err = getEnvDuration("JWT_TTL", cfg.Auth.TokenTTL); err != nil {
		return err
	}
	if cfg.Auth.BcryptCost, err = getEnvInt("BCRYPT_COST", cfg.Auth.BcryptCost); err != nil {
		return err
	}
	if cfg.Auth.RegistrationRequiresAdmin, err = getEnvBool("REGISTRATION_REQUIRES_ADMIN", cfg.Auth.RegistrationRequiresAdmin); err != nil {
		return err
	}
	cfg.Redis.Addr = getEnv("REDIS_ADDR", cfg.Redis.Addr)
	cfg.Redis.Password = getEnv("REDIS_PASSWORD", cfg.Redis.Password)
	if cfg.Redis.MaxFailures, err = getEnvInt("LOGIN_MAX_FAILURES", cfg.Redis.MaxFailures); err != nil {
		return err
	}
	if cfg.Redis.FailureWindow, err = getEnvDuration("LOGIN_FAILURE_WINDOW", cfg.Redis.FailureWindow); err != nil {
		return err
	}
	cfg.Log.Level = getEnv("LOG_LEVEL", cfg.Log.Level)
	return nil
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

func getEnvDuration(key string, defaultVal time.Duration) (time.Duration, error) {
	if value, exists := os.LookupEnv(key); exists {
		d, err := time.ParseDuration(value)
		if err != nil {
			return 0, fmt.Errorf("invalid duration for %s: %w", key, err)
		}
		return d, nil
	}
	return defaultVal, nil
}

// String returns a string representation of the config (sensitive values are masked).
func (c *Config) String() string {
	redis := "disabled"
	if c.Redis.Addr != "" {
		redis = c.Redis.Addr
	}
	return fmt.Sprintf("Config{DB: %s, HTTP: %s, gRPC: %s, Redis: %s, TokenTTL: %s, AdminOnlySignup: %t, Log: %s, Auth: *** (masked) ***}",
		c.Database.Path, c.HTTP.Address, c.GRPC.Address, redis, c.Auth.TokenTTL, c.Auth.RegistrationRequiresAdmin, c.Log.Level)
}
