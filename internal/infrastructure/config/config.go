package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds all configuration for the application
type Config struct {
	App      AppConfig      `mapstructure:"app"`
	Server   ServerConfig   `mapstructure:"server"`
	Database DatabaseConfig `mapstructure:"database"`
	Redis    RedisConfig    `mapstructure:"redis"`
	JWT      JWTConfig      `mapstructure:"jwt"`
	Logger   LoggerConfig   `mapstructure:"logger"`
	Security SecurityConfig `mapstructure:"security"`
	Metrics  MetricsConfig  `mapstructure:"metrics"`
	Storage  StorageConfig  `mapstructure:"storage"`
	Sweeper  SweeperConfig  `mapstructure:"sweeper"`
}

// AppConfig holds application-specific configuration
type AppConfig struct {
	Name        string `mapstructure:"name"`
	Version     string `mapstructure:"version"`
	Environment string `mapstructure:"environment"`
	Debug       bool   `mapstructure:"debug"`
}

// ServerConfig holds server configuration
type ServerConfig struct {
	Port         int           `mapstructure:"port"`
	Host         string        `mapstructure:"host"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
	IdleTimeout  time.Duration `mapstructure:"idle_timeout"`
}

// DatabaseConfig holds database configuration
type DatabaseConfig struct {
	Driver          string        `mapstructure:"driver"`
	Path            string        `mapstructure:"path"`
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	Name            string        `mapstructure:"name"`
	User            string        `mapstructure:"user"`
	Password        string        `mapstructure:"password"`
	SSLMode         string        `mapstructure:"ssl_mode"`
	MaxOpenConns    int           `mapstructure:"max_open_conns"`
	MaxIdleConns    int           `mapstructure:"max_idle_conns"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`
	ConnMaxIdleTime time.Duration `mapstructure:"conn_max_idle_time"`
}

// RedisConfig holds Redis configuration
type RedisConfig struct {
	Enabled  bool          `mapstructure:"enabled"`
	Host     string        `mapstructure:"host"`
	Port     int           `mapstructure:"port"`
	Password string        `mapstructure:"password"`
	DB       int           `mapstructure:"db"`
	TTL      time.Duration `mapstructure:"ttl"`
}

// JWTConfig holds JWT configuration
type JWTConfig struct {
	Secret    string        `mapstructure:"secret"`
	ExpiresIn time.Duration `mapstructure:"expires_in"`
	Issuer    string        `mapstructure:"issuer"`
}

// LoggerConfig holds logging configuration
type LoggerConfig struct {
	Level    string `mapstructure:"level"`
	Format   string `mapstructure:"format"`
	Output   string `mapstructure:"output"`
	Filename string `mapstructure:"filename"`
}

// SecurityConfig holds security-related configuration
type SecurityConfig struct {
	CORSAllowedOrigins string        `mapstructure:"cors_allowed_origins"`
	RateLimitRequests  int           `mapstructure:"rate_limit_requests"`
	RateLimitWindow    time.Duration `mapstructure:"rate_limit_window"`
}

// MetricsConfig holds metrics configuration
type MetricsConfig struct {
	Enabled bool `mapstructure:"enabled"`
}

// StorageConfig holds object storage configuration
type StorageConfig struct {
	Root           string `mapstructure:"root"`
	PublicBaseURL  string `mapstructure:"public_base_url"`
	MaxUploadBytes int64  `mapstructure:"max_upload_bytes"`
}

// SweeperConfig holds orphan object sweeper configuration
type SweeperConfig struct {
	Enabled     bool          `mapstructure:"enabled"`
	Interval    time.Duration `mapstructure:"interval"`
	GracePeriod time.Duration `mapstructure:"grace_period"`
}

// Load loads configuration from various sources
func Load() (*Config, error) {
	// Load .env file if it exists (ignore errors)
	_ = godotenv.Load()

	v := viper.New()
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	setDefaults(v)
	bindEnvVars(v)

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := validateConfig(&cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	// App defaults
	v.SetDefault("app.name", "scug")
	v.SetDefault("app.version", "1.0.0")
	v.SetDefault("app.environment", "development")
	v.SetDefault("app.debug", false)

	// Server defaults
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.read_timeout", "30s")
	v.SetDefault("server.write_timeout", "60s")
	v.SetDefault("server.idle_timeout", "120s")

	// Database defaults
	v.SetDefault("database.driver", "postgres")
	v.SetDefault("database.path", "scug.db")
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.name", "scug")
	v.SetDefault("database.user", "postgres")
	v.SetDefault("database.password", "")
	v.SetDefault("database.ssl_mode", "disable")
	v.SetDefault("database.max_open_conns", 25)
	v.SetDefault("database.max_idle_conns", 10)
	v.SetDefault("database.conn_max_lifetime", "5m")
	v.SetDefault("database.conn_max_idle_time", "30s")

	// Redis defaults
	v.SetDefault("redis.enabled", false)
	v.SetDefault("redis.host", "localhost")
	v.SetDefault("redis.port", 6379)
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)
	v.SetDefault("redis.ttl", "5m")

	// JWT defaults
	v.SetDefault("jwt.secret", "your-super-secret-jwt-key")
	v.SetDefault("jwt.expires_in", "24h")
	v.SetDefault("jwt.issuer", "scug-api")

	// Logger defaults
	v.SetDefault("logger.level", "info")
	v.SetDefault("logger.format", "json")
	v.SetDefault("logger.output", "stdout")
	v.SetDefault("logger.filename", "")

	// Security defaults
	v.SetDefault("security.cors_allowed_origins", "*")
	v.SetDefault("security.rate_limit_requests", 100)
	v.SetDefault("security.rate_limit_window", "1m")

	// Metrics defaults
	v.SetDefault("metrics.enabled", true)

	// Storage defaults
	v.SetDefault("storage.root", "./data/objects")
	v.SetDefault("storage.public_base_url", "/files")
	v.SetDefault("storage.max_upload_bytes", 10<<20)

	// Sweeper defaults
	v.SetDefault("sweeper.enabled", false)
	v.SetDefault("sweeper.interval", "1h")
	v.SetDefault("sweeper.grace_period", "1h")
}

func bindEnvVars(v *viper.Viper) {
	bindings := map[string]string{
		// App
		"app.name":        "APP_NAME",
		"app.version":     "APP_VERSION",
		"app.environment": "APP_ENVIRONMENT",
		"app.debug":       "APP_DEBUG",

		// Server
		"server.port":          "SERVER_PORT",
		"server.host":          "SERVER_HOST",
		"server.read_timeout":  "SERVER_READ_TIMEOUT",
		"server.write_timeout": "SERVER_WRITE_TIMEOUT",
		"server.idle_timeout":  "SERVER_IDLE_TIMEOUT",

		// Database
		"database.driver":             "DB_DRIVER",
		"database.path":               "DB_PATH",
		"database.host":               "DB_HOST",
		"database.port":               "DB_PORT",
		"database.name":               "DB_NAME",
		"database.user":               "DB_USER",
		"database.password":           "DB_PASSWORD",
		"database.ssl_mode":           "DB_SSL_MODE",
		"database.max_open_conns":     "DB_MAX_OPEN_CONNS",
		"database.max_idle_conns":     "DB_MAX_IDLE_CONNS",
		"database.conn_max_lifetime":  "DB_CONN_MAX_LIFETIME",
		"database.conn_max_idle_time": "DB_CONN_MAX_IDLE_TIME",

		// Redis
		"redis.enabled":  "REDIS_ENABLED",
		"redis.host":     "REDIS_HOST",
		"redis.port":     "REDIS_PORT",
		"redis.password": "REDIS_PASSWORD",
		"redis.db":       "REDIS_DB",
		"redis.ttl":      "REDIS_TTL",

		// JWT
		"jwt.secret":     "JWT_SECRET",
		"jwt.expires_in": "JWT_EXPIRES_IN",
		"jwt.issuer":     "JWT_ISSUER",

		// Logger
		"logger.level":    "LOG_LEVEL",
		"logger.format":   "LOG_FORMAT",
		"logger.output":   "LOG_OUTPUT",
		"logger.filename": "LOG_FILENAME",

		// Security
		"security.cors_allowed_origins": "CORS_ALLOWED_ORIGINS",
		"security.rate_limit_requests":  "RATE_LIMIT_REQUESTS",
		"security.rate_limit_window":    "RATE_LIMIT_WINDOW",

		// Metrics
		"metrics.enabled": "ENABLE_METRICS",

		// Storage
		"storage.root":             "STORAGE_ROOT",
		"storage.public_base_url":  "STORAGE_PUBLIC_BASE_URL",
		"storage.max_upload_bytes": "STORAGE_MAX_UPLOAD_BYTES",

		// Sweeper
		"sweeper.enabled":      "SWEEPER_ENABLED",
		"sweeper.interval":     "SWEEPER_INTERVAL",
		"sweeper.grace_period": "SWEEPER_GRACE_PERIOD",
	}

	for key, env := range bindings {
		_ = v.BindEnv(key, env)
	}
}

func validateConfig(cfg *Config) error {
	switch cfg.Database.Driver {
	case "postgres":
		if cfg.Database.Host == "" {
			return fmt.Errorf("database host is required")
		}
		if cfg.Database.Name == "" {
			return fmt.Errorf("database name is required")
		}
	case "sqlite3":
		if cfg.Database.Path == "" {
			return fmt.Errorf("database path is required for sqlite3")
		}
	default:
		return fmt.Errorf("unsupported database driver %q", cfg.Database.Driver)
	}

	if cfg.JWT.Secret == "" || (cfg.App.IsProduction() && cfg.JWT.Secret == "your-super-secret-jwt-key") {
		return fmt.Errorf("JWT secret must be set and should not use default value")
	}

	if cfg.Server.Port <= 0 || cfg.Server.Port > 65535 {
		return fmt.Errorf("server port must be between 1 and 65535")
	}

	if cfg.Storage.MaxUploadBytes <= 0 {
		return fmt.Errorf("storage max upload bytes must be positive")
	}

	if cfg.Sweeper.Enabled && cfg.Sweeper.Interval <= 0 {
		return fmt.Errorf("sweeper interval must be positive")
	}

	return nil
}

// GetDSN returns the database connection string for the configured driver
func (cfg *DatabaseConfig) GetDSN() string {
	if cfg.Driver == "sqlite3" {
		return fmt.Sprintf("file:%s?_foreign_keys=on&_busy_timeout=5000", cfg.Path)
	}

	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		cfg.Host,
		cfg.Port,
		cfg.User,
		cfg.Password,
		cfg.Name,
		cfg.SSLMode,
	)
}

// GetAddr returns the Redis address
func (cfg *RedisConfig) GetAddr() string {
	return fmt.Sprintf("%s:%d", cfg.Host, cfg.Port)
}

// IsDevelopment returns true if the environment is development
func (cfg *AppConfig) IsDevelopment() bool {
	return cfg.Environment == "development"
}

// IsProduction returns true if the environment is production
func (cfg *AppConfig) IsProduction() bool {
	return cfg.Environment == "production"
}
