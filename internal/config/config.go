package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// StorageBackend names a persistence backend selectable through STORAGE_BACKEND.
type StorageBackend string

const (
	StorageAuto     StorageBackend = "auto"
	StorageMongo    StorageBackend = "mongo"
	StorageFile     StorageBackend = "file"
	StoragePostgres StorageBackend = "postgres"
)

// Config aggregates runtime configuration for the service.
type Config struct {
	App       AppConfig
	Storage   StorageConfig
	Mongo     MongoConfig
	Postgres  PostgresConfig
	Redis     RedisConfig
	Logger    LoggerConfig
	Auth      AuthConfig
	Bootstrap BootstrapConfig
	Mail      MailConfig
	RateLimit RateLimitConfig
	CORS      CORSConfig
}

// AppConfig controls server level behavior.
type AppConfig struct {
	Name                  string
	Env                   string
	Host                  string
	Port                  string
	Version               string
	RequestTimeoutSeconds int
	// StatusReportSeconds of zero disables the periodic status log.
	StatusReportSeconds int
}

// StorageConfig selects where entities are persisted.
type StorageConfig struct {
	Backend StorageBackend
	DataDir string
}

// MongoConfig holds document store connection values.
type MongoConfig struct {
	URI                   string
	Database              string
	ConnectTimeoutSeconds int
}

// PostgresConfig holds DB connection values.
type PostgresConfig struct {
	DSN            string
	MaxConns       int32
	MinConns       int32
	RunMigrations  bool
	ConnMaxIdleSec int32
	ConnMaxLifeSec int32
}

// RedisConfig holds Redis connection values. An empty Addr disables Redis.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// LoggerConfig configures logging behavior.
type LoggerConfig struct {
	Level string
	// Format is "json" or "console".
	Format  string
	Service string
}

// AuthConfig defines authentication parameters.
type AuthConfig struct {
	JWTSecret             string
	AccessTokenTTLMinutes int
}

// BootstrapConfig holds the accounts created at startup when absent.
type BootstrapConfig struct {
	AdminEmail         string
	AdminPassword      string
	SampleUserEmail    string
	SampleUserPassword string
	CreateDefaultUsers bool
}

// MailConfig holds outbound SMTP settings for reply notifications.
type MailConfig struct {
	Enabled  bool
	Host     string
	Port     int
	Username string
	Password string
	From     string
}

// RateLimitConfig throttles the public contact endpoint per client IP.
type RateLimitConfig struct {
	SendPerMinute int
	Burst         int
}

// CORSConfig lists the browser origins allowed to call the API.
type CORSConfig struct {
	AllowOrigins []string
}

// Load reads configuration from environment variables, applying defaults where possible.
func Load() (*Config, error) {
	_ = godotenv.Load()

	redisDB, err := strconv.Atoi(getEnv("REDIS_DB", "0"))
	if err != nil {
		return nil, fmt.Errorf("invalid REDIS_DB: %w", err)
	}

	backend := StorageBackend(strings.ToLower(getEnv("STORAGE_BACKEND", string(StorageAuto))))
	switch backend {
	case StorageAuto, StorageMongo, StorageFile, StoragePostgres:
	default:
		return nil, fmt.Errorf("invalid STORAGE_BACKEND: %q", backend)
	}

	smtpPort, err := strconv.Atoi(getEnv("SMTP_PORT", "587"))
	if err != nil {
		return nil, fmt.Errorf("invalid SMTP_PORT: %w", err)
	}

	cfg := &Config{
		App: AppConfig{
			Name:                  getEnv("APP_NAME", "green-campus-api"),
			Env:                   getEnv("APP_ENV", "development"),
			Host:                  getEnv("APP_HOST", "0.0.0.0"),
			Port:                  getEnv("APP_PORT", "5000"),
			Version:               getEnv("APP_VERSION", "dev"),
			RequestTimeoutSeconds: getEnvAsInt("HTTP_REQUEST_TIMEOUT_SECONDS", 30),
			StatusReportSeconds:   getEnvAsInt("STATUS_REPORT_INTERVAL_SECONDS", 300),
		},
		Storage: StorageConfig{
			Backend: backend,
			DataDir: getEnv("DATA_DIR", "data"),
		},
		Mongo: MongoConfig{
			URI:                   getEnv("MONGODB_URI", "mongodb://localhost:27017/green_campus"),
			Database:              getEnv("MONGO_DB_NAME", "green_campus"),
			ConnectTimeoutSeconds: getEnvAsInt("MONGODB_CONNECT_TIMEOUT_SECONDS", 5),
		},
		Postgres: PostgresConfig{
			DSN:            os.Getenv("POSTGRES_DSN"),
			MaxConns:       int32(getEnvAsInt("POSTGRES_MAX_CONNS", 10)),
			MinConns:       int32(getEnvAsInt("POSTGRES_MIN_CONNS", 2)),
			RunMigrations:  getEnvAsBool("POSTGRES_RUN_MIGRATIONS", true),
			ConnMaxIdleSec: int32(getEnvAsInt("POSTGRES_CONN_MAX_IDLE_SECONDS", 30)),
			ConnMaxLifeSec: int32(getEnvAsInt("POSTGRES_CONN_MAX_LIFE_SECONDS", 300)),
		},
		Redis: RedisConfig{
			Addr:     os.Getenv("REDIS_ADDR"),
			Password: os.Getenv("REDIS_PASSWORD"),
			DB:       redisDB,
		},
		Logger: LoggerConfig{
			Level:   getEnv("LOG_LEVEL", "info"),
			Format:  getEnv("LOG_FORMAT", "json"),
			Service: getEnv("APP_NAME", "green-campus-api"),
		},
		Auth: AuthConfig{
			JWTSecret:             getEnv("JWT_SECRET_KEY", "your-secret-key-change-in-production"),
			AccessTokenTTLMinutes: getEnvAsInt("AUTH_ACCESS_TOKEN_TTL_MINUTES", 60),
		},
		Bootstrap: BootstrapConfig{
			AdminEmail:         getEnv("ADMIN_EMAIL", "admin@greencampus.com"),
			AdminPassword:      getEnv("ADMIN_PASSWORD", "admin123"),
			SampleUserEmail:    getEnv("SAMPLE_USER_EMAIL", "user@greencampus.com"),
			SampleUserPassword: getEnv("SAMPLE_USER_PASSWORD", "user123"),
			CreateDefaultUsers: getEnvAsBool("BOOTSTRAP_DEFAULT_USERS", true),
		},
		Mail: MailConfig{
			Enabled:  getEnvAsBool("MAIL_ENABLED", true),
			Host:     getEnv("SMTP_SERVER", "smtp.gmail.com"),
			Port:     smtpPort,
			Username: getEnv("EMAIL_ADDRESS", "your-email@gmail.com"),
			Password: getEnv("EMAIL_PASSWORD", "your-app-password"),
			From:     getEnv("EMAIL_FROM", getEnv("EMAIL_ADDRESS", "your-email@gmail.com")),
		},
		RateLimit: RateLimitConfig{
			SendPerMinute: getEnvAsInt("RATE_LIMIT_SEND_PER_MINUTE", 20),
			Burst:         getEnvAsInt("RATE_LIMIT_SEND_BURST", 5),
		},
		CORS: CORSConfig{
			AllowOrigins: getEnvAsList("CORS_ALLOW_ORIGINS", []string{
				"http://localhost:5173",
				"http://localhost:5174",
				"http://localhost:5175",
			}),
		},
	}

	return cfg, nil
}

// Addr returns the HTTP bind address.
func (a AppConfig) Addr() string {
	return fmt.Sprintf("%s:%s", a.Host, a.Port)
}

// RequestTimeout returns the configured request timeout duration.
func (a AppConfig) RequestTimeout() time.Duration {
	if a.RequestTimeoutSeconds <= 0 {
		return 0
	}
	return time.Duration(a.RequestTimeoutSeconds) * time.Second
}

// ConnectTimeout bounds the startup probe of the document store.
func (m MongoConfig) ConnectTimeout() time.Duration {
	if m.ConnectTimeoutSeconds <= 0 {
		return 5 * time.Second
	}
	return time.Duration(m.ConnectTimeoutSeconds) * time.Second
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(val)
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvAsBool(key string, fallback bool) bool {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	parsed, err := strconv.ParseBool(val)
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvAsList(key string, fallback []string) []string {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	var out []string
	for _, part := range strings.Split(val, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	if len(out) == 0 {
		return fallback
	}
	return out
}
