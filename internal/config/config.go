package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Storage drivers understood by the console client.
const (
	StorageMemory   = "memory"
	StorageFile     = "file"
	StorageRedis    = "redis"
	StoragePostgres = "postgres"
)

// Geography lookup failure policies.
const (
	GeoFailureEmpty     = "empty"
	GeoFailurePropagate = "propagate"
)

// Config aggregates runtime configuration for the console client and the devserver.
type Config struct {
	App       AppConfig
	Backend   BackendConfig
	Geo       GeoConfig
	Storage   StorageConfig
	Postgres  PostgresConfig
	Redis     RedisConfig
	Logger    LoggerConfig
	Auth      AuthConfig
	Cart      CartConfig
	DevServer DevServerConfig
}

// AppConfig identifies the running process.
type AppConfig struct {
	Name    string
	Env     string
	Version string
}

// BackendConfig controls calls to the storefront REST backend.
type BackendConfig struct {
	BaseURL          string
	TimeoutSeconds   int
	LongTimeoutSecs  int
	MetricsNamespace string
}

// GeoConfig controls the public administrative-geography API.
type GeoConfig struct {
	BaseURL        string
	TimeoutSeconds int
	RatePerSecond  float64
	Burst          int
	FailurePolicy  string
}

// StorageConfig selects where the credential and its derived state are persisted.
type StorageConfig struct {
	Driver    string
	FilePath  string
	Namespace string
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

// RedisConfig holds Redis connection values.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// LoggerConfig configures logging behavior.
type LoggerConfig struct {
	Level string
}

// AuthConfig defines client-side session parameters.
type AuthConfig struct {
	ExpiryGraceSeconds int
	AdminRoles         []string
	LoginRoute         string
	ForbiddenRoute     string
	KeepReturnPath     bool
}

// CartConfig defines the cart resource retry policy.
type CartConfig struct {
	Retries           int
	RetryDelayMillis  int
	RequestTimeoutSec int
}

// DevServerConfig configures the stub backend.
type DevServerConfig struct {
	Host                  string
	Port                  string
	JWTSecret             string
	AccessTokenTTLMinutes int
	BcryptCost            int
	MailFrom              string
}

// Load reads configuration from environment variables, applying defaults where possible.
func Load() (*Config, error) {
	_ = godotenv.Load()

	redisDB, err := strconv.Atoi(getEnv("REDIS_DB", "0"))
	if err != nil {
		return nil, fmt.Errorf("invalid REDIS_DB: %w", err)
	}

	rate, err := strconv.ParseFloat(getEnv("GEO_RATE_PER_SECOND", "5"), 64)
	if err != nil {
		return nil, fmt.Errorf("invalid GEO_RATE_PER_SECOND: %w", err)
	}

	cfg := &Config{
		App: AppConfig{
			Name:    getEnv("APP_NAME", "storefront-console"),
			Env:     getEnv("APP_ENV", "development"),
			Version: getEnv("APP_VERSION", "dev"),
		},
		Backend: BackendConfig{
			BaseURL:          strings.TrimRight(getEnv("BACKEND_BASE_URL", "http://localhost:8080"), "/"),
			TimeoutSeconds:   getEnvAsInt("BACKEND_TIMEOUT_SECONDS", 5),
			LongTimeoutSecs:  getEnvAsInt("BACKEND_LONG_TIMEOUT_SECONDS", 10),
			MetricsNamespace: getEnv("METRICS_NAMESPACE", "storefront"),
		},
		Geo: GeoConfig{
			BaseURL:        strings.TrimRight(getEnv("GEO_BASE_URL", "https://provinces.open-api.vn/api"), "/"),
			TimeoutSeconds: getEnvAsInt("GEO_TIMEOUT_SECONDS", 10),
			RatePerSecond:  rate,
			Burst:          getEnvAsInt("GEO_BURST", 5),
			FailurePolicy:  strings.ToLower(getEnv("GEO_FAILURE_POLICY", GeoFailureEmpty)),
		},
		Storage: StorageConfig{
			Driver:    strings.ToLower(getEnv("STORAGE_DRIVER", StorageFile)),
			FilePath:  getEnv("STORAGE_FILE_PATH", ".storefront-state.json"),
			Namespace: getEnv("STORAGE_NAMESPACE", "storefront"),
		},
		Postgres: PostgresConfig{
			DSN:            os.Getenv("POSTGRES_DSN"),
			MaxConns:       int32(getEnvAsInt("POSTGRES_MAX_CONNS", 4)),
			MinConns:       int32(getEnvAsInt("POSTGRES_MIN_CONNS", 1)),
			RunMigrations:  getEnvAsBool("POSTGRES_RUN_MIGRATIONS", true),
			ConnMaxIdleSec: int32(getEnvAsInt("POSTGRES_CONN_MAX_IDLE_SECONDS", 30)),
			ConnMaxLifeSec: int32(getEnvAsInt("POSTGRES_CONN_MAX_LIFE_SECONDS", 300)),
		},
		Redis: RedisConfig{
			Addr:     getEnv("REDIS_ADDR", "127.0.0.1:6379"),
			Password: os.Getenv("REDIS_PASSWORD"),
			DB:       redisDB,
		},
		Logger: LoggerConfig{
			Level: getEnv("LOG_LEVEL", "info"),
		},
		Auth: AuthConfig{
			ExpiryGraceSeconds: getEnvAsInt("AUTH_EXPIRY_GRACE_SECONDS", 5),
			AdminRoles:         getEnvAsList("AUTH_ADMIN_ROLES", []string{"ROLE_ADMIN", "ADMIN"}),
			LoginRoute:         getEnv("AUTH_LOGIN_ROUTE", "/login"),
			ForbiddenRoute:     getEnv("AUTH_FORBIDDEN_ROUTE", "/forbidden"),
			KeepReturnPath:     getEnvAsBool("AUTH_KEEP_RETURN_PATH", true),
		},
		Cart: CartConfig{
			Retries:           getEnvAsInt("CART_RETRIES", 3),
			RetryDelayMillis:  getEnvAsInt("CART_RETRY_DELAY_MS", 1000),
			RequestTimeoutSec: getEnvAsInt("CART_TIMEOUT_SECONDS", 10),
		},
		DevServer: DevServerConfig{
			Host:                  getEnv("DEVSERVER_HOST", "0.0.0.0"),
			Port:                  getEnv("DEVSERVER_PORT", "8080"),
			JWTSecret:             getEnv("DEVSERVER_JWT_SECRET", "dev-secret"),
			AccessTokenTTLMinutes: getEnvAsInt("DEVSERVER_ACCESS_TOKEN_TTL_MINUTES", 60),
			BcryptCost:            getEnvAsInt("DEVSERVER_BCRYPT_COST", 10),
			MailFrom:              getEnv("DEVSERVER_MAIL_FROM", "no-reply@storefront.local"),
		},
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	switch c.Storage.Driver {
	case StorageMemory, StorageFile, StorageRedis, StoragePostgres:
	default:
		return fmt.Errorf("unknown STORAGE_DRIVER %q", c.Storage.Driver)
	}
	if c.Storage.Driver == StoragePostgres && c.Postgres.DSN == "" {
		return fmt.Errorf("POSTGRES_DSN is required for the postgres storage driver")
	}
	switch c.Geo.FailurePolicy {
	case GeoFailureEmpty, GeoFailurePropagate:
	default:
		return fmt.Errorf("unknown GEO_FAILURE_POLICY %q", c.Geo.FailurePolicy)
	}
	return nil
}

// Timeout returns the default per-request timeout for backend calls.
func (b BackendConfig) Timeout() time.Duration {
	return seconds(b.TimeoutSeconds)
}

// LongTimeout is used by the slower resources (cart, dashboard).
func (b BackendConfig) LongTimeout() time.Duration {
	return seconds(b.LongTimeoutSecs)
}

// Timeout returns the geography API request timeout.
func (g GeoConfig) Timeout() time.Duration {
	return seconds(g.TimeoutSeconds)
}

// ExpiryGrace returns the clock-skew tolerance applied to credential expiry.
func (a AuthConfig) ExpiryGrace() time.Duration {
	if a.ExpiryGraceSeconds < 0 {
		return 0
	}
	return time.Duration(a.ExpiryGraceSeconds) * time.Second
}

// RetryDelay returns the fixed delay between cart retries.
func (c CartConfig) RetryDelay() time.Duration {
	if c.RetryDelayMillis <= 0 {
		return 0
	}
	return time.Duration(c.RetryDelayMillis) * time.Millisecond
}

// Timeout returns the cart request timeout.
func (c CartConfig) Timeout() time.Duration {
	return seconds(c.RequestTimeoutSec)
}

// Addr returns the HTTP bind address.
func (d DevServerConfig) Addr() string {
	return fmt.Sprintf("%s:%s", d.Host, d.Port)
}

func seconds(n int) time.Duration {
	if n <= 0 {
		return 0
	}
	return time.Duration(n) * time.Second
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
