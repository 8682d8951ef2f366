package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Identity store backends selectable with USERS_BACKEND.
const (
	UsersBackendMongo    = "mongo"
	UsersBackendPostgres = "postgres"
)

// Config holds all service configuration loaded from environment variables.
type Config struct {
	Port string

	MongoURI string
	MongoDB  string

	UsersBackend string
	PostgresDSN  string

	JWTSecret string
	JWTIssuer string
	JWTTTL    time.Duration

	RedisAddr      string
	RedisPassword  string
	TotalsCacheTTL time.Duration

	MinioEndpoint  string
	MinioAccessKey string
	MinioSecretKey string
	MinioBucket    string
	MinioUseSSL    bool

	CORSAllowedOrigins []string

	// Location is used for month boundaries and the monthly aggregation.
	Location *time.Location

	// LegacyOwnership restores the original update/delete behavior: lookups by id only
	// and an unauthenticated DELETE /gastos/{id}.
	LegacyOwnership bool

	// LogFormat is "text" (default) or "json".
	LogFormat string

	AuthRatePerMinute int
}

// LoadDotEnv loads a local .env file when present. Existing variables win.
func LoadDotEnv() bool {
	return godotenv.Load() == nil
}

// Load reads configuration from the environment and validates required fields.
func Load() (*Config, error) {
	cfg := &Config{
		Port: getenv("PORT", "3000"),

		MongoURI: strings.TrimSpace(os.Getenv("MONGODB_URI")),
		MongoDB:  getenv("MONGODB_DB", "gastos"),

		UsersBackend: strings.ToLower(getenv("USERS_BACKEND", UsersBackendMongo)),
		PostgresDSN:  getenv("POSTGRES_DSN", ""),

		JWTSecret: getenv("JWT_SECRET", getenv("FASTIFY_JWT_SECRET", "")),
		JWTIssuer: getenv("JWT_ISSUER", "gastos-api"),
		JWTTTL:    getenvDuration("JWT_TTL", 24*time.Hour),

		RedisAddr:      getenv("REDIS_ADDR", ""),
		RedisPassword:  getenv("REDIS_PASSWORD", ""),
		TotalsCacheTTL: getenvDuration("TOTALS_CACHE_TTL", 10*time.Minute),

		MinioEndpoint:  getenv("MINIO_ENDPOINT", ""),
		MinioAccessKey: getenv("MINIO_ACCESS_KEY", ""),
		MinioSecretKey: getenv("MINIO_SECRET_KEY", ""),
		MinioBucket:    getenv("MINIO_BUCKET", "gastos-relatorios"),
		MinioUseSSL:    getenvBool("MINIO_USE_SSL", false),

		CORSAllowedOrigins: parseCSV(getenv("CORS_ALLOWED_ORIGINS", "*")),

		LegacyOwnership: getenvBool("LEGACY_OWNERSHIP", false),
		LogFormat:       getenv("LOG_FORMAT", "text"),

		AuthRatePerMinute: getenvInt("AUTH_RATE_PER_MINUTE", 10),
	}

	loc, err := time.LoadLocation(getenv("TIMEZONE", "UTC"))
	if err != nil {
		return nil, fmt.Errorf("TIMEZONE: %w", err)
	}
	// MongoDB's date operators take an IANA name or an offset. "Local" is neither.
	if loc == time.Local || loc.String() == "Local" {
		return nil, errors.New("TIMEZONE must be an IANA name such as UTC or America/Sao_Paulo, not Local")
	}
	cfg.Location = loc

	if cfg.MongoURI == "" {
		return nil, errors.New("MONGODB_URI is required")
	}
	if cfg.JWTSecret == "" {
		return nil, errors.New("JWT_SECRET is required")
	}
	switch cfg.UsersBackend {
	case UsersBackendMongo:
	case UsersBackendPostgres:
		if cfg.PostgresDSN == "" {
			return nil, errors.New("POSTGRES_DSN is required when USERS_BACKEND=postgres")
		}
	default:
		return nil, fmt.Errorf("USERS_BACKEND must be %q or %q, got %q",
			UsersBackendMongo, UsersBackendPostgres, cfg.UsersBackend)
	}

	return cfg, nil
}

// Addr returns the listen address for the HTTP server.
func (c *Config) Addr() string {
	return ":" + c.Port
}

// ReportsEnabled reports whether an object store is configured for monthly statements.
func (c *Config) ReportsEnabled() bool {
	return c.MinioEndpoint != ""
}

// CacheEnabled reports whether the Redis totals cache is configured.
func (c *Config) CacheEnabled() bool {
	return c.RedisAddr != ""
}

func getenv(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

func getenvInt(key string, fallback int) int {
	if n, err := strconv.Atoi(getenv(key, "")); err == nil && n > 0 {
		return n
	}
	return fallback
}

func getenvBool(key string, fallback bool) bool {
	if b, err := strconv.ParseBool(getenv(key, "")); err == nil {
		return b
	}
	return fallback
}

func getenvDuration(key string, fallback time.Duration) time.Duration {
	if d, err := time.ParseDuration(getenv(key, "")); err == nil && d > 0 {
		return d
	}
	return fallback
}

func parseCSV(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		if v := strings.TrimSpace(p); v != "" {
			out = append(out, v)
		}
	}
	return out
}
