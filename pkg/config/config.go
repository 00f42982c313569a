package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	EnvDevelopment = "development"
	EnvProduction  = "production"
)

// Authentication modes. Exactly one is active per deployment.
const (
	AuthModeSession = "session"
	AuthModeJWT     = "jwt"
	AuthModeOIDC    = "oidc"
)

const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

const (
	StoreMemory = "memory"
	StoreRedis  = "redis"
)

type Config struct {
	Env       string
	Port      int
	StaticDir string

	Database DatabaseConfig
	Redis    RedisConfig
	Auth     AuthConfig
	Session  SessionConfig
	JWT      JWTConfig
	OIDC     OIDCConfig
	Content  ContentConfig
	Cache    CacheConfig
	Metrics  MetricsConfig
	CORS     CORSConfig
	Log      LogConfig
}

type DatabaseConfig struct {
	Driver       string
	SQLitePath   string
	AutoMigrate  bool
	Host         string
	Port         int
	User         string
	Password     string
	Name         string
	SSLMode      string
	MaxOpenConns int
	MaxIdleConns int
}

type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
}

// AuthConfig selects the identity strategy.
type AuthConfig struct {
	Mode string
}

// SessionConfig governs server-side sessions and the token revocation list.
type SessionConfig struct {
	Store        string
	TTL          time.Duration
	MaxEntries   int
	CookieName   string
	CookieSecure bool
}

type JWTConfig struct {
	Secret     string
	Expiration time.Duration
	Issuer     string
}

// OIDCConfig points at the delegated identity provider.
type OIDCConfig struct {
	IssuerURL string
	ClientID  string
	UserInfo  bool
}

// ContentConfig carries the product switches that differ between deployments.
type ContentConfig struct {
	PublicReads          bool
	AcceptClientPostedAt bool
}

// CacheConfig toggles the Redis read cache for events and the timeline.
type CacheConfig struct {
	Enabled bool
	TTL     time.Duration
}

type MetricsConfig struct {
	Enabled bool
}

type CORSConfig struct {
	AllowedOrigins []string
}

type LogConfig struct {
	Level  string
	Format string
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetConfigFile(".env")
	v.SetConfigType("env")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !isMissingFile(err) {
			return nil, err
		}
	}

	cfg := &Config{}

	cfg.Env = v.GetString("ENV")
	cfg.Port = v.GetInt("PORT")
	cfg.StaticDir = v.GetString("STATIC_DIR")

	cfg.Database = DatabaseConfig{
		Driver:       strings.ToLower(v.GetString("DB_DRIVER")),
		SQLitePath:   v.GetString("SQLITE_PATH"),
		AutoMigrate:  v.GetBool("DB_AUTO_MIGRATE"),
		Host:         v.GetString("DB_HOST"),
		Port:         v.GetInt("DB_PORT"),
		User:         v.GetString("DB_USER"),
		Password:     v.GetString("DB_PASSWORD"),
		Name:         v.GetString("DB_NAME"),
		SSLMode:      v.GetString("DB_SSL_MODE"),
		MaxOpenConns: v.GetInt("DB_MAX_OPEN_CONNS"),
		MaxIdleConns: v.GetInt("DB_MAX_IDLE_CONNS"),
	}

	cfg.Redis = RedisConfig{
		Host:     v.GetString("REDIS_HOST"),
		Port:     v.GetInt("REDIS_PORT"),
		Password: v.GetString("REDIS_PASSWORD"),
		DB:       v.GetInt("REDIS_DB"),
	}

	cfg.Auth = AuthConfig{Mode: strings.ToLower(v.GetString("AUTH_MODE"))}

	cfg.Session = SessionConfig{
		Store:        strings.ToLower(v.GetString("SESSION_STORE")),
		TTL:          parseDuration(v.GetString("SESSION_TTL"), 24*time.Hour),
		MaxEntries:   v.GetInt("SESSION_MAX_ENTRIES"),
		CookieName:   v.GetString("SESSION_COOKIE_NAME"),
		CookieSecure: v.GetBool("SESSION_COOKIE_SECURE"),
	}

	cfg.JWT = JWTConfig{
		Secret:     v.GetString("JWT_SECRET"),
		Expiration: parseDuration(v.GetString("JWT_EXPIRATION"), 24*time.Hour),
		Issuer:     v.GetString("JWT_ISSUER"),
	}

	cfg.OIDC = OIDCConfig{
		IssuerURL: v.GetString("OIDC_ISSUER_URL"),
		ClientID:  v.GetString("OIDC_CLIENT_ID"),
		UserInfo:  v.GetBool("OIDC_USERINFO"),
	}

	cfg.Content = ContentConfig{
		PublicReads:          v.GetBool("PUBLIC_READS"),
		AcceptClientPostedAt: v.GetBool("ACCEPT_CLIENT_POSTED_AT"),
	}

	cfg.Cache = CacheConfig{
		Enabled: v.GetBool("CACHE_ENABLED"),
		TTL:     parseDuration(v.GetString("CACHE_TTL"), 30*time.Second),
	}

	cfg.Metrics = MetricsConfig{Enabled: v.GetBool("METRICS_ENABLED")}

	cfg.CORS = CORSConfig{AllowedOrigins: splitAndTrim(v.GetString("ALLOWED_ORIGINS"))}

	cfg.Log = LogConfig{
		Level:  v.GetString("LOG_LEVEL"),
		Format: v.GetString("LOG_FORMAT"),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate rejects combinations the server cannot start with.
func (c *Config) Validate() error {
	switch c.Auth.Mode {
	case AuthModeSession:
	case AuthModeJWT:
		if c.JWT.Secret == "" {
			return fmt.Errorf("JWT_SECRET is required when AUTH_MODE=%s", AuthModeJWT)
		}
	case AuthModeOIDC:
		if c.OIDC.IssuerURL == "" || c.OIDC.ClientID == "" {
			return fmt.Errorf("OIDC_ISSUER_URL and OIDC_CLIENT_ID are required when AUTH_MODE=%s", AuthModeOIDC)
		}
	default:
		return fmt.Errorf("unsupported AUTH_MODE %q", c.Auth.Mode)
	}

	switch c.Database.Driver {
	case DriverSQLite, DriverPostgres:
	default:
		return fmt.Errorf("unsupported DB_DRIVER %q", c.Database.Driver)
	}

	switch c.Session.Store {
	case StoreMemory, StoreRedis:
	default:
		return fmt.Errorf("unsupported SESSION_STORE %q", c.Session.Store)
	}

	return nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("ENV", EnvDevelopment)
	v.SetDefault("PORT", 3000)
	v.SetDefault("STATIC_DIR", "")

	v.SetDefault("DB_DRIVER", DriverSQLite)
	v.SetDefault("SQLITE_PATH", "db.sqlite")
	v.SetDefault("DB_AUTO_MIGRATE", true)
	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", 5432)
	v.SetDefault("DB_USER", "postgres")
	v.SetDefault("DB_PASSWORD", "postgres")
	v.SetDefault("DB_NAME", "event_info")
	v.SetDefault("DB_SSL_MODE", "disable")
	v.SetDefault("DB_MAX_OPEN_CONNS", 10)
	v.SetDefault("DB_MAX_IDLE_CONNS", 5)

	v.SetDefault("REDIS_HOST", "localhost")
	v.SetDefault("REDIS_PORT", 6379)
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("REDIS_DB", 0)

	v.SetDefault("AUTH_MODE", AuthModeSession)

	v.SetDefault("SESSION_STORE", StoreMemory)
	v.SetDefault("SESSION_TTL", "24h")
	v.SetDefault("SESSION_MAX_ENTRIES", 10000)
	v.SetDefault("SESSION_COOKIE_NAME", "sid")
	v.SetDefault("SESSION_COOKIE_SECURE", false)

	v.SetDefault("JWT_SECRET", "")
	v.SetDefault("JWT_EXPIRATION", "24h")
	v.SetDefault("JWT_ISSUER", "event-info-api")

	v.SetDefault("OIDC_ISSUER_URL", "")
	v.SetDefault("OIDC_CLIENT_ID", "")
	v.SetDefault("OIDC_USERINFO", false)

	v.SetDefault("PUBLIC_READS", true)
	v.SetDefault("ACCEPT_CLIENT_POSTED_AT", false)

	v.SetDefault("CACHE_ENABLED", false)
	v.SetDefault("CACHE_TTL", "30s")
	v.SetDefault("METRICS_ENABLED", true)

	v.SetDefault("ALLOWED_ORIGINS", "")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "json")
}

// viper reports a missing explicit config file as a path error rather than ConfigFileNotFoundError.
func isMissingFile(err error) bool {
	return strings.Contains(err.Error(), "no such file or directory")
}

func parseDuration(raw string, fallback time.Duration) time.Duration {
	if raw == "" {
		return fallback
	}

	d, err := time.ParseDuration(raw)
	if err != nil {
		return fallback
	}

	return d
}

func splitAndTrim(raw string) []string {
	if raw == "" {
		return nil
	}

	parts := strings.Split(raw, ",")
	result := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			result = append(result, trimmed)
		}
	}

	return result
}
