package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// Config holds all application configuration
//
//nolint:govet // Field alignment optimization would reduce readability
type Config struct {
	Server        ServerConfig
	Database      DatabaseConfig
	Auth          AuthConfig
	App           AppConfig
	EventTriggers EventTriggersConfig
	Logging       LoggingConfig
	Observability ObservabilityConfig
	Profiling     ProfilingConfig
	Cache         CacheConfig
	RateLimit     RateLimitConfig
}

type ServerConfig struct {
	Port           string
	GinMode        string
	AppEnv         string
	AllowedOrigins []string
}

type DatabaseConfig struct {
	URL            string
	MaxConns       int32
	MinConns       int32
	CACertPath     string
	MigrateOnStart bool
}

// AdminCredentials are the single admin portal identity. Injected into the portal
// auth service; never read from the environment at request time.
type AdminCredentials struct {
	Email        string
	Password     string
	PasswordHash string // bcrypt, takes precedence over Password when set
}

// Configured reports whether login is possible at all
func (a AdminCredentials) Configured() bool {
	return a.Email != "" && (a.Password != "" || a.PasswordHash != "")
}

type AuthConfig struct {
	Admin             AdminCredentials
	SessionSecret     string
	SessionTTLHours   int
	CookieDomain      string
	CookieSecure      bool
	BearerJWTSecret   string
	BearerJWTIssuer   string
	BearerTokenTTLHrs int // only used when signing local dev tokens
}

type AppConfig struct {
	PublicURL string // base of the review links sent to admins
}

type EventTriggersConfig struct {
	TrainerReviewRequestedURL string
}

type LoggingConfig struct {
	Level string
	Dir   string
}

type ObservabilityConfig struct {
	ExporterEndpoint  string
	ExporterInsecure  bool
	ServiceName       string
	ServiceNamespace  string
	ServiceVersion    string
	ServiceInstanceID string
}

type ProfilingConfig struct {
	Enabled               bool
	Endpoint              string
	AppName               string
	SampleTypes           string
	UploadIntervalSeconds int
}

type CacheConfig struct {
	OverviewTTLSeconds int
}

type RateLimitConfig struct {
	PublicRPS   float64
	PublicBurst int
	PortalRPS   float64
	PortalBurst int
	ReviewRPS   float64
	ReviewBurst int
}

// Load reads configuration from environment variables and an optional .env file
func Load() (*Config, error) {
	v := viper.New()

	v.SetDefault("PORT", "8081")
	v.SetDefault("GIN_MODE", "release")
	v.SetDefault("APP_ENV", "production")
	v.SetDefault("ALLOWED_CORS_ORIGINS", "http://localhost:3000")
	v.SetDefault("APP_URL", "http://localhost:3000")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_DIR", "/app/logs")
	v.SetDefault("DATABASE_MAX_CONNS", 20)
	v.SetDefault("DATABASE_MIN_CONNS", 2)
	v.SetDefault("DATABASE_MIGRATE_ON_START", false)
	v.SetDefault("ADMIN_SESSION_TTL_HOURS", 24*7)
	v.SetDefault("COOKIE_DOMAIN", "")
	v.SetDefault("COOKIE_SECURE", true)
	v.SetDefault("AUTH_JWT_ISSUER", "")
	v.SetDefault("AUTH_JWT_TTL_HOURS", 1)
	v.SetDefault("O11Y_EXPORTER_ENDPOINT", "")
	v.SetDefault("O11Y_EXPORTER_INSECURE", true)
	v.SetDefault("O11Y_BE_SERVICE_NAME", "gymratia-api")
	v.SetDefault("O11Y_SERVICE_NAMESPACE", "gymratia")
	v.SetDefault("O11Y_BE_SERVICE_VERSION", "1.0.0")
	v.SetDefault("O11Y_PROFILING_ENABLED", false)
	v.SetDefault("O11Y_PROFILING_APP_NAME", "gymratia-api")
	v.SetDefault("O11Y_PROFILING_SAMPLE_TYPES", "cpu,alloc_space,alloc_objects,goroutines,mutex,block")
	v.SetDefault("O11Y_PROFILING_UPLOAD_INTERVAL_SECONDS", 15)
	v.SetDefault("OVERVIEW_CACHE_TTL", 60)
	v.SetDefault("RATE_LIMIT_PUBLIC_RPS", 10)
	v.SetDefault("RATE_LIMIT_PUBLIC_BURST", 20)
	v.SetDefault("RATE_LIMIT_PORTAL_RPS", 5)
	v.SetDefault("RATE_LIMIT_PORTAL_BURST", 10)
	v.SetDefault("RATE_LIMIT_REVIEW_RPS", 0.2)
	v.SetDefault("RATE_LIMIT_REVIEW_BURST", 5)

	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	v.SetConfigName(".env")
	v.SetConfigType("env")
	v.AddConfigPath(".")
	v.AddConfigPath("..")
	_ = v.ReadInConfig() //nolint:errcheck // Ignore error if .env file doesn't exist

	cfg := &Config{
		Server: ServerConfig{
			Port:           v.GetString("PORT"),
			GinMode:        v.GetString("GIN_MODE"),
			AppEnv:         v.GetString("APP_ENV"),
			AllowedOrigins: splitList(v.GetString("ALLOWED_CORS_ORIGINS")),
		},
		Database: DatabaseConfig{
			URL:            v.GetString("DATABASE_URL"),
			MaxConns:       v.GetInt32("DATABASE_MAX_CONNS"),
			MinConns:       v.GetInt32("DATABASE_MIN_CONNS"),
			CACertPath:     v.GetString("DATABASE_CA_CERT"),
			MigrateOnStart: v.GetBool("DATABASE_MIGRATE_ON_START"),
		},
		Auth: AuthConfig{
			Admin: AdminCredentials{
				Email:        v.GetString("ADMIN_EMAIL"),
				Password:     v.GetString("ADMIN_PASSWORD"),
				PasswordHash: v.GetString("ADMIN_PASSWORD_HASH"),
			},
			SessionSecret:     v.GetString("ADMIN_SESSION_SECRET"),
			SessionTTLHours:   v.GetInt("ADMIN_SESSION_TTL_HOURS"),
			CookieDomain:      v.GetString("COOKIE_DOMAIN"),
			CookieSecure:      v.GetBool("COOKIE_SECURE"),
			BearerJWTSecret:   v.GetString("AUTH_JWT_SECRET"),
			BearerJWTIssuer:   v.GetString("AUTH_JWT_ISSUER"),
			BearerTokenTTLHrs: v.GetInt("AUTH_JWT_TTL_HOURS"),
		},
		App: AppConfig{
			PublicURL: strings.TrimRight(v.GetString("APP_URL"), "/"),
		},
		EventTriggers: EventTriggersConfig{
			TrainerReviewRequestedURL: v.GetString("TRAINER_REVIEW_REQUESTED_TRIGGER_URL"),
		},
		Logging: LoggingConfig{
			Level: v.GetString("LOG_LEVEL"),
			Dir:   v.GetString("LOG_DIR"),
		},
		Observability: ObservabilityConfig{
			ExporterEndpoint:  v.GetString("O11Y_EXPORTER_ENDPOINT"),
			ExporterInsecure:  v.GetBool("O11Y_EXPORTER_INSECURE"),
			ServiceName:       v.GetString("O11Y_BE_SERVICE_NAME"),
			ServiceNamespace:  v.GetString("O11Y_SERVICE_NAMESPACE"),
			ServiceVersion:    v.GetString("O11Y_BE_SERVICE_VERSION"),
			ServiceInstanceID: v.GetString("SERVICE_INSTANCE_ID"),
		},
		Profiling: ProfilingConfig{
			Enabled:               v.GetBool("O11Y_PROFILING_ENABLED"),
			Endpoint:              v.GetString("O11Y_PROFILING_ENDPOINT"),
			AppName:               v.GetString("O11Y_PROFILING_APP_NAME"),
			SampleTypes:           v.GetString("O11Y_PROFILING_SAMPLE_TYPES"),
			UploadIntervalSeconds: v.GetInt("O11Y_PROFILING_UPLOAD_INTERVAL_SECONDS"),
		},
		Cache: CacheConfig{
			OverviewTTLSeconds: v.GetInt("OVERVIEW_CACHE_TTL"),
		},
		RateLimit: RateLimitConfig{
			PublicRPS:   v.GetFloat64("RATE_LIMIT_PUBLIC_RPS"),
			PublicBurst: v.GetInt("RATE_LIMIT_PUBLIC_BURST"),
			PortalRPS:   v.GetFloat64("RATE_LIMIT_PORTAL_RPS"),
			PortalBurst: v.GetInt("RATE_LIMIT_PORTAL_BURST"),
			ReviewRPS:   v.GetFloat64("RATE_LIMIT_REVIEW_RPS"),
			ReviewBurst: v.GetInt("RATE_LIMIT_REVIEW_BURST"),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func splitList(value string) []string {
	items := []string{}
	for _, item := range strings.Split(value, ",") {
		item = strings.TrimSpace(item)
		if item != "" {
			items = append(items, item)
		}
	}
	return items
}

// Validate checks if required configuration values are set
func (c *Config) Validate() error {
	if c.Database.URL == "" {
		return fmt.Errorf("DATABASE_URL is required")
	}

	if c.Auth.BearerJWTSecret == "" {
		return fmt.Errorf("AUTH_JWT_SECRET is required")
	}

	// securecookie needs enough entropy to derive hash and block keys
	if len(c.Auth.SessionSecret) < 32 {
		return fmt.Errorf("ADMIN_SESSION_SECRET must be at least 32 characters")
	}

	if c.Server.Port == "" {
		return fmt.Errorf("PORT is required")
	}
	if len(c.Server.AllowedOrigins) == 0 {
		return fmt.Errorf("ALLOWED_CORS_ORIGINS is required")
	}
	if c.App.PublicURL == "" {
		return fmt.Errorf("APP_URL is required")
	}

	if c.Cache.OverviewTTLSeconds < 0 {
		return fmt.Errorf("OVERVIEW_CACHE_TTL must not be negative")
	}

	if c.Profiling.Enabled && c.Profiling.Endpoint == "" {
		return fmt.Errorf("O11Y_PROFILING_ENDPOINT is required when profiling is enabled")
	}

	return nil
}

// IsDevelopment returns true if running in development mode
func (c *Config) IsDevelopment() bool {
	return c.Server.AppEnv == "development" || c.Server.GinMode == "debug"
}

// IsProduction returns true if running in production mode
func (c *Config) IsProduction() bool {
	return c.Server.AppEnv == "production"
}
