package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Supported database drivers.
const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

// Config holds runtime configuration values for the API service.
type Config struct {
	AppName           string
	AppEnv            string
	AppPort           string
	CORSOrigins       string
	DatabaseDriver    string
	DatabaseURL       string
	RedisURL          string
	NATSURL           string
	EventsSubject     string
	JWTSecret         string
	JWTTTL            time.Duration
	JWTIssuer         string
	BcryptCost        int
	DashboardCacheTTL time.Duration
	AuthRateLimit     int
	AuthRateWindow    time.Duration
}

// HTTPAddress returns the address the HTTP server should listen on.
func (c Config) HTTPAddress() string {
	if strings.HasPrefix(c.AppPort, ":") {
		return c.AppPort
	}

	return fmt.Sprintf(":%s", c.AppPort)
}

// IsProduction reports whether the service runs in the production environment.
func (c Config) IsProduction() bool {
	return strings.EqualFold(c.AppEnv, "production")
}

// Load reads configuration values from environment variables and optional .env file.
func Load() (Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetEnvPrefix("SCHOOL")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	v.SetDefault("app.name", "School Portal API")
	v.SetDefault("app.env", "development")
	v.SetDefault("app.port", "5000")
	v.SetDefault("app.cors_origins", "*")
	v.SetDefault("database.driver", DriverPostgres)
	v.SetDefault("events.subject", "school.users")
	v.SetDefault("jwt.ttl", "24h")
	v.SetDefault("jwt.issuer", "school-portal-api")
	v.SetDefault("bcrypt.cost", 12)
	v.SetDefault("dashboard.cache_ttl", "1m")
	v.SetDefault("auth.rate_limit", 20)
	v.SetDefault("auth.rate_window", "1m")

	return fromViper(v)
}

func fromViper(v *viper.Viper) (Config, error) {
	jwtTTL, err := parseDuration(v, "jwt.ttl", 24*time.Hour)
	if err != nil {
		return Config{}, err
	}
	cacheTTL, err := parseDuration(v, "dashboard.cache_ttl", time.Minute)
	if err != nil {
		return Config{}, err
	}
	rateWindow, err := parseDuration(v, "auth.rate_window", time.Minute)
	if err != nil {
		return Config{}, err
	}

	cfg := Config{
		AppName:           v.GetString("app.name"),
		AppEnv:            v.GetString("app.env"),
		AppPort:           v.GetString("app.port"),
		CORSOrigins:       v.GetString("app.cors_origins"),
		DatabaseDriver:    strings.ToLower(strings.TrimSpace(v.GetString("database.driver"))),
		DatabaseURL:       v.GetString("database.url"),
		RedisURL:          v.GetString("redis.url"),
		NATSURL:           v.GetString("nats.url"),
		EventsSubject:     v.GetString("events.subject"),
		JWTSecret:         v.GetString("jwt.secret"),
		JWTTTL:            jwtTTL,
		JWTIssuer:         v.GetString("jwt.issuer"),
		BcryptCost:        v.GetInt("bcrypt.cost"),
		DashboardCacheTTL: cacheTTL,
		AuthRateLimit:     v.GetInt("auth.rate_limit"),
		AuthRateWindow:    rateWindow,
	}

	if strings.TrimSpace(cfg.JWTSecret) == "" {
		return Config{}, fmt.Errorf("jwt secret must be provided")
	}
	switch cfg.DatabaseDriver {
	case DriverPostgres, DriverSQLite:
	default:
		return Config{}, fmt.Errorf("unsupported database driver %q", cfg.DatabaseDriver)
	}
	if cfg.DatabaseURL == "" {
		return Config{}, fmt.Errorf("database url must be provided")
	}
	if cfg.AuthRateLimit <= 0 {
		cfg.AuthRateLimit = 20
	}

	return cfg, nil
}

func parseDuration(v *viper.Viper, key string, fallback time.Duration) (time.Duration, error) {
	raw := strings.TrimSpace(v.GetString(key))
	if raw == "" {
		return fallback, nil
	}
	value, err := time.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	if value <= 0 {
		return fallback, nil
	}
	return value, nil
}
