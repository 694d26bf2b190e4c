package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds all runtime configuration derived from environment variables.
type Config struct {
	HTTPPort           string
	RedisURL           string
	JWTSecret          string
	JWTIssuer          string
	JWTAudience        string
	WidgetOrigin       string
	PaymentFailureRate float64
	YieldInterval      time.Duration
	PublicRateLimitRPS int
	AuthRateLimitRPS   int
	LogLevel           string
	IdempotencyTTL     time.Duration
}

// Load reads environment variables using viper and returns a typed config.
func Load() (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.AutomaticEnv()
	bindEnv(v, "port", "PORT", "GRID_PORT")
	bindEnv(v, "redis_url", "REDIS_URL", "GRID_REDIS_URL")
	bindEnv(v, "jwt_secret", "JWT_SECRET", "GRID_JWT_SECRET")
	bindEnv(v, "jwt_issuer", "JWT_ISSUER", "GRID_JWT_ISSUER")
	bindEnv(v, "jwt_audience", "JWT_AUDIENCE", "GRID_JWT_AUDIENCE")
	bindEnv(v, "widget_origin", "WIDGET_ORIGIN", "GRID_WIDGET_ORIGIN")
	bindEnv(v, "payment_failure_rate", "PAYMENT_FAILURE_RATE", "GRID_PAYMENT_FAILURE_RATE")
	bindEnv(v, "yield_interval", "YIELD_INTERVAL", "GRID_YIELD_INTERVAL")
	bindEnv(v, "public_rate_limit_rps", "PUBLIC_RATE_LIMIT_RPS", "GRID_PUBLIC_RATE_LIMIT_RPS")
	bindEnv(v, "auth_rate_limit_rps", "AUTH_RATE_LIMIT_RPS", "GRID_AUTH_RATE_LIMIT_RPS")
	bindEnv(v, "log_level", "LOG_LEVEL", "GRID_LOG_LEVEL")
	bindEnv(v, "idempotency_ttl", "IDEMPOTENCY_TTL", "GRID_IDEMPOTENCY_TTL")

	v.SetDefault("port", "8080")
	v.SetDefault("redis_url", "")
	v.SetDefault("jwt_secret", "")
	v.SetDefault("jwt_issuer", "squadgrid-dashboard")
	v.SetDefault("jwt_audience", "squadgrid-api")
	v.SetDefault("widget_origin", "https://squadgrid.xyz")
	v.SetDefault("payment_failure_rate", 0.05)
	v.SetDefault("yield_interval", "1h")
	v.SetDefault("public_rate_limit_rps", 10)
	v.SetDefault("auth_rate_limit_rps", 100)
	v.SetDefault("log_level", "info")
	v.SetDefault("idempotency_ttl", "24h")

	yieldInterval, err := time.ParseDuration(v.GetString("yield_interval"))
	if err != nil {
		return nil, fmt.Errorf("invalid YIELD_INTERVAL: %w", err)
	}

	ttl, err := time.ParseDuration(v.GetString("idempotency_ttl"))
	if err != nil {
		return nil, fmt.Errorf("invalid IDEMPOTENCY_TTL: %w", err)
	}

	cfg := &Config{
		HTTPPort:           v.GetString("port"),
		RedisURL:           v.GetString("redis_url"),
		JWTSecret:          v.GetString("jwt_secret"),
		JWTIssuer:          v.GetString("jwt_issuer"),
		JWTAudience:        v.GetString("jwt_audience"),
		WidgetOrigin:       v.GetString("widget_origin"),
		PaymentFailureRate: v.GetFloat64("payment_failure_rate"),
		YieldInterval:      yieldInterval,
		PublicRateLimitRPS: max(v.GetInt("public_rate_limit_rps"), 1),
		AuthRateLimitRPS:   max(v.GetInt("auth_rate_limit_rps"), 1),
		LogLevel:           v.GetString("log_level"),
		IdempotencyTTL:     ttl,
	}

	if strings.TrimSpace(cfg.JWTSecret) == "" {
		return nil, fmt.Errorf("JWT_SECRET is required")
	}
	if len(cfg.JWTSecret) < 32 {
		return nil, fmt.Errorf("JWT_SECRET must be at least 32 characters")
	}
	if strings.TrimSpace(cfg.JWTIssuer) == "" {
		return nil, fmt.Errorf("JWT_ISSUER is required")
	}
	if strings.TrimSpace(cfg.JWTAudience) == "" {
		return nil, fmt.Errorf("JWT_AUDIENCE is required")
	}
	if cfg.PaymentFailureRate < 0 || cfg.PaymentFailureRate >= 1 {
		return nil, fmt.Errorf("PAYMENT_FAILURE_RATE must be in [0, 1)")
	}

	return cfg, nil
}

func bindEnv(v *viper.Viper, key string, names ...string) {
	args := append([]string{key}, names...)
	_ = v.BindEnv(args...)
}
