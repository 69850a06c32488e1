package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

type Config struct {
	Server     ServerConfig
	Database   DatabaseConfig
	JWT        JWTConfig
	OAuth      OAuthConfig
	Cloudinary CloudinaryConfig
	Stripe     StripeConfig
	Referral   ReferralConfig
	Leads      LeadsConfig
	Admin      AdminConfig
}

// AdminConfig seeds the first admin account when no admin exists yet.
type AdminConfig struct {
	Email    string
	Password string
}

type ServerConfig struct {
	Port            string
	Env             string
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	RateLimit       int
	RateLimitWindow time.Duration
}

type DatabaseConfig struct {
	DSN             string
	MaxIdleConns    int
	MaxOpenConns    int
	ConnMaxLifetime time.Duration
}

type JWTConfig struct {
	AccessSecret  string
	RefreshSecret string
	AccessExpiry  time.Duration
	RefreshExpiry time.Duration
	Issuer        string
	SessionCookie string
}

type OAuthConfig struct {
	GoogleClientID     string
	GoogleClientSecret string
	GoogleRedirectURL  string
}

type CloudinaryConfig struct {
	CloudName string
	APIKey    string
	APISecret string
}

type StripeConfig struct {
	SecretKey     string
	WebhookSecret string
	Currency      string
}

// ReferralConfig controls commission accrual on qualifying payments.
type ReferralConfig struct {
	CommissionPercent int64
	MinCashoutCents   int64
}

// LeadsConfig holds marketplace tunables.
type LeadsConfig struct {
	VisibilityWindowDays int
	DefaultPageSize      int
	MaxPageSize          int
}

// Load reads configuration from the environment. A .env file is loaded
// first when present so local development matches deployed behavior.
func Load() *Config {
	_ = godotenv.Load()

	return &Config{
		Server: ServerConfig{
			Port:            envStr("PORT", "8080"),
			Env:             envStr("APP_ENV", "development"),
			ReadTimeout:     envDuration("SERVER_READ_TIMEOUT", 10*time.Second),
			WriteTimeout:    envDuration("SERVER_WRITE_TIMEOUT", 10*time.Second),
			RateLimit:       envInt("RATE_LIMIT", 100),
			RateLimitWindow: envDuration("RATE_LIMIT_WINDOW", time.Minute),
		},
		Database: DatabaseConfig{
			DSN:             envStr("DATABASE_DSN", "leadmart:leadmart@tcp(localhost:3306)/leadmart?charset=utf8mb4&parseTime=True&loc=Local"),
			MaxIdleConns:    envInt("DB_MAX_IDLE_CONNS", 10),
			MaxOpenConns:    envInt("DB_MAX_OPEN_CONNS", 100),
			ConnMaxLifetime: envDuration("DB_CONN_MAX_LIFETIME", time.Hour),
		},
		JWT: JWTConfig{
			AccessSecret:  envStr("JWT_ACCESS_SECRET", "change-me-in-production"),
			RefreshSecret: envStr("JWT_REFRESH_SECRET", "change-me-refresh"),
			AccessExpiry:  envDuration("JWT_ACCESS_EXPIRY", 15*time.Minute),
			RefreshExpiry: envDuration("JWT_REFRESH_EXPIRY", 168*time.Hour),
			Issuer:        envStr("JWT_ISSUER", "leadmart"),
			SessionCookie: envStr("SESSION_COOKIE_NAME", "lm_session"),
		},
		OAuth: OAuthConfig{
			GoogleClientID:     os.Getenv("GOOGLE_CLIENT_ID"),
			GoogleClientSecret: os.Getenv("GOOGLE_CLIENT_SECRET"),
			GoogleRedirectURL:  os.Getenv("GOOGLE_REDIRECT_URL"),
		},
		Cloudinary: CloudinaryConfig{
			CloudName: os.Getenv("CLOUDINARY_CLOUD_NAME"),
			APIKey:    os.Getenv("CLOUDINARY_API_KEY"),
			APISecret: os.Getenv("CLOUDINARY_API_SECRET"),
		},
		Stripe: StripeConfig{
			SecretKey:     os.Getenv("STRIPE_SECRET_KEY"),
			WebhookSecret: os.Getenv("STRIPE_WEBHOOK_SECRET"),
			Currency:      envStr("STRIPE_CURRENCY", "inr"),
		},
		Referral: ReferralConfig{
			CommissionPercent: int64(envInt("REFERRAL_COMMISSION_PERCENT", 10)),
			MinCashoutCents:   int64(envInt("REFERRAL_MIN_CASHOUT_CENTS", 50000)),
		},
		Leads: LeadsConfig{
			VisibilityWindowDays: envInt("LEADS_VISIBILITY_WINDOW_DAYS", 30),
			DefaultPageSize:      envInt("LEADS_DEFAULT_PAGE_SIZE", 20),
			MaxPageSize:          envInt("LEADS_MAX_PAGE_SIZE", 100),
		},
		Admin: AdminConfig{
			Email:    os.Getenv("ADMIN_EMAIL"),
			Password: os.Getenv("ADMIN_PASSWORD"),
		},
	}
}

// Validate reports configuration problems once at startup instead of on
// first use. Missing optional integrations are logged, not fatal.
func (c *Config) Validate(log *logrus.Logger) error {
	if c.Server.Env == "production" {
		if c.JWT.AccessSecret == "change-me-in-production" || c.JWT.RefreshSecret == "change-me-refresh" {
			log.Error("JWT secrets are still set to defaults in production")
		}
	}
	if c.Stripe.SecretKey == "" {
		log.Warn("STRIPE_SECRET_KEY not set; paid purchases and subscription checkout use the stub provider")
	}
	if c.Stripe.WebhookSecret == "" {
		log.Warn("STRIPE_WEBHOOK_SECRET not set; payment webhooks will be rejected")
	}
	if c.Cloudinary.CloudName == "" {
		log.Warn("Cloudinary credentials not set; attachment uploads disabled")
	}
	return nil
}

func envStr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func envDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}
