// Package config assembles runtime configuration from the environment so
// main stays lean. Secrets are never defaulted: a missing signing key or
// upstream credential is a startup error, not a silent fallback.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

type Server struct {
	Addr            string
	MetricsAddr     string
	ShutdownTimeout time.Duration
}

type JWT struct {
	SigningKey       string
	EncryptionSecret string
	Issuer           string
	AccessTTL        time.Duration
	RefreshTTL       time.Duration
}

// Tracker points at the upstream issue-tracker API. RoleProject names the
// project whose memberships define who holds which role.
type Tracker struct {
	BaseURL     string
	AdminKey    string
	Timeout     time.Duration
	RoleProject string
}

type Redis struct {
	URL          string
	PoolSize     int
	MinIdleConns int
	DialTimeout  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

type Google struct {
	ClientID string
}

type SMTP struct {
	Host     string
	Port     string
	Username string
	Password string
	From     string
}

type SMS struct {
	BaseURL  string
	APIKey   string
	SenderID string
}

type Config struct {
	Server  Server
	JWT     JWT
	Tracker Tracker
	Redis   Redis
	Google  Google
	SMTP    SMTP
	SMS     SMS

	// ResetURL is the web page the emailed reset link points at.
	ResetURL string
}

// FromEnv builds the full configuration from environment variables.
func FromEnv() (Config, error) {
	cfg := Config{
		Server: Server{
			Addr:            envOr("PERMIT_GATEWAY_ADDR", ":8080"),
			MetricsAddr:     envOr("PERMIT_GATEWAY_METRICS_ADDR", ":9090"),
			ShutdownTimeout: envDuration("PERMIT_GATEWAY_SHUTDOWN_TIMEOUT", 10*time.Second),
		},
		JWT: JWT{
			SigningKey:       os.Getenv("JWT_SIGNING_KEY"),
			EncryptionSecret: os.Getenv("JWT_ENCRYPTION_SECRET"),
			Issuer:           envOr("JWT_ISSUER", "permit-gateway"),
			AccessTTL:        envDuration("JWT_ACCESS_TTL", 15*time.Minute),
			RefreshTTL:       envDuration("JWT_REFRESH_TTL", 7*24*time.Hour),
		},
		Tracker: Tracker{
			BaseURL:     os.Getenv("TRACKER_BASE_URL"),
			AdminKey:    os.Getenv("TRACKER_ADMIN_KEY"),
			Timeout:     envDuration("TRACKER_TIMEOUT", 15*time.Second),
			RoleProject: envOr("TRACKER_ROLE_PROJECT", "licensing"),
		},
		Redis: Redis{
			URL:          os.Getenv("REDIS_URL"),
			PoolSize:     envInt("REDIS_POOL_SIZE", 10),
			MinIdleConns: envInt("REDIS_MIN_IDLE_CONNS", 2),
			DialTimeout:  envDuration("REDIS_DIAL_TIMEOUT", 5*time.Second),
			ReadTimeout:  envDuration("REDIS_READ_TIMEOUT", 3*time.Second),
			WriteTimeout: envDuration("REDIS_WRITE_TIMEOUT", 3*time.Second),
		},
		Google: Google{
			ClientID: os.Getenv("GOOGLE_CLIENT_ID"),
		},
		SMTP: SMTP{
			Host:     os.Getenv("SMTP_HOST"),
			Port:     envOr("SMTP_PORT", "587"),
			Username: os.Getenv("SMTP_USERNAME"),
			Password: os.Getenv("SMTP_PASSWORD"),
			From:     envOr("SMTP_FROM", "no-reply@permits.example.org"),
		},
		SMS: SMS{
			BaseURL:  os.Getenv("SMS_GATEWAY_URL"),
			APIKey:   os.Getenv("SMS_GATEWAY_KEY"),
			SenderID: envOr("SMS_SENDER_ID", "PERMITS"),
		},
		ResetURL: envOr("PASSWORD_RESET_URL", "https://permits.example.org/reset-password"),
	}

	if cfg.JWT.SigningKey == "" {
		return Config{}, fmt.Errorf("JWT_SIGNING_KEY is required")
	}
	if cfg.JWT.EncryptionSecret == "" {
		return Config{}, fmt.Errorf("JWT_ENCRYPTION_SECRET is required")
	}
	if cfg.Tracker.BaseURL == "" {
		return Config{}, fmt.Errorf("TRACKER_BASE_URL is required")
	}
	if cfg.Tracker.AdminKey == "" {
		return Config{}, fmt.Errorf("TRACKER_ADMIN_KEY is required")
	}

	return cfg, nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envDuration(key string, fallback time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return fallback
	}
	return d
}

func envInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}
