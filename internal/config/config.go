package config

import (
	"os"
	"strconv"
	"time"
)

type Config struct {
	HTTPAddr    string
	DatabaseURL string

	JWTSecret      string
	JWTIssuer      string
	AccessTokenTTL time.Duration

	AdminEmail        string
	AdminPasswordHash string

	RedisAddr      string
	RedisPassword  string
	VerifyTokenTTL time.Duration

	StorageEndpoint  string
	StorageAccessKey string
	StorageSecretKey string
	StorageBucket    string
	StoragePublicURL string
	StorageUseSSL    bool

	RegistrationForceClosed bool
	RegistrationOpensAt     time.Time
	RegistrationClosesAt    time.Time
}

// Load reads everything from the environment. DATABASE_URL has no default on
// purpose: when it is absent the service still starts and every data route
// answers backend_not_configured instead of crashing.
func Load() Config {
	return Config{
		HTTPAddr:    getenv("HTTP_ADDR", ":8080"),
		DatabaseURL: getenv("DATABASE_URL", ""),

		JWTSecret:      getenv("JWT_SECRET", "dev-secret"),
		JWTIssuer:      getenv("JWT_ISSUER", "mathematicsday-api"),
		AccessTokenTTL: getenvDuration("ACCESS_TOKEN_TTL", 12*time.Hour),

		AdminEmail:        getenv("ADMIN_EMAIL", ""),
		AdminPasswordHash: getenv("ADMIN_PASSWORD_HASH", ""),

		RedisAddr:      getenv("REDIS_ADDR", ""),
		RedisPassword:  getenv("REDIS_PASSWORD", ""),
		VerifyTokenTTL: getenvDuration("VERIFY_TOKEN_TTL", 15*time.Minute),

		StorageEndpoint:  getenv("STORAGE_ENDPOINT", ""),
		StorageAccessKey: getenv("STORAGE_ACCESS_KEY", ""),
		StorageSecretKey: getenv("STORAGE_SECRET_KEY", ""),
		StorageBucket:    getenv("STORAGE_BUCKET", "uploads"),
		StoragePublicURL: getenv("STORAGE_PUBLIC_URL", ""),
		StorageUseSSL:    getenvBool("STORAGE_USE_SSL", true),

		RegistrationForceClosed: getenvBool("REGISTRATION_FORCE_CLOSED", false),
		RegistrationOpensAt:     getenvTime("REGISTRATION_OPENS_AT"),
		RegistrationClosesAt:    getenvTime("REGISTRATION_CLOSES_AT"),
	}
}

func getenv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getenvBool(key string, fallback bool) bool {
	if val := os.Getenv(key); val != "" {
		if parsed, err := strconv.ParseBool(val); err == nil {
			return parsed
		}
	}
	return fallback
}

func getenvDuration(key string, fallback time.Duration) time.Duration {
	if val := os.Getenv(key); val != "" {
		if parsed, err := time.ParseDuration(val); err == nil {
			return parsed
		}
	}
	if val := os.Getenv(key + "_SECONDS"); val != "" {
		if seconds, err := strconv.Atoi(val); err == nil {
			return time.Duration(seconds) * time.Second
		}
	}
	return fallback
}

// getenvTime parses RFC3339; a missing or malformed value yields the zero
// time, which callers treat as an unbounded window edge.
func getenvTime(key string) time.Time {
	if val := os.Getenv(key); val != "" {
		if parsed, err := time.Parse(time.RFC3339, val); err == nil {
			return parsed.UTC()
		}
	}
	return time.Time{}
}

// RegistrationOpen applies the explicit force-closed switch first, then the
// configured date window.
func (c Config) RegistrationOpen(now time.Time) bool {
	if c.RegistrationForceClosed {
		return false
	}
	if !c.RegistrationOpensAt.IsZero() && now.Before(c.RegistrationOpensAt) {
		return false
	}
	if !c.RegistrationClosesAt.IsZero() && now.After(c.RegistrationClosesAt) {
		return false
	}
	return true
}
