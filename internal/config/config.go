package config

import (
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const minSessionSecretLength = 32

type Config struct {
	ServerPort              string
	ServerReadHeaderTimeout time.Duration
	ServerWriteTimeout      time.Duration
	ServerIdleTimeout       time.Duration
	RequestTimeout          time.Duration
	ExportMaxDuration       time.Duration
	ExportIdleTimeout       time.Duration
	UpstreamBaseURL         string
	UpstreamTimeout         time.Duration
	SessionSecret           string
	SessionTTL              time.Duration
	SessionCookieName       string
	Environment             string
	CORSOrigins             []string
	RateLimitRPM            int
	AuthRateLimitRPM        int
	StaticDir               string
	DefaultCurrency         string
	LogFormat               string
	LogLevel                string
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		ServerPort:              getEnv("SERVER_PORT", "3000"),
		ServerReadHeaderTimeout: getDuration("SERVER_READ_HEADER_TIMEOUT", 10*time.Second),
		ServerWriteTimeout:      getDuration("SERVER_WRITE_TIMEOUT", 120*time.Second),
		ServerIdleTimeout:       getDuration("SERVER_IDLE_TIMEOUT", 120*time.Second),
		RequestTimeout:          getDuration("REQUEST_TIMEOUT", 60*time.Second),
		ExportMaxDuration:       getDuration("EXPORT_MAX_DURATION", 10*time.Minute),
		ExportIdleTimeout:       getDuration("EXPORT_IDLE_TIMEOUT", 60*time.Second),
		UpstreamBaseURL:         strings.TrimSuffix(strings.TrimSpace(os.Getenv("UPSTREAM_BASE_URL")), "/"),
		UpstreamTimeout:         getDuration("UPSTREAM_TIMEOUT", 60*time.Second),
		SessionSecret:           strings.TrimSpace(os.Getenv("SESSION_SECRET")),
		SessionTTL:              getDuration("SESSION_TTL", 7*24*time.Hour),
		SessionCookieName:       getEnv("SESSION_COOKIE_NAME", "session"),
		Environment:             strings.ToLower(getEnv("APP_ENV", "development")),
		CORSOrigins:             splitCSV(os.Getenv("CORS_ORIGINS")),
		RateLimitRPM:            getInt("RATE_LIMIT_RPM", 300),
		AuthRateLimitRPM:        getInt("AUTH_RATE_LIMIT_RPM", 10),
		StaticDir:               getEnv("STATIC_DIR", "./web/dist"),
		DefaultCurrency:         strings.ToUpper(getEnv("DEFAULT_CURRENCY", "NGN")),
		LogFormat:               strings.ToLower(getEnv("LOG_FORMAT", "pretty")),
		LogLevel:                strings.ToLower(getEnv("LOG_LEVEL", "info")),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) Validate() error {
	if c.ServerPort == "" {
		return fmt.Errorf("SERVER_PORT cannot be empty")
	}

	if c.UpstreamBaseURL == "" {
		return fmt.Errorf("UPSTREAM_BASE_URL is required")
	}

	parsed, err := url.Parse(c.UpstreamBaseURL)
	if err != nil || parsed.Scheme == "" || parsed.Host == "" {
		return fmt.Errorf("UPSTREAM_BASE_URL must be an absolute URL")
	}

	if len(c.SessionSecret) < minSessionSecretLength {
		return fmt.Errorf("SESSION_SECRET must be at least %d characters", minSessionSecretLength)
	}

	if c.SessionTTL <= 0 {
		return fmt.Errorf("SESSION_TTL must be positive")
	}

	if strings.TrimSpace(c.SessionCookieName) == "" {
		return fmt.Errorf("SESSION_COOKIE_NAME cannot be empty")
	}

	if c.RequestTimeout <= 0 {
		return fmt.Errorf("REQUEST_TIMEOUT must be positive")
	}

	if c.ExportMaxDuration <= 0 || c.ExportIdleTimeout <= 0 {
		return fmt.Errorf("EXPORT_MAX_DURATION and EXPORT_IDLE_TIMEOUT must be positive")
	}

	if c.UpstreamTimeout < 0 {
		return fmt.Errorf("UPSTREAM_TIMEOUT cannot be negative")
	}

	if len(c.DefaultCurrency) != 3 {
		return fmt.Errorf("DEFAULT_CURRENCY must be a 3-letter code")
	}

	switch c.LogFormat {
	case "pretty", "json":
	default:
		return fmt.Errorf("LOG_FORMAT must be pretty or json")
	}

	return nil
}

func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

func getEnv(key string, fallback string) string {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback
	}

	return v
}

func getInt(key string, fallback int) int {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return fallback
	}

	v, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}

	return v
}

func getDuration(key string, fallback time.Duration) time.Duration {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return fallback
	}

	v, err := time.ParseDuration(raw)
	if err != nil {
		return fallback
	}

	return v
}

func splitCSV(raw string) []string {
	if strings.TrimSpace(raw) == "" {
		return nil
	}

	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed == "" {
			continue
		}
		out = append(out, trimmed)
	}

	return out
}
