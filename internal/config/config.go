package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

type Config struct {
	Server  ServerConfig
	DB      DatabaseConfig
	Cortex  CortexConfig
	Weather WeatherConfig
	OTP     OTPConfig
	SMS     SMSConfig
	Auth    AuthConfig
	Risk    RiskConfig
	Journal JournalConfig
	API     APIConfig
	Logging LoggingConfig
}

type ServerConfig struct {
	Host string
	Port int
}

type DatabaseConfig struct {
	Path string
}

// CortexConfig points at the external AI inference service.
type CortexConfig struct {
	URL     string
	Timeout time.Duration
}

type WeatherConfig struct {
	ForecastURL  string
	FloodURL     string
	Timeout      time.Duration
	Timezone     string
	PastDays     int
	ForecastDays int
}

type OTPConfig struct {
	TTL         time.Duration
	MaxAttempts int
}

type SMSConfig struct {
	URL    string
	APIKey string
}

type AuthConfig struct {
	JWTSecret string
	JWTIssuer string
	TokenTTL  time.Duration
}

// RiskConfig carries the degraded-heuristic weights. They are tuning
// parameters, not physics; treat them as configuration.
type RiskConfig struct {
	FallbackPrecipWeight float64
	FallbackHintWeight   float64
}

type JournalConfig struct {
	Workers    int
	BufferSize int
}

type APIConfig struct {
	RateLimitRPS int
}

type LoggingConfig struct {
	Level  string
	Format string
}

func Load() (*Config, error) {
	cfg := &Config{
		Server: ServerConfig{
			Host: getEnv("SERVER_HOST", "localhost"),
			Port: getEnvInt("SERVER_PORT", 4000),
		},
		DB: DatabaseConfig{
			Path: getEnv("DB_PATH", "./data/floodsense.db"),
		},
		Cortex: CortexConfig{
			URL:     getEnv("AI_CORTEX_URL", "http://localhost:8000"),
			Timeout: getEnvDuration("AI_CORTEX_TIMEOUT", 10*time.Second),
		},
		Weather: WeatherConfig{
			ForecastURL:  getEnv("WEATHER_FORECAST_URL", "https://api.open-meteo.com/v1/forecast"),
			FloodURL:     getEnv("WEATHER_FLOOD_URL", "https://flood-api.open-meteo.com/v1/flood"),
			Timeout:      getEnvDuration("WEATHER_TIMEOUT", 15*time.Second),
			Timezone:     getEnv("WEATHER_TIMEZONE", "Asia/Kolkata"),
			PastDays:     getEnvInt("WEATHER_PAST_DAYS", 7),
			ForecastDays: getEnvInt("WEATHER_FORECAST_DAYS", 3),
		},
		OTP: OTPConfig{
			TTL:         getEnvDuration("OTP_TTL", 5*time.Minute),
			MaxAttempts: getEnvInt("OTP_MAX_ATTEMPTS", 3),
		},
		SMS: SMSConfig{
			URL:    getEnv("SMS_URL", "https://www.fast2sms.com/dev/bulkV2"),
			APIKey: getEnv("SMS_API_KEY", ""),
		},
		Auth: AuthConfig{
			JWTSecret: getEnv("JWT_SECRET", "floodsense-dev-secret"),
			JWTIssuer: getEnv("JWT_ISSUER", "floodsense"),
			TokenTTL:  getEnvDuration("JWT_TTL", 24*time.Hour),
		},
		Risk: RiskConfig{
			FallbackPrecipWeight: getEnvFloat("RISK_FALLBACK_PRECIP_WEIGHT", 0.5),
			FallbackHintWeight:   getEnvFloat("RISK_FALLBACK_HINT_WEIGHT", 0.3),
		},
		Journal: JournalConfig{
			Workers:    getEnvInt("JOURNAL_WORKERS", 2),
			BufferSize: getEnvInt("JOURNAL_BUFFER_SIZE", 64),
		},
		API: APIConfig{
			RateLimitRPS: getEnvInt("RATE_LIMIT_RPS", 20),
		},
		Logging: LoggingConfig{
			Level:  getEnv("LOG_LEVEL", "info"),
			Format: getEnv("LOG_FORMAT", "json"),
		},
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", c.Server.Port)
	}

	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[c.Logging.Level] {
		return fmt.Errorf("invalid log level: %s", c.Logging.Level)
	}
	if c.Logging.Format != "json" && c.Logging.Format != "text" {
		return fmt.Errorf("invalid log format: %s", c.Logging.Format)
	}

	if c.Weather.PastDays < 1 {
		return fmt.Errorf("weather past days must be at least 1")
	}
	if c.Weather.ForecastDays < 0 {
		return fmt.Errorf("weather forecast days must not be negative")
	}

	if c.OTP.TTL < time.Minute {
		return fmt.Errorf("OTP TTL must be at least 1 minute")
	}
	if c.OTP.MaxAttempts < 1 {
		return fmt.Errorf("OTP max attempts must be at least 1")
	}

	if c.Risk.FallbackPrecipWeight < 0 || c.Risk.FallbackHintWeight < 0 {
		return fmt.Errorf("fallback heuristic weights must not be negative")
	}

	if c.Journal.Workers < 1 {
		return fmt.Errorf("journal workers must be at least 1")
	}

	return nil
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if val := os.Getenv(key); val != "" {
		if i, err := strconv.Atoi(val); err == nil {
			return i
		}
	}
	return fallback
}

func getEnvFloat(key string, fallback float64) float64 {
	if val := os.Getenv(key); val != "" {
		if f, err := strconv.ParseFloat(val, 64); err == nil {
			return f
		}
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if val := os.Getenv(key); val != "" {
		if d, err := time.ParseDuration(val); err == nil {
			return d
		}
	}
	return fallback
}
