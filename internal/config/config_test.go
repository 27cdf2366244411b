package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "localhost", cfg.Server.Host)
	assert.Equal(t, 4000, cfg.Server.Port)
	assert.Equal(t, "http://localhost:8000", cfg.Cortex.URL)
	assert.Equal(t, "https://api.open-meteo.com/v1/forecast", cfg.Weather.ForecastURL)
	assert.Equal(t, "Asia/Kolkata", cfg.Weather.Timezone)
	assert.Equal(t, 7, cfg.Weather.PastDays)
	assert.Equal(t, 3, cfg.Weather.ForecastDays)
	assert.Equal(t, 5*time.Minute, cfg.OTP.TTL)
	assert.Equal(t, 3, cfg.OTP.MaxAttempts)
	assert.Empty(t, cfg.SMS.APIKey)
	assert.Equal(t, 0.5, cfg.Risk.FallbackPrecipWeight)
	assert.Equal(t, 0.3, cfg.Risk.FallbackHintWeight)
	assert.Equal(t, 2, cfg.Journal.Workers)
	assert.Equal(t, "json", cfg.Logging.Format)
}

func TestLoad_EnvironmentOverrides(t *testing.T) {
	t.Setenv("SERVER_PORT", "9090")
	t.Setenv("AI_CORTEX_URL", "http://cortex.internal:8000")
	t.Setenv("AI_CORTEX_TIMEOUT", "30s")
	t.Setenv("OTP_TTL", "10m")
	t.Setenv("RISK_FALLBACK_PRECIP_WEIGHT", "0.7")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("LOG_FORMAT", "text")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, "http://cortex.internal:8000", cfg.Cortex.URL)
	assert.Equal(t, 30*time.Second, cfg.Cortex.Timeout)
	assert.Equal(t, 10*time.Minute, cfg.OTP.TTL)
	assert.Equal(t, 0.7, cfg.Risk.FallbackPrecipWeight)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, "text", cfg.Logging.Format)
}

func TestLoad_MalformedValuesFallBack(t *testing.T) {
	t.Setenv("SERVER_PORT", "not-a-number")
	t.Setenv("OTP_TTL", "five minutes")
	t.Setenv("RISK_FALLBACK_HINT_WEIGHT", "heavy")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 4000, cfg.Server.Port)
	assert.Equal(t, 5*time.Minute, cfg.OTP.TTL)
	assert.Equal(t, 0.3, cfg.Risk.FallbackHintWeight)
}

func TestLoad_Validation(t *testing.T) {
	tests := []struct {
		name  string
		key   string
		value string
	}{
		{"port out of range", "SERVER_PORT", "70000"},
		{"unknown log level", "LOG_LEVEL", "verbose"},
		{"unknown log format", "LOG_FORMAT", "xml"},
		{"zero past days", "WEATHER_PAST_DAYS", "0"},
		{"otp ttl too short", "OTP_TTL", "10s"},
		{"zero otp attempts", "OTP_MAX_ATTEMPTS", "0"},
		{"negative heuristic weight", "RISK_FALLBACK_PRECIP_WEIGHT", "-1"},
		{"zero journal workers", "JOURNAL_WORKERS", "0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(tt.key, tt.value)
			_, err := Load()
			assert.Error(t, err)
		})
	}
}
