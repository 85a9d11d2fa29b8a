package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/remotesession/gateway/internal/encoder"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "0.0.0.0", cfg.Server.Host)
	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, 30*time.Second, cfg.Server.ReadTimeout)

	assert.Equal(t, 1024, cfg.Session.DefaultWidth)
	assert.Equal(t, 768, cfg.Session.DefaultHeight)
	assert.Equal(t, 3840, cfg.Session.MaxWidth)
	assert.Equal(t, 2160, cfg.Session.MaxHeight)
	assert.Equal(t, 128*1024, cfg.Session.InboundBufferSize)

	assert.Equal(t, int(encoder.ModeJpeg), cfg.Encoding.Mode)
	assert.Equal(t, int(encoder.QualityHigh), cfg.Encoding.Quality)
	assert.Equal(t, 100, cfg.Encoding.Sampling)

	assert.Empty(t, cfg.Security.AllowedOrigins)
	assert.Empty(t, cfg.Security.JWTSecret)
	assert.Equal(t, "info", cfg.Logging.Level)
}

func TestLoad_EnvironmentOverrides(t *testing.T) {
	t.Setenv("SERVER_PORT", "9090")
	t.Setenv("SESSION_DEFAULT_WIDTH", "1920")
	t.Setenv("SESSION_DEFAULT_HEIGHT", "1080")
	t.Setenv("ENCODING_MODE", "2")
	t.Setenv("ALLOWED_ORIGINS", "https://a.example.com, https://b.example.com")
	t.Setenv("LOG_LEVEL", "debug")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.Server.Port)
	assert.Equal(t, 1920, cfg.Session.DefaultWidth)
	assert.Equal(t, 1080, cfg.Session.DefaultHeight)
	assert.Equal(t, int(encoder.ModeAuto), cfg.Encoding.Mode)
	assert.Equal(t, []string{"https://a.example.com", "https://b.example.com"}, cfg.Security.AllowedOrigins)
	assert.Equal(t, "debug", cfg.Logging.Level)
}

func TestLoadWithOverrides_FlagsWinOverEnv(t *testing.T) {
	t.Setenv("SERVER_HOST", "10.0.0.1")
	t.Setenv("LOG_LEVEL", "warn")

	cfg, err := LoadWithOverrides(LoadOptions{Host: "127.0.0.1", LogLevel: "error"})
	require.NoError(t, err)

	assert.Equal(t, "127.0.0.1", cfg.Server.Host)
	assert.Equal(t, "error", cfg.Logging.Level)
}

func TestLoad_InvalidEnvFallsBackToDefault(t *testing.T) {
	t.Setenv("SESSION_DEFAULT_WIDTH", "huge")
	t.Setenv("SERVER_READ_TIMEOUT", "forever")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 1024, cfg.Session.DefaultWidth)
	assert.Equal(t, 30*time.Second, cfg.Server.ReadTimeout)
}

func TestValidate_Failures(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
	}{
		{"bad port", map[string]string{"SERVER_PORT": "99999"}},
		{"zero width", map[string]string{"SESSION_DEFAULT_WIDTH": "0"}},
		{"max below default", map[string]string{"SESSION_MAX_WIDTH": "640"}},
		{"bad buffer size", map[string]string{"SESSION_INBOUND_BUFFER_SIZE": "0"}},
		{"bad encoding mode", map[string]string{"ENCODING_MODE": "9"}},
		{"bad quality", map[string]string{"ENCODING_QUALITY": "150"}},
		{"bad log level", map[string]string{"LOG_LEVEL": "verbose"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k, v := range tt.env {
				t.Setenv(k, v)
			}

			_, err := Load()
			assert.Error(t, err)
		})
	}
}
