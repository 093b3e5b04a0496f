package config

import (
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// resetViper clears the package-global viper state LoadConfig binds
// into, so tests stay independent of execution order.
func resetViper(t *testing.T) {
	t.Helper()
	viper.Reset()
	t.Cleanup(viper.Reset)
}

func TestLoadConfigDefaults(t *testing.T) {
	resetViper(t)
	t.Setenv("JWT_SECRET", "test-secret")

	cfg, err := LoadConfig(t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, "4000", cfg.Server.Port)
	assert.Equal(t, "mongodb://localhost:27017", cfg.Database.URI)
	assert.Equal(t, "fitness_tracker", cfg.Database.Name)
	assert.Equal(t, "test-secret", cfg.JWT.Secret)
	assert.Equal(t, 168*time.Hour, cfg.JWT.Expiration)
	assert.Equal(t, "http://localhost:3000", cfg.CORS.Origin)
	assert.Equal(t, "http://localhost:8000", cfg.ML.BaseURL)
	assert.Equal(t, 5*time.Second, cfg.ML.Timeout)
}

func TestLoadConfigEnvOverrides(t *testing.T) {
	resetViper(t)
	t.Setenv("JWT_SECRET", "test-secret")
	t.Setenv("PORT", "9090")
	t.Setenv("ML_API_BASE_URL", "http://ml.internal:8000")
	t.Setenv("CORS_ORIGIN", "https://app.example.com")

	cfg, err := LoadConfig(t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.Server.Port)
	assert.Equal(t, "http://ml.internal:8000", cfg.ML.BaseURL)
	assert.Equal(t, "https://app.example.com", cfg.CORS.Origin)
}

func TestLoadConfigRequiresJWTSecret(t *testing.T) {
	resetViper(t)
	t.Setenv("JWT_SECRET", "")

	_, err := LoadConfig(t.TempDir())
	assert.ErrorIs(t, err, ErrMissingJWTSecret)
}
