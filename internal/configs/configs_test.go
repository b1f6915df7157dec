package configs

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigDefaults(t *testing.T) {
	t.Setenv("ENVIRONMENT", "")
	t.Setenv("PORT", "")
	t.Setenv("ALLOWED_ORIGINS", "")
	t.Setenv("JWT_SECRET", "")
	t.Setenv("OFFICIAL_EMAIL", "")
	t.Setenv("GEMINI_API_KEY", "")
	t.Setenv("GEMINI_ENDPOINT", "")
	t.Setenv("GEMINI_MODEL", "")
	t.Setenv("S3_BUCKET_NAME", "")
	t.Setenv("DATABASE_URL", "")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "development", cfg.Environment)
	assert.Equal(t, 8080, cfg.Port)
	assert.Empty(t, cfg.AllowedOrigins)
	assert.NotEmpty(t, cfg.JWTSecret)
	assert.Equal(t, DefaultGeminiModel, cfg.GeminiModel)
	assert.Equal(t, "https://generativelanguage.googleapis.com", cfg.GeminiEndpoint)
	assert.False(t, cfg.S3Enabled())
	assert.NotEmpty(t, cfg.DatabaseDSN)
}

func TestLoadConfigProductionRequirements(t *testing.T) {
	t.Setenv("ENVIRONMENT", "production")
	t.Setenv("PORT", "9000")
	t.Setenv("JWT_SECRET", "")
	t.Setenv("S3_BUCKET_NAME", "")
	t.Setenv("DATABASE_URL", "postgres://u:p@db:5432/app")

	_, err := LoadConfig()
	assert.Error(t, err, "production requires JWT_SECRET")

	t.Setenv("JWT_SECRET", "prod-secret")
	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, 9000, cfg.Port)

	t.Setenv("DATABASE_URL", "")
	_, err = LoadConfig()
	assert.Error(t, err, "production requires DATABASE_URL")
}

func TestLoadConfigValidation(t *testing.T) {
	t.Setenv("ENVIRONMENT", "development")
	t.Setenv("JWT_SECRET", "s")
	t.Setenv("DATABASE_URL", "postgres://u:p@db:5432/app")

	t.Run("invalid port", func(t *testing.T) {
		t.Setenv("PORT", "abc")
		_, err := LoadConfig()
		assert.Error(t, err)
	})

	t.Run("privileged port", func(t *testing.T) {
		t.Setenv("PORT", "80")
		_, err := LoadConfig()
		assert.Error(t, err)
	})

	t.Run("origins parsed and trimmed", func(t *testing.T) {
		t.Setenv("PORT", "8080")
		t.Setenv("ALLOWED_ORIGINS", " https://a.example , https://b.example ,")
		cfg, err := LoadConfig()
		require.NoError(t, err)
		assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.AllowedOrigins)
	})

	t.Run("partial s3 settings rejected", func(t *testing.T) {
		t.Setenv("PORT", "8080")
		t.Setenv("ALLOWED_ORIGINS", "")
		t.Setenv("S3_BUCKET_NAME", "assets")
		t.Setenv("S3_ENDPOINT", "")
		_, err := LoadConfig()
		assert.Error(t, err)
	})

	t.Run("official email normalized", func(t *testing.T) {
		t.Setenv("PORT", "8080")
		t.Setenv("S3_BUCKET_NAME", "")
		t.Setenv("OFFICIAL_EMAIL", " Admin@Example.COM ")
		cfg, err := LoadConfig()
		require.NoError(t, err)
		assert.Equal(t, "admin@example.com", cfg.OfficialEmail)
	})
}
