package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setRequiredEnv(t *testing.T) {
	t.Setenv("DB_HOST", "localhost")
	t.Setenv("SUPABASE_JWT_SECRET", "jwt-secret")
	t.Setenv("STRIPE_SECRET_KEY", "sk_test_123")
	t.Setenv("STRIPE_WEBHOOK_SECRET", "whsec_123")
}

func TestLoad(t *testing.T) {
	t.Run("defaults with required env set", func(t *testing.T) {
		setRequiredEnv(t)

		cfg, err := Load()
		require.NoError(t, err)
		assert.Equal(t, "8080", cfg.Server.Port)
		assert.Equal(t, "modelify", cfg.Database.Name)
		assert.Equal(t, "disable", cfg.Database.SSLMode)
		assert.Equal(t, 5, cfg.Upload.MaxFiles)
		assert.Equal(t, int64(10*1024*1024), cfg.Upload.MaxFileSize)
		assert.Equal(t, "http://localhost:3000", cfg.App.FrontendURL)
	})

	t.Run("environment overrides", func(t *testing.T) {
		setRequiredEnv(t)
		t.Setenv("PORT", "9090")
		t.Setenv("UPLOAD_MAX_FILES", "3")
		t.Setenv("REDIS_ADDR", "localhost:6379")

		cfg, err := Load()
		require.NoError(t, err)
		assert.Equal(t, "9090", cfg.Server.Port)
		assert.Equal(t, 3, cfg.Upload.MaxFiles)
		assert.Equal(t, "localhost:6379", cfg.Redis.Addr)
	})

	t.Run("invalid integers fall back to defaults", func(t *testing.T) {
		setRequiredEnv(t)
		t.Setenv("DB_PORT", "not-a-number")

		cfg, err := Load()
		require.NoError(t, err)
		assert.Equal(t, 5432, cfg.Database.Port)
	})
}

func TestValidate(t *testing.T) {
	t.Run("missing stripe secrets are rejected", func(t *testing.T) {
		t.Setenv("DB_HOST", "localhost")
		t.Setenv("SUPABASE_JWT_SECRET", "jwt-secret")
		t.Setenv("STRIPE_SECRET_KEY", "")
		t.Setenv("STRIPE_WEBHOOK_SECRET", "")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "STRIPE_SECRET_KEY")
	})

	t.Run("requires at least one auth verification path", func(t *testing.T) {
		t.Setenv("DB_HOST", "localhost")
		t.Setenv("SUPABASE_JWT_SECRET", "")
		t.Setenv("SUPABASE_URL", "")
		t.Setenv("STRIPE_SECRET_KEY", "sk_test_123")
		t.Setenv("STRIPE_WEBHOOK_SECRET", "whsec_123")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "SUPABASE_JWT_SECRET or SUPABASE_URL")
	})
}
