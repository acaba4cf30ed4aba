package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("JWT_SECRET", "secret")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.Server.Addr())
	assert.Equal(t, 7, cfg.JWT.ExpireDays)
	assert.Equal(t, "/uploads/", cfg.Media.URL)
	assert.Equal(t, int64(5*1024*1024), cfg.Media.MaxImageBytes())
	assert.Equal(t, 20, cfg.Paging.DefaultPageSize)
	assert.Equal(t, 100, cfg.Paging.MaxPageSize)
	assert.Equal(t, 5*time.Minute, cfg.Database.ConnMaxLifetime)
	assert.Equal(t, 10*time.Minute, cfg.Redis.CategoryCacheTTL)
	assert.Empty(t, cfg.Redis.URL)
	assert.False(t, cfg.Server.IsProduction())
}

func TestLoad_RequiresJWTSecret(t *testing.T) {
	t.Setenv("JWT_SECRET", "")

	_, err := Load()
	assert.EqualError(t, err, "JWT_SECRET is required")
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("JWT_SECRET", "secret")
	t.Setenv("PORT", ":9000")
	t.Setenv("APP_ENV", "production")
	t.Setenv("JWT_EXPIRE_DAYS", "3")
	t.Setenv("MEDIA_URL", "/media")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://a.example.com, https://b.example.com,")
	t.Setenv("DATABASE_URL", "postgres://u:p@db:5432/shop")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, ":9000", cfg.Server.Addr())
	assert.True(t, cfg.Server.IsProduction())
	assert.Equal(t, 3, cfg.JWT.ExpireDays)
	assert.Equal(t, "/media/", cfg.Media.URL)
	assert.Equal(t, []string{"https://a.example.com", "https://b.example.com"}, cfg.CORSAllowedOrigins)
	assert.Equal(t, "postgres://u:p@db:5432/shop", cfg.Database.DSN())
}

func TestDatabaseConfig_DSNFromParts(t *testing.T) {
	d := DatabaseConfig{Host: "h", Port: 5433, User: "u", Password: "p", Name: "n", SSLMode: "disable"}
	assert.Equal(t, "host=h port=5433 user=u password=p dbname=n sslmode=disable", d.DSN())
}

func TestLoad_InvalidPaging(t *testing.T) {
	t.Setenv("JWT_SECRET", "secret")
	t.Setenv("DEFAULT_PAGE_SIZE", "50")
	t.Setenv("MAX_PAGE_SIZE", "10")

	_, err := Load()
	assert.Error(t, err)
}

func TestLoad_AdminBootstrap(t *testing.T) {
	t.Setenv("JWT_SECRET", "secret")
	t.Setenv("ADMIN_USERNAME", " admin ")
	t.Setenv("ADMIN_PASSWORD", "123")

	_, err := Load()
	assert.EqualError(t, err, "ADMIN_PASSWORD must be at least 6 characters")

	t.Setenv("ADMIN_PASSWORD", "admin123")
	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "admin", cfg.Admin.Username)
}
