package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/warp/njob-manager/config"
)

var keys = []string{"PORT", "DB_PATH", "ALLOWED_ORIGINS", "HOLIDAY_CACHE_TTL", "LOG_LEVEL", "ENVIRONMENT"}

// clearEnv unsets every config key for the duration of the test.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range keys {
		t.Setenv(k, "")
		os.Unsetenv(k)
	}
}

func TestFromEnv_Defaults(t *testing.T) {
	clearEnv(t)

	c := config.FromEnv()

	assert.Equal(t, 8080, c.Port)
	assert.Equal(t, "njob.db", c.DBPath)
	assert.Equal(t, 24*time.Hour, c.HolidayCacheTTL)
	assert.Equal(t, "info", c.LogLevel)
	assert.Equal(t, "development", c.Environment)
	assert.NotEmpty(t, c.AllowedOrigins)
	assert.Equal(t, ":8080", c.Addr())
	assert.NoError(t, c.Validate())
}

func TestFromEnv_Overrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("PORT", "9090")
	t.Setenv("ALLOWED_ORIGINS", "https://a.example, https://b.example,")
	t.Setenv("HOLIDAY_CACHE_TTL", "90m")
	t.Setenv("LOG_LEVEL", "debug")

	c := config.FromEnv()

	assert.Equal(t, 9090, c.Port)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, c.AllowedOrigins)
	assert.Equal(t, 90*time.Minute, c.HolidayCacheTTL)
	assert.Equal(t, "debug", c.LogLevel)
}

func TestFromEnv_BadValuesFallBack(t *testing.T) {
	clearEnv(t)
	t.Setenv("PORT", "eighty")
	t.Setenv("HOLIDAY_CACHE_TTL", "a day")

	c := config.FromEnv()

	assert.Equal(t, 8080, c.Port)
	assert.Equal(t, 24*time.Hour, c.HolidayCacheTTL)
}

func TestLoad_DotEnv(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()
	path := filepath.Join(dir, ".env")
	require.NoError(t, os.WriteFile(path, []byte("DB_PATH=/tmp/from-dotenv.db\nPORT=7070\n"), 0o600))
	t.Setenv("PORT", "6060")

	c, err := config.Load(path)
	require.NoError(t, err)

	assert.Equal(t, "/tmp/from-dotenv.db", c.DBPath)
	assert.Equal(t, 6060, c.Port, "environment wins over .env")
	os.Unsetenv("DB_PATH")
}

func TestLoad_MissingFileIsFine(t *testing.T) {
	clearEnv(t)
	_, err := config.Load(filepath.Join(t.TempDir(), "absent.env"))
	assert.NoError(t, err)
}

func TestValidate(t *testing.T) {
	clearEnv(t)
	base := config.FromEnv()

	bad := base
	bad.Port = 0
	assert.Error(t, bad.Validate())

	bad = base
	bad.DBPath = " "
	assert.Error(t, bad.Validate())

	bad = base
	bad.LogLevel = "chatty"
	assert.Error(t, bad.Validate())

	bad = base
	bad.Environment = "production"
	bad.AllowedOrigins = []string{"*"}
	assert.Error(t, bad.Validate())
}
