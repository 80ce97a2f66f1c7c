package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestLoadDefaultsInDevelopment(t *testing.T) {
	t.Setenv("APP_ENV", "development")
	t.Setenv("DATABASE_URL", "")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, defaultAppName, cfg.AppName)
	assert.Equal(t, ":5000", cfg.Address())
	assert.Equal(t, bcrypt.DefaultCost, cfg.BcryptCost)
	assert.Equal(t, defaultShutdownDelay, cfg.ShutdownPeriod)
	assert.Equal(t, defaultIdempotencyTTL, cfg.IdempotencyTTL)
	assert.True(t, cfg.AutoMigrate)

	driver, err := cfg.Driver()
	require.NoError(t, err)
	assert.Equal(t, DriverMemory, driver)
}

func TestLoadRequiresDatabaseOutsideDevelopment(t *testing.T) {
	t.Setenv("APP_ENV", "production")
	t.Setenv("DATABASE_URL", "")

	_, err := Load()
	require.Error(t, err)
}

func TestLoadDurations(t *testing.T) {
	t.Setenv("APP_ENV", "development")
	t.Setenv(shutdownSecondsEnvVar, "3")
	t.Setenv(idemTTLDurEnvVar, "90m")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 3*time.Second, cfg.ShutdownPeriod)
	assert.Equal(t, 90*time.Minute, cfg.IdempotencyTTL)
}

func TestLoadRejectsBadValues(t *testing.T) {
	t.Setenv("APP_ENV", "development")

	t.Run("shutdown seconds", func(t *testing.T) {
		t.Setenv(shutdownSecondsEnvVar, "soon")
		_, err := Load()
		require.Error(t, err)
	})
	t.Run("bcrypt cost", func(t *testing.T) {
		t.Setenv("BCRYPT_COST", "99")
		_, err := Load()
		require.Error(t, err)
	})
	t.Run("database scheme", func(t *testing.T) {
		t.Setenv("DATABASE_URL", "mysql://root@localhost/courses")
		_, err := Load()
		require.Error(t, err)
	})
}

func TestDriverSelection(t *testing.T) {
	cases := map[string]Driver{
		"":                                   DriverMemory,
		"postgres://u:p@localhost:5432/db":   DriverPostgres,
		"postgresql://u:p@localhost:5432/db": DriverPostgres,
		"sqlite://data/courses.db":           DriverSQLite,
		"file:courses.db?cache=shared":       DriverSQLite,
	}
	for url, want := range cases {
		got, err := Config{DatabaseURL: url}.Driver()
		require.NoError(t, err, url)
		assert.Equal(t, want, got, url)
	}
}

func TestSQLitePath(t *testing.T) {
	assert.Equal(t, "data/courses.db", Config{DatabaseURL: "sqlite://data/courses.db"}.SQLitePath())
	assert.Equal(t, ":memory:", Config{DatabaseURL: "sqlite::memory:"}.SQLitePath())
	assert.Equal(t, "file:x.db", Config{DatabaseURL: "file:x.db"}.SQLitePath())
}
