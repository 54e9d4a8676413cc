package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// isolateEnv unsets the given variables for the duration of the test
func isolateEnv(t *testing.T, keys ...string) func() {
	t.Helper()
	original := make(map[string]string, len(keys))
	for _, k := range keys {
		original[k] = os.Getenv(k)
	}
	t.Cleanup(func() {
		for k, v := range original {
			if v == "" {
				os.Unsetenv(k)
			} else {
				os.Setenv(k, v)
			}
		}
	})
	return func() {
		for _, k := range keys {
			os.Unsetenv(k)
		}
	}
}

func TestLoad(t *testing.T) {
	clearEnv := isolateEnv(t,
		"CORTE_APP_NAME",
		"CORTE_APP_ENV",
		"CORTE_APP_PORT",
		"CORTE_DATABASE_HOST",
		"CORTE_DATABASE_PORT",
		"CORTE_DATABASE_USER",
		"CORTE_DATABASE_PASSWORD",
		"CORTE_DATABASE_DBNAME",
		"CORTE_DATABASE_SSLMODE",
		"CORTE_DATABASE_MAX_OPEN_CONNS",
		"CORTE_DATABASE_MAX_IDLE_CONNS",
		"CORTE_SETTLEMENT_CREATE_ATTEMPTS",
		"CORTE_SETTLEMENT_GUARD_TTL",
		"CORTE_SETTLEMENT_CIVIL_OFFSET_HOURS",
		"CORTE_STORAGE_ENABLED",
		"CORTE_STORAGE_ACCESS_KEY",
		"CORTE_STORAGE_SECRET_KEY",
		"CORTE_TELEMETRY_METRICS_ENABLED",
	)

	t.Run("loads default values when env vars not set", func(t *testing.T) {
		clearEnv()

		cfg, err := Load()
		require.NoError(t, err)

		assert.Equal(t, "corte-caja", cfg.App.Name)
		assert.Equal(t, "development", cfg.App.Env)
		assert.Equal(t, "8080", cfg.App.Port)
		assert.Equal(t, "localhost", cfg.Database.Host)
		assert.Equal(t, 5432, cfg.Database.Port)
		assert.Equal(t, "corte", cfg.Database.DBName)
		assert.Equal(t, 25, cfg.Database.MaxOpenConns)
		assert.Equal(t, 5, cfg.Database.MaxIdleConns)
		assert.Equal(t, 3, cfg.Settlement.CreateAttempts)
		assert.Equal(t, 30*time.Second, cfg.Settlement.GuardTTL)
		assert.Equal(t, -6, cfg.Settlement.CivilOffsetHours)
		assert.True(t, cfg.Telemetry.MetricsEnabled)
		assert.Equal(t, "/metrics", cfg.Telemetry.MetricsPath)
		assert.False(t, cfg.Storage.Enabled)
		assert.Equal(t, "localhost:6379", cfg.Redis.Addr())
	})

	t.Run("loads values from environment variables with CORTE prefix", func(t *testing.T) {
		clearEnv()
		os.Setenv("CORTE_APP_NAME", "test-app")
		os.Setenv("CORTE_APP_ENV", "testing")
		os.Setenv("CORTE_APP_PORT", "9000")
		os.Setenv("CORTE_DATABASE_HOST", "testdb.local")
		os.Setenv("CORTE_DATABASE_PORT", "5433")
		os.Setenv("CORTE_DATABASE_USER", "testuser")
		os.Setenv("CORTE_DATABASE_PASSWORD", "testpass")
		os.Setenv("CORTE_DATABASE_DBNAME", "testdb")
		os.Setenv("CORTE_DATABASE_MAX_OPEN_CONNS", "50")
		os.Setenv("CORTE_DATABASE_MAX_IDLE_CONNS", "10")
		os.Setenv("CORTE_SETTLEMENT_CREATE_ATTEMPTS", "5")
		os.Setenv("CORTE_SETTLEMENT_GUARD_TTL", "45s")
		os.Setenv("CORTE_TELEMETRY_METRICS_ENABLED", "false")

		cfg, err := Load()
		require.NoError(t, err)

		assert.Equal(t, "test-app", cfg.App.Name)
		assert.Equal(t, "testing", cfg.App.Env)
		assert.Equal(t, "9000", cfg.App.Port)
		assert.Equal(t, "testdb.local", cfg.Database.Host)
		assert.Equal(t, 5433, cfg.Database.Port)
		assert.Equal(t, "testuser", cfg.Database.User)
		assert.Equal(t, "testpass", cfg.Database.Password)
		assert.Equal(t, "testdb", cfg.Database.DBName)
		assert.Equal(t, 50, cfg.Database.MaxOpenConns)
		assert.Equal(t, 10, cfg.Database.MaxIdleConns)
		assert.Equal(t, 5, cfg.Settlement.CreateAttempts)
		assert.Equal(t, 45*time.Second, cfg.Settlement.GuardTTL)
		assert.False(t, cfg.Telemetry.MetricsEnabled)
	})

	t.Run("validates MaxIdleConns cannot exceed MaxOpenConns", func(t *testing.T) {
		clearEnv()
		os.Setenv("CORTE_DATABASE_MAX_OPEN_CONNS", "10")
		os.Setenv("CORTE_DATABASE_MAX_IDLE_CONNS", "20")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "cannot exceed")
	})

	t.Run("rejects a different civil offset", func(t *testing.T) {
		clearEnv()
		os.Setenv("CORTE_SETTLEMENT_CIVIL_OFFSET_HOURS", "-5")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "civil_offset_hours must be -6")
	})

	t.Run("rejects a sub-second guard ttl", func(t *testing.T) {
		clearEnv()
		os.Setenv("CORTE_SETTLEMENT_GUARD_TTL", "500ms")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "guard_ttl")
	})

	t.Run("requires storage credentials when enabled", func(t *testing.T) {
		clearEnv()
		os.Setenv("CORTE_STORAGE_ENABLED", "true")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "storage.access_key")

		os.Setenv("CORTE_STORAGE_ACCESS_KEY", "key")
		os.Setenv("CORTE_STORAGE_SECRET_KEY", "secret")
		cfg, err := Load()
		require.NoError(t, err)
		assert.True(t, cfg.Storage.Enabled)
		assert.Equal(t, "corte-statements", cfg.Storage.Bucket)
	})
}

func TestLoad_ProductionValidation(t *testing.T) {
	clearEnv := isolateEnv(t,
		"CORTE_APP_ENV",
		"CORTE_DATABASE_PASSWORD",
		"CORTE_DATABASE_SSLMODE",
		"CORTE_SWAGGER_ENABLED",
		"CORTE_SWAGGER_ALLOWED_IPS",
		"CORTE_TELEMETRY_DB_LOG_FULL_SQL",
	)

	setValidProductionBase := func() {
		os.Setenv("CORTE_APP_ENV", "production")
		os.Setenv("CORTE_DATABASE_PASSWORD", "secure-password")
		os.Setenv("CORTE_DATABASE_SSLMODE", "require")
		os.Setenv("CORTE_SWAGGER_ENABLED", "false")
	}

	t.Run("requires database.password in production", func(t *testing.T) {
		clearEnv()
		setValidProductionBase()
		os.Unsetenv("CORTE_DATABASE_PASSWORD")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "database.password is required in production")
	})

	t.Run("requires SSL enabled in production", func(t *testing.T) {
		clearEnv()
		setValidProductionBase()
		os.Setenv("CORTE_DATABASE_SSLMODE", "disable")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "database.sslmode cannot be 'disable' in production")
	})

	t.Run("fails if swagger enabled without IP restriction in production", func(t *testing.T) {
		clearEnv()
		setValidProductionBase()
		os.Setenv("CORTE_SWAGGER_ENABLED", "true")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "swagger endpoint must be disabled or IP restricted")
	})

	t.Run("rejects full SQL in spans in production", func(t *testing.T) {
		clearEnv()
		setValidProductionBase()
		os.Setenv("CORTE_TELEMETRY_DB_LOG_FULL_SQL", "true")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "db_log_full_sql")
	})

	t.Run("passes validation with valid production config", func(t *testing.T) {
		clearEnv()
		setValidProductionBase()

		cfg, err := Load()
		require.NoError(t, err)
		assert.Equal(t, "production", cfg.App.Env)
	})
}

func TestDatabaseConfig_DSN(t *testing.T) {
	t.Run("generates valid DSN", func(t *testing.T) {
		cfg := DatabaseConfig{
			Host:     "localhost",
			Port:     5432,
			User:     "testuser",
			Password: "testpass",
			DBName:   "testdb",
			SSLMode:  "disable",
		}

		dsn := cfg.DSN()
		assert.Contains(t, dsn, "localhost:5432")
		assert.Contains(t, dsn, "testuser")
		assert.Contains(t, dsn, "/testdb")
		assert.Contains(t, dsn, "sslmode=disable")
	})

	t.Run("escapes special characters in password", func(t *testing.T) {
		cfg := DatabaseConfig{
			Host:     "localhost",
			Port:     5432,
			User:     "user",
			Password: "pass@word#123",
			DBName:   "db",
			SSLMode:  "disable",
		}

		assert.Contains(t, cfg.DSN(), "pass%40word%23123")
	})
}
