package config

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_Default_MatchesPoolDefaults(t *testing.T) {
	cfg := Default()

	assert.Equal(t, AdapterPGXPool, cfg.Database.Adapter)
	assert.Equal(t, int32(8), cfg.Database.MaxConns)
	assert.Equal(t, int32(2), cfg.Database.MinConns)
	assert.Equal(t, time.Hour, cfg.Database.MaxConnLifetime)
	assert.Equal(t, 5*time.Minute, cfg.Database.MaxConnIdleTime)
	assert.Equal(t, "borrow_records", cfg.Ledger.BorrowRecordsTable)
	assert.Equal(t, "ledger_journal", cfg.Ledger.JournalTable)
	assert.NoError(t, cfg.Validate())
}

func Test_Load_YAMLOverridesDefaults(t *testing.T) {
	// arrange
	path := filepath.Join(t.TempDir(), "rental.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
database:
  dsn: postgres://rental@db:5432/rental
  adapter: sqlx.db
  max_conns: 20
ledger:
  items_table: movies
retry:
  max_attempts: 3
  base_delay: 25ms
observability:
  enabled: true
`), 0o600))

	// act
	cfg, err := Load(path, "")

	// assert
	require.NoError(t, err)
	assert.Equal(t, "postgres://rental@db:5432/rental", cfg.Database.DSN)
	assert.Equal(t, AdapterSQLXDB, cfg.Database.Adapter)
	assert.Equal(t, int32(20), cfg.Database.MaxConns)
	assert.Equal(t, int32(2), cfg.Database.MinConns, "unset keys keep their default")
	assert.Equal(t, "movies", cfg.TableNames().Items)
	assert.Equal(t, "borrowers", cfg.TableNames().Borrowers)
	assert.Equal(t, 3, cfg.Retry.MaxAttempts)
	assert.Equal(t, 25*time.Millisecond, cfg.Retry.BaseDelay)
	assert.True(t, cfg.Observability.Enabled)
}

func Test_Load_InvalidYAML(t *testing.T) {
	// arrange
	path := filepath.Join(t.TempDir(), "broken.yaml")
	require.NoError(t, os.WriteFile(path, []byte("database: ["), 0o600))

	// act
	_, err := Load(path, "")

	// assert
	assert.ErrorIs(t, err, ErrInvalidConfigValue)
}

func Test_Load_EnvFileAndEnvironment(t *testing.T) {
	// arrange
	envFile := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(envFile, []byte("RENTAL_JWT_SECRET=from-env-file\n"), 0o600))
	t.Setenv(EnvDatabaseAdapter, AdapterSQLDB)
	t.Setenv(EnvRetryBaseDelay, "5ms")
	t.Setenv(EnvJWTSecret, "")
	require.NoError(t, os.Unsetenv(EnvJWTSecret))

	// act
	cfg, err := Load("", envFile)

	// assert
	require.NoError(t, err)
	assert.Equal(t, "from-env-file", cfg.Auth.JWTSecret)
	assert.Equal(t, AdapterSQLDB, cfg.Database.Adapter)
	assert.Equal(t, 5*time.Millisecond, cfg.Retry.BaseDelay)
}

func Test_Load_MissingEnvFileIsIgnored(t *testing.T) {
	_, err := Load("", filepath.Join(t.TempDir(), "does-not-exist.env"))

	assert.NoError(t, err)
}

func Test_ApplyEnv_InvalidValues(t *testing.T) {
	testCases := map[string]string{
		EnvDatabaseMaxConns:     "many",
		EnvObservabilityEnabled: "maybe",
		EnvRetryMaxAttempts:     "x",
		EnvRetryBaseDelay:       "soon",
	}

	for key, value := range testCases {
		t.Run(key, func(t *testing.T) {
			cfg := Default()

			err := cfg.applyEnv(func(k string) (string, bool) {
				if k == key {
					return value, true
				}

				return "", false
			})

			assert.ErrorIs(t, err, ErrInvalidConfigValue)
		})
	}
}

func Test_Validate(t *testing.T) {
	cfg := Default()
	cfg.Database.Adapter = "mysql"
	assert.ErrorIs(t, cfg.Validate(), ErrUnknownAdapter)

	cfg = Default()
	cfg.Database.DSN = ""
	assert.ErrorIs(t, cfg.Validate(), ErrMissingDSN)
}

func Test_PostgresPGXPoolConfig(t *testing.T) {
	// act
	poolConfig, err := PostgresPGXPoolConfig(Default().Database, Default().Database.DSN)

	// assert
	require.NoError(t, err)
	assert.Equal(t, int32(8), poolConfig.MaxConns)
	assert.Equal(t, 5*time.Second, poolConfig.ConnConfig.ConnectTimeout)
}

func Test_OpenStore_RejectsUnknownAdapter(t *testing.T) {
	cfg := Default()
	cfg.Database.Adapter = "oracle"

	_, _, err := OpenStore(context.Background(), cfg)

	assert.ErrorIs(t, err, ErrUnknownAdapter)
}

func Test_RetryOptions(t *testing.T) {
	assert.Len(t, Default().RetryOptions(), 3)
}

func Test_ParseLogLevel(t *testing.T) {
	assert.Equal(t, slog.LevelDebug, ParseLogLevel("DEBUG"))
	assert.Equal(t, slog.LevelWarn, ParseLogLevel("warning"))
	assert.Equal(t, slog.LevelError, ParseLogLevel("error"))
	assert.Equal(t, slog.LevelInfo, ParseLogLevel("nonsense"))
}
