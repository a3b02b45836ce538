package config_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Inventario-ledger/pkg/config"
)

func TestLoad_ValoresPorDefecto(t *testing.T) {
	cfg, err := config.Load()
	require.NoError(t, err)
	assert.Equal(t, "postgres", cfg.App.Store)
	assert.Equal(t, 10*time.Second, cfg.Ledger.CommitTimeout)
	assert.Equal(t, "zero", cfg.Ledger.UncountedPolicy)
	assert.Equal(t, 24*time.Hour, cfg.Redis.IdempotencyTTL)
	assert.Equal(t, "0.0.0.0:8080", cfg.HTTP.Addr())
	assert.Equal(t, 25, cfg.DB.MaxConns)
	assert.True(t, cfg.DB.ForceIPv4)
}

func TestLoad_DesdeEntorno(t *testing.T) {
	t.Setenv("STORE", "memory")
	t.Setenv("LEDGER_COMMIT_TIMEOUT", "3s")
	t.Setenv("IDEMPOTENCY_TTL", "120")
	t.Setenv("LEDGER_UNCOUNTED_POLICY", "exclude")
	t.Setenv("DB_MIGRATE_ON_START", "true")
	t.Setenv("DB_MAX_CONNS", "8")

	cfg, err := config.Load()
	require.NoError(t, err)
	assert.True(t, cfg.App.UseMemoryStore())
	assert.Equal(t, 3*time.Second, cfg.Ledger.CommitTimeout)
	assert.Equal(t, 2*time.Minute, cfg.Redis.IdempotencyTTL)
	assert.Equal(t, "exclude", cfg.Ledger.UncountedPolicy)
	assert.True(t, cfg.DB.MigrateOnStart)
	assert.Equal(t, 8, cfg.DB.MaxConns)
}

func TestLoad_StoreInvalido(t *testing.T) {
	t.Setenv("STORE", "mongo")
	_, err := config.Load()
	assert.Error(t, err)
}

func TestDBConfig_DSNEscapaContrasena(t *testing.T) {
	c := config.DBConfig{Host: "db", Port: 5432, User: "app", Password: "p@ss:w", DBName: "ledger", SSLMode: "disable"}
	assert.Equal(t, "postgres://app:p%40ss%3Aw@db:5432/ledger?sslmode=disable", c.DSN())

	c.DatabaseURL = "postgres://x"
	assert.Equal(t, "postgres://x", c.ConnectionString())
}
