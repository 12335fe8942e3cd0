package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/recur/internal/config"
	"github.com/MrJamesThe3rd/recur/internal/recurring"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, "Recur", cfg.App.Name)
	assert.Equal(t, 8080, cfg.App.Port)
	assert.Equal(t, 60*time.Second, cfg.Extraction.Timeout)
	assert.Equal(t, 25, cfg.Engine.MaxCandidates)
	assert.Equal(t, 120, cfg.Engine.ReferenceTextLimit)
	assert.True(t, decimal.NewFromInt(1000).Equal(cfg.Engine.AnnualThreshold))
	assert.Equal(t, 85, cfg.Engine.DefaultConfidence)
	assert.Equal(t, []string{"*"}, cfg.Server.CORSOrigins)
	assert.Equal(t, "postgres://postgres:@localhost:5432/recur?sslmode=disable", cfg.ConnectionString())
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("ANNUAL_THRESHOLD", "500.50")
	t.Setenv("CORS_ORIGINS", "http://localhost:3000,https://recur.example")
	t.Setenv("DB_NAME", "bills")
	t.Setenv("DB_MAX_OPEN_CONNS", "8")
	t.Setenv("DB_CONN_LIFETIME", "90s")

	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.App.Port)
	assert.True(t, decimal.RequireFromString("500.50").Equal(cfg.Engine.AnnualThreshold))
	assert.Equal(t, []string{"http://localhost:3000", "https://recur.example"}, cfg.Server.CORSOrigins)
	assert.Contains(t, cfg.ConnectionString(), "/bills?")

	dbOpts := cfg.DatabaseOptions()
	assert.Equal(t, cfg.ConnectionString(), dbOpts.DSN)
	assert.Equal(t, 8, dbOpts.MaxOpenConns)
	assert.Equal(t, 5, dbOpts.MaxIdleConns)
	assert.Equal(t, 90*time.Second, dbOpts.ConnLifetime)

	opts := cfg.EngineOptions()
	assert.True(t, decimal.RequireFromString("500.50").Equal(opts.AnnualThreshold))
}

func TestLoad_InvalidPort(t *testing.T) {
	t.Setenv("PORT", "eighty")

	_, err := config.Load()
	assert.Error(t, err)
}

func TestConfig_Rules(t *testing.T) {
	cfg, err := config.Load()
	require.NoError(t, err)

	rules, err := cfg.Rules()
	require.NoError(t, err)
	assert.Equal(t, recurring.DefaultRules(), rules)

	path := filepath.Join(t.TempDir(), "rules.yaml")
	require.NoError(t, os.WriteFile(path, []byte("hints: ['gym']\n"), 0o600))

	cfg.Engine.RulesFile = path

	rules, err = cfg.Rules()
	require.NoError(t, err)
	assert.Equal(t, []string{"gym"}, rules.Hints)

	_, err = cfg.NewEngine()
	require.NoError(t, err)
}
