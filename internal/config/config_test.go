package config_test

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/travishathaway/gdfm/internal/config"
	"github.com/travishathaway/gdfm/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_Defaults(t *testing.T) {
	dataHome := t.TempDir()
	t.Setenv("XDG_DATA_HOME", dataHome)
	t.Setenv("DB_PATH", "")
	t.Setenv("GITHUB_TOKEN", "secret")

	cfg, err := config.LoadConfig()

	require.NoError(t, err)
	assert.Equal(t, "sqlite", cfg.Database.Driver)
	assert.Equal(t, filepath.Join(dataHome, "gdfm", "gdfm.db"), cfg.Database.Path)
	assert.Equal(t, 5, cfg.Collector.Concurrency)
	assert.Equal(t, 100, cfg.Collector.PageSize)
	assert.Equal(t, "link", cfg.Collector.Strategy)
	assert.Equal(t, time.Second, cfg.Collector.SubsetDelay)
	assert.False(t, cfg.Collector.FailFast)
	assert.Equal(t, "secret", cfg.GitHub.Token)
	assert.Equal(t, "8080", cfg.Server.Port)
	assert.NoError(t, cfg.GitHub.Validate())
}

func TestLoadConfig_Overrides(t *testing.T) {
	t.Setenv("DB_PATH", "/tmp/custom.db")
	t.Setenv("COLLECT_CONCURRENCY", "12")
	t.Setenv("COLLECT_STRATEGY", "count")
	t.Setenv("COLLECT_SUBSET_DELAY", "250ms")
	t.Setenv("COLLECT_FAIL_FAST", "true")

	cfg, err := config.LoadConfig()

	require.NoError(t, err)
	assert.Equal(t, "/tmp/custom.db", cfg.Database.Path)
	assert.Equal(t, 12, cfg.Collector.Concurrency)
	assert.Equal(t, "count", cfg.Collector.Strategy)
	assert.Equal(t, 250*time.Millisecond, cfg.Collector.SubsetDelay)
	assert.True(t, cfg.Collector.FailFast)
}

func TestLoadConfig_InvalidValues(t *testing.T) {
	testCases := []struct {
		name  string
		key   string
		value string
	}{
		{"zero concurrency", "COLLECT_CONCURRENCY", "0"},
		{"page size too large", "COLLECT_PAGE_SIZE", "101"},
		{"unknown state", "COLLECT_STATE", "merged"},
		{"unknown strategy", "COLLECT_STRATEGY", "guess"},
		{"unknown kinds", "COLLECT_KINDS", "comments"},
		{"negative delay", "COLLECT_SUBSET_DELAY", "-1s"},
		{"not a number", "COLLECT_CONCURRENCY", "many"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Setenv("DB_PATH", "/tmp/gdfm.db")
			t.Setenv(tc.key, tc.value)

			_, err := config.LoadConfig()

			assert.ErrorIs(t, err, domain.ErrConfiguration)
		})
	}
}

func TestGitHubValidate_MissingToken(t *testing.T) {
	err := config.GitHub{BaseURL: "https://api.github.com/"}.Validate()

	assert.ErrorIs(t, err, domain.ErrConfiguration)
	assert.Contains(t, err.Error(), "GITHUB_TOKEN")
}

func TestDatabaseDSN(t *testing.T) {
	db := config.Database{User: "u", Password: "p", Host: "h", Port: "5433", Name: "n"}

	assert.Equal(t, "postgres://u:p@h:5433/n?sslmode=disable", db.DSN())
}
