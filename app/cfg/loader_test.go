package cfg

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetVersion(t *testing.T) {
	assert.NotEmpty(t, GetVersion())
}

func TestParse_Defaults(t *testing.T) {
	cfg, err := parse([]string{})
	require.NoError(t, err)
	require.NotNil(t, cfg)

	assert.Equal(t, "./data_raw", cfg.InputDir)
	assert.Equal(t, "./data_clean", cfg.OutputDir)
	assert.Equal(t, "./logs", cfg.LogsDir)
	assert.Equal(t, "duckdb", cfg.AnalyticsDriver)
	assert.Equal(t, 10, cfg.Concurrency)
	assert.Equal(t, 5*time.Second, cfg.ProbeTimeout)
	assert.Equal(t, 100*time.Millisecond, cfg.BatchPause)
	assert.Equal(t, 100, cfg.DocBatchSize)
	assert.Equal(t, time.Duration(0), cfg.MaxDuration)
	assert.False(t, cfg.Force)
	assert.False(t, cfg.SkipMongo)
	assert.Empty(t, cfg.Files)
}

func TestParse_Flags(t *testing.T) {
	cfg, err := parse([]string{
		"--input-dir", "/data/in",
		"--analytics-driver", "sqlite",
		"--skip-mongo",
		"--force",
		"--file", "20250811_fantasy_raw_data.xlsx",
		"--file", "20250812_romance_raw_data.csv",
		"--concurrency", "4",
		"--max-duration", "30m",
	})
	require.NoError(t, err)

	assert.Equal(t, "/data/in", cfg.InputDir)
	assert.Equal(t, "sqlite", cfg.AnalyticsDriver)
	assert.True(t, cfg.SkipMongo)
	assert.True(t, cfg.Force)
	assert.Equal(t, []string{"20250811_fantasy_raw_data.xlsx", "20250812_romance_raw_data.csv"}, cfg.Files)
	assert.Equal(t, 4, cfg.Concurrency)
	assert.Equal(t, 30*time.Minute, cfg.MaxDuration)
}

func TestParse_Env(t *testing.T) {
	t.Setenv("INPUT_DIR", "/env/in")
	t.Setenv("SKIP_MONGO", "true")

	cfg, err := parse([]string{})
	require.NoError(t, err)
	assert.Equal(t, "/env/in", cfg.InputDir)
	assert.True(t, cfg.SkipMongo)
}

func TestParse_Invalid(t *testing.T) {
	cases := [][]string{
		{"--analytics-driver", "postgres"},
		{"--concurrency", "0"},
		{"--doc-batch-size", "0"},
		{"--probe-timeout", "0s"},
	}

	for _, args := range cases {
		_, err := parse(args)
		assert.Error(t, err, args)
	}
}
