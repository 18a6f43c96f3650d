package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"MarketAcquirer/internal/model"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

const validYAML = `
alpha_vantage:
  api_key: "demo"
acquisition:
  symbols: [AAPL, MSFT]
  interval: 60min
  adjusted: false
  topics: [technology, earnings]
  time_from: "2023-01-20T00:00:00"
  time_to: "2023-02-10"
  max_requests: 3
  backoff: 30s
output:
  data_path: out
  formats: [csv, parquet]
schedule:
  cron: "0 30 6 * * 1-5"
`

func TestLoad_Valid(t *testing.T) {
	cfg, err := Load(writeConfig(t, validYAML))
	require.NoError(t, err)
	require.NoError(t, cfg.Validate())

	assert.Equal(t, []string{"AAPL", "MSFT"}, cfg.Acquisition.Symbols)
	require.NotNil(t, cfg.Acquisition.Adjusted)
	assert.False(t, *cfg.Acquisition.Adjusted)
	assert.Nil(t, cfg.Acquisition.ExtendedHours)
	require.NotNil(t, cfg.Acquisition.MaxRequests)
	assert.Equal(t, 3, *cfg.Acquisition.MaxRequests)
	assert.Equal(t, 30*time.Second, cfg.Acquisition.Backoff)
	assert.True(t, cfg.HasFormat(FormatParquet))

	from, to, err := cfg.Range()
	require.NoError(t, err)
	assert.Equal(t, time.Date(2023, 1, 20, 0, 0, 0, 0, time.UTC), from)
	assert.Equal(t, time.Date(2023, 2, 10, 23, 59, 59, 999999999, time.UTC), to, "a bare end date covers the whole day")

	topics, err := cfg.Topics()
	require.NoError(t, err)
	assert.Equal(t, []model.Topic{model.TopicTechnology, model.TopicEarnings}, topics)
}

func TestLoad_DefaultsAndMissingFile(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)

	assert.Equal(t, "https://www.alphavantage.co/query", cfg.AlphaVantage.BaseURL)
	assert.Equal(t, "60min", cfg.Acquisition.Interval)
	require.NotNil(t, cfg.Acquisition.MaxRequests)
	assert.Equal(t, 5, *cfg.Acquisition.MaxRequests)
	assert.Equal(t, 60*time.Second, cfg.Acquisition.Backoff)
	assert.Equal(t, "data", cfg.Output.DataPath)
	assert.Equal(t, []string{FormatCSV}, cfg.Output.Formats)
	assert.ErrorIs(t, cfg.Validate(), ErrMissingAPIKey)
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("ALPHAVANTAGE_API_KEY", "from-env")
	t.Setenv("SYMBOLS", "IBM, TSLA ,")
	t.Setenv("MAX_REQUESTS", "2")
	t.Setenv("DATA_PATH", "/tmp/av")

	cfg, err := Load(writeConfig(t, validYAML))
	require.NoError(t, err)

	assert.Equal(t, "from-env", cfg.AlphaVantage.APIKey)
	assert.Equal(t, []string{"IBM", "TSLA"}, cfg.Acquisition.Symbols)
	require.NotNil(t, cfg.Acquisition.MaxRequests)
	assert.Equal(t, 2, *cfg.Acquisition.MaxRequests)
	assert.Equal(t, "/tmp/av", cfg.Output.DataPath)
}

func TestLoad_ZeroMaxRequestsIsRejected(t *testing.T) {
	cfg, err := Load(writeConfig(t, strings.Replace(validYAML, "max_requests: 3", "max_requests: 0", 1)))
	require.NoError(t, err)

	require.NotNil(t, cfg.Acquisition.MaxRequests)
	assert.Equal(t, 0, *cfg.Acquisition.MaxRequests)
	assert.ErrorIs(t, cfg.Validate(), ErrInvalidMaxRequests)
}

func TestLoad_MalformedMaxRequestsEnv(t *testing.T) {
	t.Setenv("MAX_REQUESTS", "-3x")

	_, err := Load(writeConfig(t, validYAML))
	assert.ErrorContains(t, err, "MAX_REQUESTS")
}

func TestRange_FullTimestampEndIsExact(t *testing.T) {
	cfg, err := Load(writeConfig(t, validYAML))
	require.NoError(t, err)
	cfg.Acquisition.TimeTo = "2023-02-10T16:00:00"

	_, to, err := cfg.Range()
	require.NoError(t, err)
	assert.Equal(t, time.Date(2023, 2, 10, 16, 0, 0, 0, time.UTC), to)
}

func TestLoad_InvalidYAML(t *testing.T) {
	_, err := Load(writeConfig(t, "acquisition: [unclosed"))
	assert.Error(t, err)
}

func TestValidate_Errors(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		want   error
	}{
		{"no symbols", func(c *Config) { c.Acquisition.Symbols = nil }, ErrNoSymbols},
		{"negative max requests", func(c *Config) { c.Acquisition.MaxRequests = intPtr(-1) }, ErrInvalidMaxRequests},
		{"zero max requests", func(c *Config) { c.Acquisition.MaxRequests = intPtr(0) }, ErrInvalidMaxRequests},
		{"backoff", func(c *Config) { c.Acquisition.Backoff = -time.Second }, ErrInvalidBackoff},
		{"inverted range", func(c *Config) { c.Acquisition.TimeTo = "2023-01-01" }, ErrInvertedRange},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := Load(writeConfig(t, validYAML))
			require.NoError(t, err)
			tt.mutate(cfg)
			assert.ErrorIs(t, cfg.Validate(), tt.want)
		})
	}
}

func TestValidate_RejectsMalformedValues(t *testing.T) {
	for name, mutate := range map[string]func(*Config){
		"interval": func(c *Config) { c.Acquisition.Interval = "2min" },
		"topic":    func(c *Config) { c.Acquisition.Topics = []string{"Technology"} },
		"time":     func(c *Config) { c.Acquisition.TimeFrom = "20/01/2023" },
		"timezone": func(c *Config) { c.Acquisition.Timezone = "Mars/Olympus" },
		"format":   func(c *Config) { c.Output.Formats = []string{"xlsx"} },
		"cron":     func(c *Config) { c.Schedule.Cron = "every day" },
	} {
		t.Run(name, func(t *testing.T) {
			cfg, err := Load(writeConfig(t, validYAML))
			require.NoError(t, err)
			mutate(cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}

func TestRange_Timezone(t *testing.T) {
	cfg, err := Load(writeConfig(t, validYAML))
	require.NoError(t, err)
	cfg.Acquisition.Timezone = "America/New_York"

	from, _, err := cfg.Range()
	require.NoError(t, err)
	assert.Equal(t, "America/New_York", from.Location().String())
	assert.Equal(t, 20, from.Day())
}

func intPtr(n int) *int { return &n }
