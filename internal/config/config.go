package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
	_ "time/tzdata"

	"github.com/robfig/cron/v3"
	"gopkg.in/yaml.v3"

	"MarketAcquirer/internal/model"
)

// TimeLayout is the accepted form of acquisition.time_from / time_to.
const TimeLayout = "2006-01-02T15:04:05"

// CronParser accepts five-field specs, an optional leading seconds field,
// and descriptors such as @daily.
var CronParser = cron.NewParser(cron.SecondOptional | cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor)

// Output formats.
const (
	FormatCSV     = "csv"
	FormatParquet = "parquet"
)

var (
	ErrMissingAPIKey      = errors.New("alpha_vantage.api_key is required")
	ErrNoSymbols          = errors.New("acquisition.symbols must list at least one symbol")
	ErrInvalidMaxRequests = errors.New("acquisition.max_requests must be at least 1")
	ErrInvalidBackoff     = errors.New("acquisition.backoff must be non-negative")
	ErrInvertedRange      = errors.New("acquisition.time_from must not be after acquisition.time_to")
	ErrMissingDataPath    = errors.New("output.data_path is required")
)

// Config holds all application configuration.
type Config struct {
	AlphaVantage struct {
		APIKey         string        `yaml:"api_key"`
		BaseURL        string        `yaml:"base_url"`
		RequestTimeout time.Duration `yaml:"request_timeout"`
	} `yaml:"alpha_vantage"`
	Acquisition struct {
		Symbols       []string      `yaml:"symbols"`
		Interval      string        `yaml:"interval"`
		Adjusted      *bool         `yaml:"adjusted"`
		ExtendedHours *bool         `yaml:"extended_hours"`
		Topics        []string      `yaml:"topics"`
		TimeFrom      string        `yaml:"time_from"`
		TimeTo        string        `yaml:"time_to"`
		Timezone      string        `yaml:"timezone"`
		MaxRequests   *int          `yaml:"max_requests"`
		Backoff       time.Duration `yaml:"backoff"`
	} `yaml:"acquisition"`
	Output struct {
		DataPath   string   `yaml:"data_path"`
		Formats    []string `yaml:"formats"`
		SQLitePath string   `yaml:"sqlite_path"`
	} `yaml:"output"`
	Schedule struct {
		Cron string `yaml:"cron"`
	} `yaml:"schedule"`
	Telegram struct {
		BotToken string `yaml:"bot_token"`
		ChatID   string `yaml:"chat_id"`
	} `yaml:"telegram"`
	Proxy string `yaml:"proxy"`
}

// Load reads config from a YAML file, then applies environment variable overrides.
func Load(path string) (*Config, error) {
	cfg := &Config{}

	data, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if len(data) > 0 {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	// Environment variable overrides
	if v := os.Getenv("ALPHAVANTAGE_API_KEY"); v != "" {
		cfg.AlphaVantage.APIKey = v
	}
	if v := os.Getenv("ALPHAVANTAGE_BASE_URL"); v != "" {
		cfg.AlphaVantage.BaseURL = v
	}
	if v := os.Getenv("SYMBOLS"); v != "" {
		cfg.Acquisition.Symbols = splitList(v)
	}
	if v := os.Getenv("MAX_REQUESTS"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return nil, fmt.Errorf("MAX_REQUESTS: %w", err)
		}
		cfg.Acquisition.MaxRequests = &n
	}
	if v := os.Getenv("DATA_PATH"); v != "" {
		cfg.Output.DataPath = v
	}
	if v := os.Getenv("SQLITE_PATH"); v != "" {
		cfg.Output.SQLitePath = v
	}
	if v := os.Getenv("ACQUIRE_CRON"); v != "" {
		cfg.Schedule.Cron = v
	}
	if v := os.Getenv("TELEGRAM_BOT_TOKEN"); v != "" {
		cfg.Telegram.BotToken = v
	}
	if v := os.Getenv("TELEGRAM_CHAT_ID"); v != "" {
		cfg.Telegram.ChatID = v
	}
	if v := os.Getenv("HTTPS_PROXY"); v != "" {
		cfg.Proxy = v
	}

	// Defaults
	if cfg.AlphaVantage.BaseURL == "" {
		cfg.AlphaVantage.BaseURL = "https://www.alphavantage.co/query"
	}
	if cfg.Acquisition.Interval == "" {
		cfg.Acquisition.Interval = string(model.Interval60Min)
	}
	if cfg.Acquisition.Timezone == "" {
		cfg.Acquisition.Timezone = "UTC"
	}
	if cfg.Acquisition.MaxRequests == nil {
		n := 5
		cfg.Acquisition.MaxRequests = &n
	}
	if cfg.Acquisition.Backoff == 0 {
		cfg.Acquisition.Backoff = 60 * time.Second
	}
	if cfg.Output.DataPath == "" {
		cfg.Output.DataPath = "data"
	}
	if len(cfg.Output.Formats) == 0 {
		cfg.Output.Formats = []string{FormatCSV}
	}

	return cfg, nil
}

// Validate checks that all required fields are set and well formed.
func (c *Config) Validate() error {
	if c.AlphaVantage.APIKey == "" {
		return ErrMissingAPIKey
	}
	if len(c.Acquisition.Symbols) == 0 {
		return ErrNoSymbols
	}
	if _, err := model.ParseInterval(c.Acquisition.Interval); err != nil {
		return fmt.Errorf("acquisition.interval: %w", err)
	}
	if _, err := c.Topics(); err != nil {
		return err
	}
	from, to, err := c.Range()
	if err != nil {
		return err
	}
	if from.After(to) {
		return ErrInvertedRange
	}
	if c.Acquisition.MaxRequests == nil || *c.Acquisition.MaxRequests < 1 {
		return ErrInvalidMaxRequests
	}
	if c.Acquisition.Backoff < 0 {
		return ErrInvalidBackoff
	}
	if c.Output.DataPath == "" {
		return ErrMissingDataPath
	}
	for _, f := range c.Output.Formats {
		if f != FormatCSV && f != FormatParquet {
			return fmt.Errorf("output.formats: unsupported format %q", f)
		}
	}
	if c.Schedule.Cron != "" {
		if _, err := CronParser.Parse(c.Schedule.Cron); err != nil {
			return fmt.Errorf("schedule.cron: %w", err)
		}
	}
	return nil
}

// Location resolves acquisition.timezone.
func (c *Config) Location() (*time.Location, error) {
	loc, err := time.LoadLocation(c.Acquisition.Timezone)
	if err != nil {
		return nil, fmt.Errorf("acquisition.timezone: %w", err)
	}
	return loc, nil
}

// Range parses the inclusive acquisition window in the configured timezone.
func (c *Config) Range() (from, to time.Time, err error) {
	loc, err := c.Location()
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	if from, _, err = parseTime(c.Acquisition.TimeFrom, loc); err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("acquisition.time_from: %w", err)
	}
	var dateOnly bool
	if to, dateOnly, err = parseTime(c.Acquisition.TimeTo, loc); err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("acquisition.time_to: %w", err)
	}
	// A bare end date covers that whole day.
	if dateOnly {
		to = to.AddDate(0, 0, 1).Add(-time.Nanosecond)
	}
	return from, to, nil
}

// Topics parses acquisition.topics into canonical keys.
func (c *Config) Topics() ([]model.Topic, error) {
	topics := make([]model.Topic, 0, len(c.Acquisition.Topics))
	for _, s := range c.Acquisition.Topics {
		t, err := model.ParseTopic(s)
		if err != nil {
			return nil, fmt.Errorf("acquisition.topics: %w", err)
		}
		topics = append(topics, t)
	}
	return topics, nil
}

// HasFormat reports whether output.formats lists f.
func (c *Config) HasFormat(f string) bool {
	for _, have := range c.Output.Formats {
		if have == f {
			return true
		}
	}
	return false
}

// parseTime accepts a full timestamp or a bare date and reports which it got.
func parseTime(s string, loc *time.Location) (t time.Time, dateOnly bool, err error) {
	if s == "" {
		return time.Time{}, false, errors.New("required")
	}
	for _, layout := range []string{TimeLayout, "2006-01-02 15:04:05", "2006-01-02T15:04"} {
		if t, err := time.ParseInLocation(layout, s, loc); err == nil {
			return t, false, nil
		}
	}
	if t, err := time.ParseInLocation(time.DateOnly, s, loc); err == nil {
		return t, true, nil
	}
	return time.Time{}, false, fmt.Errorf("cannot parse %q, want %s", s, TimeLayout)
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
