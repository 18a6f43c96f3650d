package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"MarketAcquirer/internal/collector"
	"MarketAcquirer/internal/config"
)

// monthFetcher serves an intraday CSV with bars at 10:00 and 15:00 on every
// day of the requested month, newest first.
type monthFetcher struct {
	months []string
}

func (f *monthFetcher) Name() string { return "month" }

func (f *monthFetcher) Fetch(_ context.Context, q collector.Query) ([]byte, error) {
	iq, ok := q.(collector.IntradayQuery)
	if !ok {
		return nil, fmt.Errorf("unexpected query %s", q.Function())
	}
	f.months = append(f.months, iq.Month.Format("2006-01"))

	var rows []string
	for d := iq.Month; d.Month() == iq.Month.Month(); d = d.AddDate(0, 0, 1) {
		for _, h := range []int{10, 15} {
			ts := d.Add(time.Duration(h) * time.Hour)
			rows = append(rows, fmt.Sprintf("%s,1,2,0.5,1.5,100", ts.Format("2006-01-02 15:04:05")))
		}
	}
	for i, j := 0, len(rows)-1; i < j; i, j = i+1, j-1 {
		rows[i], rows[j] = rows[j], rows[i]
	}
	return []byte("timestamp,open,high,low,close,volume\n" + strings.Join(rows, "\n") + "\n"), nil
}

func TestBuildPlan_DateOnlyRangeCollectsWholeEndDay(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
alpha_vantage:
  api_key: demo
acquisition:
  symbols: [IBM]
  interval: 60min
  time_from: "2023-01-20"
  time_to: "2023-02-10"
`), 0644))
	cfg, err := config.Load(path)
	require.NoError(t, err)
	require.NoError(t, cfg.Validate())

	plan, err := buildPlan(cfg)
	require.NoError(t, err)

	f := &monthFetcher{}
	ts, err := collector.NewCollector(f, time.UTC).CollectTimeSeries(context.Background(), "IBM",
		plan.Interval, plan.Adjusted, plan.ExtendedHours, plan.From, plan.To)
	require.NoError(t, err)

	assert.Equal(t, []string{"2023-01", "2023-02"}, f.months)
	days := map[string]bool{}
	for _, p := range ts.Points {
		days[p.Time.Format("2006-01-02")] = true
	}
	assert.Len(t, days, 22)
	assert.Equal(t, 44, ts.Len())
	assert.Equal(t, time.Date(2023, 1, 20, 10, 0, 0, 0, time.UTC), ts.Points[0].Time)
	assert.Equal(t, time.Date(2023, 2, 10, 15, 0, 0, 0, time.UTC), ts.Points[ts.Len()-1].Time)
}
