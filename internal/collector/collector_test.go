package collector

import (
	"context"
	"testing"
	"time"

	"MarketAcquirer/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// symbolFetcher fails every query for the symbols in down.
func symbolFetcher(down ...string) *stubFetcher {
	failing := make(map[string]bool)
	for _, s := range down {
		failing[s] = true
	}
	return &stubFetcher{respond: func(q Query) ([]byte, error) {
		switch q := q.(type) {
		case IntradayQuery:
			if failing[q.Symbol] {
				return nil, ErrUnavailable
			}
			return monthCSV(q.Month.Year(), q.Month.Month(), 10, 15), nil
		case NewsQuery:
			if failing[q.Tickers] {
				return nil, ErrUnavailable
			}
			if !q.TimeFrom.Equal(newsFrom) {
				return newsBody(), nil
			}
			return newsBody(newsItemJSON("https://x/"+q.Tickers, date(2023, time.January, 20, 10, 0, 0),
				withTickers(q.Tickers))), nil
		}
		return nil, nil
	}}
}

var testPlan = Plan{
	Interval: model.Interval60Min,
	From:     newsFrom,
	To:       newsTo,
}

func TestAcquire_BothPipelines(t *testing.T) {
	res := NewCollector(symbolFetcher(), nil).Acquire(context.Background(), "AAPL", testPlan)

	assert.True(t, res.OK())
	assert.Equal(t, "AAPL", res.Symbol)
	assert.Equal(t, 1, res.TimeSeries.Len())
	assert.Equal(t, 1, res.News.Len())
	assert.False(t, res.FinishedAt.Before(res.StartedAt))
}

func TestAcquireAll_ContinuesPastFailingSymbol(t *testing.T) {
	var sunk []string
	results := NewCollector(symbolFetcher("MSFT"), nil).AcquireAll(context.Background(),
		[]string{"AAPL", "MSFT", "IBM"}, testPlan, func(r model.SymbolResult) {
			sunk = append(sunk, r.Symbol)
		})

	require.Len(t, results, 3)
	assert.Equal(t, []string{"AAPL", "MSFT", "IBM"}, sunk)
	assert.True(t, results[0].OK())
	assert.True(t, IsUnavailable(results[1].SeriesErr))
	assert.True(t, IsUnavailable(results[1].NewsErr), "news is still attempted after the series failed")
	assert.Nil(t, results[1].TimeSeries)
	assert.True(t, results[2].OK())
}

func TestAcquireAll_StopsWhenCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	f := symbolFetcher()
	results := NewCollector(f, nil).AcquireAll(ctx, []string{"AAPL", "IBM"}, testPlan, nil)

	assert.Empty(t, results)
	assert.Empty(t, f.queries)
}
