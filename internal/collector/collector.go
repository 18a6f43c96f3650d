package collector

import (
	"context"
	"log"
	"time"

	"MarketAcquirer/internal/model"
)

// Plan holds the per-run acquisition parameters shared by every symbol.
type Plan struct {
	Interval      model.Interval
	Adjusted      *bool
	ExtendedHours *bool
	Topics        []model.Topic
	From          time.Time
	To            time.Time
}

// Collector runs the time-series and news pipelines against a Fetcher.
type Collector struct {
	Fetcher Fetcher
	// Location interprets provider wall-clock timestamps; nil means UTC.
	Location *time.Location
}

// NewCollector creates a new Collector.
func NewCollector(fetcher Fetcher, loc *time.Location) *Collector {
	return &Collector{Fetcher: fetcher, Location: loc}
}

func (c *Collector) location() *time.Location {
	if c.Location == nil {
		return time.UTC
	}
	return c.Location
}

// Acquire runs both pipelines for symbol. A failure in one pipeline is kept
// in the result and does not skip the other.
func (c *Collector) Acquire(ctx context.Context, symbol string, plan Plan) model.SymbolResult {
	res := model.SymbolResult{Symbol: symbol, StartedAt: time.Now()}

	res.TimeSeries, res.SeriesErr = c.CollectTimeSeries(ctx, symbol, plan.Interval,
		plan.Adjusted, plan.ExtendedHours, plan.From, plan.To)
	if res.SeriesErr != nil {
		log.Printf("[ERROR] failed to get time series intraday data for %s: %v", symbol, res.SeriesErr)
	}

	res.News, res.NewsErr = c.CollectNews(ctx, symbol, plan.Topics, plan.From, plan.To)
	if res.NewsErr != nil {
		log.Printf("[ERROR] failed to get news sentiment data for %s: %v", symbol, res.NewsErr)
	}

	res.FinishedAt = time.Now()
	return res
}

// AcquireAll acquires symbols one after another, handing each result to sink
// (if non-nil) before moving on. It stops early only when ctx is cancelled.
func (c *Collector) AcquireAll(ctx context.Context, symbols []string, plan Plan, sink func(model.SymbolResult)) []model.SymbolResult {
	results := make([]model.SymbolResult, 0, len(symbols))
	for i, symbol := range symbols {
		if err := ctx.Err(); err != nil {
			log.Printf("[WARN] acquisition stopped before %s: %v", symbol, err)
			break
		}
		log.Printf("[INFO] acquiring %s (%d/%d)", symbol, i+1, len(symbols))
		res := c.Acquire(ctx, symbol, plan)
		if sink != nil {
			sink(res)
		}
		results = append(results, res)
	}
	return results
}
