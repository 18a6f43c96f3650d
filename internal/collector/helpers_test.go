package collector

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// stubFetcher answers queries from respond and records every query it saw.
type stubFetcher struct {
	queries []Query
	respond func(q Query) ([]byte, error)
}

func (s *stubFetcher) Fetch(_ context.Context, q Query) ([]byte, error) {
	s.queries = append(s.queries, q)
	return s.respond(q)
}

func (s *stubFetcher) Name() string { return "stub" }

// pagesFetcher serves bodies in order, then empty feeds.
func pagesFetcher(bodies ...[]byte) *stubFetcher {
	i := 0
	return &stubFetcher{respond: func(Query) ([]byte, error) {
		if i >= len(bodies) {
			return newsBody(), nil
		}
		b := bodies[i]
		i++
		return b, nil
	}}
}

func date(y int, m time.Month, d, hh, mm, ss int) time.Time {
	return time.Date(y, m, d, hh, mm, ss, 0, time.UTC)
}

// monthCSV renders an intraday CSV for every day of the month at the given
// hours, newest first, the way the provider lists it.
func monthCSV(year int, month time.Month, hours ...int) []byte {
	var rows []string
	for d := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC); d.Month() == month; d = d.AddDate(0, 0, 1) {
		for _, h := range hours {
			ts := d.Add(time.Duration(h) * time.Hour)
			rows = append(rows, fmt.Sprintf("%s,%d.0,%d.5,%d.0,%d.25,%d",
				ts.Format(intradayTimeLayout), h, h, h-1, h, 1000+h))
		}
	}
	for i, j := 0, len(rows)-1; i < j; i, j = i+1, j-1 {
		rows[i], rows[j] = rows[j], rows[i]
	}
	return []byte("timestamp,open,high,low,close,volume\r\n" + strings.Join(rows, "\r\n") + "\r\n")
}

type newsOpt func(map[string]any)

func withSource(s string) newsOpt {
	return func(m map[string]any) { m["source"] = s }
}

func withTickers(tickers ...string) newsOpt {
	return func(m map[string]any) {
		entries := make([]map[string]any, 0, len(tickers))
		for _, t := range tickers {
			entries = append(entries, map[string]any{
				"ticker":                 t,
				"relevance_score":        "0.731",
				"ticker_sentiment_score": "0.2",
				"ticker_sentiment_label": "Somewhat-Bullish",
			})
		}
		m["ticker_sentiment"] = entries
	}
}

func withTopics(names ...string) newsOpt {
	return func(m map[string]any) {
		entries := make([]map[string]any, 0, len(names))
		for _, n := range names {
			entries = append(entries, map[string]any{"topic": n, "relevance_score": "0.5"})
		}
		m["topics"] = entries
	}
}

func newsItemJSON(url string, published time.Time, opts ...newsOpt) map[string]any {
	m := map[string]any{
		"title":                   "headline " + url,
		"url":                     url,
		"time_published":          published.Format(publishedLayout),
		"source":                  "Reuters",
		"category_within_source":  "n/a",
		"overall_sentiment_score": 0.15,
		"overall_sentiment_label": "Somewhat-Bullish",
	}
	withTopics("Technology", "Earnings")(m)
	withTickers("AAPL", "MSFT")(m)
	for _, o := range opts {
		o(m)
	}
	return m
}

func newsBody(items ...map[string]any) []byte {
	if items == nil {
		items = []map[string]any{}
	}
	b, err := json.Marshal(map[string]any{
		"items": fmt.Sprint(len(items)),
		"feed":  items,
	})
	if err != nil {
		panic(err)
	}
	return b
}
