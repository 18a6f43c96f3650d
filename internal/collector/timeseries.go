package collector

import (
	"bytes"
	"context"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"log"
	"strconv"
	"strings"
	"time"

	"MarketAcquirer/internal/model"
)

// MonthWindows returns the first instant of every calendar month touched by
// [from, to], both endpoint months included, in chronological order.
func MonthWindows(from, to time.Time) []time.Time {
	if to.Before(from) {
		return nil
	}
	loc := from.Location()
	to = to.In(loc)
	start := time.Date(from.Year(), from.Month(), 1, 0, 0, 0, 0, loc)
	end := time.Date(to.Year(), to.Month(), 1, 0, 0, 0, 0, loc)

	var windows []time.Time
	for m := start; !m.After(end); m = m.AddDate(0, 1, 0) {
		windows = append(windows, m)
	}
	return windows
}

// CollectTimeSeries fetches every month window of [from, to], stitches the
// windows in order and trims the result to the closed range. Any window that
// cannot be fetched fails the whole collection.
func (c *Collector) CollectTimeSeries(ctx context.Context, symbol string, interval model.Interval, adjusted, extendedHours *bool, from, to time.Time) (*model.TimeSeries, error) {
	if to.Before(from) {
		return nil, ErrInvalidRange
	}

	var all []model.OHLCV
	for _, month := range MonthWindows(from, to) {
		body, err := c.Fetcher.Fetch(ctx, IntradayQuery{
			Symbol:        symbol,
			Interval:      interval,
			Adjusted:      adjusted,
			ExtendedHours: extendedHours,
			Month:         month,
			OutputSize:    OutputSizeFull,
			DataType:      DataTypeCSV,
		})
		if err != nil {
			return nil, fmt.Errorf("time series %s %s: %w", symbol, month.Format(monthLayout), err)
		}
		bars, err := parseIntradayCSV(body, c.location())
		if err != nil {
			return nil, fmt.Errorf("time series %s %s: %w", symbol, month.Format(monthLayout), err)
		}
		log.Printf("[INFO] time series %s %s: %d bars", symbol, month.Format(monthLayout), len(bars))
		all = append(all, bars...)
	}

	if err := checkAscending(all); err != nil {
		return nil, fmt.Errorf("time series %s: %w", symbol, err)
	}
	return &model.TimeSeries{
		Symbol:   symbol,
		Interval: interval,
		Points:   trimRange(all, from, to),
	}, nil
}

// parseIntradayCSV reads one window's CSV table and returns it oldest first.
func parseIntradayCSV(body []byte, loc *time.Location) ([]model.OHLCV, error) {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 {
		return nil, integrityErrorf("empty intraday payload")
	}
	if trimmed[0] == '{' {
		return nil, providerMessage(FunctionIntraday, trimmed)
	}

	records, err := csv.NewReader(bytes.NewReader(trimmed)).ReadAll()
	if err != nil {
		return nil, integrityErrorf("parse intraday csv: %v", err)
	}
	header := records[0]
	if len(header) == 0 || strings.TrimSpace(header[0]) != "timestamp" {
		return nil, integrityErrorf("intraday csv: first column is %q, want timestamp", header[0])
	}
	cols := make(map[string]int, len(header))
	for i, name := range header {
		cols[strings.TrimSpace(name)] = i
	}
	for _, name := range []string{"open", "high", "low", "close", "volume"} {
		if _, ok := cols[name]; !ok {
			return nil, integrityErrorf("intraday csv: missing column %q", name)
		}
	}

	bars := make([]model.OHLCV, 0, len(records)-1)
	for _, rec := range records[1:] {
		ts, err := time.ParseInLocation(intradayTimeLayout, rec[0], loc)
		if err != nil {
			return nil, integrityErrorf("intraday timestamp %q: %v", rec[0], err)
		}
		var vals [5]float64
		for i, name := range []string{"open", "high", "low", "close", "volume"} {
			v, err := strconv.ParseFloat(rec[cols[name]], 64)
			if err != nil {
				return nil, integrityErrorf("intraday %s at %s: %v", name, rec[0], err)
			}
			vals[i] = v
		}
		bars = append(bars, model.OHLCV{
			Time:   ts,
			Open:   vals[0],
			High:   vals[1],
			Low:    vals[2],
			Close:  vals[3],
			Volume: vals[4],
		})
	}

	// The provider lists newest first.
	if len(bars) > 1 && bars[0].Time.After(bars[len(bars)-1].Time) {
		for i, j := 0, len(bars)-1; i < j; i, j = i+1, j-1 {
			bars[i], bars[j] = bars[j], bars[i]
		}
	}
	return bars, nil
}

// checkAscending verifies timestamps strictly increase, which also rules out
// overlap between adjacent windows.
func checkAscending(bars []model.OHLCV) error {
	for i := 1; i < len(bars); i++ {
		if !bars[i].Time.After(bars[i-1].Time) {
			return integrityErrorf("timestamp %s follows %s",
				bars[i].Time.Format(intradayTimeLayout), bars[i-1].Time.Format(intradayTimeLayout))
		}
	}
	return nil
}

func trimRange(bars []model.OHLCV, from, to time.Time) []model.OHLCV {
	out := make([]model.OHLCV, 0, len(bars))
	for _, b := range bars {
		if b.Time.Before(from) || b.Time.After(to) {
			continue
		}
		out = append(out, b)
	}
	return out
}

// providerMessage turns a JSON note returned in place of data into a
// ProviderError.
func providerMessage(function string, body []byte) error {
	var msg map[string]any
	if err := json.Unmarshal(body, &msg); err != nil {
		return integrityErrorf("%s: undecodable payload: %v", function, err)
	}
	for _, key := range []string{"Error Message", "Note", "Information"} {
		if s, ok := msg[key].(string); ok && s != "" {
			return &ProviderError{Function: function, Message: s}
		}
	}
	return &ProviderError{Function: function, Message: string(body)}
}
