package model

import (
	"fmt"
	"time"
)

// Interval is an intraday bar granularity supported by the provider.
type Interval string

const (
	Interval1Min  Interval = "1min"
	Interval5Min  Interval = "5min"
	Interval15Min Interval = "15min"
	Interval30Min Interval = "30min"
	Interval60Min Interval = "60min"
)

// Intervals lists every supported granularity, finest first.
var Intervals = []Interval{Interval1Min, Interval5Min, Interval15Min, Interval30Min, Interval60Min}

// ParseInterval validates s against the supported granularities.
func ParseInterval(s string) (Interval, error) {
	for _, iv := range Intervals {
		if string(iv) == s {
			return iv, nil
		}
	}
	return "", fmt.Errorf("unsupported interval %q", s)
}

// OHLCV represents a single candlestick bar.
type OHLCV struct {
	Time   time.Time
	Open   float64
	High   float64
	Low    float64
	Close  float64
	Volume float64
}

// TimeSeries is the stitched intraday table for one symbol, ascending by Time
// with unique timestamps.
type TimeSeries struct {
	Symbol   string
	Interval Interval
	Points   []OHLCV
}

// Len returns the number of bars.
func (ts *TimeSeries) Len() int {
	if ts == nil {
		return 0
	}
	return len(ts.Points)
}
