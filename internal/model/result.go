package model

import "time"

// SymbolResult holds the outcome of acquiring one symbol. A nil table with a
// non-nil error means that pipeline produced nothing for the symbol.
type SymbolResult struct {
	Symbol     string
	TimeSeries *TimeSeries
	SeriesErr  error
	News       *NewsTable
	NewsErr    error
	StartedAt  time.Time
	FinishedAt time.Time
}

// OK reports whether both pipelines succeeded.
func (r *SymbolResult) OK() bool {
	return r.SeriesErr == nil && r.NewsErr == nil
}
