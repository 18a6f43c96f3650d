package recorder

import (
	"errors"

	"MarketAcquirer/internal/model"
)

// Recorder persists acquisition results. The collectors never write; the run
// loop hands each symbol's tables to a Recorder.
type Recorder interface {
	RecordTimeSeries(ts *model.TimeSeries) error
	RecordNews(symbol string, news *model.NewsTable) error
	RecordRun(res *model.SymbolResult) error
	Close() error
}

// Multi fans every call out to all recorders and joins their errors.
type Multi []Recorder

func (m Multi) RecordTimeSeries(ts *model.TimeSeries) error {
	var errs []error
	for _, r := range m {
		errs = append(errs, r.RecordTimeSeries(ts))
	}
	return errors.Join(errs...)
}

func (m Multi) RecordNews(symbol string, news *model.NewsTable) error {
	var errs []error
	for _, r := range m {
		errs = append(errs, r.RecordNews(symbol, news))
	}
	return errors.Join(errs...)
}

func (m Multi) RecordRun(res *model.SymbolResult) error {
	var errs []error
	for _, r := range m {
		errs = append(errs, r.RecordRun(res))
	}
	return errors.Join(errs...)
}

func (m Multi) Close() error {
	var errs []error
	for _, r := range m {
		errs = append(errs, r.Close())
	}
	return errors.Join(errs...)
}

// Record stores whatever res holds: each table that was collected, then the
// run entry itself.
func Record(r Recorder, res *model.SymbolResult) error {
	var errs []error
	if res.SeriesErr == nil && res.TimeSeries != nil {
		errs = append(errs, r.RecordTimeSeries(res.TimeSeries))
	}
	if res.NewsErr == nil && res.News != nil {
		errs = append(errs, r.RecordNews(res.Symbol, res.News))
	}
	errs = append(errs, r.RecordRun(res))
	return errors.Join(errs...)
}
