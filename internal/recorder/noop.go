package recorder

import "MarketAcquirer/internal/model"

// NoopRecorder is a no-op implementation used when no output is configured.
type NoopRecorder struct{}

func NewNoopRecorder() *NoopRecorder { return &NoopRecorder{} }

func (n *NoopRecorder) RecordTimeSeries(_ *model.TimeSeries) error    { return nil }
func (n *NoopRecorder) RecordNews(_ string, _ *model.NewsTable) error { return nil }
func (n *NoopRecorder) RecordRun(_ *model.SymbolResult) error         { return nil }
func (n *NoopRecorder) Close() error                                  { return nil }
