package notifier

import "MarketAcquirer/internal/collector"

func classify(err error) string {
	switch {
	case collector.IsDataIntegrity(err):
		return "integrity"
	case collector.IsUnavailable(err):
		return "unavailable"
	default:
		return "error"
	}
}
