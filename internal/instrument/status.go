package instrument

import "quotecore/internal/venue"

// Status wraps the venue-reported trading-status enum with the
// IsReady predicate spec §4.5 defines over it.
type Status struct {
	Trading venue.TradingStatus
}

func (s Status) IsReady() bool { return s.Trading == venue.StatusOpen }
