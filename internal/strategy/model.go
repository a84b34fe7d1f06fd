// Package strategy implements the Strategy dispatcher: the inbound
// event router that owns the Instruments registry and a pluggable
// Model, and the outbound orders.Context translation into venue wire
// messages. Grounded on original_source/src/roq/shared/strategy.h/.inl
// and the concrete original_source/src/roq/mmaker/strategy.h/.cpp.
package strategy

import "quotecore/internal/instrument"

// Model is the pricing/quoting logic plugged into a Strategy. It is
// never called concurrently with itself — the Strategy's event loop is
// single-threaded per spec §5.
type Model interface {
	// OnQuotes is called after a MarketByPriceUpdate has been applied
	// to an instrument's depth.
	OnQuotes(s *Strategy, iid instrument.ID)
	// OnTime is called once per sample period (spec §4.6's Timer
	// handling), independent of any particular instrument.
	OnTime(s *Strategy)
	// OnPosition is called after an OrderUpdate or a venue
	// PositionUpdate has been routed to an instrument, whether or not
	// its position changed.
	OnPosition(s *Strategy, iid instrument.ID)
}
