package instrument

// Readiness is the connection/download/reference-data/market-status
// bitmask gating whether an Instrument is tradeable. Grounded on
// original_source/src/roq/shared/instrument.h's flags_t.
type Readiness uint32

const (
	Connected  Readiness = 1 << 0
	Downloading Readiness = 1 << 1
	Realtime   Readiness = 1 << 2
	MarketData Readiness = 1 << 3
	Trading    Readiness = 1 << 4
	Ready      Readiness = 1 << 5
)

