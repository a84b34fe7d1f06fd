package instrument

import "quotecore/internal/common"

// ReferenceData holds the static tradeability parameters a venue
// publishes per instrument. Grounded on
// original_source/src/roq/shared/instrument.h's ReferenceData.
type ReferenceData struct {
	TickSize    common.Price
	MinTradeVol common.Volume
	Multiplier  common.Volume
}

// IsReady reports whether enough reference data has arrived to trade:
// tick_size and min_trade_vol must both be strictly positive.
func (r ReferenceData) IsReady() bool {
	return common.Compare(r.TickSize, 0) > 0 && common.Compare(r.MinTradeVol, 0) > 0
}
