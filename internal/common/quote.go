package common

// Quote is a desired (side, price, quantity) triple, the unit the model
// produces and the unit a venue order ultimately carries.
type Quote struct {
	Side     Side
	Price    Price
	Quantity Volume
}

// Empty reports whether the quote lacks a defined price or a positive
// quantity (either one suffices) — the model's way of "retracting" a level.
func (q Quote) Empty() bool {
	return IsUndefined(q.Price) || Compare(q.Quantity, 0) <= 0
}

func (q Quote) Reset() Quote {
	return Quote{Side: SideUndefined, Price: Undefined(), Quantity: 0}
}

// Layer is one rung of the public venue order book.
type Layer struct {
	BidPrice    Price
	BidQuantity Volume
	AskPrice    Price
	AskQuantity Volume
}

// MaxDepth is the fixed number of layers the venue publishes and the
// engine tracks.
const MaxDepth = 3

// Depth is a snapshot of the top MaxDepth layers, index 0 = best.
type Depth [MaxDepth]Layer

// BestBid returns the top bid as a Quote, or an empty Quote if absent.
func (d Depth) BestBid() Quote {
	return Quote{Side: Buy, Price: d[0].BidPrice, Quantity: d[0].BidQuantity}
}

// BestAsk returns the top ask as a Quote, or an empty Quote if absent.
func (d Depth) BestAsk() Quote {
	return Quote{Side: Sell, Price: d[0].AskPrice, Quantity: d[0].AskQuantity}
}

// Crossed reports whether the best bid is at or above the best ask —
// the corruption condition that the engine treats as fatal (spec §7).
func (d Depth) Crossed() bool {
	bid, ask := d[0].BidPrice, d[0].AskPrice
	if IsUndefined(bid) || IsUndefined(ask) {
		return false
	}
	return Compare(bid, ask) >= 0
}
