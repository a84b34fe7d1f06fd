package instrument

import (
	"quotecore/internal/common"
	"quotecore/internal/venue"

	"github.com/tidwall/btree"
)

type priceLevel struct {
	price common.Price
	qty   common.Volume
}

// DepthBuilder aggregates incremental MarketByPriceUpdate changes into
// two sorted price trees (best bid first, best ask first) and
// truncates them to the public common.Depth on demand. Grounded on the
// teacher's internal/engine/orderbook.go, which keeps
// btree.BTreeG[*PriceLevel] per side for the same reason: a matching
// engine (there) and a depth builder (here) both need "best N prices,
// sorted" from a stream of adds/updates/removes.
type DepthBuilder struct {
	bids *btree.BTreeG[priceLevel] // descending by price
	asks *btree.BTreeG[priceLevel] // ascending by price
}

func NewDepthBuilder() *DepthBuilder {
	return &DepthBuilder{
		bids: btree.NewBTreeG(func(a, b priceLevel) bool { return a.price > b.price }),
		asks: btree.NewBTreeG(func(a, b priceLevel) bool { return a.price < b.price }),
	}
}

// Apply folds one incremental change into the book: a zero (or
// negative) quantity removes the level, otherwise it is set/replaced.
func (d *DepthBuilder) Apply(change venue.DepthChange) {
	tree := d.treeFor(change.Side)
	if common.Compare(change.Quantity, 0) <= 0 {
		tree.Delete(priceLevel{price: change.Price})
		return
	}
	tree.Set(priceLevel{price: change.Price, qty: change.Quantity})
}

func (d *DepthBuilder) treeFor(side common.Side) *btree.BTreeG[priceLevel] {
	if side == common.Buy {
		return d.bids
	}
	return d.asks
}

// Depth truncates the current book to the top common.MaxDepth layers.
func (d *DepthBuilder) Depth() common.Depth {
	var out common.Depth
	for i := range out {
		out[i] = common.Layer{BidPrice: common.Undefined(), AskPrice: common.Undefined()}
	}

	i := 0
	d.bids.Scan(func(item priceLevel) bool {
		if i >= common.MaxDepth {
			return false
		}
		out[i].BidPrice = item.price
		out[i].BidQuantity = item.qty
		i++
		return true
	})

	i = 0
	d.asks.Scan(func(item priceLevel) bool {
		if i >= common.MaxDepth {
			return false
		}
		out[i].AskPrice = item.price
		out[i].AskQuantity = item.qty
		i++
		return true
	})

	return out
}
