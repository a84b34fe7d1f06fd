package instrument

import (
	"math"

	"quotecore/internal/common"
	"quotecore/internal/grid"
	"quotecore/internal/limits"
	"quotecore/internal/orders"
	"quotecore/internal/venue"
)

// Instrument is identified by (exchange, symbol, optional account) and
// owns everything the reconciliation core needs for one tradeable
// product: the public Depth, ReferenceData, Status, Position, readiness
// flags, and the two per-side GridOrders sharing one LimitOrdersMap.
// Grounded on original_source/src/roq/shared/instrument.h/.cpp.
type Instrument struct {
	ID      ID
	Symbol  venue.Symbol
	Account venue.Account

	flags common.Flags[Readiness]

	RefData ReferenceData
	Status  Status
	Depth   common.Depth
	depth   *DepthBuilder

	Position common.Volume

	// Limit is the per-instrument position clamp applied to a model's
	// desired quotes before they reach Bid/Ask.Modify (spec §7's
	// "position-limit violation during quote validation"). Defaults to
	// an unbounded range, matching the original's PositionLimit default.
	Limit limits.PositionLimit

	Bid *grid.GridOrder
	Ask *grid.GridOrder

	orders *orders.Map
}

// ID is the small integer key of the Instruments registry. Undefined
// is the reserved sentinel.
type ID uint32

const Undefined ID = 0

// New builds an Instrument in its initial (all-flags-clear) state. Its
// GridOrder books start with an undefined tick size and pick it up via
// SetTickSize once reference data arrives.
func New(id ID, symbol venue.Symbol, account venue.Account) *Instrument {
	om := orders.NewMap()
	inst := &Instrument{
		ID:       id,
		Symbol:   symbol,
		Account:  account,
		Position: 0,
		Limit:    limits.PositionLimit{Limit: limits.Range{Min: math.Inf(-1), Max: math.Inf(1)}},
		depth:    NewDepthBuilder(),
		orders:   om,
	}
	inst.Bid = grid.NewGridOrder(common.Buy, om, common.Undefined())
	inst.Ask = grid.NewGridOrder(common.Sell, om, common.Undefined())
	return inst
}

func (i *Instrument) Flags() common.Flags[Readiness] { return i.flags }

// IsReady implements spec §4.5's READY predicate.
func (i *Instrument) IsReady() bool {
	return i.flags.All(Connected) &&
		i.flags.None(Downloading) &&
		i.RefData.IsReady() &&
		i.Status.IsReady() &&
		i.flags.All(MarketData)
}

// Connected handles the Connected event.
func (i *Instrument) Connected() {
	i.flags.Set(Connected)
	i.recomputeReady()
}

// Disconnected handles the Disconnected event: clears CONNECTED and
// resets every piece of cached state (levels, orders, position).
func (i *Instrument) Disconnected() {
	i.flags.Clear(Connected)
	i.reset()
	i.recomputeReady()
}

// reset zeroes every level's counters on both sides, drops every
// live order record and zeroes Position, per spec §8 scenario 6 ("cross-kill via
// disconnect"): the book and the order map both go quiescent-empty,
// independent of whatever was in flight at the venue.
func (i *Instrument) reset() {
	i.Bid.Levels().ResetAll()
	i.Ask.Levels().ResetAll()
	i.orders.Clear()
	i.Position = 0
}

// DownloadBegin handles a non-account-scoped DownloadBegin.
func (i *Instrument) DownloadBegin() {
	i.flags.Set(Downloading)
	i.flags.Clear(Realtime)
	i.recomputeReady()
}

// DownloadEnd handles a non-account-scoped DownloadEnd.
func (i *Instrument) DownloadEnd() {
	i.flags.Clear(Downloading)
	i.flags.Set(Realtime)
	i.recomputeReady()
}

// GatewayStatus applies a capability advertisement. scopedToAccount
// tells the caller (the Strategy, which knows whether the event's
// Account field matched this instrument's) which readiness bit to
// recompute.
func (i *Instrument) GatewayStatus(available, unavailable venue.SupportSet, scopedToAccount bool) {
	if scopedToAccount {
		req := venue.TradingRequirement
		if available.Has(req) && unavailable.DisjointFrom(req) {
			i.flags.Set(Trading)
		} else {
			i.flags.Clear(Trading)
		}
	} else {
		req := venue.MarketDataRequirement
		if available.Has(req) && unavailable.DisjointFrom(req) {
			i.flags.Set(MarketData)
		} else {
			i.flags.Clear(MarketData)
		}
	}
	i.recomputeReady()
}

// ReferenceDataUpdate applies new tick_size/min_trade_vol/multiplier.
func (i *Instrument) ReferenceDataUpdate(tickSize, minTradeVol, multiplier common.Volume) {
	i.RefData = ReferenceData{TickSize: tickSize, MinTradeVol: minTradeVol, Multiplier: multiplier}
	if common.Compare(tickSize, 0) > 0 {
		if i.Bid.Levels().Empty() {
			i.Bid.Levels().SetTickSize(tickSize)
		}
		if i.Ask.Levels().Empty() {
			i.Ask.Levels().SetTickSize(tickSize)
		}
	}
	i.recomputeReady()
}

// MarketStatusUpdate applies a new trading_status enum value.
func (i *Instrument) MarketStatusUpdate(status venue.TradingStatus) {
	i.Status = Status{Trading: status}
	i.recomputeReady()
}

// MarketByPriceUpdate delegates to the depth builder, refreshes the
// public Depth snapshot, and enforces the crossed-book invariant.
func (i *Instrument) MarketByPriceUpdate(changes []venue.DepthChange) {
	for _, c := range changes {
		i.depth.Apply(c)
	}
	i.Depth = i.depth.Depth()
	common.Assert(!i.Depth.Crossed(), "instrument: crossed book detected")
	i.recomputeReady()
}

// PositionUpdate overrides Position while DOWNLOADING; during REALTIME
// the engine trusts its own fill-derived accounting and this is a
// no-op (spec §4.5's rationale: the venue position feed can lag).
func (i *Instrument) PositionUpdate(position common.Volume) {
	if i.flags.Test(Downloading) {
		i.Position = position
	}
}

// applyFill accumulates an OrderUpdate's traded_quantity into Position
// while REALTIME, per spec §4.5: "during REALTIME, the engine trusts
// its own position accounting derived from inbound fills on our
// orders." A buy fill increases position, a sell fill decreases it.
func (i *Instrument) applyFill(side common.Side, update orders.Update) {
	if !i.flags.Test(Realtime) || common.Compare(update.TradedQuantity, 0) == 0 {
		return
	}
	switch side {
	case common.Buy:
		i.Position += update.TradedQuantity
	case common.Sell:
		i.Position -= update.TradedQuantity
	}
}

// OrderUpdated forwards to the correct-side GridOrder by inspecting
// the live record (each record carries its own Side), accumulating any
// reported fill into Position first.
func (i *Instrument) OrderUpdated(update orders.Update) {
	if order, ok := i.orders.Get(update.ID); ok {
		i.applyFill(order.Side(), update)
		switch order.Side() {
		case common.Buy:
			i.Bid.OrderUpdated(update)
		case common.Sell:
			i.Ask.OrderUpdated(update)
		}
		return
	}
	// Unknown transaction id: already forgotten or foreign. Both
	// GridOrder.OrderUpdated paths drop these; routing either way is a
	// safe no-op, so default to Bid to exercise the shared lookup.
	i.Bid.OrderUpdated(update)
}

func (i *Instrument) recomputeReady() {
	if i.IsReady() {
		i.flags.Set(Ready)
	} else {
		i.flags.Clear(Ready)
	}
}

// Orders exposes the shared LimitOrdersMap for diagnostics and tests.
func (i *Instrument) Orders() *orders.Map { return i.orders }
