package grid

import (
	"github.com/rs/zerolog/log"

	"quotecore/internal/common"
	"quotecore/internal/orders"
)

// GridOrder reconciles a desired quote ladder against the live order
// population on one side of one instrument. It owns the Levels book and
// shares a LimitOrdersMap with the other side's GridOrder (both sides of
// an instrument post through the same venue connection and the same
// OrderTxID space). Grounded on
// original_source/src/roq/shared/grid_order.h/.inl.
type GridOrder struct {
	side   common.Side
	levels *Levels
	orders *orders.Map
}

// NewGridOrder builds a GridOrder for side, backed by orderMap (shared
// with the opposite side) and a fresh Levels book at tickSize.
func NewGridOrder(side common.Side, orderMap *orders.Map, tickSize common.Price) *GridOrder {
	return &GridOrder{
		side:   side,
		levels: NewLevels(common.DirOf(side), tickSize),
		orders: orderMap,
	}
}

func (g *GridOrder) Side() common.Side { return g.side }

// Levels exposes the book read-only-in-spirit (tests and the strategy's
// diagnostics may inspect it; only GridOrder itself should mutate it).
func (g *GridOrder) Levels() *Levels { return g.levels }

// Modify replaces the desired ladder: every level's desired_volume is
// zeroed, then each quote's level (created if necessary) is set to the
// quote's quantity. Quotes for the wrong side are a fatal caller error.
func (g *GridOrder) Modify(quotes []common.Quote) {
	for i := range g.levels.data {
		g.levels.data[i].DesiredVolume = 0
	}
	for _, q := range quotes {
		if q.Empty() {
			continue
		}
		common.Assert(q.Side == g.side, "grid: Modify quote side does not match GridOrder side")
		level := g.levels.GetOrCreate(q.Price)
		level.DesiredVolume = q.Quantity
	}
}

// Reset zeroes every level's desired_volume without touching the
// working/pending/canceling counters, so the next Execute diffs against
// the orders still actually live at the venue and drains them. No
// caller in this repository invokes it; Instrument's disconnect reset
// clears every counter through Levels.ResetAll instead.
func (g *GridOrder) Reset() {
	for i := range g.levels.data {
		g.levels.data[i].DesiredVolume = 0
	}
}

// Execute reconciles desired volumes against live orders: a first pass
// cancels or relocates excess, a second pass creates to fill shortage,
// then the authored transactions are flushed to ctx. Two-pass order
// matters — pass 1 must free capacity before pass 2 decides how much
// headroom each level actually has.
func (g *GridOrder) Execute(ctx orders.Context) {
	g.reconcileExcess(ctx)
	g.fillShortage(ctx)
	g.orders.FlushOrders(ctx)
}

func (g *GridOrder) reconcileExcess(ctx orders.Context) {
	g.orders.Range(func(id orders.OrderTxID, order orders.LimitOrder) {
		if order.Side() != g.side || order.IsPending() {
			return
		}
		level := g.levels.GetOrCreate(order.Price())
		if common.Compare(level.ExpectedVolume(), level.DesiredVolume) <= 0 {
			return
		}
		if g.relocate(id, order, level) {
			return
		}
		level.CancelingVolume += order.Quantity()
		g.orders.CancelOrder(id, ctx)
	})
}

// relocate looks for a destination level, top to bottom, with enough
// free room to absorb order without exceeding its desired volume, and
// if found buffers a modify onto it. Reports whether it found one.
func (g *GridOrder) relocate(id orders.OrderTxID, order orders.LimitOrder, source *Level) bool {
	for _, dest := range g.levels.All() {
		if dest.Price == source.Price {
			continue
		}
		if common.Compare(dest.ExpectedVolume()+order.Quantity(), dest.DesiredVolume) > 0 {
			continue
		}
		dest.PendingVolume += order.Quantity()
		source.CancelingVolume += order.Quantity()
		quote := common.Quote{Side: g.side, Price: dest.Price, Quantity: order.Quantity()}
		g.orders.ModifyOrder(id, orders.NewLimitOrder(quote, orders.Empty))
		return true
	}
	return false
}

// fillShortage walks the book top to bottom and authors a create for
// whatever desired volume pass 1 left unfilled at each level.
func (g *GridOrder) fillShortage(ctx orders.Context) {
	for _, level := range g.levels.All() {
		free := common.Compare(level.ExpectedVolume(), level.DesiredVolume)
		if free >= 0 {
			continue
		}
		qty := level.DesiredVolume - level.ExpectedVolume()
		level.PendingVolume += qty
		quote := common.Quote{Side: g.side, Price: level.Price, Quantity: qty}
		g.orders.CreateOrder(ctx.NextOrderTxID(), orders.NewLimitOrder(quote, orders.Empty))
	}
}

// OrderUpdated applies a venue status report to the matching record and
// its level counters. Unknown ids are dropped with a warning — a venue
// is allowed to redeliver a report for a transaction we've already
// forgotten (e.g. after COMPLETED garbage collection).
func (g *GridOrder) OrderUpdated(update orders.Update) {
	order, ok := g.orders.Get(update.ID)
	if !ok {
		log.Warn().
			Uint32("order_id", uint32(update.ID.OrderID)).
			Uint64("routing_id", uint64(update.ID.RoutingID)).
			Msg("grid: order update for unknown transaction, dropped")
		return
	}
	if order.Side() != g.side {
		return
	}

	switch update.Status {
	case orders.StatusWorking:
		g.orderWorking(update.ID, order, update)
	case orders.StatusCompleted:
		g.orderCompleted(update.ID, order, update)
	case orders.StatusCanceled:
		g.orderCanceled(update.ID, order, update)
	case orders.StatusRejected:
		g.orderRejected(update.ID, order)
	case orders.StatusSent, orders.StatusAccepted:
		// Observational only — no state transition.
	default:
		common.Assert(false, "grid: order update with undefined status")
	}
}

func (g *GridOrder) orderWorking(id orders.OrderTxID, order orders.LimitOrder, update orders.Update) {
	switch {
	case order.Flags.Test(orders.PendingNew):
		level := g.levels.GetOrCreate(order.Price())
		level.PendingVolume -= update.RemainingQuantity
		order.Flags.Clear(orders.PendingNew)
		order.Flags.Set(orders.Working)
		level.WorkingVolume += update.RemainingQuantity
		g.orders.Set(id, order)

	case order.Flags.Test(orders.PendingModify):
		level := g.levels.GetOrCreate(order.Price())
		level.PendingVolume -= update.RemainingQuantity
		order.Flags.Clear(orders.PendingModify)
		order.Flags.Set(orders.Working)
		level.WorkingVolume += update.RemainingQuantity
		g.orders.Set(id, order)

		common.Assert(order.HasPrevRoutingID(), "grid: modify working without a companion routing id")
		companionID := orders.OrderTxID{OrderID: id.OrderID, RoutingID: order.PrevRoutingID}
		companion, ok := g.orders.Get(companionID)
		common.Assert(ok, "grid: modify working without a live companion record")
		common.Assert(companion.Flags.All(orders.PendingCancel|orders.Working), "grid: companion record not in PendingCancel|Working")

		companionLevel := g.levels.GetOrCreate(companion.Price())
		companionLevel.CancelingVolume -= companion.Quantity()
		companionLevel.WorkingVolume -= companion.Quantity()
		g.orders.Delete(companionID)
		g.levels.Shrink()

	default:
		// Already Working (or already finalized): a duplicate
		// redelivery, idempotently ignored.
	}
}

func (g *GridOrder) orderCompleted(id orders.OrderTxID, order orders.LimitOrder, update orders.Update) {
	if order.IsEmpty() {
		return
	}
	level := g.levels.GetOrCreate(order.Price())
	if order.Flags.Test(orders.Working) {
		level.WorkingVolume -= update.RemainingQuantity
	} else {
		level.PendingVolume -= order.Quantity()
	}
	order.Reset()
	g.orders.Set(id, order)
	g.levels.Shrink()
}

func (g *GridOrder) orderCanceled(id orders.OrderTxID, order orders.LimitOrder, update orders.Update) {
	if order.IsEmpty() {
		return
	}
	level := g.levels.GetOrCreate(order.Price())
	switch {
	case order.Flags.Test(orders.PendingCancel) && order.Flags.Test(orders.Working):
		level.CancelingVolume -= order.Quantity()
		level.WorkingVolume -= update.RemainingQuantity
	case order.Flags.Test(orders.Working):
		level.WorkingVolume -= update.RemainingQuantity
	default:
		level.PendingVolume -= order.Quantity()
	}
	g.orders.Delete(id)
	g.levels.Shrink()
}

func (g *GridOrder) orderRejected(id orders.OrderTxID, order orders.LimitOrder) {
	if order.IsEmpty() {
		return
	}
	level := g.levels.GetOrCreate(order.Price())
	if order.Flags.Test(orders.Working) {
		level.WorkingVolume -= order.Quantity()
	} else {
		level.PendingVolume -= order.Quantity()
	}

	if order.HasPrevRoutingID() {
		// A rejected modify restores the companion to plain Working,
		// including the level's CancelingVolume the modify had staged.
		companionID := orders.OrderTxID{OrderID: id.OrderID, RoutingID: order.PrevRoutingID}
		if companion, ok := g.orders.Get(companionID); ok {
			companion.Flags.Clear(orders.PendingCancel)
			g.orders.Set(companionID, companion)
			companionLevel := g.levels.GetOrCreate(companion.Price())
			companionLevel.CancelingVolume -= companion.Quantity()
		}
	}

	order.Reset()
	g.orders.Set(id, order)
	g.levels.Shrink()
}
