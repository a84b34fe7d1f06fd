package grid

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"quotecore/internal/common"
	"quotecore/internal/orders"
)

// fakeContext is an orders.Context fake that records every authored
// transaction instead of touching a wire. Tests drive GridOrder's
// callbacks directly off these recordings.
type fakeContext struct {
	nextOrder   orders.OrderID
	nextRouting orders.RoutingID

	creates  []recordedTx
	modifies []recordedTx
	cancels  []recordedTx
}

type recordedTx struct {
	ID    orders.OrderTxID
	Order orders.LimitOrder
}

func newFakeContext() *fakeContext { return &fakeContext{} }

func (c *fakeContext) CreateOrder(id orders.OrderTxID, order orders.LimitOrder) {
	c.creates = append(c.creates, recordedTx{id, order})
}

func (c *fakeContext) ModifyOrder(id orders.OrderTxID, order orders.LimitOrder) {
	c.modifies = append(c.modifies, recordedTx{id, order})
}

func (c *fakeContext) CancelOrder(id orders.OrderTxID, order orders.LimitOrder) {
	c.cancels = append(c.cancels, recordedTx{id, order})
}

func (c *fakeContext) NextOrderTxID() orders.OrderTxID {
	c.nextOrder++
	c.nextRouting++
	return orders.OrderTxID{OrderID: c.nextOrder, RoutingID: c.nextRouting}
}

func (c *fakeContext) NextOrderTxIDSameOrder(orderID orders.OrderID) orders.OrderTxID {
	c.nextRouting++
	return orders.OrderTxID{OrderID: orderID, RoutingID: c.nextRouting}
}

func newTestGridOrder(side common.Side) (*GridOrder, *orders.Map) {
	m := orders.NewMap()
	return NewGridOrder(side, m, 1.0), m
}

// workAll drives every buffered create/modify through to StatusWorking,
// as if the venue acknowledged each immediately. It assumes no two
// entries share an OrderTxID with a pending companion, which holds for
// a freshly flushed batch.
func workAll(t *testing.T, g *GridOrder, ctx *fakeContext, qty common.Volume) {
	t.Helper()
	for _, tx := range ctx.creates {
		g.OrderUpdated(orders.Update{ID: tx.ID, Status: orders.StatusWorking, RemainingQuantity: qty})
	}
	for _, tx := range ctx.modifies {
		g.OrderUpdated(orders.Update{ID: tx.ID, Status: orders.StatusWorking, RemainingQuantity: qty})
	}
}

func TestGridOrderSingleBidCreate(t *testing.T) {
	g, m := newTestGridOrder(common.Buy)
	g.Modify([]common.Quote{{Side: common.Buy, Price: 100, Quantity: 10}})

	ctx := newFakeContext()
	g.Execute(ctx)

	require.Len(t, ctx.creates, 1)
	require.Empty(t, ctx.modifies)
	require.Empty(t, ctx.cancels)

	tx := ctx.creates[0]
	assert.Equal(t, orders.OrderTxID{OrderID: 1, RoutingID: 1}, tx.ID)
	assert.Equal(t, 100.0, tx.Order.Price())
	assert.Equal(t, 10.0, tx.Order.Quantity())
	assert.True(t, tx.Order.Flags.Test(orders.PendingNew))

	level := g.levels.GetOrCreate(100)
	assert.Equal(t, 10.0, level.PendingVolume)
	assert.Equal(t, 0.0, level.WorkingVolume)

	g.OrderUpdated(orders.Update{ID: tx.ID, Status: orders.StatusWorking, RemainingQuantity: 10})

	level = g.levels.GetOrCreate(100)
	assert.Equal(t, 0.0, level.PendingVolume)
	assert.Equal(t, 10.0, level.WorkingVolume)
	order, ok := m.Get(tx.ID)
	require.True(t, ok)
	assert.True(t, order.Flags.Test(orders.Working))
}

func TestGridOrderSingleBidMoveDown(t *testing.T) {
	g, m := newTestGridOrder(common.Buy)
	g.Modify([]common.Quote{{Side: common.Buy, Price: 100, Quantity: 10}})
	ctx := newFakeContext()
	g.Execute(ctx)
	original := ctx.creates[0]
	g.OrderUpdated(orders.Update{ID: original.ID, Status: orders.StatusWorking, RemainingQuantity: 10})

	// Move the single rung down a tick.
	g.Modify([]common.Quote{{Side: common.Buy, Price: 99, Quantity: 10}})
	ctx2 := &fakeContext{nextOrder: ctx.nextOrder, nextRouting: ctx.nextRouting}
	g.Execute(ctx2)

	require.Empty(t, ctx2.creates)
	require.Empty(t, ctx2.cancels)
	require.Len(t, ctx2.modifies, 1)

	modify := ctx2.modifies[0]
	assert.Equal(t, original.ID.OrderID, modify.ID.OrderID)
	assert.Equal(t, orders.RoutingID(2), modify.ID.RoutingID)
	assert.Equal(t, 99.0, modify.Order.Price())
	assert.True(t, modify.Order.HasPrevRoutingID())
	assert.Equal(t, original.ID.RoutingID, modify.Order.PrevRoutingID)

	// The old record is still in the map, now Working|PendingCancel,
	// until the venue confirms the new one is working.
	oldRecord, ok := m.Get(original.ID)
	require.True(t, ok)
	assert.True(t, oldRecord.Flags.All(orders.Working|orders.PendingCancel))

	g.OrderUpdated(orders.Update{ID: modify.ID, Status: orders.StatusWorking, RemainingQuantity: 10})

	_, stillThere := m.Get(original.ID)
	assert.False(t, stillThere, "superseded companion record should be deleted once the modify is confirmed working")

	newRecord, ok := m.Get(modify.ID)
	require.True(t, ok)
	assert.True(t, newRecord.Flags.Test(orders.Working))

	assert.True(t, g.levels.GetOrCreate(100).Empty(), "vacated level should have shrunk away")
	level99 := g.levels.GetOrCreate(99)
	assert.Equal(t, 10.0, level99.WorkingVolume)
	assert.Equal(t, 0.0, level99.PendingVolume)
	assert.Equal(t, 0.0, level99.CancelingVolume)
}

// TestGridOrderThreeRungShift overlaps two of three rungs: only the
// vacated bottom and the newly desired top actually move.
func TestGridOrderThreeRungShift(t *testing.T) {
	g, _ := newTestGridOrder(common.Buy)
	g.Modify([]common.Quote{
		{Side: common.Buy, Price: 100, Quantity: 10},
		{Side: common.Buy, Price: 99, Quantity: 10},
		{Side: common.Buy, Price: 98, Quantity: 10},
	})
	ctx := newFakeContext()
	g.Execute(ctx)
	require.Len(t, ctx.creates, 3)
	workAll(t, g, ctx, 10)

	// Shift the whole ladder up one tick: 99 and 100 remain desired,
	// only 98 needs to vacate and 101 needs to be filled.
	g.Modify([]common.Quote{
		{Side: common.Buy, Price: 101, Quantity: 10},
		{Side: common.Buy, Price: 100, Quantity: 10},
		{Side: common.Buy, Price: 99, Quantity: 10},
	})
	ctx2 := newFakeContext()
	g.Execute(ctx2)

	require.Empty(t, ctx2.creates, "101 is filled by relocating 98's order, not a fresh create")
	require.Empty(t, ctx2.cancels)
	require.Len(t, ctx2.modifies, 1)
	assert.Equal(t, 101.0, ctx2.modifies[0].Order.Price())

	workAll(t, g, ctx2, 10)

	assert.True(t, g.levels.GetOrCreate(98).Empty())
	assert.Equal(t, 10.0, g.levels.GetOrCreate(101).WorkingVolume)
	assert.Equal(t, 10.0, g.levels.GetOrCreate(100).WorkingVolume)
	assert.Equal(t, 10.0, g.levels.GetOrCreate(99).WorkingVolume)
}

// TestGridOrderThreeRungJump moves the ladder to entirely disjoint
// prices. The reconciler still prefers relocation over cancel+create
// for every rung since the vacated orders have somewhere to land.
func TestGridOrderThreeRungJump(t *testing.T) {
	g, _ := newTestGridOrder(common.Buy)
	g.Modify([]common.Quote{
		{Side: common.Buy, Price: 100, Quantity: 10},
		{Side: common.Buy, Price: 99, Quantity: 10},
		{Side: common.Buy, Price: 98, Quantity: 10},
	})
	ctx := newFakeContext()
	g.Execute(ctx)
	workAll(t, g, ctx, 10)

	g.Modify([]common.Quote{
		{Side: common.Buy, Price: 90, Quantity: 10},
		{Side: common.Buy, Price: 89, Quantity: 10},
		{Side: common.Buy, Price: 88, Quantity: 10},
	})
	ctx2 := &fakeContext{nextOrder: ctx.nextOrder, nextRouting: ctx.nextRouting}
	g.Execute(ctx2)

	assert.Empty(t, ctx2.creates)
	assert.Empty(t, ctx2.cancels)
	assert.Len(t, ctx2.modifies, 3)

	workAll(t, g, ctx2, 10)

	for _, price := range []common.Price{100, 99, 98, 97, 96, 95, 94, 93, 92, 91} {
		assert.Truef(t, g.levels.GetOrCreate(price).Empty(), "price %v should have shrunk away", price)
	}
	assert.Equal(t, 10.0, g.levels.GetOrCreate(90).WorkingVolume)
	assert.Equal(t, 10.0, g.levels.GetOrCreate(89).WorkingVolume)
	assert.Equal(t, 10.0, g.levels.GetOrCreate(88).WorkingVolume)
}

func TestGridOrderRejectRestoresCompanion(t *testing.T) {
	g, m := newTestGridOrder(common.Buy)
	g.Modify([]common.Quote{{Side: common.Buy, Price: 100, Quantity: 10}})
	ctx := newFakeContext()
	g.Execute(ctx)
	original := ctx.creates[0]
	g.OrderUpdated(orders.Update{ID: original.ID, Status: orders.StatusWorking, RemainingQuantity: 10})

	g.Modify([]common.Quote{{Side: common.Buy, Price: 99, Quantity: 10}})
	ctx2 := &fakeContext{nextOrder: ctx.nextOrder, nextRouting: ctx.nextRouting}
	g.Execute(ctx2)
	modify := ctx2.modifies[0]

	// The venue rejects the modify instead of confirming it.
	g.OrderUpdated(orders.Update{ID: modify.ID, Status: orders.StatusRejected, RemainingQuantity: 0})

	rejected, ok := m.Get(modify.ID)
	require.True(t, ok)
	assert.True(t, rejected.IsEmpty(), "rejected record is reset to empty")

	companion, ok := m.Get(original.ID)
	require.True(t, ok)
	assert.True(t, companion.Flags.Test(orders.Working))
	assert.False(t, companion.Flags.Test(orders.PendingCancel), "rejection restores the companion to plain Working")

	level100 := g.levels.GetOrCreate(100)
	assert.Equal(t, 10.0, level100.WorkingVolume)
	assert.Equal(t, 0.0, level100.CancelingVolume)
}

func TestGridOrderCreateRejectedClearsPending(t *testing.T) {
	g, m := newTestGridOrder(common.Buy)
	g.Modify([]common.Quote{{Side: common.Buy, Price: 100, Quantity: 10}})
	ctx := newFakeContext()
	g.Execute(ctx)
	tx := ctx.creates[0]

	g.OrderUpdated(orders.Update{ID: tx.ID, Status: orders.StatusRejected, RemainingQuantity: 0})

	level := g.levels.GetOrCreate(100)
	assert.Equal(t, 0.0, level.PendingVolume)

	record, ok := m.Get(tx.ID)
	require.True(t, ok)
	assert.True(t, record.IsEmpty())
}

// TestGridOrderCanceledRestoresWorkingVolume covers an order canceled
// after a partial fill, where the venue's final remaining_quantity is
// less than the order's original quantity. working_volume must be
// decremented by the reported remaining, not the original size.
func TestGridOrderCanceledRestoresWorkingVolume(t *testing.T) {
	g, m := newTestGridOrder(common.Buy)
	g.Modify([]common.Quote{{Side: common.Buy, Price: 100, Quantity: 10}})
	ctx := newFakeContext()
	g.Execute(ctx)
	tx := ctx.creates[0]
	g.OrderUpdated(orders.Update{ID: tx.ID, Status: orders.StatusWorking, RemainingQuantity: 10})

	// Pull the desired quantity down to zero so Execute buffers a cancel.
	g.Modify(nil)
	ctx2 := newFakeContext()
	g.Execute(ctx2)
	require.Len(t, ctx2.cancels, 1)

	// The venue confirms the cancel, but reports only 4 still
	// remaining — the other 6 filled before the cancel took effect.
	g.OrderUpdated(orders.Update{ID: tx.ID, Status: orders.StatusCanceled, RemainingQuantity: 4})

	level := g.levels.GetOrCreate(100)
	assert.Equal(t, 6.0, level.WorkingVolume, "working_volume must drop by remaining_quantity, not the order's original quantity")
	assert.Equal(t, 0.0, level.CancelingVolume)

	_, stillThere := m.Get(tx.ID)
	assert.False(t, stillThere, "canceled order record is removed")
}

// TestGridOrderCompletedRestoresWorkingVolume is the COMPLETED analogue
// of the CANCELED case above.
func TestGridOrderCompletedRestoresWorkingVolume(t *testing.T) {
	g, m := newTestGridOrder(common.Buy)
	g.Modify([]common.Quote{{Side: common.Buy, Price: 100, Quantity: 10}})
	ctx := newFakeContext()
	g.Execute(ctx)
	tx := ctx.creates[0]
	g.OrderUpdated(orders.Update{ID: tx.ID, Status: orders.StatusWorking, RemainingQuantity: 10})

	g.OrderUpdated(orders.Update{ID: tx.ID, Status: orders.StatusCompleted, RemainingQuantity: 2})

	level := g.levels.GetOrCreate(100)
	assert.Equal(t, 8.0, level.WorkingVolume, "working_volume must drop by remaining_quantity, not the order's original quantity")

	record, ok := m.Get(tx.ID)
	require.True(t, ok)
	assert.True(t, record.IsEmpty(), "completed record is reset to empty, not deleted")
}

// TestGridOrderDisconnectReset covers GridOrder.Reset: it zeroes desired
// volumes but leaves working/pending counters alone, so the next
// Execute cancels whatever was live. (Instrument.Disconnected does not
// use Reset; it clears every counter through Levels.ResetAll.)
func TestGridOrderDisconnectReset(t *testing.T) {
	g, _ := newTestGridOrder(common.Buy)
	g.Modify([]common.Quote{{Side: common.Buy, Price: 100, Quantity: 10}})
	ctx := newFakeContext()
	g.Execute(ctx)
	workAll(t, g, ctx, 10)

	g.Reset()
	assert.Equal(t, 10.0, g.levels.GetOrCreate(100).WorkingVolume, "Reset does not touch working volume")
	assert.Equal(t, 0.0, g.levels.GetOrCreate(100).DesiredVolume)

	ctx2 := newFakeContext()
	g.Execute(ctx2)
	require.Len(t, ctx2.cancels, 1)
	assert.Equal(t, 100.0, ctx2.cancels[0].Order.Price())
}

func TestGridOrderModifyRejectsWrongSideQuote(t *testing.T) {
	g, _ := newTestGridOrder(common.Buy)
	assert.Panics(t, func() {
		g.Modify([]common.Quote{{Side: common.Sell, Price: 100, Quantity: 10}})
	})
}
