package orders

import "quotecore/internal/common"

// Context is the venue-I/O and id-allocation capability that
// LimitOrdersMap and GridOrder need to actually transmit transactions
// and mint transaction ids. A Strategy implements this (see
// internal/strategy) by translating into wire messages; tests use a
// fake that just records calls.
type Context interface {
	// CreateOrder is invoked once a buffered create is flushed.
	CreateOrder(id OrderTxID, order LimitOrder)
	// ModifyOrder is invoked once a buffered modify is flushed.
	ModifyOrder(id OrderTxID, order LimitOrder)
	// CancelOrder is invoked immediately by Map.CancelOrder.
	CancelOrder(id OrderTxID, order LimitOrder)
	// NextOrderTxID mints a transaction id for a brand new order
	// lineage (a fresh OrderID and RoutingID).
	NextOrderTxID() OrderTxID
	// NextOrderTxIDSameOrder mints a transaction id for a modify that
	// keeps orderID but needs a fresh RoutingID.
	NextOrderTxIDSameOrder(orderID OrderID) OrderTxID
}

type pendingEntry struct {
	id    OrderTxID
	order LimitOrder
}

// Map is a keyed store of LimitOrder records plus a FIFO buffer of
// authored-but-not-yet-placed entries (LimitOrdersMap in the spec).
//
// The buffer exists so that GridOrder.Execute can scan the map while
// scheduling new modifies/creates without invalidating its own
// traversal: entries are appended to pending and only inserted into
// the map proper once flushed, after the scan completes.
type Map struct {
	records map[OrderTxID]LimitOrder
	pending []pendingEntry
}

func NewMap() *Map {
	return &Map{records: make(map[OrderTxID]LimitOrder)}
}

func (m *Map) Get(id OrderTxID) (LimitOrder, bool) {
	o, ok := m.records[id]
	return o, ok
}

func (m *Map) Set(id OrderTxID, order LimitOrder) {
	m.records[id] = order
}

func (m *Map) Delete(id OrderTxID) {
	delete(m.records, id)
}

func (m *Map) Len() int { return len(m.records) }

// Clear drops every record and pending entry, used by Instrument's
// hard reset on disconnect.
func (m *Map) Clear() {
	m.records = make(map[OrderTxID]LimitOrder)
	m.pending = nil
}

// Range calls fn for every (id, order) pair currently in the map. It
// does not observe entries still sitting in the pending buffer.
func (m *Map) Range(fn func(id OrderTxID, order LimitOrder)) {
	for id, order := range m.records {
		fn(id, order)
	}
}

// CreateOrder queues a new-order authoring request; it is not sent
// until FlushOrders drains the buffer.
func (m *Map) CreateOrder(id OrderTxID, order LimitOrder) {
	order.Flags.Set(PendingNew)
	m.pending = append(m.pending, pendingEntry{id, order})
}

// ModifyOrder queues a modify authoring request; it is not sent until
// FlushOrders drains the buffer.
func (m *Map) ModifyOrder(id OrderTxID, order LimitOrder) {
	order.Flags.Set(PendingModify)
	m.pending = append(m.pending, pendingEntry{id, order})
}

// CancelOrder marks the existing record PendingCancel and emits the
// cancel immediately — cancels are not buffered, they race nothing.
func (m *Map) CancelOrder(id OrderTxID, ctx Context) {
	order := m.records[id]
	order.Flags.Set(PendingCancel)
	m.records[id] = order
	ctx.CancelOrder(id, order)
}

// FlushOrders drains the pending buffer in FIFO order, turning each
// authored entry into a live map record and an outbound transaction.
func (m *Map) FlushOrders(ctx Context) {
	for len(m.pending) > 0 {
		entry := m.pending[0]
		m.pending = m.pending[1:]
		if entry.order.Flags.Test(PendingModify) {
			m.doModify(entry.id, entry.order, ctx)
		} else {
			m.doCreate(entry.id, entry.order, ctx)
		}
	}
}

func (m *Map) doCreate(id OrderTxID, order LimitOrder, ctx Context) {
	order.Flags = common.NewFlags(PendingNew)
	m.records[id] = order
	ctx.CreateOrder(id, order)
}

func (m *Map) doModify(id OrderTxID, newOrder LimitOrder, ctx Context) {
	existing := m.records[id]
	existing.Flags.Set(PendingCancel)
	m.records[id] = existing

	newID := ctx.NextOrderTxIDSameOrder(id.OrderID)
	modified := newOrder
	modified.Flags = common.NewFlags(PendingModify)
	modified.SetPrevRoutingID(id.RoutingID)
	m.records[newID] = modified
	ctx.ModifyOrder(newID, modified)
}
