// Package orders holds the per-instrument transaction ledger: LimitOrder
// records, their lifecycle flags, and the LimitOrdersMap that buffers
// and flushes venue-bound create/modify/cancel transactions.
package orders

// OrderID identifies an order's lineage: a modify keeps the same
// OrderID, only the RoutingID changes.
type OrderID uint32

// RoutingID uniquely labels a single transaction against the venue:
// every create and every modify is assigned a fresh one.
type RoutingID uint64

// UndefinedOrderID is the reserved "no order" sentinel.
const UndefinedOrderID OrderID = 0

// OrderTxID is the (order_id, routing_id) pair identifying one venue
// transaction. It is comparable, so it works directly as a Go map key.
type OrderTxID struct {
	OrderID   OrderID
	RoutingID RoutingID
}
