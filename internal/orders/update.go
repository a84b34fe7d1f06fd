package orders

import "quotecore/internal/common"

// Status is the venue's report on a single transaction, the inbound
// counterpart to the outbound create/modify/cancel. Mirrors the status
// field the original order_update carries.
type Status int

const (
	StatusUndefined Status = iota
	StatusSent
	StatusAccepted
	StatusWorking
	StatusCompleted
	StatusCanceled
	StatusRejected
)

func (s Status) String() string {
	switch s {
	case StatusSent:
		return "SENT"
	case StatusAccepted:
		return "ACCEPTED"
	case StatusWorking:
		return "WORKING"
	case StatusCompleted:
		return "COMPLETED"
	case StatusCanceled:
		return "CANCELED"
	case StatusRejected:
		return "REJECTED"
	default:
		return "UNDEFINED"
	}
}

// Update is one inbound order-status report from the venue, keyed to a
// transaction by OrderTxID. TradedQuantity is the quantity filled by
// this particular report (spec §6's OrderUpdate.traded_quantity), zero
// for reports that carry no fill.
type Update struct {
	ID                OrderTxID
	Status            Status
	RemainingQuantity common.Volume
	TradedQuantity    common.Volume
}
