package orders

import "quotecore/internal/common"

// Flag is the lifecycle bitmask over a LimitOrder, mirroring
// roq::shared::Order::flags_t.
type Flag uint32

const (
	Empty         Flag = 0
	Working       Flag = 1 << 0
	PendingNew    Flag = 1 << 1
	PendingCancel Flag = 1 << 2
	PendingModify Flag = 1 << 3
)

// LimitOrder is a Quote plus its lifecycle flags plus, for a record
// created by a modify, the RoutingID of the order it supersedes.
//
// Invariants (spec §3):
//   - PendingNew and PendingModify are mutually exclusive.
//   - Working may coexist with PendingCancel.
//   - A record with flags == Empty is garbage and must be removed.
//   - Every PendingModify record has a companion record under
//     (OrderID, PrevRoutingID) in Working|PendingCancel.
type LimitOrder struct {
	Quote          common.Quote
	Flags          common.Flags[Flag]
	PrevRoutingID  RoutingID
	hasPrevRouting bool
}

// NewLimitOrder builds a LimitOrder carrying quote with the given
// initial flags (normally PendingNew or PendingModify).
func NewLimitOrder(quote common.Quote, flags Flag) LimitOrder {
	return LimitOrder{Quote: quote, Flags: common.NewFlags(flags)}
}

func (o LimitOrder) Price() common.Price    { return o.Quote.Price }
func (o LimitOrder) Quantity() common.Volume { return o.Quote.Quantity }
func (o LimitOrder) Side() common.Side      { return o.Quote.Side }

// IsPending reports whether the order is an unconfirmed create or modify.
func (o LimitOrder) IsPending() bool { return o.Flags.Any(PendingNew | PendingModify) }

// IsPendingCancel reports whether PendingCancel is set.
func (o LimitOrder) IsPendingCancel() bool { return o.Flags.Test(PendingCancel) }

// IsWorking reports whether Working is set.
func (o LimitOrder) IsWorking() bool { return o.Flags.Test(Working) }

// IsEmpty reports whether the record carries no flags at all — it is
// garbage and the next opportunity should erase it from the map.
func (o LimitOrder) IsEmpty() bool { return o.Flags.Raw() == Empty }

// Reset returns the order to the Empty state with a zeroed quote.
func (o *LimitOrder) Reset() {
	o.Flags = common.Flags[Flag]{}
	o.Quote = o.Quote.Reset()
	o.hasPrevRouting = false
}

// SetPrevRoutingID records the routing id of the order this record
// supersedes (used only on PendingModify records).
func (o *LimitOrder) SetPrevRoutingID(id RoutingID) {
	o.PrevRoutingID = id
	o.hasPrevRouting = true
}

// HasPrevRoutingID reports whether SetPrevRoutingID was ever called.
func (o LimitOrder) HasPrevRoutingID() bool { return o.hasPrevRouting }
