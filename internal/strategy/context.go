package strategy

import (
	"github.com/google/uuid"

	"quotecore/internal/instrument"
	"quotecore/internal/orders"
	"quotecore/internal/venue"
)

// instrumentContext implements orders.Context for one Instrument,
// translating internal LimitOrder records into venue wire messages and
// minting OrderTxIDs from the Strategy's shared id counters. Spec
// §4.6: "the Strategy provides the context passed into LimitOrdersMap."
type instrumentContext struct {
	s    *Strategy
	inst *instrument.Instrument
}

func (c instrumentContext) CreateOrder(id orders.OrderTxID, order orders.LimitOrder) {
	c.s.txidOwner[id] = c.inst.ID
	msg := venue.CreateOrderMsg{
		CorrelationID: uuid.New(),
		Account:       c.inst.Account,
		OrderID:       id.OrderID,
		RoutingID:     id.RoutingID,
		Exchange:      c.inst.Symbol.Exchange,
		Symbol:        c.inst.Symbol.Symbol,
		Side:          order.Side(),
		Quantity:      order.Quantity(),
		Price:         order.Price(),
	}
	c.s.dispatcher.Send(msg.Encode())
}

func (c instrumentContext) ModifyOrder(id orders.OrderTxID, order orders.LimitOrder) {
	c.s.txidOwner[id] = c.inst.ID
	msg := venue.ModifyOrderMsg{
		CorrelationID: uuid.New(),
		Account:       c.inst.Account,
		OrderID:       id.OrderID,
		RoutingID:     id.RoutingID,
		Quantity:      order.Quantity(),
		Price:         order.Price(),
	}
	c.s.dispatcher.Send(msg.Encode())
}

func (c instrumentContext) CancelOrder(id orders.OrderTxID, order orders.LimitOrder) {
	msg := venue.CancelOrderMsg{
		CorrelationID: uuid.New(),
		Account:       c.inst.Account,
		OrderID:       id.OrderID,
		RoutingID:     id.RoutingID,
	}
	c.s.dispatcher.Send(msg.Encode())
}

func (c instrumentContext) NextOrderTxID() orders.OrderTxID {
	c.s.nextOrderID++
	c.s.nextRoutingID++
	return orders.OrderTxID{OrderID: c.s.nextOrderID, RoutingID: c.s.nextRoutingID}
}

func (c instrumentContext) NextOrderTxIDSameOrder(orderID orders.OrderID) orders.OrderTxID {
	c.s.nextRoutingID++
	return orders.OrderTxID{OrderID: orderID, RoutingID: c.s.nextRoutingID}
}
