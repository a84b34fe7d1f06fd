package venue

import (
	"encoding/binary"
	"math"

	"github.com/google/uuid"
	"quotecore/internal/common"
	"quotecore/internal/orders"
)

// MessageType tags an outbound wire frame, mirroring the teacher's
// internal/net/messages.go MessageType enum.
type MessageType uint16

const (
	MessageCreateOrder MessageType = iota
	MessageModifyOrder
	MessageCancelOrder
)

// CreateOrderMsg is the outbound new-order wire message. Every order
// this engine sends is implicitly order_type=LIMIT, time_in_force=GTC
// per spec §4.6 — both are fixed, so neither needs a wire field.
type CreateOrderMsg struct {
	CorrelationID uuid.UUID
	Account       Account
	OrderID       orders.OrderID
	RoutingID     orders.RoutingID
	Exchange      string
	Symbol        string
	Side          common.Side
	Quantity      common.Volume
	Price         common.Price
}

// ModifyOrderMsg is the outbound modify wire message. Price/Quantity
// are the new values; OrderID/RoutingID identify the transaction.
type ModifyOrderMsg struct {
	CorrelationID uuid.UUID
	Account       Account
	OrderID       orders.OrderID
	RoutingID     orders.RoutingID
	Quantity      common.Volume
	Price         common.Price
}

// CancelOrderMsg is the outbound cancel wire message.
type CancelOrderMsg struct {
	CorrelationID uuid.UUID
	Account       Account
	OrderID       orders.OrderID
	RoutingID     orders.RoutingID
}

const createOrderHeaderLen = 2 + 16 + 4 + 1 + 8 + 8 + 8

// Encode serializes m into a length-prefixed binary frame:
// [type:2][correlation_id:16][order_id:4][side:1][routing_id:8]
// [quantity:8][price:8][account_len:1][exchange_len:1][symbol_len:1]
// [account][exchange][symbol].
func (m CreateOrderMsg) Encode() []byte {
	account, exchange, symbol := []byte(m.Account), []byte(m.Exchange), []byte(m.Symbol)
	buf := make([]byte, createOrderHeaderLen+3+len(account)+len(exchange)+len(symbol))

	binary.BigEndian.PutUint16(buf[0:2], uint16(MessageCreateOrder))
	copy(buf[2:18], m.CorrelationID[:])
	binary.BigEndian.PutUint32(buf[18:22], uint32(m.OrderID))
	buf[22] = byte(m.Side)
	binary.BigEndian.PutUint64(buf[23:31], uint64(m.RoutingID))
	binary.BigEndian.PutUint64(buf[31:39], math.Float64bits(m.Quantity))
	binary.BigEndian.PutUint64(buf[39:47], math.Float64bits(m.Price))
	buf[47] = byte(len(account))
	buf[48] = byte(len(exchange))
	buf[49] = byte(len(symbol))

	offset := createOrderHeaderLen + 3
	offset += copy(buf[offset:], account)
	offset += copy(buf[offset:], exchange)
	copy(buf[offset:], symbol)
	return buf
}

// Encode serializes m into a length-prefixed binary frame:
// [type:2][correlation_id:16][order_id:4][routing_id:8][quantity:8]
// [price:8][account_len:1][account].
func (m ModifyOrderMsg) Encode() []byte {
	account := []byte(m.Account)
	buf := make([]byte, 2+16+4+8+8+8+1+len(account))

	binary.BigEndian.PutUint16(buf[0:2], uint16(MessageModifyOrder))
	copy(buf[2:18], m.CorrelationID[:])
	binary.BigEndian.PutUint32(buf[18:22], uint32(m.OrderID))
	binary.BigEndian.PutUint64(buf[22:30], uint64(m.RoutingID))
	binary.BigEndian.PutUint64(buf[30:38], math.Float64bits(m.Quantity))
	binary.BigEndian.PutUint64(buf[38:46], math.Float64bits(m.Price))
	buf[46] = byte(len(account))
	copy(buf[47:], account)
	return buf
}

// Encode serializes m into a length-prefixed binary frame:
// [type:2][correlation_id:16][order_id:4][routing_id:8][account_len:1][account].
func (m CancelOrderMsg) Encode() []byte {
	account := []byte(m.Account)
	buf := make([]byte, 2+16+4+8+1+len(account))

	binary.BigEndian.PutUint16(buf[0:2], uint16(MessageCancelOrder))
	copy(buf[2:18], m.CorrelationID[:])
	binary.BigEndian.PutUint32(buf[18:22], uint32(m.OrderID))
	binary.BigEndian.PutUint64(buf[22:30], uint64(m.RoutingID))
	buf[30] = byte(len(account))
	copy(buf[31:], account)
	return buf
}
