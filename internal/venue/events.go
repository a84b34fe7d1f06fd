// Package venue defines the inbound event kinds and outbound wire
// messages that connect the core (internal/grid, internal/orders,
// internal/instrument, internal/strategy) to a venue session, plus the
// Dispatcher that actually puts bytes on a socket. Event and message
// shapes are grounded on spec §6; the wire encoding follows the
// teacher's internal/net/messages.go (length-prefixed binary frames).
package venue

import (
	"quotecore/internal/common"
	"quotecore/internal/orders"
)

// Account scopes an event to a trading account. The empty string means
// "no account" (a connectivity/market-data-only scope).
type Account string

// Symbol identifies a tradeable instrument on one exchange.
type Symbol struct {
	Exchange string
	Symbol   string
}

// TradingStatus is the venue-reported market phase.
type TradingStatus int

const (
	StatusUndefined TradingStatus = iota
	StatusOpen
	StatusClosed
)

// Event is the tagged union of everything the core can receive from a
// venue session or the simulator. Exactly one of the typed payload
// fields (other than the always-present Kind) is meaningful per Kind.
type Event struct {
	Kind Kind

	Account Account
	Symbol  Symbol

	MaxOrderID orders.OrderID // DownloadEnd

	Available   SupportSet // GatewayStatus
	Unavailable SupportSet // GatewayStatus

	TickSize    common.Price  // ReferenceData
	MinTradeVol common.Volume // ReferenceData
	Multiplier  common.Volume // ReferenceData

	TradingStatus TradingStatus // MarketStatus

	Changes []DepthChange // MarketByPriceUpdate

	OrderUpdate orders.Update // OrderUpdate, OrderAck

	Side     common.Side   // PositionUpdate
	Position common.Volume // PositionUpdate

	Now int64 // Timer, unix nanos
}

// Kind tags the variant an Event carries.
type Kind int

const (
	KindConnected Kind = iota
	KindDisconnected
	KindDownloadBegin
	KindDownloadEnd
	KindGatewayStatus
	KindReferenceData
	KindMarketStatus
	KindMarketByPriceUpdate
	KindOrderAck
	KindOrderUpdate
	KindTradeUpdate
	KindFundsUpdate
	KindPositionUpdate
	KindTimer
)

// SupportSet is the gateway-capability bitmask carried by GatewayStatus.
type SupportSet uint32

const (
	SupportReferenceData SupportSet = 1 << 0
	SupportMarketStatus  SupportSet = 1 << 1
	SupportMarketByPrice SupportSet = 1 << 2
	SupportCreateOrder   SupportSet = 1 << 3
	SupportCancelOrder   SupportSet = 1 << 4
	SupportOrder         SupportSet = 1 << 5
	SupportPosition      SupportSet = 1 << 6
)

func (s SupportSet) Has(bit SupportSet) bool     { return s&bit == bit }
func (s SupportSet) DisjointFrom(o SupportSet) bool { return s&o == 0 }

// MarketDataRequirement is the capability set that must all be
// available (and none unavailable) for an Instrument's MARKETDATA
// readiness bit, per spec §4.5.
const MarketDataRequirement = SupportReferenceData | SupportMarketStatus | SupportMarketByPrice

// TradingRequirement is the analogous set gating TRADING readiness.
const TradingRequirement = SupportCreateOrder | SupportCancelOrder | SupportOrder | SupportPosition

// DepthChange is one incremental market-by-price mutation: a price
// level's new aggregate quantity on one side (zero quantity removes
// the level).
type DepthChange struct {
	Side     common.Side
	Price    common.Price
	Quantity common.Volume
}
