package instrument

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"quotecore/internal/common"
	"quotecore/internal/orders"
	"quotecore/internal/venue"
)

func marketDataReady(inst *Instrument) {
	inst.Connected()
	inst.DownloadEnd()
	inst.GatewayStatus(venue.MarketDataRequirement, 0, false)
	inst.ReferenceDataUpdate(0.01, 1, 1)
	inst.MarketStatusUpdate(venue.StatusOpen)
}

func TestInstrumentReachesReadyOnlyWhenEveryGateClears(t *testing.T) {
	inst := New(1, venue.Symbol{Exchange: "XNAS", Symbol: "AAPL"}, "acct")
	assert.False(t, inst.IsReady())

	inst.Connected()
	assert.False(t, inst.IsReady(), "download not yet ended and missing refdata/status/marketdata")

	inst.DownloadEnd()
	assert.False(t, inst.IsReady())

	inst.GatewayStatus(venue.MarketDataRequirement, 0, false)
	assert.False(t, inst.IsReady(), "refdata/status not yet seen")

	inst.ReferenceDataUpdate(0.01, 1, 1)
	assert.False(t, inst.IsReady(), "trading status still undefined")

	inst.MarketStatusUpdate(venue.StatusOpen)
	assert.True(t, inst.IsReady())
	assert.True(t, inst.Flags().Test(Ready))
}

func TestInstrumentDownloadBeginDropsReady(t *testing.T) {
	inst := New(1, venue.Symbol{Exchange: "XNAS", Symbol: "AAPL"}, "acct")
	marketDataReady(inst)
	require.True(t, inst.IsReady())

	inst.DownloadBegin()
	assert.False(t, inst.IsReady())
	assert.True(t, inst.Flags().Test(Downloading))
	assert.False(t, inst.Flags().Test(Realtime))

	inst.DownloadEnd()
	assert.True(t, inst.IsReady())
	assert.True(t, inst.Flags().Test(Realtime))
}

func TestInstrumentDisconnectedResetsOrdersAndLevels(t *testing.T) {
	inst := New(1, venue.Symbol{Exchange: "XNAS", Symbol: "AAPL"}, "acct")
	marketDataReady(inst)
	require.True(t, inst.IsReady())

	inst.Bid.Modify([]common.Quote{{Side: common.Buy, Price: 100, Quantity: 10}})
	txid := orders.OrderTxID{OrderID: 1, RoutingID: 1}
	inst.Orders().Set(txid, orders.NewLimitOrder(common.Quote{Side: common.Buy, Price: 100, Quantity: 10}, orders.Working))

	inst.Disconnected()

	assert.False(t, inst.IsReady())
	assert.False(t, inst.Flags().Test(Connected))
	assert.Equal(t, 0, inst.Orders().Len())
	assert.True(t, inst.Bid.Levels().Empty())
	assert.True(t, inst.Ask.Levels().Empty())
}

func TestInstrumentMarketByPriceUpdateRejectsCrossedBook(t *testing.T) {
	inst := New(1, venue.Symbol{Exchange: "XNAS", Symbol: "AAPL"}, "acct")
	assert.Panics(t, func() {
		inst.MarketByPriceUpdate([]venue.DepthChange{
			{Side: common.Buy, Price: 101, Quantity: 10},
			{Side: common.Sell, Price: 100, Quantity: 10},
		})
	})
}

func TestInstrumentMarketByPriceUpdatePopulatesDepth(t *testing.T) {
	inst := New(1, venue.Symbol{Exchange: "XNAS", Symbol: "AAPL"}, "acct")
	inst.MarketByPriceUpdate([]venue.DepthChange{
		{Side: common.Buy, Price: 100, Quantity: 10},
		{Side: common.Buy, Price: 99, Quantity: 5},
		{Side: common.Sell, Price: 101, Quantity: 7},
	})

	assert.Equal(t, 100.0, inst.Depth.BestBid().Price)
	assert.Equal(t, 10.0, inst.Depth.BestBid().Quantity)
	assert.Equal(t, 101.0, inst.Depth.BestAsk().Price)
	assert.False(t, inst.Depth.Crossed())
}

func TestInstrumentGatewayStatusIsScopedToAccountOrMarketData(t *testing.T) {
	inst := New(1, venue.Symbol{Exchange: "XNAS", Symbol: "AAPL"}, "acct")

	inst.GatewayStatus(venue.TradingRequirement, 0, true)
	assert.True(t, inst.Flags().Test(Trading))
	assert.False(t, inst.Flags().Test(MarketData))

	inst.GatewayStatus(venue.MarketDataRequirement, 0, false)
	assert.True(t, inst.Flags().Test(MarketData))

	inst.GatewayStatus(0, venue.SupportCreateOrder, true)
	assert.False(t, inst.Flags().Test(Trading), "an unavailable required capability clears Trading")
}

func TestInstrumentPositionUpdateOnlyAppliesWhileDownloading(t *testing.T) {
	inst := New(1, venue.Symbol{Exchange: "XNAS", Symbol: "AAPL"}, "acct")

	inst.PositionUpdate(50)
	assert.Equal(t, 0.0, inst.Position, "ignored while not downloading")

	inst.DownloadBegin()
	inst.PositionUpdate(50)
	assert.Equal(t, 50.0, inst.Position)

	inst.DownloadEnd()
	inst.PositionUpdate(999)
	assert.Equal(t, 50.0, inst.Position, "realtime feed no longer overrides the engine's own accounting")
}

func TestInstrumentApplyFillAccumulatesPositionDuringRealtimeOnly(t *testing.T) {
	inst := New(1, venue.Symbol{Exchange: "XNAS", Symbol: "AAPL"}, "acct")
	marketDataReady(inst)
	require.True(t, inst.IsReady())

	buyID := orders.OrderTxID{OrderID: 1, RoutingID: 1}
	inst.Orders().Set(buyID, orders.NewLimitOrder(common.Quote{Side: common.Buy, Price: 100, Quantity: 10}, orders.Working))

	inst.OrderUpdated(orders.Update{ID: buyID, Status: orders.StatusWorking, RemainingQuantity: 10, TradedQuantity: 4})
	assert.Equal(t, 4.0, inst.Position, "a buy fill increases position while realtime")

	sellID := orders.OrderTxID{OrderID: 2, RoutingID: 1}
	inst.Orders().Set(sellID, orders.NewLimitOrder(common.Quote{Side: common.Sell, Price: 101, Quantity: 10}, orders.Working))

	inst.OrderUpdated(orders.Update{ID: sellID, Status: orders.StatusWorking, RemainingQuantity: 10, TradedQuantity: 3})
	assert.Equal(t, 1.0, inst.Position, "a sell fill decreases position while realtime")

	inst.OrderUpdated(orders.Update{ID: buyID, Status: orders.StatusWorking, RemainingQuantity: 10, TradedQuantity: 0})
	assert.Equal(t, 1.0, inst.Position, "a zero traded_quantity update never touches position")
}

func TestInstrumentApplyFillIgnoredWhileDownloading(t *testing.T) {
	inst := New(1, venue.Symbol{Exchange: "XNAS", Symbol: "AAPL"}, "acct")
	inst.Connected()
	inst.DownloadBegin()
	require.True(t, inst.Flags().Test(Downloading))

	buyID := orders.OrderTxID{OrderID: 1, RoutingID: 1}
	inst.Orders().Set(buyID, orders.NewLimitOrder(common.Quote{Side: common.Buy, Price: 100, Quantity: 10}, orders.Working))

	inst.OrderUpdated(orders.Update{ID: buyID, Status: orders.StatusWorking, RemainingQuantity: 10, TradedQuantity: 4})
	assert.Equal(t, 0.0, inst.Position, "fills are ignored while downloading; the venue's position feed is authoritative")
}
