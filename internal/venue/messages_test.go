package venue

import (
	"encoding/binary"
	"math"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"quotecore/internal/common"
	"quotecore/internal/orders"
)

func TestCreateOrderMsgEncodeLayout(t *testing.T) {
	msg := CreateOrderMsg{
		CorrelationID: uuid.MustParse("00000000-0000-0000-0000-000000000001"),
		Account:       "acct",
		OrderID:       42,
		RoutingID:     7,
		Exchange:      "XNAS",
		Symbol:        "AAPL",
		Side:          common.Buy,
		Quantity:      10,
		Price:         100.5,
	}
	buf := msg.Encode()

	require.Equal(t, uint16(MessageCreateOrder), binary.BigEndian.Uint16(buf[0:2]))
	assert.Equal(t, msg.CorrelationID[:], buf[2:18])
	assert.Equal(t, uint32(42), binary.BigEndian.Uint32(buf[18:22]))
	assert.Equal(t, byte(common.Buy), buf[22])
	assert.Equal(t, uint64(7), binary.BigEndian.Uint64(buf[23:31]))
	assert.Equal(t, 10.0, math.Float64frombits(binary.BigEndian.Uint64(buf[31:39])))
	assert.Equal(t, 100.5, math.Float64frombits(binary.BigEndian.Uint64(buf[39:47])))
	assert.Equal(t, byte(len("acct")), buf[47])
	assert.Equal(t, byte(len("XNAS")), buf[48])
	assert.Equal(t, byte(len("AAPL")), buf[49])
	assert.Equal(t, "acct", string(buf[50:54]))
	assert.Equal(t, "XNAS", string(buf[54:58]))
	assert.Equal(t, "AAPL", string(buf[58:62]))
	assert.Len(t, buf, 62)
}

func TestModifyOrderMsgEncodeLength(t *testing.T) {
	msg := ModifyOrderMsg{
		CorrelationID: uuid.New(),
		Account:       "a",
		OrderID:       1,
		RoutingID:     2,
		Quantity:      5,
		Price:         10,
	}
	buf := msg.Encode()
	require.Equal(t, uint16(MessageModifyOrder), binary.BigEndian.Uint16(buf[0:2]))
	assert.Len(t, buf, 2+16+4+8+8+8+1+1)
}

func TestCancelOrderMsgEncodeLength(t *testing.T) {
	msg := CancelOrderMsg{CorrelationID: uuid.New(), Account: "ab", OrderID: 9, RoutingID: 3}
	buf := msg.Encode()
	require.Equal(t, uint16(MessageCancelOrder), binary.BigEndian.Uint16(buf[0:2]))
	assert.Equal(t, uint32(9), binary.BigEndian.Uint32(buf[18:22]))
	assert.Equal(t, uint64(3), binary.BigEndian.Uint64(buf[22:30]))
	assert.Len(t, buf, 2+16+4+8+1+2)
}

func TestSupportSetHasAndDisjointFrom(t *testing.T) {
	s := SupportReferenceData | SupportMarketStatus
	assert.True(t, s.Has(SupportReferenceData))
	assert.False(t, s.Has(SupportReferenceData|SupportMarketByPrice))
	assert.True(t, s.DisjointFrom(SupportCreateOrder))
	assert.False(t, s.DisjointFrom(SupportMarketStatus))
}

func TestOrderUpdateStatusString(t *testing.T) {
	assert.Equal(t, "WORKING", orders.StatusWorking.String())
	assert.Equal(t, "UNDEFINED", orders.Status(99).String())
}
