package strategy

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"quotecore/internal/common"
	"quotecore/internal/venue"
)

func TestSpreadModelSkipsUntilBothSidesOfTheBookArePresent(t *testing.T) {
	model := NewSpreadModel(1.0, 10, 0.5, 0)
	s, _ := newTestStrategy()
	s.model = model
	iid := makeReady(t, s)

	// One-sided book: no quote should be issued yet.
	s.Dispatch(venue.Event{
		Kind: venue.KindMarketByPriceUpdate, Symbol: testSymbol,
		Changes: []venue.DepthChange{{Side: common.Buy, Price: 100, Quantity: 10}},
	})
	inst := s.Instrument(iid)
	assert.True(t, inst.Bid.Levels().Empty())
}

func TestSpreadModelQuotesAroundTheEMASmoothedMidOnceWarm(t *testing.T) {
	model := NewSpreadModel(2.0, 10, 0.5, 0)
	s, _ := newTestStrategy()
	s.model = model
	iid := makeReady(t, s)

	s.Dispatch(venue.Event{
		Kind: venue.KindMarketByPriceUpdate, Symbol: testSymbol,
		Changes: []venue.DepthChange{
			{Side: common.Buy, Price: 100, Quantity: 10},
			{Side: common.Sell, Price: 102, Quantity: 10},
		},
	})

	inst := s.Instrument(iid)
	require.NotNil(t, inst)
	// mid = 101, spread 2.0 -> buy floor(100), sell ceil(102), tick 0.01.
	require.Equal(t, 1, inst.Bid.Levels().Size())
	require.Equal(t, 1, inst.Ask.Levels().Size())
	assert.Equal(t, 100.0, inst.Bid.Levels().Top())
	assert.Equal(t, 102.0, inst.Ask.Levels().Top())
}

func TestSpreadModelOnTimeExecutesEveryRegisteredInstrument(t *testing.T) {
	model := NewSpreadModel(1.0, 10, 0.5, 0)
	s, _ := newTestStrategy()
	s.model = model
	s.samplePeriod = time.Second
	makeReady(t, s)

	assert.NotPanics(t, func() {
		s.Dispatch(venue.Event{Kind: venue.KindTimer, Now: 0})
	})
}

func TestSpreadModelOnPositionIsANoOpByDesign(t *testing.T) {
	model := NewSpreadModel(1.0, 10, 0.5, 0)
	s, _ := newTestStrategy()
	s.model = model
	iid := makeReady(t, s)
	assert.NotPanics(t, func() { model.OnPosition(s, iid) })
}
