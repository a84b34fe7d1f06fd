package strategy

import (
	"github.com/rs/zerolog/log"

	"quotecore/internal/common"
	"quotecore/internal/instrument"
)

// SpreadModel is the reference Model: it quotes a fixed quantity
// symmetrically around an EMA-smoothed mid price at half of a
// configured spread, one rung per side. Grounded on
// original_source/src/roq/mmaker/model.h/.inl
// (Model::quotes_updated) and shared/ema.h for the smoothing.
//
// This is deliberately the simplest model that exercises the full
// GridOrder/Instrument/Strategy path — spec.md's Non-goals exclude
// sophisticated algorithmic pricing, not having any reference model at
// all.
type SpreadModel struct {
	Spread   common.Price
	Quantity common.Volume

	mid map[instrument.ID]*common.EMA
	ema func() *common.EMA
}

// NewSpreadModel builds a SpreadModel quoting qty on each side, spread
// (in price units) apart, with each instrument's mid price smoothed by an EMA with
// the given alpha and warmup count.
func NewSpreadModel(spread common.Price, qty common.Volume, alpha float64, warmup uint32) *SpreadModel {
	return &SpreadModel{
		Spread:   spread,
		Quantity: qty,
		mid:      make(map[instrument.ID]*common.EMA),
		ema:      func() *common.EMA { return common.NewEMA(alpha, warmup) },
	}
}

func (m *SpreadModel) emaFor(iid instrument.ID) *common.EMA {
	e, ok := m.mid[iid]
	if !ok {
		e = m.ema()
		m.mid[iid] = e
	}
	return e
}

func (m *SpreadModel) OnQuotes(s *Strategy, iid instrument.ID) {
	inst := s.Instrument(iid)
	if inst == nil || !inst.IsReady() {
		return
	}
	bestBid := inst.Depth.BestBid()
	bestAsk := inst.Depth.BestAsk()
	if bestBid.Empty() || bestAsk.Empty() {
		return
	}

	e := m.emaFor(iid)
	mid := e.Update((bestBid.Price + bestAsk.Price) / 2)
	if !e.IsReady() {
		return
	}

	tick := inst.Bid.Levels().TickSize()
	buyPrice := common.RoundBottom(common.Buy, mid-m.Spread/2, tick)
	sellPrice := common.RoundBottom(common.Sell, mid+m.Spread/2, tick)

	log.Debug().
		Float64("mid", mid).
		Float64("buy", buyPrice).
		Float64("sell", sellPrice).
		Msg("spread_model: quotes updated")

	s.ModifyOrders(iid,
		[]common.Quote{{Side: common.Buy, Price: buyPrice, Quantity: m.Quantity}},
		[]common.Quote{{Side: common.Sell, Price: sellPrice, Quantity: m.Quantity}},
	)
}

func (m *SpreadModel) OnTime(s *Strategy) {
	for _, inst := range s.Instruments().All() {
		s.Execute(inst.ID)
	}
}

func (m *SpreadModel) OnPosition(s *Strategy, iid instrument.ID) {
	// The reference model doesn't skew on position; a real model would
	// shift mid by position * skew_factor here.
}
