package strategy

import (
	"time"

	"github.com/rs/zerolog/log"

	"quotecore/internal/common"
	"quotecore/internal/instrument"
	"quotecore/internal/orders"
	"quotecore/internal/venue"
)

// Strategy is the inbound event router: it owns the Instruments
// registry and a Model, routes each venue.Event to the right
// instrument (or broadcasts connectivity/gateway events to all of
// them), and mints the OrderTxIDs every create/modify consumes.
type Strategy struct {
	instruments *instrument.Instruments
	model       Model
	dispatcher  *venue.Dispatcher

	account venue.Account

	nextOrderID   orders.OrderID
	nextRoutingID orders.RoutingID

	// txidOwner remembers which instrument minted a given OrderTxID so
	// an inbound OrderUpdate (which carries no symbol) can be routed.
	txidOwner map[orders.OrderTxID]instrument.ID

	samplePeriod time.Duration
	nextSample   time.Time

	// filter gates lazy instrument registration on ReferenceData
	// arrival (the only event that legitimately introduces a new
	// (exchange, symbol) pair); nil means nothing auto-registers.
	filter func(venue.Symbol) bool
}

// SetFilter installs the exchange/symbol acceptance predicate driven by
// the configured --exchange/--symbol flags (internal/config).
func (s *Strategy) SetFilter(filter func(venue.Symbol) bool) {
	s.filter = filter
}

// New builds a Strategy. account scopes GatewayStatus's TRADING
// capability check (spec §4.5). instruments may start empty: a
// ReferenceData event registers its (exchange, symbol) once the filter
// installed with SetFilter accepts it, which is how cmd/quotecore
// populates the registry.
func New(instruments *instrument.Instruments, model Model, dispatcher *venue.Dispatcher, account venue.Account, samplePeriod time.Duration) *Strategy {
	return &Strategy{
		instruments:  instruments,
		model:        model,
		dispatcher:   dispatcher,
		account:      account,
		txidOwner:    make(map[orders.OrderTxID]instrument.ID),
		samplePeriod: samplePeriod,
	}
}

// Instrument looks up a registered instrument by its registry id, or
// nil if id is unknown.
func (s *Strategy) Instrument(id instrument.ID) *instrument.Instrument {
	return s.instrumentByID(id)
}

// Dispatch routes one inbound event. It is the Go analogue of
// Strategy::handle() for every event kind in spec §4.6.
func (s *Strategy) Dispatch(ev venue.Event) {
	switch ev.Kind {
	case venue.KindConnected:
		s.broadcast(func(i *instrument.Instrument) { i.Connected() })
	case venue.KindDisconnected:
		s.broadcast(func(i *instrument.Instrument) { i.Disconnected() })
	case venue.KindDownloadBegin:
		if ev.Account == "" {
			s.broadcast(func(i *instrument.Instrument) { i.DownloadBegin() })
		}
	case venue.KindDownloadEnd:
		if ev.Account == "" {
			s.broadcast(func(i *instrument.Instrument) { i.DownloadEnd() })
			if ev.MaxOrderID > s.nextOrderID {
				s.nextOrderID = ev.MaxOrderID
			}
		}
	case venue.KindGatewayStatus:
		s.dispatchGatewayStatus(ev)
	case venue.KindReferenceData:
		inst := s.instruments.Lookup(ev.Symbol, ev.Account)
		if inst == nil && s.filter != nil && s.filter(ev.Symbol) {
			inst = s.instruments.Ensure(ev.Symbol, ev.Account)
		}
		if inst != nil {
			inst.ReferenceDataUpdate(ev.TickSize, ev.MinTradeVol, ev.Multiplier)
		}
	case venue.KindMarketStatus:
		s.withInstrument(ev, func(i *instrument.Instrument) {
			i.MarketStatusUpdate(ev.TradingStatus)
		})
	case venue.KindMarketByPriceUpdate:
		iid := instrument.Undefined
		s.withInstrument(ev, func(i *instrument.Instrument) {
			i.MarketByPriceUpdate(ev.Changes)
			iid = i.ID
		})
		if iid != instrument.Undefined {
			s.model.OnQuotes(s, iid)
		}
	case venue.KindOrderUpdate:
		s.dispatchOrderUpdate(ev)
	case venue.KindPositionUpdate:
		s.withInstrument(ev, func(i *instrument.Instrument) {
			i.PositionUpdate(ev.Position)
		})
		if iid := s.instrumentID(ev); iid != instrument.Undefined {
			s.model.OnPosition(s, iid)
		}
	case venue.KindTimer:
		s.dispatchTimer(ev)
	case venue.KindOrderAck, venue.KindTradeUpdate, venue.KindFundsUpdate:
		// Observational only.
	}
}

func (s *Strategy) dispatchGatewayStatus(ev venue.Event) {
	switch {
	case ev.Account == "":
		s.broadcast(func(i *instrument.Instrument) {
			i.GatewayStatus(ev.Available, ev.Unavailable, false)
		})
	case ev.Account == s.account:
		s.broadcast(func(i *instrument.Instrument) {
			i.GatewayStatus(ev.Available, ev.Unavailable, true)
		})
	default:
		log.Warn().Str("account", string(ev.Account)).Msg("strategy: gateway status for unknown account, dropped")
	}
}

func (s *Strategy) dispatchOrderUpdate(ev venue.Event) {
	iid, ok := s.txidOwner[ev.OrderUpdate.ID]
	if !ok {
		log.Warn().Uint32("order_id", uint32(ev.OrderUpdate.ID.OrderID)).Msg("strategy: order update for unknown transaction, dropped")
		return
	}
	inst := s.instrumentByID(iid)
	if inst == nil {
		return
	}
	inst.OrderUpdated(ev.OrderUpdate)
	s.model.OnPosition(s, iid)
}

func (s *Strategy) dispatchTimer(ev venue.Event) {
	now := time.Unix(0, ev.Now)
	if !now.Before(s.nextSample) {
		s.model.OnTime(s)
		s.nextSample = now.Add(s.samplePeriod)
	}
}

func (s *Strategy) withInstrument(ev venue.Event, fn func(*instrument.Instrument)) {
	inst := s.instruments.Lookup(ev.Symbol, ev.Account)
	if inst == nil {
		return
	}
	fn(inst)
}

func (s *Strategy) broadcast(fn func(*instrument.Instrument)) {
	for _, inst := range s.instruments.All() {
		fn(inst)
	}
}

func (s *Strategy) instrumentID(ev venue.Event) instrument.ID {
	inst := s.instruments.Lookup(ev.Symbol, ev.Account)
	if inst == nil {
		return instrument.Undefined
	}
	return inst.ID
}

func (s *Strategy) instrumentByID(id instrument.ID) *instrument.Instrument {
	for _, inst := range s.instruments.All() {
		if inst.ID == id {
			return inst
		}
	}
	return nil
}

// ModifyOrders lets the Model set the desired ladder on both sides of
// an instrument and immediately reconcile it. Quantities are clamped
// against the instrument's position limit before reaching GridOrder.
func (s *Strategy) ModifyOrders(iid instrument.ID, bid, ask []common.Quote) {
	inst := s.instrumentByID(iid)
	if inst == nil || !inst.IsReady() {
		return
	}
	inst.Bid.Modify(s.validateQuotes(inst, bid))
	inst.Ask.Modify(s.validateQuotes(inst, ask))
	s.Execute(iid)
}

// validateQuotes clamps each quote's quantity against the instrument's
// position limit (spec §7: "position-limit violation during quote
// validation → log at info level and zero the offending quote's
// quantity"). Clamping, not rejecting, means an over-limit quote is
// still passed through at whatever quantity fits.
func (s *Strategy) validateQuotes(inst *instrument.Instrument, quotes []common.Quote) []common.Quote {
	for i, q := range quotes {
		var clamped common.Volume
		switch q.Side {
		case common.Buy:
			clamped = inst.Limit.ValidateBid(inst.Position, q.Quantity)
		case common.Sell:
			clamped = inst.Limit.ValidateAsk(inst.Position, q.Quantity)
		default:
			continue
		}
		if common.Compare(clamped, q.Quantity) != 0 {
			log.Info().
				Str("side", q.Side.String()).
				Float64("price", q.Price).
				Float64("requested", q.Quantity).
				Float64("clamped", clamped).
				Msg("strategy: position limit clamped quote quantity")
			quotes[i].Quantity = clamped
		}
	}
	return quotes
}

// Execute reconciles both sides of an instrument against the venue.
// A no-op if the instrument is not currently ready.
func (s *Strategy) Execute(iid instrument.ID) {
	inst := s.instrumentByID(iid)
	if inst == nil || !inst.IsReady() {
		return
	}
	ctx := instrumentContext{s: s, inst: inst}
	inst.Bid.Execute(ctx)
	inst.Ask.Execute(ctx)
}

// Instruments exposes the registry for the Model and for tests.
func (s *Strategy) Instruments() *instrument.Instruments { return s.instruments }
