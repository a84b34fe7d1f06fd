package instrument

import "quotecore/internal/venue"

type key struct {
	symbol  venue.Symbol
	account venue.Account
}

// Instruments maps (exchange, symbol[, account]) to a small integer ID
// and holds the dense vector of Instrument indexed by that id, per
// spec §3's "Instruments registry". venue.Symbol/venue.Account are
// comparable so the composite key works directly as a Go map key — no
// custom hash needed, unlike the original's
// std::hash<roq::shared::Symbol> specialization.
type Instruments struct {
	ids       map[key]ID
	instances []*Instrument
}

func NewInstruments() *Instruments {
	return &Instruments{
		ids:       make(map[key]ID),
		instances: []*Instrument{nil}, // index 0 reserved for Undefined
	}
}

// Ensure returns the Instrument for (symbol, account), creating a new
// one and assigning it a fresh ID if this is the first time it's seen.
func (r *Instruments) Ensure(symbol venue.Symbol, account venue.Account) *Instrument {
	k := key{symbol: symbol, account: account}
	if id, ok := r.ids[k]; ok {
		return r.instances[id]
	}
	id := ID(len(r.instances))
	inst := New(id, symbol, account)
	r.ids[k] = id
	r.instances = append(r.instances, inst)
	return inst
}

// Lookup returns the Instrument for (symbol, account), or nil if none
// has been registered (the event should be dropped per spec §4.6).
func (r *Instruments) Lookup(symbol venue.Symbol, account venue.Account) *Instrument {
	k := key{symbol: symbol, account: account}
	id, ok := r.ids[k]
	if !ok {
		return nil
	}
	return r.instances[id]
}

// All returns every registered instrument, used to broadcast
// connectivity/gateway-status events that carry no symbol.
func (r *Instruments) All() []*Instrument {
	return r.instances[1:]
}
