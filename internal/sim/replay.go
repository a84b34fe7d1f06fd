// Package sim replays a recorded event log through the same venue.Event
// channel a live connection would feed, satisfying spec §1's "the same
// event kinds as a live venue" equivalence guarantee for the
// `simulation` runtime mode (spec §6, §8 supplemented feature 8).
package sim

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"quotecore/internal/common"
	"quotecore/internal/orders"
	"quotecore/internal/venue"
)

// record is the newline-delimited-JSON shape one log line deserializes
// into — a plain mirror of venue.Event with JSON tags, since
// venue.Event itself carries no tags (it is not meant to be the wire
// format, only the in-process shape).
type record struct {
	Kind        venue.Kind          `json:"kind"`
	Account     venue.Account       `json:"account,omitempty"`
	Exchange    string              `json:"exchange,omitempty"`
	Symbol      string              `json:"symbol,omitempty"`
	MaxOrderID  uint32              `json:"max_order_id,omitempty"`
	Available   venue.SupportSet    `json:"available,omitempty"`
	Unavailable venue.SupportSet    `json:"unavailable,omitempty"`
	TickSize    float64             `json:"tick_size,omitempty"`
	MinTradeVol float64             `json:"min_trade_vol,omitempty"`
	Multiplier  float64             `json:"multiplier,omitempty"`
	Status      venue.TradingStatus `json:"status,omitempty"`
	Changes     []changeRecord      `json:"changes,omitempty"`
	OrderID     uint32              `json:"order_id,omitempty"`
	RoutingID   uint64              `json:"routing_id,omitempty"`
	OrderStatus int                 `json:"order_status,omitempty"`
	Remaining   float64             `json:"remaining_quantity,omitempty"`
	Traded      float64             `json:"traded_quantity,omitempty"`
	Side        int                 `json:"side,omitempty"`
	Position    float64             `json:"position,omitempty"`
	Now         int64               `json:"now,omitempty"`
}

type changeRecord struct {
	Side     int     `json:"side"`
	Price    float64 `json:"price"`
	Quantity float64 `json:"quantity"`
}

// Reader streams venue.Event values out of a newline-delimited JSON
// event-log file, in file order — the simulation-mode counterpart to a
// live Dispatcher's inbound feed.
type Reader struct {
	scanner *bufio.Scanner
	file    *os.File
}

// Open opens the event log at path for replay.
func Open(path string) (*Reader, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("sim: opening event log %q: %w", path, err)
	}
	sc := bufio.NewScanner(f)
	sc.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)
	return &Reader{scanner: sc, file: f}, nil
}

func (r *Reader) Close() error { return r.file.Close() }

// Next returns the next event in the log, or io.EOF once exhausted.
func (r *Reader) Next() (venue.Event, error) {
	if !r.scanner.Scan() {
		if err := r.scanner.Err(); err != nil {
			return venue.Event{}, fmt.Errorf("sim: reading event log: %w", err)
		}
		return venue.Event{}, io.EOF
	}

	line := r.scanner.Bytes()
	if len(line) == 0 {
		return r.Next()
	}

	var rec record
	if err := json.Unmarshal(line, &rec); err != nil {
		return venue.Event{}, fmt.Errorf("sim: decoding event log line: %w", err)
	}
	return rec.toEvent(), nil
}

func (rec record) toEvent() venue.Event {
	ev := venue.Event{
		Kind:          rec.Kind,
		Account:       rec.Account,
		Symbol:        venue.Symbol{Exchange: rec.Exchange, Symbol: rec.Symbol},
		MaxOrderID:    orders.OrderID(rec.MaxOrderID),
		Available:     rec.Available,
		Unavailable:   rec.Unavailable,
		TickSize:      rec.TickSize,
		MinTradeVol:   rec.MinTradeVol,
		Multiplier:    rec.Multiplier,
		TradingStatus: rec.Status,
		Side:          common.Side(rec.Side),
		Position:      rec.Position,
		Now:           rec.Now,
		OrderUpdate: orders.Update{
			ID:                orders.OrderTxID{OrderID: orders.OrderID(rec.OrderID), RoutingID: orders.RoutingID(rec.RoutingID)},
			Status:            orders.Status(rec.OrderStatus),
			RemainingQuantity: rec.Remaining,
			TradedQuantity:    rec.Traded,
		},
	}
	for _, c := range rec.Changes {
		ev.Changes = append(ev.Changes, venue.DepthChange{
			Side:     common.Side(c.Side),
			Price:    c.Price,
			Quantity: c.Quantity,
		})
	}
	return ev
}
