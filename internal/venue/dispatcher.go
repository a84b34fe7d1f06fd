package venue

import (
	"context"
	"encoding/binary"
	"errors"
	"fmt"
	"net"
	"net/url"
	"strings"

	"github.com/rs/zerolog/log"
	tomb "gopkg.in/tomb.v2"
)

const defaultDispatchWorkers = 1

// Addr is one configured venue endpoint: "tcp://host:port" for
// live trading or "unix:///path/to.sock" for a local gateway socket.
// Spec §6's runtime surface takes a list of these for live-trading mode.
type Addr string

func (a Addr) dial(ctx context.Context) (net.Conn, error) {
	u, err := url.Parse(string(a))
	if err != nil {
		return nil, fmt.Errorf("venue: parsing address %q: %w", a, err)
	}
	var d net.Dialer
	switch u.Scheme {
	case "tcp":
		return d.DialContext(ctx, "tcp", u.Host)
	case "unix":
		return d.DialContext(ctx, "unix", u.Path)
	default:
		return nil, fmt.Errorf("venue: unsupported address scheme %q", u.Scheme)
	}
}

// Dispatcher owns one outbound connection per configured venue address
// and a worker pool that serializes sends onto it. It is the "ctx"
// transport beneath the Strategy's orders.Context translation — the
// Strategy decides WHAT to send, the Dispatcher moves bytes. Grounded
// on the teacher's internal/net/server.go connection-handling shape,
// inverted from accept-loop to dial-out.
type Dispatcher struct {
	addrs   []Addr
	enabled bool
	pool    WorkerPool
	conns   []net.Conn
}

// NewDispatcher builds a Dispatcher for addrs. enabled mirrors the
// configured enable_trading flag (spec §6): when false, Send logs at
// warn and drops the frame without touching any connection.
func NewDispatcher(addrs []Addr, enabled bool) *Dispatcher {
	return &Dispatcher{
		addrs:   addrs,
		enabled: enabled,
		pool:    NewWorkerPool(defaultDispatchWorkers),
	}
}

// Run dials every configured address and starts the send-worker pool,
// both supervised by t. It blocks until t is killed (by the caller or
// by a worker error) or ctx is canceled.
func (d *Dispatcher) Run(ctx context.Context, t *tomb.Tomb) error {
	for _, addr := range d.addrs {
		conn, err := addr.dial(ctx)
		if err != nil {
			log.Error().Err(err).Str("addr", string(addr)).Msg("venue: dial failed")
			return err
		}
		d.conns = append(d.conns, conn)
	}

	d.pool.Setup(t, d.sendFrame)

	<-t.Dying()
	for _, conn := range d.conns {
		_ = conn.Close()
	}
	return tomb.ErrDying
}

// Send enqueues an already-encoded frame for dispatch. If trading is
// disabled, it logs a warning and returns without enqueuing — the
// internal state machine update the caller already made is NOT undone,
// per spec §4.6 ("a deliberate safety stub that makes trading disabled
// act like a silent venue").
func (d *Dispatcher) Send(frame []byte) {
	if !d.enabled {
		log.Warn().Msg("venue: trading disabled, dropping outbound frame")
		return
	}
	d.pool.Submit(frame)
}

func (d *Dispatcher) sendFrame(t *tomb.Tomb, task any) error {
	frame, ok := task.([]byte)
	if !ok {
		return fmt.Errorf("venue: worker task is not a frame: %T", task)
	}
	if len(d.conns) == 0 {
		return errors.New("venue: no live connections to dispatch on")
	}
	header := make([]byte, 4)
	binary.BigEndian.PutUint32(header, uint32(len(frame)))
	conn := d.conns[0]
	if _, err := conn.Write(header); err != nil {
		return fmt.Errorf("venue: writing frame header: %w", err)
	}
	if _, err := conn.Write(frame); err != nil {
		return fmt.Errorf("venue: writing frame body: %w", err)
	}
	return nil
}

// ParseAddrs splits a comma-separated list of venue addresses as taken
// from the CLI/config layer.
func ParseAddrs(raw string) []Addr {
	if raw == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	addrs := make([]Addr, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			addrs = append(addrs, Addr(p))
		}
	}
	return addrs
}
