// Command quotecore runs the grid-order quoting engine core against
// either a live venue connection or a simulation event log, per spec
// §6's runtime surface. Grounded on the teacher's cmd/main.go startup
// shape and original_source/src/roq/mmaker/main.cpp.
package main

import (
	"context"
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	tomb "gopkg.in/tomb.v2"

	"quotecore/internal/common"
	"quotecore/internal/config"
	"quotecore/internal/instrument"
	"quotecore/internal/sim"
	"quotecore/internal/strategy"
	"quotecore/internal/venue"
)

// dispatchSafely recovers a common.ProtocolViolation panic (spec §7's
// "fatal" taxonomy entries: venue protocol violations, crossed books,
// undefined status values) and terminates the process via log.Fatal,
// matching zerolog's fatal level; any other panic is not ours to
// swallow and propagates.
func dispatchSafely(strat *strategy.Strategy, ev venue.Event) {
	defer func() {
		if r := recover(); r != nil {
			if pv, ok := r.(common.ProtocolViolation); ok {
				log.Fatal().Str("violation", pv.Msg).Msg("quotecore: fatal protocol violation")
			}
			panic(r)
		}
	}()
	strat.Dispatch(ev)
}

func main() {
	setupLogging()

	cmd := config.New(run)
	if err := cmd.Execute(); err != nil {
		log.Fatal().Err(err).Msg("quotecore: fatal startup error")
	}
}

func setupLogging() {
	zerolog.TimeFieldFormat = time.RFC3339
	log.Logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen}).
		With().Timestamp().Logger()
}

func run(cfg config.Config) error {
	instruments := instrument.NewInstruments()

	dispatcher := venue.NewDispatcher(cfg.Addrs, cfg.EnableTrading)
	model := strategy.NewSpreadModel(0.02, 10, 0.2, 5)
	strat := strategy.New(instruments, model, dispatcher, cfg.Account, cfg.SamplePeriod)
	strat.SetFilter(func(sym venue.Symbol) bool {
		return sym.Exchange == cfg.Exchange && cfg.Symbol.MatchString(sym.Symbol)
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	t, ctx := tomb.WithContext(ctx)

	if cfg.Simulation {
		t.Go(func() error { return runSimulation(strat, cfg.EventLogs) })
	} else {
		t.Go(func() error { return dispatcher.Run(ctx, t) })
	}

	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()
	for {
		select {
		case <-t.Dying():
			if err := t.Err(); err != nil && err != tomb.ErrDying {
				return err
			}
			return nil
		case now := <-ticker.C:
			dispatchSafely(strat, venue.Event{Kind: venue.KindTimer, Now: now.UnixNano()})
		}
	}
}

func runSimulation(strat *strategy.Strategy, paths []string) error {
	for _, path := range paths {
		if err := replayFile(strat, path); err != nil {
			return err
		}
	}
	return tomb.ErrDying
}

func replayFile(strat *strategy.Strategy, path string) error {
	r, err := sim.Open(path)
	if err != nil {
		return err
	}
	defer r.Close()

	for {
		ev, err := r.Next()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}
		dispatchSafely(strat, ev)
	}
}
