package venue

import (
	"github.com/rs/zerolog/log"
	tomb "gopkg.in/tomb.v2"
)

const taskChanSize = 256

// WorkerFunction is one unit of outbound-send work.
type WorkerFunction = func(t *tomb.Tomb, task any) error

// WorkerPool runs a fixed number of goroutines draining a shared task
// channel, supervised by a tomb.Tomb so a Dispatcher shutdown or a
// worker error tears every one of them down together. Adapted from the
// teacher's internal/worker.go.
type WorkerPool struct {
	n     int
	tasks chan any
}

func NewWorkerPool(size int) WorkerPool {
	return WorkerPool{n: size, tasks: make(chan any, taskChanSize)}
}

func (pool *WorkerPool) Submit(task any) {
	pool.tasks <- task
}

func (pool *WorkerPool) Setup(t *tomb.Tomb, work WorkerFunction) {
	log.Info().Int("workers", pool.n).Msg("venue: starting dispatch workers")
	for i := 0; i < pool.n; i++ {
		t.Go(func() error {
			return pool.worker(t, work)
		})
	}
}

func (pool *WorkerPool) worker(t *tomb.Tomb, work WorkerFunction) error {
	for {
		select {
		case <-t.Dying():
			return nil
		case task := <-pool.tasks:
			if err := work(t, task); err != nil {
				log.Error().Err(err).Msg("venue: dispatch worker exiting")
				return err
			}
		}
	}
}
