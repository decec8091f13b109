package memo

import (
	"context"
	"runtime"
	"sync"

	"repkit/internal/logging"
)

// ExecMode is the execution mode a Scope was created with.
type ExecMode int

const (
	// Sequential runs mapped work inline in the calling goroutine.
	Sequential ExecMode = iota
	// Parallel fans mapped work out across the scope's worker pool.
	Parallel
)

// maxWorkers caps the ephemeral pool regardless of machine size.
const maxWorkers = 8

func workerCount() int {
	n := runtime.NumCPU() - 1
	if n < 1 {
		n = 1
	}
	if n > maxWorkers {
		n = maxWorkers
	}
	return n
}

// Scope is an explicit, bounded execution context for one computation. A
// parallel scope owns a worker pool created at entry and torn down by the
// release func on every exit path; no process-wide execution mode is
// mutated. A Scope must not be used after its release func runs.
type Scope struct {
	mode    ExecMode
	workers int
	tasks   chan func()
	wg      sync.WaitGroup
	once    sync.Once
	logger  *logging.Logger
}

// EnterScope creates a Scope and its release func. Release is
// unconditional and idempotent: callers defer it immediately so the pool
// is shut down on normal return and on error alike. Shutdown waits for
// in-flight tasks but is not time-boxed.
func EnterScope(parallel bool, logger *logging.Logger) (*Scope, func()) {
	if logger == nil {
		logger = logging.NewDefault()
	}

	if !parallel {
		return &Scope{mode: Sequential, workers: 1, logger: logger}, func() {}
	}

	s := &Scope{
		mode:    Parallel,
		workers: workerCount(),
		tasks:   make(chan func()),
		logger:  logger,
	}

	logger.Debug("Worker pool starting", map[string]interface{}{
		"workers": s.workers,
	})

	for i := 0; i < s.workers; i++ {
		s.wg.Add(1)
		go s.worker()
	}

	release := func() {
		s.once.Do(func() {
			close(s.tasks)
		})
		s.wg.Wait()
		logger.Debug("Worker pool stopped", nil)
	}
	return s, release
}

func (s *Scope) worker() {
	defer s.wg.Done()
	for task := range s.tasks {
		task()
	}
}

// Mode returns the scope's execution mode.
func (s *Scope) Mode() ExecMode {
	return s.mode
}

// Workers returns the number of workers available to Map.
func (s *Scope) Workers() int {
	return s.workers
}

// Map runs fn for every index in [0, n), inline in a sequential scope and
// across the pool in a parallel scope. It returns once all submitted work
// has finished; the first error observed is returned. A canceled context
// stops further submissions and is reported if no task error preceded it.
func (s *Scope) Map(ctx context.Context, n int, fn func(ctx context.Context, i int) error) error {
	if s.mode == Sequential {
		for i := 0; i < n; i++ {
			if err := ctx.Err(); err != nil {
				return err
			}
			if err := fn(ctx, i); err != nil {
				return err
			}
		}
		return nil
	}

	var (
		mu       sync.Mutex
		firstErr error
		pending  sync.WaitGroup
	)
	record := func(err error) {
		mu.Lock()
		if firstErr == nil {
			firstErr = err
		}
		mu.Unlock()
	}

submit:
	for i := 0; i < n; i++ {
		i := i
		task := func() {
			defer pending.Done()
			if ctx.Err() != nil {
				return
			}
			if err := fn(ctx, i); err != nil {
				record(err)
			}
		}

		pending.Add(1)
		select {
		case s.tasks <- task:
		case <-ctx.Done():
			pending.Done()
			break submit
		}
	}

	pending.Wait()

	if firstErr != nil {
		return firstErr
	}
	return ctx.Err()
}
