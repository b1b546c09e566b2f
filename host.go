package csvlate

import (
	"context"
	"sync"
	"sync/atomic"
)

// LogQueue carries progress lines from a run's worker goroutine to the host
// that displays them. Sends never block: a line that finds the buffer full
// is dropped and counted.
type LogQueue struct {
	ch      chan string
	once    sync.Once
	dropped atomic.Int64
}

// NewLogQueue creates a queue buffering up to size lines.
func NewLogQueue(size int) *LogQueue {
	if size <= 0 {
		size = 256
	}
	return &LogQueue{ch: make(chan string, size)}
}

// Logger returns the sink to pass to Run. It must not be called after Close.
func (q *LogQueue) Logger() Logger {
	return func(line string) {
		select {
		case q.ch <- line:
		default:
			q.dropped.Add(1)
		}
	}
}

// Dropped returns the number of lines lost to a full buffer.
func (q *LogQueue) Dropped() int64 {
	return q.dropped.Load()
}

// Lines returns the channel the host drains. It is closed by Close.
func (q *LogQueue) Lines() <-chan string {
	return q.ch
}

// Close ends the stream once the worker has returned.
func (q *LogQueue) Close() {
	q.once.Do(func() { close(q.ch) })
}

// Supervisor runs at most one job at a time off the caller's goroutine.
type Supervisor struct {
	mu     sync.Mutex
	active bool
}

// Start launches fn in a new goroutine and returns a channel that receives
// its result. It fails with ErrRunActive while a previous job is running.
func (s *Supervisor) Start(ctx context.Context, fn func(context.Context) error) (<-chan error, error) {
	s.mu.Lock()
	if s.active {
		s.mu.Unlock()
		return nil, ErrRunActive
	}
	s.active = true
	s.mu.Unlock()

	done := make(chan error, 1)
	go func() {
		err := fn(ctx)
		s.mu.Lock()
		s.active = false
		s.mu.Unlock()
		done <- err
	}()
	return done, nil
}

// Active reports whether a job is running.
func (s *Supervisor) Active() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.active
}
