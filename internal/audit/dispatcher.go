package audit

import (
	"context"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
)

const (
	queueSize    = 100
	writeTimeout = 5 * time.Second
)

type Sink interface {
	Write(ctx context.Context, ev Event) error
}

// Dispatcher hands events to the sinks on a single background worker.
// Auditing never blocks or fails a request: when the queue is full the
// event is dropped.
type Dispatcher struct {
	sinks   []Sink
	queue   chan Event
	log     *zap.Logger
	dropped prometheus.Counter

	mu     sync.RWMutex
	closed bool
	done   chan struct{}
}

// NewDispatcher starts the worker. dropped may be nil.
func NewDispatcher(log *zap.Logger, dropped prometheus.Counter, sinks ...Sink) *Dispatcher {
	d := &Dispatcher{
		sinks:   sinks,
		queue:   make(chan Event, queueSize),
		log:     log,
		dropped: dropped,
		done:    make(chan struct{}),
	}

	go d.worker()
	return d
}

func (d *Dispatcher) worker() {
	defer close(d.done)

	for ev := range d.queue {
		for _, s := range d.sinks {
			ctx, cancel := context.WithTimeout(context.Background(), writeTimeout)
			if err := s.Write(ctx, ev); err != nil {
				d.log.Warn("audit write failed",
					zap.String("action", ev.Action),
					zap.String("entity", ev.Entity),
					zap.Uint("entity_id", ev.EntityID),
					zap.Error(err),
				)
			}
			cancel()
		}
	}
}

func (d *Dispatcher) Dispatch(ev Event) {
	if ev.At.IsZero() {
		ev.At = time.Now()
	}

	d.mu.RLock()
	defer d.mu.RUnlock()

	if d.closed {
		d.drop(ev, "closed")
		return
	}

	select {
	case d.queue <- ev:
	default:
		// fila cheia, descartamos
		d.drop(ev, "queue full")
	}
}

func (d *Dispatcher) drop(ev Event, reason string) {
	if d.dropped != nil {
		d.dropped.Inc()
	}
	d.log.Warn("audit event dropped",
		zap.String("reason", reason),
		zap.String("action", ev.Action),
		zap.String("entity", ev.Entity),
	)
}

// Close stops accepting events and waits for the queue to drain or ctx
// to expire.
func (d *Dispatcher) Close(ctx context.Context) error {
	d.mu.Lock()
	if !d.closed {
		d.closed = true
		close(d.queue)
	}
	d.mu.Unlock()

	select {
	case <-d.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
