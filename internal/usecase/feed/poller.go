// Package feed publishes a deduplicated change feed over a polled source.
// The source is sampled immediately on subscription and then on a fixed
// interval; a snapshot is emitted only when it differs structurally from the
// last emitted one, so formatting noise in the tool's raw output never causes
// spurious emissions.
package feed

import (
	"context"
	"log/slog"
	"reflect"
	"time"

	"go.opentelemetry.io/otel/trace"

	"simkit/internal/infra/tracer"
)

// DefaultInterval is the poll period used when none is configured.
const DefaultInterval = 5 * time.Second

// PollFunc samples the external source once.
type PollFunc[T any] func(ctx context.Context) (T, error)

// Poller drives a PollFunc on a timer and publishes state transitions.
type Poller[T any] struct {
	poll     PollFunc[T]
	interval time.Duration
	logger   *slog.Logger
}

// New creates a Poller. interval <= 0 falls back to DefaultInterval.
func New[T any](poll PollFunc[T], interval time.Duration, logger *slog.Logger) *Poller[T] {
	if interval <= 0 {
		interval = DefaultInterval
	}
	return &Poller[T]{poll: poll, interval: interval, logger: logger}
}

// Subscription is one live feed. Consume Updates() until it closes, then
// check Err(): nil means the subscription was stopped, non-nil means a poll
// failed and terminated the stream.
type Subscription[T any] struct {
	updates chan T
	cancel  context.CancelFunc
	done    chan struct{}
	err     error // written once before done closes
}

// Updates returns the channel of deduplicated snapshots. It is closed when
// the subscription ends.
func (s *Subscription[T]) Updates() <-chan T { return s.updates }

// Err returns the terminating poll error, if any. Valid after Updates()
// closes.
func (s *Subscription[T]) Err() error {
	<-s.done
	return s.err
}

// Stop tears the subscription down: the timer stops and any in-flight poll's
// result is discarded. Safe to call multiple times.
func (s *Subscription[T]) Stop() {
	s.cancel()
	<-s.done
}

// Subscribe starts polling and returns the live subscription. The first poll
// is issued immediately and its result emitted before any timer tick; polls
// are strictly sequential. A failed poll ends the stream with that error and
// no further poll is attempted; the caller starts a new subscription to
// recover.
func (p *Poller[T]) Subscribe(ctx context.Context) *Subscription[T] {
	ctx, cancel := context.WithCancel(ctx)
	sub := &Subscription[T]{
		updates: make(chan T),
		cancel:  cancel,
		done:    make(chan struct{}),
	}
	go p.run(ctx, sub)
	return sub
}

func (p *Poller[T]) run(ctx context.Context, sub *Subscription[T]) {
	defer close(sub.done)
	defer close(sub.updates)

	var last T
	emitted := false

	sample := func() bool {
		pollCtx, span := tracer.StartSpan(ctx, "feed.poll",
			trace.WithAttributes(tracer.StringAttr("interval", p.interval.String())))
		snapshot, err := p.poll(pollCtx)
		if err != nil {
			tracer.RecordError(span, err)
			span.End()
			if ctx.Err() != nil {
				// Stopped mid-poll; the result is discarded, not an error.
				return false
			}
			p.logger.Warn("feed poll failed, terminating stream", "error", err)
			sub.err = err
			return false
		}
		tracer.SetOK(span)
		span.End()

		if emitted && reflect.DeepEqual(snapshot, last) {
			return true
		}

		select {
		case sub.updates <- snapshot:
			last = snapshot
			emitted = true
			return true
		case <-ctx.Done():
			// Subscriber went away mid-emission; discard the snapshot.
			return false
		}
	}

	// Immediate first sample for fast first paint.
	if !sample() {
		return
	}

	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if !sample() {
				return
			}
		}
	}
}
