package feed

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

func newTestLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

var errPollsExhausted = errors.New("polls exhausted")

// scriptedPoll returns each value in sequence, then fails every call.
func scriptedPoll(values []string) PollFunc[string] {
	var mu sync.Mutex
	i := 0
	return func(context.Context) (string, error) {
		mu.Lock()
		defer mu.Unlock()
		if i >= len(values) {
			return "", errPollsExhausted
		}
		v := values[i]
		i++
		return v, nil
	}
}

func collect(t *testing.T, sub *Subscription[string]) []string {
	t.Helper()
	var got []string
	timeout := time.After(5 * time.Second)
	for {
		select {
		case v, ok := <-sub.Updates():
			if !ok {
				return got
			}
			got = append(got, v)
		case <-timeout:
			t.Fatalf("feed did not terminate; got %v so far", got)
		}
	}
}

func TestFirstEmissionIsImmediate(t *testing.T) {
	// Interval long enough that any emission must come from the initial poll,
	// not a tick.
	p := New(scriptedPoll([]string{"A"}), time.Hour, newTestLogger())
	sub := p.Subscribe(context.Background())
	defer sub.Stop()

	select {
	case v := <-sub.Updates():
		if v != "A" {
			t.Errorf("first value = %q, want A", v)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("no immediate first emission")
	}
}

func TestDuplicateSnapshotsSuppressed(t *testing.T) {
	p := New(scriptedPoll([]string{"A", "A", "B", "B", "B", "A"}), 5*time.Millisecond, newTestLogger())
	sub := p.Subscribe(context.Background())

	got := collect(t, sub)

	want := []string{"A", "B", "A"}
	if len(got) != len(want) {
		t.Fatalf("emitted %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("emitted %v, want %v", got, want)
		}
	}
	if !errors.Is(sub.Err(), errPollsExhausted) {
		t.Errorf("Err = %v, want errPollsExhausted", sub.Err())
	}
}

func TestFailureTerminatesStream(t *testing.T) {
	var polls atomic.Int32
	pollErr := errors.New("tool failed")
	poll := func(context.Context) (string, error) {
		polls.Add(1)
		return "", pollErr
	}

	p := New(poll, 5*time.Millisecond, newTestLogger())
	sub := p.Subscribe(context.Background())

	if got := collect(t, sub); len(got) != 0 {
		t.Errorf("emitted %v, want nothing", got)
	}
	if !errors.Is(sub.Err(), pollErr) {
		t.Errorf("Err = %v, want pollErr", sub.Err())
	}

	// No poll N+1 after the failing poll.
	time.Sleep(30 * time.Millisecond)
	if n := polls.Load(); n != 1 {
		t.Errorf("polls after failure = %d, want 1", n)
	}
}

func TestStopDiscardsInFlightPoll(t *testing.T) {
	started := make(chan struct{})
	poll := func(ctx context.Context) (string, error) {
		close(started)
		<-ctx.Done() // in-flight until cancelled
		return "late", ctx.Err()
	}

	p := New(poll, time.Hour, newTestLogger())
	sub := p.Subscribe(context.Background())

	<-started
	sub.Stop()

	if _, ok := <-sub.Updates(); ok {
		t.Error("in-flight result was emitted after Stop")
	}
	if err := sub.Err(); err != nil {
		t.Errorf("Err after Stop = %v, want nil", err)
	}
}

func TestPollsAreSequential(t *testing.T) {
	var inFlight atomic.Int32
	var maxSeen atomic.Int32
	var count atomic.Int32

	poll := func(context.Context) (string, error) {
		n := inFlight.Add(1)
		if n > maxSeen.Load() {
			maxSeen.Store(n)
		}
		time.Sleep(10 * time.Millisecond) // longer than the interval
		inFlight.Add(-1)
		if count.Add(1) >= 5 {
			return "", errPollsExhausted
		}
		return "same", nil
	}

	p := New(poll, time.Millisecond, newTestLogger())
	sub := p.Subscribe(context.Background())
	collect(t, sub)

	if maxSeen.Load() != 1 {
		t.Errorf("overlapping polls observed: max in flight = %d", maxSeen.Load())
	}
}

func TestStructuralEqualityNotByteEquality(t *testing.T) {
	type snapshot struct {
		Names []string
	}
	// Two polls produce equal decoded values; only one emission expected.
	var count atomic.Int32
	poll := func(context.Context) (snapshot, error) {
		if count.Add(1) > 2 {
			return snapshot{}, errPollsExhausted
		}
		return snapshot{Names: []string{"iPhone", "iPad"}}, nil
	}

	p := New(poll, time.Millisecond, newTestLogger())
	sub := p.Subscribe(context.Background())

	var got []snapshot
	for v := range sub.Updates() {
		got = append(got, v)
	}
	if len(got) != 1 {
		t.Errorf("emitted %d snapshots, want 1", len(got))
	}
}
