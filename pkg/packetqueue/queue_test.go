package packetqueue

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/harshabose/simple_webrtc_comm/videostream/pkg/codec"
)

func newQueue(t *testing.T, options ...Option) *Queue {
	t.Helper()

	q, err := New(options...)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return q
}

func TestPopNextEmpty(t *testing.T) {
	t.Parallel()

	q := newQueue(t)
	if p, ok := q.PopNext(); ok || p != nil {
		t.Errorf("PopNext on empty queue: got %v, %v", p, ok)
	}
}

func TestOrderAndPrepend(t *testing.T) {
	t.Parallel()

	q := newQueue(t)
	a := codec.NewPacket([]byte{1, 1}, 0, 0)
	b := codec.NewPacket([]byte{2}, 1, 1)

	for _, p := range []*codec.Packet{a, b} {
		if err := q.TryPush(p); err != nil {
			t.Fatalf("TryPush: %v", err)
		}
	}

	got, _ := q.PopNext()
	if got != a {
		t.Fatal("first pop should return the first pushed packet")
	}

	_ = got.Advance(1)
	q.Prepend(got)

	if q.Len() != 2 {
		t.Errorf("Len: got %d, want 2", q.Len())
	}

	got, _ = q.PopNext()
	if got != a || got.Remaining() != 1 {
		t.Errorf("prepended packet should come back first with its cursor kept")
	}
	got, _ = q.PopNext()
	if got != b {
		t.Error("second packet should follow")
	}
}

func TestCapacity(t *testing.T) {
	t.Parallel()

	q := newQueue(t, WithCapacity(1))
	if err := q.TryPush(codec.NewPacket([]byte{1}, 0, 0)); err != nil {
		t.Fatal(err)
	}
	if err := q.TryPush(codec.NewPacket([]byte{2}, 0, 0)); !errors.Is(err, ErrorQueueFull) {
		t.Errorf("second push: got %v, want ErrorQueueFull", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	if err := q.Push(ctx, codec.NewPacket([]byte{3}, 0, 0)); !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("blocking push on full queue: got %v, want deadline exceeded", err)
	}

	if _, err := New(WithCapacity(0)); err == nil {
		t.Error("zero capacity should be rejected")
	}
}

func TestPushWaitsForSpace(t *testing.T) {
	t.Parallel()

	q := newQueue(t, WithCapacity(1))
	_ = q.TryPush(codec.NewPacket([]byte{1}, 0, 0))

	done := make(chan error, 1)
	go func() {
		done <- q.Push(context.Background(), codec.NewPacket([]byte{2}, 0, 0))
	}()

	time.Sleep(10 * time.Millisecond)
	q.PopNext()

	select {
	case err := <-done:
		if err != nil {
			t.Errorf("Push: %v", err)
		}
	case <-time.After(time.Second):
		t.Fatal("Push did not resume after a pop")
	}
}

func TestDiscardRecyclesOnce(t *testing.T) {
	t.Parallel()

	q := newQueue(t)
	if err := q.PushData(context.Background(), []byte{9, 9, 9}, 5, 4); err != nil {
		t.Fatal(err)
	}

	p, _ := q.PopNext()
	q.Discard(p)
	q.Discard(p)

	if q.Discarded() != 1 {
		t.Errorf("Discarded: got %d, want 1", q.Discarded())
	}

	if err := q.PushData(context.Background(), []byte{1}, 6, 6); err != nil {
		t.Fatal(err)
	}
	reused, _ := q.PopNext()
	if reused != p {
		t.Error("discarded packet storage should be reused")
	}
	if reused.Released() || reused.Remaining() != 1 || reused.PTS() != 6 {
		t.Error("reused packet should carry the new data")
	}
}

func TestCloseClears(t *testing.T) {
	t.Parallel()

	q := newQueue(t)
	p := codec.NewPacket([]byte{1}, 0, 0)
	_ = q.TryPush(p)

	q.Close()

	if q.Len() != 0 || !p.Released() {
		t.Error("Close should release queued packets")
	}
	if err := q.TryPush(codec.NewPacket([]byte{1}, 0, 0)); !errors.Is(err, ErrorQueueClosed) {
		t.Errorf("push after close: got %v", err)
	}
	if q.Pushed() != 1 {
		t.Errorf("Pushed: got %d, want 1", q.Pushed())
	}
}
