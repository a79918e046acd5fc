// Package packetqueue holds the compressed packets of one stream in decode
// order. A demuxer fills it from its own goroutine while the decode pipeline
// drains it from the presentation thread without ever blocking.
package packetqueue

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"sync/atomic"

	"github.com/emirpasic/gods/v2/lists/doublylinkedlist"

	"github.com/harshabose/simple_webrtc_comm/videostream/pkg/codec"
)

var (
	ErrorQueueFull   = errors.New("packet queue is full")
	ErrorQueueClosed = errors.New("packet queue is closed")
)

const (
	DefaultCapacity = 256
	maxRecycled     = 64
)

type Queue struct {
	list     *doublylinkedlist.List[*codec.Packet]
	recycled []*codec.Packet
	capacity int
	closed   bool
	space    chan struct{}
	log      *slog.Logger

	pushed    atomic.Uint64
	discarded atomic.Uint64

	mux sync.Mutex
}

type Option = func(*Queue) error

func WithCapacity(n int) Option {
	return func(q *Queue) error {
		if n <= 0 {
			return errors.New("capacity must be positive")
		}
		q.capacity = n
		return nil
	}
}

func WithLogger(log *slog.Logger) Option {
	return func(q *Queue) error {
		if log != nil {
			q.log = log
		}
		return nil
	}
}

func New(options ...Option) (*Queue, error) {
	q := &Queue{
		list:     doublylinkedlist.New[*codec.Packet](),
		capacity: DefaultCapacity,
		space:    make(chan struct{}, 1),
		log:      slog.Default(),
	}

	for _, option := range options {
		if err := option(q); err != nil {
			return nil, err
		}
	}

	q.log = q.log.With("component", "packet-queue")
	return q, nil
}

// TryPush appends packet at the back without waiting.
func (q *Queue) TryPush(packet *codec.Packet) error {
	q.mux.Lock()
	defer q.mux.Unlock()

	if q.closed {
		return ErrorQueueClosed
	}
	if q.list.Size() >= q.capacity {
		return ErrorQueueFull
	}

	q.list.Add(packet)
	q.pushed.Add(1)
	return nil
}

// Push appends packet at the back, waiting for room until ctx is done.
func (q *Queue) Push(ctx context.Context, packet *codec.Packet) error {
	for {
		err := q.TryPush(packet)
		if !errors.Is(err, ErrorQueueFull) {
			return err
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-q.space:
		}
	}
}

// PushData copies data into a recycled packet when one is available and pushes it.
func (q *Queue) PushData(ctx context.Context, data []byte, pts, dts int64) error {
	packet := q.get()
	packet.Reset(data, pts, dts)

	if err := q.Push(ctx, packet); err != nil {
		q.put(packet)
		return err
	}
	return nil
}

// PopNext removes the front packet. It never blocks; false means nothing is queued yet.
func (q *Queue) PopNext() (*codec.Packet, bool) {
	q.mux.Lock()
	defer q.mux.Unlock()

	packet, ok := q.list.Get(0)
	if !ok {
		return nil, false
	}
	q.list.Remove(0)
	q.signalSpace()

	return packet, true
}

// Prepend puts a partially consumed packet back at the front so it is decoded before anything queued after it.
func (q *Queue) Prepend(packet *codec.Packet) {
	q.mux.Lock()
	defer q.mux.Unlock()

	q.list.Prepend(packet)
}

// Discard releases a packet that left the queue for good and keeps its storage for reuse.
func (q *Queue) Discard(packet *codec.Packet) {
	if packet == nil {
		return
	}
	if err := packet.Release(); err != nil {
		q.log.Warn("discarding packet twice", "error", err)
		return
	}
	q.discarded.Add(1)
	q.put(packet)
}

func (q *Queue) Len() int {
	q.mux.Lock()
	defer q.mux.Unlock()

	return q.list.Size()
}

// Clear releases every queued packet.
func (q *Queue) Clear() {
	q.mux.Lock()
	packets := q.list.Values()
	q.list.Clear()
	q.signalSpace()
	q.mux.Unlock()

	for _, packet := range packets {
		q.Discard(packet)
	}
}

// Close clears the queue and makes further pushes fail.
func (q *Queue) Close() {
	q.mux.Lock()
	q.closed = true
	q.mux.Unlock()

	q.Clear()
}

func (q *Queue) Pushed() uint64 {
	return q.pushed.Load()
}

func (q *Queue) Discarded() uint64 {
	return q.discarded.Load()
}

func (q *Queue) signalSpace() {
	select {
	case q.space <- struct{}{}:
	default:
	}
}

func (q *Queue) get() *codec.Packet {
	q.mux.Lock()
	defer q.mux.Unlock()

	if n := len(q.recycled); n > 0 {
		packet := q.recycled[n-1]
		q.recycled = q.recycled[:n-1]
		return packet
	}
	return &codec.Packet{}
}

func (q *Queue) put(packet *codec.Packet) {
	q.mux.Lock()
	defer q.mux.Unlock()

	if len(q.recycled) < maxRecycled {
		q.recycled = append(q.recycled, packet)
	}
}
