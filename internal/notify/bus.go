package notify

import (
	"errors"
	"sync"
	"sync/atomic"
)

// ErrClosed is returned when subscribing to or publishing on a closed Bus.
var ErrClosed = errors.New("notify: bus closed")

// DefaultBuffer is the per-subscription channel capacity.
const DefaultBuffer = 64

// Change is published after an UPDATE changed at least one row.
type Change struct {
	ID      string   `json:"id"`
	Seq     int64    `json:"seq"`
	Table   string   `json:"table"`
	Rows    int64    `json:"rows"`
	Columns []string `json:"columns"`
}

// Bus fans change events out to subscribers.
//
// Thread-safety: all methods are safe for concurrent use. Delivery happens
// under the bus mutex, so a Subscription is never closed mid-send.
type Bus struct {
	mu     sync.Mutex
	subs   map[*Subscription]struct{}
	closed bool

	clock  *Clock
	ids    IDGenerator
	buffer int
}

// Option configures a Bus.
type Option func(*Bus)

// WithIDGenerator sets the event ID generator (default UUIDv7Generator).
func WithIDGenerator(g IDGenerator) Option {
	return func(b *Bus) { b.ids = g }
}

// WithClock sets the sequence clock (default NewClock()).
func WithClock(c *Clock) Option {
	return func(b *Bus) { b.clock = c }
}

// WithBuffer sets the per-subscription channel capacity.
// Values below 1 are ignored.
func WithBuffer(n int) Option {
	return func(b *Bus) {
		if n > 0 {
			b.buffer = n
		}
	}
}

// NewBus creates an open Bus.
func NewBus(opts ...Option) *Bus {
	b := &Bus{
		subs:   make(map[*Subscription]struct{}),
		clock:  NewClock(),
		ids:    UUIDv7Generator{},
		buffer: DefaultBuffer,
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Subscribe registers interest in one table. An empty topic receives
// changes for every table.
func (b *Bus) Subscribe(topic string) (*Subscription, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return nil, ErrClosed
	}

	s := &Subscription{
		topic: topic,
		ch:    make(chan Change, b.buffer),
		bus:   b,
	}
	b.subs[s] = struct{}{}
	return s, nil
}

// Publish stamps and delivers a change event for table.
// Delivery is non-blocking; a subscriber with a full buffer misses the event
// and its Dropped counter is incremented.
func (b *Bus) Publish(table string, rows int64, columns []string) (Change, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return Change{}, ErrClosed
	}

	cols := make([]string, len(columns))
	copy(cols, columns)

	ev := Change{
		ID:      b.ids.Generate(),
		Seq:     b.clock.Next(),
		Table:   table,
		Rows:    rows,
		Columns: cols,
	}

	for s := range b.subs {
		if s.topic != "" && s.topic != table {
			continue
		}
		select {
		case s.ch <- ev:
		default:
			s.dropped.Add(1)
		}
	}

	return ev, nil
}

// Close closes every subscription channel and rejects further use.
// Close is idempotent.
func (b *Bus) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return
	}
	b.closed = true
	for s := range b.subs {
		close(s.ch)
		delete(b.subs, s)
	}
}

// Subscription is one subscriber's view of the bus.
type Subscription struct {
	topic   string
	ch      chan Change
	dropped atomic.Int64
	bus     *Bus
}

// C returns the channel events are delivered on. It is closed when the
// subscription or the bus is closed.
func (s *Subscription) C() <-chan Change {
	return s.ch
}

// Topic returns the subscribed table ("" for all tables).
func (s *Subscription) Topic() string {
	return s.topic
}

// Dropped returns how many events were discarded because the buffer was full.
func (s *Subscription) Dropped() int64 {
	return s.dropped.Load()
}

// Close unsubscribes and closes the channel. Close is idempotent.
func (s *Subscription) Close() {
	b := s.bus
	b.mu.Lock()
	defer b.mu.Unlock()

	if _, ok := b.subs[s]; !ok {
		return
	}
	delete(b.subs, s)
	close(s.ch)
}

// Drain returns every event currently buffered without blocking.
func (s *Subscription) Drain() []Change {
	var out []Change
	for {
		select {
		case ev, ok := <-s.ch:
			if !ok {
				return out
			}
			out = append(out, ev)
		default:
			return out
		}
	}
}
