package event

import (
	"log/slog"
	"sync"
	"sync/atomic"
)

const defaultSubscriberBuffer = 100

type subscriber struct {
	name    string
	ch      chan Event
	dropped atomic.Int64
}

// MemoryBus fans events out to in-process subscribers. Publish never blocks;
// a subscriber whose buffer is full misses the event.
type MemoryBus struct {
	mu     sync.RWMutex
	next   uint64
	buffer int
	subs   map[uint64]*subscriber
}

func NewBus() *MemoryBus {
	return NewBusWithBuffer(defaultSubscriberBuffer)
}

func NewBusWithBuffer(buffer int) *MemoryBus {
	if buffer <= 0 {
		buffer = defaultSubscriberBuffer
	}

	return &MemoryBus{buffer: buffer, subs: make(map[uint64]*subscriber)}
}

func (b *MemoryBus) Publish(e Event) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	for _, sub := range b.subs {
		select {
		case sub.ch <- e:
		default:
			// first drop, then every hundredth
			if dropped := sub.dropped.Add(1); dropped%100 == 1 {
				slog.Warn("event dropped for slow subscriber", "subscriber", sub.name, "type", e.Type, "dropped", dropped)
			}
		}
	}
}

// Subscribe registers a named consumer. The returned func unsubscribes and
// closes the channel; calling it twice is safe.
func (b *MemoryBus) Subscribe(name string) (<-chan Event, func()) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.next++
	id := b.next
	sub := &subscriber{name: name, ch: make(chan Event, b.buffer)}
	b.subs[id] = sub

	return sub.ch, func() {
		b.mu.Lock()
		defer b.mu.Unlock()

		if _, ok := b.subs[id]; ok {
			delete(b.subs, id)
			close(sub.ch)
		}
	}
}

// Dropped reports how many events named subscribers have missed.
func (b *MemoryBus) Dropped(name string) int64 {
	b.mu.RLock()
	defer b.mu.RUnlock()

	var total int64
	for _, sub := range b.subs {
		if sub.name == name {
			total += sub.dropped.Load()
		}
	}
	return total
}

// Subscribers reports how many consumers are attached.
func (b *MemoryBus) Subscribers() int {
	b.mu.RLock()
	defer b.mu.RUnlock()

	return len(b.subs)
}
