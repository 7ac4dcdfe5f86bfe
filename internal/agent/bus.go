package agent

import (
	"log/slog"
	"sync"
)

// Bus fans thinking events out to registered observers in registration
// order. An observer panic is contained and logged; it never interrupts
// delivery to the remaining observers or the run itself.
type Bus struct {
	mu        sync.Mutex
	observers []busEntry
	nextID    int
	logger    *slog.Logger
}

type busEntry struct {
	id       int
	observer Observer
}

// NewBus creates an empty bus. A nil logger discards panic reports.
func NewBus(logger *slog.Logger) *Bus {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Bus{logger: logger}
}

// Register adds an observer and returns a handle for Unregister.
func (b *Bus) Register(observer Observer) int {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.nextID++
	b.observers = append(b.observers, busEntry{id: b.nextID, observer: observer})
	return b.nextID
}

// Unregister removes the observer registered under handle. Unknown
// handles are ignored.
func (b *Bus) Unregister(handle int) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for i, entry := range b.observers {
		if entry.id == handle {
			b.observers = append(b.observers[:i], b.observers[i+1:]...)
			return
		}
	}
}

// Emit delivers the event to every observer in registration order.
func (b *Bus) Emit(event ThinkingEvent) {
	b.mu.Lock()
	entries := make([]busEntry, len(b.observers))
	copy(entries, b.observers)
	b.mu.Unlock()
	for _, entry := range entries {
		b.deliver(entry.observer, event)
	}
}

func (b *Bus) deliver(observer Observer, event ThinkingEvent) {
	defer func() {
		if r := recover(); r != nil {
			b.logger.Error("thinking observer failed", "kind", event.Kind, "panic", r)
		}
	}()
	observer.OnThinking(event)
}
