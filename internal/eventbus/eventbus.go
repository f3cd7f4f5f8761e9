package eventbus

import (
	"runtime/debug"
	"sync"

	"go.uber.org/zap"

	"hybridsearch/internal/domain"
)

// Re-export domain types for convenience
type DomainEvent = domain.DomainEvent
type EventType = domain.EventType

// Event type constants
const (
	EventResultsUpdated  = domain.EventResultsUpdated
	EventSearchFailed    = domain.EventSearchFailed
	EventStatePersisted  = domain.EventStatePersisted
	EventSelectionOpened = domain.EventSelectionOpened
)

// Re-export domain event types
type ResultsUpdatedEvent = domain.ResultsUpdatedEvent
type SearchFailedEvent = domain.SearchFailedEvent
type StatePersistedEvent = domain.StatePersistedEvent
type SelectionOpenedEvent = domain.SelectionOpenedEvent

// EventHandler is a function that handles domain events
type EventHandler func(DomainEvent)

// EventBus is the interface for the event bus
type EventBus interface {
	Publish(event DomainEvent)
	Subscribe(eventType EventType, handler EventHandler) func()
	Close()
}

type subscription struct {
	id      uint64
	handler EventHandler
}

// bus is the concrete implementation of EventBus
type bus struct {
	mu        sync.RWMutex
	handlers  map[EventType][]subscription
	nextID    uint64
	eventChan chan DomainEvent
	wg        sync.WaitGroup
	quit      chan struct{}
	closeOnce sync.Once
	logger    *zap.Logger
}

const bufferSize = 1000

// New creates a new event bus
func New(logger *zap.Logger) EventBus {
	b := newBus(logger, bufferSize)
	b.start()
	return b
}

func newBus(logger *zap.Logger, size int) *bus {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &bus{
		handlers:  make(map[EventType][]subscription),
		eventChan: make(chan DomainEvent, size),
		quit:      make(chan struct{}),
		logger:    logger.Named("eventbus"),
	}
}

func (b *bus) start() {
	b.wg.Add(1)
	go b.dispatch()
}

// Publish publishes an event to all subscribers
func (b *bus) Publish(event DomainEvent) {
	// Result updates fire on every keystroke
	if event.Type() != EventResultsUpdated {
		b.logger.Debug("publishing event", zap.String("type", string(event.Type())))
	}

	select {
	case <-b.quit:
		return
	default:
	}

	// The latest snapshot must reach the UI, so it waits for room
	if event.Type() == EventResultsUpdated {
		select {
		case b.eventChan <- event:
		case <-b.quit:
		}
		return
	}

	select {
	case b.eventChan <- event:
	default:
		b.logger.Warn("event bus channel full, dropping event", zap.String("type", string(event.Type())))
	}
}

// Subscribe subscribes to events of a specific type
// Returns an unsubscribe function
func (b *bus) Subscribe(eventType EventType, handler EventHandler) func() {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.nextID++
	id := b.nextID
	b.handlers[eventType] = append(b.handlers[eventType], subscription{id: id, handler: handler})

	return func() {
		b.mu.Lock()
		defer b.mu.Unlock()

		subs := b.handlers[eventType]
		for i, s := range subs {
			if s.id == id {
				b.handlers[eventType] = append(subs[:i:i], subs[i+1:]...)
				break
			}
		}
	}
}

// Close stops the dispatcher and waits for running handlers
func (b *bus) Close() {
	b.closeOnce.Do(func() {
		close(b.quit)
	})
	b.wg.Wait()
}

// dispatch handles event distribution to subscribers
func (b *bus) dispatch() {
	defer b.wg.Done()

	for {
		select {
		case event := <-b.eventChan:
			b.mu.RLock()
			subs := b.handlers[event.Type()]
			// Copy so handlers run without the lock
			handlers := make([]EventHandler, len(subs))
			for i, s := range subs {
				handlers[i] = s.handler
			}
			b.mu.RUnlock()

			for _, handler := range handlers {
				b.wg.Add(1)
				go func(h EventHandler, eventType EventType) {
					defer b.wg.Done()
					defer func() {
						if r := recover(); r != nil {
							b.logger.Error("event handler panic",
								zap.String("type", string(eventType)),
								zap.Any("panic", r),
								zap.ByteString("stack", debug.Stack()))
						}
					}()
					h(event)
				}(handler, event.Type())
			}

		case <-b.quit:
			// Drain remaining events
			for {
				select {
				case <-b.eventChan:
				default:
					return
				}
			}
		}
	}
}
