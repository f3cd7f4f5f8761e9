// Package engine runs the search-as-you-type orchestration loop.
//
// Every input (text edits, mode switches, timer fires, request completions,
// teardown) is an event on one channel consumed by a single goroutine, so the
// query state, the result store and the per-mode coordinators are only ever
// touched by that goroutine.
package engine

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"hybridsearch/internal/domain"
	"hybridsearch/internal/search"
)

// DefaultDebounce is the quiescence window before a request is issued
const DefaultDebounce = 10 * time.Millisecond

const eventBuffer = 64

// StateSync mirrors the query state into navigation state
type StateSync interface {
	Load() domain.QueryState
	Persist(state domain.QueryState) error
}

// Observer receives everything the engine wants the outside world to see.
// Methods run on the engine loop and must not call back into the Engine.
type Observer interface {
	ResultsChanged(snapshot domain.Snapshot)
	SearchFailed(mode domain.Mode, query string, err error)
	StatePersisted(state domain.QueryState)
}

type nopObserver struct{}

func (nopObserver) ResultsChanged(domain.Snapshot)          {}
func (nopObserver) SearchFailed(domain.Mode, string, error) {}
func (nopObserver) StatePersisted(domain.QueryState)        {}

// Option configures an Engine
type Option func(*Engine)

func WithClock(clock Clock) Option {
	return func(e *Engine) { e.clock = clock }
}

func WithDebounce(d time.Duration) Option {
	return func(e *Engine) { e.debounce = d }
}

func WithLogger(logger *zap.Logger) Option {
	return func(e *Engine) { e.logger = logger }
}

func WithObserver(observer Observer) Option {
	return func(e *Engine) { e.observer = observer }
}

func WithStateSync(sync StateSync) Option {
	return func(e *Engine) { e.sync = sync }
}

// internal loop events
const (
	eventToggleMode domain.EventType = "ToggleMode"
	eventSnapshot   domain.EventType = "Snapshot"
)

type toggleModeEvent struct{}

func (toggleModeEvent) Type() domain.EventType { return eventToggleMode }

type snapshotEvent struct {
	reply chan domain.Snapshot
}

func (snapshotEvent) Type() domain.EventType { return eventSnapshot }

// Engine owns the query state and drives one RequestCoordinator per mode
type Engine struct {
	clock    Clock
	debounce time.Duration
	logger   *zap.Logger
	observer Observer
	sync     StateSync

	strategies   map[domain.Mode]search.Strategy
	coordinators map[domain.Mode]*RequestCoordinator
	store        *ResultStore

	// loop-owned
	ctx     context.Context
	state   domain.QueryState
	version uint64

	events   chan domain.DomainEvent
	done     chan struct{}
	requests sync.WaitGroup
	started  atomic.Bool
	closed   atomic.Bool
	final    domain.Snapshot
}

// New creates an engine. strategies must cover every mode.
func New(strategies map[domain.Mode]search.Strategy, opts ...Option) (*Engine, error) {
	e := &Engine{
		clock:      RealClock(),
		debounce:   DefaultDebounce,
		logger:     zap.NewNop(),
		observer:   nopObserver{},
		strategies: strategies,
		store:      NewResultStore(),
		events:     make(chan domain.DomainEvent, eventBuffer),
		done:       make(chan struct{}),
	}
	for _, opt := range opts {
		opt(e)
	}
	e.logger = e.logger.Named("engine")

	debouncer := NewDebouncer(e.clock)
	e.coordinators = make(map[domain.Mode]*RequestCoordinator, len(domain.Modes))
	for _, mode := range domain.Modes {
		strategy, ok := strategies[mode]
		if !ok || strategy == nil {
			return nil, fmt.Errorf("no search strategy for %s mode", mode)
		}
		if strategy.Mode() != mode {
			return nil, fmt.Errorf("strategy for %s mode reports %s", mode, strategy.Mode())
		}
		e.coordinators[mode] = newRequestCoordinator(strategy, debouncer, e.debounce, e.post, &e.requests, e.logger)
	}

	return e, nil
}

// Start seeds the query state from navigation state and runs the loop.
// Canceling ctx tears the engine down like Close.
func (e *Engine) Start(ctx context.Context) {
	if e.closed.Load() || !e.started.CompareAndSwap(false, true) {
		return
	}
	go e.run(ctx)
}

// SetText replaces the query text
func (e *Engine) SetText(text string) {
	e.post(domain.TextChangedEvent{Text: text})
}

// SetMode switches to mode
func (e *Engine) SetMode(mode domain.Mode) {
	e.post(domain.ModeChangedEvent{Mode: mode})
}

// ToggleMode flips between group and chunk mode
func (e *Engine) ToggleMode() {
	e.post(toggleModeEvent{})
}

// Snapshot returns the current state once all earlier events are handled
func (e *Engine) Snapshot() domain.Snapshot {
	if !e.started.Load() {
		return e.final
	}
	reply := make(chan domain.Snapshot, 1)
	if !e.post(snapshotEvent{reply: reply}) {
		return e.final
	}
	select {
	case s := <-reply:
		return s
	case <-e.done:
		return e.final
	}
}

// Close cancels every timer and request and waits for them to be released
func (e *Engine) Close() {
	if !e.closed.CompareAndSwap(false, true) {
		<-e.done
		return
	}
	if !e.started.Load() {
		close(e.done)
		return
	}
	e.post(domain.TeardownEvent{})
	<-e.done
	e.requests.Wait()
}

// post hands ev to the loop; it fails once the loop has exited
func (e *Engine) post(ev domain.DomainEvent) bool {
	select {
	case e.events <- ev:
		return true
	case <-e.done:
		return false
	}
}

func (e *Engine) run(ctx context.Context) {
	defer close(e.done)

	e.ctx = ctx
	e.seed()

	for {
		select {
		case <-ctx.Done():
			e.teardown()
			return
		case ev := <-e.events:
			if stop := e.handle(ev); stop {
				return
			}
		}
	}
}

func (e *Engine) seed() {
	if e.sync != nil {
		e.state = e.sync.Load()
	}
	e.logger.Info("starting",
		zap.String("query", e.state.Text),
		zap.Stringer("mode", e.state.Mode))
	e.persist()
	e.reconcile()
	e.publish()
}

func (e *Engine) handle(ev domain.DomainEvent) bool {
	switch ev := ev.(type) {
	case domain.TextChangedEvent:
		e.apply(domain.QueryState{Text: ev.Text, Mode: e.state.Mode})

	case domain.ModeChangedEvent:
		e.apply(domain.QueryState{Text: e.state.Text, Mode: ev.Mode})

	case toggleModeEvent:
		e.apply(domain.QueryState{Text: e.state.Text, Mode: e.state.Mode.Toggle()})

	case domain.TriggerFiredEvent:
		e.fire(ev)

	case domain.RequestSettledEvent:
		e.settle(ev)

	case snapshotEvent:
		ev.reply <- e.snapshot()

	case domain.TeardownEvent:
		e.teardown()
		return true

	default:
		e.logger.Warn("unknown event", zap.String("type", string(ev.Type())))
	}
	return false
}

// apply moves to next and re-runs both mode chains
func (e *Engine) apply(next domain.QueryState) {
	if next == e.state {
		return
	}
	e.state = next
	e.persist()
	e.reconcile()
	e.publish()
}

// reconcile cancels whatever either mode had scheduled or in flight, clears
// the stores that may no longer render and arms the active mode
func (e *Engine) reconcile() {
	for _, mode := range domain.Modes {
		c := e.coordinators[mode]
		c.Cancel()

		if mode != e.state.Mode || e.state.Empty() {
			e.store.Clear(mode)
			continue
		}
		c.Arm(e.state.Text)
	}
}

func (e *Engine) fire(ev domain.TriggerFiredEvent) {
	if ev.Mode != e.state.Mode || e.state.Empty() {
		return
	}
	if e.coordinators[ev.Mode].Fire(e.ctx, ev.TriggerID) {
		e.publish()
	}
}

func (e *Engine) settle(ev domain.RequestSettledEvent) {
	log := e.logger.With(
		zap.Stringer("mode", ev.Mode),
		zap.Uint64("request", ev.RequestID),
		zap.String("query", ev.Query))

	if !e.coordinators[ev.Mode].Settle(ev) {
		log.Debug("dropping stale completion")
		return
	}

	switch search.Classify(ev.Err) {
	case search.KindNone:
		if ev.Results == nil || ev.Results.Mode() != ev.Mode {
			e.observer.SearchFailed(ev.Mode, ev.Query, &search.DecodeError{Err: fmt.Errorf("result set does not match %s mode", ev.Mode)})
			break
		}
		e.store.Replace(ev.Results)
		log.Debug("search settled", zap.Int("results", ev.Results.Len()))
	case search.KindCanceled:
		log.Debug("search canceled")
	default:
		// Existing results stay in place
		e.observer.SearchFailed(ev.Mode, ev.Query, ev.Err)
	}
	e.publish()
}

func (e *Engine) teardown() {
	for _, mode := range domain.Modes {
		e.coordinators[mode].Cancel()
	}
	e.final = e.snapshot()
	e.logger.Info("stopped")
}

func (e *Engine) persist() {
	if e.sync == nil {
		return
	}
	if err := e.sync.Persist(e.state); err != nil {
		e.logger.Warn("failed to persist query state", zap.Error(err))
		return
	}
	e.observer.StatePersisted(e.state)
}

func (e *Engine) publish() {
	e.version++
	e.observer.ResultsChanged(e.snapshot())
}

func (e *Engine) snapshot() domain.Snapshot {
	return domain.Snapshot{
		Version: e.version,
		State:   e.state,
		Results: e.store.Active(e.state),
		Loading: e.coordinators[e.state.Mode].Phase() != PhaseIdle,
	}
}
