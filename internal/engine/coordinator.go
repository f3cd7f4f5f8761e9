package engine

import (
	"context"
	"errors"
	"sync"
	"time"

	"go.uber.org/zap"

	"hybridsearch/internal/domain"
	"hybridsearch/internal/search"
)

// ErrEmptyQuery is returned when a search is requested without text
var ErrEmptyQuery = errors.New("query is empty")

// Phase is where a mode's request lifecycle currently stands
type Phase int

const (
	PhaseIdle Phase = iota
	// PhaseScheduled means a debounce timer is armed
	PhaseScheduled
	// PhasePending means a network call is in flight
	PhasePending
)

func (p Phase) String() string {
	switch p {
	case PhaseScheduled:
		return "scheduled"
	case PhasePending:
		return "pending"
	default:
		return "idle"
	}
}

// PendingRequest is the single live request of a mode
type PendingRequest struct {
	ID     uint64
	Query  string
	cancel context.CancelFunc
}

type trigger struct {
	id     uint64
	query  string
	handle CancelHandle
}

// RequestCoordinator owns the debounce timer and the in-flight request of one mode.
// It is not safe for concurrent use; the engine loop is its only caller.
type RequestCoordinator struct {
	mode      domain.Mode
	strategy  search.Strategy
	debouncer *Debouncer
	delay     time.Duration
	post      func(domain.DomainEvent) bool
	wg        *sync.WaitGroup
	logger    *zap.Logger

	nextID  uint64
	trigger *trigger
	pending *PendingRequest
}

func newRequestCoordinator(
	strategy search.Strategy,
	debouncer *Debouncer,
	delay time.Duration,
	post func(domain.DomainEvent) bool,
	wg *sync.WaitGroup,
	logger *zap.Logger,
) *RequestCoordinator {
	mode := strategy.Mode()
	return &RequestCoordinator{
		mode:      mode,
		strategy:  strategy,
		debouncer: debouncer,
		delay:     delay,
		post:      post,
		wg:        wg,
		logger:    logger.With(zap.Stringer("mode", mode)),
	}
}

// Phase reports the current lifecycle phase
func (c *RequestCoordinator) Phase() Phase {
	switch {
	case c.pending != nil:
		return PhasePending
	case c.trigger != nil:
		return PhaseScheduled
	default:
		return PhaseIdle
	}
}

// Pending returns the in-flight request, nil when there is none
func (c *RequestCoordinator) Pending() *PendingRequest {
	return c.pending
}

// Arm supersedes whatever is scheduled or in flight and starts a new debounce window
func (c *RequestCoordinator) Arm(query string) uint64 {
	c.Cancel()

	c.nextID++
	id := c.nextID
	mode := c.mode
	handle := c.debouncer.Schedule(func() {
		c.post(domain.TriggerFiredEvent{Mode: mode, TriggerID: id})
	}, c.delay)

	c.trigger = &trigger{id: id, query: query, handle: handle}
	return id
}

// Fire turns the armed trigger into a request. Fires for superseded triggers are ignored.
func (c *RequestCoordinator) Fire(ctx context.Context, triggerID uint64) bool {
	if c.trigger == nil || c.trigger.id != triggerID {
		c.logger.Debug("ignoring superseded trigger", zap.Uint64("trigger", triggerID))
		return false
	}
	query := c.trigger.query
	c.trigger = nil

	if _, err := c.Search(ctx, query); err != nil {
		return false
	}
	return true
}

// Search cancels any previous request and issues a new one.
// The outcome arrives later as a RequestSettledEvent.
func (c *RequestCoordinator) Search(ctx context.Context, query string) (uint64, error) {
	if query == "" {
		return 0, ErrEmptyQuery
	}
	c.cancelPending()

	c.nextID++
	id := c.nextID
	reqCtx, cancel := context.WithCancel(ctx)
	c.pending = &PendingRequest{ID: id, Query: query, cancel: cancel}

	c.logger.Debug("issuing search", zap.Uint64("request", id), zap.String("query", query))

	strategy := c.strategy
	mode := c.mode
	c.wg.Add(1)
	go func() {
		defer c.wg.Done()
		results, err := strategy.Search(reqCtx, query)
		c.post(domain.RequestSettledEvent{
			Mode:      mode,
			RequestID: id,
			Query:     query,
			Results:   results,
			Err:       err,
		})
	}()

	return id, nil
}

// Settle accepts the completion of the live request and rejects anything stale
func (c *RequestCoordinator) Settle(ev domain.RequestSettledEvent) bool {
	if c.pending == nil || c.pending.ID != ev.RequestID {
		return false
	}
	c.pending.cancel()
	c.pending = nil
	return true
}

// Cancel releases the armed timer and aborts the in-flight request together.
// It reports whether anything was live.
func (c *RequestCoordinator) Cancel() bool {
	canceled := false
	if c.trigger != nil {
		c.trigger.handle.Cancel()
		c.trigger = nil
		canceled = true
	}
	if c.cancelPending() {
		canceled = true
	}
	return canceled
}

func (c *RequestCoordinator) cancelPending() bool {
	if c.pending == nil {
		return false
	}
	c.logger.Debug("canceling search", zap.Uint64("request", c.pending.ID), zap.String("query", c.pending.Query))
	c.pending.cancel()
	c.pending = nil
	return true
}
