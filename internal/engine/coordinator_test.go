package engine

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"hybridsearch/internal/domain"
)

type coordinatorFixture struct {
	clock    *fakeClock
	strategy *fakeStrategy
	events   chan domain.DomainEvent
	wg       sync.WaitGroup
	c        *RequestCoordinator
}

func newCoordinatorFixture() *coordinatorFixture {
	f := &coordinatorFixture{
		clock:    &fakeClock{},
		strategy: newFakeStrategy(domain.ModeChunk),
		events:   make(chan domain.DomainEvent, 16),
	}
	post := func(ev domain.DomainEvent) bool {
		f.events <- ev
		return true
	}
	f.c = newRequestCoordinator(f.strategy, NewDebouncer(f.clock), testDebounce, post, &f.wg, zap.NewNop())
	return f
}

func (f *coordinatorFixture) next(t *testing.T) domain.DomainEvent {
	t.Helper()
	select {
	case ev := <-f.events:
		return ev
	case <-time.After(time.Second):
		t.Fatal("no event posted")
		return nil
	}
}

func TestCoordinatorLifecycle(t *testing.T) {
	f := newCoordinatorFixture()
	assert.Equal(t, PhaseIdle, f.c.Phase())

	triggerID := f.c.Arm("abc")
	assert.Equal(t, PhaseScheduled, f.c.Phase())

	f.clock.Advance(testDebounce)
	fired, ok := f.next(t).(domain.TriggerFiredEvent)
	require.True(t, ok)
	assert.Equal(t, triggerID, fired.TriggerID)
	assert.Equal(t, domain.ModeChunk, fired.Mode)

	require.True(t, f.c.Fire(context.Background(), fired.TriggerID))
	assert.Equal(t, PhasePending, f.c.Phase())
	require.NotNil(t, f.c.Pending())
	assert.Equal(t, "abc", f.c.Pending().Query)

	f.strategy.waitCall(t, 1).respond(chunks("1"), nil)
	settled, ok := f.next(t).(domain.RequestSettledEvent)
	require.True(t, ok)
	assert.Equal(t, chunks("1"), settled.Results)

	assert.True(t, f.c.Settle(settled))
	assert.Equal(t, PhaseIdle, f.c.Phase())
	f.wg.Wait()
}

func TestCoordinatorIgnoresSupersededTrigger(t *testing.T) {
	f := newCoordinatorFixture()

	first := f.c.Arm("a")
	f.c.Arm("ab")

	assert.False(t, f.c.Fire(context.Background(), first))
	assert.Equal(t, PhaseScheduled, f.c.Phase())
	assert.Empty(t, f.strategy.queries())
}

func TestCoordinatorRejectsStaleSettle(t *testing.T) {
	f := newCoordinatorFixture()

	id1, err := f.c.Search(context.Background(), "cat")
	require.NoError(t, err)
	call1 := f.strategy.waitCall(t, 1)

	id2, err := f.c.Search(context.Background(), "category")
	require.NoError(t, err)
	assert.Greater(t, id2, id1)
	assert.ErrorIs(t, call1.ctx.Err(), context.Canceled)

	stale := f.next(t).(domain.RequestSettledEvent)
	assert.Equal(t, id1, stale.RequestID)
	assert.False(t, f.c.Settle(stale))
	assert.Equal(t, PhasePending, f.c.Phase())

	f.strategy.waitCall(t, 2).respond(chunks("category"), nil)
	fresh := f.next(t).(domain.RequestSettledEvent)
	assert.True(t, f.c.Settle(fresh))
	f.wg.Wait()
}

func TestCoordinatorRejectsEmptyQuery(t *testing.T) {
	f := newCoordinatorFixture()
	_, err := f.c.Search(context.Background(), "")
	require.ErrorIs(t, err, ErrEmptyQuery)
	assert.Equal(t, PhaseIdle, f.c.Phase())
}

func TestCoordinatorCancelReleasesTimerAndRequest(t *testing.T) {
	f := newCoordinatorFixture()

	assert.False(t, f.c.Cancel(), "nothing to cancel")

	_, err := f.c.Search(context.Background(), "x")
	require.NoError(t, err)
	call := f.strategy.waitCall(t, 1)
	f.c.Arm("y")

	// Arm already superseded the request
	assert.ErrorIs(t, call.ctx.Err(), context.Canceled)
	assert.Equal(t, 1, f.clock.Live())

	assert.True(t, f.c.Cancel())
	assert.Equal(t, 0, f.clock.Live())
	assert.Equal(t, PhaseIdle, f.c.Phase())
	f.wg.Wait()
}

func TestResultStore(t *testing.T) {
	s := NewResultStore()
	s.Replace(groups("g", "1"))
	s.Replace(chunks("c"))
	s.Replace(nil)

	assert.Equal(t, groups("g", "1"), s.Get(domain.ModeGroup))
	assert.Equal(t, chunks("c"), s.Active(domain.QueryState{Text: "q", Mode: domain.ModeChunk}))
	assert.Nil(t, s.Active(domain.QueryState{Text: "", Mode: domain.ModeChunk}))

	s.Clear(domain.ModeChunk)
	assert.Nil(t, s.Get(domain.ModeChunk))
	assert.NotNil(t, s.Get(domain.ModeGroup))

	s.ClearAll()
	assert.Nil(t, s.Get(domain.ModeGroup))
}
