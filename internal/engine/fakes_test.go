package engine

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"hybridsearch/internal/domain"
	"hybridsearch/internal/search"
)

// fakeClock fires timers only when advanced
type fakeClock struct {
	mu     sync.Mutex
	now    time.Duration
	timers []*fakeTimer
}

type fakeTimer struct {
	clock   *fakeClock
	at      time.Duration
	f       func()
	stopped bool
	fired   bool
}

func (c *fakeClock) AfterFunc(d time.Duration, f func()) Timer {
	c.mu.Lock()
	defer c.mu.Unlock()
	t := &fakeTimer{clock: c, at: c.now + d, f: f}
	c.timers = append(c.timers, t)
	return t
}

func (t *fakeTimer) Stop() bool {
	t.clock.mu.Lock()
	defer t.clock.mu.Unlock()
	if t.stopped || t.fired {
		return false
	}
	t.stopped = true
	return true
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now += d
	var due []func()
	for _, t := range c.timers {
		if !t.stopped && !t.fired && t.at <= c.now {
			t.fired = true
			due = append(due, t.f)
		}
	}
	c.mu.Unlock()

	for _, f := range due {
		f()
	}
}

// Live counts timers that are neither stopped nor fired
func (c *fakeClock) Live() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	n := 0
	for _, t := range c.timers {
		if !t.stopped && !t.fired {
			n++
		}
	}
	return n
}

type reply struct {
	results domain.ResultSet
	err     error
}

type fakeCall struct {
	query string
	ctx   context.Context
	reply chan reply
}

func (c *fakeCall) respond(results domain.ResultSet, err error) {
	c.reply <- reply{results: results, err: err}
}

// fakeStrategy blocks every search until the test responds.
// With ignoreCancel set it keeps waiting after its context is canceled,
// like a response that is already on the wire.
type fakeStrategy struct {
	mode         domain.Mode
	ignoreCancel bool

	mu    sync.Mutex
	calls []*fakeCall
}

func newFakeStrategy(mode domain.Mode) *fakeStrategy {
	return &fakeStrategy{mode: mode}
}

func (s *fakeStrategy) Mode() domain.Mode { return s.mode }

func (s *fakeStrategy) Search(ctx context.Context, query string) (domain.ResultSet, error) {
	call := &fakeCall{query: query, ctx: ctx, reply: make(chan reply, 1)}
	s.mu.Lock()
	s.calls = append(s.calls, call)
	ignore := s.ignoreCancel
	s.mu.Unlock()

	if ignore {
		r := <-call.reply
		return r.results, r.err
	}
	select {
	case r := <-call.reply:
		return r.results, r.err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func (s *fakeStrategy) queries() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]string, len(s.calls))
	for i, c := range s.calls {
		out[i] = c.query
	}
	return out
}

// waitCall blocks until the n-th (1-based) call has been made and returns it
func (s *fakeStrategy) waitCall(t *testing.T, n int) *fakeCall {
	t.Helper()
	require.Eventually(t, func() bool {
		return len(s.queries()) >= n
	}, time.Second, time.Millisecond, "expected %d search calls", n)
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls[n-1]
}

type failure struct {
	mode  domain.Mode
	query string
	err   error
}

type recordingObserver struct {
	mu        sync.Mutex
	snapshots []domain.Snapshot
	failures  []failure
	persisted []domain.QueryState
}

func (o *recordingObserver) ResultsChanged(s domain.Snapshot) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.snapshots = append(o.snapshots, s)
}

func (o *recordingObserver) SearchFailed(mode domain.Mode, query string, err error) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.failures = append(o.failures, failure{mode: mode, query: query, err: err})
}

func (o *recordingObserver) StatePersisted(state domain.QueryState) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.persisted = append(o.persisted, state)
}

func (o *recordingObserver) Failures() []failure {
	o.mu.Lock()
	defer o.mu.Unlock()
	return append([]failure(nil), o.failures...)
}

func (o *recordingObserver) Persisted() []domain.QueryState {
	o.mu.Lock()
	defer o.mu.Unlock()
	return append([]domain.QueryState(nil), o.persisted...)
}

func strategiesFor(group, chunk search.Strategy) map[domain.Mode]search.Strategy {
	return map[domain.Mode]search.Strategy{
		domain.ModeGroup: group,
		domain.ModeChunk: chunk,
	}
}

func chunks(ids ...string) domain.ChunkResults {
	out := make(domain.ChunkResults, len(ids))
	for i, id := range ids {
		out[i] = domain.ChunkMetadata{ID: id, ChunkHTML: id}
	}
	return out
}

func groups(name string, ids ...string) domain.GroupResults {
	return domain.GroupResults{{Name: name, Entries: []domain.ChunkMetadata(chunks(ids...))}}
}
