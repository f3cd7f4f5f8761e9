package engine

import "hybridsearch/internal/domain"

// ResultStore holds the latest accepted result set per mode.
// Slots are independent; only the active mode's slot is ever rendered.
type ResultStore struct {
	slots map[domain.Mode]domain.ResultSet
}

func NewResultStore() *ResultStore {
	return &ResultStore{slots: make(map[domain.Mode]domain.ResultSet)}
}

// Replace stores results in the slot of their own mode
func (s *ResultStore) Replace(results domain.ResultSet) {
	if results == nil {
		return
	}
	s.slots[results.Mode()] = results
}

func (s *ResultStore) Clear(mode domain.Mode) {
	delete(s.slots, mode)
}

func (s *ResultStore) ClearAll() {
	for mode := range s.slots {
		delete(s.slots, mode)
	}
}

// Get returns the stored set for mode, nil if empty
func (s *ResultStore) Get(mode domain.Mode) domain.ResultSet {
	return s.slots[mode]
}

// Active returns what may be rendered for state
func (s *ResultStore) Active(state domain.QueryState) domain.ResultSet {
	if state.Empty() {
		return nil
	}
	return s.slots[state.Mode]
}
