package domain

// EventType represents the type of domain event
type EventType string

// Event types
const (
	EventTextChanged     EventType = "TextChanged"
	EventModeChanged     EventType = "ModeChanged"
	EventTriggerFired    EventType = "TriggerFired"
	EventRequestSettled  EventType = "RequestSettled"
	EventTeardown        EventType = "Teardown"
	EventResultsUpdated  EventType = "ResultsUpdated"
	EventSearchFailed    EventType = "SearchFailed"
	EventStatePersisted  EventType = "StatePersisted"
	EventSelectionOpened EventType = "SelectionOpened"
)

// DomainEvent is the interface for all domain events
type DomainEvent interface {
	Type() EventType
}

// TextChangedEvent is emitted when the user edits the query text
type TextChangedEvent struct {
	Text string
}

func (e TextChangedEvent) Type() EventType { return EventTextChanged }

// ModeChangedEvent is emitted when the search mode is switched
type ModeChangedEvent struct {
	Mode Mode
}

func (e ModeChangedEvent) Type() EventType { return EventModeChanged }

// TriggerFiredEvent is emitted when a debounce timer elapses
type TriggerFiredEvent struct {
	Mode      Mode
	TriggerID uint64
}

func (e TriggerFiredEvent) Type() EventType { return EventTriggerFired }

// RequestSettledEvent carries the outcome of a search request
type RequestSettledEvent struct {
	Mode      Mode
	RequestID uint64
	Query     string
	Results   ResultSet
	Err       error
}

func (e RequestSettledEvent) Type() EventType { return EventRequestSettled }

// TeardownEvent stops the engine and releases every pending request
type TeardownEvent struct{}

func (e TeardownEvent) Type() EventType { return EventTeardown }

// ResultsUpdatedEvent is emitted after any change observable by a renderer
type ResultsUpdatedEvent struct {
	Snapshot Snapshot
}

func (e ResultsUpdatedEvent) Type() EventType { return EventResultsUpdated }

// SearchFailedEvent is emitted when a request fails for a reason other than cancellation
type SearchFailedEvent struct {
	Mode  Mode
	Query string
	Err   error
}

func (e SearchFailedEvent) Type() EventType { return EventSearchFailed }

// StatePersistedEvent is emitted after the query state is written to navigation state
type StatePersistedEvent struct {
	State QueryState
}

func (e StatePersistedEvent) Type() EventType { return EventStatePersisted }

// SelectionOpenedEvent is emitted when a hit is opened
type SelectionOpenedEvent struct {
	Target string
}

func (e SelectionOpenedEvent) Type() EventType { return EventSelectionOpened }

// Snapshot is a point-in-time view of what should be rendered
type Snapshot struct {
	// Version increases with every published snapshot
	Version uint64
	State   QueryState
	// Results belongs to State.Mode, nil when nothing is stored
	Results ResultSet
	Loading bool
}
