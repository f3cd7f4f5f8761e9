package ui

import (
	tea "github.com/charmbracelet/bubbletea"

	"hybridsearch/internal/domain"
	"hybridsearch/internal/eventbus"
)

// SnapshotMsg carries an engine snapshot into the program
type SnapshotMsg struct {
	Snapshot domain.Snapshot
}

// selectedMsg contains the result of opening a hit
type selectedMsg struct {
	target string
	err    error
}

// pagerMsg contains the result of a pager command
type pagerMsg struct {
	err error
}

// Subscribe forwards snapshots from the bus to send, usually (*tea.Program).Send.
// Handlers run concurrently so snapshots may arrive out of order; the model
// drops anything older than what it already shows.
func Subscribe(bus eventbus.EventBus, send func(tea.Msg)) (unsubscribe func()) {
	return bus.Subscribe(eventbus.EventResultsUpdated, func(e eventbus.DomainEvent) {
		if event, ok := e.(eventbus.ResultsUpdatedEvent); ok {
			send(SnapshotMsg{Snapshot: event.Snapshot})
		}
	})
}
