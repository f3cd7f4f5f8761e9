package engine

import (
	"go.uber.org/zap"

	"hybridsearch/internal/domain"
	"hybridsearch/internal/eventbus"
)

// BusObserver logs failures and republishes engine output on the event bus
type BusObserver struct {
	bus    eventbus.EventBus
	logger *zap.Logger
}

func NewBusObserver(bus eventbus.EventBus, logger *zap.Logger) *BusObserver {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &BusObserver{bus: bus, logger: logger.Named("observer")}
}

func (o *BusObserver) ResultsChanged(snapshot domain.Snapshot) {
	o.bus.Publish(eventbus.ResultsUpdatedEvent{Snapshot: snapshot})
}

// SearchFailed records a failure without surfacing it to the user
func (o *BusObserver) SearchFailed(mode domain.Mode, query string, err error) {
	o.logger.Warn("search failed",
		zap.Stringer("mode", mode),
		zap.String("query", query),
		zap.Error(err))
	o.bus.Publish(eventbus.SearchFailedEvent{Mode: mode, Query: query, Err: err})
}

func (o *BusObserver) StatePersisted(state domain.QueryState) {
	o.bus.Publish(eventbus.StatePersistedEvent{State: state})
}
