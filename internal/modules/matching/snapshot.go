// README: Quiescent-point read access to engine state for status queries and consistency checks.
package matching

import (
	h3 "github.com/uber/h3-go/v4"

	"hexride/internal/types"
)

// RiderSnapshot returns a copy of the rider's current record.
func (e *Engine) RiderSnapshot(id types.ID) (Rider, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	rider, ok := e.riders[id]
	if !ok {
		return Rider{}, false
	}
	copied := *rider
	copied.PendingDrivers = append([]types.ID(nil), rider.PendingDrivers...)
	return copied, true
}

// DriverSnapshot returns a copy of the driver's current record.
func (e *Engine) DriverSnapshot(id types.ID) (Driver, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	driver, ok := e.drivers[id]
	if !ok {
		return Driver{}, false
	}
	copied := *driver
	copied.Inbox = append([]types.ID(nil), driver.Inbox...)
	return copied, true
}

// OpenRiders returns copies of every registered rider.
func (e *Engine) OpenRiders() []Rider {
	e.mu.Lock()
	defer e.mu.Unlock()
	out := make([]Rider, 0, len(e.riders))
	for _, rider := range e.riders {
		copied := *rider
		copied.PendingDrivers = append([]types.ID(nil), rider.PendingDrivers...)
		out = append(out, copied)
	}
	return out
}

// OpenDrivers returns copies of every registered driver.
func (e *Engine) OpenDrivers() []Driver {
	e.mu.Lock()
	defer e.mu.Unlock()
	out := make([]Driver, 0, len(e.drivers))
	for _, driver := range e.drivers {
		copied := *driver
		copied.Inbox = append([]types.ID(nil), driver.Inbox...)
		out = append(out, copied)
	}
	return out
}

// SpatialSnapshot returns the cell buckets of the driver index.
func (e *Engine) SpatialSnapshot() map[h3.Cell][]types.ID {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.index.Snapshot()
}

// SpatialIndexSize reports how many drivers the index currently holds.
func (e *Engine) SpatialIndexSize() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.index.Size()
}

// QueueLen reports how many riders are waiting for offer emission.
func (e *Engine) QueueLen() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return len(e.queue.items)
}
