// README: Rider and driver records, lifecycle states, and offer constants.
package matching

import (
	"errors"
	"time"

	"hexride/internal/types"
)

type State int

const (
	StateOpen State = iota
	StateMatched
	StateCancelled
	StateTimedOut
)

func (s State) String() string {
	switch s {
	case StateOpen:
		return "open"
	case StateMatched:
		return "matched"
	case StateCancelled:
		return "cancelled"
	case StateTimedOut:
		return "timed_out"
	}
	return "unknown"
}

// Rider is a posted ride request. Bid is the maximum price the rider pays.
// PendingDrivers is the exact list of drivers holding a live offer for this
// rider, in the order the offers were emitted.
type Rider struct {
	ID             types.ID
	Bid            float64
	Loc            types.Point
	State          State
	PostTime       time.Time
	PendingDrivers []types.ID
}

// Driver is an available driver. Ask is the minimum price accepted. Inbox
// holds the riders with an outstanding offer to this driver, oldest first.
type Driver struct {
	ID    types.ID
	Ask   float64
	Loc   types.Point
	State State
	Inbox []types.ID
}

const (
	// maxOffers is the number of live offers a rider can have outstanding.
	maxOffers = 5
	// ringRadius is the k-ring disk radius used for candidate discovery.
	ringRadius = 1
	// timekeeperTick is how often the timekeeper sweeps for expired riders.
	timekeeperTick = time.Second
)

var (
	ErrAlreadyExists = errors.New("entity already exists")
	ErrNotFound      = errors.New("entity not found")
	ErrNotOffered    = errors.New("rider was not offered to this driver")
	ErrAlreadyClosed = errors.New("entity is no longer open")
)
