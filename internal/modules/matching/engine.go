// README: Matching engine; owns registries, spatial index, offer workers, and the timekeeper.
package matching

import (
	"context"
	"log"
	"math"
	"sync"
	"time"

	"hexride/internal/config"
	"hexride/internal/modules/events"
	"hexride/internal/modules/location"
	"hexride/internal/modules/spatial"
	"hexride/internal/types"
)

// Router scores a candidate driver by real road travel cost. Negative means
// the lookup failed (empty graph); +Inf means no path exists. Both drop the
// driver from the candidate set.
type Router interface {
	Route(from, to types.Point) float64
}

// Engine is the single authoritative owner of the rider registry, the driver
// registry, the spatial index, and the pending-rider queue. One mutex guards
// all four so cross-cutting operations (accept, cancel, offer emission)
// compose without lock ordering concerns; the condition variable on that
// mutex drives the worker wait/notify protocol.
type Engine struct {
	cfg    config.MatchingConfig
	router Router
	pub    events.Publisher

	mu      sync.Mutex
	cond    *sync.Cond
	riders  map[types.ID]*Rider
	drivers map[types.ID]*Driver
	index   *spatial.Index
	queue   riderQueue

	running bool
	stop    chan struct{}
	wg      sync.WaitGroup
}

func NewEngine(cfg config.MatchingConfig, router Router, pub events.Publisher) *Engine {
	if pub == nil {
		pub = events.Nop{}
	}
	e := &Engine{
		cfg:     cfg,
		router:  router,
		pub:     pub,
		riders:  make(map[types.ID]*Rider),
		drivers: make(map[types.ID]*Driver),
		index:   spatial.NewIndex(cfg.Resolution),
	}
	e.cond = sync.NewCond(&e.mu)
	return e
}

// Start launches numWorkers offer workers and the timekeeper. Calling Start
// on a running engine is a no-op.
func (e *Engine) Start(numWorkers int) {
	e.mu.Lock()
	if e.running {
		e.mu.Unlock()
		return
	}
	e.running = true
	e.stop = make(chan struct{})
	e.mu.Unlock()

	for i := 0; i < numWorkers; i++ {
		e.wg.Add(1)
		go e.worker()
	}
	e.wg.Add(1)
	go e.timekeeper(e.stop)
}

// Stop signals shutdown, wakes every worker, and waits for them to exit. The
// pending queue is abandoned. Stopping a stopped engine is a no-op.
func (e *Engine) Stop() {
	e.mu.Lock()
	if !e.running {
		e.mu.Unlock()
		return
	}
	e.running = false
	close(e.stop)
	e.cond.Broadcast()
	e.mu.Unlock()

	e.wg.Wait()
}

// AddRider registers an OPEN rider and queues it for offer emission.
func (e *Engine) AddRider(id types.ID, bid float64, loc types.Point) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if _, ok := e.riders[id]; ok {
		return ErrAlreadyExists
	}
	e.riders[id] = &Rider{
		ID:       id,
		Bid:      bid,
		Loc:      loc,
		State:    StateOpen,
		PostTime: time.Now(),
	}
	e.queue.push(id)
	e.cond.Signal()
	return nil
}

// AddDriver registers an OPEN driver and inserts it into the spatial index.
func (e *Engine) AddDriver(id types.ID, ask float64, loc types.Point) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if _, ok := e.drivers[id]; ok {
		return ErrAlreadyExists
	}
	e.drivers[id] = &Driver{
		ID:    id,
		Ask:   ask,
		Loc:   loc,
		State: StateOpen,
	}
	e.index.Insert(id, loc)
	return nil
}

// DriverAccept is the atomic commit: it succeeds only if driver and rider
// both exist, the rider holds a live offer in the driver's inbox, and both
// are still OPEN. Racing accepts for the same rider are serialized by the
// critical section; exactly one wins and the rest observe the loser outcomes
// below with no state mutated.
func (e *Engine) DriverAccept(driverID, riderID types.ID) error {
	e.mu.Lock()

	driver, ok := e.drivers[driverID]
	if !ok {
		e.mu.Unlock()
		return ErrNotFound
	}
	rider, ok := e.riders[riderID]
	if !ok {
		e.mu.Unlock()
		return ErrNotFound
	}
	if !containsID(driver.Inbox, riderID) {
		e.mu.Unlock()
		return ErrNotOffered
	}
	if driver.State != StateOpen || rider.State != StateOpen {
		e.mu.Unlock()
		return ErrAlreadyClosed
	}

	driver.State = StateMatched
	rider.State = StateMatched
	e.cleanupAfterMatch(rider, driver)
	e.mu.Unlock()

	e.publish(events.Event{Type: events.TypePairMatched, RiderID: riderID, DriverID: driverID})
	return nil
}

// DriverCancel removes a driver. Unknown ids are ignored so the call is
// idempotent.
func (e *Engine) DriverCancel(id types.ID) error {
	e.mu.Lock()
	driver, ok := e.drivers[id]
	if !ok {
		e.mu.Unlock()
		return nil
	}
	driver.State = StateCancelled
	e.index.Remove(id, driver.Loc)
	e.sweepDriverOffers(driver)
	delete(e.drivers, id)
	e.mu.Unlock()

	e.publish(events.Event{Type: events.TypeDriverCancelled, DriverID: id})
	return nil
}

// RiderCancel removes a rider and sweeps its id out of every inbox it was
// offered to. Unknown ids are ignored.
func (e *Engine) RiderCancel(id types.ID) error {
	e.mu.Lock()
	rider, ok := e.riders[id]
	if !ok {
		e.mu.Unlock()
		return nil
	}
	rider.State = StateCancelled
	e.removeRider(rider)
	e.mu.Unlock()

	e.publish(events.Event{Type: events.TypeRiderCancelled, RiderID: id})
	return nil
}

// worker loops: wait for a pending rider, emit offers for it, repeat. The
// dequeue and the whole offer emission happen under one hold of the mutex, so
// no intermediate offer state is observable and a driver cannot close between
// being scored and receiving the offer.
func (e *Engine) worker() {
	defer e.wg.Done()
	for {
		e.mu.Lock()
		for e.running && e.queue.empty() {
			e.cond.Wait()
		}
		if !e.running {
			e.mu.Unlock()
			return
		}
		id := e.queue.pop()
		e.emitOffers(id)
		e.mu.Unlock()
	}
}

type scoredDriver struct {
	driver   *Driver
	distance float64
}

// emitOffers runs with the engine mutex held. Riders that vanished or closed
// while queued are dropped silently.
func (e *Engine) emitOffers(riderID types.ID) {
	rider, ok := e.riders[riderID]
	if !ok || rider.State != StateOpen {
		return
	}

	var candidates []scoredDriver
	for _, cell := range e.index.Disk(rider.Loc, ringRadius) {
		for _, driverID := range e.index.DriversIn(cell) {
			driver, ok := e.drivers[driverID]
			if !ok || driver.State != StateOpen {
				continue
			}
			if driver.Ask > rider.Bid {
				continue
			}
			dist := e.router.Route(rider.Loc, driver.Loc)
			if dist < 0 || math.IsInf(dist, 1) {
				continue
			}
			candidates = append(candidates, scoredDriver{driver: driver, distance: dist})
		}
	}

	// Stable by-distance sort: equal distances keep bucket insertion order.
	location.SortByDistance(candidates, func(c scoredDriver) float64 { return c.distance })
	if len(candidates) > maxOffers {
		candidates = candidates[:maxOffers]
	}

	pending := make([]types.ID, 0, len(candidates))
	for _, c := range candidates {
		if !containsID(c.driver.Inbox, rider.ID) {
			c.driver.Inbox = append(c.driver.Inbox, rider.ID)
		}
		pending = append(pending, c.driver.ID)
	}
	rider.PendingDrivers = pending
}

// timekeeper wakes every second and expires riders that have been OPEN past
// the configured timeout. The scan runs under the lock; the per-rider expiry
// happens outside it so a slow sweep never stalls workers.
func (e *Engine) timekeeper(stop <-chan struct{}) {
	defer e.wg.Done()
	ticker := time.NewTicker(timekeeperTick)
	defer ticker.Stop()

	timeout := time.Duration(e.cfg.TimeoutSec) * time.Second
	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			now := time.Now()
			var expired []types.ID
			e.mu.Lock()
			for id, rider := range e.riders {
				if rider.State == StateOpen && now.Sub(rider.PostTime) >= timeout {
					expired = append(expired, id)
				}
			}
			e.mu.Unlock()

			for _, id := range expired {
				e.expireRider(id)
			}
		}
	}
}

func (e *Engine) expireRider(id types.ID) {
	e.mu.Lock()
	rider, ok := e.riders[id]
	if !ok || rider.State != StateOpen {
		e.mu.Unlock()
		return
	}
	rider.State = StateTimedOut
	e.removeRider(rider)
	e.mu.Unlock()

	e.publish(events.Event{Type: events.TypeRiderExpired, RiderID: id})
}

// cleanupAfterMatch runs with the mutex held: the matched driver leaves the
// spatial index, the rider's remaining offers are withdrawn from the other
// drivers' inboxes, and both entities leave their registries.
func (e *Engine) cleanupAfterMatch(rider *Rider, driver *Driver) {
	e.index.Remove(driver.ID, driver.Loc)
	for _, peerID := range rider.PendingDrivers {
		if peerID == driver.ID {
			continue
		}
		if peer, ok := e.drivers[peerID]; ok {
			peer.Inbox = removeID(peer.Inbox, rider.ID)
		}
	}
	delete(e.drivers, driver.ID)
	delete(e.riders, rider.ID)
}

// removeRider runs with the mutex held and handles cancel and timeout alike.
func (e *Engine) removeRider(rider *Rider) {
	for _, peerID := range rider.PendingDrivers {
		if peer, ok := e.drivers[peerID]; ok {
			peer.Inbox = removeID(peer.Inbox, rider.ID)
		}
	}
	delete(e.riders, rider.ID)
}

// sweepDriverOffers runs with the mutex held: a cancelled driver's inbox is
// withdrawn from each rider's pending list.
func (e *Engine) sweepDriverOffers(driver *Driver) {
	for _, riderID := range driver.Inbox {
		if rider, ok := e.riders[riderID]; ok {
			rider.PendingDrivers = removeID(rider.PendingDrivers, driver.ID)
		}
	}
}

func (e *Engine) publish(ev events.Event) {
	if err := e.pub.Publish(context.Background(), ev); err != nil {
		log.Printf("matching: publish %s: %v", ev.Type, err)
	}
}

func containsID(ids []types.ID, id types.ID) bool {
	for _, candidate := range ids {
		if candidate == id {
			return true
		}
	}
	return false
}

func removeID(ids []types.ID, id types.ID) []types.ID {
	for i, candidate := range ids {
		if candidate == id {
			return append(ids[:i], ids[i+1:]...)
		}
	}
	return ids
}
