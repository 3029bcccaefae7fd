// README: Matching engine tests (offer emission, price bound, accept, cancel, expiry).
package matching

import (
	"context"
	"sync"
	"testing"
	"time"

	"hexride/internal/config"
	"hexride/internal/modules/events"
	"hexride/internal/types"
)

// flatRouter scores every pair at the same cost, so offer ordering falls back
// to discovery order.
type flatRouter struct{}

func (flatRouter) Route(_, _ types.Point) float64 { return 1 }

// recordingPublisher captures published events for assertions.
type recordingPublisher struct {
	mu     sync.Mutex
	events []events.Event
}

func (p *recordingPublisher) Publish(_ context.Context, ev events.Event) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, ev)
	return nil
}

func (p *recordingPublisher) byType(t events.Type) []events.Event {
	p.mu.Lock()
	defer p.mu.Unlock()
	var out []events.Event
	for _, ev := range p.events {
		if ev.Type == t {
			out = append(out, ev)
		}
	}
	return out
}

func testConfig() config.MatchingConfig {
	return config.MatchingConfig{Workers: 2, TimeoutSec: 60, Resolution: 9}
}

func newTestEngine(t *testing.T, pub events.Publisher) *Engine {
	t.Helper()
	e := NewEngine(testConfig(), flatRouter{}, pub)
	e.Start(2)
	t.Cleanup(e.Stop)
	return e
}

// waitDrain blocks until every queued rider has had its offers emitted. The
// dequeue and the emission share one critical section, so an empty queue
// means emission for all popped riders has finished.
func waitDrain(t *testing.T, e *Engine) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for e.QueueLen() > 0 {
		if time.Now().After(deadline) {
			t.Fatalf("offer queue did not drain, len=%d", e.QueueLen())
		}
		time.Sleep(time.Millisecond)
	}
}

var downtown = types.Point{Lat: 40.7128, Lng: -74.0060}

func TestOfferReachesNearbyDriver(t *testing.T) {
	e := newTestEngine(t, nil)

	if err := e.AddDriver(1, 10, downtown); err != nil {
		t.Fatalf("add driver: %v", err)
	}
	if err := e.AddRider(100, 20, downtown); err != nil {
		t.Fatalf("add rider: %v", err)
	}
	waitDrain(t, e)

	driver, ok := e.DriverSnapshot(1)
	if !ok {
		t.Fatal("driver vanished")
	}
	if len(driver.Inbox) != 1 || driver.Inbox[0] != 100 {
		t.Fatalf("driver inbox = %v, want [100]", driver.Inbox)
	}
	rider, _ := e.RiderSnapshot(100)
	if len(rider.PendingDrivers) != 1 || rider.PendingDrivers[0] != 1 {
		t.Fatalf("pending drivers = %v, want [1]", rider.PendingDrivers)
	}
}

func TestOfferRespectsPriceBound(t *testing.T) {
	e := newTestEngine(t, nil)

	e.AddDriver(1, 30, downtown) // asks more than the rider bids
	e.AddDriver(2, 15, downtown)
	e.AddRider(100, 20, downtown)
	waitDrain(t, e)

	expensive, _ := e.DriverSnapshot(1)
	if len(expensive.Inbox) != 0 {
		t.Fatalf("over-ask driver inbox = %v, want empty", expensive.Inbox)
	}
	cheap, _ := e.DriverSnapshot(2)
	if len(cheap.Inbox) != 1 {
		t.Fatalf("affordable driver inbox = %v, want [100]", cheap.Inbox)
	}
}

func TestOfferCapFivePerRider(t *testing.T) {
	e := newTestEngine(t, nil)

	for i := 1; i <= 8; i++ {
		e.AddDriver(types.ID(i), 5, downtown)
	}
	e.AddRider(100, 50, downtown)
	waitDrain(t, e)

	rider, _ := e.RiderSnapshot(100)
	if len(rider.PendingDrivers) != maxOffers {
		t.Fatalf("pending drivers = %d, want %d", len(rider.PendingDrivers), maxOffers)
	}
	// Equal distances keep registration order: drivers 1..5 win.
	for i, id := range rider.PendingDrivers {
		if id != types.ID(i+1) {
			t.Fatalf("pending drivers = %v, want [1 2 3 4 5]", rider.PendingDrivers)
		}
	}
	late, _ := e.DriverSnapshot(8)
	if len(late.Inbox) != 0 {
		t.Fatalf("driver 8 inbox = %v, want empty", late.Inbox)
	}
}

func TestDuplicateRegistration(t *testing.T) {
	e := newTestEngine(t, nil)

	if err := e.AddRider(100, 20, downtown); err != nil {
		t.Fatalf("add rider: %v", err)
	}
	if err := e.AddRider(100, 25, downtown); err != ErrAlreadyExists {
		t.Fatalf("duplicate rider error = %v, want ErrAlreadyExists", err)
	}
	if err := e.AddDriver(1, 10, downtown); err != nil {
		t.Fatalf("add driver: %v", err)
	}
	if err := e.AddDriver(1, 10, downtown); err != ErrAlreadyExists {
		t.Fatalf("duplicate driver error = %v, want ErrAlreadyExists", err)
	}
}

func TestAcceptRemovesBothAndWithdrawsPeers(t *testing.T) {
	pub := &recordingPublisher{}
	e := newTestEngine(t, pub)

	e.AddDriver(1, 5, downtown)
	e.AddDriver(2, 5, downtown)
	e.AddRider(100, 20, downtown)
	waitDrain(t, e)

	if err := e.DriverAccept(1, 100); err != nil {
		t.Fatalf("accept: %v", err)
	}

	if _, ok := e.DriverSnapshot(1); ok {
		t.Fatal("matched driver still registered")
	}
	if _, ok := e.RiderSnapshot(100); ok {
		t.Fatal("matched rider still registered")
	}
	peer, ok := e.DriverSnapshot(2)
	if !ok {
		t.Fatal("peer driver vanished")
	}
	if len(peer.Inbox) != 0 {
		t.Fatalf("peer inbox = %v, want withdrawn", peer.Inbox)
	}
	if e.SpatialIndexSize() != 1 {
		t.Fatalf("index size = %d, want 1 (only the peer)", e.SpatialIndexSize())
	}

	matched := pub.byType(events.TypePairMatched)
	if len(matched) != 1 || matched[0].RiderID != 100 || matched[0].DriverID != 1 {
		t.Fatalf("pair_matched events = %+v", matched)
	}
}

func TestAcceptWithoutOffer(t *testing.T) {
	e := newTestEngine(t, nil)

	e.AddDriver(1, 30, downtown) // ask above bid; no offer emitted
	e.AddRider(100, 20, downtown)
	waitDrain(t, e)

	if err := e.DriverAccept(1, 100); err != ErrNotOffered {
		t.Fatalf("accept without offer = %v, want ErrNotOffered", err)
	}
	if err := e.DriverAccept(99, 100); err != ErrNotFound {
		t.Fatalf("accept by unknown driver = %v, want ErrNotFound", err)
	}
	if err := e.DriverAccept(1, 999); err != ErrNotFound {
		t.Fatalf("accept of unknown rider = %v, want ErrNotFound", err)
	}
}

func TestRiderCancelSweepsInboxes(t *testing.T) {
	pub := &recordingPublisher{}
	e := newTestEngine(t, pub)

	e.AddDriver(1, 5, downtown)
	e.AddRider(100, 20, downtown)
	waitDrain(t, e)

	if err := e.RiderCancel(100); err != nil {
		t.Fatalf("cancel: %v", err)
	}
	driver, _ := e.DriverSnapshot(1)
	if len(driver.Inbox) != 0 {
		t.Fatalf("inbox after rider cancel = %v, want empty", driver.Inbox)
	}
	if err := e.DriverAccept(1, 100); err != ErrNotFound {
		t.Fatalf("accept after cancel = %v, want ErrNotFound", err)
	}
	// Cancelling again is a no-op.
	if err := e.RiderCancel(100); err != nil {
		t.Fatalf("second cancel: %v", err)
	}
	if got := pub.byType(events.TypeRiderCancelled); len(got) != 1 {
		t.Fatalf("rider_cancelled events = %d, want 1", len(got))
	}
}

func TestDriverCancelWithdrawsPending(t *testing.T) {
	e := newTestEngine(t, nil)

	e.AddDriver(1, 5, downtown)
	e.AddRider(100, 20, downtown)
	waitDrain(t, e)

	if err := e.DriverCancel(1); err != nil {
		t.Fatalf("cancel: %v", err)
	}
	rider, _ := e.RiderSnapshot(100)
	if len(rider.PendingDrivers) != 0 {
		t.Fatalf("pending after driver cancel = %v, want empty", rider.PendingDrivers)
	}
	if e.SpatialIndexSize() != 0 {
		t.Fatalf("index size = %d, want 0", e.SpatialIndexSize())
	}
	if err := e.DriverCancel(1); err != nil {
		t.Fatalf("second cancel: %v", err)
	}
}

func TestRiderExpiry(t *testing.T) {
	if testing.Short() {
		t.Skip("expiry test waits on the timekeeper")
	}
	pub := &recordingPublisher{}
	cfg := config.MatchingConfig{Workers: 1, TimeoutSec: 1, Resolution: 9}
	e := NewEngine(cfg, flatRouter{}, pub)
	e.Start(1)
	defer e.Stop()

	e.AddRider(100, 20, downtown)

	deadline := time.Now().Add(4 * time.Second)
	for {
		if _, ok := e.RiderSnapshot(100); !ok {
			break
		}
		if time.Now().After(deadline) {
			t.Fatal("rider never expired")
		}
		time.Sleep(50 * time.Millisecond)
	}

	expired := pub.byType(events.TypeRiderExpired)
	if len(expired) != 1 || expired[0].RiderID != 100 {
		t.Fatalf("rider_expired events = %+v", expired)
	}
}

func TestStartStopIdempotent(t *testing.T) {
	e := NewEngine(testConfig(), flatRouter{}, nil)
	e.Start(2)
	e.Start(2)
	e.Stop()
	e.Stop()
}
