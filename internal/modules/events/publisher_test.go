// README: Event pub/sub tests (requires a live Redis, gated on env).
package events

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
)

func testRedis(t *testing.T) *redis.Client {
	t.Helper()
	addr := os.Getenv("HEXRIDE_TEST_REDIS_ADDR")
	if addr == "" {
		t.Skip("HEXRIDE_TEST_REDIS_ADDR not set")
	}
	client := redis.NewClient(&redis.Options{Addr: addr})
	if err := client.Ping(context.Background()).Err(); err != nil {
		t.Skipf("redis unreachable: %v", err)
	}
	t.Cleanup(func() { client.Close() })
	return client
}

func TestPublishSubscribeRoundTrip(t *testing.T) {
	client := testRedis(t)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	const channel = "hexride:test:events"
	sub := Subscribe(ctx, client, channel)

	// Redis only delivers to established subscribers; give the subscription a
	// moment to register before publishing.
	time.Sleep(100 * time.Millisecond)

	pub := NewRedisPublisher(client, channel)
	want := Event{Type: TypePairMatched, RiderID: 100, DriverID: 1}
	if err := pub.Publish(ctx, want); err != nil {
		t.Fatalf("publish: %v", err)
	}

	select {
	case got := <-sub:
		if got != want {
			t.Fatalf("received %+v, want %+v", got, want)
		}
	case <-ctx.Done():
		t.Fatal("event never arrived")
	}
}

func TestNopPublisher(t *testing.T) {
	if err := (Nop{}).Publish(context.Background(), Event{Type: TypeRiderExpired}); err != nil {
		t.Fatalf("nop publish: %v", err)
	}
}
