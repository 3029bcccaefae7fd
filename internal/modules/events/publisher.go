// README: Match lifecycle event publication over Redis pub/sub.
package events

import (
	"context"
	"encoding/json"

	"github.com/redis/go-redis/v9"

	"hexride/internal/types"
)

type Type string

const (
	TypePairMatched     Type = "pair_matched"
	TypeDriverCancelled Type = "driver_cancelled"
	TypeRiderCancelled  Type = "rider_cancelled"
	TypeRiderExpired    Type = "rider_expired"
)

// Event is the small notification emitted on every terminal transition.
// DriverID is zero for rider-only events and vice versa.
type Event struct {
	Type     Type     `json:"type"`
	RiderID  types.ID `json:"rider_id,omitempty"`
	DriverID types.ID `json:"driver_id,omitempty"`
}

type Publisher interface {
	Publish(ctx context.Context, ev Event) error
}

// Nop drops every event; used when Redis is not configured.
type Nop struct{}

func (Nop) Publish(context.Context, Event) error { return nil }

// RedisPublisher fans events out on a pub/sub channel for external consumers
// such as dashboards. Delivery is fire-and-forget.
type RedisPublisher struct {
	client  *redis.Client
	channel string
}

func NewRedisPublisher(client *redis.Client, channel string) *RedisPublisher {
	return &RedisPublisher{client: client, channel: channel}
}

func (p *RedisPublisher) Publish(ctx context.Context, ev Event) error {
	payload, err := json.Marshal(ev)
	if err != nil {
		return err
	}
	return p.client.Publish(ctx, p.channel, payload).Err()
}

// Subscribe returns a channel of decoded events from the pub/sub channel. The
// channel closes when ctx is cancelled. Undecodable payloads are skipped.
func Subscribe(ctx context.Context, client *redis.Client, channel string) <-chan Event {
	sub := client.Subscribe(ctx, channel)
	out := make(chan Event)

	go func() {
		defer close(out)
		defer sub.Close()
		for {
			select {
			case <-ctx.Done():
				return
			case msg, ok := <-sub.Channel():
				if !ok {
					return
				}
				var ev Event
				if err := json.Unmarshal([]byte(msg.Payload), &ev); err != nil {
					continue
				}
				select {
				case out <- ev:
				case <-ctx.Done():
					return
				}
			}
		}
	}()
	return out
}
