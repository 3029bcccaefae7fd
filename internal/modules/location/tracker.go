// README: Best-effort Redis GEO mirror of open driver positions.
package location

import (
	"context"
	"strconv"

	"github.com/redis/go-redis/v9"

	"hexride/internal/types"
)

// driverGeoKey is the sorted set Redis GEO commands operate on.
const driverGeoKey = "hexride:drivers:geo"

// Tracker mirrors driver positions into Redis GEO so dashboards and external
// consumers can query them. The matching engine never reads the mirror back;
// the in-process registries stay authoritative.
type Tracker struct {
	redis *redis.Client
}

func NewTracker(client *redis.Client) *Tracker {
	return &Tracker{redis: client}
}

func (t *Tracker) Set(ctx context.Context, id types.ID, pos types.Point) error {
	if t == nil || t.redis == nil {
		return nil
	}
	return t.redis.GeoAdd(ctx, driverGeoKey, &redis.GeoLocation{
		Name:      strconv.FormatInt(int64(id), 10),
		Longitude: pos.Lng,
		Latitude:  pos.Lat,
	}).Err()
}

func (t *Tracker) Remove(ctx context.Context, id types.ID) error {
	if t == nil || t.redis == nil {
		return nil
	}
	return t.redis.ZRem(ctx, driverGeoKey, strconv.FormatInt(int64(id), 10)).Err()
}
