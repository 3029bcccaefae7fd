// README: Fare estimation from road travel time.
package pricing

import (
	"math"

	"hexride/internal/types"
)

// Router is the travel-cost lookup the estimator prices from. Negative and
// +Inf costs mean the trip cannot be routed.
type Router interface {
	Route(from, to types.Point) float64
}

type Service struct {
	router Router
	rate   Rate
}

func NewService(router Router, rate Rate) *Service {
	if rate == (Rate{}) {
		rate = DefaultRate
	}
	return &Service{router: router, rate: rate}
}

// Estimate quotes a trip by routing it and billing started minutes.
func (s *Service) Estimate(from, to types.Point) (Quote, error) {
	cost := s.router.Route(from, to)
	if cost < 0 || math.IsInf(cost, 1) {
		return Quote{}, ErrNoRoute
	}

	minutes := int64(math.Ceil(cost / 60))
	timeFare := minutes * s.rate.PerMinute
	return Quote{
		TotalCents: s.rate.BaseFare + timeFare,
		Currency:   s.rate.Currency,
		Breakdown: map[string]int64{
			"base": s.rate.BaseFare,
			"time": timeFare,
		},
	}, nil
}
