// README: Fare estimation tests.
package pricing

import (
	"math"
	"testing"

	"hexride/internal/types"
)

type fixedRouter struct {
	cost float64
}

func (r fixedRouter) Route(_, _ types.Point) float64 { return r.cost }

func TestEstimate(t *testing.T) {
	cases := []struct {
		name      string
		cost      float64
		wantTotal int64
	}{
		{"ten_minutes", 600, 250 + 10*40},
		{"partial_minute_rounds_up", 90, 250 + 2*40},
		{"zero_cost_trip", 0, 250},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			svc := NewService(fixedRouter{cost: tc.cost}, DefaultRate)
			q, err := svc.Estimate(types.Point{}, types.Point{})
			if err != nil {
				t.Fatalf("estimate: %v", err)
			}
			if q.TotalCents != tc.wantTotal {
				t.Fatalf("total = %d, want %d", q.TotalCents, tc.wantTotal)
			}
			if q.Breakdown["base"]+q.Breakdown["time"] != q.TotalCents {
				t.Fatalf("breakdown %v does not sum to total %d", q.Breakdown, q.TotalCents)
			}
		})
	}
}

func TestEstimateUnroutable(t *testing.T) {
	if _, err := NewService(fixedRouter{cost: -1}, DefaultRate).Estimate(types.Point{}, types.Point{}); err != ErrNoRoute {
		t.Fatalf("empty graph estimate = %v, want ErrNoRoute", err)
	}
	if _, err := NewService(fixedRouter{cost: math.Inf(1)}, DefaultRate).Estimate(types.Point{}, types.Point{}); err != ErrNoRoute {
		t.Fatalf("disconnected estimate = %v, want ErrNoRoute", err)
	}
}

func TestCustomRate(t *testing.T) {
	rate := Rate{BaseFare: 100, PerMinute: 10, Currency: "EUR"}
	q, err := NewService(fixedRouter{cost: 120}, rate).Estimate(types.Point{}, types.Point{})
	if err != nil {
		t.Fatalf("estimate: %v", err)
	}
	if q.TotalCents != 120 || q.Currency != "EUR" {
		t.Fatalf("quote = %+v, want 120 EUR", q)
	}
}
