// README: Fare rate definition and quote shape.
package pricing

import "errors"

// Rate prices a trip from its road travel time. Amounts are cents.
type Rate struct {
	BaseFare  int64
	PerMinute int64
	Currency  string
}

// DefaultRate is used when no rate is configured.
var DefaultRate = Rate{BaseFare: 250, PerMinute: 40, Currency: "USD"}

type Quote struct {
	TotalCents int64            `json:"total_cents"`
	Currency   string           `json:"currency"`
	Breakdown  map[string]int64 `json:"breakdown"`
}

// ErrNoRoute is returned when the road graph cannot connect the endpoints.
var ErrNoRoute = errors.New("no route between points")
