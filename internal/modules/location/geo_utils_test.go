// README: Geo helper tests (haversine, segment distance, stable sort).
package location

import (
	"math"
	"testing"

	"hexride/internal/types"
)

func TestHaversine(t *testing.T) {
	a := types.Point{Lat: 40.7128, Lng: -74.0060}

	if d := Haversine(a, a); d != 0 {
		t.Fatalf("distance to self = %f, want 0", d)
	}

	// One degree of latitude is about 111.2 km everywhere.
	b := types.Point{Lat: 41.7128, Lng: -74.0060}
	d := Haversine(a, b)
	if d < 110_000 || d > 112_500 {
		t.Fatalf("one degree of latitude = %f m, want ~111,200", d)
	}

	if got, want := Haversine(a, b), Haversine(b, a); got != want {
		t.Fatalf("haversine not symmetric: %f vs %f", got, want)
	}
}

func TestPointToSegmentMeters(t *testing.T) {
	a := types.Point{Lat: 40.70, Lng: -74.00}
	b := types.Point{Lat: 40.70, Lng: -73.99}

	// Point on the segment itself.
	mid := types.Point{Lat: 40.70, Lng: -73.995}
	if d := PointToSegmentMeters(mid, a, b); d > 1 {
		t.Fatalf("on-segment distance = %f, want ~0", d)
	}

	// Point offset north of the midpoint projects perpendicularly.
	off := types.Point{Lat: 40.701, Lng: -73.995}
	d := PointToSegmentMeters(off, a, b)
	if d < 100 || d > 125 {
		t.Fatalf("perpendicular distance = %f, want ~111", d)
	}

	// Point beyond an endpoint clamps to that endpoint.
	past := types.Point{Lat: 40.70, Lng: -73.98}
	want := Haversine(past, b)
	got := PointToSegmentMeters(past, a, b)
	if math.Abs(got-want) > want*0.01 {
		t.Fatalf("clamped distance = %f, want ~%f", got, want)
	}

	// Degenerate zero-length segment.
	if d := PointToSegmentMeters(off, a, a); d == 0 || math.IsNaN(d) {
		t.Fatalf("zero-length segment distance = %f", d)
	}
}

func TestSortByDistanceStable(t *testing.T) {
	type item struct {
		name string
		d    float64
	}
	items := []item{
		{"far", 30},
		{"tied_first", 10},
		{"tied_second", 10},
		{"near", 5},
		{"tied_third", 10},
	}
	SortByDistance(items, func(i item) float64 { return i.d })

	wantOrder := []string{"near", "tied_first", "tied_second", "tied_third", "far"}
	for i, want := range wantOrder {
		if items[i].name != want {
			t.Fatalf("position %d = %s, want %s (full: %v)", i, items[i].name, want, items)
		}
	}
}
