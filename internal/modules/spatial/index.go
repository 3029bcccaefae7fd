// README: H3 cell index mapping hexagonal tiles to the drivers inside them.
package spatial

import (
	h3 "github.com/uber/h3-go/v4"

	"hexride/internal/types"
)

// Index buckets driver ids by the H3 cell of their position. It is not
// goroutine-safe; the matching engine serializes access under its critical
// section, which also maintains the one-driver-one-cell invariant.
type Index struct {
	resolution int
	cells      map[h3.Cell][]types.ID
}

func NewIndex(resolution int) *Index {
	return &Index{
		resolution: resolution,
		cells:      make(map[h3.Cell][]types.ID),
	}
}

func (x *Index) cellOf(p types.Point) h3.Cell {
	return h3.LatLngToCell(h3.LatLng{Lat: p.Lat, Lng: p.Lng}, x.resolution)
}

// Insert appends id to the bucket of p's cell.
func (x *Index) Insert(id types.ID, p types.Point) {
	cell := x.cellOf(p)
	x.cells[cell] = append(x.cells[cell], id)
}

// Remove deletes id from the bucket of p's cell. The linear scan is fine:
// buckets hold the drivers of a single hex tile.
func (x *Index) Remove(id types.ID, p types.Point) {
	cell := x.cellOf(p)
	bucket := x.cells[cell]
	for i, candidate := range bucket {
		if candidate == id {
			x.cells[cell] = append(bucket[:i], bucket[i+1:]...)
			break
		}
	}
	if len(x.cells[cell]) == 0 {
		delete(x.cells, cell)
	}
}

// Disk returns the k-ring disk of cells around p's cell.
func (x *Index) Disk(p types.Point, k int) []h3.Cell {
	return x.cellOf(p).GridDisk(k)
}

// DriversIn returns the bucket for cell in insertion order.
func (x *Index) DriversIn(cell h3.Cell) []types.ID {
	return x.cells[cell]
}

// Snapshot returns every (cell, ids) pair; used by consistency checks.
func (x *Index) Snapshot() map[h3.Cell][]types.ID {
	out := make(map[h3.Cell][]types.ID, len(x.cells))
	for cell, ids := range x.cells {
		out[cell] = append([]types.ID(nil), ids...)
	}
	return out
}

// Size returns the total number of indexed drivers across all cells.
func (x *Index) Size() int {
	total := 0
	for _, ids := range x.cells {
		total += len(ids)
	}
	return total
}
