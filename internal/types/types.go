// README: Shared value objects used across modules.
package types

// ID identifies a rider, driver, or any other externally named entity.
type ID int64

// Point is a WGS-84 coordinate pair in decimal degrees.
type Point struct {
	Lat float64
	Lng float64
}
