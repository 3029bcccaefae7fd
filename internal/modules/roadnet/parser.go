// README: OSM extract parsing; streams drivable ways and their nodes into memory.
package roadnet

import (
	"context"
	"errors"
	"fmt"
	"os"
	"runtime"
	"strconv"
	"strings"

	"github.com/paulmach/osm"
	"github.com/paulmach/osm/osmpbf"
	"github.com/paulmach/osm/osmxml"

	"hexride/internal/types"
)

// ErrMapLoad wraps any failure to open or decode a map extract.
var ErrMapLoad = errors.New("road map load failed")

const defaultSpeedKmh = 30.0

// drivableHighways are the highway= values kept for the car graph.
var drivableHighways = map[string]bool{
	"motorway":       true,
	"trunk":          true,
	"primary":        true,
	"secondary":      true,
	"tertiary":       true,
	"unclassified":   true,
	"residential":    true,
	"motorway_link":  true,
	"trunk_link":     true,
	"primary_link":   true,
	"secondary_link": true,
	"tertiary_link":  true,
	"living_street":  true,
}

// rawWay is a drivable way after tag interpretation. Oneway is -1 for
// reversed ways, 0 for two-way, 1 for forward-only.
type rawWay struct {
	nodes    []osm.NodeID
	speedKmh float64
	oneway   int
}

// extract is the in-memory form of an OSM file, reduced to what the graph
// builder needs.
type extract struct {
	nodeLocs map[osm.NodeID]types.Point
	ways     []rawWay
}

// parseFile reads a .osm.pbf or .osm XML extract. Format is chosen by file
// extension.
func parseFile(ctx context.Context, path string) (*extract, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMapLoad, err)
	}
	defer f.Close()

	var scanner osm.Scanner
	if strings.HasSuffix(path, ".pbf") {
		scanner = osmpbf.New(ctx, f, runtime.GOMAXPROCS(0))
	} else {
		scanner = osmxml.New(ctx, f)
	}
	defer scanner.Close()

	ex := &extract{nodeLocs: make(map[osm.NodeID]types.Point)}
	for scanner.Scan() {
		switch obj := scanner.Object().(type) {
		case *osm.Node:
			ex.nodeLocs[obj.ID] = types.Point{Lat: obj.Lat, Lng: obj.Lon}
		case *osm.Way:
			if way, ok := interpretWay(obj); ok {
				ex.ways = append(ex.ways, way)
			}
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMapLoad, err)
	}
	return ex, nil
}

func interpretWay(w *osm.Way) (rawWay, bool) {
	if !drivableHighways[w.Tags.Find("highway")] {
		return rawWay{}, false
	}
	if len(w.Nodes) < 2 {
		return rawWay{}, false
	}
	way := rawWay{
		nodes:    make([]osm.NodeID, 0, len(w.Nodes)),
		speedKmh: parseMaxspeed(w.Tags.Find("maxspeed")),
		oneway:   parseOneway(w.Tags.Find("oneway")),
	}
	for _, n := range w.Nodes {
		way.nodes = append(way.nodes, n.ID)
	}
	return way, true
}

// parseMaxspeed understands plain km/h numbers and "N mph". Anything else
// falls back to the default urban speed.
func parseMaxspeed(v string) float64 {
	if v == "" {
		return defaultSpeedKmh
	}
	v = strings.TrimSpace(v)
	if strings.HasSuffix(v, "mph") {
		n, err := strconv.ParseFloat(strings.TrimSpace(strings.TrimSuffix(v, "mph")), 64)
		if err != nil || n <= 0 {
			return defaultSpeedKmh
		}
		return n * 1.609344
	}
	n, err := strconv.ParseFloat(v, 64)
	if err != nil || n <= 0 {
		return defaultSpeedKmh
	}
	return n
}

func parseOneway(v string) int {
	switch v {
	case "yes", "true", "1":
		return 1
	case "-1", "reverse":
		return -1
	}
	return 0
}
