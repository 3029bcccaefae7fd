// README: Process-wide routing facade; loads the map once and serves distance and edge-update calls.
package routerapi

import (
	"context"
	"errors"
	"math"
	"sync"

	"hexride/internal/modules/roadnet"
	"hexride/internal/modules/routing"
	"hexride/internal/types"
)

// ErrUninitialized is returned by update calls made before Init succeeded.
var ErrUninitialized = errors.New("router not initialized")

// Service wraps a routing engine behind the stable surface the HTTP layer and
// the matching engine consume. The engine requires callers to serialize
// queries against edge mutations; the RWMutex here is that serialization.
type Service struct {
	mu     sync.RWMutex
	engine *routing.Engine
}

func NewService(engine *routing.Engine) *Service {
	return &Service{engine: engine}
}

// Route reports the travel cost between the two points, or -1 when the graph
// is empty.
func (s *Service) Route(from, to types.Point) float64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.engine.Route(from, to)
}

func (s *Service) UpdateEdgeByID(id int, weight float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.engine.UpdateEdgeByID(id, weight)
}

func (s *Service) UpdateEdgeByNodes(from, to int, weight float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.engine.UpdateEdgeByNodes(from, to, weight)
}

func (s *Service) UpdateEdgeNear(p types.Point, weight float64, dir routing.Direction) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.engine.UpdateEdgeNear(p, weight, dir)
}

func (s *Service) Graph() *routing.Graph {
	return s.engine.Graph()
}

var (
	initOnce sync.Once
	global   *Service
	initErr  error
)

// Init loads the map extract and installs the process-wide router. Only the
// first call does work; later calls return the first call's outcome.
func Init(ctx context.Context, mapPath string) error {
	initOnce.Do(func() {
		graph, err := roadnet.Load(ctx, mapPath)
		if err != nil {
			initErr = err
			return
		}
		global = NewService(routing.NewEngine(graph))
	})
	return initErr
}

// RouteDistance is the package-level entry for callers that do not hold a
// Service. Before a successful Init it reports +Inf.
func RouteDistance(from, to types.Point) float64 {
	if global == nil {
		return math.Inf(1)
	}
	return global.Route(from, to)
}

func UpdateEdgeByID(id int, weight float64) error {
	if global == nil {
		return ErrUninitialized
	}
	global.UpdateEdgeByID(id, weight)
	return nil
}

func UpdateEdgeByNodes(from, to int, weight float64) error {
	if global == nil {
		return ErrUninitialized
	}
	global.UpdateEdgeByNodes(from, to, weight)
	return nil
}

// UpdateEdgeByCoordinates adjusts the weight of the edge(s) nearest the point,
// keeping only edges running in the named compass direction. BOTH, NONE and
// unrecognised names apply no direction filter.
func UpdateEdgeByCoordinates(lat, lng, weight float64, direction string) error {
	if global == nil {
		return ErrUninitialized
	}
	dir := routing.ParseDirection(direction)
	global.UpdateEdgeNear(types.Point{Lat: lat, Lng: lng}, weight, dir)
	return nil
}

// Default returns the installed process-wide service, or nil before Init.
func Default() *Service {
	return global
}
