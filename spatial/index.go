// Package spatial maps tiles to the units standing on them.
//
// Every strategy satisfies the same contract and answers the same queries
// identically; they differ only in memory and time tradeoffs. A unit is
// indexed at the position it had when Insert or Change was last called,
// so callers update X and Y first and call Change afterwards.
package spatial

import (
	"errors"
	"fmt"
	"sort"

	"github.com/Mistranger/stratagus-sub001/model"
)

// ErrUnknownStrategy is returned by New for an unregistered strategy name.
var ErrUnknownStrategy = errors.New("unknown index strategy")

// Index is the unit cache queried by every action handler.
type Index interface {
	// Insert adds u at its current position. u must not be indexed.
	Insert(u *model.Unit)
	// Remove drops u from wherever it was inserted. u must be indexed.
	Remove(u *model.Unit)
	// Change moves u to its current position.
	Change(u *model.Unit)
	// SelectRange returns every unit whose footprint intersects
	// [x1,x2)x[y1,y2), clipped to the map, each exactly once.
	SelectRange(x1, y1, x2, y2 int) []*model.Unit
	// SelectOnTile is SelectRange over the single tile (x, y).
	SelectOnTile(x, y int) []*model.Unit
	// OnTile returns a unit of the given layer covering (x, y), or nil.
	OnTile(x, y int, layer model.Layer) *model.Unit
	// Len returns the number of indexed units.
	Len() int
	// Contains reports whether u is indexed.
	Contains(u *model.Unit) bool
}

// Strategy names accepted by New.
const (
	Quadtree        = "quadtree"
	TileList        = "tilelist"
	TileSlots       = "tileslots"
	TileSlotsOrigin = "tileslots-origin"
)

var strategies = map[string]func(w, h int) Index{
	Quadtree:        func(w, h int) Index { return NewQuadtree(w, h) },
	TileList:        func(w, h int) Index { return NewTileList(w, h) },
	TileSlots:       func(w, h int) Index { return NewTileSlots(w, h, false) },
	TileSlotsOrigin: func(w, h int) Index { return NewTileSlots(w, h, true) },
}

// New builds the strategy named by name for a w x h map.
func New(name string, w, h int) (Index, error) {
	ctor, ok := strategies[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownStrategy, name)
	}
	if w <= 0 || h <= 0 {
		return nil, fmt.Errorf("index %s: invalid map size %dx%d", name, w, h)
	}
	return ctor(w, h), nil
}

// Strategies lists the registered strategy names in sorted order.
func Strategies() []string {
	out := make([]string, 0, len(strategies))
	for name := range strategies {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

// Known reports whether name is a registered strategy.
func Known(name string) bool {
	_, ok := strategies[name]
	return ok
}

// placement is the rectangle a unit was indexed with.
type placement struct {
	x, y, w, h int
	layer      model.Layer
}

func placementOf(u *model.Unit) placement {
	x, y, w, h := u.Footprint()
	return placement{x: x, y: y, w: w, h: h, layer: u.Type.Layer()}
}

func (p placement) intersects(x1, y1, x2, y2 int) bool {
	return model.RectsIntersect(p.x, p.y, p.w, p.h, x1, y1, x2-x1, y2-y1)
}

func (p placement) covers(x, y int) bool {
	return x >= p.x && x < p.x+p.w && y >= p.y && y < p.y+p.h
}

// tracker records where each unit was indexed. Strategies that key units
// by origin tile also use it to widen range queries by the largest
// footprint seen so far.
type tracker struct {
	w, h   int
	placed map[*model.Unit]placement
	maxW   int
	maxH   int
}

func newTracker(w, h int) tracker {
	return tracker{w: w, h: h, placed: make(map[*model.Unit]placement), maxW: 1, maxH: 1}
}

func (t *tracker) add(u *model.Unit) placement {
	if _, ok := t.placed[u]; ok {
		panic(fmt.Sprintf("spatial: %s inserted twice", u))
	}
	p := placementOf(u)
	if p.x < 0 || p.y < 0 || p.x+p.w > t.w || p.y+p.h > t.h {
		panic(fmt.Sprintf("spatial: %s at (%d,%d) size %dx%d is off the %dx%d map", u, p.x, p.y, p.w, p.h, t.w, t.h))
	}
	t.placed[u] = p
	t.maxW = max(t.maxW, p.w)
	t.maxH = max(t.maxH, p.h)
	return p
}

func (t *tracker) remove(u *model.Unit) placement {
	p, ok := t.placed[u]
	if !ok {
		panic(fmt.Sprintf("spatial: %s removed but not indexed", u))
	}
	delete(t.placed, u)
	return p
}

func (t *tracker) clip(x1, y1, x2, y2 int) (int, int, int, int) {
	return max(x1, 0), max(y1, 0), min(x2, t.w), min(y2, t.h)
}

// expand widens a clipped query so origin-keyed strategies see units
// whose origin lies up and left of the rectangle.
func (t *tracker) expand(x1, y1 int) (int, int) {
	return max(x1-(t.maxW-1), 0), max(y1-(t.maxH-1), 0)
}

func firstOnLayer(units []*model.Unit, layer model.Layer) *model.Unit {
	for _, u := range units {
		if u.Type.Layer() == layer {
			return u
		}
	}
	return nil
}
