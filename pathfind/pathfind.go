// Package pathfind implements the world's Pathfinder with an A* search
// over map tiles.
package pathfind

import (
	"container/heap"

	"github.com/Mistranger/stratagus-sub001/model"
	"github.com/Mistranger/stratagus-sub001/world"
)

const (
	costStraight = 10
	costDiagonal = 14
)

type neighbor struct {
	dx, dy int
	cost   int
}

var neighbors = [...]neighbor{
	{0, -1, costStraight},
	{1, 0, costStraight},
	{0, 1, costStraight},
	{-1, 0, costStraight},
	{1, -1, costDiagonal},
	{1, 1, costDiagonal},
	{-1, 1, costDiagonal},
	{-1, -1, costDiagonal},
}

// Finder searches a path fresh for every step, so it always reacts to the
// current unit layout.
type Finder struct {
	w *world.World

	// MaxNodes caps the number of tiles expanded per search; 0 means the
	// whole map.
	MaxNodes int
}

// New returns a Finder over w.
func New(w *world.World) *Finder {
	return &Finder{w: w}
}

// Reached reports whether u, standing at (x, y), satisfies its active
// order's goal and range.
func Reached(u *model.Unit, x, y int) bool {
	o := u.Order()
	tw, th := u.Type.Footprint()
	if g := o.Goal(); g != nil {
		gx, gy, gw, gh := g.Footprint()
		return model.RectDistance(x, y, tw, th, gx, gy, gw, gh) <= o.Range
	}
	return model.DistanceToRect(o.X, o.Y, x, y, tw, th) <= o.Range
}

// NextStep returns the step u should take towards its active order's
// goal.
func (f *Finder) NextStep(u *model.Unit) (int, int, world.PathResult) {
	if Reached(u, u.X, u.Y) {
		return 0, 0, world.PathReached
	}
	path := f.search(u)
	if len(path) == 0 {
		return 0, 0, world.PathUnreachable
	}
	next := path[0]
	dx, dy := next.x-u.X, next.y-u.Y
	// Moving units are ignored by the search; wait for them to clear.
	if !f.free(u, next.x, next.y, true) {
		return 0, 0, world.PathWait
	}
	return dx, dy, world.PathResult(len(path))
}

// free reports whether u's footprint fits at (x, y). Moving units block
// only when withMoving is set.
func (f *Finder) free(u *model.Unit, x, y int, withMoving bool) bool {
	t := u.Type
	tw, th := t.Footprint()
	for yy := y; yy < y+th; yy++ {
		for xx := x; xx < x+tw; xx++ {
			if !f.w.Map.Passable(xx, yy, t.Domain) {
				return false
			}
			for _, o := range f.w.Index.SelectOnTile(xx, yy) {
				if o == u || !blocks(t, o.Type) {
					continue
				}
				if o.Moving && !withMoving {
					continue
				}
				return false
			}
		}
	}
	return true
}

// blocks reports whether a unit of type o occupies space a unit of t
// needs.
func blocks(t, o *model.UnitType) bool {
	if t.Domain == model.DomainAir {
		return o.Domain == model.DomainAir && !o.Building
	}
	if o.Building {
		return true
	}
	return o.Layer() == t.Layer()
}

type point struct{ x, y int }

type node struct {
	p      point
	g, f   int
	index  int
	parent *node
}

type queue []*node

func (q queue) Len() int { return len(q) }

func (q queue) Less(i, j int) bool {
	if q[i].f != q[j].f {
		return q[i].f < q[j].f
	}
	return q[i].g > q[j].g
}

func (q queue) Swap(i, j int) {
	q[i], q[j] = q[j], q[i]
	q[i].index = i
	q[j].index = j
}

func (q *queue) Push(x any) {
	n := x.(*node)
	n.index = len(*q)
	*q = append(*q, n)
}

func (q *queue) Pop() any {
	old := *q
	n := old[len(old)-1]
	old[len(old)-1] = nil
	n.index = -1
	*q = old[:len(old)-1]
	return n
}

func (f *Finder) heuristic(u *model.Unit, p point) int {
	o := u.Order()
	gx, gy := o.X, o.Y
	if g := o.Goal(); g != nil {
		gx, gy = g.Center()
	}
	d := model.MapDistance(p.x, p.y, gx, gy) - o.Range
	return max(d, 0) * costStraight
}

// search returns the tiles from the one after u's position up to the
// first tile that satisfies the goal, or nil.
func (f *Finder) search(u *model.Unit) []point {
	m := f.w.Map
	limit := f.MaxNodes
	if limit <= 0 {
		limit = m.Width * m.Height
	}
	start := point{u.X, u.Y}
	open := &queue{}
	heap.Push(open, &node{p: start, f: f.heuristic(u, start)})
	best := map[point]int{start: 0}
	closed := make(map[point]bool)

	for open.Len() > 0 && len(closed) < limit {
		cur := heap.Pop(open).(*node)
		if closed[cur.p] {
			continue
		}
		closed[cur.p] = true
		if cur.parent != nil && Reached(u, cur.p.x, cur.p.y) {
			return unwind(cur)
		}
		for _, nb := range neighbors {
			p := point{cur.p.x + nb.dx, cur.p.y + nb.dy}
			if closed[p] || !f.free(u, p.x, p.y, false) {
				continue
			}
			if nb.dx != 0 && nb.dy != 0 && u.Type.Domain != model.DomainAir {
				// No corner cutting.
				if !f.free(u, cur.p.x+nb.dx, cur.p.y, false) || !f.free(u, cur.p.x, cur.p.y+nb.dy, false) {
					continue
				}
			}
			g := cur.g + nb.cost
			if prev, ok := best[p]; ok && g >= prev {
				continue
			}
			best[p] = g
			heap.Push(open, &node{p: p, g: g, f: g + f.heuristic(u, p), parent: cur})
		}
	}
	return nil
}

func unwind(end *node) []point {
	var path []point
	for n := end; n.parent != nil; n = n.parent {
		path = append(path, n.p)
	}
	for i, j := 0, len(path)-1; i < j; i, j = i+1, j-1 {
		path[i], path[j] = path[j], path[i]
	}
	return path
}
