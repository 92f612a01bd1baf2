package spatial

import (
	"math/bits"
	"slices"

	"github.com/Mistranger/stratagus-sub001/model"
)

type qnode struct {
	kids  [4]*qnode
	units []*model.Unit // leaves only: units whose origin is this tile
}

func (n *qnode) empty() bool {
	return len(n.units) == 0 && n.kids == [4]*qnode{}
}

// QuadtreeIndex keys units by origin tile in a region quadtree whose
// leaves are single tiles. Empty branches are pruned on removal.
type QuadtreeIndex struct {
	tracker
	depth int
	root  *qnode
}

// NewQuadtree returns a quadtree covering a w x h map.
func NewQuadtree(w, h int) *QuadtreeIndex {
	return &QuadtreeIndex{
		tracker: newTracker(w, h),
		depth:   bits.Len(uint(max(w, h) - 1)),
		root:    &qnode{},
	}
}

// child picks the quadrant of (x, y) below a node at level.
func child(x, y, level int) int {
	s := level - 1
	return (x>>s)&1 | ((y>>s)&1)<<1
}

func (q *QuadtreeIndex) Insert(u *model.Unit) {
	p := q.add(u)
	n := q.root
	for level := q.depth; level > 0; level-- {
		i := child(p.x, p.y, level)
		if n.kids[i] == nil {
			n.kids[i] = &qnode{}
		}
		n = n.kids[i]
	}
	n.units = append(n.units, u)
}

func (q *QuadtreeIndex) Remove(u *model.Unit) {
	p := q.remove(u)
	path := make([]*qnode, 0, q.depth+1)
	n := q.root
	for level := q.depth; level > 0; level-- {
		path = append(path, n)
		n = n.kids[child(p.x, p.y, level)]
		if n == nil {
			panic("spatial: quadtree lost branch for " + u.String())
		}
	}
	i := slices.Index(n.units, u)
	if i < 0 {
		panic("spatial: quadtree leaf lost " + u.String())
	}
	n.units = slices.Delete(n.units, i, i+1)

	// Prune back up while the chain is empty.
	for level := 1; level <= q.depth && n.empty(); level++ {
		parent := path[len(path)-level]
		parent.kids[child(p.x, p.y, level)] = nil
		n = parent
	}
}

func (q *QuadtreeIndex) Change(u *model.Unit) {
	q.Remove(u)
	q.Insert(u)
}

func (q *QuadtreeIndex) SelectRange(x1, y1, x2, y2 int) []*model.Unit {
	x1, y1, x2, y2 = q.clip(x1, y1, x2, y2)
	if x1 >= x2 || y1 >= y2 {
		return nil
	}
	ex, ey := q.expand(x1, y1)
	var out []*model.Unit
	q.collect(q.root, q.depth, 0, 0, ex, ey, x2, y2, func(u *model.Unit) {
		if q.placed[u].intersects(x1, y1, x2, y2) {
			out = append(out, u)
		}
	})
	return out
}

// collect visits every unit whose origin lies in [x1,x2)x[y1,y2) below n,
// which covers the square at (ox, oy) with side 1<<level.
func (q *QuadtreeIndex) collect(n *qnode, level, ox, oy, x1, y1, x2, y2 int, fn func(*model.Unit)) {
	side := 1 << level
	if ox >= x2 || oy >= y2 || ox+side <= x1 || oy+side <= y1 {
		return
	}
	if level == 0 {
		for _, u := range n.units {
			fn(u)
		}
		return
	}
	half := side / 2
	for i, k := range n.kids {
		if k == nil {
			continue
		}
		q.collect(k, level-1, ox+(i&1)*half, oy+(i>>1)*half, x1, y1, x2, y2, fn)
	}
}

func (q *QuadtreeIndex) SelectOnTile(x, y int) []*model.Unit {
	return q.SelectRange(x, y, x+1, y+1)
}

func (q *QuadtreeIndex) OnTile(x, y int, layer model.Layer) *model.Unit {
	return firstOnLayer(q.SelectOnTile(x, y), layer)
}

func (q *QuadtreeIndex) Len() int { return len(q.placed) }

func (q *QuadtreeIndex) Contains(u *model.Unit) bool {
	_, ok := q.placed[u]
	return ok
}
