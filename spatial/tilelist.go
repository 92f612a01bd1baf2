package spatial

import "github.com/Mistranger/stratagus-sub001/model"

type lnode struct {
	u    *model.Unit
	next *lnode
}

// TileListIndex keeps a singly linked list of units per origin tile.
type TileListIndex struct {
	tracker
	heads []*lnode
}

// NewTileList returns a per-tile list index for a w x h map.
func NewTileList(w, h int) *TileListIndex {
	return &TileListIndex{tracker: newTracker(w, h), heads: make([]*lnode, w*h)}
}

func (l *TileListIndex) Insert(u *model.Unit) {
	p := l.add(u)
	i := p.y*l.w + p.x
	l.heads[i] = &lnode{u: u, next: l.heads[i]}
}

func (l *TileListIndex) Remove(u *model.Unit) {
	p := l.remove(u)
	for link := &l.heads[p.y*l.w+p.x]; *link != nil; link = &(*link).next {
		if (*link).u == u {
			*link = (*link).next
			return
		}
	}
	panic("spatial: tile list lost " + u.String())
}

func (l *TileListIndex) Change(u *model.Unit) {
	l.Remove(u)
	l.Insert(u)
}

func (l *TileListIndex) SelectRange(x1, y1, x2, y2 int) []*model.Unit {
	x1, y1, x2, y2 = l.clip(x1, y1, x2, y2)
	if x1 >= x2 || y1 >= y2 {
		return nil
	}
	ex, ey := l.expand(x1, y1)
	var out []*model.Unit
	for y := ey; y < y2; y++ {
		for x := ex; x < x2; x++ {
			for n := l.heads[y*l.w+x]; n != nil; n = n.next {
				if l.placed[n.u].intersects(x1, y1, x2, y2) {
					out = append(out, n.u)
				}
			}
		}
	}
	return out
}

func (l *TileListIndex) SelectOnTile(x, y int) []*model.Unit {
	return l.SelectRange(x, y, x+1, y+1)
}

func (l *TileListIndex) OnTile(x, y int, layer model.Layer) *model.Unit {
	return firstOnLayer(l.SelectOnTile(x, y), layer)
}

func (l *TileListIndex) Len() int { return len(l.placed) }

func (l *TileListIndex) Contains(u *model.Unit) bool {
	_, ok := l.placed[u]
	return ok
}
