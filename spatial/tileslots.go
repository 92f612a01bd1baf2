package spatial

import (
	"fmt"

	"github.com/Mistranger/stratagus-sub001/model"
)

type slots [model.LayerCount]*model.Unit

// TileSlotsIndex stores at most one unit per layer in each tile. The
// whole-footprint variant writes a unit into every tile it covers, so
// point queries are exact; the origin variant writes only the origin tile
// and filters candidates like the list strategies do.
type TileSlotsIndex struct {
	tracker
	cells      []slots
	originOnly bool
}

// NewTileSlots returns a slot index for a w x h map.
func NewTileSlots(w, h int, originOnly bool) *TileSlotsIndex {
	return &TileSlotsIndex{tracker: newTracker(w, h), cells: make([]slots, w*h), originOnly: originOnly}
}

func (s *TileSlotsIndex) footprint(p placement) (int, int) {
	if s.originOnly {
		return 1, 1
	}
	return p.w, p.h
}

func (s *TileSlotsIndex) Insert(u *model.Unit) {
	p := s.add(u)
	w, h := s.footprint(p)
	for y := p.y; y < p.y+h; y++ {
		for x := p.x; x < p.x+w; x++ {
			c := &s.cells[y*s.w+x]
			if c[p.layer] != nil {
				panic(fmt.Sprintf("spatial: %s on (%d,%d) %s slot held by %s", u, x, y, p.layer, c[p.layer]))
			}
			c[p.layer] = u
		}
	}
}

func (s *TileSlotsIndex) Remove(u *model.Unit) {
	p := s.remove(u)
	w, h := s.footprint(p)
	for y := p.y; y < p.y+h; y++ {
		for x := p.x; x < p.x+w; x++ {
			c := &s.cells[y*s.w+x]
			if c[p.layer] != u {
				panic(fmt.Sprintf("spatial: %s missing from (%d,%d) %s slot", u, x, y, p.layer))
			}
			c[p.layer] = nil
		}
	}
}

func (s *TileSlotsIndex) Change(u *model.Unit) {
	s.Remove(u)
	s.Insert(u)
}

func (s *TileSlotsIndex) SelectRange(x1, y1, x2, y2 int) []*model.Unit {
	x1, y1, x2, y2 = s.clip(x1, y1, x2, y2)
	if x1 >= x2 || y1 >= y2 {
		return nil
	}
	var out []*model.Unit
	if s.originOnly {
		ex, ey := s.expand(x1, y1)
		for y := ey; y < y2; y++ {
			for x := ex; x < x2; x++ {
				for _, u := range s.cells[y*s.w+x] {
					if u != nil && s.placed[u].intersects(x1, y1, x2, y2) {
						out = append(out, u)
					}
				}
			}
		}
		return out
	}

	// A multi-tile unit shows up in every tile it covers; report it from
	// the first covered tile the scan reaches, which is the top-left
	// corner of its overlap with the query.
	for y := y1; y < y2; y++ {
		for x := x1; x < x2; x++ {
			for _, u := range s.cells[y*s.w+x] {
				if u == nil {
					continue
				}
				p := s.placed[u]
				if x == max(p.x, x1) && y == max(p.y, y1) {
					out = append(out, u)
				}
			}
		}
	}
	return out
}

func (s *TileSlotsIndex) SelectOnTile(x, y int) []*model.Unit {
	return s.SelectRange(x, y, x+1, y+1)
}

func (s *TileSlotsIndex) OnTile(x, y int, layer model.Layer) *model.Unit {
	if x < 0 || y < 0 || x >= s.w || y >= s.h {
		return nil
	}
	if !s.originOnly {
		return s.cells[y*s.w+x][layer]
	}
	return firstOnLayer(s.SelectOnTile(x, y), layer)
}

func (s *TileSlotsIndex) Len() int { return len(s.placed) }

func (s *TileSlotsIndex) Contains(u *model.Unit) bool {
	_, ok := s.placed[u]
	return ok
}
