package world

import (
	"fmt"

	"github.com/Mistranger/stratagus-sub001/model"
)

// MagicForNewUnits is the share of max mana, in percent, a new unit
// starts with.
const MagicForNewUnits = 33

// MakeUnit creates a unit of t owned by p. The unit starts removed; call
// PlaceUnit or DropOutOnSide to put it on the map.
func (w *World) MakeUnit(t *model.UnitType, p *model.Player) (*model.Unit, error) {
	u, err := w.Units.Create(t)
	if err != nil {
		return nil, fmt.Errorf("make %s: %w", t.Ident, err)
	}
	u.Player = p
	u.Mana = t.MaxMana * MagicForNewUnits / 100
	u.Direction = w.Rand.Intn(8) * model.NextDirection
	if t.DecayCycles > 0 {
		u.TTL = w.Cycle + t.DecayCycles
	}
	if p != nil {
		p.AddUnit(t)
	}
	return u, nil
}

// MakeSite creates a removed building site of t for p with one hit point
// and an active Built order. The site supplies no food until it is
// finished.
func (w *World) MakeSite(t *model.UnitType, p *model.Player) (*model.Unit, error) {
	u, err := w.MakeUnit(t, p)
	if err != nil {
		return nil, err
	}
	u.HP = 1
	u.Progress = 0
	u.Order().Action = model.ActionBuilt
	if p != nil {
		p.StartSite(t)
	}
	return u, nil
}

// FinishSite turns a completed site into an idle building.
func (w *World) FinishSite(u *model.Unit) {
	u.Finish()
	if u.Player != nil {
		u.Player.FinishSite(u.Type)
	}
}

// PlaceUnit puts a removed unit on the map at (x, y).
func (w *World) PlaceUnit(u *model.Unit, x, y int) {
	if !u.Removed {
		panic(fmt.Sprintf("%s: placed while on the map", u))
	}
	u.X, u.Y = x, y
	u.IX, u.IY = 0, 0
	u.Removed = false
	u.Container = nil
	w.Index.Insert(u)
}

// RemoveUnit takes u off the map, keeping it allocated.
func (w *World) RemoveUnit(u *model.Unit) {
	if u.Removed {
		panic(fmt.Sprintf("%s: removed twice", u))
	}
	w.Index.Remove(u)
	u.Removed = true
	u.Moving = false
}

// MoveUnitTo moves a placed unit to (x, y) and updates the index.
func (w *World) MoveUnitTo(u *model.Unit, x, y int) {
	if u.Removed {
		panic(fmt.Sprintf("%s: moved while removed", u))
	}
	u.X, u.Y = x, y
	w.Index.Change(u)
}

// TileFree reports whether a unit of t could stand on (x, y) as far as
// terrain and other units on its layer are concerned. ignore may stand
// there already.
func (w *World) TileFree(t *model.UnitType, x, y int, ignore *model.Unit) bool {
	if !w.Map.Passable(x, y, t.Domain) {
		return false
	}
	if o := w.Index.OnTile(x, y, t.Layer()); o != nil && o != ignore {
		return false
	}
	if !t.Building && t.Domain != model.DomainAir {
		if b := w.Index.OnTile(x, y, model.LayerBuilding); b != nil && b != ignore {
			return false
		}
	}
	return true
}

// CanPlace reports whether the whole footprint of t fits at (x, y).
func (w *World) CanPlace(t *model.UnitType, x, y int, ignore *model.Unit) bool {
	tw, th := t.Footprint()
	for yy := y; yy < y+th; yy++ {
		for xx := x; xx < x+tw; xx++ {
			if !w.TileFree(t, xx, yy, ignore) {
				return false
			}
			if t.Building {
				if o := w.Index.OnTile(xx, yy, model.LayerLand); o != nil && o != ignore {
					return false
				}
			}
		}
	}
	return true
}

// ring walks the border of the rectangle (x, y, wd, ht) grown by r tiles,
// clockwise, starting on the side faced by heading.
func ring(x, y, wd, ht, r, heading int, fn func(x, y int) bool) bool {
	x1, y1 := x-r, y-r
	x2, y2 := x+wd-1+r, y+ht-1+r
	var pts [][2]int
	for xx := x1; xx <= x2; xx++ { // top, left to right
		pts = append(pts, [2]int{xx, y1})
	}
	for yy := y1 + 1; yy <= y2; yy++ { // right, downwards
		pts = append(pts, [2]int{x2, yy})
	}
	for xx := x2 - 1; xx >= x1; xx-- { // bottom, right to left
		pts = append(pts, [2]int{xx, y2})
	}
	for yy := y2 - 1; yy > y1; yy-- { // left, upwards
		pts = append(pts, [2]int{x1, yy})
	}
	if len(pts) == 0 {
		return false
	}
	// Quarter of the ring per side: north starts at 0, east at 1/4, ...
	start := 0
	if heading >= 0 {
		side := ((heading + model.NextDirection) & 0xFF) / (2 * model.NextDirection)
		start = side * len(pts) / 4
	}
	for i := range pts {
		p := pts[(start+i)%len(pts)]
		if fn(p[0], p[1]) {
			return true
		}
	}
	return false
}

// DropOutOnSide places the removed unit u next to the wd x ht rectangle
// at (x, y), searching outwards starting on the side faced by heading.
// It reports false, leaving u removed, if no tile is free.
func (w *World) DropOutOnSide(u *model.Unit, heading, x, y, wd, ht int) bool {
	limit := max(w.Map.Width, w.Map.Height)
	for r := 1; r <= limit; r++ {
		found := ring(x, y, wd, ht, r, heading, func(tx, ty int) bool {
			if w.CanPlace(u.Type, tx, ty, nil) {
				w.PlaceUnit(u, tx, ty)
				return true
			}
			return false
		})
		if found {
			return true
		}
	}
	return false
}

// DropOutNearest places the removed unit u on the free tile closest to
// (gx, gy) that touches the container c. It reports false, leaving u
// removed, when every adjacent tile is taken.
func (w *World) DropOutNearest(u *model.Unit, gx, gy int, c *model.Unit) bool {
	cx, cy, cw, ch := c.Footprint()
	bestD, bx, by := -1, 0, 0
	ring(cx, cy, cw, ch, 1, -1, func(tx, ty int) bool {
		if !w.CanPlace(u.Type, tx, ty, nil) {
			return false
		}
		if d := model.MapDistance(tx, ty, gx, gy); bestD < 0 || d < bestD {
			bestD, bx, by = d, tx, ty
		}
		return false
	})
	if bestD < 0 {
		return false
	}
	w.PlaceUnit(u, bx, by)
	return true
}

// UnitsAround returns the units whose footprint is within r tiles of u's
// footprint, u excluded.
func (w *World) UnitsAround(u *model.Unit, r int) []*model.Unit {
	x, y, tw, th := u.Footprint()
	all := w.Index.SelectRange(x-r, y-r, x+tw+r, y+th+r)
	out := all[:0]
	for _, o := range all {
		if o != u {
			out = append(out, o)
		}
	}
	return out
}
