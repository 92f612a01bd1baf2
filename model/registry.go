package model

import (
	"errors"
	"fmt"
)

// ErrUnitLimit is returned when the registry already holds its maximum
// number of live units.
var ErrUnitLimit = errors.New("unit limit reached")

// Registry owns every unit, assigns numeric slots and reclaims them once a
// destroyed unit is no longer referenced.
type Registry struct {
	max   int
	slots []*Unit
	live  []*Unit
	index map[*Unit]int // position in live
	free  []int

	// OnReclaim, when set, is called once for every unit whose slot is
	// reclaimed.
	OnReclaim func(*Unit)
}

// NewRegistry returns a registry that allows at most max live units.
func NewRegistry(max int) *Registry {
	if max <= 0 {
		max = 2048
	}
	return &Registry{
		max:   max,
		index: make(map[*Unit]int),
	}
}

// Create allocates a unit of type t. The unit starts removed from the map
// with zero references.
func (r *Registry) Create(t *UnitType) (*Unit, error) {
	if t == nil {
		return nil, errors.New("create unit: nil type")
	}
	if len(r.live) >= r.max {
		return nil, ErrUnitLimit
	}
	var slot int
	if len(r.free) > 0 {
		slot = r.free[0]
		r.free = r.free[1:]
	} else {
		slot = len(r.slots)
		r.slots = append(r.slots, nil)
	}
	u := newUnit(slot, t, r)
	r.slots[slot] = u
	r.index[u] = len(r.live)
	r.live = append(r.live, u)
	return u, nil
}

// Len returns the number of live units.
func (r *Registry) Len() int { return len(r.live) }

// Max returns the live unit cap.
func (r *Registry) Max() int { return r.max }

// Full reports whether Create would fail with ErrUnitLimit.
func (r *Registry) Full() bool { return len(r.live) >= r.max }

// Live returns the live table in enumeration order. The slice is owned by
// the registry and changes as units are created and destroyed.
func (r *Registry) Live() []*Unit { return r.live }

// Snapshot returns a point-in-time copy of the live table.
func (r *Registry) Snapshot() []*Unit {
	out := make([]*Unit, len(r.live))
	copy(out, r.live)
	return out
}

// Slot returns the unit allocated in slot id, including destroyed units
// that are still referenced.
func (r *Registry) Slot(id int) *Unit {
	if id < 0 || id >= len(r.slots) {
		return nil
	}
	return r.slots[id]
}

// Destroy marks u destroyed and removes it from the live table. The slot
// is reclaimed immediately when nothing references u, otherwise when the
// last reference is released.
func (r *Registry) Destroy(u *Unit) {
	if u.Destroyed {
		panic(fmt.Sprintf("%s: destroyed twice", u))
	}
	i, ok := r.index[u]
	if !ok || u.registry != r {
		panic(fmt.Sprintf("%s: not owned by this registry", u))
	}
	u.Destroyed = true
	last := len(r.live) - 1
	moved := r.live[last]
	r.live[i] = moved
	r.index[moved] = i
	r.live[last] = nil
	r.live = r.live[:last]
	delete(r.index, u)
	if u.Refs == 0 {
		r.reclaim(u)
	}
}

func (r *Registry) reclaim(u *Unit) {
	if r.slots[u.Slot] != u {
		panic(fmt.Sprintf("%s: reclaimed twice", u))
	}
	r.slots[u.Slot] = nil
	r.free = append(r.free, u.Slot)
	u.registry = nil
	if r.OnReclaim != nil {
		r.OnReclaim(u)
	}
}
