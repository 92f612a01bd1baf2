package model

import "fmt"

// ActionState is the handler-private state of the active order. Every
// concrete state belongs to exactly one action kind; a nil state means
// the handler has not run yet for the current order.
type ActionState interface {
	Kind() ActionKind
}

// Buffs are per-unit effect timers counted down once per second.
type Buffs struct {
	Haste       int
	Slow        int
	Invisible   int
	Bloodlust   int
	UnholyArmor int
	FlameShield int
}

// AIHooks are the callbacks the engine makes into a player's AI. The
// receiver is the player's own AI context, so no global is needed.
type AIHooks interface {
	CanNotMove(u *Unit)
	TrainingComplete(producer, trained *Unit)
}

// Unit is the central mutable entity of the engine.
type Unit struct {
	Slot int
	Refs int

	Type   *UnitType
	Player *Player

	X, Y      int
	IX, IY    int // sub-tile pixel offset while easing into a tile
	Frame     int
	Direction int

	Destroyed bool
	Removed   bool
	Active    bool
	Moving    bool

	HP    int
	Mana  int
	Buffs Buffs
	TTL   int // cycle at which a summoned unit expires, 0 = never

	Orders      OrderQueue
	OrderFlush  bool
	SavedOrder  Order
	NewOrder    Order
	ActionState ActionState
	State       int // animation script cursor
	Wait        int
	Reset       bool

	Progress   int // build progress while the active order is Built
	Container  *Unit
	Passengers []*Unit
	Cooldowns  map[*SpellType]int

	registry *Registry
}

func newUnit(slot int, t *UnitType, reg *Registry) *Unit {
	u := &Unit{
		Slot:       slot,
		Type:       t,
		Orders:     NewOrderQueue(),
		SavedOrder: StillOrder(),
		NewOrder:   StillOrder(),
		Removed:    true,
		Active:     true,
		HP:         t.HitPoints,
		Wait:       1,
		registry:   reg,
	}
	return u
}

func (u *Unit) String() string {
	if u == nil {
		return "unit(nil)"
	}
	return fmt.Sprintf("unit#%d(%s)", u.Slot, u.Type.Ident)
}

// Order returns the active order.
func (u *Unit) Order() *Order { return u.Orders.Front() }

// ClearAction forgets handler state so the next call is a first entry.
func (u *Unit) ClearAction() {
	u.ActionState = nil
	u.State = 0
}

// Finish marks the active order done: it becomes Still and releases its goal.
func (u *Unit) Finish() {
	o := u.Order()
	o.ClearGoal()
	o.Action = ActionStill
	u.ClearAction()
}

// UnderConstruction reports whether u is a building site.
func (u *Unit) UnderConstruction() bool { return u.Order().Action == ActionBuilt }

// Alive reports whether the unit is still a valid target on the map.
func (u *Unit) Alive() bool {
	return u != nil && !u.Destroyed && !u.Removed && u.Order().Action != ActionDie
}

// Footprint returns the occupied rectangle as origin and size.
func (u *Unit) Footprint() (x, y, w, h int) {
	w, h = u.Type.Footprint()
	return u.X, u.Y, w, h
}

// Center returns the tile at the middle of the footprint.
func (u *Unit) Center() (int, int) {
	w, h := u.Type.Footprint()
	return u.X + (w-1)/2, u.Y + (h-1)/2
}

// MaxHP returns the hit point cap of the unit.
func (u *Unit) MaxHP() int { return u.Type.HitPoints }

// ReleaseOrders drops every reference the unit holds through its orders.
func (u *Unit) ReleaseOrders() {
	u.Orders.Reset(StillOrder())
	u.SavedOrder.Release()
	u.NewOrder.Release()
	u.OrderFlush = false
}

func (u *Unit) unref() {
	if u.Refs <= 0 {
		panic(fmt.Sprintf("%s: reference count underflow", u))
	}
	u.Refs--
	if u.Refs == 0 && u.Destroyed && u.registry != nil {
		u.registry.reclaim(u)
	}
}
