// Package action runs the active order of every unit once per game tick.
//
// The Dispatcher walks a snapshot of the live table, counts down each unit's
// wait and calls the handler registered for the unit's active action.
// Handlers are small state machines over the order's handler state; they
// advance by one step per call and set Wait to the number of ticks until
// their next call.
package action

import (
	"fmt"
	"log/slog"

	"github.com/Mistranger/stratagus-sub001/model"
	"github.com/Mistranger/stratagus-sub001/world"
)

// Handler advances u's active order by one step.
type Handler func(w *world.World, u *model.Unit)

// Table maps every action kind to its handler.
type Table map[model.ActionKind]Handler

// DefaultTable returns the handlers of the engine. Kinds without a real
// implementation map to the not-written stub.
func DefaultTable() Table {
	return Table{
		model.ActionNone:         HandleNotWritten,
		model.ActionStill:        HandleStill,
		model.ActionStandGround:  HandleStandGround,
		model.ActionFollow:       HandleNotWritten,
		model.ActionMove:         HandleMove,
		model.ActionAttack:       HandleAttack,
		model.ActionAttackGround: HandleAttack,
		model.ActionDie:          HandleDie,
		model.ActionSpellCast:    HandleSpellCast,
		model.ActionTrain:        HandleTrain,
		model.ActionUpgradeTo:    HandleNotWritten,
		model.ActionResearch:     HandleNotWritten,
		model.ActionBuilt:        HandleBuilt,
		model.ActionBoard:        HandleBoard,
		model.ActionUnload:       HandleUnload,
		model.ActionPatrol:       HandlePatrol,
		model.ActionBuild:        HandleNotWritten,
		model.ActionRepair:       HandleRepair,
		model.ActionHarvest:      HandleNotWritten,
		model.ActionReturnGoods:  HandleNotWritten,
		model.ActionDemolish:     HandleNotWritten,
	}
}

// Dispatcher runs unit actions against a world.
type Dispatcher struct {
	w     *world.World
	table Table
}

// New returns a dispatcher using table. Every action kind must have a
// handler.
func New(w *world.World, table Table) (*Dispatcher, error) {
	if table == nil {
		table = DefaultTable()
	}
	for _, k := range model.ActionKinds() {
		if table[k] == nil {
			return nil, fmt.Errorf("action table: no handler for %s", k)
		}
	}
	return &Dispatcher{w: w, table: table}, nil
}

// Tick runs one game cycle over a snapshot of the live table taken at
// its start: the once-per-second buff pass, then one step for every unit
// whose wait has run out. Units destroyed during the tick are skipped and
// units created during it first run on the next tick.
func (d *Dispatcher) Tick() {
	w := d.w
	units := w.Units.Snapshot()
	if w.Second() {
		for _, u := range units {
			if !u.Destroyed {
				handleBuffs(w, u)
			}
		}
	}

	for _, u := range units {
		if u.Destroyed {
			continue
		}
		if u.Wait < 1 {
			u.Wait = 1
		}
		u.Wait--
		if u.Wait > 0 {
			continue
		}
		d.HandleUnitAction(u)
	}
	w.Cycle++
}

// HandleUnitAction gives u's active order one step. At an interruptible
// point a Still order or a flushed order gives way to the next queued
// order before the handler runs.
func (d *Dispatcher) HandleUnitAction(u *model.Unit) {
	if u.Reset {
		u.Reset = false
		if u.Orders.Len() > 1 && (u.Order().Action == model.ActionStill || u.OrderFlush) {
			if u.Removed {
				return
			}
			u.Orders.Shift()
			u.ClearAction()
			u.Wait = 1
			u.OrderFlush = false
			slog.Debug("next order", "unit", u, "action", u.Order().Action)
		}
	}
	d.table[u.Order().Action](d.w, u)
}

type stubKey struct {
	slot int
	kind model.ActionKind
}

var warned = make(map[stubKey]bool)

// HandleNotWritten is the handler of actions the engine does not
// implement. It logs once per unit and action and lets the order be
// interrupted on the next tick.
func HandleNotWritten(w *world.World, u *model.Unit) {
	k := stubKey{u.Slot, u.Order().Action}
	if !warned[k] {
		warned[k] = true
		slog.Warn("action not written", "unit", u, "action", k.kind)
	}
	u.Reset = true
	u.Wait = 1
}
