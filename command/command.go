// Package command turns player and AI intents into unit orders.
//
// Every command either appends an order to the unit's queue or, with
// flush set, drops the queued orders and asks the dispatcher to abandon
// the active one at its next interruptible point.
package command

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/Mistranger/stratagus-sub001/model"
	"github.com/Mistranger/stratagus-sub001/world"
)

var (
	ErrQueueFull     = errors.New("order queue full")
	ErrRemoved       = errors.New("unit not on the map")
	ErrNotAllowed    = errors.New("unit cannot do that")
	ErrCannotAfford  = errors.New("not enough resources")
	ErrInvalidTarget = errors.New("invalid target")
)

// nextOrder returns a fresh order slot at the end of u's queue.
func nextOrder(u *model.Unit, flush bool) (*model.Order, error) {
	if flush {
		u.Orders.Truncate()
		u.OrderFlush = true
	} else if u.Orders.Full() {
		return nil, fmt.Errorf("%s: %w", u, ErrQueueFull)
	}
	u.Orders.Push(model.StillOrder())
	return u.Orders.At(u.Orders.Len() - 1), nil
}

func clearSavedAction(u *model.Unit) {
	u.SavedOrder.Release()
}

func checkPlaced(u *model.Unit) error {
	if u.Removed || u.Destroyed {
		return fmt.Errorf("%s: %w", u, ErrRemoved)
	}
	return nil
}

func clampTo(w *world.World, x, y int) (int, int) {
	return w.Map.ClampX(x), w.Map.ClampY(y)
}

// Stop drops every order and leaves u idle.
func Stop(w *world.World, u *model.Unit) error {
	if _, err := nextOrder(u, true); err != nil {
		return err
	}
	clearSavedAction(u)
	return nil
}

// StandGround makes u hold its position, attacking only what is in range.
func StandGround(w *world.World, u *model.Unit, flush bool) error {
	o, err := nextOrder(u, flush)
	if err != nil {
		return err
	}
	o.Action = model.ActionStandGround
	clearSavedAction(u)
	return nil
}

// Move sends u to (x, y).
func Move(w *world.World, u *model.Unit, x, y int, flush bool) error {
	if err := checkPlaced(u); err != nil {
		return err
	}
	if !u.Type.CanMove() {
		return fmt.Errorf("move %s: %w", u, ErrNotAllowed)
	}
	o, err := nextOrder(u, flush)
	if err != nil {
		return err
	}
	o.Action = model.ActionMove
	o.X, o.Y = clampTo(w, x, y)
	o.Range = 0
	clearSavedAction(u)
	return nil
}

// Attack orders u to attack target, or to attack-move to (x, y) when
// target is nil or already dead.
func Attack(w *world.World, u *model.Unit, x, y int, target *model.Unit, flush bool) error {
	if err := checkPlaced(u); err != nil {
		return err
	}
	if !u.Type.CanAttack {
		return fmt.Errorf("attack %s: %w", u, ErrNotAllowed)
	}
	if target == u {
		return fmt.Errorf("attack %s: %w", u, ErrInvalidTarget)
	}
	o, err := nextOrder(u, flush)
	if err != nil {
		return err
	}
	o.Action = model.ActionAttack
	if target != nil && target.Alive() {
		o.SetGoal(target)
		o.X, o.Y = target.X, target.Y
		o.Range = u.Type.AttackRange
	} else {
		o.X, o.Y = clampTo(w, x, y)
		o.Range = 0
		o.HasDestination = true
	}
	clearSavedAction(u)
	return nil
}

// AttackGround orders u to fire at the tile (x, y).
func AttackGround(w *world.World, u *model.Unit, x, y int, flush bool) error {
	if err := checkPlaced(u); err != nil {
		return err
	}
	if !u.Type.CanAttack || u.Type.Missile == nil {
		return fmt.Errorf("attack ground %s: %w", u, ErrNotAllowed)
	}
	o, err := nextOrder(u, flush)
	if err != nil {
		return err
	}
	o.Action = model.ActionAttackGround
	o.X, o.Y = clampTo(w, x, y)
	o.Range = u.Type.AttackRange
	clearSavedAction(u)
	return nil
}

// Patrol sends u back and forth between its position and (x, y).
func Patrol(w *world.World, u *model.Unit, x, y int, flush bool) error {
	if err := checkPlaced(u); err != nil {
		return err
	}
	if !u.Type.CanMove() {
		return fmt.Errorf("patrol %s: %w", u, ErrNotAllowed)
	}
	o, err := nextOrder(u, flush)
	if err != nil {
		return err
	}
	o.Action = model.ActionPatrol
	o.X, o.Y = clampTo(w, x, y)
	o.PatrolX, o.PatrolY = u.X, u.Y
	o.Range = 0
	clearSavedAction(u)
	return nil
}

// Board orders u to enter transporter.
func Board(w *world.World, u *model.Unit, transporter *model.Unit, flush bool) error {
	if err := checkPlaced(u); err != nil {
		return err
	}
	if transporter == nil || transporter == u || !transporter.Alive() || !transporter.Type.Transporter {
		return fmt.Errorf("board %s: %w", u, ErrInvalidTarget)
	}
	if u.Type.Building || u.Type.Transporter {
		return fmt.Errorf("board %s: %w", u, ErrNotAllowed)
	}
	o, err := nextOrder(u, flush)
	if err != nil {
		return err
	}
	o.Action = model.ActionBoard
	o.SetGoal(transporter)
	o.X, o.Y = transporter.X, transporter.Y
	o.Range = 1
	clearSavedAction(u)
	return nil
}

// Unload orders transporter u to drop passengers near (x, y). A nil what
// unloads everybody.
func Unload(w *world.World, u *model.Unit, x, y int, what *model.Unit, flush bool) error {
	if !u.Type.Transporter {
		return fmt.Errorf("unload %s: %w", u, ErrNotAllowed)
	}
	if what != nil && what.Container != u {
		return fmt.Errorf("unload %s: %w", u, ErrInvalidTarget)
	}
	o, err := nextOrder(u, flush)
	if err != nil {
		return err
	}
	o.Action = model.ActionUnload
	o.X, o.Y = clampTo(w, x, y)
	o.SetGoal(what)
	o.Range = 0
	clearSavedAction(u)
	return nil
}

// Repair orders u to repair target.
func Repair(w *world.World, u *model.Unit, target *model.Unit, flush bool) error {
	if err := checkPlaced(u); err != nil {
		return err
	}
	if !u.Type.CanRepair {
		return fmt.Errorf("repair %s: %w", u, ErrNotAllowed)
	}
	if target == nil || !target.Alive() || !u.Player.IsAllied(target.Player) {
		return fmt.Errorf("repair %s: %w", u, ErrInvalidTarget)
	}
	o, err := nextOrder(u, flush)
	if err != nil {
		return err
	}
	o.Action = model.ActionRepair
	o.SetGoal(target)
	o.X, o.Y = target.X, target.Y
	o.Range = max(u.Type.RepairRange, 1)
	clearSavedAction(u)
	return nil
}

// SpellCast orders u to cast s on target, or at (x, y) for position
// spells.
func SpellCast(w *world.World, u *model.Unit, x, y int, target *model.Unit, s *model.SpellType, flush bool) error {
	if err := checkPlaced(u); err != nil {
		return err
	}
	if s == nil || !u.Type.CanCastSpell || !u.Type.Knows(s) {
		return fmt.Errorf("spell cast %s: %w", u, ErrNotAllowed)
	}
	if s.Target == model.TargetUnit && (target == nil || !target.Alive()) {
		return fmt.Errorf("spell cast %s: %w", u, ErrInvalidTarget)
	}
	o, err := nextOrder(u, flush)
	if err != nil {
		return err
	}
	o.Action = model.ActionSpellCast
	o.Spell = s
	o.Range = s.Range
	switch s.Target {
	case model.TargetUnit:
		o.SetGoal(target)
		o.X, o.Y = target.X, target.Y
	case model.TargetSelf:
		o.X, o.Y = u.X, u.Y
	default:
		o.X, o.Y = clampTo(w, x, y)
	}
	clearSavedAction(u)
	return nil
}

// TrainUnit queues a unit of t at producer u, paying for it up front. A
// producer already training appends to its FIFO.
func TrainUnit(w *world.World, u *model.Unit, t *model.UnitType, flush bool) error {
	if err := checkPlaced(u); err != nil {
		return err
	}
	if t == nil || !u.Type.Trains(t) {
		return fmt.Errorf("train at %s: %w", u, ErrNotAllowed)
	}
	p := u.Player
	if i := p.Missing(t.Costs); i >= 0 {
		w.NotifyUnit(u, "Not enough %s", model.CostName(i))
		return fmt.Errorf("train %s: %w", t.Ident, ErrCannotAfford)
	}
	if st := u.Training(); st != nil {
		if len(st.Queue) >= model.MaxTrainQueue {
			return fmt.Errorf("train %s: %w", t.Ident, ErrQueueFull)
		}
		st.Queue = append(st.Queue, t)
	} else {
		o, err := nextOrder(u, flush)
		if err != nil {
			return err
		}
		o.Action = model.ActionTrain
		o.Type = t
	}
	p.Spend(t.Costs)
	slog.Debug("training queued", "producer", u, "type", t.Ident, "player", p.Name)
	return nil
}

// CancelTraining removes the FIFO entry at slot (-1 for the last) and
// refunds its cost. Cancelling the unit in production loses its progress.
func CancelTraining(w *world.World, u *model.Unit, slot int) error {
	st := u.Training()
	if st == nil || len(st.Queue) == 0 {
		return fmt.Errorf("cancel training at %s: %w", u, ErrNotAllowed)
	}
	if slot < 0 {
		slot = len(st.Queue) - 1
	}
	if slot >= len(st.Queue) {
		return fmt.Errorf("cancel training at %s: slot %d: %w", u, slot, ErrInvalidTarget)
	}
	t := st.Queue[slot]
	st.Queue = append(st.Queue[:slot], st.Queue[slot+1:]...)
	u.Player.Refund(t.Costs)
	if slot == 0 {
		st.Ticks = 0
	}
	if len(st.Queue) == 0 {
		u.Finish()
		u.Wait = 1
	} else {
		u.Order().Type = st.Queue[0]
	}
	return nil
}

// Construct pays for and places a building site of t at (x, y) for p. The
// site starts with one hit point and an active Built order.
func Construct(w *world.World, p *model.Player, t *model.UnitType, x, y int) (*model.Unit, error) {
	if !t.Building {
		return nil, fmt.Errorf("construct %s: %w", t.Ident, ErrNotAllowed)
	}
	if !w.CanPlace(t, x, y, nil) {
		return nil, fmt.Errorf("construct %s at (%d,%d): %w", t.Ident, x, y, ErrInvalidTarget)
	}
	if i := p.Missing(t.Costs); i >= 0 {
		return nil, fmt.Errorf("construct %s: %w (%s)", t.Ident, ErrCannotAfford, model.CostName(i))
	}
	u, err := w.MakeSite(t, p)
	if err != nil {
		return nil, err
	}
	p.Spend(t.Costs)
	w.PlaceUnit(u, x, y)
	return u, nil
}
