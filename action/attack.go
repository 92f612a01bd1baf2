package action

import (
	"github.com/Mistranger/stratagus-sub001/anim"
	"github.com/Mistranger/stratagus-sub001/model"
	"github.com/Mistranger/stratagus-sub001/world"
)

// attackRetries bounds how often an unreachable attack widens its range
// before it gives up.
const attackRetries = 10

// HandleAttack runs Attack and AttackGround orders. The unit closes in on
// its goal unit or destination, then plays its attack animation and fires
// on the missile frame. Units attack-moving to a position engage enemies
// in reaction range on the way; such weak targets give way to a higher
// priority enemy, and when they die the saved order is resumed.
func HandleAttack(w *world.World, u *model.Unit) {
	o := u.Order()
	st, ok := u.ActionState.(*model.AttackState)
	if !ok || st.Kind() != o.Action {
		st = &model.AttackState{Ground: o.Action == model.ActionAttackGround}
		u.ActionState = st
	}

	switch st.Phase {
	case model.AttackInit:
		if checkForTargetInRange(w, u, st) {
			return
		}
		if g := o.Goal(); g != nil && inAttackRange(u, g) {
			faceTo(u, g)
			st.Phase = model.AttackTarget
			attackTarget(w, u, st)
			return
		}
		if st.Ground && groundInRange(u) {
			faceToTile(u, o.X, o.Y)
			st.Phase = model.AttackTarget
			attackTarget(w, u, st)
			return
		}
		st.Phase = model.AttackMoveToTarget
		fallthrough
	case model.AttackMoveToTarget:
		if u.Type.Building {
			buildingAttack(w, u, st)
			return
		}
		moveToTarget(w, u, st)
	case model.AttackTarget:
		attackTarget(w, u, st)
	}
}

func inAttackRange(u, g *model.Unit) bool {
	return model.DistanceBetweenUnits(u, g) <= u.Type.AttackRange
}

func groundInRange(u *model.Unit) bool {
	o := u.Order()
	return model.DistanceToUnit(o.X, o.Y, u) <= u.Type.AttackRange
}

// retarget points the active order at t, saving the current order first.
func retarget(u, t *model.Unit) {
	saveOrder(u)
	o := u.Order()
	o.SetGoal(t)
	o.X, o.Y = t.X, t.Y
	o.Range = u.Type.AttackRange
}

// checkForTargetInRange looks for targets of opportunity: with no goal the
// best enemy in reaction range becomes a weak target, and a weak target is
// swapped for a higher priority enemy. It reports true when the active
// order was replaced.
func checkForTargetInRange(w *world.World, u *model.Unit, st *model.AttackState) bool {
	if checkForDeadGoal(u) {
		return true
	}
	if st.Ground || u.Type.Coward {
		return false
	}
	g := u.Order().Goal()
	switch {
	case g == nil:
		if t := w.AttackUnitsInReactRange(u); t != nil {
			retarget(u, t)
			st.Weak = true
		}
	case st.Weak:
		if t := w.AttackUnitsInReactRange(u); t != nil && t.Type.Priority > g.Type.Priority {
			retarget(u, t)
		}
	}
	return false
}

// checkForDeadGoal drops a dead goal, keeping its last position as the
// destination. It reports true when a saved order took over.
func checkForDeadGoal(u *model.Unit) bool {
	o := u.Order()
	g := o.Goal()
	if !gone(g) {
		return false
	}
	o.X, o.Y = g.X, g.Y
	o.ClearGoal()
	return restoreSavedOrder(u)
}

// moveToTarget chases the goal or walks to the destination, switching to
// the attack phase once in range. An unreachable destination is retried
// with a growing range.
func moveToTarget(w *world.World, u *model.Unit, st *model.AttackState) {
	res := DoActionMove(w, u)
	if !u.Reset {
		return
	}
	if checkForTargetInRange(w, u, st) {
		return
	}
	o := u.Order()
	g := o.Goal()
	if g != nil && inAttackRange(u, g) {
		u.State = 0
		faceTo(u, g)
		st.Phase = model.AttackTarget
		return
	}
	if res >= 0 || res == world.PathWait {
		return
	}
	if res == world.PathUnreachable && st.Tries < attackRetries {
		// Settle for getting closer.
		st.Tries++
		u.Wait = w.TPS/4 + st.Tries
		if o.Range < max(w.Map.Width, w.Map.Height) {
			o.Range++
		}
		return
	}
	if g == nil && st.Ground && groundInRange(u) {
		u.State = 0
		faceToTile(u, o.X, o.Y)
		st.Phase = model.AttackTarget
		return
	}
	// Reached the destination with nothing to fight, or cannot get there.
	u.State = 0
	if !restoreSavedOrder(u) {
		u.Finish()
	}
}

// buildingAttack is the move phase of units that cannot move: they fight
// what is in range and give up on the rest.
func buildingAttack(w *world.World, u *model.Unit, st *model.AttackState) {
	checkForTargetInRange(w, u, st)
	if g := u.Order().Goal(); g != nil && inAttackRange(u, g) {
		st.Phase = model.AttackTarget
		u.Wait = 1
		return
	}
	if !restoreSavedOrder(u) {
		u.Finish()
	}
	u.Wait = 1
	u.Reset = true
}

// attackTarget plays one step of the attack animation, firing on the
// missile frame. At the end of a swing it checks the goal: a dead goal
// resumes the saved order or picks the next enemy in reaction range, and
// an escaped goal is chased again.
func attackTarget(w *world.World, u *model.Unit, st *model.AttackState) {
	o := u.Order()
	flags := anim.Show(u, u.Type.Animations.Attack)
	if flags&model.AnimMissile != 0 {
		w.FireMissile(u, o.Goal(), o.X, o.Y)
	}
	if !u.Reset {
		return
	}
	if st.Ground {
		return
	}
	if checkForDeadGoal(u) {
		return
	}

	g := o.Goal()
	switch {
	case g == nil:
		t := w.AttackUnitsInReactRange(u)
		if t == nil || u.Type.Coward {
			st.Phase = model.AttackMoveToTarget
			u.State = 0
			restoreSavedOrder(u)
			return
		}
		retarget(u, t)
		st.Weak = true
		g = t
	case st.Weak:
		if t := w.AttackUnitsInReactRange(u); t != nil && t.Type.Priority > g.Type.Priority {
			retarget(u, t)
			g = t
		}
	}

	if !inAttackRange(u, g) {
		u.Frame = 0
		u.State = 0
		st.Phase = model.AttackMoveToTarget
		return
	}
	faceTo(u, g)
}
