package world

import "github.com/Mistranger/stratagus-sub001/model"

// CanAttackUnit reports whether u could attack target right now, range
// aside.
func CanAttackUnit(u, target *model.Unit) bool {
	return target != u &&
		target.Alive() &&
		target.Buffs.Invisible == 0 &&
		u.Player.IsEnemy(target.Player) &&
		CanTarget(u.Type, target.Type)
}

// AttackUnitsInDistance returns the best enemy u may attack within r
// tiles, or nil. Higher priority wins, then the closer unit, then the
// lower slot.
func (w *World) AttackUnitsInDistance(u *model.Unit, r int) *model.Unit {
	if !u.Type.CanAttack || r <= 0 {
		return nil
	}
	var best *model.Unit
	bestD := 0
	for _, t := range w.UnitsAround(u, r) {
		if !CanAttackUnit(u, t) {
			continue
		}
		d := model.DistanceBetweenUnits(u, t)
		if d > r {
			continue
		}
		if best == nil || better(t, d, best, bestD) {
			best, bestD = t, d
		}
	}
	return best
}

func better(t *model.Unit, d int, best *model.Unit, bestD int) bool {
	switch {
	case t.Type.Priority != best.Type.Priority:
		return t.Type.Priority > best.Type.Priority
	case d != bestD:
		return d < bestD
	}
	return t.Slot < best.Slot
}

// AttackUnitsInReactRange searches the reaction range of u's type.
func (w *World) AttackUnitsInReactRange(u *model.Unit) *model.Unit {
	return w.AttackUnitsInDistance(u, u.Type.ReactRange)
}

// AttackUnitsInRange searches the attack range of u's type.
func (w *World) AttackUnitsInRange(u *model.Unit) *model.Unit {
	return w.AttackUnitsInDistance(u, u.Type.AttackRange)
}

// InRange reports whether goal is within r tiles of u.
func InRange(u, goal *model.Unit, r int) bool {
	return model.DistanceBetweenUnits(u, goal) <= r
}

// FriendlyDamagedInRange returns the most damaged unit owned by u's
// player or its allies within r tiles, or nil.
func (w *World) FriendlyDamagedInRange(u *model.Unit, r int) *model.Unit {
	var best *model.Unit
	for _, t := range w.UnitsAround(u, r) {
		if !t.Alive() || !u.Player.IsAllied(t.Player) || t.HP >= t.MaxHP() {
			continue
		}
		if best == nil || t.MaxHP()-t.HP > best.MaxHP()-best.HP {
			best = t
		}
	}
	return best
}
