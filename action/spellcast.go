package action

import (
	"github.com/Mistranger/stratagus-sub001/anim"
	"github.com/Mistranger/stratagus-sub001/model"
	"github.com/Mistranger/stratagus-sub001/spell"
	"github.com/Mistranger/stratagus-sub001/world"
)

// HandleSpellCast checks that the spell can be cast, walks into range and
// casts it on the missile frame of the attack animation. Multi-charge
// spells keep casting while the effect asks for another charge.
func HandleSpellCast(w *world.World, u *model.Unit) {
	st, ok := u.ActionState.(*model.SpellCastState)
	if !ok {
		st = &model.SpellCastState{}
		u.ActionState = st
	}
	o := u.Order()
	s := o.Spell

	switch st.Phase {
	case model.SpellValidate:
		if s == nil || !spell.CanCast(w, u, s, o.Goal(), o.X, o.Y) {
			switch {
			case s == nil:
			case u.Mana < s.ManaCost:
				w.NotifyUnit(u, "%s: not enough mana to cast spell: %s", nameOf(u.Type), spellName(s))
			default:
				w.NotifyUnit(u, "%s: can't cast spell: %s", nameOf(u.Type), spellName(s))
			}
			u.Finish()
			u.Wait = 1
			return
		}
		st.Phase = model.SpellMoveToRange
		fallthrough
	case model.SpellMoveToRange:
		if s.Range != model.InfiniteRange && s.Target != model.TargetSelf {
			if !spellMoveToTarget(w, u, st) {
				return
			}
		}
		st.Phase = model.SpellCasting
		u.State = 0
		fallthrough
	case model.SpellCasting:
		castStep(w, u, st)
	}
}

// spellMoveToTarget reports whether u is in casting range. It gives up on
// an unreachable target.
func spellMoveToTarget(w *world.World, u *model.Unit, st *model.SpellCastState) bool {
	o := u.Order()
	if spellInRange(u) {
		u.State = 0
		faceSpellTarget(u)
		return true
	}
	if !u.Type.CanMove() {
		u.Finish()
		u.Wait = 1
		return false
	}
	res := DoActionMove(w, u)
	if gone(o.Goal()) {
		u.Finish()
		u.Wait = 1
		return false
	}
	if u.State == 0 && spellInRange(u) {
		faceSpellTarget(u)
		return true
	}
	if res == world.PathUnreachable || res == world.PathReached {
		st.Tries++
		if res == world.PathReached || st.Tries >= moveRetries {
			u.Finish()
			u.Wait = 1
			return false
		}
		u.Wait = w.TPS/4 + st.Tries
	}
	return false
}

func spellInRange(u *model.Unit) bool {
	o := u.Order()
	if g := o.Goal(); g != nil {
		return model.DistanceBetweenUnits(u, g) <= o.Range
	}
	return model.DistanceToUnit(o.X, o.Y, u) <= o.Range
}

func faceSpellTarget(u *model.Unit) {
	o := u.Order()
	if g := o.Goal(); g != nil {
		faceTo(u, g)
		return
	}
	faceToTile(u, o.X, o.Y)
}

// castStep plays one step of the casting animation and applies a charge
// on its missile frame. Charge is -1 once the spell is spent; the order
// ends at the next interruptible frame after that.
func castStep(w *world.World, u *model.Unit, st *model.SpellCastState) {
	if script := u.Type.Animations.Attack; len(script) == 0 {
		castCharge(w, u, st)
	} else {
		if anim.Show(u, script)&model.AnimMissile != 0 {
			castCharge(w, u, st)
		}
		if !u.Reset {
			return
		}
	}
	if u.Order().Action != model.ActionSpellCast || st.Charge >= 0 {
		return
	}
	u.Finish()
	u.Wait = 1
}

func castCharge(w *world.World, u *model.Unit, st *model.SpellCastState) {
	if st.Charge < 0 {
		return
	}
	o := u.Order()
	next := 0
	if !gone(o.Goal()) {
		next = spell.Apply(w, &spell.Cast{
			Caster: u,
			Spell:  o.Spell,
			Target: o.Goal(),
			X:      o.X,
			Y:      o.Y,
			Charge: st.Charge,
		})
	}
	if next == 0 {
		next = -1
	}
	st.Charge = next
}

func spellName(s *model.SpellType) string {
	if s.Name != "" {
		return s.Name
	}
	return s.Ident
}
