// Package anim steps units through their animation scripts.
//
// The unit's State field is the script cursor. Each call applies one step
// and reports the step's flags; AnimReset marks the points where the
// running action may be interrupted.
package anim

import "github.com/Mistranger/stratagus-sub001/model"

// Show applies the next step of script to u: frame delta, sleep and the
// reset permission. It advances the cursor, wrapping to the first step
// after a restart step or the last step.
func Show(u *model.Unit, script model.Script) model.AnimFlags {
	if len(script) == 0 {
		u.Wait = 1
		u.Reset = true
		u.State = 0
		return model.AnimReset | model.AnimEnd
	}
	if u.State < 0 || u.State >= len(script) {
		u.State = 0
	}
	step := script[u.State]
	flags := step.Flags
	u.Frame += step.Frame
	u.Wait = max(step.Sleep, 1)
	if flags&model.AnimReset != 0 {
		u.Reset = true
	}
	switch {
	case flags&model.AnimRestart != 0:
		u.State = 0
	case u.State+1 >= len(script):
		u.State = 0
		flags |= model.AnimEnd
	default:
		u.State++
	}
	return flags
}

// ShowMove is Show for movement scripts: the step's pixel count eases the
// sub-tile offset towards zero along (dx, dy), and slow and haste double
// or halve the sleep.
func ShowMove(u *model.Unit, script model.Script, dx, dy int) model.AnimFlags {
	pixel := 0
	if u.State >= 0 && u.State < len(script) {
		pixel = script[u.State].Pixel
	}
	flags := Show(u, script)
	u.IX = ease(u.IX, dx*pixel)
	u.IY = ease(u.IY, dy*pixel)
	if u.Buffs.Slow > 0 {
		u.Wait <<= 1
	}
	if u.Buffs.Haste > 0 && u.Wait > 1 {
		u.Wait >>= 1
	}
	return flags
}

// ease moves offset by delta without crossing zero. A unit already
// centred on its tile stays there.
func ease(offset, delta int) int {
	switch next := offset + delta; {
	case offset == 0, offset < 0 && next > 0, offset > 0 && next < 0:
		return 0
	default:
		return next
	}
}

// Script returns the script u plays for action a.
func Script(u *model.Unit, a model.ActionKind) model.Script {
	an := &u.Type.Animations
	switch a {
	case model.ActionMove, model.ActionPatrol, model.ActionBoard, model.ActionFollow:
		return an.Move
	case model.ActionAttack, model.ActionAttackGround, model.ActionSpellCast:
		return an.Attack
	case model.ActionRepair, model.ActionBuild:
		if len(an.Repair) > 0 {
			return an.Repair
		}
		return an.Attack
	case model.ActionDie:
		return an.Die
	}
	return an.Still
}
