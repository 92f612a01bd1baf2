package action

import (
	"github.com/Mistranger/stratagus-sub001/anim"
	"github.com/Mistranger/stratagus-sub001/model"
	"github.com/Mistranger/stratagus-sub001/world"
)

const (
	moveRetries   = 10 // unreachable retries before a move gives up
	pathWaitTicks = 5  // pause when the next tile is held by a moving unit
)

// DoActionMove is the movement primitive every moving action builds on.
// At a tile boundary it asks the pathfinder for the next step and, on a
// step, moves u into the next tile with the sub-tile offset pointing back
// where it came from. In between, the move animation eases the offset to
// zero. Reached, unreachable and wait leave u on its tile and
// interruptible.
func DoActionMove(w *world.World, u *model.Unit) world.PathResult {
	if u.Removed {
		return world.PathUnreachable
	}
	var dx, dy int
	d := world.PathResult(0)
	if u.State == 0 {
		var res world.PathResult
		dx, dy, res = w.Path.NextStep(u)
		switch res {
		case world.PathUnreachable:
			u.Moving = false
			u.Reset = true
			if ai := aiOf(u); ai != nil {
				ai.CanNotMove(u)
			}
			return res
		case world.PathReached:
			u.Moving = false
			u.Reset = true
			return res
		case world.PathWait:
			u.Frame = u.Type.StillFrame
			u.Wait = pathWaitTicks
			u.Moving = false
			u.Reset = true
			return res
		}
		u.Moving = true
		d = res
		if dx != 0 || dy != 0 {
			w.MoveUnitTo(u, u.X+dx, u.Y+dy)
			u.IX = -dx * model.TileSizeX
			u.IY = -dy * model.TileSizeY
			u.Frame = 0
			u.Direction = model.HeadingFromDelta(dx, dy)
		}
	} else {
		dx, dy = model.HeadingStep(u.Direction)
	}
	anim.ShowMove(u, u.Type.Animations.Move, dx, dy)
	return d
}

// HandleMove walks u to its order's position or goal unit. Unreachable
// destinations are retried a few times with a growing range; a goal that
// dies on the way is replaced by the spot where it stood.
func HandleMove(w *world.World, u *model.Unit) {
	st, ok := u.ActionState.(*model.MoveState)
	if !ok {
		st = &model.MoveState{}
		u.ActionState = st
	}
	o := u.Order()
	switch DoActionMove(w, u) {
	case world.PathUnreachable:
		st.Tries++
		if st.Tries < moveRetries {
			u.Wait = w.TPS/4 + st.Tries
			if o.Range < w.Map.Width {
				o.Range++
			}
			return
		}
		fallthrough
	case world.PathReached:
		u.Finish()
		return
	}
	if g := o.Goal(); gone(g) {
		tw, th := g.Type.Footprint()
		o.X, o.Y = g.X+tw/2, g.Y+th/2
		o.ClearGoal()
	}
}

func aiOf(u *model.Unit) model.AIHooks {
	if u.Player == nil {
		return nil
	}
	return u.Player.AI
}

// gone reports whether the goal g is set but no longer a valid target.
func gone(g *model.Unit) bool {
	return g != nil && !g.Alive()
}

// faceTo turns u towards the centre of g.
func faceTo(u, g *model.Unit) {
	gx, gy := g.Center()
	faceToTile(u, gx, gy)
}

func faceToTile(u *model.Unit, x, y int) {
	if h := model.HeadingFromDelta(x-u.X, y-u.Y); h >= 0 {
		u.Direction = h
	}
}

// saveOrder remembers the active order in SavedOrder unless something is
// saved already. A goal unit is replaced by the spot it stands on.
func saveOrder(u *model.Unit) {
	if u.SavedOrder.Action != model.ActionStill {
		return
	}
	s := u.Order().Copy()
	if g := s.Goal(); g != nil {
		tw, th := g.Type.Footprint()
		s.X, s.Y = g.X+tw/2, g.Y+th/2
		s.ClearGoal()
	}
	u.SavedOrder.Release()
	u.SavedOrder = s
}

// restoreSavedOrder replaces the active order with the saved one, if
// any, and reports whether it did.
func restoreSavedOrder(u *model.Unit) bool {
	if u.SavedOrder.Action == model.ActionStill {
		return false
	}
	o := u.Order()
	o.ClearGoal()
	*o = u.SavedOrder // takes over the saved goal reference
	u.SavedOrder = model.StillOrder()
	u.ClearAction()
	return true
}
