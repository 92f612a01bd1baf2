package action

import (
	"log/slog"
	"slices"

	"github.com/Mistranger/stratagus-sub001/model"
	"github.com/Mistranger/stratagus-sub001/world"
)

const (
	transporterWaitTicks = 6
	unloadRetries        = 10
)

// HandleBoard walks u next to its transporter goal, waits for it to be in
// reach and climbs in. An unreachable transporter is retried with a
// growing range, then given up on.
func HandleBoard(w *world.World, u *model.Unit) {
	st, ok := u.ActionState.(*model.BoardState)
	if !ok {
		st = &model.BoardState{}
		u.ActionState = st
	}
	if t := u.Order().Goal(); t == nil || !t.Alive() {
		u.Finish()
		u.Wait = 1
		return
	}

	switch st.Step {
	case model.BoardWaitForTransporter:
		if waitForTransporter(u, st) {
			st.Step = model.BoardEnter
		}
	case model.BoardEnter:
		enterTransporter(w, u)
	default:
		if st.Step == 0 {
			st.Step = 1
		}
		moveToTransporter(w, u, st)
	}
}

func moveToTransporter(w *world.World, u *model.Unit, st *model.BoardState) {
	o := u.Order()
	x, y := u.X, u.Y
	res := DoActionMove(w, u)
	if u.X != x || u.Y != y {
		o.Range = 1
	}
	switch res {
	case world.PathUnreachable:
		st.Step++
		if st.Step >= model.BoardMaxTries {
			slog.Debug("transporter unreachable", "unit", u, "transporter", o.Goal())
			u.Finish()
			return
		}
		tw, th := u.Type.Footprint()
		if o.Range <= tw || o.Range <= th {
			o.Range++
			st.Step--
		}
	case world.PathReached:
		st.Step = model.BoardWaitForTransporter
	}
}

// waitForTransporter reports whether the transporter is next to u. A
// transporter that moved away sends u back to walking.
func waitForTransporter(u *model.Unit, st *model.BoardState) bool {
	u.Wait = transporterWaitTicks
	u.Reset = true
	u.Frame = u.Type.StillFrame
	t := u.Order().Goal()
	if model.DistanceBetweenUnits(u, t) <= 1 {
		return true
	}
	st.Step = 0
	return false
}

func enterTransporter(w *world.World, u *model.Unit) {
	t := u.Order().Goal()
	u.Finish()
	u.Wait = 1
	if len(t.Passengers) >= t.Type.MaxOnBoard {
		w.NotifyUnit(u, "No free slot in transporter")
		return
	}
	w.Board(t, u)
	slog.Debug("boarded", "unit", u, "transporter", t)
}

// HandleUnload moves transporter u to the order's position and drops its
// passengers, or only the order's goal, on free tiles around it. While
// passengers are left the transporter keeps searching nearby.
func HandleUnload(w *world.World, u *model.Unit) {
	st, ok := u.ActionState.(*model.UnloadState)
	if !ok {
		st = &model.UnloadState{}
		u.ActionState = st
	}
	o := u.Order()
	if !st.Arrived {
		if !u.Type.CanMove() {
			st.Arrived = true
		} else {
			switch DoActionMove(w, u) {
			case world.PathReached:
				st.Arrived = true
			case world.PathUnreachable:
				st.Tries++
				if st.Tries < unloadRetries {
					o.Range++
					return
				}
				st.Arrived = true
			default:
				return
			}
		}
	}

	left := 0
	if g := o.Goal(); g != nil {
		if g.Container == u && !dropPassenger(w, u, g) {
			left++
		}
	} else {
		for _, p := range slices.Clone(u.Passengers) {
			if !dropPassenger(w, u, p) {
				left++
			}
		}
	}
	if left > 0 && st.Tries < unloadRetries {
		// Look for free ground around the current spot.
		o.X, o.Y = u.X, u.Y
		o.Range++
		st.Arrived = false
		st.Tries++
		u.Wait = 1
		return
	}
	if left > 0 {
		w.NotifyUnit(u, "No free space to unload %d units", left)
	}
	u.Finish()
	u.Wait = 1
	u.Reset = true
}

func dropPassenger(w *world.World, c, p *model.Unit) bool {
	o := c.Order()
	if !w.DropOutNearest(p, o.X, o.Y, c) {
		return false
	}
	w.Unload(c, p)
	p.ClearAction()
	p.Wait = 1
	return true
}
