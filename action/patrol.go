package action

import (
	"github.com/Mistranger/stratagus-sub001/model"
	"github.com/Mistranger/stratagus-sub001/world"
)

// HandlePatrol walks u between the order's position and its patrol point.
// An enemy in reaction range interrupts the patrol with a weak attack;
// the patrol resumes when that fight is over.
func HandlePatrol(w *world.World, u *model.Unit) {
	st, ok := u.ActionState.(*model.PatrolState)
	if !ok {
		st = &model.PatrolState{}
		u.ActionState = st
	}
	o := u.Order()
	switch res := DoActionMove(w, u); {
	case res == world.PathReached, res == world.PathUnreachable:
		if res == world.PathUnreachable {
			st.Tries++
			if st.Tries >= moveRetries {
				u.Finish()
				u.Wait = 1
				return
			}
		}
		o.X, o.PatrolX = o.PatrolX, o.X
		o.Y, o.PatrolY = o.PatrolY, o.Y
	case res > 0:
		st.Tries = 0
	}
	if !u.Reset {
		return
	}

	if !u.Type.CanAttack || u.Type.Coward {
		return
	}
	g := w.AttackUnitsInReactRange(u)
	if g == nil {
		return
	}
	u.SavedOrder.Release()
	u.SavedOrder = o.Copy()
	o.Action = model.ActionAttack
	o.SetGoal(g)
	o.X, o.Y = g.X, g.Y
	o.Range = u.Type.AttackRange
	u.ClearAction()
	u.ActionState = &model.AttackState{Weak: true}
}
