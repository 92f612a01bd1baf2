package action

import (
	"github.com/Mistranger/stratagus-sub001/anim"
	"github.com/Mistranger/stratagus-sub001/command"
	"github.com/Mistranger/stratagus-sub001/model"
	"github.com/Mistranger/stratagus-sub001/world"
)

// HandleStill is the idle action. Idle units play their still animation,
// critters wander, and units able to fight react to enemies: movers chase
// whatever enters their reaction range and come back afterwards, the rest
// fire at what is in range.
func HandleStill(w *world.World, u *model.Unit) { stillGeneric(w, u, false) }

// HandleStandGround is HandleStill for units told to hold their position.
func HandleStandGround(w *world.World, u *model.Unit) { stillGeneric(w, u, true) }

func stillGeneric(w *world.World, u *model.Unit, ground bool) {
	if u.Removed {
		// Inside a transporter or building.
		u.Wait = max(w.TPS/6, 1)
		return
	}
	st, ok := u.ActionState.(*model.StillState)
	if !ok || st.Ground != ground {
		st = &model.StillState{Ground: ground}
		u.ActionState = st
	}
	t := u.Type
	o := u.Order()

	if st.Attacking {
		flags := anim.Show(u, t.Animations.Attack)
		if flags&model.AnimMissile != 0 {
			w.FireMissile(u, o.Goal(), -1, -1)
		}
	} else {
		anim.Show(u, t.Animations.Still)
	}
	if !u.Reset {
		return
	}
	if u.Orders.Len() > 1 {
		// A queued order takes over on the next dispatch.
		return
	}

	if t.RandomMovement > 0 && u.Player == w.Neutral() && t.CanMove() {
		if w.Rand.Intn(100) < t.RandomMovement {
			wander(w, u)
		}
		return
	}

	if t.CanAttack && !t.Coward {
		if t.CanMove() && !ground {
			if g := w.AttackUnitsInReactRange(u); g != nil {
				x, y := u.X, u.Y
				if err := command.Attack(w, u, g.X, g.Y, nil, true); err == nil {
					u.SavedOrder.Release()
					u.SavedOrder = model.Order{Action: model.ActionAttack, X: x, Y: y, HasDestination: true}
				}
				return
			}
		} else if g := w.AttackUnitsInRange(u); g != nil {
			if !st.Attacking || o.Goal() != g {
				o.SetGoal(g)
				u.State = 0
				st.Attacking = true
				faceTo(u, g)
			}
			return
		}
	}

	if st.Attacking {
		o.ClearGoal()
		st.Attacking = false
		u.State = 0
	}
	idleMotion(w, u)
}

// wander sends a critter one tile in a random direction, if it can go
// there.
func wander(w *world.World, u *model.Unit) {
	x, y := u.X, u.Y
	switch (w.Rand.Next() >> 12) & 15 {
	case 0:
		x++
	case 1:
		y++
	case 2:
		x--
	case 3:
		y--
	case 4:
		x++
		y++
	case 5:
		x--
		y++
	case 6:
		y--
		x++
	case 7:
		x--
		y--
	}
	x, y = w.Map.ClampX(x), w.Map.ClampY(y)
	if (x == u.X && y == u.Y) || !w.CanPlace(u.Type, x, y, u) {
		return
	}
	o := u.Order()
	o.ClearGoal()
	o.Action = model.ActionMove
	o.X, o.Y = x, y
	o.Range = 0
	u.ClearAction()
}

// idleMotion turns idle land units now and then and lets ships and
// flyers bob on the spot.
func idleMotion(w *world.World, u *model.Unit) {
	t := u.Type
	if t.Building {
		return
	}
	if t.Domain != model.DomainLand {
		u.IY = (w.Rand.Next() >> 15) & 1
		return
	}
	if w.Rand.Intn(64) == 0 {
		turn := model.NextDirection
		if w.Rand.Next()&1 == 0 {
			turn = -turn
		}
		u.Direction = (u.Direction + turn) & 0xFF
	}
}
