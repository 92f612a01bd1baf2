package action

import (
	"log/slog"

	"github.com/Mistranger/stratagus-sub001/model"
	"github.com/Mistranger/stratagus-sub001/world"
)

// HandleTrain advances the production FIFO of u. When the front unit is
// done it is created next to the producer, given the producer's rally
// order and announced; production stalls while the registry, food or the
// player's unit limit leave no room.
func HandleTrain(w *world.World, u *model.Unit) {
	st := u.Training()
	if st == nil || len(st.Queue) == 0 {
		u.Finish()
		u.Wait = 1
		return
	}
	p := u.Player
	t := st.Queue[0]
	need := world.BuildTime(t)

	st.Ticks += w.SpeedTrain
	if st.Ticks < need {
		u.Reset = true
		u.Wait = 1
		return
	}

	switch {
	case w.Units.Full():
		slog.Debug("training stalled: unit limit", "producer", u, "type", t.Ident)
		stallTraining(w, u, st, need)
		return
	case !p.CheckFood(t):
		w.NotifyUnit(u, "Not enough food...build more farms.")
		stallTraining(w, u, st, need)
		return
	case !p.CheckLimits(t):
		w.NotifyUnit(u, "Unit limit reached")
		stallTraining(w, u, st, need)
		return
	}

	nu, err := w.MakeUnit(t, p)
	if err != nil {
		slog.Warn("training failed", "producer", u, "type", t.Ident, "error", err)
		stallTraining(w, u, st, need)
		return
	}
	x, y, tw, th := u.Footprint()
	if !w.DropOutOnSide(nu, model.HeadingW, x, y, tw, th) {
		slog.Warn("no room for trained unit", "producer", u, "type", t.Ident)
		p.RemoveUnit(t)
		w.ReleaseUnit(nu)
		stallTraining(w, u, st, need)
		return
	}
	w.NotifyUnit(nu, "New %s ready", nameOf(t))
	w.PlaySound(nu, world.SoundReady)
	if ai := aiOf(u); ai != nil {
		ai.TrainingComplete(u, nu)
	}

	u.Reset = true
	u.Wait = 1
	st.Queue = st.Queue[1:]
	st.Ticks = 0
	if len(st.Queue) == 0 {
		u.Finish()
	} else {
		u.Order().Type = st.Queue[0]
	}
	giveNewOrder(u, nu)
}

func stallTraining(w *world.World, u *model.Unit, st *model.TrainState, need int) {
	st.Ticks = need
	u.Reset = true
	u.Wait = max(w.TPS/6, 1)
}

// giveNewOrder hands the producer's rally order to the trained unit, if
// the unit can carry it out.
func giveNewOrder(producer, nu *model.Unit) {
	n := &producer.NewOrder
	if n.Action == model.ActionStill || !canHandleOrder(nu, n) {
		return
	}
	if g := n.Goal(); gone(g) {
		n.X, n.Y = g.X, g.Y
		n.ClearGoal()
		if n.Action != model.ActionMove && n.Action != model.ActionAttack {
			return
		}
	}
	nu.Orders.Reset(n.Copy())
	nu.ClearAction()
}

func canHandleOrder(u *model.Unit, o *model.Order) bool {
	t := u.Type
	switch o.Action {
	case model.ActionMove, model.ActionPatrol, model.ActionBoard, model.ActionFollow:
		return t.CanMove()
	case model.ActionAttack, model.ActionAttackGround:
		return t.CanAttack
	case model.ActionRepair:
		return t.CanRepair
	case model.ActionStandGround:
		return true
	}
	return false
}

func nameOf(t *model.UnitType) string {
	if t.Name != "" {
		return t.Name
	}
	return t.Ident
}
