package action

import (
	"log/slog"

	"github.com/Mistranger/stratagus-sub001/anim"
	"github.com/Mistranger/stratagus-sub001/model"
	"github.com/Mistranger/stratagus-sub001/world"
)

const (
	repairRetries = 10
	// RepairCostPercent is the share of a unit's cost a repair from zero
	// to full hit points draws from the repairer's owner.
	RepairCostPercent = 25
)

type repairResult uint8

const (
	repairing repairResult = iota
	repairHealed
	repairShort
)

// HandleRepair walks u to its goal and restores the goal's hit points
// until the owner can no longer pay for it. Sites under construction get build
// progress instead.
func HandleRepair(w *world.World, u *model.Unit) {
	st, ok := u.ActionState.(*model.RepairState)
	if !ok {
		st = &model.RepairState{}
		u.ActionState = st
	}
	switch st.Phase {
	case model.RepairInit:
		st.Phase = model.RepairMoveToLocation
		fallthrough
	case model.RepairMoveToLocation:
		repairMoveToLocation(w, u, st)
	case model.RepairUnit:
		repairUnitStep(w, u, st)
	}
}

func repairInRange(u, g *model.Unit) bool {
	return model.DistanceBetweenUnits(u, g) <= max(u.Type.RepairRange, 1)
}

func repairMoveToLocation(w *world.World, u *model.Unit, st *model.RepairState) {
	res := DoActionMove(w, u)
	if !u.Reset {
		return
	}
	o := u.Order()
	g := o.Goal()
	if gone(g) {
		slog.Debug("repair target gone", "unit", u, "target", g)
		o.X, o.Y = g.X, g.Y
		o.ClearGoal()
		g = nil
	}
	if g != nil && repairInRange(u, g) {
		u.State = 0
		faceTo(u, g)
		st.Phase = model.RepairUnit
		st.Rate = repairRate(u, g)
		st.HPAcc = 0
		st.LastCycle = w.Cycle
		w.Ledger.AddConsumer(u, st.Rate)
		// The first step runs now so a unit that needs nothing is let go
		// in the same tick.
		repairUnitStep(w, u, st)
		return
	}
	switch res {
	case world.PathUnreachable:
		st.Tries++
		if st.Tries < repairRetries && g != nil {
			u.Wait = w.TPS/4 + st.Tries
			return
		}
		fallthrough
	case world.PathReached:
		u.Finish()
	}
}

// repairRate is the per-second drain, in ledger units, of u repairing g.
func repairRate(u, g *model.Unit) model.Costs {
	var rate model.Costs
	hp := max(u.Type.RepairHP, 1)
	factor := max(u.Type.RepairFactor, 1)
	maxHP := max(g.MaxHP(), 1)
	for i := 1; i < model.MaxCosts; i++ {
		rate[i] = g.Type.Costs[i] * hp * factor * RepairCostPercent * world.RateScale / (100 * maxHP)
	}
	return rate
}

func repairUnitStep(w *world.World, u *model.Unit, st *model.RepairState) {
	o := u.Order()
	g := o.Goal()
	if gone(g) {
		stopRepair(w, u)
		return
	}
	if !repairInRange(u, g) {
		// The target moved; chase it.
		w.Ledger.RemoveConsumer(u)
		st.Phase = model.RepairMoveToLocation
		u.State = 0
		return
	}
	switch doRepair(w, u, g, st) {
	case repairHealed:
		stopRepair(w, u)
		return
	case repairShort:
		w.NotifyUnit(u, "%s: not enough resources to repair", u.Type.Name)
		w.Ledger.RemoveConsumer(u)
		if !restoreSavedOrder(u) {
			u.Finish()
		}
		u.Wait = 1
		u.Reset = true
		return
	}
	anim.Show(u, anim.Script(u, model.ActionRepair))
	if u.Reset {
		faceTo(u, g)
	}
}

func stopRepair(w *world.World, u *model.Unit) {
	w.Ledger.RemoveConsumer(u)
	u.Finish()
	u.Wait = 1
	u.Reset = true
}

// doRepair converts what the ledger supplied since the last call into hit
// points, or build progress for a site under construction.
func doRepair(w *world.World, u, g *model.Unit, st *model.RepairState) repairResult {
	building := g.UnderConstruction()
	if !building && g.HP >= g.MaxHP() {
		return repairHealed
	}
	hpPerSec := max(u.Type.RepairHP, 1)
	total := st.Rate.Resources()
	var hp int
	if total > 0 {
		if w.Ledger.Short(u) {
			st.LastCycle = w.Cycle
			return repairShort
		}
		supplied := w.Ledger.Supplied(u).Resources()
		st.HPAcc += supplied * world.RateScale * hpPerSec
		hp = st.HPAcc / total
		st.HPAcc %= total
	} else {
		// Free repair: hit points accrue with time alone.
		st.HPAcc += (w.Cycle - st.LastCycle) * hpPerSec
		hp = st.HPAcc / w.TPS
		st.HPAcc %= w.TPS
	}
	st.LastCycle = w.Cycle
	if hp == 0 {
		return repairing
	}
	if building {
		if world.AddBuildProgress(g, max(hp*world.BuildTime(g.Type)/max(g.MaxHP(), 1), 1)) {
			return repairHealed
		}
		return repairing
	}
	g.HP = min(g.HP+hp, g.MaxHP())
	if g.HP >= g.MaxHP() {
		return repairHealed
	}
	return repairing
}
