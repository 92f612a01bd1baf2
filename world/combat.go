package world

import (
	"log/slog"

	"github.com/Mistranger/stratagus-sub001/model"
)

// CanTarget reports whether units of t can attack units of target.
func CanTarget(t, target *model.UnitType) bool {
	switch {
	case target.Domain == model.DomainAir:
		return t.CanTargetAir
	case target.Domain == model.DomainNaval && !target.Building:
		return t.CanTargetSea
	}
	return t.CanTargetLand
}

// CalculateDamage is the damage a hit of attacker on target deals: basic
// damage minus armor, plus piercing damage, minus a random spread of up to
// half. Bloodlust doubles the attacker's damage.
func (w *World) CalculateDamage(attacker, target *model.Unit) int {
	basic := attacker.Type.BasicDamage
	piercing := attacker.Type.Piercing
	if attacker.Type.Missile != nil && attacker.Type.Missile.Damage > 0 {
		basic, piercing = attacker.Type.Missile.Damage, 0
	}
	if attacker.Buffs.Bloodlust > 0 {
		basic *= 2
		piercing *= 2
	}
	damage := max(basic-target.Type.Armor, 0)
	damage += piercing + 1
	damage -= w.Rand.Intn((damage + 2) / 2)
	return damage
}

// HitUnit applies damage to target. attacker may be nil for effects with
// no source. Targets with unholy armor take half damage.
func (w *World) HitUnit(attacker, target *model.Unit, damage int) {
	if !target.Alive() || damage <= 0 {
		return
	}
	if target.Buffs.UnholyArmor > 0 {
		damage /= 2
	}
	if target.HP <= damage {
		slog.Debug("unit killed", "unit", target, "by", attacker)
		w.LetUnitDie(target)
		return
	}
	target.HP -= damage
	if attacker != nil && target.Player != nil && target.Player.AI == nil {
		w.PlaySound(target, SoundHelp)
	}
}

// FireMissile resolves an attack of u on its goal, or on (x, y) when there
// is none. Missiles land instantly; a missile with a splash range hurts
// every unit around the impact tile.
func (w *World) FireMissile(u, goal *model.Unit, x, y int) {
	w.PlaySound(u, SoundAttack)
	if goal != nil {
		if !goal.Alive() {
			return
		}
		x, y = goal.Center()
	}
	splash := 0
	if u.Type.Missile != nil {
		splash = u.Type.Missile.Range
	}
	if splash == 0 {
		if goal == nil {
			goal = w.firstTarget(u, x, y)
		}
		if goal != nil {
			w.HitUnit(u, goal, w.CalculateDamage(u, goal))
		}
		return
	}
	for _, t := range w.Index.SelectRange(x-splash, y-splash, x+splash+1, y+splash+1) {
		if t == u || !t.Alive() {
			continue
		}
		w.HitUnit(u, t, w.CalculateDamage(u, t))
	}
}

func (w *World) firstTarget(u *model.Unit, x, y int) *model.Unit {
	for _, t := range w.Index.SelectOnTile(x, y) {
		if t != u && t.Alive() {
			return t
		}
	}
	return nil
}

// LetUnitDie kills u. Units with a death animation stay allocated, off the
// map, until the Die action finishes; others are released at once.
// Passengers die with their transporter.
func (w *World) LetUnitDie(u *model.Unit) {
	if u.Destroyed || u.Order().Action == model.ActionDie {
		return
	}
	u.HP = 0
	u.Moving = false
	w.Ledger.RemoveConsumer(u)
	w.PlaySound(u, SoundDead)
	if u.Player != nil {
		if u.UnderConstruction() {
			u.Player.FinishSite(u.Type)
		}
		u.Player.RemoveUnit(u.Type)
	}
	for len(u.Passengers) > 0 {
		p := u.Passengers[len(u.Passengers)-1]
		u.Passengers = u.Passengers[:len(u.Passengers)-1]
		p.Container = nil
		if p.Player != nil {
			p.Player.RemoveUnit(p.Type)
		}
		w.ReleaseUnit(p)
	}
	if u.Container != nil {
		w.Unload(u.Container, u)
	}

	if u.Type.Building || len(u.Type.Animations.Die) == 0 {
		w.ReleaseUnit(u)
		return
	}
	if !u.Removed {
		w.RemoveUnit(u)
	}
	u.Orders.Reset(model.Order{Action: model.ActionDie, X: u.X, Y: u.Y})
	u.SavedOrder.Release()
	u.NewOrder.Release()
	u.ClearAction()
	u.Wait = 1
	u.Reset = false
}

// ReleaseUnit drops u from the game. Its slot is reclaimed once nothing
// references it any more.
func (w *World) ReleaseUnit(u *model.Unit) {
	if u.Destroyed {
		return
	}
	if !u.Removed {
		w.RemoveUnit(u)
	}
	w.Ledger.RemoveConsumer(u)
	u.ReleaseOrders()
	w.Units.Destroy(u)
}

// Unload removes p from c's passenger list. It does not place p.
func (w *World) Unload(c, p *model.Unit) {
	for i, q := range c.Passengers {
		if q == p {
			c.Passengers = append(c.Passengers[:i], c.Passengers[i+1:]...)
			break
		}
	}
	p.Container = nil
}

// Board puts the placed unit p inside transporter c.
func (w *World) Board(c, p *model.Unit) {
	w.RemoveUnit(p)
	p.Container = c
	c.Passengers = append(c.Passengers, p)
}
