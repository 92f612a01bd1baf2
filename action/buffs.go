package action

import (
	"github.com/Mistranger/stratagus-sub001/model"
	"github.com/Mistranger/stratagus-sub001/world"
)

// handleBuffs runs once per game second for every unit: summoned units
// expire, effect timers count down, regenerating units heal, mana refills
// and damaged buildings burn.
func handleBuffs(w *world.World, u *model.Unit) {
	if u.Destroyed || u.Order().Action == model.ActionDie {
		return
	}
	if u.TTL > 0 && w.Cycle >= u.TTL {
		w.LetUnitDie(u)
		return
	}

	b := &u.Buffs
	for _, t := range []*int{&b.Haste, &b.Slow, &b.Invisible, &b.Bloodlust, &b.UnholyArmor, &b.FlameShield} {
		if *t > 0 {
			*t--
		}
	}

	t := u.Type
	if t.Regenerates && u.HP < u.MaxHP() {
		u.HP++
	}
	if u.Mana < t.MaxMana {
		u.Mana++
	}
	if t.Building && t.BurnPercent > 0 && !u.Removed && !u.UnderConstruction() &&
		u.HP*100/max(u.MaxHP(), 1) <= t.BurnPercent {
		w.HitUnit(nil, u, max(t.BurnDamage, 1))
	}
}
