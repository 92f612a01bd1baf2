// Package spell validates and applies spells.
//
// A spell type names its effect; effects are looked up here by name. An
// effect may ask to be cast again on the next attack frame, which is how
// multi-charge spells like blizzard spread over several frames.
package spell

import (
	"errors"
	"fmt"
	"log/slog"
	"sort"

	"github.com/Mistranger/stratagus-sub001/model"
	"github.com/Mistranger/stratagus-sub001/world"
)

// ErrUnknownEffect is returned by Validate for an unregistered effect.
var ErrUnknownEffect = errors.New("unknown spell effect")

// Cast is one application of a spell.
type Cast struct {
	Caster *model.Unit
	Spell  *model.SpellType
	Target *model.Unit // nil for position and self spells
	X, Y   int
	Charge int // 0 on the first application
}

type effect struct {
	// valid reports whether the spell would do anything to the target.
	valid func(w *world.World, c *Cast) bool
	// apply casts the spell and reports whether it wants another charge.
	apply func(w *world.World, c *Cast) bool
}

var effects = map[string]effect{
	"heal":         {validHeal, applyHeal},
	"haste":        {validBuff(func(b *model.Buffs) *int { return &b.Haste }), applyBuff(func(b *model.Buffs) *int { return &b.Haste })},
	"slow":         {validBuff(func(b *model.Buffs) *int { return &b.Slow }), applyBuff(func(b *model.Buffs) *int { return &b.Slow })},
	"bloodlust":    {validBuff(func(b *model.Buffs) *int { return &b.Bloodlust }), applyBuff(func(b *model.Buffs) *int { return &b.Bloodlust })},
	"invisibility": {validBuff(func(b *model.Buffs) *int { return &b.Invisible }), applyBuff(func(b *model.Buffs) *int { return &b.Invisible })},
	"unholy-armor": {validBuff(func(b *model.Buffs) *int { return &b.UnholyArmor }), applyBuff(func(b *model.Buffs) *int { return &b.UnholyArmor })},
	"flame-shield": {validBuff(func(b *model.Buffs) *int { return &b.FlameShield }), applyBuff(func(b *model.Buffs) *int { return &b.FlameShield })},
	"fireball":     {validAlways, applyFireball},
	"blizzard":     {validAlways, applyBlizzard},
	"summon":       {validSummon, applySummon},
}

// Effects lists the registered effect names in sorted order.
func Effects() []string {
	out := make([]string, 0, len(effects))
	for name := range effects {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

// Validate checks that a spell type names a known effect.
func Validate(s *model.SpellType) error {
	if _, ok := effects[s.Effect]; !ok {
		return fmt.Errorf("spell %s: %w %q", s.Ident, ErrUnknownEffect, s.Effect)
	}
	return nil
}

// CanCast reports whether caster may cast s on target or (x, y) now:
// the caster knows the spell, has the mana, is off cooldown, and the
// effect would do something.
func CanCast(w *world.World, caster *model.Unit, s *model.SpellType, target *model.Unit, x, y int) bool {
	e, ok := effects[s.Effect]
	if !ok || !caster.Type.Knows(s) {
		return false
	}
	if caster.Mana < s.ManaCost {
		return false
	}
	if until, ok := caster.Cooldowns[s]; ok && w.Cycle < until {
		return false
	}
	c := &Cast{Caster: caster, Spell: s, Target: target, X: x, Y: y}
	switch s.Target {
	case model.TargetSelf:
		c.Target = caster
	case model.TargetUnit:
		if target == nil || !target.Alive() {
			return false
		}
	}
	return e.valid(w, c)
}

// Apply casts the spell. It returns the next charge number when the effect
// wants to be applied again, or 0 when the cast is complete.
func Apply(w *world.World, c *Cast) int {
	e, ok := effects[c.Spell.Effect]
	if !ok {
		slog.Warn("cast of unknown effect", "spell", c.Spell.Ident, "effect", c.Spell.Effect)
		return 0
	}
	if c.Spell.Target == model.TargetSelf {
		c.Target = c.Caster
	}
	if c.Caster.Mana < c.Spell.ManaCost {
		return 0
	}
	c.Caster.Mana -= c.Spell.ManaCost
	if c.Spell.Cooldown > 0 {
		if c.Caster.Cooldowns == nil {
			c.Caster.Cooldowns = make(map[*model.SpellType]int)
		}
		c.Caster.Cooldowns[c.Spell] = w.Cycle + c.Spell.Cooldown
	}
	slog.Debug("spell cast", "caster", c.Caster, "spell", c.Spell.Ident, "target", c.Target, "x", c.X, "y", c.Y, "charge", c.Charge)
	if e.apply(w, c) && c.Caster.Mana >= c.Spell.ManaCost {
		return c.Charge + 1
	}
	return 0
}

func validAlways(*world.World, *Cast) bool { return true }

func validHeal(w *world.World, c *Cast) bool {
	t := c.Target
	return t != nil && t.HP < t.MaxHP() && c.Caster.Player.IsAllied(t.Player) && !t.Type.Building
}

// applyHeal restores Amount hit points per mana cost paid.
func applyHeal(w *world.World, c *Cast) bool {
	t := c.Target
	if t == nil || !t.Alive() {
		return false
	}
	t.HP = min(t.HP+c.Spell.Amount, t.MaxHP())
	return false
}

func validBuff(field func(*model.Buffs) *int) func(*world.World, *Cast) bool {
	return func(w *world.World, c *Cast) bool {
		t := c.Target
		return t != nil && *field(&t.Buffs) < c.Spell.Amount
	}
}

// applyBuff sets the buff to Amount seconds.
func applyBuff(field func(*model.Buffs) *int) func(*world.World, *Cast) bool {
	return func(w *world.World, c *Cast) bool {
		if c.Target == nil || !c.Target.Alive() {
			return false
		}
		b := field(&c.Target.Buffs)
		*b = max(*b, c.Spell.Amount)
		return false
	}
}

// applyFireball damages every unit around the target tile.
func applyFireball(w *world.World, c *Cast) bool {
	x, y := c.X, c.Y
	if c.Target != nil {
		x, y = c.Target.Center()
	}
	r := c.Spell.Radius
	for _, t := range w.Index.SelectRange(x-r, y-r, x+r+1, y+r+1) {
		if t != c.Caster {
			w.HitUnit(c.Caster, t, c.Spell.Amount)
		}
	}
	return false
}

// applyBlizzard drops one shard per charge at a random tile around the
// target and repeats until Charges are spent.
func applyBlizzard(w *world.World, c *Cast) bool {
	r := max(c.Spell.Radius, 1)
	x := c.X + w.Rand.Intn(2*r+1) - r
	y := c.Y + w.Rand.Intn(2*r+1) - r
	for _, t := range w.Index.SelectRange(x-1, y-1, x+2, y+2) {
		if t != c.Caster {
			w.HitUnit(c.Caster, t, c.Spell.Amount)
		}
	}
	return c.Charge+1 < c.Spell.Charges
}

func validSummon(w *world.World, c *Cast) bool {
	return c.Spell.Summon != nil && !w.Units.Full()
}

// applySummon creates Amount units of the summon type next to the caster.
// Summoned units expire after the type's decay cycles.
func applySummon(w *world.World, c *Cast) bool {
	n := max(c.Spell.Amount, 1)
	for i := 0; i < n; i++ {
		u, err := w.MakeUnit(c.Spell.Summon, c.Caster.Player)
		if err != nil {
			slog.Debug("summon failed", "caster", c.Caster, "error", err)
			return false
		}
		x, y, tw, th := c.Caster.Footprint()
		if !w.DropOutOnSide(u, c.Caster.Direction, x, y, tw, th) {
			w.LetUnitDie(u)
			return false
		}
	}
	return false
}
