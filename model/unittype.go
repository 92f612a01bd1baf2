package model

// AnimFlags are the signals an animation step raises when it is shown.
type AnimFlags uint8

const (
	AnimReset   AnimFlags = 1 << iota // action may be interrupted after this step
	AnimRestart                       // jump back to the first step
	AnimSound                         // play the action's sound
	AnimMissile                       // spawn the projectile or spell effect
	AnimEnd                           // the script ran off its last step
)

// AnimStep is one frame of an animation script.
type AnimStep struct {
	Flags AnimFlags
	Pixel int // sub-tile pixels moved in the unit's heading (move scripts)
	Sleep int // ticks to wait before the next step
	Frame int // sprite frame delta
}

// Script is an ordered sequence of animation steps.
type Script []AnimStep

// Animations groups the scripts a unit type plays per action.
type Animations struct {
	Still  Script
	Move   Script
	Attack Script
	Repair Script
	Die    Script
}

// UnitType is the immutable shared descriptor of a kind of unit.
type UnitType struct {
	Ident      string
	Name       string
	TileWidth  int
	TileHeight int
	Domain     Domain
	Building   bool

	Costs       Costs // Costs[TimeCost] is the train/build time in progress units
	RepairHP    int   // hit points this type restores per second of repair
	RepairRange int
	Demand      int // population used
	Supply      int // population provided

	HitPoints    int
	MaxMana      int
	Armor        int
	BasicDamage  int
	Piercing     int
	AttackRange  int
	ReactRange   int // opportunistic target search radius
	SightRange   int
	Priority     int // attack target priority
	Regenerates  bool
	BurnPercent  int // buildings burn below this HP percentage
	BurnDamage   int
	DecayCycles  int // TTL in ticks for summoned units, 0 = permanent
	RepairFactor int // resource drain multiplier when this type repairs

	CanAttack      bool
	CanTargetLand  bool
	CanTargetAir   bool
	CanTargetSea   bool
	Coward         bool // never picks targets on its own
	RandomMovement int  // percent chance an idle neutral unit wanders
	Transporter    bool
	MaxOnBoard     int
	CanRepair      bool
	CanCastSpell   bool
	CanTrain       []*UnitType
	Spells         []*SpellType
	Missile        *MissileType
	StillFrame     int

	Animations Animations
}

// Layer returns the index slot units of this type occupy.
func (t *UnitType) Layer() Layer {
	if t.Building {
		return LayerBuilding
	}
	switch t.Domain {
	case DomainAir:
		return LayerAir
	case DomainNaval:
		return LayerNaval
	}
	return LayerLand
}

// Footprint returns the type's tile size, at least 1x1.
func (t *UnitType) Footprint() (w, h int) {
	w, h = t.TileWidth, t.TileHeight
	if w < 1 {
		w = 1
	}
	if h < 1 {
		h = 1
	}
	return w, h
}

// CanMove reports whether the type has a movement animation.
func (t *UnitType) CanMove() bool {
	return !t.Building && len(t.Animations.Move) > 0
}

// Trains reports whether the producer type may train other.
func (t *UnitType) Trains(other *UnitType) bool {
	for _, c := range t.CanTrain {
		if c == other {
			return true
		}
	}
	return false
}

// Knows reports whether the type may cast spell.
func (t *UnitType) Knows(spell *SpellType) bool {
	for _, s := range t.Spells {
		if s == spell {
			return true
		}
	}
	return false
}

// MissileType describes the projectile a unit's attack spawns.
type MissileType struct {
	Ident  string
	Range  int // splash radius in tiles, 0 = single target
	Damage int // fixed damage override, 0 = use the shooter's stats
}

// SpellTarget is what a spell is aimed at.
type SpellTarget uint8

const (
	TargetSelf SpellTarget = iota
	TargetUnit
	TargetPosition
)

// SpellType describes a castable spell. Effect names a function in the
// spell package.
type SpellType struct {
	Ident    string
	Name     string
	ManaCost int
	Range    int // InfiniteRange skips the move phase
	Target   SpellTarget
	Effect   string
	Amount   int // effect strength (hp healed, damage, buff ticks)
	Charges  int // repeats for multi-charge effects
	Radius   int
	Cooldown int // ticks before the caster may cast it again
	Summon   *UnitType
}
