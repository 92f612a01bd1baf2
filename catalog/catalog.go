// Package catalog loads unit, spell and missile types from YAML.
//
// Records refer to each other by ident: units name their missile, spells
// and trainable types, spells name the type they summon. Load resolves
// every reference and rejects dangling ones, so the returned types are
// ready for the engine.
package catalog

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"sort"

	"gopkg.in/yaml.v3"

	"github.com/Mistranger/stratagus-sub001/model"
	"github.com/Mistranger/stratagus-sub001/spell"
)

//go:embed default.yaml
var defaultCatalog []byte

var (
	ErrUnknownType    = errors.New("unknown unit type")
	ErrUnknownSpell   = errors.New("unknown spell")
	ErrUnknownMissile = errors.New("unknown missile")
	ErrDuplicate      = errors.New("duplicate ident")
)

// Catalog holds the resolved types keyed by ident.
type Catalog struct {
	Units    map[string]*model.UnitType
	Spells   map[string]*model.SpellType
	Missiles map[string]*model.MissileType
}

type file struct {
	Animations map[string]animationsRecord `yaml:"animations"`
	Missiles   []missileRecord             `yaml:"missiles"`
	Spells     []spellRecord               `yaml:"spells"`
	Units      []unitRecord                `yaml:"units"`
}

type stepRecord struct {
	Flags []string `yaml:"flags"`
	Pixel int      `yaml:"pixel"`
	Sleep int      `yaml:"sleep"`
	Frame int      `yaml:"frame"`
}

type animationsRecord struct {
	Still  []stepRecord `yaml:"still"`
	Move   []stepRecord `yaml:"move"`
	Attack []stepRecord `yaml:"attack"`
	Repair []stepRecord `yaml:"repair"`
	Die    []stepRecord `yaml:"die"`
}

type missileRecord struct {
	Ident  string `yaml:"ident"`
	Range  int    `yaml:"range"`
	Damage int    `yaml:"damage"`
}

type spellRecord struct {
	Ident    string `yaml:"ident"`
	Name     string `yaml:"name"`
	ManaCost int    `yaml:"mana_cost"`
	Range    *int   `yaml:"range"` // omitted = infinite
	Target   string `yaml:"target"`
	Effect   string `yaml:"effect"`
	Amount   int    `yaml:"amount"`
	Charges  int    `yaml:"charges"`
	Radius   int    `yaml:"radius"`
	Cooldown int    `yaml:"cooldown"`
	Summon   string `yaml:"summon"`
}

type unitRecord struct {
	Ident      string         `yaml:"ident"`
	Name       string         `yaml:"name"`
	Size       [2]int         `yaml:"size"`
	Domain     string         `yaml:"domain"`
	Building   bool           `yaml:"building"`
	Costs      map[string]int `yaml:"costs"`
	Animations string         `yaml:"animations"`

	RepairHP     int      `yaml:"repair_hp"`
	RepairRange  int      `yaml:"repair_range"`
	RepairFactor int      `yaml:"repair_factor"`
	Demand       int      `yaml:"demand"`
	Supply       int      `yaml:"supply"`
	HitPoints    int      `yaml:"hit_points"`
	MaxMana      int      `yaml:"max_mana"`
	Armor        int      `yaml:"armor"`
	BasicDamage  int      `yaml:"basic_damage"`
	Piercing     int      `yaml:"piercing"`
	AttackRange  int      `yaml:"attack_range"`
	ReactRange   int      `yaml:"react_range"`
	SightRange   int      `yaml:"sight_range"`
	Priority     int      `yaml:"priority"`
	Regenerates  bool     `yaml:"regenerates"`
	BurnPercent  int      `yaml:"burn_percent"`
	BurnDamage   int      `yaml:"burn_damage"`
	DecayCycles  int      `yaml:"decay_cycles"`
	Targets      []string `yaml:"targets"`
	Coward       bool     `yaml:"coward"`
	Random       int      `yaml:"random_movement"`
	MaxOnBoard   int      `yaml:"max_on_board"`
	CanRepair    bool     `yaml:"can_repair"`
	Trains       []string `yaml:"trains"`
	Spells       []string `yaml:"spells"`
	Missile      string   `yaml:"missile"`
	StillFrame   int      `yaml:"still_frame"`
}

var animFlags = map[string]model.AnimFlags{
	"reset":   model.AnimReset,
	"restart": model.AnimRestart,
	"sound":   model.AnimSound,
	"missile": model.AnimMissile,
}

var spellTargets = map[string]model.SpellTarget{
	"self":     model.TargetSelf,
	"unit":     model.TargetUnit,
	"position": model.TargetPosition,
}

// Default returns the catalog embedded in the binary.
func Default() (*Catalog, error) {
	c, err := Parse(defaultCatalog)
	if err != nil {
		return nil, fmt.Errorf("default catalog: %w", err)
	}
	return c, nil
}

// LoadFile reads a catalog from path. An empty path loads the default.
func LoadFile(path string) (*Catalog, error) {
	if path == "" {
		return Default()
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalog: %w", err)
	}
	c, err := Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return c, nil
}

// Parse decodes and resolves a YAML catalog.
func Parse(raw []byte) (*Catalog, error) {
	var f file
	if err := yaml.Unmarshal(raw, &f); err != nil {
		return nil, fmt.Errorf("catalog yaml: %w", err)
	}
	c := &Catalog{
		Units:    make(map[string]*model.UnitType, len(f.Units)),
		Spells:   make(map[string]*model.SpellType, len(f.Spells)),
		Missiles: make(map[string]*model.MissileType, len(f.Missiles)),
	}

	for _, m := range f.Missiles {
		if _, ok := c.Missiles[m.Ident]; ok {
			return nil, fmt.Errorf("missile %q: %w", m.Ident, ErrDuplicate)
		}
		c.Missiles[m.Ident] = &model.MissileType{Ident: m.Ident, Range: m.Range, Damage: m.Damage}
	}

	anims := make(map[string]model.Animations, len(f.Animations))
	for name, a := range f.Animations {
		an, err := a.build()
		if err != nil {
			return nil, fmt.Errorf("animations %q: %w", name, err)
		}
		anims[name] = an
	}

	// Units first without references, so spells and trainers can point
	// at any of them.
	for _, r := range f.Units {
		if _, ok := c.Units[r.Ident]; ok {
			return nil, fmt.Errorf("unit %q: %w", r.Ident, ErrDuplicate)
		}
		t, err := r.build(anims)
		if err != nil {
			return nil, fmt.Errorf("unit %q: %w", r.Ident, err)
		}
		c.Units[r.Ident] = t
	}

	for _, r := range f.Spells {
		if _, ok := c.Spells[r.Ident]; ok {
			return nil, fmt.Errorf("spell %q: %w", r.Ident, ErrDuplicate)
		}
		s, err := r.build(c)
		if err != nil {
			return nil, fmt.Errorf("spell %q: %w", r.Ident, err)
		}
		if err := spell.Validate(s); err != nil {
			return nil, err
		}
		c.Spells[r.Ident] = s
	}

	for _, r := range f.Units {
		if err := c.link(c.Units[r.Ident], r); err != nil {
			return nil, fmt.Errorf("unit %q: %w", r.Ident, err)
		}
	}
	return c, nil
}

func (c *Catalog) link(t *model.UnitType, r unitRecord) error {
	for _, id := range r.Trains {
		other, err := c.Type(id)
		if err != nil {
			return err
		}
		t.CanTrain = append(t.CanTrain, other)
	}
	for _, id := range r.Spells {
		s, ok := c.Spells[id]
		if !ok {
			return fmt.Errorf("%w %q", ErrUnknownSpell, id)
		}
		t.Spells = append(t.Spells, s)
	}
	t.CanCastSpell = len(t.Spells) > 0
	if r.Missile != "" {
		m, ok := c.Missiles[r.Missile]
		if !ok {
			return fmt.Errorf("%w %q", ErrUnknownMissile, r.Missile)
		}
		t.Missile = m
	}
	return nil
}

// Type returns the unit type named ident.
func (c *Catalog) Type(ident string) (*model.UnitType, error) {
	t, ok := c.Units[ident]
	if !ok {
		return nil, fmt.Errorf("%w %q", ErrUnknownType, ident)
	}
	return t, nil
}

// Spell returns the spell named ident.
func (c *Catalog) Spell(ident string) (*model.SpellType, error) {
	s, ok := c.Spells[ident]
	if !ok {
		return nil, fmt.Errorf("%w %q", ErrUnknownSpell, ident)
	}
	return s, nil
}

// Idents lists the unit type idents in sorted order.
func (c *Catalog) Idents() []string {
	out := make([]string, 0, len(c.Units))
	for id := range c.Units {
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}

func (r unitRecord) build(anims map[string]model.Animations) (*model.UnitType, error) {
	if r.Ident == "" {
		return nil, errors.New("missing ident")
	}
	if r.HitPoints <= 0 {
		return nil, fmt.Errorf("hit_points %d must be positive", r.HitPoints)
	}
	domain, err := model.ParseDomain(r.Domain)
	if err != nil {
		return nil, err
	}
	t := &model.UnitType{
		Ident:          r.Ident,
		Name:           r.Name,
		TileWidth:      max(r.Size[0], 1),
		TileHeight:     max(r.Size[1], 1),
		Domain:         domain,
		Building:       r.Building,
		RepairHP:       r.RepairHP,
		RepairRange:    r.RepairRange,
		RepairFactor:   r.RepairFactor,
		Demand:         r.Demand,
		Supply:         r.Supply,
		HitPoints:      r.HitPoints,
		MaxMana:        r.MaxMana,
		Armor:          r.Armor,
		BasicDamage:    r.BasicDamage,
		Piercing:       r.Piercing,
		AttackRange:    r.AttackRange,
		ReactRange:     r.ReactRange,
		SightRange:     r.SightRange,
		Priority:       r.Priority,
		Regenerates:    r.Regenerates,
		BurnPercent:    r.BurnPercent,
		BurnDamage:     r.BurnDamage,
		DecayCycles:    r.DecayCycles,
		Coward:         r.Coward,
		RandomMovement: r.Random,
		Transporter:    r.MaxOnBoard > 0,
		MaxOnBoard:     r.MaxOnBoard,
		CanRepair:      r.CanRepair,
		StillFrame:     r.StillFrame,
	}
	for name, v := range r.Costs {
		i, ok := model.CostIndex(name)
		if !ok {
			return nil, fmt.Errorf("unknown cost %q", name)
		}
		t.Costs[i] = v
	}
	for _, target := range r.Targets {
		switch target {
		case "land":
			t.CanTargetLand = true
		case "air":
			t.CanTargetAir = true
		case "sea":
			t.CanTargetSea = true
		default:
			return nil, fmt.Errorf("unknown target class %q", target)
		}
	}
	t.CanAttack = len(r.Targets) > 0 && r.BasicDamage+r.Piercing > 0
	if r.Animations != "" {
		an, ok := anims[r.Animations]
		if !ok {
			return nil, fmt.Errorf("unknown animations %q", r.Animations)
		}
		t.Animations = an
	}
	return t, nil
}

func (r spellRecord) build(c *Catalog) (*model.SpellType, error) {
	target, ok := spellTargets[r.Target]
	if !ok {
		return nil, fmt.Errorf("unknown target %q", r.Target)
	}
	s := &model.SpellType{
		Ident:    r.Ident,
		Name:     r.Name,
		ManaCost: r.ManaCost,
		Range:    model.InfiniteRange,
		Target:   target,
		Effect:   r.Effect,
		Amount:   r.Amount,
		Charges:  r.Charges,
		Radius:   r.Radius,
		Cooldown: r.Cooldown,
	}
	if r.Range != nil {
		s.Range = *r.Range
	}
	if r.Summon != "" {
		t, err := c.Type(r.Summon)
		if err != nil {
			return nil, err
		}
		s.Summon = t
	}
	return s, nil
}

func (a animationsRecord) build() (model.Animations, error) {
	var out model.Animations
	for _, s := range []struct {
		dst *model.Script
		src []stepRecord
	}{
		{&out.Still, a.Still},
		{&out.Move, a.Move},
		{&out.Attack, a.Attack},
		{&out.Repair, a.Repair},
		{&out.Die, a.Die},
	} {
		script, err := buildScript(s.src)
		if err != nil {
			return out, err
		}
		*s.dst = script
	}
	return out, nil
}

func buildScript(steps []stepRecord) (model.Script, error) {
	if len(steps) == 0 {
		return nil, nil
	}
	script := make(model.Script, 0, len(steps))
	for i, st := range steps {
		var flags model.AnimFlags
		for _, name := range st.Flags {
			f, ok := animFlags[name]
			if !ok {
				return nil, fmt.Errorf("step %d: unknown flag %q", i, name)
			}
			flags |= f
		}
		script = append(script, model.AnimStep{Flags: flags, Pixel: st.Pixel, Sleep: st.Sleep, Frame: st.Frame})
	}
	return script, nil
}
