package action

import (
	"testing"

	"github.com/Mistranger/stratagus-sub001/model"
	"github.com/Mistranger/stratagus-sub001/pathfind"
	"github.com/Mistranger/stratagus-sub001/spatial"
	"github.com/Mistranger/stratagus-sub001/world"
)

var (
	moveScript = model.Script{
		{Pixel: 8, Sleep: 1},
		{Pixel: 8, Sleep: 1},
		{Pixel: 8, Sleep: 1},
		{Flags: model.AnimReset, Pixel: 8, Sleep: 1},
	}
	stillScript  = model.Script{{Flags: model.AnimReset, Sleep: 2}}
	attackScript = model.Script{
		{Sleep: 2},
		{Flags: model.AnimMissile, Sleep: 2},
		{Flags: model.AnimReset, Sleep: 3},
	}
	dieScript = model.Script{{Sleep: 2}, {Flags: model.AnimReset, Sleep: 2}}

	unitAnims = model.Animations{Still: stillScript, Move: moveScript, Attack: attackScript, Die: dieScript}

	footman = &model.UnitType{
		Ident: "footman", Name: "Footman", TileWidth: 1, TileHeight: 1,
		HitPoints: 60, Armor: 2, BasicDamage: 6, Piercing: 3,
		AttackRange: 1, ReactRange: 4, Priority: 60, Demand: 1,
		CanAttack: true, CanTargetLand: true,
		Costs:      model.Costs{model.TimeCost: 60, model.GoldCost: 600},
		Animations: unitAnims,
	}
	peasant = &model.UnitType{
		Ident: "peasant", Name: "Peasant", TileWidth: 1, TileHeight: 1,
		HitPoints: 30, Priority: 50, Demand: 1,
		CanRepair: true, RepairRange: 1, RepairHP: 4,
		Costs:      model.Costs{model.TimeCost: 45, model.GoldCost: 400},
		Animations: unitAnims,
	}
	mage = &model.UnitType{
		Ident: "mage", Name: "Mage", TileWidth: 1, TileHeight: 1,
		HitPoints: 60, MaxMana: 255, Demand: 1,
		CanCastSpell: true, Spells: []*model.SpellType{healing},
		Animations: unitAnims,
	}
	wagon = &model.UnitType{
		Ident: "wagon", Name: "Wagon", TileWidth: 1, TileHeight: 1,
		HitPoints: 100, Transporter: true, MaxOnBoard: 1,
		Animations: unitAnims,
	}
	sheep = &model.UnitType{
		Ident: "sheep", Name: "Sheep", TileWidth: 1, TileHeight: 1,
		HitPoints: 5, RandomMovement: 100,
		Animations: unitAnims,
	}
	farm = &model.UnitType{
		Ident: "farm", Name: "Farm", TileWidth: 2, TileHeight: 2, Building: true,
		HitPoints: 400, Supply: 4, Priority: 20,
		Costs:      model.Costs{model.TimeCost: 100, model.GoldCost: 500, model.WoodCost: 250},
		Animations: model.Animations{Still: stillScript},
	}
	barracks = &model.UnitType{
		Ident: "barracks", Name: "Barracks", TileWidth: 3, TileHeight: 3, Building: true,
		HitPoints: 800, Priority: 30,
		CanTrain:   []*model.UnitType{footman, peasant},
		Animations: model.Animations{Still: stillScript},
	}
	tower = &model.UnitType{
		Ident: "tower", Name: "Guard Tower", TileWidth: 1, TileHeight: 1, Building: true,
		HitPoints: 130, BasicDamage: 4, Piercing: 12, AttackRange: 4, Priority: 40,
		CanAttack: true, CanTargetLand: true,
		Animations: model.Animations{Still: stillScript, Attack: attackScript},
	}

	healing = &model.SpellType{Ident: "healing", Name: "Healing", ManaCost: 6, Range: 6, Target: model.TargetUnit, Effect: "heal", Amount: 10}
)

type note struct {
	player string
	msg    string
}

type recorder struct{ notes []note }

func (r *recorder) Notify(p *model.Player, x, y int, msg string) {
	r.notes = append(r.notes, note{p.Name, msg})
}

func (r *recorder) has(msg string) bool {
	for _, n := range r.notes {
		if n.msg == msg {
			return true
		}
	}
	return false
}

type fakeAI struct {
	cannotMove []*model.Unit
	trained    []*model.Unit
}

func (a *fakeAI) CanNotMove(u *model.Unit) {
	a.cannotMove = append(a.cannotMove, u)
}

func (a *fakeAI) TrainingComplete(producer, trained *model.Unit) {
	a.trained = append(a.trained, trained)
}

type harness struct {
	t         *testing.T
	w         *world.World
	d         *Dispatcher
	red, blue *model.Player
	notes     *recorder
}

// newHarness builds a 16x16 world with two hostile players. rows, when
// given, replace the all-land map.
func newHarness(t *testing.T, rows ...string) *harness {
	t.Helper()
	var m *model.Map
	if len(rows) > 0 {
		var err error
		if m, err = model.ParseMap(rows); err != nil {
			t.Fatalf("ParseMap: %v", err)
		}
	}
	w, err := world.New(world.Config{Width: 16, Height: 16, Strategy: spatial.Quadtree, MaxUnits: 64, Seed: 7, TPS: 30}, m)
	if err != nil {
		t.Fatalf("world.New: %v", err)
	}
	w.Path = pathfind.New(w)
	rec := &recorder{}
	w.Notify = rec
	red, _ := w.AddPlayer(0, "red")
	blue, _ := w.AddPlayer(1, "blue")
	red.SetEnemy(blue)
	blue.SetEnemy(red)
	d, err := New(w, nil)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return &harness{t: t, w: w, d: d, red: red, blue: blue, notes: rec}
}

func (h *harness) spawn(typ *model.UnitType, p *model.Player, x, y int) *model.Unit {
	h.t.Helper()
	u, err := h.w.MakeUnit(typ, p)
	if err != nil {
		h.t.Fatalf("MakeUnit(%s): %v", typ.Ident, err)
	}
	h.w.PlaceUnit(u, x, y)
	return u
}

func (h *harness) run(n int) {
	for i := 0; i < n; i++ {
		h.d.Tick()
	}
}

// runUntil ticks until cond holds and returns the number of ticks taken.
// It fails the test after limit ticks.
func (h *harness) runUntil(limit int, what string, cond func() bool) int {
	h.t.Helper()
	for i := 0; i < limit; i++ {
		if cond() {
			return i
		}
		h.d.Tick()
	}
	if !cond() {
		h.t.Fatalf("%s: not reached after %d ticks", what, limit)
	}
	return limit
}

func setOrder(u *model.Unit, o model.Order) {
	u.Orders.Reset(o)
	u.ClearAction()
}
