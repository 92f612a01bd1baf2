package world

import (
	"errors"
	"testing"

	"github.com/Mistranger/stratagus-sub001/model"
	"github.com/Mistranger/stratagus-sub001/spatial"
)

var (
	grunt = &model.UnitType{
		Ident: "grunt", TileWidth: 1, TileHeight: 1, HitPoints: 60,
		BasicDamage: 9, Piercing: 3, Armor: 2, AttackRange: 1, ReactRange: 4,
		CanAttack: true, CanTargetLand: true, Priority: 60, Demand: 1,
	}
	barracks = &model.UnitType{
		Ident: "barracks", TileWidth: 3, TileHeight: 3, HitPoints: 800,
		Building: true, Armor: 20, Priority: 30,
		Costs: model.Costs{model.TimeCost: 200, model.GoldCost: 700, model.WoodCost: 450},
	}
)

func newTestWorld(t *testing.T) (*World, *model.Player, *model.Player) {
	t.Helper()
	w, err := New(Config{Width: 16, Height: 16, Strategy: spatial.Quadtree, MaxUnits: 64, Seed: 3}, nil)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	a, _ := w.AddPlayer(0, "red")
	b, _ := w.AddPlayer(1, "blue")
	a.SetEnemy(b)
	b.SetEnemy(a)
	return w, a, b
}

func spawn(t *testing.T, w *World, typ *model.UnitType, p *model.Player, x, y int) *model.Unit {
	t.Helper()
	u, err := w.MakeUnit(typ, p)
	if err != nil {
		t.Fatalf("MakeUnit: %v", err)
	}
	w.PlaceUnit(u, x, y)
	return u
}

func TestNewRejectsUnknownStrategy(t *testing.T) {
	_, err := New(Config{Width: 8, Height: 8, Strategy: "nope"}, nil)
	if !errors.Is(err, spatial.ErrUnknownStrategy) {
		t.Fatalf("err = %v, want ErrUnknownStrategy", err)
	}
}

func TestAddPlayer(t *testing.T) {
	w, _, _ := newTestWorld(t)
	if _, err := w.AddPlayer(0, "again"); err == nil {
		t.Error("taken slot should fail")
	}
	if _, err := w.AddPlayer(model.PlayerNeutral, "x"); err == nil {
		t.Error("neutral slot should fail")
	}
	if w.Neutral() == nil || w.Player(1).Name != "blue" {
		t.Error("players not registered")
	}
}

func TestRandDeterministic(t *testing.T) {
	a, b := NewRand(99), NewRand(99)
	for i := 0; i < 100; i++ {
		if x, y := a.Next(), b.Next(); x != y {
			t.Fatalf("draw %d: %d != %d", i, x, y)
		}
	}
	r := NewRand(1)
	for i := 0; i < 1000; i++ {
		if v := r.Intn(6); v < 0 || v >= 6 {
			t.Fatalf("Intn(6) = %d", v)
		}
	}
}

func TestPlaceAndRemoveKeepIndexInSync(t *testing.T) {
	w, red, _ := newTestWorld(t)
	u := spawn(t, w, grunt, red, 4, 4)
	if u.Removed || !w.Index.Contains(u) {
		t.Fatal("placed unit should be indexed")
	}
	w.MoveUnitTo(u, 5, 4)
	if w.Index.OnTile(5, 4, model.LayerLand) != u {
		t.Error("index not updated by MoveUnitTo")
	}
	w.RemoveUnit(u)
	if !u.Removed || w.Index.Contains(u) {
		t.Error("removed unit still indexed")
	}
	if red.Units != 1 || red.Demand != 1 {
		t.Errorf("player bookkeeping: units=%d demand=%d", red.Units, red.Demand)
	}
}

func TestTileFreeHonoursBuildings(t *testing.T) {
	w, red, _ := newTestWorld(t)
	spawn(t, w, barracks, red, 2, 2)
	if w.TileFree(grunt, 3, 3, nil) {
		t.Error("land unit should not fit inside a building")
	}
	if !w.TileFree(grunt, 5, 3, nil) {
		t.Error("tile next to the building should be free")
	}
	if w.CanPlace(barracks, 4, 4, nil) {
		t.Error("overlapping building should not fit")
	}
}

func TestDropOutOnSide(t *testing.T) {
	w, red, _ := newTestWorld(t)
	b := spawn(t, w, barracks, red, 5, 5)
	u, _ := w.MakeUnit(grunt, red)
	if !w.DropOutOnSide(u, model.HeadingS, b.X, b.Y, 3, 3) {
		t.Fatal("DropOutOnSide found no tile")
	}
	if d := model.DistanceBetweenUnits(u, b); d != 1 {
		t.Errorf("dropped at distance %d, want 1", d)
	}
	if u.Y != 8 {
		t.Errorf("dropped at (%d,%d), want the south side", u.X, u.Y)
	}
}

func TestLetUnitDieReleasesWithoutAnimation(t *testing.T) {
	w, red, blue := newTestWorld(t)
	attacker := spawn(t, w, grunt, red, 1, 1)
	target := spawn(t, w, grunt, blue, 2, 1)
	attacker.Order().Action = model.ActionAttack
	attacker.Order().SetGoal(target)

	w.HitUnit(attacker, target, 1000)

	if !target.Destroyed || w.Index.Contains(target) {
		t.Fatal("target should be destroyed and off the index")
	}
	if target.Refs != 1 {
		t.Errorf("Refs = %d, want the attacker's reference to remain", target.Refs)
	}
	if blue.Units != 0 {
		t.Errorf("blue units = %d, want 0", blue.Units)
	}
	attacker.Order().ClearGoal()
	if w.Units.Slot(target.Slot) != nil {
		t.Error("slot should be reclaimed after the last reference")
	}
}

func TestLetUnitDieWithAnimationQueuesDie(t *testing.T) {
	w, red, _ := newTestWorld(t)
	mortal := *grunt
	mortal.Animations.Die = model.Script{{Sleep: 3, Flags: model.AnimReset}}
	u := spawn(t, w, &mortal, red, 3, 3)
	u.Orders.Push(model.Order{Action: model.ActionMove, X: 9, Y: 9})

	w.LetUnitDie(u)

	if u.Destroyed {
		t.Fatal("unit with death animation released early")
	}
	if u.Order().Action != model.ActionDie || u.Orders.Len() != 1 {
		t.Errorf("orders = %s x%d, want a lone die", u.Order().Action, u.Orders.Len())
	}
	if !u.Removed || w.Index.Contains(u) {
		t.Error("dying unit should be off the map")
	}
}

func TestCalculateDamageBounds(t *testing.T) {
	w, red, blue := newTestWorld(t)
	a := spawn(t, w, grunt, red, 1, 1)
	b := spawn(t, w, grunt, blue, 2, 1)
	// basic 9 - armor 2 + piercing 3 + 1 = 11, spread up to (11+2)/2-1.
	for i := 0; i < 200; i++ {
		d := w.CalculateDamage(a, b)
		if d < 11-5 || d > 11 {
			t.Fatalf("damage %d outside [6,11]", d)
		}
	}
	a.Buffs.Bloodlust = 5
	for i := 0; i < 200; i++ {
		d := w.CalculateDamage(a, b)
		if d < 12 || d > 23 {
			t.Fatalf("bloodlust damage %d outside [12,23]", d)
		}
	}
}

func TestUnholyArmorHalvesDamage(t *testing.T) {
	w, red, blue := newTestWorld(t)
	a := spawn(t, w, grunt, red, 1, 1)
	b := spawn(t, w, grunt, blue, 2, 1)
	b.Buffs.UnholyArmor = 10
	w.HitUnit(a, b, 20)
	if b.HP != 50 {
		t.Errorf("HP = %d, want 50", b.HP)
	}
}

func TestAttackUnitsInDistancePrefersPriority(t *testing.T) {
	w, red, blue := newTestWorld(t)
	a := spawn(t, w, grunt, red, 5, 5)
	spawn(t, w, barracks, blue, 7, 4) // priority 30, distance 2
	far := spawn(t, w, grunt, blue, 5, 8)

	if got := w.AttackUnitsInDistance(a, 4); got != far {
		t.Errorf("picked %v, want the higher priority grunt", got)
	}
	if got := w.AttackUnitsInDistance(a, 2); got == nil || got.Type != barracks {
		t.Errorf("within 2 tiles picked %v, want the barracks", got)
	}
	spawn(t, w, grunt, red, 4, 5)
	if got := w.AttackUnitsInDistance(a, 1); got != nil && got.Player == red {
		t.Error("picked a friendly unit")
	}
}

func TestAddBuildProgressKeepsDamage(t *testing.T) {
	w, red, _ := newTestWorld(t)
	b := spawn(t, w, barracks, red, 2, 2)
	b.Progress, b.HP = 0, 0
	AddBuildProgress(b, 100) // half way: 400 HP
	b.HP -= 50               // damaged while building
	done := AddBuildProgress(b, 100)
	if !done {
		t.Fatal("construction should be complete")
	}
	if b.HP != 750 {
		t.Errorf("HP = %d, want 750", b.HP)
	}
}

func TestLedgerAllOrNothing(t *testing.T) {
	w, red, _ := newTestWorld(t)
	u := spawn(t, w, grunt, red, 1, 1)
	red.Resources[model.GoldCost] = 5
	w.Ledger.AddConsumer(u, model.Costs{model.GoldCost: 60 * RateScale, model.WoodCost: 30 * RateScale})

	w.Ledger.Tick(30) // due: 2 gold, 1 wood; wood missing
	if !w.Ledger.Short(u) {
		t.Fatal("consumer should be short on wood")
	}
	if red.Resources[model.GoldCost] != 5 {
		t.Errorf("gold charged on a short tick: %d", red.Resources[model.GoldCost])
	}

	red.Resources[model.WoodCost] = 10
	w.Ledger.Tick(30)
	w.Ledger.Tick(30)
	if w.Ledger.Short(u) {
		t.Fatal("consumer should be supplied")
	}
	got := w.Ledger.Supplied(u)
	if got[model.GoldCost] != 4 || got[model.WoodCost] != 2 {
		t.Errorf("supplied = %v, want 4 gold 2 wood", got)
	}
	if again := w.Ledger.Supplied(u); again != (model.Costs{}) {
		t.Errorf("Supplied should drain, got %v", again)
	}
	w.Ledger.RemoveConsumer(u)
	if w.Ledger.Consuming(u) || w.Ledger.Len() != 0 {
		t.Error("consumer not removed")
	}
}

func TestLedgerFractionalRate(t *testing.T) {
	w, red, _ := newTestWorld(t)
	u := spawn(t, w, grunt, red, 1, 1)
	red.Resources[model.GoldCost] = 100
	w.Ledger.AddConsumer(u, model.Costs{model.GoldCost: 3 * RateScale}) // 3 per second
	for i := 0; i < 30; i++ {
		w.Ledger.Tick(30)
	}
	if got := w.Ledger.Supplied(u)[model.GoldCost]; got != 3 {
		t.Errorf("one second supplied %d gold, want 3", got)
	}
	if red.Resources[model.GoldCost] != 97 {
		t.Errorf("gold = %d, want 97", red.Resources[model.GoldCost])
	}
}

func TestLedgerSubUnitRate(t *testing.T) {
	w, red, _ := newTestWorld(t)
	u := spawn(t, w, grunt, red, 1, 1)
	red.Resources[model.WoodCost] = 10
	w.Ledger.AddConsumer(u, model.Costs{model.WoodCost: RateScale / 4}) // one every 4 s
	for i := 0; i < 4*30; i++ {
		w.Ledger.Tick(30)
	}
	if got := w.Ledger.Supplied(u)[model.WoodCost]; got != 1 {
		t.Errorf("four seconds supplied %d wood, want 1", got)
	}
}
