package agent

import (
	"slices"
	"testing"

	"github.com/Mistranger/stratagus-sub001/action"
	"github.com/Mistranger/stratagus-sub001/catalog"
	"github.com/Mistranger/stratagus-sub001/model"
	"github.com/Mistranger/stratagus-sub001/pathfind"
	"github.com/Mistranger/stratagus-sub001/rules"
	"github.com/Mistranger/stratagus-sub001/spatial"
	"github.com/Mistranger/stratagus-sub001/world"
)

type fixture struct {
	t         *testing.T
	world     *world.World
	cat       *catalog.Catalog
	red, blue *model.Player
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	cat, err := catalog.Default()
	if err != nil {
		t.Fatalf("catalog.Default: %v", err)
	}
	w, err := world.New(world.Config{Width: 48, Height: 48, Strategy: spatial.TileSlots, MaxUnits: 256, Seed: 11, TPS: 30}, nil)
	if err != nil {
		t.Fatalf("world.New: %v", err)
	}
	w.Path = pathfind.New(w)
	red, _ := w.AddPlayer(0, "red")
	blue, _ := w.AddPlayer(1, "blue")
	red.SetEnemy(blue)
	blue.SetEnemy(red)
	red.Resources = model.Costs{model.GoldCost: 20000, model.WoodCost: 20000}
	return &fixture{t: t, world: w, cat: cat, red: red, blue: blue}
}

func (f *fixture) place(ident string, p *model.Player, x, y int) *model.Unit {
	f.t.Helper()
	typ, err := f.cat.Type(ident)
	if err != nil {
		f.t.Fatalf("Type(%s): %v", ident, err)
	}
	u, err := f.world.MakeUnit(typ, p)
	if err != nil {
		f.t.Fatalf("MakeUnit(%s): %v", ident, err)
	}
	f.world.PlaceUnit(u, x, y)
	return u
}

func (f *fixture) agent(d rules.Doctrine, interval int) *Agent {
	f.t.Helper()
	a, err := New(f.red, f.cat, d, interval)
	if err != nil {
		f.t.Fatalf("New: %v", err)
	}
	return a
}

func TestNewInstallsHooks(t *testing.T) {
	f := newFixture(t)
	a := f.agent(rules.DefaultDoctrine(), 0)
	if f.red.AI != a {
		t.Error("agent not installed as the player's AI")
	}
	if a.Interval != 1 {
		t.Errorf("Interval = %d, want at least 1", a.Interval)
	}
}

func TestTickRespectsInterval(t *testing.T) {
	f := newFixture(t)
	f.place("town-hall", f.red, 10, 10)
	f.place("peasant", f.red, 8, 10)
	a := f.agent(rules.DefaultDoctrine(), 30)

	if fired := a.Tick(f.world); !slices.Contains(fired, "build-farm") {
		t.Fatalf("first tick fired %v, want build-farm", fired)
	}
	f.world.Cycle = 1
	if fired := a.Tick(f.world); fired != nil {
		t.Errorf("off-interval tick fired %v", fired)
	}
}

func TestCanNotMoveReleasesStuckUnit(t *testing.T) {
	f := newFixture(t)
	f.place("town-hall", f.red, 2, 2)
	var army []*model.Unit
	for i := 0; i < 6; i++ {
		army = append(army, f.place("footman", f.red, 10+i, 2))
	}
	f.place("farm", f.blue, 40, 40)
	a := f.agent(rules.DefaultDoctrine(), 1)
	if fired := a.Tick(f.world); !slices.Contains(fired, "attack-wave") {
		t.Fatalf("fired %v, want attack-wave", fired)
	}

	u := army[0]
	for i := 0; i < maxStuck-1; i++ {
		a.CanNotMove(u)
	}
	if !inSquad(a, u) {
		t.Fatal("unit left its squad too early")
	}
	a.CanNotMove(u)
	if inSquad(a, u) {
		t.Error("stuck unit still in its squad")
	}
	if !inSquad(a, army[1]) {
		t.Error("the rest of the squad was dissolved")
	}
}

func inSquad(a *Agent, u *model.Unit) bool {
	for _, sq := range rules.GetSquads(a.Engine.Memory) {
		if slices.Contains(sq.Members, u) {
			return true
		}
	}
	return false
}

func TestSetbackShiftsDoctrine(t *testing.T) {
	f := newFixture(t)
	hall := f.place("town-hall", f.red, 2, 2)
	var army []*model.Unit
	for i := 0; i < 4; i++ {
		army = append(army, f.place("footman", f.red, 10+i, 10))
	}
	a := f.agent(rules.DefaultDoctrine(), 1)
	a.Tick(f.world)
	before := a.Doctrine().DefensePriority

	for _, u := range army[:3] {
		f.world.LetUnitDie(u)
	}
	f.world.Cycle = 1
	a.Tick(f.world)
	if got := a.Doctrine().DefensePriority; got <= before {
		t.Errorf("defense priority %.2f, want above %.2f after losing the army", got, before)
	}
	if evs := a.Events(); len(evs) == 0 || evs[len(evs)-1].Kind != EventArmyDevastated {
		t.Errorf("events = %+v", evs)
	}

	// A second setback inside the cooldown leaves the doctrine alone.
	shifted := a.Doctrine()
	f.world.LetUnitDie(hall)
	f.world.Cycle = 2
	a.Tick(f.world)
	if a.Doctrine() != shifted {
		t.Errorf("doctrine shifted again inside the cooldown: %+v", a.Doctrine())
	}
	if evs := a.Events(); evs[len(evs)-1].Kind != EventCriticalBuildingLost {
		t.Errorf("last event = %+v, want the lost hall", evs[len(evs)-1])
	}
}

func TestTrainingCompleteCounts(t *testing.T) {
	f := newFixture(t)
	f.place("barracks", f.red, 10, 10)
	f.place("farm", f.red, 20, 20)
	a := f.agent(rules.DefaultDoctrine(), 1)
	d, err := action.New(f.world, nil)
	if err != nil {
		t.Fatal(err)
	}
	for i := 0; i < 200 && a.Trained() == 0; i++ {
		a.Tick(f.world)
		d.Tick()
	}
	if a.Trained() == 0 {
		t.Fatal("no unit trained in 200 cycles")
	}
}
