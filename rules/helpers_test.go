package rules

import (
	"testing"

	"github.com/Mistranger/stratagus-sub001/action"
	"github.com/Mistranger/stratagus-sub001/catalog"
	"github.com/Mistranger/stratagus-sub001/model"
	"github.com/Mistranger/stratagus-sub001/pathfind"
	"github.com/Mistranger/stratagus-sub001/spatial"
	"github.com/Mistranger/stratagus-sub001/world"
)

type fixture struct {
	t     *testing.T
	env   RuleEnv
	red   *model.Player
	blue  *model.Player
	cat   *catalog.Catalog
	world *world.World
}

// newFixture builds an empty 48x48 world with the default catalog and two
// hostile players. red is the AI player under test and starts rich.
func newFixture(t *testing.T) *fixture {
	t.Helper()
	cat, err := catalog.Default()
	if err != nil {
		t.Fatalf("catalog.Default: %v", err)
	}
	w, err := world.New(world.Config{Width: 48, Height: 48, Strategy: spatial.Quadtree, MaxUnits: 256, Seed: 3, TPS: 30}, nil)
	if err != nil {
		t.Fatalf("world.New: %v", err)
	}
	w.Path = pathfind.New(w)
	red, _ := w.AddPlayer(0, "red")
	blue, _ := w.AddPlayer(1, "blue")
	red.SetEnemy(blue)
	blue.SetEnemy(red)
	red.Resources = model.Costs{model.GoldCost: 20000, model.WoodCost: 20000}
	return &fixture{
		t:     t,
		env:   RuleEnv{World: w, Player: red, Catalog: cat, Memory: make(map[string]any)},
		red:   red,
		blue:  blue,
		cat:   cat,
		world: w,
	}
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

// tick runs n dispatcher cycles so queued orders become active.
func (f *fixture) tick(n int) {
	f.t.Helper()
	d, err := action.New(f.world, nil)
	if err != nil {
		f.t.Fatalf("action.New: %v", err)
	}
	for i := 0; i < n; i++ {
		f.world.Ledger.Tick(f.world.TPS)
		d.Tick()
	}
}
