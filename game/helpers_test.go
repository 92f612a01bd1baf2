package game

import (
	"testing"

	"github.com/Mistranger/stratagus-sub001/catalog"
	"github.com/Mistranger/stratagus-sub001/model"
	"github.com/Mistranger/stratagus-sub001/pathfind"
	"github.com/Mistranger/stratagus-sub001/spatial"
	"github.com/Mistranger/stratagus-sub001/world"
)

func newGame(t *testing.T, players int) (*Game, []*model.Player) {
	t.Helper()
	cat, err := catalog.Default()
	if err != nil {
		t.Fatalf("catalog.Default: %v", err)
	}
	w, err := world.New(world.Config{Width: 64, Height: 64, Strategy: spatial.Quadtree, MaxUnits: 512, Seed: 3, TPS: 30}, nil)
	if err != nil {
		t.Fatalf("world.New: %v", err)
	}
	w.Path = pathfind.New(w)
	ps, err := Setup(w, cat, players)
	if err != nil {
		t.Fatalf("Setup: %v", err)
	}
	g, err := New(w, cat, 0)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return g, ps
}

func (g *Game) place(t *testing.T, ident string, p *model.Player, x, y int) *model.Unit {
	t.Helper()
	typ, err := g.Catalog.Type(ident)
	if err != nil {
		t.Fatal(err)
	}
	u, err := g.World.MakeUnit(typ, p)
	if err != nil {
		t.Fatal(err)
	}
	g.World.PlaceUnit(u, x, y)
	return u
}

func unitsOf(w *world.World, p *model.Player, ident string) []*model.Unit {
	var out []*model.Unit
	for _, u := range w.Units.Live() {
		if u.Player == p && u.Type.Ident == ident && u.Alive() {
			out = append(out, u)
		}
	}
	return out
}
