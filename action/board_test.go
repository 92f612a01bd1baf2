package action

import (
	"testing"

	"github.com/Mistranger/stratagus-sub001/command"
	"github.com/Mistranger/stratagus-sub001/model"
)

func TestBoardEntersTransporter(t *testing.T) {
	h := newHarness(t)
	c := h.spawn(wagon, h.red, 9, 5)
	u := h.spawn(footman, h.red, 2, 5)
	if err := command.Board(h.w, u, c, true); err != nil {
		t.Fatal(err)
	}
	h.runUntil(300, "boarded", func() bool { return u.Container == c })
	if !u.Removed || len(c.Passengers) != 1 {
		t.Errorf("removed=%v passengers=%d", u.Removed, len(c.Passengers))
	}
	if u.Order().Action != model.ActionStill || c.Refs != 0 {
		t.Errorf("order %s, transporter refs %d", u.Order().Action, c.Refs)
	}
	if got := h.w.Index.SelectOnTile(u.X, u.Y); len(got) != 0 {
		t.Errorf("passenger still indexed: %v", got)
	}
}

func TestBoardFullTransporterNotifies(t *testing.T) {
	h := newHarness(t)
	c := h.spawn(wagon, h.red, 6, 5)
	h.w.Board(c, h.spawn(peasant, h.red, 12, 12))
	u := h.spawn(footman, h.red, 5, 5)
	if err := command.Board(h.w, u, c, true); err != nil {
		t.Fatal(err)
	}
	h.runUntil(100, "refused", func() bool { return h.notes.has("No free slot in transporter") })
	if u.Removed || u.Container != nil || len(c.Passengers) != 1 {
		t.Errorf("removed=%v passengers=%d", u.Removed, len(c.Passengers))
	}
}

func TestBoardDeadTransporterFinishes(t *testing.T) {
	h := newHarness(t)
	c := h.spawn(wagon, h.red, 12, 5)
	u := h.spawn(footman, h.red, 2, 5)
	if err := command.Board(h.w, u, c, true); err != nil {
		t.Fatal(err)
	}
	h.run(4)
	h.w.LetUnitDie(c)
	h.runUntil(20, "given up", func() bool { return u.Order().Action == model.ActionStill })
	if u.Order().Goal() != nil {
		t.Error("goal kept after the transporter died")
	}
}

func TestUnloadDropsPassengers(t *testing.T) {
	h := newHarness(t)
	big := &model.UnitType{Ident: "ship", TileWidth: 1, TileHeight: 1, HitPoints: 100, Transporter: true, MaxOnBoard: 3, Animations: unitAnims}
	c := h.spawn(big, h.red, 3, 5)
	a := h.spawn(footman, h.red, 3, 6)
	b := h.spawn(peasant, h.red, 3, 7)
	h.w.Board(c, a)
	h.w.Board(c, b)
	if err := command.Unload(h.w, c, 9, 5, nil, true); err != nil {
		t.Fatal(err)
	}
	h.runUntil(300, "unloaded", func() bool { return len(c.Passengers) == 0 })
	if c.X != 9 || c.Y != 5 {
		t.Errorf("unloaded at (%d,%d), want (9,5)", c.X, c.Y)
	}
	for _, p := range []*model.Unit{a, b} {
		if p.Removed || p.Container != nil {
			t.Errorf("%v still aboard", p)
		}
		if d := model.DistanceBetweenUnits(p, c); d != 1 {
			t.Errorf("%v dropped %d tiles away", p, d)
		}
	}
	if a.X == b.X && a.Y == b.Y {
		t.Error("passengers dropped on the same tile")
	}
}

func TestUnloadSingleGoal(t *testing.T) {
	h := newHarness(t)
	big := &model.UnitType{Ident: "ship", TileWidth: 1, TileHeight: 1, HitPoints: 100, Transporter: true, MaxOnBoard: 3, Animations: unitAnims}
	c := h.spawn(big, h.red, 5, 5)
	a := h.spawn(footman, h.red, 5, 6)
	b := h.spawn(peasant, h.red, 5, 7)
	h.w.Board(c, a)
	h.w.Board(c, b)
	if err := command.Unload(h.w, c, 5, 5, b, true); err != nil {
		t.Fatal(err)
	}
	h.runUntil(30, "done", func() bool {
		return c.Orders.Len() == 1 && c.Order().Action == model.ActionStill
	})
	if b.Removed || !a.Removed || len(c.Passengers) != 1 {
		t.Errorf("a removed=%v b removed=%v passengers=%d", a.Removed, b.Removed, len(c.Passengers))
	}
}

func TestUnloadNoSpaceNotifies(t *testing.T) {
	h := newHarness(t,
		"###.....",
		"#.#.....",
		"###.....",
	)
	c := h.spawn(wagon, h.red, 1, 1)
	p := h.spawn(footman, h.red, 5, 1)
	h.w.Board(c, p)
	if err := command.Unload(h.w, c, 1, 1, nil, true); err != nil {
		t.Fatal(err)
	}
	h.runUntil(100, "gave up", func() bool { return c.Order().Action == model.ActionStill && c.Orders.Len() == 1 })
	if !h.notes.has("No free space to unload 1 units") {
		t.Errorf("notes = %v", h.notes.notes)
	}
	if p.Container != c || !p.Removed {
		t.Error("passenger left a boxed in transporter")
	}
}
