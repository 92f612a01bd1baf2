package rules

import (
	"slices"
	"testing"

	"github.com/Mistranger/stratagus-sub001/command"
	"github.com/Mistranger/stratagus-sub001/model"
)

func TestUpdateSquadsPrunesDead(t *testing.T) {
	f := newFixture(t)
	a := f.place("footman", f.red, 4, 4)
	b := f.place("footman", f.red, 5, 4)
	c := f.place("footman", f.red, 6, 4)
	sq := formSquad(f.env.Memory, "attack", "attack", []*model.Unit{a, b, c})

	f.world.LetUnitDie(b)
	updateSquads(f.env)

	squads := getSquads(f.env.Memory)
	got, ok := squads[sq.Name]
	if !ok {
		t.Fatal("expected attack squad to still exist")
	}
	if len(got.Members) != 2 || slices.Contains(got.Members, b) {
		t.Errorf("members = %v, want a and c", got.Members)
	}
}

func TestUpdateSquadsDissolveEmpty(t *testing.T) {
	f := newFixture(t)
	a := f.place("footman", f.red, 4, 4)
	b := f.place("footman", f.red, 5, 4)
	doomed := formSquad(f.env.Memory, "attack", "attack", []*model.Unit{a})
	alive := formSquad(f.env.Memory, "defense", "defend", []*model.Unit{b})
	if doomed.Name == alive.Name {
		t.Fatalf("squad names collide: %s", doomed.Name)
	}

	f.world.LetUnitDie(a)
	updateSquads(f.env)

	squads := GetSquads(f.env.Memory)
	if _, ok := squads[doomed.Name]; ok {
		t.Error("expected squad with no survivors to be dissolved")
	}
	if _, ok := squads[alive.Name]; !ok {
		t.Error("expected surviving squad to remain")
	}
}

func TestDropMember(t *testing.T) {
	f := newFixture(t)
	a := f.place("footman", f.red, 4, 4)
	sq := formSquad(f.env.Memory, "attack", "attack", []*model.Unit{a})
	if !DropMember(f.env.Memory, a) {
		t.Fatal("DropMember() = false for a member")
	}
	if _, ok := GetSquads(f.env.Memory)[sq.Name]; ok {
		t.Error("emptied squad not dissolved")
	}
	if DropMember(f.env.Memory, a) {
		t.Error("DropMember() = true for a free unit")
	}
}

func TestIdleSquads(t *testing.T) {
	f := newFixture(t)
	a := f.place("footman", f.red, 4, 4)
	b := f.place("footman", f.red, 5, 4)
	d := f.place("footman", f.red, 6, 4)
	sq := formSquad(f.env.Memory, "attack", "attack", []*model.Unit{a, b})
	formSquad(f.env.Memory, "defense", "defend", []*model.Unit{d})

	if got := f.env.IdleSquads(); len(got) != 1 || got[0] != sq {
		t.Fatalf("IdleSquads() = %v, want only the attack squad", got)
	}
	if err := command.Move(f.world, b, 20, 20, true); err != nil {
		t.Fatal(err)
	}
	if got := f.env.IdleSquads(); len(got) != 0 {
		t.Errorf("IdleSquads() = %v with a member on the move", got)
	}
	if got := sq.Slots(); !slices.Equal(got, []int{a.Slot, b.Slot}) {
		t.Errorf("Slots() = %v", got)
	}
}
