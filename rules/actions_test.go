package rules

import (
	"testing"

	"github.com/Mistranger/stratagus-sub001/model"
	"github.com/Mistranger/stratagus-sub001/spatial"
	"github.com/Mistranger/stratagus-sub001/world"
)

func lastOrder(u *model.Unit) *model.Order {
	return u.Orders.At(u.Orders.Len() - 1)
}

func TestActionTrainRole(t *testing.T) {
	f := newFixture(t)
	f.place("barracks", f.red, 10, 10)
	f.place("farm", f.red, 20, 20)
	gold := f.env.Gold()
	if err := ActionTrainRole(RoleMelee)(f.env); err != nil {
		t.Fatal(err)
	}
	if got := gold - f.env.Gold(); got != 600 {
		t.Errorf("spent %d gold, want 600", got)
	}
	if got := f.env.RoleCount(RoleMelee); got != 1 {
		t.Errorf("RoleCount(melee) = %d after queueing", got)
	}
	// The only producer is busy now.
	if err := ActionTrainRole(RoleMelee)(f.env); err != nil {
		t.Fatal(err)
	}
	if got := f.env.RoleCount(RoleMelee); got != 1 {
		t.Errorf("RoleCount(melee) = %d, busy producer took a second order", got)
	}
}

func TestActionBuildRoleLeavesGap(t *testing.T) {
	f := newFixture(t)
	hall := f.place("town-hall", f.red, 10, 10)
	p := f.place("peasant", f.red, 8, 10)
	if err := ActionBuildRole(RoleFarm)(f.env); err != nil {
		t.Fatal(err)
	}
	var site *model.Unit
	for _, u := range f.world.Units.Live() {
		if u.Type.Ident == "farm" {
			site = u
		}
	}
	if site == nil {
		t.Fatal("no farm placed")
	}
	if site.Order().Action != model.ActionBuilt || site.HP != 1 {
		t.Errorf("site order %s hp %d", site.Order().Action, site.HP)
	}
	sx, sy, sw, sh := site.Footprint()
	hx, hy, hw, hh := hall.Footprint()
	if model.RectsIntersect(sx-1, sy-1, sw+2, sh+2, hx, hy, hw, hh) {
		t.Errorf("farm at (%d,%d) touches the hall", sx, sy)
	}
	if o := lastOrder(p); o.Action != model.ActionRepair || o.Goal() != site {
		t.Errorf("peasant order %s goal %v, want to help build", o.Action, o.Goal())
	}
}

func TestFindSiteNoRoom(t *testing.T) {
	w, err := world.New(world.Config{Width: 5, Height: 5, Strategy: spatial.TileList, MaxUnits: 8, TPS: 30}, nil)
	if err != nil {
		t.Fatal(err)
	}
	f := newFixture(t)
	hallType, _ := f.cat.Type("town-hall")
	farmType, _ := f.cat.Type("farm")
	hall, _ := w.MakeUnit(hallType, nil)
	w.PlaceUnit(hall, 0, 0)
	if x, y, ok := findSite(w, farmType, 1, 1); ok {
		t.Errorf("found a site at (%d,%d) on a full map", x, y)
	}
}

func TestActionRepairAssignsOneWorkerPerBuilding(t *testing.T) {
	f := newFixture(t)
	a := f.place("farm", f.red, 10, 10)
	b := f.place("farm", f.red, 20, 10)
	p := f.place("peasant", f.red, 18, 10)
	a.HP, b.HP = 50, 50
	if err := ActionRepair(50)(f.env); err != nil {
		t.Fatal(err)
	}
	if o := lastOrder(p); o.Action != model.ActionRepair || o.Goal() == nil {
		t.Fatalf("peasant order %s", o.Action)
	}
	if len(f.env.DamagedBuildings(50)) != 1 {
		t.Errorf("want one farm left untended")
	}
}

func TestActionDefendTargetsIntruder(t *testing.T) {
	f := newFixture(t)
	f.place("town-hall", f.red, 10, 10)
	u := f.place("footman", f.red, 5, 5)
	intruder := f.place("grunt", f.blue, 15, 9)
	f.place("grunt", f.blue, 40, 40)
	if err := ActionDefend(8)(f.env); err != nil {
		t.Fatal(err)
	}
	if o := lastOrder(u); o.Action != model.ActionAttack || o.Goal() != intruder {
		t.Errorf("defender order %s goal %v, want attack on %v", o.Action, o.Goal(), intruder)
	}
}

func TestActionAttackWave(t *testing.T) {
	f := newFixture(t)
	f.place("town-hall", f.red, 2, 2)
	var army []*model.Unit
	for i := 0; i < 4; i++ {
		army = append(army, f.place("footman", f.red, 8+i, 2))
	}
	f.place("farm", f.blue, 40, 40)

	if err := ActionAttackWave(5)(f.env); err != nil {
		t.Fatal(err)
	}
	if len(GetSquads(f.env.Memory)) != 0 {
		t.Fatal("squad formed below the group size")
	}

	if err := ActionAttackWave(4)(f.env); err != nil {
		t.Fatal(err)
	}
	squads := GetSquads(f.env.Memory)
	if len(squads) != 1 {
		t.Fatalf("squads = %v, want one", squads)
	}
	for _, u := range army {
		o := lastOrder(u)
		if o.Action != model.ActionAttack || o.Goal() != nil || o.X != 40 || o.Y != 40 {
			t.Errorf("%v order %s goal %v at (%d,%d), want attack-move to (40,40)", u, o.Action, o.Goal(), o.X, o.Y)
		}
	}
	if got := len(f.env.IdleArmy()); got != 0 {
		t.Errorf("IdleArmy() = %d after the wave left", got)
	}
}

func TestActionPressAttackRetargets(t *testing.T) {
	f := newFixture(t)
	f.place("town-hall", f.red, 2, 2)
	u := f.place("footman", f.red, 8, 2)
	formSquad(f.env.Memory, "attack", "attack", []*model.Unit{u})
	f.place("grunt", f.blue, 30, 12)
	if err := ActionPressAttack(f.env); err != nil {
		t.Fatal(err)
	}
	if o := lastOrder(u); o.Action != model.ActionAttack || o.X != 30 || o.Y != 12 {
		t.Errorf("order %s at (%d,%d), want attack-move to (30,12)", o.Action, o.X, o.Y)
	}
}

func TestActionCastHealsClosestWounded(t *testing.T) {
	f := newFixture(t)
	m := f.place("mage", f.red, 5, 5)
	near := f.place("footman", f.red, 6, 5)
	far := f.place("footman", f.red, 12, 5)
	f.place("footman", f.red, 5, 6) // unhurt
	m.Mana = 100
	near.HP, far.HP = 20, 20
	if err := ActionCast("healing")(f.env); err != nil {
		t.Fatal(err)
	}
	o := lastOrder(m)
	if o.Action != model.ActionSpellCast || o.Goal() != near {
		t.Errorf("mage order %s goal %v, want healing on %v", o.Action, o.Goal(), near)
	}
	if err := ActionCast("nonsense")(f.env); err == nil {
		t.Error("unknown spell accepted")
	}
}
