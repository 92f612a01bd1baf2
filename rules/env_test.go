package rules

import (
	"testing"

	"github.com/Mistranger/stratagus-sub001/command"
	"github.com/Mistranger/stratagus-sub001/model"
)

func TestRoleCountIncludesTrainingQueue(t *testing.T) {
	f := newFixture(t)
	b := f.place("barracks", f.red, 10, 10)
	f.place("footman", f.red, 5, 5)
	footman, _ := f.cat.Type("footman")
	for i := 0; i < 2; i++ {
		if err := command.TrainUnit(f.world, b, footman, false); err != nil {
			t.Fatal(err)
		}
	}
	if got := f.env.RoleCount(RoleMelee); got != 3 {
		t.Errorf("RoleCount(melee) = %d, want 3 (one fielded, two queued)", got)
	}
	if got := f.env.RoleCount(RoleBarracks); got != 1 {
		t.Errorf("RoleCount(barracks) = %d, want 1", got)
	}
}

func TestCanTrainRoleNeedsFoodAndGold(t *testing.T) {
	f := newFixture(t)
	f.place("town-hall", f.red, 10, 10)
	f.place("peasant", f.red, 8, 8)
	if f.env.CanTrainRole(RoleWorker) {
		t.Fatal("can train with no food left")
	}
	f.place("farm", f.red, 20, 20)
	if !f.env.CanTrainRole(RoleWorker) {
		t.Fatal("cannot train with food and gold")
	}
	f.red.Resources = model.Costs{}
	if f.env.CanTrainRole(RoleWorker) {
		t.Error("can train while broke")
	}
	if f.env.CanTrainRole(RoleMelee) {
		t.Error("can train melee without a barracks")
	}
}

func TestHasRoleIgnoresSites(t *testing.T) {
	f := newFixture(t)
	farm, _ := f.cat.Type("farm")
	if _, err := command.Construct(f.world, f.red, farm, 4, 4); err != nil {
		t.Fatal(err)
	}
	if f.env.HasRole(RoleFarm) {
		t.Error("a site counts as a finished farm")
	}
	if !f.env.Constructing(RoleFarm) || f.env.RoleCount(RoleFarm) != 1 {
		t.Error("site not reported as under construction")
	}
	if got := len(f.env.Sites()); got != 1 {
		t.Errorf("Sites() = %d, want 1", got)
	}
}

func TestDamagedBuildingsSkipsTended(t *testing.T) {
	f := newFixture(t)
	farm := f.place("farm", f.red, 10, 10)
	p := f.place("peasant", f.red, 8, 10)
	farm.HP = 100
	if got := f.env.DamagedBuildings(40); len(got) != 1 || got[0] != farm {
		t.Fatalf("DamagedBuildings(40) = %v, want the farm", got)
	}
	if got := f.env.DamagedBuildings(20); len(got) != 0 {
		t.Errorf("DamagedBuildings(20) = %v, 25%% health is above the threshold", got)
	}
	if err := command.Repair(f.world, p, farm, true); err != nil {
		t.Fatal(err)
	}
	if got := f.env.DamagedBuildings(40); len(got) != 0 {
		t.Errorf("DamagedBuildings = %v after assigning a repairer", got)
	}
}

func TestNearestEnemyPrefersUnits(t *testing.T) {
	f := newFixture(t)
	if f.env.NearestEnemy() != nil {
		t.Fatal("enemy found without a base")
	}
	f.place("town-hall", f.red, 2, 2)
	f.place("farm", f.blue, 9, 2)
	grunt := f.place("grunt", f.blue, 30, 30)
	f.place("sheep", f.world.Neutral(), 3, 8)
	if got := f.env.NearestEnemy(); got != grunt {
		t.Errorf("NearestEnemy() = %v, want the grunt before the farm", got)
	}
	if got := f.env.EnemiesNearBase(10); len(got) != 1 || got[0].Type.Ident != "farm" {
		t.Errorf("EnemiesNearBase(10) = %v, want the farm only", got)
	}
	if !f.env.EnemiesVisible() {
		t.Error("EnemiesVisible() = false")
	}
}

func TestIdleArmyExcludesWorkersAndSquads(t *testing.T) {
	f := newFixture(t)
	a := f.place("footman", f.red, 4, 4)
	f.place("archer", f.red, 5, 4)
	f.place("peasant", f.red, 6, 4)
	f.place("farm", f.red, 10, 10)
	if got := len(f.env.IdleArmy()); got != 2 {
		t.Fatalf("IdleArmy() = %d, want 2", got)
	}
	formSquad(f.env.Memory, "attack", "attack", []*model.Unit{a})
	if got := f.env.IdleArmy(); len(got) != 1 || got[0] == a {
		t.Errorf("IdleArmy() = %v, squad member still free", got)
	}
	if got := len(f.env.Army()); got != 2 {
		t.Errorf("Army() = %d, want 2", got)
	}
	if got := len(f.env.IdleWorkers()); got != 1 {
		t.Errorf("IdleWorkers() = %d, want 1", got)
	}
}

func TestReadyCastersNeedMana(t *testing.T) {
	f := newFixture(t)
	m := f.place("mage", f.red, 4, 4)
	m.Mana = 5
	if got := f.env.ReadyCasters("healing"); len(got) != 0 {
		t.Errorf("ReadyCasters = %v with 5 mana", got)
	}
	m.Mana = 6
	if got := f.env.ReadyCasters("healing"); len(got) != 1 {
		t.Errorf("ReadyCasters = %v with enough mana", got)
	}
	if got := f.env.ReadyCasters("nonsense"); got != nil {
		t.Errorf("ReadyCasters(unknown) = %v", got)
	}
}
