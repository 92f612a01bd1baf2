package rules

import (
	"slices"
	"sort"

	"github.com/Mistranger/stratagus-sub001/catalog"
	"github.com/Mistranger/stratagus-sub001/model"
	"github.com/Mistranger/stratagus-sub001/world"
)

// RuleEnv is the AI player's view of the world, exposing helper methods
// callable from expr expressions. It is rebuilt for every evaluation and
// must only be used on the game goroutine.
type RuleEnv struct {
	World   *world.World
	Player  *model.Player
	Catalog *catalog.Catalog
	Memory  map[string]any
}

func (e RuleEnv) Cycle() int { return e.World.Cycle }

func (e RuleEnv) Gold() int { return e.Player.Resources[model.GoldCost] }

func (e RuleEnv) Wood() int { return e.Player.Resources[model.WoodCost] }

func (e RuleEnv) Oil() int { return e.Player.Resources[model.OilCost] }

// FoodLeft is the population room the player's farms still provide.
func (e RuleEnv) FoodLeft() int { return e.Player.Supply - e.Player.Demand }

func (e RuleEnv) own() []*model.Unit {
	var out []*model.Unit
	for _, u := range e.World.Units.Live() {
		if u.Player == e.Player && u.Alive() {
			out = append(out, u)
		}
	}
	return out
}

func idle(u *model.Unit) bool {
	return u.Orders.Len() == 1 && u.Order().Action == model.ActionStill
}

// HasRole reports whether a finished unit fills role.
func (e RuleEnv) HasRole(role string) bool {
	for _, u := range e.own() {
		if fillsRole(u.Type, role) && !u.UnderConstruction() {
			return true
		}
	}
	return false
}

// RoleCount counts units filling role, including sites under construction
// and units waiting in a training queue.
func (e RuleEnv) RoleCount(role string) int {
	units := e.own()
	n := countRole(units, role)
	for _, u := range units {
		if st := u.Training(); st != nil {
			for _, t := range st.Queue {
				if fillsRole(t, role) {
					n++
				}
			}
		}
		for i := 1; i < u.Orders.Len(); i++ {
			if o := u.Orders.At(i); o.Action == model.ActionTrain && fillsRole(o.Type, role) {
				n++
			}
		}
	}
	return n
}

// Constructing reports whether a site filling role is being built.
func (e RuleEnv) Constructing(role string) bool {
	for _, u := range e.own() {
		if fillsRole(u.Type, role) && u.UnderConstruction() {
			return true
		}
	}
	return false
}

// roleType returns the first catalog type filling role that pred accepts.
func (e RuleEnv) roleType(role string, pred func(*model.UnitType) bool) *model.UnitType {
	for _, ident := range roles[role] {
		t, err := e.Catalog.Type(ident)
		if err != nil {
			continue
		}
		if pred == nil || pred(t) {
			return t
		}
	}
	return nil
}

// trainer returns a finished producer that is not training and can make
// a unit filling role, with that unit type.
func (e RuleEnv) trainer(role string) (*model.Unit, *model.UnitType) {
	for _, u := range e.own() {
		if u.UnderConstruction() || u.Training() != nil || !idle(u) {
			continue
		}
		for _, t := range u.Type.CanTrain {
			if fillsRole(t, role) {
				return u, t
			}
		}
	}
	return nil, nil
}

// CanTrainRole reports whether an idle producer can start a unit filling
// role right now: it is affordable and there is food and unit room.
func (e RuleEnv) CanTrainRole(role string) bool {
	u, t := e.trainer(role)
	if u == nil {
		return false
	}
	p := e.Player
	return p.CanAfford(t.Costs) && p.CheckFood(t) && p.CheckLimits(t) && !e.World.Units.Full()
}

// CanBuildRole reports whether a building filling role is affordable and
// the player has a base to put it next to.
func (e RuleEnv) CanBuildRole(role string) bool {
	t := e.roleType(role, func(t *model.UnitType) bool { return t.Building })
	if t == nil || !e.Player.CanAfford(t.Costs) {
		return false
	}
	_, _, ok := e.base()
	return ok
}

// IdleWorkers returns idle units able to repair.
func (e RuleEnv) IdleWorkers() []*model.Unit {
	var out []*model.Unit
	for _, u := range e.own() {
		if u.Type.CanRepair && idle(u) {
			out = append(out, u)
		}
	}
	return out
}

// Army returns every fighting unit.
func (e RuleEnv) Army() []*model.Unit {
	var out []*model.Unit
	for _, u := range e.own() {
		if isArmy(u.Type) {
			out = append(out, u)
		}
	}
	return out
}

// IdleArmy returns idle fighting units that no squad has claimed.
func (e RuleEnv) IdleArmy() []*model.Unit {
	claimed := squadMembers(e.Memory)
	var out []*model.Unit
	for _, u := range e.Army() {
		if idle(u) && !claimed[u] {
			out = append(out, u)
		}
	}
	return out
}

// DamagedBuildings returns finished buildings below pct percent of their
// hit points that nobody is repairing yet.
func (e RuleEnv) DamagedBuildings(pct int) []*model.Unit {
	units := e.own()
	tended := repairGoals(units)
	var out []*model.Unit
	for _, u := range units {
		if !u.Type.Building || u.UnderConstruction() || tended[u] {
			continue
		}
		if u.HP*100 < u.MaxHP()*pct {
			out = append(out, u)
		}
	}
	return out
}

// repairGoals collects every unit a queued or active repair order points at.
func repairGoals(units []*model.Unit) map[*model.Unit]bool {
	goals := make(map[*model.Unit]bool)
	for _, u := range units {
		u.Orders.Each(func(o *model.Order) {
			if o.Action == model.ActionRepair && o.Goal() != nil {
				goals[o.Goal()] = true
			}
		})
	}
	return goals
}

// Sites returns building sites no worker is helping with.
func (e RuleEnv) Sites() []*model.Unit {
	units := e.own()
	helped := repairGoals(units)
	var out []*model.Unit
	for _, u := range units {
		if u.UnderConstruction() && !helped[u] {
			out = append(out, u)
		}
	}
	return out
}

// WoundedAllies returns mobile units of the player missing hit points.
func (e RuleEnv) WoundedAllies() []*model.Unit {
	var out []*model.Unit
	for _, u := range e.own() {
		if !u.Type.Building && u.HP < u.MaxHP() {
			out = append(out, u)
		}
	}
	return out
}

// ReadyCasters returns idle units that know the spell and have the mana
// for it.
func (e RuleEnv) ReadyCasters(spell string) []*model.Unit {
	s, err := e.Catalog.Spell(spell)
	if err != nil {
		return nil
	}
	var out []*model.Unit
	for _, u := range e.own() {
		if u.Type.Knows(s) && u.Mana >= s.ManaCost && idle(u) {
			out = append(out, u)
		}
	}
	return out
}

func (e RuleEnv) enemies() []*model.Unit {
	var out []*model.Unit
	for _, u := range e.World.Units.Live() {
		if u.Alive() && e.Player.IsEnemy(u.Player) {
			out = append(out, u)
		}
	}
	return out
}

// EnemiesVisible reports whether any hostile unit is on the map.
func (e RuleEnv) EnemiesVisible() bool { return len(e.enemies()) > 0 }

// EnemiesNearBase returns hostile units within r tiles of the base.
func (e RuleEnv) EnemiesNearBase(r int) []*model.Unit {
	bx, by, ok := e.base()
	if !ok {
		return nil
	}
	var out []*model.Unit
	for _, u := range e.enemies() {
		if model.DistanceToUnit(bx, by, u) <= r {
			out = append(out, u)
		}
	}
	return out
}

// NearestEnemy returns the hostile unit closest to the base, buildings
// last so armies clear defenders first.
func (e RuleEnv) NearestEnemy() *model.Unit {
	bx, by, ok := e.base()
	if !ok {
		return nil
	}
	enemies := e.enemies()
	if len(enemies) == 0 {
		return nil
	}
	return slices.MinFunc(enemies, func(a, b *model.Unit) int {
		if a.Type.Building != b.Type.Building {
			if a.Type.Building {
				return 1
			}
			return -1
		}
		return model.DistanceToUnit(bx, by, a) - model.DistanceToUnit(bx, by, b)
	})
}

// base returns the centre of the player's town hall, or of any building,
// or of any unit.
func (e RuleEnv) base() (int, int, bool) {
	units := e.own()
	for _, pick := range []func(*model.Unit) bool{
		func(u *model.Unit) bool { return fillsRole(u.Type, RoleTownHall) },
		func(u *model.Unit) bool { return u.Type.Building },
		func(*model.Unit) bool { return true },
	} {
		for _, u := range units {
			if pick(u) {
				x, y := u.Center()
				return x, y, true
			}
		}
	}
	return 0, 0, false
}

// IdleSquads returns attack squads whose members have all stopped.
func (e RuleEnv) IdleSquads() []*Squad {
	var out []*Squad
	for _, sq := range getSquads(e.Memory) {
		if sq.Role != "attack" {
			continue
		}
		stopped := true
		for _, u := range sq.Members {
			if u.Alive() && !idle(u) {
				stopped = false
				break
			}
		}
		if stopped {
			out = append(out, sq)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}
