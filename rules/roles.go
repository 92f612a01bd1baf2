package rules

import (
	"slices"

	"github.com/Mistranger/stratagus-sub001/model"
)

// Logical roles used by compiled conditions.
const (
	RoleWorker    = "worker"
	RoleMelee     = "melee"
	RoleRanged    = "ranged"
	RoleCaster    = "caster"
	RoleSiege     = "siege"
	RoleTownHall  = "town_hall"
	RoleFarm      = "farm"
	RoleBarracks  = "barracks"
	RoleTower     = "tower"
	RoleMageTower = "mage_tower"
)

// roles is the static registry of logical roles to concrete type idents,
// covering both races. Idents missing from the loaded catalog are skipped.
var roles = map[string][]string{
	RoleWorker:    {"peasant", "peon"},
	RoleMelee:     {"footman", "grunt"},
	RoleRanged:    {"archer", "axethrower"},
	RoleCaster:    {"mage", "death-knight"},
	RoleSiege:     {"catapult"},
	RoleTownHall:  {"town-hall", "great-hall"},
	RoleFarm:      {"farm", "pig-farm"},
	RoleBarracks:  {"barracks"},
	RoleTower:     {"guard-tower"},
	RoleMageTower: {"mage-tower"},
}

// Roles returns the names of every known role.
func Roles() []string {
	out := make([]string, 0, len(roles))
	for r := range roles {
		out = append(out, r)
	}
	slices.Sort(out)
	return out
}

func fillsRole(t *model.UnitType, role string) bool {
	return t != nil && slices.Contains(roles[role], t.Ident)
}

// isArmy reports whether units of t are sent to fight: anything mobile
// that attacks of its own accord, plus spell casters.
func isArmy(t *model.UnitType) bool {
	if t == nil || !t.CanMove() || fillsRole(t, RoleWorker) {
		return false
	}
	return (t.CanAttack && !t.Coward) || t.CanCastSpell
}

// countRole counts units whose type fills role.
func countRole(units []*model.Unit, role string) int {
	n := 0
	for _, u := range units {
		if fillsRole(u.Type, role) {
			n++
		}
	}
	return n
}
