package rules

import "fmt"

// CompileDoctrine generates a complete rule set from a doctrine's weights.
// All conditions are built via fmt.Sprintf with interpolated values, so
// the compiler never generates invalid expr.
func CompileDoctrine(d Doctrine) []*Rule {
	d.Validate()
	var rules []*Rule

	defendRadius := lerp(6, 16, d.DefensePriority)
	repairPct := lerp(40, 90, d.DefensePriority)
	workers := lerp(3, 10, d.EconomyPriority)
	foodBuffer := lerp(1, 4, d.EconomyPriority)
	barracks := lerp(1, 3, d.Aggression)
	towers := lerp(0, 4, d.DefensePriority)
	rangedPct := lerp(0, 150, d.RangedWeight)
	siegePct := lerp(0, 50, d.SiegeWeight)
	casters := lerp(0, 4, d.MagicPriority)

	// --- Core rules (always present) ---

	rules = append(rules, &Rule{
		Name:         "defend-base",
		Priority:     1000,
		Category:     "combat",
		Exclusive:    true,
		ConditionSrc: fmt.Sprintf(`len(EnemiesNearBase(%d)) > 0 && len(IdleArmy()) > 0`, defendRadius),
		Action:       ActionDefend(defendRadius),
	})

	rules = append(rules, &Rule{
		Name:         "build-farm",
		Priority:     900,
		Category:     "build",
		Exclusive:    true,
		ConditionSrc: fmt.Sprintf(`FoodLeft() < %d && !Constructing("farm") && CanBuildRole("farm")`, foodBuffer),
		Action:       ActionBuildRole(RoleFarm),
	})

	rules = append(rules, &Rule{
		Name:         "help-build",
		Priority:     850,
		Category:     "workers",
		ConditionSrc: `len(Sites()) > 0 && len(IdleWorkers()) > 0`,
		Action:       ActionHelpBuild,
	})

	rules = append(rules, &Rule{
		Name:         "repair-buildings",
		Priority:     800,
		Category:     "workers",
		ConditionSrc: fmt.Sprintf(`len(DamagedBuildings(%d)) > 0 && len(IdleWorkers()) > 0`, repairPct),
		Action:       ActionRepair(repairPct),
	})

	rules = append(rules, &Rule{
		Name:         "train-worker",
		Priority:     700,
		Category:     "economy",
		Exclusive:    true,
		ConditionSrc: fmt.Sprintf(`RoleCount("worker") < %d && CanTrainRole("worker")`, workers),
		Action:       ActionTrainRole(RoleWorker),
	})

	// --- Base building ---

	rules = append(rules, &Rule{
		Name:         "build-barracks",
		Priority:     650,
		Category:     "build",
		Exclusive:    true,
		ConditionSrc: fmt.Sprintf(`HasRole("town_hall") && RoleCount("barracks") < %d && !Constructing("barracks") && CanBuildRole("barracks")`, barracks),
		Action:       ActionBuildRole(RoleBarracks),
	})

	if towers > 0 {
		rules = append(rules, &Rule{
			Name:         "build-tower",
			Priority:     600,
			Category:     "build",
			Exclusive:    true,
			ConditionSrc: fmt.Sprintf(`HasRole("barracks") && RoleCount("tower") < %d && !Constructing("tower") && CanBuildRole("tower")`, towers),
			Action:       ActionBuildRole(RoleTower),
		})
	}

	if casters > 0 {
		rules = append(rules, &Rule{
			Name:         "build-mage-tower",
			Priority:     550,
			Category:     "build",
			Exclusive:    true,
			ConditionSrc: `HasRole("barracks") && RoleCount("mage_tower") == 0 && CanBuildRole("mage_tower")`,
			Action:       ActionBuildRole(RoleMageTower),
		})
		rules = append(rules, &Rule{
			Name:         "train-caster",
			Priority:     520,
			Category:     "army",
			Exclusive:    true,
			ConditionSrc: fmt.Sprintf(`RoleCount("caster") < %d && CanTrainRole("caster")`, casters),
			Action:       ActionTrainRole(RoleCaster),
		})
		rules = append(rules, &Rule{
			Name:         "heal-wounded",
			Priority:     400,
			Category:     "magic",
			ConditionSrc: `len(WoundedAllies()) > 0 && len(ReadyCasters("healing")) > 0`,
			Action:       ActionCast("healing"),
		})
	}

	// --- Army composition ---
	// Ratios are per hundred melee units; melee is the fallback when no
	// other ratio is short.

	if siegePct > 0 {
		rules = append(rules, &Rule{
			Name:         "train-siege",
			Priority:     510,
			Category:     "army",
			Exclusive:    true,
			ConditionSrc: fmt.Sprintf(`RoleCount("siege")*100 < RoleCount("melee")*%d && CanTrainRole("siege")`, siegePct),
			Action:       ActionTrainRole(RoleSiege),
		})
	}

	if rangedPct > 0 {
		rules = append(rules, &Rule{
			Name:         "train-ranged",
			Priority:     505,
			Category:     "army",
			Exclusive:    true,
			ConditionSrc: fmt.Sprintf(`RoleCount("ranged")*100 < RoleCount("melee")*%d && CanTrainRole("ranged")`, rangedPct),
			Action:       ActionTrainRole(RoleRanged),
		})
	}

	rules = append(rules, &Rule{
		Name:         "train-melee",
		Priority:     500,
		Category:     "army",
		Exclusive:    true,
		ConditionSrc: `CanTrainRole("melee")`,
		Action:       ActionTrainRole(RoleMelee),
	})

	// --- Offense ---

	rules = append(rules, &Rule{
		Name:         "attack-wave",
		Priority:     300,
		Category:     "combat",
		Exclusive:    true,
		ConditionSrc: fmt.Sprintf(`len(IdleArmy()) >= %d && NearestEnemy() != nil`, d.AttackGroupSize),
		Action:       ActionAttackWave(d.AttackGroupSize),
	})

	rules = append(rules, &Rule{
		Name:         "press-attack",
		Priority:     250,
		Category:     "combat",
		Exclusive:    true,
		ConditionSrc: `len(IdleSquads()) > 0 && NearestEnemy() != nil`,
		Action:       ActionPressAttack,
	})

	return rules
}

// DefaultRules compiles the default doctrine.
func DefaultRules() []*Rule {
	return CompileDoctrine(DefaultDoctrine())
}
