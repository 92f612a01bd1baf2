package rules

import (
	"errors"
	"log/slog"
	"slices"

	"github.com/Mistranger/stratagus-sub001/command"
	"github.com/Mistranger/stratagus-sub001/model"
	"github.com/Mistranger/stratagus-sub001/spell"
	"github.com/Mistranger/stratagus-sub001/world"
)

// maxSiteRadius bounds the search for a building site around the base.
const maxSiteRadius = 20

// ActionTrainRole queues one unit filling role at an idle producer.
func ActionTrainRole(role string) ActionFunc {
	return func(env RuleEnv) error {
		u, t := env.trainer(role)
		if u == nil {
			return nil
		}
		slog.Debug("training", "player", env.Player.Name, "role", role, "type", t.Ident, "producer", u)
		return command.TrainUnit(env.World, u, t, false)
	}
}

// ActionBuildRole places a site for a building filling role near the
// base and sends the closest idle worker to help raise it.
func ActionBuildRole(role string) ActionFunc {
	return func(env RuleEnv) error {
		t := env.roleType(role, func(t *model.UnitType) bool { return t.Building })
		if t == nil {
			return nil
		}
		bx, by, ok := env.base()
		if !ok {
			return nil
		}
		x, y, ok := findSite(env.World, t, bx, by)
		if !ok {
			slog.Debug("no room to build", "player", env.Player.Name, "type", t.Ident)
			return nil
		}
		site, err := command.Construct(env.World, env.Player, t, x, y)
		if err != nil {
			return err
		}
		slog.Debug("construction started", "player", env.Player.Name, "type", t.Ident, "x", x, "y", y)
		if w := nearest(env.IdleWorkers(), site); w != nil {
			return command.Repair(env.World, w, site, true)
		}
		return nil
	}
}

// ActionHelpBuild sends idle workers to sites nobody is helping with.
func ActionHelpBuild(env RuleEnv) error {
	return assignWorkers(env, env.Sites())
}

// ActionRepair sends idle workers to buildings below pct percent health.
func ActionRepair(pct int) ActionFunc {
	return func(env RuleEnv) error {
		return assignWorkers(env, env.DamagedBuildings(pct))
	}
}

// assignWorkers pairs each target with the closest remaining idle worker.
func assignWorkers(env RuleEnv, targets []*model.Unit) error {
	pool := env.IdleWorkers()
	var errs []error
	for _, t := range targets {
		w := nearest(pool, t)
		if w == nil {
			break
		}
		pool = slices.DeleteFunc(pool, func(u *model.Unit) bool { return u == w })
		errs = append(errs, command.Repair(env.World, w, t, true))
	}
	return errors.Join(errs...)
}

// ActionDefend sends every idle fighter at the intruder closest to it.
func ActionDefend(radius int) ActionFunc {
	return func(env RuleEnv) error {
		intruders := env.EnemiesNearBase(radius)
		var errs []error
		for _, u := range env.IdleArmy() {
			t := nearest(intruders, u)
			if t == nil {
				break
			}
			errs = append(errs, command.Attack(env.World, u, t.X, t.Y, t, true))
		}
		return errors.Join(errs...)
	}
}

// ActionAttackWave forms the idle army into a squad and attack-moves it
// toward the nearest enemy.
func ActionAttackWave(size int) ActionFunc {
	return func(env RuleEnv) error {
		units := env.IdleArmy()
		target := env.NearestEnemy()
		if len(units) < size || target == nil {
			return nil
		}
		sq := formSquad(env.Memory, "attack", "attack", units)
		slog.Info("attack wave launched", "player", env.Player.Name, "squad", sq.Name, "size", len(units), "target", target)
		return attackMove(env.World, sq.Members, target)
	}
}

// ActionPressAttack sends stopped attack squads at the next target.
func ActionPressAttack(env RuleEnv) error {
	target := env.NearestEnemy()
	if target == nil {
		return nil
	}
	var errs []error
	for _, sq := range env.IdleSquads() {
		errs = append(errs, attackMove(env.World, sq.Members, target))
	}
	return errors.Join(errs...)
}

func attackMove(w *world.World, units []*model.Unit, target *model.Unit) error {
	x, y := target.Center()
	var errs []error
	for _, u := range units {
		errs = append(errs, command.Attack(w, u, x, y, nil, true))
	}
	return errors.Join(errs...)
}

// ActionCast has every ready caster cast a unit-targeted spell on the
// closest own unit the spell would help.
func ActionCast(ident string) ActionFunc {
	return func(env RuleEnv) error {
		s, err := env.Catalog.Spell(ident)
		if err != nil {
			return err
		}
		var candidates []*model.Unit
		for _, u := range env.own() {
			if !u.Type.Building {
				candidates = append(candidates, u)
			}
		}
		claimed := make(map[*model.Unit]bool)
		var errs []error
		for _, c := range env.ReadyCasters(ident) {
			slices.SortFunc(candidates, func(a, b *model.Unit) int {
				return model.DistanceBetweenUnits(c, a) - model.DistanceBetweenUnits(c, b)
			})
			for _, t := range candidates {
				if claimed[t] || !spell.CanCast(env.World, c, s, t, t.X, t.Y) {
					continue
				}
				claimed[t] = true
				errs = append(errs, command.SpellCast(env.World, c, t.X, t.Y, t, s, true))
				break
			}
		}
		return errors.Join(errs...)
	}
}

// nearest returns the unit of units closest to target, or nil.
func nearest(units []*model.Unit, target *model.Unit) *model.Unit {
	var best *model.Unit
	bestD := 0
	for _, u := range units {
		if d := model.DistanceBetweenUnits(u, target); best == nil || d < bestD {
			best, bestD = u, d
		}
	}
	return best
}

// findSite walks rings around (bx, by) for a spot where t fits with a
// one-tile gap to other buildings.
func findSite(w *world.World, t *model.UnitType, bx, by int) (int, int, bool) {
	tw, th := t.Footprint()
	for r := 2; r <= maxSiteRadius; r++ {
		for dy := -r; dy <= r; dy++ {
			for dx := -r; dx <= r; dx++ {
				if max(abs(dx), abs(dy)) != r {
					continue
				}
				x, y := bx+dx, by+dy
				if !w.Map.Inside(x, y) || !w.Map.Inside(x+tw-1, y+th-1) {
					continue
				}
				if w.CanPlace(t, x, y, nil) && clearOfBuildings(w, x, y, tw, th) {
					return x, y, true
				}
			}
		}
	}
	return 0, 0, false
}

func clearOfBuildings(w *world.World, x, y, tw, th int) bool {
	for _, o := range w.Index.SelectRange(x-1, y-1, x+tw+1, y+th+1) {
		if o.Type.Building {
			return false
		}
	}
	return true
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
