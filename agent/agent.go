// Package agent holds the per-player AI context: the rule engine, its
// memory, and the callbacks the engine makes into the AI.
package agent

import (
	"fmt"
	"log/slog"

	"github.com/Mistranger/stratagus-sub001/catalog"
	"github.com/Mistranger/stratagus-sub001/model"
	"github.com/Mistranger/stratagus-sub001/rules"
	"github.com/Mistranger/stratagus-sub001/world"
)

const (
	// maxStuck is how many unreachable reports release a unit from its squad.
	maxStuck = 3
	// shiftStep is how far a setback moves the doctrine toward defense.
	shiftStep = 0.2
	// shiftCooldown is the minimum gap between doctrine shifts, in cycles.
	shiftCooldown = 900
	// maxEvents bounds the retained event history.
	maxEvents = 16
)

// Agent owns the decision-making for a single AI player. It is driven from
// the game goroutine only.
type Agent struct {
	Player   *model.Player
	Engine   *rules.Engine
	Catalog  *catalog.Catalog
	Interval int

	doctrine  rules.Doctrine
	stuck     map[*model.Unit]int
	trained   int
	prev      *snapshot
	events    []Event
	lastShift int
}

// New compiles d for p and installs the agent as p's AI hooks. interval
// is the number of cycles between rule evaluations.
func New(p *model.Player, cat *catalog.Catalog, d rules.Doctrine, interval int) (*Agent, error) {
	d.Validate()
	engine, err := rules.NewEngine(rules.CompileDoctrine(d))
	if err != nil {
		return nil, fmt.Errorf("agent for %s: %w", p.Name, err)
	}
	a := &Agent{
		Player:    p,
		Engine:    engine,
		Catalog:   cat,
		Interval:  max(interval, 1),
		doctrine:  d,
		stuck:     make(map[*model.Unit]int),
		lastShift: -shiftCooldown,
	}
	p.AI = a
	slog.Info("agent ready", "player", p.Name, "doctrine", d.Name, "interval", a.Interval)
	return a, nil
}

// CanNotMove is called when a unit of the player gives up on a path. A
// unit that keeps failing leaves its squad so the next wave does not wait
// for it.
func (a *Agent) CanNotMove(u *model.Unit) {
	a.stuck[u]++
	if a.stuck[u] < maxStuck {
		return
	}
	delete(a.stuck, u)
	if rules.DropMember(a.Engine.Memory, u) {
		slog.Debug("stuck unit left its squad", "player", a.Player.Name, "unit", u)
	}
}

// TrainingComplete is called when one of the player's producers finishes
// a unit.
func (a *Agent) TrainingComplete(producer, trained *model.Unit) {
	a.trained++
	delete(a.stuck, trained)
	slog.Debug("unit trained", "player", a.Player.Name, "producer", producer, "unit", trained, "total", a.trained)
}

// Trained returns the number of units the player's producers finished.
func (a *Agent) Trained() int { return a.trained }

// Doctrine returns the active doctrine.
func (a *Agent) Doctrine() rules.Doctrine { return a.doctrine }

// Events returns the most recent detected events, oldest first.
func (a *Agent) Events() []Event { return a.events }

// SetDoctrine recompiles the rule set for d. On error the old rules stay.
func (a *Agent) SetDoctrine(d rules.Doctrine) error {
	d.Validate()
	if err := a.Engine.Swap(rules.CompileDoctrine(d)); err != nil {
		return fmt.Errorf("set doctrine %q: %w", d.Name, err)
	}
	a.doctrine = d
	slog.Info("doctrine changed", "player", a.Player.Name, "doctrine", d.Name,
		"aggression", d.Aggression, "defense", d.DefensePriority)
	return nil
}

// Tick evaluates the rules every Interval cycles and returns the names of
// the rules that fired.
func (a *Agent) Tick(w *world.World) []string {
	if w.Cycle%a.Interval != 0 {
		return nil
	}
	snap := takeSnapshot(w, a.Player)
	a.react(w.Cycle, detectEvents(a.prev, snap, w.Cycle))
	a.prev = snap
	return a.Engine.Evaluate(w, a.Player, a.Catalog)
}

// react records events and turns setbacks into a more defensive posture.
func (a *Agent) react(cycle int, events []Event) {
	if len(events) == 0 {
		return
	}
	a.events = append(a.events, events...)
	if n := len(a.events); n > maxEvents {
		a.events = append(a.events[:0], a.events[n-maxEvents:]...)
	}
	setback := false
	for _, e := range events {
		slog.Info("game event", "player", a.Player.Name, "kind", e.Kind, "detail", e.Detail)
		if e.Kind == EventCriticalBuildingLost || e.Kind == EventArmyDevastated {
			setback = true
		}
	}
	if !setback || cycle-a.lastShift < shiftCooldown {
		return
	}
	a.lastShift = cycle
	if err := a.SetDoctrine(a.doctrine.Shift(shiftStep)); err != nil {
		slog.Error("doctrine shift failed", "player", a.Player.Name, "error", err)
	}
}
