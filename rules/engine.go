package rules

import (
	"fmt"
	"log/slog"
	"sort"
	"sync"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"

	"github.com/Mistranger/stratagus-sub001/catalog"
	"github.com/Mistranger/stratagus-sub001/model"
	"github.com/Mistranger/stratagus-sub001/world"
)

// diagEvery throttles the idle diagnostics, in game cycles.
const diagEvery = 300

// Engine runs compiled rules against the world for one AI player.
// Rules fire in priority order; exclusive rules block lower-priority rules
// in the same category, preventing two rules from spending the same gold.
type Engine struct {
	mu       sync.RWMutex
	rules    []*Rule
	Memory   map[string]any
	lastDiag int
}

// NewEngine compiles all rule conditions into expr bytecode and sorts by priority.
func NewEngine(rules []*Rule) (*Engine, error) {
	compiled, err := compileRules(rules)
	if err != nil {
		return nil, err
	}
	return &Engine{
		rules:    compiled,
		Memory:   make(map[string]any),
		lastDiag: -diagEvery,
	}, nil
}

// Evaluate runs all rules for p and returns the names of the rules that
// fired. It must be called on the game goroutine.
func (e *Engine) Evaluate(w *world.World, p *model.Player, cat *catalog.Catalog) []string {
	e.mu.RLock()
	rules := e.rules
	e.mu.RUnlock()

	env := RuleEnv{World: w, Player: p, Catalog: cat, Memory: e.Memory}
	updateSquads(env)
	fired := make(map[string]bool) // category → exclusive rule already fired

	var names []string
	for _, r := range rules {
		if fired[r.Category] {
			continue
		}

		result, err := vm.Run(r.program, env)
		if err != nil {
			slog.Warn("rule condition error", "rule", r.Name, "error", err)
			continue
		}

		match, ok := result.(bool)
		if !ok || !match {
			continue
		}

		names = append(names, r.Name)
		slog.Debug("rule fired", "player", p.Name, "rule", r.Name, "priority", r.Priority, "category", r.Category)

		if err := r.Action(env); err != nil {
			slog.Error("rule action error", "player", p.Name, "rule", r.Name, "error", err)
		}

		if r.Exclusive {
			fired[r.Category] = true
		}
	}

	if len(names) == 0 {
		e.logIdleDiagnostics(env)
	}
	return names
}

// Swap atomically replaces the rule set. Compiles first; if compilation
// fails the old rules remain active. Squads are kept so armies in the
// field carry on under the new rules.
func (e *Engine) Swap(newRules []*Rule) error {
	compiled, err := compileRules(newRules)
	if err != nil {
		return err
	}
	names := make([]string, len(compiled))
	for i, r := range compiled {
		names[i] = r.Name
	}
	e.mu.Lock()
	e.rules = compiled
	e.mu.Unlock()
	slog.Info("rule set swapped", "count", len(compiled), "rules", names)
	return nil
}

// Rules returns the names of the active rules in evaluation order.
func (e *Engine) Rules() []string {
	e.mu.RLock()
	defer e.mu.RUnlock()
	names := make([]string, len(e.rules))
	for i, r := range e.rules {
		names[i] = r.Name
	}
	return names
}

// logIdleDiagnostics helps debug "why isn't the AI doing anything?" when
// zero rules fire. Throttled to avoid log spam.
func (e *Engine) logIdleDiagnostics(env RuleEnv) {
	if env.World.Cycle-e.lastDiag < diagEvery {
		return
	}
	e.lastDiag = env.World.Cycle
	slog.Debug("idle diagnostics",
		"player", env.Player.Name,
		"gold", env.Gold(),
		"wood", env.Wood(),
		"food", env.FoodLeft(),
		"army", len(env.Army()),
		"idleArmy", len(env.IdleArmy()),
		"workers", env.RoleCount(RoleWorker),
		"enemies", env.EnemiesVisible(),
	)
}

func compileRules(rules []*Rule) ([]*Rule, error) {
	for _, r := range rules {
		prog, err := expr.Compile(r.ConditionSrc, expr.Env(RuleEnv{}), expr.AsBool())
		if err != nil {
			return nil, fmt.Errorf("compile rule %q: %w", r.Name, err)
		}
		r.program = prog
	}
	sort.SliceStable(rules, func(i, j int) bool {
		return rules[i].Priority > rules[j].Priority
	})
	return rules, nil
}
