package rules

import "github.com/expr-lang/expr/vm"

// ActionFunc issues orders for the AI player when a rule's condition is true.
type ActionFunc func(env RuleEnv) error

// Rule is the atomic unit of AI behavior: a condition → action pair.
// The engine evaluates rules by priority and uses Category + Exclusive
// to keep two rules from spending the same resources in one pass.
type Rule struct {
	Name         string      // human-readable identifier
	Priority     int         // higher = evaluated first
	Category     string      // grouping for exclusive semantics
	Exclusive    bool        // if true, blocks lower-priority rules in same category
	ConditionSrc string      // expr source (preserved for logging)
	program      *vm.Program // compiled bytecode
	Action       ActionFunc
}
