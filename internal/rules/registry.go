package rules

import (
	"fmt"

	"github.com/pankaj-dahiya-devops/tierguard/internal/models"
)

// DefaultRuleRegistry keeps rules in the order they were registered, which is
// also the order their findings appear in the report.
type DefaultRuleRegistry struct {
	rules []Rule
	ids   map[string]int
}

// NewDefaultRuleRegistry returns an empty registry.
func NewDefaultRuleRegistry() *DefaultRuleRegistry {
	return &DefaultRuleRegistry{ids: make(map[string]int)}
}

// Register appends rule. A second rule with the same ID is a wiring mistake
// and panics, naming the position of the first one.
func (r *DefaultRuleRegistry) Register(rule Rule) {
	if pos, dup := r.ids[rule.ID()]; dup {
		panic(fmt.Sprintf("rule %q already registered at position %d", rule.ID(), pos))
	}
	r.ids[rule.ID()] = len(r.rules)
	r.rules = append(r.rules, rule)
}

// All returns a copy of the registered rules in registration order.
func (r *DefaultRuleRegistry) All() []Rule {
	out := make([]Rule, len(r.rules))
	copy(out, r.rules)
	return out
}

// EvaluateAll implements RuleRegistry. Each rule sees the same ctx; a rule
// that produces nothing is still reported to onEvaluated.
func (r *DefaultRuleRegistry) EvaluateAll(ctx RuleContext, onEvaluated EvaluatedFunc) []models.Finding {
	var findings []models.Finding
	for _, rule := range r.rules {
		produced := rule.Evaluate(ctx)
		if onEvaluated != nil {
			onEvaluated(rule, produced)
		}
		findings = append(findings, produced...)
	}
	return findings
}
