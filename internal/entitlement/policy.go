package entitlement

import (
	"fmt"
	"sort"

	"github.com/magabrotheeeer/nutriplan/internal/models"
)

// Capability names referenced by the application.
const (
	CapabilityMealPlanner       = "meal_planner"
	CapabilityExportData        = "export_data"
	CapabilityBMRCalculation    = "bmr_calculation"
	CapabilityTDEECalculation   = "tdee_calculation"
	CapabilityAICoach           = "ai_coach"
	CapabilityHealthSync        = "health_sync"
	CapabilityAdvancedAnalytics = "advanced_analytics"
)

// Policy maps a capability to the set of tiers that grant it.
// Capabilities missing from the table are ungated.
type Policy struct {
	table map[string]map[models.Tier]struct{}
}

// DefaultPolicy returns the permission table the application ships with.
func DefaultPolicy() Policy {
	p, _ := NewPolicy(map[string][]string{
		CapabilityMealPlanner:       {"pro", "premium"},
		CapabilityExportData:        {"pro", "premium"},
		CapabilityBMRCalculation:    {"pro", "premium"},
		CapabilityTDEECalculation:   {"pro", "premium"},
		CapabilityAICoach:           {"premium"},
		CapabilityHealthSync:        {"premium"},
		CapabilityAdvancedAnalytics: {"premium"},
	})
	return p
}

// NewPolicy builds a policy from configuration. Unknown tier names are rejected.
func NewPolicy(table map[string][]string) (Policy, error) {
	const op = "entitlement.NewPolicy"
	p := Policy{table: make(map[string]map[models.Tier]struct{}, len(table))}
	for capability, tiers := range table {
		if capability == "" {
			return Policy{}, fmt.Errorf("%s: empty capability name", op)
		}
		allowed := make(map[models.Tier]struct{}, len(tiers))
		for _, raw := range tiers {
			tier, ok := models.ParseTier(raw)
			if !ok {
				return Policy{}, fmt.Errorf("%s: capability %q: unknown tier %q", op, capability, raw)
			}
			allowed[tier] = struct{}{}
		}
		p.table[capability] = allowed
	}
	return p, nil
}

// Allows reports whether tier grants capability.
func (p Policy) Allows(tier models.Tier, capability string) bool {
	allowed, gated := p.table[capability]
	if !gated {
		return true
	}
	_, ok := allowed[tier]
	return ok
}

// Gated reports whether capability appears in the table.
func (p Policy) Gated(capability string) bool {
	_, ok := p.table[capability]
	return ok
}

// Capabilities returns the configured capability names in sorted order.
func (p Policy) Capabilities() []string {
	names := make([]string, 0, len(p.table))
	for name := range p.table {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// GrantedTo returns the sorted capabilities tier is allowed to use.
func (p Policy) GrantedTo(tier models.Tier) []string {
	granted := make([]string, 0, len(p.table))
	for _, name := range p.Capabilities() {
		if p.Allows(tier, name) {
			granted = append(granted, name)
		}
	}
	return granted
}
