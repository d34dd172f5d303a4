package entitlement

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/magabrotheeeer/nutriplan/internal/config"
	"github.com/magabrotheeeer/nutriplan/internal/models"
)

// DefaultPlans is the catalog used when the configuration does not list any plans.
func DefaultPlans() []models.Plan {
	return []models.Plan{
		{ID: models.TierFree, Name: "Free", Price: decimal.Zero, Currency: "EUR", Period: "forever"},
		{ID: models.TierPro, Name: "Pro", Price: decimal.RequireFromString("9.99"), Currency: "EUR", Period: "month"},
		{ID: models.TierPremium, Name: "Premium", Price: decimal.RequireFromString("19.99"), Currency: "EUR", Period: "month"},
	}
}

// PlansFromConfig converts catalog entries from the configuration.
// An empty list yields DefaultPlans.
func PlansFromConfig(entries []config.Plan) ([]models.Plan, error) {
	const op = "entitlement.PlansFromConfig"
	if len(entries) == 0 {
		return DefaultPlans(), nil
	}

	plans := make([]models.Plan, 0, len(entries))
	seen := make(map[models.Tier]struct{}, len(entries))
	for _, e := range entries {
		tier, ok := models.ParseTier(e.ID)
		if !ok {
			return nil, fmt.Errorf("%s: unknown tier %q", op, e.ID)
		}
		if _, dup := seen[tier]; dup {
			return nil, fmt.Errorf("%s: duplicate plan %q", op, e.ID)
		}
		seen[tier] = struct{}{}

		price, err := decimal.NewFromString(e.Price)
		if err != nil {
			return nil, fmt.Errorf("%s: plan %q: %w", op, e.ID, err)
		}
		if price.IsNegative() {
			return nil, fmt.Errorf("%s: plan %q: negative price", op, e.ID)
		}
		plans = append(plans, models.Plan{
			ID:       tier,
			Name:     e.Name,
			Price:    price,
			Currency: e.Currency,
			Period:   e.Period,
		})
	}
	return plans, nil
}
