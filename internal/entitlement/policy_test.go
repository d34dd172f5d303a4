package entitlement_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/nutriplan/internal/config"
	"github.com/magabrotheeeer/nutriplan/internal/entitlement"
	"github.com/magabrotheeeer/nutriplan/internal/models"
)

func TestNewPolicy(t *testing.T) {
	tests := []struct {
		name    string
		table   map[string][]string
		wantErr bool
	}{
		{name: "valid table", table: map[string][]string{"export_data": {"pro", "premium"}}},
		{name: "empty allow set", table: map[string][]string{"export_data": {}}},
		{name: "unknown tier", table: map[string][]string{"export_data": {"gold"}}, wantErr: true},
		{name: "empty capability", table: map[string][]string{"": {"pro"}}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := entitlement.NewPolicy(tt.table)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
		})
	}
}

func TestPolicy_Allows(t *testing.T) {
	p, err := entitlement.NewPolicy(map[string][]string{
		"export_data": {"pro", "premium"},
		"locked":      {},
	})
	require.NoError(t, err)

	assert.False(t, p.Allows(models.TierFree, "export_data"))
	assert.True(t, p.Allows(models.TierPro, "export_data"))
	assert.False(t, p.Allows(models.TierPremium, "locked"))
	assert.True(t, p.Allows(models.TierFree, "not_configured"))
	assert.True(t, p.Gated("locked"))
	assert.False(t, p.Gated("not_configured"))
}

func TestPolicy_GrantedTo(t *testing.T) {
	p := entitlement.DefaultPolicy()

	assert.Empty(t, p.GrantedTo(models.TierFree))
	assert.Equal(t, []string{"bmr_calculation", "export_data", "meal_planner", "tdee_calculation"},
		p.GrantedTo(models.TierPro))
	assert.Equal(t, p.Capabilities(), p.GrantedTo(models.TierPremium))
}

func TestPlansFromConfig(t *testing.T) {
	t.Run("empty falls back to defaults", func(t *testing.T) {
		plans, err := entitlement.PlansFromConfig(nil)
		require.NoError(t, err)
		assert.Equal(t, entitlement.DefaultPlans(), plans)
	})

	t.Run("parses decimal prices", func(t *testing.T) {
		plans, err := entitlement.PlansFromConfig([]config.Plan{
			{ID: "pro", Name: "Pro", Price: "12.50", Currency: "USD", Period: "month"},
		})
		require.NoError(t, err)
		require.Len(t, plans, 1)
		assert.Equal(t, models.TierPro, plans[0].ID)
		assert.Equal(t, "12.50", plans[0].Price.StringFixed(2))
	})

	errCases := map[string][]config.Plan{
		"unknown tier":    {{ID: "gold", Price: "1"}},
		"bad price":       {{ID: "pro", Price: "abc"}},
		"negative price":  {{ID: "pro", Price: "-1"}},
		"duplicate plans": {{ID: "pro", Price: "1"}, {ID: "pro", Price: "2"}},
	}
	for name, entries := range errCases {
		t.Run(name, func(t *testing.T) {
			_, err := entitlement.PlansFromConfig(entries)
			require.Error(t, err)
		})
	}
}
