package list

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/magabrotheeeer/nutriplan/internal/models"
)

type staticPlans []models.Plan

func (p staticPlans) Plans() []models.Plan { return p }

func TestListHandler_ServeHTTP(t *testing.T) {
	plans := staticPlans{
		{ID: models.TierFree, Name: "Free", Price: decimal.Zero, Currency: "EUR", Period: "forever", Capabilities: []string{}},
		{ID: models.TierPro, Name: "Pro", Price: decimal.RequireFromString("9.99"), Currency: "EUR", Period: "month",
			Capabilities: []string{"meal_planner"}},
	}
	handler := New(slog.New(slog.NewTextHandler(io.Discard, nil)), plans)

	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/v1/plans", nil))

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"status":"OK","data":{"plans":[`+
		`{"id":"free","name":"Free","price":"0","currency":"EUR","period":"forever","capabilities":[]},`+
		`{"id":"pro","name":"Pro","price":"9.99","currency":"EUR","period":"month","capabilities":["meal_planner"]}]}}`,
		rr.Body.String())
}
