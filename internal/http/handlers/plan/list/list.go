// Package list serves the plan catalog.
package list

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/nutriplan/internal/http/response"
	"github.com/magabrotheeeer/nutriplan/internal/models"
)

type Handler struct {
	log     *slog.Logger
	service Service
}

type Service interface {
	Plans() []models.Plan
}

func New(log *slog.Logger, service Service) *Handler {
	return &Handler{log: log, service: service}
}

// ServeHTTP godoc
// @Summary List plans
// @Description Returns every plan with its price and the capabilities it unlocks.
// @Tags Plans
// @Produce json
// @Success 200 {object} response.Response
// @Router /api/v1/plans [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.plan.list"
	plans := h.service.Plans()
	h.log.Debug("plans listed",
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
		slog.Int("count", len(plans)))
	render.JSON(w, r, response.OKWithData(map[string]any{"plans": plans}))
}
