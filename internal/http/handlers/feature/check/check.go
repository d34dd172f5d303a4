// Package check answers whether the caller may use a single capability.
package check

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/nutriplan/internal/entitlement"
	"github.com/magabrotheeeer/nutriplan/internal/http/middlewarectx"
	"github.com/magabrotheeeer/nutriplan/internal/http/response"
)

type Handler struct {
	log     *slog.Logger
	service Service
}

type Service interface {
	HasFeature(sess *entitlement.Session, capability string) bool
}

func New(log *slog.Logger, service Service) *Handler {
	return &Handler{log: log, service: service}
}

// ServeHTTP godoc
// @Summary Check a capability
// @Description Unknown capabilities are reported as allowed.
// @Tags Features
// @Produce json
// @Security BearerAuth
// @Param capability path string true "Capability name"
// @Success 200 {object} response.Response
// @Router /api/v1/features/{capability} [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.feature.check"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	capability := chi.URLParam(r, "capability")
	if capability == "" {
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, response.Error("capability is required"))
		return
	}

	sess, ok := middlewarectx.SessionFromContext(r.Context())
	if !ok {
		log.Error("session missing from context")
		render.Status(r, http.StatusInternalServerError)
		render.JSON(w, r, response.Error("internal error"))
		return
	}

	render.JSON(w, r, response.OKWithData(map[string]any{
		"capability": capability,
		"allowed":    h.service.HasFeature(sess, capability),
	}))
}
