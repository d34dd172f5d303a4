// Package list reports every capability and whether the caller may use it.
package list

import (
	"log/slog"
	"net/http"

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
	Capabilities(sess *entitlement.Session) map[string]bool
}

func New(log *slog.Logger, service Service) *Handler {
	return &Handler{log: log, service: service}
}

// ServeHTTP godoc
// @Summary List capabilities
// @Tags Features
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response
// @Router /api/v1/features [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.feature.list"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	sess, ok := middlewarectx.SessionFromContext(r.Context())
	if !ok {
		log.Error("session missing from context")
		render.Status(r, http.StatusInternalServerError)
		render.JSON(w, r, response.Error("internal error"))
		return
	}

	render.JSON(w, r, response.OKWithData(map[string]any{
		"tier":         sess.Subscription.Tier,
		"is_admin":     sess.IsAdmin(),
		"capabilities": h.service.Capabilities(sess),
	}))
}
