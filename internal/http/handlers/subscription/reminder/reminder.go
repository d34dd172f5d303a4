// Package reminder runs the renewal reminder check for the caller.
package reminder

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/nutriplan/internal/entitlement"
	"github.com/magabrotheeeer/nutriplan/internal/http/middlewarectx"
	"github.com/magabrotheeeer/nutriplan/internal/http/response"
	"github.com/magabrotheeeer/nutriplan/internal/lib/sl"
)

type Handler struct {
	log     *slog.Logger
	service Service
	now     func() time.Time
}

type Service interface {
	CheckRenewalReminder(ctx context.Context, sess *entitlement.Session, now time.Time) (bool, error)
}

func New(log *slog.Logger, service Service) *Handler {
	return &Handler{log: log, service: service, now: time.Now}
}

// WithClock replaces the time source.
func (h *Handler) WithClock(now func() time.Time) *Handler {
	h.now = now
	return h
}

// ServeHTTP godoc
// @Summary Check renewal reminder
// @Description Enqueues at most one reminder per paid period once the end date is near.
// @Tags Subscription
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response
// @Failure 500 {object} response.ErrorResponse
// @Router /api/v1/subscription/reminder [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.subscription.reminder"
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

	sent, err := h.service.CheckRenewalReminder(r.Context(), sess, h.now())
	if err != nil {
		log.Error("renewal reminder check failed", sl.Err(err))
		render.Status(r, http.StatusInternalServerError)
		render.JSON(w, r, response.Error("reminder check failed"))
		return
	}

	render.JSON(w, r, response.OKWithData(map[string]any{"due": sent}))
}
