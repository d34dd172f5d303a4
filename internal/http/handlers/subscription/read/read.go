// Package read returns the caller's current subscription snapshot.
package read

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/nutriplan/internal/http/middlewarectx"
	"github.com/magabrotheeeer/nutriplan/internal/http/response"
	"github.com/magabrotheeeer/nutriplan/internal/models"
)

type Handler struct {
	log *slog.Logger
}

// Response is the body of a successful read.
type Response struct {
	Subscription  models.Subscription `json:"subscription"`
	IsAdmin       bool                `json:"is_admin"`
	Authenticated bool                `json:"authenticated"`
}

func New(log *slog.Logger) *Handler {
	return &Handler{log: log}
}

// ServeHTTP godoc
// @Summary Current subscription
// @Description Returns the snapshot loaded for this request. Anonymous callers get the free snapshot.
// @Tags Subscription
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response{data=Response}
// @Failure 500 {object} response.ErrorResponse
// @Router /api/v1/subscription [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.subscription.read"
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

	render.JSON(w, r, response.OKWithData(Response{
		Subscription:  sess.Subscription,
		IsAdmin:       sess.IsAdmin(),
		Authenticated: sess.Authenticated(),
	}))
}
