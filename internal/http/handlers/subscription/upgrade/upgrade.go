// Package upgrade starts checkout for a paid plan.
package upgrade

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/magabrotheeeer/nutriplan/internal/entitlement"
	"github.com/magabrotheeeer/nutriplan/internal/http/middlewarectx"
	"github.com/magabrotheeeer/nutriplan/internal/http/response"
	"github.com/magabrotheeeer/nutriplan/internal/lib/sl"
	"github.com/magabrotheeeer/nutriplan/internal/paymentprovider"
)

type Handler struct {
	log      *slog.Logger
	service  Service
	validate *validator.Validate
}

type Service interface {
	Upgrade(ctx context.Context, sess *entitlement.Session, tierID string) (entitlement.UpgradeResult, error)
}

// Request selects the plan to buy.
type Request struct {
	Plan string `json:"plan" validate:"required" example:"pro"`
}

func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:      log,
		service:  service,
		validate: validator.New(),
	}
}

// ServeHTTP godoc
// @Summary Upgrade to a paid plan
// @Description Returns the hosted checkout URL. Admins receive a notice instead.
// @Tags Subscription
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body Request true "Plan to buy"
// @Success 200 {object} response.Response{data=entitlement.UpgradeResult}
// @Failure 400 {object} response.ErrorResponse
// @Failure 401 {object} response.ErrorResponse
// @Failure 422 {object} response.ErrorResponse
// @Failure 502 {object} response.ErrorResponse
// @Router /api/v1/subscription/upgrade [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.subscription.upgrade"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	var req Request
	if err := render.DecodeJSON(r.Body, &req); err != nil {
		log.Error("failed to decode request body", sl.Err(err))
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid request body"))
		return
	}
	if err := h.validate.Struct(req); err != nil {
		var validateErr validator.ValidationErrors
		errors.As(err, &validateErr)
		render.Status(r, http.StatusUnprocessableEntity)
		render.JSON(w, r, response.ValidationError(validateErr))
		return
	}

	sess, ok := middlewarectx.SessionFromContext(r.Context())
	if !ok {
		log.Error("session missing from context")
		render.Status(r, http.StatusInternalServerError)
		render.JSON(w, r, response.Error("internal error"))
		return
	}

	res, err := h.service.Upgrade(r.Context(), sess, req.Plan)
	switch {
	case errors.Is(err, entitlement.ErrAuthenticationRequired):
		render.Status(r, http.StatusUnauthorized)
		render.JSON(w, r, response.Error("authentication required"))
		return
	case errors.Is(err, entitlement.ErrInvalidPlan):
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, response.Error("unknown plan"))
		return
	case errors.Is(err, paymentprovider.ErrNotConfigured):
		log.Error("checkout is not configured")
		render.Status(r, http.StatusServiceUnavailable)
		render.JSON(w, r, response.Error("checkout unavailable"))
		return
	case err != nil:
		log.Error("failed to start checkout", sl.Err(err))
		render.Status(r, http.StatusBadGateway)
		render.JSON(w, r, response.Error("failed to start checkout"))
		return
	}

	log.Info("checkout started", slog.String("plan", req.Plan), slog.Bool("admin", sess.IsAdmin()))
	render.JSON(w, r, response.OKWithData(res))
}
