// Package energyplan serves the daily calorie target. The route is gated on tdee_calculation.
package energyplan

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/magabrotheeeer/nutriplan/internal/http/handlers/nutrition/metabolism"
	"github.com/magabrotheeeer/nutriplan/internal/http/response"
	"github.com/magabrotheeeer/nutriplan/internal/lib/nutrition"
	"github.com/magabrotheeeer/nutriplan/internal/lib/sl"
	"github.com/magabrotheeeer/nutriplan/internal/models"
)

type Handler struct {
	log      *slog.Logger
	validate *validator.Validate
}

type Request struct {
	models.BodyProfile
	Goal string `json:"goal" validate:"required,oneof=lose maintain gain" example:"lose"`
}

type Response struct {
	Goal         string  `json:"goal"`
	TDEE         float64 `json:"tdee"`
	TargetKcal   float64 `json:"target_kcal"`
	ProteinGrams float64 `json:"protein_g"`
}

// proteinPerKg is the daily protein guideline used for the plan.
const proteinPerKg = 1.6

func New(log *slog.Logger) *Handler {
	return &Handler{log: log, validate: validator.New()}
}

// ServeHTTP godoc
// @Summary Daily energy plan
// @Tags Nutrition
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body Request true "Body profile and goal"
// @Success 200 {object} response.Response{data=Response}
// @Failure 400 {object} response.ErrorResponse
// @Failure 403 {object} response.ErrorResponse
// @Failure 422 {object} response.ErrorResponse
// @Router /api/v1/nutrition/energy-plan [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.nutrition.energyplan"
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

	profile := metabolism.ToProfile(req.BodyProfile)
	tdee, err := nutrition.TDEE(profile)
	if err != nil {
		render.Status(r, http.StatusUnprocessableEntity)
		render.JSON(w, r, response.Error(err.Error()))
		return
	}
	target, _ := nutrition.EnergyTarget(profile, nutrition.Goal(req.Goal))

	render.JSON(w, r, response.OKWithData(Response{
		Goal:         req.Goal,
		TDEE:         tdee,
		TargetKcal:   target,
		ProteinGrams: float64(int(req.WeightKg*proteinPerKg*10+0.5)) / 10,
	}))
}
