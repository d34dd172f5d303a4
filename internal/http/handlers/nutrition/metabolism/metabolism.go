// Package metabolism serves the body metrics calculator.
// BMI is free; BMR and TDEE are reported only when the caller's plan unlocks them.
package metabolism

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/magabrotheeeer/nutriplan/internal/entitlement"
	"github.com/magabrotheeeer/nutriplan/internal/http/middlewarectx"
	"github.com/magabrotheeeer/nutriplan/internal/http/response"
	"github.com/magabrotheeeer/nutriplan/internal/lib/nutrition"
	"github.com/magabrotheeeer/nutriplan/internal/lib/sl"
	"github.com/magabrotheeeer/nutriplan/internal/models"
)

type Handler struct {
	log      *slog.Logger
	service  Service
	validate *validator.Validate
}

type Service interface {
	HasFeature(sess *entitlement.Session, capability string) bool
}

// Response carries the computed metrics. Locked lists capabilities the plan does not include.
type Response struct {
	BMI         float64  `json:"bmi"`
	BMICategory string   `json:"bmi_category"`
	BMR         *float64 `json:"bmr,omitempty"`
	TDEE        *float64 `json:"tdee,omitempty"`
	Locked      []string `json:"locked,omitempty"`
}

func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:      log,
		service:  service,
		validate: validator.New(),
	}
}

// ServeHTTP godoc
// @Summary Body metrics
// @Tags Nutrition
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body models.BodyProfile true "Body profile"
// @Success 200 {object} response.Response{data=Response}
// @Failure 400 {object} response.ErrorResponse
// @Failure 422 {object} response.ErrorResponse
// @Router /api/v1/nutrition/metabolism [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.nutrition.metabolism"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	var req models.BodyProfile
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

	profile := ToProfile(req)
	bmi, err := nutrition.BMI(profile)
	if err != nil {
		render.Status(r, http.StatusUnprocessableEntity)
		render.JSON(w, r, response.Error(err.Error()))
		return
	}
	res := Response{BMI: bmi, BMICategory: nutrition.BMICategory(bmi)}

	if h.service.HasFeature(sess, entitlement.CapabilityBMRCalculation) {
		bmr, _ := nutrition.BMR(profile)
		res.BMR = &bmr
	} else {
		res.Locked = append(res.Locked, entitlement.CapabilityBMRCalculation)
	}
	if h.service.HasFeature(sess, entitlement.CapabilityTDEECalculation) {
		tdee, _ := nutrition.TDEE(profile)
		res.TDEE = &tdee
	} else {
		res.Locked = append(res.Locked, entitlement.CapabilityTDEECalculation)
	}

	render.JSON(w, r, response.OKWithData(res))
}

// ToProfile converts a validated request body into calculator input.
func ToProfile(p models.BodyProfile) nutrition.Profile {
	return nutrition.Profile{
		WeightKg: p.WeightKg,
		HeightCm: p.HeightCm,
		Age:      p.Age,
		Sex:      nutrition.Sex(p.Sex),
		Activity: nutrition.ActivityLevel(p.Activity),
	}
}
