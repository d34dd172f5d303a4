// Package checkoutcancel handles the return from an abandoned checkout.
package checkoutcancel

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/nutriplan/internal/entitlement"
	"github.com/magabrotheeeer/nutriplan/internal/http/middlewarectx"
	"github.com/magabrotheeeer/nutriplan/internal/http/response"
	"github.com/magabrotheeeer/nutriplan/internal/models"
)

type Handler struct {
	log     *slog.Logger
	service Service
}

type Service interface {
	CheckoutCanceled(sess *entitlement.Session) models.Notice
}

func New(log *slog.Logger, service Service) *Handler {
	return &Handler{log: log, service: service}
}

// ServeHTTP godoc
// @Summary Checkout canceled
// @Description The subscription is left unchanged.
// @Tags Payment
// @Produce json
// @Success 200 {object} response.Response{data=models.Notice}
// @Router /api/v1/payments/cancel [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.payment.checkoutcancel"
	sess, ok := middlewarectx.SessionFromContext(r.Context())
	if !ok {
		h.log.Error("session missing from context",
			slog.String("op", op),
			slog.String("request_id", middleware.GetReqID(r.Context())))
		render.Status(r, http.StatusInternalServerError)
		render.JSON(w, r, response.Error("internal error"))
		return
	}
	render.JSON(w, r, response.OKWithData(h.service.CheckoutCanceled(sess)))
}
