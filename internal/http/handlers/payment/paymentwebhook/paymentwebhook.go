// Package paymentwebhook receives billing provider events.
package paymentwebhook

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/nutriplan/internal/http/response"
	"github.com/magabrotheeeer/nutriplan/internal/lib/sl"
	"github.com/magabrotheeeer/nutriplan/internal/paymentprovider"
)

const (
	maxBodyBytes    = int64(65536)
	signatureHeader = "Stripe-Signature"
)

type Handler struct {
	log     *slog.Logger
	parser  Parser
	service Service
}

// Parser authenticates and decodes a raw webhook payload.
type Parser interface {
	ParseEvent(payload []byte, signature string) (paymentprovider.Event, error)
}

type Service interface {
	HandleEvent(ctx context.Context, event paymentprovider.Event) error
}

func New(log *slog.Logger, parser Parser, service Service) *Handler {
	return &Handler{log: log, parser: parser, service: service}
}

// ServeHTTP godoc
// @Summary Billing webhook
// @Description Applies paid one-time checkouts. Replays are acknowledged without effect.
// @Tags Payment
// @Accept json
// @Produce json
// @Param Stripe-Signature header string true "Webhook signature"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.ErrorResponse
// @Failure 500 {object} response.ErrorResponse
// @Router /api/v1/payments/webhook [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.payment.paymentwebhook"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	payload, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		log.Error("failed to read webhook body", sl.Err(err))
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid request body"))
		return
	}

	event, err := h.parser.ParseEvent(payload, r.Header.Get(signatureHeader))
	switch {
	case errors.Is(err, paymentprovider.ErrInvalidSignature):
		log.Warn("webhook signature rejected")
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid signature"))
		return
	case errors.Is(err, paymentprovider.ErrNotConfigured):
		log.Error("webhook secret is not configured")
		render.Status(r, http.StatusServiceUnavailable)
		render.JSON(w, r, response.Error("billing not configured"))
		return
	case err != nil:
		log.Error("failed to parse webhook event", sl.Err(err))
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid event"))
		return
	}

	if err := h.service.HandleEvent(r.Context(), event); err != nil {
		log.Error("failed to handle webhook event", slog.String("event_id", event.ID), sl.Err(err))
		render.Status(r, http.StatusInternalServerError)
		render.JSON(w, r, response.Error("failed to handle event"))
		return
	}

	render.JSON(w, r, response.OK())
}
