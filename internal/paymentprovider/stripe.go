// Package paymentprovider adapts Stripe Checkout to the subscription lifecycle.
// Each checkout is a one-time payment for a single fixed-length period; Stripe never
// bills the user again on its own.
package paymentprovider

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/stripe/stripe-go/v79"
	"github.com/stripe/stripe-go/v79/checkout/session"
	"github.com/stripe/stripe-go/v79/webhook"

	"github.com/magabrotheeeer/nutriplan/internal/config"
	"github.com/magabrotheeeer/nutriplan/internal/models"
)

const (
	metadataUserID = "user_id"
	metadataPlan   = "plan"
)

var (
	// ErrNotConfigured is returned when no price exists for a tier or secrets are missing.
	ErrNotConfigured = errors.New("billing not configured")
	// ErrInvalidSignature is returned for webhook payloads that fail verification.
	ErrInvalidSignature = errors.New("invalid webhook signature")
	// ErrInvalidEvent is returned for verified events missing the data needed to act on them.
	ErrInvalidEvent = errors.New("invalid webhook event")
)

// EventKind is the lifecycle meaning of a Stripe event.
type EventKind string

const (
	EventCheckoutCompleted EventKind = "checkout_completed"
	EventIgnored           EventKind = "ignored"
)

// Event is a verified Stripe event reduced to what the lifecycle needs.
type Event struct {
	ID     string
	Kind   EventKind
	UserID string
	Tier   models.Tier
}

// SessionCreator creates Stripe checkout sessions.
type SessionCreator interface {
	New(params *stripe.CheckoutSessionParams) (*stripe.CheckoutSession, error)
}

// Stripe starts checkout sessions and verifies webhooks.
type Stripe struct {
	sessions      SessionCreator
	webhookSecret string
	frontendURL   string
	priceIDs      map[string]string
}

// New creates a Stripe adapter bound to cfg's secret key.
func New(cfg config.Stripe) *Stripe {
	sc := &session.Client{B: stripe.GetBackend(stripe.APIBackend), Key: cfg.StripeSecretKey}
	return NewWithSessions(cfg, sc)
}

// NewWithSessions creates a Stripe adapter with a custom session creator.
func NewWithSessions(cfg config.Stripe, sessions SessionCreator) *Stripe {
	return &Stripe{
		sessions:      sessions,
		webhookSecret: cfg.StripeWebhookSecret,
		frontendURL:   strings.TrimRight(cfg.FrontendURL, "/"),
		priceIDs:      cfg.PriceIDs,
	}
}

// InitiateCheckout creates a payment-mode checkout session and returns its URL.
// The configured price must be a one-time price.
func (s *Stripe) InitiateCheckout(_ context.Context, tier models.Tier, identity models.Identity) (string, error) {
	const op = "paymentprovider.InitiateCheckout"
	priceID := s.priceIDs[string(tier)]
	if priceID == "" || s.frontendURL == "" {
		return "", fmt.Errorf("%s: %w: tier %s", op, ErrNotConfigured, tier)
	}

	metadata := map[string]string{
		metadataUserID: identity.UserID,
		metadataPlan:   string(tier),
	}
	params := &stripe.CheckoutSessionParams{
		Mode:              stripe.String(string(stripe.CheckoutSessionModePayment)),
		ClientReferenceID: stripe.String(identity.UserID),
		LineItems: []*stripe.CheckoutSessionLineItemParams{
			{Price: stripe.String(priceID), Quantity: stripe.Int64(1)},
		},
		PaymentIntentData: &stripe.CheckoutSessionPaymentIntentDataParams{Metadata: metadata},
		SuccessURL:        stripe.String(s.frontendURL + "/payment/success?session_id={CHECKOUT_SESSION_ID}"),
		CancelURL:         stripe.String(s.frontendURL + "/payment/cancel"),
	}
	if identity.Email != "" {
		params.CustomerEmail = stripe.String(identity.Email)
	}
	params.Metadata = metadata

	sess, err := s.sessions.New(params)
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	if sess.URL == "" {
		return "", fmt.Errorf("%s: checkout session %s has no url", op, sess.ID)
	}
	return sess.URL, nil
}

// ParseEvent verifies payload against the Stripe-Signature header and decodes it.
func (s *Stripe) ParseEvent(payload []byte, signature string) (Event, error) {
	const op = "paymentprovider.ParseEvent"
	if s.webhookSecret == "" {
		return Event{}, fmt.Errorf("%s: %w", op, ErrNotConfigured)
	}

	event, err := webhook.ConstructEventWithOptions(payload, signature, s.webhookSecret,
		webhook.ConstructEventOptions{IgnoreAPIVersionMismatch: true})
	if err != nil {
		return Event{}, fmt.Errorf("%s: %w: %w", op, ErrInvalidSignature, err)
	}

	out := Event{ID: event.ID, Kind: EventIgnored}
	switch event.Type {
	case "checkout.session.completed", "checkout.session.async_payment_succeeded":
		var cs stripe.CheckoutSession
		if err := json.Unmarshal(event.Data.Raw, &cs); err != nil {
			return Event{}, fmt.Errorf("%s: %w: %w", op, ErrInvalidEvent, err)
		}
		// Delayed payment methods complete the session unpaid and settle later.
		if cs.PaymentStatus == stripe.CheckoutSessionPaymentStatusUnpaid {
			return out, nil
		}
		out.Kind = EventCheckoutCompleted
		out.UserID = cs.ClientReferenceID
		if out.UserID == "" {
			out.UserID = cs.Metadata[metadataUserID]
		}
		out.Tier = models.Tier(cs.Metadata[metadataPlan])
	default:
		return out, nil
	}

	if out.UserID == "" {
		return Event{}, fmt.Errorf("%s: %w: missing user id", op, ErrInvalidEvent)
	}
	return out, nil
}
