// Package payment applies verified payment events to the subscription lifecycle.
package payment

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/magabrotheeeer/nutriplan/internal/entitlement"
	"github.com/magabrotheeeer/nutriplan/internal/lib/sl"
	"github.com/magabrotheeeer/nutriplan/internal/models"
	"github.com/magabrotheeeer/nutriplan/internal/paymentprovider"
)

const (
	idempotencyScope = "stripe-event"
	idempotencyTTL   = 72 * time.Hour
	// Bounds how long a crashed handler blocks redelivery of its event.
	processingTTL = 10 * time.Minute

	stateProcessing = "processing"
	stateDone       = "done"
)

// ErrEventInProgress is returned when another delivery of the same event is still being applied.
var ErrEventInProgress = errors.New("event is being processed")

// Lifecycle is the part of the entitlement engine driven by payments.
type Lifecycle interface {
	Open(ctx context.Context, identity models.Identity) (*entitlement.Session, error)
	Activate(ctx context.Context, sess *entitlement.Session, tierID string) (models.Subscription, error)
}

// IdempotencyStore remembers event ids and their processing state.
type IdempotencyStore interface {
	SetNX(ctx context.Context, key string, value any, expiration time.Duration) (bool, error)
	Get(ctx context.Context, key string, result any) (bool, error)
	Set(ctx context.Context, key string, value any, expiration time.Duration) error
	Invalidate(ctx context.Context, key string) error
}

// Service handles payment events.
type Service struct {
	lifecycle Lifecycle
	store     IdempotencyStore
	log       *slog.Logger
}

// New creates a Service.
func New(lifecycle Lifecycle, store IdempotencyStore, log *slog.Logger) *Service {
	return &Service{lifecycle: lifecycle, store: store, log: log}
}

// HandleEvent applies event exactly once. The event is claimed with a short lease and only
// remembered for the full window after it is applied. A failed event is forgotten so Stripe
// can retry it.
func (s *Service) HandleEvent(ctx context.Context, event paymentprovider.Event) error {
	const op = "payment.HandleEvent"
	log := s.log.With(slog.String("op", op), slog.String("event_id", event.ID), slog.String("kind", string(event.Kind)))

	if event.Kind == paymentprovider.EventIgnored {
		return nil
	}

	key := idempotencyScope + ":" + event.ID
	fresh, err := s.store.SetNX(ctx, key, stateProcessing, processingTTL)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if !fresh {
		var state string
		found, err := s.store.Get(ctx, key, &state)
		if err != nil {
			return fmt.Errorf("%s: %w", op, err)
		}
		if found && state == stateDone {
			log.Info("event already processed")
			return nil
		}
		return fmt.Errorf("%s: %w", op, ErrEventInProgress)
	}

	if err := s.apply(ctx, event); err != nil {
		if delErr := s.store.Invalidate(ctx, key); delErr != nil {
			log.Error("failed to forget event", sl.Err(delErr))
		}
		return fmt.Errorf("%s: %w", op, err)
	}
	if err := s.store.Set(ctx, key, stateDone, idempotencyTTL); err != nil {
		// The processing lease still guards redelivery until it expires.
		log.Error("failed to mark event processed", sl.Err(err))
	}
	log.Info("event applied", slog.String("user_uid", event.UserID), slog.String("tier", string(event.Tier)))
	return nil
}

func (s *Service) apply(ctx context.Context, event paymentprovider.Event) error {
	sess, err := s.lifecycle.Open(ctx, models.Identity{UserID: event.UserID})
	if err != nil {
		return err
	}

	if event.Kind != paymentprovider.EventCheckoutCompleted {
		return nil
	}
	// Every paid checkout starts a fresh period, including renewals of the current tier.
	_, err = s.lifecycle.Activate(ctx, sess, string(event.Tier))
	if errors.Is(err, entitlement.ErrInvalidPlan) {
		// Retrying cannot fix an unknown plan.
		s.log.Error("checkout completed for unknown plan", slog.String("event_id", event.ID), sl.Err(err))
		return nil
	}
	return err
}
