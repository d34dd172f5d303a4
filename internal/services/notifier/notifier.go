// Package notifier publishes renewal reminders to the notification exchange.
package notifier

import (
	"context"
	"fmt"

	"github.com/magabrotheeeer/nutriplan/internal/lib/rabbitmq"
	"github.com/magabrotheeeer/nutriplan/internal/models"
)

// Notifier publishes to RabbitMQ.
type Notifier struct {
	ch rabbitmq.Publisher
}

// New creates a Notifier publishing on ch.
func New(ch rabbitmq.Publisher) *Notifier {
	return &Notifier{ch: ch}
}

// PublishRenewalReminder routes reminder to the renewal queue.
func (n *Notifier) PublishRenewalReminder(ctx context.Context, reminder models.RenewalReminder) error {
	const op = "notifier.PublishRenewalReminder"
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}
	if err := rabbitmq.PublishMessage(n.ch, rabbitmq.ExchangeNotifications, rabbitmq.RoutingKeyRenewal, reminder); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}
