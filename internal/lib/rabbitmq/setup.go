package rabbitmq

import (
	"fmt"

	"github.com/streadway/amqp"
)

const (
	// ExchangeNotifications is the direct exchange every notification goes through.
	ExchangeNotifications = "notifications"
	// RoutingKeyRenewal routes renewal reminders.
	RoutingKeyRenewal = "renewal"
	// QueueRenewal holds renewal reminders for the sender.
	QueueRenewal = "notification.renewal"
)

// QueueConfig binds a durable queue to the notification exchange.
type QueueConfig struct {
	QueueName  string
	RoutingKey string
}

// NotificationQueues lists the queues the sender consumes.
func NotificationQueues() []QueueConfig {
	return []QueueConfig{
		{QueueName: QueueRenewal, RoutingKey: RoutingKeyRenewal},
	}
}

// SetupChannel opens a channel, declares the exchange and binds queues to it.
func SetupChannel(conn *amqp.Connection, queues []QueueConfig) (*amqp.Channel, error) {
	const op = "rabbitmq.SetupChannel"

	ch, err := conn.Channel()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if err := ch.Qos(prefetch, 0, false); err != nil {
		ch.Close()
		return nil, fmt.Errorf("%s: set qos: %w", op, err)
	}

	if err := ch.ExchangeDeclare(ExchangeNotifications, "direct", true, false, false, false, nil); err != nil {
		ch.Close()
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	for _, q := range queues {
		if _, err := ch.QueueDeclare(q.QueueName, true, false, false, false, nil); err != nil {
			ch.Close()
			return nil, fmt.Errorf("%s: declare queue %s: %w", op, q.QueueName, err)
		}
		if err := ch.QueueBind(q.QueueName, q.RoutingKey, ExchangeNotifications, false, nil); err != nil {
			ch.Close()
			return nil, fmt.Errorf("%s: bind queue %s to %s: %w", op, q.QueueName, q.RoutingKey, err)
		}
	}
	return ch, nil
}
