package rabbitmq

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/streadway/amqp"

	"github.com/magabrotheeeer/nutriplan/internal/lib/sl"
)

// prefetch bounds both unacked deliveries and concurrently running handlers.
const prefetch = 10

// Acknowledger is the part of amqp.Delivery used to settle a message.
type Acknowledger interface {
	Ack(multiple bool) error
	Nack(multiple, requeue bool) error
}

// Handler processes a message body. A returned error requeues the message.
type Handler func(ctx context.Context, body []byte) error

// ConsumerMessage consumes queueName until ctx is done or the channel closes.
// The returned WaitGroup completes once every in-flight handler has finished.
func ConsumerMessage(ctx context.Context, ch *amqp.Channel, queueName string, handler Handler, log *slog.Logger) (*sync.WaitGroup, error) {
	const op = "rabbitmq.ConsumerMessage"
	deliveries, err := ch.Consume(queueName, "", false, false, false, false, nil)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	wg := &sync.WaitGroup{}
	wg.Add(1)
	go func() {
		defer wg.Done()
		dispatch(ctx, deliveries, wg, handler, log)
	}()
	return wg, nil
}

func dispatch(ctx context.Context, deliveries <-chan amqp.Delivery, wg *sync.WaitGroup, handler Handler, log *slog.Logger) {
	sem := make(chan struct{}, prefetch)
	for {
		select {
		case d, ok := <-deliveries:
			if !ok {
				return
			}
			sem <- struct{}{}
			wg.Add(1)
			go func(d amqp.Delivery) {
				defer func() {
					<-sem
					wg.Done()
				}()
				settle(ctx, d, d.Body, handler, log)
			}(d)
		case <-ctx.Done():
			return
		}
	}
}

func settle(ctx context.Context, ack Acknowledger, body []byte, handler Handler, log *slog.Logger) {
	if err := handler(ctx, body); err != nil {
		log.Warn("message handling failed, requeueing", sl.Err(err))
		if nackErr := ack.Nack(false, true); nackErr != nil {
			log.Error("failed to nack message", sl.Err(nackErr))
		}
		return
	}
	if err := ack.Ack(false); err != nil {
		log.Error("failed to ack message", sl.Err(err))
	}
}
