// Package sender runs the worker that mails renewal reminders from the notification queue.
package sender

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/streadway/amqp"
	"go.uber.org/multierr"

	"github.com/magabrotheeeer/nutriplan/internal/config"
	"github.com/magabrotheeeer/nutriplan/internal/lib/rabbitmq"
	"github.com/magabrotheeeer/nutriplan/internal/lib/sl"
	"github.com/magabrotheeeer/nutriplan/internal/lib/smtp"
	senderservice "github.com/magabrotheeeer/nutriplan/internal/services/sender"
)

const shutdownTimeout = 10 * time.Second

type App struct {
	conn    *amqp.Connection
	ch      *amqp.Channel
	service *senderservice.Service
	metrics *http.Server
	log     *slog.Logger
}

func New(ctx context.Context, cfg *config.Config, log *slog.Logger) (*App, error) {
	const op = "sender.New"
	conn, err := rabbitmq.Connect(ctx, cfg.RabbitMQURL, cfg.RabbitMQMaxRetries, cfg.RabbitMQRetryDelay)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	ch, err := rabbitmq.SetupChannel(conn, rabbitmq.NotificationQueues())
	if err != nil {
		return nil, multierr.Append(fmt.Errorf("%s: %w", op, err), conn.Close())
	}

	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())

	return &App{
		conn:    conn,
		ch:      ch,
		service: senderservice.NewService(smtp.NewTransport(cfg.SMTP), log),
		metrics: &http.Server{Addr: cfg.MetricsAddress, Handler: mux, ReadHeaderTimeout: 5 * time.Second},
		log:     log,
	}, nil
}

// Run consumes the renewal queue until ctx is canceled and in-flight messages are settled.
func (a *App) Run(ctx context.Context) error {
	const op = "sender.Run"
	wg, err := rabbitmq.ConsumerMessage(ctx, a.ch, rabbitmq.QueueRenewal, a.service.SendRenewalReminder, a.log)
	if err != nil {
		return multierr.Append(fmt.Errorf("%s: %w", op, err), a.close())
	}

	go func() {
		a.log.Info("metrics server starting", slog.String("address", a.metrics.Addr))
		if err := a.metrics.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			a.log.Error("metrics server stopped", sl.Err(err))
		}
	}()

	<-ctx.Done()
	a.log.Info("sender shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	err = a.metrics.Shutdown(shutdownCtx)

	// Handlers still need the channel to settle their deliveries.
	wg.Wait()
	return multierr.Append(err, a.close())
}

func (a *App) close() error {
	return multierr.Combine(a.ch.Close(), a.conn.Close())
}
