package nutriplan

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi"
	"github.com/streadway/amqp"
	"go.uber.org/multierr"

	"github.com/magabrotheeeer/nutriplan/internal/cache"
	"github.com/magabrotheeeer/nutriplan/internal/config"
	"github.com/magabrotheeeer/nutriplan/internal/entitlement"
	"github.com/magabrotheeeer/nutriplan/internal/lib/jwt"
	"github.com/magabrotheeeer/nutriplan/internal/lib/rabbitmq"
	"github.com/magabrotheeeer/nutriplan/internal/migrations"
	"github.com/magabrotheeeer/nutriplan/internal/paymentprovider"
	"github.com/magabrotheeeer/nutriplan/internal/services/notifier"
	"github.com/magabrotheeeer/nutriplan/internal/services/payment"
	"github.com/magabrotheeeer/nutriplan/internal/storage/repository"
)

const shutdownTimeout = 15 * time.Second

type App struct {
	server *http.Server
	log    *slog.Logger
	db     *repository.Storage
	cache  *cache.Cache
	conn   *amqp.Connection
	ch     *amqp.Channel
}

// New connects every backing service, applies migrations and builds the router.
func New(ctx context.Context, cfg *config.Config, log *slog.Logger) (*App, error) {
	const op = "nutriplan.New"
	a := &App{log: log}
	if err := a.setup(ctx, cfg); err != nil {
		return nil, multierr.Append(fmt.Errorf("%s: %w", op, err), a.close())
	}
	return a, nil
}

func (a *App) setup(ctx context.Context, cfg *config.Config) error {
	var err error
	if a.db, err = repository.New(ctx, cfg.StorageConnectionString); err != nil {
		return err
	}
	if err = migrations.Run(a.db.DB, cfg.MigrationsPath); err != nil {
		return err
	}
	if err = a.db.CheckDatabaseReady(ctx); err != nil {
		return err
	}
	if a.cache, err = cache.New(ctx, cfg.RedisConnection); err != nil {
		return err
	}
	if a.conn, err = rabbitmq.Connect(ctx, cfg.RabbitMQURL, cfg.RabbitMQMaxRetries, cfg.RabbitMQRetryDelay); err != nil {
		return err
	}
	if a.ch, err = rabbitmq.SetupChannel(a.conn, rabbitmq.NotificationQueues()); err != nil {
		return err
	}

	verifier, err := newVerifier(cfg.Auth)
	if err != nil {
		return err
	}
	policy, err := newPolicy(cfg.Entitlement)
	if err != nil {
		return err
	}
	plans, err := entitlement.PlansFromConfig(cfg.Entitlement.Plans)
	if err != nil {
		return err
	}

	stripe := paymentprovider.New(cfg.Stripe)
	engine := entitlement.NewEngine(a.db, a.cache, stripe, notifier.New(a.ch), policy, plans,
		entitlement.Options{
			AdminRole:    cfg.AdminRole,
			ExpireOnRead: cfg.ExpireOnRead,
			CacheTTL:     cfg.CacheTTL,
		}, a.log)

	router := chi.NewRouter()
	RegisterRoutes(router, a.log, cfg.HTTPServer, Deps{
		Engine:   engine,
		Verifier: verifier,
		Webhook:  stripe,
		Payments: payment.New(engine, a.cache, a.log),
	})

	a.server = &http.Server{
		Addr:         cfg.AddressHTTP,
		Handler:      router,
		ReadTimeout:  cfg.TimeoutHTTP,
		WriteTimeout: cfg.TimeoutHTTP,
		IdleTimeout:  cfg.IdleTimeout,
	}
	return nil
}

// Run serves until ctx is canceled, then shuts down and releases resources.
func (a *App) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		a.log.Info("HTTP server starting", slog.String("address", a.server.Addr))
		err := a.server.ListenAndServe()
		if errors.Is(err, http.ErrServerClosed) {
			errCh <- nil
			return
		}
		errCh <- err
	}()

	select {
	case err := <-errCh:
		return multierr.Append(err, a.close())
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		a.log.Info("shutting down HTTP server")
		return multierr.Append(a.server.Shutdown(shutdownCtx), a.close())
	}
}

func (a *App) close() error {
	var err error
	if a.ch != nil {
		err = multierr.Append(err, a.ch.Close())
	}
	if a.conn != nil {
		err = multierr.Append(err, a.conn.Close())
	}
	if a.cache != nil {
		err = multierr.Append(err, a.cache.Close())
	}
	if a.db != nil {
		err = multierr.Append(err, a.db.Close())
	}
	return err
}

func newVerifier(cfg config.Auth) (jwt.Verifier, error) {
	if cfg.JWKSURL != "" {
		return jwt.NewJWKSVerifier(cfg.JWKSURL, cfg.Issuer, cfg.Audience)
	}
	return jwt.NewHMACVerifier(cfg.JWTSecretKey, cfg.Issuer, cfg.Audience), nil
}

func newPolicy(cfg config.Entitlement) (entitlement.Policy, error) {
	if len(cfg.Capabilities) == 0 {
		return entitlement.DefaultPolicy(), nil
	}
	return entitlement.NewPolicy(cfg.Capabilities)
}
