// Package nutriplan assembles the HTTP API.
package nutriplan

import (
	"log/slog"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	httpSwagger "github.com/swaggo/http-swagger"

	"github.com/magabrotheeeer/nutriplan/internal/config"
	"github.com/magabrotheeeer/nutriplan/internal/entitlement"
	"github.com/magabrotheeeer/nutriplan/internal/http/handlers/feature/check"
	featurelist "github.com/magabrotheeeer/nutriplan/internal/http/handlers/feature/list"
	"github.com/magabrotheeeer/nutriplan/internal/http/handlers/health"
	"github.com/magabrotheeeer/nutriplan/internal/http/handlers/nutrition/energyplan"
	"github.com/magabrotheeeer/nutriplan/internal/http/handlers/nutrition/metabolism"
	"github.com/magabrotheeeer/nutriplan/internal/http/handlers/payment/checkoutcancel"
	"github.com/magabrotheeeer/nutriplan/internal/http/handlers/payment/paymentwebhook"
	planlist "github.com/magabrotheeeer/nutriplan/internal/http/handlers/plan/list"
	"github.com/magabrotheeeer/nutriplan/internal/http/handlers/subscription/cancel"
	"github.com/magabrotheeeer/nutriplan/internal/http/handlers/subscription/read"
	"github.com/magabrotheeeer/nutriplan/internal/http/handlers/subscription/reminder"
	"github.com/magabrotheeeer/nutriplan/internal/http/handlers/subscription/upgrade"
	"github.com/magabrotheeeer/nutriplan/internal/http/middlewarectx"
	"github.com/magabrotheeeer/nutriplan/internal/lib/jwt"
)

// Deps are the collaborators the routes are built from.
type Deps struct {
	Engine   *entitlement.Engine
	Verifier jwt.Verifier
	Webhook  paymentwebhook.Parser
	Payments paymentwebhook.Service
}

// RegisterRoutes mounts every endpoint on r.
func RegisterRoutes(r chi.Router, log *slog.Logger, cfg config.HTTPServer, deps Deps) {
	r.Use(
		middleware.RequestID,
		middleware.Logger,
		middleware.Recoverer,
		middleware.URLFormat,
	)

	r.Get("/health", health.New(log).ServeHTTP)
	r.Handle("/metrics", promhttp.Handler())
	r.Get("/docs/*", httpSwagger.WrapHandler)

	r.Route("/api/v1", func(r chi.Router) {
		// Stripe authenticates with the signature header, not a bearer token.
		r.Post("/payments/webhook", paymentwebhook.New(log, deps.Webhook, deps.Payments).ServeHTTP)

		r.Group(func(r chi.Router) {
			r.Use(middlewarectx.RateLimitMiddleware(cfg.RateLimitRPS, cfg.RateLimitBurst, log))
			r.Use(middlewarectx.AuthMiddleware(deps.Verifier, log))
			r.Use(middlewarectx.SessionMiddleware(deps.Engine, log))

			r.Get("/plans", planlist.New(log, deps.Engine).ServeHTTP)
			r.Get("/features", featurelist.New(log, deps.Engine).ServeHTTP)
			r.Get("/features/{capability}", check.New(log, deps.Engine).ServeHTTP)

			r.Get("/subscription", read.New(log).ServeHTTP)
			r.Post("/subscription/upgrade", upgrade.New(log, deps.Engine).ServeHTTP)
			r.Post("/subscription/cancel", cancel.New(log, deps.Engine).ServeHTTP)
			r.Get("/subscription/reminder", reminder.New(log, deps.Engine).ServeHTTP)
			r.Get("/payments/cancel", checkoutcancel.New(log, deps.Engine).ServeHTTP)

			r.Post("/nutrition/metabolism", metabolism.New(log, deps.Engine).ServeHTTP)
			r.With(middlewarectx.RequireFeature(deps.Engine, entitlement.CapabilityTDEECalculation, log)).
				Post("/nutrition/energy-plan", energyplan.New(log).ServeHTTP)
		})
	})
}
