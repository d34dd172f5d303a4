package middlewarectx

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/nutriplan/internal/entitlement"
	"github.com/magabrotheeeer/nutriplan/internal/http/response"
	"github.com/magabrotheeeer/nutriplan/internal/lib/sl"
	"github.com/magabrotheeeer/nutriplan/internal/models"
)

// SessionOpener opens the entitlement session of a caller.
type SessionOpener interface {
	Open(ctx context.Context, identity models.Identity) (*entitlement.Session, error)
}

// FeatureChecker answers capability questions for a session.
type FeatureChecker interface {
	HasFeature(sess *entitlement.Session, capability string) bool
}

// SessionMiddleware opens the caller's session once per request.
func SessionMiddleware(opener SessionOpener, log *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			const op = "middlewarectx.SessionMiddleware"
			sess, err := opener.Open(r.Context(), IdentityFromContext(r.Context()))
			if err != nil {
				log.Error("failed to open session",
					slog.String("op", op),
					slog.String("request_id", middleware.GetReqID(r.Context())),
					sl.Err(err))
				render.Status(r, http.StatusInternalServerError)
				render.JSON(w, r, response.Error("internal error"))
				return
			}
			next.ServeHTTP(w, r.WithContext(WithSession(r.Context(), sess)))
		})
	}
}

// RequireFeature rejects requests whose session lacks capability with 403.
func RequireFeature(checker FeatureChecker, capability string, log *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			sess, ok := SessionFromContext(r.Context())
			if !ok {
				render.Status(r, http.StatusInternalServerError)
				render.JSON(w, r, response.Error("internal error"))
				return
			}
			if !checker.HasFeature(sess, capability) {
				log.Info("capability denied",
					slog.String("capability", capability),
					slog.String("tier", string(sess.Subscription.Tier)),
					slog.String("request_id", middleware.GetReqID(r.Context())))
				render.Status(r, http.StatusForbidden)
				render.JSON(w, r, response.Error("upgrade required for "+capability))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
