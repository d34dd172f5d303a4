// Package entitlement decides what a user may do based on their subscription tier
// and drives the subscription lifecycle: activation, cancellation, expiry and
// renewal reminders.
package entitlement

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/magabrotheeeer/nutriplan/internal/lib/metrics"
	"github.com/magabrotheeeer/nutriplan/internal/lib/sl"
	"github.com/magabrotheeeer/nutriplan/internal/models"
	"github.com/magabrotheeeer/nutriplan/internal/storage"
)

const (
	// RenewalPeriodDays is the length of a paid period started by Activate.
	RenewalPeriodDays = 30
	// ReminderWindowDays is how long before the end date a renewal reminder becomes due.
	ReminderWindowDays = 5
)

// Repository persists subscription snapshots and renewal reminder markers.
type Repository interface {
	// GetSubscription returns the snapshot of a user or storage.ErrNotFound.
	GetSubscription(ctx context.Context, userID string) (*models.Subscription, error)
	// SaveSubscription overwrites the snapshot and drops the reminder marker.
	SaveSubscription(ctx context.Context, sub models.Subscription) error
	// GetReminderMarker returns the end date a reminder was last delivered for, or nil.
	GetReminderMarker(ctx context.Context, userID string) (*time.Time, error)
	// SetReminderMarker records that a reminder was delivered for endDate.
	SetReminderMarker(ctx context.Context, userID string, endDate time.Time) error
}

// Cache keeps snapshots close to the API.
type Cache interface {
	Get(ctx context.Context, key string, result any) (bool, error)
	Set(ctx context.Context, key string, value any, expiration time.Duration) error
	Invalidate(ctx context.Context, key string) error
}

// Checkout starts a payment flow and returns the URL the user is redirected to.
type Checkout interface {
	InitiateCheckout(ctx context.Context, tier models.Tier, identity models.Identity) (string, error)
}

// Notifier delivers renewal reminders out of band.
type Notifier interface {
	PublishRenewalReminder(ctx context.Context, reminder models.RenewalReminder) error
}

// Options tunes engine behaviour.
type Options struct {
	// AdminRole is the identity role that turns on the admin override. Empty disables it.
	AdminRole string
	// ExpireOnRead demotes a paid snapshot to free once its end date has passed.
	ExpireOnRead bool
	// CacheTTL bounds how long a snapshot stays in the cache.
	CacheTTL time.Duration
}

// UpgradeResult is the outcome of Upgrade. RedirectURL is empty when no checkout was started.
type UpgradeResult struct {
	RedirectURL string        `json:"redirect_url,omitempty"`
	Notice      models.Notice `json:"notice"`
}

// Engine is the single source of truth for entitlements and subscription transitions.
type Engine struct {
	repo     Repository
	cache    Cache
	checkout Checkout
	notifier Notifier
	policy   Policy
	plans    []models.Plan
	opts     Options
	now      func() time.Time
	log      *slog.Logger
}

// NewEngine creates an Engine.
func NewEngine(repo Repository, cache Cache, checkout Checkout, notifier Notifier,
	policy Policy, plans []models.Plan, opts Options, log *slog.Logger) *Engine {
	if opts.CacheTTL <= 0 {
		opts.CacheTTL = time.Hour
	}
	return &Engine{
		repo:     repo,
		cache:    cache,
		checkout: checkout,
		notifier: notifier,
		policy:   policy,
		plans:    plans,
		opts:     opts,
		now:      time.Now,
		log:      log,
	}
}

// WithClock replaces the time source. It is meant for tests.
func (e *Engine) WithClock(now func() time.Time) *Engine {
	e.now = now
	return e
}

// Open builds the session for identity. The first time a user is observed a free
// snapshot is created for them.
func (e *Engine) Open(ctx context.Context, identity models.Identity) (*Session, error) {
	const op = "entitlement.Open"
	sess := &Session{
		Identity: identity,
		admin:    e.opts.AdminRole != "" && identity.Role == e.opts.AdminRole,
	}
	if !identity.Authenticated() {
		sess.Subscription = models.FreeSubscription("")
		return sess, nil
	}

	sub, err := e.load(ctx, identity.UserID)
	switch {
	case errors.Is(err, storage.ErrNotFound):
		free := models.FreeSubscription(identity.UserID)
		if err := e.save(ctx, free); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		metrics.SubscriptionTransitions.WithLabelValues("create", string(free.Tier)).Inc()
		e.log.Info("created subscription snapshot", slog.String("user_uid", identity.UserID))
		sub = &free
	case err != nil:
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if e.opts.ExpireOnRead && sub.Expired(e.now()) {
		expiredTier := sub.Tier
		free := models.FreeSubscription(identity.UserID)
		if err := e.save(ctx, free); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		metrics.SubscriptionTransitions.WithLabelValues("expire", string(expiredTier)).Inc()
		e.log.Info("subscription expired", slog.String("user_uid", identity.UserID),
			slog.String("tier", string(expiredTier)))
		sub = &free
	}

	sess.Subscription = *sub
	return sess, nil
}

// HasFeature reports whether the session may use capability.
// Capabilities absent from the policy are always allowed.
func (e *Engine) HasFeature(sess *Session, capability string) bool {
	allowed := sess.IsAdmin() || e.policy.Allows(sess.Subscription.Tier, capability)
	metrics.EntitlementChecks.WithLabelValues(capability, fmt.Sprint(allowed)).Inc()
	return allowed
}

// Capabilities resolves every configured capability for the session.
func (e *Engine) Capabilities(sess *Session) map[string]bool {
	names := e.policy.Capabilities()
	resolved := make(map[string]bool, len(names))
	for _, name := range names {
		resolved[name] = e.HasFeature(sess, name)
	}
	return resolved
}

// Plans returns the plan catalog with the capabilities each tier grants.
func (e *Engine) Plans() []models.Plan {
	out := make([]models.Plan, 0, len(e.plans))
	for _, p := range e.plans {
		p.Capabilities = e.policy.GrantedTo(p.ID)
		out = append(out, p)
	}
	return out
}

// Upgrade hands the user off to checkout for tierID. The snapshot is not touched:
// it changes only when the payment collaborator later confirms through Activate.
func (e *Engine) Upgrade(ctx context.Context, sess *Session, tierID string) (UpgradeResult, error) {
	const op = "entitlement.Upgrade"
	if sess.IsAdmin() {
		return UpgradeResult{Notice: adminNotice("Admin access already includes every feature.")}, nil
	}
	if !sess.Authenticated() {
		return UpgradeResult{}, fmt.Errorf("%s: %w", op, ErrAuthenticationRequired)
	}
	tier, err := paidTier(tierID)
	if err != nil {
		return UpgradeResult{}, fmt.Errorf("%s: %w", op, err)
	}

	url, err := e.checkout.InitiateCheckout(ctx, tier, sess.Identity)
	if err != nil {
		return UpgradeResult{}, fmt.Errorf("%s: %w", op, err)
	}
	e.log.Info("checkout started", slog.String("user_uid", sess.Identity.UserID), slog.String("tier", string(tier)))

	return UpgradeResult{
		RedirectURL: url,
		Notice: models.Notice{
			Kind:    models.NoticeCheckoutStarted,
			Message: fmt.Sprintf("Redirecting to checkout for the %s plan.", tier),
		},
	}, nil
}

// Activate starts a fresh paid period for tierID after a successful checkout.
// The previous snapshot is overwritten and a new reminder cycle begins.
func (e *Engine) Activate(ctx context.Context, sess *Session, tierID string) (models.Subscription, error) {
	const op = "entitlement.Activate"
	if sess.IsAdmin() {
		return sess.Subscription, nil
	}
	if !sess.Authenticated() {
		return models.Subscription{}, fmt.Errorf("%s: %w", op, ErrAuthenticationRequired)
	}
	tier, err := paidTier(tierID)
	if err != nil {
		return models.Subscription{}, fmt.Errorf("%s: %w", op, err)
	}

	// Second precision keeps the reminder marker comparable after a database round trip.
	start := e.now().UTC().Truncate(time.Second)
	end := start.AddDate(0, 0, RenewalPeriodDays)
	sub := models.Subscription{
		UserID:    sess.Identity.UserID,
		Tier:      tier,
		Status:    models.StatusActive,
		StartDate: &start,
		EndDate:   &end,
	}
	if err := e.save(ctx, sub); err != nil {
		return models.Subscription{}, fmt.Errorf("%s: %w", op, err)
	}
	sess.Subscription = sub

	metrics.SubscriptionTransitions.WithLabelValues("activate", string(tier)).Inc()
	e.log.Info("subscription activated", slog.String("user_uid", sub.UserID),
		slog.String("tier", string(tier)), slog.Time("end_date", end))
	return sub, nil
}

// Cancel reverts the user to the free tier. Under the admin override nothing changes
// and an admin notice is returned instead of the cancellation notice.
func (e *Engine) Cancel(ctx context.Context, sess *Session) (models.Notice, error) {
	const op = "entitlement.Cancel"
	if sess.IsAdmin() {
		return adminNotice("Admin access cannot be canceled."), nil
	}
	if !sess.Authenticated() {
		return models.Notice{}, fmt.Errorf("%s: %w", op, ErrAuthenticationRequired)
	}

	previous := sess.Subscription.Tier
	free := models.FreeSubscription(sess.Identity.UserID)
	if err := e.save(ctx, free); err != nil {
		return models.Notice{}, fmt.Errorf("%s: %w", op, err)
	}
	sess.Subscription = free

	metrics.SubscriptionTransitions.WithLabelValues("cancel", string(previous)).Inc()
	e.log.Info("subscription canceled", slog.String("user_uid", free.UserID), slog.String("tier", string(previous)))
	return models.Notice{
		Kind:    models.NoticeSubscriptionCanceled,
		Message: "You are now on the free plan.",
	}, nil
}

// CheckoutCanceled acknowledges an abandoned checkout. The snapshot is left as it was.
func (e *Engine) CheckoutCanceled(sess *Session) models.Notice {
	e.log.Info("checkout canceled", slog.String("user_uid", sess.Identity.UserID))
	return models.Notice{
		Kind:    models.NoticeCheckoutCanceled,
		Message: "Checkout was canceled. Your subscription has not changed.",
	}
}

// CheckRenewalReminder reports whether a renewal reminder should be shown at now.
// A reminder fires at most once per end date: when it fires the marker is stored
// and the reminder is published to the notifier.
func (e *Engine) CheckRenewalReminder(ctx context.Context, sess *Session, now time.Time) (bool, error) {
	const op = "entitlement.CheckRenewalReminder"
	if !sess.Authenticated() {
		return false, nil
	}
	sub := sess.Subscription
	if sub.Tier == models.TierFree || sub.EndDate == nil {
		return false, nil
	}

	marker, err := e.repo.GetReminderMarker(ctx, sub.UserID)
	if err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}
	if !RenewalDue(sub, marker, now) {
		return false, nil
	}

	if err := e.repo.SetReminderMarker(ctx, sub.UserID, *sub.EndDate); err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}
	metrics.RenewalReminders.Inc()

	reminder := models.RenewalReminder{
		UserID:  sub.UserID,
		Email:   sess.Identity.Email,
		Tier:    sub.Tier,
		EndDate: *sub.EndDate,
	}
	if err := e.notifier.PublishRenewalReminder(ctx, reminder); err != nil {
		e.log.Warn("failed to publish renewal reminder", slog.String("user_uid", sub.UserID), sl.Err(err))
	}
	return true, nil
}

// RenewalDue is the pure reminder decision: a paid snapshot with an end date, now inside
// [end - ReminderWindowDays, end), and no reminder delivered yet for that end date.
func RenewalDue(sub models.Subscription, marker *time.Time, now time.Time) bool {
	if sub.Tier == models.TierFree || sub.EndDate == nil {
		return false
	}
	end := *sub.EndDate
	windowStart := end.AddDate(0, 0, -ReminderWindowDays)
	if now.Before(windowStart) || !now.Before(end) {
		return false
	}
	return marker == nil || !marker.Equal(end)
}

func (e *Engine) load(ctx context.Context, userID string) (*models.Subscription, error) {
	var cached models.Subscription
	key := cacheKey(userID)
	found, err := e.cache.Get(ctx, key, &cached)
	if err != nil {
		e.log.Warn("failed to read snapshot from cache", slog.String("key", key), sl.Err(err))
	}
	if found {
		return &cached, nil
	}

	sub, err := e.repo.GetSubscription(ctx, userID)
	if err != nil {
		return nil, err
	}
	if err := e.cache.Set(ctx, key, sub, e.opts.CacheTTL); err != nil {
		e.log.Warn("failed to cache snapshot", slog.String("key", key), sl.Err(err))
	}
	return sub, nil
}

func (e *Engine) save(ctx context.Context, sub models.Subscription) error {
	if err := e.repo.SaveSubscription(ctx, sub); err != nil {
		return err
	}
	key := cacheKey(sub.UserID)
	if err := e.cache.Set(ctx, key, sub, e.opts.CacheTTL); err != nil {
		e.log.Warn("failed to cache snapshot, invalidating", slog.String("key", key), sl.Err(err))
		if err := e.cache.Invalidate(ctx, key); err != nil {
			e.log.Error("failed to invalidate snapshot", slog.String("key", key), sl.Err(err))
		}
	}
	return nil
}

func paidTier(tierID string) (models.Tier, error) {
	tier, ok := models.ParseTier(tierID)
	if !ok || !tier.IsPaid() {
		return "", fmt.Errorf("%w: %q", ErrInvalidPlan, tierID)
	}
	return tier, nil
}

func adminNotice(msg string) models.Notice {
	return models.Notice{Kind: models.NoticeAdminImmutable, Message: msg}
}

func cacheKey(userID string) string {
	return "subscription:" + userID
}
