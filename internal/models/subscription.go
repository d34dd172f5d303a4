// Package models contains the domain structures of the service: the user's subscription
// snapshot, plan tiers, lifecycle statuses and the messages the service hands out.
package models

import "time"

// Tier is a subscription level that decides which capabilities are unlocked.
type Tier string

const (
	// TierFree is the default tier every user starts on.
	TierFree Tier = "free"
	// TierPro unlocks planning and calculation capabilities.
	TierPro Tier = "pro"
	// TierPremium unlocks everything, including coaching and health sync.
	TierPremium Tier = "premium"
)

// Tiers lists every known tier in ascending order.
var Tiers = []Tier{TierFree, TierPro, TierPremium}

// ParseTier converts a raw tier identifier into a Tier.
func ParseTier(raw string) (Tier, bool) {
	switch t := Tier(raw); t {
	case TierFree, TierPro, TierPremium:
		return t, true
	default:
		return "", false
	}
}

// IsPaid reports whether the tier is bought through checkout.
func (t Tier) IsPaid() bool {
	return t == TierPro || t == TierPremium
}

// Status is the lifecycle state of a subscription snapshot.
type Status string

const (
	StatusInactive Status = "inactive"
	StatusActive   Status = "active"
	StatusCanceled Status = "canceled"
)

// Subscription is the current subscription snapshot of a single user.
// A free snapshot never carries dates.
type Subscription struct {
	UserID    string     `json:"user_id"`
	Tier      Tier       `json:"tier"`
	Status    Status     `json:"status"`
	StartDate *time.Time `json:"start_date"`
	EndDate   *time.Time `json:"end_date"`
}

// FreeSubscription returns the snapshot a user has before any purchase and after cancellation.
func FreeSubscription(userID string) Subscription {
	return Subscription{
		UserID: userID,
		Tier:   TierFree,
		Status: StatusInactive,
	}
}

// Expired reports whether a paid snapshot has reached its end date at now.
func (s Subscription) Expired(now time.Time) bool {
	return s.Tier != TierFree && s.EndDate != nil && !now.Before(*s.EndDate)
}

// RenewalReminder is published to the notification queue when a paid period is about to end.
type RenewalReminder struct {
	UserID  string    `json:"user_id"`
	Email   string    `json:"email"`
	Tier    Tier      `json:"tier"`
	EndDate time.Time `json:"end_date"`
}
