package models

// NoticeKind classifies a user-facing notice.
type NoticeKind string

const (
	NoticeCheckoutStarted       NoticeKind = "checkout_started"
	NoticeCheckoutCanceled      NoticeKind = "checkout_canceled"
	NoticeSubscriptionActivated NoticeKind = "subscription_activated"
	NoticeSubscriptionCanceled  NoticeKind = "subscription_canceled"
	NoticeAdminImmutable        NoticeKind = "admin_immutable"
	NoticeRenewalReminder       NoticeKind = "renewal_reminder"
)

// Notice is an informational message surfaced to the user after an action.
type Notice struct {
	Kind    NoticeKind `json:"kind"`
	Message string     `json:"message"`
}
