// Package metrics declares the Prometheus collectors of the service.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	EntitlementChecks = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "nutriplan",
		Name:      "entitlement_checks_total",
		Help:      "Capability checks by capability and result.",
	}, []string{"capability", "allowed"})

	SubscriptionTransitions = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "nutriplan",
		Name:      "subscription_transitions_total",
		Help:      "Subscription lifecycle transitions by kind and tier.",
	}, []string{"transition", "tier"})

	RenewalReminders = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "nutriplan",
		Name:      "renewal_reminders_total",
		Help:      "Renewal reminders that became due.",
	})

	RemindersSent = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "nutriplan",
		Name:      "reminder_emails_total",
		Help:      "Renewal reminder e-mails handled by the sender, by result.",
	}, []string{"result"})
)
