package normalization

import "strings"

// Canonical payment event names shared by every payment provider adapter.
const (
	EventPaymentConfirmed = "payment.confirmed"
	EventPaymentPending   = "payment.pending"
	EventPaymentFailed    = "payment.failed"
	EventPaymentRefunded  = "payment.refunded"
)

// eventAliases maps provider specific webhook event names to their canonical form.
var eventAliases = map[string]string{
	// Asaas
	"payment-confirmed":              EventPaymentConfirmed,
	"payment-received":               EventPaymentConfirmed,
	"payment-received-in-cash":       EventPaymentConfirmed,
	"payment-created":                EventPaymentPending,
	"payment-updated":                EventPaymentPending,
	"payment-awaiting-risk-analysis": EventPaymentPending,
	"payment-overdue":                EventPaymentFailed,
	"payment-deleted":                EventPaymentFailed,
	"payment-refunded":               EventPaymentRefunded,
	"payment-chargeback-requested":   EventPaymentRefunded,

	// Stripe
	"checkout.session.completed":               EventPaymentConfirmed,
	"checkout.session.async-payment-succeeded": EventPaymentConfirmed,
	"checkout.session.async-payment-failed":    EventPaymentFailed,
	"checkout.session.expired":                 EventPaymentFailed,
	"charge.refunded":                          EventPaymentRefunded,
}

// NormalizeEvent lowercases the provider event name, folds underscores into hyphens and
// resolves it against the alias table. Unknown events are returned in normalized form.
//
// Example:
//
//	NormalizeEvent("PAYMENT_RECEIVED") => "payment.confirmed"
//	NormalizeEvent("checkout.session.completed") => "payment.confirmed"
func NormalizeEvent(raw string) string {
	trimmed := strings.ToLower(strings.TrimSpace(raw))
	normalized := strings.ReplaceAll(trimmed, "_", "-")

	if canonical, found := eventAliases[normalized]; found {
		return canonical
	}
	return normalized
}
