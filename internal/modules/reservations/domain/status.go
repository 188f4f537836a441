package domain

import "strings"

// ReservationStatus represents the lifecycle of a reservation.
type ReservationStatus string

const (
	ReservationStatusUnknown        ReservationStatus = ""
	ReservationStatusPendingPayment ReservationStatus = "PENDING_PAYMENT"
	ReservationStatusConfirmed      ReservationStatus = "CONFIRMED"
	ReservationStatusCancelled      ReservationStatus = "CANCELLED"
)

var allowedReservationStatuses = map[string]ReservationStatus{
	string(ReservationStatusPendingPayment): ReservationStatusPendingPayment,
	"PENDING":                               ReservationStatusPendingPayment,
	string(ReservationStatusConfirmed):      ReservationStatusConfirmed,
	"PAID":                                  ReservationStatusConfirmed,
	string(ReservationStatusCancelled):      ReservationStatusCancelled,
	"CANCELED":                              ReservationStatusCancelled,
}

// NormalizeReservationStatus returns the canonical ReservationStatus for the given input.
// Unknown statuses are uppercased and returned as-is.
func NormalizeReservationStatus(value any) ReservationStatus {
	s, ok := value.(string)
	if !ok {
		return ReservationStatusUnknown
	}
	trimmed := strings.ToUpper(strings.TrimSpace(s))
	trimmed = strings.ReplaceAll(trimmed, "-", "_")
	if trimmed == "" {
		return ReservationStatusUnknown
	}
	if status, ok := allowedReservationStatuses[trimmed]; ok {
		return status
	}
	return ReservationStatus(trimmed)
}

// Known reports whether the status is one of the canonical values.
func (s ReservationStatus) Known() bool {
	switch s {
	case ReservationStatusPendingPayment, ReservationStatusConfirmed, ReservationStatusCancelled:
		return true
	default:
		return false
	}
}
