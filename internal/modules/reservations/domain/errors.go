package domain

import "errors"

var (
	ErrReservationNotFound = errors.New("reservation not found")
	ErrNoAvailability      = errors.New("no tables available for the requested slot")
	ErrVoucherNotReady     = errors.New("voucher not ready")
	ErrVoucherTimeout      = errors.New("voucher wait timed out")
	ErrAlreadyCancelled    = errors.New("reservation already cancelled")
	ErrAlreadyConfirmed    = errors.New("reservation already confirmed")
	ErrUnderpaid           = errors.New("paid amount below the deposit")
	ErrMissingPaymentID    = errors.New("missing payment id")
)
