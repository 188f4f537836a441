package port

import "context"

// ChargeRequest describes the deposit charge for a reservation.
type ChargeRequest struct {
	ReservationID string
	CustomerName  string
	CustomerEmail string
	CustomerPhone string
	Document      string
	AmountCents   int64
	Description   string
	SuccessURL    string
	CancelURL     string
}

// Charge is the provider's answer to a charge request.
type Charge struct {
	PaymentID  string
	InvoiceURL string
	// Confirmed is true when the provider settles synchronously.
	Confirmed bool
}

// PaymentGateway creates deposit charges with a payment provider.
type PaymentGateway interface {
	Name() string
	CreateCharge(ctx context.Context, req ChargeRequest) (*Charge, error)
}
