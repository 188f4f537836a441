package infrastructure

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"strings"

	"github.com/stripe/stripe-go/v76"
	"github.com/stripe/stripe-go/v76/client"

	"reservaMesa/internal/modules/reservations/application/port"
)

// StripeGateway creates Stripe Checkout Sessions; the session ID is the payment ID.
type StripeGateway struct {
	api *client.API
}

// NewStripeGateway builds a gateway; backends may be nil to use Stripe's public endpoints.
func NewStripeGateway(secretKey string, backends *stripe.Backends) *StripeGateway {
	return &StripeGateway{api: client.New(secretKey, backends)}
}

func (g *StripeGateway) Name() string { return "stripe" }

func (g *StripeGateway) CreateCharge(ctx context.Context, req port.ChargeRequest) (*port.Charge, error) {
	params := &stripe.CheckoutSessionParams{
		Mode:              stripe.String(string(stripe.CheckoutSessionModePayment)),
		SuccessURL:        stripe.String(stripeSuccessURL(req.SuccessURL)),
		CancelURL:         stripe.String(req.CancelURL),
		ClientReferenceID: stripe.String(req.ReservationID),
		LineItems: []*stripe.CheckoutSessionLineItemParams{
			{
				PriceData: &stripe.CheckoutSessionLineItemPriceDataParams{
					Currency: stripe.String(string(stripe.CurrencyBRL)),
					ProductData: &stripe.CheckoutSessionLineItemPriceDataProductDataParams{
						Name: stripe.String(req.Description),
					},
					UnitAmount: stripe.Int64(req.AmountCents),
				},
				Quantity: stripe.Int64(1),
			},
		},
	}
	if req.CustomerEmail != "" {
		params.CustomerEmail = stripe.String(req.CustomerEmail)
	}
	params.Context = ctx
	params.AddMetadata("reservationId", req.ReservationID)

	session, err := g.api.CheckoutSessions.New(params)
	if err != nil {
		var stripeErr *stripe.Error
		if errors.As(err, &stripeErr) && stripeErr.HTTPStatusCode >= 400 && stripeErr.HTTPStatusCode < 500 {
			return nil, fmt.Errorf("stripe checkout: %w: %s", ErrPaymentRejected, stripeErr.Msg)
		}
		return nil, fmt.Errorf("stripe checkout: %w", err)
	}

	slog.Info("stripe checkout session created", slog.String("sessionId", session.ID), slog.String("reservationId", req.ReservationID))
	return &port.Charge{PaymentID: session.ID, InvoiceURL: session.URL}, nil
}

// stripeSuccessURL appends the session placeholder Stripe substitutes on redirect.
func stripeSuccessURL(raw string) string {
	const placeholder = "{CHECKOUT_SESSION_ID}"
	if strings.Contains(raw, placeholder) {
		return raw
	}
	separator := "?"
	if parsed, err := url.Parse(raw); err == nil && parsed.RawQuery != "" {
		separator = "&"
	}
	return raw + separator + "payment_id=" + placeholder
}

var _ port.PaymentGateway = (*StripeGateway)(nil)
