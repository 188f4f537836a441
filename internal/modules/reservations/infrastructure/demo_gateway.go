package infrastructure

import (
	"context"
	"net/url"
	"strings"

	"github.com/google/uuid"

	"reservaMesa/internal/modules/reservations/application/port"
)

// DemoGateway settles every charge immediately and redirects straight to the success page.
type DemoGateway struct{}

func NewDemoGateway() *DemoGateway {
	return &DemoGateway{}
}

func (g *DemoGateway) Name() string { return "demo" }

func (g *DemoGateway) CreateCharge(_ context.Context, req port.ChargeRequest) (*port.Charge, error) {
	paymentID := "demo_" + strings.ReplaceAll(uuid.NewString(), "-", "")
	return &port.Charge{
		PaymentID:  paymentID,
		InvoiceURL: withQuery(req.SuccessURL, "payment_id", paymentID),
		Confirmed:  true,
	}, nil
}

func withQuery(rawURL, key, value string) string {
	parsed, err := url.Parse(rawURL)
	if err != nil || rawURL == "" {
		return "/sucesso?" + url.Values{key: {value}}.Encode()
	}
	query := parsed.Query()
	query.Set(key, value)
	parsed.RawQuery = query.Encode()
	return parsed.String()
}

var _ port.PaymentGateway = (*DemoGateway)(nil)
