package infrastructure

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	documents "reservaMesa/internal/modules/documents/domain"
	"reservaMesa/internal/modules/reservations/application/port"
)

var ErrPaymentRejected = errors.New("payment provider rejected the charge")

// AsaasGateway creates charges through the Asaas v3 REST API.
type AsaasGateway struct {
	rest *RESTClient
	now  func() time.Time
}

func NewAsaasGateway(baseURL, apiKey string, timeout time.Duration, client *http.Client) *AsaasGateway {
	rest := NewRESTClient(baseURL, timeout, client).WithHeader("access_token", apiKey)
	return &AsaasGateway{rest: rest, now: time.Now}
}

func (g *AsaasGateway) Name() string { return "asaas" }

type asaasCustomerRequest struct {
	Name              string `json:"name"`
	Email             string `json:"email,omitempty"`
	MobilePhone       string `json:"mobilePhone,omitempty"`
	CpfCnpj           string `json:"cpfCnpj"`
	ExternalReference string `json:"externalReference,omitempty"`
}

type asaasCallback struct {
	SuccessURL   string `json:"successUrl"`
	AutoRedirect bool   `json:"autoRedirect"`
}

type asaasPaymentRequest struct {
	Customer          string         `json:"customer"`
	BillingType       string         `json:"billingType"`
	Value             float64        `json:"value"`
	DueDate           string         `json:"dueDate"`
	Description       string         `json:"description,omitempty"`
	ExternalReference string         `json:"externalReference"`
	Callback          *asaasCallback `json:"callback,omitempty"`
}

type asaasResource struct {
	ID         string `json:"id"`
	InvoiceURL string `json:"invoiceUrl"`
	Status     string `json:"status"`
}

func (g *AsaasGateway) CreateCharge(ctx context.Context, req port.ChargeRequest) (*port.Charge, error) {
	var customer asaasResource
	err := g.rest.DoJSON(ctx, http.MethodPost, "/v3/customers", asaasCustomerRequest{
		Name:              req.CustomerName,
		Email:             req.CustomerEmail,
		MobilePhone:       documents.StripNonDigits(req.CustomerPhone),
		CpfCnpj:           documents.StripNonDigits(req.Document),
		ExternalReference: req.ReservationID,
	}, &customer)
	if err != nil {
		return nil, g.wrap("create customer", err)
	}

	payment := asaasPaymentRequest{
		Customer:          customer.ID,
		BillingType:       "UNDEFINED",
		Value:             float64(req.AmountCents) / 100,
		DueDate:           g.now().AddDate(0, 0, 1).Format("2006-01-02"),
		Description:       req.Description,
		ExternalReference: req.ReservationID,
	}
	if req.SuccessURL != "" {
		payment.Callback = &asaasCallback{SuccessURL: req.SuccessURL, AutoRedirect: true}
	}

	var created asaasResource
	if err := g.rest.DoJSON(ctx, http.MethodPost, "/v3/payments", payment, &created); err != nil {
		return nil, g.wrap("create payment", err)
	}
	if created.ID == "" || created.InvoiceURL == "" {
		return nil, fmt.Errorf("%w: incomplete payment response", ErrPaymentRejected)
	}

	slog.Info("asaas payment created",
		slog.String("paymentId", created.ID),
		slog.String("customerId", customer.ID),
		slog.String("reservationId", req.ReservationID),
	)
	return &port.Charge{PaymentID: created.ID, InvoiceURL: created.InvoiceURL}, nil
}

func (g *AsaasGateway) wrap(step string, err error) error {
	var statusErr *StatusError
	if errors.As(err, &statusErr) && statusErr.Status >= 400 && statusErr.Status < 500 {
		slog.Warn("asaas rejected request", slog.String("step", step), slog.Int("status", statusErr.Status), slog.String("body", statusErr.Body))
		return fmt.Errorf("asaas %s: %w: %v", step, ErrPaymentRejected, err)
	}
	return fmt.Errorf("asaas %s: %w", step, err)
}

var _ port.PaymentGateway = (*AsaasGateway)(nil)
