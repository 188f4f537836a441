package transport

import (
	"crypto/subtle"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"math"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/stripe/stripe-go/v76"
	"github.com/stripe/stripe-go/v76/webhook"

	"reservaMesa/internal/modules/reservations/domain"
	"reservaMesa/internal/shared/httputil"
	"reservaMesa/internal/shared/normalization"
)

const maxWebhookBody = 1 << 16

// WebhookConfig carries the shared secrets payment providers sign their callbacks with.
type WebhookConfig struct {
	AsaasToken   string
	StripeSecret string
}

type webhookAck struct {
	Received  bool   `json:"received"`
	Event     string `json:"event"`
	Voucher   string `json:"voucher,omitempty"`
	Cancelled bool   `json:"cancelled,omitempty"`
	Ignored   bool   `json:"ignored,omitempty"`
}

// AsaasWebhook serves POST /api/webhooks/asaas.
func (h *Handler) AsaasWebhook(c echo.Context) error {
	if h.webhooks.AsaasToken == "" {
		return httputil.Fail(c, http.StatusServiceUnavailable, httputil.ErrorBody{Message: "webhook não configurado", Code: httputil.CodeInternal})
	}
	token := c.Request().Header.Get("asaas-access-token")
	if subtle.ConstantTimeCompare([]byte(token), []byte(h.webhooks.AsaasToken)) != 1 {
		slog.Warn("asaas webhook with invalid token", slog.String("ip", c.RealIP()))
		return httputil.Fail(c, http.StatusUnauthorized, httputil.ErrorBody{Message: "token inválido", Code: httputil.CodeUnauthorized})
	}

	var payload map[string]any
	if err := json.NewDecoder(io.LimitReader(c.Request().Body, maxWebhookBody)).Decode(&payload); err != nil {
		return httputil.Fail(c, http.StatusBadRequest, httputil.ErrorBody{Message: "payload inválido", Code: httputil.CodeValidation})
	}
	eventName := normalization.AsString(payload["event"])
	paymentID := normalization.FirstString(payload, "payment.id", "paymentId")
	// Asaas reports the value in reais.
	var paidCents *int64
	if value := normalization.Lookup(payload, "payment.value"); value != nil {
		cents := int64(math.Round(normalization.AsFloat64(value) * 100))
		paidCents = &cents
	}
	return h.handlePaymentEvent(c, "asaas", eventName, paymentID, paidCents)
}

// StripeWebhook serves POST /api/webhooks/stripe; the signature is checked against the raw body.
func (h *Handler) StripeWebhook(c echo.Context) error {
	if h.webhooks.StripeSecret == "" {
		return httputil.Fail(c, http.StatusServiceUnavailable, httputil.ErrorBody{Message: "webhook não configurado", Code: httputil.CodeInternal})
	}
	body, err := io.ReadAll(io.LimitReader(c.Request().Body, maxWebhookBody))
	if err != nil {
		return httputil.Fail(c, http.StatusBadRequest, httputil.ErrorBody{Message: "payload inválido", Code: httputil.CodeValidation})
	}
	event, err := webhook.ConstructEventWithOptions(body, c.Request().Header.Get("Stripe-Signature"), h.webhooks.StripeSecret,
		webhook.ConstructEventOptions{IgnoreAPIVersionMismatch: true})
	if err != nil {
		slog.Warn("stripe webhook rejected", slog.String("ip", c.RealIP()), slog.Any("error", err))
		return httputil.Fail(c, http.StatusBadRequest, httputil.ErrorBody{Message: "assinatura inválida", Code: httputil.CodeValidation})
	}

	var (
		paymentID string
		paidCents *int64
	)
	if event.Data != nil && len(event.Data.Raw) > 0 {
		var session stripe.CheckoutSession
		if err := json.Unmarshal(event.Data.Raw, &session); err == nil {
			paymentID = session.ID
			if session.AmountTotal > 0 {
				paidCents = &session.AmountTotal
			}
			if event.Type == "checkout.session.completed" && session.PaymentStatus == stripe.CheckoutSessionPaymentStatusUnpaid {
				// Delayed methods settle later through async_payment_succeeded.
				return httputil.OK(c, http.StatusOK, webhookAck{Received: true, Event: normalization.EventPaymentPending, Ignored: true})
			}
		}
	}
	return h.handlePaymentEvent(c, "stripe", string(event.Type), paymentID, paidCents)
}

// handlePaymentEvent confirms settled payments and releases reservations whose payment
// failed. Outcomes the provider cannot fix by retrying are acknowledged as ignored.
func (h *Handler) handlePaymentEvent(c echo.Context, provider, rawEvent, paymentID string, paidCents *int64) error {
	canonical := normalization.NormalizeEvent(rawEvent)
	logger := slog.With(slog.String("provider", provider), slog.String("event", rawEvent), slog.String("paymentId", paymentID))
	ignored := webhookAck{Received: true, Event: canonical, Ignored: true}

	switch canonical {
	case normalization.EventPaymentConfirmed:
		var (
			voucher *domain.Voucher
			err     error
		)
		if paidCents != nil {
			voucher, err = h.confirm.ExecutePaid(c.Request().Context(), paymentID, *paidCents)
		} else {
			voucher, err = h.confirm.Execute(c.Request().Context(), paymentID)
		}
		switch {
		case errors.Is(err, domain.ErrReservationNotFound):
			// Charges created outside this system are acknowledged so the provider stops retrying.
			logger.Warn("payment webhook for unknown reservation")
			return httputil.OK(c, http.StatusOK, ignored)
		case errors.Is(err, domain.ErrUnderpaid), errors.Is(err, domain.ErrAlreadyCancelled):
			logger.Error("payment webhook not applied", slog.Any("error", err))
			return httputil.OK(c, http.StatusOK, ignored)
		case err != nil:
			return httputil.FailWith(c, h.mapper, err)
		}
		logger.Info("payment webhook confirmed reservation", slog.String("code", voucher.Code))
		return httputil.OK(c, http.StatusOK, webhookAck{Received: true, Event: canonical, Voucher: voucher.Code})

	case normalization.EventPaymentFailed:
		reservation, err := h.cancel.Execute(c.Request().Context(), paymentID)
		switch {
		case errors.Is(err, domain.ErrReservationNotFound):
			logger.Warn("payment webhook for unknown reservation")
			return httputil.OK(c, http.StatusOK, ignored)
		case errors.Is(err, domain.ErrAlreadyConfirmed):
			logger.Warn("failed payment event for a confirmed reservation")
			return httputil.OK(c, http.StatusOK, ignored)
		case err != nil:
			return httputil.FailWith(c, h.mapper, err)
		}
		logger.Info("payment webhook released reservation", slog.String("reservationId", reservation.ID))
		return httputil.OK(c, http.StatusOK, webhookAck{Received: true, Event: canonical, Cancelled: true})

	default:
		logger.Info("payment webhook ignored")
		return httputil.OK(c, http.StatusOK, ignored)
	}
}
