package handler

import (
	"context"
	"strings"

	"reservaMesa/internal/modules/reservations/application/port"
	"reservaMesa/internal/modules/reservations/domain"
)

// VoucherIssuedHandler pushes voucher events to websocket clients waiting on the payment.
type VoucherIssuedHandler struct {
	topic       string
	broadcaster port.VoucherBroadcaster
}

func NewVoucherIssuedHandler(topic string, broadcaster port.VoucherBroadcaster) *VoucherIssuedHandler {
	return &VoucherIssuedHandler{topic: strings.TrimSpace(topic), broadcaster: broadcaster}
}

func (h *VoucherIssuedHandler) Topic() string { return h.topic }

func (h *VoucherIssuedHandler) Handle(_ context.Context, event *domain.Event) error {
	paymentID := event.ResourceID
	if paymentID == "" && event.Metadata != nil {
		paymentID = event.Metadata["paymentId"]
	}
	if paymentID == "" {
		if voucher, ok := domain.BuildVoucher(event.Data); ok {
			paymentID = voucher.PaymentID
		}
	}
	if paymentID == "" {
		return domain.ErrMissingPaymentID
	}
	h.broadcaster.BroadcastVoucher(paymentID, event)
	return nil
}

var _ port.TopicHandler = (*VoucherIssuedHandler)(nil)
