package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"reservaMesa/internal/modules/reservations/application/port"
	"reservaMesa/internal/modules/reservations/domain"
	"reservaMesa/internal/shared/metrics"
)

type ConfirmPaymentUseCase struct {
	repo          port.ReservationRepository
	cache         port.VoucherCache
	publisher     port.EventPublisher
	voucherPrefix string
	voucherTopic  string
	now           func() time.Time
}

func NewConfirmPaymentUseCase(repo port.ReservationRepository, cache port.VoucherCache, publisher port.EventPublisher, voucherPrefix, voucherTopic string) *ConfirmPaymentUseCase {
	return &ConfirmPaymentUseCase{
		repo:          repo,
		cache:         cache,
		publisher:     publisher,
		voucherPrefix: voucherPrefix,
		voucherTopic:  voucherTopic,
		now:           time.Now,
	}
}

// Execute confirms the reservation paid through paymentID and issues its voucher.
// Repeated confirmations return the voucher issued the first time.
func (uc *ConfirmPaymentUseCase) Execute(ctx context.Context, paymentID string) (*domain.Voucher, error) {
	return uc.execute(ctx, paymentID, nil)
}

// ExecutePaid is Execute for providers that report the settled amount. A payment below the
// reservation deposit yields ErrUnderpaid and leaves the reservation pending.
func (uc *ConfirmPaymentUseCase) ExecutePaid(ctx context.Context, paymentID string, paidCents int64) (*domain.Voucher, error) {
	return uc.execute(ctx, paymentID, &paidCents)
}

func (uc *ConfirmPaymentUseCase) execute(ctx context.Context, paymentID string, paidCents *int64) (*domain.Voucher, error) {
	paymentID = strings.TrimSpace(paymentID)
	if paymentID == "" {
		return nil, domain.ErrMissingPaymentID
	}

	reservation, err := uc.repo.FindByPaymentID(ctx, paymentID)
	if err != nil {
		return nil, err
	}
	if voucher, ok := reservation.Voucher(); ok {
		slog.Info("payment already confirmed", slog.String("paymentId", paymentID), slog.String("code", voucher.Code))
		return &voucher, nil
	}
	if reservation.Status == domain.ReservationStatusCancelled {
		return nil, domain.ErrAlreadyCancelled
	}
	if paidCents != nil && *paidCents < reservation.DepositCents {
		slog.Error("payment below deposit",
			slog.String("paymentId", paymentID),
			slog.Int64("paidCents", *paidCents),
			slog.Int64("depositCents", reservation.DepositCents),
		)
		return nil, fmt.Errorf("%w: paid %d of %d cents", domain.ErrUnderpaid, *paidCents, reservation.DepositCents)
	}

	confirmed, err := uc.repo.Confirm(ctx, reservation.ID, domain.NewVoucherCode(uc.voucherPrefix), uc.now().UTC())
	if err != nil {
		return nil, fmt.Errorf("confirm reservation: %w", err)
	}
	voucher, ok := confirmed.Voucher()
	if !ok {
		return nil, fmt.Errorf("confirm reservation %s: %w", reservation.ID, domain.ErrVoucherNotReady)
	}
	metrics.VouchersIssued.Inc()
	slog.Info("voucher issued",
		slog.String("reservationId", confirmed.ID),
		slog.String("paymentId", paymentID),
		slog.String("code", voucher.Code),
	)

	if uc.cache != nil {
		if err := uc.cache.Set(ctx, voucher); err != nil {
			slog.Warn("voucher cache write failed", slog.String("paymentId", paymentID), slog.Any("error", err))
		}
	}
	if uc.publisher != nil && uc.voucherTopic != "" {
		if err := uc.publisher.Publish(ctx, domain.NewVoucherIssuedEvent(uc.voucherTopic, voucher, uc.now())); err != nil {
			slog.Warn("publish voucher issued failed", slog.String("paymentId", paymentID), slog.Any("error", err))
		}
	}

	return &voucher, nil
}
