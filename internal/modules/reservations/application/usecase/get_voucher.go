package usecase

import (
	"context"
	"log/slog"
	"strings"

	"reservaMesa/internal/modules/reservations/application/port"
	"reservaMesa/internal/modules/reservations/domain"
)

type GetVoucherUseCase struct {
	repo  port.ReservationRepository
	cache port.VoucherCache
}

func NewGetVoucherUseCase(repo port.ReservationRepository, cache port.VoucherCache) *GetVoucherUseCase {
	return &GetVoucherUseCase{repo: repo, cache: cache}
}

// Execute returns the voucher for paymentID, or domain.ErrVoucherNotReady while unpaid.
func (uc *GetVoucherUseCase) Execute(ctx context.Context, paymentID string) (*domain.Voucher, error) {
	paymentID = strings.TrimSpace(paymentID)
	if paymentID == "" {
		return nil, domain.ErrMissingPaymentID
	}

	if uc.cache != nil {
		voucher, found, err := uc.cache.Get(ctx, paymentID)
		if err != nil {
			slog.Warn("voucher cache read failed", slog.String("paymentId", paymentID), slog.Any("error", err))
		} else if found {
			return voucher, nil
		}
	}

	reservation, err := uc.repo.FindByPaymentID(ctx, paymentID)
	if err != nil {
		return nil, err
	}
	voucher, ok := reservation.Voucher()
	if !ok {
		return nil, domain.ErrVoucherNotReady
	}
	if uc.cache != nil {
		if err := uc.cache.Set(ctx, voucher); err != nil {
			slog.Warn("voucher cache write failed", slog.String("paymentId", paymentID), slog.Any("error", err))
		}
	}
	return &voucher, nil
}

// FetchVoucher satisfies port.VoucherFetcher.
func (uc *GetVoucherUseCase) FetchVoucher(ctx context.Context, paymentID string) (*domain.Voucher, error) {
	return uc.Execute(ctx, paymentID)
}

var _ port.VoucherFetcher = (*GetVoucherUseCase)(nil)
