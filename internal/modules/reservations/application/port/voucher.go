package port

import (
	"context"

	"reservaMesa/internal/modules/reservations/domain"
)

// VoucherCache keeps issued vouchers keyed by payment ID.
type VoucherCache interface {
	Get(ctx context.Context, paymentID string) (*domain.Voucher, bool, error)
	Set(ctx context.Context, voucher domain.Voucher) error
}

// VoucherFetcher retrieves a voucher, returning domain.ErrVoucherNotReady while unpaid.
type VoucherFetcher interface {
	FetchVoucher(ctx context.Context, paymentID string) (*domain.Voucher, error)
}
