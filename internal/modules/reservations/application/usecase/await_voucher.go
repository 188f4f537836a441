package usecase

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"reservaMesa/internal/modules/reservations/application/port"
	"reservaMesa/internal/modules/reservations/domain"
)

const (
	DefaultPollInterval    = 3 * time.Second
	DefaultPollMaxAttempts = 10
)

// PollConfig bounds AwaitVoucher: at most MaxAttempts fetches, Interval apart.
type PollConfig struct {
	Interval    time.Duration
	MaxAttempts int
}

func (c PollConfig) withDefaults() PollConfig {
	if c.Interval <= 0 {
		c.Interval = DefaultPollInterval
	}
	if c.MaxAttempts <= 0 {
		c.MaxAttempts = DefaultPollMaxAttempts
	}
	return c
}

// AwaitVoucher polls fetcher until the voucher is available, the context ends or the
// attempts run out. It returns as soon as a voucher is found. Errors other than
// domain.ErrVoucherNotReady abort the wait.
func AwaitVoucher(ctx context.Context, fetcher port.VoucherFetcher, paymentID string, cfg PollConfig) (*domain.Voucher, error) {
	cfg = cfg.withDefaults()
	ticker := time.NewTicker(cfg.Interval)
	defer ticker.Stop()

	for attempt := 1; ; attempt++ {
		voucher, err := fetcher.FetchVoucher(ctx, paymentID)
		if err == nil && voucher != nil {
			return voucher, nil
		}
		if err != nil && !errors.Is(err, domain.ErrVoucherNotReady) {
			return nil, err
		}
		slog.Debug("voucher not ready", slog.String("paymentId", paymentID), slog.Int("attempt", attempt))
		if attempt >= cfg.MaxAttempts {
			return nil, domain.ErrVoucherTimeout
		}

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-ticker.C:
		}
	}
}
