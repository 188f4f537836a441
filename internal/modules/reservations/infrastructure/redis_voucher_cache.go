package infrastructure

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"reservaMesa/internal/modules/reservations/application/port"
	"reservaMesa/internal/modules/reservations/domain"
)

const voucherKeyPrefix = "voucher:"

// RedisVoucherCache stores issued vouchers as JSON under voucher:<paymentId>.
type RedisVoucherCache struct {
	client redis.Cmdable
	ttl    time.Duration
}

func NewRedisVoucherCache(client redis.Cmdable, ttl time.Duration) *RedisVoucherCache {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &RedisVoucherCache{client: client, ttl: ttl}
}

func (c *RedisVoucherCache) Get(ctx context.Context, paymentID string) (*domain.Voucher, bool, error) {
	raw, err := c.client.Get(ctx, voucherKeyPrefix+paymentID).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("redis get voucher: %w", err)
	}

	var voucher domain.Voucher
	if err := json.Unmarshal(raw, &voucher); err != nil {
		return nil, false, fmt.Errorf("decode cached voucher: %w", err)
	}
	return &voucher, true, nil
}

func (c *RedisVoucherCache) Set(ctx context.Context, voucher domain.Voucher) error {
	if voucher.PaymentID == "" {
		return domain.ErrMissingPaymentID
	}
	encoded, err := json.Marshal(voucher)
	if err != nil {
		return fmt.Errorf("encode voucher: %w", err)
	}
	if err := c.client.Set(ctx, voucherKeyPrefix+voucher.PaymentID, encoded, c.ttl).Err(); err != nil {
		return fmt.Errorf("redis set voucher: %w", err)
	}
	return nil
}

var _ port.VoucherCache = (*RedisVoucherCache)(nil)
