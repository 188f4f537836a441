package infrastructure

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"reservaMesa/internal/modules/reservations/application/port"
	"reservaMesa/internal/modules/reservations/domain"
)

// VoucherHTTPClient fetches vouchers from a running server's /api/vouchers endpoint.
type VoucherHTTPClient struct {
	rest *RESTClient
}

func NewVoucherHTTPClient(baseURL string, timeout time.Duration, client *http.Client) *VoucherHTTPClient {
	return &VoucherHTTPClient{rest: NewRESTClient(baseURL, timeout, client)}
}

func (c *VoucherHTTPClient) FetchVoucher(ctx context.Context, paymentID string) (*domain.Voucher, error) {
	endpoint := "/api/vouchers?" + url.Values{"paymentId": {paymentID}}.Encode()

	var payload any
	err := c.rest.DoJSON(ctx, http.MethodGet, endpoint, nil, &payload)
	var statusErr *StatusError
	if errors.As(err, &statusErr) && statusErr.Status == http.StatusNotFound {
		return nil, domain.ErrVoucherNotReady
	}
	if err != nil {
		return nil, fmt.Errorf("fetch voucher: %w", err)
	}

	voucher, ok := domain.BuildVoucher(payload)
	if !ok {
		raw, _ := json.Marshal(payload)
		return nil, fmt.Errorf("fetch voucher: unexpected payload %s", raw)
	}
	return voucher, nil
}

var _ port.VoucherFetcher = (*VoucherHTTPClient)(nil)
