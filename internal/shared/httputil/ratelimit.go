package httputil

import (
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"golang.org/x/time/rate"
)

// RateLimitConfig sizes the per client token bucket.
type RateLimitConfig struct {
	PerMinute int
	Burst     int
	// ExpiresIn drops buckets idle for longer than this. Zero means three minutes.
	ExpiresIn time.Duration
	// IPExtractor identifies the client. Nil keys on the TCP peer and ignores forwarding headers.
	IPExtractor echo.IPExtractor
}

// RateLimit limits requests per client IP with echo's in-memory limiter store.
func RateLimit(cfg RateLimitConfig) echo.MiddlewareFunc {
	if cfg.PerMinute <= 0 {
		cfg.PerMinute = 10
	}
	if cfg.Burst <= 0 {
		cfg.Burst = 1
	}
	if cfg.ExpiresIn <= 0 {
		cfg.ExpiresIn = 3 * time.Minute
	}
	extract := cfg.IPExtractor
	if extract == nil {
		extract = echo.ExtractIPDirect()
	}

	store := middleware.NewRateLimiterMemoryStoreWithConfig(middleware.RateLimiterMemoryStoreConfig{
		Rate:      rate.Every(time.Minute / time.Duration(cfg.PerMinute)),
		Burst:     cfg.Burst,
		ExpiresIn: cfg.ExpiresIn,
	})
	return middleware.RateLimiterWithConfig(middleware.RateLimiterConfig{
		Store: store,
		IdentifierExtractor: func(c echo.Context) (string, error) {
			return extract(c.Request()), nil
		},
		ErrorHandler: func(c echo.Context, err error) error {
			return Fail(c, http.StatusForbidden, ErrorBody{Message: "cliente não identificado", Code: CodeForbidden})
		},
		DenyHandler: func(c echo.Context, identifier string, err error) error {
			slog.Warn("rate limit exceeded", slog.String("ip", identifier), slog.String("path", c.Path()))
			return Fail(c, http.StatusTooManyRequests, ErrorBody{
				Message: "muitas tentativas, tente novamente mais tarde",
				Code:    CodeRateLimited,
			})
		},
	})
}

// NewIPExtractor trusts X-Forwarded-For only when it was appended by one of the proxy ranges
// given in CIDR notation. Without ranges the TCP peer address is used.
func NewIPExtractor(trustedProxies []string) (echo.IPExtractor, error) {
	if len(trustedProxies) == 0 {
		return echo.ExtractIPDirect(), nil
	}
	options := []echo.TrustOption{echo.TrustLoopback(false), echo.TrustLinkLocal(false), echo.TrustPrivateNet(false)}
	for _, cidr := range trustedProxies {
		_, ipNet, err := net.ParseCIDR(cidr)
		if err != nil {
			return nil, fmt.Errorf("trusted proxy %q: %w", cidr, err)
		}
		options = append(options, echo.TrustIPRange(ipNet))
	}
	return echo.ExtractIPFromXFFHeader(options...), nil
}
