package metrics

import (
	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	ReservationsCreated = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "reservations_created_total",
			Help: "Total number of reservations accepted, by document kind",
		},
		[]string{"document_kind"},
	)

	ReservationsRejected = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "reservations_rejected_total",
			Help: "Total number of reservation requests rejected",
		},
		[]string{"reason"},
	)

	ReservationsCancelled = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "reservations_cancelled_total",
			Help: "Total number of pending reservations released, by reason",
		},
		[]string{"reason"},
	)

	VouchersIssued = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "vouchers_issued_total",
			Help: "Total number of vouchers issued after payment confirmation",
		},
	)

	PaymentCharges = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "payment_charges_total",
			Help: "Total number of payment charges requested, by provider and outcome",
		},
		[]string{"provider", "outcome"},
	)

	AdminLogins = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "admin_logins_total",
			Help: "Total number of admin login attempts, by outcome",
		},
		[]string{"outcome"},
	)

	WebsocketClients = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "voucher_websocket_clients",
			Help: "Number of websocket clients waiting for a voucher",
		},
	)
)

// Handler exposes the default registry for echo.
func Handler() echo.HandlerFunc {
	return echo.WrapHandler(promhttp.Handler())
}
