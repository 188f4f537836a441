package transport

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"

	"reservaMesa/internal/modules/reservations/application/usecase"
	"reservaMesa/internal/modules/reservations/domain"
	"reservaMesa/internal/modules/reservations/infrastructure"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// NewVoucherWebsocketHandler exposes /ws/vouchers/:paymentId. The client is subscribed before
// the current state is read so a voucher issued in between is still delivered.
func NewVoucherWebsocketHandler(hub *infrastructure.Hub, getVoucher *usecase.GetVoucherUseCase, voucherTopic string) echo.HandlerFunc {
	return func(c echo.Context) error {
		paymentID := strings.TrimSpace(c.Param("paymentId"))
		if paymentID == "" {
			paymentID = strings.TrimSpace(c.QueryParam("paymentId"))
		}
		if paymentID == "" {
			return echo.NewHTTPError(http.StatusBadRequest, "paymentId é obrigatório")
		}

		conn, err := upgrader.Upgrade(c.Response(), c.Request(), nil)
		if err != nil {
			slog.Warn("ws upgrade failed", slog.String("paymentId", paymentID), slog.Any("error", err))
			return nil
		}

		client := infrastructure.NewClient(hub, conn, paymentID, 4)
		hub.AttachClient(client)
		go client.WritePump()

		voucher, err := getVoucher.Execute(c.Request().Context(), paymentID)
		switch {
		case err == nil:
			event := domain.NewVoucherIssuedEvent(voucherTopic, *voucher, time.Now())
			client.SendEvent(&event)
		case errors.Is(err, domain.ErrVoucherNotReady), errors.Is(err, domain.ErrReservationNotFound):
			slog.Debug("ws waiting for voucher", slog.String("paymentId", paymentID))
		default:
			slog.Warn("ws voucher lookup failed", slog.String("paymentId", paymentID), slog.Any("error", err))
		}

		client.ReadPump()
		return nil
	}
}
