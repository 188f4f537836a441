package transport

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"reservaMesa/internal/modules/reservations/application/usecase"
	"reservaMesa/internal/modules/reservations/domain"
	"reservaMesa/internal/shared/httputil"
)

type createReservationResponse struct {
	ReservationID string                   `json:"reservationId"`
	PaymentID     string                   `json:"paymentId"`
	InvoiceURL    string                   `json:"invoiceUrl"`
	Status        domain.ReservationStatus `json:"status"`
	TablesNeeded  int                      `json:"mesas"`
}

// Handler serves the guest facing reservation endpoints.
type Handler struct {
	create     *usecase.CreateReservationUseCase
	getVoucher *usecase.GetVoucherUseCase
	confirm    *usecase.ConfirmPaymentUseCase
	cancel     *usecase.CancelPaymentUseCase
	webhooks   WebhookConfig
	mapper     *httputil.ErrorMapper
}

func NewHandler(
	create *usecase.CreateReservationUseCase,
	getVoucher *usecase.GetVoucherUseCase,
	confirm *usecase.ConfirmPaymentUseCase,
	cancel *usecase.CancelPaymentUseCase,
	webhooks WebhookConfig,
) *Handler {
	return &Handler{
		create:     create,
		getVoucher: getVoucher,
		confirm:    confirm,
		cancel:     cancel,
		webhooks:   webhooks,
		mapper:     newErrorMapper(),
	}
}

func (h *Handler) RegisterRoutes(g *echo.Group) {
	g.POST("/reservations", h.CreateReservation)
	g.GET("/vouchers", h.GetVoucher)
	g.GET("/get-voucher", h.GetVoucher)
	g.POST("/webhooks/asaas", h.AsaasWebhook)
	g.POST("/webhooks/stripe", h.StripeWebhook)
}

// CreateReservation serves POST /api/reservations and answers with the invoice the guest
// must pay to confirm the booking.
func (h *Handler) CreateReservation(c echo.Context) error {
	var req domain.ReservationRequest
	if err := c.Bind(&req); err != nil {
		return httputil.Fail(c, http.StatusBadRequest, httputil.ErrorBody{Message: "corpo da requisição inválido", Code: httputil.CodeValidation})
	}

	out, err := h.create.Execute(c.Request().Context(), req)
	if err != nil {
		return httputil.FailWith(c, h.mapper, err)
	}
	return httputil.OK(c, http.StatusCreated, createReservationResponse{
		ReservationID: out.Reservation.ID,
		PaymentID:     out.PaymentID,
		InvoiceURL:    out.InvoiceURL,
		Status:        out.Reservation.Status,
		TablesNeeded:  out.Reservation.TablesNeeded,
	})
}

// GetVoucher serves GET /api/vouchers?paymentId=; 404 until the deposit is confirmed.
func (h *Handler) GetVoucher(c echo.Context) error {
	paymentID := c.QueryParam("paymentId")
	if paymentID == "" {
		paymentID = c.QueryParam("payment_id")
	}
	voucher, err := h.getVoucher.Execute(c.Request().Context(), paymentID)
	if err != nil {
		return httputil.FailWith(c, h.mapper, err)
	}
	return httputil.OK(c, http.StatusOK, voucher)
}
