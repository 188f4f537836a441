package transport

import (
	"net/http"

	"reservaMesa/internal/modules/reservations/domain"
	"reservaMesa/internal/modules/reservations/infrastructure"
	"reservaMesa/internal/shared/httputil"
)

func newErrorMapper() *httputil.ErrorMapper {
	return httputil.NewErrorMapper().
		WithFieldMapping(domain.ErrMissingPaymentID, http.StatusBadRequest, httputil.CodeValidation, "paymentId", "paymentId é obrigatório").
		WithMapping(domain.ErrReservationNotFound, http.StatusNotFound, httputil.CodeNotFound, "reserva não encontrada").
		WithMapping(domain.ErrVoucherNotReady, http.StatusNotFound, httputil.CodeNotFound, "voucher ainda não disponível").
		WithMapping(domain.ErrNoAvailability, http.StatusConflict, httputil.CodeConflict, "não há mesas disponíveis para este horário").
		WithMapping(domain.ErrAlreadyCancelled, http.StatusConflict, httputil.CodeConflict, "reserva cancelada").
		WithMapping(domain.ErrAlreadyConfirmed, http.StatusConflict, httputil.CodeConflict, "reserva já confirmada").
		WithMapping(domain.ErrUnderpaid, http.StatusConflict, httputil.CodeConflict, "valor pago abaixo do sinal").
		WithMapping(infrastructure.ErrPaymentRejected, http.StatusBadGateway, httputil.CodeBadGateway, "não foi possível criar a cobrança")
}
