package domain

import (
	"time"

	documents "reservaMesa/internal/modules/documents/domain"
)

// Reservation is a persisted booking.
type Reservation struct {
	ID           string            `json:"id"`
	Name         string            `json:"nome"`
	Email        string            `json:"email"`
	Phone        string            `json:"telefone"`
	DocumentKind documents.Kind    `json:"tipoDocumento"`
	Document     string            `json:"documento"`
	Date         string            `json:"data"`
	Time         string            `json:"horario"`
	PartySize    int               `json:"numeroPessoas"`
	TablesNeeded int               `json:"mesas"`
	Status       ReservationStatus `json:"status"`
	DepositCents int64             `json:"depositoCentavos"`
	PaymentID    string            `json:"paymentId,omitempty"`
	InvoiceURL   string            `json:"invoiceUrl,omitempty"`
	VoucherCode  string            `json:"voucher,omitempty"`
	CreatedAt    time.Time         `json:"createdAt"`
	UpdatedAt    time.Time         `json:"updatedAt"`
	ConfirmedAt  *time.Time        `json:"confirmedAt,omitempty"`
}

// NewReservation builds a pending reservation from a validated request. The document is
// stored in its formatted form.
func NewReservation(id string, req ReservationRequest, tablesNeeded int, depositCents int64, now time.Time) Reservation {
	kind := req.Kind()
	return Reservation{
		ID:           id,
		Name:         req.Name,
		Email:        req.Email,
		Phone:        req.Phone,
		DocumentKind: kind,
		Document:     documents.Format(kind, req.Document),
		Date:         req.Date,
		Time:         req.Time,
		PartySize:    req.PartySize,
		TablesNeeded: tablesNeeded,
		Status:       ReservationStatusPendingPayment,
		DepositCents: depositCents,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}

// IsConfirmed reports whether the deposit was paid and a voucher issued.
func (r Reservation) IsConfirmed() bool {
	return r.Status == ReservationStatusConfirmed && r.VoucherCode != ""
}

// Voucher projects the confirmed reservation into the guest voucher.
func (r Reservation) Voucher() (Voucher, bool) {
	if !r.IsConfirmed() {
		return Voucher{}, false
	}
	return Voucher{
		Code:      r.VoucherCode,
		PaymentID: r.PaymentID,
		Reservation: VoucherReservation{
			Name:      r.Name,
			Date:      r.Date,
			Time:      r.Time,
			PartySize: r.PartySize,
		},
	}, true
}

// ReservationList aggregates reservations with pagination metadata.
type ReservationList struct {
	Items []Reservation `json:"items"`
	Total int           `json:"total"`
	Page  int           `json:"page"`
	Limit int           `json:"limit"`
}
