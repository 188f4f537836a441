package domain

import (
	"strings"

	"github.com/google/uuid"

	"reservaMesa/internal/shared/normalization"
)

const voucherCodeLength = 8

// VoucherReservation summarises the booking printed on the voucher.
type VoucherReservation struct {
	Name      string `json:"nome"`
	Date      string `json:"data"`
	Time      string `json:"horario"`
	PartySize int    `json:"numeroPessoas"`
}

// Voucher is handed to the guest once the deposit is confirmed.
type Voucher struct {
	Code        string             `json:"codigo"`
	PaymentID   string             `json:"paymentId,omitempty"`
	Reservation VoucherReservation `json:"reservation"`
}

// NewVoucherCode returns PREFIX-XXXXXXXX with eight upper case hex characters.
func NewVoucherCode(prefix string) string {
	prefix = strings.ToUpper(strings.TrimSpace(prefix))
	if prefix == "" {
		prefix = "RES"
	}
	random := strings.ReplaceAll(uuid.NewString(), "-", "")
	return prefix + "-" + strings.ToUpper(random[:voucherCodeLength])
}

// BuildVoucher extracts a voucher from a decoded JSON payload, unwrapping a
// {"data": {...}} envelope when present.
func BuildVoucher(payload any) (*Voucher, bool) {
	container := normalization.MapFromPayload(payload)
	if len(container) == 0 {
		return nil, false
	}
	if nested, ok := container["voucher"].(map[string]any); ok {
		container = nested
	}

	code := normalization.FirstString(container, "codigo", "code")
	if code == "" {
		return nil, false
	}

	voucher := &Voucher{
		Code:      code,
		PaymentID: normalization.AsString(container["paymentId"]),
	}
	if reservation, ok := container["reservation"].(map[string]any); ok {
		voucher.Reservation = VoucherReservation{
			Name:      normalization.FirstString(reservation, "nome", "name"),
			Date:      normalization.FirstString(reservation, "data", "date"),
			Time:      normalization.FirstString(reservation, "horario", "time"),
			PartySize: normalization.AsInt(reservation["numeroPessoas"]),
		}
	}
	return voucher, true
}
