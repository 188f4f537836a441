package domain

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"

	documents "reservaMesa/internal/modules/documents/domain"
)

const (
	DateLayout          = "2006-01-02"
	DefaultMaxPartySize = 100
)

// TimeSlots lists the bookable seatings, every 30 minutes from 18:00 to 22:00.
var TimeSlots = []string{"18:00", "18:30", "19:00", "19:30", "20:00", "20:30", "21:00", "21:30", "22:00"}

var phonePattern = regexp.MustCompile(`^[\d\s()+-]+$`)

// ReservationRequest is the booking form submitted by a guest.
type ReservationRequest struct {
	Name         string `json:"nome"`
	Email        string `json:"email"`
	Phone        string `json:"telefone"`
	DocumentType string `json:"tipoDocumento"`
	Document     string `json:"documento"`
	Date         string `json:"data"`
	Time         string `json:"horario"`
	PartySize    int    `json:"numeroPessoas"`
}

// Normalize trims free text fields and lowercases the document type.
func (r ReservationRequest) Normalize() ReservationRequest {
	r.Name = strings.TrimSpace(r.Name)
	r.Email = strings.TrimSpace(r.Email)
	r.Phone = strings.TrimSpace(r.Phone)
	r.DocumentType = strings.ToLower(strings.TrimSpace(r.DocumentType))
	r.Document = strings.TrimSpace(r.Document)
	r.Date = strings.TrimSpace(r.Date)
	r.Time = strings.TrimSpace(r.Time)
	return r
}

// Kind resolves the document kind, KindUnknown when the type is not recognised.
func (r ReservationRequest) Kind() documents.Kind {
	kind, err := documents.ParseKind(r.DocumentType)
	if err != nil {
		return documents.KindUnknown
	}
	return kind
}

// Validate checks every field. Errors are returned as validation.Errors keyed by JSON name.
func (r ReservationRequest) Validate(maxPartySize int) error {
	if maxPartySize <= 0 {
		maxPartySize = DefaultMaxPartySize
	}
	slots := make([]any, 0, len(TimeSlots))
	for _, slot := range TimeSlots {
		slots = append(slots, slot)
	}

	return validation.ValidateStruct(&r,
		validation.Field(&r.Name, validation.Required.Error("Nome é obrigatório"), validation.Length(0, 120)),
		validation.Field(&r.Email, validation.Required.Error("E-mail é obrigatório"), is.EmailFormat.Error("E-mail inválido")),
		validation.Field(&r.Phone,
			validation.Required.Error("Telefone é obrigatório"),
			validation.Match(phonePattern).Error("Telefone inválido"),
		),
		validation.Field(&r.DocumentType,
			validation.Required.Error("Tipo de documento é obrigatório"),
			validation.By(documentTypeRule),
		),
		validation.Field(&r.Document,
			validation.Required.Error(documentLabel(r.DocumentType)+" é obrigatório"),
			validation.By(r.documentRule),
		),
		validation.Field(&r.Date, validation.Required.Error("Selecione uma data"), validation.Date(DateLayout).Error("Data inválida")),
		validation.Field(&r.Time, validation.Required.Error("Horário é obrigatório"), validation.In(slots...).Error("Horário inválido")),
		validation.Field(&r.PartySize,
			validation.Required.Error("Número de pessoas é obrigatório"),
			validation.Min(1).Error("Mínimo 1 pessoa"),
			validation.Max(maxPartySize).Error(fmt.Sprintf("Para grupos acima de %d pessoas, entre em contato diretamente", maxPartySize)),
		),
	)
}

func (r ReservationRequest) documentRule(value any) error {
	raw, _ := value.(string)
	kind := r.Kind()
	if kind == documents.KindUnknown || raw == "" {
		return nil
	}
	if !documents.Validate(kind, raw) {
		return errors.New(kind.Label() + " inválido")
	}
	return nil
}

func documentTypeRule(value any) error {
	raw, _ := value.(string)
	if raw == "" {
		return nil
	}
	if _, err := documents.ParseKind(raw); err != nil {
		return errors.New("Tipo de documento inválido")
	}
	return nil
}

func documentLabel(documentType string) string {
	kind, err := documents.ParseKind(documentType)
	if err != nil {
		return "Documento"
	}
	return kind.Label()
}

// ParseDate parses the request date in the booking layout.
func (r ReservationRequest) ParseDate() (time.Time, error) {
	return time.Parse(DateLayout, r.Date)
}
