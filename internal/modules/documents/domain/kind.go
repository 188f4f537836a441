package domain

import (
	"errors"
	"strings"
)

// Kind distinguishes the two Brazilian taxpayer identifiers accepted by the reservation form.
type Kind uint8

const (
	KindUnknown Kind = iota
	// KindIndividual is a CPF, issued to natural persons (11 digits).
	KindIndividual
	// KindBusiness is a CNPJ, issued to legal entities (14 digits).
	KindBusiness
)

const (
	individualLength = 11
	businessLength   = 14
)

// ErrUnknownKind is returned by ParseKind for tags outside {cpf, cnpj}.
var ErrUnknownKind = errors.New("unknown document kind")

var kindAliases = map[string]Kind{
	"cpf":        KindIndividual,
	"individual": KindIndividual,
	"pf":         KindIndividual,
	"cnpj":       KindBusiness,
	"business":   KindBusiness,
	"pj":         KindBusiness,
}

// ParseKind maps the wire tag used by clients onto a Kind.
func ParseKind(raw string) (Kind, error) {
	if kind, ok := kindAliases[strings.ToLower(strings.TrimSpace(raw))]; ok {
		return kind, nil
	}
	return KindUnknown, ErrUnknownKind
}

// String returns the wire tag ("cpf" or "cnpj").
func (k Kind) String() string {
	switch k {
	case KindIndividual:
		return "cpf"
	case KindBusiness:
		return "cnpj"
	default:
		return "unknown"
	}
}

// Label is the upper-case name shown to guests.
func (k Kind) Label() string {
	return strings.ToUpper(k.String())
}

// Length reports the number of digits of a complete identifier, or 0 for KindUnknown.
func (k Kind) Length() int {
	switch k {
	case KindIndividual:
		return individualLength
	case KindBusiness:
		return businessLength
	default:
		return 0
	}
}

// Placeholder is the punctuated mask used by form inputs.
func (k Kind) Placeholder() string {
	switch k {
	case KindIndividual:
		return "000.000.000-00"
	case KindBusiness:
		return "00.000.000/0000-00"
	default:
		return ""
	}
}

// MarshalText encodes the kind using its wire tag.
func (k Kind) MarshalText() ([]byte, error) {
	if k == KindUnknown {
		return nil, ErrUnknownKind
	}
	return []byte(k.String()), nil
}

// UnmarshalText accepts any alias understood by ParseKind.
func (k *Kind) UnmarshalText(text []byte) error {
	parsed, err := ParseKind(string(text))
	if err != nil {
		return err
	}
	*k = parsed
	return nil
}
