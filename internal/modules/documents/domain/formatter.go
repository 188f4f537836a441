package domain

import "strings"

type mask struct {
	groups     []int
	separators []byte
}

var (
	cpfMask  = mask{groups: []int{3, 3, 3, 2}, separators: []byte{'.', '.', '-'}}
	cnpjMask = mask{groups: []int{2, 3, 3, 4, 2}, separators: []byte{'.', '.', '/', '-'}}
)

// StripNonDigits drops every byte outside 0-9.
func StripNonDigits(raw string) string {
	var b strings.Builder
	b.Grow(len(raw))
	for i := 0; i < len(raw); i++ {
		if c := raw[i]; c >= '0' && c <= '9' {
			b.WriteByte(c)
		}
	}
	return b.String()
}

// Format renders raw in the canonical punctuated form of kind. Existing punctuation is
// removed first and digits beyond the kind's length are dropped, so partial input
// yields a partially punctuated prefix and the result is stable under re-application.
func Format(kind Kind, raw string) string {
	digits := StripNonDigits(raw)
	switch kind {
	case KindIndividual:
		return cpfMask.apply(truncate(digits, individualLength))
	case KindBusiness:
		return cnpjMask.apply(truncate(digits, businessLength))
	default:
		return digits
	}
}

// FormatCPF is Format(KindIndividual, raw).
func FormatCPF(raw string) string {
	return Format(KindIndividual, raw)
}

// FormatCNPJ is Format(KindBusiness, raw).
func FormatCNPJ(raw string) string {
	return Format(KindBusiness, raw)
}

// apply writes a separator only when at least one digit follows it.
func (m mask) apply(digits string) string {
	var b strings.Builder
	b.Grow(len(digits) + len(m.separators))
	pos := 0
	for i, size := range m.groups {
		if pos >= len(digits) {
			break
		}
		if i > 0 {
			b.WriteByte(m.separators[i-1])
		}
		end := pos + size
		if end > len(digits) {
			end = len(digits)
		}
		b.WriteString(digits[pos:end])
		pos = end
	}
	return b.String()
}

func truncate(s string, n int) string {
	if len(s) > n {
		return s[:n]
	}
	return s
}
