package domain

import "errors"

var (
	ErrInvalidLength  = errors.New("document has invalid length")
	ErrRepeatedDigits = errors.New("document digits are all identical")
	ErrChecksum       = errors.New("document check digits do not match")
)

// Validate reports whether raw is a structurally and checksum-valid identifier of the given kind.
func Validate(kind Kind, raw string) bool {
	return Check(kind, raw) == nil
}

// ValidateCPF is Validate(KindIndividual, raw).
func ValidateCPF(raw string) bool {
	return Validate(KindIndividual, raw)
}

// ValidateCNPJ is Validate(KindBusiness, raw).
func ValidateCNPJ(raw string) bool {
	return Validate(KindBusiness, raw)
}

// Check is the error-returning form of Validate. Length and repeated-digit failures are
// detected before any checksum is computed.
func Check(kind Kind, raw string) error {
	if kind == KindUnknown {
		return ErrUnknownKind
	}
	digits := digitValues(StripNonDigits(raw))
	if len(digits) != kind.Length() {
		return ErrInvalidLength
	}
	if allEqual(digits) {
		return ErrRepeatedDigits
	}

	var ok bool
	switch kind {
	case KindIndividual:
		ok = cpfCheckDigit(digits[:9]) == digits[9] && cpfCheckDigit(digits[:10]) == digits[10]
	case KindBusiness:
		ok = cnpjCheckDigit(digits[:12]) == digits[12] && cnpjCheckDigit(digits[:13]) == digits[13]
	}
	if !ok {
		return ErrChecksum
	}
	return nil
}

// cpfCheckDigit weights the prefix from len+1 down to 2. A remainder of 10 collapses to 0.
func cpfCheckDigit(prefix []int) int {
	sum := 0
	weight := len(prefix) + 1
	for _, d := range prefix {
		sum += d * weight
		weight--
	}
	rest := (sum * 10) % 11
	if rest >= 10 {
		return 0
	}
	return rest
}

// cnpjCheckDigit weights the prefix right to left with 2..9, wrapping back to 2.
func cnpjCheckDigit(prefix []int) int {
	sum := 0
	weight := len(prefix) - 7
	for _, d := range prefix {
		sum += d * weight
		weight--
		if weight < 2 {
			weight = 9
		}
	}
	rest := sum % 11
	if rest < 2 {
		return 0
	}
	return 11 - rest
}

func digitValues(digits string) []int {
	values := make([]int, len(digits))
	for i := 0; i < len(digits); i++ {
		values[i] = int(digits[i] - '0')
	}
	return values
}

func allEqual(values []int) bool {
	for _, v := range values[1:] {
		if v != values[0] {
			return false
		}
	}
	return true
}
