package schedule

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// NormalizeName folds a location name into its matching key: accents
// stripped, lower-cased, inner whitespace collapsed. Booking records and
// location configs may spell the same branch with or without diacritics
// ("São Paulo" vs "Sao Paulo"); both fold to "sao paulo".
func NormalizeName(name string) string {
	// transform chains carry state, so build one per call.
	stripper := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	folded, _, err := transform.String(stripper, name)
	if err != nil {
		folded = name
	}
	return strings.Join(strings.Fields(strings.ToLower(folded)), " ")
}

// NormalizePhone strips everything but digits.
func NormalizePhone(phone string) string {
	var b strings.Builder
	for _, r := range phone {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// ValidationError is a field-scoped input error, resolved by re-entry
// before any store call is made.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Field + ": " + e.Message
}

// ValidateClient checks booking client fields. Phone must normalize to 10
// or 11 digits (Brazilian fixed/mobile with area code).
func ValidateClient(name, phone string) (normalizedPhone string, err error) {
	if strings.TrimSpace(name) == "" {
		return "", &ValidationError{Field: "client_name", Message: "client name is required"}
	}
	digits := NormalizePhone(phone)
	if len(digits) != 10 && len(digits) != 11 {
		return "", &ValidationError{Field: "client_phone", Message: "phone must have 10 or 11 digits"}
	}
	return digits, nil
}
