package validation

import "regexp"

// Kind tipo de sanitización de un campo.
type Kind int

const (
	KindNone Kind = iota
	KindAlpha
	KindAlphanumeric
	KindDigits
)

var (
	nonAlphaRe        = regexp.MustCompile(`[^a-zA-Z\s]+`)
	nonAlphanumericRe = regexp.MustCompile(`[^a-zA-Z0-9]+`)
	nonDigitRe        = regexp.MustCompile(`\D+`)
)

// KindOf devuelve la sanitización que corresponde a un campo de primer nivel.
func KindOf(field string) Kind {
	switch field {
	case FieldName, FieldDistrict:
		return KindAlpha
	case FieldPAN:
		return KindAlphanumeric
	case FieldGST, FieldPhone:
		return KindDigits
	default:
		return KindNone
	}
}

// Sanitize elimina los caracteres no permitidos para kind.
// Es una ayuda de UX: el resultado puede seguir sin pasar la validación (por ejemplo, vacío).
func Sanitize(kind Kind, s string) string {
	switch kind {
	case KindAlpha:
		return nonAlphaRe.ReplaceAllString(s, "")
	case KindAlphanumeric:
		return nonAlphanumericRe.ReplaceAllString(s, "")
	case KindDigits:
		return nonDigitRe.ReplaceAllString(s, "")
	default:
		return s
	}
}

// Paste inserta el texto pegado (sanitizado) en la posición at del valor actual.
// at cuenta caracteres, no bytes; una posición fuera de rango inserta al final.
func Paste(kind Kind, current string, at int, text string) string {
	clean := Sanitize(kind, text)
	runes := []rune(current)
	if at < 0 || at > len(runes) {
		at = len(runes)
	}
	return string(runes[:at]) + clean + string(runes[at:])
}
