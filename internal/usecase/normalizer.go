package usecase

import (
	"log"
	"strings"
)

// NormalizeBarcode cleans a raw scanned or typed code into a canonical
// digit string, correcting known scanner artifacts:
//   - strips every non-digit character
//   - a double leading zero ("00...") drops exactly one zero, since the
//     scanner is known to double-prepend
//   - a single leading zero on a 13- or 14-digit code drops one zero
//     (erroneously padded UPC-A / EAN-13); a single leading zero on any
//     other length is preserved because legitimate NDC/UPC codes start with 0
//
// Empty or all-non-digit input yields an empty string; callers must treat
// that as invalid and fail fast before querying any source.
func NormalizeBarcode(raw string) string {
	cleaned := stripNonDigits(raw)

	switch {
	case strings.HasPrefix(cleaned, "00"):
		return cleaned[1:]
	case strings.HasPrefix(cleaned, "0") && (len(cleaned) == 13 || len(cleaned) == 14):
		return cleaned[1:]
	}

	return cleaned
}

// NormalizeBarcodeDebug is NormalizeBarcode with diagnostic logging of the
// intermediate steps. Logging never affects the result.
func NormalizeBarcodeDebug(raw string) string {
	cleaned := stripNonDigits(raw)
	normalized := NormalizeBarcode(raw)
	if cleaned != normalized {
		log.Printf("[NORMALIZE] %q cleaned to %q, zero-stripped to %q", raw, cleaned, normalized)
	} else {
		log.Printf("[NORMALIZE] %q cleaned to %q", raw, cleaned)
	}
	return normalized
}

// stripNonDigits removes everything except decimal digits
func stripNonDigits(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}
