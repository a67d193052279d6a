package usecase

import (
	"strings"

	"github.com/medscan/backend/internal/domain"
)

// ndcLabelerPrefixes are 3-5 digit prefixes known to belong to
// pharmaceutical labelers. A 10-11 digit code starting with one of these
// is classified as NDC.
var ndcLabelerPrefixes = []string{
	"05042", // CVS Health
	"300", "305", "311", "312", "350", "381", // common medicine labelers
	"041", "050",
}

// ClassifyBarcode infers the symbology of a normalized digit string from
// its length and prefix. Deterministic and pure; no I/O.
func ClassifyBarcode(digits string) domain.Symbology {
	switch len(digits) {
	case 12:
		return domain.SymbologyUPCA
	case 13:
		return domain.SymbologyEAN13
	case 10, 11:
		if hasNDCPrefix(digits) {
			return domain.SymbologyNDC
		}
		return domain.SymbologyUnknown
	default:
		return domain.SymbologyUnknown
	}
}

// Canonicalize normalizes a raw code and attaches its inferred symbology
func Canonicalize(raw string) domain.CanonicalCode {
	digits := NormalizeBarcode(raw)
	return domain.CanonicalCode{
		Digits:    digits,
		Symbology: ClassifyBarcode(digits),
	}
}

// hasNDCPrefix checks the labeler prefix table plus the broad 3/4 first-digit
// rule used for prescription drug codes
func hasNDCPrefix(digits string) bool {
	for _, prefix := range ndcLabelerPrefixes {
		if strings.HasPrefix(digits, prefix) {
			return true
		}
	}
	return strings.HasPrefix(digits, "3") || strings.HasPrefix(digits, "4")
}
