package usecase

import (
	"fmt"

	"github.com/medscan/backend/internal/domain"
)

// FormatForSource renders a canonical code in the representation the
// external sources expect. NDC codes get conventional hyphen grouping
// (5-4-2 for 11 digits, 5-3-2 for 10); UPC/EAN/unknown codes pass through
// as bare digits. Formatting is lossless: only hyphen placement differs,
// so a failed query can always be retried with the bare digit string.
func FormatForSource(code domain.CanonicalCode) string {
	if code.Symbology != domain.SymbologyNDC {
		return code.Digits
	}

	digits := code.Digits
	switch len(digits) {
	case 11:
		return fmt.Sprintf("%s-%s-%s", digits[:5], digits[5:9], digits[9:])
	case 10:
		return fmt.Sprintf("%s-%s-%s", digits[:5], digits[5:8], digits[8:])
	default:
		return digits
	}
}
