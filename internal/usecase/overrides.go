package usecase

import (
	"strings"

	"github.com/medscan/backend/internal/domain"
)

// OverrideTable is a fixed mapping of known barcodes to verified product
// records. It is consulted before any network call, guaranteeing
// zero-latency, zero-failure resolution for its entries. The table is
// read-only after construction and safe for concurrent use.
type OverrideTable struct {
	entries map[string]domain.ProductRecord
}

// NewOverrideTable creates an override table from the given entries,
// keyed by barcode
func NewOverrideTable(records []domain.ProductRecord) *OverrideTable {
	entries := make(map[string]domain.ProductRecord, len(records))
	for _, r := range records {
		entries[r.Barcode] = r
	}
	return &OverrideTable{entries: entries}
}

// DefaultOverrideTable returns the table of verified popular medications.
// Some entries were recorded before the normalization rules stabilized,
// which is why several barcodes appear both with and without the leading zero.
func DefaultOverrideTable() *OverrideTable {
	return NewOverrideTable([]domain.ProductRecord{
		// Claritin products
		{
			Name:         "Claritin 24-Hour Allergy Relief",
			Description:  "Loratadine 10mg Tablets (30 count)",
			Manufacturer: "Bayer",
			Barcode:      "041100010174",
			Category:     domain.CategoryOTC,
		},
		{
			Name:         "Claritin 24-Hour Allergy Relief",
			Description:  "Loratadine 10mg Tablets (30 count)",
			Manufacturer: "Bayer",
			Barcode:      "41100010174",
			Category:     domain.CategoryOTC,
		},
		{
			Name:         "Claritin 24-Hour Allergy Relief",
			Description:  "Loratadine 10mg Tablets (30 count)",
			Manufacturer: "Bayer",
			Barcode:      "041100766613",
			Category:     domain.CategoryOTC,
		},
		{
			Name:         "Claritin 24-Hour Allergy Relief",
			Description:  "Loratadine 10mg Tablets (10 count)",
			Manufacturer: "Bayer",
			Barcode:      "041100010167",
			Category:     domain.CategoryOTC,
		},

		// CVS Health products
		{
			Name:         "CVS Health Allergy Relief",
			Description:  "Loratadine 10mg Tablets (30 count)",
			Manufacturer: "CVS Health",
			Barcode:      "050428462701",
			Category:     domain.CategoryOTC,
		},
		{
			Name:         "CVS Health Allergy Relief",
			Description:  "Loratadine 10mg Tablets (30 count)",
			Manufacturer: "CVS Health",
			Barcode:      "50428462701",
			Category:     domain.CategoryOTC,
		},
	})
}

// Lookup returns the verified record for a code, if present. Matching is
// exact on the normalized code and, defensively, on a variant with one
// leading zero added or removed.
func (t *OverrideTable) Lookup(digits string) (*domain.ProductRecord, bool) {
	for _, candidate := range zeroVariants(digits) {
		if record, ok := t.entries[candidate]; ok {
			found := record
			found.Source = "overrides"
			return &found, true
		}
	}
	return nil, false
}

// Size returns the number of entries in the table
func (t *OverrideTable) Size() int {
	return len(t.entries)
}

// zeroVariants returns the code itself, the code with one leading zero
// prepended, and (when it starts with zero) the code with one leading
// zero removed
func zeroVariants(digits string) []string {
	if digits == "" {
		return nil
	}
	variants := []string{digits, "0" + digits}
	if strings.HasPrefix(digits, "0") {
		variants = append(variants, digits[1:])
	}
	return variants
}
