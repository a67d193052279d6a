package usecase

import (
	"strings"

	"github.com/medscan/backend/internal/domain"
)

// brandFamily describes a manufacturer family recognizable from a digit
// substring of the barcode. Used only as a last-resort fallback after
// every external source has failed. The synthesized record names the
// family generically rather than pretending to be an exact product match.
type brandFamily struct {
	substrings   []string
	name         string
	description  string
	manufacturer string
}

// brandFamilies holds the two documented families. Do not extend this
// list silently: each entry changes user-visible correctness guarantees.
var brandFamilies = []brandFamily{
	{
		substrings:   []string{"041100", "41100"},
		name:         "Claritin Product",
		description:  "Loratadine Allergy Relief",
		manufacturer: "Bayer",
	},
	{
		substrings:   []string{"05042", "5042"},
		name:         "CVS Health Product",
		description:  "CVS Brand Medication",
		manufacturer: "CVS Health",
	},
}

// guessFromBrandPattern synthesizes a generic record when the barcode
// contains a substring known to belong to a manufacturer family. Returns
// ErrNoHeuristicMatch when no family substring is present.
func guessFromBrandPattern(digits string) (*domain.ProductRecord, error) {
	for _, family := range brandFamilies {
		for _, sub := range family.substrings {
			if strings.Contains(digits, sub) {
				return &domain.ProductRecord{
					Name:         family.name,
					Description:  family.description,
					Manufacturer: family.manufacturer,
					Barcode:      digits,
					Category:     domain.CategoryOTC,
					Source:       "heuristic",
				}, nil
			}
		}
	}
	return nil, domain.ErrNoHeuristicMatch
}
