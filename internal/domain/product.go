package domain

import (
	"time"

	"github.com/google/uuid"
)

// Symbology identifies the barcode format of a canonical code
type Symbology string

const (
	SymbologyUPCA    Symbology = "UPC_A"  // 12-digit retail barcode
	SymbologyEAN13   Symbology = "EAN_13" // 13-digit retail barcode
	SymbologyNDC     Symbology = "NDC"    // 10-11 digit National Drug Code
	SymbologyUnknown Symbology = "UNKNOWN"
)

// Category classifies a product as prescription or over-the-counter.
// OTC is the default when a source provides no classification signal.
type Category string

const (
	CategoryPrescription Category = "PRESCRIPTION"
	CategoryOTC          Category = "OTC"
)

// CanonicalCode is a normalized digit-only barcode plus its inferred symbology
type CanonicalCode struct {
	Digits    string    `json:"digits"`
	Symbology Symbology `json:"symbology"`
}

// IsEmpty reports whether normalization produced no digits at all
func (c CanonicalCode) IsEmpty() bool {
	return c.Digits == ""
}

// ProductRecord is the canonical product shape every lookup source maps into.
// Barcode is immutable once created; the remaining fields may be edited by
// the caller before the record is persisted.
type ProductRecord struct {
	ID             uuid.UUID  `json:"id"`
	Name           string     `json:"name"`
	Description    string     `json:"description"`
	Manufacturer   string     `json:"manufacturer"`
	Barcode        string     `json:"barcode"`
	ExpirationDate *time.Time `json:"expirationDate,omitempty"`
	Category       Category   `json:"category"`
	Source         string     `json:"source"` // which stage or provider answered
	DateAdded      time.Time  `json:"dateAdded,omitempty"`
}

// ResolveRequest represents a barcode resolution request
type ResolveRequest struct {
	Code string `json:"code" binding:"required"`
}
