package openfda

import (
	"strings"

	"github.com/medscan/backend/internal/domain"
)

// directoryResponse is the openFDA drug NDC directory response schema
type directoryResponse struct {
	Results []directoryResult `json:"results"`
}

type directoryResult struct {
	ProductNDC        string             `json:"product_ndc"`
	GenericName       string             `json:"generic_name"`
	BrandName         string             `json:"brand_name"`
	LabelerName       string             `json:"labeler_name"`
	DosageForm        string             `json:"dosage_form"`
	ProductType       string             `json:"product_type"`
	ActiveIngredients []activeIngredient `json:"active_ingredients"`
	PharmClass        []string           `json:"pharm_class"`
}

type activeIngredient struct {
	Name     string `json:"name"`
	Strength string `json:"strength"`
}

// mapToRecord converts a directory entry to the canonical record shape.
// Brand name is preferred over generic name; dosage form is preferred
// over the pharmacological class list for the description.
func mapToRecord(result *directoryResult, barcode string) *domain.ProductRecord {
	name := result.BrandName
	if name == "" {
		name = result.GenericName
	}
	if name == "" {
		name = "Unknown"
	}

	description := result.DosageForm
	if description == "" && len(result.PharmClass) > 0 {
		description = strings.Join(result.PharmClass, ", ")
	}
	if description == "" {
		description = "No description available"
	}

	manufacturer := result.LabelerName
	if manufacturer == "" {
		manufacturer = "Unknown"
	}

	return &domain.ProductRecord{
		Name:         name,
		Description:  description,
		Manufacturer: manufacturer,
		Barcode:      barcode,
		Category:     categoryFromProductType(result.ProductType),
	}
}

// categoryFromProductType maps the directory's product_type field
// (e.g. "HUMAN PRESCRIPTION DRUG", "HUMAN OTC DRUG") onto the record
// category. Anything without a prescription marker defaults to OTC.
func categoryFromProductType(productType string) domain.Category {
	if strings.Contains(strings.ToUpper(productType), "PRESCRIPTION") {
		return domain.CategoryPrescription
	}
	return domain.CategoryOTC
}
