package domain

import (
	"context"

	"github.com/google/uuid"
)

// RecordStore defines the interface to the durable product catalog.
// The pipeline only reads via FindByBarcode/Exists; writing a resolved
// record back is the caller's responsibility.
type RecordStore interface {
	FindByBarcode(ctx context.Context, barcode string) (*ProductRecord, error)
	FindByID(ctx context.Context, id uuid.UUID) (*ProductRecord, error)
	Exists(ctx context.Context, barcode string) (bool, error)
	Upsert(ctx context.Context, record *ProductRecord) error
	Delete(ctx context.Context, barcode string) error
	List(ctx context.Context) ([]*ProductRecord, error)
}

// SourceAdapter defines the interface for one external lookup source.
// Implementations differ only in endpoint construction, response schema
// decoding, and which fields map into the ProductRecord. An empty result
// list from the provider is a failure, never a success with blank fields.
type SourceAdapter interface {
	Name() string
	Lookup(ctx context.Context, code CanonicalCode) (*ProductRecord, error)
}
