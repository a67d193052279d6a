package store

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/medscan/backend/internal/domain"
)

// MemoryStore is a thread-safe in-memory record store keyed by barcode,
// with a secondary index by record ID. Barcodes are unique; upserting an
// existing barcode overwrites the previous record (last writer wins).
type MemoryStore struct {
	byBarcode map[string]*domain.ProductRecord
	byID      map[uuid.UUID]*domain.ProductRecord
	mutex     sync.RWMutex
}

// NewMemoryStore creates an empty in-memory record store
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		byBarcode: make(map[string]*domain.ProductRecord),
		byID:      make(map[uuid.UUID]*domain.ProductRecord),
	}
}

// FindByBarcode retrieves a record by exact barcode match
func (s *MemoryStore) FindByBarcode(ctx context.Context, barcode string) (*domain.ProductRecord, error) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	record, exists := s.byBarcode[barcode]
	if !exists {
		return nil, domain.ErrRecordNotFound
	}

	found := *record
	return &found, nil
}

// FindByID retrieves a record by its identifier
func (s *MemoryStore) FindByID(ctx context.Context, id uuid.UUID) (*domain.ProductRecord, error) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	record, exists := s.byID[id]
	if !exists {
		return nil, domain.ErrRecordNotFound
	}

	found := *record
	return &found, nil
}

// Exists checks whether a barcode already has a record
func (s *MemoryStore) Exists(ctx context.Context, barcode string) (bool, error) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	_, exists := s.byBarcode[barcode]
	return exists, nil
}

// Upsert inserts or replaces the record for its barcode. A zero ID gets a
// fresh one, a zero DateAdded is stamped now, and a missing expiration
// date defaults to one year out.
func (s *MemoryStore) Upsert(ctx context.Context, record *domain.ProductRecord) error {
	if record.Barcode == "" {
		return domain.ErrInvalidBarcode
	}

	s.mutex.Lock()
	defer s.mutex.Unlock()

	stored := *record
	if stored.ID == uuid.Nil {
		stored.ID = uuid.New()
	}
	if stored.DateAdded.IsZero() {
		stored.DateAdded = time.Now()
	}
	if stored.ExpirationDate == nil {
		expiration := time.Now().AddDate(1, 0, 0)
		stored.ExpirationDate = &expiration
	}
	if stored.Category == "" {
		stored.Category = domain.CategoryOTC
	}

	if previous, exists := s.byBarcode[stored.Barcode]; exists {
		delete(s.byID, previous.ID)
	}
	s.byBarcode[stored.Barcode] = &stored
	s.byID[stored.ID] = &stored

	record.ID = stored.ID
	return nil
}

// Delete removes the record for a barcode. Deleting an absent barcode
// returns ErrRecordNotFound.
func (s *MemoryStore) Delete(ctx context.Context, barcode string) error {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	record, exists := s.byBarcode[barcode]
	if !exists {
		return domain.ErrRecordNotFound
	}

	delete(s.byBarcode, barcode)
	delete(s.byID, record.ID)
	return nil
}

// List returns all records sorted by name
func (s *MemoryStore) List(ctx context.Context) ([]*domain.ProductRecord, error) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	records := make([]*domain.ProductRecord, 0, len(s.byBarcode))
	for _, record := range s.byBarcode {
		found := *record
		records = append(records, &found)
	}

	sort.Slice(records, func(i, j int) bool {
		return strings.ToLower(records[i].Name) < strings.ToLower(records[j].Name)
	})

	return records, nil
}

// Size returns the current number of records (for debugging/monitoring)
func (s *MemoryStore) Size() int {
	s.mutex.RLock()
	defer s.mutex.RUnlock()
	return len(s.byBarcode)
}

// Clear removes all records from the store
func (s *MemoryStore) Clear() {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	s.byBarcode = make(map[string]*domain.ProductRecord)
	s.byID = make(map[uuid.UUID]*domain.ProductRecord)
}
