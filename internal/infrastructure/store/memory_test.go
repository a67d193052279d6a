package store

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/medscan/backend/internal/domain"
)

func testRecord(name, barcode string) *domain.ProductRecord {
	return &domain.ProductRecord{
		Name:         name,
		Description:  "test product",
		Manufacturer: "Test Labs",
		Barcode:      barcode,
		Category:     domain.CategoryOTC,
	}
}

func TestMemoryStore_UpsertAndFind(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	record := testRecord("Aspirin", "300123456789")
	if err := s.Upsert(ctx, record); err != nil {
		t.Fatalf("Upsert error: %v", err)
	}

	t.Run("assigns an ID on insert", func(t *testing.T) {
		if record.ID == uuid.Nil {
			t.Error("expected a non-nil ID after Upsert")
		}
	})

	t.Run("finds by barcode", func(t *testing.T) {
		found, err := s.FindByBarcode(ctx, "300123456789")
		if err != nil {
			t.Fatalf("FindByBarcode error: %v", err)
		}
		if found.Name != "Aspirin" {
			t.Errorf("Name = %q, want Aspirin", found.Name)
		}
	})

	t.Run("finds by ID", func(t *testing.T) {
		found, err := s.FindByID(ctx, record.ID)
		if err != nil {
			t.Fatalf("FindByID error: %v", err)
		}
		if found.Barcode != "300123456789" {
			t.Errorf("Barcode = %q, want 300123456789", found.Barcode)
		}
	})

	t.Run("defaults expiration one year out", func(t *testing.T) {
		found, _ := s.FindByBarcode(ctx, "300123456789")
		if found.ExpirationDate == nil {
			t.Fatal("expected a defaulted expiration date")
		}
		until := time.Until(*found.ExpirationDate)
		if until < 360*24*time.Hour || until > 370*24*time.Hour {
			t.Errorf("expiration %v not roughly one year out", found.ExpirationDate)
		}
	})

	t.Run("stamps DateAdded", func(t *testing.T) {
		found, _ := s.FindByBarcode(ctx, "300123456789")
		if found.DateAdded.IsZero() {
			t.Error("expected DateAdded to be stamped")
		}
	})
}

func TestMemoryStore_FindMisses(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	if _, err := s.FindByBarcode(ctx, "999999999999"); !errors.Is(err, domain.ErrRecordNotFound) {
		t.Errorf("FindByBarcode err = %v, want ErrRecordNotFound", err)
	}
	if _, err := s.FindByID(ctx, uuid.New()); !errors.Is(err, domain.ErrRecordNotFound) {
		t.Errorf("FindByID err = %v, want ErrRecordNotFound", err)
	}
}

func TestMemoryStore_Exists(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	exists, err := s.Exists(ctx, "300123456789")
	if err != nil || exists {
		t.Errorf("Exists = %v, %v; want false, nil", exists, err)
	}

	s.Upsert(ctx, testRecord("Aspirin", "300123456789"))

	exists, err = s.Exists(ctx, "300123456789")
	if err != nil || !exists {
		t.Errorf("Exists = %v, %v; want true, nil", exists, err)
	}
}

func TestMemoryStore_UpsertLastWriterWins(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	first := testRecord("Aspirin", "300123456789")
	s.Upsert(ctx, first)
	firstID := first.ID

	second := testRecord("Aspirin 500mg", "300123456789")
	if err := s.Upsert(ctx, second); err != nil {
		t.Fatalf("Upsert error: %v", err)
	}

	found, err := s.FindByBarcode(ctx, "300123456789")
	if err != nil {
		t.Fatalf("FindByBarcode error: %v", err)
	}
	if found.Name != "Aspirin 500mg" {
		t.Errorf("Name = %q, want the replacement record", found.Name)
	}
	if s.Size() != 1 {
		t.Errorf("Size = %d, want 1 (barcode is unique)", s.Size())
	}

	// the replaced record's ID no longer resolves
	if _, err := s.FindByID(ctx, firstID); !errors.Is(err, domain.ErrRecordNotFound) {
		t.Errorf("FindByID(old) err = %v, want ErrRecordNotFound", err)
	}
}

func TestMemoryStore_UpsertRejectsEmptyBarcode(t *testing.T) {
	s := NewMemoryStore()

	err := s.Upsert(context.Background(), testRecord("Nameless", ""))
	if !errors.Is(err, domain.ErrInvalidBarcode) {
		t.Errorf("err = %v, want ErrInvalidBarcode", err)
	}
}

func TestMemoryStore_Delete(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	record := testRecord("Aspirin", "300123456789")
	s.Upsert(ctx, record)

	if err := s.Delete(ctx, "300123456789"); err != nil {
		t.Fatalf("Delete error: %v", err)
	}
	if _, err := s.FindByBarcode(ctx, "300123456789"); !errors.Is(err, domain.ErrRecordNotFound) {
		t.Errorf("record still present after delete")
	}
	if _, err := s.FindByID(ctx, record.ID); !errors.Is(err, domain.ErrRecordNotFound) {
		t.Errorf("ID index still present after delete")
	}

	if err := s.Delete(ctx, "300123456789"); !errors.Is(err, domain.ErrRecordNotFound) {
		t.Errorf("second Delete err = %v, want ErrRecordNotFound", err)
	}
}

func TestMemoryStore_ListSortedByName(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	s.Upsert(ctx, testRecord("Zyrtec", "300000000001"))
	s.Upsert(ctx, testRecord("aspirin", "300000000002"))
	s.Upsert(ctx, testRecord("Claritin", "300000000003"))

	records, err := s.List(ctx)
	if err != nil {
		t.Fatalf("List error: %v", err)
	}
	if len(records) != 3 {
		t.Fatalf("len = %d, want 3", len(records))
	}

	wantOrder := []string{"aspirin", "Claritin", "Zyrtec"}
	for i, want := range wantOrder {
		if records[i].Name != want {
			t.Errorf("records[%d].Name = %q, want %q (case-insensitive sort)", i, records[i].Name, want)
		}
	}
}

func TestMemoryStore_ReturnsCopies(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	s.Upsert(ctx, testRecord("Aspirin", "300123456789"))

	found, _ := s.FindByBarcode(ctx, "300123456789")
	found.Name = "mutated"

	again, _ := s.FindByBarcode(ctx, "300123456789")
	if again.Name != "Aspirin" {
		t.Error("stored record was mutated through a returned copy")
	}
}

func TestMemoryStore_Clear(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	s.Upsert(ctx, testRecord("Aspirin", "300123456789"))
	s.Clear()

	if s.Size() != 0 {
		t.Errorf("Size = %d after Clear, want 0", s.Size())
	}
}

func TestMemoryStore_ConcurrentAccess(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			barcode := "30012345678" + string(rune('0'+n%10))
			s.Upsert(ctx, testRecord("Concurrent", barcode))
			s.FindByBarcode(ctx, barcode)
			s.Exists(ctx, barcode)
			s.List(ctx)
		}(i)
	}
	wg.Wait()

	if s.Size() != 10 {
		t.Errorf("Size = %d, want 10 distinct barcodes", s.Size())
	}
}
