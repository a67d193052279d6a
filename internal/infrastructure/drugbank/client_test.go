package drugbank

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/medscan/backend/internal/domain"
)

func ndcCode(digits string) domain.CanonicalCode {
	return domain.CanonicalCode{Digits: digits, Symbology: domain.SymbologyNDC}
}

func TestClient_Lookup_Success(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/products", r.URL.Path)
		// the 11-digit NDC goes out hyphen-grouped
		assert.Equal(t, "05042-8462-70", r.URL.Query().Get("ndc"))
		assert.Equal(t, "MedScan/1.0", r.Header.Get("User-Agent"))

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{
			"products": [{
				"ndc_product_code": "05042-8462-70",
				"name": "Allergy Relief",
				"drug_name": "Loratadine",
				"labeler": "CVS Pharmacy",
				"route": "oral",
				"dosage_form": "tablet",
				"prescription": false
			}]
		}`))
	}))
	defer server.Close()

	client := NewClient(server.URL, 5*time.Second)

	record, err := client.Lookup(context.Background(), ndcCode("05042846270"))
	require.NoError(t, err)
	require.NotNil(t, record)

	assert.Equal(t, "Allergy Relief", record.Name)
	assert.Equal(t, "tablet (oral)", record.Description)
	assert.Equal(t, "CVS Pharmacy", record.Manufacturer)
	assert.Equal(t, "05042846270", record.Barcode)
	assert.Equal(t, domain.CategoryOTC, record.Category)
}

func TestClient_Lookup_PrescriptionCategory(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{
			"products": [{
				"drug_name": "Atorvastatin",
				"labeler": "Pfizer",
				"prescription": true
			}]
		}`))
	}))
	defer server.Close()

	client := NewClient(server.URL, 5*time.Second)

	record, err := client.Lookup(context.Background(), ndcCode("00071015523"))
	require.NoError(t, err)
	assert.Equal(t, "Atorvastatin", record.Name)
	assert.Equal(t, domain.CategoryPrescription, record.Category)
}

func TestClient_Lookup_NotFound(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	client := NewClient(server.URL, 5*time.Second)

	record, err := client.Lookup(context.Background(), ndcCode("9999999999"))
	assert.Nil(t, record)
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrSourceNotFound)

	var srcErr *domain.SourceError
	require.ErrorAs(t, err, &srcErr)
	assert.Equal(t, "drugbank", srcErr.Source)
	assert.Equal(t, domain.SourceErrNotFound, srcErr.Kind)
}

func TestClient_Lookup_EmptyProducts(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"products": []}`))
	}))
	defer server.Close()

	client := NewClient(server.URL, 5*time.Second)

	_, err := client.Lookup(context.Background(), ndcCode("9999999999"))
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrSourceNotFound)
}

func TestClient_Lookup_Unauthorized(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"error": "unauthorized"}`))
	}))
	defer server.Close()

	client := NewClient(server.URL, 5*time.Second)

	_, err := client.Lookup(context.Background(), ndcCode("05042846270"))
	require.Error(t, err)

	var srcErr *domain.SourceError
	require.ErrorAs(t, err, &srcErr)
	assert.Equal(t, domain.SourceErrHTTPStatus, srcErr.Kind)
	assert.Contains(t, srcErr.Error(), "401")
}

func TestClient_Lookup_InvalidJSON(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"products": [`))
	}))
	defer server.Close()

	client := NewClient(server.URL, 5*time.Second)

	_, err := client.Lookup(context.Background(), ndcCode("05042846270"))
	require.Error(t, err)

	var srcErr *domain.SourceError
	require.ErrorAs(t, err, &srcErr)
	assert.Equal(t, domain.SourceErrDecode, srcErr.Kind)
}

func TestClient_Lookup_ContextCancellation(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"products": []}`))
	}))
	defer server.Close()

	client := NewClient(server.URL, 5*time.Second)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := client.Lookup(ctx, ndcCode("05042846270"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, context.Canceled))
}

func TestClient_Name(t *testing.T) {
	client := NewClient("http://example.com", time.Second)
	assert.Equal(t, "drugbank", client.Name())
}

func TestMapProduct_Fallbacks(t *testing.T) {
	t.Run("drug name when product name missing", func(t *testing.T) {
		record := mapProduct(&product{DrugName: "Loratadine"}, "05042846270")
		assert.Equal(t, "Loratadine", record.Name)
	})

	t.Run("empty product", func(t *testing.T) {
		record := mapProduct(&product{}, "05042846270")
		assert.Equal(t, "Unknown", record.Name)
		assert.Equal(t, "No description available", record.Description)
		assert.Equal(t, "Unknown", record.Manufacturer)
		assert.Equal(t, domain.CategoryOTC, record.Category)
	})

	t.Run("form without route", func(t *testing.T) {
		record := mapProduct(&product{Name: "X", Form: "capsule"}, "05042846270")
		assert.Equal(t, "capsule", record.Description)
	})
}
