package http

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/medscan/backend/internal/domain"
	"github.com/medscan/backend/internal/usecase"
)

// statusClientClosedRequest mirrors the nginx convention for a caller that
// cancelled mid-flight
const statusClientClosedRequest = 499

// Handler holds dependencies for HTTP handlers
type Handler struct {
	resolver *usecase.ResolverService
	store    domain.RecordStore
}

// NewHandler creates a new HTTP handler
func NewHandler(resolver *usecase.ResolverService, store domain.RecordStore) *Handler {
	return &Handler{
		resolver: resolver,
		store:    store,
	}
}

// HealthCheck returns the health status of the API
func (h *Handler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"service": "medscan-backend",
		"version": "1.0.0",
	})
}

// ResolveBarcode handles barcode resolution requests
func (h *Handler) ResolveBarcode(c *gin.Context) {
	if h.resolver == nil {
		c.JSON(http.StatusNotImplemented, gin.H{
			"error": "Barcode resolution not configured",
		})
		return
	}

	var req domain.ResolveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid request: code is required",
		})
		return
	}

	record, err := h.resolver.Resolve(c.Request.Context(), req.Code)
	if err != nil {
		h.writeResolveError(c, err)
		return
	}

	c.JSON(http.StatusOK, record)
}

// writeResolveError maps resolution failures onto HTTP statuses
func (h *Handler) writeResolveError(c *gin.Context, err error) {
	var exhausted *domain.ExhaustedError

	switch {
	case errors.Is(err, domain.ErrInvalidBarcode):
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Barcode contains no digits",
		})
	case errors.As(err, &exhausted):
		c.JSON(http.StatusNotFound, gin.H{
			"error":    "No product found for barcode: " + exhausted.Barcode + ". You can add it manually.",
			"barcode":  exhausted.Barcode,
			"attempts": attemptList(exhausted),
		})
	case errors.Is(err, context.Canceled):
		c.JSON(statusClientClosedRequest, gin.H{
			"error": "Resolution cancelled",
		})
	default:
		c.JSON(http.StatusBadGateway, gin.H{
			"error": "Lookup sources temporarily unavailable",
		})
	}
}

// attemptList renders the ordered per-source error log for diagnostics
func attemptList(exhausted *domain.ExhaustedError) []gin.H {
	attempts := make([]gin.H, 0, len(exhausted.Attempts))
	for _, a := range exhausted.Attempts {
		attempts = append(attempts, gin.H{
			"source": a.Source,
			"kind":   a.Kind,
			"error":  a.Err.Error(),
		})
	}
	return attempts
}

// ListRecords returns every stored record, sorted by name
func (h *Handler) ListRecords(c *gin.Context) {
	records, err := h.store.List(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list records"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"records": records, "count": len(records)})
}

// GetRecord returns the stored record for a barcode
func (h *Handler) GetRecord(c *gin.Context) {
	barcode := c.Param("barcode")

	record, err := h.store.FindByBarcode(c.Request.Context(), barcode)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "No record for barcode: " + barcode})
		return
	}
	c.JSON(http.StatusOK, record)
}

// UpsertRecord inserts or replaces the record for the barcode in the path.
// The barcode in the path wins over any barcode in the body, keeping the
// key immutable from the caller's perspective.
func (h *Handler) UpsertRecord(c *gin.Context) {
	barcode := c.Param("barcode")

	var record domain.ProductRecord
	if err := c.ShouldBindJSON(&record); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid record payload"})
		return
	}
	if record.Name == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Record name is required"})
		return
	}
	record.Barcode = barcode

	if err := h.store.Upsert(c.Request.Context(), &record); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save record"})
		return
	}
	c.JSON(http.StatusOK, record)
}

// DeleteRecord removes the record for a barcode
func (h *Handler) DeleteRecord(c *gin.Context) {
	barcode := c.Param("barcode")

	if err := h.store.Delete(c.Request.Context(), barcode); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "No record for barcode: " + barcode})
		return
	}
	c.Status(http.StatusNoContent)
}
