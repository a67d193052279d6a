package usecase

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/medscan/backend/internal/domain"
)

// ResolverConfig holds configuration for the resolver service
type ResolverConfig struct {
	EnableDebugLogging bool
}

// ResolverService resolves a raw scanned or typed barcode into a canonical
// product record by consulting, in priority order: the local record store,
// the static override table, each external source adapter, and finally the
// brand-pattern heuristic. The first stage to produce a structurally valid
// record wins; no cross-source merging or voting is performed, so the
// answering source is always auditable.
type ResolverService struct {
	store     domain.RecordStore
	overrides *OverrideTable
	adapters  []domain.SourceAdapter
	debug     bool
}

// NewResolverService creates a resolver with its dependencies injected.
// The adapter slice order encodes source trust priority.
func NewResolverService(
	store domain.RecordStore,
	overrides *OverrideTable,
	adapters []domain.SourceAdapter,
	config ResolverConfig,
) *ResolverService {
	if overrides == nil {
		overrides = NewOverrideTable(nil)
	}
	return &ResolverService{
		store:     store,
		overrides: overrides,
		adapters:  adapters,
		debug:     config.EnableDebugLogging,
	}
}

// Resolve runs the ordered lookup stages for one raw code, short-circuiting
// on the first success. Stages never surface a miss individually; only the
// terminal ExhaustedError (carrying the ordered per-source error log) is
// returned when everything misses. Cancellation is checked before each
// stage; an adapter call already in flight completes or times out on its own.
func (s *ResolverService) Resolve(ctx context.Context, raw string) (*domain.ProductRecord, error) {
	// Normalize twice: stripping a double-prepended zero can expose a
	// still-padded 13/14-digit code that needs the single-zero rule.
	code := Canonicalize(NormalizeBarcode(raw))
	if code.IsEmpty() {
		return nil, fmt.Errorf("%w: no digits in %q", domain.ErrInvalidBarcode, raw)
	}

	s.debugLog("resolving %q as %s (%s)", raw, code.Digits, code.Symbology)

	// Stage 1: local record store (already-seen product)
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if s.store != nil {
		if record, err := s.store.FindByBarcode(ctx, code.Digits); err == nil && record != nil {
			s.debugLog("store hit for %s: %s", code.Digits, record.Name)
			found := *record
			found.Source = "store"
			return &found, nil
		}
		// store absence is a miss, not a failure
	}

	// Stage 2: static override table
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if record, ok := s.overrides.Lookup(code.Digits); ok {
		s.debugLog("override hit for %s: %s", code.Digits, record.Name)
		record.Barcode = code.Digits
		return record, nil
	}

	// Stage 3: external sources, in trust order
	attempts := make([]*domain.SourceError, 0, len(s.adapters))
	for _, adapter := range s.adapters {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		record, err := adapter.Lookup(ctx, code)
		if err == nil && record != nil && record.Name != "" {
			s.debugLog("%s answered for %s: %s", adapter.Name(), code.Digits, record.Name)
			record.Source = adapter.Name()
			return record, nil
		}

		// caller cancelled while the call was in flight
		if ctx.Err() != nil && errors.Is(err, context.Canceled) {
			return nil, ctx.Err()
		}

		attempt := asSourceError(adapter.Name(), err)
		s.debugLog("%s failed for %s: %v", adapter.Name(), code.Digits, attempt)
		attempts = append(attempts, attempt)
	}

	// Stage 4: heuristic brand-pattern fallback
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if record, err := guessFromBrandPattern(code.Digits); err == nil {
		s.debugLog("heuristic match for %s: %s", code.Digits, record.Name)
		return record, nil
	}

	return nil, &domain.ExhaustedError{Barcode: code.Digits, Attempts: attempts}
}

// asSourceError coerces an adapter failure into a typed SourceError for the
// error log, classifying stray errors by their cause
func asSourceError(source string, err error) *domain.SourceError {
	if err == nil {
		err = errors.New("adapter returned no record")
	}

	var srcErr *domain.SourceError
	if errors.As(err, &srcErr) {
		return srcErr
	}

	kind := domain.SourceErrDecode
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		kind = domain.SourceErrTimeout
	case errors.Is(err, domain.ErrSourceNotFound):
		kind = domain.SourceErrNotFound
	}
	return &domain.SourceError{Source: source, Kind: kind, Err: err}
}

func (s *ResolverService) debugLog(format string, args ...interface{}) {
	if s.debug {
		log.Printf("[RESOLVE] "+format, args...)
	}
}
