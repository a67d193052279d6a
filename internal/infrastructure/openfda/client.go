package openfda

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/medscan/backend/internal/domain"
	"github.com/medscan/backend/internal/usecase"
	"golang.org/x/time/rate"
)

// Client handles communication with the openFDA drug NDC directory,
// the primary regulatory source in the lookup chain
type Client struct {
	httpClient  *http.Client
	baseURL     string
	rateLimiter *rate.Limiter
	debug       bool
}

// NewClient creates a new openFDA API client
func NewClient(baseURL string, timeout time.Duration) *Client {
	// openFDA allows 240 unauthenticated requests per minute = 4 requests/sec
	limiter := rate.NewLimiter(rate.Limit(4), 10)

	return &Client{
		httpClient: &http.Client{
			Timeout: timeout,
		},
		baseURL:     baseURL,
		rateLimiter: limiter,
	}
}

// SetDebug enables or disables debug logging
func (c *Client) SetDebug(debug bool) {
	c.debug = debug
}

// Name identifies this adapter in resolution error logs
func (c *Client) Name() string {
	return "openfda"
}

// Lookup queries the NDC directory for a product record. The search is
// attempted with three query-string variants in order - quoted, unquoted,
// and unhyphenated - and the adapter only gives up once all three are
// exhausted. No retry of a failed variant within one resolution.
func (c *Client) Lookup(ctx context.Context, code domain.CanonicalCode) (*domain.ProductRecord, error) {
	formatted := usecase.FormatForSource(code)

	variants := []string{
		fmt.Sprintf("product_ndc:%q", formatted),
		fmt.Sprintf("product_ndc:%s", formatted),
		fmt.Sprintf("product_ndc:%s", strings.ReplaceAll(formatted, "-", "")),
	}

	var lastErr error
	for _, search := range variants {
		record, err := c.queryVariant(ctx, search, code.Digits)
		if err == nil {
			return record, nil
		}
		c.debugLog("variant %q failed: %v", search, err)
		lastErr = err
	}

	return nil, lastErr
}

// queryVariant performs a single GET against the directory with one
// search-string variant
func (c *Client) queryVariant(ctx context.Context, search, barcode string) (*domain.ProductRecord, error) {
	endpoint := fmt.Sprintf("%s/drug/ndc.json", c.baseURL)
	params := url.Values{}
	params.Add("search", search)
	params.Add("limit", "1")

	reqURL := fmt.Sprintf("%s?%s", endpoint, params.Encode())
	c.debugLog("GET %s", reqURL)

	if err := c.rateLimiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limiter error: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, "GET", reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", "MedScan/1.0")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, domain.TransportError(c.Name(), err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, domain.NewSourceError(c.Name(), domain.SourceErrNotFound, domain.ErrSourceNotFound)
	}
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, domain.NewSourceError(c.Name(), domain.SourceErrHTTPStatus,
			fmt.Errorf("status %d: %s", resp.StatusCode, string(body)))
	}

	var directory directoryResponse
	if err := json.NewDecoder(resp.Body).Decode(&directory); err != nil {
		return nil, domain.NewSourceError(c.Name(), domain.SourceErrDecode,
			fmt.Errorf("failed to decode response: %w", err))
	}

	if len(directory.Results) == 0 {
		return nil, domain.NewSourceError(c.Name(), domain.SourceErrNotFound, domain.ErrSourceNotFound)
	}

	return mapToRecord(&directory.Results[0], barcode), nil
}

func (c *Client) debugLog(format string, args ...interface{}) {
	if c.debug {
		log.Printf("[OPENFDA] "+format, args...)
	}
}
