package upcitemdb

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
	"golang.org/x/time/rate"
)

// Client handles communication with the UPCItemDB general product lookup
// API, the second source in the chain. It covers retail products the
// regulatory directory does not index.
type Client struct {
	httpClient  *http.Client
	baseURL     string
	rateLimiter *rate.Limiter
	debug       bool
}

// NewClient creates a new UPCItemDB client
func NewClient(baseURL string, timeout time.Duration) *Client {
	// The trial tier allows 100 requests per day, so keep the limiter tight
	limiter := rate.NewLimiter(rate.Limit(1), 5)

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
	return "upcitemdb"
}

// lookupResponse is the UPCItemDB lookup response schema
type lookupResponse struct {
	Items []lookupItem `json:"items"`
}

type lookupItem struct {
	EAN         string   `json:"ean"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Brand       string   `json:"brand"`
	Category    string   `json:"category"`
	Images      []string `json:"images"`
}

// Lookup queries the product database by bare UPC digits
func (c *Client) Lookup(ctx context.Context, code domain.CanonicalCode) (*domain.ProductRecord, error) {
	endpoint := fmt.Sprintf("%s/prod/trial/lookup", c.baseURL)
	params := url.Values{}
	params.Add("upc", code.Digits)

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

	var lookup lookupResponse
	if err := json.NewDecoder(resp.Body).Decode(&lookup); err != nil {
		return nil, domain.NewSourceError(c.Name(), domain.SourceErrDecode,
			fmt.Errorf("failed to decode response: %w", err))
	}

	if len(lookup.Items) == 0 {
		return nil, domain.NewSourceError(c.Name(), domain.SourceErrNotFound, domain.ErrSourceNotFound)
	}

	return mapItem(&lookup.Items[0], code.Digits), nil
}

// mapItem converts a lookup item to the canonical record shape. When the
// provider omits the brand, the first word of the title stands in.
func mapItem(item *lookupItem, barcode string) *domain.ProductRecord {
	brand := item.Brand
	if brand == "" {
		if fields := strings.Fields(item.Title); len(fields) > 0 {
			brand = fields[0]
		}
	}
	if brand == "" {
		brand = "Unknown"
	}

	description := item.Description
	if description == "" {
		description = "OTC Medication"
	}

	return &domain.ProductRecord{
		Name:         item.Title,
		Description:  description,
		Manufacturer: brand,
		Barcode:      barcode,
		Category:     domain.CategoryOTC,
	}
}

func (c *Client) debugLog(format string, args ...interface{}) {
	if c.debug {
		log.Printf("[UPCITEMDB] "+format, args...)
	}
}
