package drugbank

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"time"

	"github.com/medscan/backend/internal/domain"
	"github.com/medscan/backend/internal/usecase"
	"golang.org/x/time/rate"
)

// Client handles communication with the secondary pharmaceutical product
// database, the last external source tried before the heuristic fallback.
// The public product endpoint is queried unauthenticated.
type Client struct {
	httpClient  *http.Client
	baseURL     string
	rateLimiter *rate.Limiter
	debug       bool
}

// NewClient creates a new DrugBank product API client
func NewClient(baseURL string, timeout time.Duration) *Client {
	limiter := rate.NewLimiter(rate.Limit(2), 5)

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
	return "drugbank"
}

// productsResponse is the product endpoint schema
type productsResponse struct {
	Products []product `json:"products"`
}

type product struct {
	NDC      string `json:"ndc_product_code"`
	Name     string `json:"name"`
	DrugName string `json:"drug_name"`
	Labeler  string `json:"labeler"`
	Route    string `json:"route"`
	Form     string `json:"dosage_form"`
	Rx       bool   `json:"prescription"`
}

// Lookup queries the product database by hyphen-grouped NDC
func (c *Client) Lookup(ctx context.Context, code domain.CanonicalCode) (*domain.ProductRecord, error) {
	endpoint := fmt.Sprintf("%s/v1/products", c.baseURL)
	params := url.Values{}
	params.Add("ndc", usecase.FormatForSource(code))

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

	var products productsResponse
	if err := json.NewDecoder(resp.Body).Decode(&products); err != nil {
		return nil, domain.NewSourceError(c.Name(), domain.SourceErrDecode,
			fmt.Errorf("failed to decode response: %w", err))
	}

	if len(products.Products) == 0 {
		return nil, domain.NewSourceError(c.Name(), domain.SourceErrNotFound, domain.ErrSourceNotFound)
	}

	return mapProduct(&products.Products[0], code.Digits), nil
}

// mapProduct converts a product entry to the canonical record shape
func mapProduct(p *product, barcode string) *domain.ProductRecord {
	name := p.Name
	if name == "" {
		name = p.DrugName
	}
	if name == "" {
		name = "Unknown"
	}

	description := p.Form
	if description != "" && p.Route != "" {
		description = fmt.Sprintf("%s (%s)", description, p.Route)
	}
	if description == "" {
		description = "No description available"
	}

	manufacturer := p.Labeler
	if manufacturer == "" {
		manufacturer = "Unknown"
	}

	category := domain.CategoryOTC
	if p.Rx {
		category = domain.CategoryPrescription
	}

	return &domain.ProductRecord{
		Name:         name,
		Description:  description,
		Manufacturer: manufacturer,
		Barcode:      barcode,
		Category:     category,
	}
}

func (c *Client) debugLog(format string, args ...interface{}) {
	if c.debug {
		log.Printf("[DRUGBANK] "+format, args...)
	}
}
