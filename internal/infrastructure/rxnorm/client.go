package rxnorm

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
	"golang.org/x/time/rate"
)

// Client handles communication with the RxNorm pharmaceutical nomenclature
// API at the National Library of Medicine. Resolution is two-step: the NDC
// is first mapped to an RxCUI concept identifier, then the related
// concepts are fetched for a usable brand or ingredient name.
type Client struct {
	httpClient  *http.Client
	baseURL     string
	rateLimiter *rate.Limiter
	debug       bool
}

// NewClient creates a new RxNorm API client
func NewClient(baseURL string, timeout time.Duration) *Client {
	// NLM asks for no more than 20 requests per second per address
	limiter := rate.NewLimiter(rate.Limit(20), 20)

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
	return "rxnorm"
}

// ndcStatusResponse is the RxNorm ndcstatus endpoint schema
type ndcStatusResponse struct {
	NDCStatus struct {
		NDC    string `json:"ndc"`
		RxCUI  string `json:"rxcui"`
		Status string `json:"status"`
	} `json:"ndcStatus"`
}

// relatedResponse is the RxNorm allrelated endpoint schema
type relatedResponse struct {
	AllRelatedGroup *struct {
		ConceptGroup []conceptGroup `json:"conceptGroup"`
	} `json:"allRelatedGroup"`
}

type conceptGroup struct {
	TTY               string `json:"tty"`
	ConceptProperties []struct {
		RxCUI string `json:"rxcui"`
		Name  string `json:"name"`
	} `json:"conceptProperties"`
}

// Lookup maps an NDC to its RxNorm concept and builds a record from the
// related brand-name (BN) or ingredient (IN) concept names
func (c *Client) Lookup(ctx context.Context, code domain.CanonicalCode) (*domain.ProductRecord, error) {
	rxcui, err := c.fetchRxCUI(ctx, code.Digits)
	if err != nil {
		return nil, err
	}

	return c.fetchConceptRecord(ctx, rxcui, code.Digits)
}

// fetchRxCUI resolves an NDC to its concept identifier
func (c *Client) fetchRxCUI(ctx context.Context, ndc string) (string, error) {
	endpoint := fmt.Sprintf("%s/REST/ndcstatus.json", c.baseURL)
	params := url.Values{}
	params.Add("ndc", ndc)

	reqURL := fmt.Sprintf("%s?%s", endpoint, params.Encode())
	c.debugLog("GET %s", reqURL)

	var status ndcStatusResponse
	if err := c.getJSON(ctx, reqURL, &status); err != nil {
		return "", err
	}

	if status.NDCStatus.RxCUI == "" {
		return "", domain.NewSourceError(c.Name(), domain.SourceErrNotFound,
			fmt.Errorf("%w: no RxCUI for NDC %s", domain.ErrSourceNotFound, ndc))
	}

	return status.NDCStatus.RxCUI, nil
}

// fetchConceptRecord fetches the related concepts for an RxCUI and maps
// them into the canonical record shape. RxNorm carries nomenclature, not
// commerce, so the manufacturer stays unknown.
func (c *Client) fetchConceptRecord(ctx context.Context, rxcui, barcode string) (*domain.ProductRecord, error) {
	reqURL := fmt.Sprintf("%s/REST/rxcui/%s/allrelated.json", c.baseURL, rxcui)
	c.debugLog("GET %s", reqURL)

	var related relatedResponse
	if err := c.getJSON(ctx, reqURL, &related); err != nil {
		return nil, err
	}

	brandName := conceptName(&related, "BN")
	ingredientName := conceptName(&related, "IN")

	name := brandName
	if name == "" {
		name = ingredientName
	}
	if name == "" {
		return nil, domain.NewSourceError(c.Name(), domain.SourceErrNotFound,
			fmt.Errorf("%w: no named concepts for RxCUI %s", domain.ErrSourceNotFound, rxcui))
	}

	return &domain.ProductRecord{
		Name:         name,
		Description:  fmt.Sprintf("RxNorm concept %s", rxcui),
		Manufacturer: "Unknown",
		Barcode:      barcode,
		Category:     domain.CategoryOTC,
	}, nil
}

// conceptName returns the first concept name with the given term type
func conceptName(related *relatedResponse, tty string) string {
	if related.AllRelatedGroup == nil {
		return ""
	}
	for _, group := range related.AllRelatedGroup.ConceptGroup {
		if group.TTY != tty {
			continue
		}
		if len(group.ConceptProperties) > 0 {
			return group.ConceptProperties[0].Name
		}
	}
	return ""
}

// getJSON performs one GET and decodes the JSON body into out
func (c *Client) getJSON(ctx context.Context, reqURL string, out interface{}) error {
	if err := c.rateLimiter.Wait(ctx); err != nil {
		return fmt.Errorf("rate limiter error: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, "GET", reqURL, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", "MedScan/1.0")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return domain.TransportError(c.Name(), err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return domain.NewSourceError(c.Name(), domain.SourceErrNotFound, domain.ErrSourceNotFound)
	}
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return domain.NewSourceError(c.Name(), domain.SourceErrHTTPStatus,
			fmt.Errorf("status %d: %s", resp.StatusCode, string(body)))
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return domain.NewSourceError(c.Name(), domain.SourceErrDecode,
			fmt.Errorf("failed to decode response: %w", err))
	}

	return nil
}

func (c *Client) debugLog(format string, args ...interface{}) {
	if c.debug {
		log.Printf("[RXNORM] "+format, args...)
	}
}
