// Package catalog fetches product data from the external catalog API and
// joins it onto valid transactions by numeric product key.
package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/salespipe-dev/salespipe/internal/model"
)

// Client fetches products from a catalog endpoint. Construct one explicitly
// per run; there is no package-level session.
type Client struct {
	baseURL string
	limit   int
	http    *http.Client
}

// NewClient creates a catalog Client for baseURL (e.g. "https://dummyjson.com").
func NewClient(baseURL string, limit int, timeout time.Duration) *Client {
	return &Client{
		baseURL: baseURL,
		limit:   limit,
		http:    &http.Client{Timeout: timeout},
	}
}

type productsResponse struct {
	Products []model.CatalogProduct `json:"products"`
}

// FetchProducts retrieves the product list. Any transport or status failure
// is returned as an error; the caller treats it as enrichment being
// unavailable for the whole run, never as fatal.
func (c *Client) FetchProducts(ctx context.Context) ([]model.CatalogProduct, error) {
	url := fmt.Sprintf("%s/products?limit=%d", c.baseURL, c.limit)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("building catalog request: %w", err)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetching catalog: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetching catalog: status %d", resp.StatusCode)
	}

	var body productsResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("decoding catalog response: %w", err)
	}
	return body.Products, nil
}

// Mapping indexes catalog products by ID for enrichment lookups.
func Mapping(products []model.CatalogProduct) map[int]model.CatalogProduct {
	m := make(map[int]model.CatalogProduct, len(products))
	for _, p := range products {
		m[p.ID] = p
	}
	return m
}
