package cart

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"
)

type CatalogProduct struct {
	ID    string  `json:"id"`
	Name  string  `json:"name"`
	Price float64 `json:"price"`
}

// CatalogLookup resolves product ids to their current active catalog
// entries. Inactive and unknown ids are absent from the result.
type CatalogLookup interface {
	FindActive(ctx context.Context, ids []string) (map[string]CatalogProduct, error)
}

var (
	ErrCatalogBadStatus   = errors.New("catalog bad status")
	ErrCatalogUnavailable = errors.New("catalog unavailable")
)

type CatalogClient struct {
	BaseURL string
	Client  *http.Client
}

func NewCatalogClient(baseURL string) *CatalogClient {
	if u, err := url.Parse(baseURL); err == nil && u.Scheme != "" && u.Host != "" {
		baseURL = strings.TrimRight(baseURL, "/")
	}
	return &CatalogClient{
		BaseURL: baseURL,
		Client:  &http.Client{Timeout: 3 * time.Second},
	}
}

func (c *CatalogClient) FindActive(ctx context.Context, ids []string) (map[string]CatalogProduct, error) {
	if len(ids) == 0 {
		return map[string]CatalogProduct{}, nil
	}

	q := url.Values{"ids": []string{strings.Join(ids, ",")}}
	reqURL := fmt.Sprintf("%s/products/active?%s", c.BaseURL, q.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.Client.Do(req)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return nil, ErrCatalogUnavailable
		}
		var ne net.Error
		if errors.As(err, &ne) && ne.Timeout() {
			return nil, ErrCatalogUnavailable
		}
		return nil, ErrCatalogUnavailable
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil, fmt.Errorf("%w: status=%d", ErrCatalogBadStatus, resp.StatusCode)
	}

	var products map[string]CatalogProduct
	if err := json.NewDecoder(resp.Body).Decode(&products); err != nil {
		return nil, err
	}
	return products, nil
}
