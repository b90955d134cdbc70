package products

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/google/uuid"
	pkgerrors "github.com/pkg/errors"

	"github.com/jmolinera/go-session-center/internal/errors"
)

var _ Registry = (*Client)(nil)

// Client is the REST client for the product catalog service.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient builds a catalog client against baseURL with a per-call timeout.
func NewClient(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: timeout},
	}
}

func (c *Client) GetProduct(ctx context.Context, productID uuid.UUID) (*Product, error) {
	var product Product
	if err := c.getJSON(ctx, "/api/v1/products/"+productID.String(), &product); err != nil {
		if pkgerrors.Is(err, errors.ErrNotFound) {
			return nil, errors.ErrProductNotFound
		}
		return nil, pkgerrors.Wrap(err, "[GetProduct]")
	}
	return &product, nil
}

func (c *Client) getJSON(ctx context.Context, path string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return pkgerrors.Wrap(err, "creating request")
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return pkgerrors.Wrap(errors.ErrUpstreamUnavailable, err.Error())
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return errors.ErrNotFound
	case resp.StatusCode < 200 || resp.StatusCode >= 300:
		io.Copy(io.Discard, resp.Body)
		return pkgerrors.Wrap(errors.ErrUpstreamUnavailable, fmt.Sprintf("unexpected status %d", resp.StatusCode))
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return pkgerrors.Wrap(err, "decoding response")
	}
	return nil
}
