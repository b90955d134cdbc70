package roles

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

// Client is the REST client for the role/permission registry service.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient builds a registry client against baseURL with a per-call
// timeout.
func NewClient(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: timeout},
	}
}

func (c *Client) GetRole(ctx context.Context, roleID uuid.UUID) (*Role, error) {
	var role Role
	if err := c.getJSON(ctx, "/api/v1/roles/"+roleID.String(), &role); err != nil {
		if pkgerrors.Is(err, errors.ErrNotFound) {
			return nil, errors.ErrRoleNotFound
		}
		return nil, pkgerrors.Wrap(err, "[GetRole]")
	}
	return &role, nil
}

func (c *Client) ListActiveScopes(ctx context.Context, roleID uuid.UUID) ([]Scope, error) {
	var scopes []Scope
	path := "/api/v1/roles/" + roleID.String() + "/scopes?active=true"
	if err := c.getJSON(ctx, path, &scopes); err != nil {
		return nil, pkgerrors.Wrap(err, "[ListActiveScopes]")
	}
	return scopes, nil
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
