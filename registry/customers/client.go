package customers

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/google/uuid"
	pkgerrors "github.com/pkg/errors"

	"github.com/jmolinera/go-session-center/internal/errors"
)

var _ Registry = (*Client)(nil)

// Client is the REST client for the customer registry service.
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

func (c *Client) GetParty(ctx context.Context, partyID uuid.UUID) (*Party, error) {
	var party Party
	if err := c.getJSON(ctx, "/api/v1/parties/"+partyID.String(), &party); err != nil {
		if pkgerrors.Is(err, errors.ErrNotFound) {
			return nil, errors.ErrCustomerNotFound
		}
		return nil, pkgerrors.Wrap(err, "[GetParty]")
	}
	return &party, nil
}

func (c *Client) GetNaturalPerson(ctx context.Context, partyID uuid.UUID) (*NaturalPerson, error) {
	var person NaturalPerson
	if err := c.getJSON(ctx, "/api/v1/parties/"+partyID.String()+"/natural-person", &person); err != nil {
		return nil, pkgerrors.Wrap(err, "[GetNaturalPerson]")
	}
	return &person, nil
}

func (c *Client) GetLegalEntity(ctx context.Context, partyID uuid.UUID) (*LegalEntity, error) {
	var entity LegalEntity
	if err := c.getJSON(ctx, "/api/v1/parties/"+partyID.String()+"/legal-entity", &entity); err != nil {
		return nil, pkgerrors.Wrap(err, "[GetLegalEntity]")
	}
	return &entity, nil
}

func (c *Client) ListEmailContacts(ctx context.Context, partyID uuid.UUID) ([]EmailContact, error) {
	var contacts []EmailContact
	if err := c.getJSON(ctx, "/api/v1/parties/"+partyID.String()+"/email-contacts", &contacts); err != nil {
		return nil, pkgerrors.Wrap(err, "[ListEmailContacts]")
	}
	return contacts, nil
}

func (c *Client) ListPhoneContacts(ctx context.Context, partyID uuid.UUID) ([]PhoneContact, error) {
	var contacts []PhoneContact
	if err := c.getJSON(ctx, "/api/v1/parties/"+partyID.String()+"/phone-contacts", &contacts); err != nil {
		return nil, pkgerrors.Wrap(err, "[ListPhoneContacts]")
	}
	return contacts, nil
}

func (c *Client) FindEmailContacts(ctx context.Context, email string) ([]EmailContact, error) {
	var contacts []EmailContact
	path := "/api/v1/email-contacts?email=" + url.QueryEscape(email)
	if err := c.getJSON(ctx, path, &contacts); err != nil {
		return nil, pkgerrors.Wrap(err, "[FindEmailContacts]")
	}
	return contacts, nil
}

func (c *Client) FindPartiesBySourceSystem(ctx context.Context, sourceSystem string) ([]Party, error) {
	var parties []Party
	path := "/api/v1/parties?sourceSystem=" + url.QueryEscape(sourceSystem)
	if err := c.getJSON(ctx, path, &parties); err != nil {
		return nil, pkgerrors.Wrap(err, "[FindPartiesBySourceSystem]")
	}
	return parties, nil
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
