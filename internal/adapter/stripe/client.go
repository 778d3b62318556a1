// Package stripe reads the Stripe objects a webhook event refers to.
package stripe

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"donor-reconciler/internal/adapter/restclient"
	"donor-reconciler/internal/core/domain"
	"donor-reconciler/internal/core/ports"
)

// DefaultBaseURL is the Stripe API root.
const DefaultBaseURL = "https://api.stripe.com"

// Client implements ports.StripeClient. The HTTP client is expected to carry
// the secret key, see restclient.NewBearerClient.
type Client struct {
	rest *restclient.Client
}

// NewClient creates a Stripe client.
func NewClient(baseURL string, httpClient restclient.HTTPClient) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{rest: restclient.New("stripe", baseURL, httpClient)}
}

type address struct {
	Line1      string `json:"line1"`
	Line2      string `json:"line2"`
	City       string `json:"city"`
	State      string `json:"state"`
	PostalCode string `json:"postal_code"`
	Country    string `json:"country"`
}

type customer struct {
	ID       string            `json:"id"`
	Deleted  bool              `json:"deleted"`
	Email    string            `json:"email"`
	Name     string            `json:"name"`
	Phone    string            `json:"phone"`
	Address  *address          `json:"address"`
	Metadata map[string]string `json:"metadata"`
}

// GetCustomer fetches a customer. A deleted customer is domain.ErrNotFound.
func (c *Client) GetCustomer(ctx context.Context, id string) (*ports.StripeCustomer, error) {
	var out customer
	if err := c.rest.Do(ctx, http.MethodGet, "/v1/customers/"+url.PathEscape(id), nil, &out); err != nil {
		return nil, err
	}
	if out.Deleted {
		return nil, fmt.Errorf("stripe customer %s deleted: %w", id, domain.ErrNotFound)
	}

	cust := &ports.StripeCustomer{
		ID:       out.ID,
		Email:    out.Email,
		Name:     out.Name,
		Phone:    out.Phone,
		Metadata: out.Metadata,
	}
	if out.Address != nil {
		cust.Address = ports.GatewayAddress{
			Line1:      out.Address.Line1,
			Line2:      out.Address.Line2,
			City:       out.Address.City,
			Region:     out.Address.State,
			PostalCode: out.Address.PostalCode,
			Country:    out.Address.Country,
		}
	}
	return cust, nil
}

type subscription struct {
	ID       string            `json:"id"`
	Customer string            `json:"customer"`
	Metadata map[string]string `json:"metadata"`
}

// GetSubscription fetches a subscription.
func (c *Client) GetSubscription(ctx context.Context, id string) (*ports.StripeSubscription, error) {
	var out subscription
	if err := c.rest.Do(ctx, http.MethodGet, "/v1/subscriptions/"+url.PathEscape(id), nil, &out); err != nil {
		return nil, err
	}
	return &ports.StripeSubscription{ID: out.ID, Customer: out.Customer, Metadata: out.Metadata}, nil
}
