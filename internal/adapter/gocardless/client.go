// Package gocardless reads the GoCardless objects a webhook event refers to.
package gocardless

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"donor-reconciler/internal/adapter/restclient"
	"donor-reconciler/internal/core/ports"
)

const (
	// APIVersion is pinned on every request.
	APIVersion = "2015-07-06"

	LiveBaseURL    = "https://api.gocardless.com"
	SandboxBaseURL = "https://api-sandbox.gocardless.com"
)

// Client implements ports.GoCardlessClient. The HTTP client is expected to
// carry the access token, see restclient.NewBearerClient.
type Client struct {
	rest *restclient.Client
}

// NewClient creates a GoCardless client.
func NewClient(baseURL string, httpClient restclient.HTTPClient) *Client {
	return &Client{
		rest: restclient.New("gocardless", baseURL, httpClient, restclient.WithHeader("GoCardless-Version", APIVersion)),
	}
}

type paymentEnvelope struct {
	Payments struct {
		ID         string            `json:"id"`
		Amount     int64             `json:"amount"`
		Currency   string            `json:"currency"`
		ChargeDate string            `json:"charge_date"`
		Metadata   map[string]string `json:"metadata"`
		Links      struct {
			Mandate      string `json:"mandate"`
			Subscription string `json:"subscription"`
		} `json:"links"`
	} `json:"payments"`
}

// GetPayment fetches a payment. charge_date is a plain date.
func (c *Client) GetPayment(ctx context.Context, id string) (*ports.GoCardlessPayment, error) {
	var out paymentEnvelope
	if err := c.rest.Do(ctx, http.MethodGet, "/payments/"+url.PathEscape(id), nil, &out); err != nil {
		return nil, err
	}
	p := out.Payments

	var charged time.Time
	if p.ChargeDate != "" {
		d, err := time.Parse(time.DateOnly, p.ChargeDate)
		if err != nil {
			return nil, fmt.Errorf("gocardless payment %s: charge_date: %w", id, err)
		}
		charged = d
	}

	return &ports.GoCardlessPayment{
		ID:             p.ID,
		Amount:         p.Amount,
		Currency:       p.Currency,
		ChargeDate:     charged,
		Metadata:       p.Metadata,
		MandateID:      p.Links.Mandate,
		SubscriptionID: p.Links.Subscription,
	}, nil
}

type mandateEnvelope struct {
	Mandates struct {
		Links struct {
			Customer string `json:"customer"`
		} `json:"links"`
	} `json:"mandates"`
}

// GetMandateCustomerID resolves the customer behind a mandate.
func (c *Client) GetMandateCustomerID(ctx context.Context, mandateID string) (string, error) {
	var out mandateEnvelope
	if err := c.rest.Do(ctx, http.MethodGet, "/mandates/"+url.PathEscape(mandateID), nil, &out); err != nil {
		return "", err
	}
	if out.Mandates.Links.Customer == "" {
		return "", fmt.Errorf("gocardless mandate %s has no customer link", mandateID)
	}
	return out.Mandates.Links.Customer, nil
}

type customerEnvelope struct {
	Customers struct {
		ID           string            `json:"id"`
		Email        string            `json:"email"`
		GivenName    string            `json:"given_name"`
		FamilyName   string            `json:"family_name"`
		CompanyName  string            `json:"company_name"`
		PhoneNumber  string            `json:"phone_number"`
		AddressLine1 string            `json:"address_line1"`
		AddressLine2 string            `json:"address_line2"`
		City         string            `json:"city"`
		Region       string            `json:"region"`
		PostalCode   string            `json:"postal_code"`
		CountryCode  string            `json:"country_code"`
		Metadata     map[string]string `json:"metadata"`
	} `json:"customers"`
}

// GetCustomer fetches a customer.
func (c *Client) GetCustomer(ctx context.Context, id string) (*ports.GoCardlessCustomer, error) {
	var out customerEnvelope
	if err := c.rest.Do(ctx, http.MethodGet, "/customers/"+url.PathEscape(id), nil, &out); err != nil {
		return nil, err
	}
	cu := out.Customers
	return &ports.GoCardlessCustomer{
		ID:          cu.ID,
		Email:       cu.Email,
		GivenName:   cu.GivenName,
		FamilyName:  cu.FamilyName,
		CompanyName: cu.CompanyName,
		Phone:       cu.PhoneNumber,
		Address: ports.GatewayAddress{
			Line1:      cu.AddressLine1,
			Line2:      cu.AddressLine2,
			City:       cu.City,
			Region:     cu.Region,
			PostalCode: cu.PostalCode,
			Country:    cu.CountryCode,
		},
		Metadata: cu.Metadata,
	}, nil
}
