// Package crm is the Donorfy REST adapter. One Client is bound to one
// regional tenant; the Registry hands them out by instance.
package crm

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"donor-reconciler/internal/adapter/restclient"
	"donor-reconciler/internal/core/domain"
)

const (
	dateLayout      = "2006-01-02T15:04:05"
	productDonation = "Donation"
	declarationWeb  = "Web"
	consentReason   = "Donation form"
)

// Client implements ports.CRMClient for a single tenant.
type Client struct {
	instance domain.Instance
	rest     *restclient.Client
}

// NewClient creates a tenant client. Donorfy authenticates with basic auth
// where only the password (the API key) is checked.
func NewClient(instance domain.Instance, baseURL, tenant, apiKey string, httpClient restclient.HTTPClient) *Client {
	root := strings.TrimRight(baseURL, "/") + "/" + url.PathEscape(tenant)
	return &Client{
		instance: instance,
		rest:     restclient.New("crm:"+string(instance), root, httpClient, restclient.WithBasicAuth("donor-reconciler", apiKey)),
	}
}

// Instance returns the tenant this client writes to.
func (c *Client) Instance() domain.Instance {
	return c.instance
}

type duplicateCheckRequest struct {
	EmailAddress string `json:"EmailAddress"`
}

type duplicateCheckResult struct {
	ConstituentID string `json:"ConstituentId"`
	Score         int    `json:"Score"`
}

// DuplicateCheck runs the CRM fuzzy email match.
func (c *Client) DuplicateCheck(ctx context.Context, email string) ([]domain.DuplicateMatch, error) {
	var results []duplicateCheckResult
	if err := c.rest.Do(ctx, http.MethodPost, "/constituents/DuplicateCheck", duplicateCheckRequest{EmailAddress: email}, &results); err != nil {
		return nil, err
	}
	matches := make([]domain.DuplicateMatch, 0, len(results))
	for _, r := range results {
		matches = append(matches, domain.DuplicateMatch{ConstituentID: r.ConstituentID, Score: r.Score})
	}
	return matches, nil
}

type constituentBody struct {
	ConstituentID       string `json:"ConstituentId,omitempty"`
	ConstituentType     string `json:"ConstituentType"`
	Title               string `json:"Title"`
	FirstName           string `json:"FirstName"`
	LastName            string `json:"LastName"`
	OrganisationName    string `json:"OrganisationName"`
	AddressLine1        string `json:"AddressLine1"`
	AddressLine2        string `json:"AddressLine2"`
	Town                string `json:"Town"`
	County              string `json:"County"`
	PostalCode          string `json:"PostalCode"`
	Country             string `json:"Country"`
	EmailAddress        string `json:"EmailAddress"`
	Phone1              string `json:"Phone1"`
	RecruitmentCampaign string `json:"RecruitmentCampaign"`
}

func toConstituentBody(c domain.Constituent) constituentBody {
	return constituentBody{
		ConstituentID:       c.ID,
		ConstituentType:     string(c.Type),
		Title:               c.Title,
		FirstName:           c.FirstName,
		LastName:            c.LastName,
		OrganisationName:    c.OrganisationName,
		AddressLine1:        c.AddressLine1,
		AddressLine2:        c.AddressLine2,
		Town:                c.Town,
		County:              c.County,
		PostalCode:          c.Postcode,
		Country:             c.Country,
		EmailAddress:        c.Email,
		Phone1:              c.Phone,
		RecruitmentCampaign: c.RecruitmentCampaign,
	}
}

func (b constituentBody) toDomain() *domain.Constituent {
	return &domain.Constituent{
		ID:                  b.ConstituentID,
		Type:                domain.ConstituentType(b.ConstituentType),
		Title:               b.Title,
		FirstName:           b.FirstName,
		LastName:            b.LastName,
		OrganisationName:    b.OrganisationName,
		AddressLine1:        b.AddressLine1,
		AddressLine2:        b.AddressLine2,
		Town:                b.Town,
		County:              b.County,
		Postcode:            b.PostalCode,
		Country:             b.Country,
		Email:               b.EmailAddress,
		Phone:               b.Phone1,
		RecruitmentCampaign: b.RecruitmentCampaign,
	}
}

type createdConstituent struct {
	ConstituentID string `json:"ConstituentId"`
}

// CreateConstituent creates a constituent and returns its id.
func (c *Client) CreateConstituent(ctx context.Context, con domain.Constituent) (string, error) {
	var out createdConstituent
	if err := c.rest.Do(ctx, http.MethodPost, "/constituents", toConstituentBody(con), &out); err != nil {
		return "", err
	}
	if out.ConstituentID == "" {
		return "", fmt.Errorf("crm:%s create constituent: empty id in response", c.instance)
	}
	return out.ConstituentID, nil
}

// GetConstituent returns domain.ErrNotFound (wrapped) when the id is unknown.
func (c *Client) GetConstituent(ctx context.Context, id string) (*domain.Constituent, error) {
	var out constituentBody
	if err := c.rest.Do(ctx, http.MethodGet, "/constituents/"+url.PathEscape(id), nil, &out); err != nil {
		return nil, err
	}
	con := out.toDomain()
	if con.ID == "" {
		con.ID = id
	}
	return con, nil
}

// UpdateConstituent overwrites the constituent record.
func (c *Client) UpdateConstituent(ctx context.Context, con domain.Constituent) error {
	return c.rest.Do(ctx, http.MethodPut, "/constituents/"+url.PathEscape(con.ID), toConstituentBody(con), nil)
}

// DeleteConstituent removes a constituent. Used by sandbox cleanup only.
func (c *Client) DeleteConstituent(ctx context.Context, id string) error {
	return c.rest.Do(ctx, http.MethodDelete, "/constituents/"+url.PathEscape(id), nil, nil)
}

type preferenceItem struct {
	PreferenceType    string `json:"PreferenceType"`
	PreferenceName    string `json:"PreferenceName"`
	PreferenceAllowed bool   `json:"PreferenceAllowed"`
}

type preferencesBody struct {
	ConsentStatement string           `json:"ConsentStatement,omitempty"`
	Reason           string           `json:"Reason,omitempty"`
	PreferencesList  []preferenceItem `json:"PreferencesList"`
}

// GetPreferences returns the stored consent entries.
func (c *Client) GetPreferences(ctx context.Context, constituentID string) ([]domain.Preference, error) {
	var out preferencesBody
	if err := c.rest.Do(ctx, http.MethodGet, "/constituents/"+url.PathEscape(constituentID)+"/Preferences", nil, &out); err != nil {
		return nil, err
	}
	prefs := make([]domain.Preference, 0, len(out.PreferencesList))
	for _, p := range out.PreferencesList {
		prefs = append(prefs, domain.Preference{
			Type:    domain.PreferenceType(p.PreferenceType),
			Name:    p.PreferenceName,
			Allowed: p.PreferenceAllowed,
		})
	}
	return prefs, nil
}

// UpdatePreferences writes the complete preference set.
func (c *Client) UpdatePreferences(ctx context.Context, constituentID string, prefs []domain.Preference) error {
	body := preferencesBody{
		ConsentStatement: consentReason,
		Reason:           consentReason,
		PreferencesList:  make([]preferenceItem, 0, len(prefs)),
	}
	for _, p := range prefs {
		body.PreferencesList = append(body.PreferencesList, preferenceItem{
			PreferenceType:    string(p.Type),
			PreferenceName:    p.Name,
			PreferenceAllowed: p.Allowed,
		})
	}
	return c.rest.Do(ctx, http.MethodPost, "/constituents/"+url.PathEscape(constituentID)+"/Preferences", body, nil)
}

// AddTags adds tags in Category_Name form. The API takes a comma-separated list.
func (c *Client) AddTags(ctx context.Context, constituentID string, tags []string) error {
	if len(tags) == 0 {
		return nil
	}
	return c.rest.Do(ctx, http.MethodPost, "/constituents/"+url.PathEscape(constituentID)+"/AddActiveTags", strings.Join(tags, ","), nil)
}

// RemoveTag removes a single tag.
func (c *Client) RemoveTag(ctx context.Context, constituentID string, tag string) error {
	return c.rest.Do(ctx, http.MethodPost, "/constituents/"+url.PathEscape(constituentID)+"/RemoveTag", tag, nil)
}

type tagItem struct {
	Tag string `json:"Tag"`
}

// GetTags lists the constituent's active tags.
func (c *Client) GetTags(ctx context.Context, constituentID string) ([]string, error) {
	var out []tagItem
	if err := c.rest.Do(ctx, http.MethodGet, "/constituents/"+url.PathEscape(constituentID)+"/Tags", nil, &out); err != nil {
		return nil, err
	}
	tags := make([]string, 0, len(out))
	for _, t := range out {
		tags = append(tags, t.Tag)
	}
	return tags, nil
}

type activityBody struct {
	ExistingConstituentID string   `json:"ExistingConstituentId"`
	ActivityType          string   `json:"ActivityType"`
	ActivityDate          string   `json:"ActivityDate"`
	Notes                 string   `json:"Notes"`
	Number1               *float64 `json:"Number1,omitempty"`
}

type createdID struct {
	ID string `json:"Id"`
}

// CreateActivity appends an activity to a constituent.
func (c *Client) CreateActivity(ctx context.Context, a domain.Activity) (string, error) {
	body := activityBody{
		ExistingConstituentID: a.ConstituentID,
		ActivityType:          a.ActivityType,
		ActivityDate:          time.Now().UTC().Format(dateLayout),
		Notes:                 a.Notes,
		Number1:               a.Amount,
	}
	var out createdID
	if err := c.rest.Do(ctx, http.MethodPost, "/activities", body, &out); err != nil {
		return "", err
	}
	return out.ID, nil
}

type giftAidBody struct {
	TaxPayerTitle        string `json:"TaxPayerTitle"`
	TaxPayerFirstName    string `json:"TaxPayerFirstName"`
	TaxPayerLastName     string `json:"TaxPayerLastName"`
	DeclarationMethod    string `json:"DeclarationMethod"`
	DeclarationDate      string `json:"DeclarationDate"`
	DeclarationStartDate string `json:"DeclarationStartDate"`
	DeclarationEndDate   string `json:"DeclarationEndDate"`
}

// CreateGiftAidDeclaration records a gift aid declaration.
func (c *Client) CreateGiftAidDeclaration(ctx context.Context, constituentID string, decl domain.GiftAidDeclaration) (string, error) {
	body := giftAidBody{
		TaxPayerTitle:        decl.TaxPayerTitle,
		TaxPayerFirstName:    decl.TaxPayerFirstName,
		TaxPayerLastName:     decl.TaxPayerLastName,
		DeclarationMethod:    declarationWeb,
		DeclarationDate:      decl.DeclarationDate.Format(dateLayout),
		DeclarationStartDate: decl.StartDate.Format(dateLayout),
		DeclarationEndDate:   decl.EndDate.Format(dateLayout),
	}
	var out createdID
	if err := c.rest.Do(ctx, http.MethodPost, "/constituents/"+url.PathEscape(constituentID)+"/GiftAidDeclarations", body, &out); err != nil {
		return "", err
	}
	return out.ID, nil
}

type transactionBody struct {
	ID                    string  `json:"Id,omitempty"`
	ExistingConstituentID string  `json:"ExistingConstituentId"`
	Product               string  `json:"Product"`
	Quantity              int     `json:"Quantity"`
	Amount                float64 `json:"Amount"`
	Currency              string  `json:"Currency"`
	Campaign              string  `json:"Campaign"`
	Fund                  string  `json:"Fund"`
	PaymentMethod         string  `json:"PaymentMethod"`
	DatePaid              string  `json:"DatePaid"`
	UtmSource             string  `json:"UtmSource"`
	UtmMedium             string  `json:"UtmMedium"`
	UtmCampaign           string  `json:"UtmCampaign"`
}

// CreateTransaction records a donation transaction.
func (c *Client) CreateTransaction(ctx context.Context, tx domain.Transaction) (string, error) {
	body := transactionBody{
		ExistingConstituentID: tx.ConstituentID,
		Product:               productDonation,
		Quantity:              1,
		Amount:                tx.Amount,
		Currency:              string(tx.Currency),
		Campaign:              tx.Campaign,
		Fund:                  tx.Fund,
		PaymentMethod:         tx.PaymentMethod,
		DatePaid:              tx.ChargeDate.UTC().Format(dateLayout),
		UtmSource:             tx.UTM.Source,
		UtmMedium:             tx.UTM.Medium,
		UtmCampaign:           tx.UTM.Campaign,
	}
	var out createdID
	if err := c.rest.Do(ctx, http.MethodPost, "/transactions", body, &out); err != nil {
		return "", err
	}
	if out.ID == "" {
		return "", fmt.Errorf("crm:%s create transaction: empty id in response", c.instance)
	}
	return out.ID, nil
}

// GetTransaction reads a transaction back.
func (c *Client) GetTransaction(ctx context.Context, id string) (*domain.Transaction, error) {
	var out transactionBody
	if err := c.rest.Do(ctx, http.MethodGet, "/transactions/"+url.PathEscape(id), nil, &out); err != nil {
		return nil, err
	}
	paid, _ := time.Parse(dateLayout, out.DatePaid)
	return &domain.Transaction{
		ID:            id,
		ConstituentID: out.ExistingConstituentID,
		Amount:        out.Amount,
		Currency:      domain.Currency(out.Currency),
		Campaign:      out.Campaign,
		Fund:          out.Fund,
		PaymentMethod: out.PaymentMethod,
		UTM:           domain.UTM{Source: out.UtmSource, Medium: out.UtmMedium, Campaign: out.UtmCampaign},
		ChargeDate:    paid,
	}, nil
}

// DeleteTransaction removes a transaction. Used by sandbox cleanup only.
func (c *Client) DeleteTransaction(ctx context.Context, id string) error {
	return c.rest.Do(ctx, http.MethodDelete, "/transactions/"+url.PathEscape(id), nil, nil)
}
