// Package mailchimp implements ports.EmailMarketing against the Mailchimp
// Marketing API v3.
package mailchimp

import (
	"context"
	"crypto/md5"
	"encoding/hex"
	"net/http"
	"net/url"
	"strings"

	"donor-reconciler/internal/adapter/restclient"
	"donor-reconciler/internal/core/ports"
)

const (
	tagActive   = "active"
	tagInactive = "inactive"
)

// Client implements ports.EmailMarketing.
type Client struct {
	rest *restclient.Client
}

// NewClient creates a Mailchimp client. baseURL carries the data-centre,
// e.g. https://us21.api.mailchimp.com/3.0.
func NewClient(baseURL, apiKey string, httpClient restclient.HTTPClient) *Client {
	return &Client{
		rest: restclient.New("mailchimp", baseURL, httpClient, restclient.WithBasicAuth("donor-reconciler", apiKey)),
	}
}

// SubscriberHash is the member id Mailchimp derives from an address.
func SubscriberHash(email string) string {
	sum := md5.Sum([]byte(strings.ToLower(strings.TrimSpace(email))))
	return hex.EncodeToString(sum[:])
}

func memberPath(listID, email string) string {
	return "/lists/" + url.PathEscape(listID) + "/members/" + SubscriberHash(email)
}

type memberBody struct {
	EmailAddress string            `json:"email_address"`
	StatusIfNew  string            `json:"status_if_new"`
	MergeFields  map[string]string `json:"merge_fields,omitempty"`
}

// UpsertMember creates the member or updates its merge fields. The status
// only applies to new members so an existing opt-out is never overwritten.
func (c *Client) UpsertMember(ctx context.Context, listID string, m ports.MarketingMember) error {
	body := memberBody{
		EmailAddress: m.Email,
		StatusIfNew:  m.Status,
		MergeFields:  map[string]string{"FNAME": m.FirstName, "LNAME": m.LastName},
	}
	return c.rest.Do(ctx, http.MethodPut, memberPath(listID, m.Email), body, nil)
}

type tag struct {
	Name   string `json:"name"`
	Status string `json:"status"`
}

type tagsBody struct {
	Tags []tag `json:"tags"`
}

func newTagsBody(names []string, status string) tagsBody {
	body := tagsBody{Tags: make([]tag, 0, len(names))}
	for _, n := range names {
		body.Tags = append(body.Tags, tag{Name: n, Status: status})
	}
	return body
}

// AddTags activates tags on a member.
func (c *Client) AddTags(ctx context.Context, listID, email string, tags []string) error {
	return c.rest.Do(ctx, http.MethodPost, memberPath(listID, email)+"/tags", newTagsBody(tags, tagActive), nil)
}

// RemoveTags deactivates tags on a member. A missing member surfaces as
// domain.ErrNotFound.
func (c *Client) RemoveTags(ctx context.Context, listID, email string, tags []string) error {
	return c.rest.Do(ctx, http.MethodPost, memberPath(listID, email)+"/tags", newTagsBody(tags, tagInactive), nil)
}
