// Package mandrill implements ports.Mailer with Mandrill stored templates.
package mandrill

import (
	"context"
	"fmt"
	"net/http"
	"sort"

	"donor-reconciler/internal/adapter/restclient"
	"donor-reconciler/internal/core/ports"
)

// Client implements ports.Mailer.
type Client struct {
	rest      *restclient.Client
	apiKey    string
	fromEmail string
	fromName  string
}

// NewClient creates a Mandrill client.
func NewClient(baseURL, apiKey, fromEmail, fromName string, httpClient restclient.HTTPClient) *Client {
	return &Client{
		rest:      restclient.New("mandrill", baseURL, httpClient),
		apiKey:    apiKey,
		fromEmail: fromEmail,
		fromName:  fromName,
	}
}

type recipient struct {
	Email string `json:"email"`
	Name  string `json:"name,omitempty"`
	Type  string `json:"type"`
}

type mergeVar struct {
	Name    string `json:"name"`
	Content string `json:"content"`
}

type message struct {
	To              []recipient `json:"to"`
	FromEmail       string      `json:"from_email,omitempty"`
	FromName        string      `json:"from_name,omitempty"`
	GlobalMergeVars []mergeVar  `json:"global_merge_vars"`
	MergeLanguage   string      `json:"merge_language"`
	Tags            []string    `json:"tags,omitempty"`
}

type sendTemplateRequest struct {
	Key             string     `json:"key"`
	TemplateName    string     `json:"template_name"`
	TemplateContent []mergeVar `json:"template_content"`
	Message         message    `json:"message"`
}

type sendResult struct {
	Email        string `json:"email"`
	Status       string `json:"status"`
	RejectReason string `json:"reject_reason"`
}

// SendTemplate renders and sends one stored template. A rejected or
// invalid recipient is an error.
func (c *Client) SendTemplate(ctx context.Context, msg ports.TemplateMessage) error {
	names := make([]string, 0, len(msg.Vars))
	for k := range msg.Vars {
		names = append(names, k)
	}
	sort.Strings(names)

	vars := make([]mergeVar, 0, len(names))
	for _, k := range names {
		vars = append(vars, mergeVar{Name: k, Content: msg.Vars[k]})
	}

	req := sendTemplateRequest{
		Key:             c.apiKey,
		TemplateName:    msg.Template,
		TemplateContent: []mergeVar{},
		Message: message{
			To:              []recipient{{Email: msg.ToEmail, Name: msg.ToName, Type: "to"}},
			FromEmail:       c.fromEmail,
			FromName:        c.fromName,
			GlobalMergeVars: vars,
			MergeLanguage:   "handlebars",
			Tags:            msg.Tags,
		},
	}

	var results []sendResult
	if err := c.rest.Do(ctx, http.MethodPost, "/messages/send-template.json", req, &results); err != nil {
		return err
	}
	for _, r := range results {
		if r.Status == "rejected" || r.Status == "invalid" {
			return fmt.Errorf("mandrill: %s %s: %s", r.Email, r.Status, r.RejectReason)
		}
	}
	return nil
}
