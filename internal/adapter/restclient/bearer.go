package restclient

import (
	"context"
	"net/http"
	"time"

	"golang.org/x/oauth2"
)

// NewBearerClient returns an *http.Client that sends a static bearer token.
// A base client stored in ctx under oauth2.HTTPClient is used as transport.
func NewBearerClient(ctx context.Context, token string, timeout time.Duration) *http.Client {
	c := oauth2.NewClient(ctx, oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token, TokenType: "Bearer"}))
	c.Timeout = timeout
	return c
}
