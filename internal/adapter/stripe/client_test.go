package stripe

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"donor-reconciler/internal/core/domain"
	"donor-reconciler/internal/core/ports"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewClient(srv.URL, srv.Client())
}

func TestClient_GetCustomer(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/customers/cus_1", r.URL.Path)
		_, _ = w.Write([]byte(`{
			"id":"cus_1","email":"amy@example.com","name":"Amy Pond","phone":"0123",
			"address":{"line1":"1 High St","city":"Leadworth","state":"Glos","postal_code":"GL1","country":"GB"},
			"metadata":{"origin":"donation-app","campaign":"Spring"}
		}`))
	})

	got, err := c.GetCustomer(context.Background(), "cus_1")
	require.NoError(t, err)
	assert.Equal(t, &ports.StripeCustomer{
		ID:       "cus_1",
		Email:    "amy@example.com",
		Name:     "Amy Pond",
		Phone:    "0123",
		Address:  ports.GatewayAddress{Line1: "1 High St", City: "Leadworth", Region: "Glos", PostalCode: "GL1", Country: "GB"},
		Metadata: map[string]string{"origin": "donation-app", "campaign": "Spring"},
	}, got)
}

func TestClient_GetCustomer_Deleted(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"id":"cus_1","deleted":true}`))
	})

	_, err := c.GetCustomer(context.Background(), "cus_1")
	assert.True(t, errors.Is(err, domain.ErrNotFound))
}

func TestClient_GetSubscription(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/subscriptions/sub_1", r.URL.Path)
		_, _ = w.Write([]byte(`{"id":"sub_1","customer":"cus_1","metadata":{"fund":"Water"}}`))
	})

	got, err := c.GetSubscription(context.Background(), "sub_1")
	require.NoError(t, err)
	assert.Equal(t, "cus_1", got.Customer)
	assert.Equal(t, "Water", got.Metadata["fund"])
}

func TestClient_UpstreamError(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	})

	_, err := c.GetSubscription(context.Background(), "sub_1")
	require.Error(t, err)
	assert.False(t, errors.Is(err, domain.ErrNotFound))
}
