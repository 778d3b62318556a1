package restclient

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"donor-reconciler/internal/core/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClient_Do_JSONRoundTrip(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/things", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		assert.Equal(t, "2015-07-06", r.Header.Get("X-Version"))
		user, pass, ok := r.BasicAuth()
		assert.True(t, ok)
		assert.Equal(t, "anystring", user)
		assert.Equal(t, "key", pass)

		var in map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&in))
		assert.Equal(t, "hello", in["name"])

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"t-1"}`))
	}))
	defer srv.Close()

	c := New("things", srv.URL+"/api/", srv.Client(), WithBasicAuth("anystring", "key"), WithHeader("X-Version", "2015-07-06"))

	var out struct {
		ID string `json:"id"`
	}
	require.NoError(t, c.Do(context.Background(), http.MethodPost, "/things", map[string]string{"name": "hello"}, &out))
	assert.Equal(t, "t-1", out.ID)
}

func TestClient_Do_NotFound(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, `{"detail":"missing"}`, http.StatusNotFound)
	}))
	defer srv.Close()

	err := New("things", srv.URL, srv.Client()).Do(context.Background(), http.MethodGet, "/x", nil, nil)
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrNotFound))
	assert.Equal(t, http.StatusNotFound, StatusCode(err))
	assert.Contains(t, err.Error(), "missing")
}

func TestClient_Do_ServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	err := New("things", srv.URL, srv.Client()).Do(context.Background(), http.MethodDelete, "/x", nil, nil)
	require.Error(t, err)
	assert.False(t, errors.Is(err, domain.ErrNotFound))
	assert.Equal(t, http.StatusBadGateway, StatusCode(err))
}

func TestClient_Do_EmptyBodyWithOut(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	var out map[string]any
	assert.NoError(t, New("things", srv.URL, srv.Client()).Do(context.Background(), http.MethodPut, "/x", nil, &out))
	assert.Nil(t, out)
}

func TestClient_Do_TransportError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	url := srv.URL
	srv.Close()

	err := New("things", url, http.DefaultClient).Do(context.Background(), http.MethodGet, "/x", nil, nil)
	require.Error(t, err)
	assert.Equal(t, 0, StatusCode(err))
}
