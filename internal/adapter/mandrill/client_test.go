package mandrill

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"donor-reconciler/internal/core/ports"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClient_SendTemplate(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/1.0/messages/send-template.json", r.URL.Path)

		var req sendTemplateRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "md-key", req.Key)
		assert.Equal(t, "ty-usd", req.TemplateName)
		assert.Equal(t, []recipient{{Email: "amy@example.com", Name: "Amy Pond", Type: "to"}}, req.Message.To)
		assert.Equal(t, "giving@example.org", req.Message.FromEmail)
		assert.Equal(t, []mergeVar{{Name: "amount", Content: "$10.25"}, {Name: "first_name", Content: "Amy"}}, req.Message.GlobalMergeVars)
		assert.Equal(t, []string{"thank-you", "stripe"}, req.Message.Tags)

		_, _ = w.Write([]byte(`[{"email":"amy@example.com","status":"sent"}]`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL+"/api/1.0", "md-key", "giving@example.org", "Giving Team", srv.Client())
	err := c.SendTemplate(context.Background(), ports.TemplateMessage{
		Template: "ty-usd",
		ToEmail:  "amy@example.com",
		ToName:   "Amy Pond",
		Vars:     map[string]string{"first_name": "Amy", "amount": "$10.25"},
		Tags:     []string{"thank-you", "stripe"},
	})
	assert.NoError(t, err)
}

func TestClient_SendTemplate_Rejected(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`[{"email":"bad@example.com","status":"rejected","reject_reason":"hard-bounce"}]`))
	}))
	defer srv.Close()

	err := NewClient(srv.URL, "k", "", "", srv.Client()).SendTemplate(context.Background(), ports.TemplateMessage{ToEmail: "bad@example.com"})
	assert.ErrorContains(t, err, "hard-bounce")
}

func TestClient_SendTemplate_HTTPError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"status":"error","name":"Invalid_Key"}`))
	}))
	defer srv.Close()

	err := NewClient(srv.URL, "k", "", "", srv.Client()).SendTemplate(context.Background(), ports.TemplateMessage{ToEmail: "a@example.com"})
	assert.ErrorContains(t, err, "Invalid_Key")
}
