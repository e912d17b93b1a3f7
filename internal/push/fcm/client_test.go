package fcm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(handler http.Handler) (*Client, *httptest.Server) {
	srv := httptest.NewServer(handler)
	return &Client{httpClient: srv.Client(), sendURL: srv.URL}, srv
}

func TestSendMulticast_TokenLimits(t *testing.T) {
	c := &Client{}

	_, err := c.SendMulticast(context.Background(), &Message{}, nil)
	assert.Error(t, err)

	tokens := make([]string, MaxMulticastTokens+1)
	for i := range tokens {
		tokens[i] = "tok"
	}
	_, err = c.SendMulticast(context.Background(), &Message{}, tokens)
	assert.Error(t, err)
}

func TestSendMulticast_AllSucceed(t *testing.T) {
	var mu sync.Mutex
	seen := make(map[string]bool)

	c, srv := newTestClient(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Message struct {
				Token        string `json:"token"`
				Notification struct {
					Title string `json:"title"`
				} `json:"notification"`
			} `json:"message"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		mu.Lock()
		seen[req.Message.Token] = true
		mu.Unlock()
		assert.Equal(t, "hello", req.Message.Notification.Title)
		_ = json.NewEncoder(w).Encode(map[string]string{"name": "projects/p/messages/" + req.Message.Token})
	}))
	defer srv.Close()

	msg := &Message{Notification: Notification{Title: "hello", Body: "world"}}
	resp, err := c.SendMulticast(context.Background(), msg, []string{"tok-a", "tok-b", "tok-c"})
	require.NoError(t, err)

	assert.Equal(t, 3, resp.SuccessCount)
	assert.Zero(t, resp.FailureCount)
	require.Len(t, resp.Responses, 3)
	// Per-index outcomes stay aligned with the input token order.
	assert.Equal(t, "tok-a", resp.Responses[0].Token)
	assert.Equal(t, "tok-c", resp.Responses[2].Token)
	assert.Len(t, seen, 3)
}

func TestSendMulticast_RejectedTokenDoesNotFailCall(t *testing.T) {
	c, srv := newTestClient(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Message struct {
				Token string `json:"token"`
			} `json:"message"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		if req.Message.Token == "tok-bad" {
			w.WriteHeader(http.StatusNotFound)
			_ = json.NewEncoder(w).Encode(map[string]interface{}{
				"error": map[string]string{"status": "UNREGISTERED", "message": "Requested entity was not found."},
			})
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]string{"name": "projects/p/messages/1"})
	}))
	defer srv.Close()

	resp, err := c.SendMulticast(context.Background(), &Message{}, []string{"tok-ok", "tok-bad"})
	require.NoError(t, err)

	assert.Equal(t, 1, resp.SuccessCount)
	assert.Equal(t, 1, resp.FailureCount)
	assert.Empty(t, resp.Responses[0].Error)
	assert.Equal(t, "UNREGISTERED", resp.Responses[1].Error)
}

func TestSendMulticast_ErrorWithoutStatusFallsBackToHTTPStatus(t *testing.T) {
	c, srv := newTestClient(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	resp, err := c.SendMulticast(context.Background(), &Message{}, []string{"tok-a"})
	require.NoError(t, err)
	assert.Equal(t, 1, resp.FailureCount)
	assert.Contains(t, resp.Responses[0].Error, "500")
}

func TestNewClient_RejectsBadCredentials(t *testing.T) {
	_, err := NewClient(context.Background(), []byte("not json"))
	assert.Error(t, err)
}
