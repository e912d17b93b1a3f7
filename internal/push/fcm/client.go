// Package fcm implements a Firebase Cloud Messaging HTTP v1 client with a
// multicast primitive: one payload, up to 500 tokens, one per-token outcome
// each.
package fcm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"golang.org/x/sync/errgroup"
)

const (
	fcmScope    = "https://www.googleapis.com/auth/firebase.messaging"
	fcmEndpoint = "https://fcm.googleapis.com/v1/projects/%s/messages:send"

	// MaxMulticastTokens is the provider ceiling per multicast call.
	MaxMulticastTokens = 500

	// sendConcurrency bounds parallel sends within one multicast call. The
	// v1 API has no server-side multicast, so the fan-out happens here.
	sendConcurrency = 16
)

// Client sends messages through the FCM HTTP v1 API using service-account
// credentials.
type Client struct {
	httpClient *http.Client
	sendURL    string
}

// Notification is the channel-agnostic notification block.
type Notification struct {
	Title string `json:"title"`
	Body  string `json:"body"`
	Image string `json:"image,omitempty"`
}

// AndroidNotification carries Android-specific display overrides.
type AndroidNotification struct {
	Sound string `json:"sound,omitempty"`
	Image string `json:"image,omitempty"`
}

// AndroidConfig carries Android delivery overrides.
type AndroidConfig struct {
	Priority     string               `json:"priority,omitempty"`
	Notification *AndroidNotification `json:"notification,omitempty"`
}

// APNSFCMOptions carries Apple-specific hints for tokens FCM itself relays
// to APNS.
type APNSFCMOptions struct {
	Image string `json:"image,omitempty"`
}

// APNSConfig is the apns override block inside an FCM message.
type APNSConfig struct {
	Payload    map[string]interface{} `json:"payload,omitempty"`
	FCMOptions *APNSFCMOptions        `json:"fcm_options,omitempty"`
}

// Message is one FCM v1 message minus the target token, which SendMulticast
// fills per destination.
type Message struct {
	Notification Notification      `json:"notification"`
	Android      *AndroidConfig    `json:"android,omitempty"`
	APNS         *APNSConfig       `json:"apns,omitempty"`
	Data         map[string]string `json:"data,omitempty"`
}

type sendRequest struct {
	Message sendMessage `json:"message"`
}

type sendMessage struct {
	Token        string            `json:"token"`
	Notification Notification      `json:"notification"`
	Android      *AndroidConfig    `json:"android,omitempty"`
	APNS         *APNSConfig       `json:"apns,omitempty"`
	Data         map[string]string `json:"data,omitempty"`
}

// SendResult is the outcome for one token within a multicast call.
type SendResult struct {
	Token     string
	MessageID string
	Error     string
}

// BatchResponse aggregates per-token outcomes of one multicast call.
type BatchResponse struct {
	SuccessCount int
	FailureCount int
	Responses    []SendResult
}

// NewClient builds an FCM client from service-account JSON credentials. The
// project ID is read from the credentials file.
func NewClient(ctx context.Context, serviceAccountJSON []byte) (*Client, error) {
	creds, err := google.CredentialsFromJSON(ctx, serviceAccountJSON, fcmScope)
	if err != nil {
		return nil, fmt.Errorf("parse credentials: %w", err)
	}
	if creds.ProjectID == "" {
		return nil, fmt.Errorf("credentials file has no project_id")
	}
	httpClient := oauth2.NewClient(ctx, creds.TokenSource)
	httpClient.Timeout = 10 * time.Second

	return &Client{
		httpClient: httpClient,
		sendURL:    fmt.Sprintf(fcmEndpoint, creds.ProjectID),
	}, nil
}

// SendMulticast delivers msg to up to MaxMulticastTokens tokens and reports
// one outcome per token. A rejected token never fails the call; an error is
// returned only when the call as a whole cannot proceed.
func (c *Client) SendMulticast(ctx context.Context, msg *Message, tokens []string) (*BatchResponse, error) {
	if len(tokens) == 0 {
		return nil, fmt.Errorf("no tokens supplied")
	}
	if len(tokens) > MaxMulticastTokens {
		return nil, fmt.Errorf("multicast limited to %d tokens, got %d", MaxMulticastTokens, len(tokens))
	}

	results := make([]SendResult, len(tokens))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(sendConcurrency)
	for i, token := range tokens {
		g.Go(func() error {
			results[i] = c.sendOne(gctx, msg, token)
			return nil
		})
	}
	// Goroutines only record results, they never return errors.
	_ = g.Wait()

	resp := &BatchResponse{Responses: results}
	for _, r := range results {
		if r.Error == "" {
			resp.SuccessCount++
		} else {
			resp.FailureCount++
		}
	}
	return resp, nil
}

func (c *Client) sendOne(ctx context.Context, msg *Message, token string) SendResult {
	result := SendResult{Token: token}

	body, err := json.Marshal(sendRequest{Message: sendMessage{
		Token:        token,
		Notification: msg.Notification,
		Android:      msg.Android,
		APNS:         msg.APNS,
		Data:         msg.Data,
	}})
	if err != nil {
		result.Error = err.Error()
		return result
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.sendURL, bytes.NewReader(body))
	if err != nil {
		result.Error = err.Error()
		return result
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		result.Error = err.Error()
		return result
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		var apiErr struct {
			Error struct {
				Status  string `json:"status"`
				Message string `json:"message"`
			} `json:"error"`
		}
		_ = json.NewDecoder(resp.Body).Decode(&apiErr)
		if apiErr.Error.Status != "" {
			result.Error = apiErr.Error.Status
		} else {
			result.Error = resp.Status
		}
		return result
	}

	var ok struct {
		Name string `json:"name"`
	}
	_ = json.NewDecoder(resp.Body).Decode(&ok)
	result.MessageID = ok.Name
	return result
}
