package identity

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/repairtrack-api/internal/domain"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
)

const (
	scope        = "https://www.googleapis.com/auth/identitytoolkit"
	baseEndpoint = "https://identitytoolkit.googleapis.com/v1/projects/%s/accounts"
)

// Client talks to the identity provider's admin API. It owns account
// lifecycle (create, delete) and refresh-token revocation; this service never
// stores or verifies passwords itself.
type Client struct {
	httpClient *http.Client
	baseURL    string
}

// NewClient builds an identity client from service-account JSON credentials.
// The project ID is read from the credentials file.
func NewClient(ctx context.Context, serviceAccountJSON []byte) (*Client, error) {
	creds, err := google.CredentialsFromJSON(ctx, serviceAccountJSON, scope)
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
		baseURL:    fmt.Sprintf(baseEndpoint, creds.ProjectID),
	}, nil
}

type createAccountRequest struct {
	Email       string `json:"email"`
	Password    string `json:"password"`
	DisplayName string `json:"displayName,omitempty"`
}

type createAccountResponse struct {
	LocalID string `json:"localId"`
}

// CreateUser provisions a new account and returns its uid.
func (c *Client) CreateUser(ctx context.Context, email, password, displayName string) (string, error) {
	var resp createAccountResponse
	err := c.post(ctx, c.baseURL, createAccountRequest{
		Email:       email,
		Password:    password,
		DisplayName: displayName,
	}, &resp)
	if err != nil {
		return "", err
	}
	if resp.LocalID == "" {
		return "", fmt.Errorf("identity provider returned no uid")
	}
	return resp.LocalID, nil
}

// DeleteUser removes the account with the given uid.
func (c *Client) DeleteUser(ctx context.Context, uid string) error {
	return c.post(ctx, c.baseURL+":delete", map[string]string{"localId": uid}, nil)
}

// RevokeRefreshTokens invalidates every refresh token issued to the account
// by moving its validSince watermark to now. Bearer tokens already issued
// expire on their own schedule.
func (c *Client) RevokeRefreshTokens(ctx context.Context, uid string) error {
	return c.post(ctx, c.baseURL+":update", map[string]string{
		"localId":    uid,
		"validSince": fmt.Sprintf("%d", time.Now().Unix()),
	}, nil)
}

func (c *Client) post(ctx context.Context, url string, body, out interface{}) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return fmt.Errorf("identity account: %w", domain.ErrNotFound)
	}
	if resp.StatusCode != http.StatusOK {
		var apiErr struct {
			Error struct {
				Message string `json:"message"`
			} `json:"error"`
		}
		_ = json.NewDecoder(resp.Body).Decode(&apiErr)
		if apiErr.Error.Message != "" {
			return fmt.Errorf("identity provider: %s", apiErr.Error.Message)
		}
		return fmt.Errorf("identity provider: %s", resp.Status)
	}
	if out != nil {
		return json.NewDecoder(resp.Body).Decode(out)
	}
	return nil
}
