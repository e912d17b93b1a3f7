// Package apns implements an Apple Push Notification service provider
// session: ES256 provider-token auth over the APNs HTTP API, one session per
// dispatch invocation, explicit Close.
package apns

import (
	"bytes"
	"context"
	"crypto/ecdsa"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const (
	DevelopmentEndpoint = "https://api.sandbox.push.apple.com"
	ProductionEndpoint  = "https://api.push.apple.com"

	// MaxBatchDevices is the device ceiling accepted per Push call.
	MaxBatchDevices = 1000

	// Apple requires provider tokens between 20 and 60 minutes old.
	tokenLifetime = 50 * time.Minute
)

// Config holds the out-of-band credential material for a provider session.
type Config struct {
	SigningKey []byte // .p8 PEM contents
	KeyID      string
	TeamID     string
	Topic      string // app bundle identifier, sent as apns-topic
	Production bool
}

// Provider creates sessions. The signing key is parsed once at construction.
type Provider struct {
	cfg      Config
	key      *ecdsa.PrivateKey
	endpoint string
}

func NewProvider(cfg Config) (*Provider, error) {
	key, err := jwt.ParseECPrivateKeyFromPEM(cfg.SigningKey)
	if err != nil {
		return nil, fmt.Errorf("parse signing key: %w", err)
	}
	endpoint := DevelopmentEndpoint
	if cfg.Production {
		endpoint = ProductionEndpoint
	}
	return &Provider{cfg: cfg, key: key, endpoint: endpoint}, nil
}

// NewSession opens a provider session. The caller must Close it when the
// dispatch invocation completes.
func (p *Provider) NewSession() (*Session, error) {
	return &Session{
		httpClient: &http.Client{Timeout: 10 * time.Second},
		provider:   p,
	}, nil
}

// Session is one scoped APNs connection. It caches the signed provider token
// across chunks and must be closed exactly once.
type Session struct {
	httpClient *http.Client
	provider   *Provider

	mu          sync.Mutex
	bearer      string
	bearerBirth time.Time

	closeOnce sync.Once
}

// Alert is the visible alert block.
type Alert struct {
	Title string `json:"title"`
	Body  string `json:"body"`
}

// APS is the Apple-defined portion of a payload.
type APS struct {
	Alert          Alert  `json:"alert"`
	Sound          string `json:"sound,omitempty"`
	MutableContent int    `json:"mutable-content,omitempty"`
}

// Payload is one notification object. Custom entries are merged flat into
// the outer JSON object after the built-in fields, so a colliding key wins —
// an accepted quirk of the wire format, not guarded against.
type Payload struct {
	APS    APS
	Custom map[string]string
}

func (p *Payload) MarshalJSON() ([]byte, error) {
	m := make(map[string]interface{}, len(p.Custom)+1)
	m["aps"] = p.APS
	for k, v := range p.Custom {
		m[k] = v
	}
	return json.Marshal(m)
}

// Rejection describes one device the provider refused.
type Rejection struct {
	Device string
	Status int
	Reason string
}

// Result is the outcome of one Push call.
type Result struct {
	Sent   []string
	Failed []Rejection
}

// Push sends the payload to up to MaxBatchDevices device tokens and reports
// accepted and rejected devices. A rejected device never fails the call.
func (s *Session) Push(ctx context.Context, payload *Payload, deviceTokens []string) (*Result, error) {
	if len(deviceTokens) == 0 {
		return nil, fmt.Errorf("no device tokens supplied")
	}
	if len(deviceTokens) > MaxBatchDevices {
		return nil, fmt.Errorf("push limited to %d devices, got %d", MaxBatchDevices, len(deviceTokens))
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshal payload: %w", err)
	}
	bearer, err := s.providerToken()
	if err != nil {
		return nil, err
	}

	result := &Result{}
	for _, device := range deviceTokens {
		status, reason, err := s.pushOne(ctx, bearer, device, body)
		if err != nil {
			result.Failed = append(result.Failed, Rejection{Device: device, Reason: err.Error()})
			continue
		}
		if status == http.StatusOK {
			result.Sent = append(result.Sent, device)
		} else {
			result.Failed = append(result.Failed, Rejection{Device: device, Status: status, Reason: reason})
		}
	}
	return result, nil
}

func (s *Session) pushOne(ctx context.Context, bearer, device string, body []byte) (int, string, error) {
	url := fmt.Sprintf("%s/3/device/%s", s.provider.endpoint, device)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return 0, "", err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+bearer)
	req.Header.Set("apns-topic", s.provider.cfg.Topic)
	req.Header.Set("apns-push-type", "alert")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return 0, "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusOK {
		return http.StatusOK, "", nil
	}
	var apiErr struct {
		Reason string `json:"reason"`
	}
	_ = json.NewDecoder(resp.Body).Decode(&apiErr)
	return resp.StatusCode, apiErr.Reason, nil
}

// providerToken returns the cached ES256 provider token, re-signing it when
// it nears Apple's one-hour ceiling.
func (s *Session) providerToken() (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.bearer != "" && time.Since(s.bearerBirth) < tokenLifetime {
		return s.bearer, nil
	}

	token := jwt.NewWithClaims(jwt.SigningMethodES256, jwt.MapClaims{
		"iss": s.provider.cfg.TeamID,
		"iat": time.Now().Unix(),
	})
	token.Header["kid"] = s.provider.cfg.KeyID
	signed, err := token.SignedString(s.provider.key)
	if err != nil {
		return "", fmt.Errorf("sign provider token: %w", err)
	}
	s.bearer = signed
	s.bearerBirth = time.Now()
	return signed, nil
}

// Close releases the session's connections. Safe to call from a defer on
// every exit path; only the first call has any effect.
func (s *Session) Close() {
	s.closeOnce.Do(func() {
		s.httpClient.CloseIdleConnections()
	})
}
