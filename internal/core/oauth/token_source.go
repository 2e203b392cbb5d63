// Package oauth caches carrier client-credentials access tokens.
package oauth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/facebookgo/clock"
)

// expirySkew renews a token this long before the carrier would reject it.
const expirySkew = 60 * time.Second

// ErrTokenRequest is returned when the carrier refuses to issue a token.
var ErrTokenRequest = errors.New("token request failed")

// Credentials identify the application against the carrier's token endpoint.
type Credentials struct {
	TokenURL      string
	ClientID      string
	ClientSecret  string
	AccountNumber string
}

// TokenSource hands out a cached bearer token and refreshes it after expiry.
// It is safe for concurrent use; concurrent callers share a single refresh.
type TokenSource struct {
	client *http.Client
	creds  Credentials
	clock  clock.Clock

	mu        sync.Mutex
	token     string
	expiresAt time.Time
}

// NewTokenSource creates a TokenSource. A nil clock means the wall clock.
func NewTokenSource(client *http.Client, creds Credentials, clk clock.Clock) *TokenSource {
	if clk == nil {
		clk = clock.New()
	}
	return &TokenSource{client: client, creds: creds, clock: clk}
}

// Token returns a valid access token, requesting a new one when the cached one expired.
func (s *TokenSource) Token(ctx context.Context) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.token != "" && s.clock.Now().Before(s.expiresAt) {
		return s.token, nil
	}

	token, ttl, err := s.fetch(ctx)
	if err != nil {
		return "", err
	}

	s.token = token
	s.expiresAt = s.clock.Now().Add(ttl - expirySkew)
	return s.token, nil
}

// Invalidate drops the cached token, e.g. after the carrier answered 401.
func (s *TokenSource) Invalidate() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = ""
	s.expiresAt = time.Time{}
}

// ExpiresAt reports when the cached token will be refreshed. Zero if none is cached.
func (s *TokenSource) ExpiresAt() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.expiresAt
}

type tokenResponse struct {
	AccessToken string      `json:"access_token"`
	ExpiresIn   json.Number `json:"expires_in"`
}

func (s *TokenSource) fetch(ctx context.Context) (string, time.Duration, error) {
	form := url.Values{"grant_type": {"client_credentials"}}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.creds.TokenURL, strings.NewReader(form.Encode()))
	if err != nil {
		return "", 0, fmt.Errorf("failed to create token request: %w", err)
	}
	req.SetBasicAuth(s.creds.ClientID, s.creds.ClientSecret)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	if s.creds.AccountNumber != "" {
		req.Header.Set("x-merchant-id", s.creds.AccountNumber)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return "", 0, fmt.Errorf("failed to execute token request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return "", 0, fmt.Errorf("%w: status %d: %s", ErrTokenRequest, resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var tr tokenResponse
	if err := json.NewDecoder(resp.Body).Decode(&tr); err != nil {
		return "", 0, fmt.Errorf("failed to decode token response: %w", err)
	}
	if tr.AccessToken == "" {
		return "", 0, fmt.Errorf("%w: empty access token", ErrTokenRequest)
	}

	seconds, err := strconv.ParseInt(tr.ExpiresIn.String(), 10, 64)
	if err != nil || seconds <= 0 {
		return "", 0, fmt.Errorf("%w: invalid expires_in %q", ErrTokenRequest, tr.ExpiresIn.String())
	}

	return tr.AccessToken, time.Duration(seconds) * time.Second, nil
}
