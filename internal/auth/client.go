package auth

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"
)

// AuthError reports a rejected token request.
type AuthError struct {
	Status int
	Detail string
}

func (e *AuthError) Error() string {
	return fmt.Sprintf("token endpoint returned %d: %s", e.Status, e.Detail)
}

// Config locates the token endpoint and carries the client-credentials
// grant inputs.
type Config struct {
	URL          string
	ClientID     string
	ClientSecret string
	Scope        []string
	// DefaultTTL applies when the endpoint omits expires_in.
	DefaultTTL time.Duration
}

// TokenSource yields a bearer token valid at the time of the call.
type TokenSource interface {
	Token(ctx context.Context) (string, error)
}

// HTTPDoer is the subset of http.Client the token client needs.
type HTTPDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

// refreshBuffer treats tokens as expired slightly early so calls in
// flight do not race the real expiry.
const refreshBuffer = 10 * time.Second

// Client caches one client-credentials token and refreshes it on
// demand. The mutex is held across the refresh, so concurrent callers
// block on a single round trip instead of stampeding the endpoint.
type Client struct {
	cfg   Config
	http  HTTPDoer
	clock func() time.Time

	mu        sync.Mutex
	token     string
	tokenType string
	expiresAt time.Time
}

// NewClient builds a token client. A nil doer falls back to the default
// HTTP client.
func NewClient(cfg Config, doer HTTPDoer) *Client {
	if doer == nil {
		doer = http.DefaultClient
	}
	if cfg.DefaultTTL <= 0 {
		cfg.DefaultTTL = time.Minute
	}
	return &Client{cfg: cfg, http: doer, clock: time.Now}
}

// Token returns the cached token, refreshing first when it is missing
// or within the expiry buffer.
func (c *Client) Token(ctx context.Context) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.token != "" && c.clock().Before(c.expiresAt.Add(-refreshBuffer)) {
		return c.token, nil
	}
	if err := c.refresh(ctx); err != nil {
		return "", err
	}
	return c.token, nil
}

// Invalidate drops the cached token so the next Token call refreshes.
func (c *Client) Invalidate() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.token = ""
	c.expiresAt = time.Time{}
}

func (c *Client) refresh(ctx context.Context) error {
	form := url.Values{}
	form.Set("grant_type", "client_credentials")
	form.Set("client_id", c.cfg.ClientID)
	form.Set("client_secret", c.cfg.ClientSecret)
	if len(c.cfg.Scope) > 0 {
		form.Set("scope", strings.Join(c.cfg.Scope, " "))
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.URL, strings.NewReader(form.Encode()))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("request token: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return &AuthError{Status: resp.StatusCode, Detail: strings.TrimSpace(string(detail))}
	}

	var grant struct {
		AccessToken string `json:"access_token"`
		TokenType   string `json:"token_type"`
		ExpiresIn   int    `json:"expires_in"`
		Scope       string `json:"scope"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&grant); err != nil {
		return fmt.Errorf("decode token response: %w", err)
	}
	if grant.AccessToken == "" {
		return &AuthError{Status: resp.StatusCode, Detail: "response carried no access_token"}
	}

	ttl := c.cfg.DefaultTTL
	if grant.ExpiresIn > 0 {
		ttl = time.Duration(grant.ExpiresIn) * time.Second
	}
	c.token = grant.AccessToken
	c.tokenType = grant.TokenType
	c.expiresAt = c.clock().Add(ttl)
	return nil
}
