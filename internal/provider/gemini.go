package provider

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"sage/internal/agent"
	"sage/internal/auth"
)

// HTTPDoer is the subset of http.Client the provider needs, split out
// for test injection.
type HTTPDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

// Config locates a Gemini generateContent endpoint and tunes sampling.
type Config struct {
	URL         string
	Model       string
	Temperature *float64
	TopP        *float64
	TopK        *int
	MaxTokens   int
	Timeout     time.Duration
}

// Gemini calls the generateContent endpoint with bearer tokens from a
// TokenSource. It implements agent.Provider.
type Gemini struct {
	cfg    Config
	tokens auth.TokenSource
	http   HTTPDoer
}

// NewGemini builds a provider. A nil doer falls back to the default
// HTTP client.
func NewGemini(cfg Config, tokens auth.TokenSource, doer HTTPDoer) *Gemini {
	if doer == nil {
		doer = http.DefaultClient
	}
	return &Gemini{cfg: cfg, tokens: tokens, http: doer}
}

// Complete implements agent.Provider.
func (g *Gemini) Complete(ctx context.Context, prompt agent.Prompt) (agent.Response, error) {
	token, err := g.tokens.Token(ctx)
	if err != nil {
		return agent.Response{}, &InferenceError{Kind: KindAuth, Detail: "acquire token", Err: err}
	}

	request, err := buildRequest(g.cfg, prompt)
	if err != nil {
		return agent.Response{}, err
	}
	body, err := json.Marshal(request)
	if err != nil {
		return agent.Response{}, fmt.Errorf("encode request: %w", err)
	}

	if g.cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, g.cfg.Timeout)
		defer cancel()
	}
	endpoint := strings.TrimSuffix(g.cfg.URL, "/") + "/models/" + g.cfg.Model + ":generateContent"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return agent.Response{}, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := g.http.Do(req)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return agent.Response{}, &InferenceError{Kind: KindTimeout, Detail: fmt.Sprintf("no response within %s", g.cfg.Timeout), Err: err}
		}
		return agent.Response{}, fmt.Errorf("call model: %w", err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return agent.Response{}, &InferenceError{Kind: KindAuth, Detail: readDetail(resp.Body)}
	case resp.StatusCode == http.StatusTooManyRequests:
		return agent.Response{}, &InferenceError{Kind: KindRateLimit, Detail: readDetail(resp.Body)}
	case resp.StatusCode < 200 || resp.StatusCode >= 300:
		detail := fmt.Sprintf("status %d: %s", resp.StatusCode, readDetail(resp.Body))
		return agent.Response{}, &InferenceError{Kind: KindMalformedResponse, Detail: detail}
	}

	return parseResponse(resp.Body)
}

func readDetail(body io.Reader) string {
	detail, _ := io.ReadAll(io.LimitReader(body, 512))
	return strings.TrimSpace(string(detail))
}
