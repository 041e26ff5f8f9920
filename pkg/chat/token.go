package chat

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"
)

const (
	// SiteKey identifies the portfolio to the challenge service.
	SiteKey = "6LfladQrAAAAAFXXy77glfBU8wChqxagk1ipQGM5"
	// Action is the challenge action name for chat submissions.
	Action = "submit"
)

// TokenSource produces one-shot verification tokens.
type TokenSource interface {
	Token(ctx context.Context) (string, error)
}

// StaticToken always returns the same token. Local agent APIs accept any.
type StaticToken string

func (s StaticToken) Token(context.Context) (string, error) {
	return string(s), nil
}

// ChallengeClient fetches tokens from a challenge endpoint that answers
// GET ?sitekey=...&action=... with {"token": "..."}.
type ChallengeClient struct {
	Endpoint string
	SiteKey  string
	Action   string
	HTTP     *http.Client
}

// NewChallengeClient creates a client with the portfolio's site key.
func NewChallengeClient(endpoint string) *ChallengeClient {
	return &ChallengeClient{
		Endpoint: endpoint,
		SiteKey:  SiteKey,
		Action:   Action,
		HTTP:     &http.Client{Timeout: 15 * time.Second},
	}
}

// Token requests a fresh token.
func (c *ChallengeClient) Token(ctx context.Context) (string, error) {
	u, err := url.Parse(c.Endpoint)
	if err != nil {
		return "", fmt.Errorf("parse challenge endpoint: %w", err)
	}
	q := u.Query()
	q.Set("sitekey", c.SiteKey)
	q.Set("action", c.Action)
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return "", fmt.Errorf("create challenge request: %w", err)
	}

	res, err := c.HTTP.Do(req)
	if err != nil {
		return "", fmt.Errorf("challenge request failed: %w", err)
	}
	defer res.Body.Close()

	body, err := io.ReadAll(res.Body)
	if err != nil {
		return "", fmt.Errorf("read challenge response: %w", err)
	}
	if res.StatusCode != http.StatusOK {
		return "", fmt.Errorf("challenge error: status %d, body: %s", res.StatusCode, string(body))
	}

	var out struct {
		Token string `json:"token"`
	}
	if err := json.Unmarshal(body, &out); err != nil {
		return "", fmt.Errorf("decode challenge response: %w", err)
	}
	if out.Token == "" {
		return "", errors.New("challenge returned an empty token")
	}
	return out.Token, nil
}
