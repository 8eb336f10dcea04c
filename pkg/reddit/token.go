package reddit

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync/atomic"
	"time"

	log "github.com/sirupsen/logrus"
)

const (
	accessTokenURL = "https://www.reddit.com/api/v1/access_token"
	expiryBuffer   = 60 * time.Second
)

type accessToken struct {
	value    string
	issued   time.Time
	lifetime time.Duration
}

func (t *accessToken) valid(now time.Time) bool {
	return now.Before(t.issued.Add(t.lifetime - expiryBuffer))
}

type tokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int64  `json:"expires_in"`
}

// TokenCache hands out application-only access tokens and refreshes them
// shortly before they expire. Failures are never cached.
//
// The cached token is replaced as a whole, so concurrent callers see either
// the old or the new token. Racing refreshes are possible and harmless.
type TokenCache struct {
	clientID     string
	clientSecret string
	userAgent    string
	tokenURL     string

	client  *http.Client
	now     func() time.Time
	current atomic.Pointer[accessToken]
}

func NewTokenCache(clientID, clientSecret, userAgent string, client *http.Client) *TokenCache {
	return &TokenCache{
		clientID:     clientID,
		clientSecret: clientSecret,
		userAgent:    userAgent,
		tokenURL:     accessTokenURL,
		client:       client,
		now:          time.Now,
	}
}

// Token returns a valid access token or an empty string if none can be obtained.
func (c *TokenCache) Token(ctx context.Context) string {
	now := c.now()
	if t := c.current.Load(); t != nil && t.valid(now) {
		return t.value
	}

	t, err := c.exchange(ctx, now)
	if err != nil {
		log.Errorf("[TokenCache] failed to obtain access token: %v", err)
		return ""
	}
	c.current.Store(t)
	log.Debugf("[TokenCache] access token refreshed, valid for %v", t.lifetime)

	return t.value
}

func (c *TokenCache) exchange(ctx context.Context, now time.Time) (*accessToken, error) {
	if c.clientID == "" || c.clientSecret == "" {
		return nil, fmt.Errorf("client credentials are not configured")
	}

	form := url.Values{}
	form.Set("grant_type", "client_credentials")

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.tokenURL, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.SetBasicAuth(c.clientID, c.clientSecret)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("User-Agent", c.userAgent)

	res, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}
	defer res.Body.Close()

	if res.StatusCode < 200 || res.StatusCode > 299 {
		io.Copy(io.Discard, io.LimitReader(res.Body, maxDiagnosticBody))
		return nil, &UpstreamError{StatusCode: res.StatusCode}
	}

	var tr tokenResponse
	if err := json.NewDecoder(res.Body).Decode(&tr); err != nil {
		return nil, fmt.Errorf("failed to parse response: %w", err)
	}
	if tr.AccessToken == "" {
		return nil, fmt.Errorf("response has no access_token")
	}

	return &accessToken{
		value:    tr.AccessToken,
		issued:   now,
		lifetime: time.Duration(tr.ExpiresIn) * time.Second,
	}, nil
}
