package reddit

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"

	log "github.com/sirupsen/logrus"
)

const (
	maxDiagnosticBody = 4 << 10
	maxDocumentBody   = 32 << 20
)

// Fetcher downloads thread documents. With a token cache it works in
// credentialed mode and never falls back to anonymous requests.
type Fetcher struct {
	client    *http.Client
	tokens    *TokenCache
	userAgent string
	maxBody   int64
}

func NewFetcher(client *http.Client, tokens *TokenCache, userAgent string) *Fetcher {
	return &Fetcher{
		client:    client,
		tokens:    tokens,
		userAgent: userAgent,
		maxBody:   maxDocumentBody,
	}
}

func (f *Fetcher) Credentialed() bool {
	return f.tokens != nil
}

// Fetch issues exactly one GET for endpoint and returns the raw body.
// The access token is only ever sent to the API host.
func (f *Fetcher) Fetch(ctx context.Context, endpoint string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidURL, err)
	}

	req.Header.Set("User-Agent", f.userAgent)
	req.Header.Set("Accept", "application/json")
	if f.Credentialed() && strings.EqualFold(req.URL.Hostname(), apiHostname) {
		token := f.tokens.Token(ctx)
		if token == "" {
			return nil, ErrAuth
		}
		req.Header.Set("Authorization", "bearer "+token)
	} else {
		req.Header.Set("Accept-Language", "en-US,en;q=0.9")
		req.Header.Set("Referer", publicHost+"/")
	}

	res, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUpstreamUnavailable, err)
	}
	defer res.Body.Close()

	if res.StatusCode < 200 || res.StatusCode > 299 {
		snippet, _ := io.ReadAll(io.LimitReader(res.Body, maxDiagnosticBody))
		log.Debugf("[Fetcher] %s returned %d: %s", endpoint, res.StatusCode, snippet)
		return nil, &UpstreamError{StatusCode: res.StatusCode}
	}

	body, err := io.ReadAll(io.LimitReader(res.Body, f.maxBody+1))
	if err != nil {
		return nil, fmt.Errorf("%w: failed to read response body: %v", ErrUpstreamUnavailable, err)
	}
	if int64(len(body)) > f.maxBody {
		return nil, fmt.Errorf("%w: %s is larger than %d bytes", ErrDocumentTooLarge, endpoint, f.maxBody)
	}

	return body, nil
}
