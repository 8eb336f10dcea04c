package reddit

import (
	"context"
	"time"

	log "github.com/sirupsen/logrus"
)

const DefaultUserAgent = "web:thread-scraper:v1.0.0"

type Config struct {
	ClientID     string
	ClientSecret string
	UserAgent    string
	Timeout      time.Duration
}

// Credentialed reports whether both client credentials are set.
func (c Config) Credentialed() bool {
	return c.ClientID != "" && c.ClientSecret != ""
}

// Scraper resolves, fetches and flattens threads.
type Scraper struct {
	resolver *Resolver
	fetcher  *Fetcher
}

func New(cfg Config) *Scraper {
	if cfg.UserAgent == "" {
		cfg.UserAgent = DefaultUserAgent
	}
	client := NewHTTPClient(cfg.Timeout)

	var tokens *TokenCache
	if cfg.Credentialed() {
		tokens = NewTokenCache(cfg.ClientID, cfg.ClientSecret, cfg.UserAgent, client)
	}

	return &Scraper{
		resolver: NewResolver(tokens != nil),
		fetcher:  NewFetcher(client, tokens, cfg.UserAgent),
	}
}

func (s *Scraper) Credentialed() bool {
	return s.fetcher.Credentialed()
}

// Scrape returns the thread behind rawURL. Any error leaves the result nil.
func (s *Scraper) Scrape(ctx context.Context, rawURL string) (*ThreadResult, error) {
	endpoint, err := s.resolver.Resolve(rawURL)
	if err != nil {
		return nil, err
	}
	log.Debugf("[Scraper] %q resolved to %s", rawURL, endpoint)

	doc, err := s.fetcher.Fetch(ctx, endpoint)
	if err != nil {
		return nil, err
	}

	thread, err := ParseThread(doc)
	if err != nil {
		return nil, err
	}
	log.Debugf("[Scraper] %s: %d comments", endpoint, len(thread.Comments))

	return thread, nil
}
