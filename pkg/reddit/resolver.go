package reddit

import (
	"fmt"
	"net/url"
	"regexp"
	"strings"
)

const (
	apiHostname = "oauth.reddit.com"
	apiHost     = "https://" + apiHostname
	publicHost  = "https://www.reddit.com"
	shortHost   = "redd.it"
	jsonSuffix  = ".json"
)

// Patterns are matched against the link path only.
var (
	threadPattern = regexp.MustCompile(`(?i)/r/(?P<subreddit>[a-z0-9_]+)/comments/(?P<id>[a-z0-9]+)`)
	loosePattern  = regexp.MustCompile(`(?i)/comments/(?P<id>[a-z0-9]+)`)
	shortPattern  = regexp.MustCompile(`(?i)^/(?P<id>[a-z0-9]+)/?$`)
)

// alternateHosts are front-ends serving the same threads as the canonical host.
var alternateHosts = map[string]bool{
	"reddit.com":     true,
	"old.reddit.com": true,
	"new.reddit.com": true,
	"m.reddit.com":   true,
	"np.reddit.com":  true,
	"i.reddit.com":   true,
	"amp.reddit.com": true,
	"pay.reddit.com": true,
}

// isRedditHost reports whether host belongs to reddit.com or the redd.it short domain.
func isRedditHost(host string) bool {
	h := strings.TrimSuffix(strings.ToLower(host), ".")
	return h == "reddit.com" || strings.HasSuffix(h, ".reddit.com") || h == shortHost
}

// Resolver turns user supplied thread links into the upstream JSON endpoint.
// Credentialed resolvers prefer the authenticated API host when the link
// names both the subreddit and the thread.
type Resolver struct {
	Credentialed bool
}

func NewResolver(credentialed bool) *Resolver {
	return &Resolver{Credentialed: credentialed}
}

// Resolve returns the canonical endpoint for raw. Links outside the reddit
// domains are rejected. The first matching shape wins: subreddit and thread
// id (credentialed only), a bare thread id, then the link itself cleaned up
// and suffixed with ".json".
func (r *Resolver) Resolve(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", ErrMissingInput
	}

	u, err := parseLink(raw)
	if err != nil {
		return "", err
	}

	if r.Credentialed {
		if m := threadPattern.FindStringSubmatch(u.Path); m != nil {
			return fmt.Sprintf("%s/r/%s/comments/%s", apiHost, m[1], m[2]), nil
		}
	}

	if id := threadID(u); id != "" {
		return fmt.Sprintf("%s/comments/%s%s", publicHost, id, jsonSuffix), nil
	}

	return fallbackEndpoint(u)
}

func parseLink(raw string) (*url.URL, error) {
	s := raw
	if !strings.Contains(s, "://") {
		s = "https://" + s
	}

	u, err := url.Parse(s)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidURL, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("%w: unsupported scheme %q", ErrInvalidURL, u.Scheme)
	}
	if !isRedditHost(u.Hostname()) {
		return nil, fmt.Errorf("%w: %q is not a reddit link", ErrInvalidURL, raw)
	}

	return u, nil
}

func threadID(u *url.URL) string {
	pattern := loosePattern
	if strings.EqualFold(u.Hostname(), shortHost) {
		pattern = shortPattern
	}
	if m := pattern.FindStringSubmatch(u.Path); m != nil {
		return m[1]
	}
	return ""
}

func fallbackEndpoint(u *url.URL) (string, error) {
	path := strings.TrimRight(u.Path, "/")
	if path == "" || path == jsonSuffix || strings.EqualFold(u.Hostname(), shortHost) {
		return "", fmt.Errorf("%w: %q names no thread", ErrInvalidURL, u.String())
	}
	if !strings.HasSuffix(path, jsonSuffix) {
		path += jsonSuffix
	}

	host := strings.TrimSuffix(strings.ToLower(u.Hostname()), ".")
	if alternateHosts[host] {
		host = "www.reddit.com"
	}

	clean := url.URL{
		Scheme: u.Scheme,
		Host:   host,
		Path:   path,
	}
	return clean.String(), nil
}
