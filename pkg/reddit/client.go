package reddit

import (
	"fmt"
	"net/http"
	"time"
)

const maxRedirects = 10

// NewHTTPClient returns the client shared by the fetcher and the token cache.
// Share links answer with redirects to the thread, so they are followed,
// but never off the reddit domains.
func NewHTTPClient(timeout time.Duration) *http.Client {
	return &http.Client{
		Timeout: timeout,
		CheckRedirect: func(req *http.Request, via []*http.Request) error {
			if len(via) >= maxRedirects {
				return fmt.Errorf("stopped after %d redirects", maxRedirects)
			}
			if !isRedditHost(req.URL.Hostname()) {
				return fmt.Errorf("refusing redirect to %s", req.URL.Host)
			}
			return nil
		},
	}
}
