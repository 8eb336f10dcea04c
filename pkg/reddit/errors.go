package reddit

import (
	"fmt"
	"net/http"
)

var (
	ErrMissingInput        = fmt.Errorf("url is required")
	ErrInvalidURL          = fmt.Errorf("unable to recognize thread url")
	ErrAuth                = fmt.Errorf("unable to obtain upstream access token")
	ErrMalformedDocument   = fmt.Errorf("upstream returned malformed thread document")
	ErrUpstreamUnavailable = fmt.Errorf("upstream unavailable")
	ErrDocumentTooLarge    = fmt.Errorf("upstream thread document too large")
)

// UpstreamError is returned when the upstream answers with a non-success status.
type UpstreamError struct {
	StatusCode int
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("upstream returned status %d %s", e.StatusCode, http.StatusText(e.StatusCode))
}
