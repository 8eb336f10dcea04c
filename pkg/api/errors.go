package api

import (
	"errors"
	"net/http"

	"scraper/pkg/reddit"
)

// errorResponse maps a scrape failure to the status and message sent to the client.
// Upstream statuses are passed through unchanged.
func errorResponse(err error) (int, string) {
	var upErr *reddit.UpstreamError

	switch {
	case errors.Is(err, reddit.ErrMissingInput):
		return http.StatusBadRequest, reddit.ErrMissingInput.Error()
	case errors.Is(err, reddit.ErrInvalidURL):
		return http.StatusBadRequest, reddit.ErrInvalidURL.Error()
	case errors.As(err, &upErr):
		return upErr.StatusCode, upErr.Error()
	case errors.Is(err, reddit.ErrAuth):
		return http.StatusInternalServerError, reddit.ErrAuth.Error()
	case errors.Is(err, reddit.ErrMalformedDocument):
		return http.StatusInternalServerError, reddit.ErrMalformedDocument.Error()
	case errors.Is(err, reddit.ErrDocumentTooLarge):
		return http.StatusBadGateway, reddit.ErrDocumentTooLarge.Error()
	case errors.Is(err, reddit.ErrUpstreamUnavailable):
		return http.StatusBadGateway, reddit.ErrUpstreamUnavailable.Error()
	default:
		return http.StatusInternalServerError, "Internal Server Error"
	}
}
