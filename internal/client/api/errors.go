package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/tidwall/gjson"
)

var (
	ErrUnauthorized = errors.New("unauthorized")
	ErrForbidden    = errors.New("forbidden")
	ErrConflict     = errors.New("conflict")
	ErrNotFound     = errors.New("not found")
	ErrUnavailable  = errors.New("server unavailable")
	ErrRequest      = errors.New("request rejected")
)

// mapStatus turns a non-2xx response into one of the sentinels. The server's
// human readable message, when present, is kept in the error text.
func mapStatus(status int, body []byte) error {
	msg := gjson.GetBytes(body, "error.message").String()
	if msg == "" {
		msg = http.StatusText(status)
	}

	var sentinel error
	switch {
	case status == http.StatusUnauthorized:
		sentinel = ErrUnauthorized
	case status == http.StatusForbidden:
		sentinel = ErrForbidden
	case status == http.StatusConflict:
		sentinel = ErrConflict
	case status == http.StatusNotFound:
		sentinel = ErrNotFound
	case status >= http.StatusInternalServerError:
		sentinel = ErrUnavailable
	default:
		sentinel = ErrRequest
	}
	return fmt.Errorf("%w: %s (HTTP %d)", sentinel, msg, status)
}

// IsAuthError reports whether the server refused the session itself: a 401,
// or a 403 for a token that does not belong to the user in the path.
func IsAuthError(err error) bool {
	return errors.Is(err, ErrUnauthorized) || errors.Is(err, ErrForbidden)
}
