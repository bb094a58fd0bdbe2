package repository

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	// ErrTransport marks failures to get any response from the server.
	ErrTransport = errors.New("transport failure")

	// ErrMalformedResponse marks 2xx responses whose body could not be used.
	ErrMalformedResponse = errors.New("malformed response")

	// ErrNotFound matches a *StatusError carrying 404.
	ErrNotFound = errors.New("not found")
)

// StatusError reports a non-2xx response.
type StatusError struct {
	Method  string
	URL     string
	Code    int
	Message string // server-provided error text, if any
}

func (e *StatusError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("%s %s: %d %s: %s", e.Method, e.URL, e.Code, http.StatusText(e.Code), e.Message)
	}
	return fmt.Sprintf("%s %s: %d %s", e.Method, e.URL, e.Code, http.StatusText(e.Code))
}

func (e *StatusError) Is(target error) bool {
	return target == ErrNotFound && e.Code == http.StatusNotFound
}
