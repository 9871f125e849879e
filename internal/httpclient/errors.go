package httpclient

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"syscall"
)

// Transport failure codes carried by RequestError.Code.
const (
	CodeTimeout    = "ETIMEDOUT"
	CodeReset      = "ECONNRESET"
	CodeRefused    = "ECONNREFUSED"
	CodeNoResponse = "ENORESPONSE"
)

const maxBodySnippet = 256

// RequestError is the normalized failure of an upstream GET.
// Exactly one of Status (an HTTP error status) or Code (a transport failure) is set.
type RequestError struct {
	URL      string
	Status   int
	Code     string
	Attempts int
	Body     string
	Err      error
}

// Error implements the error interface.
func (e *RequestError) Error() string {
	if e.Status != 0 {
		if e.Body != "" {
			return fmt.Sprintf("request to %s failed with status %d: %s", e.URL, e.Status, e.Body)
		}
		return fmt.Sprintf("request to %s failed with status %d", e.URL, e.Status)
	}
	if e.Err != nil {
		return fmt.Sprintf("network error: %s - %v", e.Code, e.Err)
	}
	return fmt.Sprintf("network error: %s", e.Code)
}

// Unwrap returns the underlying transport error, if any.
func (e *RequestError) Unwrap() error {
	return e.Err
}

// IsRetryable reports whether another attempt may succeed.
// Rate limiting, server errors, and every transport failure are retryable;
// 403, 404, and the remaining client errors are not.
func (e *RequestError) IsRetryable() bool {
	if e.Status == 0 {
		return true
	}
	return e.Status == http.StatusTooManyRequests || e.Status >= http.StatusInternalServerError
}

func statusError(url string, status int, body []byte) *RequestError {
	snippet := string(body)
	if len(snippet) > maxBodySnippet {
		snippet = snippet[:maxBodySnippet] + "..."
	}
	return &RequestError{URL: url, Status: status, Body: snippet}
}

func transportError(url string, err error) *RequestError {
	return &RequestError{URL: url, Code: classify(err), Err: err}
}

func classify(err error) string {
	var netErr net.Error
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return CodeTimeout
	case errors.As(err, &netErr) && netErr.Timeout():
		return CodeTimeout
	case errors.Is(err, syscall.ECONNRESET):
		return CodeReset
	case errors.Is(err, syscall.ECONNREFUSED):
		return CodeRefused
	default:
		return CodeNoResponse
	}
}
