package httpclient

import "fmt"

// HTTPError represents an HTTP error response
type HTTPError struct {
	// StatusCode is the HTTP status code
	StatusCode int

	// URL is the URL that was requested
	URL string

	// Message is the status message from the response
	Message string
}

// Error implements the error interface
func (e *HTTPError) Error() string {
	return fmt.Sprintf("HTTP %d for URL %s: %s", e.StatusCode, e.URL, e.Message)
}

// NewHTTPError creates a new HTTPError
func NewHTTPError(statusCode int, url, message string) *HTTPError {
	return &HTTPError{
		StatusCode: statusCode,
		URL:        url,
		Message:    message,
	}
}
