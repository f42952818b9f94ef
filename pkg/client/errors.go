package client

import (
	"errors"
	"fmt"
)

var (
	ErrNoSession          = errors.New("client: not logged in")
	ErrNotImage           = errors.New("File must be an image")
	ErrEmptyUpload        = errors.New("client: upload is empty")
	ErrAnalysisInProgress = errors.New("client: analysis already in progress")
)

// APIError is a non-2xx response. Detail is the server's "detail" message.
type APIError struct {
	StatusCode int
	Detail     string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("zemedic api: %d %s", e.StatusCode, e.Detail)
}

// IsStatus reports whether err is an *APIError with the given status code.
func IsStatus(err error, statusCode int) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.StatusCode == statusCode
}

// InvalidTransitionError is returned when a Workflow event does not apply to
// the current state.
type InvalidTransitionError struct {
	From  State
	Event string
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("client: cannot %s while %s", e.Event, e.From)
}
