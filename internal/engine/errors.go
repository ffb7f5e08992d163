package engine

import (
	"errors"
	"fmt"
)

var ErrNoActiveCall = errors.New("no active call")

// APIError is returned when the engine backend rejects a request.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%s, statusCode: %d", e.Message, e.StatusCode)
}
