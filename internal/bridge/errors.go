package bridge

import (
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/skaczor/react-native-boostlingo-sdk/internal/engine"
)

type Kind string

const (
	KindInitializationFailure Kind = "InitializationFailure"
	KindAPICallFailure        Kind = "ApiCallFailure"
	KindValidationFailure     Kind = "ValidationFailure"
	KindNoActiveSession       Kind = "NoActiveSession"
	KindUnknown               Kind = "Unknown"
)

// maxCauseDepth bounds the cause walk. Longer chains are treated as cyclic.
const maxCauseDepth = 32

// Error is the only error shape handed to the host.
type Error struct {
	Kind       Kind   `json:"kind"`
	Message    string `json:"message"`
	StatusCode *int   `json:"statusCode"`
}

func (e *Error) Error() string {
	return e.Message
}

func newError(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

var (
	errNotInitialized = newError(KindInitializationFailure, "bridge is not initialized")
	errDisposed       = newError(KindNoActiveSession, "bridge was disposed")
	errNoActiveCall   = newError(KindNoActiveSession, "no active call")
	errCallInProgress = newError(KindValidationFailure, "a call is already in progress")
)

// Normalize reduces err to its root cause. The kind is taken from the first
// classifiable link of the chain, otherwise fallback is used.
func Normalize(err error, fallback Kind) *Error {
	if err == nil {
		return nil
	}
	var (
		kind   Kind
		status *int
	)
	cur := err
	for depth := 0; ; depth++ {
		if depth >= maxCauseDepth {
			return &Error{Kind: KindUnknown, Message: err.Error()}
		}
		if kind == "" {
			kind, status = classify(cur)
		}
		next := errors.Unwrap(cur)
		if next == nil {
			break
		}
		cur = next
	}
	if kind == "" {
		kind = fallback
	}
	return &Error{Kind: kind, Message: cur.Error(), StatusCode: status}
}

func classify(err error) (Kind, *int) {
	switch e := err.(type) {
	case *Error:
		return e.Kind, e.StatusCode
	case *engine.APIError:
		code := e.StatusCode
		return KindAPICallFailure, &code
	case validator.ValidationErrors:
		return KindValidationFailure, nil
	}
	if err == engine.ErrNoActiveCall {
		return KindNoActiveSession, nil
	}
	return "", nil
}
