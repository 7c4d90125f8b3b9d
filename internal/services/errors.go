package services

import (
	"errors"
	"fmt"

	"github.com/adnanrahim110/payment-portal/internal/lifecycle"
	"github.com/adnanrahim110/payment-portal/internal/models"
)

var (
	ErrLinkNotFound     = errors.New("payment not found")
	ErrAlreadyCompleted = errors.New("payment already completed")
	ErrLinkExpired      = errors.New("payment link expired")
	ErrMaxAttempts      = errors.New("too many payment attempts")
)

// ValidationError reports a rejected link-creation request.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// ProviderError wraps a failed call to a payment backend. The attempt
// consumed before the call is not rolled back.
type ProviderError struct {
	Provider models.Provider
	Err      error
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("%s payment failed: %v", e.Provider, e.Err)
}

func (e *ProviderError) Unwrap() error {
	return e.Err
}

// stateError maps a non-payable lifecycle state to its sentinel error.
func stateError(state lifecycle.State) error {
	switch state {
	case lifecycle.StateCompleted:
		return ErrAlreadyCompleted
	case lifecycle.StateExpired:
		return ErrLinkExpired
	case lifecycle.StateMaxAttempts:
		return ErrMaxAttempts
	default:
		return nil
	}
}
