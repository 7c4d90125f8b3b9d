package lifecycle

import (
	"time"

	"github.com/adnanrahim110/payment-portal/internal/models"
)

// MaxAttempts is the number of payment attempts a link allows before it
// is invalidated.
const MaxAttempts = 2

// State is the effective lifecycle state of a link at a point in time.
// Expired and max-attempt states are derived on every evaluation from
// the persisted fields; they are never written to the store.
type State string

const (
	StatePayable     State = "payable"
	StateCompleted   State = "completed"
	StateExpired     State = "expired"
	StateMaxAttempts State = "maxAttempts"
)

// Evaluate returns the state of link at time now. The check order is
// fixed: a completed link stays completed forever, expiry takes
// precedence over the attempt limit.
func Evaluate(link *models.PaymentLink, now time.Time) State {
	if link.Status == models.StatusCompleted {
		return StateCompleted
	}
	if now.After(link.ExpiresAt) {
		return StateExpired
	}
	if link.PaymentAttempts >= MaxAttempts {
		return StateMaxAttempts
	}
	return StatePayable
}

// Message returns the customer-facing explanation for a terminal state.
// A completed link gets success framing; the other terminal states tell
// the customer the link is no longer usable.
func Message(state State) string {
	switch state {
	case StateCompleted:
		return "This payment link has expired. Payment has been completed successfully."
	case StateExpired:
		return "This payment link has expired."
	case StateMaxAttempts:
		return "Too many incorrect payment attempts. This link has expired."
	default:
		return ""
	}
}
