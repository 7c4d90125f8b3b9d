package lifecycle_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/adnanrahim110/payment-portal/internal/lifecycle"
	"github.com/adnanrahim110/payment-portal/internal/models"
)

func newLink(status models.LinkStatus, attempts int, expiresIn time.Duration, now time.Time) *models.PaymentLink {
	return &models.PaymentLink{
		SecureID:        "0123456789abcdef0123456789abcdef",
		Amount:          100,
		Currency:        "USD",
		PaymentAccount:  "Stripe Acme",
		Provider:        models.ProviderStripe,
		Status:          status,
		PaymentAttempts: attempts,
		ExpiresAt:       now.Add(expiresIn),
		CreatedAt:       now.Add(expiresIn - 24*time.Hour),
	}
}

func TestEvaluate(t *testing.T) {
	now := time.Now()

	tests := []struct {
		name     string
		status   models.LinkStatus
		attempts int
		expires  time.Duration
		want     lifecycle.State
	}{
		{"fresh link is payable", models.StatusPending, 0, time.Hour, lifecycle.StatePayable},
		{"one attempt left is payable", models.StatusPending, 1, time.Hour, lifecycle.StatePayable},
		{"attempt limit reached", models.StatusPending, 2, time.Hour, lifecycle.StateMaxAttempts},
		{"attempts beyond limit", models.StatusPending, 5, time.Hour, lifecycle.StateMaxAttempts},
		{"past expiry", models.StatusPending, 0, -time.Hour, lifecycle.StateExpired},
		{"expiry beats attempt limit", models.StatusPending, 2, -time.Hour, lifecycle.StateExpired},
		{"completed is permanent", models.StatusCompleted, 0, time.Hour, lifecycle.StateCompleted},
		{"completed beats expiry", models.StatusCompleted, 0, -time.Hour, lifecycle.StateCompleted},
		{"completed beats attempt limit", models.StatusCompleted, 2, -time.Hour, lifecycle.StateCompleted},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			link := newLink(tt.status, tt.attempts, tt.expires, now)
			require.Equal(t, tt.want, lifecycle.Evaluate(link, now))
		})
	}
}

func TestEvaluateIsPure(t *testing.T) {
	now := time.Now()
	link := newLink(models.StatusPending, 1, time.Hour, now)

	first := lifecycle.Evaluate(link, now)
	for i := 0; i < 10; i++ {
		require.Equal(t, first, lifecycle.Evaluate(link, now))
	}
}

func TestEvaluateAtExactExpiry(t *testing.T) {
	now := time.Now()
	link := newLink(models.StatusPending, 0, 0, now)

	// now == expiresAt is still payable; only now > expiresAt expires.
	require.Equal(t, lifecycle.StatePayable, lifecycle.Evaluate(link, now))
	require.Equal(t, lifecycle.StateExpired, lifecycle.Evaluate(link, now.Add(time.Nanosecond)))
}

func TestMessages(t *testing.T) {
	require.Equal(t,
		"This payment link has expired. Payment has been completed successfully.",
		lifecycle.Message(lifecycle.StateCompleted))
	require.Equal(t,
		"This payment link has expired.",
		lifecycle.Message(lifecycle.StateExpired))
	require.Equal(t,
		"Too many incorrect payment attempts. This link has expired.",
		lifecycle.Message(lifecycle.StateMaxAttempts))
	require.Empty(t, lifecycle.Message(lifecycle.StatePayable))
}
