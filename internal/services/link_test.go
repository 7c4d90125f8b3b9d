package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/adnanrahim110/payment-portal/internal/models"
)

func validInput() CreateLinkInput {
	return CreateLinkInput{
		Amount:         249.99,
		Currency:       "USD",
		PaymentAccount: "Stripe Acme Corp",
		Description:    "Annual license",
		SalesEmail:     "sales@example.com",
		CustomerEmail:  "customer@example.com",
	}
}

func TestBuildLink(t *testing.T) {
	now := time.Now()

	link, err := buildLink(validInput(), now)
	require.NoError(t, err)

	require.Regexp(t, `^[0-9a-f]{32}$`, link.SecureID)
	require.Equal(t, models.StatusPending, link.Status)
	require.Equal(t, 0, link.PaymentAttempts)
	require.Equal(t, models.ProviderStripe, link.Provider)
	require.Equal(t, now, link.CreatedAt)
	require.Equal(t, now.Add(24*time.Hour), link.ExpiresAt)
}

func TestBuildLinkPayPalProvider(t *testing.T) {
	in := validInput()
	in.PaymentAccount = "PayPal Globex"

	link, err := buildLink(in, time.Now())
	require.NoError(t, err)
	require.Equal(t, models.ProviderPayPal, link.Provider)
}

func TestBuildLinkValidation(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*CreateLinkInput)
	}{
		{"zero amount", func(in *CreateLinkInput) { in.Amount = 0 }},
		{"negative amount", func(in *CreateLinkInput) { in.Amount = -5 }},
		{"unsupported currency", func(in *CreateLinkInput) { in.Currency = "JPY" }},
		{"empty currency", func(in *CreateLinkInput) { in.Currency = "" }},
		{"empty description", func(in *CreateLinkInput) { in.Description = "  " }},
		{"empty sales email", func(in *CreateLinkInput) { in.SalesEmail = "" }},
		{"empty customer email", func(in *CreateLinkInput) { in.CustomerEmail = "" }},
		{"account without provider prefix", func(in *CreateLinkInput) { in.PaymentAccount = "Acme Corp" }},
		{"empty account", func(in *CreateLinkInput) { in.PaymentAccount = "" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := validInput()
			tt.mutate(&in)

			_, err := buildLink(in, time.Now())
			var vErr *ValidationError
			require.ErrorAs(t, err, &vErr)
		})
	}
}

func TestBuildLinkIDsAreUnique(t *testing.T) {
	now := time.Now()
	seen := make(map[string]bool)
	for i := 0; i < 50; i++ {
		link, err := buildLink(validInput(), now)
		require.NoError(t, err)
		require.False(t, seen[link.SecureID])
		seen[link.SecureID] = true
	}
}
