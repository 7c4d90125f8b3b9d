package services

import (
	"context"
	"fmt"
	"log"
	"math"
	"strings"
	"time"

	"github.com/adnanrahim110/payment-portal/internal/accounts"
	"github.com/adnanrahim110/payment-portal/internal/lifecycle"
	"github.com/adnanrahim110/payment-portal/internal/models"
	"github.com/adnanrahim110/payment-portal/internal/payments"
)

// StripeBackend creates a chargeable payment intent for a Stripe
// merchant account.
type StripeBackend interface {
	CreateChargeIntent(ctx context.Context, amountMinorUnits int64, currency, description, secretKey string) (clientSecret string, err error)
}

// PayPalBackend creates a redirect-approval order for a PayPal
// merchant account.
type PayPalBackend interface {
	CreateOrder(ctx context.Context, req payments.OrderRequest) (approvalURL string, err error)
}

// AccountResolver maps a merchant account display name to its
// configured credentials.
type AccountResolver interface {
	Resolve(displayName string) (*accounts.Credentials, error)
}

// CheckoutService turns a payable link into a provider-side
// transaction. Every initiation consumes one attempt, whether or not
// the provider call succeeds.
type CheckoutService struct {
	store       LinkStore
	directory   AccountResolver
	stripe      StripeBackend
	paypal      PayPalBackend
	frontendURL string
}

func NewCheckoutService(store LinkStore, directory AccountResolver, stripe StripeBackend, paypal PayPalBackend, frontendURL string) *CheckoutService {
	return &CheckoutService{
		store:       store,
		directory:   directory,
		stripe:      stripe,
		paypal:      paypal,
		frontendURL: strings.TrimSuffix(frontendURL, "/"),
	}
}

// CheckoutStripe creates a Stripe payment intent for the link and
// returns the intent's client secret.
func (s *CheckoutService) CheckoutStripe(ctx context.Context, secureID string) (string, error) {
	link, creds, err := s.beginAttempt(ctx, secureID, models.ProviderStripe)
	if err != nil {
		return "", err
	}

	// Stripe wants the amount in minor units.
	amount := int64(math.Round(link.Amount * 100))
	currency := strings.ToLower(link.Currency)

	clientSecret, err := s.stripe.CreateChargeIntent(ctx, amount, currency, link.Description, creds.SecretKey)
	if err != nil {
		log.Printf("Stripe payment failed for %s: %v", secureID, err)
		return "", &ProviderError{Provider: models.ProviderStripe, Err: err}
	}

	log.Printf("Stripe payment intent created for %s (attempt %d)", secureID, link.PaymentAttempts)
	return clientSecret, nil
}

// CheckoutPayPal creates a PayPal order for the link and returns the
// URL the customer is redirected to for approval.
func (s *CheckoutService) CheckoutPayPal(ctx context.Context, secureID string) (string, error) {
	link, creds, err := s.beginAttempt(ctx, secureID, models.ProviderPayPal)
	if err != nil {
		return "", err
	}

	approvalURL, err := s.paypal.CreateOrder(ctx, payments.OrderRequest{
		Amount:      link.Amount,
		Currency:    link.Currency,
		Description: link.Description,
		ClientID:    creds.ClientID,
		SecretKey:   creds.SecretKey,
		ReturnURL:   s.frontendURL + "/payment-success/" + link.SecureID,
		CancelURL:   s.frontendURL + "/payment-cancel/" + link.SecureID,
	})
	if err != nil {
		log.Printf("PayPal payment failed for %s: %v", secureID, err)
		return "", &ProviderError{Provider: models.ProviderPayPal, Err: err}
	}

	log.Printf("PayPal order created for %s (attempt %d)", secureID, link.PaymentAttempts)
	return approvalURL, nil
}

// beginAttempt runs the shared front half of a checkout: eligibility
// check, attempt increment, credential resolution. The attempt stands
// from here on, even if the provider call that follows fails.
func (s *CheckoutService) beginAttempt(ctx context.Context, secureID string, provider models.Provider) (*models.PaymentLink, *accounts.Credentials, error) {
	now := time.Now()

	link, err := s.store.GetBySecureID(ctx, secureID)
	if err != nil {
		return nil, nil, err
	}

	if state := lifecycle.Evaluate(link, now); state != lifecycle.StatePayable {
		return nil, nil, stateError(state)
	}
	if link.Provider != provider {
		return nil, nil, &ValidationError{Message: fmt.Sprintf("This payment link uses a %s account.", link.Provider)}
	}

	link, err = s.store.RecordAttempt(ctx, secureID, now)
	if err != nil {
		return nil, nil, err
	}

	creds, err := s.directory.Resolve(link.PaymentAccount)
	if err != nil {
		return nil, nil, err
	}

	return link, creds, nil
}
