package payments

import (
	"context"

	"github.com/stripe/stripe-go/v79"
	"github.com/stripe/stripe-go/v79/client"
)

// StripeClient creates payment intents. A fresh API client is built
// per call because each merchant account carries its own secret key.
type StripeClient struct{}

func NewStripeClient() *StripeClient {
	return &StripeClient{}
}

func (c *StripeClient) CreateChargeIntent(ctx context.Context, amountMinorUnits int64, currency, description, secretKey string) (string, error) {
	api := &client.API{}
	api.Init(secretKey, nil)

	params := &stripe.PaymentIntentParams{
		Amount:             stripe.Int64(amountMinorUnits),
		Currency:           stripe.String(currency),
		Description:        stripe.String(description),
		PaymentMethodTypes: stripe.StringSlice([]string{"card"}),
	}
	params.Context = ctx

	intent, err := api.PaymentIntents.New(params)
	if err != nil {
		return "", err
	}

	return intent.ClientSecret, nil
}
