package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// LinkStatus is the persisted status of a payment link. Expiry and
// attempt exhaustion are computed on read, not stored, so only
// "pending" and "completed" are ever written by this service.
type LinkStatus string

const (
	StatusPending   LinkStatus = "pending"
	StatusCompleted LinkStatus = "completed"
	StatusExpired   LinkStatus = "expired"
	StatusFailed    LinkStatus = "failed"
)

// Provider identifies which payment backend a merchant account belongs
// to. It is decided once at link creation and stored with the link.
type Provider string

const (
	ProviderStripe Provider = "Stripe"
	ProviderPayPal Provider = "PayPal"
)

// PaymentLink is one checkout opportunity, shared with the customer via
// its SecureID. The link expires 24 hours after creation and allows at
// most two payment attempts.
type PaymentLink struct {
	ID              primitive.ObjectID `bson:"_id,omitempty" json:"-"`
	SecureID        string             `bson:"secure_id" json:"secureId"`
	Amount          float64            `bson:"amount" json:"amount"`
	Currency        string             `bson:"currency" json:"currency"`
	PaymentAccount  string             `bson:"payment_account" json:"payment_account"`
	Provider        Provider           `bson:"provider" json:"provider"`
	Description     string             `bson:"description" json:"description"`
	SalesEmail      string             `bson:"sales_email" json:"sales_email"`
	CustomerEmail   string             `bson:"customer_email" json:"customer_email"`
	Status          LinkStatus         `bson:"status" json:"status"`
	PaymentAttempts int                `bson:"payment_attempts" json:"paymentAttempts"`
	ExpiresAt       time.Time          `bson:"expires_at" json:"expiresAt"`
	CreatedAt       time.Time          `bson:"created_at" json:"createdAt"`
}

var validCurrencies = map[string]bool{
	"USD": true,
	"GBP": true,
	"CAD": true,
	"EUR": true,
}

// ValidCurrency reports whether c is one of the supported currencies.
func ValidCurrency(c string) bool {
	return validCurrencies[c]
}
