package accounts

import (
	"errors"
	"sort"
	"strings"

	"github.com/adnanrahim110/payment-portal/internal/models"
)

// ErrUnknownAccount is returned when a display name does not map to a
// configured merchant account.
var ErrUnknownAccount = errors.New("merchant account not found")

// MerchantAccount is the public view of one configured account. It
// never carries secret keys.
type MerchantAccount struct {
	Name      string          `json:"name"`
	Provider  models.Provider `json:"type"`
	PublicKey string          `json:"public_key,omitempty"`
	ClientID  string          `json:"client_id,omitempty"`
}

// Credentials is the full credential set for one account, used by the
// checkout orchestrator. Stripe accounts carry PublicKey/SecretKey,
// PayPal accounts carry ClientID/SecretKey.
type Credentials struct {
	Provider  models.Provider
	PublicKey string
	ClientID  string
	SecretKey string
}

// Directory exposes the merchant accounts configured through the
// environment. Accounts follow the naming convention
// STRIPE_<NAME>_PUBLIC_KEY / STRIPE_<NAME>_SECRET_KEY and
// PAYPAL_<NAME>_CLIENT_ID / PAYPAL_<NAME>_SECRET_KEY. The directory is
// recomputed from the injected map on every call, so it holds no state
// of its own.
type Directory struct {
	env map[string]string
}

func NewDirectory(env map[string]string) *Directory {
	return &Directory{env: env}
}

// List returns every configured account, sorted by display name.
// Secret keys are excluded.
func (d *Directory) List() []MerchantAccount {
	var accounts []MerchantAccount
	for key, value := range d.env {
		switch {
		case strings.HasPrefix(key, "STRIPE_") && strings.HasSuffix(key, "_PUBLIC_KEY"):
			name := strings.TrimSuffix(strings.TrimPrefix(key, "STRIPE_"), "_PUBLIC_KEY")
			accounts = append(accounts, MerchantAccount{
				Name:      "Stripe " + displayName(name),
				Provider:  models.ProviderStripe,
				PublicKey: value,
			})
		case strings.HasPrefix(key, "PAYPAL_") && strings.HasSuffix(key, "_CLIENT_ID"):
			name := strings.TrimSuffix(strings.TrimPrefix(key, "PAYPAL_"), "_CLIENT_ID")
			accounts = append(accounts, MerchantAccount{
				Name:     "PayPal " + displayName(name),
				Provider: models.ProviderPayPal,
				ClientID: value,
			})
		}
	}

	sort.Slice(accounts, func(i, j int) bool { return accounts[i].Name < accounts[j].Name })
	return accounts
}

// Resolve maps a display name back to its configured credential pair.
// The lookup reverses the transform List applies, so any fully
// configured name List produced resolves; names are matched
// case-sensitively after the transform. An account missing its secret
// key is treated as unknown — checkout must never proceed on a partial
// credential set.
func (d *Directory) Resolve(displayName string) (*Credentials, error) {
	switch {
	case strings.HasPrefix(displayName, "Stripe "):
		key := accountKey(strings.TrimPrefix(displayName, "Stripe "))
		publicKey := d.env["STRIPE_"+key+"_PUBLIC_KEY"]
		secretKey := d.env["STRIPE_"+key+"_SECRET_KEY"]
		if publicKey == "" || secretKey == "" {
			return nil, ErrUnknownAccount
		}
		return &Credentials{
			Provider:  models.ProviderStripe,
			PublicKey: publicKey,
			SecretKey: secretKey,
		}, nil
	case strings.HasPrefix(displayName, "PayPal "):
		key := accountKey(strings.TrimPrefix(displayName, "PayPal "))
		clientID := d.env["PAYPAL_"+key+"_CLIENT_ID"]
		secretKey := d.env["PAYPAL_"+key+"_SECRET_KEY"]
		if clientID == "" || secretKey == "" {
			return nil, ErrUnknownAccount
		}
		return &Credentials{
			Provider:  models.ProviderPayPal,
			ClientID:  clientID,
			SecretKey: secretKey,
		}, nil
	default:
		return nil, ErrUnknownAccount
	}
}

// displayName turns STRIPE_ACME_CORP_PUBLIC_KEY's ACME_CORP into
// "ACME CORP"; accountKey is its inverse.
func displayName(key string) string {
	return strings.ReplaceAll(key, "_", " ")
}

func accountKey(name string) string {
	return strings.ToUpper(strings.ReplaceAll(name, " ", "_"))
}
