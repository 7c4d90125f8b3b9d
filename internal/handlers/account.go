package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gorilla/mux"

	"github.com/adnanrahim110/payment-portal/internal/accounts"
	"github.com/adnanrahim110/payment-portal/internal/models"
)

// AccountHandler serves the merchant accounts the operator can pick
// from. Secret keys never leave this layer.
type AccountHandler struct {
	directory *accounts.Directory
}

func NewAccountHandler(directory *accounts.Directory) *AccountHandler {
	return &AccountHandler{directory: directory}
}

// GetAccounts handles GET /api/payment-accounts
func (h *AccountHandler) GetAccounts(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]any{
		"success":         true,
		"paymentAccounts": h.directory.List(),
	})
}

// GetAccount handles GET /api/payment-accounts/{accountName}
func (h *AccountHandler) GetAccount(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	accountName := vars["accountName"]

	creds, err := h.directory.Resolve(accountName)
	if err != nil {
		if errors.Is(err, accounts.ErrUnknownAccount) {
			switch {
			case strings.HasPrefix(accountName, "Stripe"):
				respondError(w, http.StatusNotFound, "Stripe account not found.")
			case strings.HasPrefix(accountName, "PayPal"):
				respondError(w, http.StatusNotFound, "PayPal account not found.")
			default:
				respondError(w, http.StatusNotFound, "Account not found.")
			}
			return
		}
		respondError(w, http.StatusInternalServerError, "Error fetching account details")
		return
	}

	apiCredentials := map[string]any{"provider": creds.Provider}
	if creds.Provider == models.ProviderStripe {
		apiCredentials["publicKey"] = creds.PublicKey
	} else {
		apiCredentials["clientId"] = creds.ClientID
	}

	respondJSON(w, http.StatusOK, map[string]any{
		"success":        true,
		"apiCredentials": apiCredentials,
	})
}
