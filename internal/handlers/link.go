package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/adnanrahim110/payment-portal/internal/accounts"
	"github.com/adnanrahim110/payment-portal/internal/lifecycle"
	"github.com/adnanrahim110/payment-portal/internal/models"
	"github.com/adnanrahim110/payment-portal/internal/services"
)

// LinkHandler serves payment link creation, the customer-facing
// checkout endpoints, and completion.
type LinkHandler struct {
	links     services.LinkStore
	checkout  *services.CheckoutService
	directory *accounts.Directory
}

func NewLinkHandler(links services.LinkStore, checkout *services.CheckoutService, directory *accounts.Directory) *LinkHandler {
	return &LinkHandler{links: links, checkout: checkout, directory: directory}
}

// CreateLink handles POST /api/payments
func (h *LinkHandler) CreateLink(w http.ResponseWriter, r *http.Request) {
	var input services.CreateLinkInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	link, err := h.links.Create(r.Context(), input)
	if err != nil {
		var vErr *services.ValidationError
		if errors.As(err, &vErr) {
			respondError(w, http.StatusBadRequest, vErr.Message)
			return
		}
		log.Printf("Failed to create payment link: %v", err)
		respondError(w, http.StatusInternalServerError, "Error saving payment")
		return
	}

	respondJSON(w, http.StatusCreated, map[string]any{
		"success":   true,
		"paymentId": link.SecureID,
	})
}

// GetLink handles GET /api/payments/{paymentID}. A payable link is
// returned together with the public credentials the checkout page needs
// to initialise the provider's JS SDK; a link in a terminal state gets
// a 400 whose message and paymentStatus distinguish completed, expired
// and attempt-exhausted links.
func (h *LinkHandler) GetLink(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	secureID := vars["paymentID"]

	link, err := h.links.GetBySecureID(r.Context(), secureID)
	if err != nil {
		if errors.Is(err, services.ErrLinkNotFound) {
			respondError(w, http.StatusNotFound, "Payment not found.")
			return
		}
		log.Printf("Failed to fetch payment link %s: %v", secureID, err)
		respondError(w, http.StatusInternalServerError, "Error fetching payment")
		return
	}

	if state := lifecycle.Evaluate(link, time.Now()); state != lifecycle.StatePayable {
		respondJSON(w, http.StatusBadRequest, map[string]any{
			"success":       false,
			"message":       lifecycle.Message(state),
			"paymentStatus": state,
		})
		return
	}

	creds, err := h.directory.Resolve(link.PaymentAccount)
	if err != nil {
		if errors.Is(err, accounts.ErrUnknownAccount) {
			respondError(w, http.StatusNotFound, "Payment account not found.")
			return
		}
		respondError(w, http.StatusInternalServerError, "Error fetching payment")
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
		"payment":        link,
		"apiCredentials": apiCredentials,
	})
}

// GetLinks handles GET /api/payments with optional status and
// created-at range filters.
func (h *LinkHandler) GetLinks(w http.ResponseWriter, r *http.Request) {
	statusFilter := r.URL.Query().Get("status")
	startDate := r.URL.Query().Get("start_date")
	endDate := r.URL.Query().Get("end_date")

	var statusPtr, startDatePtr, endDatePtr *string
	if statusFilter != "" {
		statusPtr = &statusFilter
	}
	if startDate != "" {
		startDatePtr = &startDate
	}
	if endDate != "" {
		endDatePtr = &endDate
	}

	links, err := h.links.List(r.Context(), statusPtr, startDatePtr, endDatePtr)
	if err != nil {
		var vErr *services.ValidationError
		if errors.As(err, &vErr) {
			respondError(w, http.StatusBadRequest, vErr.Message)
			return
		}
		log.Printf("Failed to fetch payment links: %v", err)
		respondError(w, http.StatusInternalServerError, "Error fetching payments")
		return
	}

	respondJSON(w, http.StatusOK, map[string]any{
		"success":  true,
		"payments": links,
	})
}

type checkoutRequest struct {
	SecureID string `json:"secureId"`
}

// CheckoutStripe handles POST /api/payments/stripe
func (h *LinkHandler) CheckoutStripe(w http.ResponseWriter, r *http.Request) {
	var req checkoutRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.SecureID == "" {
		respondError(w, http.StatusBadRequest, "secureId is required")
		return
	}

	clientSecret, err := h.checkout.CheckoutStripe(r.Context(), req.SecureID)
	if err != nil {
		h.respondCheckoutError(w, req.SecureID, err, models.ProviderStripe)
		return
	}

	respondJSON(w, http.StatusOK, map[string]any{
		"success":      true,
		"clientSecret": clientSecret,
	})
}

// CheckoutPayPal handles POST /api/payments/paypal
func (h *LinkHandler) CheckoutPayPal(w http.ResponseWriter, r *http.Request) {
	var req checkoutRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.SecureID == "" {
		respondError(w, http.StatusBadRequest, "secureId is required")
		return
	}

	approvalURL, err := h.checkout.CheckoutPayPal(r.Context(), req.SecureID)
	if err != nil {
		h.respondCheckoutError(w, req.SecureID, err, models.ProviderPayPal)
		return
	}

	respondJSON(w, http.StatusOK, map[string]any{
		"success":     true,
		"approvalUrl": approvalURL,
	})
}

// CompleteLink handles POST /api/payments/complete/{paymentID}
func (h *LinkHandler) CompleteLink(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	secureID := vars["paymentID"]

	if _, err := h.links.Complete(r.Context(), secureID, time.Now()); err != nil {
		switch {
		case errors.Is(err, services.ErrLinkNotFound):
			respondError(w, http.StatusNotFound, "Payment not found.")
		case errors.Is(err, services.ErrLinkExpired):
			respondError(w, http.StatusBadRequest, lifecycle.Message(lifecycle.StateExpired))
		default:
			log.Printf("Failed to complete payment %s: %v", secureID, err)
			respondError(w, http.StatusInternalServerError, "Error completing payment")
		}
		return
	}

	respondJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"message": "Payment marked as completed.",
	})
}

// respondCheckoutError maps orchestrator errors onto the wire. Each
// terminal state keeps its own message so the checkout page can tell
// the customer why the link stopped working.
func (h *LinkHandler) respondCheckoutError(w http.ResponseWriter, secureID string, err error, provider models.Provider) {
	var vErr *services.ValidationError
	var pErr *services.ProviderError

	providerMessage := fmt.Sprintf("%s Payment Failed", provider)

	switch {
	case errors.Is(err, services.ErrLinkNotFound):
		respondError(w, http.StatusNotFound, "Payment not found.")
	case errors.Is(err, services.ErrAlreadyCompleted):
		respondJSON(w, http.StatusBadRequest, map[string]any{
			"success":       false,
			"message":       lifecycle.Message(lifecycle.StateCompleted),
			"paymentStatus": lifecycle.StateCompleted,
		})
	case errors.Is(err, services.ErrLinkExpired):
		respondJSON(w, http.StatusBadRequest, map[string]any{
			"success":       false,
			"message":       lifecycle.Message(lifecycle.StateExpired),
			"paymentStatus": lifecycle.StateExpired,
		})
	case errors.Is(err, services.ErrMaxAttempts):
		respondJSON(w, http.StatusBadRequest, map[string]any{
			"success":       false,
			"message":       lifecycle.Message(lifecycle.StateMaxAttempts),
			"paymentStatus": lifecycle.StateMaxAttempts,
		})
	case errors.Is(err, accounts.ErrUnknownAccount):
		respondError(w, http.StatusBadRequest, fmt.Sprintf("Invalid %s account selected.", provider))
	case errors.As(err, &vErr):
		respondError(w, http.StatusBadRequest, vErr.Message)
	case errors.As(err, &pErr):
		log.Printf("Provider call failed for %s: %v", secureID, pErr)
		respondError(w, http.StatusInternalServerError, providerMessage)
	default:
		log.Printf("Checkout failed for %s: %v", secureID, err)
		respondError(w, http.StatusInternalServerError, providerMessage)
	}
}
