package payments_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/adnanrahim110/payment-portal/internal/payments"
)

func orderRequest() payments.OrderRequest {
	return payments.OrderRequest{
		Amount:      49.5,
		Currency:    "EUR",
		Description: "Consulting retainer",
		ClientID:    "client_test",
		SecretKey:   "secret_test",
		ReturnURL:   "https://portal.example.com/payment-success/abc",
		CancelURL:   "https://portal.example.com/payment-cancel/abc",
	}
}

func TestCreateOrder(t *testing.T) {
	var gotOrder map[string]any

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/v1/oauth2/token":
			user, pass, ok := r.BasicAuth()
			require.True(t, ok)
			require.Equal(t, "client_test", user)
			require.Equal(t, "secret_test", pass)
			json.NewEncoder(w).Encode(map[string]string{"access_token": "token_abc"})
		case "/v2/checkout/orders":
			require.Equal(t, "Bearer token_abc", r.Header.Get("Authorization"))
			require.NoError(t, json.NewDecoder(r.Body).Decode(&gotOrder))
			w.WriteHeader(http.StatusCreated)
			json.NewEncoder(w).Encode(map[string]any{
				"id": "ord_123",
				"links": []map[string]string{
					{"href": "https://paypal.example/self/ord_123", "rel": "self"},
					{"href": "https://paypal.example/approve/ord_123", "rel": "approve"},
				},
			})
		default:
			t.Fatalf("unexpected request to %s", r.URL.Path)
		}
	}))
	defer server.Close()

	client := payments.NewPayPalClient(server.URL)
	approvalURL, err := client.CreateOrder(context.Background(), orderRequest())
	require.NoError(t, err)
	require.Equal(t, "https://paypal.example/approve/ord_123", approvalURL)

	require.Equal(t, "CAPTURE", gotOrder["intent"])
	units := gotOrder["purchase_units"].([]any)
	require.Len(t, units, 1)
	amount := units[0].(map[string]any)["amount"].(map[string]any)
	require.Equal(t, "EUR", amount["currency_code"])
	require.Equal(t, "49.50", amount["value"])
	appCtx := gotOrder["application_context"].(map[string]any)
	require.Equal(t, "https://portal.example.com/payment-success/abc", appCtx["return_url"])
	require.Equal(t, "https://portal.example.com/payment-cancel/abc", appCtx["cancel_url"])
}

func TestCreateOrderAuthFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"error":"invalid_client"}`))
	}))
	defer server.Close()

	client := payments.NewPayPalClient(server.URL)
	_, err := client.CreateOrder(context.Background(), orderRequest())
	require.Error(t, err)
	require.Contains(t, err.Error(), "invalid_client")
}

func TestCreateOrderProviderError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/v1/oauth2/token" {
			json.NewEncoder(w).Encode(map[string]string{"access_token": "token_abc"})
			return
		}
		w.WriteHeader(http.StatusUnprocessableEntity)
		w.Write([]byte(`{"name":"UNPROCESSABLE_ENTITY"}`))
	}))
	defer server.Close()

	client := payments.NewPayPalClient(server.URL)
	_, err := client.CreateOrder(context.Background(), orderRequest())
	require.Error(t, err)
	require.Contains(t, err.Error(), "UNPROCESSABLE_ENTITY")
}

func TestCreateOrderMissingApprovalLink(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/v1/oauth2/token" {
			json.NewEncoder(w).Encode(map[string]string{"access_token": "token_abc"})
			return
		}
		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(map[string]any{"id": "ord_123", "links": []any{}})
	}))
	defer server.Close()

	client := payments.NewPayPalClient(server.URL)
	_, err := client.CreateOrder(context.Background(), orderRequest())
	require.Error(t, err)
	require.Contains(t, err.Error(), "no approval link")
}
