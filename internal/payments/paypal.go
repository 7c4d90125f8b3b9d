package payments

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

// OrderRequest carries everything needed to create one PayPal order
// against a specific merchant account.
type OrderRequest struct {
	Amount      float64
	Currency    string
	Description string
	ClientID    string
	SecretKey   string
	ReturnURL   string
	CancelURL   string
}

type paypalAmount struct {
	CurrencyCode string `json:"currency_code"`
	Value        string `json:"value"`
}

type paypalPurchaseUnit struct {
	Amount      paypalAmount `json:"amount"`
	Description string       `json:"description,omitempty"`
}

type paypalOrderRequest struct {
	Intent             string               `json:"intent"`
	PurchaseUnits      []paypalPurchaseUnit `json:"purchase_units"`
	ApplicationContext struct {
		ReturnURL string `json:"return_url"`
		CancelURL string `json:"cancel_url"`
	} `json:"application_context"`
}

type paypalOrderResponse struct {
	ID    string `json:"id"`
	Links []struct {
		Href string `json:"href"`
		Rel  string `json:"rel"`
	} `json:"links"`
}

// PayPalClient talks to the PayPal REST API. Credentials are supplied
// per call, since each merchant account has its own client id/secret.
type PayPalClient struct {
	baseURL    string
	httpClient *http.Client
}

func NewPayPalClient(baseURL string) *PayPalClient {
	if baseURL == "" {
		baseURL = "https://api-m.sandbox.paypal.com"
	}
	return &PayPalClient{
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}
}

// CreateOrder creates a one-time capture order and returns the URL the
// customer must be redirected to for approval.
func (c *PayPalClient) CreateOrder(ctx context.Context, order OrderRequest) (string, error) {
	token, err := c.accessToken(ctx, order.ClientID, order.SecretKey)
	if err != nil {
		return "", err
	}

	reqBody := paypalOrderRequest{
		Intent: "CAPTURE",
		PurchaseUnits: []paypalPurchaseUnit{
			{
				Amount: paypalAmount{
					CurrencyCode: order.Currency,
					Value:        strconv.FormatFloat(order.Amount, 'f', 2, 64),
				},
				Description: order.Description,
			},
		},
	}
	reqBody.ApplicationContext.ReturnURL = order.ReturnURL
	reqBody.ApplicationContext.CancelURL = order.CancelURL

	bodyBytes, _ := json.Marshal(reqBody)
	req, err := http.NewRequestWithContext(ctx, "POST", c.baseURL+"/v2/checkout/orders", bytes.NewBuffer(bodyBytes))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusCreated && resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return "", errors.New("PayPal error: " + string(body))
	}

	var result paypalOrderResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return "", err
	}

	for _, link := range result.Links {
		if link.Rel == "approve" {
			return link.Href, nil
		}
	}
	return "", errors.New("no approval link in PayPal response")
}

// accessToken exchanges the merchant's client credentials for a bearer
// token. Tokens are not cached; order creation is infrequent enough
// that a token per order is fine.
func (c *PayPalClient) accessToken(ctx context.Context, clientID, secretKey string) (string, error) {
	form := url.Values{"grant_type": {"client_credentials"}}
	req, err := http.NewRequestWithContext(ctx, "POST", c.baseURL+"/v1/oauth2/token", strings.NewReader(form.Encode()))
	if err != nil {
		return "", err
	}
	req.SetBasicAuth(clientID, secretKey)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return "", errors.New("PayPal auth error: " + string(body))
	}

	var result struct {
		AccessToken string `json:"access_token"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return "", err
	}
	if result.AccessToken == "" {
		return "", errors.New("empty access token in PayPal response")
	}

	return result.AccessToken, nil
}
