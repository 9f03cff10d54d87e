package payment

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// Gateway is the external payment provider. The engine only depends on
// its redirect/webhook contract: open a transaction and get a redirect
// target, or ask for the current state of a known transaction.
type Gateway interface {
	CreatePayment(ctx context.Context, req GatewayPaymentRequest) (string, error)
	FetchStatus(ctx context.Context, merchantTxnID string) (string, error)
}

// GatewayPaymentRequest describes one payment to open.
type GatewayPaymentRequest struct {
	MerchantTransactionID string  `json:"merchantTransactionId"`
	Amount                float64 `json:"amount"`
	CustomerPhone         string  `json:"customerPhone"`
}

// HTTPGateway talks JSON to the gateway's REST API.
type HTTPGateway struct {
	BaseURL string
	APIKey  string
	Client  *http.Client
}

// NewHTTPGateway constructs a gateway client with a bounded request
// timeout; a hung gateway surfaces as an error, never a stuck handler.
func NewHTTPGateway(baseURL, apiKey string) *HTTPGateway {
	return &HTTPGateway{
		BaseURL: baseURL,
		APIKey:  apiKey,
		Client:  &http.Client{Timeout: 10 * time.Second},
	}
}

type gatewayCreateResponse struct {
	RedirectURL string `json:"redirectUrl"`
	Message     string `json:"message"`
}

type gatewayStatusResponse struct {
	State   string `json:"state"`
	Message string `json:"message"`
}

// CreatePayment opens a transaction and returns the customer redirect URL.
func (g *HTTPGateway) CreatePayment(ctx context.Context, req GatewayPaymentRequest) (string, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return "", fmt.Errorf("marshal payment request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, g.BaseURL+"/v1/payments", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("build payment request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("X-Api-Key", g.APIKey)

	resp, err := g.Client.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("gateway create payment: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return "", fmt.Errorf("gateway create payment: status %d: %s", resp.StatusCode, snippet)
	}

	var out gatewayCreateResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("decode gateway response: %w", err)
	}
	if out.RedirectURL == "" {
		return "", fmt.Errorf("gateway returned no redirect url: %s", out.Message)
	}
	return out.RedirectURL, nil
}

// FetchStatus reads the gateway's view of a transaction.
func (g *HTTPGateway) FetchStatus(ctx context.Context, merchantTxnID string) (string, error) {
	url := fmt.Sprintf("%s/v1/payments/%s/status", g.BaseURL, merchantTxnID)
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", fmt.Errorf("build status request: %w", err)
	}
	httpReq.Header.Set("X-Api-Key", g.APIKey)

	resp, err := g.Client.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("gateway fetch status: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return "", fmt.Errorf("gateway fetch status: status %d: %s", resp.StatusCode, snippet)
	}

	var out gatewayStatusResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("decode gateway status: %w", err)
	}
	return out.State, nil
}
