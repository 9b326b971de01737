package paystack

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"mm-tickets/internal/services/gateway"
)

type Config struct {
	// BaseURL is the base url of the Paystack API.
	BaseURL string `json:"baseUrl" mapstructure:"base_url"`

	// SecretKey is the Paystack secret key. It authenticates API calls
	// and signs webhook payloads.
	SecretKey string `json:"secretKey" mapstructure:"secret_key"`
}

type Client struct {
	// baseURL is the base url of the Paystack API.
	baseURL string

	// secretKey authenticates requests and verifies webhook signatures.
	secretKey string

	// hc is the http client.
	hc *http.Client
}

// New creates a new Paystack client.
func New(cfg *Config) *Client {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = "https://api.paystack.co"
	}

	return &Client{
		baseURL:   baseURL,
		secretKey: cfg.SecretKey,

		// set http client with timeout.
		hc: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

func (c *Client) GetProvider() gateway.Provider {
	return gateway.ProviderPaystack
}

// Initialize opens a charge with Paystack and returns the transaction
// reference and checkout URL.
func (c *Client) Initialize(ctx context.Context, r *gateway.InitializeRequest) (*gateway.InitializeResponse, error) {
	body, err := json.Marshal(r)
	if err != nil {
		return nil, fmt.Errorf("paystack initialize: marshal: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/transaction/initialize", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("paystack initialize: http.NewReq: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.secretKey)

	resp, err := c.hc.Do(req)
	if err != nil {
		return nil, fmt.Errorf("paystack initialize: http.Do: %w", err)
	}
	defer resp.Body.Close()

	var reply struct {
		Status  bool   `json:"status"`
		Message string `json:"message"`
		Data    struct {
			AuthorizationURL string `json:"authorization_url"`
			AccessCode       string `json:"access_code"`
			Reference        string `json:"reference"`
		} `json:"data"`
	}
	dec := json.NewDecoder(resp.Body)
	if err := dec.Decode(&reply); err != nil {
		return nil, fmt.Errorf("paystack initialize: json.Decode: %w", err)
	}
	if !reply.Status {
		return nil, fmt.Errorf("paystack initialize: reply.Status: false, reply.Message: %v", reply.Message)
	}

	return &gateway.InitializeResponse{
		Reference:   reply.Data.Reference,
		CheckoutURL: reply.Data.AuthorizationURL,
	}, nil
}

// Verify checks the status of a transaction with Paystack.
func (c *Client) Verify(ctx context.Context, reference string) (bool, error) {
	endpoint := fmt.Sprintf("%s/transaction/verify/%s", c.baseURL, url.PathEscape(reference))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return false, fmt.Errorf("paystack verify: http.NewReq: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.secretKey)

	resp, err := c.hc.Do(req)
	if err != nil {
		return false, fmt.Errorf("paystack verify: http.Do: %w", err)
	}
	defer resp.Body.Close()

	var reply struct {
		Status  bool   `json:"status"`
		Message string `json:"message"`
		Data    struct {
			Status string `json:"status"`
		} `json:"data"`
	}
	dec := json.NewDecoder(resp.Body)
	if err := dec.Decode(&reply); err != nil {
		return false, fmt.Errorf("paystack verify: json.Decode: %w", err)
	}
	if !reply.Status {
		return false, fmt.Errorf("paystack verify: reply.Status: false, reply.Message: %v", reply.Message)
	}

	return reply.Data.Status == "success", nil
}

// VerifyWebhookSignature validates the x-paystack-signature header
// against the raw request body. Paystack signs with HMAC-SHA512 keyed by
// the secret key.
func (c *Client) VerifyWebhookSignature(body []byte, signature string) bool {
	if signature == "" {
		return false
	}
	return hmacEqual(Hmac512(body, []byte(c.secretKey)), signature)
}
