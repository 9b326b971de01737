package gateway

import "context"

// Provider represents a payment gateway provider.
type Provider string

const (
	ProviderPaystack Provider = "paystack"
)

// InitializeRequest asks the gateway to open a charge. Amount is in the
// currency's minor unit (pesewas for GHS).
type InitializeRequest struct {
	Email       string `json:"email"`
	Amount      int64  `json:"amount"`
	Currency    string `json:"currency"`
	CallbackURL string `json:"callback_url"`
}

// InitializeResponse carries the gateway-assigned reference and the URL
// the buyer completes payment at.
type InitializeResponse struct {
	Reference   string `json:"reference"`
	CheckoutURL string `json:"checkout_url"`
}

// Gateway is the common interface for payment gateway providers.
type Gateway interface {
	// GetProvider returns the gateway provider type.
	GetProvider() Provider

	// Initialize opens a charge and returns its reference and checkout URL.
	Initialize(ctx context.Context, req *InitializeRequest) (*InitializeResponse, error)

	// Verify reports whether the charge behind reference completed
	// successfully. A false return with nil error is an authoritative
	// "not paid"; an error means the gateway could not be consulted.
	Verify(ctx context.Context, reference string) (bool, error)

	// VerifyWebhookSignature validates a webhook payload against its
	// transported signature.
	VerifyWebhookSignature(body []byte, signature string) bool
}
