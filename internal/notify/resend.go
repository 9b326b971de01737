package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"mm-tickets/models"
)

const resendEndpoint = "https://api.resend.com/emails"

type ResendConfig struct {
	// APIKey authenticates against the Resend API.
	APIKey string `json:"apiKey" mapstructure:"api_key"`

	// Domain is the verified sending domain.
	Domain string `json:"domain" mapstructure:"domain"`

	// FromName is the display name on outgoing mail.
	FromName string `json:"fromName" mapstructure:"from_name"`

	// AdminRecipients receive manual payment alerts.
	AdminRecipients []string `json:"adminRecipients" mapstructure:"admin_recipients"`

	Event EventInfo
}

// Resend delivers notifications through the Resend transactional email
// API.
type Resend struct {
	apiKey string
	from   string
	admins []string
	event  EventInfo

	// hc is the http client.
	hc *http.Client
}

// NewResend creates a new Resend notifier.
func NewResend(cfg *ResendConfig) *Resend {
	return &Resend{
		apiKey: cfg.APIKey,
		from:   fmt.Sprintf("%s <noreply@%s>", cfg.FromName, cfg.Domain),
		admins: cfg.AdminRecipients,
		event:  cfg.Event,

		// set http client with timeout.
		hc: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

func (r *Resend) SendTicketConfirmation(ctx context.Context, t *models.Ticket) error {
	html, err := renderTicketConfirmation(t, r.event)
	if err != nil {
		return fmt.Errorf("resend: render ticket confirmation: %w", err)
	}

	subject := fmt.Sprintf("ACCESS GRANTED // %s", t.Code)
	return r.send(ctx, []string{t.Email}, subject, html)
}

func (r *Resend) SendManualPaymentAlert(ctx context.Context, mp *models.ManualPayment) error {
	if len(r.admins) == 0 {
		return fmt.Errorf("resend: no admin recipients configured")
	}

	html, err := renderManualPaymentAlert(mp, r.event)
	if err != nil {
		return fmt.Errorf("resend: render manual payment alert: %w", err)
	}

	subject := fmt.Sprintf("MANUAL PAYMENT PENDING // %s", mp.ReferenceCode)
	return r.send(ctx, r.admins, subject, html)
}

func (r *Resend) send(ctx context.Context, to []string, subject, html string) error {
	body, err := json.Marshal(map[string]any{
		"from":    r.from,
		"to":      to,
		"subject": subject,
		"html":    html,
	})
	if err != nil {
		return fmt.Errorf("resend: marshal: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, resendEndpoint, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("resend: http.NewReq: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+r.apiKey)

	resp, err := r.hc.Do(req)
	if err != nil {
		return fmt.Errorf("resend: http.Do: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("resend: http.StatusCode: %d", resp.StatusCode)
	}
	return nil
}
