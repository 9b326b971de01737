// Package realtime pushes admin-facing events over PubNub so the review
// dashboard updates without polling.
package realtime

import (
	"context"
	"fmt"

	pubnub "github.com/pubnub/go/v7"

	"mm-tickets/models"
)

type Config struct {
	PublishKey   string `json:"publishKey" mapstructure:"PUBNUB_PUBLISH_KEY"`
	SubscribeKey string `json:"subscribeKey" mapstructure:"PUBNUB_SUBSCRIBE_KEY"`
	UserID       string `json:"userId" mapstructure:"PUBNUB_USER_ID"`
	AdminChannel string `json:"adminChannel" mapstructure:"PUBNUB_ADMIN_CHANNEL"`
}

// Publisher announces events on the admin channel.
type Publisher struct {
	pn      *pubnub.PubNub
	channel string
}

func New(cfg *Config) *Publisher {
	pnCfg := pubnub.NewConfigWithUserId(pubnub.UserId(cfg.UserID))
	pnCfg.PublishKey = cfg.PublishKey
	pnCfg.SubscribeKey = cfg.SubscribeKey

	return &Publisher{
		pn:      pubnub.NewPubNub(pnCfg),
		channel: cfg.AdminChannel,
	}
}

// AnnounceManualPayment tells subscribed admins a manual payment is
// waiting for review.
func (p *Publisher) AnnounceManualPayment(_ context.Context, mp *models.ManualPayment) error {
	_, _, err := p.pn.Publish().
		Channel(p.channel).
		Message(map[string]any{
			"type":           "manual_payment_submitted",
			"reference_code": mp.ReferenceCode,
			"name":           mp.Name,
			"ticket_type":    mp.TicketType,
			"quantity":       mp.Quantity,
			"final_price":    mp.FinalPrice.String(),
			"momo_number":    mp.MomoNumber,
		}).
		Execute()
	if err != nil {
		return fmt.Errorf("publish to %s: %w", p.channel, err)
	}
	return nil
}
