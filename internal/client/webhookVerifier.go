package client

import (
	"encoding/json"
	"errors"
	"fmt"
	"storefront-checkout/internal/config"
	"storefront-checkout/internal/model"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/stripe/stripe-go/v76"
	"github.com/stripe/stripe-go/v76/webhook"
)

var (
	ErrSignatureInvalid     = errors.New("webhook signature invalid")
	ErrWebhookSecretMissing = errors.New("webhook secret not configured")
	// ErrEventMalformed is returned for an authentic event whose payment
	// intent payload cannot be decoded.
	ErrEventMalformed = errors.New("webhook event malformed")
)

// WebhookVerifier authenticates a raw gateway callback and decodes it.
type WebhookVerifier interface {
	Verify(payload []byte, signatureHeader string) (*model.PaymentEvent, error)
}

// NewWebhookVerifier picks the verification strategy once, at startup.
// Without a secret, production gets a verifier that rejects everything and
// other environments get an unchecked passthrough.
func NewWebhookVerifier(cfg *config.Config, log *logrus.Logger) WebhookVerifier {
	switch {
	case cfg.Stripe.WebhookSecret != "":
		return &stripeWebhookVerifier{secret: cfg.Stripe.WebhookSecret}
	case cfg.IsProduction():
		log.Error("STRIPE_WEBHOOK_SECRET is not set in production; all webhooks will be rejected")
		return misconfiguredWebhookVerifier{}
	default:
		log.Warn("STRIPE_WEBHOOK_SECRET is not set; webhook signatures will NOT be verified")
		return passthroughWebhookVerifier{}
	}
}

type stripeWebhookVerifier struct {
	secret string
}

func (v *stripeWebhookVerifier) Verify(payload []byte, signatureHeader string) (*model.PaymentEvent, error) {
	event, err := webhook.ConstructEventWithOptions(payload, signatureHeader, v.secret, webhook.ConstructEventOptions{
		IgnoreAPIVersionMismatch: true,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSignatureInvalid, err)
	}
	return toPaymentEvent(&event)
}

type passthroughWebhookVerifier struct{}

func (passthroughWebhookVerifier) Verify(payload []byte, _ string) (*model.PaymentEvent, error) {
	var event stripe.Event
	if err := json.Unmarshal(payload, &event); err != nil {
		return nil, fmt.Errorf("%w: decode event: %v", ErrSignatureInvalid, err)
	}
	return toPaymentEvent(&event)
}

type misconfiguredWebhookVerifier struct{}

func (misconfiguredWebhookVerifier) Verify([]byte, string) (*model.PaymentEvent, error) {
	return nil, ErrWebhookSecretMissing
}

func toPaymentEvent(event *stripe.Event) (*model.PaymentEvent, error) {
	out := &model.PaymentEvent{
		ID:   event.ID,
		Type: string(event.Type),
	}

	if event.Data == nil || !strings.HasPrefix(out.Type, "payment_intent.") {
		return out, nil
	}

	var pi stripe.PaymentIntent
	if err := json.Unmarshal(event.Data.Raw, &pi); err != nil {
		return nil, fmt.Errorf("%w: decode payment intent %s: %v", ErrEventMalformed, event.ID, err)
	}
	out.IntentID = pi.ID
	out.Metadata = pi.Metadata

	return out, nil
}
