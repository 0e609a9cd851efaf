package client

import (
	"context"
	"fmt"
	"net/http"
	"storefront-checkout/internal/config"
	"time"

	"github.com/stripe/stripe-go/v76"
	stripeclient "github.com/stripe/stripe-go/v76/client"
)

type PaymentIntentRequest struct {
	OrderID  string
	Amount   int64 // cents
	Metadata map[string]string
}

type PaymentIntent struct {
	ID           string
	ClientSecret string
}

// PaymentGateway is the payment processor boundary used by checkout.
type PaymentGateway interface {
	CreatePaymentIntent(ctx context.Context, req *PaymentIntentRequest) (*PaymentIntent, error)
	CancelPaymentIntent(ctx context.Context, intentID string) error
}

type stripeClientImpl struct {
	api      *stripeclient.API
	currency string
}

// NewStripeClient returns nil when no secret key is configured so callers can
// tell "no gateway" apart from a working one.
func NewStripeClient(cfg *config.Stripe) PaymentGateway {
	if cfg.SecretKey == "" {
		return nil
	}

	backends := stripe.NewBackends(&http.Client{
		Timeout: 30 * time.Second,
	})

	return newStripeClient(stripeclient.New(cfg.SecretKey, backends), cfg.Currency)
}

func newStripeClient(api *stripeclient.API, currency string) *stripeClientImpl {
	return &stripeClientImpl{
		api:      api,
		currency: currency,
	}
}

func (c *stripeClientImpl) CreatePaymentIntent(ctx context.Context, req *PaymentIntentRequest) (*PaymentIntent, error) {
	params := &stripe.PaymentIntentParams{
		Amount:   stripe.Int64(req.Amount),
		Currency: stripe.String(c.currency),
		AutomaticPaymentMethods: &stripe.PaymentIntentAutomaticPaymentMethodsParams{
			Enabled: stripe.Bool(true),
		},
	}
	params.Context = ctx
	// one intent per order even if the HTTP call is retried
	params.SetIdempotencyKey("order-" + req.OrderID)
	for k, v := range req.Metadata {
		params.AddMetadata(k, v)
	}

	pi, err := c.api.PaymentIntents.New(params)
	if err != nil {
		return nil, fmt.Errorf("stripe create payment intent: %w", err)
	}

	return &PaymentIntent{
		ID:           pi.ID,
		ClientSecret: pi.ClientSecret,
	}, nil
}

func (c *stripeClientImpl) CancelPaymentIntent(ctx context.Context, intentID string) error {
	params := &stripe.PaymentIntentCancelParams{
		CancellationReason: stripe.String(string(stripe.PaymentIntentCancellationReasonAbandoned)),
	}
	params.Context = ctx

	if _, err := c.api.PaymentIntents.Cancel(intentID, params); err != nil {
		return fmt.Errorf("stripe cancel payment intent %s: %w", intentID, err)
	}
	return nil
}
