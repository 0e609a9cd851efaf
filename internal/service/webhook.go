package service

import (
	"context"
	"errors"
	"fmt"
	"storefront-checkout/internal/client"
	"storefront-checkout/internal/model"
	"storefront-checkout/internal/repository"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// WebhookService applies gateway payment outcomes to orders.
//
// HandleWebhook returns an error only when the event cannot be trusted
// (ErrInvalidSignature, ErrWebhookSecretMissing). Everything that goes wrong
// after verification, including an undecodable intent payload, is logged and
// swallowed so the gateway is always acknowledged.
type WebhookService interface {
	HandleWebhook(ctx context.Context, payload []byte, signature string) error
}

type webhookServiceImpl struct {
	verifier         client.WebhookVerifier
	orderRepo        repository.OrderRepository
	webhookEventRepo repository.WebhookEventRepository
	notifier         NotificationService
	log              *logrus.Logger
}

func NewWebhookService(
	verifier client.WebhookVerifier,
	orderRepo repository.OrderRepository,
	webhookEventRepo repository.WebhookEventRepository,
	notifier NotificationService,
	log *logrus.Logger,
) WebhookService {
	return &webhookServiceImpl{
		verifier:         verifier,
		orderRepo:        orderRepo,
		webhookEventRepo: webhookEventRepo,
		notifier:         notifier,
		log:              log,
	}
}

func (s *webhookServiceImpl) HandleWebhook(ctx context.Context, payload []byte, signature string) error {
	event, err := s.verifier.Verify(payload, signature)
	if errors.Is(err, client.ErrWebhookSecretMissing) {
		s.log.WithError(err).Error("webhook rejected: verification is not configured")
		return ErrWebhookSecretMissing
	}
	if errors.Is(err, client.ErrEventMalformed) {
		s.log.WithError(err).Error("verified webhook could not be decoded; acknowledged")
		return nil
	}
	if err != nil {
		s.log.WithError(err).Warn("webhook rejected")
		return fmt.Errorf("%w: %w", ErrInvalidSignature, err)
	}

	entry := s.log.WithFields(logrus.Fields{
		"event_id":   event.ID,
		"event_type": event.Type,
		"intent_id":  event.IntentID,
	})

	if err := s.process(ctx, entry, event); err != nil {
		entry.WithError(err).Error("webhook processing failed; acknowledged for operator follow-up")
	}

	return nil
}

func (s *webhookServiceImpl) process(ctx context.Context, entry *logrus.Entry, event *model.PaymentEvent) error {
	if event.ID != "" {
		seen, err := s.webhookEventRepo.Exists(ctx, event.ID)
		if err != nil {
			entry.WithError(err).Warn("check webhook event dedupe; processing anyway")
		} else if seen {
			entry.Info("webhook event already processed")
			return nil
		}
	}

	var err error
	switch event.Type {
	case model.EventPaymentSucceeded:
		err = s.handlePaymentSucceeded(ctx, entry, event)
	case model.EventPaymentFailed:
		err = s.handlePaymentFailed(ctx, entry, event)
	default:
		entry.Debug("ignoring webhook event type")
		return nil
	}
	if err != nil {
		return err
	}

	if event.ID != "" {
		if err := s.webhookEventRepo.MarkProcessed(ctx, event.ID, event.Type); err != nil {
			entry.WithError(err).Warn("record processed webhook event")
		}
	}

	return nil
}

// resolveOrderID trusts the order id in the intent metadata and only falls
// back to the stored intent reference when metadata has none.
func (s *webhookServiceImpl) resolveOrderID(ctx context.Context, event *model.PaymentEvent) (string, error) {
	if orderID := event.OrderID(); orderID != "" {
		return orderID, nil
	}
	if event.IntentID == "" {
		return "", ErrOrderNotFound
	}

	order, err := s.orderRepo.FindByPaymentIntentID(ctx, event.IntentID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", ErrOrderNotFound
	}
	if err != nil {
		return "", fmt.Errorf("find order by payment intent: %w", err)
	}

	return order.ID, nil
}

func (s *webhookServiceImpl) handlePaymentSucceeded(ctx context.Context, entry *logrus.Entry, event *model.PaymentEvent) error {
	orderID, err := s.resolveOrderID(ctx, event)
	if errors.Is(err, ErrOrderNotFound) {
		entry.Warn("payment succeeded for unknown order; dropping")
		return nil
	}
	if err != nil {
		return err
	}
	entry = entry.WithField("order_id", orderID)

	changed, err := s.orderRepo.MarkPaid(ctx, orderID, event.IntentID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		entry.Warn("payment succeeded for unknown order; dropping")
		return nil
	}
	if err != nil {
		return fmt.Errorf("mark order paid: %w", err)
	}
	if !changed {
		entry.Info("order already paid; confirmation not resent")
		return nil
	}
	entry.Info("order paid")

	order, err := s.orderRepo.FindByID(ctx, orderID)
	if err != nil {
		return fmt.Errorf("load paid order for confirmation: %w", err)
	}
	s.notifier.SendOrderConfirmation(ctx, order)

	return nil
}

func (s *webhookServiceImpl) handlePaymentFailed(ctx context.Context, entry *logrus.Entry, event *model.PaymentEvent) error {
	orderID, err := s.resolveOrderID(ctx, event)
	if errors.Is(err, ErrOrderNotFound) {
		entry.Warn("payment failed for unknown order; dropping")
		return nil
	}
	if err != nil {
		return err
	}
	entry = entry.WithField("order_id", orderID)

	changed, err := s.orderRepo.MarkFailed(ctx, orderID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		entry.Warn("payment failed for unknown order; dropping")
		return nil
	}
	if err != nil {
		return fmt.Errorf("mark order failed: %w", err)
	}
	if changed {
		entry.Info("order payment failed")
	} else {
		entry.Info("payment failure ignored; order not pending")
	}

	return nil
}
