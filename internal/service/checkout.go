package service

import (
	"context"
	"fmt"
	"net/mail"
	"storefront-checkout/internal/client"
	"storefront-checkout/internal/dto"
	"storefront-checkout/internal/model"
	"storefront-checkout/internal/pricing"
	"storefront-checkout/internal/repository"
	"strconv"
	"strings"
	"time"
	"unicode"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

const (
	maxProductIDLength         = 64
	maxLineQuantity            = 1000
	defaultCompensationTimeout = 15 * time.Second
)

type checkoutStage string

const (
	stageValidating     checkoutStage = "VALIDATING"
	stagePriced         checkoutStage = "PRICED"
	stageOrderPersisted checkoutStage = "ORDER_PERSISTED"
	stageIntentCreated  checkoutStage = "INTENT_CREATED"
	stageIntentLinked   checkoutStage = "INTENT_LINKED"
)

type CheckoutOptions struct {
	// OfflineFallback lets checkout complete without a payment gateway.
	// Derived from configuration; ignored in production builds.
	OfflineFallback bool
	// CompensationTimeout bounds the cleanup calls made after a failed step.
	CompensationTimeout time.Duration
}

type CheckoutService interface {
	Checkout(ctx context.Context, req *dto.CheckoutRequest) (*dto.CheckoutResponse, error)
}

type checkoutServiceImpl struct {
	productRepo repository.ProductRepository
	orderRepo   repository.OrderRepository
	gateway     client.PaymentGateway
	notifier    NotificationService
	log         *logrus.Logger
	opts        CheckoutOptions
}

// NewCheckoutService accepts a nil gateway; checkout then either runs offline
// (when allowed) or fails with ErrStoreOffline.
func NewCheckoutService(
	productRepo repository.ProductRepository,
	orderRepo repository.OrderRepository,
	gateway client.PaymentGateway,
	notifier NotificationService,
	log *logrus.Logger,
	opts CheckoutOptions,
) CheckoutService {
	if opts.CompensationTimeout <= 0 {
		opts.CompensationTimeout = defaultCompensationTimeout
	}

	return &checkoutServiceImpl{
		productRepo: productRepo,
		orderRepo:   orderRepo,
		gateway:     gateway,
		notifier:    notifier,
		log:         log,
		opts:        opts,
	}
}

func (s *checkoutServiceImpl) offlineAllowed() bool {
	return s.opts.OfflineFallback && offlineCheckoutAvailable
}

func (s *checkoutServiceImpl) Checkout(ctx context.Context, req *dto.CheckoutRequest) (*dto.CheckoutResponse, error) {
	entry := s.log.WithField("stage", stageValidating)

	if err := validateCheckout(req); err != nil {
		entry.WithError(err).Info("checkout rejected")
		return nil, err
	}

	if s.gateway == nil && !s.offlineAllowed() {
		entry.Error("checkout attempted with no payment gateway configured")
		return nil, ErrStoreOffline
	}

	order, err := s.priceOrder(ctx, req)
	if err != nil {
		entry.WithError(err).Info("checkout rejected")
		return nil, err
	}
	entry = entry.WithFields(logrus.Fields{
		"stage": stagePriced,
		"total": order.Total,
	})

	if s.gateway == nil {
		return s.checkoutOffline(ctx, order)
	}

	// The order must exist before any money can move.
	if err := s.orderRepo.Create(ctx, order); err != nil {
		entry.WithError(err).Error("persist order")
		return nil, fmt.Errorf("%w: create order: %w", ErrTemporarilyUnavailable, err)
	}
	entry = entry.WithFields(logrus.Fields{
		"stage":    stageOrderPersisted,
		"order_id": order.ID,
	})

	intent, err := s.gateway.CreatePaymentIntent(ctx, &client.PaymentIntentRequest{
		OrderID:  order.ID,
		Amount:   order.Total,
		Metadata: intentMetadata(order),
	})
	if err != nil {
		entry.WithError(err).Error("create payment intent")
		s.discardOrder(ctx, entry, order.ID)
		return nil, fmt.Errorf("%w: %w", ErrPaymentInitFailed, err)
	}
	entry = entry.WithFields(logrus.Fields{
		"stage":     stageIntentCreated,
		"intent_id": intent.ID,
	})

	if err := s.orderRepo.AttachPaymentIntent(ctx, order.ID, intent.ID); err != nil {
		entry.WithError(err).Error("link payment intent to order")
		s.discardIntent(ctx, entry, order.ID, intent.ID)
		return nil, fmt.Errorf("%w: link intent: %w", ErrPaymentInitFailed, err)
	}

	entry.WithField("stage", stageIntentLinked).Info("checkout ready for payment")

	return &dto.CheckoutResponse{
		OrderID:      order.ID,
		ClientSecret: intent.ClientSecret,
	}, nil
}

func (s *checkoutServiceImpl) compensationContext(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.WithoutCancel(ctx), s.opts.CompensationTimeout)
}

// discardOrder removes an order that can never be paid.
func (s *checkoutServiceImpl) discardOrder(ctx context.Context, entry *logrus.Entry, orderID string) {
	cctx, cancel := s.compensationContext(ctx)
	defer cancel()

	if err := s.orderRepo.Delete(cctx, orderID); err != nil {
		entry.WithError(err).Error("compensation failed: unpaid order left without payment intent")
		return
	}
	entry.Warn("compensation: order deleted")
}

// discardIntent cancels an intent that could not be linked, then drops the
// order. If the cancel fails the order is kept: the live intent carries its
// id in metadata, so a payment can still be reconciled onto it.
func (s *checkoutServiceImpl) discardIntent(ctx context.Context, entry *logrus.Entry, orderID, intentID string) {
	cctx, cancel := s.compensationContext(ctx)
	defer cancel()

	if err := s.gateway.CancelPaymentIntent(cctx, intentID); err != nil {
		entry.WithError(err).Error("compensation failed: payment intent is live but unlinked, order kept for reconciliation")
		return
	}
	entry.Warn("compensation: payment intent canceled")

	if err := s.orderRepo.Delete(cctx, orderID); err != nil {
		entry.WithError(err).Error("compensation: delete order after intent cancel")
		return
	}
	entry.Warn("compensation: order deleted")
}

func (s *checkoutServiceImpl) priceOrder(ctx context.Context, req *dto.CheckoutRequest) (*model.Order, error) {
	ids := make([]string, 0, len(req.Items))
	seen := make(map[string]bool, len(req.Items))
	for _, line := range req.Items {
		if !seen[line.ProductID] {
			seen[line.ProductID] = true
			ids = append(ids, line.ProductID)
		}
	}

	products, err := s.productRepo.FindAvailable(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("%w: load products: %w", ErrTemporarilyUnavailable, err)
	}

	catalog := make(map[string]*model.Product, len(products))
	for _, p := range products {
		catalog[p.ID] = p
	}

	var missing []string
	for _, id := range ids {
		if catalog[id] == nil {
			missing = append(missing, id)
		}
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("%w: %s", ErrItemsUnavailable, strings.Join(missing, ", "))
	}

	items := make([]*model.OrderItem, 0, len(req.Items))
	lines := make([]pricing.Line, 0, len(req.Items))
	for _, line := range req.Items {
		p := catalog[line.ProductID]
		lineTotal, err := pricing.LineTotal(p.Price, line.Quantity)
		if err != nil {
			return nil, fmt.Errorf("%w: %s: %w", ErrOrderTooLarge, p.ID, err)
		}
		items = append(items, &model.OrderItem{
			ProductID:   p.ID,
			ProductName: p.Name,
			UnitPrice:   p.Price,
			Quantity:    line.Quantity,
			LineTotal:   lineTotal,
		})
		lines = append(lines, pricing.Line{UnitPrice: p.Price, Quantity: line.Quantity})
	}

	method := model.FulfillmentMethod(req.FulfillmentMethod)
	totals, err := pricing.Compute(lines, method, req.ExtraSupportAmount)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrOrderTooLarge, err)
	}

	order := &model.Order{
		ID:                 uuid.NewString(),
		CustomerName:       strings.TrimSpace(req.Customer.Name),
		CustomerEmail:      strings.TrimSpace(req.Customer.Email),
		CustomerPhone:      strings.TrimSpace(req.Customer.Phone),
		FulfillmentMethod:  method,
		ShippingCost:       totals.ShippingCost,
		Subtotal:           totals.Subtotal,
		ExtraSupportAmount: totals.ExtraSupport,
		Total:              totals.Total,
		ProceedsCause:      strings.TrimSpace(req.ProceedsCause),
		SeedCount:          totals.SeedCount,
		PaymentStatus:      model.PaymentPending,
		FulfillmentStatus:  model.FulfillmentPending,
		Items:              items,
	}
	if method == model.FulfillmentShipping {
		order.ShippingAddress = model.Address{
			Line1:      strings.TrimSpace(req.ShippingAddress.Line1),
			City:       strings.TrimSpace(req.ShippingAddress.City),
			State:      strings.TrimSpace(req.ShippingAddress.State),
			PostalCode: strings.TrimSpace(req.ShippingAddress.PostalCode),
		}
	}

	if err := order.CheckInvariants(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrTemporarilyUnavailable, err)
	}

	return order, nil
}

func intentMetadata(order *model.Order) map[string]string {
	return map[string]string{
		model.MetadataOrderID:           order.ID,
		model.MetadataCustomerEmail:     order.CustomerEmail,
		model.MetadataCustomerName:      order.CustomerName,
		model.MetadataFulfillmentMethod: string(order.FulfillmentMethod),
		model.MetadataSeedCount:         strconv.FormatInt(order.SeedCount, 10),
	}
}

func validateCheckout(req *dto.CheckoutRequest) error {
	if req == nil || len(req.Items) == 0 {
		return ErrEmptyBasket
	}

	for _, line := range req.Items {
		if line == nil || !validProductID(line.ProductID) || line.Quantity < 1 || line.Quantity > maxLineQuantity {
			return ErrInvalidBasketItem
		}
	}

	c := req.Customer
	if strings.TrimSpace(c.Name) == "" || strings.TrimSpace(c.Email) == "" || strings.TrimSpace(c.Phone) == "" {
		return ErrMissingCustomerFields
	}
	if _, err := mail.ParseAddress(strings.TrimSpace(c.Email)); err != nil {
		return ErrMissingCustomerFields
	}

	method := model.FulfillmentMethod(req.FulfillmentMethod)
	if !method.Valid() {
		return ErrInvalidFulfillmentMethod
	}
	if method == model.FulfillmentShipping {
		a := req.ShippingAddress
		if a == nil || !(model.Address{Line1: a.Line1, City: a.City, State: a.State, PostalCode: a.PostalCode}).Complete() {
			return ErrMissingShippingFields
		}
	}

	if req.ExtraSupportAmount < 0 || req.ExtraSupportAmount > pricing.MaxAmountCents {
		return ErrInvalidExtraSupport
	}

	return nil
}

func validProductID(id string) bool {
	if id == "" || len(id) > maxProductIDLength {
		return false
	}
	return strings.IndexFunc(id, unicode.IsSpace) < 0
}
