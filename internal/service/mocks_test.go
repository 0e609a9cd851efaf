package service

import (
	"context"
	"fmt"
	"storefront-checkout/internal/client"
	"storefront-checkout/internal/model"
	"storefront-checkout/internal/repository"
	"sync"

	"gorm.io/gorm"
)

// --- Product repository ---

type mockProductRepository struct {
	products map[string]*model.Product
	err      error
	calls    [][]string
}

func newMockProductRepository(products ...*model.Product) *mockProductRepository {
	m := &mockProductRepository{products: make(map[string]*model.Product)}
	for _, p := range products {
		m.products[p.ID] = p
	}
	return m
}

func (m *mockProductRepository) Seed(context.Context) error { return nil }

func (m *mockProductRepository) FindByID(_ context.Context, id string) (*model.Product, error) {
	p, ok := m.products[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return p, nil
}

func (m *mockProductRepository) FindAvailable(_ context.Context, ids []string) ([]*model.Product, error) {
	m.calls = append(m.calls, ids)
	if m.err != nil {
		return nil, m.err
	}
	var out []*model.Product
	for _, id := range ids {
		if p, ok := m.products[id]; ok && p.Available {
			val := *p
			out = append(out, &val)
		}
	}
	return out, nil
}

func (m *mockProductRepository) ListAvailable(context.Context) ([]*model.Product, error) {
	if m.err != nil {
		return nil, m.err
	}
	var out []*model.Product
	for _, p := range m.products {
		if p.Available {
			out = append(out, p)
		}
	}
	return out, nil
}

// --- Order repository ---

type mockOrderRepository struct {
	mu     sync.Mutex
	orders map[string]*model.Order

	createErr   error
	attachErr   error
	deleteErr   error
	markPaidErr error

	deleted       []string
	deleteCtxErrs []error
}

func newMockOrderRepository() *mockOrderRepository {
	return &mockOrderRepository{orders: make(map[string]*model.Order)}
}

func copyOrder(o *model.Order) *model.Order {
	val := *o
	val.Items = make([]*model.OrderItem, len(o.Items))
	for i, item := range o.Items {
		it := *item
		val.Items[i] = &it
	}
	if o.PaymentIntentID != nil {
		id := *o.PaymentIntentID
		val.PaymentIntentID = &id
	}
	return &val
}

func (m *mockOrderRepository) Create(_ context.Context, order *model.Order) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.createErr != nil {
		return m.createErr
	}
	if _, exists := m.orders[order.ID]; exists {
		return fmt.Errorf("duplicate order %s", order.ID)
	}
	m.orders[order.ID] = copyOrder(order)
	return nil
}

func (m *mockOrderRepository) Delete(ctx context.Context, orderID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.deleted = append(m.deleted, orderID)
	m.deleteCtxErrs = append(m.deleteCtxErrs, ctx.Err())
	if m.deleteErr != nil {
		return m.deleteErr
	}
	delete(m.orders, orderID)
	return nil
}

func (m *mockOrderRepository) AttachPaymentIntent(_ context.Context, orderID, intentID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.attachErr != nil {
		return m.attachErr
	}
	o, ok := m.orders[orderID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	o.PaymentIntentID = &intentID
	return nil
}

func (m *mockOrderRepository) FindByID(_ context.Context, orderID string) (*model.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	o, ok := m.orders[orderID]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return copyOrder(o), nil
}

func (m *mockOrderRepository) FindByPaymentIntentID(_ context.Context, intentID string) (*model.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, o := range m.orders {
		if o.PaymentIntentID != nil && *o.PaymentIntentID == intentID {
			return copyOrder(o), nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockOrderRepository) List(_ context.Context, filter repository.OrderFilter) ([]*model.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*model.Order
	for _, o := range m.orders {
		if filter.PaymentStatus != "" && o.PaymentStatus != filter.PaymentStatus {
			continue
		}
		if filter.FulfillmentStatus != "" && o.FulfillmentStatus != filter.FulfillmentStatus {
			continue
		}
		out = append(out, copyOrder(o))
	}
	return out, nil
}

func (m *mockOrderRepository) MarkPaid(_ context.Context, orderID, intentID string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.markPaidErr != nil {
		return false, m.markPaidErr
	}
	o, ok := m.orders[orderID]
	if !ok {
		return false, gorm.ErrRecordNotFound
	}
	if o.PaymentStatus == model.PaymentPaid {
		return false, nil
	}
	o.PaymentStatus = model.PaymentPaid
	if intentID != "" {
		o.PaymentIntentID = &intentID
	}
	return true, nil
}

func (m *mockOrderRepository) MarkFailed(_ context.Context, orderID string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	o, ok := m.orders[orderID]
	if !ok {
		return false, gorm.ErrRecordNotFound
	}
	if o.PaymentStatus != model.PaymentPending {
		return false, nil
	}
	o.PaymentStatus = model.PaymentFailed
	return true, nil
}

func (m *mockOrderRepository) SetFulfillmentStatus(_ context.Context, orderID string, status model.FulfillmentStatus) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	o, ok := m.orders[orderID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	o.FulfillmentStatus = status
	return nil
}

// --- Webhook event repository ---

type mockWebhookEventRepository struct {
	processed map[string]string
}

func newMockWebhookEventRepository() *mockWebhookEventRepository {
	return &mockWebhookEventRepository{processed: make(map[string]string)}
}

func (m *mockWebhookEventRepository) Exists(_ context.Context, eventID string) (bool, error) {
	_, ok := m.processed[eventID]
	return ok, nil
}

func (m *mockWebhookEventRepository) MarkProcessed(_ context.Context, eventID, eventType string) error {
	m.processed[eventID] = eventType
	return nil
}

// --- Payment gateway ---

type mockPaymentGateway struct {
	createErr error
	cancelErr error
	// onCreate runs before the create result is returned
	onCreate func()

	created  []*client.PaymentIntentRequest
	canceled []string
}

func (m *mockPaymentGateway) CreatePaymentIntent(_ context.Context, req *client.PaymentIntentRequest) (*client.PaymentIntent, error) {
	if m.onCreate != nil {
		m.onCreate()
	}
	if m.createErr != nil {
		return nil, m.createErr
	}
	m.created = append(m.created, req)
	id := fmt.Sprintf("pi_%d", len(m.created))
	return &client.PaymentIntent{ID: id, ClientSecret: id + "_secret"}, nil
}

func (m *mockPaymentGateway) CancelPaymentIntent(_ context.Context, intentID string) error {
	if m.cancelErr != nil {
		return m.cancelErr
	}
	m.canceled = append(m.canceled, intentID)
	return nil
}

// --- Notifications ---

type mockNotificationService struct {
	mu   sync.Mutex
	sent []*model.Order
}

func (m *mockNotificationService) SendOrderConfirmation(_ context.Context, order *model.Order) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sent = append(m.sent, order)
}

func (m *mockNotificationService) Wait() {}

func (m *mockNotificationService) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sent = nil
}

type mockMailer struct {
	mu   sync.Mutex
	err  error
	to   []string
	body []string
	// release, when set, holds Send until it is closed
	release chan struct{}
}

func (m *mockMailer) Send(ctx context.Context, to, _ string, body string) error {
	if m.release != nil {
		select {
		case <-m.release:
		case <-ctx.Done():
			return ctx.Err()
		}
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.to = append(m.to, to)
	m.body = append(m.body, body)
	return m.err
}

func (m *mockMailer) sentTo() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.to...)
}

// --- Webhook verifier ---

type mockWebhookVerifier struct {
	event *model.PaymentEvent
	err   error
}

func (m *mockWebhookVerifier) Verify([]byte, string) (*model.PaymentEvent, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.event, nil
}
