package handler

import (
	"context"
	"storefront-checkout/internal/dto"
	"storefront-checkout/internal/model"
	"storefront-checkout/internal/repository"
)

type mockCheckoutService struct {
	resp *dto.CheckoutResponse
	err  error
	got  *dto.CheckoutRequest
}

func (m *mockCheckoutService) Checkout(_ context.Context, req *dto.CheckoutRequest) (*dto.CheckoutResponse, error) {
	m.got = req
	return m.resp, m.err
}

type mockCatalogService struct {
	products []*model.Product
	err      error
}

func (m *mockCatalogService) ListProducts(context.Context) ([]*model.Product, error) {
	return m.products, m.err
}

type mockWebhookService struct {
	err       error
	payload   []byte
	signature string
}

func (m *mockWebhookService) HandleWebhook(_ context.Context, payload []byte, signature string) error {
	m.payload = payload
	m.signature = signature
	return m.err
}

type mockOrderService struct {
	orders    []*model.Order
	err       error
	filter    repository.OrderFilter
	setID     string
	setStatus model.FulfillmentStatus
}

func (m *mockOrderService) ListOrders(_ context.Context, filter repository.OrderFilter) ([]*model.Order, error) {
	m.filter = filter
	return m.orders, m.err
}

func (m *mockOrderService) GetOrder(_ context.Context, orderID string) (*model.Order, error) {
	if m.err != nil {
		return nil, m.err
	}
	for _, o := range m.orders {
		if o.ID == orderID {
			return o, nil
		}
	}
	return nil, nil
}

func (m *mockOrderService) SetFulfillmentStatus(_ context.Context, orderID string, status model.FulfillmentStatus) (*model.Order, error) {
	m.setID = orderID
	m.setStatus = status
	if m.err != nil {
		return nil, m.err
	}
	o := *m.orders[0]
	o.FulfillmentStatus = status
	return &o, nil
}
