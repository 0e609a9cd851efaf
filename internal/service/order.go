package service

import (
	"context"
	"errors"
	"fmt"
	"storefront-checkout/internal/model"
	"storefront-checkout/internal/repository"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// OrderService backs the admin console.
type OrderService interface {
	ListOrders(ctx context.Context, filter repository.OrderFilter) ([]*model.Order, error)
	GetOrder(ctx context.Context, orderID string) (*model.Order, error)
	SetFulfillmentStatus(ctx context.Context, orderID string, status model.FulfillmentStatus) (*model.Order, error)
}

type orderServiceImpl struct {
	orderRepo repository.OrderRepository
	log       *logrus.Logger
}

func NewOrderService(orderRepo repository.OrderRepository, log *logrus.Logger) OrderService {
	return &orderServiceImpl{
		orderRepo: orderRepo,
		log:       log,
	}
}

func (s *orderServiceImpl) ListOrders(ctx context.Context, filter repository.OrderFilter) ([]*model.Order, error) {
	orders, err := s.orderRepo.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("%w: list orders: %w", ErrTemporarilyUnavailable, err)
	}
	return orders, nil
}

func (s *orderServiceImpl) GetOrder(ctx context.Context, orderID string) (*model.Order, error) {
	order, err := s.orderRepo.FindByID(ctx, orderID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrOrderNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: find order: %w", ErrTemporarilyUnavailable, err)
	}
	return order, nil
}

func (s *orderServiceImpl) SetFulfillmentStatus(ctx context.Context, orderID string, status model.FulfillmentStatus) (*model.Order, error) {
	if !status.Valid() {
		return nil, ErrInvalidFulfillmentStatus
	}

	err := s.orderRepo.SetFulfillmentStatus(ctx, orderID, status)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrOrderNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: set fulfillment status: %w", ErrTemporarilyUnavailable, err)
	}

	s.log.WithFields(logrus.Fields{
		"order_id":           orderID,
		"fulfillment_status": status,
	}).Info("fulfillment status updated")

	return s.GetOrder(ctx, orderID)
}
