package service

import (
	"context"
	"fmt"
	"storefront-checkout/internal/model"
	"storefront-checkout/internal/repository"
)

type CatalogService interface {
	ListProducts(ctx context.Context) ([]*model.Product, error)
}

type catalogServiceImpl struct {
	productRepo repository.ProductRepository
}

func NewCatalogService(productRepo repository.ProductRepository) CatalogService {
	return &catalogServiceImpl{
		productRepo: productRepo,
	}
}

func (s *catalogServiceImpl) ListProducts(ctx context.Context) ([]*model.Product, error) {
	products, err := s.productRepo.ListAvailable(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: list products: %w", ErrTemporarilyUnavailable, err)
	}
	return products, nil
}
