package repository

import (
	"context"
	"storefront-checkout/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ProductRepository interface {
	Seed(ctx context.Context) error
	FindByID(ctx context.Context, productID string) (*model.Product, error)
	// FindAvailable returns only the requested products that exist and are
	// currently for sale. Missing ids are simply absent from the result.
	FindAvailable(ctx context.Context, productIDs []string) ([]*model.Product, error)
	ListAvailable(ctx context.Context) ([]*model.Product, error)
}

type productRepoImpl struct {
	db *gorm.DB
}

func NewProductRepository(db *gorm.DB) ProductRepository {
	return &productRepoImpl{
		db: db,
	}
}

func (r *productRepoImpl) Seed(ctx context.Context) error {
	products := []model.Product{
		{ID: "sourdough-loaf", Name: "Sourdough Loaf", Price: 899, Available: true},
		{ID: "strawberry-jam", Name: "Strawberry Jam (8oz)", Price: 750, Available: true},
		{ID: "heirloom-tomato-seeds", Name: "Heirloom Tomato Seed Packet", Price: 350, Available: true},
		{ID: "beeswax-candle", Name: "Beeswax Candle", Price: 1200, Available: true},
	}

	return r.db.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).Create(&products).Error
}

func (r *productRepoImpl) FindByID(ctx context.Context, productID string) (*model.Product, error) {
	var product model.Product
	err := r.db.WithContext(ctx).
		Where("id = ?", productID).
		First(&product).Error

	if err != nil {
		return nil, err
	}

	return &product, nil
}

func (r *productRepoImpl) FindAvailable(ctx context.Context, productIDs []string) ([]*model.Product, error) {
	var products []*model.Product
	if len(productIDs) == 0 {
		return products, nil
	}

	err := r.db.WithContext(ctx).
		Where("id IN ?", productIDs).
		Where("available = ?", true).
		Find(&products).
		Error

	if err != nil {
		return nil, err
	}

	return products, nil
}

func (r *productRepoImpl) ListAvailable(ctx context.Context) ([]*model.Product, error) {
	var products []*model.Product
	err := r.db.WithContext(ctx).
		Where("available = ?", true).
		Order("name").
		Find(&products).
		Error

	if err != nil {
		return nil, err
	}

	return products, nil
}
