package repository

import (
	"context"
	"storefront-checkout/internal/model"
	"time"

	"gorm.io/gorm"
)

type OrderFilter struct {
	PaymentStatus     model.PaymentStatus
	FulfillmentStatus model.FulfillmentStatus
	Limit             int
}

type OrderRepository interface {
	// Create inserts the order and its items in one transaction.
	Create(ctx context.Context, order *model.Order) error
	Delete(ctx context.Context, orderID string) error
	AttachPaymentIntent(ctx context.Context, orderID, intentID string) error
	FindByID(ctx context.Context, orderID string) (*model.Order, error)
	FindByPaymentIntentID(ctx context.Context, intentID string) (*model.Order, error)
	List(ctx context.Context, filter OrderFilter) ([]*model.Order, error)
	// MarkPaid and MarkFailed report whether the row actually changed state.
	MarkPaid(ctx context.Context, orderID, intentID string) (bool, error)
	MarkFailed(ctx context.Context, orderID string) (bool, error)
	SetFulfillmentStatus(ctx context.Context, orderID string, status model.FulfillmentStatus) error
}

type orderRepoImpl struct {
	db *gorm.DB
}

func NewOrderRepository(db *gorm.DB) OrderRepository {
	return &orderRepoImpl{
		db: db,
	}
}

func (r *orderRepoImpl) Create(ctx context.Context, order *model.Order) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		items := order.Items
		order.Items = nil
		defer func() { order.Items = items }()

		if err := tx.Create(order).Error; err != nil {
			return err
		}

		for _, item := range items {
			item.OrderID = order.ID
		}
		if len(items) > 0 {
			if err := tx.Create(&items).Error; err != nil {
				return err
			}
		}

		return nil
	})
}

func (r *orderRepoImpl) Delete(ctx context.Context, orderID string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("order_id = ?", orderID).Delete(&model.OrderItem{}).Error; err != nil {
			return err
		}
		return tx.Where("id = ?", orderID).Delete(&model.Order{}).Error
	})
}

func (r *orderRepoImpl) AttachPaymentIntent(ctx context.Context, orderID, intentID string) error {
	result := r.db.WithContext(ctx).
		Model(&model.Order{}).
		Where("id = ?", orderID).
		Updates(map[string]interface{}{
			"payment_intent_id": intentID,
			"updated_at":        time.Now(),
		})

	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	return nil
}

func (r *orderRepoImpl) FindByID(ctx context.Context, orderID string) (*model.Order, error) {
	var order model.Order
	err := r.db.WithContext(ctx).
		Preload("Items").
		Where("id = ?", orderID).
		First(&order).Error

	if err != nil {
		return nil, err
	}

	return &order, nil
}

func (r *orderRepoImpl) FindByPaymentIntentID(ctx context.Context, intentID string) (*model.Order, error) {
	var order model.Order
	err := r.db.WithContext(ctx).
		Preload("Items").
		Where("payment_intent_id = ?", intentID).
		First(&order).Error

	if err != nil {
		return nil, err
	}

	return &order, nil
}

func (r *orderRepoImpl) List(ctx context.Context, filter OrderFilter) ([]*model.Order, error) {
	query := r.db.WithContext(ctx).Preload("Items").Order("created_at DESC")

	if filter.PaymentStatus != "" {
		query = query.Where("payment_status = ?", filter.PaymentStatus)
	}
	if filter.FulfillmentStatus != "" {
		query = query.Where("fulfillment_status = ?", filter.FulfillmentStatus)
	}
	if filter.Limit > 0 {
		query = query.Limit(filter.Limit)
	}

	var orders []*model.Order
	if err := query.Find(&orders).Error; err != nil {
		return nil, err
	}

	return orders, nil
}

// MarkPaid transitions PENDING or FAILED to PAID and re-asserts the intent id.
// An already PAID order is left untouched and reported as no transition.
//
// FAILED is accepted as a source state on purpose: a declined card can be
// retried against the same payment intent, and the gateway then sends a
// success for an order already marked failed. Only PAID is terminal.
func (r *orderRepoImpl) MarkPaid(ctx context.Context, orderID, intentID string) (bool, error) {
	updates := map[string]interface{}{
		"payment_status": model.PaymentPaid,
		"updated_at":     time.Now(),
	}
	if intentID != "" {
		updates["payment_intent_id"] = intentID
	}

	return r.transition(ctx, orderID, model.PaymentPaid, updates)
}

// MarkFailed only moves PENDING orders; a late failure never downgrades PAID.
func (r *orderRepoImpl) MarkFailed(ctx context.Context, orderID string) (bool, error) {
	var changed bool
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&model.Order{}).
			Where("id = ? AND payment_status = ?", orderID, model.PaymentPending).
			Updates(map[string]interface{}{
				"payment_status": model.PaymentFailed,
				"updated_at":     time.Now(),
			})
		if result.Error != nil {
			return result.Error
		}
		changed = result.RowsAffected > 0
		if changed {
			return nil
		}
		return r.ensureExists(tx, orderID)
	})

	return changed, err
}

func (r *orderRepoImpl) transition(ctx context.Context, orderID string, to model.PaymentStatus, updates map[string]interface{}) (bool, error) {
	var changed bool
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&model.Order{}).
			Where("id = ? AND payment_status <> ?", orderID, to).
			Updates(updates)
		if result.Error != nil {
			return result.Error
		}
		changed = result.RowsAffected > 0
		if changed {
			return nil
		}
		return r.ensureExists(tx, orderID)
	})

	return changed, err
}

func (r *orderRepoImpl) ensureExists(tx *gorm.DB, orderID string) error {
	var count int64
	if err := tx.Model(&model.Order{}).Where("id = ?", orderID).Count(&count).Error; err != nil {
		return err
	}
	if count == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *orderRepoImpl) SetFulfillmentStatus(ctx context.Context, orderID string, status model.FulfillmentStatus) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&model.Order{}).
			Where("id = ?", orderID).
			Updates(map[string]interface{}{
				"fulfillment_status": status,
				"updated_at":         time.Now(),
			})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			// mysql reports 0 rows when the value did not change
			return r.ensureExists(tx, orderID)
		}
		return nil
	})
}
