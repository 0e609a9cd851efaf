package repository

import (
	"storefront-checkout/internal/client"
	"storefront-checkout/internal/model"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := "file:" + uuid.NewString() + "?mode=memory&cache=shared"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, client.Migrate(db))

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	return db
}

func newPendingOrder() *model.Order {
	return &model.Order{
		ID:                uuid.NewString(),
		CustomerName:      "Ada",
		CustomerEmail:     "ada@example.com",
		CustomerPhone:     "555-0100",
		FulfillmentMethod: model.FulfillmentPickup,
		Subtotal:          1798,
		Total:             1798,
		SeedCount:         2,
		PaymentStatus:     model.PaymentPending,
		FulfillmentStatus: model.FulfillmentPending,
		Items: []*model.OrderItem{
			{ProductID: "p1", ProductName: "Sourdough Loaf", UnitPrice: 899, Quantity: 2, LineTotal: 1798},
		},
	}
}
