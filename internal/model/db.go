package model

import "time"

type Product struct {
	ID        string `gorm:"primaryKey;size:64;not null"` // product sku
	Name      string `gorm:"size:255;not null"`
	Price     int64  `gorm:"not null"` // cents
	Available bool   `gorm:"index;not null;default:true"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

type Order struct {
	ID string `gorm:"primaryKey;size:64;not null"`

	// customer snapshot, not a reference to an account
	CustomerName  string `gorm:"size:255;not null"`
	CustomerEmail string `gorm:"size:255;index;not null"`
	CustomerPhone string `gorm:"size:64;not null"`

	FulfillmentMethod FulfillmentMethod `gorm:"size:16;not null"`
	ShippingAddress   Address           `gorm:"embedded;embeddedPrefix:shipping_"`
	ShippingCost      int64             `gorm:"not null;default:0"`

	Subtotal           int64  `gorm:"not null"`
	ExtraSupportAmount int64  `gorm:"not null;default:0"`
	Total              int64  `gorm:"not null"`
	ProceedsCause      string `gorm:"size:64"`
	SeedCount          int64  `gorm:"not null"`

	PaymentStatus     PaymentStatus     `gorm:"size:16;index;not null"`
	PaymentIntentID   *string           `gorm:"size:128;uniqueIndex"`
	FulfillmentStatus FulfillmentStatus `gorm:"size:16;index;not null"`

	Items []*OrderItem `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`

	CreatedAt time.Time
	UpdatedAt time.Time
}

type OrderItem struct {
	ID uint `gorm:"primaryKey"`
	// FK → orders.id
	OrderID string `gorm:"size:64;index;not null"`
	// kept for traceability only, never joined back for prices
	ProductID   string `gorm:"size:64;index;not null"`
	ProductName string `gorm:"size:255;not null"`
	UnitPrice   int64  `gorm:"not null"`
	Quantity    int64  `gorm:"not null"`
	LineTotal   int64  `gorm:"not null"`

	CreatedAt time.Time
}

type Address struct {
	Line1      string `gorm:"size:255"`
	City       string `gorm:"size:128"`
	State      string `gorm:"size:64"`
	PostalCode string `gorm:"size:32"`
}

type WebhookEvent struct {
	EventID     string `gorm:"primaryKey;size:128;not null"`
	EventType   string `gorm:"size:64;index"`
	ProcessedAt time.Time
	CreatedAt   time.Time
}
