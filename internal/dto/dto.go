package dto

import "time"

type BasketLine struct {
	ProductID string `json:"productId"`
	Quantity  int64  `json:"quantity"`
}

type Customer struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Phone string `json:"phone"`
}

type Address struct {
	Line1      string `json:"line1"`
	City       string `json:"city"`
	State      string `json:"state"`
	PostalCode string `json:"postalCode"`
}

type CheckoutRequest struct {
	Items              []*BasketLine `json:"items"`
	Customer           Customer      `json:"customer"`
	FulfillmentMethod  string        `json:"fulfillmentMethod"`
	ShippingAddress    *Address      `json:"shippingAddress,omitempty"`
	ProceedsCause      string        `json:"proceedsCause,omitempty"`
	ExtraSupportAmount int64         `json:"extraSupportAmount"`
}

type CheckoutResponse struct {
	OrderID      string `json:"orderId"`
	ClientSecret string `json:"clientSecret,omitempty"`
	Offline      bool   `json:"offline,omitempty"`
}

type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

type Product struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Price int64  `json:"price"`
}

type OrderItem struct {
	ProductID   string `json:"productId"`
	ProductName string `json:"productName"`
	UnitPrice   int64  `json:"unitPrice"`
	Quantity    int64  `json:"quantity"`
	LineTotal   int64  `json:"lineTotal"`
}

type Order struct {
	ID                 string       `json:"id"`
	Customer           Customer     `json:"customer"`
	FulfillmentMethod  string       `json:"fulfillmentMethod"`
	ShippingAddress    *Address     `json:"shippingAddress"`
	ShippingCost       int64        `json:"shippingCost"`
	Subtotal           int64        `json:"subtotal"`
	ExtraSupportAmount int64        `json:"extraSupportAmount"`
	Total              int64        `json:"total"`
	ProceedsCause      string       `json:"proceedsCause,omitempty"`
	SeedCount          int64        `json:"seedCount"`
	PaymentStatus      string       `json:"paymentStatus"`
	PaymentIntentID    *string      `json:"paymentIntentId"`
	FulfillmentStatus  string       `json:"fulfillmentStatus"`
	Items              []*OrderItem `json:"items"`
	CreatedAt          time.Time    `json:"createdAt"`
	UpdatedAt          time.Time    `json:"updatedAt"`
}

type UpdateFulfillmentRequest struct {
	Status string `json:"status"`
}
