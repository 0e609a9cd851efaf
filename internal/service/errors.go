package service

import "errors"

// Client input errors. Returned before anything is persisted.
var (
	ErrEmptyBasket              = errors.New("basket is empty")
	ErrInvalidBasketItem        = errors.New("basket contains an invalid item")
	ErrMissingCustomerFields    = errors.New("customer name, email and phone are required")
	ErrInvalidFulfillmentMethod = errors.New("fulfillment method must be PICKUP or SHIPPING")
	ErrMissingShippingFields    = errors.New("shipping address is incomplete")
	ErrInvalidExtraSupport      = errors.New("extra support amount is out of range")
	ErrOrderTooLarge            = errors.New("order total exceeds the maximum allowed")
)

var (
	ErrItemsUnavailable       = errors.New("some items are no longer available")
	ErrStoreOffline           = errors.New("store is temporarily offline")
	ErrTemporarilyUnavailable = errors.New("temporarily unavailable")
	ErrPaymentInitFailed      = errors.New("payment initialization failed")
)

var (
	ErrInvalidSignature     = errors.New("invalid webhook signature")
	ErrWebhookSecretMissing = errors.New("webhook secret is not configured")
)

var (
	ErrOrderNotFound            = errors.New("order not found")
	ErrInvalidFulfillmentStatus = errors.New("fulfillment status must be PENDING or FULFILLED")
)
