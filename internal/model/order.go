package model

import (
	"errors"
	"strings"
)

type FulfillmentMethod string

const (
	FulfillmentPickup   FulfillmentMethod = "PICKUP"
	FulfillmentShipping FulfillmentMethod = "SHIPPING"
)

func (m FulfillmentMethod) Valid() bool {
	return m == FulfillmentPickup || m == FulfillmentShipping
}

type PaymentStatus string

const (
	PaymentPending PaymentStatus = "PENDING"
	PaymentPaid    PaymentStatus = "PAID"
	PaymentFailed  PaymentStatus = "FAILED"
)

func (s PaymentStatus) Valid() bool {
	return s == PaymentPending || s == PaymentPaid || s == PaymentFailed
}

type FulfillmentStatus string

const (
	FulfillmentPending   FulfillmentStatus = "PENDING"
	FulfillmentFulfilled FulfillmentStatus = "FULFILLED"
)

func (s FulfillmentStatus) Valid() bool {
	return s == FulfillmentPending || s == FulfillmentFulfilled
}

var (
	ErrAddressMismatch  = errors.New("shipping address must be set iff fulfillment method is SHIPPING")
	ErrTotalMismatch    = errors.New("total does not equal subtotal + shipping + extra support")
	ErrBadLineTotal     = errors.New("order item line total does not equal unit price * quantity")
	ErrAmountOutOfRange = errors.New("order amounts must be non-negative and seed count at least 1")
)

// Complete reports whether every address field is filled in.
func (a Address) Complete() bool {
	return strings.TrimSpace(a.Line1) != "" &&
		strings.TrimSpace(a.City) != "" &&
		strings.TrimSpace(a.State) != "" &&
		strings.TrimSpace(a.PostalCode) != ""
}

func (a Address) IsZero() bool {
	return a == Address{}
}

// CheckInvariants validates the creation-time rules of an order and its items.
func (o *Order) CheckInvariants() error {
	switch o.FulfillmentMethod {
	case FulfillmentShipping:
		if !o.ShippingAddress.Complete() {
			return ErrAddressMismatch
		}
	case FulfillmentPickup:
		if !o.ShippingAddress.IsZero() {
			return ErrAddressMismatch
		}
	default:
		return ErrAddressMismatch
	}

	if o.Subtotal < 0 || o.ShippingCost < 0 || o.ExtraSupportAmount < 0 || o.Total < 0 || o.SeedCount < 1 {
		return ErrAmountOutOfRange
	}

	if o.Total != o.Subtotal+o.ShippingCost+o.ExtraSupportAmount {
		return ErrTotalMismatch
	}

	for _, item := range o.Items {
		if item.Quantity < 1 || item.UnitPrice < 0 || item.LineTotal < 0 ||
			item.LineTotal != item.UnitPrice*item.Quantity ||
			(item.UnitPrice != 0 && item.LineTotal/item.UnitPrice != item.Quantity) {
			return ErrBadLineTotal
		}
	}

	return nil
}
