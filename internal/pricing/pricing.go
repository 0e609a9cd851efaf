// Package pricing computes order totals and the seed count from basket
// contents. All amounts are integer cents.
package pricing

import (
	"errors"
	"storefront-checkout/internal/model"
)

const (
	// FlatShippingRate is charged once per SHIPPING order regardless of size.
	FlatShippingRate int64 = 1000
	// SeedUnitCents is the spend that earns one seed on top of the base seed.
	SeedUnitCents int64 = 1000
	// MaxAmountCents caps every line total, subtotal and order total. It matches
	// the largest single charge the gateway accepts.
	MaxAmountCents int64 = 99_999_999
)

var ErrAmountTooLarge = errors.New("amount exceeds the maximum order value")

type Line struct {
	UnitPrice int64
	Quantity  int64
}

type Totals struct {
	Subtotal     int64
	ShippingCost int64
	ExtraSupport int64
	Total        int64
	SeedCount    int64
}

// LineTotal returns unitPrice * quantity, or ErrAmountTooLarge when the
// product would exceed MaxAmountCents. Negative inputs are rejected the same way.
func LineTotal(unitPrice, quantity int64) (int64, error) {
	if unitPrice < 0 || quantity < 0 {
		return 0, ErrAmountTooLarge
	}
	if quantity != 0 && unitPrice > MaxAmountCents/quantity {
		return 0, ErrAmountTooLarge
	}
	return unitPrice * quantity, nil
}

// add sums two bounded amounts; both operands are <= MaxAmountCents so the
// sum cannot wrap before the bound check.
func add(a, b int64) (int64, error) {
	if a < 0 || b < 0 || a > MaxAmountCents || b > MaxAmountCents || a+b > MaxAmountCents {
		return 0, ErrAmountTooLarge
	}
	return a + b, nil
}

// Compute expects extraSupport >= 0; callers reject anything else. Any
// intermediate amount above MaxAmountCents yields ErrAmountTooLarge.
func Compute(lines []Line, method model.FulfillmentMethod, extraSupport int64) (Totals, error) {
	var subtotal int64
	for _, l := range lines {
		lineTotal, err := LineTotal(l.UnitPrice, l.Quantity)
		if err != nil {
			return Totals{}, err
		}
		if subtotal, err = add(subtotal, lineTotal); err != nil {
			return Totals{}, err
		}
	}

	var shipping int64
	if method == model.FulfillmentShipping {
		shipping = FlatShippingRate
	}

	total, err := add(subtotal, extraSupport)
	if err != nil {
		return Totals{}, err
	}
	if total, err = add(total, shipping); err != nil {
		return Totals{}, err
	}

	return Totals{
		Subtotal:     subtotal,
		ShippingCost: shipping,
		ExtraSupport: extraSupport,
		Total:        total,
		SeedCount:    SeedCount(subtotal, extraSupport),
	}, nil
}

// SeedCount is one base seed plus one per whole SeedUnitCents of product
// spend and extra support. Shipping never counts.
func SeedCount(subtotal, extraSupport int64) int64 {
	return 1 + (subtotal+extraSupport)/SeedUnitCents
}
