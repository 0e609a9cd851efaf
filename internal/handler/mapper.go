package handler

import (
	"storefront-checkout/internal/dto"
	"storefront-checkout/internal/model"
)

func toProductDTO(p *model.Product) *dto.Product {
	return &dto.Product{
		ID:    p.ID,
		Name:  p.Name,
		Price: p.Price,
	}
}

func toOrderDTO(o *model.Order) *dto.Order {
	out := &dto.Order{
		ID: o.ID,
		Customer: dto.Customer{
			Name:  o.CustomerName,
			Email: o.CustomerEmail,
			Phone: o.CustomerPhone,
		},
		FulfillmentMethod:  string(o.FulfillmentMethod),
		ShippingCost:       o.ShippingCost,
		Subtotal:           o.Subtotal,
		ExtraSupportAmount: o.ExtraSupportAmount,
		Total:              o.Total,
		ProceedsCause:      o.ProceedsCause,
		SeedCount:          o.SeedCount,
		PaymentStatus:      string(o.PaymentStatus),
		PaymentIntentID:    o.PaymentIntentID,
		FulfillmentStatus:  string(o.FulfillmentStatus),
		Items:              make([]*dto.OrderItem, 0, len(o.Items)),
		CreatedAt:          o.CreatedAt,
		UpdatedAt:          o.UpdatedAt,
	}

	if o.FulfillmentMethod == model.FulfillmentShipping {
		out.ShippingAddress = &dto.Address{
			Line1:      o.ShippingAddress.Line1,
			City:       o.ShippingAddress.City,
			State:      o.ShippingAddress.State,
			PostalCode: o.ShippingAddress.PostalCode,
		}
	}

	for _, item := range o.Items {
		out.Items = append(out.Items, &dto.OrderItem{
			ProductID:   item.ProductID,
			ProductName: item.ProductName,
			UnitPrice:   item.UnitPrice,
			Quantity:    item.Quantity,
			LineTotal:   item.LineTotal,
		})
	}

	return out
}
