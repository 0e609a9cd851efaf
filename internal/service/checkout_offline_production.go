//go:build production

package service

import (
	"context"
	"storefront-checkout/internal/dto"
	"storefront-checkout/internal/model"
)

const offlineCheckoutAvailable = false

func (s *checkoutServiceImpl) checkoutOffline(context.Context, *model.Order) (*dto.CheckoutResponse, error) {
	return nil, ErrStoreOffline
}
