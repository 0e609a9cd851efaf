package handler

import (
	"errors"
	"net/http"
	"storefront-checkout/internal/dto"
	"storefront-checkout/internal/service"

	"github.com/labstack/echo/v4"
)

type errorMapping struct {
	err    error
	status int
	code   string
}

// first match wins
var errorMappings = []errorMapping{
	{service.ErrEmptyBasket, http.StatusBadRequest, "empty_basket"},
	{service.ErrInvalidBasketItem, http.StatusBadRequest, "invalid_basket_item"},
	{service.ErrMissingCustomerFields, http.StatusBadRequest, "missing_customer_fields"},
	{service.ErrInvalidFulfillmentMethod, http.StatusBadRequest, "invalid_fulfillment_method"},
	{service.ErrMissingShippingFields, http.StatusBadRequest, "missing_shipping_fields"},
	{service.ErrInvalidExtraSupport, http.StatusBadRequest, "invalid_extra_support"},
	{service.ErrOrderTooLarge, http.StatusBadRequest, "order_too_large"},
	{service.ErrItemsUnavailable, http.StatusConflict, "items_unavailable"},
	{service.ErrStoreOffline, http.StatusServiceUnavailable, "store_offline"},
	{service.ErrPaymentInitFailed, http.StatusBadGateway, "payment_init_failed"},
	{service.ErrTemporarilyUnavailable, http.StatusServiceUnavailable, "temporarily_unavailable"},
	{service.ErrInvalidSignature, http.StatusBadRequest, "invalid_signature"},
	{service.ErrWebhookSecretMissing, http.StatusInternalServerError, "webhook_not_configured"},
	{service.ErrOrderNotFound, http.StatusNotFound, "order_not_found"},
	{service.ErrInvalidFulfillmentStatus, http.StatusBadRequest, "invalid_fulfillment_status"},
}

// httpError turns a service error into an echo error carrying {error, code}.
// Only the sentinel's own message reaches the client; wrapped causes stay in the logs.
func httpError(err error) error {
	for _, m := range errorMappings {
		if errors.Is(err, m.err) {
			msg := m.err.Error()
			if m.err == service.ErrItemsUnavailable {
				// the wrapped text lists the product ids, which the storefront needs
				msg = err.Error()
			}
			return echo.NewHTTPError(m.status, &dto.ErrorResponse{Error: msg, Code: m.code})
		}
	}

	return echo.NewHTTPError(http.StatusInternalServerError, &dto.ErrorResponse{
		Error: "internal error",
		Code:  "internal_error",
	}).SetInternal(err)
}

func badRequest(msg string) error {
	return echo.NewHTTPError(http.StatusBadRequest, &dto.ErrorResponse{Error: msg, Code: "invalid_request"})
}
