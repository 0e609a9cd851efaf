package handler

import (
	"net/http"
	"storefront-checkout/internal/dto"
	"storefront-checkout/internal/service"

	"github.com/labstack/echo/v4"
)

type CheckoutHandler struct {
	checkoutService service.CheckoutService
	catalogService  service.CatalogService
}

func NewCheckoutHandler(checkoutService service.CheckoutService, catalogService service.CatalogService) *CheckoutHandler {
	return &CheckoutHandler{
		checkoutService: checkoutService,
		catalogService:  catalogService,
	}
}

func (h *CheckoutHandler) Checkout(c echo.Context) error {
	ctx := c.Request().Context()

	var req dto.CheckoutRequest
	if err := c.Bind(&req); err != nil {
		return badRequest("invalid request body")
	}

	resp, err := h.checkoutService.Checkout(ctx, &req)
	if err != nil {
		return httpError(err)
	}

	return c.JSON(http.StatusOK, resp)
}

func (h *CheckoutHandler) ListProducts(c echo.Context) error {
	ctx := c.Request().Context()

	products, err := h.catalogService.ListProducts(ctx)
	if err != nil {
		return httpError(err)
	}

	out := make([]*dto.Product, 0, len(products))
	for _, p := range products {
		out = append(out, toProductDTO(p))
	}

	return c.JSON(http.StatusOK, out)
}
