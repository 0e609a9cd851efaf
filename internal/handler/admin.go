package handler

import (
	"net/http"
	"storefront-checkout/internal/dto"
	"storefront-checkout/internal/model"
	"storefront-checkout/internal/repository"
	"storefront-checkout/internal/service"
	"strconv"

	"github.com/labstack/echo/v4"
)

type AdminHandler struct {
	orderService service.OrderService
}

func NewAdminHandler(orderService service.OrderService) *AdminHandler {
	return &AdminHandler{
		orderService: orderService,
	}
}

func (h *AdminHandler) ListOrders(c echo.Context) error {
	ctx := c.Request().Context()

	filter := repository.OrderFilter{
		PaymentStatus:     model.PaymentStatus(c.QueryParam("paymentStatus")),
		FulfillmentStatus: model.FulfillmentStatus(c.QueryParam("fulfillmentStatus")),
	}
	if filter.PaymentStatus != "" && !filter.PaymentStatus.Valid() {
		return badRequest("unknown paymentStatus")
	}
	if filter.FulfillmentStatus != "" && !filter.FulfillmentStatus.Valid() {
		return badRequest("unknown fulfillmentStatus")
	}
	if v := c.QueryParam("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			return badRequest("limit must be a positive integer")
		}
		filter.Limit = n
	}

	orders, err := h.orderService.ListOrders(ctx, filter)
	if err != nil {
		return httpError(err)
	}

	out := make([]*dto.Order, 0, len(orders))
	for _, o := range orders {
		out = append(out, toOrderDTO(o))
	}

	return c.JSON(http.StatusOK, out)
}

func (h *AdminHandler) GetOrder(c echo.Context) error {
	ctx := c.Request().Context()

	order, err := h.orderService.GetOrder(ctx, c.Param("id"))
	if err != nil {
		return httpError(err)
	}

	return c.JSON(http.StatusOK, toOrderDTO(order))
}

func (h *AdminHandler) UpdateFulfillment(c echo.Context) error {
	ctx := c.Request().Context()

	var req dto.UpdateFulfillmentRequest
	if err := c.Bind(&req); err != nil {
		return badRequest("invalid request body")
	}

	order, err := h.orderService.SetFulfillmentStatus(ctx, c.Param("id"), model.FulfillmentStatus(req.Status))
	if err != nil {
		return httpError(err)
	}

	return c.JSON(http.StatusOK, toOrderDTO(order))
}
