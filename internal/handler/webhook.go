package handler

import (
	"io"
	"net/http"
	"storefront-checkout/internal/service"

	"github.com/labstack/echo/v4"
)

const signatureHeader = "Stripe-Signature"

type WebhookHandler struct {
	webhookService service.WebhookService
}

func NewWebhookHandler(webhookService service.WebhookService) *WebhookHandler {
	return &WebhookHandler{
		webhookService: webhookService,
	}
}

// StripeWebhook needs the untouched body: the signature covers the exact bytes.
func (h *WebhookHandler) StripeWebhook(c echo.Context) error {
	ctx := c.Request().Context()

	body, err := io.ReadAll(c.Request().Body)
	if err != nil {
		return badRequest("unreadable body")
	}

	err = h.webhookService.HandleWebhook(ctx, body, c.Request().Header.Get(signatureHeader))
	if err != nil {
		return httpError(err)
	}

	return c.JSON(http.StatusOK, map[string]bool{
		"received": true,
	})
}
