package service

import (
	"bytes"
	"context"
	"storefront-checkout/internal/client"
	"storefront-checkout/internal/model"
	"sync"
	"text/template"
	"time"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

const notificationTimeout = 10 * time.Second

// NotificationService is fire-and-forget: failures are logged, never returned.
//
// SendOrderConfirmation renders the message and hands delivery to a background
// goroutine, so callers never wait on the mail server. Wait blocks until every
// delivery started so far has finished and is meant for shutdown.
type NotificationService interface {
	SendOrderConfirmation(ctx context.Context, order *model.Order)
	Wait()
}

type notificationServiceImpl struct {
	mailer client.Mailer
	log    *logrus.Logger
	wg     sync.WaitGroup
}

func NewNotificationService(mailer client.Mailer, log *logrus.Logger) NotificationService {
	return &notificationServiceImpl{
		mailer: mailer,
		log:    log,
	}
}

var confirmationTmpl = template.Must(template.New("confirmation").Funcs(template.FuncMap{
	"money": formatCents,
}).Parse(`Hi {{.CustomerName}},

Thank you for your order {{.ID}}!

{{range .Items}}  {{.Quantity}} x {{.ProductName}} @ ${{money .UnitPrice}} = ${{money .LineTotal}}
{{end}}
Subtotal:      ${{money .Subtotal}}
Shipping:      ${{money .ShippingCost}}
Extra support: ${{money .ExtraSupportAmount}}
Total:         ${{money .Total}}

{{if eq .FulfillmentMethod "SHIPPING"}}Shipping to: {{.ShippingAddress.Line1}}, {{.ShippingAddress.City}}, {{.ShippingAddress.State}} {{.ShippingAddress.PostalCode}}
{{else}}We will let you know when your order is ready for pickup.
{{end}}
This order planted {{.SeedCount}} seed(s){{if .ProceedsCause}} for {{.ProceedsCause}}{{end}}.
`))

func formatCents(cents int64) string {
	return decimal.New(cents, -2).StringFixed(2)
}

func renderConfirmation(order *model.Order) (string, error) {
	var buf bytes.Buffer
	if err := confirmationTmpl.Execute(&buf, order); err != nil {
		return "", err
	}
	return buf.String(), nil
}

func (s *notificationServiceImpl) SendOrderConfirmation(ctx context.Context, order *model.Order) {
	entry := s.log.WithFields(logrus.Fields{
		"order_id": order.ID,
		"to":       order.CustomerEmail,
	})

	body, err := renderConfirmation(order)
	if err != nil {
		entry.WithError(err).Error("render order confirmation")
		return
	}

	to := order.CustomerEmail
	subject := "Your order " + order.ID + " is confirmed"
	// detached: the triggering request returns before delivery finishes
	sendCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), notificationTimeout)

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		defer cancel()

		if err := s.mailer.Send(sendCtx, to, subject, body); err != nil {
			entry.WithError(err).Error("send order confirmation")
			return
		}
		entry.Info("order confirmation sent")
	}()
}

func (s *notificationServiceImpl) Wait() {
	s.wg.Wait()
}
