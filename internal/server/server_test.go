package server

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"storefront-checkout/internal/client"
	"storefront-checkout/internal/config"
	"storefront-checkout/internal/dto"
	"storefront-checkout/internal/middleware"
	"storefront-checkout/internal/repository"
	"storefront-checkout/internal/service"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stripe/stripe-go/v76/webhook"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const (
	webhookSecret = "whsec_test"
	adminSecret   = "admin-secret"
	adminEmail    = "owner@example.com"
)

type fakeGateway struct {
	mu      sync.Mutex
	created int
}

func (g *fakeGateway) CreatePaymentIntent(_ context.Context, req *client.PaymentIntentRequest) (*client.PaymentIntent, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.created++
	id := fmt.Sprintf("pi_%d", g.created)
	return &client.PaymentIntent{ID: id, ClientSecret: id + "_secret_" + req.OrderID[:8]}, nil
}

func (g *fakeGateway) CancelPaymentIntent(context.Context, string) error { return nil }

type fakeMailer struct {
	mu   sync.Mutex
	sent []string
}

func (m *fakeMailer) Send(_ context.Context, to, _ string, _ string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sent = append(m.sent, to)
	return nil
}

func (m *fakeMailer) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sent)
}

type testServer struct {
	srv      *Server
	mailer   *fakeMailer
	notifier service.NotificationService
}

func setup(t *testing.T, rateLimit float64) *testServer {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file:"+uuid.NewString()+"?mode=memory&cache=shared"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, client.Migrate(db))
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	cfg := &config.Config{
		Stripe:    config.Stripe{WebhookSecret: webhookSecret},
		Admin:     config.Admin{JWTSecret: adminSecret, Emails: []string{adminEmail}},
		RateLimit: config.RateLimit{PerSecond: rateLimit},
	}
	log, _ := test.NewNullLogger()

	productRepo := repository.NewProductRepository(db)
	require.NoError(t, productRepo.Seed(context.Background()))
	orderRepo := repository.NewOrderRepository(db)
	webhookEventRepo := repository.NewWebhookEventRepository(db)

	mailer := &fakeMailer{}
	notifier := service.NewNotificationService(mailer, log)

	srv := NewServer(cfg, log, Services{
		Checkout: service.NewCheckoutService(productRepo, orderRepo, &fakeGateway{}, notifier, log, service.CheckoutOptions{}),
		Catalog:  service.NewCatalogService(productRepo),
		Webhook:  service.NewWebhookService(client.NewWebhookVerifier(cfg, log), orderRepo, webhookEventRepo, notifier, log),
		Orders:   service.NewOrderService(orderRepo, log),
	})

	return &testServer{srv: srv, mailer: mailer, notifier: notifier}
}

func (s *testServer) do(t *testing.T, method, target, body string, headers map[string]string) *httptest.ResponseRecorder {
	t.Helper()

	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	rec := httptest.NewRecorder()
	s.srv.ServeHTTP(rec, req)
	return rec
}

func adminHeaders(t *testing.T) map[string]string {
	t.Helper()

	token, err := middleware.SignAdminToken(adminSecret, adminEmail, jwt.RegisteredClaims{
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	})
	require.NoError(t, err)
	return map[string]string{"Authorization": "Bearer " + token}
}

func signedEvent(eventID, eventType, intentID, orderID string) (string, string) {
	payload := fmt.Sprintf(`{
		"id": %q,
		"object": "event",
		"type": %q,
		"data": {"object": {"id": %q, "object": "payment_intent", "metadata": {"order_id": %q}}}
	}`, eventID, eventType, intentID, orderID)

	signed := webhook.GenerateTestSignedPayload(&webhook.UnsignedPayload{
		Payload:   []byte(payload),
		Secret:    webhookSecret,
		Timestamp: time.Now(),
	})
	return payload, signed.Header
}

const basket = `{
	"items": [{"productId": "sourdough-loaf", "quantity": 2}],
	"customer": {"name": "Ada", "email": "ada@example.com", "phone": "555-0100"},
	"fulfillmentMethod": "PICKUP",
	"extraSupportAmount": 0
}`

func TestHealth(t *testing.T) {
	s := setup(t, 100)

	rec := s.do(t, http.MethodGet, "/api/health", "", nil)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}

func TestProducts(t *testing.T) {
	s := setup(t, 100)

	rec := s.do(t, http.MethodGet, "/api/products", "", nil)

	require.Equal(t, http.StatusOK, rec.Code)
	var products []*dto.Product
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &products))
	assert.Len(t, products, 4)
}

func TestCheckoutToPaidOrder(t *testing.T) {
	s := setup(t, 100)

	rec := s.do(t, http.MethodPost, "/api/checkout", basket, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var checkout dto.CheckoutResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &checkout))
	require.NotEmpty(t, checkout.ClientSecret)

	rec = s.do(t, http.MethodGet, "/api/admin/orders/"+checkout.OrderID, "", adminHeaders(t))
	require.Equal(t, http.StatusOK, rec.Code)
	var order dto.Order
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &order))
	assert.Equal(t, "PENDING", order.PaymentStatus)
	assert.Equal(t, int64(1798), order.Total)
	assert.Equal(t, int64(2), order.SeedCount)
	require.NotNil(t, order.PaymentIntentID)

	payload, sig := signedEvent("evt_1", "payment_intent.succeeded", *order.PaymentIntentID, checkout.OrderID)
	for range 2 {
		rec = s.do(t, http.MethodPost, "/api/webhooks/stripe", payload, map[string]string{"Stripe-Signature": sig})
		require.Equal(t, http.StatusOK, rec.Code)
		assert.JSONEq(t, `{"received":true}`, rec.Body.String())
	}

	s.notifier.Wait()
	assert.Equal(t, 1, s.mailer.count())

	rec = s.do(t, http.MethodGet, "/api/admin/orders?paymentStatus=PAID", "", adminHeaders(t))
	require.Equal(t, http.StatusOK, rec.Code)
	var paid []*dto.Order
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &paid))
	require.Len(t, paid, 1)
	assert.Equal(t, checkout.OrderID, paid[0].ID)

	rec = s.do(t, http.MethodPatch, "/api/admin/orders/"+checkout.OrderID+"/fulfillment", `{"status":"FULFILLED"}`, adminHeaders(t))
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &order))
	assert.Equal(t, "FULFILLED", order.FulfillmentStatus)
	assert.Equal(t, "PAID", order.PaymentStatus)
}

func TestCheckoutUnavailableItem(t *testing.T) {
	s := setup(t, 100)

	body := strings.Replace(basket, "sourdough-loaf", "discontinued-pie", 1)
	rec := s.do(t, http.MethodPost, "/api/checkout", body, nil)

	require.Equal(t, http.StatusConflict, rec.Code)
	assert.Contains(t, rec.Body.String(), `"code":"items_unavailable"`)

	rec = s.do(t, http.MethodGet, "/api/admin/orders", "", adminHeaders(t))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `[]`, rec.Body.String())
}

func TestWebhookBadSignature(t *testing.T) {
	s := setup(t, 100)

	payload, _ := signedEvent("evt_1", "payment_intent.succeeded", "pi_1", "ord-1")
	rec := s.do(t, http.MethodPost, "/api/webhooks/stripe", payload, map[string]string{
		"Stripe-Signature": fmt.Sprintf("t=%d,v1=deadbeef", time.Now().Unix()),
	})

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), `"code":"invalid_signature"`)
}

func TestAdminRoutesRequireToken(t *testing.T) {
	s := setup(t, 100)

	for _, target := range []string{"/api/admin/orders", "/api/admin/orders/anything"} {
		rec := s.do(t, http.MethodGet, target, "", nil)
		assert.Equal(t, http.StatusUnauthorized, rec.Code, target)
	}

	rec := s.do(t, http.MethodPatch, "/api/admin/orders/anything/fulfillment", `{"status":"FULFILLED"}`, nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestCheckoutRateLimited(t *testing.T) {
	s := setup(t, 1)

	var codes []int
	for range 3 {
		codes = append(codes, s.do(t, http.MethodPost, "/api/checkout", basket, nil).Code)
	}

	assert.Equal(t, []int{http.StatusOK, http.StatusOK, http.StatusTooManyRequests}, codes)
}
