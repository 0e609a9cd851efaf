package server

import (
	"context"
	"net/http"
	"storefront-checkout/internal/config"
	"storefront-checkout/internal/dto"
	"storefront-checkout/internal/handler"
	appmiddleware "storefront-checkout/internal/middleware"
	"storefront-checkout/internal/service"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"
)

const webhookBodyLimit = "64K"

type Services struct {
	Checkout service.CheckoutService
	Catalog  service.CatalogService
	Webhook  service.WebhookService
	Orders   service.OrderService
}

type Server struct {
	echo            *echo.Echo
	cfg             *config.Config
	log             *logrus.Logger
	checkoutHandler *handler.CheckoutHandler
	webhookHandler  *handler.WebhookHandler
	adminHandler    *handler.AdminHandler
}

func NewServer(cfg *config.Config, log *logrus.Logger, services Services) *Server {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.Use(requestLogger(log))
	e.Use(middleware.Recover())
	e.Use(middleware.CORS())

	s := &Server{
		echo:            e,
		cfg:             cfg,
		log:             log,
		checkoutHandler: handler.NewCheckoutHandler(services.Checkout, services.Catalog),
		webhookHandler:  handler.NewWebhookHandler(services.Webhook),
		adminHandler:    handler.NewAdminHandler(services.Orders),
	}

	s.setupRoutes()
	return s
}

func (s *Server) setupRoutes() {
	api := s.echo.Group("/api")

	api.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
	})

	api.GET("/products", s.checkoutHandler.ListProducts)
	api.POST("/checkout", s.checkoutHandler.Checkout, checkoutRateLimiter(s.cfg.RateLimit))

	// -------- gateway callbacks --------
	webhooks := api.Group("/webhooks")
	webhooks.POST("/stripe", s.webhookHandler.StripeWebhook, middleware.BodyLimit(webhookBodyLimit))

	// -------- admin --------
	admin := api.Group("/admin", appmiddleware.AdminAuth(s.cfg.Admin.JWTSecret, s.cfg.Admin.Emails))
	admin.GET("/orders", s.adminHandler.ListOrders)
	admin.GET("/orders/:id", s.adminHandler.GetOrder)
	admin.PATCH("/orders/:id/fulfillment", s.adminHandler.UpdateFulfillment)
}

func checkoutRateLimiter(cfg config.RateLimit) echo.MiddlewareFunc {
	return middleware.RateLimiterWithConfig(middleware.RateLimiterConfig{
		Store: middleware.NewRateLimiterMemoryStoreWithConfig(middleware.RateLimiterMemoryStoreConfig{
			Rate:      rate.Limit(cfg.PerSecond),
			Burst:     max(1, int(cfg.PerSecond)*2),
			ExpiresIn: 3 * time.Minute,
		}),
		DenyHandler: func(c echo.Context, _ string, _ error) error {
			return c.JSON(http.StatusTooManyRequests, &dto.ErrorResponse{
				Error: "too many checkout attempts, try again shortly",
				Code:  "rate_limited",
			})
		},
	})
}

func requestLogger(log *logrus.Logger) echo.MiddlewareFunc {
	return middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogMethod:   true,
		LogURI:      true,
		LogStatus:   true,
		LogLatency:  true,
		LogRemoteIP: true,
		LogError:    true,
		HandleError: true,
		LogValuesFunc: func(_ echo.Context, v middleware.RequestLoggerValues) error {
			entry := log.WithFields(logrus.Fields{
				"method":    v.Method,
				"uri":       v.URI,
				"status":    v.Status,
				"latency":   v.Latency.String(),
				"remote_ip": v.RemoteIP,
			})
			switch {
			case v.Status >= http.StatusInternalServerError:
				entry.WithError(v.Error).Error("request")
			case v.Error != nil:
				entry.WithError(v.Error).Warn("request")
			default:
				entry.Info("request")
			}
			return nil
		},
	})
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.echo.ServeHTTP(w, r)
}

func (s *Server) Start(address string) error {
	return s.echo.Start(address)
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.echo.Shutdown(ctx)
}
