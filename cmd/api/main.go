package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"storefront-checkout/internal/client"
	"storefront-checkout/internal/config"
	"storefront-checkout/internal/logger"
	"storefront-checkout/internal/repository"
	"storefront-checkout/internal/server"
	"storefront-checkout/internal/service"
	"syscall"
	"time"

	"github.com/caarlos0/env/v10"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"
	"gorm.io/gorm"
)

const shutdownTimeout = 30 * time.Second

func main() {
	app := &cli.App{
		Name:   "storefront",
		Usage:  "checkout and payment reconciliation for the storefront",
		Action: serve,
		Commands: []*cli.Command{
			{
				Name:   "serve",
				Usage:  "run the HTTP API (default)",
				Action: serve,
			},
			{
				Name:   "migrate",
				Usage:  "create or update database tables",
				Action: migrate,
			},
			{
				Name:   "seed",
				Usage:  "insert the starter product catalog",
				Action: seed,
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// bootstrap loads config, logger and database shared by every command.
func bootstrap() (*config.Config, *logrus.Logger, *gorm.DB, error) {
	// load .env into os.Environ
	if err := godotenv.Load(); err != nil {
		fmt.Println("No .env file found (ok in prod)")
	}

	cfg := &config.Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, nil, nil, fmt.Errorf("parse config: %w", err)
	}

	log := logger.New(cfg.Log)

	db, err := client.InitDBClient(cfg.Database)
	if err != nil {
		return nil, nil, nil, err
	}

	return cfg, log, db, nil
}

func migrate(_ *cli.Context) error {
	_, log, db, err := bootstrap()
	if err != nil {
		return err
	}

	if err := client.Migrate(db); err != nil {
		return err
	}
	log.Info("database migrated")
	return nil
}

func seed(c *cli.Context) error {
	_, log, db, err := bootstrap()
	if err != nil {
		return err
	}

	if err := repository.NewProductRepository(db).Seed(c.Context); err != nil {
		return fmt.Errorf("seed products: %w", err)
	}
	log.Info("product catalog seeded")
	return nil
}

func serve(_ *cli.Context) error {
	cfg, log, db, err := bootstrap()
	if err != nil {
		return err
	}

	if err := client.Migrate(db); err != nil {
		return err
	}

	gateway := client.NewStripeClient(&cfg.Stripe)
	if gateway == nil {
		if cfg.OfflineCheckoutEnabled() {
			log.Warn("STRIPE_SECRET_KEY is not set; checkout runs in offline mode")
		} else {
			log.Error("STRIPE_SECRET_KEY is not set; checkout is offline")
		}
	}

	mailer, err := client.NewMailer(&cfg.Mail, log)
	if err != nil {
		return err
	}

	productRepo := repository.NewProductRepository(db)
	orderRepo := repository.NewOrderRepository(db)
	webhookEventRepo := repository.NewWebhookEventRepository(db)

	notifier := service.NewNotificationService(mailer, log)

	srv := server.NewServer(cfg, log, server.Services{
		Checkout: service.NewCheckoutService(productRepo, orderRepo, gateway, notifier, log, service.CheckoutOptions{
			OfflineFallback: cfg.OfflineCheckoutEnabled(),
		}),
		Catalog: service.NewCatalogService(productRepo),
		Webhook: service.NewWebhookService(
			client.NewWebhookVerifier(cfg, log),
			orderRepo,
			webhookEventRepo,
			notifier,
			log,
		),
		Orders: service.NewOrderService(orderRepo, log),
	})

	serverAddr := cfg.HTTP.Host + ":" + cfg.HTTP.Port

	errCh := make(chan error, 1)
	log.WithField("addr", serverAddr).Info("starting HTTP server")
	go func() {
		if err := srv.Start(serverAddr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGTERM, syscall.SIGINT)

	select {
	case err := <-errCh:
		return fmt.Errorf("http server: %w", err)
	case <-sigChan:
		log.Info("signal received, starting graceful shutdown")
	}

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	shutdownErr := srv.Shutdown(ctx)
	// confirmations already handed off still get their chance to go out
	notifier.Wait()
	if shutdownErr != nil {
		return fmt.Errorf("http server shutdown: %w", shutdownErr)
	}

	sqlDB, err := db.DB()
	if err == nil {
		_ = sqlDB.Close()
	}
	log.Info("shutdown complete")
	return nil
}
