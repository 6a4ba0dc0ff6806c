package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"partshop/internal/auth"
	"partshop/internal/config"
	httpapi "partshop/internal/http"
	"partshop/internal/logging"
	"partshop/internal/payments"
	"partshop/internal/repository"
	"partshop/internal/service"

	_ "partshop/docs"
)

// @title Partshop API
// @version 1.0
// @description Auto parts marketplace: catalog, orders, dashboards and payments.
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "partshop: %v\n", err)
		os.Exit(1)
	}
}

type repositories struct {
	products repository.ProductRepository
	orders   repository.OrderRepository
	users    repository.UserRepository
	brands   repository.BrandRepository
	tx       repository.TxManager
	close    func() error
}

func openRepositories(cfg config.DatabaseConfig, logger *zap.Logger) (*repositories, error) {
	switch cfg.Driver {
	case config.DriverMemory:
		store := repository.NewMemoryStore()
		return &repositories{
			products: store,
			orders:   repository.NewMemoryOrders(store),
			users:    repository.NewMemoryUsers(store),
			brands:   repository.NewMemoryBrands(store),
			tx:       repository.NewMemoryTx(store),
			close:    func() error { return nil },
		}, nil
	case config.DriverPostgres:
		store, err := repository.OpenPostgres(cfg.DSN, logging.NewPrintfAdapter(logger.Named("gorm")), cfg.SlowQuery)
		if err != nil {
			return nil, err
		}
		return &repositories{
			products: store.Products(),
			orders:   store.Orders(),
			users:    store.Users(),
			brands:   store.Brands(),
			tx:       store.Tx(),
			close:    store.Close,
		}, nil
	default:
		return nil, fmt.Errorf("unknown database driver %q", cfg.Driver)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	logger, err := logging.New(cfg.Log.Level, cfg.Log.Encoding)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer func() { _ = logger.Sync() }()

	repos, err := openRepositories(cfg.Database, logger)
	if err != nil {
		return err
	}
	defer func() {
		if err := repos.close(); err != nil {
			logger.Warn("close storage", zap.Error(err))
		}
	}()

	tokens, err := auth.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL)
	if err != nil {
		return err
	}

	var provider service.PaymentProvider
	if cfg.Stripe.SecretKey != "" {
		stripeProvider, err := payments.NewStripeProvider(payments.StripeProviderConfig{
			APIKey:  cfg.Stripe.SecretKey,
			Timeout: cfg.Stripe.Timeout,
			Logger:  logger,
		})
		if err != nil {
			return err
		}
		provider = stripeProvider
	} else {
		logger.Warn("STRIPE_SECRET_KEY not set, payment intents disabled")
	}

	gin.SetMode(cfg.Server.GinMode)
	srv := httpapi.NewServer(httpapi.Services{
		Users:     service.NewUserService(repos.users, tokens, logger),
		Products:  service.NewProductService(repos.products, repos.tx, logger),
		Brands:    service.NewBrandService(repos.brands, logger),
		Orders:    service.NewOrderService(repos.orders, logger),
		Dashboard: service.NewDashboardService(repos.orders, repos.products, logger),
		Payments:  service.NewPaymentService(provider, cfg.Stripe.DefaultCurrency, logger),
	}, httpapi.Options{Logger: logger, RestrictOrderList: cfg.Orders.RestrictListAll})

	httpServer := &http.Server{
		Addr:         net.JoinHostPort("", cfg.Server.Port),
		Handler:      srv.Engine(),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("HTTP server listening",
			zap.String("addr", httpServer.Addr),
			zap.String("db_driver", cfg.Database.Driver),
		)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()
		logger.Info("shutting down")
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown error: %w", err)
		}
		return nil
	})
	return g.Wait()
}
