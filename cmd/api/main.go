package main

import (
	"context"
	"net/http"
	"os"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/contentcreate/storefront-backend/api/routes"
	"github.com/contentcreate/storefront-backend/internal/auth"
	"github.com/contentcreate/storefront-backend/internal/cart"
	"github.com/contentcreate/storefront-backend/internal/checkout"
	"github.com/contentcreate/storefront-backend/internal/content"
	"github.com/contentcreate/storefront-backend/internal/inventory"
	"github.com/contentcreate/storefront-backend/internal/orders"
	"github.com/contentcreate/storefront-backend/internal/products"
	"github.com/contentcreate/storefront-backend/internal/promotions"
	"github.com/contentcreate/storefront-backend/internal/purchasing"
	"github.com/contentcreate/storefront-backend/internal/rbac"
	"github.com/contentcreate/storefront-backend/internal/users"
	"github.com/contentcreate/storefront-backend/pkg/auth/session"
	"github.com/contentcreate/storefront-backend/pkg/config"
	"github.com/contentcreate/storefront-backend/pkg/db"
	"github.com/contentcreate/storefront-backend/pkg/logger"
	"github.com/contentcreate/storefront-backend/pkg/mailer"
	"github.com/contentcreate/storefront-backend/pkg/metrics"
	"github.com/contentcreate/storefront-backend/pkg/migrate"
	"github.com/contentcreate/storefront-backend/pkg/paystack"
	"github.com/contentcreate/storefront-backend/pkg/redis"
)

func main() {
	logg := logger.New(logger.Options{ServiceName: "api"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "api",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	dbClient, err := db.New(context.Background(), cfg.DB, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap database", err)
		os.Exit(1)
	}
	defer func() {
		if err := dbClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing database", err)
		}
	}()

	if err := migrate.MaybeRunDev(context.Background(), cfg, logg, dbClient); err != nil {
		logg.Error(context.Background(), "failed to run dev migrations", err)
		os.Exit(1)
	}

	redisClient, err := redis.New(context.Background(), cfg.Redis, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap redis", err)
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing redis", err)
		}
	}()

	sessionManager, err := session.NewManager(redisClient, cfg.JWT)
	if err != nil {
		logg.Error(context.Background(), "failed to create session manager", err)
		os.Exit(1)
	}

	registry := prometheus.NewRegistry()
	httpMetrics := metrics.NewHTTPMetrics(registry)
	checkoutMetrics := metrics.NewCheckoutMetrics(registry)

	conn := dbClient.DB()
	userRepo := users.NewRepository(conn)
	productRepo := products.NewRepository(conn)
	cartRepo := cart.NewRepository(conn)
	orderRepo := orders.NewRepository(conn)
	inventoryRepo := inventory.NewRepository(conn)
	promoRepo := promotions.NewRepository(conn)
	purchasingRepo := purchasing.NewRepository(conn)

	authService, err := auth.NewService(auth.ServiceParams{
		UserRepo:       userRepo,
		SessionManager: sessionManager,
		RateLimiter:    redisClient,
		JWTConfig:      cfg.JWT,
		PasswordConfig: cfg.Password,
		RateLimits:     cfg.AuthRateLimit,
		Logger:         logg,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create auth service", err)
		os.Exit(1)
	}

	usersService, err := users.NewService(userRepo)
	if err != nil {
		logg.Error(context.Background(), "failed to create users service", err)
		os.Exit(1)
	}

	rbacService, err := rbac.NewService(rbac.NewRepository(conn), dbClient, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to create rbac service", err)
		os.Exit(1)
	}

	productsService, err := products.NewService(productRepo)
	if err != nil {
		logg.Error(context.Background(), "failed to create products service", err)
		os.Exit(1)
	}

	inventoryService, err := inventory.NewService(inventoryRepo, dbClient, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to create inventory service", err)
		os.Exit(1)
	}

	cartService, err := cart.NewService(cartRepo, productRepo)
	if err != nil {
		logg.Error(context.Background(), "failed to create cart service", err)
		os.Exit(1)
	}

	promotionsService, err := promotions.NewService(promoRepo)
	if err != nil {
		logg.Error(context.Background(), "failed to create promotions service", err)
		os.Exit(1)
	}

	checkoutService, err := checkout.NewService(cartRepo, orderRepo, inventoryService, promotionsService, dbClient, logg, checkout.WithMetrics(checkoutMetrics))
	if err != nil {
		logg.Error(context.Background(), "failed to create checkout service", err)
		os.Exit(1)
	}

	var gateway orders.PaymentVerifier
	if cfg.Paystack.SecretKey != "" {
		paystackClient, payErr := paystack.NewClient(cfg.Paystack.SecretKey, paystack.WithBaseURL(cfg.Paystack.BaseURL))
		if payErr != nil {
			logg.Error(context.Background(), "failed to create paystack client", payErr)
			os.Exit(1)
		}
		gateway = paystackClient
	}
	var ordersOpts []orders.Option
	if cfg.Mail.APIKey != "" {
		mailClient, mailErr := mailer.NewClient(cfg.Mail.APIKey, cfg.Mail.BaseURL, cfg.Mail.DefaultFrom)
		if mailErr != nil {
			logg.Error(context.Background(), "failed to create mail client", mailErr)
			os.Exit(1)
		}
		ordersOpts = append(ordersOpts, orders.WithMailer(mailClient))
	}
	ordersService, err := orders.NewService(orderRepo, inventoryService, dbClient, gateway, logg, ordersOpts...)
	if err != nil {
		logg.Error(context.Background(), "failed to create orders service", err)
		os.Exit(1)
	}

	purchasingService, err := purchasing.NewService(purchasingRepo, productRepo, inventoryService, dbClient)
	if err != nil {
		logg.Error(context.Background(), "failed to create purchasing service", err)
		os.Exit(1)
	}

	contentService, err := content.NewService(conn)
	if err != nil {
		logg.Error(context.Background(), "failed to create content service", err)
		os.Exit(1)
	}

	if err := rbacService.Bootstrap(context.Background()); err != nil {
		logg.Error(context.Background(), "failed to bootstrap rbac", err)
		os.Exit(1)
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port
	ctx := logg.WithFields(context.Background(), map[string]any{
		"env":  cfg.App.Env,
		"addr": addr,
	})
	logg.Info(ctx, "starting api server")

	server := &http.Server{
		Addr: addr,
		Handler: routes.NewRouter(routes.Deps{
			Config:      cfg,
			Logger:      logg,
			DB:          dbClient,
			Redis:       redisClient,
			Sessions:    sessionManager,
			HTTPMetrics: httpMetrics,
			Registry:    registry,
			Auth:        authService,
			Users:       usersService,
			RBAC:        rbacService,
			Products:    productsService,
			Inventory:   inventoryService,
			Cart:        cartService,
			Checkout:    checkoutService,
			Orders:      ordersService,
			Purchasing:  purchasingService,
			Promotions:  promotionsService,
			Content:     contentService,
		}),
	}

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logg.Error(ctx, "api server stopped unexpectedly", err)
		os.Exit(1)
	}
}
