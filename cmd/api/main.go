package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/PrasannaVit-21/chummaOrder/api/controllers"
	"github.com/PrasannaVit-21/chummaOrder/api/routes"
	cartsvc "github.com/PrasannaVit-21/chummaOrder/internal/cart"
	checkoutsvc "github.com/PrasannaVit-21/chummaOrder/internal/checkout"
	menusvc "github.com/PrasannaVit-21/chummaOrder/internal/menu"
	notifsvc "github.com/PrasannaVit-21/chummaOrder/internal/notifications"
	ordersvc "github.com/PrasannaVit-21/chummaOrder/internal/orders"
	"github.com/PrasannaVit-21/chummaOrder/internal/realtime"
	sessionpkg "github.com/PrasannaVit-21/chummaOrder/internal/session"
	"github.com/PrasannaVit-21/chummaOrder/pkg/config"
	"github.com/PrasannaVit-21/chummaOrder/pkg/db"
	"github.com/PrasannaVit-21/chummaOrder/pkg/db/models"
	"github.com/PrasannaVit-21/chummaOrder/pkg/logger"
	"github.com/PrasannaVit-21/chummaOrder/pkg/metrics"
	"github.com/PrasannaVit-21/chummaOrder/pkg/migrate"
	"github.com/PrasannaVit-21/chummaOrder/pkg/pubsub"
	"github.com/PrasannaVit-21/chummaOrder/pkg/redis"
	"github.com/google/uuid"
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

	pubsubClient, err := pubsub.NewClient(context.Background(), cfg.GCP, cfg.PubSub, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap pubsub", err)
		os.Exit(1)
	}
	defer func() {
		if err := pubsubClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing pubsub client", err)
		}
	}()

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	checkoutMetrics := metrics.NewCheckoutMetrics(registry)

	menuRepo := menusvc.NewRepository(dbClient.DB())
	cartRepo := cartsvc.NewRepository(dbClient.DB())
	orderRepo := ordersvc.NewRepository(dbClient.DB())
	notifRepo := notifsvc.NewRepository(dbClient.DB())

	menuService, err := menusvc.NewService(menuRepo)
	requireService(logg, "menu", err)

	cartService, err := cartsvc.NewService(cartRepo, menuRepo, redisClient, cfg.Checkout.CartGuardTTL, logg)
	requireService(logg, "cart", err)

	orderService, err := ordersvc.NewService(orderRepo)
	requireService(logg, "orders", err)

	notifService, err := notifsvc.NewService(notifRepo)
	requireService(logg, "notifications", err)

	checkoutService, err := checkoutsvc.NewService(
		dbClient,
		cartRepo,
		orderRepo,
		menuRepo,
		redisClient,
		cfg.Checkout.GuardTTL,
		checkoutMetrics,
		logg,
	)
	requireService(logg, "checkout", err)

	hub := sessionpkg.NewHub(sessionpkg.Loaders{
		Menu: func(ctx context.Context) ([]models.MenuItem, error) {
			return menuService.ListAvailable(ctx, menusvc.ListFilters{})
		},
		Cart: func(ctx context.Context, userID uuid.UUID) ([]models.CartItem, error) {
			return cartService.List(ctx, userID)
		},
		Orders: func(ctx context.Context, userID uuid.UUID) ([]models.Order, error) {
			return orderService.History(ctx, userID)
		},
	}, logg)
	defer hub.Close()

	relay, err := realtime.NewRelay(
		pubsubClient.MenuSubscription(),
		pubsubClient.CartSubscription(),
		pubsubClient.OrdersSubscription(),
		hub,
		logg,
	)
	if err != nil {
		logg.Error(context.Background(), "failed to create realtime relay", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	go func() {
		if err := relay.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
			logg.Error(ctx, "realtime relay stopped unexpectedly", err)
			stop()
		}
	}()

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port
	startCtx := logg.WithFields(ctx, map[string]any{
		"env":  cfg.App.Env,
		"addr": addr,
	})
	logg.Info(startCtx, "starting api server")

	server := &http.Server{
		Addr: addr,
		Handler: routes.NewRouter(routes.Deps{
			Config: cfg,
			Logger: logg,
			Pingers: map[string]controllers.Pinger{
				"database": dbClient,
				"redis":    redisClient,
				"pubsub":   pubsubClient,
			},
			MenuService:   menuService,
			CartService:   cartService,
			CheckoutSvc:   checkoutService,
			OrdersService: orderService,
			Notifications: notifService,
			SessionHub:    hub,
			MetricsSource: promhttp.HandlerFor(registry, promhttp.HandlerOpts{}),
		}),
	}

	go func() {
		<-ctx.Done()
		_ = server.Shutdown(context.Background())
	}()

	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logg.Error(startCtx, "api server stopped unexpectedly", err)
		os.Exit(1)
	}

	logg.Info(startCtx, "api server shutting down gracefully")
}

func requireService(logg *logger.Logger, name string, err error) {
	if err != nil {
		logg.Error(context.Background(), "failed to create "+name+" service", err)
		os.Exit(1)
	}
}
