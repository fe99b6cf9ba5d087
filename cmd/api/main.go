package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/multierr"

	"github.com/angelmondragon/crewstock-backend/api/routes"
	"github.com/angelmondragon/crewstock-backend/internal/crew"
	"github.com/angelmondragon/crewstock-backend/internal/identity"
	"github.com/angelmondragon/crewstock-backend/internal/inventory"
	"github.com/angelmondragon/crewstock-backend/internal/locationorders"
	"github.com/angelmondragon/crewstock-backend/internal/locations"
	"github.com/angelmondragon/crewstock-backend/internal/notices"
	"github.com/angelmondragon/crewstock-backend/internal/users"
	"github.com/angelmondragon/crewstock-backend/pkg/config"
	"github.com/angelmondragon/crewstock-backend/pkg/db"
	"github.com/angelmondragon/crewstock-backend/pkg/logger"
	"github.com/angelmondragon/crewstock-backend/pkg/migrate"
	"github.com/angelmondragon/crewstock-backend/pkg/redis"
)

const shutdownTimeout = 15 * time.Second

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

	cfg.Service.Kind = "api"

	logg = logger.New(logger.Options{
		ServiceName: "api",
		Env:         cfg.App.Env,
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	dbClient, err := db.Open(context.Background(), cfg, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap database", err)
		os.Exit(1)
	}

	if err := migrate.MaybeRunDev(context.Background(), cfg, logg, dbClient); err != nil {
		logg.Error(context.Background(), "failed to run dev migrations", err)
		_ = dbClient.Close()
		os.Exit(1)
	}

	redisClient, err := redis.New(context.Background(), cfg.Redis, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap redis", err)
		_ = dbClient.Close()
		os.Exit(1)
	}
	defer func() {
		if err := multierr.Combine(redisClient.Close(), dbClient.Close()); err != nil {
			logg.Error(context.Background(), "error closing resources", err)
		}
	}()

	conn := dbClient.DB()

	crewService, err := crew.NewService(crew.NewRepository(conn))
	requireService(logg, "crew", err)

	usersRepo := users.NewRepository(conn)
	usersService, err := users.NewService(usersRepo)
	requireService(logg, "users", err)

	names, err := users.NewNameResolver(usersRepo)
	requireService(logg, "user names", err)

	gate, err := identity.NewGate(identity.GateParams{
		Config:    cfg.Identity,
		Allowlist: crew.NewCachedChecker(crewService, redisClient, cfg.Allowlist.CacheTTL, logg),
		Users:     usersService,
		Logger:    logg,
	})
	requireService(logg, "identity gate", err)

	locationsRepo := locations.NewRepository(conn)
	locationsService, err := locations.NewService(locationsRepo)
	requireService(logg, "locations", err)

	ordersService, err := locationorders.NewService(locationorders.ServiceParams{
		Orders:    locationorders.NewRepository(conn),
		Locations: locationsRepo,
		Tx:        dbClient,
	})
	requireService(logg, "location orders", err)

	inventoryService, err := inventory.NewService(inventory.ServiceParams{
		Items:     inventory.NewRepository(conn),
		Locations: locationsRepo,
		Orders:    ordersService,
		Names:     names,
	})
	requireService(logg, "inventory", err)

	noticesService, err := notices.NewService(notices.NewRepository(conn), names)
	requireService(logg, "notices", err)

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	handler := routes.NewRouter(routes.Deps{
		Config:         cfg,
		Logger:         logg,
		DB:             dbClient,
		Cache:          redisClient,
		Registry:       registry,
		Identity:       gate,
		Inventory:      inventoryService,
		Locations:      locationsService,
		LocationOrders: ordersService,
		Notices:        noticesService,
		Users:          usersService,
	})

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	ctx = logg.WithFields(ctx, map[string]any{
		"addr":        addr,
		"serviceKind": cfg.Service.Kind,
		"sqlite":      dbClient.Dialect() == db.DialectSQLite,
	})

	server := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	serveErr := make(chan error, 1)
	go func() {
		logg.Info(ctx, "starting api server")
		serveErr <- server.ListenAndServe()
	}()

	select {
	case err := <-serveErr:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logg.Error(ctx, "server stopped unexpectedly", err)
			os.Exit(1)
		}
	case <-ctx.Done():
		logg.Info(ctx, "shutting down api server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logg.Error(ctx, "graceful shutdown failed", err)
		}
	}
}

func requireService(logg *logger.Logger, name string, err error) {
	if err == nil {
		return
	}
	logg.Error(context.Background(), "failed to create "+name+" service", err)
	os.Exit(1)
}
