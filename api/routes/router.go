package routes

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/angelmondragon/crewstock-backend/api/controllers"
	"github.com/angelmondragon/crewstock-backend/api/middleware"
	"github.com/angelmondragon/crewstock-backend/internal/identity"
	"github.com/angelmondragon/crewstock-backend/internal/inventory"
	"github.com/angelmondragon/crewstock-backend/internal/locationorders"
	"github.com/angelmondragon/crewstock-backend/internal/locations"
	"github.com/angelmondragon/crewstock-backend/internal/notices"
	"github.com/angelmondragon/crewstock-backend/internal/users"
	"github.com/angelmondragon/crewstock-backend/pkg/config"
	"github.com/angelmondragon/crewstock-backend/pkg/logger"
	"github.com/angelmondragon/crewstock-backend/pkg/metrics"
)

// cacheStore is the redis surface the router needs: health pings, rate
// limiting and idempotent replays.
type cacheStore interface {
	Ping(ctx context.Context) error
	FixedWindowAllow(ctx context.Context, scope string, limit int64, window time.Duration) (bool, int64, error)
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	SetNX(ctx context.Context, key string, value any, ttl time.Duration) (bool, error)
	Del(ctx context.Context, keys ...string) error
	IdempotencyKey(scope, id string) string
}

// Deps carries everything the HTTP surface is wired from.
type Deps struct {
	Config   *config.Config
	Logger   *logger.Logger
	DB       controllers.Pinger
	Cache    cacheStore
	Registry *prometheus.Registry
	Identity identity.Resolver

	Inventory      inventory.Service
	Locations      locations.Service
	LocationOrders locationorders.Service
	Notices        notices.Service
	Users          users.Service
}

func NewRouter(deps Deps) http.Handler {
	cfg := deps.Config
	logg := deps.Logger

	var registerer prometheus.Registerer
	if deps.Registry != nil {
		registerer = deps.Registry
	}

	var (
		cachePinger controllers.Pinger
		limiter     interface {
			FixedWindowAllow(ctx context.Context, scope string, limit int64, window time.Duration) (bool, int64, error)
		}
	)
	if deps.Cache != nil {
		cachePinger = deps.Cache
		limiter = deps.Cache
	}

	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(cfg.App.AllowedOrigins),
		middleware.Metrics(metrics.NewHTTPMetrics(registerer)),
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, deps.DB, cachePinger))
	})

	if deps.Registry != nil {
		r.Handle("/metrics", promhttp.HandlerFor(deps.Registry, promhttp.HandlerOpts{Registry: deps.Registry}))
	}

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.Auth(deps.Identity, logg))
		r.Use(middleware.RateLimit(cfg.RateLimit, limiter, logg))
		if deps.Cache != nil {
			r.Use(middleware.Idempotency(deps.Cache, logg))
		}

		r.Route("/inventory", func(r chi.Router) {
			r.Get("/", controllers.ListInventory(deps.Inventory, logg))
			r.Post("/", controllers.CreateInventoryItem(deps.Inventory, logg))
			r.Get("/export", controllers.ExportInventory(deps.Inventory, logg))
			r.Route("/{itemId}", func(r chi.Router) {
				r.Patch("/name", controllers.UpdateInventoryItemName(deps.Inventory, logg))
				r.Patch("/qty", controllers.UpdateInventoryItemQty(deps.Inventory, logg))
				r.Patch("/location", controllers.UpdateInventoryItemLocation(deps.Inventory, logg))
				r.Delete("/", controllers.RemoveInventoryItem(deps.Inventory, logg))
			})
		})

		r.Route("/locations", func(r chi.Router) {
			r.Get("/", controllers.ListLocations(deps.Locations, logg))
			r.Post("/", controllers.CreateLocation(deps.Locations, logg))
			r.Patch("/{locationId}", controllers.RenameLocation(deps.Locations, logg))
			r.Delete("/{locationId}", controllers.RemoveLocation(deps.Locations, logg))
		})

		r.Route("/location-orders", func(r chi.Router) {
			r.Get("/", controllers.ListLocationOrders(deps.LocationOrders, logg))
			r.Put("/", controllers.ReplaceLocationOrders(deps.LocationOrders, logg))
			r.Put("/{locationId}", controllers.UpsertLocationOrder(deps.LocationOrders, logg))
			r.Delete("/{locationId}", controllers.RemoveLocationOrder(deps.LocationOrders, logg))
		})

		r.Route("/notices", func(r chi.Router) {
			r.Get("/", controllers.ListNotices(deps.Notices, logg))
			r.Post("/", controllers.CreateNotice(deps.Notices, logg))
			r.Get("/{noticeId}", controllers.GetNotice(deps.Notices, logg))
			r.Patch("/{noticeId}", controllers.UpdateNotice(deps.Notices, logg))
			r.Delete("/{noticeId}", controllers.RemoveNotice(deps.Notices, logg))
		})

		r.Route("/users/me", func(r chi.Router) {
			r.Get("/", controllers.GetCurrentUser(deps.Users, logg))
			r.Patch("/", controllers.UpdateCurrentUser(deps.Users, logg))
		})
	})

	return r
}
