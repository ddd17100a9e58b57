package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/adbroadcast/website-backend/api/controllers"
	"github.com/adbroadcast/website-backend/api/middleware"
	"github.com/adbroadcast/website-backend/internal/catalog"
	"github.com/adbroadcast/website-backend/internal/leads"
	"github.com/adbroadcast/website-backend/pkg/config"
	"github.com/adbroadcast/website-backend/pkg/db"
	"github.com/adbroadcast/website-backend/pkg/logger"
	"github.com/adbroadcast/website-backend/pkg/redis"
)

// Dependencies groups what the router hands to controllers. Redis and
// Metrics are optional.
type Dependencies struct {
	DB      db.Pinger
	Redis   *redis.Client
	Catalog *catalog.Store
	Leads   leads.Service
	Metrics http.Handler
}

func NewRouter(cfg *config.Config, logg *logger.Logger, deps Dependencies) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(cfg.CORS.AllowedOrigins),
	)

	var redisPinger controllers.Pinger
	var limiter middleware.RateLimiterStore
	if deps.Redis != nil {
		redisPinger = deps.Redis
		limiter = deps.Redis
	}

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, deps.DB, redisPinger))
	})

	if deps.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", deps.Metrics)
	}

	r.Route("/api/v1/products", func(r chi.Router) {
		r.Get("/", controllers.ListProducts(deps.Catalog, logg))
		r.Get("/filters", controllers.ProductFilters(deps.Catalog))
		r.Get("/{productId}", controllers.GetProduct(deps.Catalog, logg))
	})

	shopPolicy := middleware.NewIntakeRateLimitPolicy("shop", cfg.RateLimit.IntakeWindow, cfg.RateLimit.IntakeIPLimit)
	contactPolicy := middleware.NewIntakeRateLimitPolicy("contact", cfg.RateLimit.IntakeWindow, cfg.RateLimit.IntakeIPLimit)

	r.With(middleware.IntakeRateLimit(shopPolicy, limiter, logg)).
		HandleFunc("/api/shop_request", controllers.ShopRequest(deps.Leads, logg))
	r.With(middleware.IntakeRateLimit(contactPolicy, limiter, logg)).
		HandleFunc("/api/form_contact", controllers.ContactForm(deps.Leads, logg))

	return r
}
