// @title LocalDeals API
// @version 1.0.0
// @description Local marketplace platform for shops, deals and orders

// @contact.name API Support

// @license.name Apache 2.0
// @license.url http://www.apache.org/licenses/LICENSE-2.0

// @host localhost:8080
// @BasePath /api/v1

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization

package http

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/localdeals/localdeals/internal/analytics"
	"github.com/localdeals/localdeals/internal/audit"
	"github.com/localdeals/localdeals/internal/deal"
	"github.com/localdeals/localdeals/internal/identity"
	"github.com/localdeals/localdeals/internal/news"
	"github.com/localdeals/localdeals/internal/observability/metrics"
	"github.com/localdeals/localdeals/internal/order"
	"github.com/localdeals/localdeals/internal/platform"
	"github.com/localdeals/localdeals/internal/session"
	"github.com/localdeals/localdeals/internal/settings"
	"github.com/localdeals/localdeals/internal/shop"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

// Handler holds HTTP handlers and dependencies
type Handler struct {
	identityService  *identity.Service
	sessionService   *session.Service
	shopService      *shop.Service
	dealService      *deal.Service
	orderService     *order.Service
	newsService      *news.Service
	platformService  *platform.Service
	settingsService  *settings.Service
	analyticsService *analytics.Service
	auditLogger      audit.Logger
	counters         *metrics.Counters
}

// NewHandler creates a new HTTP handler
func NewHandler(
	identityService *identity.Service,
	sessionService *session.Service,
	shopService *shop.Service,
	dealService *deal.Service,
	orderService *order.Service,
	newsService *news.Service,
	platformService *platform.Service,
	settingsService *settings.Service,
	analyticsService *analytics.Service,
	auditLogger audit.Logger,
	counters *metrics.Counters,
) *Handler {
	return &Handler{
		identityService:  identityService,
		sessionService:   sessionService,
		shopService:      shopService,
		dealService:      dealService,
		orderService:     orderService,
		newsService:      newsService,
		platformService:  platformService,
		settingsService:  settingsService,
		analyticsService: analyticsService,
		auditLogger:      auditLogger,
		counters:         counters,
	}
}

// NewRouter creates a new HTTP router
func NewRouter(h *Handler, rateLimiter *RateLimiter) *chi.Mux {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(RateLimitMiddleware(rateLimiter))
	r.Use(func(handler http.Handler) http.Handler {
		return otelhttp.NewHandler(handler, "http_request",
			otelhttp.WithSpanNameFormatter(func(operation string, r *http.Request) string {
				return r.Method + " " + r.URL.Path
			}),
		)
	})
	r.Use(LoggingMiddleware())
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))

	// Health check
	r.Get("/health", h.HealthCheck)

	// API routes. AuthMiddleware is optional everywhere: anonymous visitors
	// browse deals and news and place orders; RequireAuth gates the rest.
	r.Route("/api/v1", func(r chi.Router) {
		r.Use(h.AuthMiddleware)

		// Authentication
		r.Post("/auth/register", h.Register)
		r.Post("/auth/login", h.Login)
		r.Group(func(r chi.Router) {
			r.Use(RequireAuth)
			r.Post("/auth/logout", h.Logout)
			r.Get("/auth/me", h.GetCurrentUser)
			r.Put("/user/profile", h.UpdateProfile)
			r.Post("/user/change-password", h.ChangePassword)
		})

		// User administration
		r.Route("/users", func(r chi.Router) {
			r.Use(RequireAuth)
			r.Get("/", h.ListUsers)
			r.Post("/", h.CreateUser)
			r.Put("/{userID}/role", h.ChangeUserRole)
			r.Delete("/{userID}", h.DeleteUser)
		})

		// Shops
		r.Route("/shops", func(r chi.Router) {
			r.Get("/{shopID}", h.GetShop)
			r.Get("/{shopID}/deals", h.ListShopDeals)
			r.Group(func(r chi.Router) {
				r.Use(RequireAuth)
				r.Post("/", h.RegisterShop)
				r.Get("/", h.ListShops)
				r.Get("/mine", h.ListMyShops)
				r.Put("/{shopID}", h.UpdateShopProfile)
				r.Post("/{shopID}/status", h.TransitionShop)
				r.Get("/{shopID}/orders", h.ListShopOrders)
			})
		})

		// Deals
		r.Route("/deals", func(r chi.Router) {
			r.Get("/", h.ListOrderableDeals)
			r.Get("/{dealID}", h.GetDeal)
			r.Group(func(r chi.Router) {
				r.Use(RequireAuth)
				r.Get("/all", h.ListAllDeals)
				r.Post("/", h.CreateDeal)
				r.Put("/{dealID}", h.UpdateDeal)
				r.Delete("/{dealID}", h.DeleteDeal)
			})
		})

		// Orders. Placing and cancelling are guest operations keyed by the
		// contact email; advancing is a staff operation.
		r.Route("/orders", func(r chi.Router) {
			r.Post("/", h.PlaceOrder)
			r.Post("/{orderID}/cancel", h.CancelOrder)
			r.Group(func(r chi.Router) {
				r.Use(RequireAuth)
				r.Get("/{orderID}", h.GetOrder)
				r.Post("/{orderID}/status", h.AdvanceOrder)
			})
		})

		// News
		r.Route("/news", func(r chi.Router) {
			r.Get("/", h.ListNews)
			r.Get("/{articleID}", h.GetArticle)
			r.Group(func(r chi.Router) {
				r.Use(RequireAuth)
				r.Post("/", h.CreateArticle)
				r.Put("/{articleID}", h.UpdateArticle)
				r.Delete("/{articleID}", h.DeleteArticle)
			})
		})

		// Affiliate platforms
		r.Route("/platforms", func(r chi.Router) {
			r.Use(RequireAuth)
			r.Get("/", h.ListPlatforms)
			r.Post("/", h.CreatePlatform)
			r.Put("/{platformID}", h.UpdatePlatform)
			r.Delete("/{platformID}", h.DeletePlatform)
		})

		// Site settings
		r.Route("/settings", func(r chi.Router) {
			r.Get("/", h.ListSettings)
			r.With(RequireAuth).Put("/{key}", h.SetSetting)
		})

		// Analytics
		r.With(RequireAuth).Get("/analytics/overview", h.AnalyticsOverview)
	})

	return r
}

// HealthCheck returns the health status
// @Summary Health Check
// @Description Checks if the service is up and running
// @Tags System
// @Produce json
// @Success 200 {object} map[string]string
// @Router /health [get]
func (h *Handler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{
		"status":  "healthy",
		"service": "localdeals",
	})
}
