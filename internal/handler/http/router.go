package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/dont21900-lgtm/editing-store/pkg/health"
	"github.com/dont21900-lgtm/editing-store/pkg/middleware"
)

// RouterConfig carries the handlers and cross-cutting settings the router
// needs to assemble the full HTTP surface.
type RouterConfig struct {
	Catalog   *CatalogHandler
	Cart      *CartHandler
	Checkout  *CheckoutHandler
	Order     *OrderHandler
	Auth      *AuthHandler
	Assistant *AssistantHandler
	Admin     *AdminHandler

	AdminGuard func(http.Handler) http.Handler

	Health *health.Handler
	Logger *slog.Logger

	RateLimitRPS   int
	RateLimitBurst int
}

// NewRouter assembles the chi router with the shared middleware stack and the
// full API route table.
func NewRouter(cfg RouterConfig) *chi.Mux {
	r := chi.NewRouter()

	r.Use(middleware.Recovery(cfg.Logger))
	r.Use(chimw.Compress(5))
	r.Use(chimw.Timeout(30 * time.Second))
	r.Use(middleware.RequestLogging(cfg.Logger))
	r.Use(middleware.PrometheusMetrics("editing-store"))
	r.Use(middleware.Tracing("editing-store"))
	r.Use(middleware.RequestLogger(cfg.Logger))
	r.Use(middleware.CORS(middleware.DefaultCORSConfig()))
	if cfg.RateLimitRPS > 0 {
		r.Use(middleware.RateLimit(cfg.RateLimitRPS, cfg.RateLimitBurst, cfg.Logger))
	}

	r.Get("/health/live", cfg.Health.LivenessHandler())
	r.Get("/health/ready", cfg.Health.ReadinessHandler())
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/products", func(r chi.Router) {
			r.Get("/", cfg.Catalog.ListProducts)
			r.Get("/{id}", cfg.Catalog.GetProduct)
		})

		r.Group(func(r chi.Router) {
			r.Use(SessionRequired)
			r.Use(ContentTypeJSON)

			r.Route("/cart", func(r chi.Router) {
				r.Get("/", cfg.Cart.GetCart)
				r.Delete("/", cfg.Cart.ClearCart)
				r.Post("/items", cfg.Cart.AddProduct)
				r.Patch("/items/{productId}", cfg.Cart.UpdateQuantity)
				r.Delete("/items/{productId}", cfg.Cart.RemoveProduct)
			})

			r.Post("/checkout", cfg.Checkout.Checkout)
			r.Get("/checkout/status", cfg.Checkout.Status)
		})

		r.Get("/orders", cfg.Order.ListByEmail)
		r.Get("/orders/{id}", cfg.Order.GetOrder)

		r.Route("/auth", func(r chi.Router) {
			r.Use(ContentTypeJSON)
			r.Post("/signin", cfg.Auth.SignIn)
			r.Post("/verify-face", cfg.Auth.VerifyFace)
		})

		r.With(ContentTypeJSON).Post("/assistant/chat", cfg.Assistant.Chat)

		r.Route("/admin", func(r chi.Router) {
			r.Use(cfg.AdminGuard)

			r.Post("/products", cfg.Admin.ComposeProduct)
			r.With(ContentTypeJSON).Put("/products/{id}", cfg.Catalog.UpdateProduct)
			r.Delete("/products/{id}", cfg.Catalog.DeleteProduct)

			r.Get("/journal", cfg.Admin.ListJournal)
			r.Post("/journal/{id}/resolve", cfg.Admin.ResolveJournalEntry)
		})
	})

	return r
}
