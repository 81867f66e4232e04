package app

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/postify/postify/internal/analytics"
	"github.com/postify/postify/internal/cart"
	"github.com/postify/postify/internal/catalog/categories"
	"github.com/postify/postify/internal/catalog/products"
	"github.com/postify/postify/internal/checkout"
	"github.com/postify/postify/internal/employees"
	"github.com/postify/postify/internal/identity"
	"github.com/postify/postify/internal/observability"
	"github.com/postify/postify/internal/policy"
	"github.com/postify/postify/internal/sales"
	"github.com/postify/postify/internal/settings"
	"github.com/postify/postify/internal/shared"
	"github.com/postify/postify/jobs"
)

// RouterParams groups dependencies for building the HTTP router.
type RouterParams struct {
	Logger         *slog.Logger
	Config         *Config
	SessionManager *shared.SessionManager
	CSRFManager    *shared.CSRFManager
	Guard          policy.Middleware

	AuthHandler       *identity.Handler
	ProductsHandler   *products.Handler
	CategoriesHandler *categories.Handler
	SettingsHandler   *settings.Handler
	EmployeesHandler  *employees.Handler
	CartHandler       *cart.Handler
	CheckoutHandler   *checkout.Handler
	SalesHandler      *sales.Handler
	AnalyticsHandler  *analytics.Handler
	JobsHandler       *jobs.Handler

	Metrics *observability.Metrics
}

// NewRouter constructs the chi.Router with application defaults.
func NewRouter(params RouterParams) http.Handler {
	r := chi.NewRouter()

	for _, mw := range MiddlewareStack(MiddlewareConfig{
		Logger:         params.Logger,
		Config:         params.Config,
		SessionManager: params.SessionManager,
		CSRFManager:    params.CSRFManager,
		Metrics:        params.Metrics,
	}) {
		r.Use(mw)
	}

	r.Use(chimw.Logger)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	r.Route("/auth", params.AuthHandler.MountRoutes)

	r.Group(func(r chi.Router) {
		r.Use(params.Guard.Authenticate)

		r.Route("/products", params.ProductsHandler.MountRoutes)
		r.Route("/categories", params.CategoriesHandler.MountRoutes)
		r.Route("/settings", params.SettingsHandler.MountRoutes)
		r.Route("/employees", params.EmployeesHandler.MountRoutes)
		r.Route("/cart", params.CartHandler.MountRoutes)
		r.Route("/checkout", params.CheckoutHandler.MountRoutes)
		r.Route("/sales", params.SalesHandler.MountRoutes)
		r.Route("/analytics", params.AnalyticsHandler.MountRoutes)
	})

	if params.JobsHandler != nil {
		r.Route("/jobs", params.JobsHandler.MountRoutes)
	}

	if params.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", params.Metrics.Handler())
	}

	return r
}
