package api

import (
	"log/slog"
	"net/http"
	"time"

	"convenz-admin/internal/admins"
	"convenz-admin/internal/auth"
	"convenz-admin/internal/bookings"
	"convenz-admin/internal/customers"
	"convenz-admin/internal/dashboard"
	"convenz-admin/internal/middleware"
	"convenz-admin/internal/plans"
	"convenz-admin/internal/subscriptions"
	"convenz-admin/internal/transport"
	"convenz-admin/internal/vendors"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Deps struct {
	Log            *slog.Logger
	Tokens         *auth.Manager
	APIKey         string
	CORSOrigins    []string
	RequestTimeout time.Duration
	Location       *time.Location
	Registry       *prometheus.Registry

	Admins        *admins.Handler
	Vendors       *vendors.Handler
	Customers     *customers.Handler
	Plans         *plans.Handler
	Subscriptions *subscriptions.Handler
	Bookings      *bookings.Handler
	Dashboard     *dashboard.Handler
}

func health(loc *time.Location) http.HandlerFunc {
	if loc == nil {
		loc = time.UTC
	}
	return func(w http.ResponseWriter, r *http.Request) {
		transport.WriteJSON(w, http.StatusOK, map[string]interface{}{
			"message":   "API Running...",
			"timestamp": time.Now().In(loc).Format(time.RFC3339),
		})
	}
}

func NewRouter(d Deps) http.Handler {
	timeout := d.RequestTimeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	metrics := middleware.NewMetrics(d.Registry)

	r := chi.NewRouter()
	r.Use(chiMiddleware.RealIP)
	r.Use(chiMiddleware.Recoverer)
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger(d.Log))
	r.Use(metrics.Handler)
	r.Use(middleware.CORS(d.CORSOrigins))
	r.Use(chiMiddleware.Timeout(timeout))

	r.Get("/", health(d.Location))
	r.Handle("/metrics", promhttp.HandlerFor(d.Registry, promhttp.HandlerOpts{}))

	staff := []string{admins.RoleAdmin, admins.RoleSuperAdmin}
	// Consumer-app endpoints also accept the shared API key.
	staffOrKey := middleware.AdminOrAPIKey(d.APIKey, d.Tokens, staff...)

	r.Route("/api", func(api chi.Router) {
		api.Post("/admin/login", d.Admins.Login)

		api.With(staffOrKey).Post("/customers/sync", d.Customers.Sync)
		api.With(staffOrKey).Post("/bookings/add", d.Bookings.Create)

		// Important (chi): middlewares must be attached before defining routes.
		api.Group(func(protected chi.Router) {
			protected.Use(middleware.Authenticate(d.Tokens))

			protected.Group(func(super chi.Router) {
				super.Use(middleware.RequireRoles(admins.RoleSuperAdmin))
				super.Post("/admin/register", d.Admins.Register)
				super.Get("/admin/admins", d.Admins.List)
				super.Post("/admin/admins", d.Admins.Create)
				super.Get("/admin/admins/{id}", d.Admins.Get)
				super.Put("/admin/admins/{id}", d.Admins.Update)
				super.Delete("/admin/admins/{id}", d.Admins.Delete)
			})

			protected.Group(func(staffOnly chi.Router) {
				staffOnly.Use(middleware.RequireRoles(staff...))

				staffOnly.Get("/admin/dashboard", d.Dashboard.Stats)

				staffOnly.Route("/vendors", func(v chi.Router) {
					v.Get("/getall", d.Vendors.List)
					v.Get("/get/{id}", d.Vendors.Get)
					v.Post("/add", d.Vendors.Create)
					v.Put("/update/{id}", d.Vendors.Update)
					v.Patch("/{id}/block", d.Vendors.Block)
					v.Delete("/{id}", d.Vendors.Delete)
				})

				staffOnly.Route("/customers", func(c chi.Router) {
					c.Get("/getCustomers", d.Customers.List)
					c.Get("/{id}", d.Customers.Get)
					c.Patch("/{id}/block", d.Customers.Block)
					c.Patch("/{id}/unblock", d.Customers.Unblock)
				})

				staffOnly.Route("/plans", func(p chi.Router) {
					p.Post("/add", d.Plans.Create)
					p.Get("/all", d.Plans.List)
					p.Get("/{id}", d.Plans.Get)
					p.Put("/update/{id}", d.Plans.Update)
					p.Delete("/delete/{id}", d.Plans.Delete)
				})

				staffOnly.Route("/subscriptions", func(s chi.Router) {
					s.Get("/all", d.Subscriptions.List)
					s.Get("/user/{userId}", d.Subscriptions.ForUser)
					s.Get("/{id}/with-plan", d.Subscriptions.GetWithPlan)
					s.Get("/{id}", d.Subscriptions.Get)
					s.Post("/add", d.Subscriptions.Create)
					s.Patch("/update/{id}", d.Subscriptions.Update)
					s.Delete("/{id}", d.Subscriptions.Delete)
				})

				staffOnly.Route("/bookings", func(b chi.Router) {
					b.Get("/all", d.Bookings.List)
					b.Get("/{id}", d.Bookings.Get)
					b.Put("/update/{id}", d.Bookings.Update)
					b.Delete("/{id}", d.Bookings.Delete)
				})
			})
		})
	})

	return r
}
