package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/partslane/backoffice-backend/api/controllers"
	"github.com/partslane/backoffice-backend/api/middleware"
	"github.com/partslane/backoffice-backend/internal/audit"
	"github.com/partslane/backoffice-backend/internal/auth"
	"github.com/partslane/backoffice-backend/internal/bookings"
	"github.com/partslane/backoffice-backend/internal/categories"
	"github.com/partslane/backoffice-backend/internal/departments"
	"github.com/partslane/backoffice-backend/internal/orders"
	"github.com/partslane/backoffice-backend/internal/products"
	"github.com/partslane/backoffice-backend/internal/users"
	"github.com/partslane/backoffice-backend/pkg/auth/session"
	"github.com/partslane/backoffice-backend/pkg/config"
	"github.com/partslane/backoffice-backend/pkg/db"
	"github.com/partslane/backoffice-backend/pkg/logger"
	"github.com/partslane/backoffice-backend/pkg/metrics"
	"github.com/partslane/backoffice-backend/pkg/redis"
)

// Services bundles everything the HTTP layer depends on.
type Services struct {
	Auth        auth.Service
	Orders      orders.Service
	Audit       audit.Service
	Users       users.Service
	Departments departments.Service
	Categories  categories.Service
	Products    products.Service
	Bookings    bookings.Service
}

func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	dbP db.Pinger,
	redisClient *redis.Client,
	sessions session.AccessSessionChecker,
	httpMetrics *metrics.HTTPMetrics,
	metricsHandler http.Handler,
	svcs Services,
) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.Metrics(httpMetrics),
		middleware.CORS(),
	)

	loginPolicy := middleware.NewAuthRateLimitPolicy(
		"login",
		cfg.AuthRateLimit.LoginWindow,
		cfg.AuthRateLimit.LoginIPLimit,
		cfg.AuthRateLimit.LoginEmailLimit,
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, dbP, redisClient))
	})

	if metricsHandler != nil {
		r.Method(http.MethodGet, "/metrics", metricsHandler)
	}

	r.Route("/api/v1/auth", func(r chi.Router) {
		r.With(middleware.AuthRateLimit(loginPolicy, redisClient, logg)).Post("/login", controllers.AuthLogin(svcs.Auth, logg))
		r.Post("/refresh", controllers.AuthRefresh(svcs.Auth, logg))
		r.Post("/logout", controllers.AuthLogout(svcs.Auth, logg))
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, sessions, logg))

		r.Route("/orders", func(r chi.Router) {
			r.Get("/", controllers.OrdersList(svcs.Orders, logg))
			r.With(middleware.RequireStaff(logg)).Post("/", controllers.OrdersCreate(svcs.Orders, logg))
			r.Route("/{orderID}", func(r chi.Router) {
				r.Get("/", controllers.OrdersGet(svcs.Orders, logg))
				r.With(middleware.RequireStaff(logg)).Put("/", controllers.OrdersSave(svcs.Orders, logg))
				r.Get("/logs", controllers.OrderLogs(svcs.Audit, logg))
			})
		})

		r.Route("/departments", func(r chi.Router) {
			r.Get("/", controllers.DepartmentsList(svcs.Departments, logg))
			r.Get("/{departmentID}", controllers.DepartmentsGet(svcs.Departments, logg))
			r.With(middleware.RequireAdmin(logg)).Post("/", controllers.DepartmentsCreate(svcs.Departments, logg))
			r.With(middleware.RequireAdmin(logg)).Patch("/{departmentID}", controllers.DepartmentsUpdate(svcs.Departments, logg))
			r.With(middleware.RequireAdmin(logg)).Delete("/{departmentID}", controllers.DepartmentsDelete(svcs.Departments, logg))
		})

		r.Route("/categories", func(r chi.Router) {
			r.Get("/", controllers.CategoriesList(svcs.Categories, logg))
			r.With(middleware.RequireAdmin(logg)).Post("/", controllers.CategoriesCreate(svcs.Categories, logg))
			r.With(middleware.RequireAdmin(logg)).Patch("/{categoryID}", controllers.CategoriesUpdate(svcs.Categories, logg))
			r.With(middleware.RequireAdmin(logg)).Delete("/{categoryID}", controllers.CategoriesDelete(svcs.Categories, logg))
		})

		r.Route("/products", func(r chi.Router) {
			r.Get("/", controllers.ProductsList(svcs.Products, logg))
			r.Get("/{productID}", controllers.ProductsGet(svcs.Products, logg))
			r.With(middleware.RequireAdmin(logg)).Post("/", controllers.ProductsCreate(svcs.Products, logg))
			r.With(middleware.RequireAdmin(logg)).Patch("/{productID}", controllers.ProductsUpdate(svcs.Products, logg))
			r.With(middleware.RequireAdmin(logg)).Delete("/{productID}", controllers.ProductsDelete(svcs.Products, logg))
		})

		r.Route("/users", func(r chi.Router) {
			r.With(middleware.RequireStaff(logg)).Get("/", controllers.UsersList(svcs.Users, logg))
			r.With(middleware.RequireStaff(logg)).Get("/{userID}", controllers.UsersGet(svcs.Users, logg))
			r.With(middleware.RequireAdmin(logg)).Post("/", controllers.UsersCreate(svcs.Users, logg))
			r.With(middleware.RequireAdmin(logg)).Patch("/{userID}", controllers.UsersUpdate(svcs.Users, logg))
			r.With(middleware.RequireAdmin(logg)).Delete("/{userID}", controllers.UsersDelete(svcs.Users, logg))
		})

		r.Route("/bookings", func(r chi.Router) {
			r.Get("/", controllers.BookingsList(svcs.Bookings, logg))
			r.Get("/{bookingID}", controllers.BookingsGet(svcs.Bookings, logg))
			r.With(middleware.RequireStaff(logg)).Post("/", controllers.BookingsCreate(svcs.Bookings, logg))
			r.With(middleware.RequireStaff(logg)).Patch("/{bookingID}", controllers.BookingsUpdate(svcs.Bookings, logg))
			r.With(middleware.RequireAdmin(logg)).Delete("/{bookingID}", controllers.BookingsDelete(svcs.Bookings, logg))
		})
	})

	return r
}
