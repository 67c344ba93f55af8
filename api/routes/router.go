package routes

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/angelmondragon/propertyhub/api/controllers"
	"github.com/angelmondragon/propertyhub/api/middleware"
	"github.com/angelmondragon/propertyhub/internal/admin"
	"github.com/angelmondragon/propertyhub/internal/auth"
	"github.com/angelmondragon/propertyhub/internal/companies"
	"github.com/angelmondragon/propertyhub/internal/roles"
	"github.com/angelmondragon/propertyhub/internal/users"
	"github.com/angelmondragon/propertyhub/internal/workitems"
	"github.com/angelmondragon/propertyhub/pkg/auth/session"
	"github.com/angelmondragon/propertyhub/pkg/config"
	"github.com/angelmondragon/propertyhub/pkg/enums"
	"github.com/angelmondragon/propertyhub/pkg/logger"
	"github.com/angelmondragon/propertyhub/pkg/metrics"
)

type rateLimitStore interface {
	IncrWithTTL(ctx context.Context, key string, ttl time.Duration) (int64, error)
	RateLimitKey(parts ...string) string
}

// Dependencies carries everything the router wires into handlers.
type Dependencies struct {
	DBPinger    controllers.Pinger
	KVPinger    controllers.Pinger
	RateLimiter rateLimitStore
	Sessions    *session.Manager
	HTTPMetrics *metrics.HTTPMetrics
	Gatherer    prometheus.Gatherer

	Auth      auth.Service
	WorkItems *workitems.Services
	Users     users.Service
	Companies companies.Service
	Roles     roles.Service
	Admin     admin.Service
}

func NewRouter(cfg *config.Config, logg *logger.Logger, deps Dependencies) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.Metrics(deps.HTTPMetrics),
		middleware.CORS(cfg.App.AllowedOrigins),
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, map[string]controllers.Pinger{
			"database": deps.DBPinger,
			"kv":       deps.KVPinger,
		}, logg))
	})
	if deps.Gatherer != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(deps.Gatherer, promhttp.HandlerOpts{}))
	}

	r.Group(func(r chi.Router) {
		r.Use(
			middleware.Session(deps.Sessions, logg),
			middleware.Identity(deps.Auth, logg),
		)

		r.Get("/", controllers.Index())

		loginLimit := middleware.AuthRateLimit(middleware.LoginPolicy(cfg.AuthRateLimit), deps.RateLimiter, logg)
		registerLimit := middleware.AuthRateLimit(middleware.RegisterPolicy(cfg.AuthRateLimit), deps.RateLimiter, logg)
		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireAnonymous())
			r.Get("/login", controllers.LoginPage())
			r.With(loginLimit).Post("/login", controllers.AuthLogin(deps.Auth, deps.Sessions, logg))
			r.Get("/register", controllers.RegisterPage())
			r.With(registerLimit).Post("/register", controllers.AuthRegister(deps.Auth, logg))
		})

		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireLogin())
			r.Get("/logout", controllers.AuthLogout(deps.Sessions, logg))
			var dashboard controllers.DashboardService
			if deps.WorkItems != nil {
				dashboard = deps.WorkItems
			}
			r.Get("/dashboard", controllers.Dashboard(dashboard, logg))
			mountWorkItems(r, deps.WorkItems, logg)
		})

		r.Route("/admin", func(r chi.Router) {
			r.Use(
				middleware.RequireLogin(),
				middleware.RequireCapability(enums.CapabilityAdmin, logg),
			)
			mountAdmin(r, deps, logg)
		})
	})

	return r
}

// mountWorkItems registers add/update/delete for every kind. Capability and
// company checks run in the service after the row is loaded, so a missing id
// is reported first.
func mountWorkItems(r chi.Router, svcs *workitems.Services, logg *logger.Logger) {
	for _, kind := range workitems.Kinds() {
		var svc workitems.Service
		if svcs != nil {
			svc = svcs.For(kind)
		}
		r.Post(fmt.Sprintf("/add_%s", kind.Name), controllers.WorkItemAdd(svc, logg))
		r.Post(fmt.Sprintf("/update_%s/{id}", kind.Name), controllers.WorkItemUpdate(svc, logg))
		r.Get(fmt.Sprintf("/delete_%s/{id}", kind.Name), controllers.WorkItemDelete(svc, logg))
	}
}

func mountAdmin(r chi.Router, deps Dependencies, logg *logger.Logger) {
	r.Get("/", controllers.AdminDashboard(deps.Admin, logg))

	opts := controllers.UserFormOptions{Companies: deps.Companies, Roles: deps.Roles}
	r.Get("/users", controllers.AdminUsers(deps.Users, logg))
	r.Get("/add_user", controllers.AdminAddUserPage(opts, logg))
	r.Post("/add_user", controllers.AdminAddUser(deps.Users, logg))
	r.Get("/edit_user/{id}", controllers.AdminEditUserPage(deps.Users, opts, logg))
	r.Post("/edit_user/{id}", controllers.AdminEditUser(deps.Users, logg))
	r.Get("/delete_user/{id}", controllers.AdminDeleteUser(deps.Users, logg))

	r.Get("/companies", controllers.AdminCompanies(deps.Companies, logg))
	r.Get("/add_company", controllers.AdminAddCompanyPage())
	r.Post("/add_company", controllers.AdminAddCompany(deps.Companies, logg))
	r.Get("/edit_company/{id}", controllers.AdminEditCompanyPage(deps.Companies, logg))
	r.Post("/edit_company/{id}", controllers.AdminEditCompany(deps.Companies, logg))
	r.Get("/delete_company/{id}", controllers.AdminDeleteCompany(deps.Companies, logg))

	r.Get("/roles", controllers.AdminRoles(deps.Roles, logg))
	r.Get("/add_role", controllers.AdminAddRolePage())
	r.Post("/add_role", controllers.AdminAddRole(deps.Roles, logg))
	r.Get("/edit_role/{id}", controllers.AdminEditRolePage(deps.Roles, logg))
	r.Post("/edit_role/{id}", controllers.AdminEditRole(deps.Roles, logg))
	r.Get("/delete_role/{id}", controllers.AdminDeleteRole(deps.Roles, logg))

	for _, kind := range workitems.Kinds() {
		var svc workitems.Service
		if deps.WorkItems != nil {
			svc = deps.WorkItems.For(kind)
		}
		r.Get("/"+kind.Name+"s", controllers.AdminWorkItems(svc, logg))
	}
}
