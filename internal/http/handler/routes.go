package handler

import (
	"github.com/gofiber/fiber/v2"

	"nucleav/internal/config"
	"nucleav/internal/http/middleware"
	"nucleav/internal/notify"
	"nucleav/internal/service/company"
	"nucleav/internal/service/dashboard"
	"nucleav/internal/session"
	"nucleav/internal/storage"
	"nucleav/internal/upstream"
)

// Deps bundles everything the route surface needs.
type Deps struct {
	Cfg       *config.AppConfig
	Sessions  *session.Manager
	Store     session.Store
	API       upstream.Client
	Companies *company.Service
	Dashboard *dashboard.Service
	Hub       *notify.Hub
	Assets    storage.Storage
}

// RegisterRoutes attaches the full HTTP surface to the provided Fiber app:
// health probes, the JSON API under /v1 and the page shell routes.
// Keep handlers minimal; orchestration lives in the services.
func RegisterRoutes(app *fiber.App, d Deps) {
	// Session resolution runs for every request; guards decide per route.
	app.Use(middleware.ResolveSession(d.Sessions, d.Cfg.Auth.CookieName))

	app.Get("/health", HealthCheck(d.Store))
	app.Get("/healthz", LivenessProbe())

	v1 := app.Group("/v1")

	// Session endpoints: creating and inspecting a session is public.
	v1.Post("/session", CreateSession(d.Sessions, d.Cfg))
	v1.Get("/session", GetSession())
	v1.Delete("/session", DeleteSession(d.Sessions, d.Cfg, d.Companies, d.Dashboard))

	// Everything below requires an authenticated session; no upstream
	// request is ever fired without a resolved token.
	auth := v1.Group("", middleware.RequireSession())

	auth.Get("/dashboard", GetDashboard(d.Dashboard))

	auth.Get("/companies", ListCompanies(d.Companies))
	auth.Post("/companies", CreateCompany(d.Companies))
	auth.Get("/companies/:cif", GetCompany(d.Companies))
	auth.Put("/companies/:cif", UpdateCompany(d.Companies))
	auth.Delete("/companies/:cif", DeleteCompany(d.Companies))

	auth.Get("/materials", ListMaterials(d.API))
	auth.Get("/network", ListNetwork(d.API))
	auth.Get("/profile", GetProfile(d.API))
	auth.Put("/profile", UpdateProfile(d.API, d.Sessions))

	auth.Get("/notifications", GetNotification(d.Hub))
	auth.Delete("/notifications", DismissNotification(d.Hub))

	if d.Assets != nil {
		auth.Post("/assets/:kind", UploadAsset(d.Assets))
	}

	// Page shell routes. The guard list is fixed; unauthenticated visits
	// redirect to /login.
	for _, p := range PublicPages {
		app.Get(p, Page())
	}
	guard := middleware.RequireSessionRedirect("/login")
	for _, p := range GuardedPages {
		app.Get(p, guard, Page())
	}
}
