package routes

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/societyhub/backend/internal/apps"
	"github.com/societyhub/backend/internal/config"
	"github.com/societyhub/backend/internal/handlers"
	"github.com/societyhub/backend/internal/middleware"
	"github.com/societyhub/backend/internal/tenant"
)

// rateLimit counts requests per IP. Keys carry prefix so limiters sharing one
// storage keep separate counters.
func rateLimit(prefix string, max int, storage fiber.Storage) fiber.Handler {
	return limiter.New(limiter.Config{
		Max:               max,
		Expiration:        1 * time.Minute,
		LimiterMiddleware: limiter.SlidingWindow{},
		KeyGenerator:      func(c *fiber.Ctx) string { return prefix + c.IP() },
		Storage:           storage,
	})
}

// Setup mounts every route under /api. limiterStorage may be nil, in which
// case the limiter keeps its counters in memory.
func Setup(
	app *fiber.App,
	cfg *config.Config,
	authHandler *handlers.AuthHandler,
	healthHandler *handlers.HealthHandler,
	plugins []apps.Plugin,
	env *apps.Env,
	limiterStorage fiber.Storage,
) {
	api := app.Group("/api")
	api.Use(rateLimit("api:", cfg.RateLimitPerMin, limiterStorage))

	api.Get("/health", healthHandler.Check)

	// Login and registration: stricter limit
	login := rateLimit("login:", 10, limiterStorage)
	api.Post("/federation/register", login, authHandler.RegisterFederation)
	api.Post("/federation/login", login, authHandler.LoginFederation)
	api.Post("/auth/society/login", login, authHandler.LoginSociety)
	api.Post("/resident/login", login, authHandler.LoginResident)

	jwt := middleware.JWTProtected(cfg)

	federation := api.Group("/federation", jwt, middleware.RoleRequired(tenant.RoleFederation))
	federation.Post("/addSociety", authHandler.AddSociety)
	federation.Get("/getSociety", authHandler.ListSocieties)
	federation.Put("/updateSociety/:id", authHandler.UpdateSociety)

	society := api.Group("/auth/society",
		jwt,
		middleware.ScopeMiddleware(env.Directory),
		middleware.RoleRequired(tenant.RoleSociety),
		middleware.SocietyRequired(),
	)
	society.Post("/createFlat", authHandler.CreateFlat)
	society.Get("/getFlatsData/:code", authHandler.ListFlats)

	for _, p := range plugins {
		group := api.Group("/"+p.ID(), jwt, middleware.ScopeMiddleware(env.Directory))
		p.RegisterRoutes(group, env)
	}
}
