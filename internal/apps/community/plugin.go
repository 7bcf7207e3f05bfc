package community

import (
	"github.com/gofiber/fiber/v2"
	"github.com/societyhub/backend/internal/apps"
	"github.com/societyhub/backend/internal/middleware"
	"github.com/societyhub/backend/internal/tenant"
)

// Plugin implements the apps.Plugin interface for community blogs.
type Plugin struct{}

func New() *Plugin {
	return &Plugin{}
}

func (p *Plugin) ID() string { return "blogs" }

func (p *Plugin) Models() []interface{} {
	return []interface{}{&Blog{}}
}

func (p *Plugin) RegisterRoutes(router fiber.Router, env *apps.Env) {
	svc := NewBlogService(env.DB)
	handler := NewBlogHandler(svc, env.Residents)

	scoped := middleware.SocietyRequired()

	router.Get("/all-blogs", scoped, handler.List)
	router.Get("/author-name/:id", handler.AuthorName)
	router.Post("/add-blog", middleware.RoleRequired(tenant.RoleResident), scoped, handler.Create)
	router.Post("/add-admin-blog", middleware.StaffRequired(), scoped, handler.Create)
	router.Put("/update-blog/:id", scoped, handler.Update)
	router.Delete("/delete-blog/:id", scoped, handler.Delete)
}
