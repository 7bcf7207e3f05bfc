package documents

import (
	"github.com/gofiber/fiber/v2"
	"github.com/societyhub/backend/internal/apps"
	"github.com/societyhub/backend/internal/middleware"
)

// Plugin implements the apps.Plugin interface for society documents.
type Plugin struct{}

func New() *Plugin {
	return &Plugin{}
}

func (p *Plugin) ID() string { return "documents" }

func (p *Plugin) Models() []interface{} {
	return []interface{}{&Document{}}
}

func (p *Plugin) RegisterRoutes(router fiber.Router, env *apps.Env) {
	handler := NewDocumentHandler(NewDocumentService(env.DB))

	scoped := middleware.SocietyRequired()
	staff := middleware.StaffRequired()

	router.Get("/get", scoped, handler.List)
	router.Post("/post", staff, scoped, handler.Create)
	router.Delete("/delete/:id", staff, scoped, handler.Delete)
}
