package complaints

import (
	"github.com/gofiber/fiber/v2"
	"github.com/societyhub/backend/internal/apps"
	"github.com/societyhub/backend/internal/middleware"
	"github.com/societyhub/backend/internal/tenant"
)

// Plugin implements the apps.Plugin interface for complaints.
type Plugin struct{}

func New() *Plugin {
	return &Plugin{}
}

func (p *Plugin) ID() string { return "complaints" }

func (p *Plugin) Models() []interface{} {
	return []interface{}{
		&Complaint{},
		&StatusHistory{},
	}
}

func (p *Plugin) RegisterRoutes(router fiber.Router, env *apps.Env) {
	svc := NewComplaintService(env.DB)
	handler := NewComplaintHandler(svc, env.Residents)

	scoped := middleware.SocietyRequired()

	router.Get("/get-complaints", scoped, handler.List)
	router.Post("/post-complaint", middleware.RoleRequired(tenant.RoleResident), scoped, handler.File)
	router.Put("/change-status", middleware.RoleRequired(tenant.RoleSociety), scoped, handler.ChangeStatus)
	router.Get("/get-resident", middleware.StaffRequired(), scoped, handler.Resident)
	router.Get("/history/:id", scoped, handler.History)
}
