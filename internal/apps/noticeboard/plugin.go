package noticeboard

import (
	"github.com/gofiber/fiber/v2"
	"github.com/societyhub/backend/internal/apps"
	"github.com/societyhub/backend/internal/middleware"
	"github.com/societyhub/backend/internal/tenant"
)

// Plugin implements the apps.Plugin interface for the notice board.
type Plugin struct{}

func New() *Plugin {
	return &Plugin{}
}

func (p *Plugin) ID() string { return "notices" }

func (p *Plugin) Models() []interface{} {
	return []interface{}{
		&Notice{},
		&PollOption{},
		&Vote{},
	}
}

func (p *Plugin) RegisterRoutes(router fiber.Router, env *apps.Env) {
	svc := NewNoticeService(env.DB, env.Directory)
	handler := NewNoticeHandler(svc, env.Residents, env.Directory)

	resident := middleware.RoleRequired(tenant.RoleResident)
	society := middleware.RoleRequired(tenant.RoleSociety)
	federation := middleware.RoleRequired(tenant.RoleFederation)
	staff := middleware.StaffRequired()
	scoped := middleware.SocietyRequired()

	router.Get("/all-notices", scoped, handler.AllNotices)
	router.Get("/user-notices", handler.UserNotices)
	router.Post("/post-user-notice", resident, scoped, handler.PostUserNotice)
	router.Post("/post-notice", society, scoped, handler.PostNotice)
	router.Put("/edit-notice/:id", staff, scoped, handler.EditNotice)
	router.Put("/approve-notice/:id", society, scoped, handler.ApproveNotice)

	router.Get("/federation-notice/get/:id", handler.FederationNotices)
	router.Post("/federation-notice/post", federation, handler.PostFederationNotice)
	router.Put("/federation-notice/update/:id", federation, handler.UpdateFederationNotice)

	router.Get("/user-name/:id", handler.AuthorName)
	router.Get("/federation-id/:code", handler.FederationID)
	router.Get("/poll-options/:id", handler.PollOptions)
	router.Post("/vote", handler.Vote)
}
