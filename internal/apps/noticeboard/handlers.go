package noticeboard

import (
	"errors"
	"log/slog"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/societyhub/backend/internal/dto"
	"github.com/societyhub/backend/internal/lifecycle"
	"github.com/societyhub/backend/internal/services"
	"github.com/societyhub/backend/internal/tenant"
)

// NoticeHandler handles HTTP requests for notices and polls.
type NoticeHandler struct {
	service   *NoticeService
	residents *services.ResidentLookup
	directory *tenant.Directory
}

func NewNoticeHandler(service *NoticeService, residents *services.ResidentLookup, directory *tenant.Directory) *NoticeHandler {
	return &NoticeHandler{service: service, residents: residents, directory: directory}
}

// AllNotices handles GET /api/notices/all-notices
func (h *NoticeHandler) AllNotices(c *fiber.Ctx) error {
	notices, err := h.service.ListSociety(tenant.GetSocietyCode(c))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(notices)
}

// FederationNotices handles GET /api/notices/federation-notice/get/:id
func (h *NoticeHandler) FederationNotices(c *fiber.Ctx) error {
	actor, err := tenant.GetActor(c)
	if err != nil {
		return unauthorized(c)
	}
	code := c.Params("id")
	if code != actor.FederationCode && h.directory.FederationOf(actor.SocietyCode) != code {
		return fail(c, ErrForbidden)
	}

	notices, err := h.service.ListFederation(code)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(notices)
}

// UserNotices handles GET /api/notices/user-notices
func (h *NoticeHandler) UserNotices(c *fiber.Ctx) error {
	actor, err := tenant.GetActor(c)
	if err != nil {
		return unauthorized(c)
	}
	userID := actor.ID
	if raw := c.Query("user_id"); raw != "" {
		if userID, err = uuid.Parse(raw); err != nil {
			return badRequest(c, "Invalid user ID")
		}
	}
	if userID != actor.ID && !actor.IsStaff() {
		return fail(c, ErrForbidden)
	}

	scope := ""
	if userID != actor.ID {
		scope = tenant.GetSocietyCode(c)
	}
	notices, err := h.service.ListByUser(userID, scope)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(notices)
}

// PostUserNotice handles POST /api/notices/post-user-notice
func (h *NoticeHandler) PostUserNotice(c *fiber.Ctx) error {
	actor, err := tenant.GetActor(c)
	if err != nil {
		return unauthorized(c)
	}
	var in NoticeInput
	if err := c.BodyParser(&in); err != nil {
		return badRequest(c, "Invalid request body")
	}

	n, err := h.service.Submit(actor, &in)
	if err != nil {
		return fail(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(n)
}

// PostNotice handles POST /api/notices/post-notice
func (h *NoticeHandler) PostNotice(c *fiber.Ctx) error {
	actor, err := tenant.GetActor(c)
	if err != nil {
		return unauthorized(c)
	}
	var in NoticeInput
	if err := c.BodyParser(&in); err != nil {
		return badRequest(c, "Invalid request body")
	}

	n, err := h.service.PostSociety(actor, tenant.GetSocietyCode(c), &in)
	if err != nil {
		return fail(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(n)
}

// EditNotice handles PUT /api/notices/edit-notice/:id
func (h *NoticeHandler) EditNotice(c *fiber.Ctx) error {
	return h.edit(c, lifecycle.ScopeSociety, tenant.GetSocietyCode(c))
}

// UpdateFederationNotice handles PUT /api/notices/federation-notice/update/:id
func (h *NoticeHandler) UpdateFederationNotice(c *fiber.Ctx) error {
	actor, err := tenant.GetActor(c)
	if err != nil {
		return unauthorized(c)
	}
	return h.edit(c, lifecycle.ScopeFederation, actor.FederationCode)
}

func (h *NoticeHandler) edit(c *fiber.Ctx, kind, code string) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return badRequest(c, "Invalid notice ID")
	}
	var edit NoticeEdit
	if err := c.BodyParser(&edit); err != nil {
		return badRequest(c, "Invalid request body")
	}

	n, err := h.service.Edit(kind, code, id, &edit)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(n)
}

// ApproveNotice handles PUT /api/notices/approve-notice/:id
func (h *NoticeHandler) ApproveNotice(c *fiber.Ctx) error {
	actor, err := tenant.GetActor(c)
	if err != nil {
		return unauthorized(c)
	}
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return badRequest(c, "Invalid notice ID")
	}

	n, err := h.service.Approve(actor, tenant.GetSocietyCode(c), id)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(n)
}

// PostFederationNotice handles POST /api/notices/federation-notice/post
func (h *NoticeHandler) PostFederationNotice(c *fiber.Ctx) error {
	actor, err := tenant.GetActor(c)
	if err != nil {
		return unauthorized(c)
	}
	var in NoticeInput
	if err := c.BodyParser(&in); err != nil {
		return badRequest(c, "Invalid request body")
	}

	n, err := h.service.PostFederation(actor, &in)
	if err != nil {
		return fail(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(n)
}

// AuthorName handles GET /api/notices/user-name/:id
func (h *NoticeHandler) AuthorName(c *fiber.Ctx) error {
	actor, err := tenant.GetActor(c)
	if err != nil {
		return unauthorized(c)
	}
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return badRequest(c, "Invalid user ID")
	}
	card, err := h.residents.Lookup(id)
	if err != nil {
		return fail(c, err)
	}
	if !h.canSee(actor, card.SocietyCode) {
		return fail(c, services.ErrResidentNotFound)
	}
	return c.JSON(AuthorResponse{AuthorName: card.Name, FlatID: card.FlatNumber})
}

// canSee reports whether actor may read about residents of societyCode.
// Federation staff see their member societies; everyone else sees their own.
func (h *NoticeHandler) canSee(actor tenant.Actor, societyCode string) bool {
	if actor.Role == tenant.RoleFederation {
		return h.directory.InFederation(societyCode, actor.FederationCode)
	}
	return societyCode != "" && societyCode == actor.SocietyCode
}

// FederationID handles GET /api/notices/federation-id/:code
func (h *NoticeHandler) FederationID(c *fiber.Ctx) error {
	fed := h.directory.FederationOf(c.Params("code"))
	if fed == "" {
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{
			Error: true, Message: "Society not found",
		})
	}
	return c.JSON(fiber.Map{"federation_id": fed})
}

// PollOptions handles GET /api/notices/poll-options/:id
func (h *NoticeHandler) PollOptions(c *fiber.Ctx) error {
	actor, err := tenant.GetActor(c)
	if err != nil {
		return unauthorized(c)
	}
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return badRequest(c, "Invalid notice ID")
	}

	tallies, err := h.service.PollOptions(actor, id)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(tallies)
}

// Vote handles POST /api/notices/vote
func (h *NoticeHandler) Vote(c *fiber.Ctx) error {
	actor, err := tenant.GetActor(c)
	if err != nil {
		return unauthorized(c)
	}
	var req struct {
		OptionID string `json:"option_id"`
		UserID   string `json:"user_id"`
	}
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}
	optionID, err := uuid.Parse(req.OptionID)
	if err != nil {
		return badRequest(c, "Invalid option ID")
	}
	if req.UserID != "" && req.UserID != actor.ID.String() {
		return fail(c, ErrForbidden)
	}

	if err := h.service.Vote(actor, optionID); err != nil {
		return fail(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.MessageResponse{Message: "Vote recorded"})
}

func fail(c *fiber.Ctx, err error) error {
	status := fiber.StatusInternalServerError
	switch {
	case errors.Is(err, ErrInvalidNotice), errors.Is(err, ErrPollNeedsOptions),
		errors.Is(err, ErrNotAPoll), errors.Is(err, ErrPollClosed):
		status = fiber.StatusBadRequest
	case errors.Is(err, ErrForbidden):
		status = fiber.StatusForbidden
	case errors.Is(err, ErrNoticeNotFound), errors.Is(err, ErrOptionNotFound),
		errors.Is(err, services.ErrResidentNotFound):
		status = fiber.StatusNotFound
	case errors.Is(err, ErrAlreadyVoted):
		status = fiber.StatusConflict
	}

	if status == fiber.StatusInternalServerError {
		slog.Error("notice request failed",
			"error", err,
			"request_id", c.Locals("requestid"),
			"actor_id", c.Locals("actor_id"),
			"society_code", tenant.GetSocietyCode(c),
			"component", "notices",
		)
		return c.Status(status).JSON(dto.ErrorResponse{Error: true, Message: "Internal server error"})
	}
	return c.Status(status).JSON(dto.ErrorResponse{Error: true, Message: err.Error()})
}

func badRequest(c *fiber.Ctx, msg string) error {
	return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: true, Message: msg})
}

func unauthorized(c *fiber.Ctx) error {
	return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Error: true, Message: "Unauthorized"})
}
