package complaints

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

// ComplaintHandler handles HTTP requests for complaints.
type ComplaintHandler struct {
	service   *ComplaintService
	residents *services.ResidentLookup
}

func NewComplaintHandler(service *ComplaintService, residents *services.ResidentLookup) *ComplaintHandler {
	return &ComplaintHandler{service: service, residents: residents}
}

// List handles GET /api/complaints/get-complaints
func (h *ComplaintHandler) List(c *fiber.Ctx) error {
	actor, err := tenant.GetActor(c)
	if err != nil {
		return unauthorized(c)
	}
	complaints, err := h.service.List(actor, tenant.GetSocietyCode(c))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(complaints)
}

// File handles POST /api/complaints/post-complaint
func (h *ComplaintHandler) File(c *fiber.Ctx) error {
	actor, err := tenant.GetActor(c)
	if err != nil {
		return unauthorized(c)
	}
	var in ComplaintInput
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid request body",
		})
	}

	complaint, err := h.service.File(actor, &in)
	if err != nil {
		return fail(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(complaint)
}

// ChangeStatus handles PUT /api/complaints/change-status
func (h *ComplaintHandler) ChangeStatus(c *fiber.Ctx) error {
	actor, err := tenant.GetActor(c)
	if err != nil {
		return unauthorized(c)
	}
	var change StatusChange
	if err := c.BodyParser(&change); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid request body",
		})
	}

	complaint, err := h.service.ChangeStatus(actor, tenant.GetSocietyCode(c), &change)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(complaint)
}

// Resident handles GET /api/complaints/get-resident
func (h *ComplaintHandler) Resident(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Query("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid resident ID",
		})
	}
	card, err := h.residents.Lookup(id)
	if err != nil {
		return fail(c, err)
	}
	if card.SocietyCode != tenant.GetSocietyCode(c) {
		return fail(c, services.ErrResidentNotFound)
	}
	return c.JSON(ResidentResponse{Name: card.Name, FlatID: card.FlatNumber})
}

// History handles GET /api/complaints/history/:id
func (h *ComplaintHandler) History(c *fiber.Ctx) error {
	actor, err := tenant.GetActor(c)
	if err != nil {
		return unauthorized(c)
	}
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return fail(c, ErrComplaintNotFound)
	}
	history, err := h.service.History(actor, tenant.GetSocietyCode(c), id)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(history)
}

func fail(c *fiber.Ctx, err error) error {
	status := fiber.StatusInternalServerError
	switch {
	case errors.Is(err, ErrInvalidComplaint), errors.Is(err, lifecycle.ErrUnknownStatus),
		errors.Is(err, lifecycle.ErrProofRequired), errors.Is(err, lifecycle.ErrCommentRequired):
		status = fiber.StatusBadRequest
	case errors.Is(err, ErrComplaintNotFound), errors.Is(err, services.ErrResidentNotFound):
		status = fiber.StatusNotFound
	case errors.Is(err, lifecycle.ErrTerminalStatus), errors.Is(err, lifecycle.ErrInvalidTransition):
		status = fiber.StatusConflict
	}

	if status == fiber.StatusInternalServerError {
		slog.Error("complaint request failed",
			"error", err,
			"request_id", c.Locals("requestid"),
			"actor_id", c.Locals("actor_id"),
			"society_code", tenant.GetSocietyCode(c),
			"component", "complaints",
		)
		return c.Status(status).JSON(dto.ErrorResponse{Error: true, Message: "Internal server error"})
	}
	return c.Status(status).JSON(dto.ErrorResponse{Error: true, Message: err.Error()})
}

func unauthorized(c *fiber.Ctx) error {
	return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Error: true, Message: "Unauthorized"})
}
