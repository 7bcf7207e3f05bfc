package documents

import (
	"errors"
	"log/slog"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/societyhub/backend/internal/dto"
	"github.com/societyhub/backend/internal/tenant"
)

type DocumentHandler struct {
	service *DocumentService
}

func NewDocumentHandler(service *DocumentService) *DocumentHandler {
	return &DocumentHandler{service: service}
}

// List handles GET /api/documents/get
func (h *DocumentHandler) List(c *fiber.Ctx) error {
	docs, err := h.service.List(tenant.GetSocietyCode(c))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(docs)
}

// Create handles POST /api/documents/post
func (h *DocumentHandler) Create(c *fiber.Ctx) error {
	actor, err := tenant.GetActor(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Error: true, Message: "Unauthorized"})
	}
	var in DocumentInput
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: true, Message: "Invalid request body"})
	}

	doc, err := h.service.Create(actor, tenant.GetSocietyCode(c), &in)
	if err != nil {
		return fail(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(doc)
}

// Delete handles DELETE /api/documents/delete/:id
func (h *DocumentHandler) Delete(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return fail(c, ErrDocumentNotFound)
	}
	if err := h.service.Delete(tenant.GetSocietyCode(c), id); err != nil {
		return fail(c, err)
	}
	return c.JSON(dto.MessageResponse{Message: "Document deleted"})
}

func fail(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, ErrInvalidDocument):
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: true, Message: err.Error()})
	case errors.Is(err, ErrDocumentNotFound):
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Error: true, Message: err.Error()})
	}
	slog.Error("document request failed",
		"error", err,
		"request_id", c.Locals("requestid"),
		"society_code", tenant.GetSocietyCode(c),
		"component", "documents",
	)
	return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Error: true, Message: "Internal server error"})
}
