package community

import (
	"errors"
	"log/slog"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/societyhub/backend/internal/dto"
	"github.com/societyhub/backend/internal/services"
	"github.com/societyhub/backend/internal/tenant"
)

type BlogHandler struct {
	service   *BlogService
	residents *services.ResidentLookup
}

func NewBlogHandler(service *BlogService, residents *services.ResidentLookup) *BlogHandler {
	return &BlogHandler{service: service, residents: residents}
}

// List handles GET /api/blogs/all-blogs
func (h *BlogHandler) List(c *fiber.Ctx) error {
	blogs, err := h.service.List(tenant.GetSocietyCode(c))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(blogs)
}

// AuthorName handles GET /api/blogs/author-name/:id
func (h *BlogHandler) AuthorName(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return badRequest(c, "Invalid user ID")
	}
	card, err := h.residents.Lookup(id)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{"author_name": card.Name, "flat_id": card.FlatNumber})
}

// Create handles POST /api/blogs/add-blog and /api/blogs/add-admin-blog
func (h *BlogHandler) Create(c *fiber.Ctx) error {
	actor, err := tenant.GetActor(c)
	if err != nil {
		return unauthorized(c)
	}
	var in BlogInput
	if err := c.BodyParser(&in); err != nil {
		return badRequest(c, "Invalid request body")
	}

	blog, err := h.service.Create(actor, tenant.GetSocietyCode(c), &in)
	if err != nil {
		return fail(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(blog)
}

// Update handles PUT /api/blogs/update-blog/:id
func (h *BlogHandler) Update(c *fiber.Ctx) error {
	actor, err := tenant.GetActor(c)
	if err != nil {
		return unauthorized(c)
	}
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return badRequest(c, "Invalid blog ID")
	}
	var in BlogInput
	if err := c.BodyParser(&in); err != nil {
		return badRequest(c, "Invalid request body")
	}

	blog, err := h.service.Update(actor, tenant.GetSocietyCode(c), id, &in)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(blog)
}

// Delete handles DELETE /api/blogs/delete-blog/:id
func (h *BlogHandler) Delete(c *fiber.Ctx) error {
	actor, err := tenant.GetActor(c)
	if err != nil {
		return unauthorized(c)
	}
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return badRequest(c, "Invalid blog ID")
	}

	if err := h.service.Delete(actor, tenant.GetSocietyCode(c), id); err != nil {
		return fail(c, err)
	}
	return c.JSON(dto.MessageResponse{Message: "Blog deleted"})
}

func fail(c *fiber.Ctx, err error) error {
	status := fiber.StatusInternalServerError
	switch {
	case errors.Is(err, ErrInvalidBlog):
		status = fiber.StatusBadRequest
	case errors.Is(err, ErrNotAuthor):
		status = fiber.StatusForbidden
	case errors.Is(err, ErrBlogNotFound), errors.Is(err, services.ErrResidentNotFound):
		status = fiber.StatusNotFound
	}

	if status == fiber.StatusInternalServerError {
		slog.Error("blog request failed",
			"error", err,
			"request_id", c.Locals("requestid"),
			"society_code", tenant.GetSocietyCode(c),
			"component", "blogs",
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
