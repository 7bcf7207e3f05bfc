package handlers

import (
	"errors"
	"log/slog"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/societyhub/backend/internal/dto"
	"github.com/societyhub/backend/internal/services"
	"github.com/societyhub/backend/internal/tenant"
)

type AuthHandler struct {
	authService *services.AuthService
}

func NewAuthHandler(authService *services.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

func (h *AuthHandler) RegisterFederation(c *fiber.Ctx) error {
	var req dto.FederationRegisterRequest
	if err := c.BodyParser(&req); err != nil {
		return badBody(c)
	}

	resp, err := h.authService.RegisterFederation(&req)
	if err != nil {
		return accountError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(resp)
}

func (h *AuthHandler) LoginFederation(c *fiber.Ctx) error {
	return h.login(c, h.authService.LoginFederation)
}

func (h *AuthHandler) LoginSociety(c *fiber.Ctx) error {
	return h.login(c, h.authService.LoginSociety)
}

func (h *AuthHandler) LoginResident(c *fiber.Ctx) error {
	return h.login(c, h.authService.LoginResident)
}

func (h *AuthHandler) login(c *fiber.Ctx, fn func(*dto.LoginRequest) (*dto.SessionResponse, error)) error {
	var req dto.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return badBody(c)
	}

	resp, err := fn(&req)
	if err != nil {
		return accountError(c, err)
	}
	return c.JSON(resp)
}

func (h *AuthHandler) AddSociety(c *fiber.Ctx) error {
	actor, err := tenant.GetActor(c)
	if err != nil {
		return unauthorized(c)
	}
	var req dto.SocietyRequest
	if err := c.BodyParser(&req); err != nil {
		return badBody(c)
	}

	resp, err := h.authService.AddSociety(actor, &req)
	if err != nil {
		return accountError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(resp)
}

func (h *AuthHandler) ListSocieties(c *fiber.Ctx) error {
	actor, err := tenant.GetActor(c)
	if err != nil {
		return unauthorized(c)
	}

	resp, err := h.authService.ListSocieties(actor)
	if err != nil {
		return accountError(c, err)
	}
	return c.JSON(resp)
}

func (h *AuthHandler) UpdateSociety(c *fiber.Ctx) error {
	actor, err := tenant.GetActor(c)
	if err != nil {
		return unauthorized(c)
	}
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid society ID",
		})
	}
	var req dto.SocietyRequest
	if err := c.BodyParser(&req); err != nil {
		return badBody(c)
	}

	resp, err := h.authService.UpdateSociety(actor, id, &req)
	if err != nil {
		return accountError(c, err)
	}
	return c.JSON(resp)
}

func (h *AuthHandler) CreateFlat(c *fiber.Ctx) error {
	var req dto.FlatRequest
	if err := c.BodyParser(&req); err != nil {
		return badBody(c)
	}

	resp, err := h.authService.CreateFlat(tenant.GetSocietyCode(c), &req)
	if err != nil {
		return accountError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(resp)
}

func (h *AuthHandler) ListFlats(c *fiber.Ctx) error {
	societyCode := tenant.GetSocietyCode(c)
	if code := c.Params("code"); code != "" && code != societyCode {
		return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{
			Error: true, Message: "Access to another society is not allowed",
		})
	}

	resp, err := h.authService.ListFlats(societyCode)
	if err != nil {
		return accountError(c, err)
	}
	return c.JSON(resp)
}

func accountError(c *fiber.Ctx, err error) error {
	status := fiber.StatusInternalServerError
	switch {
	case errors.Is(err, services.ErrMissingFields), errors.Is(err, services.ErrWeakPassword):
		status = fiber.StatusBadRequest
	case errors.Is(err, services.ErrCodeTaken), errors.Is(err, services.ErrEmailTaken), errors.Is(err, services.ErrFlatTaken):
		status = fiber.StatusConflict
	case errors.Is(err, services.ErrInvalidCredentials):
		status = fiber.StatusUnauthorized
	case errors.Is(err, services.ErrSocietyNotFound):
		status = fiber.StatusNotFound
	}

	if status == fiber.StatusInternalServerError {
		slog.Error("account request failed", "error", err, "request_id", c.Locals("requestid"), "component", "accounts")
		return c.Status(status).JSON(dto.ErrorResponse{
			Error: true, Message: "Internal server error",
		})
	}
	return c.Status(status).JSON(dto.ErrorResponse{
		Error: true, Message: err.Error(),
	})
}

func badBody(c *fiber.Ctx) error {
	return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
		Error: true, Message: "Invalid request body",
	})
}

func unauthorized(c *fiber.Ctx) error {
	return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
		Error: true, Message: "Unauthorized",
	})
}
