package middleware

import (
	"github.com/gofiber/fiber/v2"
	"github.com/societyhub/backend/internal/dto"
	"github.com/societyhub/backend/internal/tenant"
)

// requestedSociety reads the society a caller asked for from the
// X-Society-Code header or the society_code / society_id query params.
func requestedSociety(c *fiber.Ctx) string {
	if code := c.Get("X-Society-Code"); code != "" {
		return code
	}
	if code := c.Query("society_code"); code != "" {
		return code
	}
	return c.Query("society_id")
}

// ScopeMiddleware resolves the society a request acts on and stores it in
// c.Locals("society_code"). Residents and society staff are pinned to the
// society in their token. Federation staff may name any society of their
// federation; without one the local stays empty.
func ScopeMiddleware(directory *tenant.Directory) fiber.Handler {
	return func(c *fiber.Ctx) error {
		actor, err := tenant.GetActor(c)
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
				Error: true, Message: "Unauthorized",
			})
		}

		requested := requestedSociety(c)

		switch actor.Role {
		case tenant.RoleFederation:
			if requested != "" && !directory.InFederation(requested, actor.FederationCode) {
				return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{
					Error: true, Message: "Society is not part of your federation",
				})
			}
			c.Locals("society_code", requested)
		default:
			if requested != "" && requested != actor.SocietyCode {
				return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{
					Error: true, Message: "Access to another society is not allowed",
				})
			}
			c.Locals("society_code", actor.SocietyCode)
		}

		c.Locals("actor_id", actor.ID.String())
		return c.Next()
	}
}

// SocietyRequired rejects requests for which ScopeMiddleware resolved no
// society.
func SocietyRequired() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if tenant.GetSocietyCode(c) == "" {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
				Error: true, Message: "society_code is required",
			})
		}
		return c.Next()
	}
}
