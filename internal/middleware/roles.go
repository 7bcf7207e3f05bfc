package middleware

import (
	"github.com/gofiber/fiber/v2"
	"github.com/societyhub/backend/internal/dto"
	"github.com/societyhub/backend/internal/tenant"
)

// RoleRequired rejects callers whose role claim is not one of roles. It must
// run after JWTProtected.
func RoleRequired(roles ...string) fiber.Handler {
	allowed := make(map[string]bool, len(roles))
	for _, r := range roles {
		allowed[r] = true
	}

	return func(c *fiber.Ctx) error {
		actor, err := tenant.GetActor(c)
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
				Error: true, Message: "Unauthorized",
			})
		}
		if !allowed[actor.Role] {
			return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{
				Error: true, Message: "You do not have permission to do this",
			})
		}
		return c.Next()
	}
}

// StaffRequired admits society and federation staff.
func StaffRequired() fiber.Handler {
	return RoleRequired(tenant.RoleSociety, tenant.RoleFederation)
}
