package apps

import (
	"github.com/gofiber/fiber/v2"
	"github.com/societyhub/backend/internal/config"
	"github.com/societyhub/backend/internal/services"
	"github.com/societyhub/backend/internal/tenant"
	"gorm.io/gorm"
)

// Env carries the shared dependencies a plugin's services are built from.
type Env struct {
	DB        *gorm.DB
	Config    *config.Config
	Directory *tenant.Directory
	Residents *services.ResidentLookup
}

// Plugin defines the interface every feature module must implement.
type Plugin interface {
	// ID returns the module identifier. It is also the route prefix under /api.
	ID() string

	// Models returns the list of GORM model pointers for AutoMigrate.
	Models() []interface{}

	// RegisterRoutes mounts the module's routes on the given Fiber group.
	// The group is already prefixed with /api/<ID> and has JWT and society
	// scope middleware applied.
	RegisterRoutes(router fiber.Router, env *Env)
}
