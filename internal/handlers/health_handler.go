package handlers

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/societyhub/backend/internal/dto"
	"github.com/societyhub/backend/internal/tenant"
)

// Pinger is satisfied by the Redis storage.
type Pinger interface {
	Ping(ctx context.Context) error
}

type HealthHandler struct {
	directory *tenant.Directory
	dbPing    func() error
	cache     Pinger
}

// NewHealthHandler reports on the database and, when configured, the cache.
// cache may be nil.
func NewHealthHandler(directory *tenant.Directory, dbPing func() error, cache Pinger) *HealthHandler {
	return &HealthHandler{directory: directory, dbPing: dbPing, cache: cache}
}

func (h *HealthHandler) Check(c *fiber.Ctx) error {
	dbStatus := "ok"
	if err := h.dbPing(); err != nil {
		dbStatus = "unhealthy: " + err.Error()
	}

	cacheStatus := "disabled"
	if h.cache != nil {
		ctx, cancel := context.WithTimeout(c.UserContext(), 2*time.Second)
		defer cancel()
		cacheStatus = "ok"
		if err := h.cache.Ping(ctx); err != nil {
			cacheStatus = "unhealthy: " + err.Error()
		}
	}

	return c.JSON(dto.HealthResponse{
		Status:       "ok",
		Timestamp:    time.Now().UTC().Format(time.RFC3339),
		DB:           dbStatus,
		Cache:        cacheStatus,
		SocietyCount: h.directory.Count(),
	})
}
