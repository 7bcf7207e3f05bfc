package services

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/societyhub/backend/internal/models"
	"gorm.io/gorm"
)

var ErrResidentNotFound = errors.New("resident not found")

// ResidentCard is the public face of a resident shown next to their notices,
// blogs and complaints.
type ResidentCard struct {
	Name        string `json:"name"`
	FlatNumber  string `json:"flat_number"`
	SocietyCode string `json:"society_code"`
}

// ResidentLookup resolves residents by ID with an optional cache in front of
// the database.
type ResidentLookup struct {
	db    *gorm.DB
	cache fiber.Storage
	ttl   time.Duration
}

// NewResidentLookup builds a lookup. cache may be nil.
func NewResidentLookup(db *gorm.DB, cache fiber.Storage, ttl time.Duration) *ResidentLookup {
	if ttl <= 0 {
		ttl = 10 * time.Minute
	}
	return &ResidentLookup{db: db, cache: cache, ttl: ttl}
}

func cacheKey(id uuid.UUID) string { return "resident:" + id.String() }

func (l *ResidentLookup) Lookup(id uuid.UUID) (ResidentCard, error) {
	if l.cache != nil {
		if raw, err := l.cache.Get(cacheKey(id)); err == nil && raw != nil {
			var card ResidentCard
			if json.Unmarshal(raw, &card) == nil {
				return card, nil
			}
		}
	}

	var resident models.Resident
	if err := l.db.Preload("Flat").First(&resident, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ResidentCard{}, ErrResidentNotFound
		}
		return ResidentCard{}, fmt.Errorf("failed to load resident: %w", err)
	}
	card := ResidentCard{
		Name:        resident.Name,
		FlatNumber:  resident.Flat.Number,
		SocietyCode: resident.SocietyCode,
	}

	if l.cache != nil {
		if raw, err := json.Marshal(card); err == nil {
			if err := l.cache.Set(cacheKey(id), raw, l.ttl); err != nil {
				slog.Warn("resident cache write failed", "error", err, "component", "cache")
			}
		}
	}
	return card, nil
}

