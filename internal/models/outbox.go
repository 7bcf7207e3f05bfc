package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

const (
	OutboxPending   = "pending"
	OutboxPublished = "published"
	OutboxFailed    = "failed"
)

// OutboxEvent is a domain event written in the same transaction as the
// change it describes and relayed later.
type OutboxEvent struct {
	ID          uuid.UUID      `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Topic       string         `gorm:"size:100;not null;index" json:"topic"`
	Key         string         `gorm:"size:100" json:"key"`
	Payload     datatypes.JSON `gorm:"type:jsonb;not null" json:"payload"`
	Status      string         `gorm:"size:20;not null;default:'pending';index" json:"status"`
	Attempts    int            `gorm:"default:0" json:"attempts"`
	LastError   string         `gorm:"type:text" json:"last_error,omitempty"`
	CreatedAt   time.Time      `gorm:"index" json:"created_at"`
	PublishedAt *time.Time     `json:"published_at,omitempty"`
}
