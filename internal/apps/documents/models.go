package documents

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Document is a file the committee shares with the society.
type Document struct {
	ID          uuid.UUID      `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	SocietyCode string         `gorm:"size:50;not null;index" json:"society_code"`
	Title       string         `gorm:"size:255;not null" json:"title"`
	URL         string         `gorm:"size:1024;not null" json:"url"`
	UploadedBy  uuid.UUID      `gorm:"type:uuid;not null" json:"-"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`
}

type DocumentInput struct {
	Title string `json:"title"`
	URL   string `json:"url"`
}
