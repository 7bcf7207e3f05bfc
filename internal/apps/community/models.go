package community

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Blog is a community post. Committee posts carry no user.
type Blog struct {
	ID          uuid.UUID      `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	SocietyCode string         `gorm:"size:50;not null;index" json:"society_code"`
	UserID      *uuid.UUID     `gorm:"type:uuid;index" json:"user_id"`
	Title       string         `gorm:"size:255;not null" json:"title"`
	Content     string         `gorm:"type:text;not null" json:"content"`
	Image       string         `gorm:"size:1024" json:"image,omitempty"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`
}

type BlogInput struct {
	Title   string `json:"title"`
	Content string `json:"content"`
	Image   string `json:"image"`
}
