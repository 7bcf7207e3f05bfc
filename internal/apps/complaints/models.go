package complaints

import (
	"time"

	"github.com/google/uuid"
	"github.com/societyhub/backend/internal/lifecycle"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Complaint is a resident's report to the society committee.
type Complaint struct {
	ID          uuid.UUID                   `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	SocietyCode string                      `gorm:"size:50;not null;index" json:"society_code"`
	ResidentID  uuid.UUID                   `gorm:"type:uuid;not null;index" json:"resident_id"`
	Title       string                      `gorm:"size:255;not null" json:"title"`
	Content     string                      `gorm:"type:text;not null" json:"content"`
	Status      lifecycle.ComplaintStatus   `gorm:"size:30;not null;index" json:"status"`
	Comment     string                      `gorm:"type:text" json:"comment,omitempty"`
	Images      datatypes.JSONSlice[string] `gorm:"type:jsonb" json:"images"`
	ClosedAt    *time.Time                  `json:"closed_at,omitempty"`
	CreatedAt   time.Time                   `json:"created_at"`
	UpdatedAt   time.Time                   `json:"updated_at"`
	DeletedAt   gorm.DeletedAt              `gorm:"index" json:"-"`
}

// StatusHistory is one recorded status change.
type StatusHistory struct {
	ID          uuid.UUID                 `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	ComplaintID uuid.UUID                 `gorm:"type:uuid;not null;index" json:"complaint_id"`
	From        lifecycle.ComplaintStatus `gorm:"column:from_status;size:30;not null" json:"from"`
	To          lifecycle.ComplaintStatus `gorm:"column:to_status;size:30;not null" json:"to"`
	ChangedBy   uuid.UUID                 `gorm:"type:uuid;not null" json:"changed_by"`
	Comment     string                    `gorm:"type:text" json:"comment,omitempty"`
	CreatedAt   time.Time                 `json:"created_at"`
}

func (StatusHistory) TableName() string { return "complaint_status_history" }

type ComplaintInput struct {
	Title   string `json:"title"`
	Content string `json:"content"`
}

type StatusChange struct {
	ID      string                    `json:"id"`
	Status  lifecycle.ComplaintStatus `json:"status"`
	Comment string                    `json:"comment"`
	Images  []string                  `json:"images"`
}

type ResidentResponse struct {
	Name   string `json:"name"`
	FlatID string `json:"flat_id"`
}
