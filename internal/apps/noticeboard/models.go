package noticeboard

import (
	"time"

	"github.com/google/uuid"
	"github.com/societyhub/backend/internal/lifecycle"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Notice is a post on a society or federation notice board. Resident
// submissions start unapproved; staff posts are approved on creation.
type Notice struct {
	ID          uuid.UUID                   `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"notice_id"`
	ScopeKind   string                      `gorm:"size:20;not null;index:idx_notices_scope" json:"scope"`
	ScopeCode   string                      `gorm:"size:50;not null;index:idx_notices_scope" json:"scope_code"`
	Title       string                      `gorm:"size:255;not null" json:"title"`
	Description string                      `gorm:"type:text;not null" json:"description"`
	Type        lifecycle.NoticeType        `gorm:"size:30;not null" json:"type"`
	Approved    bool                        `gorm:"default:false;index" json:"approved"`
	UserID      *uuid.UUID                  `gorm:"type:uuid;index" json:"user_id"`
	Images      datatypes.JSONSlice[string] `gorm:"type:jsonb" json:"images"`
	ApprovedBy  *uuid.UUID                  `gorm:"type:uuid" json:"-"`
	ApprovedAt  *time.Time                  `json:"approved_at,omitempty"`
	CreatedAt   time.Time                   `json:"created_at"`
	UpdatedAt   time.Time                   `json:"updated_at"`
	DeletedAt   gorm.DeletedAt              `gorm:"index" json:"-"`
}

// PollOption is one choice of a poll notice.
type PollOption struct {
	ID        uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"option_id"`
	NoticeID  uuid.UUID `gorm:"type:uuid;not null;index" json:"notice_id"`
	Text      string    `gorm:"size:255;not null" json:"text"`
	Position  int       `gorm:"not null;default:0" json:"-"`
	CreatedAt time.Time `json:"-"`
}

// Vote records one voter's choice. A voter has at most one vote per poll.
type Vote struct {
	ID        uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	NoticeID  uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_votes_notice_voter" json:"notice_id"`
	OptionID  uuid.UUID `gorm:"type:uuid;not null;index" json:"option_id"`
	VoterID   uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_votes_notice_voter" json:"voter_id"`
	CreatedAt time.Time `json:"created_at"`
}

// OptionTally is a poll option with its vote count.
type OptionTally struct {
	ID       uuid.UUID `json:"option_id"`
	NoticeID uuid.UUID `json:"notice_id"`
	Text     string    `json:"text"`
	Votes    int       `json:"votes"`
}

// NoticeInput is the writable part of a notice.
type NoticeInput struct {
	Title       string               `json:"title"`
	Description string               `json:"description"`
	Type        lifecycle.NoticeType `json:"type"`
	Images      []string             `json:"images"`
	Options     []string             `json:"options"`
}

// NoticeEdit changes content only.
type NoticeEdit struct {
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Images      []string `json:"images"`
}

type AuthorResponse struct {
	AuthorName string `json:"author_name"`
	FlatID     string `json:"flat_id"`
}
