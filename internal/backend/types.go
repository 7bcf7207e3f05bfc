package backend

import (
	"time"

	"github.com/societyhub/backend/internal/lifecycle"
)

type Notice struct {
	ID          string               `json:"notice_id"`
	Title       string               `json:"title"`
	Description string               `json:"description"`
	Type        lifecycle.NoticeType `json:"type"`
	Approved    bool                 `json:"approved"`
	CreatedAt   time.Time            `json:"created_at"`
	UserID      *string              `json:"user_id"`
	Images      []string             `json:"images"`
	Scope       string               `json:"scope"`
	ScopeCode   string               `json:"scope_code"`
}

type NoticeDraft struct {
	Title       string               `json:"title"`
	Description string               `json:"description"`
	Type        lifecycle.NoticeType `json:"type"`
	Images      []string             `json:"images"`
	UserID      string               `json:"user_id,omitempty"`
	SocietyCode string               `json:"society_code,omitempty"`
	// Options seeds a poll notice posted by staff.
	Options []string `json:"options,omitempty"`
}

type FederationNoticeDraft struct {
	Title          string               `json:"title"`
	Description    string               `json:"description"`
	Type           lifecycle.NoticeType `json:"type"`
	Images         []string             `json:"images"`
	FederationCode string               `json:"federation_code,omitempty"`
	Options        []string             `json:"options,omitempty"`
}

// NoticeEdit changes content fields only.
type NoticeEdit struct {
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Images      []string `json:"images"`
}

type Author struct {
	AuthorName string `json:"author_name"`
	FlatID     string `json:"flat_id"`
}

type PollOption struct {
	ID       string `json:"option_id"`
	NoticeID string `json:"notice_id,omitempty"`
	Text     string `json:"text"`
	Votes    int    `json:"votes"`
}

type VoteRequest struct {
	OptionID string `json:"option_id"`
	UserID   string `json:"user_id"`
}

type Complaint struct {
	ID          string                    `json:"id"`
	Title       string                    `json:"title"`
	Content     string                    `json:"content"`
	Status      lifecycle.ComplaintStatus `json:"status"`
	CreatedAt   time.Time                 `json:"created_at"`
	ResidentID  string                    `json:"resident_id"`
	SocietyCode string                    `json:"society_code"`
	Comment     string                    `json:"comment,omitempty"`
	Images      []string                  `json:"images"`
}

type ComplaintDraft struct {
	Title       string `json:"title"`
	Content     string `json:"content"`
	ResidentID  string `json:"resident_id"`
	SocietyCode string `json:"society_code"`
}

type StatusChange struct {
	ID      string                    `json:"id"`
	Status  lifecycle.ComplaintStatus `json:"status"`
	Comment string                    `json:"comment,omitempty"`
	Images  []string                  `json:"images,omitempty"`
}

type Resident struct {
	Name   string `json:"name"`
	FlatID string `json:"flat_id"`
}

type Blog struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Content     string    `json:"content"`
	Image       string    `json:"image,omitempty"`
	UserID      *string   `json:"user_id"`
	SocietyCode string    `json:"society_code"`
	CreatedAt   time.Time `json:"created_at"`
}

type BlogDraft struct {
	Title       string `json:"title"`
	Content     string `json:"content"`
	Image       string `json:"image,omitempty"`
	UserID      string `json:"user_id,omitempty"`
	SocietyCode string `json:"society_code,omitempty"`
}

type Document struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	URL         string    `json:"url"`
	SocietyCode string    `json:"society_code"`
	CreatedAt   time.Time `json:"created_at"`
}

type DocumentDraft struct {
	Title       string `json:"title"`
	URL         string `json:"url"`
	SocietyCode string `json:"society_code,omitempty"`
}

type Credentials struct {
	Code     string `json:"code"`
	Email    string `json:"email,omitempty"`
	Password string `json:"password"`
}

type Session struct {
	Token string `json:"token"`
	Role  string `json:"role"`
	Name  string `json:"name"`
}

type FederationRegistration struct {
	Name     string `json:"name"`
	Code     string `json:"code"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type Society struct {
	ID             string `json:"id"`
	Name           string `json:"name"`
	Code           string `json:"code"`
	Address        string `json:"address"`
	FederationCode string `json:"federation_code"`
}

type SocietyDraft struct {
	Name     string `json:"name"`
	Code     string `json:"code"`
	Address  string `json:"address"`
	Password string `json:"password,omitempty"`
}

type Flat struct {
	ID          string `json:"id"`
	Number      string `json:"flat_number"`
	SocietyCode string `json:"society_code"`
	Resident    string `json:"resident_name"`
	ResidentID  string `json:"resident_id"`
}

type FlatDraft struct {
	Number       string `json:"flat_number"`
	ResidentName string `json:"resident_name"`
	Email        string `json:"email"`
	Password     string `json:"password"`
}
