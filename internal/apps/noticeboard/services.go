package noticeboard

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/societyhub/backend/internal/events"
	"github.com/societyhub/backend/internal/lifecycle"
	"github.com/societyhub/backend/internal/tenant"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var (
	ErrInvalidNotice    = errors.New("please fill all fields before submitting")
	ErrPollNeedsOptions = errors.New("a poll needs at least one option")
	ErrNoticeNotFound   = errors.New("notice not found")
	ErrOptionNotFound   = errors.New("poll option not found")
	ErrNotAPoll         = errors.New("notice is not a poll")
	ErrPollClosed       = errors.New("poll is not open for voting")
	ErrAlreadyVoted     = errors.New("You have already voted in this poll")
	ErrForbidden        = errors.New("you do not have access to this notice")
)

// NoticeService handles notice board and poll business logic.
type NoticeService struct {
	db        *gorm.DB
	directory *tenant.Directory
}

func NewNoticeService(db *gorm.DB, directory *tenant.Directory) *NoticeService {
	return &NoticeService{db: db, directory: directory}
}

// ListSociety returns every notice of a society, newest first.
func (s *NoticeService) ListSociety(societyCode string) ([]Notice, error) {
	return s.list(lifecycle.ScopeSociety, societyCode)
}

// ListFederation returns every notice of a federation, newest first.
func (s *NoticeService) ListFederation(federationCode string) ([]Notice, error) {
	return s.list(lifecycle.ScopeFederation, federationCode)
}

func (s *NoticeService) list(kind, code string) ([]Notice, error) {
	notices := make([]Notice, 0)
	if err := s.db.Scopes(tenant.ForScope(kind, code)).
		Order("created_at DESC").Find(&notices).Error; err != nil {
		return nil, fmt.Errorf("failed to list notices: %w", err)
	}
	return notices, nil
}

// ListByUser returns a user's submissions. societyCode narrows the result
// when non-empty.
func (s *NoticeService) ListByUser(userID uuid.UUID, societyCode string) ([]Notice, error) {
	q := s.db.Where("user_id = ?", userID)
	if societyCode != "" {
		q = q.Scopes(tenant.ForScope(lifecycle.ScopeSociety, societyCode))
	}
	notices := make([]Notice, 0)
	if err := q.Order("created_at DESC").Find(&notices).Error; err != nil {
		return nil, fmt.Errorf("failed to list user notices: %w", err)
	}
	return notices, nil
}

// Submit stores a resident's notice for approval.
func (s *NoticeService) Submit(actor tenant.Actor, in *NoticeInput) (*Notice, error) {
	if err := validateInput(in); err != nil {
		return nil, err
	}
	userID := actor.ID
	n := newNotice(lifecycle.ScopeSociety, actor.SocietyCode, in)
	n.UserID = &userID
	if err := s.create(n, in.Options); err != nil {
		return nil, err
	}
	return n, nil
}

// PostSociety publishes an approved staff notice in a society.
func (s *NoticeService) PostSociety(actor tenant.Actor, societyCode string, in *NoticeInput) (*Notice, error) {
	return s.post(actor, lifecycle.ScopeSociety, societyCode, in)
}

// PostFederation publishes an approved notice to every society of the
// actor's federation.
func (s *NoticeService) PostFederation(actor tenant.Actor, in *NoticeInput) (*Notice, error) {
	return s.post(actor, lifecycle.ScopeFederation, actor.FederationCode, in)
}

func (s *NoticeService) post(actor tenant.Actor, kind, code string, in *NoticeInput) (*Notice, error) {
	if err := validateInput(in); err != nil {
		return nil, err
	}
	if in.Type == lifecycle.NoticePoll && len(cleanOptions(in.Options)) == 0 {
		return nil, ErrPollNeedsOptions
	}
	n := newNotice(kind, code, in)
	now := time.Now()
	approver := actor.ID
	n.Approved = true
	n.ApprovedAt = &now
	n.ApprovedBy = &approver
	if err := s.create(n, in.Options); err != nil {
		return nil, err
	}
	return n, nil
}

func (s *NoticeService) create(n *Notice, options []string) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(n).Error; err != nil {
			return fmt.Errorf("failed to create notice: %w", err)
		}
		if n.Type != lifecycle.NoticePoll {
			return nil
		}
		opts := cleanOptions(options)
		if len(opts) == 0 {
			return nil
		}
		rows := make([]PollOption, len(opts))
		for i, text := range opts {
			rows[i] = PollOption{ID: uuid.New(), NoticeID: n.ID, Text: text, Position: i}
		}
		if err := tx.Create(&rows).Error; err != nil {
			return fmt.Errorf("failed to create poll options: %w", err)
		}
		return nil
	})
}

// Edit replaces a notice's content within one scope. Type and approval never
// change.
func (s *NoticeService) Edit(kind, code string, id uuid.UUID, edit *NoticeEdit) (*Notice, error) {
	edit.Title = strings.TrimSpace(edit.Title)
	edit.Description = strings.TrimSpace(edit.Description)
	if edit.Title == "" || edit.Description == "" {
		return nil, ErrInvalidNotice
	}

	var n Notice
	if err := s.db.Scopes(tenant.ForScope(kind, code)).First(&n, "id = ?", id).Error; err != nil {
		return nil, ErrNoticeNotFound
	}

	n.Title = edit.Title
	n.Description = edit.Description
	if edit.Images != nil {
		n.Images = datatypes.NewJSONSlice(edit.Images)
	}
	if err := s.db.Model(&n).Select("title", "description", "images").Updates(&n).Error; err != nil {
		return nil, fmt.Errorf("failed to update notice: %w", err)
	}
	return &n, nil
}

// Approve marks a society notice approved and records a notice.approved
// event. Approving an approved notice is a no-op.
func (s *NoticeService) Approve(actor tenant.Actor, societyCode string, id uuid.UUID) (*Notice, error) {
	var n Notice
	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Scopes(tenant.ForScope(lifecycle.ScopeSociety, societyCode)).
			First(&n, "id = ?", id).Error; err != nil {
			return ErrNoticeNotFound
		}
		if n.Approved {
			return nil
		}

		now := time.Now()
		approver := actor.ID
		n.Approved = true
		n.ApprovedAt = &now
		n.ApprovedBy = &approver
		if err := tx.Model(&n).Select("approved", "approved_at", "approved_by").Updates(&n).Error; err != nil {
			return fmt.Errorf("failed to approve notice: %w", err)
		}
		return events.Enqueue(tx, events.TopicNoticeApproved, n.ID.String(), events.NoticeApproved{
			NoticeID:    n.ID.String(),
			SocietyCode: societyCode,
			ApprovedBy:  actor.ID.String(),
			ApprovedAt:  now,
		})
	})
	if err != nil {
		return nil, err
	}
	return &n, nil
}

// CanSee reports whether actor may read notice n.
func (s *NoticeService) CanSee(actor tenant.Actor, n *Notice) bool {
	switch n.ScopeKind {
	case lifecycle.ScopeFederation:
		if actor.FederationCode != "" {
			return actor.FederationCode == n.ScopeCode
		}
		return s.directory.FederationOf(actor.SocietyCode) == n.ScopeCode
	default:
		if actor.Role == tenant.RoleFederation {
			return s.directory.InFederation(n.ScopeCode, actor.FederationCode)
		}
		return actor.SocietyCode == n.ScopeCode
	}
}

// PollOptions returns the options of a poll with their vote counts, in the
// order they were created.
func (s *NoticeService) PollOptions(actor tenant.Actor, noticeID uuid.UUID) ([]OptionTally, error) {
	var n Notice
	if err := s.db.First(&n, "id = ?", noticeID).Error; err != nil {
		return nil, ErrNoticeNotFound
	}
	if !s.CanSee(actor, &n) {
		return nil, ErrForbidden
	}

	tallies := make([]OptionTally, 0)
	err := s.db.Table("poll_options AS o").
		Select("o.id, o.notice_id, o.text, COUNT(v.id) AS votes").
		Joins("LEFT JOIN votes v ON v.option_id = o.id").
		Where("o.notice_id = ?", noticeID).
		Group("o.id, o.notice_id, o.text, o.position").
		Order("o.position").
		Scan(&tallies).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load poll options: %w", err)
	}
	return tallies, nil
}

// Vote records the actor's choice and a poll.vote_recorded event. A second
// vote in the same poll fails with ErrAlreadyVoted.
func (s *NoticeService) Vote(actor tenant.Actor, optionID uuid.UUID) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		var opt PollOption
		if err := tx.First(&opt, "id = ?", optionID).Error; err != nil {
			return ErrOptionNotFound
		}
		var n Notice
		if err := tx.First(&n, "id = ?", opt.NoticeID).Error; err != nil {
			return ErrNoticeNotFound
		}
		if n.Type != lifecycle.NoticePoll {
			return ErrNotAPoll
		}
		if !n.Approved {
			return ErrPollClosed
		}
		if !s.CanSee(actor, &n) {
			return ErrForbidden
		}

		var existing int64
		if err := tx.Model(&Vote{}).
			Where("notice_id = ? AND voter_id = ?", n.ID, actor.ID).
			Count(&existing).Error; err != nil {
			return fmt.Errorf("failed to check vote: %w", err)
		}
		if existing > 0 {
			return ErrAlreadyVoted
		}

		vote := Vote{ID: uuid.New(), NoticeID: n.ID, OptionID: opt.ID, VoterID: actor.ID}
		if err := tx.Create(&vote).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return ErrAlreadyVoted
			}
			return fmt.Errorf("failed to record vote: %w", err)
		}
		return events.Enqueue(tx, events.TopicVoteRecorded, n.ID.String(), events.VoteRecorded{
			NoticeID: n.ID.String(),
			OptionID: opt.ID.String(),
			VoterID:  actor.ID.String(),
			VotedAt:  vote.CreatedAt,
		})
	})
}

func validateInput(in *NoticeInput) error {
	in.Title = strings.TrimSpace(in.Title)
	in.Description = strings.TrimSpace(in.Description)
	if in.Title == "" || in.Description == "" || !in.Type.Valid() {
		return ErrInvalidNotice
	}
	return nil
}

func newNotice(kind, code string, in *NoticeInput) *Notice {
	images := in.Images
	if images == nil {
		images = []string{}
	}
	return &Notice{
		ID:          uuid.New(),
		ScopeKind:   kind,
		ScopeCode:   code,
		Title:       in.Title,
		Description: in.Description,
		Type:        in.Type,
		Images:      datatypes.NewJSONSlice(images),
	}
}

func cleanOptions(opts []string) []string {
	out := make([]string, 0, len(opts))
	for _, o := range opts {
		if o = strings.TrimSpace(o); o != "" {
			out = append(out, o)
		}
	}
	return out
}
