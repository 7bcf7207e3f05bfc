package complaints

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
	ErrInvalidComplaint  = errors.New("please fill all fields before submitting")
	ErrComplaintNotFound = errors.New("complaint not found")
)

// ComplaintService handles complaint filing and the status lifecycle.
type ComplaintService struct {
	db *gorm.DB
}

func NewComplaintService(db *gorm.DB) *ComplaintService {
	return &ComplaintService{db: db}
}

// List returns a society's complaints, newest first. Residents only see
// their own.
func (s *ComplaintService) List(actor tenant.Actor, societyCode string) ([]Complaint, error) {
	q := s.db.Scopes(tenant.ForSociety(societyCode))
	if !actor.IsStaff() {
		q = q.Where("resident_id = ?", actor.ID)
	}
	complaints := make([]Complaint, 0)
	if err := q.Order("created_at DESC").Find(&complaints).Error; err != nil {
		return nil, fmt.Errorf("failed to list complaints: %w", err)
	}
	return complaints, nil
}

// File stores a new complaint in Received status.
func (s *ComplaintService) File(actor tenant.Actor, in *ComplaintInput) (*Complaint, error) {
	in.Title = strings.TrimSpace(in.Title)
	in.Content = strings.TrimSpace(in.Content)
	if in.Title == "" || in.Content == "" {
		return nil, ErrInvalidComplaint
	}

	c := Complaint{
		ID:          uuid.New(),
		SocietyCode: actor.SocietyCode,
		ResidentID:  actor.ID,
		Title:       in.Title,
		Content:     in.Content,
		Status:      lifecycle.StatusReceived,
		Images:      datatypes.NewJSONSlice([]string{}),
	}
	if err := s.db.Create(&c).Error; err != nil {
		return nil, fmt.Errorf("failed to file complaint: %w", err)
	}
	return &c, nil
}

// ChangeStatus moves a complaint along its lifecycle. Evidence gates are
// checked before the transition graph. Setting the current status again on
// an open complaint changes nothing.
func (s *ComplaintService) ChangeStatus(actor tenant.Actor, societyCode string, change *StatusChange) (*Complaint, error) {
	id, err := uuid.Parse(change.ID)
	if err != nil {
		return nil, ErrComplaintNotFound
	}
	if !change.Status.Valid() {
		return nil, fmt.Errorf("%w: %q", lifecycle.ErrUnknownStatus, change.Status)
	}
	if err := lifecycle.CheckEvidence(change.Status, lifecycle.Evidence{
		Comment:     change.Comment,
		ProofImages: len(change.Images),
	}); err != nil {
		return nil, err
	}

	var c Complaint
	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Scopes(tenant.ForSociety(societyCode)).
			First(&c, "id = ?", id).Error; err != nil {
			return ErrComplaintNotFound
		}
		if err := lifecycle.CheckTransition(c.Status, change.Status); err != nil {
			return err
		}
		if c.Status == change.Status {
			return nil
		}

		from := c.Status
		now := time.Now()
		c.Status = change.Status
		cols := []string{"status"}
		switch change.Status {
		case lifecycle.StatusResolved:
			c.Images = datatypes.NewJSONSlice(change.Images)
			c.ClosedAt = &now
			cols = append(cols, "images", "closed_at")
			if strings.TrimSpace(change.Comment) != "" {
				c.Comment = strings.TrimSpace(change.Comment)
				cols = append(cols, "comment")
			}
		case lifecycle.StatusDismissed:
			c.Comment = strings.TrimSpace(change.Comment)
			c.ClosedAt = &now
			cols = append(cols, "comment", "closed_at")
		}
		if err := tx.Model(&c).Select(cols).Updates(&c).Error; err != nil {
			return fmt.Errorf("failed to update complaint: %w", err)
		}

		history := StatusHistory{
			ID:          uuid.New(),
			ComplaintID: c.ID,
			From:        from,
			To:          c.Status,
			ChangedBy:   actor.ID,
			Comment:     c.Comment,
		}
		if err := tx.Create(&history).Error; err != nil {
			return fmt.Errorf("failed to record status history: %w", err)
		}
		return events.Enqueue(tx, events.TopicComplaintStatusChanged, c.ID.String(), events.ComplaintStatusChanged{
			ComplaintID: c.ID.String(),
			SocietyCode: c.SocietyCode,
			From:        string(from),
			To:          string(c.Status),
			ChangedBy:   actor.ID.String(),
			ChangedAt:   now,
		})
	})
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// History lists a complaint's recorded status changes, oldest first.
func (s *ComplaintService) History(actor tenant.Actor, societyCode string, id uuid.UUID) ([]StatusHistory, error) {
	var c Complaint
	q := s.db.Scopes(tenant.ForSociety(societyCode))
	if !actor.IsStaff() {
		q = q.Where("resident_id = ?", actor.ID)
	}
	if err := q.First(&c, "id = ?", id).Error; err != nil {
		return nil, ErrComplaintNotFound
	}
	history := make([]StatusHistory, 0)
	if err := s.db.Where("complaint_id = ?", id).Order("created_at").Find(&history).Error; err != nil {
		return nil, fmt.Errorf("failed to load history: %w", err)
	}
	return history, nil
}
