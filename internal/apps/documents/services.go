package documents

import (
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/google/uuid"
	"github.com/societyhub/backend/internal/tenant"
	"gorm.io/gorm"
)

var (
	ErrInvalidDocument  = errors.New("a document needs a title and a valid URL")
	ErrDocumentNotFound = errors.New("document not found")
)

type DocumentService struct {
	db *gorm.DB
}

func NewDocumentService(db *gorm.DB) *DocumentService {
	return &DocumentService{db: db}
}

func (s *DocumentService) List(societyCode string) ([]Document, error) {
	docs := make([]Document, 0)
	if err := s.db.Scopes(tenant.ForSociety(societyCode)).
		Order("created_at DESC").Find(&docs).Error; err != nil {
		return nil, fmt.Errorf("failed to list documents: %w", err)
	}
	return docs, nil
}

func (s *DocumentService) Create(actor tenant.Actor, societyCode string, in *DocumentInput) (*Document, error) {
	in.Title = strings.TrimSpace(in.Title)
	in.URL = strings.TrimSpace(in.URL)
	if in.Title == "" {
		return nil, ErrInvalidDocument
	}
	if u, err := url.Parse(in.URL); err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return nil, ErrInvalidDocument
	}

	doc := Document{
		ID:          uuid.New(),
		SocietyCode: societyCode,
		Title:       in.Title,
		URL:         in.URL,
		UploadedBy:  actor.ID,
	}
	if err := s.db.Create(&doc).Error; err != nil {
		return nil, fmt.Errorf("failed to create document: %w", err)
	}
	return &doc, nil
}

func (s *DocumentService) Delete(societyCode string, id uuid.UUID) error {
	result := s.db.Scopes(tenant.ForSociety(societyCode)).Delete(&Document{}, "id = ?", id)
	if result.Error != nil {
		return fmt.Errorf("failed to delete document: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrDocumentNotFound
	}
	return nil
}
