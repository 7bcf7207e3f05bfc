package community

import (
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/societyhub/backend/internal/tenant"
	"gorm.io/gorm"
)

var (
	ErrInvalidBlog  = errors.New("please fill all fields before submitting")
	ErrBlogNotFound = errors.New("blog not found")
	ErrNotAuthor    = errors.New("only the author or the committee can change this blog")
)

// BlogService handles community blog posts.
type BlogService struct {
	db *gorm.DB
}

func NewBlogService(db *gorm.DB) *BlogService {
	return &BlogService{db: db}
}

func (s *BlogService) List(societyCode string) ([]Blog, error) {
	blogs := make([]Blog, 0)
	if err := s.db.Scopes(tenant.ForSociety(societyCode)).
		Order("created_at DESC").Find(&blogs).Error; err != nil {
		return nil, fmt.Errorf("failed to list blogs: %w", err)
	}
	return blogs, nil
}

// Create stores a blog. Staff posts are attributed to the committee.
func (s *BlogService) Create(actor tenant.Actor, societyCode string, in *BlogInput) (*Blog, error) {
	if err := validate(in); err != nil {
		return nil, err
	}
	b := Blog{
		ID:          uuid.New(),
		SocietyCode: societyCode,
		Title:       in.Title,
		Content:     in.Content,
		Image:       in.Image,
	}
	if !actor.IsStaff() {
		id := actor.ID
		b.UserID = &id
	}
	if err := s.db.Create(&b).Error; err != nil {
		return nil, fmt.Errorf("failed to create blog: %w", err)
	}
	return &b, nil
}

func (s *BlogService) Update(actor tenant.Actor, societyCode string, id uuid.UUID, in *BlogInput) (*Blog, error) {
	if err := validate(in); err != nil {
		return nil, err
	}
	b, err := s.owned(actor, societyCode, id)
	if err != nil {
		return nil, err
	}
	b.Title = in.Title
	b.Content = in.Content
	if in.Image != "" {
		b.Image = in.Image
	}
	if err := s.db.Model(b).Select("title", "content", "image").Updates(b).Error; err != nil {
		return nil, fmt.Errorf("failed to update blog: %w", err)
	}
	return b, nil
}

func (s *BlogService) Delete(actor tenant.Actor, societyCode string, id uuid.UUID) error {
	b, err := s.owned(actor, societyCode, id)
	if err != nil {
		return err
	}
	if err := s.db.Delete(b).Error; err != nil {
		return fmt.Errorf("failed to delete blog: %w", err)
	}
	return nil
}

func (s *BlogService) owned(actor tenant.Actor, societyCode string, id uuid.UUID) (*Blog, error) {
	var b Blog
	if err := s.db.Scopes(tenant.ForSociety(societyCode)).First(&b, "id = ?", id).Error; err != nil {
		return nil, ErrBlogNotFound
	}
	if actor.IsStaff() {
		return &b, nil
	}
	if b.UserID == nil || *b.UserID != actor.ID {
		return nil, ErrNotAuthor
	}
	return &b, nil
}

func validate(in *BlogInput) error {
	in.Title = strings.TrimSpace(in.Title)
	in.Content = strings.TrimSpace(in.Content)
	if in.Title == "" || in.Content == "" {
		return ErrInvalidBlog
	}
	return nil
}
