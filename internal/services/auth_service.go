package services

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/societyhub/backend/internal/config"
	"github.com/societyhub/backend/internal/dto"
	"github.com/societyhub/backend/internal/models"
	"github.com/societyhub/backend/internal/tenant"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

var (
	ErrMissingFields      = errors.New("please fill all required fields")
	ErrWeakPassword       = errors.New("password must be at least 8 characters")
	ErrCodeTaken          = errors.New("code already registered")
	ErrEmailTaken         = errors.New("email already registered")
	ErrFlatTaken          = errors.New("flat already exists in this society")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrSocietyNotFound    = errors.New("society not found")
)

type AuthService struct {
	db        *gorm.DB
	cfg       *config.Config
	directory *tenant.Directory
}

func NewAuthService(db *gorm.DB, cfg *config.Config, directory *tenant.Directory) *AuthService {
	return &AuthService{db: db, cfg: cfg, directory: directory}
}

func (s *AuthService) RegisterFederation(req *dto.FederationRegisterRequest) (*dto.SessionResponse, error) {
	req.Code = strings.TrimSpace(req.Code)
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	if req.Name == "" || req.Code == "" || req.Email == "" {
		return nil, ErrMissingFields
	}
	if len(req.Password) < 8 {
		return nil, ErrWeakPassword
	}

	var existing models.Federation
	if err := s.db.Where("code = ?", req.Code).First(&existing).Error; err == nil {
		return nil, ErrCodeTaken
	}
	if err := s.db.Where("email = ?", req.Email).First(&existing).Error; err == nil {
		return nil, ErrEmailTaken
	}

	hash, err := hashPassword(req.Password)
	if err != nil {
		return nil, err
	}

	fed := models.Federation{
		ID:       uuid.New(),
		Name:     req.Name,
		Code:     req.Code,
		Email:    req.Email,
		Password: hash,
	}
	if err := s.db.Create(&fed).Error; err != nil {
		return nil, fmt.Errorf("failed to create federation: %w", err)
	}

	return s.session(fed.ID, tenant.RoleFederation, "", fed.Code, fed.Name)
}

func (s *AuthService) LoginFederation(req *dto.LoginRequest) (*dto.SessionResponse, error) {
	var fed models.Federation
	email := strings.ToLower(strings.TrimSpace(req.Email))
	if err := s.db.Where("email = ?", email).First(&fed).Error; err != nil {
		return nil, ErrInvalidCredentials
	}
	if !checkPassword(fed.Password, req.Password) {
		return nil, ErrInvalidCredentials
	}
	return s.session(fed.ID, tenant.RoleFederation, "", fed.Code, fed.Name)
}

func (s *AuthService) LoginSociety(req *dto.LoginRequest) (*dto.SessionResponse, error) {
	var society models.Society
	if err := s.db.Where("code = ?", strings.TrimSpace(req.Code)).First(&society).Error; err != nil {
		return nil, ErrInvalidCredentials
	}
	if !checkPassword(society.Password, req.Password) {
		return nil, ErrInvalidCredentials
	}
	return s.session(society.ID, tenant.RoleSociety, society.Code, society.FederationCode, society.Name)
}

func (s *AuthService) LoginResident(req *dto.LoginRequest) (*dto.SessionResponse, error) {
	var resident models.Resident
	email := strings.ToLower(strings.TrimSpace(req.Email))
	if err := s.db.Scopes(tenant.ForSociety(strings.TrimSpace(req.Code))).
		Where("email = ?", email).First(&resident).Error; err != nil {
		return nil, ErrInvalidCredentials
	}
	if !checkPassword(resident.Password, req.Password) {
		return nil, ErrInvalidCredentials
	}
	return s.session(resident.ID, tenant.RoleResident, resident.SocietyCode, s.directory.FederationOf(resident.SocietyCode), resident.Name)
}

// AddSociety creates a society under the caller's federation.
func (s *AuthService) AddSociety(actor tenant.Actor, req *dto.SocietyRequest) (*dto.SocietyResponse, error) {
	req.Code = strings.TrimSpace(req.Code)
	if req.Name == "" || req.Code == "" {
		return nil, ErrMissingFields
	}
	if len(req.Password) < 8 {
		return nil, ErrWeakPassword
	}

	var existing models.Society
	if err := s.db.Where("code = ?", req.Code).First(&existing).Error; err == nil {
		return nil, ErrCodeTaken
	}

	hash, err := hashPassword(req.Password)
	if err != nil {
		return nil, err
	}

	society := models.Society{
		ID:             uuid.New(),
		FederationID:   actor.ID,
		FederationCode: actor.FederationCode,
		Name:           req.Name,
		Code:           req.Code,
		Address:        req.Address,
		Password:       hash,
	}
	if err := s.db.Create(&society).Error; err != nil {
		return nil, fmt.Errorf("failed to create society: %w", err)
	}
	s.directory.Register(society.Code, society.FederationCode)

	resp := toSocietyResponse(&society)
	return &resp, nil
}

func (s *AuthService) ListSocieties(actor tenant.Actor) ([]dto.SocietyResponse, error) {
	var societies []models.Society
	if err := s.db.Where("federation_code = ?", actor.FederationCode).
		Order("name").Find(&societies).Error; err != nil {
		return nil, fmt.Errorf("failed to list societies: %w", err)
	}
	result := make([]dto.SocietyResponse, len(societies))
	for i := range societies {
		result[i] = toSocietyResponse(&societies[i])
	}
	return result, nil
}

// UpdateSociety changes name, address and optionally the password. The code
// is immutable.
func (s *AuthService) UpdateSociety(actor tenant.Actor, id uuid.UUID, req *dto.SocietyRequest) (*dto.SocietyResponse, error) {
	var society models.Society
	if err := s.db.Where("id = ? AND federation_code = ?", id, actor.FederationCode).First(&society).Error; err != nil {
		return nil, ErrSocietyNotFound
	}

	updates := map[string]interface{}{}
	if req.Name != "" {
		updates["name"] = req.Name
	}
	if req.Address != "" {
		updates["address"] = req.Address
	}
	if req.Password != "" {
		if len(req.Password) < 8 {
			return nil, ErrWeakPassword
		}
		hash, err := hashPassword(req.Password)
		if err != nil {
			return nil, err
		}
		updates["password"] = hash
	}
	if len(updates) > 0 {
		if err := s.db.Model(&society).Updates(updates).Error; err != nil {
			return nil, fmt.Errorf("failed to update society: %w", err)
		}
		if req.Name != "" {
			society.Name = req.Name
		}
		if req.Address != "" {
			society.Address = req.Address
		}
	}

	resp := toSocietyResponse(&society)
	return &resp, nil
}

// CreateFlat adds a flat and its resident account in one transaction.
func (s *AuthService) CreateFlat(societyCode string, req *dto.FlatRequest) (*dto.FlatResponse, error) {
	req.Number = strings.TrimSpace(req.Number)
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	if req.Number == "" || req.ResidentName == "" || req.Email == "" {
		return nil, ErrMissingFields
	}
	if len(req.Password) < 8 {
		return nil, ErrWeakPassword
	}

	var flat models.Flat
	if err := s.db.Scopes(tenant.ForSociety(societyCode)).Where("number = ?", req.Number).First(&flat).Error; err == nil {
		return nil, ErrFlatTaken
	}
	var existing models.Resident
	if err := s.db.Scopes(tenant.ForSociety(societyCode)).Where("email = ?", req.Email).First(&existing).Error; err == nil {
		return nil, ErrEmailTaken
	}

	hash, err := hashPassword(req.Password)
	if err != nil {
		return nil, err
	}

	flat = models.Flat{ID: uuid.New(), SocietyCode: societyCode, Number: req.Number}
	resident := models.Resident{
		ID:          uuid.New(),
		SocietyCode: societyCode,
		FlatID:      flat.ID,
		Name:        req.ResidentName,
		Email:       req.Email,
		Password:    hash,
	}
	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&flat).Error; err != nil {
			return err
		}
		return tx.Omit("Flat").Create(&resident).Error
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create flat: %w", err)
	}

	return &dto.FlatResponse{
		ID:          flat.ID,
		Number:      flat.Number,
		SocietyCode: societyCode,
		Resident:    resident.Name,
		ResidentID:  resident.ID.String(),
	}, nil
}

func (s *AuthService) ListFlats(societyCode string) ([]dto.FlatResponse, error) {
	var flats []models.Flat
	if err := s.db.Scopes(tenant.ForSociety(societyCode)).Order("number").Find(&flats).Error; err != nil {
		return nil, fmt.Errorf("failed to list flats: %w", err)
	}
	var residents []models.Resident
	if err := s.db.Scopes(tenant.ForSociety(societyCode)).Find(&residents).Error; err != nil {
		return nil, fmt.Errorf("failed to list residents: %w", err)
	}
	byFlat := make(map[uuid.UUID]models.Resident, len(residents))
	for _, r := range residents {
		byFlat[r.FlatID] = r
	}

	result := make([]dto.FlatResponse, len(flats))
	for i, f := range flats {
		result[i] = dto.FlatResponse{ID: f.ID, Number: f.Number, SocietyCode: f.SocietyCode}
		if r, ok := byFlat[f.ID]; ok {
			result[i].Resident = r.Name
			result[i].ResidentID = r.ID.String()
		}
	}
	return result, nil
}

func (s *AuthService) session(id uuid.UUID, role, societyCode, federationCode, name string) (*dto.SessionResponse, error) {
	token, err := s.generateAccessToken(id, role, societyCode, federationCode, name)
	if err != nil {
		return nil, err
	}
	return &dto.SessionResponse{Token: token, Role: role, Name: name}, nil
}

func (s *AuthService) generateAccessToken(id uuid.UUID, role, societyCode, federationCode, name string) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"id":              id.String(),
		"role":            role,
		"society_code":    societyCode,
		"federation_code": federationCode,
		"name":            name,
		"iat":             now.Unix(),
		"exp":             now.Add(s.cfg.JWTExpiry).Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.cfg.JWTSecret))
}

func toSocietyResponse(s *models.Society) dto.SocietyResponse {
	return dto.SocietyResponse{
		ID:             s.ID,
		Name:           s.Name,
		Code:           s.Code,
		Address:        s.Address,
		FederationCode: s.FederationCode,
	}
}

func hashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(hash), nil
}

func checkPassword(hash, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}
