package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Federation groups societies and posts federation-wide notices.
type Federation struct {
	ID        uuid.UUID      `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Name      string         `gorm:"size:255;not null" json:"name"`
	Code      string         `gorm:"size:50;not null;uniqueIndex" json:"code"`
	Email     string         `gorm:"size:255;not null;uniqueIndex" json:"email"`
	Password  string         `gorm:"not null" json:"-"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

// Society is the tenant boundary for notices, complaints, blogs and documents.
// Staff log in with the society code and password.
type Society struct {
	ID             uuid.UUID      `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	FederationID   uuid.UUID      `gorm:"type:uuid;not null;index" json:"-"`
	FederationCode string         `gorm:"size:50;not null;index" json:"federation_code"`
	Name           string         `gorm:"size:255;not null" json:"name"`
	Code           string         `gorm:"size:50;not null;uniqueIndex" json:"code"`
	Address        string         `gorm:"size:500" json:"address"`
	Password       string         `gorm:"not null" json:"-"`
	CreatedAt      time.Time      `json:"created_at"`
	UpdatedAt      time.Time      `json:"updated_at"`
	DeletedAt      gorm.DeletedAt `gorm:"index" json:"-"`
}

type Flat struct {
	ID          uuid.UUID      `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	SocietyCode string         `gorm:"size:50;not null;uniqueIndex:idx_flats_society_number" json:"society_code"`
	Number      string         `gorm:"size:20;not null;uniqueIndex:idx_flats_society_number" json:"flat_number"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`
}

// Resident lives in exactly one flat.
type Resident struct {
	ID          uuid.UUID      `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	SocietyCode string         `gorm:"size:50;not null;index;uniqueIndex:idx_residents_society_email" json:"society_code"`
	FlatID      uuid.UUID      `gorm:"type:uuid;not null;uniqueIndex" json:"flat_id"`
	Name        string         `gorm:"size:255;not null" json:"name"`
	Email       string         `gorm:"size:255;not null;uniqueIndex:idx_residents_society_email" json:"email"`
	Password    string         `gorm:"not null" json:"-"`
	Flat        Flat           `gorm:"foreignKey:FlatID" json:"-"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`
}
