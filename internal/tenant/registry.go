package tenant

import (
	"fmt"
	"sync"

	"github.com/societyhub/backend/internal/models"
	"gorm.io/gorm"
)

// Directory maps society codes to their federation code. It is loaded from
// the database at startup and kept current as societies are added.
type Directory struct {
	mu        sync.RWMutex
	societies map[string]string
}

func NewDirectory() *Directory {
	return &Directory{
		societies: make(map[string]string),
	}
}

func LoadDirectory(db *gorm.DB) (*Directory, error) {
	var societies []models.Society
	if err := db.Select("code", "federation_code").Find(&societies).Error; err != nil {
		return nil, fmt.Errorf("failed to load societies: %w", err)
	}

	dir := NewDirectory()
	for _, s := range societies {
		dir.Register(s.Code, s.FederationCode)
	}
	return dir, nil
}

func (d *Directory) Register(societyCode, federationCode string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.societies[societyCode] = federationCode
}

func (d *Directory) Exists(societyCode string) bool {
	d.mu.RLock()
	defer d.mu.RUnlock()
	_, ok := d.societies[societyCode]
	return ok
}

// FederationOf returns the federation code for a society, or "".
func (d *Directory) FederationOf(societyCode string) string {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.societies[societyCode]
}

// InFederation reports whether societyCode belongs to federationCode.
func (d *Directory) InFederation(societyCode, federationCode string) bool {
	d.mu.RLock()
	defer d.mu.RUnlock()
	fed, ok := d.societies[societyCode]
	return ok && fed == federationCode
}

// Societies lists the society codes of one federation.
func (d *Directory) Societies(federationCode string) []string {
	d.mu.RLock()
	defer d.mu.RUnlock()
	result := make([]string, 0)
	for code, fed := range d.societies {
		if fed == federationCode {
			result = append(result, code)
		}
	}
	return result
}

func (d *Directory) Count() int {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return len(d.societies)
}
