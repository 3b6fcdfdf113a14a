package tenant

import (
	"errors"

	"cmms-service/internal/model"

	"gorm.io/gorm"
)

type gormMappingStore struct {
	db *gorm.DB
}

// NewMappingStore returns the GORM-backed mapping store
func NewMappingStore(db *gorm.DB) MappingStore {
	return &gormMappingStore{db: db}
}

func (s *gormMappingStore) FindOpen(userID, tenantID uint) (*model.TenantUserMapping, error) {
	var mapping model.TenantUserMapping
	result := s.db.
		Where("user_id = ? AND tenant_id = ? AND removed_date IS NULL", userID, tenantID).
		First(&mapping)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, result.Error
	}
	return &mapping, nil
}

func (s *gormMappingStore) Create(mapping *model.TenantUserMapping) error {
	return s.db.Create(mapping).Error
}

func (s *gormMappingStore) Save(mapping *model.TenantUserMapping) error {
	return s.db.Save(mapping).Error
}

func (s *gormMappingStore) History(tenantID uint) ([]model.TenantUserMapping, error) {
	var mappings []model.TenantUserMapping
	result := s.db.Preload("User").
		Where("tenant_id = ?", tenantID).
		Order("created_at").
		Find(&mappings)
	if result.Error != nil {
		return nil, result.Error
	}
	return mappings, nil
}
