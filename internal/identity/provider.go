// Package identity keeps the identity user store and its denormalized
// legacy mirror consistent. The identity record is the source of truth;
// the legacy record is a read-optimized projection that is overwritten on
// every sync.
package identity

import (
	"errors"

	"cmms-service/internal/model"

	"gorm.io/gorm"
)

// ErrSyncConflict is returned when two distinct legacy records match one
// identity user (one by back-reference, another by email). It is a
// data-integrity error and must never be resolved by silently picking one.
var ErrSyncConflict = errors.New("identity: conflicting legacy records for one identity user")

// Provider is the identity-provider capability set: user creation, role
// assignment, claims and lookups. Lookups return (nil, nil) when the
// record is absent.
type Provider interface {
	CreateUser(user *model.User) error
	FindByEmail(email string) (*model.User, error)
	ListUsers() ([]model.User, error)
	EnsureRole(name string) (*model.Role, error)
	AssignRole(userID uint, roleName string) error
	EnsureRoleClaim(roleID uint, claimType, value string) error
	GetRoles(userID uint) ([]string, error)
	GetRoleClaims(roleID uint) ([]model.RoleClaim, error)
}

// LegacyStore is the storage surface for the legacy (denormalized) user
// records. Lookups return (nil, nil) when absent.
type LegacyStore interface {
	FindByIdentityID(identityID uint) (*model.LegacyUser, error)
	FindByEmail(email string) (*model.LegacyUser, error)
	Create(record *model.LegacyUser) error
	Update(record *model.LegacyUser) error
}

type gormProvider struct {
	db *gorm.DB
}

// NewProvider returns the GORM-backed identity provider
func NewProvider(db *gorm.DB) Provider {
	return &gormProvider{db: db}
}

func (p *gormProvider) CreateUser(user *model.User) error {
	return p.db.Create(user).Error
}

func (p *gormProvider) FindByEmail(email string) (*model.User, error) {
	var user model.User
	result := p.db.Where("email = ?", email).First(&user)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, result.Error
	}
	return &user, nil
}

func (p *gormProvider) ListUsers() ([]model.User, error) {
	var users []model.User
	if err := p.db.Order("id").Find(&users).Error; err != nil {
		return nil, err
	}
	return users, nil
}

func (p *gormProvider) EnsureRole(name string) (*model.Role, error) {
	var r model.Role
	result := p.db.Where("name = ?", name).First(&r)
	if result.Error == nil {
		return &r, nil
	}
	if !errors.Is(result.Error, gorm.ErrRecordNotFound) {
		return nil, result.Error
	}
	r = model.Role{Name: name}
	if err := p.db.Create(&r).Error; err != nil {
		return nil, err
	}
	return &r, nil
}

func (p *gormProvider) AssignRole(userID uint, roleName string) error {
	r, err := p.EnsureRole(roleName)
	if err != nil {
		return err
	}
	var existing model.UserRole
	result := p.db.Where("user_id = ? AND role_id = ?", userID, r.ID).First(&existing)
	if result.Error == nil {
		return nil
	}
	if !errors.Is(result.Error, gorm.ErrRecordNotFound) {
		return result.Error
	}
	return p.db.Create(&model.UserRole{UserID: userID, RoleID: r.ID}).Error
}

func (p *gormProvider) EnsureRoleClaim(roleID uint, claimType, value string) error {
	var claim model.RoleClaim
	result := p.db.Where("role_id = ? AND claim_type = ?", roleID, claimType).First(&claim)
	if result.Error == nil {
		if claim.Value == value {
			return nil
		}
		return p.db.Model(&claim).Update("value", value).Error
	}
	if !errors.Is(result.Error, gorm.ErrRecordNotFound) {
		return result.Error
	}
	return p.db.Create(&model.RoleClaim{RoleID: roleID, ClaimType: claimType, Value: value}).Error
}

func (p *gormProvider) GetRoles(userID uint) ([]string, error) {
	var userRoles []model.UserRole
	if err := p.db.Preload("Role").Where("user_id = ?", userID).Find(&userRoles).Error; err != nil {
		return nil, err
	}
	names := make([]string, 0, len(userRoles))
	for _, ur := range userRoles {
		names = append(names, ur.Role.Name)
	}
	return names, nil
}

func (p *gormProvider) GetRoleClaims(roleID uint) ([]model.RoleClaim, error) {
	var claims []model.RoleClaim
	if err := p.db.Where("role_id = ?", roleID).Find(&claims).Error; err != nil {
		return nil, err
	}
	return claims, nil
}

type gormLegacyStore struct {
	db *gorm.DB
}

// NewLegacyStore returns the GORM-backed legacy user store
func NewLegacyStore(db *gorm.DB) LegacyStore {
	return &gormLegacyStore{db: db}
}

func (s *gormLegacyStore) FindByIdentityID(identityID uint) (*model.LegacyUser, error) {
	var record model.LegacyUser
	result := s.db.Where("identity_id = ?", identityID).First(&record)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, result.Error
	}
	return &record, nil
}

func (s *gormLegacyStore) FindByEmail(email string) (*model.LegacyUser, error) {
	var record model.LegacyUser
	result := s.db.Where("email = ?", email).First(&record)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, result.Error
	}
	return &record, nil
}

func (s *gormLegacyStore) Create(record *model.LegacyUser) error {
	return s.db.Create(record).Error
}

func (s *gormLegacyStore) Update(record *model.LegacyUser) error {
	return s.db.Save(record).Error
}
