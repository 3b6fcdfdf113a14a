package identity

import (
	"fmt"

	"cmms-service/internal/model"
	"cmms-service/internal/role"

	"go.uber.org/zap"
)

// Syncer maintains the invariant that every identity user has exactly one
// legacy record with matching denormalized fields.
type Syncer struct {
	provider Provider
	legacy   LegacyStore
	log      *zap.Logger
}

// NewSyncer creates a Syncer
func NewSyncer(provider Provider, legacy LegacyStore, log *zap.Logger) *Syncer {
	return &Syncer{provider: provider, legacy: legacy, log: log}
}

// SyncOne mirrors a single identity user into the legacy store. The match
// is looked up by identity back-reference first, then by email; when both
// resolve to different rows the sync halts with ErrSyncConflict. Returns
// whether anything was written, so callers can observe idempotence.
func (s *Syncer) SyncOne(user *model.User, roleName, phone string) (bool, error) {
	byRef, err := s.legacy.FindByIdentityID(user.ID)
	if err != nil {
		return false, fmt.Errorf("legacy lookup by identity id: %w", err)
	}
	byEmail, err := s.legacy.FindByEmail(user.Email)
	if err != nil {
		return false, fmt.Errorf("legacy lookup by email: %w", err)
	}

	if byRef != nil && byEmail != nil && byRef.ID != byEmail.ID {
		return false, fmt.Errorf("%w: email %s matches legacy record %d, identity %d matches legacy record %d",
			ErrSyncConflict, user.Email, byEmail.ID, user.ID, byRef.ID)
	}

	// Back-reference wins over email so an email change re-links rather
	// than spawning a second mirror.
	match := byRef
	if match == nil {
		match = byEmail
	}

	if phone == "" {
		phone = user.Phone
	}

	if match == nil {
		record := &model.LegacyUser{
			IdentityID: &user.ID,
			Email:      user.Email,
			FullName:   user.FullName(),
			Role:       roleName,
			Department: user.Department,
			Phone:      phone,
			TenantID:   user.PrimaryTenantID,
			Active:     user.Active,
		}
		if err := s.legacy.Create(record); err != nil {
			return false, fmt.Errorf("create legacy record: %w", err)
		}
		s.log.Info("Created legacy user record",
			zap.Uint("identity_id", user.ID),
			zap.String("email", user.Email),
			zap.String("role", roleName))
		return true, nil
	}

	changed := match.IdentityID == nil ||
		*match.IdentityID != user.ID ||
		match.Email != user.Email ||
		match.FullName != user.FullName() ||
		match.Role != roleName ||
		match.Department != user.Department ||
		match.Phone != phone ||
		match.Active != user.Active ||
		!uintPtrEqual(match.TenantID, user.PrimaryTenantID)

	if !changed {
		return false, nil
	}

	match.IdentityID = &user.ID
	match.Email = user.Email
	match.FullName = user.FullName()
	match.Role = roleName
	match.Department = user.Department
	match.Phone = phone
	match.TenantID = user.PrimaryTenantID
	match.Active = user.Active

	if err := s.legacy.Update(match); err != nil {
		return false, fmt.Errorf("update legacy record: %w", err)
	}
	s.log.Debug("Updated legacy user record",
		zap.Uint("identity_id", user.ID),
		zap.String("email", user.Email))
	return true, nil
}

// SyncAll mirrors every identity user. A failing user is logged and
// skipped; the batch continues. The returned count is the number of legacy
// writes, which is zero on a repeat run with no identity changes.
func (s *Syncer) SyncAll() (int, error) {
	users, err := s.provider.ListUsers()
	if err != nil {
		return 0, fmt.Errorf("list identity users: %w", err)
	}

	written := 0
	failures := 0
	for i := range users {
		user := &users[i]

		assigned, err := s.provider.GetRoles(user.ID)
		if err != nil {
			s.log.Error("Failed to load roles for user, skipping",
				zap.Uint("user_id", user.ID), zap.Error(err))
			failures++
			continue
		}

		changed, err := s.SyncOne(user, role.Primary(assigned), user.Phone)
		if err != nil {
			s.log.Error("Failed to sync user, skipping",
				zap.Uint("user_id", user.ID),
				zap.String("email", user.Email),
				zap.Error(err))
			failures++
			continue
		}
		if changed {
			written++
		}
	}

	if failures > 0 {
		return written, fmt.Errorf("identity: sync finished with %d of %d users failed", failures, len(users))
	}
	return written, nil
}

func uintPtrEqual(a, b *uint) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}
