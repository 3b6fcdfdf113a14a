package identity

import (
	"fmt"
	"strconv"

	"cmms-service/internal/model"
	"cmms-service/internal/role"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// SeedUser describes one user to ensure at startup
type SeedUser struct {
	Email        string
	Password     string
	FirstName    string
	LastName     string
	Department   string
	Phone        string
	Role         string
	TenantID     *uint
	IsSuperAdmin bool
}

// SeedRolesAndUsers ensures the fixed role set exists with level claims
// and that every seed user exists with its role and legacy mirror. The
// operation converges: running it again against an already-seeded store
// performs no duplicate creation, and an existing seed user's mirror is
// re-synced to the spec. Meant to run single-threaded at startup, before
// request traffic.
func (s *Syncer) SeedRolesAndUsers(seedUsers []SeedUser) error {
	for _, name := range role.All {
		r, err := s.provider.EnsureRole(name)
		if err != nil {
			return fmt.Errorf("ensure role %s: %w", name, err)
		}
		level, err := role.Level(name)
		if err != nil {
			return err
		}
		if err := s.provider.EnsureRoleClaim(r.ID, role.LevelClaimType, strconv.Itoa(level)); err != nil {
			return fmt.Errorf("ensure level claim for %s: %w", name, err)
		}
	}
	s.log.Info("Role set seeded", zap.Int("roles", len(role.All)))

	for _, spec := range seedUsers {
		if _, err := role.Level(spec.Role); err != nil {
			return fmt.Errorf("seed user %s: %w", spec.Email, err)
		}

		user, err := s.provider.FindByEmail(spec.Email)
		if err != nil {
			return fmt.Errorf("find seed user %s: %w", spec.Email, err)
		}

		if user == nil {
			hashed, err := bcrypt.GenerateFromPassword([]byte(spec.Password), bcrypt.DefaultCost)
			if err != nil {
				return fmt.Errorf("hash password for %s: %w", spec.Email, err)
			}
			user = &model.User{
				Email:           spec.Email,
				Password:        string(hashed),
				FirstName:       spec.FirstName,
				LastName:        spec.LastName,
				Department:      spec.Department,
				Phone:           spec.Phone,
				PrimaryTenantID: spec.TenantID,
				IsSuperAdmin:    spec.IsSuperAdmin,
				Active:          true,
			}
			if err := s.provider.CreateUser(user); err != nil {
				return fmt.Errorf("create seed user %s: %w", spec.Email, err)
			}
			s.log.Info("Seeded identity user",
				zap.String("email", spec.Email),
				zap.String("role", spec.Role))
		}

		if err := s.provider.AssignRole(user.ID, spec.Role); err != nil {
			return fmt.Errorf("assign role %s to %s: %w", spec.Role, spec.Email, err)
		}

		if _, err := s.SyncOne(user, spec.Role, spec.Phone); err != nil {
			return fmt.Errorf("sync seed user %s: %w", spec.Email, err)
		}
	}

	return nil
}
