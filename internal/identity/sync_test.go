package identity

import (
	"errors"
	"testing"

	"cmms-service/internal/model"
	"cmms-service/internal/role"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// fakeLegacyStore is an in-memory LegacyStore tracking write counts
type fakeLegacyStore struct {
	records []*model.LegacyUser
	nextID  uint
	creates int
	updates int
}

func newFakeLegacyStore() *fakeLegacyStore {
	return &fakeLegacyStore{nextID: 1}
}

func (s *fakeLegacyStore) FindByIdentityID(identityID uint) (*model.LegacyUser, error) {
	for _, r := range s.records {
		if r.IdentityID != nil && *r.IdentityID == identityID {
			copied := *r
			return &copied, nil
		}
	}
	return nil, nil
}

func (s *fakeLegacyStore) FindByEmail(email string) (*model.LegacyUser, error) {
	for _, r := range s.records {
		if r.Email == email {
			copied := *r
			return &copied, nil
		}
	}
	return nil, nil
}

func (s *fakeLegacyStore) Create(record *model.LegacyUser) error {
	record.ID = s.nextID
	s.nextID++
	copied := *record
	s.records = append(s.records, &copied)
	s.creates++
	return nil
}

func (s *fakeLegacyStore) Update(record *model.LegacyUser) error {
	for i, r := range s.records {
		if r.ID == record.ID {
			copied := *record
			s.records[i] = &copied
			s.updates++
			return nil
		}
	}
	return errors.New("record not found")
}

// fakeProvider is an in-memory Provider sufficient for sync tests
type fakeProvider struct {
	users []model.User
	roles map[uint][]string
}

func newFakeProvider() *fakeProvider {
	return &fakeProvider{roles: map[uint][]string{}}
}

func (p *fakeProvider) CreateUser(user *model.User) error {
	user.ID = uint(len(p.users) + 1)
	p.users = append(p.users, *user)
	return nil
}

func (p *fakeProvider) FindByEmail(email string) (*model.User, error) {
	for i := range p.users {
		if p.users[i].Email == email {
			copied := p.users[i]
			return &copied, nil
		}
	}
	return nil, nil
}

func (p *fakeProvider) ListUsers() ([]model.User, error) {
	return append([]model.User(nil), p.users...), nil
}

func (p *fakeProvider) EnsureRole(name string) (*model.Role, error) {
	return &model.Role{ID: 1, Name: name}, nil
}

func (p *fakeProvider) AssignRole(userID uint, roleName string) error {
	for _, have := range p.roles[userID] {
		if have == roleName {
			return nil
		}
	}
	p.roles[userID] = append(p.roles[userID], roleName)
	return nil
}

func (p *fakeProvider) EnsureRoleClaim(roleID uint, claimType, value string) error {
	return nil
}

func (p *fakeProvider) GetRoles(userID uint) ([]string, error) {
	return p.roles[userID], nil
}

func (p *fakeProvider) GetRoleClaims(roleID uint) ([]model.RoleClaim, error) {
	return nil, nil
}

func testSyncer(provider Provider, legacy LegacyStore) *Syncer {
	return NewSyncer(provider, legacy, zap.NewNop())
}

func uintPtr(v uint) *uint {
	return &v
}

func TestSyncOne_CreatesMirror(t *testing.T) {
	legacy := newFakeLegacyStore()
	s := testSyncer(newFakeProvider(), legacy)

	user := &model.User{
		ID:              10,
		Email:           "tech@plant.example",
		FirstName:       "Jordan",
		LastName:        "Mills",
		Department:      "Maintenance",
		PrimaryTenantID: uintPtr(3),
		Active:          true,
	}

	changed, err := s.SyncOne(user, role.Technician, "+15550101")
	require.NoError(t, err)
	assert.True(t, changed)
	require.Len(t, legacy.records, 1)

	record := legacy.records[0]
	require.NotNil(t, record.IdentityID)
	assert.Equal(t, uint(10), *record.IdentityID)
	assert.Equal(t, "tech@plant.example", record.Email)
	assert.Equal(t, "Jordan Mills", record.FullName)
	assert.Equal(t, role.Technician, record.Role)
	assert.Equal(t, "+15550101", record.Phone)
	require.NotNil(t, record.TenantID)
	assert.Equal(t, uint(3), *record.TenantID)
	assert.True(t, record.Active)
}

func TestSyncOne_OverwritesDenormalizedFields(t *testing.T) {
	legacy := newFakeLegacyStore()
	s := testSyncer(newFakeProvider(), legacy)

	// Pre-existing mirror matched by email only, with stale fields and no
	// back-reference — e.g. edited independently of the identity store
	require.NoError(t, legacy.Create(&model.LegacyUser{
		Email:      "planner@plant.example",
		FullName:   "Old Name",
		Role:       role.Viewer,
		Department: "Old Dept",
		Active:     false,
	}))

	user := &model.User{
		ID:              7,
		Email:           "planner@plant.example",
		FirstName:       "Avery",
		LastName:        "Cho",
		Department:      "Planning",
		PrimaryTenantID: uintPtr(1),
		Active:          true,
	}

	changed, err := s.SyncOne(user, role.Planner, "")
	require.NoError(t, err)
	assert.True(t, changed)
	require.Len(t, legacy.records, 1, "must re-link, not duplicate")

	record := legacy.records[0]
	require.NotNil(t, record.IdentityID, "back-reference stamped on first sync")
	assert.Equal(t, uint(7), *record.IdentityID)
	assert.Equal(t, "Avery Cho", record.FullName)
	assert.Equal(t, role.Planner, record.Role)
	assert.Equal(t, "Planning", record.Department)
	assert.True(t, record.Active)
}

func TestSyncOne_BackReferenceWinsOnEmailChange(t *testing.T) {
	legacy := newFakeLegacyStore()
	s := testSyncer(newFakeProvider(), legacy)

	require.NoError(t, legacy.Create(&model.LegacyUser{
		IdentityID: uintPtr(5),
		Email:      "old@plant.example",
		Role:       role.Supervisor,
		Active:     true,
	}))

	// Identity user changed email; no legacy row matches the new one
	user := &model.User{ID: 5, Email: "new@plant.example", Active: true}

	changed, err := s.SyncOne(user, role.Supervisor, "")
	require.NoError(t, err)
	assert.True(t, changed)
	require.Len(t, legacy.records, 1, "email change re-links the existing mirror")
	assert.Equal(t, "new@plant.example", legacy.records[0].Email)
}

func TestSyncOne_ConflictingMirrors(t *testing.T) {
	legacy := newFakeLegacyStore()
	s := testSyncer(newFakeProvider(), legacy)

	// One row holds the back-reference, a different row holds the email
	require.NoError(t, legacy.Create(&model.LegacyUser{
		IdentityID: uintPtr(5),
		Email:      "old@plant.example",
	}))
	require.NoError(t, legacy.Create(&model.LegacyUser{
		Email: "new@plant.example",
	}))

	user := &model.User{ID: 5, Email: "new@plant.example"}

	_, err := s.SyncOne(user, role.Viewer, "")
	assert.True(t, errors.Is(err, ErrSyncConflict))
	assert.Equal(t, 0, legacy.updates, "conflict must not silently pick a row")
}

func TestSyncOne_Idempotent(t *testing.T) {
	legacy := newFakeLegacyStore()
	s := testSyncer(newFakeProvider(), legacy)

	user := &model.User{ID: 1, Email: "viewer@plant.example", Active: true}

	changed, err := s.SyncOne(user, role.Viewer, "")
	require.NoError(t, err)
	assert.True(t, changed)

	changed, err = s.SyncOne(user, role.Viewer, "")
	require.NoError(t, err)
	assert.False(t, changed, "no-op sync must not write")
	assert.Equal(t, 1, legacy.creates)
	assert.Equal(t, 0, legacy.updates)
}

func TestSyncAll_IdempotentSecondRun(t *testing.T) {
	provider := newFakeProvider()
	legacy := newFakeLegacyStore()
	s := testSyncer(provider, legacy)

	require.NoError(t, provider.CreateUser(&model.User{Email: "a@plant.example", Active: true}))
	require.NoError(t, provider.CreateUser(&model.User{Email: "b@plant.example", Active: true}))
	require.NoError(t, provider.AssignRole(1, role.Admin))
	// User 2 has no roles and falls back to Viewer

	written, err := s.SyncAll()
	require.NoError(t, err)
	assert.Equal(t, 2, written)
	assert.Equal(t, role.Admin, legacy.records[0].Role)
	assert.Equal(t, role.Viewer, legacy.records[1].Role)

	written, err = s.SyncAll()
	require.NoError(t, err)
	assert.Equal(t, 0, written, "second run with no identity changes writes nothing")
}

func TestSyncAll_PrimaryRolePicksHighest(t *testing.T) {
	provider := newFakeProvider()
	legacy := newFakeLegacyStore()
	s := testSyncer(provider, legacy)

	require.NoError(t, provider.CreateUser(&model.User{Email: "multi@plant.example", Active: true}))
	require.NoError(t, provider.AssignRole(1, role.Technician))
	require.NoError(t, provider.AssignRole(1, role.Planner))

	_, err := s.SyncAll()
	require.NoError(t, err)
	assert.Equal(t, role.Planner, legacy.records[0].Role)
}

func TestSyncAll_ContinuesPastConflicts(t *testing.T) {
	provider := newFakeProvider()
	legacy := newFakeLegacyStore()
	s := testSyncer(provider, legacy)

	require.NoError(t, provider.CreateUser(&model.User{Email: "bad@plant.example", Active: true}))
	require.NoError(t, provider.CreateUser(&model.User{Email: "good@plant.example", Active: true}))

	// Manufacture a conflict for the first user
	require.NoError(t, legacy.Create(&model.LegacyUser{IdentityID: uintPtr(1), Email: "stale@plant.example"}))
	require.NoError(t, legacy.Create(&model.LegacyUser{Email: "bad@plant.example"}))

	written, err := s.SyncAll()
	require.Error(t, err, "batch reports the failure")
	assert.Equal(t, 1, written, "remaining users still sync")

	record, ferr := legacy.FindByEmail("good@plant.example")
	require.NoError(t, ferr)
	require.NotNil(t, record, "one bad record must not abort the batch")
}
