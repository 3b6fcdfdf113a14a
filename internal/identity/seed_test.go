package identity

import (
	"testing"

	"cmms-service/internal/role"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSeedRolesAndUsers_CreatesUserAndMirror(t *testing.T) {
	provider := newFakeProvider()
	legacy := newFakeLegacyStore()
	s := testSyncer(provider, legacy)

	err := s.SeedRolesAndUsers([]SeedUser{
		{
			Email:     "planner@plant.example",
			Password:  "seedpass",
			FirstName: "Sam",
			LastName:  "Reyes",
			Role:      role.Planner,
		},
	})
	require.NoError(t, err)

	user, err := provider.FindByEmail("planner@plant.example")
	require.NoError(t, err)
	require.NotNil(t, user)
	assert.NotEqual(t, "seedpass", user.Password, "password must be hashed")
	assert.Contains(t, provider.roles[user.ID], role.Planner)

	record, err := legacy.FindByEmail("planner@plant.example")
	require.NoError(t, err)
	require.NotNil(t, record)
	assert.Equal(t, role.Planner, record.Role)
}

func TestSeedRolesAndUsers_ReseedConverges(t *testing.T) {
	provider := newFakeProvider()
	legacy := newFakeLegacyStore()
	s := testSyncer(provider, legacy)

	seed := []SeedUser{{
		Email:    "admin@plant.example",
		Password: "seedpass",
		Role:     role.Admin,
	}}

	require.NoError(t, s.SeedRolesAndUsers(seed))
	require.NoError(t, s.SeedRolesAndUsers(seed))

	assert.Len(t, provider.users, 1, "reseeding must not duplicate the identity user")
	assert.Len(t, legacy.records, 1, "reseeding must not duplicate the mirror")
	assert.Equal(t, []string{role.Admin}, provider.roles[1])
}

func TestSeedRolesAndUsers_RejectsUnknownRole(t *testing.T) {
	s := testSyncer(newFakeProvider(), newFakeLegacyStore())

	err := s.SeedRolesAndUsers([]SeedUser{{
		Email:    "x@plant.example",
		Password: "p",
		Role:     "Operator",
	}})
	assert.ErrorIs(t, err, role.ErrUnknownRole)
}
