package role

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLevel_TotalOrder(t *testing.T) {
	// Walking All from the top, each level must be strictly below the last
	previous := 0
	for i, name := range All {
		level, err := Level(name)
		require.NoError(t, err)
		if i > 0 {
			assert.Less(t, level, previous, "hierarchy must be strictly decreasing at %s", name)
		}
		previous = level
	}

	superAdmin, err := Level(SuperAdmin)
	require.NoError(t, err)
	viewer, err := Level(Viewer)
	require.NoError(t, err)
	assert.Greater(t, superAdmin, viewer)
}

func TestLevel_UnknownRole(t *testing.T) {
	_, err := Level("Operator")
	assert.True(t, errors.Is(err, ErrUnknownRole))

	_, err = Level("")
	assert.True(t, errors.Is(err, ErrUnknownRole))
}

func TestAuthorize(t *testing.T) {
	tests := []struct {
		name     string
		held     []string
		required []string
		allowed  bool
	}{
		{"exact match", []string{Planner}, []string{Planner}, true},
		{"higher subsumes lower", []string{Admin}, []string{Technician}, true},
		{"super admin subsumes everything", []string{SuperAdmin}, []string{Viewer}, true},
		{"lower does not subsume higher", []string{Viewer}, []string{Admin}, false},
		{"exact match low in hierarchy", []string{Technician}, []string{Technician}, true},
		{"same level different role denied", []string{Supervisor}, []string{Planner}, false},
		{"any of several required", []string{Supervisor}, []string{Planner, Supervisor}, true},
		{"above minimum of several", []string{Planner}, []string{Supervisor, Technician}, true},
		{"no roles held", nil, []string{Viewer}, false},
		{"no roles required", []string{Viewer}, nil, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			allowed, err := Authorize(tt.held, tt.required...)
			require.NoError(t, err)
			assert.Equal(t, tt.allowed, allowed)
		})
	}
}

func TestAuthorize_UnknownRequiredRole(t *testing.T) {
	_, err := Authorize([]string{Admin}, "Operator")
	assert.True(t, errors.Is(err, ErrUnknownRole))
}

func TestPrimary(t *testing.T) {
	assert.Equal(t, Admin, Primary([]string{Technician, Admin}))
	assert.Equal(t, SuperAdmin, Primary([]string{Viewer, SuperAdmin, Planner}))
	assert.Equal(t, Viewer, Primary(nil), "no assigned roles defaults to Viewer")
	assert.Equal(t, Viewer, Primary([]string{"Operator"}), "unknown names are ignored")
}

func TestIsCrossTenant(t *testing.T) {
	assert.True(t, IsCrossTenant(SuperAdmin))
	assert.True(t, IsCrossTenant(TenantAdmin))
	assert.False(t, IsCrossTenant(Admin))
	assert.False(t, IsCrossTenant(Viewer))
}
