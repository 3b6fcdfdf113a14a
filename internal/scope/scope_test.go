package scope

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func uintPtr(v uint) *uint {
	return &v
}

func TestResolve_MissingPrincipal(t *testing.T) {
	_, err := Resolve(nil)
	assert.True(t, errors.Is(err, ErrUnauthenticated))
}

func TestResolve_SuperAdmin(t *testing.T) {
	sc, err := Resolve(&Principal{UserID: 1, IsSuperAdmin: true})
	require.NoError(t, err)
	assert.True(t, sc.IsUnscoped())
}

func TestResolve_SuperAdminWithTenantStillUnscoped(t *testing.T) {
	sc, err := Resolve(&Principal{UserID: 1, IsSuperAdmin: true, PrimaryTenantID: uintPtr(7)})
	require.NoError(t, err)
	assert.True(t, sc.IsUnscoped())
}

func TestResolve_NormalUser(t *testing.T) {
	sc, err := Resolve(&Principal{UserID: 2, PrimaryTenantID: uintPtr(42)})
	require.NoError(t, err)
	assert.False(t, sc.IsUnscoped())
	assert.Equal(t, uint(42), sc.TenantID())
}

func TestResolve_FailsClosedWithoutTenant(t *testing.T) {
	// A non-super-admin with no primary tenant must be denied, never
	// widened to all tenants
	_, err := Resolve(&Principal{UserID: 3})
	assert.True(t, errors.Is(err, ErrUnauthenticated))
}

func TestCheck_ScopedVisibility(t *testing.T) {
	sc := Scoped(42)

	assert.NoError(t, sc.Check(uintPtr(42)))
	assert.True(t, errors.Is(sc.Check(uintPtr(7)), ErrTenantMismatch))

	// Global (nil-tenant) rows are never visible to a scoped principal
	assert.True(t, errors.Is(sc.Check(nil), ErrTenantMismatch))
}

func TestCheck_UnscopedSeesEverything(t *testing.T) {
	sc := Unscoped()

	assert.NoError(t, sc.Check(uintPtr(42)))
	assert.NoError(t, sc.Check(nil))
}

func TestForWrite(t *testing.T) {
	scoped := Scoped(9)
	id := scoped.ForWrite()
	require.NotNil(t, id)
	assert.Equal(t, uint(9), *id)

	assert.Nil(t, Unscoped().ForWrite(), "unscoped writers create global rows")
}
