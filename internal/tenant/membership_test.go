package tenant

import (
	"testing"
	"time"

	"cmms-service/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeMappingStore is an in-memory MappingStore
type fakeMappingStore struct {
	rows   []*model.TenantUserMapping
	nextID uint
}

func newFakeMappingStore() *fakeMappingStore {
	return &fakeMappingStore{nextID: 1}
}

func (s *fakeMappingStore) FindOpen(userID, tenantID uint) (*model.TenantUserMapping, error) {
	for _, r := range s.rows {
		if r.UserID == userID && r.TenantID == tenantID && r.RemovedDate == nil {
			copied := *r
			return &copied, nil
		}
	}
	return nil, nil
}

func (s *fakeMappingStore) Create(mapping *model.TenantUserMapping) error {
	mapping.ID = s.nextID
	s.nextID++
	mapping.CreatedAt = time.Now()
	copied := *mapping
	s.rows = append(s.rows, &copied)
	return nil
}

func (s *fakeMappingStore) Save(mapping *model.TenantUserMapping) error {
	for i, r := range s.rows {
		if r.ID == mapping.ID {
			copied := *mapping
			s.rows[i] = &copied
			return nil
		}
	}
	copied := *mapping
	s.rows = append(s.rows, &copied)
	return nil
}

func (s *fakeMappingStore) History(tenantID uint) ([]model.TenantUserMapping, error) {
	var out []model.TenantUserMapping
	for _, r := range s.rows {
		if r.TenantID == tenantID {
			out = append(out, *r)
		}
	}
	return out, nil
}

func TestAddOpensMapping(t *testing.T) {
	m := NewMembership(newFakeMappingStore())

	mapping, created, err := m.Add(1, 10, false)
	require.NoError(t, err)
	assert.True(t, created)
	assert.True(t, mapping.IsCurrent())
	assert.Equal(t, uint(10), mapping.TenantID)
}

func TestAddOpenMappingUpdatesInPlace(t *testing.T) {
	m := NewMembership(newFakeMappingStore())

	_, _, err := m.Add(1, 10, false)
	require.NoError(t, err)

	mapping, created, err := m.Add(1, 10, true)
	require.NoError(t, err)
	assert.False(t, created, "open mapping must be updated, not duplicated")
	assert.True(t, mapping.IsTenantAdmin)

	history, err := m.History(10)
	require.NoError(t, err)
	assert.Len(t, history, 1)
}

func TestRemoveStampsRemovedDateAndKeepsRow(t *testing.T) {
	m := NewMembership(newFakeMappingStore())

	_, _, err := m.Add(1, 10, false)
	require.NoError(t, err)

	removedAt := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	require.NoError(t, m.Remove(1, 10, removedAt))

	history, err := m.History(10)
	require.NoError(t, err)
	require.Len(t, history, 1, "closed row must stay queryable for audit")
	require.NotNil(t, history[0].RemovedDate)
	assert.Equal(t, removedAt, *history[0].RemovedDate)
	assert.False(t, history[0].IsCurrent())
}

func TestReAddAfterRemovalOpensFreshRow(t *testing.T) {
	m := NewMembership(newFakeMappingStore())

	_, _, err := m.Add(1, 10, true)
	require.NoError(t, err)
	require.NoError(t, m.Remove(1, 10, time.Now()))

	mapping, created, err := m.Add(1, 10, false)
	require.NoError(t, err)
	assert.True(t, created, "re-add must open a fresh row, not revive the closed one")
	assert.True(t, mapping.IsCurrent())

	history, err := m.History(10)
	require.NoError(t, err)
	require.Len(t, history, 2)

	open := 0
	for _, row := range history {
		if row.IsCurrent() {
			open++
		}
	}
	assert.Equal(t, 1, open)
}

func TestRemoveWithoutOpenMapping(t *testing.T) {
	m := NewMembership(newFakeMappingStore())

	err := m.Remove(1, 10, time.Now())
	assert.ErrorIs(t, err, ErrNotMember)

	_, _, err = m.Add(1, 10, false)
	require.NoError(t, err)
	require.NoError(t, m.Remove(1, 10, time.Now()))

	err = m.Remove(1, 10, time.Now())
	assert.ErrorIs(t, err, ErrNotMember, "closed mapping must not be removable twice")
}
