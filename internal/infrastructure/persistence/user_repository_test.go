package persistence

import (
	"context"
	"testing"

	"github.com/crm/backend/internal/domain/identity"
	"github.com/crm/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGormUserRepository(t *testing.T) {
	db := setupTestDB(t)
	repo := NewGormUserRepository(db)
	ctx := context.Background()
	tenantID := uuid.New()

	user, err := identity.NewUser(tenantID, "Alice", "Alice@Example.com", "secret123")
	require.NoError(t, err)
	require.NoError(t, user.SetRoles([]identity.Role{identity.RoleSales, identity.RoleUser}))
	require.NoError(t, repo.Save(ctx, user))

	t.Run("finds by username or email", func(t *testing.T) {
		byName, err := repo.FindByLogin(ctx, "alice")
		require.NoError(t, err)
		assert.Equal(t, user.ID, byName.ID)

		byEmail, err := repo.FindByLogin(ctx, "ALICE@example.com")
		require.NoError(t, err)
		assert.Equal(t, user.ID, byEmail.ID)
	})

	t.Run("round trips roles", func(t *testing.T) {
		found, err := repo.FindByID(ctx, user.ID)
		require.NoError(t, err)
		assert.True(t, found.HasRole(identity.RoleSales))
		assert.True(t, found.HasRole(identity.RoleUser))
		assert.True(t, found.VerifyPassword("secret123"))
	})

	t.Run("reports taken usernames and emails", func(t *testing.T) {
		taken, err := repo.ExistsByUsername(ctx, "ALICE")
		require.NoError(t, err)
		assert.True(t, taken)

		taken, err = repo.ExistsByEmail(ctx, "bob@example.com")
		require.NoError(t, err)
		assert.False(t, taken)
	})

	t.Run("missing users map to ErrNotFound", func(t *testing.T) {
		_, err := repo.FindByLogin(ctx, "nobody")
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})

	t.Run("lists tenant users", func(t *testing.T) {
		count, err := repo.CountForTenant(ctx, tenantID, shared.Filter{})
		require.NoError(t, err)
		assert.Equal(t, int64(1), count)
	})
}
