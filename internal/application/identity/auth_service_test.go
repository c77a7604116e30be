package identity

import (
	"context"
	"testing"
	"time"

	"github.com/crm/backend/internal/domain/identity"
	"github.com/crm/backend/internal/domain/shared"
	"github.com/crm/backend/internal/infrastructure/auth"
	"github.com/crm/backend/internal/infrastructure/config"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// MockUserRepository is a mock implementation of identity.UserRepository
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) FindByID(ctx context.Context, id uuid.UUID) (*identity.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*identity.User), args.Error(1)
}

func (m *MockUserRepository) FindByLogin(ctx context.Context, login string) (*identity.User, error) {
	args := m.Called(ctx, login)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*identity.User), args.Error(1)
}

func (m *MockUserRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]identity.User, error) {
	args := m.Called(ctx, tenantID, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]identity.User), args.Error(1)
}

func (m *MockUserRepository) CountForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, tenantID, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockUserRepository) ExistsByUsername(ctx context.Context, username string) (bool, error) {
	args := m.Called(ctx, username)
	return args.Bool(0), args.Error(1)
}

func (m *MockUserRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	args := m.Called(ctx, email)
	return args.Bool(0), args.Error(1)
}

func (m *MockUserRepository) Save(ctx context.Context, user *identity.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func newTestJWT() *auth.JWTService {
	return auth.NewJWTService(config.JWTConfig{
		Secret:                 "test-secret-key-at-least-32-chars",
		AccessTokenExpiration:  15 * time.Minute,
		RefreshTokenExpiration: 24 * time.Hour,
		Issuer:                 "crm-test",
		MaxRefreshCount:        5,
	})
}

func newTestUser(t *testing.T, password string) *identity.User {
	t.Helper()
	user, err := identity.NewUser(uuid.New(), "alice", "alice@example.com", password)
	require.NoError(t, err)
	require.NoError(t, user.SetRoles([]identity.Role{identity.RoleSales}))
	return user
}

func setupAuthService() (*AuthService, *MockUserRepository, *auth.InMemoryTokenBlacklist) {
	repo := new(MockUserRepository)
	blacklist := auth.NewInMemoryTokenBlacklist()
	return NewAuthService(repo, newTestJWT(), blacklist, zap.NewNop()), repo, blacklist
}

func TestAuthService_Register(t *testing.T) {
	ctx := context.Background()

	t.Run("creates user and issues tokens", func(t *testing.T) {
		svc, repo, _ := setupAuthService()
		repo.On("ExistsByUsername", ctx, "bob").Return(false, nil)
		repo.On("ExistsByEmail", ctx, "bob@example.com").Return(false, nil)
		repo.On("Save", ctx, mock.AnythingOfType("*identity.User")).Return(nil)

		resp, err := svc.Register(ctx, RegisterRequest{
			Username:    "bob",
			Email:       "bob@example.com",
			Password:    "secret1",
			FullName:    "Bob Stone",
			CompanyName: "Acme",
		})
		require.NoError(t, err)
		assert.NotEmpty(t, resp.AccessToken)
		assert.Equal(t, "Bearer", resp.TokenType)
		assert.Equal(t, []string{"ROLE_USER"}, resp.Roles)
		assert.Equal(t, "Acme", resp.CompanyName)
		assert.NotEqual(t, uuid.Nil, resp.TenantID)
		repo.AssertExpectations(t)
	})

	t.Run("joins supplied tenant", func(t *testing.T) {
		svc, repo, _ := setupAuthService()
		tenant := uuid.New()
		repo.On("ExistsByUsername", ctx, "carol").Return(false, nil)
		repo.On("ExistsByEmail", ctx, "carol@example.com").Return(false, nil)
		repo.On("Save", ctx, mock.AnythingOfType("*identity.User")).Return(nil)

		resp, err := svc.Register(ctx, RegisterRequest{Username: "carol", Email: "carol@example.com", Password: "secret1", TenantID: &tenant})
		require.NoError(t, err)
		assert.Equal(t, tenant, resp.TenantID)
	})

	t.Run("duplicate username", func(t *testing.T) {
		svc, repo, _ := setupAuthService()
		repo.On("ExistsByUsername", ctx, "bob").Return(true, nil)

		_, err := svc.Register(ctx, RegisterRequest{Username: "bob", Email: "bob@example.com", Password: "secret1"})
		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "ALREADY_EXISTS", domainErr.Code)
		repo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})

	t.Run("duplicate email", func(t *testing.T) {
		svc, repo, _ := setupAuthService()
		repo.On("ExistsByUsername", ctx, "bob").Return(false, nil)
		repo.On("ExistsByEmail", ctx, "bob@example.com").Return(true, nil)

		_, err := svc.Register(ctx, RegisterRequest{Username: "bob", Email: "bob@example.com", Password: "secret1"})
		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "ALREADY_EXISTS", domainErr.Code)
	})
}

func TestAuthService_Login(t *testing.T) {
	ctx := context.Background()

	t.Run("success records login", func(t *testing.T) {
		svc, repo, _ := setupAuthService()
		user := newTestUser(t, "secret1")
		repo.On("FindByLogin", ctx, "alice").Return(user, nil)
		repo.On("Save", ctx, user).Return(nil)

		resp, err := svc.Login(ctx, LoginRequest{Username: "alice", Password: "secret1"})
		require.NoError(t, err)
		assert.Equal(t, user.ID, resp.ID)
		assert.Contains(t, resp.Permissions, identity.PermDealWrite)
		assert.NotNil(t, user.LastLoginAt)
	})

	t.Run("wrong password", func(t *testing.T) {
		svc, repo, _ := setupAuthService()
		repo.On("FindByLogin", ctx, "alice").Return(newTestUser(t, "secret1"), nil)

		_, err := svc.Login(ctx, LoginRequest{Username: "alice", Password: "nope"})
		assert.ErrorIs(t, err, identity.ErrInvalidCredentials)
	})

	t.Run("unknown user", func(t *testing.T) {
		svc, repo, _ := setupAuthService()
		repo.On("FindByLogin", ctx, "ghost").Return(nil, shared.ErrNotFound)

		_, err := svc.Login(ctx, LoginRequest{Username: "ghost", Password: "secret1"})
		assert.ErrorIs(t, err, identity.ErrInvalidCredentials)
	})

	t.Run("disabled user", func(t *testing.T) {
		svc, repo, _ := setupAuthService()
		user := newTestUser(t, "secret1")
		user.Disable()
		repo.On("FindByLogin", ctx, "alice").Return(user, nil)

		_, err := svc.Login(ctx, LoginRequest{Username: "alice", Password: "secret1"})
		assert.ErrorIs(t, err, identity.ErrInvalidCredentials)
	})
}

func TestAuthService_RefreshAndLogout(t *testing.T) {
	ctx := context.Background()
	svc, repo, _ := setupAuthService()
	user := newTestUser(t, "secret1")
	repo.On("FindByLogin", ctx, "alice").Return(user, nil)
	repo.On("FindByID", ctx, user.ID).Return(user, nil)
	repo.On("Save", ctx, user).Return(nil)

	login, err := svc.Login(ctx, LoginRequest{Username: "alice", Password: "secret1"})
	require.NoError(t, err)

	t.Run("refresh picks up new roles", func(t *testing.T) {
		require.NoError(t, user.SetRoles([]identity.Role{identity.RoleAdmin}))
		tokens, err := svc.Refresh(ctx, RefreshRequest{RefreshToken: login.RefreshToken})
		require.NoError(t, err)

		claims, err := newTestJWT().ValidateAccessToken(tokens.AccessToken)
		require.NoError(t, err)
		assert.True(t, claims.HasRole("ROLE_ADMIN"))
	})

	t.Run("used refresh token is revoked", func(t *testing.T) {
		_, err := svc.Refresh(ctx, RefreshRequest{RefreshToken: login.RefreshToken})
		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "UNAUTHORIZED", domainErr.Code)
	})

	t.Run("invalid token", func(t *testing.T) {
		_, err := svc.Refresh(ctx, RefreshRequest{RefreshToken: "garbage"})
		assert.Error(t, err)
	})

	t.Run("logout revokes both tokens", func(t *testing.T) {
		fresh, err := svc.Login(ctx, LoginRequest{Username: "alice", Password: "secret1"})
		require.NoError(t, err)
		claims, err := newTestJWT().ValidateAccessToken(fresh.AccessToken)
		require.NoError(t, err)

		require.NoError(t, svc.Logout(ctx, claims, LogoutRequest{RefreshToken: fresh.RefreshToken}))

		_, err = svc.Refresh(ctx, RefreshRequest{RefreshToken: fresh.RefreshToken})
		assert.Error(t, err)
	})
}

func TestAuthService_ChangePassword(t *testing.T) {
	ctx := context.Background()

	t.Run("revokes outstanding tokens", func(t *testing.T) {
		svc, repo, blacklist := setupAuthService()
		user := newTestUser(t, "secret1")
		repo.On("FindByID", ctx, user.ID).Return(user, nil)
		repo.On("Save", ctx, user).Return(nil)

		require.NoError(t, svc.ChangePassword(ctx, user.ID, ChangePasswordRequest{OldPassword: "secret1", NewPassword: "secret2"}))
		assert.True(t, user.VerifyPassword("secret2"))

		revoked, err := blacklist.IsUserRevoked(ctx, user.ID.String(), time.Now().Add(-time.Minute))
		require.NoError(t, err)
		assert.True(t, revoked)
	})

	t.Run("wrong old password", func(t *testing.T) {
		svc, repo, _ := setupAuthService()
		user := newTestUser(t, "secret1")
		repo.On("FindByID", ctx, user.ID).Return(user, nil)

		err := svc.ChangePassword(ctx, user.ID, ChangePasswordRequest{OldPassword: "wrong", NewPassword: "secret2"})
		assert.Error(t, err)
		repo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})
}

func TestAuthService_Profile(t *testing.T) {
	ctx := context.Background()
	svc, repo, _ := setupAuthService()
	user := newTestUser(t, "secret1")
	repo.On("FindByID", ctx, user.ID).Return(user, nil)
	repo.On("Save", ctx, user).Return(nil)

	me, err := svc.Me(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, "alice", me.Username)

	updated, err := svc.UpdateProfile(ctx, user.ID, UpdateProfileRequest{FullName: "Alice Doe", Phone: "+1 555"})
	require.NoError(t, err)
	assert.Equal(t, "Alice Doe", updated.FullName)
}
