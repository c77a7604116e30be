package identity

import (
	"context"

	"github.com/crm/backend/internal/domain/identity"
	"github.com/crm/backend/internal/domain/shared"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// UserService handles tenant user administration
type UserService struct {
	userRepo identity.UserRepository
	logger   *zap.Logger
}

// NewUserService creates a new user service
func NewUserService(userRepo identity.UserRepository, logger *zap.Logger) *UserService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &UserService{userRepo: userRepo, logger: logger}
}

// List returns the users of a tenant with the total count
func (s *UserService) List(ctx context.Context, tenantID uuid.UUID, filter UserListFilter) ([]UserResponse, int64, error) {
	domainFilter := shared.DefaultFilter()
	if filter.Page > 0 {
		domainFilter.Page = filter.Page
	}
	if filter.PageSize > 0 {
		domainFilter.PageSize = filter.PageSize
	}
	if filter.OrderBy != "" {
		domainFilter.OrderBy = filter.OrderBy
	}
	if filter.OrderDir != "" {
		domainFilter.OrderDir = filter.OrderDir
	}
	domainFilter.Search = filter.Search

	users, err := s.userRepo.FindAllForTenant(ctx, tenantID, domainFilter)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.userRepo.CountForTenant(ctx, tenantID, domainFilter)
	if err != nil {
		return nil, 0, err
	}
	return ToUserResponses(users), total, nil
}

// GetByID returns a user of the tenant
func (s *UserService) GetByID(ctx context.Context, tenantID, userID uuid.UUID) (*UserResponse, error) {
	user, err := s.load(ctx, tenantID, userID)
	if err != nil {
		return nil, err
	}
	response := ToUserResponse(user)
	return &response, nil
}

// SetRoles replaces the roles of a user
func (s *UserService) SetRoles(ctx context.Context, tenantID, userID uuid.UUID, req SetRolesRequest) (*UserResponse, error) {
	user, err := s.load(ctx, tenantID, userID)
	if err != nil {
		return nil, err
	}
	roles := make([]identity.Role, 0, len(req.Roles))
	for _, name := range req.Roles {
		role, err := identity.ParseRole(name)
		if err != nil {
			return nil, err
		}
		roles = append(roles, role)
	}
	if err := user.SetRoles(roles); err != nil {
		return nil, err
	}
	if err := s.userRepo.Save(ctx, user); err != nil {
		return nil, err
	}
	s.logger.Info("User roles updated",
		zap.String("user_id", userID.String()),
		zap.Strings("roles", user.RoleNames()))
	response := ToUserResponse(user)
	return &response, nil
}

// Enable re-allows login
func (s *UserService) Enable(ctx context.Context, tenantID, userID uuid.UUID) (*UserResponse, error) {
	return s.setEnabled(ctx, tenantID, userID, true)
}

// Disable blocks login; existing tokens stay valid until they expire
func (s *UserService) Disable(ctx context.Context, tenantID, userID uuid.UUID) (*UserResponse, error) {
	return s.setEnabled(ctx, tenantID, userID, false)
}

func (s *UserService) setEnabled(ctx context.Context, tenantID, userID uuid.UUID, enabled bool) (*UserResponse, error) {
	user, err := s.load(ctx, tenantID, userID)
	if err != nil {
		return nil, err
	}
	if user.Enabled != enabled {
		if enabled {
			user.Enable()
		} else {
			user.Disable()
		}
		if err := s.userRepo.Save(ctx, user); err != nil {
			return nil, err
		}
	}
	response := ToUserResponse(user)
	return &response, nil
}

// load hides users of other tenants behind NOT_FOUND
func (s *UserService) load(ctx context.Context, tenantID, userID uuid.UUID) (*identity.User, error) {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user.TenantID != tenantID {
		return nil, shared.NewDomainError("NOT_FOUND", "User not found")
	}
	return user, nil
}
