package identity

import (
	"context"
	"errors"
	"time"

	"github.com/crm/backend/internal/domain/identity"
	"github.com/crm/backend/internal/domain/shared"
	"github.com/crm/backend/internal/infrastructure/auth"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// AuthService handles registration, login and token lifecycle
type AuthService struct {
	userRepo   identity.UserRepository
	jwtService *auth.JWTService
	blacklist  auth.TokenBlacklist
	logger     *zap.Logger
}

// NewAuthService creates a new authentication service. A nil blacklist
// makes logout a client-side operation only.
func NewAuthService(
	userRepo identity.UserRepository,
	jwtService *auth.JWTService,
	blacklist auth.TokenBlacklist,
	logger *zap.Logger,
) *AuthService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AuthService{
		userRepo:   userRepo,
		jwtService: jwtService,
		blacklist:  blacklist,
		logger:     logger,
	}
}

// Register creates a ROLE_USER account and signs it in
func (s *AuthService) Register(ctx context.Context, req RegisterRequest) (*AuthResponse, error) {
	taken, err := s.userRepo.ExistsByUsername(ctx, req.Username)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, shared.NewDomainError("ALREADY_EXISTS", "Username is already taken")
	}
	taken, err = s.userRepo.ExistsByEmail(ctx, req.Email)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, shared.NewDomainError("ALREADY_EXISTS", "Email is already registered")
	}

	tenantID := uuid.New()
	if req.TenantID != nil && *req.TenantID != uuid.Nil {
		tenantID = *req.TenantID
	}

	user, err := identity.NewUser(tenantID, req.Username, req.Email, req.Password)
	if err != nil {
		return nil, err
	}
	if err := user.UpdateProfile(req.FullName, req.Phone); err != nil {
		return nil, err
	}
	user.SetCompanyName(req.CompanyName)
	user.ClearDomainEvents()

	if err := s.userRepo.Save(ctx, user); err != nil {
		return nil, err
	}
	s.logger.Info("User registered",
		zap.String("user_id", user.ID.String()),
		zap.String("tenant_id", tenantID.String()))

	return s.issue(user)
}

// Login authenticates by username or email
func (s *AuthService) Login(ctx context.Context, req LoginRequest) (*AuthResponse, error) {
	user, err := s.userRepo.FindByLogin(ctx, req.Username)
	if err != nil {
		if shared.IsNotFound(err) {
			s.logger.Warn("Login for unknown user", zap.String("login", req.Username))
			return nil, identity.ErrInvalidCredentials
		}
		return nil, err
	}
	if err := user.Authenticate(req.Password); err != nil {
		s.logger.Warn("Login rejected", zap.String("login", req.Username))
		return nil, err
	}
	if err := s.userRepo.Save(ctx, user); err != nil {
		s.logger.Error("Failed to record login", zap.String("user_id", user.ID.String()), zap.Error(err))
	}
	s.logger.Info("User logged in", zap.String("user_id", user.ID.String()))
	return s.issue(user)
}

// Refresh exchanges a refresh token, reloading grants so role changes apply
func (s *AuthService) Refresh(ctx context.Context, req RefreshRequest) (*TokenResponse, error) {
	claims, err := s.jwtService.ValidateRefreshToken(req.RefreshToken)
	if err != nil {
		return nil, mapTokenError(err)
	}
	if err := s.checkRevoked(ctx, claims); err != nil {
		return nil, err
	}
	userID, err := claims.GetUserUUID()
	if err != nil {
		return nil, mapTokenError(auth.ErrInvalidClaims)
	}
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, shared.NewDomainError("UNAUTHORIZED", "User no longer exists")
	}
	if !user.Enabled {
		return nil, shared.NewDomainError("UNAUTHORIZED", "Account is disabled")
	}

	pair, _, err := s.jwtService.RefreshTokenPair(req.RefreshToken, user.RoleNames(), user.Permissions())
	if err != nil {
		return nil, mapTokenError(err)
	}
	if s.blacklist != nil && claims.ID != "" {
		if err := s.blacklist.Revoke(ctx, claims.ID, claims.GetRemainingTTL()); err != nil {
			s.logger.Warn("Failed to revoke used refresh token", zap.Error(err))
		}
	}
	return &TokenResponse{
		AccessToken:           pair.AccessToken,
		RefreshToken:          pair.RefreshToken,
		TokenType:             pair.TokenType,
		AccessTokenExpiresAt:  pair.AccessTokenExpiresAt,
		RefreshTokenExpiresAt: pair.RefreshTokenExpiresAt,
	}, nil
}

// Logout revokes the access token and, when given, the refresh token
func (s *AuthService) Logout(ctx context.Context, claims *auth.Claims, req LogoutRequest) error {
	if s.blacklist == nil || claims == nil {
		return nil
	}
	if claims.ID != "" {
		if err := s.blacklist.Revoke(ctx, claims.ID, claims.GetRemainingTTL()); err != nil {
			return err
		}
	}
	if req.RefreshToken != "" {
		refresh, err := s.jwtService.ValidateRefreshToken(req.RefreshToken)
		if err == nil && refresh.UserID == claims.UserID && refresh.ID != "" {
			if err := s.blacklist.Revoke(ctx, refresh.ID, refresh.GetRemainingTTL()); err != nil {
				return err
			}
		}
	}
	s.logger.Info("User logged out", zap.String("user_id", claims.UserID))
	return nil
}

// Me returns the caller's profile
func (s *AuthService) Me(ctx context.Context, userID uuid.UUID) (*UserResponse, error) {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	response := ToUserResponse(user)
	return &response, nil
}

// UpdateProfile edits the caller's full name and phone
func (s *AuthService) UpdateProfile(ctx context.Context, userID uuid.UUID, req UpdateProfileRequest) (*UserResponse, error) {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if err := user.UpdateProfile(req.FullName, req.Phone); err != nil {
		return nil, err
	}
	if err := s.userRepo.Save(ctx, user); err != nil {
		return nil, err
	}
	response := ToUserResponse(user)
	return &response, nil
}

// ChangePassword replaces the password and revokes every token issued so far
func (s *AuthService) ChangePassword(ctx context.Context, userID uuid.UUID, req ChangePasswordRequest) error {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return err
	}
	if err := user.ChangePassword(req.OldPassword, req.NewPassword); err != nil {
		return err
	}
	user.ClearDomainEvents()
	if err := s.userRepo.Save(ctx, user); err != nil {
		return err
	}
	if s.blacklist != nil {
		ttl := s.jwtService.GetRefreshTokenExpiration()
		if err := s.blacklist.RevokeUser(ctx, userID.String(), ttl); err != nil {
			s.logger.Warn("Failed to revoke tokens after password change", zap.Error(err))
		}
	}
	s.logger.Info("User password changed", zap.String("user_id", userID.String()))
	return nil
}

func (s *AuthService) issue(user *identity.User) (*AuthResponse, error) {
	pair, err := s.jwtService.GenerateTokenPair(auth.GenerateTokenInput{
		TenantID:    user.TenantID,
		UserID:      user.ID,
		Username:    user.Username,
		Email:       user.Email,
		Roles:       user.RoleNames(),
		Permissions: user.Permissions(),
	})
	if err != nil {
		s.logger.Error("Failed to generate token pair", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to generate authentication tokens")
	}
	return &AuthResponse{
		AccessToken:           pair.AccessToken,
		RefreshToken:          pair.RefreshToken,
		TokenType:             pair.TokenType,
		AccessTokenExpiresAt:  pair.AccessTokenExpiresAt,
		RefreshTokenExpiresAt: pair.RefreshTokenExpiresAt,
		ID:                    user.ID,
		Username:              user.Username,
		Email:                 user.Email,
		FullName:              user.FullName,
		CompanyName:           user.CompanyName,
		TenantID:              user.TenantID,
		Roles:                 user.RoleNames(),
		Permissions:           user.Permissions(),
	}, nil
}

func (s *AuthService) checkRevoked(ctx context.Context, claims *auth.Claims) error {
	if s.blacklist == nil {
		return nil
	}
	if claims.ID != "" {
		revoked, err := s.blacklist.IsRevoked(ctx, claims.ID)
		if err != nil {
			return err
		}
		if revoked {
			return mapTokenError(auth.ErrTokenBlacklisted)
		}
	}
	var issuedAt time.Time
	if claims.IssuedAt != nil {
		issuedAt = claims.IssuedAt.Time
	}
	revoked, err := s.blacklist.IsUserRevoked(ctx, claims.UserID, issuedAt)
	if err != nil {
		return err
	}
	if revoked {
		return mapTokenError(auth.ErrTokenBlacklisted)
	}
	return nil
}

func mapTokenError(err error) error {
	switch {
	case errors.Is(err, auth.ErrExpiredToken):
		return shared.NewDomainError("UNAUTHORIZED", "Refresh token has expired")
	case errors.Is(err, auth.ErrMaxRefreshExceeded):
		return shared.NewDomainError("UNAUTHORIZED", "Maximum token refresh count exceeded. Please log in again")
	case errors.Is(err, auth.ErrTokenBlacklisted):
		return shared.NewDomainError("UNAUTHORIZED", "Refresh token has been revoked")
	default:
		return shared.NewDomainError("UNAUTHORIZED", "Invalid refresh token")
	}
}
