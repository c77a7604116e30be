package identity

import (
	"time"

	"github.com/crm/backend/internal/domain/identity"
	"github.com/google/uuid"
)

// RegisterRequest creates a user account
type RegisterRequest struct {
	Username    string     `json:"username" binding:"required,min=3,max=50"`
	Email       string     `json:"email" binding:"required,email"`
	Password    string     `json:"password" binding:"required,min=6,max=100"`
	FullName    string     `json:"full_name" binding:"max=200"`
	Phone       string     `json:"phone" binding:"max=50"`
	CompanyName string     `json:"company_name" binding:"max=200"`
	TenantID    *uuid.UUID `json:"tenant_id"`
}

// LoginRequest authenticates by username or email
type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// RefreshRequest exchanges a refresh token for a new pair
type RefreshRequest struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}

// LogoutRequest optionally revokes the refresh token too
type LogoutRequest struct {
	RefreshToken string `json:"refresh_token"`
}

// UpdateProfileRequest edits the caller's profile
type UpdateProfileRequest struct {
	FullName string `json:"full_name" binding:"max=200"`
	Phone    string `json:"phone" binding:"max=50"`
}

// ChangePasswordRequest replaces the caller's password
type ChangePasswordRequest struct {
	OldPassword string `json:"old_password" binding:"required"`
	NewPassword string `json:"new_password" binding:"required,min=6,max=100"`
}

// SetRolesRequest replaces a user's roles
type SetRolesRequest struct {
	Roles []string `json:"roles" binding:"required,min=1"`
}

// UserListFilter represents filter options for the user list
type UserListFilter struct {
	Search   string `form:"search"`
	Page     int    `form:"page" binding:"omitempty,min=1"`
	PageSize int    `form:"page_size" binding:"omitempty,min=1,max=100"`
	OrderBy  string `form:"order_by"`
	OrderDir string `form:"order_dir" binding:"omitempty,oneof=asc desc"`
}

// UserResponse is the public view of a user
type UserResponse struct {
	ID          uuid.UUID  `json:"id"`
	TenantID    uuid.UUID  `json:"tenant_id"`
	Username    string     `json:"username"`
	Email       string     `json:"email"`
	FullName    string     `json:"full_name,omitempty"`
	Phone       string     `json:"phone,omitempty"`
	CompanyName string     `json:"company_name,omitempty"`
	Roles       []string   `json:"roles"`
	Permissions []string   `json:"permissions"`
	Enabled     bool       `json:"enabled"`
	LastLoginAt *time.Time `json:"last_login_at,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
}

// AuthResponse is returned by login and register
type AuthResponse struct {
	AccessToken           string    `json:"access_token"`
	RefreshToken          string    `json:"refresh_token"`
	TokenType             string    `json:"token_type"`
	AccessTokenExpiresAt  time.Time `json:"access_token_expires_at"`
	RefreshTokenExpiresAt time.Time `json:"refresh_token_expires_at"`
	ID                    uuid.UUID `json:"id"`
	Username              string    `json:"username"`
	Email                 string    `json:"email"`
	FullName              string    `json:"full_name,omitempty"`
	CompanyName           string    `json:"company_name,omitempty"`
	TenantID              uuid.UUID `json:"tenant_id"`
	Roles                 []string  `json:"roles"`
	Permissions           []string  `json:"permissions"`
}

// TokenResponse is returned by refresh
type TokenResponse struct {
	AccessToken           string    `json:"access_token"`
	RefreshToken          string    `json:"refresh_token"`
	TokenType             string    `json:"token_type"`
	AccessTokenExpiresAt  time.Time `json:"access_token_expires_at"`
	RefreshTokenExpiresAt time.Time `json:"refresh_token_expires_at"`
}

// RoleResponse lists a role with its permissions
type RoleResponse struct {
	Name        string   `json:"name"`
	Permissions []string `json:"permissions"`
}

// ToUserResponse converts a domain user to a response
func ToUserResponse(u *identity.User) UserResponse {
	return UserResponse{
		ID:          u.ID,
		TenantID:    u.TenantID,
		Username:    u.Username,
		Email:       u.Email,
		FullName:    u.FullName,
		Phone:       u.Phone,
		CompanyName: u.CompanyName,
		Roles:       u.RoleNames(),
		Permissions: u.Permissions(),
		Enabled:     u.Enabled,
		LastLoginAt: u.LastLoginAt,
		CreatedAt:   u.CreatedAt,
	}
}

// ToUserResponses converts a slice of users
func ToUserResponses(users []identity.User) []UserResponse {
	out := make([]UserResponse, len(users))
	for i := range users {
		out[i] = ToUserResponse(&users[i])
	}
	return out
}
