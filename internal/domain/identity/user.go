package identity

import (
	"regexp"
	"strings"
	"time"

	"github.com/crm/backend/internal/domain/shared"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// Password cost for bcrypt
const bcryptCost = 12

var (
	usernamePattern = regexp.MustCompile(`^[a-zA-Z0-9_\-.]+$`)
	emailPattern    = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)
)

// ErrInvalidCredentials is returned for unknown users, bad passwords and disabled accounts alike
var ErrInvalidCredentials = shared.NewDomainError("INVALID_CREDENTIALS", "Invalid username or password")

// User is an account able to sign in to the CRM.
// TenantID identifies the company the user works for.
type User struct {
	shared.TenantAggregateRoot
	Username     string
	Email        string
	PasswordHash string
	FullName     string
	Phone        string
	CompanyName  string
	Roles        []Role
	Enabled      bool
	LastLoginAt  *time.Time
}

// NewUser creates an enabled user holding ROLE_USER
func NewUser(tenantID uuid.UUID, username, email, password string) (*User, error) {
	if err := validateUsername(username); err != nil {
		return nil, err
	}
	if err := validateEmail(email); err != nil {
		return nil, err
	}
	if err := validatePassword(password); err != nil {
		return nil, err
	}

	passwordHash, err := hashPassword(password)
	if err != nil {
		return nil, shared.NewDomainError("PASSWORD_HASH_ERROR", "Failed to hash password")
	}

	user := &User{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		Username:            strings.ToLower(strings.TrimSpace(username)),
		Email:               strings.ToLower(strings.TrimSpace(email)),
		PasswordHash:        passwordHash,
		Roles:               []Role{RoleUser},
		Enabled:             true,
	}

	user.AddDomainEvent(NewUserRegisteredEvent(user))

	return user, nil
}

// UpdateProfile sets the user's full name and phone
func (u *User) UpdateProfile(fullName, phone string) error {
	fullName = strings.TrimSpace(fullName)
	phone = strings.TrimSpace(phone)
	if len(fullName) > 200 {
		return shared.NewDomainError("INVALID_FULL_NAME", "Full name cannot exceed 200 characters")
	}
	if len(phone) > 50 {
		return shared.NewDomainError("INVALID_PHONE", "Phone cannot exceed 50 characters")
	}

	u.FullName = fullName
	u.Phone = phone
	u.Touch()

	return nil
}

// SetCompanyName sets the display name of the user's company
func (u *User) SetCompanyName(name string) {
	u.CompanyName = strings.TrimSpace(name)
}

// ChangePassword changes the user's password after checking the current one
func (u *User) ChangePassword(oldPassword, newPassword string) error {
	if !u.VerifyPassword(oldPassword) {
		return shared.NewDomainError("INVALID_PASSWORD", "Current password is incorrect")
	}
	return u.SetPassword(newPassword)
}

// SetPassword sets a new password without checking the old one
func (u *User) SetPassword(newPassword string) error {
	if err := validatePassword(newPassword); err != nil {
		return err
	}

	passwordHash, err := hashPassword(newPassword)
	if err != nil {
		return shared.NewDomainError("PASSWORD_HASH_ERROR", "Failed to hash password")
	}

	u.PasswordHash = passwordHash
	u.Touch()

	u.AddDomainEvent(NewUserPasswordChangedEvent(u))

	return nil
}

// VerifyPassword verifies if the provided password matches
func (u *User) VerifyPassword(password string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password))
	return err == nil
}

// SetRoles replaces the user's roles, deduplicating them
func (u *User) SetRoles(roles []Role) error {
	if len(roles) == 0 {
		return shared.NewDomainError("INVALID_ROLE", "User needs at least one role")
	}
	unique := make([]Role, 0, len(roles))
	for _, r := range roles {
		parsed, err := ParseRole(string(r))
		if err != nil {
			return err
		}
		if !u.hasRoleIn(unique, parsed) {
			unique = append(unique, parsed)
		}
	}

	u.Roles = unique
	u.Touch()

	return nil
}

// HasRole checks if user has a specific role
func (u *User) HasRole(role Role) bool {
	return u.hasRoleIn(u.Roles, role)
}

func (u *User) hasRoleIn(roles []Role, role Role) bool {
	for _, r := range roles {
		if r == role {
			return true
		}
	}
	return false
}

// Permissions returns the merged permission set of the user's roles
func (u *User) Permissions() []string {
	return PermissionsFor(u.Roles)
}

// RoleNames returns the roles as strings
func (u *User) RoleNames() []string {
	out := make([]string, len(u.Roles))
	for i, r := range u.Roles {
		out[i] = string(r)
	}
	return out
}

// Enable allows the user to log in
func (u *User) Enable() {
	u.Enabled = true
	u.Touch()
}

// Disable blocks further logins
func (u *User) Disable() {
	u.Enabled = false
	u.Touch()
}

// Authenticate checks the account can log in with password and records the login
func (u *User) Authenticate(password string) error {
	if !u.Enabled || !u.VerifyPassword(password) {
		return ErrInvalidCredentials
	}
	now := time.Now()
	u.LastLoginAt = &now
	u.UpdatedAt = now
	return nil
}

// DisplayName returns the full name if set, otherwise the username
func (u *User) DisplayName() string {
	if u.FullName != "" {
		return u.FullName
	}
	return u.Username
}

func validateUsername(username string) error {
	username = strings.TrimSpace(username)
	if username == "" {
		return shared.NewDomainError("INVALID_USERNAME", "Username cannot be empty")
	}
	if len(username) < 3 {
		return shared.NewDomainError("INVALID_USERNAME", "Username must be at least 3 characters")
	}
	if len(username) > 50 {
		return shared.NewDomainError("INVALID_USERNAME", "Username cannot exceed 50 characters")
	}
	if !usernamePattern.MatchString(username) {
		return shared.NewDomainError("INVALID_USERNAME", "Username can only contain letters, numbers, underscores, hyphens, and dots")
	}
	return nil
}

func validatePassword(password string) error {
	if password == "" {
		return shared.NewDomainError("INVALID_PASSWORD", "Password cannot be empty")
	}
	if len(password) < 6 {
		return shared.NewDomainError("INVALID_PASSWORD", "Password must be at least 6 characters")
	}
	if len(password) > 100 {
		return shared.NewDomainError("INVALID_PASSWORD", "Password cannot exceed 100 characters")
	}
	return nil
}

func validateEmail(email string) error {
	email = strings.TrimSpace(email)
	if email == "" {
		return shared.NewDomainError("INVALID_EMAIL", "Email cannot be empty")
	}
	if len(email) > 200 {
		return shared.NewDomainError("INVALID_EMAIL", "Email cannot exceed 200 characters")
	}
	if !emailPattern.MatchString(email) {
		return shared.NewDomainError("INVALID_EMAIL", "Invalid email format")
	}
	return nil
}

func hashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}
