package models

import (
	"strings"
	"time"

	"github.com/crm/backend/internal/domain/identity"
)

// UserModel is the persistence model for the User aggregate.
// Roles are stored as a comma separated list.
type UserModel struct {
	TenantAggregateModel
	Username     string `gorm:"type:varchar(50);not null;uniqueIndex"`
	Email        string `gorm:"type:varchar(200);not null;uniqueIndex"`
	PasswordHash string `gorm:"type:varchar(255);not null"`
	FullName     string `gorm:"type:varchar(200)"`
	Phone        string `gorm:"type:varchar(50)"`
	CompanyName  string `gorm:"type:varchar(200)"`
	Roles        string `gorm:"type:varchar(500);not null;default:'ROLE_USER'"`
	Enabled      bool   `gorm:"not null"`
	LastLoginAt  *time.Time
}

// TableName returns the table name for GORM
func (UserModel) TableName() string {
	return "users"
}

// ToDomain converts the model to a domain User
func (m *UserModel) ToDomain() *identity.User {
	return &identity.User{
		TenantAggregateRoot: m.ToDomainTenantAggregateRoot(),
		Username:            m.Username,
		Email:               m.Email,
		PasswordHash:        m.PasswordHash,
		FullName:            m.FullName,
		Phone:               m.Phone,
		CompanyName:         m.CompanyName,
		Roles:               splitRoles(m.Roles),
		Enabled:             m.Enabled,
		LastLoginAt:         m.LastLoginAt,
	}
}

// UserModelFromDomain creates a persistence model from a domain User
func UserModelFromDomain(u *identity.User) *UserModel {
	m := &UserModel{
		Username:     u.Username,
		Email:        u.Email,
		PasswordHash: u.PasswordHash,
		FullName:     u.FullName,
		Phone:        u.Phone,
		CompanyName:  u.CompanyName,
		Roles:        strings.Join(u.RoleNames(), ","),
		Enabled:      u.Enabled,
		LastLoginAt:  u.LastLoginAt,
	}
	m.FromDomainTenantAggregateRoot(u.TenantAggregateRoot)
	return m
}

func splitRoles(s string) []identity.Role {
	var roles []identity.Role
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		roles = append(roles, identity.Role(part))
	}
	return roles
}
