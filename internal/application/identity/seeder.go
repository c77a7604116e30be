package identity

import (
	"context"

	"github.com/crm/backend/internal/domain/identity"
	"github.com/crm/backend/internal/domain/shared"
	"github.com/crm/backend/internal/infrastructure/config"
	"go.uber.org/zap"
)

// EnsureAdmin creates the bootstrap administrator in the default tenant when
// no account uses the configured username yet. It reports whether it created one.
func EnsureAdmin(ctx context.Context, repo identity.UserRepository, cfg config.SeedConfig, logger *zap.Logger) (bool, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.AdminUsername == "" || cfg.AdminPassword == "" {
		return false, nil
	}
	exists, err := repo.ExistsByUsername(ctx, cfg.AdminUsername)
	if err != nil {
		return false, err
	}
	if exists {
		return false, nil
	}

	admin, err := identity.NewUser(shared.DefaultTenantID, cfg.AdminUsername, cfg.AdminEmail, cfg.AdminPassword)
	if err != nil {
		return false, err
	}
	if err := admin.SetRoles([]identity.Role{identity.RoleAdmin}); err != nil {
		return false, err
	}
	admin.ClearDomainEvents()
	if err := repo.Save(ctx, admin); err != nil {
		return false, err
	}
	logger.Info("Bootstrap administrator created", zap.String("username", admin.Username))
	return true, nil
}
