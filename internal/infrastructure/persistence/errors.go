package persistence

import (
	"errors"

	"github.com/crm/backend/internal/domain/shared"
	"gorm.io/gorm"
)

// translateError maps GORM's not-found error to the domain sentinel
func translateError(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return shared.ErrNotFound
	}
	return err
}

// deleteResult reports ErrNotFound when a delete matched no rows
func deleteResult(result *gorm.DB) error {
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}
