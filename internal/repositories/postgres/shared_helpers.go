package postgres

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/MaameAchiaa/Educonnect-web-application/internal/repositories"
)

// handleDBError wraps a gorm error and maps the translated gorm sentinels onto the repository ones
func handleDBError(err error, operation string) error {
	if err == nil {
		return nil
	}

	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return fmt.Errorf("%s failed: %w", operation, repositories.ErrNotFound)
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return fmt.Errorf("%s failed: %w", operation, repositories.ErrDuplicate)
	}
	return fmt.Errorf("%s failed: %w", operation, err)
}

func getDB(db, tx *gorm.DB) *gorm.DB {
	if tx != nil {
		return tx
	}
	return db
}

// requireRows turns an update or delete that touched nothing into ErrNotFound
func requireRows(result *gorm.DB, operation string) error {
	if result.Error != nil {
		return handleDBError(result.Error, operation)
	}
	if result.RowsAffected == 0 {
		return handleDBError(gorm.ErrRecordNotFound, operation)
	}
	return nil
}
