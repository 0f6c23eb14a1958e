package mysql

import (
	"errors"
	"fmt"

	"cake-shop/internal/domain"

	"gorm.io/gorm"
)

// storeErr marks driver failures as retryable and unique violations as conflicts.
func storeErr(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, domain.ErrInvalidStatus) {
		return err
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return fmt.Errorf("%w: %v", domain.ErrConflict, err)
	}
	return fmt.Errorf("%w: %v", domain.ErrUnavailable, err)
}
