package repository

import (
	"errors"

	"gorm.io/gorm"
)

// mapGormError converts gorm errors to domain errors, keeping database
// concerns inside the infrastructure layer. The caller supplies the
// entity's not-found sentinel. Gorm wraps driver errors, so the chain
// is traversed.
func mapGormError(err, notFound error) error {
	if err == nil {
		return nil
	}
	currentErr := err
	for currentErr != nil {
		if errors.Is(currentErr, gorm.ErrRecordNotFound) {
			return notFound
		}
		currentErr = errors.Unwrap(currentErr)
	}
	return err
}
