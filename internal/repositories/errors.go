package repositories

import (
	"errors"

	"gorm.io/gorm"
)

// IsNotFoundError reports whether err resulted from a lookup that matched no
// rows, possibly wrapped by a repository.
func IsNotFoundError(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound)
}

// IsDuplicateError reports whether err resulted from a unique constraint
// violation, possibly wrapped by a repository.
func IsDuplicateError(err error) bool {
	return errors.Is(err, gorm.ErrDuplicatedKey)
}
