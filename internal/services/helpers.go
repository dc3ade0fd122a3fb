package services

import (
	"errors"

	apperrors "spendwise/internal/errors"
	"spendwise/internal/repository"
)

// storageError maps a repository error onto the AppError taxonomy. notFound
// is returned for repository.ErrNotFound; anything else is an internal error.
func storageError(err error, notFound *apperrors.AppError) error {
	if errors.Is(err, repository.ErrNotFound) {
		return notFound
	}
	return apperrors.Wrap(apperrors.ErrInternalServer, err)
}
