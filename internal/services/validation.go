package services

import (
	"errors"

	apperrors "task-manager.com/task-manager/internal/errors"
)

// mergeValidation folds every ValidationError in errs into one. The first
// error of any other kind is returned as is.
func mergeValidation(errs ...error) error {
	merged := &apperrors.ValidationError{}
	for _, err := range errs {
		if err == nil {
			continue
		}

		var verr *apperrors.ValidationError
		if !errors.As(err, &verr) {
			return err
		}
		for field, msg := range verr.Fields {
			merged.Add(field, msg)
		}
	}

	if merged.Empty() {
		return nil
	}
	return merged
}
