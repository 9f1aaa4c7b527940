package service

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"

	"github.com/noah-isme/clima-laboral-api/pkg/database"
	appErrors "github.com/noah-isme/clima-laboral-api/pkg/errors"
)

// writeFailed keeps the storage message visible to the administrator.
func writeFailed(action string, err error) *appErrors.Error {
	if database.IsUndefinedTable(err) {
		return appErrors.Wrap(err, appErrors.ErrSchemaMissing.Code, appErrors.ErrSchemaMissing.Status, fmt.Sprintf("%s: %v", action, err))
	}
	return appErrors.Wrap(err, appErrors.ErrWriteFailed.Code, appErrors.ErrWriteFailed.Status, fmt.Sprintf("%s: %v", action, err))
}

func internalError(err error, msg string) *appErrors.Error {
	return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, msg)
}

// validationError lists failing fields (e.g. "Answers[3]": "required")
// when err comes from the validator.
func validationError(err error, msg string) *appErrors.Error {
	if err == nil {
		return appErrors.Clone(appErrors.ErrValidation, msg)
	}
	wrapped := appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, msg)
	var invalid validator.ValidationErrors
	if !errors.As(err, &invalid) {
		return wrapped
	}
	fields := make(map[string]string, len(invalid))
	for _, fe := range invalid {
		fields[fe.Field()] = fe.Tag()
	}
	return wrapped.WithFields(fields)
}

func isNotFound(err error) bool {
	return errors.Is(err, sql.ErrNoRows)
}
