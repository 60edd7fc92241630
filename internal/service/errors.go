package service

import (
	"errors"
	"strings"

	"github.com/sahlct/E-Portal-server/pkg/apperr"
	"github.com/sahlct/E-Portal-server/pkg/validator"
)

// validateModel runs struct-tag validation and reports the first failure.
func validateModel(m interface{}) error {
	if errs := validator.ValidateStruct(m); len(errs) > 0 {
		first := errs[0]
		return apperr.Validation("validation failed: field '%s' failed on tag '%s'", first.FailedField, first.Tag)
	}
	return nil
}

// translateStoreErr maps database write failures onto the error taxonomy.
// Typed errors pass through; serialization/deadlock aborts become retryable
// transient errors; everything else is unexpected.
func translateStoreErr(err error) error {
	if err == nil {
		return nil
	}
	var typed *apperr.Error
	if errors.As(err, &typed) {
		return err
	}
	msg := strings.ToLower(err.Error())
	if strings.Contains(msg, "deadlock") ||
		strings.Contains(msg, "serialization") ||
		strings.Contains(msg, "could not serialize") ||
		strings.Contains(msg, "database is locked") {
		return apperr.Transient(err)
	}
	if strings.Contains(msg, "duplicate key") || strings.Contains(msg, "unique constraint") {
		return apperr.Conflict("duplicate value violates a uniqueness rule")
	}
	return apperr.Unexpected(err)
}
