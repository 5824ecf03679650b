package services

import (
	"errors"
	"fmt"

	"github.com/mangrove-registry/models"
	"gorm.io/gorm"
)

// ValidationError reports malformed input. Nothing was written.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return "validation failed: " + e.Message
	}
	return fmt.Sprintf("validation failed: %s %s", e.Field, e.Message)
}

// IllegalTransitionError reports a workflow operation that is not allowed
// from the project's current status.
type IllegalTransitionError struct {
	ProjectID string
	From      models.ProjectStatus
	Operation Operation
}

func (e *IllegalTransitionError) Error() string {
	return fmt.Sprintf("operation %s is not allowed on project %s while it is %s", e.Operation, e.ProjectID, e.From)
}

// InvalidStateError reports an edit attempted outside draft or rejected.
type InvalidStateError struct {
	ProjectID string
	Status    models.ProjectStatus
}

func (e *InvalidStateError) Error() string {
	return fmt.Sprintf("project %s cannot be edited while it is %s", e.ProjectID, e.Status)
}

// NotFoundError reports an unknown project, document or user id.
type NotFoundError struct {
	Entity string
	ID     string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %s not found", e.Entity, e.ID)
}

// StorageError wraps a persistence failure. The surrounding transaction was
// rolled back.
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage error during %s: %v", e.Op, e.Err)
}

func (e *StorageError) Unwrap() error {
	return e.Err
}

// translate converts repository errors into service errors. Errors that are
// already service errors pass through unchanged.
func translate(op, entity, id string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return &NotFoundError{Entity: entity, ID: id}
	}
	if isServiceError(err) {
		return err
	}
	return &StorageError{Op: op, Err: err}
}

func isServiceError(err error) bool {
	var (
		validation *ValidationError
		illegal    *IllegalTransitionError
		state      *InvalidStateError
		notFound   *NotFoundError
		storage    *StorageError
	)
	return errors.As(err, &validation) ||
		errors.As(err, &illegal) ||
		errors.As(err, &state) ||
		errors.As(err, &notFound) ||
		errors.As(err, &storage)
}
