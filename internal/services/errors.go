package services

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/yukikurage/sales-objectives-api/internal/engine"
	"gorm.io/gorm"
)

var (
	ErrNotFound  = errors.New("not found")
	ErrForbidden = errors.New("forbidden")

	ErrObjectiveNotFound            = fmt.Errorf("objective %w", ErrNotFound)
	ErrAssignmentNotFound           = fmt.Errorf("assignment %w", ErrNotFound)
	ErrContributorNotFound          = fmt.Errorf("contributor %w", ErrNotFound)
	ErrQualitativeObjectiveNotFound = fmt.Errorf("qualitative objective %w", ErrNotFound)

	ErrInvalidAssignee = fmt.Errorf("%w: one or more contributors do not exist", engine.ErrInvalidInput)
)

var validate = validator.New()

// ValidationError lists the failed field rules of an input struct.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	names := make([]string, 0, len(e.Fields))
	for name, tag := range e.Fields {
		names = append(names, name+"="+tag)
	}
	sort.Strings(names)
	return "validation failed: " + strings.Join(names, ", ")
}

func (e *ValidationError) Unwrap() error {
	return engine.ErrInvalidInput
}

func validateStruct(v interface{}) error {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}

	var validationErrors validator.ValidationErrors
	if errors.As(err, &validationErrors) {
		fields := make(map[string]string, len(validationErrors))
		for _, e := range validationErrors {
			fields[e.Field()] = e.Tag()
		}
		return &ValidationError{Fields: fields}
	}
	return fmt.Errorf("%w: %v", engine.ErrInvalidInput, err)
}

// notFound maps gorm's missing-record error to the given domain error.
func notFound(err error, domainErr error, action string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return domainErr
	}
	return fmt.Errorf("failed to %s: %w", action, err)
}
