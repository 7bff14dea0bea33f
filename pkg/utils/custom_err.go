package utils

import "errors"

var (
	ErrInvalidInput          = errors.New("invalid input")
	ErrMissingRequiredFields = errors.New("missing required fields")
	ErrInvalidDateRange      = errors.New("end date is earlier than start date")
	ErrStartDateInPast       = errors.New("start date is in the past")
	ErrUnknownInterest       = errors.New("unknown interest")
	ErrInvalidPage           = errors.New("invalid page parameter")
	ErrInvalidPageSize       = errors.New("invalid page size parameter")
	ErrPlanNotFound          = errors.New("trip plan not found")
	ErrPlanGenerationFailed  = errors.New("trip plan generation failed")
	ErrExportFailed          = errors.New("export failed")
	ErrDatabaseError         = errors.New("database error")
	ErrCacheError            = errors.New("cache error")
)

// GenerationError carries the cause of a failed crew run. It matches
// ErrPlanGenerationFailed under errors.Is.
type GenerationError struct {
	Cause error
}

func (e *GenerationError) Error() string {
	return ErrPlanGenerationFailed.Error() + ": " + e.Cause.Error()
}

func (e *GenerationError) Unwrap() error { return e.Cause }

func (e *GenerationError) Is(target error) bool { return target == ErrPlanGenerationFailed }
