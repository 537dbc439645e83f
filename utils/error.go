package utils

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

var ErrorRecordNotFound = errors.New("record not found")

// ErrOperationFailed is returned to callers when a balance mutation or a
// document write could not be committed. Details are logged, not exposed.
var ErrOperationFailed = errors.New("operation failed")

// ErrLockNotObtained is returned when another worker holds a business lock.
var ErrLockNotObtained = errors.New("could not obtain lock for business")

// ValidationError reports bad input. Fields maps field names to the rule
// they broke, when known.
type ValidationError struct {
	Message string
	Fields  map[string]string
}

func (e *ValidationError) Error() string {
	if len(e.Fields) == 0 {
		return e.Message
	}
	parts := make([]string, 0, len(e.Fields))
	for field, rule := range e.Fields {
		parts = append(parts, field+":"+rule)
	}
	sort.Strings(parts)
	return fmt.Sprintf("%s (%s)", e.Message, strings.Join(parts, ", "))
}

func NewValidationError(format string, args ...any) error {
	return &ValidationError{Message: fmt.Sprintf(format, args...)}
}

func IsValidationError(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
