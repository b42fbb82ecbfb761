package registry

import (
	"errors"
	"fmt"

	"addressjp-api/internal/models"
)

// ErrInvalidRecord is matched by every record validation failure.
var ErrInvalidRecord = errors.New("registry: invalid record")

// InvalidRecordError reports a raw record that cannot be turned into a Division.
type InvalidRecordError struct {
	Kind  models.Kind
	Index int
	Field string
	Err   error
}

func (e *InvalidRecordError) Error() string {
	return fmt.Sprintf("registry: invalid %s record #%d: field %q: %v", e.Kind, e.Index, e.Field, e.Err)
}

func (e *InvalidRecordError) Unwrap() error {
	return e.Err
}

func (e *InvalidRecordError) Is(target error) bool {
	return target == ErrInvalidRecord
}
