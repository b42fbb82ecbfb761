package masterdata

import (
	"errors"
	"fmt"
)

var (
	// ErrDataSource is matched by every failure surfaced from Store.Load.
	ErrDataSource = errors.New("masterdata: data source error")

	// ErrNotFound reports that a source holds no table for the requested key.
	ErrNotFound = errors.New("masterdata: data not found")
)

// DataSourceError wraps a failure to read reference data for a key.
type DataSourceError struct {
	Key string
	Err error
}

func (e *DataSourceError) Error() string {
	return fmt.Sprintf("masterdata: failed to load %q: %v", e.Key, e.Err)
}

func (e *DataSourceError) Unwrap() error {
	return e.Err
}

func (e *DataSourceError) Is(target error) bool {
	return target == ErrDataSource
}
