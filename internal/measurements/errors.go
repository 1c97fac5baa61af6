package measurements

import "errors"

var (
	// ErrEmptyDraft is returned on save when no field has a non-zero value.
	ErrEmptyDraft = errors.New("at least one measurement is required")
	// ErrLoadFailed wraps any failure reading the patient document.
	ErrLoadFailed = errors.New("load patient document")
	// ErrPersistFailed wraps any failure writing the measurements array.
	ErrPersistFailed = errors.New("persist measurements")
	ErrNotEditing    = errors.New("no record in edit mode")
)
