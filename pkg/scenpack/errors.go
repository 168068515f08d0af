package scenpack

import (
	"errors"
	"fmt"
)

// ErrNoScenarios indicates an export attempt on a packer without any
// registered scenarios. It is the only hard export failure.
var ErrNoScenarios = errors.New("no scenarios registered")

// SheetError indicates a sheet that violates its expected structural
// shape. Callers treat the sheet as absent.
type SheetError struct {
	Sheet string
	Err   error
}

func (e *SheetError) Error() string {
	return fmt.Sprintf("sheet %q: %v", e.Sheet, e.Err)
}

func (e *SheetError) Unwrap() error {
	return e.Err
}

// CreationError indicates a MAIN column that could not be turned into a
// scenario: it lacks both an id and an area/end-year pair, or the service
// load or create failed. The column is skipped.
type CreationError struct {
	Column string
	Err    error
}

func (e *CreationError) Error() string {
	return fmt.Sprintf("column %q: %v", e.Column, e.Err)
}

func (e *CreationError) Unwrap() error {
	return e.Err
}
