package dataset

import "errors"

// ErrEmptyDataset is matched by every ValidationError raised for a dataset
// without rows
var ErrEmptyDataset = errors.New("Can't create a Dataset object with an empty dataframe")

// ValidationError is returned when a dataset fails a structural precondition
type ValidationError struct {
	Msg string
	Err error
}

func (e *ValidationError) Error() string {
	return e.Msg
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

func emptyDatasetError() error {
	return &ValidationError{Msg: ErrEmptyDataset.Error(), Err: ErrEmptyDataset}
}
