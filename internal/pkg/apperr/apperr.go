// Package apperr defines the error taxonomy surfaced by the HTTP layer.
package apperr

import (
	"errors"
	"fmt"
)

// ValidationError marks a missing or malformed required field. Requests
// failing validation never reach retrieval or generation.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

func NewValidation(format string, args ...interface{}) error {
	return &ValidationError{Message: fmt.Sprintf(format, args...)}
}

func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// ExtractionError marks a document text extraction failure. Ingestion is
// aborted with no partial write to the dataset.
type ExtractionError struct {
	File string
	Err  error
}

func (e *ExtractionError) Error() string {
	return fmt.Sprintf("extract text from %s: %v", e.File, e.Err)
}

func (e *ExtractionError) Unwrap() error {
	return e.Err
}

func NewExtraction(file string, err error) error {
	return &ExtractionError{File: file, Err: err}
}

func IsExtraction(err error) bool {
	var ee *ExtractionError
	return errors.As(err, &ee)
}
