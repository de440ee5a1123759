package model

import (
	"errors"
	"fmt"
)

// ErrInvalidRecord is matched by every RecordError.
var ErrInvalidRecord = errors.New("invalid record")

// RecordError describes a single malformed field on a record.
type RecordError struct {
	RecordID    string
	Field       string
	Description string
}

func (e *RecordError) Error() string {
	if e.RecordID == "" {
		return fmt.Sprintf("%s: %s", e.Field, e.Description)
	}
	return fmt.Sprintf("record %s: %s: %s", e.RecordID, e.Field, e.Description)
}

func (e *RecordError) Unwrap() error { return ErrInvalidRecord }
