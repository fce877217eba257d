package tinyvecdb

import (
	"errors"
	"fmt"
)

// Sentinel errors, one per kind in the error model.
var (
	// ErrIO covers file open/read/write/rename failures.
	ErrIO = errors.New("io error")

	// ErrHeaderCorrupt is returned when a file's header is implausible
	// (e.g. a dimension of zero after records have been written) or the
	// record region does not hold the records the header counts.
	ErrHeaderCorrupt = errors.New("header corrupt")

	// ErrDimensionMismatch is returned when a query or record vector's
	// length does not match the file's dimensions.
	ErrDimensionMismatch = errors.New("vector dimension mismatch")

	// ErrInvalidFilter is returned when filter JSON is unparseable or
	// an operator is misused.
	ErrInvalidFilter = errors.New("invalid filter")

	// ErrNothingMatched is a soft failure: a filter-scoped deletion
	// matched zero records.
	ErrNothingMatched = errors.New("nothing matched")

	// ErrEmptyBatch is returned, wrapped and with a count of 0, when
	// Insert, UpdateByID or DeleteByIDs is called with no items.
	ErrEmptyBatch = errors.New("empty batch")

	// ErrInvalidUpdateItem is returned when an update item supplies
	// neither a vector nor metadata.
	ErrInvalidUpdateItem = errors.New("update item needs a vector or metadata")

	// ErrInvalidVector is returned when vector data is invalid (empty,
	// NaN, or Inf); a wrong length is reported as ErrDimensionMismatch.
	// Insert also returns it for a batch larger than Config.MaxBatchSize.
	ErrInvalidVector = errors.New("invalid vector data")

	// ErrNotFound reports that a record id is not present. UpdateByID
	// and DeleteByIDs do not return it: they skip absent ids.
	ErrNotFound = errors.New("record not found")

	// ErrConnectionClosed is returned when an operation is attempted on
	// a closed connection.
	ErrConnectionClosed = errors.New("connection is closed")

	// ErrInvalidConfig is returned when configuration fails validation.
	ErrInvalidConfig = errors.New("invalid configuration")
)

// EngineError wraps an error with the operation name that raised it, so
// callers can log `op: err` while still errors.Is-ing against a sentinel.
type EngineError struct {
	Op  string
	Err error
}

// Error implements the error interface.
func (e *EngineError) Error() string {
	if e.Op == "" {
		return fmt.Sprintf("tinyvecdb: %v", e.Err)
	}
	return fmt.Sprintf("tinyvecdb: %s: %v", e.Op, e.Err)
}

// Unwrap returns the underlying error.
func (e *EngineError) Unwrap() error {
	return e.Err
}

// Is reports whether e's underlying error matches target.
func (e *EngineError) Is(target error) bool {
	return errors.Is(e.Err, target)
}

// wrapError wraps err with operation context. Returns nil for a nil err.
func wrapError(op string, err error) error {
	if err == nil {
		return nil
	}
	return &EngineError{Op: op, Err: err}
}
