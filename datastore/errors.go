package datastore

import (
	"errors"
	"fmt"

	"github.com/lib/pq"
)

// uniqueViolation is the Postgres SQLSTATE for a unique constraint failure.
const uniqueViolation = "23505"

type NoRowsError struct {
	NoRows bool
	Err    error
}

func (nr NoRowsError) Error() string {
	return fmt.Sprintf("%v: no rows returned for scan: %v", nr.NoRows, nr.Err)
}

func (nr NoRowsError) Unwrap() error {
	return nr.Err
}

// DuplicateKeyError reports an insert rejected by a unique constraint.
type DuplicateKeyError struct {
	Constraint string
	Err        error
}

func (de *DuplicateKeyError) Error() string {
	return fmt.Sprintf("duplicate key violates %q: %v", de.Constraint, de.Err)
}

func (de *DuplicateKeyError) Unwrap() error {
	return de.Err
}

// IsNoRows reports whether err came from a lookup that matched nothing.
func IsNoRows(err error) bool {
	var nr NoRowsError
	return errors.As(err, &nr)
}

// IsDuplicateKey reports whether err is a unique violation.
func IsDuplicateKey(err error) bool {
	var de *DuplicateKeyError
	return errors.As(err, &de)
}

func asDuplicateKey(err error) error {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
		return &DuplicateKeyError{Constraint: pqErr.Constraint, Err: err}
	}
	return err
}
