package training

import (
	"errors"
	"fmt"
)

var (
	ErrForbidden       = errors.New("permission denied")
	ErrStudentNotFound = errors.New("student not found")
)

type DataErrorKind int

const (
	ConnectionError DataErrorKind = iota + 1
	ConstraintViolation
	QueryError
)

func (k DataErrorKind) String() string {
	switch k {
	case ConnectionError:
		return "connection error"
	case ConstraintViolation:
		return "constraint violation"
	case QueryError:
		return "query error"
	default:
		return "unknown"
	}
}

// DataError is returned by repositories when the store rejects or cannot run a statement.
type DataError struct {
	Kind DataErrorKind
	Op   string
	Err  error
}

func NewDataError(kind DataErrorKind, op string, err error) error {
	return &DataError{Kind: kind, Op: op, Err: err}
}

func (e *DataError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%s: %s", e.Op, e.Kind)
	}
	return fmt.Sprintf("%s: %s: %v", e.Op, e.Kind, e.Err)
}

func (e *DataError) Unwrap() error { return e.Err }

// Is matches any *DataError of the same Kind.
func (e *DataError) Is(target error) bool {
	t, ok := target.(*DataError)
	return ok && t.Kind == e.Kind
}

var (
	ErrConnection          = &DataError{Kind: ConnectionError}
	ErrConstraintViolation = &DataError{Kind: ConstraintViolation}
	ErrQuery               = &DataError{Kind: QueryError}
)
