package sqlxrepos

import (
	"context"
	"database/sql/driver"
	"net"

	"github.com/lib/pq"
	"github.com/pkg/errors"

	"github.com/trezcool/personal/core/training"
)

// postgres error classes
const (
	classIntegrityConstraint   = "23"
	classConnection            = "08"
	classOperatorIntervention  = "57"
	classInsufficientResources = "53"
)

// trapErr maps driver errors to training.DataError.
func trapErr(op string, err error) error {
	if err == nil {
		return nil
	}

	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		switch pqErr.Code.Class() {
		case classIntegrityConstraint:
			return training.NewDataError(training.ConstraintViolation, op, err)
		case classConnection, classOperatorIntervention, classInsufficientResources:
			return training.NewDataError(training.ConnectionError, op, err)
		default:
			return training.NewDataError(training.QueryError, op, err)
		}
	}

	var netErr net.Error
	if errors.Is(err, driver.ErrBadConn) || errors.Is(err, context.DeadlineExceeded) || errors.As(err, &netErr) {
		return training.NewDataError(training.ConnectionError, op, err)
	}
	return training.NewDataError(training.QueryError, op, err)
}
