package sqlxrepos

import (
	"context"
	"database/sql/driver"
	"errors"
	"net"
	"testing"

	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"

	"github.com/trezcool/personal/core/training"
)

func TestTrapErr(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want error
	}{
		{name: "check violation", err: &pq.Error{Code: "23514"}, want: training.ErrConstraintViolation},
		{name: "not null violation", err: &pq.Error{Code: "23502"}, want: training.ErrConstraintViolation},
		{name: "connection failure", err: &pq.Error{Code: "08006"}, want: training.ErrConnection},
		{name: "admin shutdown", err: &pq.Error{Code: "57P01"}, want: training.ErrConnection},
		{name: "undefined table", err: &pq.Error{Code: "42P01"}, want: training.ErrQuery},
		{name: "bad conn", err: driver.ErrBadConn, want: training.ErrConnection},
		{name: "deadline", err: context.DeadlineExceeded, want: training.ErrConnection},
		{name: "dial", err: &net.OpError{Op: "dial", Net: "tcp", Err: errors.New("connection refused")}, want: training.ErrConnection},
		{name: "other", err: errors.New("sql: Scan error"), want: training.ErrQuery},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := trapErr("op", tt.err)
			assert.True(t, errors.Is(err, tt.want), "err = %v", err)
			assert.True(t, errors.Is(err, tt.err) || errors.Unwrap(err) == tt.err)
		})
	}
	assert.Nil(t, trapErr("op", nil))
}
