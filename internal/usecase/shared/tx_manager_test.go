//go:build unit

package shared_test

import (
	"context"
	"errors"
	"testing"

	"book-locker/internal/pkg/errs"
	"book-locker/internal/usecase/shared"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
)

func TestIsRetryableError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"serialization failure", &pgconn.PgError{Code: "40001"}, true},
		{"deadlock", &pgconn.PgError{Code: "40P01"}, true},
		{"wrapped serialization failure", errs.Wrap(&pgconn.PgError{Code: "40001"}, "save account"), true},
		{"unique violation", &pgconn.PgError{Code: "23505"}, false},
		{"version conflict", shared.ErrVersionConflict, false},
		{"plain error", errors.New("eof"), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, shared.IsRetryableError(tt.err))
		})
	}
}

type failingStarter struct{ calls int }

func (f *failingStarter) BeginTx(context.Context, pgx.TxOptions) (pgx.Tx, error) {
	f.calls++
	return nil, errors.New("pool closed")
}

func TestRunInTx_BeginFailure(t *testing.T) {
	db := &failingStarter{}

	_, err := shared.WithDefaultRetry(context.Background(), db, func(pgx.Tx) (int, error) {
		t.Fatal("fn must not run without a transaction")
		return 0, nil
	})

	assert.True(t, errs.Is(err, shared.ErrTransactionBegin))
	assert.Equal(t, 1, db.calls, "begin failures are not retried")
}
