package queries

import (
	"context"

	"book-locker/internal/pkg/errs"
	"book-locker/internal/usecase/shared"

	"github.com/google/uuid"
)

//go:generate mockgen -source=point.go -destination=../../../tests/mock/queries/point_mock.go -package=queriesmock

type PointQueries interface {
	GetBalance(ctx context.Context, userID uuid.UUID) (*BalanceView, error)
	ListTransactions(ctx context.Context, userID uuid.UUID, limit int) ([]TransactionView, error)
}

type pointQueriesImpl struct {
	accounts shared.AccountStore
}

func NewPointQueries(accounts shared.AccountStore) PointQueries {
	return &pointQueriesImpl{accounts: accounts}
}

func (q *pointQueriesImpl) GetBalance(ctx context.Context, userID uuid.UUID) (*BalanceView, error) {
	acc, err := q.accounts.Get(ctx, userID)
	if err != nil {
		return nil, errs.Wrap(err, "load point account")
	}
	return NewBalanceView(acc), nil
}

func (q *pointQueriesImpl) ListTransactions(ctx context.Context, userID uuid.UUID, limit int) ([]TransactionView, error) {
	txs, err := q.accounts.ListTransactions(ctx, userID, ValidateLimit(limit))
	if err != nil {
		return nil, errs.Wrap(err, "list point transactions")
	}

	views := make([]TransactionView, 0, len(txs))
	for _, t := range txs {
		views = append(views, NewTransactionView(t))
	}
	return views, nil
}
