package repository

import (
	"context"
	"time"

	"book-locker/internal/infra"
	"book-locker/internal/pkg/errs"
	"book-locker/internal/pkg/pgconv"

	"github.com/doug-martin/goqu/v9"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type CatalogRepository struct {
	db DBTX
}

func NewCatalogRepository(db DBTX) *CatalogRepository {
	return &CatalogRepository{db: db}
}

func (r *CatalogRepository) BookPrice(ctx context.Context, bookID uuid.UUID) (int64, error) {
	stmt := dialect.From(tableBooks).Prepared(true).
		Select("price").
		Where(goqu.C("id").Eq(bookID))
	rows, err := query(ctx, r.db, stmt)
	if err != nil {
		return 0, infra.WrapRepoErr("failed to query book", err)
	}
	price, err := pgx.CollectOneRow(rows, pgx.RowTo[int64])
	if err != nil {
		if pgconv.IsNoRows(err) {
			return 0, infra.WrapRepoErr("book not found", err, infra.KindNotFound)
		}
		return 0, infra.WrapRepoErr("failed to scan book price", err)
	}
	return price, nil
}

func (r *CatalogRepository) BookExists(ctx context.Context, bookID uuid.UUID) (bool, error) {
	if _, err := r.BookPrice(ctx, bookID); err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

func (r *CatalogRepository) PutBook(ctx context.Context, bookID uuid.UUID, title string, price int64) error {
	if price < 0 {
		return errs.Kind(errs.ErrInvalidArgument, "book price cannot be negative: %d", price)
	}
	now := time.Now()
	stmt := dialect.Insert(tableBooks).Prepared(true).
		Rows(goqu.Record{
			"id":         bookID,
			"title":      title,
			"price":      price,
			"created_at": now,
			"updated_at": now,
		}).
		OnConflict(goqu.DoUpdate("id", goqu.Record{
			"title":      goqu.I("excluded.title"),
			"price":      goqu.I("excluded.price"),
			"updated_at": goqu.I("excluded.updated_at"),
		}))
	if _, err := exec(ctx, r.db, stmt); err != nil {
		return infra.WrapRepoErr("failed to upsert book", err)
	}
	return nil
}
