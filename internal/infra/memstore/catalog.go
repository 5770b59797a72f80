package memstore

import (
	"context"
	"sync"

	"book-locker/internal/infra"
	"book-locker/internal/pkg/errs"

	"github.com/google/uuid"
)

type book struct {
	title string
	price int64
}

type Catalog struct {
	mu    sync.RWMutex
	books map[uuid.UUID]book
}

func NewCatalog() *Catalog {
	return &Catalog{books: make(map[uuid.UUID]book)}
}

func (c *Catalog) BookPrice(_ context.Context, bookID uuid.UUID) (int64, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	b, ok := c.books[bookID]
	if !ok {
		return 0, infra.WrapRepoErr("book not found", nil, infra.KindNotFound)
	}
	return b.price, nil
}

func (c *Catalog) BookExists(_ context.Context, bookID uuid.UUID) (bool, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	_, ok := c.books[bookID]
	return ok, nil
}

func (c *Catalog) PutBook(_ context.Context, bookID uuid.UUID, title string, price int64) error {
	if price < 0 {
		return errs.Kind(errs.ErrInvalidArgument, "book price cannot be negative: %d", price)
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.books[bookID] = book{title: title, price: price}
	return nil
}
