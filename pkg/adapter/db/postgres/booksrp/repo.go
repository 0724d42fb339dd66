// Package booksrp realizes the books repository, adapting the catalog
// store expectations of the core layer to a PostgreSQL database using
// the GORM framework. The isbn uniqueness invariant is enforced by the
// books_isbn_key unique index, so concurrent registrations cannot
// create duplicates regardless of any application-level pre-check.
package booksrp

import (
	"context"

	"github.com/analluvias/library-api/pkg/adapter/db/postgres"
	"github.com/analluvias/library-api/pkg/core/model"
	"github.com/analluvias/library-api/pkg/core/repo"
	"github.com/google/uuid"
)

type Repo struct {
}

func New() *Repo {
	return &Repo{}
}

type connQueryer struct {
	*postgres.Conn
}

func (books *Repo) Conn(c repo.Conn) repo.BooksConnQueryer {
	cc := c.(*postgres.Conn)
	return connQueryer{Conn: cc}
}

func (cq connQueryer) Save(ctx context.Context, b *model.Book) (*model.Book, error) {
	return Save(ctx, cq.Conn, b)
}

func (cq connQueryer) FindByID(ctx context.Context, id uuid.UUID) (*model.Book, error) {
	return FindByID(ctx, cq.Conn, id)
}

func (cq connQueryer) FindByIsbn(ctx context.Context, isbn string) (*model.Book, error) {
	return FindByIsbn(ctx, cq.Conn, isbn)
}

func (cq connQueryer) ExistsByIsbn(ctx context.Context, isbn string) (bool, error) {
	return ExistsByIsbn(ctx, cq.Conn, isbn)
}

func (cq connQueryer) UpdateTitleAuthor(ctx context.Context, id uuid.UUID, title, author string) (*model.Book, error) {
	return UpdateTitleAuthor(ctx, cq.Conn, id, title, author)
}

func (cq connQueryer) Delete(ctx context.Context, id uuid.UUID) error {
	return Delete(ctx, cq.Conn, id)
}

func (cq connQueryer) Find(ctx context.Context, title, author string, limit, offset int) (*model.Page[model.Book], error) {
	return Find(ctx, cq.Conn, title, author, limit, offset)
}

type txQueryer struct {
	*postgres.Tx
}

func (books *Repo) Tx(tx repo.Tx) repo.BooksTxQueryer {
	tt := tx.(*postgres.Tx)
	return txQueryer{Tx: tt}
}

func (tq txQueryer) Save(ctx context.Context, b *model.Book) (*model.Book, error) {
	return Save(ctx, tq.Tx, b)
}

func (tq txQueryer) FindByID(ctx context.Context, id uuid.UUID) (*model.Book, error) {
	return FindByID(ctx, tq.Tx, id)
}

func (tq txQueryer) FindByIsbn(ctx context.Context, isbn string) (*model.Book, error) {
	return FindByIsbn(ctx, tq.Tx, isbn)
}

func (tq txQueryer) ExistsByIsbn(ctx context.Context, isbn string) (bool, error) {
	return ExistsByIsbn(ctx, tq.Tx, isbn)
}

func (tq txQueryer) UpdateTitleAuthor(ctx context.Context, id uuid.UUID, title, author string) (*model.Book, error) {
	return UpdateTitleAuthor(ctx, tq.Tx, id, title, author)
}

func (tq txQueryer) Delete(ctx context.Context, id uuid.UUID) error {
	return Delete(ctx, tq.Tx, id)
}

func (tq txQueryer) Find(ctx context.Context, title, author string, limit, offset int) (*model.Page[model.Book], error) {
	return Find(ctx, tq.Tx, title, author, limit, offset)
}
