package repo

import (
	"context"

	"github.com/analluvias/library-api/pkg/core/model"
	"github.com/google/uuid"
)

type BooksConnQueryer interface {
	BooksQueryer
}

type BooksTxQueryer interface {
	BooksQueryer
}

// BooksQueryer specifies the catalog store operations. Save assigns a
// fresh id when the given book has a zero id and persists it; it fails
// with model.ErrDuplicateIsbn if another book holds the same isbn.
// Delete fails with a conflict error while any loan still references
// the book.
type BooksQueryer interface {
	Save(ctx context.Context, b *model.Book) (*model.Book, error)
	FindByID(ctx context.Context, id uuid.UUID) (*model.Book, error)
	FindByIsbn(ctx context.Context, isbn string) (*model.Book, error)
	ExistsByIsbn(ctx context.Context, isbn string) (bool, error)
	UpdateTitleAuthor(ctx context.Context, id uuid.UUID, title, author string) (*model.Book, error)
	Delete(ctx context.Context, id uuid.UUID) error
	Find(ctx context.Context, title, author string, limit, offset int) (*model.Page[model.Book], error)
}

type Books interface {
	Conn(Conn) BooksConnQueryer
	Tx(Tx) BooksTxQueryer
}
