// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package booksuc contains the books UseCase which supports the
// catalog related use cases: registering a book, fetching it by id or
// isbn, updating its title/author, deleting it, and searching the
// catalog with a paged filter.
package booksuc

import (
	"context"
	"errors"

	"github.com/analluvias/library-api/pkg/core/cerr"
	"github.com/analluvias/library-api/pkg/core/model"
	"github.com/analluvias/library-api/pkg/core/repo"
	"github.com/google/uuid"
)

// ErrNilBookID indicates that an operation which requires a book
// identity was called with the zero UUID.
var ErrNilBookID = errors.New("book id cannot be nil")

// UseCase represents the books use case. It holds a database
// connection pool and the books repository instance (to be guided
// with the DB pool).
type UseCase struct {
	pool    repo.Pool
	booksrp repo.Books
}

// New instantiates a books use case.
func New(p repo.Pool, b repo.Books) *UseCase {
	return &UseCase{pool: p, booksrp: b}
}

// Register use case registers a new book in the catalog, assigning a
// fresh identity. The isbn must not collide with a previously
// registered book; a collision is reported as a conflict wrapping
// model.ErrDuplicateIsbn without mutating the catalog. The store
// enforces the isbn uniqueness atomically, so concurrent registration
// attempts for one isbn cannot both succeed.
func (books *UseCase) Register(ctx context.Context, title, author, isbn string) (book *model.Book, err error) {
	err = books.pool.Conn(ctx, func(ctx context.Context, c repo.Conn) error {
		q := books.booksrp.Conn(c)
		exists, err := q.ExistsByIsbn(ctx, isbn)
		switch {
		case err != nil:
			return err
		case exists:
			return cerr.Conflict(model.ErrDuplicateIsbn)
		}
		book, err = q.Save(ctx, &model.Book{
			Title:  title,
			Author: author,
			Isbn:   isbn,
		})
		return err
	})
	if err != nil {
		book = nil
	}
	return
}

// Get use case fetches a book by its id.
func (books *UseCase) Get(ctx context.Context, id uuid.UUID) (book *model.Book, err error) {
	err = books.pool.Conn(ctx, func(ctx context.Context, c repo.Conn) error {
		q := books.booksrp.Conn(c)
		book, err = q.FindByID(ctx, id)
		return err
	})
	if err != nil {
		book = nil
	}
	return
}

// GetByIsbn use case fetches a book by its isbn.
func (books *UseCase) GetByIsbn(ctx context.Context, isbn string) (book *model.Book, err error) {
	err = books.pool.Conn(ctx, func(ctx context.Context, c repo.Conn) error {
		q := books.booksrp.Conn(c)
		book, err = q.FindByIsbn(ctx, isbn)
		return err
	})
	if err != nil {
		book = nil
	}
	return
}

// Update use case replaces the title and author of an existing book.
// The isbn is immutable after registration, hence, it may not be
// updated by this use case.
func (books *UseCase) Update(ctx context.Context, id uuid.UUID, title, author string) (book *model.Book, err error) {
	if id == uuid.Nil {
		return nil, cerr.BadRequest(ErrNilBookID)
	}
	err = books.pool.Conn(ctx, func(ctx context.Context, c repo.Conn) error {
		q := books.booksrp.Conn(c)
		book, err = q.UpdateTitleAuthor(ctx, id, title, author)
		return err
	})
	if err != nil {
		book = nil
	}
	return
}

// Delete use case removes a book from the catalog. A zero id is
// rejected before touching the store. Books which are referenced by
// any loan, outstanding or historical, may not be deleted; the store
// reports that condition as a conflict.
func (books *UseCase) Delete(ctx context.Context, id uuid.UUID) error {
	if id == uuid.Nil {
		return cerr.BadRequest(ErrNilBookID)
	}
	return books.pool.Conn(ctx, func(ctx context.Context, c repo.Conn) error {
		q := books.booksrp.Conn(c)
		return q.Delete(ctx, id)
	})
}

// Find use case searches the catalog with case-insensitive containing
// matches over the title and author fields. Empty filter fields match
// all records. Results are returned one page at a time.
func (books *UseCase) Find(ctx context.Context, title, author string, limit, offset int) (page *model.Page[model.Book], err error) {
	err = books.pool.Conn(ctx, func(ctx context.Context, c repo.Conn) error {
		q := books.booksrp.Conn(c)
		page, err = q.Find(ctx, title, author, limit, offset)
		return err
	})
	if err != nil {
		page = nil
	}
	return
}
