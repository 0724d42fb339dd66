// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package booksuc_test

import (
	"context"
	"testing"

	"github.com/analluvias/library-api/internal/test/memrepo"
	"github.com/analluvias/library-api/pkg/core/cerr"
	"github.com/analluvias/library-api/pkg/core/model"
	"github.com/analluvias/library-api/pkg/core/usecase/booksuc"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newUseCase() (*booksuc.UseCase, *memrepo.Store) {
	s := memrepo.New()
	return booksuc.New(s, s.Books()), s
}

func TestRegisterAndGet(t *testing.T) {
	t.Parallel()
	r := require.New(t)
	ctx := context.Background()
	uc, _ := newUseCase()

	book, err := uc.Register(
		ctx, "As Aventuras", "Fulano", "978-85-333-0227-3",
	)
	r.NoError(err, "registering a new book")
	r.NotEqual(uuid.Nil, book.ID, "an identity must be assigned")

	fetched, err := uc.Get(ctx, book.ID)
	r.NoError(err, "fetching by id")
	assert.Equal(t, book, fetched)

	fetched, err = uc.GetByIsbn(ctx, "978-85-333-0227-3")
	r.NoError(err, "fetching by isbn")
	assert.Equal(t, book, fetched)
}

func TestRegisterDuplicateIsbn(t *testing.T) {
	t.Parallel()
	r := require.New(t)
	ctx := context.Background()
	uc, _ := newUseCase()

	_, err := uc.Register(ctx, "First", "Author", "0022")
	r.NoError(err, "registering the first book")

	book, err := uc.Register(ctx, "Second", "Other", "0022")
	r.ErrorIs(err, model.ErrDuplicateIsbn)
	r.Nil(book)
	var cerror *cerr.Error
	r.ErrorAs(err, &cerror)
	assert.Equal(t, 409, cerror.HTTPStatusCode)

	// the collision must not mutate the catalog
	page, err := uc.Find(ctx, "", "", 10, 0)
	r.NoError(err, "listing the catalog")
	r.Equal(int64(1), page.Total)
	assert.Equal(t, "First", page.Content[0].Title)
}

func TestGetMissing(t *testing.T) {
	t.Parallel()
	r := require.New(t)
	ctx := context.Background()
	uc, _ := newUseCase()

	_, err := uc.Get(ctx, uuid.New())
	r.ErrorIs(err, model.ErrBookNotFound)

	_, err = uc.GetByIsbn(ctx, "does-not-exist")
	r.ErrorIs(err, model.ErrBookNotFound)
}

func TestUpdate(t *testing.T) {
	t.Parallel()
	r := require.New(t)
	ctx := context.Background()
	uc, _ := newUseCase()

	book, err := uc.Register(ctx, "Old Title", "Old Author", "0011")
	r.NoError(err, "registering a book")

	updated, err := uc.Update(ctx, book.ID, "New Title", "New Author")
	r.NoError(err, "updating title and author")
	assert.Equal(t, "New Title", updated.Title)
	assert.Equal(t, "New Author", updated.Author)
	assert.Equal(t, "0011", updated.Isbn, "isbn must stay immutable")

	_, err = uc.Update(ctx, uuid.Nil, "T", "A")
	r.ErrorIs(err, booksuc.ErrNilBookID)

	_, err = uc.Update(ctx, uuid.New(), "T", "A")
	r.ErrorIs(err, model.ErrBookNotFound)
}

func TestDelete(t *testing.T) {
	t.Parallel()
	r := require.New(t)
	ctx := context.Background()
	uc, _ := newUseCase()

	book, err := uc.Register(ctx, "Gone", "Soon", "0033")
	r.NoError(err, "registering a book")

	r.ErrorIs(uc.Delete(ctx, uuid.Nil), booksuc.ErrNilBookID)
	r.NoError(uc.Delete(ctx, book.ID), "deleting an existing book")
	r.ErrorIs(uc.Delete(ctx, book.ID), model.ErrBookNotFound)

	_, err = uc.Get(ctx, book.ID)
	r.ErrorIs(err, model.ErrBookNotFound)
}

func TestFindPaging(t *testing.T) {
	t.Parallel()
	r := require.New(t)
	ctx := context.Background()
	uc, _ := newUseCase()

	for _, b := range []struct {
		title, author, isbn string
	}{
		{"Dom Casmurro", "Machado de Assis", "0001"},
		{"Memorias Postumas", "Machado de Assis", "0002"},
		{"Vidas Secas", "Graciliano Ramos", "0003"},
	} {
		_, err := uc.Register(ctx, b.title, b.author, b.isbn)
		r.NoError(err, "registering %q", b.title)
	}

	page, err := uc.Find(ctx, "", "machado", 10, 0)
	r.NoError(err, "filtering by author")
	r.Equal(int64(2), page.Total)
	r.Len(page.Content, 2)

	page, err = uc.Find(ctx, "", "machado", 1, 1)
	r.NoError(err, "second page of one")
	r.Equal(int64(2), page.Total, "total counts all matches")
	r.Len(page.Content, 1)
	assert.Equal(t, "0002", page.Content[0].Isbn, "ordered by isbn")

	page, err = uc.Find(ctx, "secas", "", 10, 0)
	r.NoError(err, "filtering by title")
	r.Equal(int64(1), page.Total)
}
