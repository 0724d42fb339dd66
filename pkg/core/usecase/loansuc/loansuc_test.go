// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package loansuc_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/analluvias/library-api/internal/test/memrepo"
	"github.com/analluvias/library-api/pkg/core/model"
	"github.com/analluvias/library-api/pkg/core/usecase/booksuc"
	"github.com/analluvias/library-api/pkg/core/usecase/loansuc"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testNow = time.Date(2024, 5, 20, 15, 45, 0, 0, time.UTC)

func newUseCase(t *testing.T) (*loansuc.UseCase, *booksuc.UseCase) {
	s := memrepo.New()
	uc, err := loansuc.New(
		s, s.Books(), s.Loans(),
		loansuc.WithClock(func() time.Time { return testNow }),
	)
	require.NoError(t, err, "instantiating the loans use case")
	return uc, booksuc.New(s, s.Books())
}

func registerBook(
	t *testing.T, buc *booksuc.UseCase, isbn string,
) *model.Book {
	book, err := buc.Register(
		context.Background(), "Some Title", "Some Author", isbn,
	)
	require.NoError(t, err, "registering book %q", isbn)
	return book
}

func TestCreate(t *testing.T) {
	t.Parallel()
	r := require.New(t)
	ctx := context.Background()
	uc, buc := newUseCase(t)
	book := registerBook(t, buc, "0100")

	loan, err := uc.Create(ctx, "0100", "Maria", "maria@example.com")
	r.NoError(err, "creating a loan for a free book")
	r.NotEqual(uuid.Nil, loan.ID, "an identity must be assigned")
	assert.Equal(t, book.ID, loan.BookID)
	assert.Equal(t, "Maria", loan.Customer)
	assert.Equal(t, "maria@example.com", loan.CustomerEmail)
	assert.Equal(
		t, model.DateOf(testNow), loan.LoanDate,
		"loan date is the creation date, at date precision",
	)
	assert.Nil(t, loan.Returned, "no return decision is recorded yet")
	assert.True(t, loan.Outstanding())
}

func TestCreateUnknownIsbn(t *testing.T) {
	t.Parallel()
	r := require.New(t)
	uc, _ := newUseCase(t)

	loan, err := uc.Create(
		context.Background(), "0999", "Maria", "maria@example.com",
	)
	r.ErrorIs(err, model.ErrBookNotFound)
	r.Nil(loan)
}

func TestCreateAlreadyLoaned(t *testing.T) {
	t.Parallel()
	r := require.New(t)
	ctx := context.Background()
	uc, buc := newUseCase(t)
	registerBook(t, buc, "0100")

	_, err := uc.Create(ctx, "0100", "Maria", "maria@example.com")
	r.NoError(err, "creating the first loan")

	loan, err := uc.Create(ctx, "0100", "Joao", "joao@example.com")
	r.ErrorIs(err, model.ErrBookAlreadyLoaned)
	r.Nil(loan)
}

func TestCreateConcurrent(t *testing.T) {
	t.Parallel()
	r := require.New(t)
	ctx := context.Background()
	uc, buc := newUseCase(t)
	registerBook(t, buc, "0100")

	// all creators may pass the outstanding pre-check before any of
	// them saves, so the store-level uniqueness has to decide the
	// winner
	const creators = 8
	errs := make(chan error, creators)
	var wg sync.WaitGroup
	for i := 0; i < creators; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := uc.Create(
				ctx, "0100", "Maria", "maria@example.com",
			)
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)

	var created int
	for err := range errs {
		if err == nil {
			created++
			continue
		}
		r.ErrorIs(err, model.ErrBookAlreadyLoaned)
	}
	r.Equal(1, created, "exactly one creation may win")

	page, err := uc.Find(ctx, "0100", "", 10, 0)
	r.NoError(err, "listing the loans of the book")
	r.Equal(int64(1), page.Total, "no duplicate outstanding loans")
}

func TestCreateAfterReturn(t *testing.T) {
	t.Parallel()
	r := require.New(t)
	ctx := context.Background()
	uc, buc := newUseCase(t)
	registerBook(t, buc, "0100")

	first, err := uc.Create(ctx, "0100", "Maria", "maria@example.com")
	r.NoError(err, "creating the first loan")

	_, err = uc.MarkReturned(ctx, first.ID, true)
	r.NoError(err, "returning the book")

	second, err := uc.Create(ctx, "0100", "Joao", "joao@example.com")
	r.NoError(err, "the returned book may be loaned again")
	r.NotEqual(first.ID, second.ID)

	// both records survive as history
	page, err := uc.Find(ctx, "0100", "", 10, 0)
	r.NoError(err, "listing the loans of the book")
	r.Equal(int64(2), page.Total)
}

func TestMarkReturned(t *testing.T) {
	t.Parallel()
	r := require.New(t)
	ctx := context.Background()
	uc, buc := newUseCase(t)
	registerBook(t, buc, "0100")

	loan, err := uc.Create(ctx, "0100", "Maria", "maria@example.com")
	r.NoError(err, "creating a loan")

	// an explicit false keeps the loan outstanding
	updated, err := uc.MarkReturned(ctx, loan.ID, false)
	r.NoError(err, "recording an explicit false")
	r.NotNil(updated.Returned)
	assert.False(t, *updated.Returned)
	assert.True(t, updated.Outstanding())

	updated, err = uc.MarkReturned(ctx, loan.ID, true)
	r.NoError(err, "returning the book")
	assert.False(t, updated.Outstanding())

	// marking again is permitted and changes nothing
	updated, err = uc.MarkReturned(ctx, loan.ID, true)
	r.NoError(err, "repeating the return mark")
	assert.False(t, updated.Outstanding())

	_, err = uc.MarkReturned(ctx, uuid.New(), true)
	r.ErrorIs(err, model.ErrLoanNotFound)
}

func TestGet(t *testing.T) {
	t.Parallel()
	r := require.New(t)
	ctx := context.Background()
	uc, buc := newUseCase(t)
	registerBook(t, buc, "0100")

	loan, err := uc.Create(ctx, "0100", "Maria", "maria@example.com")
	r.NoError(err, "creating a loan")

	fetched, err := uc.Get(ctx, loan.ID)
	r.NoError(err, "fetching by id")
	assert.Equal(t, loan, fetched)

	_, err = uc.Get(ctx, uuid.New())
	r.ErrorIs(err, model.ErrLoanNotFound)
}

func TestFind(t *testing.T) {
	t.Parallel()
	r := require.New(t)
	ctx := context.Background()
	uc, buc := newUseCase(t)
	registerBook(t, buc, "0100")
	registerBook(t, buc, "0200")

	_, err := uc.Create(ctx, "0100", "Maria", "maria@example.com")
	r.NoError(err, "loaning the first book")
	_, err = uc.Create(ctx, "0200", "Joao", "joao@example.com")
	r.NoError(err, "loaning the second book")

	page, err := uc.Find(ctx, "0100", "", 10, 0)
	r.NoError(err, "filtering by isbn")
	r.Equal(int64(1), page.Total)
	assert.Equal(t, "Maria", page.Content[0].Customer)

	page, err = uc.Find(ctx, "", "Joao", 10, 0)
	r.NoError(err, "filtering by customer")
	r.Equal(int64(1), page.Total)
	assert.Equal(t, "Joao", page.Content[0].Customer)

	page, err = uc.Find(ctx, "0100", "Joao", 10, 0)
	r.NoError(err, "either filter may match")
	r.Equal(int64(2), page.Total)
}

func TestByBook(t *testing.T) {
	t.Parallel()
	r := require.New(t)
	ctx := context.Background()
	uc, buc := newUseCase(t)
	book := registerBook(t, buc, "0100")

	loan, err := uc.Create(ctx, "0100", "Maria", "maria@example.com")
	r.NoError(err, "creating a loan")

	page, err := uc.ByBook(ctx, book.ID, 10, 0)
	r.NoError(err, "listing loans of an existing book")
	r.Equal(int64(1), page.Total)
	assert.Equal(t, loan.ID, page.Content[0].ID)

	_, err = uc.ByBook(ctx, uuid.New(), 10, 0)
	r.ErrorIs(err, model.ErrBookNotFound)
}
