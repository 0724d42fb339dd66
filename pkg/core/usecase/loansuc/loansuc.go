// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package loansuc contains the loans UseCase which enforces the loan
// lifecycle rules: a loan may be created only for a registered book
// with no outstanding loan, and a loan transitions to the returned
// state by recording an explicit returned flag.
package loansuc

import (
	"context"
	"time"

	"github.com/analluvias/library-api/pkg/core/cerr"
	"github.com/analluvias/library-api/pkg/core/model"
	"github.com/analluvias/library-api/pkg/core/repo"
	"github.com/google/uuid"
)

// UseCase represents the loans use case. It holds a database
// connection pool and the books and loans repository instances (to be
// guided with the DB pool). The loan date of new loans is taken from
// the configured clock, which defaults to the wall clock.
type UseCase struct {
	pool    repo.Pool
	booksrp repo.Books
	loansrp repo.Loans

	now func() time.Time
}

// New instantiates a loans use case.
// Required parameters are passed individually, so caller has to
// provision them and whenever they change, caller will notice and fix
// them due to a compilation error.
// Optional parameters are passed as a series of functional options
// in order to facilitate their validation and flexibility.
func New(p repo.Pool, b repo.Books, l repo.Loans, opts ...Option) (*UseCase, error) {
	uc := &UseCase{pool: p, booksrp: b, loansrp: l}
	for _, opt := range opts {
		if err := opt(uc); err != nil {
			return nil, cerr.BadRequest(err)
		}
	}
	// now, deal with defaults
	if uc.now == nil {
		uc.now = time.Now
	}
	return uc, nil
}

// Create use case creates a new outstanding loan for the book with
// the given isbn. It fails with a not-found error wrapping
// model.ErrBookNotFound when no such book is registered and with a
// conflict wrapping model.ErrBookAlreadyLoaned when the book already
// has an outstanding loan. The outstanding check and the insert run in
// one transaction, while the store's partial uniqueness constraint
// guarantees that two concurrent creations for one book cannot both
// succeed even across separate transactions.
// The loan date is set once here and is immutable thereafter.
func (loans *UseCase) Create(ctx context.Context, isbn, customer, email string) (loan *model.Loan, err error) {
	err = loans.pool.Conn(ctx, func(ctx context.Context, c repo.Conn) error {
		return c.Tx(ctx, func(ctx context.Context, tx repo.Tx) error {
			bq := loans.booksrp.Tx(tx)
			book, err := bq.FindByIsbn(ctx, isbn)
			if err != nil {
				return err
			}
			lq := loans.loansrp.Tx(tx)
			exists, err := lq.ExistsOutstandingForBook(ctx, book.ID)
			switch {
			case err != nil:
				return err
			case exists:
				return cerr.Conflict(model.ErrBookAlreadyLoaned)
			}
			loan, err = lq.Save(ctx, &model.Loan{
				BookID:        book.ID,
				Customer:      customer,
				CustomerEmail: email,
				LoanDate:      model.DateOf(loans.now()),
			})
			return err
		})
	})
	if err != nil {
		loan = nil
	}
	return
}

// MarkReturned use case records the returned flag of an existing
// loan. Both true and false are accepted; only true ends the
// outstanding state. Marking an already returned loan again is
// permitted and leaves the final state unchanged.
func (loans *UseCase) MarkReturned(ctx context.Context, id uuid.UUID, returned bool) (loan *model.Loan, err error) {
	err = loans.pool.Conn(ctx, func(ctx context.Context, c repo.Conn) error {
		q := loans.loansrp.Conn(c)
		loan, err = q.SetReturned(ctx, id, returned)
		return err
	})
	if err != nil {
		loan = nil
	}
	return
}

// Get use case fetches a loan by its id.
func (loans *UseCase) Get(ctx context.Context, id uuid.UUID) (loan *model.Loan, err error) {
	err = loans.pool.Conn(ctx, func(ctx context.Context, c repo.Conn) error {
		q := loans.loansrp.Conn(c)
		loan, err = q.FindByID(ctx, id)
		return err
	})
	if err != nil {
		loan = nil
	}
	return
}

// Find use case lists loans whose book isbn or customer name matches
// the given filter values, one page at a time.
func (loans *UseCase) Find(ctx context.Context, isbn, customer string, limit, offset int) (page *model.Page[model.Loan], err error) {
	err = loans.pool.Conn(ctx, func(ctx context.Context, c repo.Conn) error {
		q := loans.loansrp.Conn(c)
		page, err = q.Find(ctx, isbn, customer, limit, offset)
		return err
	})
	if err != nil {
		page = nil
	}
	return
}

// ByBook use case lists the loans which reference the given book,
// one page at a time. It fails with a not-found error when the book
// does not exist.
func (loans *UseCase) ByBook(ctx context.Context, bookID uuid.UUID, limit, offset int) (page *model.Page[model.Loan], err error) {
	err = loans.pool.Conn(ctx, func(ctx context.Context, c repo.Conn) error {
		bq := loans.booksrp.Conn(c)
		if _, err := bq.FindByID(ctx, bookID); err != nil {
			return err
		}
		q := loans.loansrp.Conn(c)
		page, err = q.FindByBook(ctx, bookID, limit, offset)
		return err
	})
	if err != nil {
		page = nil
	}
	return
}
