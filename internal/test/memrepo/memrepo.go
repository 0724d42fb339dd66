// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package memrepo is an internal helper for the test packages.
// It realizes the repo.Pool, repo.Books, and repo.Loans interfaces
// over in-memory maps, guarded by one mutex, so the use case packages
// may be tested without a DBMS server. The same invariants which the
// PostgreSQL adapter enforces with unique indices are enforced here
// under the store lock: no two books share an isbn and no book has
// two outstanding loans.
package memrepo

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/analluvias/library-api/pkg/core/cerr"
	"github.com/analluvias/library-api/pkg/core/model"
	"github.com/analluvias/library-api/pkg/core/repo"
	"github.com/google/uuid"
)

// Store keeps all records in memory. Instantiate it with New and pass
// it wherever a repo.Pool is expected, while its Books and Loans
// methods provide the repository instances.
type Store struct {
	mu    sync.Mutex
	books map[uuid.UUID]model.Book
	loans map[uuid.UUID]model.Loan
}

// New instantiates an empty in-memory store.
func New() *Store {
	return &Store{
		books: make(map[uuid.UUID]model.Book),
		loans: make(map[uuid.UUID]model.Loan),
	}
}

// Conn implements repo.Pool. The handler observes the store itself as
// its connection.
func (s *Store) Conn(ctx context.Context, f repo.ConnHandler) error {
	return f(ctx, conn{s})
}

// Books returns a repo.Books realization backed by this store.
func (s *Store) Books() repo.Books {
	return booksRepo{s}
}

// Loans returns a repo.Loans realization backed by this store.
func (s *Store) Loans() repo.Loans {
	return loansRepo{s}
}

// SaveBook seeds a book into the store through its books repository,
// so tests may provision catalog records without a use case.
func SaveBook(
	ctx context.Context, s *Store, b *model.Book,
) (saved *model.Book, err error) {
	err = s.Conn(ctx, func(ctx context.Context, c repo.Conn) error {
		saved, err = s.Books().Conn(c).Save(ctx, b)
		return err
	})
	return
}

// SaveLoan seeds a loan into the store through its loans repository,
// so tests may provision records with arbitrary past loan dates.
func SaveLoan(
	ctx context.Context, s *Store, l *model.Loan,
) (saved *model.Loan, err error) {
	err = s.Conn(ctx, func(ctx context.Context, c repo.Conn) error {
		saved, err = s.Loans().Conn(c).Save(ctx, l)
		return err
	})
	return
}

// SetLoanReturned records the returned flag of a seeded loan through
// the store's loans repository.
func SetLoanReturned(
	ctx context.Context, s *Store, id uuid.UUID, returned bool,
) (loan *model.Loan, err error) {
	err = s.Conn(ctx, func(ctx context.Context, c repo.Conn) error {
		loan, err = s.Loans().Conn(c).SetReturned(ctx, id, returned)
		return err
	})
	return
}

var errRawSQL = errors.New("memrepo does not support raw SQL")

type conn struct {
	s *Store
}

func (c conn) Exec(context.Context, string, ...any) (int64, error) {
	return 0, errRawSQL
}

func (c conn) Query(context.Context, string, ...any) (repo.Rows, error) {
	return nil, errRawSQL
}

func (c conn) Tx(ctx context.Context, f repo.TxHandler) error {
	return f(ctx, tx{c.s})
}

func (c conn) IsConn() {
}

type tx struct {
	s *Store
}

func (t tx) Exec(context.Context, string, ...any) (int64, error) {
	return 0, errRawSQL
}

func (t tx) Query(context.Context, string, ...any) (repo.Rows, error) {
	return nil, errRawSQL
}

func (t tx) IsTx() {
}

type booksRepo struct {
	s *Store
}

func (b booksRepo) Conn(c repo.Conn) repo.BooksConnQueryer {
	return booksQueryer{b.s}
}

func (b booksRepo) Tx(t repo.Tx) repo.BooksTxQueryer {
	return booksQueryer{b.s}
}

type booksQueryer struct {
	s *Store
}

func (q booksQueryer) Save(_ context.Context, b *model.Book) (*model.Book, error) {
	q.s.mu.Lock()
	defer q.s.mu.Unlock()
	for _, other := range q.s.books {
		if other.Isbn == b.Isbn && other.ID != b.ID {
			return nil, cerr.Conflict(model.ErrDuplicateIsbn)
		}
	}
	saved := *b
	if saved.ID == uuid.Nil {
		saved.ID = uuid.New()
	}
	q.s.books[saved.ID] = saved
	return &saved, nil
}

func (q booksQueryer) FindByID(_ context.Context, id uuid.UUID) (*model.Book, error) {
	q.s.mu.Lock()
	defer q.s.mu.Unlock()
	b, ok := q.s.books[id]
	if !ok {
		return nil, cerr.NotFound(model.ErrBookNotFound)
	}
	return &b, nil
}

func (q booksQueryer) FindByIsbn(_ context.Context, isbn string) (*model.Book, error) {
	q.s.mu.Lock()
	defer q.s.mu.Unlock()
	for _, b := range q.s.books {
		if b.Isbn == isbn {
			b := b
			return &b, nil
		}
	}
	return nil, cerr.NotFound(model.ErrBookNotFound)
}

func (q booksQueryer) ExistsByIsbn(_ context.Context, isbn string) (bool, error) {
	q.s.mu.Lock()
	defer q.s.mu.Unlock()
	for _, b := range q.s.books {
		if b.Isbn == isbn {
			return true, nil
		}
	}
	return false, nil
}

func (q booksQueryer) UpdateTitleAuthor(_ context.Context, id uuid.UUID, title, author string) (*model.Book, error) {
	q.s.mu.Lock()
	defer q.s.mu.Unlock()
	b, ok := q.s.books[id]
	if !ok {
		return nil, cerr.NotFound(model.ErrBookNotFound)
	}
	b.Title, b.Author = title, author
	q.s.books[id] = b
	return &b, nil
}

func (q booksQueryer) Delete(_ context.Context, id uuid.UUID) error {
	q.s.mu.Lock()
	defer q.s.mu.Unlock()
	if _, ok := q.s.books[id]; !ok {
		return cerr.NotFound(model.ErrBookNotFound)
	}
	for _, l := range q.s.loans {
		if l.BookID == id {
			return cerr.Conflict(model.ErrBookReferenced)
		}
	}
	delete(q.s.books, id)
	return nil
}

func (q booksQueryer) Find(_ context.Context, title, author string, limit, offset int) (*model.Page[model.Book], error) {
	q.s.mu.Lock()
	defer q.s.mu.Unlock()
	var all []model.Book
	for _, b := range q.s.books {
		if contains(b.Title, title) && contains(b.Author, author) {
			all = append(all, b)
		}
	}
	sort.Slice(all, func(i, j int) bool {
		return all[i].Isbn < all[j].Isbn
	})
	return pageOf(all, limit, offset), nil
}

type loansRepo struct {
	s *Store
}

func (l loansRepo) Conn(c repo.Conn) repo.LoansConnQueryer {
	return loansQueryer{l.s}
}

func (l loansRepo) Tx(t repo.Tx) repo.LoansTxQueryer {
	return loansQueryer{l.s}
}

type loansQueryer struct {
	s *Store
}

func (q loansQueryer) Save(_ context.Context, l *model.Loan) (*model.Loan, error) {
	q.s.mu.Lock()
	defer q.s.mu.Unlock()
	if _, ok := q.s.books[l.BookID]; !ok {
		return nil, cerr.NotFound(model.ErrBookNotFound)
	}
	for _, other := range q.s.loans {
		if other.BookID == l.BookID && other.ID != l.ID &&
			other.Outstanding() {
			return nil, cerr.Conflict(model.ErrBookAlreadyLoaned)
		}
	}
	saved := *l
	if saved.ID == uuid.Nil {
		saved.ID = uuid.New()
	}
	q.s.loans[saved.ID] = saved
	return &saved, nil
}

func (q loansQueryer) FindByID(_ context.Context, id uuid.UUID) (*model.Loan, error) {
	q.s.mu.Lock()
	defer q.s.mu.Unlock()
	l, ok := q.s.loans[id]
	if !ok {
		return nil, cerr.NotFound(model.ErrLoanNotFound)
	}
	return &l, nil
}

func (q loansQueryer) ExistsOutstandingForBook(_ context.Context, bookID uuid.UUID) (bool, error) {
	q.s.mu.Lock()
	defer q.s.mu.Unlock()
	for _, l := range q.s.loans {
		if l.BookID == bookID && l.Outstanding() {
			return true, nil
		}
	}
	return false, nil
}

func (q loansQueryer) SetReturned(_ context.Context, id uuid.UUID, returned bool) (*model.Loan, error) {
	q.s.mu.Lock()
	defer q.s.mu.Unlock()
	l, ok := q.s.loans[id]
	if !ok {
		return nil, cerr.NotFound(model.ErrLoanNotFound)
	}
	l.Returned = &returned
	q.s.loans[id] = l
	return &l, nil
}

func (q loansQueryer) FindOutstandingOlderThan(_ context.Context, cutoff time.Time) ([]model.Loan, error) {
	q.s.mu.Lock()
	defer q.s.mu.Unlock()
	var loans []model.Loan
	for _, l := range q.s.loans {
		if l.Outstanding() && !model.DateOf(l.LoanDate).After(cutoff) {
			loans = append(loans, l)
		}
	}
	sortLoans(loans)
	return loans, nil
}

func (q loansQueryer) Find(_ context.Context, isbn, customer string, limit, offset int) (*model.Page[model.Loan], error) {
	q.s.mu.Lock()
	defer q.s.mu.Unlock()
	var loans []model.Loan
	for _, l := range q.s.loans {
		b, ok := q.s.books[l.BookID]
		if (ok && b.Isbn == isbn) || l.Customer == customer {
			loans = append(loans, l)
		}
	}
	sortLoans(loans)
	return pageOf(loans, limit, offset), nil
}

func (q loansQueryer) FindByBook(_ context.Context, bookID uuid.UUID, limit, offset int) (*model.Page[model.Loan], error) {
	q.s.mu.Lock()
	defer q.s.mu.Unlock()
	var loans []model.Loan
	for _, l := range q.s.loans {
		if l.BookID == bookID {
			loans = append(loans, l)
		}
	}
	sortLoans(loans)
	return pageOf(loans, limit, offset), nil
}

func contains(s, sub string) bool {
	if sub == "" {
		return true
	}
	return strings.Contains(
		strings.ToLower(s), strings.ToLower(sub),
	)
}

func sortLoans(loans []model.Loan) {
	sort.Slice(loans, func(i, j int) bool {
		if !loans[i].LoanDate.Equal(loans[j].LoanDate) {
			return loans[i].LoanDate.Before(loans[j].LoanDate)
		}
		return loans[i].ID.String() < loans[j].ID.String()
	})
}

func pageOf[T any](all []T, limit, offset int) *model.Page[T] {
	page := &model.Page[T]{Total: int64(len(all))}
	if offset >= len(all) {
		return page
	}
	all = all[offset:]
	if limit > 0 && limit < len(all) {
		all = all[:limit]
	}
	page.Content = all
	return page
}
