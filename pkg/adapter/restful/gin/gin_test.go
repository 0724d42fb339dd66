// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package gin_test

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/analluvias/library-api/internal/test/dbcontainer"
	"github.com/analluvias/library-api/pkg/adapter/db/postgres"
	"github.com/analluvias/library-api/pkg/adapter/db/postgres/booksrp"
	"github.com/analluvias/library-api/pkg/adapter/db/postgres/loansrp"
	"github.com/analluvias/library-api/pkg/adapter/restful/gin"
	"github.com/analluvias/library-api/pkg/adapter/restful/gin/routes"
	"github.com/analluvias/library-api/pkg/core/cerr"
	"github.com/analluvias/library-api/pkg/core/model"
	"github.com/analluvias/library-api/pkg/core/repo"
	"github.com/bitcomplete/sqltestutil"
	"github.com/goccy/go-json"
	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"
)

type IntegrationGinTestSuite struct {
	suite.Suite

	Ctx  context.Context
	Pg   *sqltestutil.PostgresContainer
	Pool *postgres.Pool
	Gin  *gin.Engine
}

func TestIntegrationGinTestSuite(t *testing.T) {
	ctx := context.Background()
	pg, pool, dfrs, ok := dbcontainer.New(ctx, 60*time.Second, t)
	for _, f := range dfrs {
		defer f()
	}
	if !ok {
		return // errors are already logged
	}
	suite.Run(t, &IntegrationGinTestSuite{
		Ctx:  ctx,
		Pg:   pg,
		Pool: pool,
	})
}

func (igts *IntegrationGinTestSuite) SetupSuite() {
	sql, err := os.ReadFile("testdata/schema.sql")
	igts.Require().NoError(err, "failed to read schema.sql file")
	err = igts.Pool.Conn(
		igts.Ctx, func(ctx context.Context, c repo.Conn) error {
			_, err := c.Exec(ctx, string(sql))
			return err
		},
	)
	igts.Require().NoError(err, "failed to create schema contents")

	igts.Gin = gin.New(gin.Logger(), gin.Recovery())
	igts.Require().NotNil(igts.Gin, "cannot instantiate Gin engine")
	err = routes.Register(igts.Gin, igts.Pool)
	igts.Require().NoError(err, "failed to register Gin routes")
}

type bookRep struct {
	ID     uuid.UUID `json:"id"`
	Title  string    `json:"title"`
	Author string    `json:"author"`
	Isbn   string    `json:"isbn"`
}

type loanRep struct {
	ID            uuid.UUID `json:"id"`
	BookID        uuid.UUID `json:"book_id"`
	Customer      string    `json:"customer"`
	CustomerEmail string    `json:"customer_email"`
	LoanDate      string    `json:"loan_date"`
	Returned      *bool     `json:"returned"`
}

type errRep struct {
	Detail string `json:"detail"`
}

func jsonBody(igts *IntegrationGinTestSuite, v any) io.Reader {
	b, err := json.Marshal(v)
	igts.Require().NoError(err, "cannot marshal request body")
	return bytes.NewReader(b)
}

func (igts *IntegrationGinTestSuite) call(
	method, path string, body io.Reader, res any,
) int {
	w := httptest.NewRecorder()
	req, err := http.NewRequest(method, "/api/libweb/v1"+path, body)
	igts.Require().NoError(err, "cannot create %s request", method)
	if body != nil {
		req.Header.Add("Content-Type", "application/json")
	}
	igts.Gin.ServeHTTP(w, req)
	if res != nil && w.Body.Len() > 0 {
		b := w.Body.Bytes()
		igts.NoError(json.Unmarshal(b, res), "body is not json")
	}
	return w.Code
}

func (igts *IntegrationGinTestSuite) registerBook(
	title, author, isbn string,
) bookRep {
	book := bookRep{}
	code := igts.call(
		http.MethodPost, "/books",
		jsonBody(igts, map[string]string{
			"title":  title,
			"author": author,
			"isbn":   isbn,
		}),
		&book,
	)
	igts.Require().Equal(201, code, "cannot register book %q", isbn)
	igts.Require().NotEqual(uuid.Nil, book.ID)
	return book
}

func (igts *IntegrationGinTestSuite) createLoan(
	isbn, customer, email string,
) loanRep {
	loan := loanRep{}
	code := igts.call(
		http.MethodPost, "/loans",
		jsonBody(igts, map[string]string{
			"isbn":           isbn,
			"customer":       customer,
			"customer_email": email,
		}),
		&loan,
	)
	igts.Require().Equal(201, code, "cannot create loan for %q", isbn)
	return loan
}

func (igts *IntegrationGinTestSuite) TestBooksRoundTrip() {
	book := igts.registerBook(
		"Dom Casmurro", "Machado de Assis", "978-85-7232-110-1",
	)

	fetched := bookRep{}
	code := igts.call(
		http.MethodGet, "/books/"+book.ID.String(), nil, &fetched,
	)
	igts.Equal(200, code)
	igts.Equal(book, fetched)

	updated := bookRep{}
	code = igts.call(
		http.MethodPut, "/books/"+book.ID.String(),
		jsonBody(igts, map[string]string{
			"title":  "Dom Casmurro (2nd ed.)",
			"author": "M. de Assis",
		}),
		&updated,
	)
	igts.Equal(200, code)
	igts.Equal("Dom Casmurro (2nd ed.)", updated.Title)
	igts.Equal("M. de Assis", updated.Author)
	igts.Equal(book.Isbn, updated.Isbn, "isbn must stay immutable")

	code = igts.call(
		http.MethodDelete, "/books/"+book.ID.String(), nil, nil,
	)
	igts.Equal(204, code)

	res := errRep{}
	code = igts.call(
		http.MethodGet, "/books/"+book.ID.String(), nil, &res,
	)
	igts.Equal(404, code)
	igts.Equal("book not found", res.Detail)
}

func (igts *IntegrationGinTestSuite) TestBooksDuplicateIsbn() {
	igts.registerBook("First", "Author", "978-85-333-0001-1")

	res := errRep{}
	code := igts.call(
		http.MethodPost, "/books",
		jsonBody(igts, map[string]string{
			"title":  "Second",
			"author": "Other",
			"isbn":   "978-85-333-0001-1",
		}),
		&res,
	)
	igts.Equal(409, code)
	igts.Equal("isbn is already registered", res.Detail)
}

func (igts *IntegrationGinTestSuite) TestBooksBadRequest() {
	for _, tc := range []struct {
		name   string
		body   map[string]string
		fields []string
	}{
		{
			name:   "empty body",
			body:   map[string]string{},
			fields: []string{"Title", "Author", "Isbn"},
		},
		{
			name: "missing isbn",
			body: map[string]string{
				"title":  "T",
				"author": "A",
			},
			fields: []string{"Isbn"},
		},
	} {
		igts.Run(tc.name, func() {
			res := map[string][]string{}
			code := igts.call(
				http.MethodPost, "/books",
				jsonBody(igts, tc.body), &res,
			)
			igts.Equal(400, code)
			for _, f := range tc.fields {
				if igts.Contains(res, f) {
					igts.Len(res[f], 1)
					igts.Contains(
						res[f][0], "failed on the 'required' tag",
					)
				}
			}
		})
	}

	res := errRep{}
	code := igts.call(
		http.MethodGet, "/books/not-a-uuid", nil, &res,
	)
	igts.Equal(400, code)
	igts.Equal("Path param bid is not UUID.", res.Detail)
}

func (igts *IntegrationGinTestSuite) TestBooksPaging() {
	igts.registerBook("Vidas Secas", "Graciliano Ramos", "pg-0001")
	igts.registerBook("Angustia", "Graciliano Ramos", "pg-0002")
	igts.registerBook("Caetes", "Graciliano Ramos", "pg-0003")

	page := struct {
		Content []bookRep `json:"content"`
		Total   int64     `json:"total"`
	}{}
	code := igts.call(
		http.MethodGet,
		"/books?author=graciliano&size=2&page=0",
		nil, &page,
	)
	igts.Equal(200, code)
	igts.Equal(int64(3), page.Total)
	igts.Len(page.Content, 2)

	code = igts.call(
		http.MethodGet,
		"/books?author=graciliano&size=2&page=1",
		nil, &page,
	)
	igts.Equal(200, code)
	igts.Equal(int64(3), page.Total)
	igts.Len(page.Content, 1)

	res := errRep{}
	code = igts.call(
		http.MethodGet, "/books?page=minus-one", nil, &res,
	)
	igts.Equal(400, code)
	igts.Contains(res.Detail, "Query param page")
}

func (igts *IntegrationGinTestSuite) TestLoansLifecycle() {
	book := igts.registerBook("Loaned", "Author", "ln-0001")

	loan := igts.createLoan("ln-0001", "Maria", "maria@example.com")
	igts.Equal(book.ID, loan.BookID)
	igts.Equal(time.Now().Format(time.DateOnly), loan.LoanDate)
	igts.Nil(loan.Returned, "no return decision is recorded yet")

	// the same book may not be loaned twice
	res := errRep{}
	code := igts.call(
		http.MethodPost, "/loans",
		jsonBody(igts, map[string]string{
			"isbn":           "ln-0001",
			"customer":       "Joao",
			"customer_email": "joao@example.com",
		}),
		&res,
	)
	igts.Equal(409, code)
	igts.Equal("book already loaned", res.Detail)

	returned := loanRep{}
	code = igts.call(
		http.MethodPatch, "/loans/"+loan.ID.String(),
		jsonBody(igts, map[string]bool{"returned": true}),
		&returned,
	)
	igts.Equal(200, code)
	if igts.NotNil(returned.Returned) {
		igts.True(*returned.Returned)
	}

	// and may be loaned again after the return
	igts.createLoan("ln-0001", "Joao", "joao@example.com")

	// while loans exist, the book may not be deleted
	code = igts.call(
		http.MethodDelete, "/books/"+book.ID.String(), nil, &res,
	)
	igts.Equal(409, code)
	igts.Equal("book is referenced by loans", res.Detail)
}

// TestBooksIsbnIndex drives the books repository directly, the way a
// transaction which raced past the ExistsByIsbn pre-check would, and
// expects the books_isbn_key index violation to surface as the
// duplicate isbn business error.
func (igts *IntegrationGinTestSuite) TestBooksIsbnIndex() {
	igts.registerBook("Held Isbn", "Author", "ix-0001")

	err := igts.Pool.Conn(
		igts.Ctx, func(ctx context.Context, c repo.Conn) error {
			_, err := booksrp.New().Conn(c).Save(ctx, &model.Book{
				Title:  "Raced Copy",
				Author: "Other",
				Isbn:   "ix-0001",
			})
			return err
		},
	)
	igts.Require().ErrorIs(err, model.ErrDuplicateIsbn)
	var ce *cerr.Error
	igts.Require().ErrorAs(err, &ce)
	igts.Equal(409, ce.HTTPStatusCode)
}

// TestLoansOutstandingIndex drives the loans repository directly, the
// way a transaction which raced past the ExistsOutstandingForBook
// pre-check would, and expects the loans_outstanding_key partial index
// violation to surface as the already-loaned business error.
func (igts *IntegrationGinTestSuite) TestLoansOutstandingIndex() {
	book := igts.registerBook("Held Book", "Author", "ix-0002")
	first := igts.createLoan("ix-0002", "Maria", "maria@example.com")

	saveDirectly := func(customer, email string) error {
		return igts.Pool.Conn(
			igts.Ctx, func(ctx context.Context, c repo.Conn) error {
				_, err := loansrp.New().Conn(c).Save(ctx, &model.Loan{
					BookID:        book.ID,
					Customer:      customer,
					CustomerEmail: email,
					LoanDate:      time.Now(),
				})
				return err
			},
		)
	}

	err := saveDirectly("Joao", "joao@example.com")
	igts.Require().ErrorIs(err, model.ErrBookAlreadyLoaned)
	var ce *cerr.Error
	igts.Require().ErrorAs(err, &ce)
	igts.Equal(409, ce.HTTPStatusCode)

	// a returned loan frees the index slot, so the save succeeds
	code := igts.call(
		http.MethodPatch, "/loans/"+first.ID.String(),
		jsonBody(igts, map[string]bool{"returned": true}), nil,
	)
	igts.Require().Equal(200, code)
	igts.NoError(saveDirectly("Joao", "joao@example.com"))
}

func (igts *IntegrationGinTestSuite) TestLoansNotFound() {
	res := errRep{}
	code := igts.call(
		http.MethodPost, "/loans",
		jsonBody(igts, map[string]string{
			"isbn":           "does-not-exist",
			"customer":       "Maria",
			"customer_email": "maria@example.com",
		}),
		&res,
	)
	igts.Equal(404, code)
	igts.Equal("book not found", res.Detail)

	code = igts.call(
		http.MethodGet, "/loans/"+uuid.NewString(), nil, &res,
	)
	igts.Equal(404, code)
	igts.Equal("loan not found", res.Detail)

	code = igts.call(
		http.MethodPatch, "/loans/"+uuid.NewString(),
		jsonBody(igts, map[string]bool{"returned": true}),
		&res,
	)
	igts.Equal(404, code)
	igts.Equal("loan not found", res.Detail)
}

func (igts *IntegrationGinTestSuite) TestLoansBadRequest() {
	res := map[string][]string{}
	code := igts.call(
		http.MethodPost, "/loans",
		jsonBody(igts, map[string]string{
			"isbn":           "bad-email",
			"customer":       "Maria",
			"customer_email": "not-an-email",
		}),
		&res,
	)
	igts.Equal(400, code)
	if igts.Contains(res, "CustomerEmail") {
		igts.Contains(res["CustomerEmail"][0], "failed on the 'email' tag")
	}
}

func (igts *IntegrationGinTestSuite) TestLoansFind() {
	igts.registerBook("Found", "Author", "fd-0001")
	loan := igts.createLoan("fd-0001", "Carla", "carla@example.com")

	page := struct {
		Content []loanRep `json:"content"`
		Total   int64     `json:"total"`
	}{}
	code := igts.call(
		http.MethodGet, "/loans?isbn=fd-0001", nil, &page,
	)
	igts.Equal(200, code)
	igts.Equal(int64(1), page.Total)
	if igts.Len(page.Content, 1) {
		igts.Equal(loan.ID, page.Content[0].ID)
	}

	code = igts.call(
		http.MethodGet, "/loans?customer=Carla", nil, &page,
	)
	igts.Equal(200, code)
	igts.Equal(int64(1), page.Total)
}

func (igts *IntegrationGinTestSuite) TestLoansByBook() {
	book := igts.registerBook("Tracked", "Author", "bb-0001")
	loan := igts.createLoan("bb-0001", "Pedro", "pedro@example.com")

	page := struct {
		Content []loanRep `json:"content"`
		Total   int64     `json:"total"`
	}{}
	code := igts.call(
		http.MethodGet,
		"/books/"+book.ID.String()+"/loans",
		nil, &page,
	)
	igts.Equal(200, code)
	igts.Equal(int64(1), page.Total)
	if igts.Len(page.Content, 1) {
		igts.Equal(loan.ID, page.Content[0].ID)
	}

	res := errRep{}
	code = igts.call(
		http.MethodGet,
		"/books/"+uuid.NewString()+"/loans",
		nil, &res,
	)
	igts.Equal(404, code)
	igts.Equal("book not found", res.Detail)
}
