// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package booksrs realizes the books resource, allowing the catalog
// manipulation REST APIs to be accepted and delegated to the books
// use cases respectively.
package booksrs

import (
	"log/slog"
	"net/http"

	"github.com/analluvias/library-api/pkg/adapter/restful/gin/loansrs"
	"github.com/analluvias/library-api/pkg/adapter/restful/gin/serdser"
	"github.com/analluvias/library-api/pkg/core/log"
	"github.com/analluvias/library-api/pkg/core/usecase/booksuc"
	"github.com/analluvias/library-api/pkg/core/usecase/loansuc"
	"github.com/gin-gonic/gin"
)

type resource struct {
	books *booksuc.UseCase
	loans *loansuc.UseCase
}

// Register instantiates a resource adapting the books use case
// instance with the relevant REST APIs including:
//  1. POST request to /api/libweb/v1/books
//     in order to register a new book,
//  2. GET/PUT/DELETE requests to /api/libweb/v1/books/:bid
//     in order to fetch, update, or delete one book,
//  3. GET request to /api/libweb/v1/books
//     in order to search the catalog one page at a time,
//  4. GET request to /api/libweb/v1/books/:bid/loans
//     in order to list the loans of one book.
func Register(r *gin.RouterGroup, books *booksuc.UseCase, loans *loansuc.UseCase) {
	rs := &resource{books: books, loans: loans}
	r.POST("books", rs.CreateBook)
	r.GET("books", rs.FindBooks)
	r.GET("books/:bid", rs.GetBook)
	r.PUT("books/:bid", rs.UpdateBook)
	r.DELETE("books/:bid", rs.DeleteBook)
	r.GET("books/:bid/loans", rs.LoansByBook)
}

func (rs *resource) CreateBook(c *gin.Context) {
	req := rs.DserBookReq(c)
	if req == nil {
		return
	}
	log.Info(c, "registering book", slog.String("isbn", req.Isbn))
	book, err := rs.books.Register(c, req.Title, req.Author, req.Isbn)
	if err != nil {
		serdser.SerErr(c, err)
		return
	}
	c.JSON(http.StatusCreated, serBook(book))
}

func (rs *resource) GetBook(c *gin.Context) {
	id, ok := dserBookID(c)
	if !ok {
		return
	}
	book, err := rs.books.Get(c, id)
	if err != nil {
		serdser.SerErr(c, err)
		return
	}
	c.JSON(http.StatusOK, serBook(book))
}

func (rs *resource) UpdateBook(c *gin.Context) {
	id, ok := dserBookID(c)
	if !ok {
		return
	}
	req := rs.DserBookUpdateReq(c)
	if req == nil {
		return
	}
	log.Info(c, "updating book", log.ID("id", id))
	book, err := rs.books.Update(c, id, req.Title, req.Author)
	if err != nil {
		serdser.SerErr(c, err)
		return
	}
	c.JSON(http.StatusOK, serBook(book))
}

func (rs *resource) DeleteBook(c *gin.Context) {
	id, ok := dserBookID(c)
	if !ok {
		return
	}
	log.Info(c, "deleting book", log.ID("id", id))
	if err := rs.books.Delete(c, id); err != nil {
		serdser.SerErr(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (rs *resource) FindBooks(c *gin.Context) {
	limit, offset, ok := serdser.DserPage(c)
	if !ok {
		return
	}
	page, err := rs.books.Find(
		c, c.Query("title"), c.Query("author"), limit, offset,
	)
	if err != nil {
		serdser.SerErr(c, err)
		return
	}
	c.JSON(http.StatusOK, serBooksPage(page))
}

func (rs *resource) LoansByBook(c *gin.Context) {
	id, ok := dserBookID(c)
	if !ok {
		return
	}
	limit, offset, ok := serdser.DserPage(c)
	if !ok {
		return
	}
	page, err := rs.loans.ByBook(c, id, limit, offset)
	if err != nil {
		serdser.SerErr(c, err)
		return
	}
	c.JSON(http.StatusOK, loansrs.SerLoansPage(page))
}
