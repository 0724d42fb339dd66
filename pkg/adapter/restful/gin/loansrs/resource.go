// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package loansrs realizes the loans resource, allowing the loan
// lifecycle REST APIs to be accepted and delegated to the loans
// use cases respectively.
package loansrs

import (
	"log/slog"
	"net/http"

	"github.com/analluvias/library-api/pkg/adapter/restful/gin/serdser"
	"github.com/analluvias/library-api/pkg/core/log"
	"github.com/analluvias/library-api/pkg/core/usecase/loansuc"
	"github.com/gin-gonic/gin"
)

type resource struct {
	loans *loansuc.UseCase
}

// Register instantiates a resource adapting the loans use case
// instance with the relevant REST APIs including:
//  1. POST request to /api/libweb/v1/loans
//     in order to create a loan for a registered book,
//  2. PATCH request to /api/libweb/v1/loans/:lid
//     in order to record the returned flag of a loan,
//  3. GET request to /api/libweb/v1/loans/:lid
//     in order to fetch one loan,
//  4. GET request to /api/libweb/v1/loans
//     in order to list loans by book isbn or customer name.
func Register(r *gin.RouterGroup, loans *loansuc.UseCase) {
	rs := &resource{loans: loans}
	r.POST("loans", rs.CreateLoan)
	r.GET("loans", rs.FindLoans)
	r.GET("loans/:lid", rs.GetLoan)
	r.PATCH("loans/:lid", rs.ReturnLoan)
}

func (rs *resource) CreateLoan(c *gin.Context) {
	req := rs.DserLoanCreateReq(c)
	if req == nil {
		return
	}
	log.Info(c, "creating loan", slog.String("isbn", req.Isbn))
	loan, err := rs.loans.Create(
		c, req.Isbn, req.Customer, req.CustomerEmail,
	)
	if err != nil {
		serdser.SerErr(c, err)
		return
	}
	c.JSON(http.StatusCreated, serLoan(loan))
}

func (rs *resource) GetLoan(c *gin.Context) {
	id, ok := dserLoanID(c)
	if !ok {
		return
	}
	loan, err := rs.loans.Get(c, id)
	if err != nil {
		serdser.SerErr(c, err)
		return
	}
	c.JSON(http.StatusOK, serLoan(loan))
}

func (rs *resource) ReturnLoan(c *gin.Context) {
	id, ok := dserLoanID(c)
	if !ok {
		return
	}
	req := rs.DserLoanReturnReq(c)
	if req == nil {
		return
	}
	log.Info(
		c, "recording loan return flag",
		log.ID("id", id), slog.Bool("returned", req.Returned),
	)
	loan, err := rs.loans.MarkReturned(c, id, req.Returned)
	if err != nil {
		serdser.SerErr(c, err)
		return
	}
	c.JSON(http.StatusOK, serLoan(loan))
}

func (rs *resource) FindLoans(c *gin.Context) {
	limit, offset, ok := serdser.DserPage(c)
	if !ok {
		return
	}
	page, err := rs.loans.Find(
		c, c.Query("isbn"), c.Query("customer"), limit, offset,
	)
	if err != nil {
		serdser.SerErr(c, err)
		return
	}
	c.JSON(http.StatusOK, SerLoansPage(page))
}
