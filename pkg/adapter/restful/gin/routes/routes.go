// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package routes contains all resource packages and facilitates
// instantiation and registration of all repo, use case, and resource
// packages.
package routes

import (
	"fmt"

	"github.com/analluvias/library-api/pkg/adapter/db/postgres/booksrp"
	"github.com/analluvias/library-api/pkg/adapter/db/postgres/loansrp"
	"github.com/analluvias/library-api/pkg/adapter/restful/gin/booksrs"
	"github.com/analluvias/library-api/pkg/adapter/restful/gin/loansrs"
	"github.com/analluvias/library-api/pkg/core/repo"
	"github.com/analluvias/library-api/pkg/core/usecase/booksuc"
	"github.com/analluvias/library-api/pkg/core/usecase/loansuc"
	"github.com/gin-gonic/gin"
)

// Register instantiates the books and loans repositories and use
// cases. The p connections pool is passed to the use case instances,
// so they may acquire/release connections and transactions on demand.
// These connections/transactions will be passed to the repositories
// later in order to run relevant queries on them and accomplish those
// use cases. Each use case package is named like loansuc and each
// repository package is named like loansrp.
// Register instantiates a series of "resource" structs, from packages
// which are named like loansrs, in order to adapt the use cases
// interfaces with the REST APIs. These resources are registered as
// request handlers using the e gin-gonic engine instance.
// Possible errors will be returned after possible wrapping.
func Register(e *gin.Engine, p repo.Pool) error {
	booksRepo := booksrp.New()
	loansRepo := loansrp.New()

	booksUseCase := booksuc.New(p, booksRepo)
	loansUseCase, err := loansuc.New(p, booksRepo, loansRepo)
	if err != nil {
		return fmt.Errorf("creating loans use case: %w", err)
	}
	r := e.Group("/api/libweb/v1")
	booksrs.Register(r, booksUseCase, loansUseCase)
	loansrs.Register(r, loansUseCase)
	return nil
}
