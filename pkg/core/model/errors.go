// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package model

import "errors"

// Business error kinds which may be produced by the lending core.
// All of them are recoverable-by-caller conditions, not defects.
// They are usually wrapped by a cerr.Error instance which attaches the
// HTTP status code that the REST layer should serialize, while callers
// can keep matching the kind itself with errors.Is irrespective of any
// wrapping. An error should be devised with this assumption that the
// caller is aware of the function which is returning that error in
// addition to its arguments, hence, these errors carry no parameters.
var (
	// ErrBookNotFound indicates that no book exists with the given
	// identity or isbn.
	ErrBookNotFound = errors.New("book not found")

	// ErrLoanNotFound indicates that no loan exists with the given
	// identity.
	ErrLoanNotFound = errors.New("loan not found")

	// ErrDuplicateIsbn indicates that another book is already
	// registered with the same isbn.
	ErrDuplicateIsbn = errors.New("isbn is already registered")

	// ErrBookAlreadyLoaned indicates that the book already has an
	// outstanding loan, so a second loan may not be created before
	// the first one is returned.
	ErrBookAlreadyLoaned = errors.New("book already loaned")

	// ErrBookReferenced indicates that the book may not be deleted
	// because outstanding or historical loans still reference it.
	ErrBookReferenced = errors.New("book is referenced by loans")
)
