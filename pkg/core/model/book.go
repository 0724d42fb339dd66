// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package model defines the inner most layer of the Clean Architecture
// containing the business-level models, also called entities or domain.
// This layer may not depend on outter layers, while all other layers
// may depend on it.
package model

import "github.com/google/uuid"

// Book models a registered catalog entry which may be persisted in a
// database. The ID is assigned by the Books repository when a book is
// saved for the first time. The Isbn is globally unique among all
// registered books; that uniqueness is enforced by the storage layer
// (see pkg/adapter/db/postgres/booksrp) and not by this model.
// Title and Author may be updated after registration, while Isbn is
// immutable once the book is saved.
type Book struct {
	ID     uuid.UUID // opaque identity, assigned on creation
	Title  string    // title of the book
	Author string    // author of the book
	Isbn   string    // unique, non-empty registration number
}
