// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package model

// Page holds one page of query results together with the total number
// of matching records, so callers can compute the number of pages.
type Page[T any] struct {
	Content []T   // records of the requested page, in query order
	Total   int64 // total matching records over all pages
}
