// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package model

import (
	"time"

	"github.com/google/uuid"
)

// Loan models a lending record which ties one book to one customer.
// The referenced book keeps existing independently of its loans, so
// BookID is a plain reference and not an ownership relation.
//
// The Returned flag is deliberately a tri-state value. A nil pointer
// means that no return decision was recorded yet, false means that the
// loan was explicitly marked as not returned, and true means that the
// book came back. Both nil and false count as outstanding; only true
// ends the outstanding state. The distinction between nil and false is
// preserved in storage because the API allows writing false explicitly.
type Loan struct {
	ID            uuid.UUID // opaque identity, assigned on creation
	BookID        uuid.UUID // reference to the loaned book
	Customer      string    // non-empty customer name
	CustomerEmail string    // contact address for overdue notifications
	LoanDate      time.Time // date the loan was created, immutable
	Returned      *bool     // nil/false = outstanding, true = returned
}

// Outstanding reports whether the loan still holds the book, i.e. the
// Returned flag is either unset or explicitly false.
func (l *Loan) Outstanding() bool {
	return l.Returned == nil || !*l.Returned
}

// DateOf truncates the given instant to its calendar date in UTC.
// Loan dates carry date precision only, so overdue computations are
// not sensitive to the time of day a loan was created at.
func DateOf(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// OverdueAsOf derives the overdue sub-state of an outstanding loan.
// A loan is overdue when its age in days, measured from LoanDate to
// asOf, is greater than or equal to graceDays. The boundary is
// inclusive: a loan created exactly graceDays ago is already overdue.
// Returned loans are never overdue. This state is recomputed on every
// scan and never persisted.
func (l *Loan) OverdueAsOf(asOf time.Time, graceDays int) bool {
	if !l.Outstanding() {
		return false
	}
	cutoff := DateOf(asOf).AddDate(0, 0, -graceDays)
	return !DateOf(l.LoanDate).After(cutoff)
}
