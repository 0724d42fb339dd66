// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package overdueuc contains the overdue UseCase which discovers the
// outstanding loans that passed the grace period and dispatches one
// notification batch for them. The use case owns no timing: it exposes
// plain callable operations and is driven by an external scheduler
// (see pkg/adapter/sched) or invoked on demand.
package overdueuc

import (
	"context"
	"fmt"
	"time"

	"github.com/analluvias/library-api/pkg/core/cerr"
	"github.com/analluvias/library-api/pkg/core/log"
	"github.com/analluvias/library-api/pkg/core/model"
	"github.com/analluvias/library-api/pkg/core/notifier"
	"github.com/analluvias/library-api/pkg/core/repo"
)

// DefaultGraceDays is the number of days a book may be held before
// its loan counts as overdue, unless configured otherwise.
const DefaultGraceDays = 4

// UseCase represents the overdue use case. It holds a database
// connection pool, the loans repository instance, and the notifier
// which receives the overdue batches.
type UseCase struct {
	pool     repo.Pool
	loansrp  repo.Loans
	notifier notifier.Notifier

	graceDays   int
	message     string
	notifyEmpty bool
}

// New instantiates an overdue use case.
// Required parameters are passed individually, so caller has to
// provision them and whenever they change, caller will notice and fix
// them due to a compilation error.
// Optional parameters are passed as a series of functional options
// in order to facilitate their validation and flexibility.
func New(p repo.Pool, l repo.Loans, n notifier.Notifier, opts ...Option) (*UseCase, error) {
	uc := &UseCase{pool: p, loansrp: l, notifier: n}
	for _, opt := range opts {
		if err := opt(uc); err != nil {
			return nil, cerr.BadRequest(err)
		}
	}
	// now, deal with defaults
	if uc.graceDays == 0 {
		uc.graceDays = DefaultGraceDays
	}
	if uc.message == "" {
		uc.message = "You have an overdue book loan. Please return the book."
	}
	return uc, nil
}

// FindOverdue use case returns all loans which are overdue as of the
// given date: outstanding loans whose loan date is at least graceDays
// old. The boundary is inclusive, so a loan created exactly graceDays
// before asOf is already overdue. This is a pure read with no state
// mutation; results are deterministic given the stored loans and asOf.
func (overdue *UseCase) FindOverdue(ctx context.Context, asOf time.Time) (loans []model.Loan, err error) {
	cutoff := model.DateOf(asOf).AddDate(0, 0, -overdue.graceDays)
	err = overdue.pool.Conn(ctx, func(ctx context.Context, c repo.Conn) error {
		q := overdue.loansrp.Conn(c)
		loans, err = q.FindOutstandingOlderThan(ctx, cutoff)
		return err
	})
	if err != nil {
		loans = nil
	}
	return
}

// Scan use case runs one complete overdue cycle: it finds the loans
// which are overdue as of the given date and dispatches a single
// notification with the configured message body to the contact
// address of every overdue loan. Addresses keep the loan order and
// are not deduplicated, so a customer holding two overdue books
// receives the message twice. When no loan is overdue, the notifier
// is skipped unless the use case was configured to notify on empty
// batches as well. A notifier failure is returned to the caller and
// is not retried within the same run.
func (overdue *UseCase) Scan(ctx context.Context, asOf time.Time) error {
	loans, err := overdue.FindOverdue(ctx, asOf)
	if err != nil {
		return fmt.Errorf("finding overdue loans: %w", err)
	}
	recipients := make([]string, 0, len(loans))
	for i := range loans {
		recipients = append(recipients, loans[i].CustomerEmail)
	}
	if len(recipients) == 0 && !overdue.notifyEmpty {
		log.Debug(ctx, "no overdue loans, skipping notification")
		return nil
	}
	log.Info(
		ctx, "dispatching overdue notifications",
		log.Count("recipients", len(recipients)),
	)
	if err := overdue.notifier.Send(ctx, overdue.message, recipients); err != nil {
		return fmt.Errorf("sending notifications: %w", err)
	}
	return nil
}
