// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package overdueuc

import (
	"errors"
	"fmt"
)

// Option is a functional option for the overdue use case.
type Option func(uc *UseCase) error

// WithGraceDays option configures an overdue UseCase instance to
// consider loans overdue after the given number of days instead of
// the DefaultGraceDays. This option may be passed to the New()
// function.
func WithGraceDays(days int) Option {
	return func(uc *UseCase) error {
		if days <= 0 {
			return fmt.Errorf("grace days (%d) is not positive", days)
		}
		if uc.graceDays != 0 {
			return errors.New("grace days is already configured")
		}
		uc.graceDays = days
		return nil
	}
}

// WithMessage option configures the plain text body which is sent to
// the overdue loan customers. This option may be passed to the New()
// function.
func WithMessage(message string) Option {
	return func(uc *UseCase) error {
		if message == "" {
			return errors.New("message is empty")
		}
		if uc.message != "" {
			return errors.New("message is already configured")
		}
		uc.message = message
		return nil
	}
}

// WithNotifyEmpty option configures an overdue UseCase instance to
// invoke the notifier even when a scan finds no overdue loan, with an
// empty recipient batch. By default an empty scan skips the notifier.
// This option may be passed to the New() function.
func WithNotifyEmpty() Option {
	return func(uc *UseCase) error {
		if uc.notifyEmpty {
			return errors.New("notify-empty is already configured")
		}
		uc.notifyEmpty = true
		return nil
	}
}
