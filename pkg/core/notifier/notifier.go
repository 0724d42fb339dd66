// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package notifier specifies the outbound notification port of the
// lending core. The core hands a plain text body and a batch of
// recipient addresses to an implementation and does not care how the
// message is delivered; see pkg/adapter/mail for the SMTP realization.
package notifier

import "context"

// Notifier delivers one message body to a batch of recipients.
// Send is invoked once per overdue scan with the complete batch.
// Delivery is fire-and-forget from the core's perspective: a returned
// error is reported to the caller for logging, but the core neither
// retries nor tracks delivery per recipient.
type Notifier interface {
	Send(ctx context.Context, body string, recipients []string) error
}
