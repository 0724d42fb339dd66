// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package mail realizes the notifier port over SMTP using the gomail
// library. One message is composed per Send call, addressing the
// complete recipient batch at once.
package mail

import (
	"context"
	"errors"
	"fmt"

	gomail "gopkg.in/gomail.v2"
)

// Notifier delivers plain text messages through one SMTP server.
// It implements the notifier.Notifier interface and is safe for
// concurrent use since every Send call dials a fresh connection.
type Notifier struct {
	dialer  *gomail.Dialer
	from    string
	subject string
}

// New instantiates an SMTP notifier which connects to the given host
// and port, authenticating with username and password when they are
// non-empty. Messages are sent from the given address with the given
// subject line.
func New(host string, port int, username, password, from, subject string) (*Notifier, error) {
	if host == "" || from == "" {
		return nil, errors.New("smtp host and from address are required")
	}
	return &Notifier{
		dialer:  gomail.NewDialer(host, port, username, password),
		from:    from,
		subject: subject,
	}, nil
}

// Send composes one message with the given plain text body addressed
// to all recipients and delivers it in a single SMTP session.
// An empty recipient batch is reported as an error by the SMTP
// protocol itself; callers which do not want that behavior should
// short-circuit before calling Send.
func (n *Notifier) Send(ctx context.Context, body string, recipients []string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m := gomail.NewMessage()
	m.SetHeader("From", n.from)
	m.SetHeader("To", recipients...)
	m.SetHeader("Subject", n.subject)
	m.SetBody("text/plain", body)
	if err := n.dialer.DialAndSend(m); err != nil {
		return fmt.Errorf("smtp send: %w", err)
	}
	return nil
}
