// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package sched drives the recurring overdue scan with a cron
// schedule using the robfig/cron library. All timing lives in this
// adapter; the core use cases expose plain callable operations and
// own no clocks or timers. A failed run is logged and dropped, so it
// can never block or cancel the next scheduled run.
package sched

import (
	"context"
	"fmt"
	"time"

	"github.com/analluvias/library-api/pkg/core/log"
	"github.com/robfig/cron/v3"
)

// Job is one schedulable unit of work. The overdue use case Scan
// method matches this signature.
type Job func(ctx context.Context, asOf time.Time) error

// Scheduler runs one job on a fixed recurring cron schedule.
type Scheduler struct {
	cron *cron.Cron
}

// New instantiates a scheduler which runs the given job according to
// the spec cron expression, e.g. "0 0 * * *" for once per day at
// midnight. The ctx is passed through to every job invocation.
// Invalid cron expressions are rejected here, before any run.
func New(ctx context.Context, spec string, job Job) (*Scheduler, error) {
	c := cron.New()
	_, err := c.AddFunc(spec, func() {
		asOf := time.Now()
		if err := job(ctx, asOf); err != nil {
			log.Error(
				ctx, "scheduled overdue scan failed",
				log.Err("error", err),
			)
		}
	})
	if err != nil {
		return nil, fmt.Errorf("parsing cron spec %q: %w", spec, err)
	}
	return &Scheduler{cron: c}, nil
}

// Start launches the schedule in its own goroutine.
func (s *Scheduler) Start() {
	s.cron.Start()
}

// Stop cancels the schedule and waits for an in-flight run, if any,
// to complete.
func (s *Scheduler) Stop() {
	<-s.cron.Stop().Done()
}
