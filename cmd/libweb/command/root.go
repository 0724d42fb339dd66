// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package command provides the root and sub-commands for the library
// lending web project. Commands are organized using the cobra library.
// The root command starts the web server itself, together with the
// recurring overdue scan, while the "overdue-scan" sub-command runs
// one scan cycle on demand and exits.
//
//	./libweb [-c /path/of/main/config.yaml]          # start web server
//	./libweb overdue-scan [-c /path/of/main/config.yaml]
package command

import (
	"context"
	"fmt"
	"os"

	"github.com/analluvias/library-api/pkg/adapter/config"
	"github.com/analluvias/library-api/pkg/adapter/db/postgres/loansrp"
	"github.com/analluvias/library-api/pkg/adapter/restful/gin/routes"
	"github.com/analluvias/library-api/pkg/adapter/sched"
	"github.com/analluvias/library-api/pkg/core/log"
	"github.com/analluvias/library-api/pkg/core/repo"
	"github.com/analluvias/library-api/pkg/core/usecase/overdueuc"
	"github.com/spf13/cobra"
)

var cfgPath string

var rootCmd = &cobra.Command{
	Use:   "libweb",
	Short: "A library catalog and loan lifecycle web service",
	Long: `A library catalog and loan lifecycle web service.
It exposes REST APIs for registering books, searching the catalog,
creating loans, and recording book returns, enforcing that a book may
have at most one outstanding loan at any time. Independent of the
request traffic, a recurring schedule scans for loans which passed
the grace period without being returned and emails their customers
one notification batch per scan.`,
	RunE: startWebServer,
}

func startWebServer(_ *cobra.Command, _ []string) error {
	ctx := context.Background()
	c, err := config.Load(cfgPath)
	if err != nil {
		return fmt.Errorf("config.Load(%q): %w", cfgPath, err)
	}
	p, err := c.ConnectionPool(ctx)
	if err != nil {
		return fmt.Errorf("creating DB pool: %w", err)
	}
	defer p.Close()
	e := c.Gin.NewEngine()
	if err = routes.Register(e, p); err != nil {
		return fmt.Errorf("registering routes: %w", err)
	}
	s, err := newOverdueScheduler(ctx, c, p)
	if err != nil {
		return fmt.Errorf("creating overdue scheduler: %w", err)
	}
	if s != nil {
		s.Start()
		defer s.Stop()
	}
	if err = e.Run(); err != nil {
		return fmt.Errorf("running Gin engine: %w", err)
	}
	return nil
}

// newOverdueScheduler wires the overdue use case to the cron adapter.
// Without a configured SMTP host there is no notifier to dispatch to,
// so the recurring scan is disabled with a warning instead of failing
// the whole server.
func newOverdueScheduler(
	ctx context.Context, c *config.Config, p repo.Pool,
) (*sched.Scheduler, error) {
	if c.Mail.Host == "" {
		log.Warn(ctx, "no SMTP host configured, overdue scan disabled")
		return nil, nil
	}
	uc, err := newOverdueUseCase(c, p)
	if err != nil {
		return nil, err
	}
	return sched.New(ctx, c.Overdue.Cron, uc.Scan)
}

func newOverdueUseCase(
	c *config.Config, p repo.Pool,
) (*overdueuc.UseCase, error) {
	n, err := c.Mail.NewNotifier()
	if err != nil {
		return nil, fmt.Errorf("creating SMTP notifier: %w", err)
	}
	uc, err := overdueuc.New(
		p, loansrp.New(), n, c.Overdue.UseCaseOptions()...,
	)
	if err != nil {
		return nil, fmt.Errorf("creating overdue use case: %w", err)
	}
	return uc, nil
}

// Execute runs the rootCmd which in turn parses CLI arguments and
// flags and runs the most specific cobra command. The exit code may
// be a boolean (zero for success and non-zero for failure) or may be
// chosen based on the error condition (if it is desired to report
// several error conditions in the CLI of this program).
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(fixConfigPath)
	rootCmd.PersistentFlags().StringVarP(
		&cfgPath, "config", "c", "", "config file path",
	)
}

// fixConfigPath ensures that cfgPath is set respectively by either the
// CLI args, the CONFIG_FILE environment variable, or its default value.
// By the way, default value is not necessarily a single path and may
// check several paths sequentially and take the highest priority one
// among the existing paths. For example, a user-specific path may take
// precedence over a file in /etc which is selected over a file in /usr.
func fixConfigPath() {
	if cfgPath != "" {
		return
	}
	var found bool
	if cfgPath, found = os.LookupEnv("CONFIG_FILE"); !found {
		// the default path should usually be in the /etc directory
		cfgPath = "configs/sample-config.yaml"
	}
}
