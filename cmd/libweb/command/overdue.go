// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package command

import (
	"context"
	"fmt"
	"time"

	"github.com/analluvias/library-api/pkg/adapter/config"
	"github.com/spf13/cobra"
)

var overdueScanCmd = &cobra.Command{
	Use:   "overdue-scan",
	Short: "Run one overdue scan cycle and exit",
	Long: `Run one overdue scan cycle and exit.
It finds the loans which are overdue as of today and dispatches one
notification batch for them, exactly as a scheduled run would, which
makes the recurring behavior observable on demand.`,
	RunE: runOverdueScan,
}

func runOverdueScan(_ *cobra.Command, _ []string) error {
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
	uc, err := newOverdueUseCase(c, p)
	if err != nil {
		return err
	}
	if err := uc.Scan(ctx, time.Now()); err != nil {
		return fmt.Errorf("scanning overdue loans: %w", err)
	}
	return nil
}

func init() {
	rootCmd.AddCommand(overdueScanCmd)
}
