// SPDX-FileCopyrightText: Winni Neessen <wn@neessen.dev>
//
// SPDX-License-Identifier: MIT

package main

import (
	"time"

	"github.com/spf13/cobra"
)

func newCacheCommand(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Inspect and maintain the address cache",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "sweep",
		Short: "Remove cache entries older than the configured TTL",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			deleted, err := a.service.SweepCache(cmd.Context())
			if err != nil {
				return err
			}
			if a.jsonOutput {
				return a.printJSON(map[string]int64{"deleted": deleted})
			}
			return a.presenter.Swept(deleted)
		},
	}, &cobra.Command{
		Use:   "list",
		Short: "List all cached addresses",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			rows, err := a.service.CachedRows(cmd.Context())
			if err != nil {
				return err
			}
			if a.jsonOutput {
				return a.printJSON(rows)
			}
			return a.presenter.Rows(rows, time.Now())
		},
	})
	return cmd
}
