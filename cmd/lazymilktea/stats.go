// lazy-milktea - Android bugreport/logcat indexing and query engine
// Copyright 2026 leaf76
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/leaf76/lazy-milktea

package main

import (
	"github.com/spf13/cobra"

	"github.com/leaf76/lazy-milktea/internal/lazymilktea"
)

var statsFilters filterFlags

var statsCmd = &cobra.Command{
	Use:   "stats <path>",
	Short: "Print aggregate statistics for an Index Store",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		stats, err := lazymilktea.GetStats(cmd.Context(), args[0], statsFilters.toLogFilters())
		if err != nil {
			return err
		}
		return printJSON(stats)
	},
}

func init() {
	statsFilters.register(statsCmd)
	rootCmd.AddCommand(statsCmd)
}
