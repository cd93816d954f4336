// lazy-milktea - Android bugreport/logcat indexing and query engine
// Copyright 2026 leaf76
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/leaf76/lazy-milktea

package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/leaf76/lazy-milktea/internal/lazymilktea"
)

var (
	jumpFilters filterFlags
	jumpAt      string
	jumpLimit   int
)

var jumpCmd = &cobra.Command{
	Use:   "jump <path>",
	Short: "Scroll to the first row at or after a given instant",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if jumpAt == "" {
			return fmt.Errorf("jump: --at is required")
		}

		resp, err := lazymilktea.JumpToTime(cmd.Context(), args[0], jumpFilters.toLogFilters(), jumpAt, jumpLimit)
		if err != nil {
			return err
		}
		return printJSON(resp)
	},
}

func init() {
	jumpFilters.register(jumpCmd)
	jumpCmd.Flags().StringVar(&jumpAt, "at", "", "ISO timestamp to jump to (required)")
	jumpCmd.Flags().IntVar(&jumpLimit, "limit", 100, "maximum rows to return")
	rootCmd.AddCommand(jumpCmd)
}
