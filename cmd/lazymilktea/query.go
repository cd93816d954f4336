// lazy-milktea - Android bugreport/logcat indexing and query engine
// Copyright 2026 leaf76
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/leaf76/lazy-milktea

package main

import (
	"github.com/spf13/cobra"

	"github.com/leaf76/lazy-milktea/internal/lazymilktea"
)

var (
	queryFilters  filterFlags
	queryCursor   string
	queryLimit    int
	queryBackward bool
)

var queryCmd = &cobra.Command{
	Use:   "query <path>",
	Short: "Run a cursor-paginated query against an Index Store",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cursor, err := parseCursorFlag(queryCursor)
		if err != nil {
			return err
		}
		dir := lazymilktea.Forward
		if queryBackward {
			dir = lazymilktea.Backward
		}

		resp, err := lazymilktea.Query(cmd.Context(), args[0], queryFilters.toLogFilters(), cursor, queryLimit, dir)
		if err != nil {
			return err
		}
		return printJSON(resp)
	},
}

func init() {
	queryFilters.register(queryCmd)
	queryCmd.Flags().StringVar(&queryCursor, "cursor", "", "opaque cursor JSON from a previous response's nextCursor/prevCursor")
	queryCmd.Flags().IntVar(&queryLimit, "limit", 100, "maximum rows to return")
	queryCmd.Flags().BoolVar(&queryBackward, "backward", false, "scan backward from the cursor instead of forward")
	rootCmd.AddCommand(queryCmd)
}
