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

var showProgress bool

var parseCmd = &cobra.Command{
	Use:   "parse <path>",
	Short: "Build an Index Store from a bugreport or logcat file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		path := args[0]

		if !showProgress {
			result, err := lazymilktea.Parse(ctx, path)
			if err != nil {
				return err
			}
			return printJSON(result)
		}

		progress := make(chan lazymilktea.BuildProgress)
		drained := make(chan struct{})
		go func() {
			defer close(drained)
			for p := range progress {
				fmt.Fprintf(cmdErr(), "\r%-12s %6.1f%% (%d rows)", p.Phase, p.Percent(), p.RowsProcessed)
			}
			fmt.Fprintln(cmdErr())
		}()

		result, err := lazymilktea.ParseStreaming(ctx, path, progress)
		close(progress)
		<-drained
		if err != nil {
			return err
		}
		return printJSON(result)
	},
}

func init() {
	parseCmd.Flags().BoolVar(&showProgress, "progress", false, "print progress events to stderr while building")
	rootCmd.AddCommand(parseCmd)
}
