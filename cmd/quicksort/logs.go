package main

import (
	"fmt"
	"os"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
)

func newLogsCommand(ctx *commandContext) *cobra.Command {
	var limit int
	var stats bool

	cmd := &cobra.Command{
		Use:   "logs",
		Short: "Show recent organization log entries",
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := ctx.openApp(os.Stderr)
			if err != nil {
				return err
			}
			defer app.Close()

			out := cmd.OutOrStdout()
			if stats {
				st, err := app.Logs.Stats()
				if err != nil {
					return err
				}
				fmt.Fprintf(out, "total %d, success %d, failed %d, pending %d\n", st.Total, st.Success, st.Failed, st.Pending)
				return nil
			}

			entries, err := app.Logs.List(limit)
			if err != nil {
				return err
			}
			if len(entries) == 0 {
				fmt.Fprintln(out, "No log entries")
				return nil
			}
			colorize := shouldColorize(out)
			rows := make([][]string, 0, len(entries))
			for _, e := range entries {
				dest := "-"
				if e.DestinationPath != nil {
					dest = *e.DestinationPath
				}
				if e.ErrorMessage != "" {
					dest = e.ErrorMessage
				}
				rows = append(rows, []string{humanize.Time(e.Timestamp), e.Filename, e.Action, statusText(e.Status, colorize), dest})
			}
			fmt.Fprintln(out, renderTable([]string{"When", "File", "Action", "Status", "Destination"}, rows, nil))
			return nil
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "Number of entries to show")
	cmd.Flags().BoolVar(&stats, "stats", false, "Show counts by status instead of entries")
	return cmd
}
