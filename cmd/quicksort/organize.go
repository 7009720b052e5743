package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"quicksort/backend/app/dto"
	"quicksort/backend/app/services"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
)

func newOrganizeCommand(ctx *commandContext) *cobra.Command {
	var recursive, copyFiles bool

	cmd := &cobra.Command{
		Use:   "organize <folder|file>",
		Short: "Organize a folder or a single file now",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			lock, err := ctx.acquireLock()
			if err != nil {
				return err
			}
			defer func() { _ = lock.Unlock() }()

			app, err := ctx.openApp(os.Stderr)
			if err != nil {
				return err
			}
			defer app.Close()

			action := services.ActionMove
			if copyFiles {
				action = services.ActionCopy
			}
			target, err := filepath.Abs(args[0])
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			info, err := os.Stat(target)
			if err != nil {
				return err
			}
			if !info.IsDir() {
				res, err := app.Organizer.OrganizeFile(cmd.Context(), target, action)
				if err != nil {
					return err
				}
				printResults(out, []dto.FileResult{*res})
				return nil
			}

			res, err := app.Organizer.OrganizeFolder(cmd.Context(), target, recursive, action)
			if err != nil {
				return err
			}
			printResults(out, res.Results)
			fmt.Fprintf(out, "batch %s: %d processed, %d moved, %d failed, %d skipped\n",
				res.BatchID, res.FilesProcessed, res.FilesMoved, res.FilesFailed, res.FilesSkipped)
			return nil
		},
	}

	cmd.Flags().BoolVarP(&recursive, "recursive", "r", false, "Descend into subfolders")
	cmd.Flags().BoolVar(&copyFiles, "copy", false, "Copy files instead of moving them")
	return cmd
}

func newPreviewCommand(ctx *commandContext) *cobra.Command {
	var recursive bool

	cmd := &cobra.Command{
		Use:   "preview <folder>",
		Short: "Show where files would go without moving them",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := ctx.openApp(os.Stderr)
			if err != nil {
				return err
			}
			defer app.Close()

			target, err := filepath.Abs(args[0])
			if err != nil {
				return err
			}
			res, err := app.Organizer.Preview(cmd.Context(), target, recursive)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if len(res.Files) == 0 {
				fmt.Fprintln(out, "No files to organize")
				return nil
			}
			rows := make([][]string, 0, len(res.Files))
			for _, f := range res.Files {
				dest := "-"
				if f.HasRule {
					dest = fmt.Sprintf("%s (%s)", f.DestinationName, f.Destination)
				}
				rows = append(rows, []string{f.Filename, f.SizeHuman, humanize.Time(f.ModifiedAt), dest})
			}
			fmt.Fprintln(out, renderTable([]string{"File", "Size", "Modified", "Destination"}, rows, []columnAlignment{alignLeft, alignRight, alignLeft, alignLeft}))
			fmt.Fprintf(out, "%d files, %d with rules, %d without\n", res.TotalFiles, res.FilesWithRules, res.FilesWithoutRules)
			return nil
		},
	}

	cmd.Flags().BoolVarP(&recursive, "recursive", "r", false, "Descend into subfolders")
	return cmd
}

func printResults(out io.Writer, results []dto.FileResult) {
	if len(results) == 0 {
		fmt.Fprintln(out, "No files to organize")
		return
	}
	colorize := shouldColorize(out)
	rows := make([][]string, 0, len(results))
	for _, r := range results {
		detail := r.DestinationPath
		if r.Error != "" {
			detail = r.Error
		}
		if r.NodeName != "" && r.DestinationPath != "" {
			detail = fmt.Sprintf("%s -> %s", r.NodeName, r.DestinationPath)
		}
		rows = append(rows, []string{r.Filename, statusText(r.Status, colorize), strings.TrimSpace(detail)})
	}
	fmt.Fprintln(out, renderTable([]string{"File", "Status", "Detail"}, rows, nil))
}
