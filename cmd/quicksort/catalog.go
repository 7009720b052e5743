package main

import (
	"fmt"
	"os"
	"strconv"

	"quicksort/backend/app/dto"

	"github.com/spf13/cobra"
)

func newTreeCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "tree",
		Short: "List destination folders",
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := ctx.openApp(os.Stderr)
			if err != nil {
				return err
			}
			defer app.Close()

			tree, err := app.Tree.GetTree()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			var rows [][]string
			var walk func(n *dto.TreeNodeResponse, depth int)
			walk = func(n *dto.TreeNodeResponse, depth int) {
				indent := ""
				for i := 0; i < depth; i++ {
					indent += "  "
				}
				id := "-"
				if n.ID != 0 {
					id = strconv.FormatUint(uint64(n.ID), 10)
				}
				rows = append(rows, []string{id, indent + n.Name, n.Path, strconv.Itoa(n.RulesCount)})
				for _, c := range n.Children {
					walk(c, depth+1)
				}
			}
			walk(tree.Root, 0)
			fmt.Fprintln(out, renderTable([]string{"ID", "Name", "Path", "Rules"}, rows, []columnAlignment{alignRight, alignLeft, alignLeft, alignRight}))
			return nil
		},
	}
}

func newRulesCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "rules",
		Short: "List organization rules in evaluation order",
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := ctx.openApp(os.Stderr)
			if err != nil {
				return err
			}
			defer app.Close()

			rules, err := app.Rules.ListRules()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if len(rules) == 0 {
				fmt.Fprintln(out, "No rules defined")
				return nil
			}
			rows := make([][]string, 0, len(rules))
			for _, r := range rules {
				active := "yes"
				if !r.IsActive {
					active = "no"
				}
				rows = append(rows, []string{
					strconv.FormatUint(uint64(r.ID), 10),
					r.RuleType,
					r.Pattern,
					strconv.Itoa(r.Priority),
					r.NodeName,
					active,
				})
			}
			fmt.Fprintln(out, renderTable([]string{"ID", "Type", "Pattern", "Priority", "Destination", "Active"}, rows,
				[]columnAlignment{alignRight, alignLeft, alignLeft, alignRight, alignLeft, alignLeft}))
			return nil
		},
	}
}
