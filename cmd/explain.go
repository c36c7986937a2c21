package cmd

import (
	"fmt"
	"io"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/bisegni/soagen/pkg/plan"
)

var explainCmd = &cobra.Command{
	Use:   "explain <schema.soa|dir> [record...]",
	Short: "Show the cursor trees and step of records",
	Long: `Print the plan soagen generates code from: the nested-pair cursor type
of each iterator, the tree it folds to, and which column ends iteration.

Examples:
  soagen explain shapes.soa
  soagen explain . Body`,
	Args: cobra.MinimumNArgs(1),
	RunE: runExplain,
}

func init() {
	explainCmd.Flags().StringSliceVar(&generateTags, "tags", nil, "build tags used to load a Go package")
}

func runExplain(cmd *cobra.Command, args []string) error {
	in, err := readInput(cmd.Context(), args[0], args[1:], generateTags)
	if err != nil {
		return err
	}
	plans, err := in.plans()
	if err != nil {
		return err
	}
	return explain(cmd.OutOrStdout(), plans)
}

func explain(w io.Writer, plans []*plan.Plan) error {
	for i, p := range plans {
		if i > 0 {
			fmt.Fprintln(w)
		}
		if _, err := fmt.Fprintf(w, "%s %s", color.CyanString("record"), plan.Describe(p)); err != nil {
			return err
		}
	}
	return nil
}
