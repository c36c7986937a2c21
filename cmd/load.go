package cmd

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/apache/arrow/go/v17/arrow/memory"
	"github.com/fatih/color"
	"github.com/jzelinskie/cobrautil/v2"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/bisegni/soagen/internal/logging"
	"github.com/bisegni/soagen/pkg/database"
	"github.com/bisegni/soagen/pkg/schema"
)

var errNoData = errors.New("no data: name a JSON/JSONL file or pipe one to stdin")

var loadCmd = &cobra.Command{
	Use:   "load <schema.soa> [file|JSON|-]",
	Short: "Load JSON rows into a column table of a record",
	Long: `Load JSON or JSONL rows into a structure-of-arrays table of one record and
print them back in column order. Keys match field names, case-insensitively.

Examples:
  soagen load shapes.soa --record Point points.jsonl
  cat points.json | soagen load shapes.soa -r Point --arrow points.arrow
  soagen load shapes.soa -r Point '[{"x": 1, "y": 10}]'`,
	Args: cobra.RangeArgs(1, 2),
	RunE: runLoad,
}

func init() {
	loadCmd.Flags().StringP("record", "r", "", "record to load (default the schema's only record)")
	loadCmd.Flags().String("arrow", "", "also write the table as an Arrow IPC stream to this file")
	loadCmd.Flags().Bool("pretty", false, "pretty print rows")
	loadCmd.Flags().BoolP("quiet", "q", false, "do not print rows")
}

func runLoad(cmd *cobra.Command, args []string) error {
	source := "-"
	if len(args) > 1 {
		source = args[1]
	}
	if source == "-" && isatty.IsTerminal(os.Stdin.Fd()) {
		return errNoData
	}

	rec, err := pickRecord(args[0], cobrautil.MustGetString(cmd, "record"))
	if err != nil {
		return err
	}
	table, err := loadTable(rec, source)
	if err != nil {
		return err
	}

	if !cobrautil.MustGetBool(cmd, "quiet") {
		if _, err := database.WriteJSONL(cmd.OutOrStdout(), table, cobrautil.MustGetBool(cmd, "pretty")); err != nil {
			return err
		}
	}
	if path := cobrautil.MustGetString(cmd, "arrow"); path != "" {
		if err := writeArrowFile(table, path); err != nil {
			return err
		}
	}

	printSummary(cmd.ErrOrStderr(), table)
	return nil
}

// pickRecord selects a record of the schema at path. An empty name is only
// allowed when the schema has exactly one record.
func pickRecord(path, name string) (*schema.Record, error) {
	if !isSchemaFile(path) {
		return nil, fmt.Errorf("%s: load needs a .soa schema", path)
	}
	var names []string
	if name != "" {
		names = []string{name}
	}
	in, err := readSchema(path, names)
	if err != nil {
		return nil, err
	}
	if len(in.records) != 1 {
		return nil, fmt.Errorf("%s has %d records, choose one with --record", path, len(in.records))
	}
	return in.records[0], nil
}

func loadTable(rec *schema.Record, source string) (*database.ColumnTable, error) {
	table, err := database.NewColumnTable(rec)
	if err != nil {
		return nil, err
	}
	n, err := table.Fill(database.NewJSONTable(source))
	if err != nil {
		return nil, err
	}
	logging.Info().Str("record", rec.Name).Int("rows", n).Msg("loaded table")
	return table, nil
}

func writeArrowFile(table *database.ColumnTable, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	if err := table.WriteArrow(f, memory.NewGoAllocator()); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func printSummary(w io.Writer, table *database.ColumnTable) {
	rec := table.Record()
	kinds := table.Kinds()
	cols := make([]string, len(rec.Fields))
	for i, f := range rec.Fields {
		cols[i] = fmt.Sprintf("%s %s", f.Name, kinds[i])
	}
	fmt.Fprintf(w, "%s %s: %d rows [%s]\n",
		color.GreenString("loaded"), rec.Name, table.Len(), strings.Join(cols, ", "))
}
