package cmd

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/jzelinskie/cobrautil/v2"
	"github.com/jzelinskie/cobrautil/v2/cobrazerolog"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/bisegni/soagen/internal/logging"
)

var InteractiveMode bool

var rootCmd = &cobra.Command{
	Use:   "soagen [schema.soa]",
	Short: "Generate structure-of-arrays containers with zipped iterators",
	Long: `soagen turns a record description into a Go structure-of-arrays container:
one slice per field, plus iterators that walk every column in lockstep and
yield a view of each record.

Records come from a .soa schema file or from struct types in a Go package.`,
	Example: fmt.Sprintf(`  %[1]s:
    soagen generate shapes.soa
    soagen explain shapes.soa Point

  %[2]s:
    //go:generate go run github.com/bisegni/soagen generate . Point Body

  %[3]s:
    soagen load shapes.soa --record Point points.jsonl
    soagen -i shapes.soa`,
		color.YellowString("From a schema"),
		color.GreenString("From Go structs"),
		color.CyanString("Dynamic tables"),
	),
	Args:          cobra.MaximumNArgs(1),
	SilenceErrors: true,
	SilenceUsage:  true,
	PersistentPreRunE: cobrautil.CommandStack(
		cobrautil.SyncViperPreRunE("soagen"),
		cobrazerolog.New(
			cobrazerolog.WithTarget(func(logger zerolog.Logger) {
				logging.SetGlobalLogger(logger)
			}),
		).RunE(),
	),
	RunE: func(cmd *cobra.Command, args []string) error {
		if !InteractiveMode {
			return cmd.Help()
		}
		schemaPath := ""
		if len(args) > 0 {
			schemaPath = args[0]
		}
		return RunInteractive(cmd.Context(), schemaPath, cmd.OutOrStdout())
	},
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobrazerolog.New().RegisterFlags(rootCmd.PersistentFlags())
	rootCmd.Flags().BoolVarP(&InteractiveMode, "interactive", "i", false, "Interactive REPL mode")

	rootCmd.AddCommand(generateCmd)
	rootCmd.AddCommand(explainCmd)
	rootCmd.AddCommand(validateCmd)
	rootCmd.AddCommand(loadCmd)
}
