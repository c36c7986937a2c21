package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/fatih/color"
	"github.com/jzelinskie/cobrautil/v2"
	"github.com/jzelinskie/stringz"
	"github.com/spf13/cobra"

	"github.com/bisegni/soagen/internal/logging"
	"github.com/bisegni/soagen/pkg/codegen"
)

const defaultLangVersion = "go1.23"

var generateTags []string

var generateCmd = &cobra.Command{
	Use:   "generate <schema.soa|dir> [record...]",
	Short: "Generate containers and iterators for records",
	Long: `Generate the structure-of-arrays container, slices, views and iterators
of each record into one Go file.

Input is either a .soa schema, where naming records is optional, or a Go
package directory followed by the struct types to generate for.

Examples:
  soagen generate shapes.soa
  soagen generate shapes.soa Point -o point_soa.go
  soagen generate . Point Body
  soagen generate -o - shapes.soa`,
	Args: cobra.MinimumNArgs(1),
	RunE: runGenerate,
}

func init() {
	generateCmd.Flags().StringP("output", "o", "", `output file, "-" for stdout (default foo_soa.go or zz_generated.soa.go)`)
	generateCmd.Flags().StringP("package", "p", "", "package clause of the generated file (default the input's package)")
	generateCmd.Flags().String("lang", defaultLangVersion, "Go version the output is formatted for")
	generateCmd.Flags().StringSliceVar(&generateTags, "tags", nil, "build tags used to load a Go package")
}

func runGenerate(cmd *cobra.Command, args []string) error {
	in, err := readInput(cmd.Context(), args[0], args[1:], generateTags)
	if err != nil {
		return err
	}

	src, err := render(in,
		cobrautil.MustGetString(cmd, "package"),
		cobrautil.MustGetString(cmd, "lang"),
	)
	if err != nil {
		return err
	}

	out := stringz.DefaultEmpty(cobrautil.MustGetString(cmd, "output"), in.defaultOutput())
	if out == "-" {
		_, err := cmd.OutOrStdout().Write(src)
		return err
	}
	if err := os.WriteFile(out, src, 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", out, err)
	}

	logging.Info().Str("output", out).Int("records", len(in.records)).Msg("generated")
	fmt.Fprintf(cmd.ErrOrStderr(), "%s %s (%d records)\n", color.GreenString("wrote"), out, len(in.records))
	return nil
}

func render(in *input, pkg, lang string) ([]byte, error) {
	plans, err := in.plans()
	if err != nil {
		return nil, err
	}

	opts := []codegen.Option{
		codegen.WithPackage(stringz.DefaultEmpty(pkg, in.pkg)),
		codegen.WithLangVersion(lang),
	}
	if in.schema {
		opts = append(opts, codegen.WithSource(filepath.Base(in.source)))
	}
	return codegen.Generate(plans, opts...)
}
