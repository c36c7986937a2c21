package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"slices"
	"strings"

	"github.com/chzyer/readline"
	"github.com/ettle/strcase"
	"github.com/fatih/color"
	"github.com/jzelinskie/stringz"

	"github.com/bisegni/soagen/pkg/database"
	"github.com/bisegni/soagen/pkg/schema"
)

const replHelp = `Commands:
  open <schema.soa>            read records from a schema
  open <dir> <type...>         read records from struct types of a Go package
  records                      list the records that are open
  explain [record...]          show cursor trees and steps
  generate [record...]         print the generated Go source
  load <record> <file|JSON> [as <table>]
                               load JSON rows into a column table
  tables                       list loaded tables
  scan <table>                 print the rows of a table
  arrow <table> <file>         write a table as an Arrow IPC stream
  help                         show this help
  exit | quit                  leave`

var errNothingOpen = errors.New("nothing open, use 'open' first")

// session is the state of one interactive run.
type session struct {
	ctx     context.Context
	out     io.Writer
	in      *input
	catalog *database.Catalog
}

func newSession(ctx context.Context, out io.Writer) *session {
	return &session{ctx: ctx, out: out, catalog: database.NewCatalog()}
}

func RunInteractive(ctx context.Context, schemaPath string, out io.Writer) error {
	fmt.Fprintln(out, "Interactive mode enabled. Type 'help' for commands, 'exit' or 'quit' to leave.")

	s := newSession(ctx, out)
	if schemaPath != "" {
		if err := s.exec("open " + schemaPath); err != nil {
			return err
		}
	}

	rl, err := readline.NewEx(&readline.Config{
		Prompt:          "soagen> ",
		InterruptPrompt: "^C",
		EOFPrompt:       "exit",
		AutoComplete: readline.NewPrefixCompleter(
			readline.PcItem("open"), readline.PcItem("records"),
			readline.PcItem("explain"), readline.PcItem("generate"),
			readline.PcItem("load"), readline.PcItem("tables"),
			readline.PcItem("scan"), readline.PcItem("arrow"),
			readline.PcItem("help"), readline.PcItem("exit"),
		),
	})
	if err != nil {
		return err
	}
	defer rl.Close()

	for {
		line, err := rl.Readline()
		if errors.Is(err, readline.ErrInterrupt) {
			if len(line) == 0 {
				break
			}
			continue
		} else if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return err
		}

		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			continue
		}
		if strings.EqualFold(trimmed, "exit") || strings.EqualFold(trimmed, "quit") {
			break
		}

		if err := s.exec(trimmed); err != nil {
			fmt.Fprintf(os.Stderr, "%s %v\n", color.RedString("Error:"), err)
		}
	}

	return nil
}

func (s *session) exec(line string) error {
	line = strings.TrimSpace(line)
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return nil
	}
	verb, args := strings.ToLower(fields[0]), fields[1:]
	rest := strings.TrimSpace(line[len(fields[0]):])

	switch verb {
	case "help":
		fmt.Fprintln(s.out, replHelp)
		return nil
	case "open":
		return s.open(args)
	case "tables":
		for _, name := range s.catalog.Names() {
			fmt.Fprintln(s.out, name)
		}
		return nil
	case "scan":
		return s.scan(args)
	case "arrow":
		return s.arrow(args)
	}

	if s.in == nil {
		return errNothingOpen
	}
	switch verb {
	case "records":
		for _, r := range s.in.records {
			fmt.Fprintln(s.out, r)
		}
		return nil
	case "explain":
		in, err := s.selected(args)
		if err != nil {
			return err
		}
		plans, err := in.plans()
		if err != nil {
			return err
		}
		return explain(s.out, plans)
	case "generate":
		in, err := s.selected(args)
		if err != nil {
			return err
		}
		src, err := render(in, stringz.DefaultEmpty(s.in.pkg, "main"), defaultLangVersion)
		if err != nil {
			return err
		}
		_, err = s.out.Write(src)
		return err
	case "load":
		return s.load(args, rest)
	}
	return fmt.Errorf("unknown command %q, try 'help'", verb)
}

func (s *session) open(args []string) error {
	if len(args) == 0 {
		return errors.New("usage: open <schema.soa> | open <dir> <type...>")
	}
	in, err := readInput(s.ctx, args[0], args[1:], nil)
	if err != nil {
		return err
	}
	s.in = in
	fmt.Fprintf(s.out, "opened %s\n", describeInput(in))
	return nil
}

// selected narrows the open input to the named records, or keeps all of them.
func (s *session) selected(names []string) (*input, error) {
	if len(names) == 0 {
		return s.in, nil
	}
	out := *s.in
	out.records = nil
	for _, n := range names {
		i := slices.IndexFunc(s.in.records, func(r *schema.Record) bool { return r.Name == n })
		if i < 0 {
			return nil, fmt.Errorf("%s: %w", n, errUnknownRecord)
		}
		out.records = append(out.records, s.in.records[i])
	}
	return &out, nil
}

// load takes the arguments after the verb both split and as typed, since
// inline JSON may contain spaces.
func (s *session) load(args []string, rest string) error {
	if len(args) < 2 {
		return errors.New("usage: load <record> <file|JSON> [as <table>]")
	}
	in, err := s.selected(args[:1])
	if err != nil {
		return err
	}
	rec := in.records[0]

	source := strings.TrimSpace(rest[len(args[0]):])
	name := strcase.ToSnake(rec.Name)
	if i := strings.LastIndex(source, " as "); i >= 0 {
		name = strings.TrimSpace(source[i+len(" as "):])
		source = strings.TrimSpace(source[:i])
	}

	table, err := loadTable(rec, source)
	if err != nil {
		return err
	}
	verb := "loaded"
	if s.catalog.Register(name, table) {
		verb = "replaced"
	}
	fmt.Fprintf(s.out, "%s %s: %d rows\n", color.GreenString(verb), name, table.Len())
	return nil
}

func (s *session) scan(args []string) error {
	if len(args) != 1 {
		return errors.New("usage: scan <table>")
	}
	t, err := s.catalog.Table(args[0])
	if err != nil {
		return err
	}
	_, err = database.WriteJSONL(s.out, t, false)
	return err
}

func (s *session) arrow(args []string) error {
	if len(args) != 2 {
		return errors.New("usage: arrow <table> <file>")
	}
	table, err := s.catalog.ColumnTable(args[0])
	if err != nil {
		return err
	}
	if err := writeArrowFile(table, args[1]); err != nil {
		return err
	}
	fmt.Fprintf(s.out, "wrote %s\n", args[1])
	return nil
}
