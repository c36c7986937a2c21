package schema

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"
	"github.com/ettle/strcase"
)

var ErrDuplicateRecord = errors.New("duplicate record")

// Schema is a parsed .soa file.
type Schema struct {
	Package string
	Imports []Import
	Records []*Record
}

// Lookup returns the record called name.
func (s *Schema) Lookup(name string) (*Record, bool) {
	for _, r := range s.Records {
		if r.Name == name {
			return r, true
		}
	}
	return nil, false
}

// Validate validates every record and checks record names are unique.
func (s *Schema) Validate() error {
	seen := make(map[string]bool, len(s.Records))
	for _, r := range s.Records {
		if seen[r.Name] {
			return fmt.Errorf("record %s: %w", r.Name, ErrDuplicateRecord)
		}
		seen[r.Name] = true
		if err := r.Validate(); err != nil {
			return err
		}
	}
	return nil
}

var (
	schemaLexer = lexer.MustSimple([]lexer.SimpleRule{
		{Name: "Comment", Pattern: `//[^\n]*`},
		{Name: "String", Pattern: `"(\\.|[^"\\])*"`},
		{Name: "Ident", Pattern: `[a-zA-Z_][a-zA-Z0-9_]*`},
		{Name: "Number", Pattern: `\d+`},
		{Name: "Punct", Pattern: `[{}\[\]*.,;]`},
		{Name: "Whitespace", Pattern: `\s+`},
	})

	schemaParser = participle.MustBuild[astSchema](
		participle.Lexer(schemaLexer),
		participle.Unquote("String"),
		participle.Elide("Whitespace", "Comment"),
		participle.UseLookahead(2),
	)
)

// Parse parses a schema. filename is only used in positions.
func Parse(filename, input string) (*Schema, error) {
	if strings.TrimSpace(input) == "" {
		return nil, fmt.Errorf("empty schema")
	}

	ast, err := schemaParser.ParseString(filename, input)
	if err != nil {
		return nil, fmt.Errorf("parse error: %w", err)
	}

	return ast.toSchema(), nil
}

// ParseFile reads and parses the schema at path.
func ParseFile(path string) (*Schema, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read schema: %w", err)
	}
	return Parse(path, string(data))
}

func (s *astSchema) toSchema() *Schema {
	out := &Schema{Package: s.Package}
	for _, imp := range s.Imports {
		out.Imports = append(out.Imports, Import{Alias: imp.Alias, Path: imp.Path})
	}
	for _, r := range s.Records {
		out.Records = append(out.Records, r.toRecord(out.Imports))
	}
	return out
}

func (r *astRecord) toRecord(imports []Import) *Record {
	rec := &Record{
		Name:    r.Name,
		Imports: imports,
		Pos:     r.Pos.String(),
	}
	exported := rec.Visibility() == Public
	for _, f := range r.Fields {
		name := f.Name
		if exported {
			name = strcase.ToGoPascal(name)
		}
		rec.Fields = append(rec.Fields, Field{Name: name, Type: f.Type.String()})
	}
	return rec
}
