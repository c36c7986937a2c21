// Package codegen emits the Go source of structure-of-arrays containers and
// their iterators from record plans.
package codegen

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/dave/jennifer/jen"
	"mvdan.cc/gofumpt/format"

	"github.com/bisegni/soagen/internal/logging"
	"github.com/bisegni/soagen/pkg/plan"
	"github.com/bisegni/soagen/pkg/schema"
)

// SoaPath is the import path of the runtime generated code depends on.
const SoaPath = "github.com/bisegni/soagen/pkg/soa"

var (
	ErrNoPackage       = errors.New("no package name for generated file")
	ErrUnsupportedType = errors.New("field type cannot be generated")
)

type config struct {
	pkg         string
	source      string
	langVersion string
	format      bool
}

// Option configures Generate.
type Option func(*config)

// WithPackage sets the package clause of the generated file.
func WithPackage(name string) Option {
	return func(c *config) { c.pkg = name }
}

// WithSource names the input the file was generated from in its header.
func WithSource(source string) Option {
	return func(c *config) { c.source = source }
}

// WithLangVersion sets the Go version gofumpt formats for.
func WithLangVersion(version string) Option {
	return func(c *config) { c.langVersion = version }
}

// WithoutFormat skips gofumpt and returns jennifer's output as is.
func WithoutFormat() Option {
	return func(c *config) { c.format = false }
}

// Generate renders one Go file holding the generated code of every plan.
func Generate(plans []*plan.Plan, opts ...Option) ([]byte, error) {
	cfg := config{langVersion: "go1.23", format: true}
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.pkg == "" {
		return nil, ErrNoPackage
	}

	f := jen.NewFile(cfg.pkg)
	header := "Code generated by soagen. DO NOT EDIT."
	if cfg.source != "" {
		header = fmt.Sprintf("Code generated by soagen from %s. DO NOT EDIT.", cfg.source)
	}
	f.HeaderComment(header)
	f.ImportName(SoaPath, "soa")

	for _, p := range plans {
		g, err := newRecordGen(f, p)
		if err != nil {
			return nil, err
		}
		g.generate()
		logging.Debug().Str("record", p.Record.Name).Msg("generated record")
	}

	var buf bytes.Buffer
	if err := f.Render(&buf); err != nil {
		return nil, fmt.Errorf("failed to render: %w", err)
	}
	if !cfg.format {
		return buf.Bytes(), nil
	}

	out, err := format.Source(buf.Bytes(), format.Options{LangVersion: cfg.langVersion})
	if err != nil {
		return nil, fmt.Errorf("failed to format: %w", err)
	}
	return out, nil
}

// recordGen emits the declarations of one record.
type recordGen struct {
	f     *jen.File
	p     *plan.Plan
	n     schema.Names
	types []jen.Code
}

func newRecordGen(f *jen.File, p *plan.Plan) (*recordGen, error) {
	conv := newTypeConverter(p.Record.Imports)
	for _, imp := range p.Record.Imports {
		if imp.Alias != "" {
			f.ImportAlias(imp.Path, imp.Alias)
		} else {
			f.ImportName(imp.Path, imp.Name())
		}
	}

	g := &recordGen{f: f, p: p, n: p.Names}
	for _, field := range p.Record.Fields {
		t, err := conv.convert(field.Type)
		if err != nil {
			return nil, fmt.Errorf("record %s: field %s: %w", p.Record.Name, field.Name, err)
		}
		g.types = append(g.types, t)
	}
	return g, nil
}

func (g *recordGen) generate() {
	if !g.p.Record.Declared {
		g.record()
	}
	g.vec()
	g.slice()
	g.sliceMut()
	g.view(g.n.Ref, plan.Read)
	g.view(g.n.RefMut, plan.Write)
	g.iterator(g.n.Iter, g.n.Ref, plan.Read)
	g.iterator(g.n.IterMut, g.n.RefMut, plan.Write)
}

func soa(name string) *jen.Statement {
	return jen.Qual(SoaPath, name)
}

// eachField renders one code item per field, in field order.
func (g *recordGen) eachField(fn func(i int, f schema.Field) jen.Code) []jen.Code {
	out := make([]jen.Code, 0, len(g.p.Record.Fields))
	for i, f := range g.p.Record.Fields {
		out = append(out, fn(i, f))
	}
	return out
}

// literal renders Type{F0: fn(F0), F1: fn(F1), ...}.
func (g *recordGen) literal(typ string, fn func(i int, f schema.Field) jen.Code) *jen.Statement {
	return jen.Id(typ).Values(g.eachField(func(i int, f schema.Field) jen.Code {
		return jen.Id(f.Name).Op(":").Add(fn(i, f))
	})...)
}

func (g *recordGen) first() schema.Field {
	return g.p.Record.Fields[0]
}
