// Package loader reads record descriptions from struct types declared in Go
// source.
package loader

import (
	"context"
	"errors"
	"fmt"
	"go/types"
	"path"
	"strings"

	"golang.org/x/tools/go/packages"

	"github.com/bisegni/soagen/internal/logging"
	"github.com/bisegni/soagen/pkg/schema"
)

var (
	ErrNotStruct      = errors.New("type is not a struct")
	ErrTypeNotFound   = errors.New("type not found")
	ErrEmbeddedField  = errors.New("embedded fields are not supported")
	ErrGenericRecord  = errors.New("generic types are not supported")
	ErrPackageErrors  = errors.New("package has errors")
	ErrNoPackageFound = errors.New("no package found")
)

// Result is the package the records were loaded from.
type Result struct {
	Package string
	Path    string
	Dir     string
	Records []*schema.Record
}

type config struct {
	buildFlags []string
	env        []string
}

// Option configures Load.
type Option func(*config)

// WithBuildTags loads the package as if built with the given tags.
func WithBuildTags(tags ...string) Option {
	return func(c *config) {
		if len(tags) > 0 {
			c.buildFlags = append(c.buildFlags, "-tags="+strings.Join(tags, ","))
		}
	}
}

// WithEnv sets the environment of the go list driver.
func WithEnv(env []string) Option {
	return func(c *config) { c.env = env }
}

// Load type-checks the package in dir and describes the named struct types.
func Load(ctx context.Context, dir string, names []string, opts ...Option) (*Result, error) {
	var cfg config
	for _, opt := range opts {
		opt(&cfg)
	}

	pkgs, err := packages.Load(&packages.Config{
		Mode:       packages.NeedName | packages.NeedFiles | packages.NeedSyntax | packages.NeedTypes | packages.NeedTypesInfo,
		Context:    ctx,
		Dir:        dir,
		BuildFlags: cfg.buildFlags,
		Env:        cfg.env,
	}, ".")
	if err != nil {
		return nil, fmt.Errorf("failed to load package: %w", err)
	}
	if len(pkgs) == 0 {
		return nil, fmt.Errorf("%s: %w", dir, ErrNoPackageFound)
	}

	pkg := pkgs[0]
	if len(pkg.Errors) > 0 {
		errs := make([]error, 0, len(pkg.Errors))
		for _, e := range pkg.Errors {
			errs = append(errs, e)
		}
		return nil, fmt.Errorf("%s: %w: %w", pkg.PkgPath, ErrPackageErrors, errors.Join(errs...))
	}

	logging.Debug().Str("package", pkg.PkgPath).Strs("types", names).Msg("loaded package")

	res := &Result{Package: pkg.Name, Path: pkg.PkgPath, Dir: dir}
	for _, name := range names {
		rec, err := describe(pkg, name)
		if err != nil {
			return nil, err
		}
		res.Records = append(res.Records, rec)
	}
	return res, nil
}

func describe(pkg *packages.Package, name string) (*schema.Record, error) {
	obj, ok := pkg.Types.Scope().Lookup(name).(*types.TypeName)
	if !ok {
		return nil, fmt.Errorf("%s.%s: %w", pkg.PkgPath, name, ErrTypeNotFound)
	}
	pos := pkg.Fset.Position(obj.Pos()).String()

	named, ok := obj.Type().(*types.Named)
	if ok && named.TypeParams().Len() > 0 {
		return nil, fmt.Errorf("%s: %s: %w", pos, name, ErrGenericRecord)
	}
	st, ok := obj.Type().Underlying().(*types.Struct)
	if !ok {
		return nil, fmt.Errorf("%s: %s: %w", pos, name, ErrNotStruct)
	}

	imports := newImportSet(pkg.Types)
	rec := &schema.Record{Name: name, Pos: pos, Declared: true}
	for i := range st.NumFields() {
		f := st.Field(i)
		if f.Embedded() {
			return nil, fmt.Errorf("%s: %s.%s: %w", pos, name, f.Name(), ErrEmbeddedField)
		}
		rec.Fields = append(rec.Fields, schema.Field{
			Name: f.Name(),
			Type: types.TypeString(f.Type(), imports.qualify),
		})
	}
	rec.Imports = imports.list
	return rec, nil
}

// importSet qualifies package references in field types and remembers the
// imports they need. Packages sharing a name get numbered aliases.
type importSet struct {
	self   *types.Package
	byPath map[string]string
	used   map[string]bool
	list   []schema.Import
}

func newImportSet(self *types.Package) *importSet {
	return &importSet{self: self, byPath: map[string]string{}, used: map[string]bool{}}
}

func (s *importSet) qualify(p *types.Package) string {
	if p == s.self {
		return ""
	}
	if name, ok := s.byPath[p.Path()]; ok {
		return name
	}

	name := p.Name()
	for i := 2; s.used[name]; i++ {
		name = fmt.Sprintf("%s%d", p.Name(), i)
	}
	s.used[name] = true
	s.byPath[p.Path()] = name

	imp := schema.Import{Path: p.Path()}
	if name != path.Base(p.Path()) {
		imp.Alias = name
	}
	s.list = append(s.list, imp)
	return name
}
