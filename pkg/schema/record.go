package schema

import (
	"errors"
	"fmt"
	"go/ast"
	"go/parser"
	"go/token"
	"go/types"
	"path"
	"strings"

	"github.com/ettle/strcase"
)

var (
	ErrNoFields       = errors.New("record has no fields")
	ErrDuplicateField = errors.New("duplicate field")
	ErrInvalidIdent   = errors.New("invalid identifier")
	ErrReservedName   = errors.New("field name is reserved by the generated API")
	ErrInvalidType    = errors.New("invalid field type")
	ErrUnknownPackage = errors.New("field type references a package that is not imported")
)

// Visibility of a record, derived from the case of its name.
type Visibility int

const (
	Internal Visibility = iota
	Public
)

func (v Visibility) String() string {
	if v == Public {
		return "public"
	}
	return "internal"
}

// Import is a package referenced by field types.
type Import struct {
	Alias string
	Path  string
}

// Name is the identifier the import is referenced by.
func (i Import) Name() string {
	if i.Alias != "" {
		return i.Alias
	}
	return path.Base(i.Path)
}

// Field is one column of a record: a Go identifier and a Go type expression.
type Field struct {
	Name string
	Type string
}

func (f Field) String() string {
	return f.Name + " " + f.Type
}

// Cursor is the unexported identifier derived from the field name for its
// cursor and step result. Record.Cursor refines it per record.
func (f Field) Cursor() string {
	c := strcase.ToGoCamel(f.Name)
	if token.IsKeyword(c) || reservedLocals[c] || types.Universe.Lookup(c) != nil {
		c += "Col"
	}
	return c
}

// Record describes a record type: its name and ordered field list.
type Record struct {
	Name    string
	Fields  []Field
	Imports []Import
	// Pos is where the record was declared, for error messages.
	Pos string
	// Declared is set when the record's struct type already exists in Go
	// source, so generated code must not declare it again.
	Declared bool
}

// Visibility is Public when the record name is exported.
func (r *Record) Visibility() Visibility {
	if token.IsExported(r.Name) {
		return Public
	}
	return Internal
}

// Names derives the identifiers of every generated type.
func (r *Record) Names() Names {
	newVec := "New" + r.Name + "Vec"
	if r.Visibility() == Internal {
		newVec = "new" + strcase.ToGoPascal(r.Name) + "Vec"
	}
	return Names{
		Record:     r.Name,
		Vec:        r.Name + "Vec",
		Slice:      r.Name + "Slice",
		SliceMut:   r.Name + "SliceMut",
		Ref:        r.Name + "Ref",
		RefMut:     r.Name + "RefMut",
		Iter:       r.Name + "Iter",
		IterMut:    r.Name + "IterMut",
		NewVec:     newVec,
		FromZip:    r.Name + "RefFromZip",
		FromZipMut: r.Name + "RefMutFromZip",
	}
}

// Cursor is the identifier of f's cursor within r's generated iterators. It
// gets the Col suffix when the plain form would shadow one of r's generated
// types.
func (r *Record) Cursor(f Field) string {
	c := f.Cursor()
	n := r.Names()
	switch c {
	case n.Record, n.Vec, n.Slice, n.SliceMut, n.Ref, n.RefMut, n.Iter, n.IterMut,
		n.NewVec, n.FromZip, n.FromZipMut:
		c += "Col"
	}
	return c
}

func (r *Record) String() string {
	fields := make([]string, len(r.Fields))
	for i, f := range r.Fields {
		fields[i] = f.String()
	}
	return fmt.Sprintf("record %s { %s }", r.Name, strings.Join(fields, "; "))
}

// Names are the generated identifiers for one record.
type Names struct {
	Record     string
	Vec        string
	Slice      string
	SliceMut   string
	Ref        string
	RefMut     string
	Iter       string
	IterMut    string
	NewVec     string
	FromZip    string
	FromZipMut string
}

// Methods of the generated types share a namespace with the column and view
// fields.
var reservedFields = map[string]bool{
	"Len": true, "IsEmpty": true, "Push": true, "Pop": true, "Clear": true,
	"Get": true, "GetMut": true, "Slice": true, "SliceMut": true,
	"Iter": true, "IterMut": true, "Zipped": true, "ZippedMut": true,
	"All": true, "AllMut": true, "ToOwned": true, "Next": true, "Close": true,
	"borrow": true,
}

// Identifiers generated code declares next to the cursor locals.
var reservedLocals = map[string]bool{
	"it": true, "lease": true, "soa": true, "iter": true,
}

// Validate checks everything code generation relies on. It must pass before
// any fold runs: the folds index the first field unconditionally.
func (r *Record) Validate() error {
	if !token.IsIdentifier(r.Name) {
		return fmt.Errorf("record %q: %w", r.Name, ErrInvalidIdent)
	}
	if len(r.Fields) == 0 {
		return fmt.Errorf("record %s: %w", r.Name, ErrNoFields)
	}

	imported := make(map[string]bool, len(r.Imports))
	for _, imp := range r.Imports {
		imported[imp.Name()] = true
	}

	seen := make(map[string]bool, len(r.Fields))
	locals := make(map[string]string, 2*len(r.Fields))
	for _, f := range r.Fields {
		if !token.IsIdentifier(f.Name) || f.Name == "_" {
			return fmt.Errorf("record %s: field %q: %w", r.Name, f.Name, ErrInvalidIdent)
		}
		if reservedFields[f.Name] {
			return fmt.Errorf("record %s: field %s: %w", r.Name, f.Name, ErrReservedName)
		}
		if seen[f.Name] {
			return fmt.Errorf("record %s: field %s: %w", r.Name, f.Name, ErrDuplicateField)
		}
		seen[f.Name] = true

		c := r.Cursor(f)
		for _, local := range []string{c, c + "OK"} {
			if other, ok := locals[local]; ok {
				return fmt.Errorf("record %s: fields %s and %s both derive %q: %w", r.Name, other, f.Name, local, ErrDuplicateField)
			}
			locals[local] = f.Name
		}

		if err := checkType(f.Type, imported); err != nil {
			return fmt.Errorf("record %s: field %s: %w", r.Name, f.Name, err)
		}
	}
	return nil
}

func checkType(expr string, imported map[string]bool) error {
	if strings.TrimSpace(expr) == "" {
		return ErrInvalidType
	}
	node, err := parser.ParseExpr(expr)
	if err != nil {
		return fmt.Errorf("%w: %q", ErrInvalidType, expr)
	}

	var unknown string
	ast.Inspect(node, func(n ast.Node) bool {
		sel, ok := n.(*ast.SelectorExpr)
		if !ok {
			return true
		}
		if pkg, ok := sel.X.(*ast.Ident); ok && !imported[pkg.Name] && unknown == "" {
			unknown = pkg.Name
		}
		return false
	})
	if unknown != "" {
		return fmt.Errorf("%w: %s", ErrUnknownPackage, unknown)
	}
	return nil
}
