package codegen

import (
	"fmt"
	"go/ast"
	"go/parser"
	"go/token"

	"github.com/dave/jennifer/jen"

	"github.com/bisegni/soagen/pkg/schema"
)

// typeConverter turns Go type expressions into jennifer code, qualifying
// package selectors with their import paths so the file imports them.
type typeConverter struct {
	paths map[string]string
}

func newTypeConverter(imports []schema.Import) *typeConverter {
	paths := make(map[string]string, len(imports))
	for _, imp := range imports {
		paths[imp.Name()] = imp.Path
	}
	return &typeConverter{paths: paths}
}

func (c *typeConverter) convert(expr string) (*jen.Statement, error) {
	node, err := parser.ParseExpr(expr)
	if err != nil {
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedType, expr)
	}
	return c.node(node)
}

func (c *typeConverter) node(n ast.Expr) (*jen.Statement, error) {
	switch t := n.(type) {
	case *ast.Ident:
		return jen.Id(t.Name), nil
	case *ast.SelectorExpr:
		pkg, ok := t.X.(*ast.Ident)
		if !ok {
			return nil, fmt.Errorf("%w: selector on %T", ErrUnsupportedType, t.X)
		}
		path, ok := c.paths[pkg.Name]
		if !ok {
			return nil, fmt.Errorf("%w: %s", schema.ErrUnknownPackage, pkg.Name)
		}
		return jen.Qual(path, t.Sel.Name), nil
	case *ast.ParenExpr:
		return c.node(t.X)
	case *ast.StarExpr:
		elem, err := c.node(t.X)
		if err != nil {
			return nil, err
		}
		return jen.Op("*").Add(elem), nil
	case *ast.ArrayType:
		elem, err := c.node(t.Elt)
		if err != nil {
			return nil, err
		}
		if t.Len == nil {
			return jen.Index().Add(elem), nil
		}
		length, ok := t.Len.(*ast.BasicLit)
		if !ok || length.Kind != token.INT {
			return nil, fmt.Errorf("%w: array length must be a literal", ErrUnsupportedType)
		}
		return jen.Index(jen.Id(length.Value)).Add(elem), nil
	case *ast.MapType:
		key, err := c.node(t.Key)
		if err != nil {
			return nil, err
		}
		value, err := c.node(t.Value)
		if err != nil {
			return nil, err
		}
		return jen.Map(key).Add(value), nil
	case *ast.ChanType:
		elem, err := c.node(t.Value)
		if err != nil {
			return nil, err
		}
		switch t.Dir {
		case ast.SEND:
			return jen.Chan().Op("<-").Add(elem), nil
		case ast.RECV:
			return jen.Op("<-").Chan().Add(elem), nil
		}
		return jen.Chan().Add(elem), nil
	case *ast.InterfaceType:
		if t.Methods == nil || len(t.Methods.List) == 0 {
			return jen.Interface(), nil
		}
	case *ast.IndexExpr:
		return c.instance(t.X, t.Index)
	case *ast.IndexListExpr:
		return c.instance(t.X, t.Indices...)
	}
	return nil, fmt.Errorf("%w: %T", ErrUnsupportedType, n)
}

func (c *typeConverter) instance(base ast.Expr, args ...ast.Expr) (*jen.Statement, error) {
	generic, err := c.node(base)
	if err != nil {
		return nil, err
	}
	types := make([]jen.Code, len(args))
	for i, a := range args {
		if types[i], err = c.node(a); err != nil {
			return nil, err
		}
	}
	return generic.Types(types...), nil
}
