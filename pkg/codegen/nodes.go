package codegen

import (
	"github.com/dave/jennifer/jen"

	"github.com/bisegni/soagen/pkg/plan"
)

// typeOf renders the type a plan node names. Leaves are matched to their
// field types by position.
func (g *recordGen) typeOf(n plan.Node) jen.Code {
	switch t := n.(type) {
	case *plan.ZipNode:
		return jen.Op("*").Add(soa("Zip")).Types(g.itemOf(t.Left), g.itemOf(t.Right))
	case *plan.CursorNode:
		return jen.Op("*").Add(soa(t.Kind.Cursor())).Types(g.fieldType(t.Field))
	}
	return jen.Null()
}

func (g *recordGen) itemOf(n plan.Node) jen.Code {
	switch t := n.(type) {
	case *plan.ZipNode:
		return soa("Pair").Types(g.itemOf(t.Left), g.itemOf(t.Right))
	case *plan.CursorNode:
		return jen.Op("*").Add(g.fieldType(t.Field))
	}
	return jen.Null()
}

func (g *recordGen) valueOf(n plan.Node, recv string) jen.Code {
	switch t := n.(type) {
	case *plan.ZipNode:
		return soa("ZipOf").Call(g.valueOf(t.Left, recv), g.valueOf(t.Right, recv))
	case *plan.CursorNode:
		return soa(t.Kind.Constructor()).Call(jen.Id(recv).Dot(t.Field))
	}
	return jen.Null()
}

func (g *recordGen) fieldType(name string) jen.Code {
	for i, f := range g.p.Record.Fields {
		if f.Name == name {
			return g.types[i]
		}
	}
	return jen.Null()
}
