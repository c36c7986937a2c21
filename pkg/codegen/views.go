package codegen

import (
	"github.com/dave/jennifer/jen"

	"github.com/bisegni/soagen/pkg/plan"
	"github.com/bisegni/soagen/pkg/schema"
)

// view renders a record view type, its ToOwned method and the function
// building it from an item of the matching Zipped iterator.
func (g *recordGen) view(name string, kind plan.CursorKind) {
	tree, fromZip := g.p.Read, g.n.FromZip
	if kind == plan.Write {
		tree, fromZip = g.p.Write, g.n.FromZipMut
	}

	if kind == plan.Write {
		g.f.Commentf("%s points at the fields of one %s in place. Writes through it land in the columns.", name, g.n.Record)
	} else {
		g.f.Commentf("%s points at the fields of one %s in place.", name, g.n.Record)
	}
	g.f.Type().Id(name).Struct(g.eachField(func(i int, f schema.Field) jen.Code {
		return jen.Id(f.Name).Op("*").Add(g.types[i])
	})...)

	g.f.Comment("ToOwned copies the record out of its columns.")
	g.f.Func().Params(jen.Id("r").Id(name)).Id("ToOwned").Params().Id(g.n.Record).Block(
		jen.Return(g.literal(g.n.Record, func(_ int, f schema.Field) jen.Code {
			return jen.Op("*").Id("r").Dot(f.Name)
		})),
	)

	paths := plan.Paths(tree, "item")
	g.f.Commentf("%s converts an item of the nested zip into a %s.", fromZip, name)
	g.f.Func().Id(fromZip).Params(jen.Id("item").Add(g.itemOf(tree))).Id(name).Block(
		jen.Return(g.literal(name, func(i int, _ schema.Field) jen.Code {
			return jen.Id(paths[i])
		})),
	)
}
