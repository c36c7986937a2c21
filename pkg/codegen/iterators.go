package codegen

import (
	"github.com/dave/jennifer/jen"

	"github.com/bisegni/soagen/pkg/plan"
	"github.com/bisegni/soagen/pkg/schema"
)

// iterator renders the named cursor aggregate and its step function.
func (g *recordGen) iterator(name, view string, kind plan.CursorKind) {
	rec := g.p.Record
	step := g.p.Step
	it := func() *jen.Statement { return jen.Id("it").Op("*").Id(name) }

	g.f.Commentf("%s steps every column of a %s once per record.", name, g.n.Vec)
	g.f.Type().Id(name).Struct(append(
		g.eachField(func(i int, f schema.Field) jen.Code {
			return jen.Id(rec.Cursor(f)).Op("*").Add(soa(kind.Cursor())).Types(g.types[i])
		}),
		jen.Id("lease").Add(soa("Lease")),
	)...)

	g.f.Comment("Next advances every column and returns a view of the next record.")
	g.f.Comment("The first column alone decides when iteration ends.")
	g.f.Func().Params(it()).Id("Next").Params().Params(jen.Id(view), jen.Bool()).BlockFunc(func(b *jen.Group) {
		for _, a := range step.Advances {
			b.List(jen.Id(a.Value), jen.Id(a.OK)).Op(":=").Id("it").Dot(a.Cursor).Dot("Next").Call()
		}

		gate := step.Gate()
		b.If(jen.Op("!").Id(gate.OK)).Block(
			jen.Id("it").Dot("lease").Dot("Release").Call(),
			jen.Return(jen.Id(view).Values(), jen.False()),
		)
		for _, a := range step.Checked() {
			b.If(jen.Op("!").Id(a.OK)).Block(
				soa("ColumnMismatch").Call(jen.Lit(rec.Name), jen.Lit(a.Field)),
			)
		}

		b.Return(g.literal(view, func(i int, _ schema.Field) jen.Code {
			return jen.Id(step.Advances[i].Value)
		}), jen.True())
	})

	g.f.Comment("Close releases the borrow early.")
	g.f.Func().Params(it()).Id("Close").Params().Block(
		jen.Id("it").Dot("lease").Dot("Release").Call(),
	)
}

// zipped renders Zipped or ZippedMut: the same iteration as Iter or IterMut
// expressed as nested soa.Zip values.
func (g *recordGen) zipped(recv func() *jen.Statement, mutable bool) {
	tree, method, borrow, view := g.p.Read, "Zipped", "Shared", g.n.FromZip
	if mutable {
		tree, method, borrow, view = g.p.Write, "ZippedMut", "Exclusive", g.n.FromZipMut
	}

	g.f.Commentf("%s returns the records as nested pairs; %s turns an item into a view.", method, view)
	g.f.Func().Params(recv()).Id(method).Params().Add(g.typeOf(tree)).Block(
		jen.Id("z").Op(":=").Add(g.valueOf(tree, "v")),
		jen.Id("z").Dot("Hold").Call(jen.Id("v").Dot("borrow").Dot(borrow).Call()),
		jen.Return(jen.Id("z")),
	)
}
