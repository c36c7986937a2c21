package codegen

import (
	"github.com/dave/jennifer/jen"

	"github.com/bisegni/soagen/pkg/schema"
)

func (g *recordGen) record() {
	g.f.Commentf("%s is a record stored column by column in %s.", g.n.Record, g.n.Vec)
	g.f.Type().Id(g.n.Record).Struct(g.eachField(func(i int, f schema.Field) jen.Code {
		return jen.Id(f.Name).Add(g.types[i])
	})...)
}

// columns renders one slice field per record field.
func (g *recordGen) columns() []jen.Code {
	return g.eachField(func(i int, f schema.Field) jen.Code {
		return jen.Id(f.Name).Index().Add(g.types[i])
	})
}

func (g *recordGen) vec() {
	n := g.n
	recv := func() *jen.Statement { return jen.Id("v").Op("*").Id(n.Vec) }
	first := g.first().Name

	g.f.Commentf("%s stores %s records as one slice per field. All columns always have the same length.", n.Vec, n.Record)
	g.f.Type().Id(n.Vec).Struct(append(g.columns(), jen.Line(), jen.Id("borrow").Add(soa("Borrow")))...)

	g.f.Commentf("%s returns an empty %s with room for capacity records.", n.NewVec, n.Vec)
	g.f.Func().Id(n.NewVec).Params(jen.Id("capacity").Int()).Op("*").Id(n.Vec).Block(
		jen.Return(jen.Op("&").Add(g.literal(n.Vec, func(i int, f schema.Field) jen.Code {
			return jen.Make(jen.Index().Add(g.types[i]), jen.Lit(0), jen.Id("capacity"))
		}))),
	)

	g.f.Comment("Len is the number of records.")
	g.f.Func().Params(recv()).Id("Len").Params().Int().Block(
		jen.Return(jen.Len(jen.Id("v").Dot(first))),
	)

	g.f.Comment("IsEmpty reports whether there are no records.")
	g.f.Func().Params(recv()).Id("IsEmpty").Params().Bool().Block(
		jen.Return(jen.Len(jen.Id("v").Dot(first)).Op("==").Lit(0)),
	)

	g.f.Comment("Push appends r. It panics while an iterator is live.")
	g.f.Func().Params(recv()).Id("Push").Params(jen.Id("r").Id(n.Record)).BlockFunc(func(b *jen.Group) {
		b.Id("v").Dot("borrow").Dot("AssertUnborrowed").Call()
		for _, f := range g.p.Record.Fields {
			b.Id("v").Dot(f.Name).Op("=").Append(jen.Id("v").Dot(f.Name), jen.Id("r").Dot(f.Name))
		}
	})

	g.f.Comment("Pop removes and returns the last record. It panics while an iterator is live.")
	g.f.Func().Params(recv()).Id("Pop").Params().Params(jen.Id(n.Record), jen.Bool()).BlockFunc(func(b *jen.Group) {
		b.Id("v").Dot("borrow").Dot("AssertUnborrowed").Call()
		b.Id("last").Op(":=").Len(jen.Id("v").Dot(first)).Op("-").Lit(1)
		b.If(jen.Id("last").Op("<").Lit(0)).Block(
			jen.Return(jen.Id(n.Record).Values(), jen.False()),
		)
		b.Id("r").Op(":=").Add(g.literal(n.Record, func(_ int, f schema.Field) jen.Code {
			return jen.Id("v").Dot(f.Name).Index(jen.Id("last"))
		}))
		for _, f := range g.p.Record.Fields {
			b.Id("v").Dot(f.Name).Op("=").Id("v").Dot(f.Name).Index(jen.Empty(), jen.Id("last"))
		}
		b.Return(jen.Id("r"), jen.True())
	})

	g.f.Comment("Clear removes every record, keeping the allocated capacity.")
	g.f.Func().Params(recv()).Id("Clear").Params().BlockFunc(func(b *jen.Group) {
		b.Id("v").Dot("borrow").Dot("AssertUnborrowed").Call()
		for _, f := range g.p.Record.Fields {
			b.Id("v").Dot(f.Name).Op("=").Id("v").Dot(f.Name).Index(jen.Empty(), jen.Lit(0))
		}
	})

	g.getters(recv, "v", false)

	slice := func(name, view string) {
		g.f.Commentf("%s returns a view of records [start, end) sharing storage with v.", name)
		g.f.Func().Params(recv()).Id(name).Params(jen.List(jen.Id("start"), jen.Id("end")).Int()).Id(view).Block(
			jen.Return(jen.Id(view).Values(append(
				g.eachField(func(_ int, f schema.Field) jen.Code {
					return jen.Id(f.Name).Op(":").Id("v").Dot(f.Name).Index(jen.Id("start"), jen.Id("end"))
				}),
				jen.Id("borrow").Op(":").Op("&").Id("v").Dot("borrow"),
			)...)),
		)
	}
	slice("Slice", n.Slice)
	slice("SliceMut", n.SliceMut)

	g.iter(recv, "v", false)
	g.iter(recv, "v", true)
	g.seq(recv, "v", false)
	g.seq(recv, "v", true)
	g.zipped(recv, false)
	g.zipped(recv, true)
}

// getters renders Get, and GetMut unless readOnly. Building a view checks
// the borrow the same way iterators do.
func (g *recordGen) getters(recv func() *jen.Statement, name string, readOnly bool) {
	get := func(method, view, assert, doc string) {
		g.f.Commentf("%s returns a view of record i. It panics if i is out of range or %s.", method, doc)
		g.f.Func().Params(recv()).Id(method).Params(jen.Id("i").Int()).Id(view).Block(
			jen.Id(name).Dot("borrow").Dot(assert).Call(),
			jen.Return(g.literal(view, func(_ int, f schema.Field) jen.Code {
				return jen.Op("&").Id(name).Dot(f.Name).Index(jen.Id("i"))
			})),
		)
	}
	get("Get", g.n.Ref, "AssertReadable", "while a mutable iterator is live")
	if !readOnly {
		get("GetMut", g.n.RefMut, "AssertWritable", "while any iterator is live")
	}
}

func (g *recordGen) slice() {
	n := g.n
	recv := func() *jen.Statement { return jen.Id("s").Id(n.Slice) }

	g.f.Commentf("%s is a read-only window onto a %s.", n.Slice, n.Vec)
	g.f.Type().Id(n.Slice).Struct(append(g.columns(), jen.Line(), jen.Id("borrow").Op("*").Add(soa("Borrow")))...)

	g.sliceLen(recv)
	g.getters(recv, "s", true)
	g.iter(recv, "s", false)
	g.seq(recv, "s", false)
}

func (g *recordGen) sliceMut() {
	n := g.n
	recv := func() *jen.Statement { return jen.Id("s").Id(n.SliceMut) }

	g.f.Commentf("%s is a mutable window onto a %s.", n.SliceMut, n.Vec)
	g.f.Type().Id(n.SliceMut).Struct(append(g.columns(), jen.Line(), jen.Id("borrow").Op("*").Add(soa("Borrow")))...)

	g.sliceLen(recv)
	g.getters(recv, "s", false)
	g.iter(recv, "s", false)
	g.iter(recv, "s", true)
	g.seq(recv, "s", true)
}

func (g *recordGen) sliceLen(recv func() *jen.Statement) {
	g.f.Comment("Len is the number of records.")
	g.f.Func().Params(recv()).Id("Len").Params().Int().Block(
		jen.Return(jen.Len(jen.Id("s").Dot(g.first().Name))),
	)
}

// iter renders Iter, or IterMut when mutable, on a receiver whose columns
// are reached through name.
func (g *recordGen) iter(recv func() *jen.Statement, name string, mutable bool) {
	method, typ, ctor, borrow, held := "Iter", g.n.Iter, "NewIter", "Shared", "a shared"
	if mutable {
		method, typ, ctor, borrow, held = "IterMut", g.n.IterMut, "NewIterMut", "Exclusive", "an exclusive"
	}

	g.f.Commentf("%s returns an iterator over the records. It holds %s borrow until it is exhausted or closed.", method, held)
	g.f.Func().Params(recv()).Id(method).Params().Op("*").Id(typ).Block(
		jen.Return(jen.Op("&").Id(typ).Values(append(
			g.eachField(func(_ int, f schema.Field) jen.Code {
				return jen.Id(g.p.Record.Cursor(f)).Op(":").Add(soa(ctor)).Call(jen.Id(name).Dot(f.Name))
			}),
			jen.Id("lease").Op(":").Id(name).Dot("borrow").Dot(borrow).Call(),
		)...)),
	)
}

// seq renders the iter.Seq entry point wrapping Iter or IterMut. Internal
// records go without.
func (g *recordGen) seq(recv func() *jen.Statement, name string, mutable bool) {
	if !g.p.Public {
		return
	}
	method, open, view := "All", "Iter", g.n.Ref
	if mutable {
		method, open, view = "AllMut", "IterMut", g.n.RefMut
	}

	g.f.Commentf("%s ranges over the records. Leaving the loop releases the borrow.", method)
	g.f.Func().Params(recv()).Id(method).Params().Qual("iter", "Seq").Types(jen.Id(view)).Block(
		jen.Return(soa("All").Call(jen.Func().Params().Add(soa("Cursor")).Types(jen.Id(view)).Block(
			jen.Return(jen.Id(name).Dot(open).Call()),
		))),
	)
}
