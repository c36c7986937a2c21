package codegen_test

import (
	"go/ast"
	"go/parser"
	"go/token"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/bisegni/soagen/pkg/codegen"
	"github.com/bisegni/soagen/pkg/plan"
	"github.com/bisegni/soagen/pkg/planner"
	"github.com/bisegni/soagen/pkg/schema"
)

const shapes = `
package shapes

import "time"
import pb "example.com/proto/v1"

record Point { x int; y int }
record Sample { v int }
record tick { at time.Time; attrs map[string]*pb.Attr; tags []string }
`

func generate(t *testing.T, src string, opts ...codegen.Option) (string, []*plan.Plan) {
	t.Helper()

	s, err := schema.Parse("shapes.soa", src)
	require.NoError(t, err)
	require.NoError(t, s.Validate())

	plans := make([]*plan.Plan, 0, len(s.Records))
	for _, r := range s.Records {
		p, err := planner.CreatePlan(r)
		require.NoError(t, err)
		plans = append(plans, p)
	}

	out, err := codegen.Generate(plans, append([]codegen.Option{codegen.WithPackage(s.Package)}, opts...)...)
	require.NoError(t, err)
	return string(out), plans
}

// declarations maps every top-level type and function of src to true, with
// methods keyed as Receiver.Method.
func declarations(t *testing.T, src string) map[string]bool {
	t.Helper()

	file, err := parser.ParseFile(token.NewFileSet(), "gen.go", src, parser.ParseComments)
	require.NoError(t, err)

	decls := map[string]bool{}
	for _, d := range file.Decls {
		switch d := d.(type) {
		case *ast.GenDecl:
			for _, spec := range d.Specs {
				if ts, ok := spec.(*ast.TypeSpec); ok {
					decls[ts.Name.Name] = true
				}
			}
		case *ast.FuncDecl:
			if d.Recv == nil {
				decls[d.Name.Name] = true
				continue
			}
			recv := d.Recv.List[0].Type
			if star, ok := recv.(*ast.StarExpr); ok {
				recv = star.X
			}
			decls[recv.(*ast.Ident).Name+"."+d.Name.Name] = true
		}
	}
	return decls
}

func TestGenerateParses(t *testing.T) {
	out, _ := generate(t, shapes)

	require.True(t, strings.HasPrefix(out, "// Code generated by soagen. DO NOT EDIT."))
	require.Contains(t, out, "package shapes")
	require.Contains(t, out, `"github.com/bisegni/soagen/pkg/soa"`)
	require.Contains(t, out, `"time"`)
	require.Contains(t, out, `pb "example.com/proto/v1"`)
	require.Contains(t, out, `"iter"`)

	declarations(t, out)
}

func TestGenerateSurface(t *testing.T) {
	out, _ := generate(t, shapes)
	decls := declarations(t, out)

	for _, name := range []string{
		"Point", "PointVec", "PointSlice", "PointSliceMut", "PointRef", "PointRefMut",
		"PointIter", "PointIterMut", "NewPointVec", "PointRefFromZip", "PointRefMutFromZip",
		"PointVec.Len", "PointVec.IsEmpty", "PointVec.Push", "PointVec.Pop", "PointVec.Clear",
		"PointVec.Get", "PointVec.GetMut", "PointVec.Slice", "PointVec.SliceMut",
		"PointVec.Iter", "PointVec.IterMut", "PointVec.Zipped", "PointVec.ZippedMut",
		"PointVec.All", "PointVec.AllMut",
		"PointSlice.Len", "PointSlice.Get", "PointSlice.Iter", "PointSlice.All",
		"PointSliceMut.Len", "PointSliceMut.Get", "PointSliceMut.GetMut",
		"PointSliceMut.Iter", "PointSliceMut.IterMut", "PointSliceMut.AllMut",
		"PointRef.ToOwned", "PointRefMut.ToOwned",
		"PointIter.Next", "PointIter.Close", "PointIterMut.Next", "PointIterMut.Close",
		"tick", "tickVec", "newTickVec", "tickVec.Iter", "tickVec.IterMut", "tickIter.Next",
	} {
		require.True(t, decls[name], "missing %s", name)
	}

	for _, name := range []string{"PointSlice.GetMut", "PointSlice.IterMut", "PointSlice.AllMut"} {
		require.False(t, decls[name], "read-only slice has %s", name)
	}
	for _, name := range []string{"tickVec.All", "tickVec.AllMut", "tickSlice.All", "tickSliceMut.AllMut"} {
		require.False(t, decls[name], "internal record has %s", name)
	}
}

func TestGenerateFoldsMatchPlan(t *testing.T) {
	out, plans := generate(t, shapes)

	for _, p := range plans {
		require.Contains(t, out, "func (v *"+p.Names.Vec+") Zipped() "+p.Read.TypeExpr()+" {")
		require.Contains(t, out, "func (v *"+p.Names.Vec+") ZippedMut() "+p.Write.TypeExpr()+" {")
		require.Contains(t, out, "func "+p.Names.FromZip+"(item "+p.Read.ItemExpr()+") "+p.Names.Ref+" {")
	}

	require.Contains(t, out, "z := soa.ZipOf(soa.NewIter(v.X), soa.NewIter(v.Y))")
	require.Contains(t, out, "z := soa.NewIterMut(v.V)")
	require.Contains(t, out, "*soa.Zip[soa.Pair[*time.Time, *map[string]*pb.Attr], *[]string]")
	require.Contains(t, out, "return tickRef{at: item.First.First, attrs: item.First.Second, tags: item.Second}")
}

func TestGenerateStep(t *testing.T) {
	out, _ := generate(t, shapes)

	require.Contains(t, out, `
	x, xOK := it.x.Next()
	y, yOK := it.y.Next()
	if !xOK {
		it.lease.Release()
		return PointRef{}, false
	}
	if !yOK {
		soa.ColumnMismatch("Point", "Y")
	}
	return PointRef{X: x, Y: y}, true
`)

	require.Contains(t, out, `
	v, vOK := it.v.Next()
	if !vOK {
		it.lease.Release()
		return SampleRefMut{}, false
	}
	return SampleRefMut{V: v}, true
`)
}

func TestGenerateCursorShadowingType(t *testing.T) {
	out, _ := generate(t, "package shapes\nrecord point { pointRef int; y int }")
	declarations(t, out)

	require.Contains(t, out, `
	pointRefCol, pointRefColOK := it.pointRefCol.Next()
	y, yOK := it.y.Next()
	if !pointRefColOK {
		it.lease.Release()
		return pointRef{}, false
	}`)
	require.Contains(t, out, "pointRefCol: soa.NewIter(v.pointRef),")
}

func TestGenerateViewsCheckBorrow(t *testing.T) {
	out, _ := generate(t, shapes)

	require.Contains(t, out, `func (v *PointVec) Get(i int) PointRef {
	v.borrow.AssertReadable()
`)
	require.Contains(t, out, `func (v *PointVec) GetMut(i int) PointRefMut {
	v.borrow.AssertWritable()
`)
	require.Contains(t, out, `func (s PointSliceMut) GetMut(i int) PointRefMut {
	s.borrow.AssertWritable()
`)
	require.Contains(t, out, "// IsEmpty reports whether there are no records.\n")
	require.Contains(t, out, "// Len is the number of records.\nfunc (s PointSlice) Len() int")
}

func TestGenerateDeclared(t *testing.T) {
	s, err := schema.Parse("", "package shapes\nrecord Point { X int; Y int }")
	require.NoError(t, err)
	s.Records[0].Declared = true

	p, err := planner.CreatePlan(s.Records[0])
	require.NoError(t, err)

	out, err := codegen.Generate([]*plan.Plan{p}, codegen.WithPackage("shapes"), codegen.WithSource("shapes.go"))
	require.NoError(t, err)

	decls := declarations(t, string(out))
	require.False(t, decls["Point"])
	require.True(t, decls["PointVec"])
	require.Contains(t, string(out), "// Code generated by soagen from shapes.go. DO NOT EDIT.")
}

func TestGenerateErrors(t *testing.T) {
	_, err := codegen.Generate(nil)
	require.ErrorIs(t, err, codegen.ErrNoPackage)

	p := &plan.Plan{Record: &schema.Record{
		Name:   "Bad",
		Fields: []schema.Field{{Name: "F", Type: "struct{}"}},
	}}
	_, err = codegen.Generate([]*plan.Plan{p}, codegen.WithPackage("x"))
	require.ErrorIs(t, err, codegen.ErrUnsupportedType)
}
