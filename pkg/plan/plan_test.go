package plan

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func threeColumns(kind CursorKind) Node {
	return &ZipNode{
		Left: &ZipNode{
			Left:  &CursorNode{Field: "X", Type: "int", Kind: kind, Column: "v.X"},
			Right: &CursorNode{Field: "Y", Type: "int", Kind: kind, Column: "v.Y"},
		},
		Right: &CursorNode{Field: "Z", Type: "string", Kind: kind, Column: "v.Z"},
	}
}

func TestExpressions(t *testing.T) {
	read := threeColumns(Read)
	require.Equal(t, "*soa.Zip[soa.Pair[*int, *int], *string]", read.TypeExpr())
	require.Equal(t, "soa.Pair[soa.Pair[*int, *int], *string]", read.ItemExpr())
	require.Equal(t, "soa.ZipOf(soa.ZipOf(soa.NewIter(v.X), soa.NewIter(v.Y)), soa.NewIter(v.Z))", read.ValueExpr())

	write := threeColumns(Write)
	require.Equal(t, "soa.ZipOf(soa.ZipOf(soa.NewIterMut(v.X), soa.NewIterMut(v.Y)), soa.NewIterMut(v.Z))", write.ValueExpr())

	leaf := &CursorNode{Field: "V", Type: "[]byte", Kind: Write, Column: "s.V"}
	require.Equal(t, "*soa.IterMut[[]byte]", leaf.TypeExpr())
	require.Equal(t, "*[]byte", leaf.ItemExpr())
}

func TestFormatPlan(t *testing.T) {
	expected := "" +
		"└─ Zip(item: soa.Pair[soa.Pair[*int, *int], *string])\n" +
		"   ├─ Zip(item: soa.Pair[*int, *int])\n" +
		"   │  ├─ Cursor(field: X, type: int, mode: read)\n" +
		"   │  └─ Cursor(field: Y, type: int, mode: read)\n" +
		"   └─ Cursor(field: Z, type: string, mode: read)\n"
	require.Equal(t, expected, FormatPlan(threeColumns(Read)))
}

func TestTreeShape(t *testing.T) {
	tree := threeColumns(Read)
	require.Equal(t, []string{"item.First.First", "item.First.Second", "item.Second"}, Paths(tree, "item"))
	require.Equal(t, 2, Compositions(tree))
	require.Equal(t, 2, Depth(tree))

	leaves := Leaves(tree)
	require.Len(t, leaves, 3)
	require.Equal(t, "Z", leaves[2].Field)

	leaf := leaves[0]
	require.Equal(t, []string{"item"}, Paths(leaf, "item"))
	require.Zero(t, Compositions(leaf))
	require.Zero(t, Depth(leaf))
}

func TestStep(t *testing.T) {
	s := &Step{Record: "Point", Advances: []Advance{
		{Field: "X", Cursor: "x", Value: "x", OK: "xOK"},
		{Field: "Y", Cursor: "y", Value: "y", OK: "yOK"},
	}}
	require.Equal(t, "X", s.Gate().Field)
	require.Len(t, s.Checked(), 1)
	require.Equal(t, "yOK", s.Checked()[0].OK)

	single := &Step{Record: "Sample", Advances: []Advance{{Field: "V"}}}
	require.Empty(t, single.Checked())
}
