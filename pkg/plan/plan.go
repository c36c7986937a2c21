package plan

import (
	"github.com/bisegni/soagen/pkg/schema"
)

// Plan is everything code generation needs for one record.
type Plan struct {
	Record *schema.Record
	Names  schema.Names
	// Public records also get the iter.Seq entry points.
	Public bool
	Read   Node
	Write  Node
	Step   *Step
}

// Advance is one cursor step inside a generated Next:
//
//	<Value>, <OK> := it.<Cursor>.Next()
type Advance struct {
	Field  string
	Cursor string
	Value  string
	OK     string
}

// Step lists the cursor advances of one iteration step in field order.
// Only the first advance decides termination; every other one is asserted.
type Step struct {
	Record   string
	Advances []Advance
}

// Gate is the advance whose exhaustion ends the iteration.
func (s *Step) Gate() Advance {
	return s.Advances[0]
}

// Checked are the advances that must succeed whenever the gate does.
func (s *Step) Checked() []Advance {
	return s.Advances[1:]
}

// Leaves returns the cursor leaves of n in field order.
func Leaves(n Node) []*CursorNode {
	if c, ok := n.(*CursorNode); ok {
		return []*CursorNode{c}
	}
	var out []*CursorNode
	for _, child := range n.Children() {
		out = append(out, Leaves(child)...)
	}
	return out
}

// Paths returns, for every leaf in field order, the selector reaching its
// element inside an item of n named root.
func Paths(n Node, root string) []string {
	z, ok := n.(*ZipNode)
	if !ok {
		return []string{root}
	}
	return append(Paths(z.Left, root+".First"), Paths(z.Right, root+".Second")...)
}

// Compositions counts the pairwise zips in n.
func Compositions(n Node) int {
	count := 0
	if _, ok := n.(*ZipNode); ok {
		count++
	}
	for _, child := range n.Children() {
		count += Compositions(child)
	}
	return count
}

// Depth is the nesting depth of n; leaves have depth zero.
func Depth(n Node) int {
	depth := 0
	for _, child := range n.Children() {
		depth = max(depth, Depth(child)+1)
	}
	return depth
}
