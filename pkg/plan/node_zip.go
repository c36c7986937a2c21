package plan

import (
	"fmt"
)

// ZipNode pairs two iterators. Left is the running composition, so trees
// built by folding a field list are left-deep.
type ZipNode struct {
	Left  Node
	Right Node
}

func (n *ZipNode) TypeExpr() string {
	return fmt.Sprintf("*soa.Zip[%s, %s]", n.Left.ItemExpr(), n.Right.ItemExpr())
}

func (n *ZipNode) ItemExpr() string {
	return fmt.Sprintf("soa.Pair[%s, %s]", n.Left.ItemExpr(), n.Right.ItemExpr())
}

func (n *ZipNode) ValueExpr() string {
	return ZipOf(n.Left.ValueExpr(), n.Right.ValueExpr())
}

func (n *ZipNode) Children() []Node {
	return []Node{n.Left, n.Right}
}

func (n *ZipNode) Explain() string {
	return "Zip(item: " + n.ItemExpr() + ")"
}

// ZipOf renders the expression pairing two iterator expressions.
func ZipOf(left, right string) string {
	return "soa.ZipOf(" + left + ", " + right + ")"
}
