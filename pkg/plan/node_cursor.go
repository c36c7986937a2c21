package plan

import (
	"fmt"
)

// CursorNode is a leaf: a cursor over one column.
type CursorNode struct {
	Field string
	Type  string
	Kind  CursorKind
	// Column is the expression holding the column slice, e.g. "v.X".
	Column string
}

func (n *CursorNode) TypeExpr() string {
	return fmt.Sprintf("*soa.%s[%s]", n.Kind.Cursor(), n.Type)
}

func (n *CursorNode) ItemExpr() string {
	return "*" + n.Type
}

func (n *CursorNode) ValueExpr() string {
	return fmt.Sprintf("soa.%s(%s)", n.Kind.Constructor(), n.Column)
}

func (n *CursorNode) Children() []Node {
	return nil
}

func (n *CursorNode) Explain() string {
	return fmt.Sprintf("Cursor(field: %s, type: %s, mode: %s)", n.Field, n.Type, n.Kind)
}
