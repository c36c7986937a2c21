package plan

// Node is one level of a composed column iterator: a cursor over a single
// column, or a pairwise zip of two nodes.
type Node interface {
	// TypeExpr is the Go type of the iterator the node builds.
	TypeExpr() string
	// ItemExpr is the Go type of one element the iterator yields.
	ItemExpr() string
	// ValueExpr is the Go expression that constructs the iterator.
	ValueExpr() string
	Children() []Node
	Explain() string
}

// CursorKind selects between read and write column cursors.
type CursorKind int

const (
	Read CursorKind = iota
	Write
)

func (k CursorKind) String() string {
	if k == Write {
		return "write"
	}
	return "read"
}

// Cursor is the soa type name of the cursor.
func (k CursorKind) Cursor() string {
	if k == Write {
		return "IterMut"
	}
	return "Iter"
}

// Constructor is the soa function building the cursor from a column.
func (k CursorKind) Constructor() string {
	if k == Write {
		return "NewIterMut"
	}
	return "NewIter"
}
