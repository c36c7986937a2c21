package planner

import (
	"fmt"

	"github.com/bisegni/soagen/internal/logging"
	"github.com/bisegni/soagen/pkg/plan"
	"github.com/bisegni/soagen/pkg/schema"
)

// fold reduces xs left to right with pair: ((x0, x1), x2), ...
// Both the type and the value fold go through here so their grouping
// cannot diverge.
func fold[T any](xs []T, pair func(left, right T) T) (T, error) {
	var zero T
	if len(xs) == 0 {
		return zero, schema.ErrNoFields
	}
	acc := xs[0]
	for _, x := range xs[1:] {
		acc = pair(acc, x)
	}
	return acc, nil
}

func zip(left, right plan.Node) plan.Node {
	return &plan.ZipNode{Left: left, Right: right}
}

// FoldTypes returns the type of a cursor over the zipped columns of the
// given element types. One type yields the bare cursor type.
func FoldTypes(types []string, kind plan.CursorKind) (string, error) {
	leaves := make([]plan.Node, len(types))
	for i, t := range types {
		leaves[i] = &plan.CursorNode{Field: fmt.Sprint(i), Type: t, Kind: kind}
	}
	node, err := fold(leaves, zip)
	if err != nil {
		return "", err
	}
	return node.TypeExpr(), nil
}

// FoldValues pairs already-built cursor expressions the same way FoldTypes
// pairs their types. One expression is returned unchanged.
func FoldValues(exprs []string) (string, error) {
	return fold(exprs, plan.ZipOf)
}

// CursorTree builds the left-deep zip of the record's column cursors. source
// is the expression holding the columns.
func CursorTree(rec *schema.Record, kind plan.CursorKind, source string) (plan.Node, error) {
	leaves := make([]plan.Node, len(rec.Fields))
	for i, f := range rec.Fields {
		leaves[i] = &plan.CursorNode{
			Field:  f.Name,
			Type:   f.Type,
			Kind:   kind,
			Column: source + "." + f.Name,
		}
	}
	return fold(leaves, zip)
}

// StepPlan lists the cursor advances of the record's Next in field order.
func StepPlan(rec *schema.Record) *plan.Step {
	step := &plan.Step{Record: rec.Name}
	for _, f := range rec.Fields {
		c := rec.Cursor(f)
		step.Advances = append(step.Advances, plan.Advance{
			Field:  f.Name,
			Cursor: c,
			Value:  c,
			OK:     c + "OK",
		})
	}
	return step
}

// CreatePlan validates rec and plans its read and write iterators.
func CreatePlan(rec *schema.Record) (*plan.Plan, error) {
	if err := rec.Validate(); err != nil {
		return nil, err
	}

	read, err := CursorTree(rec, plan.Read, "v")
	if err != nil {
		return nil, err
	}
	write, err := CursorTree(rec, plan.Write, "v")
	if err != nil {
		return nil, err
	}

	p := &plan.Plan{
		Record: rec,
		Names:  rec.Names(),
		Public: rec.Visibility() == schema.Public,
		Read:   read,
		Write:  write,
		Step:   StepPlan(rec),
	}

	logging.Debug().
		Str("record", rec.Name).
		Int("fields", len(rec.Fields)).
		Int("compositions", plan.Compositions(read)).
		Bool("public", p.Public).
		Msg("planned record")

	return p, nil
}
