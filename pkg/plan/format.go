package plan

import (
	"fmt"
	"strings"
)

// FormatPlan generates a visual string representation of the plan tree
func FormatPlan(n Node) string {
	var sb strings.Builder
	formatRecursive(n, "", true, &sb)
	return sb.String()
}

func formatRecursive(n Node, prefix string, last bool, sb *strings.Builder) {
	sb.WriteString(prefix)
	if last {
		sb.WriteString("└─ ")
		prefix += "   "
	} else {
		sb.WriteString("├─ ")
		prefix += "│  "
	}
	sb.WriteString(n.Explain())
	sb.WriteString("\n")

	children := n.Children()
	for i, child := range children {
		formatRecursive(child, prefix, i == len(children)-1, sb)
	}
}

// Describe renders a whole record plan: both cursor trees and the step.
func Describe(p *Plan) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "%s (%s, %d fields)\n", p.Record.Name, p.Record.Visibility(), len(p.Record.Fields))
	fmt.Fprintf(&sb, "%s: %s\n", p.Names.Iter, p.Read.TypeExpr())
	sb.WriteString(FormatPlan(p.Read))
	fmt.Fprintf(&sb, "%s: %s\n", p.Names.IterMut, p.Write.TypeExpr())
	sb.WriteString(FormatPlan(p.Write))

	checked := make([]string, 0, len(p.Step.Advances)-1)
	for _, a := range p.Step.Checked() {
		checked = append(checked, a.Field)
	}
	fmt.Fprintf(&sb, "step: gate %s", p.Step.Gate().Field)
	if len(checked) > 0 {
		fmt.Fprintf(&sb, ", assert %s", strings.Join(checked, ", "))
	}
	sb.WriteString("\n")
	return sb.String()
}
