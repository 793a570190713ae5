package plan

import (
	"fmt"
	"strings"
)

// Dump renders a result as stable text: the top-level mappings followed by
// every cell in creation order. Equal runs produce equal dumps.
func Dump(res *Result) string {
	var b strings.Builder

	for _, m := range res.Mappings {
		fmt.Fprintf(&b, "map %s -> %s = %s\n", m.Source, m.Target, ref(m.Cell))
	}

	b.WriteString(DumpCells(res.Cells))

	return b.String()
}

// DumpCells renders cells in the given order.
func DumpCells(cells []*Cell) string {
	var b strings.Builder

	for _, c := range cells {
		dumpCell(&b, c)
	}

	return b.String()
}

func ref(c *Cell) string {
	if c == nil {
		return "<none>"
	}

	return fmt.Sprintf("#%d", c.ID)
}

func dumpCell(b *strings.Builder, c *Cell) {
	existing := ""
	if c.Existing {
		existing = " existing"
	}

	if c.Plan == nil {
		fmt.Fprintf(b, "#%d %s -> %s%s failed\n", c.ID, c.Key.Source, c.Key.Target, existing)
		return
	}

	fmt.Fprintf(b, "#%d %s -> %s%s %s %s\n", c.ID, c.Key.Source, c.Key.Target, existing, c.Plan.Kind(), c.Reuse)

	switch p := c.Plan.(type) {
	case *Cast:
		fmt.Fprintf(b, "  conversion %s", p.Conversion)

		if p.Operator != nil {
			fmt.Fprintf(b, " via %s", p.Operator.Name)
		}

		b.WriteString("\n")

	case *ParseMapping:
		fmt.Fprintf(b, "  parse func=%q basic=%s%s\n", p.Func, p.Basic, formatHints(p.Format, p.FormatProvider))

	case *ToStringMapping:
		fmt.Fprintf(b, "  format%s\n", formatHints(p.Format, p.FormatProvider))

	case *EnumMapping:
		dumpEnum(b, p)

	case *CollectionLoop:
		fmt.Fprintf(b, "  %s element=%s op=%q%s\n", p.Strategy, ref(p.Element), p.Operation, capacity(p.Capacity))

	case *DictionaryLoop:
		fmt.Fprintf(b, "  %s key=%s value=%s op=%q%s\n",
			p.Strategy, ref(p.Key), ref(p.Value), p.Operation, capacity(p.Capacity))

	case *ObjectConstruction:
		dumpObject(b, p)

	case *UserDefined:
		fmt.Fprintf(b, "  call %s existing=%t\n", p.Name, p.ExistingTarget)

	case *DerivedTypeDispatch:
		for _, dc := range p.Cases {
			fmt.Fprintf(b, "  case %s -> %s = %s", dc.Source, dc.Target, ref(dc.Mapping))

			if dc.AssignableCheck {
				b.WriteString(" checked")
			}

			b.WriteString("\n")
		}

		fmt.Fprintf(b, "  default %s\n", p.DefaultCase)

	case *NullWrapped:
		fmt.Fprintf(b, "  %s\n", nullInfo(p))
	}
}

func dumpEnum(b *strings.Builder, p *EnumMapping) {
	fmt.Fprintf(b, "  %s %s ignore_case=%t", p.Direction, p.Strategy, p.IgnoreCase)

	if p.Fallback != "" {
		fmt.Fprintf(b, " fallback=%s", p.Fallback)
	}

	b.WriteString("\n")

	for _, c := range p.Cases {
		fmt.Fprintf(b, "  case %s => %s\n", c.Source, c.Target)
	}

	if len(p.Defined) > 0 {
		fmt.Fprintf(b, "  defined %s\n", strings.Join(p.Defined, ","))
	}
}

func dumpObject(b *strings.Builder, p *ObjectConstruction) {
	if p.Constructor != nil {
		name := p.Constructor.Name
		if name == "" {
			name = "{}"
		}

		fmt.Fprintf(b, "  ctor %s\n", name)
	}

	for _, a := range p.CtorArgs {
		named := ""
		if a.Named {
			named = " named"
		}

		fmt.Fprintf(b, "  arg %s <- %s%s\n", a.Param.Name, assignment(a.Value), named)
	}

	for _, a := range p.Init {
		fmt.Fprintf(b, "  init %s <- %s\n", a.Target, assignment(a))
	}

	for _, a := range p.Members {
		fmt.Fprintf(b, "  set %s <- %s\n", a.Target, assignment(a))
	}

	if p.ReferenceHandling {
		b.WriteString("  reference_handling\n")
	}
}

func assignment(a MemberAssignment) string {
	src := a.Source.FullName()
	if a.Supplied != "" {
		src = "$" + a.Supplied
	}

	s := src + " " + ref(a.Mapping)

	if a.InPlace {
		s += " in_place"
	}

	if a.Null != nil {
		s += " [" + nullInfo(a.Null) + "]"
	}

	return s
}

func nullInfo(w *NullWrapped) string {
	s := fmt.Sprintf("%s delegate=%s fallback=%s", w.Mode, ref(w.Delegate), w.Fallback)

	if len(w.Checks) > 0 {
		s += " checks=" + strings.Join(w.Checks, ",")
	}

	return s
}

func formatHints(format, provider string) string {
	var s string

	if format != "" {
		s += fmt.Sprintf(" format=%q", format)
	}

	if provider != "" {
		s += fmt.Sprintf(" provider=%s", provider)
	}

	return s
}

func capacity(h *EnsureCapacityHint) string {
	switch {
	case h == nil:
		return ""
	case h.NonEnumerated:
		return fmt.Sprintf(" capacity=%s(non_enumerated)", h.TargetMethod)
	default:
		return fmt.Sprintf(" capacity=%s(%s)", h.TargetMethod, h.SourceCount)
	}
}
