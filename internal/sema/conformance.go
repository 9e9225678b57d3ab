package sema

import (
	"errors"
	"fmt"

	"jet/internal/conform"
	"jet/internal/diag"
	"jet/internal/symbols"
	"jet/internal/trace"
)

// conform runs deferred checks; a check that is still deferred stays queued.
func (c *Checker) conform(st *unitState) int {
	progress := 0
	kept := st.checks[:0]
	for _, chk := range st.checks {
		findings, err := c.verifier.Verify(chk.class, chk.iface)
		if errors.Is(err, conform.ErrDeferVerification) {
			c.note(st, chk, "deferred")
			kept = append(kept, chk)
			continue
		}
		c.note(st, chk, fmt.Sprintf("%d findings", len(findings)))
		progress++
		for _, f := range findings {
			c.reportFinding(st, chk, f)
		}
		st.findings = append(st.findings, findings...)
	}
	st.checks = kept
	return progress
}

func (c *Checker) note(st *unitState, chk *conformCheck, outcome string) {
	if !c.tracer.Enabled() {
		return
	}
	detail := c.host.Name(chk.class) + " implements " + c.host.Name(chk.iface) + ": " + outcome
	trace.Note(c.tracer, st.unit.Path(), "conform", detail, c.traceParent)
}

func (c *Checker) reportFinding(st *unitState, chk *conformCheck, f conform.Finding) {
	class := c.host.Name(chk.class)
	iface := c.host.Name(f.Interface)
	var msg string
	switch f.Kind {
	case conform.UnimplementedMethod:
		msg = fmt.Sprintf("%s does not implement method %q of %s", class, f.Name, iface)
	case conform.UnimplementedGetter:
		msg = fmt.Sprintf("%s does not implement getter %q of %s", class, f.Name, iface)
	case conform.UnimplementedSetter:
		msg = fmt.Sprintf("%s does not implement setter %q of %s", class, f.Name, iface)
	case conform.PropertyMustBeMethod:
		msg = fmt.Sprintf("%q must be a method to implement %s", f.Name, iface)
	case conform.PropertyMustBeVirtualProperty:
		msg = fmt.Sprintf("%q must be a getter or setter to implement %s", f.Name, iface)
	case conform.WrongMethodSignature, conform.WrongGetterSignature, conform.WrongSetterSignature:
		msg = fmt.Sprintf("%q has the wrong signature for %s, expected %s", f.Name, iface, c.host.TypeString(f.ExpectedSignature))
	case conform.WrongVisibility:
		msg = fmt.Sprintf("%q must be %s to implement %s", f.Name, f.ExpectedVisibility, iface)
	default:
		msg = fmt.Sprintf("%s does not conform to %s", class, iface)
	}

	// основная позиция: член класса, если он есть; иначе ссылка в implements
	primary := c.builder.Exprs.Get(chk.expr).Span
	if m, ok := c.host.Member(chk.class, f.Name); ok {
		primary = c.host.Get(m).Span
	}
	b := diag.ReportError(st.unit.Reporter(), f.Kind.Code(), primary, msg)
	if m, ok := c.host.Member(f.Interface, f.Name); ok {
		if decl := c.host.Get(m); decl != nil && !decl.Span.Empty() {
			b.WithNote(decl.Span, "declared in "+iface)
		}
	}
	b.Emit()
}

// Implements reports whether class was verified against iface without findings.
func (c *Checker) Implements(class, iface symbols.SymbolID) bool {
	findings, err := c.verifier.Verify(class, iface)
	return err == nil && len(findings) == 0
}
