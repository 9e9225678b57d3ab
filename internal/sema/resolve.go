package sema

import (
	"fmt"

	"jet/internal/ast"
	"jet/internal/diag"
	"jet/internal/symbols"
)

// resolve links supertypes once, then settles every type whose supertypes
// are settled. A type depending on a later type settles on a later pass.
func (c *Checker) resolve(st *unitState) int {
	progress := 0
	for _, ts := range st.types {
		if !ts.linked {
			c.link(st, ts)
			ts.linked = true
			progress++
		}
	}
	for _, ts := range st.types {
		if c.host.HasFlag(ts.sym, symbols.SymbolFlagResolved) {
			continue
		}
		if c.supersResolved(ts.sym) {
			c.host.MarkResolved(ts.sym)
			progress++
		}
	}
	return progress
}

func (c *Checker) supersResolved(sym symbols.SymbolID) bool {
	s := c.host.Get(sym)
	for _, super := range s.Extends {
		if !c.host.HasFlag(super, symbols.SymbolFlagResolved) {
			return false
		}
	}
	return true
}

func (c *Checker) link(st *unitState, ts *typeState) {
	dir := c.builder.Directives.Get(ts.dir)
	if ts.iface {
		c.host.SetExtends(ts.sym, c.interfaceRefs(st, dir.Extends, nil))
		return
	}
	var checks []*conformCheck
	ifaces := c.interfaceRefs(st, dir.Implements, func(iface symbols.SymbolID, expr ast.ExprID) {
		checks = append(checks, &conformCheck{class: ts.sym, iface: iface, expr: expr})
	})
	c.host.SetImplements(ts.sym, ifaces)
	st.checks = append(st.checks, checks...)
}

// interfaceRefs binds supertype expressions; names that are missing or are
// not interfaces are reported and left out.
func (c *Checker) interfaceRefs(st *unitState, exprs []ast.ExprID, each func(symbols.SymbolID, ast.ExprID)) []symbols.SymbolID {
	out := make([]symbols.SymbolID, 0, len(exprs))
	for _, id := range exprs {
		sym := c.typeRef(st, id, symbols.NoSymbolID)
		if sym == c.host.Invalid() {
			continue
		}
		if !c.host.IsInterface(sym) {
			expr := c.builder.Exprs.Get(id)
			diag.ReportError(st.unit.Reporter(), diag.ExpectedInterfaceType, expr.Span,
				fmt.Sprintf("%s is not an interface", c.host.Name(sym))).Emit()
			continue
		}
		out = append(out, sym)
		if each != nil {
			each(sym, id)
		}
	}
	return out
}

// FailPending reports everything that never settled and clears it.
func (c *Checker) FailPending() {
	for _, f := range c.order {
		st := c.units[f]
		for _, ts := range st.types {
			if c.host.HasFlag(ts.sym, symbols.SymbolFlagResolved) {
				continue
			}
			dir := c.builder.Directives.Get(ts.dir)
			diag.ReportError(st.unit.Reporter(), diag.VerificationDidNotConverge, dir.NameSpan,
				fmt.Sprintf("supertypes of %s never resolved; check for cyclic extends", dir.Name)).Emit()
			// закрываем, чтобы не сообщать повторно
			c.host.MarkResolved(ts.sym)
		}
		for _, chk := range st.checks {
			expr := c.builder.Exprs.Get(chk.expr)
			diag.ReportError(st.unit.Reporter(), diag.VerificationDidNotConverge, expr.Span,
				fmt.Sprintf("could not verify that %s implements %s", c.host.Name(chk.class), c.host.Name(chk.iface))).Emit()
		}
		st.checks = nil
	}
}
