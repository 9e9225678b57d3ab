package decl

import (
	"fmt"
	"slices"

	"jet/internal/ast"
	"jet/internal/diag"
	"jet/internal/source"
)

func (r *reader) readMembers(header string, kind ast.DirectiveKind, td *typeDecl, sec section, block ast.BlockID, fallback source.Span) {
	for i, sub := range r.memberSections(header, "method", sec, len(td.Methods)) {
		m := &td.Methods[i]
		if id, ok := r.readMethod(m, sub, fallback); ok {
			r.b.PushBlockDirective(block, id)
		}
	}
	for i, sub := range r.memberSections(header, "getter", sec, len(td.Getters)) {
		if id, ok := r.readAccessor(ast.FnGetter, &td.Getters[i], sub, fallback); ok {
			r.b.PushBlockDirective(block, id)
		}
	}
	for i, sub := range r.memberSections(header, "setter", sec, len(td.Setters)) {
		if id, ok := r.readAccessor(ast.FnSetter, &td.Setters[i], sub, fallback); ok {
			r.b.PushBlockDirective(block, id)
		}
	}
	for i, sub := range r.memberSections(header, "var", sec, len(td.Variables)) {
		v := &td.Variables[i]
		if kind == ast.DirInterface {
			sp, _ := r.loc.keyValue(sub.start, "name", v.Name, fallback)
			diag.ReportError(r.u.Reporter(), diag.DirectiveNotAllowedInInterface, sp,
				fmt.Sprintf("variable %q is not allowed in an interface", v.Name)).Emit()
			continue
		}
		if id, ok := r.readVariable(v, sub, fallback); ok {
			r.b.PushBlockDirective(block, id)
		}
	}
	r.sortBlock(block)
}

// memberSections pairs every decoded member with its [[type.member]]
// table. Members written as inline arrays have no table and get the
// owning type section instead.
func (r *reader) memberSections(header, member string, sec section, n int) []section {
	found := r.loc.sections(sec.start, sec.end, header+"."+member)
	out := make([]section, n)
	for i := range out {
		if i < len(found) {
			out[i] = found[i]
		} else {
			out[i] = section{start: sec.start, end: sec.end, inline: true}
		}
	}
	return out
}

func (r *reader) sortBlock(block ast.BlockID) {
	blk := r.b.Blocks.Get(block)
	slices.SortStableFunc(blk.Directives, r.bySpan)
}

func (r *reader) readMethod(m *methodDecl, sec section, fallback source.Span) (ast.DirectiveID, bool) {
	nameSpan, cursor, ok := r.memberName(m.Name, "method", sec, fallback)
	if !ok {
		return ast.NoDirectiveID, false
	}
	span := r.memberSpan(sec, nameSpan)
	attrs := r.readAttributes(&cursor, m.Metadata, m.Modifiers, nameSpan)

	params := r.readParams(cursor, m.Params, nameSpan)
	common := r.b.FnCommons.New(ast.FunctionCommon{
		Span:   span,
		Params: params,
		Result: r.typeRef(sec.start, "result", m.Result, nameSpan),
	})
	return r.b.NewDirective(ast.Directive{
		Kind:       ast.DirFunction,
		Span:       span,
		Name:       m.Name,
		NameSpan:   nameSpan,
		Attributes: attrs,
		FnKind:     ast.FnNormal,
		Common:     common,
	}), true
}

// readAccessor builds getters as function(): T and setters as
// function(value: T): void.
func (r *reader) readAccessor(kind ast.FunctionKind, a *accessorDecl, sec section, fallback source.Span) (ast.DirectiveID, bool) {
	what := "getter"
	if kind == ast.FnSetter {
		what = "setter"
	}
	nameSpan, cursor, ok := r.memberName(a.Name, what, sec, fallback)
	if !ok {
		return ast.NoDirectiveID, false
	}
	span := r.memberSpan(sec, nameSpan)
	attrs := r.readAttributes(&cursor, a.Metadata, a.Modifiers, nameSpan)

	fc := ast.FunctionCommon{Span: span}
	typ := r.typeRef(sec.start, "type", a.Type, nameSpan)
	if kind == ast.FnGetter {
		fc.Result = typ
	} else {
		fc.Params = []ast.Param{{Kind: ast.ParamRequired, Name: "value", Span: nameSpan, Type: typ}}
	}
	return r.b.NewDirective(ast.Directive{
		Kind:       ast.DirFunction,
		Span:       span,
		Name:       a.Name,
		NameSpan:   nameSpan,
		Attributes: attrs,
		FnKind:     kind,
		Common:     r.b.FnCommons.New(fc),
	}), true
}

func (r *reader) readVariable(v *varDecl, sec section, fallback source.Span) (ast.DirectiveID, bool) {
	nameSpan, cursor, ok := r.memberName(v.Name, "variable", sec, fallback)
	if !ok {
		return ast.NoDirectiveID, false
	}
	span := r.memberSpan(sec, nameSpan)
	attrs := r.readAttributes(&cursor, v.Metadata, v.Modifiers, nameSpan)
	def := r.b.VarDefs.New(ast.SimpleVariableDefinition{
		Span:     span,
		Name:     v.Name,
		NameSpan: nameSpan,
		Type:     r.typeRef(sec.start, "type", v.Type, nameSpan),
		ReadOnly: v.Const,
	})
	return r.b.NewDirective(ast.Directive{
		Kind:       ast.DirVariable,
		Span:       span,
		Attributes: attrs,
		VarDefs:    []ast.VarDefID{def},
	}), true
}

func (r *reader) memberName(name, what string, sec section, fallback source.Span) (source.Span, int, bool) {
	if name == "" {
		diag.ReportError(r.u.Reporter(), diag.ExpectedIdentifier, fallback,
			fmt.Sprintf("expected a name for %s", what)).Emit()
		return fallback, sec.start, false
	}
	sp, cursor := r.loc.keyValue(sec.start, "name", name, fallback)
	return sp, cursor, true
}

// memberSpan is the member table span; inline members only cover their name.
func (r *reader) memberSpan(sec section, nameSpan source.Span) source.Span {
	if sec.inline {
		return nameSpan
	}
	return r.loc.trimmed(sec)
}

// readParams enforces the parameter order required, optional, rest.
func (r *reader) readParams(from int, decls []paramDecl, fallback source.Span) []ast.Param {
	params := make([]ast.Param, 0, len(decls))
	cursor := from
	seenOptional, seenRest := false, false
	for _, pd := range decls {
		var sp source.Span
		sp, cursor = r.loc.keyValue(cursor, "name", pd.Name, fallback)
		p := ast.Param{Kind: ast.ParamRequired, Name: pd.Name, Span: sp}
		switch {
		case pd.Rest && pd.Optional:
			diag.ReportError(r.u.Reporter(), diag.MalformedRestParameter, sp,
				"rest parameter cannot be optional").Emit()
			p.Kind = ast.ParamRest
		case pd.Rest:
			p.Kind = ast.ParamRest
		case pd.Optional:
			p.Kind = ast.ParamOptional
		}
		switch {
		case p.Kind == ast.ParamRest && seenRest:
			diag.ReportError(r.u.Reporter(), diag.DuplicateRestParameter, sp,
				"duplicate rest parameter").Emit()
		case seenRest:
			diag.ReportError(r.u.Reporter(), diag.WrongParameterPosition, sp,
				"parameter after rest parameter").Emit()
		case p.Kind == ast.ParamRequired && seenOptional:
			diag.ReportError(r.u.Reporter(), diag.WrongParameterPosition, sp,
				"required parameter after optional parameter").Emit()
		}
		seenOptional = seenOptional || p.Kind == ast.ParamOptional
		seenRest = seenRest || p.Kind == ast.ParamRest
		if pd.Type != "" {
			var tsp source.Span
			tsp, cursor = r.loc.keyValue(cursor, "type", pd.Type, sp)
			p.Type = r.b.NewTypeName(tsp, pd.Type)
		}
		params = append(params, p)
	}
	return params
}
