package sema

import (
	"fmt"

	"jet/internal/ast"
	"jet/internal/diag"
	"jet/internal/meta"
	"jet/internal/source"
	"jet/internal/symbols"
)

// OptionalMetadata marks an interface member that implementors may omit.
const OptionalMetadata = "Optional"

var attrFlags = map[ast.AttrKind]symbols.SymbolFlags{
	ast.AttrStatic:   symbols.SymbolFlagStatic,
	ast.AttrFinal:    symbols.SymbolFlagFinal,
	ast.AttrAbstract: symbols.SymbolFlagAbstract,
	ast.AttrNative:   symbols.SymbolFlagNative,
	ast.AttrOverride: symbols.SymbolFlagOverride,
	ast.AttrProxy:    symbols.SymbolFlagProxy,
}

func flagsOf(attrs []ast.Attribute) symbols.SymbolFlags {
	var f symbols.SymbolFlags
	for _, a := range attrs {
		f |= attrFlags[a.Kind]
	}
	return f
}

func (c *Checker) declareTypes(st *unitState) {
	prog := c.builder.Programs.Get(st.program)
	if prog == nil {
		return
	}
	parent := c.host.TopLevel(st.unit.FileID())
	if prog.Package != "" {
		parent = c.host.Package(prog.Package)
	}
	c.store.Programs().Set(st.program, parent)

	for _, id := range prog.Directives {
		dir := c.builder.Directives.Get(id)
		kind := symbols.SymbolClass
		switch dir.Kind {
		case ast.DirClass:
		case ast.DirInterface:
			kind = symbols.SymbolInterface
		default:
			c.store.Directives().Set(id, symbols.NoSymbolID)
			continue
		}

		sym, ok := c.host.DeclareType(kind, dir.Name, parent, dir.NameSpan, ast.VisibilityOf(dir.Attributes, false))
		if !ok {
			c.reportDuplicate(st, dir.Name, dir.NameSpan, sym)
			c.store.Directives().Set(id, symbols.NoSymbolID)
			continue
		}
		c.host.AddFlags(sym, flagsOf(dir.Attributes))
		md := c.processMetadata(st, dir.Attributes)
		c.host.SetMetadata(sym, md)
		if _, optional := meta.Find(md, OptionalMetadata); optional {
			c.reportOptionalMisuse(st, dir.Attributes)
		}
		c.store.Directives().Set(id, sym)
		st.types = append(st.types, &typeState{dir: id, sym: sym, iface: kind == symbols.SymbolInterface})
	}
}

func (c *Checker) declareMembers(st *unitState) {
	for _, ts := range st.types {
		if ts.members {
			continue
		}
		ts.members = true
		dir := c.builder.Directives.Get(ts.dir)
		c.store.Blocks().Set(dir.Block, symbols.NoSymbolID)
		blk := c.builder.Blocks.Get(dir.Block)
		if blk == nil {
			continue
		}
		for _, mid := range blk.Directives {
			c.declareMember(st, ts, mid)
		}
	}
}

func (c *Checker) declareMember(st *unitState, ts *typeState, id ast.DirectiveID) {
	dir := c.builder.Directives.Get(id)
	vis := ast.VisibilityOf(dir.Attributes, ts.iface)
	md := c.processMetadata(st, dir.Attributes)
	flags := flagsOf(dir.Attributes)
	if _, optional := meta.Find(md, OptionalMetadata); optional {
		if ts.iface {
			flags |= symbols.SymbolFlagOptional
		} else {
			c.reportOptionalMisuse(st, dir.Attributes)
		}
	}

	switch dir.Kind {
	case ast.DirFunction:
		fc := c.builder.FnCommons.Get(dir.Common)
		params := make([]symbols.Param, 0, len(fc.Params))
		for _, p := range fc.Params {
			params = append(params, symbols.Param{Kind: p.Kind, Type: c.typeRef(st, p.Type, c.host.AnyType())})
		}
		result := c.typeRef(st, fc.Result, c.host.VoidType())
		method := c.host.NewMethod(dir.Name, ts.sym, dir.NameSpan, vis, params, result)
		c.host.AddFlags(method, flags)
		c.host.SetMetadata(method, md)
		c.store.Directives().Set(id, method)
		c.store.FnCommons().Set(dir.Common, method)

		if dir.FnKind == ast.FnNormal {
			if !c.host.AddMember(ts.sym, method) {
				existing, _ := c.host.Member(ts.sym, dir.Name)
				c.reportDuplicate(st, dir.Name, dir.NameSpan, existing)
			}
			return
		}
		if prop, ok := c.host.AddAccessor(ts.sym, dir.FnKind, method); !ok {
			c.reportDuplicate(st, dir.Name, dir.NameSpan, prop)
		}

	case ast.DirVariable:
		c.store.Directives().Set(id, symbols.NoSymbolID)
		for _, vid := range dir.VarDefs {
			def := c.builder.VarDefs.Get(vid)
			v := c.host.NewVariable(def.Name, ts.sym, def.NameSpan, vis, c.typeRef(st, def.Type, c.host.AnyType()))
			f := flags
			if def.ReadOnly {
				f |= symbols.SymbolFlagReadOnly
			}
			c.host.AddFlags(v, f)
			c.host.SetMetadata(v, md)
			c.store.VarDefs().Set(vid, v)
			if !c.host.AddMember(ts.sym, v) {
				existing, _ := c.host.Member(ts.sym, def.Name)
				c.reportDuplicate(st, def.Name, def.NameSpan, existing)
			}
		}

	default:
		c.store.Directives().Set(id, symbols.NoSymbolID)
	}
}

// typeRef binds a type annotation. An absent annotation yields def; a name
// that is not a type is reported and yields the invalid type.
func (c *Checker) typeRef(st *unitState, id ast.ExprID, def symbols.SymbolID) symbols.SymbolID {
	expr := c.builder.Exprs.Get(id)
	if expr == nil {
		return def
	}
	if expr.Kind != ast.ExprTypeName {
		c.store.Exprs().Set(id, symbols.NoSymbolID)
		return c.host.Invalid()
	}
	sym, ok := c.host.LookupType(expr.Name)
	if !ok {
		diag.ReportError(st.unit.Reporter(), diag.MustResolveToType, expr.Span,
			fmt.Sprintf("%q does not name a type", expr.Name)).Emit()
		c.store.Exprs().Set(id, symbols.NoSymbolID)
		return c.host.Invalid()
	}
	c.store.Exprs().Set(id, sym)
	return sym
}

func (c *Checker) processMetadata(st *unitState, attrs []ast.Attribute) []meta.Metadata {
	ids := ast.FindMetadata(attrs)
	if len(ids) == 0 {
		return nil
	}
	ev := meta.NewEvaluator(st.unit, st.unit.Options().OutputDirectory)
	out := make([]meta.Metadata, 0, len(ids))
	for _, id := range ids {
		out = append(out, ev.Process(c.builder.Metadata.Get(id)))
	}
	return out
}

func (c *Checker) reportDuplicate(st *unitState, name string, span source.Span, existing symbols.SymbolID) {
	b := diag.ReportError(st.unit.Reporter(), diag.DuplicateDefinition, span,
		fmt.Sprintf("%q is already defined", name))
	if prev := c.host.Get(existing); prev != nil && !prev.Span.Empty() {
		b.WithNote(prev.Span, "previous definition is here")
	}
	b.Emit()
}

func (c *Checker) reportOptionalMisuse(st *unitState, attrs []ast.Attribute) {
	for _, a := range attrs {
		if !a.IsMetadata() {
			continue
		}
		if md := c.builder.Metadata.Get(a.Metadata); md != nil && md.Name == OptionalMetadata {
			diag.ReportWarning(st.unit.Reporter(), diag.OptionalOutsideInterface, md.NameSpan,
				"[Optional] only applies to interface members").Emit()
			return
		}
	}
}
