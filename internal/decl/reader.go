// Package decl reads declaration snapshots (.jetd) into syntax trees.
//
// A snapshot is a TOML document listing the interfaces and classes of one
// compilation unit together with their modifiers, metadata and members.
// Structural problems are reported on the unit; the returned program only
// holds the declarations that could be built.
package decl

import (
	"cmp"
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/BurntSushi/toml"

	"jet/internal/ast"
	"jet/internal/diag"
	"jet/internal/source"
	"jet/internal/unit"
)

// Ext is the file extension of declaration snapshots.
const Ext = ".jetd"

type reader struct {
	u   *unit.CompilationUnit
	b   *ast.Builder
	loc *locator
}

// Decoded is a snapshot whose text was decoded but whose nodes are not
// allocated yet. Decoding touches only its own unit and may run in
// parallel; Build allocates into the shared Builder and must not.
type Decoded struct {
	unit *unit.CompilationUnit
	loc  *locator
	file fileDecl
	ok   bool
}

// Read parses the unit text and allocates its nodes in b.
func Read(u *unit.CompilationUnit, b *ast.Builder) ast.ProgramID {
	return Decode(u).Build(b)
}

// Decode collects comments and decodes the snapshot text. Syntax errors
// and unknown keys are reported on the unit.
func Decode(u *unit.CompilationUnit) *Decoded {
	text := string(u.Text())
	d := &Decoded{unit: u, loc: &locator{file: u.FileID(), text: text}}
	if u.MarkTokenized() {
		collectComments(u, d.loc)
	}

	md, err := toml.Decode(text, &d.file)
	if err != nil {
		d.reportDecodeError(err)
		return d
	}
	for _, key := range md.Undecoded() {
		sp, _ := d.loc.quotedKey(key[len(key)-1])
		diag.ReportError(u.Reporter(), diag.IOMalformedSnapshot, sp,
			fmt.Sprintf("unknown key %q", key.String())).Emit()
	}
	d.ok = true
	return d
}

// Build allocates the program; a snapshot that failed to decode yields an
// empty program.
func (d *Decoded) Build(b *ast.Builder) ast.ProgramID {
	loc := d.loc
	progID := b.NewProgram(loc.span(0, len(loc.text)))
	if !d.ok {
		return progID
	}
	r := &reader{u: d.unit, b: b, loc: loc}

	prog := b.Programs.Get(progID)
	if d.file.Package != "" {
		prog.Package = d.file.Package
		prog.PackageSpan, _ = loc.keyValue(0, "package", d.file.Package, loc.span(0, 0))
	}

	r.readTypes(progID, "interface", ast.DirInterface, d.file.Interfaces)
	r.readTypes(progID, "class", ast.DirClass, d.file.Classes)

	// интерфейсы и классы читаются раздельно, возвращаем исходный порядок
	slices.SortStableFunc(prog.Directives, r.bySpan)
	return progID
}

func (r *reader) bySpan(a, c ast.DirectiveID) int {
	return cmp.Compare(r.b.Directives.Get(a).Span.Start, r.b.Directives.Get(c).Span.Start)
}

func (d *Decoded) reportDecodeError(err error) {
	var perr toml.ParseError
	if errors.As(err, &perr) {
		start := min(perr.Position.Start, len(d.loc.text))
		end := min(start+perr.Position.Len, len(d.loc.text))
		diag.ReportError(d.unit.Reporter(), diag.IOMalformedSnapshot, d.loc.span(start, end),
			"malformed declaration snapshot: "+perr.Message).Emit()
		return
	}
	diag.ReportError(d.unit.Reporter(), diag.IOMalformedSnapshot, d.loc.span(0, 0),
		"malformed declaration snapshot: "+err.Error()).Emit()
}

func (r *reader) readTypes(prog ast.ProgramID, header string, kind ast.DirectiveKind, decls []typeDecl) {
	secs := r.loc.sections(0, len(r.loc.text), header)
	for i := range decls {
		sec := section{start: len(r.loc.text), end: len(r.loc.text)}
		if i < len(secs) {
			sec = secs[i]
		}
		if id, ok := r.readType(header, kind, &decls[i], sec); ok {
			r.b.PushDirective(prog, id)
		}
	}
}

func (r *reader) readType(header string, kind ast.DirectiveKind, td *typeDecl, sec section) (ast.DirectiveID, bool) {
	span := r.loc.trimmed(sec)
	headerSpan := r.loc.span(sec.start, min(sec.start+len(header)+4, sec.end))
	if td.Name == "" {
		diag.ReportError(r.u.Reporter(), diag.ExpectedIdentifier, headerSpan,
			fmt.Sprintf("expected a name for %s", kind)).Emit()
		return ast.NoDirectiveID, false
	}
	nameSpan, cursor := r.loc.keyValue(sec.start, "name", td.Name, headerSpan)
	cur := &cursor

	dir := ast.Directive{
		Kind:     kind,
		Span:     span,
		Name:     td.Name,
		NameSpan: nameSpan,
	}
	dir.Attributes = r.readAttributes(cur, td.Metadata, td.Modifiers, nameSpan)

	switch kind {
	case ast.DirInterface:
		dir.Extends = r.typeNames(sec.start, td.Extends, nameSpan)
		for _, name := range td.Implements {
			sp, _ := r.loc.quoted(sec.start, name, nameSpan)
			diag.ReportError(r.u.Reporter(), diag.NotAllowedHere, sp,
				"an interface cannot implement; use extends").Emit()
		}
	case ast.DirClass:
		dir.Implements = r.typeNames(sec.start, td.Implements, nameSpan)
		for _, name := range td.Extends {
			sp, _ := r.loc.quoted(sec.start, name, nameSpan)
			diag.ReportError(r.u.Reporter(), diag.NotAllowedHere, sp,
				"class inheritance is not supported in declaration snapshots").Emit()
		}
	}

	dir.Block = r.b.Blocks.New(span)
	r.readMembers(header, kind, td, sec, dir.Block, nameSpan)
	return r.b.NewDirective(dir), true
}

func (r *reader) typeNames(from int, names []string, fallback source.Span) []ast.ExprID {
	out := make([]ast.ExprID, 0, len(names))
	cursor := from
	for _, name := range names {
		var sp source.Span
		sp, cursor = r.loc.quoted(cursor, name, fallback)
		if name == "" {
			out = append(out, r.b.Exprs.New(ast.ExprInvalidated, sp, ""))
			diag.ReportError(r.u.Reporter(), diag.ExpectedIdentifier, sp, "expected a type name").Emit()
			continue
		}
		out = append(out, r.b.NewTypeName(sp, name))
	}
	return out
}

func (r *reader) typeRef(from int, key, name string, fallback source.Span) ast.ExprID {
	if name == "" {
		return ast.NoExprID
	}
	sp, _ := r.loc.keyValue(from, key, name, fallback)
	return r.b.NewTypeName(sp, name)
}

// readAttributes builds the ordered attribute list: metadata first, then
// modifiers in the order they are written.
func (r *reader) readAttributes(cursor *int, metas []metaDecl, modifiers []string, fallback source.Span) []ast.Attribute {
	var attrs []ast.Attribute
	modCursor := *cursor
	for i := range metas {
		attrs = append(attrs, r.b.NewMetadataAttribute(r.readMetadata(cursor, &metas[i], fallback)))
	}
	for _, m := range modifiers {
		sp, next := r.loc.quoted(modCursor, m, source.Span{})
		if sp == (source.Span{}) {
			// не нашли в тексте: синтетический span нужной длины
			sp = source.Span{File: fallback.File, Start: fallback.Start, End: fallback.Start + uint32(len(m))} // #nosec G115 -- modifier names are short
		} else {
			modCursor = next
		}
		attr, ok := ast.AttributeFromIdentifier(m, sp)
		switch {
		case !ok:
			diag.ReportError(r.u.Reporter(), diag.UnallowedAttribute, sp,
				fmt.Sprintf("attribute %q is not allowed here", m)).Emit()
		case ast.IsDuplicateVisibility(attrs, attr):
			diag.ReportError(r.u.Reporter(), diag.DuplicateVisibility, sp,
				"duplicate visibility modifier").Emit()
		case ast.Has(attrs, attr):
			diag.ReportError(r.u.Reporter(), diag.DuplicateAttribute, sp,
				fmt.Sprintf("duplicate attribute %q", m)).Emit()
		default:
			attrs = append(attrs, attr)
		}
	}
	return attrs
}

func (r *reader) readMetadata(cursor *int, md *metaDecl, fallback source.Span) ast.UnprocessedMetadata {
	nameSpan, next := r.loc.keyValue(*cursor, "name", md.Name, fallback)
	*cursor = next
	out := ast.UnprocessedMetadata{
		Span:     nameSpan,
		Name:     md.Name,
		NameSpan: nameSpan,
	}
	if md.Name == "" {
		diag.ReportError(r.u.Reporter(), diag.UnrecognizedMetadataSyntax, nameSpan,
			"metadata requires a name").Emit()
	}
	if md.Entries != nil {
		out.HasEntries = true
		out.Entries = r.readEntries(cursor, *md.Entries, nameSpan)
		for _, e := range out.Entries {
			out.Span = out.Span.Cover(e.Span)
		}
	}
	return out
}

func (r *reader) readEntries(cursor *int, entries []entryDecl, fallback source.Span) []ast.UnprocessedMetadataEntry {
	out := make([]ast.UnprocessedMetadataEntry, 0, len(entries))
	for i := range entries {
		if e, ok := r.readEntry(cursor, &entries[i], fallback); ok {
			out = append(out, e)
		}
	}
	return out
}

func (r *reader) readEntry(cursor *int, ed *entryDecl, fallback source.Span) (ast.UnprocessedMetadataEntry, bool) {
	var e ast.UnprocessedMetadataEntry
	anchor := fallback
	if ed.Key != nil {
		e.HasKey = true
		e.Key = *ed.Key
		e.KeySpan, *cursor = r.loc.keyValue(*cursor, "key", *ed.Key, fallback)
		anchor = e.KeySpan
	}

	set := 0
	for _, present := range []bool{ed.Ident != nil, ed.String != nil, ed.Number != nil, ed.Bool != nil, ed.File != nil, ed.List != nil} {
		if present {
			set++
		}
	}
	if set != 1 {
		msg := "metadata entry has no value"
		if set > 1 {
			msg = "metadata entry has more than one value"
		}
		diag.ReportError(r.u.Reporter(), diag.UnrecognizedMetadataSyntax, anchor, msg).Emit()
		return e, false
	}

	v := &e.Value
	switch {
	case ed.Ident != nil:
		v.Kind, v.Text = ast.MetaIdentString, *ed.Ident
		v.Span, *cursor = r.loc.keyValue(*cursor, "ident", *ed.Ident, anchor)
	case ed.String != nil:
		v.Kind, v.Text = ast.MetaString, *ed.String
		v.Span, *cursor = r.loc.keyValue(*cursor, "string", *ed.String, anchor)
	case ed.Number != nil:
		v.Kind, v.Text = ast.MetaNumber, strings.TrimSpace(*ed.Number)
		v.Span, *cursor = r.loc.keyValue(*cursor, "number", *ed.Number, anchor)
	case ed.Bool != nil:
		v.Kind, v.Bool = ast.MetaBool, *ed.Bool
		v.Span, *cursor = r.loc.bare(*cursor, "bool", fmt.Sprint(*ed.Bool), anchor)
	case ed.File != nil:
		v.Kind, v.Text, v.Output = ast.MetaFile, *ed.File, ed.Output
		v.Span, *cursor = r.loc.keyValue(*cursor, "file", *ed.File, anchor)
	case ed.List != nil:
		v.Kind = ast.MetaList
		v.Span = anchor
		v.List = r.readEntries(cursor, *ed.List, anchor)
		for _, item := range v.List {
			v.Span = v.Span.Cover(item.Span)
		}
	}
	e.Span = v.Span
	if e.HasKey {
		e.Span = e.KeySpan.Cover(v.Span)
	}
	return e, true
}
