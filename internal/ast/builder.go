package ast

import (
	"jet/internal/source"
)

type Hints struct{ Programs, Directives, Exprs uint }

// Builder owns the arenas of every node family. Node handles are unique
// across all units built with the same Builder.
type Builder struct {
	Programs   *Programs
	Directives *Directives
	Blocks     *Blocks
	VarDefs    *VarDefs
	FnCommons  *FnCommons
	Exprs      *Exprs
	Metadata   *Metadatas
}

func NewBuilder(hints Hints) *Builder {
	if hints.Programs == 0 {
		hints.Programs = 1 << 4
	}
	if hints.Directives == 0 {
		hints.Directives = 1 << 7
	}
	if hints.Exprs == 0 {
		hints.Exprs = 1 << 8
	}
	return &Builder{
		Programs:   &Programs{NewArena[ProgramID, Program](hints.Programs)},
		Directives: NewDirectives(hints.Directives),
		Blocks:     &Blocks{NewArena[BlockID, Block](hints.Programs * 4)},
		VarDefs:    &VarDefs{NewArena[VarDefID, SimpleVariableDefinition](hints.Directives)},
		FnCommons:  &FnCommons{NewArena[FnCommonID, FunctionCommon](hints.Directives)},
		Exprs:      NewExprs(hints.Exprs),
		Metadata:   NewMetadatas(hints.Programs * 4),
	}
}

func (b *Builder) NewProgram(sp source.Span) ProgramID {
	return b.Programs.New(sp)
}

func (b *Builder) NewTypeName(sp source.Span, name string) ExprID {
	return b.Exprs.New(ExprTypeName, sp, name)
}

func (b *Builder) NewDirective(dir Directive) DirectiveID {
	return b.Directives.New(dir)
}

func (b *Builder) PushDirective(prog ProgramID, dir DirectiveID) {
	p := b.Programs.Get(prog)
	p.Directives = append(p.Directives, dir)
}

func (b *Builder) PushBlockDirective(block BlockID, dir DirectiveID) {
	blk := b.Blocks.Get(block)
	blk.Directives = append(blk.Directives, dir)
}

// Metadata attributes are allocated together with their raw tree.
func (b *Builder) NewMetadataAttribute(md UnprocessedMetadata) Attribute {
	id := b.Metadata.New(md)
	return Attribute{Kind: AttrMetadata, Span: md.Span, Metadata: id}
}

// Unit lookups used to partition per-unit state by node. The zero handle
// and handles this builder never allocated report false.

func (b *Builder) ExprUnit(id ExprID) (source.FileID, bool) {
	return spanFile(b.Exprs.Get(id), func(e *Expr) source.Span { return e.Span })
}

func (b *Builder) DirectiveUnit(id DirectiveID) (source.FileID, bool) {
	return spanFile(b.Directives.Get(id), func(d *Directive) source.Span { return d.Span })
}

func (b *Builder) VarDefUnit(id VarDefID) (source.FileID, bool) {
	return spanFile(b.VarDefs.Get(id), func(v *SimpleVariableDefinition) source.Span { return v.Span })
}

func (b *Builder) BlockUnit(id BlockID) (source.FileID, bool) {
	return spanFile(b.Blocks.Get(id), func(blk *Block) source.Span { return blk.Span })
}

func (b *Builder) ProgramUnit(id ProgramID) (source.FileID, bool) {
	return spanFile(b.Programs.Get(id), func(p *Program) source.Span { return p.Span })
}

func (b *Builder) FnCommonUnit(id FnCommonID) (source.FileID, bool) {
	return spanFile(b.FnCommons.Get(id), func(f *FunctionCommon) source.Span { return f.Span })
}

func spanFile[T any](node *T, span func(*T) source.Span) (source.FileID, bool) {
	if node == nil {
		return 0, false
	}
	return span(node).File, true
}
