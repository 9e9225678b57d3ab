package ast

import (
	"jet/internal/source"
)

// SimpleVariableDefinition is one binding of a var/const directive.
type SimpleVariableDefinition struct {
	Span     source.Span
	Name     string
	NameSpan source.Span
	Type     ExprID
	ReadOnly bool
}

// Block is a braced directive list, e.g. a class body.
type Block struct {
	Span       source.Span
	Directives []DirectiveID
}

// Program is the root of one compilation unit.
type Program struct {
	Span        source.Span
	Package     string // "" — верхний уровень без пакета
	PackageSpan source.Span
	Directives  []DirectiveID
}

type ParamKind uint8

const (
	ParamRequired ParamKind = iota
	ParamOptional
	ParamRest
)

type Param struct {
	Kind ParamKind
	Name string
	Span source.Span
	Type ExprID
}

// FunctionCommon is the part shared by functions, methods and accessors.
type FunctionCommon struct {
	Span   source.Span
	Params []Param
	Result ExprID // NoExprID — результат не указан
}

type VarDefs struct {
	*Arena[VarDefID, SimpleVariableDefinition]
}

func (v *VarDefs) New(def SimpleVariableDefinition) VarDefID { return v.Allocate(def) }

type Blocks struct{ *Arena[BlockID, Block] }

func (b *Blocks) New(sp source.Span) BlockID { return b.Allocate(Block{Span: sp}) }

type Programs struct{ *Arena[ProgramID, Program] }

func (p *Programs) New(sp source.Span) ProgramID { return p.Allocate(Program{Span: sp}) }

type FnCommons struct{ *Arena[FnCommonID, FunctionCommon] }

func (f *FnCommons) New(fc FunctionCommon) FnCommonID { return f.Allocate(fc) }
