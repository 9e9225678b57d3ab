package ast

import (
	"jet/internal/source"
)

type ExprKind uint8

const (
	// ExprInvalidated marks an expression that failed to parse.
	ExprInvalidated ExprKind = iota
	// ExprTypeName is a reference to a type by name.
	ExprTypeName
)

type Expr struct {
	Kind ExprKind
	Span source.Span
	Name string
}

type Exprs struct{ *Arena[ExprID, Expr] }

func NewExprs(capHint uint) *Exprs {
	return &Exprs{NewArena[ExprID, Expr](capHint)}
}

func (e *Exprs) New(kind ExprKind, sp source.Span, name string) ExprID {
	return e.Allocate(Expr{Kind: kind, Span: sp, Name: name})
}
