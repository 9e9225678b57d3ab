package symbols

import (
	"strconv"
	"strings"

	"jet/internal/ast"
)

// FunctionType interns a function type; structurally equal types share
// one SymbolID so signatures compare by identity.
func (h *Host) FunctionType(params []Param, result SymbolID) SymbolID {
	var key strings.Builder
	for _, p := range params {
		key.WriteString(strconv.Itoa(int(p.Kind)))
		key.WriteByte(':')
		key.WriteString(strconv.FormatUint(uint64(p.Type), 10))
		key.WriteByte(',')
	}
	key.WriteString("->")
	key.WriteString(strconv.FormatUint(uint64(result), 10))

	k := key.String()
	if id, ok := h.fnTypes[k]; ok {
		return id
	}
	cp := make([]Param, len(params))
	copy(cp, params)
	id := h.syms.Allocate(Symbol{Kind: SymbolFunctionType, Params: cp, Result: result, Flags: SymbolFlagResolved})
	h.fnTypes[k] = id
	return id
}

// Signature returns the function type of a method. Members without a
// callable shape have no signature.
func (h *Host) Signature(member SymbolID) SymbolID {
	s := h.syms.Get(member)
	if s == nil || s.Kind != SymbolMethod {
		return NoSymbolID
	}
	return h.FunctionType(s.Params, s.Result)
}

// Resolved reports whether a symbol is settled. A function type is
// resolved when every parameter and its result are.
func (h *Host) Resolved(id SymbolID) bool {
	s := h.syms.Get(id)
	if s == nil {
		return true
	}
	switch s.Kind {
	case SymbolFunctionType:
		for _, p := range s.Params {
			if !h.Resolved(p.Type) {
				return false
			}
		}
		return h.Resolved(s.Result)
	case SymbolClass, SymbolInterface:
		return s.Flags&SymbolFlagResolved != 0
	}
	return true
}

// TypeString renders a type for diagnostics, e.g. "function(Number, String=): void".
func (h *Host) TypeString(id SymbolID) string {
	s := h.syms.Get(id)
	if s == nil {
		return "<none>"
	}
	if s.Kind != SymbolFunctionType {
		return s.Name
	}
	var b strings.Builder
	b.WriteString("function(")
	for i, p := range s.Params {
		if i > 0 {
			b.WriteString(", ")
		}
		if p.Kind == ast.ParamRest {
			b.WriteString("...")
		}
		b.WriteString(h.TypeString(p.Type))
		if p.Kind == ast.ParamOptional {
			b.WriteByte('=')
		}
	}
	b.WriteString("): ")
	b.WriteString(h.TypeString(s.Result))
	return b.String()
}
