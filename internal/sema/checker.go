package sema

import (
	"slices"

	"jet/internal/ast"
	"jet/internal/binding"
	"jet/internal/conform"
	"jet/internal/source"
	"jet/internal/symbols"
	"jet/internal/trace"
	"jet/internal/unit"
)

// Checker runs the semantic passes of one program: declaration, supertype
// resolution and interface conformance. All units share the Host, the
// Store and the Builder; each unit's diagnostics go to its own ledger.
//
// Checker is not safe for concurrent use. Passes run sequentially.
type Checker struct {
	host     *symbols.Host
	store    *binding.Store
	builder  *ast.Builder
	verifier *conform.Verifier

	units map[source.FileID]*unitState
	order []source.FileID

	tracer      trace.Tracer
	traceParent uint64
}

type unitState struct {
	unit    *unit.CompilationUnit
	program ast.ProgramID
	types   []*typeState
	checks  []*conformCheck
	// findings reported for this unit, kept for the cache
	findings []conform.Finding
}

type typeState struct {
	dir     ast.DirectiveID
	sym     symbols.SymbolID
	iface   bool
	linked  bool
	members bool
}

type conformCheck struct {
	class symbols.SymbolID
	iface symbols.SymbolID
	expr  ast.ExprID
}

func NewChecker(host *symbols.Host, store *binding.Store, b *ast.Builder) *Checker {
	return &Checker{
		host:     host,
		store:    store,
		builder:  b,
		verifier: conform.NewVerifier(host),
		units:    make(map[source.FileID]*unitState),
		tracer:   trace.Nop,
	}
}

// Trace sends node events of the following passes to t under parent.
func (c *Checker) Trace(t trace.Tracer, parent uint64) {
	if t == nil {
		t = trace.Nop
	}
	c.tracer, c.traceParent = t, parent
}

func (c *Checker) Host() *symbols.Host { return c.host }

func (c *Checker) Store() *binding.Store { return c.store }

func (c *Checker) Builder() *ast.Builder { return c.builder }

// Add registers a parsed unit. Units are declared in the order they are added.
func (c *Checker) Add(u *unit.CompilationUnit, prog ast.ProgramID) {
	file := u.FileID()
	if _, ok := c.units[file]; !ok {
		c.order = append(c.order, file)
	}
	c.units[file] = &unitState{unit: u, program: prog}
}

// Units returns the registered units in declaration order.
func (c *Checker) Units() []*unit.CompilationUnit {
	out := make([]*unit.CompilationUnit, 0, len(c.order))
	for _, f := range c.order {
		out = append(out, c.units[f].unit)
	}
	return out
}

// Findings returns the conformance findings reported for file.
func (c *Checker) Findings(file source.FileID) []conform.Finding {
	st, ok := c.units[file]
	if !ok {
		return nil
	}
	return slices.Clone(st.findings)
}

// DeclareAll declares the types of every unit, then their members. Member
// types may reference any type of the program, so both steps run over all
// units before anything is resolved.
func (c *Checker) DeclareAll() {
	for _, f := range c.order {
		c.declareTypes(c.units[f])
	}
	for _, f := range c.order {
		c.declareMembers(c.units[f])
	}
}

// Pass runs one resolution and conformance round and reports how many
// items settled. Progress of zero with pending work means the program
// cannot converge.
func (c *Checker) Pass() int {
	progress := 0
	for _, f := range c.order {
		progress += c.resolve(c.units[f])
	}
	for _, f := range c.order {
		progress += c.conform(c.units[f])
	}
	return progress
}

// Pending counts unresolved types and deferred conformance checks.
func (c *Checker) Pending() int {
	n := 0
	for _, st := range c.units {
		n += len(st.checks)
		for _, ts := range st.types {
			if !c.host.HasFlag(ts.sym, symbols.SymbolFlagResolved) {
				n++
			}
		}
	}
	return n
}
