package diag

import (
	"cmp"
	"slices"
	"strings"
)

// Ledger stores the diagnostics of one compilation unit together with
// error/warning counters and the invalidation flag.
//
// A Ledger is owned by the single pass that verifies its unit; it is not
// safe for concurrent mutation.
type Ledger struct {
	items       []Diagnostic
	errors      uint32
	warnings    uint32
	invalidated bool
}

func NewLedger() *Ledger {
	return &Ledger{items: make([]Diagnostic, 0, 8)}
}

// Add records d and updates the counters exactly once.
// Anything that is not a warning invalidates the unit.
func (l *Ledger) Add(d Diagnostic) {
	if d.IsWarning() {
		l.warnings++
	} else {
		l.errors++
		l.invalidated = true
	}
	l.items = append(l.items, d)
}

// Report implements Reporter.
func (l *Ledger) Report(d Diagnostic) { l.Add(d) }

// Diagnostics returns a snapshot copy of the recorded diagnostics.
func (l *Ledger) Diagnostics() []Diagnostic {
	out := make([]Diagnostic, len(l.items))
	copy(out, l.items)
	return out
}

func (l *Ledger) Len() int {
	return len(l.items)
}

func (l *Ledger) ErrorCount() uint32 {
	return l.errors
}

func (l *Ledger) WarningCount() uint32 {
	return l.warnings
}

// Invalidated reports whether at least one error was recorded.
func (l *Ledger) Invalidated() bool {
	return l.invalidated
}

// Sort orders diagnostics by file, start, end, code and message
// so that output does not depend on verifier traversal order.
func (l *Ledger) Sort() {
	SortDiagnostics(l.items)
}

// SortDiagnostics applies the Ledger ordering to an arbitrary slice.
func SortDiagnostics(items []Diagnostic) {
	slices.SortStableFunc(items, func(a, b Diagnostic) int {
		if c := a.Primary.Compare(b.Primary); c != 0 {
			return c
		}
		if c := cmp.Compare(a.Code, b.Code); c != 0 {
			return c
		}
		return strings.Compare(a.Message, b.Message)
	})
}

// Restore rebuilds a ledger from persisted diagnostics, recomputing the
// counters through Add.
func Restore(items []Diagnostic) *Ledger {
	l := NewLedger()
	for _, d := range items {
		l.Add(d)
	}
	return l
}
