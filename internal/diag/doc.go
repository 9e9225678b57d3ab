// Package diag defines the diagnostic model shared by every verification phase.
//
// # Data model
//
// Diagnostic is the central record:
//
//   - Severity – Warning or Error; only errors invalidate a unit.
//   - Code – compact numeric identifier (see codes.go) with stable string form.
//   - Message – human oriented text; keep it short and actionable.
//   - Primary span – the canonical source.Span pointing to the issue.
//   - Notes – optional secondary spans/messages for additional context.
//
// # Ledger
//
// Every compilation unit owns one Ledger. Ledger.Add is the only way a
// diagnostic enters it; the error and warning counters and the invalidation
// flag are updated there and nowhere else, so ErrorCount()+WarningCount()
// always equals Len(). Nothing is ever removed.
//
// Insertion order follows verifier traversal and is not a stable contract;
// call Sort before rendering or comparing output.
//
// # Emitting diagnostics
//
// Phases depend on the Reporter interface rather than on a Ledger. A
// ReportBuilder (ReportError/ReportWarning) allows chaining WithNote before
// Emit.
//
// Package diag does not perform any formatting, IO or CLI integration beyond
// the single-line golden form used by tests; rendering lives in
// internal/diagfmt.
package diag
