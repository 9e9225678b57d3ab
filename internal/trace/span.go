package trace

import (
	"sync/atomic"
	"time"
)

var (
	seqCounter  atomic.Uint64
	spanCounter atomic.Uint64
)

// NextSeq returns the next global event sequence number.
func NextSeq() uint64 { return seqCounter.Add(1) }

// NextSpanID returns a fresh span ID; 0 is never returned.
func NextSpanID() uint64 { return spanCounter.Add(1) }

// Span is an open begin/end pair. A Span obtained while tracing is off is
// inert: End, WithExtra and ID still work and do nothing.
type Span struct {
	tracer  Tracer
	ev      Event // шаблон для события end
	started time.Time
}

func accepts(t Tracer, scope Scope) bool {
	return t != nil && t.Enabled() && t.Level().ShouldEmit(scope)
}

// Begin opens a span. parent is 0 for a root span.
func Begin(t Tracer, scope Scope, name string, parent uint64) *Span {
	return begin(t, Event{Scope: scope, Name: name, ParentID: parent})
}

// BeginUnit opens a unit-scoped span for the unit at path.
func BeginUnit(t Tracer, path, name string, parent uint64) *Span {
	return begin(t, Event{Scope: ScopeUnit, Name: name, Unit: path, ParentID: parent})
}

func begin(t Tracer, ev Event) *Span {
	if !accepts(t, ev.Scope) {
		return &Span{}
	}
	ev.SpanID = NextSpanID()
	ev.Kind = KindSpanBegin
	ev.Time = time.Now()
	ev.Seq = NextSeq()
	t.Emit(&ev)
	return &Span{tracer: t, ev: ev, started: ev.Time}
}

// End emits the end event with detail and returns the span duration.
func (s *Span) End(detail string) time.Duration {
	if s == nil || s.tracer == nil {
		return 0
	}
	ev := s.ev
	ev.Kind = KindSpanEnd
	ev.Time = time.Now()
	ev.Seq = NextSeq()
	ev.Detail = detail
	s.tracer.Emit(&ev)
	return ev.Time.Sub(s.started)
}

// WithExtra attaches key=value to the end event.
func (s *Span) WithExtra(key, value string) *Span {
	if s == nil || s.tracer == nil {
		return s
	}
	if s.ev.Extra == nil {
		s.ev.Extra = make(map[string]string)
	}
	s.ev.Extra[key] = value
	return s
}

// ID returns the span ID, 0 for inert spans.
func (s *Span) ID() uint64 {
	if s == nil {
		return 0
	}
	return s.ev.SpanID
}

// Point emits an instant event under parent.
func Point(t Tracer, scope Scope, name, detail string, parent uint64) {
	point(t, Event{Scope: scope, Name: name, Detail: detail, ParentID: parent})
}

// Note emits a node-scoped instant event about the unit at path, e.g. the
// outcome of one conformance check.
func Note(t Tracer, path, name, detail string, parent uint64) {
	point(t, Event{Scope: ScopeNode, Name: name, Unit: path, Detail: detail, ParentID: parent})
}

func point(t Tracer, ev Event) {
	if !accepts(t, ev.Scope) {
		return
	}
	ev.Kind = KindPoint
	ev.Time = time.Now()
	ev.Seq = NextSeq()
	t.Emit(&ev)
}
