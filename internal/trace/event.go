package trace

import "time"

// Kind represents the type of trace event.
type Kind uint8

const (
	KindSpanBegin Kind = iota + 1
	KindSpanEnd
	KindPoint
)

func (k Kind) String() string {
	switch k {
	case KindSpanBegin:
		return "begin"
	case KindSpanEnd:
		return "end"
	case KindPoint:
		return "point"
	default:
		return "unknown"
	}
}

// Scope indicates the granularity of the event.
// Lower values are coarser.
type Scope uint8

const (
	ScopeDriver Scope = iota + 1 // one check run
	ScopePass                    // load, declare, one resolve+conform pass
	ScopeUnit                    // per compilation unit
	ScopeNode                    // single declarations and checks
)

func (s Scope) String() string {
	switch s {
	case ScopeDriver:
		return "driver"
	case ScopePass:
		return "pass"
	case ScopeUnit:
		return "unit"
	case ScopeNode:
		return "node"
	default:
		return "unknown"
	}
}

// Event represents a single trace event.
type Event struct {
	Time     time.Time
	Seq      uint64 // global sequence number (monotonic)
	Kind     Kind
	Scope    Scope
	SpanID   uint64
	ParentID uint64 // 0 — корневой span
	Name     string // e.g. "check", "pass 2", "decode", "conform"
	// Unit is the path of the compilation unit the event concerns; empty
	// for driver and pass events.
	Unit   string
	Detail string
	Extra  map[string]string
}

// Concerns reports whether the event belongs to one of units. Events not
// tied to a unit concern every unit.
func (ev *Event) Concerns(units map[string]bool) bool {
	return ev.Unit == "" || units == nil || units[ev.Unit]
}
