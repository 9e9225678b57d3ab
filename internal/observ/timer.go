// Package observ measures how long each stage of a check run takes.
package observ

import (
	"fmt"
	"strings"
	"sync"
	"time"
)

// Phase is one timed stage. Phases sharing a Group, such as the
// verification passes, are folded into one line by Summary.
type Phase struct {
	Name  string
	Group string
	Start time.Time
	Dur   time.Duration
	Note  string
}

// Timer records phases in start order. Safe for concurrent use.
type Timer struct {
	mu     sync.Mutex
	phases []Phase
}

func NewTimer() *Timer { return &Timer{phases: make([]Phase, 0, 8)} }

// Begin starts an ungrouped phase and returns its handle for End.
func (t *Timer) Begin(name string) int { return t.BeginIn("", name) }

// BeginIn starts a phase belonging to group.
func (t *Timer) BeginIn(group, name string) int {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.phases = append(t.phases, Phase{Name: name, Group: group, Start: time.Now()})
	return len(t.phases) - 1
}

// End finishes the phase; unknown handles are ignored.
func (t *Timer) End(idx int, note string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if idx < 0 || idx >= len(t.phases) {
		return
	}
	p := &t.phases[idx]
	p.Dur = time.Since(p.Start)
	p.Note = note
}

// PhaseReport is a phase in serializable form.
type PhaseReport struct {
	Name       string  `json:"name"`
	Group      string  `json:"group,omitempty"`
	DurationMS float64 `json:"duration_ms"`
	Note       string  `json:"note,omitempty"`
}

type Report struct {
	TotalMS float64       `json:"total_ms"`
	Phases  []PhaseReport `json:"phases"`
}

// Report lists every phase. The total is the sum of phase durations.
func (t *Timer) Report() Report {
	t.mu.Lock()
	defer t.mu.Unlock()
	if len(t.phases) == 0 {
		return Report{}
	}
	r := Report{Phases: make([]PhaseReport, len(t.phases))}
	var total time.Duration
	for i, p := range t.phases {
		total += p.Dur
		r.Phases[i] = PhaseReport{Name: p.Name, Group: p.Group, DurationMS: millis(p.Dur), Note: p.Note}
	}
	r.TotalMS = millis(total)
	return r
}

// Summary renders the phases as an aligned table for --timings. A group
// becomes one line with its phase count and its slowest member.
func (t *Timer) Summary() string {
	r := t.Report()
	var sb strings.Builder
	sb.WriteString("timings:\n")
	line := func(name string, ms float64, note string) {
		fmt.Fprintf(&sb, "  %-20s %7.2f ms", name, ms)
		if note != "" {
			sb.WriteString("  // " + note)
		}
		sb.WriteByte('\n')
	}
	for i := 0; i < len(r.Phases); {
		p := r.Phases[i]
		if p.Group == "" {
			line(p.Name, p.DurationMS, p.Note)
			i++
			continue
		}
		j, sum, slow := i, 0.0, p
		for ; j < len(r.Phases) && r.Phases[j].Group == p.Group; j++ {
			sum += r.Phases[j].DurationMS
			if r.Phases[j].DurationMS > slow.DurationMS {
				slow = r.Phases[j]
			}
		}
		if j-i == 1 {
			line(p.Name, p.DurationMS, p.Note)
		} else {
			line(p.Group, sum, fmt.Sprintf("%d phases, slowest %s %.2f ms", j-i, slow.Name, slow.DurationMS))
		}
		i = j
	}
	line("total", r.TotalMS, "")
	return sb.String()
}

func millis(d time.Duration) float64 {
	return float64(d) / float64(time.Millisecond)
}
