// Package ui renders interactive check progress in a terminal.
package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"jet/internal/driver"
)

// phase is where one unit is in the check.
type phase uint8

const (
	phaseQueued phase = iota
	phaseLoading
	phaseLoaded
	phaseDeclaring
	phaseVerifying
	phaseClean  // проверен без ошибок
	phaseFailed // проверен, есть ошибки
)

var phaseInfo = [...]struct {
	label  string
	weight float64
	color  string
}{
	phaseQueued:    {"queued", 0, "7"},
	phaseLoading:   {"loading", 0.1, "6"},
	phaseLoaded:    {"loaded", 0.3, "6"},
	phaseDeclaring: {"declaring", 0.5, "6"},
	phaseVerifying: {"verifying", 0.8, "6"},
	phaseClean:     {"ok", 1, "2"},
	phaseFailed:    {"failed", 1, "1"},
}

func (p phase) String() string { return phaseInfo[p].label }

type unitRow struct {
	path     string
	phase    phase
	errors   uint32
	warnings uint32
}

type progressModel struct {
	title   string
	events  <-chan driver.Event
	spinner spinner.Model
	bar     progress.Model
	rows    []unitRow
	index   map[string]int
	stage   driver.Stage
	pass    int
	pending int
	width   int
	done    bool
}

type eventMsg driver.Event
type doneMsg struct{}

// NewProgressModel returns a Bubble Tea model showing one row per unit.
// The model quits when events is closed.
func NewProgressModel(title string, files []string, events <-chan driver.Event) tea.Model {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("6"))

	bar := progress.New(progress.WithDefaultGradient())
	bar.Width = 76

	m := &progressModel{
		title:   title,
		events:  events,
		spinner: sp,
		bar:     bar,
		rows:    make([]unitRow, len(files)),
		index:   make(map[string]int, len(files)),
		width:   80,
	}
	for i, file := range files {
		m.rows[i] = unitRow{path: file}
		m.index[file] = i
	}
	return m
}

func (m *progressModel) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.next())
}

func (m *progressModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case eventMsg:
		return m, tea.Batch(m.apply(driver.Event(msg)), m.next())
	case doneMsg:
		m.done = true
		return m, tea.Quit
	case spinner.TickMsg:
		if m.done {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	case tea.WindowSizeMsg:
		if msg.Width > 0 {
			m.width = msg.Width
			m.bar.Width = msg.Width - 4
		}
	case progress.FrameMsg:
		bm, cmd := m.bar.Update(msg)
		m.bar = bm.(progress.Model)
		return m, cmd
	}
	return m, nil
}

func (m *progressModel) next() tea.Cmd {
	return func() tea.Msg {
		ev, ok := <-m.events
		if !ok {
			return doneMsg{}
		}
		return eventMsg(ev)
	}
}

func (m *progressModel) apply(ev driver.Event) tea.Cmd {
	if ev.File == "" {
		m.stage = ev.Stage
		if ev.Stage == driver.StageVerify && ev.Pass > 0 {
			m.pass = ev.Pass
			if ev.Status == driver.StatusDone {
				m.pending = ev.Pending
			}
		}
		// общая стадия продвигает все загруженные, но не завершённые units
		target := phaseDeclaring
		if ev.Stage == driver.StageVerify {
			target = phaseVerifying
		}
		if ev.Stage != driver.StageLoad && ev.Status == driver.StatusWorking {
			for i := range m.rows {
				if p := m.rows[i].phase; p >= phaseLoaded && p < target {
					m.rows[i].phase = target
				}
			}
		}
		return m.bar.SetPercent(m.percent())
	}
	i, ok := m.index[ev.File]
	if !ok {
		return nil
	}
	row := &m.rows[i]
	switch {
	case ev.Stage == driver.StageLoad && ev.Status == driver.StatusWorking:
		row.phase = phaseLoading
	case ev.Stage == driver.StageLoad && ev.Status == driver.StatusDone:
		row.phase = phaseLoaded
	case ev.Stage == driver.StageVerify && ev.Status == driver.StatusWorking:
		row.phase = phaseVerifying
	case ev.Status == driver.StatusDone || ev.Status == driver.StatusError:
		row.errors, row.warnings = ev.Errors, ev.Warnings
		row.phase = phaseClean
		if ev.Status == driver.StatusError || ev.Errors > 0 {
			row.phase = phaseFailed
		}
	}
	return m.bar.SetPercent(m.percent())
}

func (m *progressModel) percent() float64 {
	if len(m.rows) == 0 {
		return 0
	}
	total := 0.0
	for _, row := range m.rows {
		total += phaseInfo[row.phase].weight
	}
	return total / float64(len(m.rows))
}

func (m *progressModel) header() string {
	h := m.title
	switch {
	case m.stage == driver.StageVerify && m.pass > 0 && m.pending > 0:
		h += fmt.Sprintf(" (verifying, pass %d, %d pending)", m.pass, m.pending)
	case m.stage == driver.StageVerify && m.pass > 0:
		h += fmt.Sprintf(" (verifying, pass %d)", m.pass)
	case m.stage == driver.StageDeclare:
		h += " (declaring)"
	case m.stage == driver.StageLoad:
		h += " (loading)"
	}
	return h
}

func (m *progressModel) View() string {
	if len(m.rows) == 0 {
		return ""
	}
	header := m.header()
	if m.done {
		header = "done: " + header
	} else {
		header = m.spinner.View() + " " + header
	}

	var b strings.Builder
	b.WriteString(lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("7")).Render(header))
	b.WriteString("\n\n")

	const labelWidth = 10
	nameWidth := max(m.width-labelWidth-20, 20)
	finished, failed := 0, 0
	for _, row := range m.rows {
		style := lipgloss.NewStyle().Foreground(lipgloss.Color(phaseInfo[row.phase].color))
		fmt.Fprintf(&b, "  %s %s%s\n",
			style.Render(fmt.Sprintf("%*s", labelWidth, row.phase)),
			truncate(row.path, nameWidth),
			counts(row))
		switch row.phase {
		case phaseClean:
			finished++
		case phaseFailed:
			finished++
			failed++
		}
	}

	fmt.Fprintf(&b, "\n  %d/%d units verified", finished, len(m.rows))
	if failed > 0 {
		fmt.Fprintf(&b, ", %d with errors", failed)
	}
	b.WriteString("\n")
	if m.done {
		b.WriteString(m.bar.ViewAs(1.0))
	} else {
		b.WriteString(m.bar.View())
	}
	b.WriteString("\n")
	return b.String()
}

func counts(row unitRow) string {
	var parts []string
	if row.errors > 0 {
		parts = append(parts, plural(row.errors, "error"))
	}
	if row.warnings > 0 {
		parts = append(parts, plural(row.warnings, "warning"))
	}
	if len(parts) == 0 {
		return ""
	}
	return "  (" + strings.Join(parts, ", ") + ")"
}

func plural(n uint32, word string) string {
	if n == 1 {
		return "1 " + word
	}
	return fmt.Sprintf("%d %ss", n, word)
}

func truncate(value string, width int) string {
	if width <= 0 || runewidth.StringWidth(value) <= width {
		return value
	}
	if width <= 3 {
		return runewidth.Truncate(value, width, "")
	}
	return runewidth.Truncate(value, width-3, "...")
}
