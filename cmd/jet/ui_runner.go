package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"jet/internal/driver"
	"jet/internal/ui"
)

// progressUI backs the --ui flag of check.
type progressUI uint8

const (
	progressAuto progressUI = iota
	progressOn
	progressOff
)

var progressUINames = [...]string{"auto", "on", "off"}

func (m progressUI) String() string { return progressUINames[m] }

func (m *progressUI) Set(value string) error {
	value = strings.ToLower(strings.TrimSpace(value))
	if value == "" {
		value = "auto"
	}
	for i, name := range progressUINames {
		if value == name {
			*m = progressUI(i)
			return nil
		}
	}
	return fmt.Errorf("invalid --ui value %q (expected auto|on|off)", value)
}

func (m *progressUI) Type() string { return "mode" }

// conflict rejects --ui on together with output the progress view would
// interleave with.
func (m progressUI) conflict(format string, watch bool) error {
	if m != progressOn {
		return nil
	}
	if format != "pretty" {
		return fmt.Errorf("--ui on requires --format pretty, got %s", format)
	}
	if watch {
		return fmt.Errorf("--ui on cannot be combined with --watch")
	}
	return nil
}

// enabled reports whether one check run renders the progress view. The
// view draws on stderr, so auto needs stderr to be a terminal.
func (m progressUI) enabled(format string, watch, stderrTTY bool) bool {
	switch {
	case m == progressOff, format != "pretty", watch:
		return false
	case m == progressOn:
		return true
	}
	return stderrTTY
}

type checkOutcome struct {
	result *driver.Result
	err    error
}

// runCheckWithUI runs the check in the background while a Bubble Tea
// program renders its progress events.
func runCheckWithUI(ctx context.Context, title string, req driver.Request) (*driver.Result, error) {
	events := make(chan driver.Event, 256)
	outcomeCh := make(chan checkOutcome, 1)

	go func() {
		req.Progress = driver.ChannelSink{Ch: events}
		res, err := driver.Check(ctx, req)
		outcomeCh <- checkOutcome{result: res, err: err}
		close(events)
	}()

	model := ui.NewProgressModel(title, req.Files, events)
	program := tea.NewProgram(model, tea.WithOutput(os.Stderr))
	_, uiErr := program.Run()
	outcome := <-outcomeCh
	if uiErr != nil {
		return outcome.result, uiErr
	}
	return outcome.result, outcome.err
}
