package trace

import (
	"bufio"
	"io"
	"sync"
)

// StreamTracer writes formatted events to w as they arrive. Output is
// buffered; Flush pushes it out. A failed write does not stop the check:
// the first error is kept and returned from Flush and Close.
type StreamTracer struct {
	mu     sync.Mutex
	dst    io.Writer
	bw     *bufio.Writer
	level  Level
	format Format
	err    error
}

func NewStreamTracer(w io.Writer, level Level, format Format) *StreamTracer {
	return &StreamTracer{dst: w, bw: bufio.NewWriter(w), level: level, format: format}
}

func (t *StreamTracer) Emit(ev *Event) {
	if !t.level.ShouldEmit(ev.Scope) {
		return
	}
	if ev.Seq == 0 {
		ev.Seq = NextSeq()
	}
	data := FormatEvent(ev, t.format)

	t.mu.Lock()
	defer t.mu.Unlock()
	if t.err != nil {
		return
	}
	if _, err := t.bw.Write(data); err != nil {
		t.err = err
		return
	}
	// фазы видны сразу, узлы сбрасываются пачками
	if ev.Scope <= ScopePass {
		t.err = t.bw.Flush()
	}
}

func (t *StreamTracer) Flush() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.err == nil {
		t.err = t.bw.Flush()
	}
	return t.err
}

// Close flushes and closes the destination if it is an io.Closer.
func (t *StreamTracer) Close() error {
	err := t.Flush()
	if closer, ok := t.dst.(io.Closer); ok {
		if cerr := closer.Close(); err == nil {
			err = cerr
		}
	}
	return err
}

func (t *StreamTracer) Level() Level { return t.level }

func (t *StreamTracer) Enabled() bool { return t.level > LevelOff }
