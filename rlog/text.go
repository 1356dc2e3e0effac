package rlog

import (
	"fmt"
	"io"
	"sync"
	"sync/atomic"
	"time"
)

// TextLogger writes plain-text lines to an io.Writer, grounded on
// eventloop's WriterLogger: a minimum level gate plus a single mutex
// around formatting so concurrent callers don't interleave lines.
type TextLogger struct {
	out   io.Writer
	level atomic.Int32
	mu    sync.Mutex
}

// NewTextLogger returns a TextLogger writing to out, gated at minLevel.
func NewTextLogger(out io.Writer, minLevel Level) *TextLogger {
	l := &TextLogger{out: out}
	l.level.Store(int32(minLevel))
	return l
}

// SetLevel changes the minimum level logged.
func (l *TextLogger) SetLevel(level Level) { l.level.Store(int32(level)) }

func (l *TextLogger) Enabled(level Level) bool { return level >= Level(l.level.Load()) }

func (l *TextLogger) Log(e Entry) {
	if !l.Enabled(e.Level) {
		return
	}
	if e.Timestamp.IsZero() {
		e.Timestamp = time.Now()
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	fmt.Fprintf(l.out, "[%s] %s [%-8s] %s", e.Level, e.Timestamp.Format("15:04:05.000"), e.Category, e.Message)
	for k, v := range e.Fields {
		fmt.Fprintf(l.out, " %s=%v", k, v)
	}
	if e.Err != nil {
		fmt.Fprintf(l.out, " err=%v", e.Err)
	}
	fmt.Fprintln(l.out)
}
