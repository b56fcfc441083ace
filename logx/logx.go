// Package logx provides the four-level logger taxonomy (INFO, WARNING,
// ERROR, FATAL) that every component in this module reports through, built
// on top of charmbracelet/log so log lines carry the same structured,
// leveled, timestamped shape across the Machine, Mixer and Capture threads.
package logx

import (
	"io"
	"os"
	"sync"

	"github.com/charmbracelet/log"
)

// Level is the logger's severity taxonomy.
type Level int

const (
	INFO Level = iota
	WARNING
	ERROR
	FATAL
)

var (
	mu      sync.Mutex
	base    = log.NewWithOptions(os.Stderr, log.Options{ReportTimestamp: true})
	flushWs []io.Writer
)

// RegisterFlushable records an open file/writer that a FATAL log should
// best-effort flush before the process exits (capture files, savestate
// handles, the audio ring's backing file when WAV-dumping is enabled).
func RegisterFlushable(w io.Writer) {
	mu.Lock()
	defer mu.Unlock()
	flushWs = append(flushWs, w)
}

func UnregisterFlushable(w io.Writer) {
	mu.Lock()
	defer mu.Unlock()
	for i, f := range flushWs {
		if f == w {
			flushWs = append(flushWs[:i], flushWs[i+1:]...)
			return
		}
	}
}

type Logger struct {
	tag string
}

// For returns a tagged logger, e.g. logx.For("MIXER"), mirroring the
// LOG_MIXER/LOG_MACHINE component tags of the original logger taxonomy.
func For(tag string) *Logger {
	return &Logger{tag: tag}
}

func (l *Logger) Info(msg string, kv ...any) {
	base.With("component", l.tag).Info(msg, kv...)
}

func (l *Logger) Warning(msg string, kv ...any) {
	base.With("component", l.tag).Warn(msg, kv...)
}

func (l *Logger) Error(msg string, kv ...any) {
	base.With("component", l.tag).Error(msg, kv...)
}

// Fatal logs the message, flushes every registered writer on a best-effort
// basis, and terminates the process. FATAL always terminates.
func (l *Logger) Fatal(msg string, kv ...any) {
	base.With("component", l.tag).Error("FATAL: "+msg, kv...)
	flushAll()
	os.Exit(1)
}

func flushAll() {
	mu.Lock()
	ws := append([]io.Writer(nil), flushWs...)
	mu.Unlock()
	for _, w := range ws {
		if f, ok := w.(interface{ Sync() error }); ok {
			_ = f.Sync()
		}
		if f, ok := w.(interface{ Flush() error }); ok {
			_ = f.Flush()
		}
	}
}

// SetOutput redirects the base logger, used by tests to capture output.
func SetOutput(w io.Writer) {
	mu.Lock()
	defer mu.Unlock()
	base = log.NewWithOptions(w, log.Options{ReportTimestamp: false})
}
