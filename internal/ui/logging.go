package ui

import (
	"fmt"
	"io"
	"os"
	"sync"
)

// Logger writes leveled lines to stderr so page output on stdout stays
// clean.
type Logger struct {
	Debug bool

	mu  sync.Mutex
	out io.Writer
}

func NewLogger(debug bool) *Logger {
	return &Logger{Debug: debug, out: os.Stderr}
}

func (l *Logger) printf(prefix, format string, args ...any) {
	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprintf(l.out, prefix+format, args...)
}

func (l *Logger) Debugf(format string, args ...any) {
	if l.Debug {
		l.printf("[DEBUG] ", format, args...)
	}
}

func (l *Logger) Infof(format string, args ...any) {
	l.printf("[INFO] ", format, args...)
}

func (l *Logger) Warnf(format string, args ...any) {
	l.printf("[WARN] ", format, args...)
}

func (l *Logger) Errorf(format string, args ...any) {
	l.printf("[ERROR] ", format, args...)
}
