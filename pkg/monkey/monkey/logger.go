package monkey

import (
	"io"
	"strings"
	"sync"

	"github.com/sambeau/monkey/pkg/monkey/evaluator"
)

// Logger is where puts sends its output.
type Logger = evaluator.Logger

// WriterLogger sends program output to w.
func WriterLogger(w io.Writer) Logger {
	return evaluator.NewWriterLogger(w)
}

type discardLogger struct{}

func (discardLogger) Log(...any)     {}
func (discardLogger) LogLine(...any) {}

// NullLogger drops program output.
func NullLogger() Logger {
	return discardLogger{}
}

// BufferedLogger keeps program output in memory. Text written with Log
// stays pending until the next LogLine completes it.
type BufferedLogger struct {
	mu      sync.Mutex
	lines   []string
	pending strings.Builder
}

func NewBufferedLogger() *BufferedLogger {
	return &BufferedLogger{}
}

func (b *BufferedLogger) Log(values ...any) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.pending.WriteString(evaluator.JoinValues(values...))
}

func (b *BufferedLogger) LogLine(values ...any) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.pending.WriteString(evaluator.JoinValues(values...))
	b.lines = append(b.lines, b.pending.String())
	b.pending.Reset()
}

// Lines returns a copy of the completed lines.
func (b *BufferedLogger) Lines() []string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]string(nil), b.lines...)
}

// String is every completed line, newline-terminated, followed by any
// pending text.
func (b *BufferedLogger) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	var sb strings.Builder
	for _, line := range b.lines {
		sb.WriteString(line)
		sb.WriteByte('\n')
	}
	sb.WriteString(b.pending.String())
	return sb.String()
}

func (b *BufferedLogger) Reset() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.lines = nil
	b.pending.Reset()
}
