package evaluator

import (
	"fmt"
	"io"
	"os"
	"strings"
)

// Logger receives program output such as puts.
type Logger interface {
	Log(values ...any)
	LogLine(values ...any)
}

type writerLogger struct {
	w io.Writer
}

func (l writerLogger) Log(values ...any) {
	io.WriteString(l.w, JoinValues(values...))
}

func (l writerLogger) LogLine(values ...any) {
	io.WriteString(l.w, JoinValues(values...)+"\n")
}

// NewWriterLogger sends program output to w.
func NewWriterLogger(w io.Writer) Logger {
	return writerLogger{w: w}
}

// DefaultLogger writes to stdout.
var DefaultLogger Logger = writerLogger{w: os.Stdout}

// JoinValues renders values separated by single spaces.
func JoinValues(values ...any) string {
	return strings.TrimSuffix(fmt.Sprintln(values...), "\n")
}
