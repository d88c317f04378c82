// Package repl implements the interactive read-eval-print loop.
package repl

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"fortio.org/log"
	"github.com/mattn/go-runewidth"
	"github.com/peterh/liner"

	"github.com/sambeau/monkey/pkg/monkey/evaluator"
	"github.com/sambeau/monkey/pkg/monkey/lexer"
	"github.com/sambeau/monkey/pkg/monkey/monkey"
	"github.com/sambeau/monkey/pkg/monkey/transcript"
)

const PROMPT = ">> "
const CONTINUATION_PROMPT = ".. "

const MONKEY_FACE = `
            __,__
   .--.  .-"     "-.  .--.
  / .. \/  .-. .-.  \/ .. \
 | |  '|  /   Y   \  |'  | |
 | \   \  \ 0 | 0 /  /   / |
  \ '- ,\.-"""""""-./, -' /
   ''-' /_   ^ ^   _\ '-''
       |  \._   _./  |
       \   \ '~' /   /
        '._ '-=-' _.'
           '-----'
`

// Recorder receives every evaluated input.
type Recorder interface {
	Record(ctx context.Context, e transcript.Entry) error
}

// Options configures a REPL session.
type Options struct {
	Prompt             string
	ContinuationPrompt string
	HistoryFile        string // Empty disables history
	Banner             bool
	Version            string

	// Interactive selects liner line editing; otherwise input is scanned
	// line by line from the reader passed to Start.
	Interactive bool

	Recorder  Recorder
	SessionID string
}

// lineReader is the subset of liner the loop needs.
type lineReader interface {
	Prompt(prompt string) (string, error)
	AppendHistory(item string)
	Close() error
}

// Start runs the loop until quit, exit or end of input.
func Start(in io.Reader, out io.Writer, opts Options) error {
	if opts.Prompt == "" {
		opts.Prompt = PROMPT
	}
	if opts.ContinuationPrompt == "" {
		opts.ContinuationPrompt = CONTINUATION_PROMPT
	}

	session := monkey.NewSession(monkey.WithLogger(monkey.WriterLogger(out)))

	var reader lineReader
	if opts.Interactive {
		reader = newLinerReader(session.Environment(), opts.HistoryFile)
	} else {
		reader = &scanReader{scanner: bufio.NewScanner(in), out: out}
	}
	defer reader.Close()

	if opts.Banner {
		fmt.Fprint(out, MONKEY_FACE)
		if opts.Version != "" {
			fmt.Fprintln(out, "monkey", opts.Version)
		}
		fmt.Fprintln(out, "Type 'quit' or Ctrl+D to exit, ':help' for REPL commands")
		fmt.Fprintln(out, "")
	}

	r := &repl{out: out, session: session, opts: opts}
	return r.loop(reader)
}

type repl struct {
	out     io.Writer
	session *monkey.Session
	opts    Options
}

func (r *repl) loop(reader lineReader) error {
	var inputBuffer strings.Builder

	for {
		prompt := r.opts.Prompt
		if inputBuffer.Len() > 0 {
			prompt = r.opts.ContinuationPrompt
		}

		input, err := reader.Prompt(prompt)
		if err != nil {
			if err == liner.ErrPromptAborted {
				if inputBuffer.Len() > 0 {
					fmt.Fprintln(r.out, "^C (cleared)")
				} else {
					fmt.Fprintln(r.out, "^C")
				}
				inputBuffer.Reset()
				continue
			}
			if err == io.EOF {
				fmt.Fprintln(r.out)
				return nil
			}
			return fmt.Errorf("reading input: %w", err)
		}

		trimmed := strings.TrimSpace(input)
		if inputBuffer.Len() == 0 {
			if trimmed == "quit" || trimmed == "exit" {
				fmt.Fprintln(r.out)
				return nil
			}
			if strings.HasPrefix(trimmed, ":") {
				r.handleCommand(trimmed)
				continue
			}
			if trimmed == "" {
				continue
			}
		}

		if inputBuffer.Len() > 0 {
			inputBuffer.WriteString("\n")
		}
		inputBuffer.WriteString(input)

		source := inputBuffer.String()
		if needsMoreInput(source) {
			continue
		}
		inputBuffer.Reset()

		reader.AppendHistory(source)
		r.evalAndPrint(source)
	}
}

func (r *repl) evalAndPrint(source string) {
	result := r.session.Eval(source)

	var output string
	kind := transcript.KindValue

	switch {
	case result.HasParseErrors():
		kind = transcript.KindParseError
		printParseErrors(r.out, result.Diagnostics)
		output = strings.Join(result.Diagnostics, "\n")
	case result.RuntimeError() != nil:
		kind = transcript.KindError
		errObj := result.RuntimeError()
		fmt.Fprintln(r.out, errObj.Inspect())
		for _, hint := range errObj.Hints {
			fmt.Fprintln(r.out, "  hint: "+hint)
		}
		output = errObj.Message
	default:
		output = result.Inspect()
		fmt.Fprintln(r.out, output)
	}

	if r.opts.Recorder != nil {
		entry := transcript.Entry{
			Session: r.opts.SessionID,
			Input:   source,
			Output:  output,
			Kind:    kind,
		}
		if err := r.opts.Recorder.Record(context.Background(), entry); err != nil {
			log.Warnf("transcript: %v", err)
		}
	}
}

// handleCommand handles REPL meta-commands that start with ':'
func (r *repl) handleCommand(cmd string) {
	switch cmd {
	case ":help", ":h", ":?":
		fmt.Fprintln(r.out, "REPL Commands:")
		fmt.Fprintln(r.out, "  :help, :h, :?   Show this help")
		fmt.Fprintln(r.out, "  :env            Show variables in scope")
		fmt.Fprintln(r.out, "  :clear          Clear all user variables")
		fmt.Fprintln(r.out, "  quit, exit      Exit the REPL")

	case ":env":
		printEnvironment(r.session.Environment(), r.out)

	case ":clear":
		r.session.Reset()
		fmt.Fprintln(r.out, "Environment cleared")

	default:
		fmt.Fprintf(r.out, "Unknown command: %s (type :help for commands)\n", cmd)
	}
}

// printEnvironment displays the bindings of the top-level environment
func printEnvironment(env *evaluator.Environment, out io.Writer) {
	names := env.LocalNames()
	if len(names) == 0 {
		fmt.Fprintln(out, "(no user variables)")
		return
	}

	for _, name := range names {
		obj, _ := env.Get(name)
		value := obj.Inspect()

		// indent continuation lines of function bodies
		if strings.Contains(value, "\n") {
			lines := strings.Split(strings.TrimRight(value, "\n"), "\n")
			for i := 1; i < len(lines); i++ {
				lines[i] = "  " + lines[i]
			}
			value = strings.Join(lines, "\n")
		} else {
			value = runewidth.Truncate(value, envValueWidth, "...")
		}

		fmt.Fprintf(out, "  %s: %s = %s\n", name, obj.Type(), value)
	}
}

// envValueWidth is the widest single-line value :env prints, in columns.
const envValueWidth = 60

func printParseErrors(out io.Writer, diagnostics []string) {
	for _, msg := range diagnostics {
		io.WriteString(out, "\t"+msg+"\n")
	}
}

// completionWords returns keywords and every name visible from env.
func completionWords(env *evaluator.Environment) []string {
	seen := make(map[string]bool)
	var words []string
	for _, w := range append(lexer.Keywords(), env.AllIdentifiers()...) {
		if !seen[w] {
			seen[w] = true
			words = append(words, w)
		}
	}
	sort.Strings(words)
	return words
}

// filterCompletions returns full-line completions for the word being typed.
func filterCompletions(line string, words []string) []string {
	if strings.TrimSpace(line) == "" {
		return nil
	}
	if last := line[len(line)-1]; last == ' ' || last == '\t' {
		return nil
	}

	start := len(line)
	for start > 0 && isIdentByte(line[start-1]) {
		start--
	}
	prefix, partial := line[:start], line[start:]
	if partial == "" {
		return nil
	}

	var matches []string
	for _, word := range words {
		if strings.HasPrefix(word, partial) {
			matches = append(matches, prefix+word)
		}
	}
	return matches
}

func isIdentByte(ch byte) bool {
	return ch == '_' || (ch >= 'a' && ch <= 'z') || (ch >= 'A' && ch <= 'Z') || (ch >= '0' && ch <= '9')
}

// needsMoreInput reports whether braces or parentheses are still open.
// String contents and // comments are ignored.
func needsMoreInput(input string) bool {
	braceCount := 0
	parenCount := 0
	inString := false

	for i := 0; i < len(input); i++ {
		ch := input[i]

		if ch == '"' {
			inString = !inString
			continue
		}
		if inString {
			continue
		}

		if ch == '/' && i+1 < len(input) && input[i+1] == '/' {
			for i < len(input) && input[i] != '\n' {
				i++
			}
			continue
		}

		switch ch {
		case '{':
			braceCount++
		case '}':
			braceCount--
		case '(':
			parenCount++
		case ')':
			parenCount--
		}
	}

	return braceCount > 0 || parenCount > 0
}

// linerReader adapts liner with history persistence.
type linerReader struct {
	*liner.State
	historyFile string
}

func newLinerReader(env *evaluator.Environment, historyFile string) *linerReader {
	line := liner.NewLiner()
	line.SetCtrlCAborts(true)
	line.SetCompleter(func(l string) []string {
		return filterCompletions(l, completionWords(env))
	})

	if historyFile != "" {
		if f, err := os.Open(historyFile); err == nil {
			if _, err := line.ReadHistory(f); err != nil {
				log.LogVf("repl: reading history: %v", err)
			}
			f.Close()
		}
	}
	return &linerReader{State: line, historyFile: historyFile}
}

func (l *linerReader) Close() error {
	if l.historyFile != "" {
		if f, err := os.Create(l.historyFile); err == nil {
			if _, err := l.WriteHistory(f); err != nil {
				log.Warnf("repl: writing history: %v", err)
			}
			f.Close()
		} else {
			log.Warnf("repl: saving history: %v", err)
		}
	}
	return l.State.Close()
}

// scanReader reads plain lines when no terminal is attached.
type scanReader struct {
	scanner *bufio.Scanner
	out     io.Writer
}

func (s *scanReader) Prompt(prompt string) (string, error) {
	io.WriteString(s.out, prompt)
	if !s.scanner.Scan() {
		if err := s.scanner.Err(); err != nil {
			return "", err
		}
		return "", io.EOF
	}
	return s.scanner.Text(), nil
}

func (s *scanReader) AppendHistory(string) {}

func (s *scanReader) Close() error { return nil }
