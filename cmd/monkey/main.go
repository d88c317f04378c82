package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"time"

	"fortio.org/log"
	"github.com/peterh/liner"

	"github.com/sambeau/monkey/config"
	merrors "github.com/sambeau/monkey/pkg/monkey/errors"
	"github.com/sambeau/monkey/pkg/monkey/evaluator"
	"github.com/sambeau/monkey/pkg/monkey/monkey"
	"github.com/sambeau/monkey/pkg/monkey/repl"
	"github.com/sambeau/monkey/pkg/monkey/transcript"
	"github.com/sambeau/monkey/pkg/monkey/watch"
)

// Version is set at compile time via -ldflags
var Version = "0.1.0"

func main() {
	a := &app{
		stdin:  os.Stdin,
		stdout: os.Stdout,
		stderr: os.Stderr,
		getenv: os.Getenv,
	}
	os.Exit(a.run(os.Args[1:]))
}

// app carries the process streams so the CLI can be driven from tests.
type app struct {
	stdin  io.Reader
	stdout io.Writer
	stderr io.Writer
	getenv func(string) string

	cfg *config.Config
}

func (a *app) run(args []string) int {
	fs := flag.NewFlagSet("monkey", flag.ContinueOnError)
	fs.SetOutput(a.stderr)
	fs.Usage = func() { a.printHelp(a.stderr) }

	var (
		helpFlag     = fs.Bool("h", false, "Show help message")
		helpLongFlag = fs.Bool("help", false, "Show help message")
		versionFlag  = fs.Bool("V", false, "Show version information")
		versionLong  = fs.Bool("version", false, "Show version information")
		verboseFlag  = fs.Bool("v", false, "Verbose logging")
		logLevelFlag = fs.String("log-level", "", "Log level (debug, verbose, info, warning, error)")
		configFlag   = fs.String("config", "", "Path to monkey.yaml")
		evalFlag     = fs.String("e", "", "Evaluate code string")
		evalLongFlag = fs.String("eval", "", "Evaluate code string")
		checkFlag    = fs.Bool("check", false, "Check syntax without executing")
		watchFlag    = fs.Bool("watch", false, "Re-run the script whenever it changes")
	)

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		return 2
	}

	if *helpFlag || *helpLongFlag {
		a.printHelp(a.stdout)
		return 0
	}
	if *versionFlag || *versionLong {
		fmt.Fprintf(a.stdout, "monkey version %s\n", Version)
		return 0
	}

	cfg, err := config.Load(*configFlag, a.getenv)
	if err != nil {
		fmt.Fprintf(a.stderr, "Error: %v\n", err)
		return 2
	}
	a.cfg = cfg

	level := cfg.LogLevel
	if *logLevelFlag != "" {
		level = *logLevelFlag
	}
	if err := log.SetLogLevelStr(level); err != nil {
		fmt.Fprintf(a.stderr, "Error: invalid log level %q\n", level)
		return 2
	}
	if *verboseFlag {
		log.SetLogLevel(log.Verbose)
	}

	rest := fs.Args()
	if len(rest) > 0 {
		switch rest[0] {
		case "ast":
			return a.astCommand(rest[1:])
		case "describe":
			return a.describeCommand(rest[1:])
		case "fmt":
			return a.fmtCommand(rest[1:])
		case "transcript":
			return a.transcriptCommand(rest[1:])
		}
	}

	evalCode := *evalFlag
	if evalCode == "" {
		evalCode = *evalLongFlag
	}

	switch {
	case evalCode != "":
		return a.executeInline(evalCode)
	case *checkFlag:
		if len(rest) == 0 {
			fmt.Fprintln(a.stderr, "Error: --check requires at least one file")
			return 2
		}
		return a.checkFiles(rest)
	case *watchFlag:
		if len(rest) != 1 {
			fmt.Fprintln(a.stderr, "Error: --watch requires exactly one file")
			return 2
		}
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
		defer stop()
		return a.watchFile(ctx, rest[0])
	case len(rest) > 0:
		if err := a.executeFile(rest[0]); err != nil {
			return 1
		}
		return 0
	default:
		return a.startREPL()
	}
}

func (a *app) printHelp(w io.Writer) {
	fmt.Fprintf(w, `monkey - Monkey language interpreter version %s

Usage:
  monkey [options] [file]
  monkey -e "code"
  monkey --check <file>...
  monkey --watch <file>
  monkey ast [-e code | file]
  monkey fmt [-w] [-l] [-d] <file>...
  monkey describe [--json | --html | --markdown] <topic>
  monkey transcript list [--since when] [--limit n] [--locale l] [--session id]
  monkey transcript export <file[.gz|.zst]>
  monkey transcript clear

Commands:
  ast                   Print the parsed program in canonical form
  fmt                   Reformat source files with canonical layout
  describe <topic>      Show help for a builtin, keyword, operator or type
  transcript            List, export or clear recorded REPL sessions

Options:
  -h, --help            Show this help message
  -V, --version         Show version information
  -v                    Verbose logging
  --log-level <level>   debug, verbose, info, warning or error
  --config <path>       Configuration file (default: $MONKEY_CONFIG, ./monkey.yaml,
                        ~/.config/monkey/monkey.yaml)
  -e, --eval <code>     Evaluate code string and print the result
  --check               Check syntax without executing (exit 1 on errors)
  --watch               Re-run the script whenever it is saved

Examples:
  monkey                          Start interactive REPL
  monkey script.monkey            Execute a script
  monkey -e "1 + 2 * 3"           Evaluate inline code (outputs: 7)
  monkey ast -e "-a * b"          Print ((-a) * b)
  monkey --check *.monkey         Check multiple files
  monkey fmt -l *.monkey          List files that need formatting
  monkey describe builtins        List all builtin functions
  monkey transcript list --since 2h
`, Version)
}

// executeInline evaluates inline code provided via -e flag
func (a *app) executeInline(code string) int {
	result := monkey.Eval(code, monkey.WithFilename("<eval>"), monkey.WithLogger(monkey.WriterLogger(a.stdout)))

	if result.HasParseErrors() {
		a.printStructuredErrors(code, result.ParseErrors)
		return 1
	}
	if errObj := result.RuntimeError(); errObj != nil {
		a.printRuntimeError("<eval>", code, errObj)
		return 1
	}

	fmt.Fprintln(a.stdout, result.Inspect())
	return 0
}

// checkFiles checks the syntax of one or more files without executing them
func (a *app) checkFiles(files []string) int {
	hasErrors := false

	for _, filename := range files {
		content, err := os.ReadFile(filename)
		if err != nil {
			fmt.Fprintf(a.stderr, "Error reading %s: %v\n", filename, err)
			return 2
		}

		if _, errs := monkey.Parse(string(content), filename); len(errs) != 0 {
			a.printStructuredErrors(string(content), errs)
			hasErrors = true
		}
	}

	if hasErrors {
		return 1
	}
	return 0
}

// executeFile reads and runs a script. Diagnostics are written to stderr
// before the error is returned.
func (a *app) executeFile(filename string) error {
	content, err := os.ReadFile(filename)
	if err != nil {
		fmt.Fprintf(a.stderr, "Error reading file '%s': %v\n", filename, err)
		return err
	}

	source := string(content)
	result := monkey.Eval(source, monkey.WithFilename(filename), monkey.WithLogger(monkey.WriterLogger(a.stdout)))

	if result.HasParseErrors() {
		a.printStructuredErrors(source, result.ParseErrors)
		return fmt.Errorf("%s: %d parse errors", filename, len(result.ParseErrors))
	}
	if errObj := result.RuntimeError(); errObj != nil {
		a.printRuntimeError(filename, source, errObj)
		return fmt.Errorf("%s: %s", filename, errObj.Message)
	}

	if result.Value != nil && result.Value.Type() != evaluator.NULL_OBJ {
		fmt.Fprintln(a.stdout, result.Inspect())
	}
	return nil
}

// watchFile re-runs filename on every save until ctx is cancelled.
// [WATCH] status lines go to stdout beside the script's own output.
func (a *app) watchFile(ctx context.Context, filename string) int {
	w, err := watch.New(filename, func() error {
		// diagnostics were already printed
		a.executeFile(filename)
		return nil
	}, watch.Options{
		Debounce: a.cfg.Watch.Debounce,
		Stdout:   a.stdout,
		Stderr:   a.stderr,
	})
	if err != nil {
		fmt.Fprintf(a.stderr, "Error: %v\n", err)
		return 2
	}
	defer w.Close()

	if err := w.Run(ctx); err != nil {
		fmt.Fprintf(a.stderr, "Error: %v\n", err)
		return 1
	}
	return 0
}

func (a *app) startREPL() int {
	opts := repl.Options{
		Prompt:             a.cfg.REPL.Prompt,
		ContinuationPrompt: a.cfg.REPL.ContinuationPrompt,
		HistoryFile:        a.cfg.REPL.HistoryFile,
		Banner:             a.cfg.REPL.Banner,
		Version:            Version,
		Interactive:        a.isTerminal(),
		SessionID:          strconv.FormatInt(time.Now().UnixNano(), 36),
	}

	if a.cfg.Transcript.Enabled {
		store, err := a.openTranscript()
		if err != nil {
			log.Warnf("transcript disabled: %v", err)
		} else {
			defer store.Close()
			opts.Recorder = store
		}
	}

	if err := repl.Start(a.stdin, a.stdout, opts); err != nil {
		fmt.Fprintf(a.stderr, "Error: %v\n", err)
		return 1
	}
	return 0
}

// isTerminal reports whether line editing can be used.
func (a *app) isTerminal() bool {
	f, ok := a.stdin.(*os.File)
	if !ok || !liner.TerminalSupported() {
		return false
	}
	fi, err := f.Stat()
	if err != nil {
		return false
	}
	return fi.Mode()&os.ModeCharDevice != 0
}

func (a *app) openTranscript() (*transcript.Store, error) {
	store, err := transcript.Open(a.cfg.Transcript.Driver, a.cfg.Transcript.DSN)
	if err != nil {
		return nil, err
	}
	store.SetMaxEntries(a.cfg.Transcript.MaxEntries)
	return store, nil
}

// printStructuredErrors prints parser errors with source context
func (a *app) printStructuredErrors(source string, errs []*merrors.MonkeyError) {
	lines := strings.Split(source, "\n")

	for _, err := range errs {
		fmt.Fprintln(a.stderr, err.PrettyString())
		a.printSourceContext(lines, err.Line, err.Column)
	}
}

// printRuntimeError prints a runtime error with source context
func (a *app) printRuntimeError(filename string, source string, err *evaluator.Error) {
	fmt.Fprintln(a.stderr, err.ToMonkeyError().WithFile(filename).PrettyString())
	if err.Line > 0 {
		a.printSourceContext(strings.Split(source, "\n"), err.Line, err.Column)
	}
}

// printSourceContext prints the source line and error pointer
func (a *app) printSourceContext(lines []string, lineNum, colNum int) {
	if lineNum <= 0 || lineNum > len(lines) {
		return
	}

	sourceLine := lines[lineNum-1]

	// columns trimmed from the left, tabs count as 8
	trimCount := 0
	for i := 0; i < len(sourceLine); i++ {
		if sourceLine[i] == '\t' {
			trimCount += 8
		} else if sourceLine[i] == ' ' {
			trimCount++
		} else {
			break
		}
	}

	fmt.Fprintf(a.stderr, "    %s\n", strings.TrimLeft(sourceLine, " \t"))

	if colNum > 0 {
		visualCol := 0
		for i := 0; i < colNum-1 && i < len(sourceLine); i++ {
			if sourceLine[i] == '\t' {
				visualCol += 8
			} else {
				visualCol++
			}
		}

		adjustedCol := max(visualCol-trimCount, 0)
		fmt.Fprintf(a.stderr, "    %s^\n", strings.Repeat(" ", adjustedCol))
	}
}
