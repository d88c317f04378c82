package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/sambeau/monkey/pkg/monkey/help"
	"github.com/sambeau/monkey/pkg/monkey/monkey"
	"github.com/sambeau/monkey/pkg/monkey/transcript"
)

// astCommand implements 'monkey ast [-e code | file]'
func (a *app) astCommand(args []string) int {
	fs := flag.NewFlagSet("ast", flag.ContinueOnError)
	fs.SetOutput(a.stderr)
	evalFlag := fs.String("e", "", "Parse code string")
	if err := fs.Parse(args); err != nil {
		return 2
	}

	source, filename := *evalFlag, "<eval>"
	if source == "" {
		if fs.NArg() != 1 {
			fmt.Fprintln(a.stderr, "Usage: monkey ast [-e code | file]")
			return 2
		}
		filename = fs.Arg(0)
		content, err := os.ReadFile(filename)
		if err != nil {
			fmt.Fprintf(a.stderr, "Error reading %s: %v\n", filename, err)
			return 2
		}
		source = string(content)
	}

	program, errs := monkey.Parse(source, filename)
	if len(errs) != 0 {
		a.printStructuredErrors(source, errs)
		return 1
	}
	fmt.Fprintln(a.stdout, program.String())
	return 0
}

// describeCommand implements 'monkey describe [--json | --html] <topic>'
func (a *app) describeCommand(args []string) int {
	format := "text"
	var topic string

	for _, arg := range args {
		switch arg {
		case "--json":
			format = "json"
		case "--html":
			format = "html"
		case "--markdown", "--md":
			format = "markdown"
		default:
			if !strings.HasPrefix(arg, "--") {
				topic = arg
			}
		}
	}

	if topic == "" {
		fmt.Fprintln(a.stderr, `Usage: monkey describe [--json | --html | --markdown] <topic>

Topics:
  builtins           List all builtin functions by category
  operators          List all operators
  keywords           List all reserved words
  types              List all runtime types
  <builtin>          Help for a specific builtin (len, puts, ...)
  <keyword>          Help for a reserved word (let, fn, ...)
  <operator>         Help for an operator (+, ==, ...)
  <type>             Help for a type (integer, string, ...)

Examples:
  monkey describe builtins
  monkey describe len
  monkey describe --json operators
  monkey describe --html types > types.html`)
		return 1
	}

	result, err := help.DescribeTopic(topic)
	if err != nil {
		fmt.Fprintf(a.stderr, "Error: %v\n", err)
		return 1
	}

	switch format {
	case "json":
		data, err := help.FormatJSON(result)
		if err != nil {
			fmt.Fprintf(a.stderr, "Error formatting JSON: %v\n", err)
			return 1
		}
		fmt.Fprintln(a.stdout, string(data))
	case "html":
		html, err := help.FormatHTML(result)
		if err != nil {
			fmt.Fprintf(a.stderr, "Error: %v\n", err)
			return 1
		}
		fmt.Fprint(a.stdout, html)
	case "markdown":
		fmt.Fprint(a.stdout, help.FormatMarkdown(result))
	default:
		fmt.Fprint(a.stdout, help.FormatText(result, 80))
	}
	return 0
}

// transcriptCommand implements 'monkey transcript list|export|clear'
func (a *app) transcriptCommand(args []string) int {
	if len(args) == 0 {
		fmt.Fprintln(a.stderr, "Usage: monkey transcript <list|export|clear> [options]")
		return 2
	}

	fs := flag.NewFlagSet("transcript "+args[0], flag.ContinueOnError)
	fs.SetOutput(a.stderr)
	sinceFlag := fs.String("since", "", "Only entries after this time (date or duration like 2h)")
	limitFlag := fs.Int("limit", 0, "Maximum number of entries (most recent)")
	localeFlag := fs.String("locale", a.cfg.Transcript.Locale, "Locale for timestamps")
	sessionFlag := fs.String("session", "", "Only entries from this session")
	if err := fs.Parse(args[1:]); err != nil {
		return 2
	}

	since, err := transcript.ParseSince(*sinceFlag, time.Now())
	if err != nil {
		fmt.Fprintf(a.stderr, "Error: %v\n", err)
		return 2
	}
	filter := transcript.Filter{Since: since, Limit: *limitFlag, Session: *sessionFlag}

	store, err := a.openTranscript()
	if err != nil {
		fmt.Fprintf(a.stderr, "Error: %v\n", err)
		return 2
	}
	defer store.Close()

	ctx := context.Background()

	switch args[0] {
	case "list":
		entries, err := store.List(ctx, filter)
		if err != nil {
			fmt.Fprintf(a.stderr, "Error: %v\n", err)
			return 1
		}
		for _, e := range entries {
			fmt.Fprintf(a.stdout, "%s  [%s]  %s\n", transcript.FormatTime(e.Time, *localeFlag), e.Session, e.Input)
			for _, line := range strings.Split(e.Output, "\n") {
				prefix := "  => "
				if e.Kind != transcript.KindValue {
					prefix = "  !! "
				}
				fmt.Fprintf(a.stdout, "%s%s\n", prefix, line)
			}
		}
		return 0

	case "export":
		if fs.NArg() != 1 {
			fmt.Fprintln(a.stderr, "Usage: monkey transcript export [--since when] [--limit n] <file[.gz|.zst]>")
			return 2
		}
		path := fs.Arg(0)
		entries, err := store.List(ctx, filter)
		if err != nil {
			fmt.Fprintf(a.stderr, "Error: %v\n", err)
			return 1
		}

		f, err := os.Create(path)
		if err != nil {
			fmt.Fprintf(a.stderr, "Error: %v\n", err)
			return 2
		}
		format := transcript.FormatForPath(path)
		if err := transcript.Export(f, entries, format); err != nil {
			f.Close()
			fmt.Fprintf(a.stderr, "Error: %v\n", err)
			return 1
		}
		if err := f.Close(); err != nil {
			fmt.Fprintf(a.stderr, "Error: %v\n", err)
			return 1
		}
		fmt.Fprintf(a.stdout, "exported %d entries to %s (%s)\n", len(entries), path, format)
		return 0

	case "clear":
		n, err := store.Clear(ctx)
		if err != nil {
			fmt.Fprintf(a.stderr, "Error: %v\n", err)
			return 1
		}
		fmt.Fprintf(a.stdout, "cleared %d entries\n", n)
		return 0

	default:
		fmt.Fprintf(a.stderr, "Unknown transcript command: %s\n", args[0])
		return 2
	}
}
