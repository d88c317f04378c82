package main

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/sambeau/monkey/pkg/monkey/format"
	"github.com/sambeau/monkey/pkg/monkey/monkey"
)

var (
	errFormatParse    = errors.New("parse errors")
	errFormatComments = errors.New("file contains comments, which formatting would drop")
)

// fmtCommand implements 'monkey fmt [-w] [-l] [-d] <file>...'
func (a *app) fmtCommand(args []string) int {
	fs := flag.NewFlagSet("fmt", flag.ContinueOnError)
	fs.SetOutput(a.stderr)
	writeFlag := fs.Bool("w", false, "Write result to source file instead of stdout")
	diffFlag := fs.Bool("d", false, "Display diffs instead of rewriting files")
	listFlag := fs.Bool("l", false, "List files whose formatting differs from monkey fmt's")

	fs.Usage = func() {
		fmt.Fprint(a.stderr, `monkey fmt - format Monkey source files

Usage:
  monkey fmt [options] <file>...

Options:
  -w    Write result to source file instead of stdout
  -d    Display diffs instead of rewriting files
  -l    List files whose formatting differs from monkey fmt's
`)
	}

	if err := fs.Parse(args); err != nil {
		return 2
	}

	files := fs.Args()
	if len(files) == 0 {
		fmt.Fprintln(a.stderr, "Error: no files specified")
		fs.Usage()
		return 2
	}

	exitCode := 0
	for _, filename := range files {
		if err := a.formatFile(filename, *writeFlag, *diffFlag, *listFlag); err != nil {
			fmt.Fprintf(a.stderr, "Error formatting %s: %v\n", filename, err)
			exitCode = 1
		}
	}
	return exitCode
}

// formatFile formats a single Monkey file
func (a *app) formatFile(filename string, write, diff, list bool) error {
	content, err := os.ReadFile(filename)
	if err != nil {
		return fmt.Errorf("reading file: %w", err)
	}
	source := string(content)

	program, errs := monkey.Parse(source, filename)
	if len(errs) != 0 {
		a.printStructuredErrors(source, errs)
		return errFormatParse
	}
	if format.HasComments(source) {
		return errFormatComments
	}

	formatted := format.FormatProgram(program)
	if err := format.Verify(program, formatted); err != nil {
		return err
	}
	changed := formatted != source

	switch {
	case list:
		if changed {
			fmt.Fprintln(a.stdout, filename)
		}
	case diff:
		if changed {
			a.showDiff(filename, source, formatted)
		}
	case write:
		if changed {
			if err := os.WriteFile(filename, []byte(formatted), 0o644); err != nil {
				return fmt.Errorf("writing file: %w", err)
			}
		}
	default:
		fmt.Fprint(a.stdout, formatted)
	}
	return nil
}

// showDiff prints changed lines, numbered, as -old and +new pairs
func (a *app) showDiff(filename, original, formatted string) {
	fmt.Fprintf(a.stdout, "diff %s\n", filename)

	origLines := strings.Split(original, "\n")
	fmtLines := strings.Split(formatted, "\n")

	for i := range max(len(origLines), len(fmtLines)) {
		var origLine, fmtLine string
		if i < len(origLines) {
			origLine = origLines[i]
		}
		if i < len(fmtLines) {
			fmtLine = fmtLines[i]
		}
		if origLine == fmtLine {
			continue
		}
		if origLine != "" {
			fmt.Fprintf(a.stdout, "-%d: %s\n", i+1, origLine)
		}
		if fmtLine != "" {
			fmt.Fprintf(a.stdout, "+%d: %s\n", i+1, fmtLine)
		}
	}
}
