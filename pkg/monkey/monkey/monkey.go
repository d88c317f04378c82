// Package monkey is the embedding API: it runs source text through the
// lexer, parser and evaluator against an environment that persists for the
// life of a Session.
package monkey

import (
	"github.com/sambeau/monkey/pkg/monkey/ast"
	merrors "github.com/sambeau/monkey/pkg/monkey/errors"
	"github.com/sambeau/monkey/pkg/monkey/evaluator"
	"github.com/sambeau/monkey/pkg/monkey/lexer"
	"github.com/sambeau/monkey/pkg/monkey/parser"
)

// Result is the outcome of evaluating one unit of source.
type Result struct {
	// Value is nil when the source had parse errors and was not run.
	Value       evaluator.Object
	Diagnostics []string
	ParseErrors []*merrors.MonkeyError
	Program     *ast.Program
}

// HasParseErrors reports whether the source failed to parse.
func (r *Result) HasParseErrors() bool {
	return len(r.ParseErrors) > 0
}

// RuntimeError returns the error the evaluation ended with, if any.
func (r *Result) RuntimeError() *evaluator.Error {
	if errObj, ok := r.Value.(*evaluator.Error); ok {
		return errObj
	}
	return nil
}

// Inspect renders the value the way the REPL prints it.
func (r *Result) Inspect() string {
	if r.Value == nil {
		return ""
	}
	return r.Value.Inspect()
}

// Option configures a Session.
type Option func(*Session)

// WithLogger sends puts output to logger.
func WithLogger(logger Logger) Option {
	return func(s *Session) {
		s.env.Logger = logger
	}
}

// WithFilename sets the name used in diagnostics.
func WithFilename(name string) Option {
	return func(s *Session) {
		s.filename = name
	}
}

// Session holds a top-level environment across evaluations, so bindings
// made by one call are visible to the next.
type Session struct {
	env      *evaluator.Environment
	filename string
}

// NewSession creates a session with an empty environment.
func NewSession(opts ...Option) *Session {
	s := &Session{
		env:      evaluator.NewEnvironment(),
		filename: "<input>",
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Environment returns the session's top-level environment.
func (s *Session) Environment() *evaluator.Environment {
	return s.env
}

// Reset drops every binding made so far.
func (s *Session) Reset() {
	s.env.Clear()
}

// Eval parses source and, if it parsed cleanly, evaluates it.
func (s *Session) Eval(source string) *Result {
	p := parser.New(lexer.NewWithFilename(source, s.filename))
	program := p.ParseProgram()

	result := &Result{
		Diagnostics: p.Errors(),
		ParseErrors: p.StructuredErrors(),
		Program:     program,
	}
	if result.HasParseErrors() {
		return result
	}

	result.Value = evaluator.Eval(program, s.env)
	return result
}

// Parse parses source without evaluating it.
func Parse(source, filename string) (*ast.Program, []*merrors.MonkeyError) {
	p := parser.New(lexer.NewWithFilename(source, filename))
	program := p.ParseProgram()
	return program, p.StructuredErrors()
}

// Eval evaluates source in a fresh session.
func Eval(source string, opts ...Option) *Result {
	return NewSession(opts...).Eval(source)
}
