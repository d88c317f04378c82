// Package errors provides structured error types for the Monkey language.
//
// MonkeyError represents both parser diagnostics and runtime errors. Messages
// are rendered from a catalog of templates keyed by error code, so the text
// a program sees for a given failure is fixed in one place.
package errors

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"text/template"
)

// ErrorClass categorizes errors for filtering and display.
type ErrorClass string

const (
	ClassParse      ErrorClass = "parse"      // Parser/syntax errors
	ClassType       ErrorClass = "type"       // Type mismatches
	ClassArity      ErrorClass = "arity"      // Wrong argument count
	ClassUndefined  ErrorClass = "undefined"  // Not found/defined
	ClassOperator   ErrorClass = "operator"   // Invalid operations
	ClassArithmetic ErrorClass = "arithmetic" // Division by zero
	ClassCall       ErrorClass = "call"       // Calling a non-function
)

// MonkeyError represents any error from parsing or evaluation.
type MonkeyError struct {
	Class   ErrorClass     `json:"class"`
	Code    string         `json:"code"`
	Message string         `json:"message"`
	Hints   []string       `json:"hints,omitempty"`
	Line    int            `json:"line"`   // 1-based line (0 if unknown)
	Column  int            `json:"column"` // 1-based column (0 if unknown)
	File    string         `json:"file,omitempty"`
	Data    map[string]any `json:"data,omitempty"`
}

// Error implements the error interface.
func (e *MonkeyError) Error() string {
	return e.String()
}

// String returns a formatted string representation of the error.
func (e *MonkeyError) String() string {
	var sb strings.Builder

	if e.File != "" {
		sb.WriteString(e.File)
		sb.WriteString(": ")
	}
	if e.Line > 0 {
		sb.WriteString(fmt.Sprintf("line %d, column %d: ", e.Line, e.Column))
	}

	sb.WriteString(e.Message)

	for _, hint := range e.Hints {
		sb.WriteString("\n  ")
		sb.WriteString(hint)
	}

	return sb.String()
}

// PrettyString returns a multi-line formatted string for display.
func (e *MonkeyError) PrettyString() string {
	var sb strings.Builder

	switch e.Class {
	case ClassParse:
		sb.WriteString("Parser error")
	default:
		sb.WriteString("Runtime error")
	}

	if e.File != "" {
		sb.WriteString(":\n  in: ")
		sb.WriteString(e.File)
		if e.Line > 0 {
			sb.WriteString(fmt.Sprintf("\n  at: line %d, column %d", e.Line, e.Column))
		}
		sb.WriteString("\n  ")
	} else if e.Line > 0 {
		sb.WriteString(fmt.Sprintf(": line %d, column %d\n  ", e.Line, e.Column))
	} else {
		sb.WriteString(":\n  ")
	}

	sb.WriteString(e.Message)

	for _, hint := range e.Hints {
		sb.WriteString("\n  hint: ")
		sb.WriteString(hint)
	}

	return sb.String()
}

// ToJSON returns the error as JSON bytes.
func (e *MonkeyError) ToJSON() ([]byte, error) {
	return json.Marshal(e)
}

// WithFile returns a copy of the error with the file path set.
func (e *MonkeyError) WithFile(file string) *MonkeyError {
	copy := *e
	copy.File = file
	return &copy
}

// WithPosition returns a copy of the error with line and column set.
func (e *MonkeyError) WithPosition(line, column int) *MonkeyError {
	copy := *e
	copy.Line = line
	copy.Column = column
	return &copy
}

// ErrorDef defines an error in the catalog.
type ErrorDef struct {
	Class    ErrorClass // Error category
	Template string     // Message template with {{.placeholders}}
	Hints    []string   // Hint templates (may use {{.placeholders}})
}

// ErrorCatalog maps error codes to their definitions.
var ErrorCatalog = map[string]ErrorDef{
	// Parse errors (PARSE-0xxx)
	"PARSE-0001": {
		Class:    ClassParse,
		Template: "expected next token to be {{.Expected}}, got {{.Got}}",
	},
	"PARSE-0002": {
		Class:    ClassParse,
		Template: "no prefix parse function for {{.Token}} found",
	},
	"PARSE-0003": {
		Class:    ClassParse,
		Template: "could not parse {{printf \"%q\" .Literal}} as integer",
	},

	// Type errors (TYPE-0xxx)
	"TYPE-0001": {
		Class:    ClassType,
		Template: "type mismatch: {{.Left}} {{.Operator}} {{.Right}}",
	},

	// Operator errors (OP-0xxx)
	"OP-0001": {
		Class:    ClassOperator,
		Template: "unknown operator: {{.Left}} {{.Operator}} {{.Right}}",
	},
	"OP-0002": {
		Class:    ClassOperator,
		Template: "unknown operator: {{.Operator}}{{.Right}}",
	},

	// Undefined errors (UNDEF-0xxx)
	"UNDEF-0001": {
		Class:    ClassUndefined,
		Template: "identifier not found: {{.Name}}",
	},

	// Arity errors (ARITY-0xxx)
	"ARITY-0001": {
		Class:    ClassArity,
		Template: "wrong number of arguments.",
		Hints:    []string{"`{{.Function}}` takes {{.Want}}"},
	},
	"ARITY-0002": {
		Class:    ClassArity,
		Template: "wrong number of arguments: want={{.Want}}, got={{.Got}}",
	},

	// Argument errors (ARG-0xxx)
	"ARG-0001": {
		Class:    ClassType,
		Template: "argument to `{{.Function}}` not supported, got {{.Type}}",
	},

	// Arithmetic errors (ARITH-0xxx)
	"ARITH-0001": {
		Class:    ClassArithmetic,
		Template: "division by zero",
	},
	"ARITH-0002": {
		Class:    ClassArithmetic,
		Template: "modulus by zero",
	},

	// Call errors (CALL-0xxx)
	"CALL-0001": {
		Class:    ClassCall,
		Template: "not a function: {{.Type}}",
	},
}

// New creates a MonkeyError from the catalog.
// If the code is not found, creates a generic error with the message.
func New(code string, data map[string]any) *MonkeyError {
	def, ok := ErrorCatalog[code]
	if !ok {
		msg := code
		if data != nil {
			if m, ok := data["message"].(string); ok {
				msg = m
			}
		}
		return &MonkeyError{
			Class:   ClassType,
			Code:    code,
			Message: msg,
			Data:    data,
		}
	}

	msg := renderTemplate(def.Template, data)

	var hints []string
	for _, hintTmpl := range def.Hints {
		rendered := renderTemplate(hintTmpl, data)
		if rendered != "" && rendered != hintTmpl {
			hints = append(hints, rendered)
		}
	}

	return &MonkeyError{
		Class:   def.Class,
		Code:    code,
		Message: msg,
		Hints:   hints,
		Data:    data,
	}
}

// NewWithPosition creates a MonkeyError with position information.
func NewWithPosition(code string, line, column int, data map[string]any) *MonkeyError {
	err := New(code, data)
	err.Line = line
	err.Column = column
	return err
}

// renderTemplate renders a Go template with the given data.
func renderTemplate(tmplStr string, data map[string]any) string {
	if data == nil {
		return tmplStr
	}

	tmpl, err := template.New("").Option("missingkey=error").Parse(tmplStr)
	if err != nil {
		return tmplStr
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return tmplStr
	}

	return buf.String()
}

// editDistance is the Levenshtein distance between a and b, counted in
// runes and computed with two rolling rows.
func editDistance(a, b string) int {
	ra, rb := []rune(a), []rune(b)
	prev := make([]int, len(rb)+1)
	curr := make([]int, len(rb)+1)
	for j := range prev {
		prev[j] = j
	}
	for i, ca := range ra {
		curr[0] = i + 1
		for j, cb := range rb {
			sub := prev[j]
			if ca != cb {
				sub++
			}
			curr[j+1] = min(prev[j+1]+1, curr[j]+1, sub)
		}
		prev, curr = curr, prev
	}
	return prev[len(rb)]
}

// editThreshold is the largest distance still worth suggesting for a word
// of the given length.
func editThreshold(n int) int {
	switch {
	case n >= 7:
		return 3
	case n >= 4:
		return 2
	default:
		return 1
	}
}

// FindClosestMatch finds the closest match to the given string from
// candidates, or "" when nothing is close enough. Exact matches are never
// suggested.
func FindClosestMatch(input string, candidates []string) string {
	matches := FindTopMatches(input, candidates, 1)
	if len(matches) == 0 {
		return ""
	}
	return matches[0]
}

// FindTopMatches returns up to n candidates within the edit threshold,
// closest first.
func FindTopMatches(input string, candidates []string, n int) []string {
	if len(input) == 0 || len(candidates) == 0 || n <= 0 {
		return nil
	}

	type fuzzyMatch struct {
		value    string
		distance int
	}

	inputLower := strings.ToLower(input)
	threshold := editThreshold(len(input))

	var matches []fuzzyMatch
	for _, candidate := range candidates {
		dist := editDistance(inputLower, strings.ToLower(candidate))
		if dist > 0 && dist <= threshold {
			matches = append(matches, fuzzyMatch{value: candidate, distance: dist})
		}
	}

	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].distance < matches[j].distance
	})

	var result []string
	for i := 0; i < len(matches) && i < n; i++ {
		result = append(result, matches[i].value)
	}
	return result
}

// NewUndefinedIdentifier creates an identifier-not-found error with a
// "Did you mean?" hint when a visible name is close.
func NewUndefinedIdentifier(name string, available []string) *MonkeyError {
	err := New("UNDEF-0001", map[string]any{"Name": name})

	if suggestion := FindClosestMatch(name, available); suggestion != "" {
		err.Hints = append(err.Hints, "Did you mean `"+suggestion+"`?")
	}

	return err
}
