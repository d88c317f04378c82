package evaluator

import (
	"bytes"
	"fmt"

	"github.com/sambeau/monkey/pkg/monkey/ast"
	merrors "github.com/sambeau/monkey/pkg/monkey/errors"
)

// ObjectType represents the type of objects
type ObjectType string

const (
	INTEGER_OBJ  = "INTEGER"
	BOOLEAN_OBJ  = "BOOL"
	STRING_OBJ   = "STRING"
	NULL_OBJ     = "NULL"
	ERROR_OBJ    = "ERROR"
	FUNCTION_OBJ = "FUNCTION"
	BUILTIN_OBJ  = "BUILTIN"
)

// Object represents all values in our language
type Object interface {
	Type() ObjectType
	Inspect() string
}

// Integer represents integer objects
type Integer struct {
	Value int64
}

func (i *Integer) Type() ObjectType { return INTEGER_OBJ }
func (i *Integer) Inspect() string  { return fmt.Sprintf("%d", i.Value) }

// Boolean represents boolean objects
type Boolean struct {
	Value bool
}

func (b *Boolean) Type() ObjectType { return BOOLEAN_OBJ }
func (b *Boolean) Inspect() string  { return fmt.Sprintf("%t", b.Value) }

// String represents string objects
type String struct {
	Value string
}

func (s *String) Type() ObjectType { return STRING_OBJ }
func (s *String) Inspect() string  { return s.Value }

// Null represents null values
type Null struct{}

func (n *Null) Type() ObjectType { return NULL_OBJ }
func (n *Null) Inspect() string  { return "null" }

// Error represents a runtime error. It is an ordinary value so builtins can
// return one, but the evaluator never binds it to a name: once raised it
// propagates to the caller of Eval.
type Error struct {
	Message string
	Class   string
	Code    string
	Hints   []string
	Line    int
	Column  int
}

func (e *Error) Type() ObjectType { return ERROR_OBJ }
func (e *Error) Inspect() string  { return "ERROR:" + e.Message }

// ToMonkeyError converts the runtime error to a structured error.
func (e *Error) ToMonkeyError() *merrors.MonkeyError {
	return &merrors.MonkeyError{
		Class:   merrors.ErrorClass(e.Class),
		Code:    e.Code,
		Message: e.Message,
		Hints:   e.Hints,
		Line:    e.Line,
		Column:  e.Column,
	}
}

// Function represents a closure: parameters and body plus the environment
// that was active where the literal was evaluated.
type Function struct {
	Parameters []*ast.Identifier
	Body       *ast.BlockStatement
	Env        *Environment
}

func (f *Function) Type() ObjectType { return FUNCTION_OBJ }
func (f *Function) Inspect() string {
	var out bytes.Buffer

	out.WriteString("fn(")
	out.WriteString(ast.ParameterString(f.Parameters))
	out.WriteString(")\n")
	out.WriteString(f.Body.String())
	out.WriteString("\n")

	return out.String()
}

// BuiltinFunction is the native implementation of a builtin. It receives
// the calling environment so output builtins can reach its Logger.
type BuiltinFunction func(env *Environment, args ...Object) Object

// Builtin represents built-in function objects
type Builtin struct {
	Name string
	Fn   BuiltinFunction
}

func (b *Builtin) Type() ObjectType { return BUILTIN_OBJ }
func (b *Builtin) Inspect() string  { return "builtin function" }

var (
	NULL  = &Null{}
	TRUE  = &Boolean{Value: true}
	FALSE = &Boolean{Value: false}
)

func nativeBoolToBooleanObject(input bool) *Boolean {
	if input {
		return TRUE
	}
	return FALSE
}

// newError builds a runtime error from the catalog.
func newError(code string, data map[string]any) *Error {
	perr := merrors.New(code, data)
	return &Error{
		Message: perr.Message,
		Class:   string(perr.Class),
		Code:    perr.Code,
		Hints:   perr.Hints,
	}
}

func isError(obj Object) bool {
	if obj != nil {
		return obj.Type() == ERROR_OBJ
	}
	return false
}
