// Package format pretty-prints Monkey programs with minimal parentheses
// and tab indentation.
package format

import (
	"errors"
	"strconv"
	"strings"

	"github.com/sambeau/monkey/pkg/monkey/ast"
	"github.com/sambeau/monkey/pkg/monkey/lexer"
	"github.com/sambeau/monkey/pkg/monkey/parser"
)

// ErrChanged is returned by Verify when formatted text no longer parses to
// the program it was printed from.
var ErrChanged = errors.New("formatted source does not parse to the same program")

// binding strengths, matching the parser
const (
	_ int = iota
	precLowest
	precEquals
	precLessGreater
	precSum
	precProduct
	precPrefix
	precCall
)

var infixPrecedence = map[string]int{
	"==": precEquals,
	"!=": precEquals,
	"<":  precLessGreater,
	">":  precLessGreater,
	"+":  precSum,
	"-":  precSum,
	"*":  precProduct,
	"/":  precProduct,
	"%":  precProduct,
}

// FormatProgram renders a parsed program as source text ending in a newline.
func FormatProgram(program *ast.Program) string {
	p := NewPrinter()
	p.statements(program.Statements)
	return p.String()
}

// Verify re-parses formatted and compares its canonical form with program.
func Verify(program *ast.Program, formatted string) error {
	p := parser.New(lexer.New(formatted))
	reparsed := p.ParseProgram()
	if len(p.Errors()) != 0 || reparsed.String() != program.String() {
		return ErrChanged
	}
	return nil
}

// HasComments reports whether source contains // comments, which the
// lexer discards and formatting would therefore lose.
func HasComments(source string) bool {
	inString := false
	for i := 0; i < len(source); i++ {
		switch {
		case source[i] == '"':
			inString = !inString
		case !inString && source[i] == '/' && i+1 < len(source) && source[i+1] == '/':
			return true
		}
	}
	return false
}

func (p *Printer) statements(stmts []ast.Statement) {
	for _, line := range p.renderStatements(stmts) {
		p.line(line)
	}
}

// renderStatements formats a statement sequence. An if statement carries
// no semicolon unless the next statement opens with a token the parser
// would read as an infix operator or call on the if.
func (p *Printer) renderStatements(stmts []ast.Statement) []string {
	out := make([]string, len(stmts))
	for i, stmt := range stmts {
		out[i] = p.statement(stmt, i == len(stmts)-1)
	}
	for i := 0; i < len(stmts)-1; i++ {
		if !isIfStatement(stmts[i]) {
			continue
		}
		if next := out[i+1]; strings.HasPrefix(next, "-") || strings.HasPrefix(next, "(") {
			out[i] += ";"
		}
	}
	return out
}

func isIfStatement(stmt ast.Statement) bool {
	es, ok := stmt.(*ast.ExpressionStatement)
	if !ok {
		return false
	}
	_, isIf := es.Expression.(*ast.IfExpression)
	return isIf
}

// statement renders one statement. The last expression statement of a
// block is its value and keeps no semicolon.
func (p *Printer) statement(stmt ast.Statement, last bool) string {
	switch s := stmt.(type) {
	case *ast.LetStatement:
		return "let " + s.Name.Value + " = " + p.expression(s.Value, precLowest) + ";"
	case *ast.ReturnStatement:
		if s.ReturnValue == nil {
			return "return;"
		}
		return "return " + p.expression(s.ReturnValue, precLowest) + ";"
	case *ast.ExpressionStatement:
		out := p.expression(s.Expression, precLowest)
		if last || isIfStatement(s) {
			return out
		}
		return out + ";"
	case *ast.BlockStatement:
		return p.block(s)
	}
	return stmt.String()
}

func (p *Printer) expression(expr ast.Expression, parent int) string {
	switch e := expr.(type) {
	case nil:
		return ""
	case *ast.Identifier:
		return e.Value
	case *ast.IntegerLiteral:
		return strconv.FormatInt(e.Value, 10)
	case *ast.StringLiteral:
		return `"` + e.Value + `"`
	case *ast.Boolean:
		return strconv.FormatBool(e.Value)

	case *ast.PrefixExpression:
		return wrap(e.Operator+p.expression(e.Right, precPrefix), precPrefix, parent)

	case *ast.InfixExpression:
		prec := infixPrecedence[e.Operator]
		left := p.expression(e.Left, prec)
		// operators are left-associative: an equal-strength right operand
		// must keep its parentheses
		right := p.expression(e.Right, prec+1)
		return wrap(left+" "+e.Operator+" "+right, prec, parent)

	case *ast.CallExpression:
		args := make([]string, len(e.Arguments))
		for i, arg := range e.Arguments {
			args[i] = p.expression(arg, precLowest)
		}
		callee := precCall
		if _, ok := e.Function.(*ast.FunctionLiteral); ok {
			callee = precLowest
		}
		return p.expression(e.Function, callee) + "(" + strings.Join(args, ", ") + ")"

	case *ast.IfExpression:
		out := "if (" + p.expression(e.Condition, precLowest) + ") " + p.block(e.Consequence)
		if e.Alternative != nil {
			out += " else " + p.block(e.Alternative)
		}
		return wrap(out, precLowest, parent)

	case *ast.FunctionLiteral:
		params := make([]string, len(e.Parameters))
		for i, param := range e.Parameters {
			params[i] = param.Value
		}
		out := "fn(" + strings.Join(params, ", ") + ") " + p.block(e.Body)
		return wrap(out, precLowest, parent)
	}
	return expr.String()
}

// wrap parenthesizes s when it binds more loosely than its context.
func wrap(s string, prec, parent int) string {
	if prec < parent {
		return "(" + s + ")"
	}
	return s
}

// block renders braces around statements, on one line when the block
// holds a single short statement.
func (p *Printer) block(b *ast.BlockStatement) string {
	if b == nil || len(b.Statements) == 0 {
		return "{ }"
	}

	p.indentInc()
	defer p.indentDec()

	if len(b.Statements) == 1 {
		if s := p.statement(b.Statements[0], true); fitsInline(s) {
			return "{ " + s + " }"
		}
	}

	var sb strings.Builder
	sb.WriteString("{\n")
	for _, line := range p.renderStatements(b.Statements) {
		sb.WriteString(p.indentation())
		sb.WriteString(line)
		sb.WriteString("\n")
	}
	sb.WriteString(strings.Repeat(IndentString, p.indent-1))
	sb.WriteString("}")
	return sb.String()
}
