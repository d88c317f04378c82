package parser

import (
	"testing"

	"github.com/sambeau/monkey/pkg/monkey/ast"
	"github.com/sambeau/monkey/pkg/monkey/lexer"
)

func parse(t *testing.T, input string) *ast.Program {
	t.Helper()
	p := New(lexer.New(input))
	program := p.ParseProgram()
	checkParserErrors(t, p)
	return program
}

func checkParserErrors(t *testing.T, p *Parser) {
	t.Helper()
	errors := p.Errors()
	if len(errors) == 0 {
		return
	}

	t.Errorf("parser has %d errors", len(errors))
	for _, msg := range errors {
		t.Errorf("parser error: %q", msg)
	}
	t.FailNow()
}

func TestLetStatements(t *testing.T) {
	tests := []struct {
		input              string
		expectedIdentifier string
		expectedValue      string
	}{
		{"let x = 5;", "x", "5"},
		{"let y = true;", "y", "true"},
		{"let foobar = y;", "foobar", "y"},
		{"let s = \"hi\"", "s", "hi"},
	}

	for _, tt := range tests {
		program := parse(t, tt.input)
		if len(program.Statements) != 1 {
			t.Fatalf("%q: expected 1 statement, got %d", tt.input, len(program.Statements))
		}

		stmt, ok := program.Statements[0].(*ast.LetStatement)
		if !ok {
			t.Fatalf("%q: expected *ast.LetStatement, got %T", tt.input, program.Statements[0])
		}
		if stmt.Name.Value != tt.expectedIdentifier {
			t.Errorf("%q: expected name %q, got %q", tt.input, tt.expectedIdentifier, stmt.Name.Value)
		}
		if stmt.Value.String() != tt.expectedValue {
			t.Errorf("%q: expected value %q, got %q", tt.input, tt.expectedValue, stmt.Value.String())
		}
	}
}

func TestReturnStatements(t *testing.T) {
	program := parse(t, "return 5; return 10; return add(1, 2);")
	if len(program.Statements) != 3 {
		t.Fatalf("expected 3 statements, got %d", len(program.Statements))
	}
	for _, stmt := range program.Statements {
		if _, ok := stmt.(*ast.ReturnStatement); !ok {
			t.Errorf("expected *ast.ReturnStatement, got %T", stmt)
		}
	}
	if got := program.Statements[2].String(); got != "return add(1, 2);" {
		t.Errorf("unexpected rendering %q", got)
	}
}

func TestOperatorPrecedenceParsing(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"-a * b", "((-a) * b)"},
		{"!-a", "(!(-a))"},
		{"a + b + c", "((a + b) + c)"},
		{"a + b - c", "((a + b) - c)"},
		{"a * b * c", "((a * b) * c)"},
		{"a * b / c", "((a * b) / c)"},
		{"a + b / c", "(a + (b / c))"},
		{"a % b + c", "((a % b) + c)"},
		{"a + b * c + d / e - f", "(((a + (b * c)) + (d / e)) - f)"},
		{"3 + 4; -5 * 5", "(3 + 4)((-5) * 5)"},
		{"5 > 4 == 3 < 4", "((5 > 4) == (3 < 4))"},
		{"5 < 4 != 3 > 4", "((5 < 4) != (3 > 4))"},
		{"3 + 4 * 5 == 3 * 1 + 4 * 5", "((3 + (4 * 5)) == ((3 * 1) + (4 * 5)))"},
		{"true", "true"},
		{"false", "false"},
		{"3 > 5 == false", "((3 > 5) == false)"},
		{"3 < 5 == true", "((3 < 5) == true)"},
		{"1 + (2 + 3) + 4", "((1 + (2 + 3)) + 4)"},
		{"(5 + 5) * 2", "((5 + 5) * 2)"},
		{"2 / (5 + 5)", "(2 / (5 + 5))"},
		{"-(5 + 5)", "(-(5 + 5))"},
		{"!(true == true)", "(!(true == true))"},
		{"a + add(b * c) + d", "((a + add((b * c))) + d)"},
		{"add(a, b, 1, 2 * 3, 4 + 5, add(6, 7 * 8))", "add(a, b, 1, (2 * 3), (4 + 5), add(6, (7 * 8)))"},
		{"add(a + b + c * d / f + g)", "add((((a + b) + ((c * d) / f)) + g))"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			program := parse(t, tt.input)
			if actual := program.String(); actual != tt.expected {
				t.Errorf("expected=%q, got=%q", tt.expected, actual)
			}
		})
	}
}

func TestIfExpression(t *testing.T) {
	program := parse(t, "if (x < y) { x }")
	if len(program.Statements) != 1 {
		t.Fatalf("expected 1 statement, got %d", len(program.Statements))
	}

	stmt := program.Statements[0].(*ast.ExpressionStatement)
	exp, ok := stmt.Expression.(*ast.IfExpression)
	if !ok {
		t.Fatalf("expected *ast.IfExpression, got %T", stmt.Expression)
	}
	if exp.Condition.String() != "(x < y)" {
		t.Errorf("unexpected condition %q", exp.Condition.String())
	}
	if len(exp.Consequence.Statements) != 1 {
		t.Errorf("expected 1 consequence statement, got %d", len(exp.Consequence.Statements))
	}
	if exp.Alternative != nil {
		t.Errorf("expected no alternative, got %q", exp.Alternative.String())
	}
}

func TestIfElseExpression(t *testing.T) {
	program := parse(t, "if (x < y) { x } else { y }")

	exp := program.Statements[0].(*ast.ExpressionStatement).Expression.(*ast.IfExpression)
	if exp.Alternative == nil {
		t.Fatal("expected alternative")
	}
	if got := exp.String(); got != "if(x < y) xelse y" {
		t.Errorf("unexpected rendering %q", got)
	}
}

func TestFunctionLiteralParsing(t *testing.T) {
	tests := []struct {
		input          string
		expectedParams []string
	}{
		{"fn() {};", []string{}},
		{"fn(x) {};", []string{"x"}},
		{"fn(x, y, z) {};", []string{"x", "y", "z"}},
	}

	for _, tt := range tests {
		program := parse(t, tt.input)
		stmt := program.Statements[0].(*ast.ExpressionStatement)
		fn, ok := stmt.Expression.(*ast.FunctionLiteral)
		if !ok {
			t.Fatalf("%q: expected *ast.FunctionLiteral, got %T", tt.input, stmt.Expression)
		}

		if len(fn.Parameters) != len(tt.expectedParams) {
			t.Fatalf("%q: expected %d params, got %d", tt.input, len(tt.expectedParams), len(fn.Parameters))
		}
		for i, name := range tt.expectedParams {
			if fn.Parameters[i].Value != name {
				t.Errorf("%q: param %d expected %q, got %q", tt.input, i, name, fn.Parameters[i].Value)
			}
		}
	}

	program := parse(t, "fn(x, y) { x + y; }")
	if got := program.String(); got != "fn(x, y) (x + y)" {
		t.Errorf("unexpected rendering %q", got)
	}
}

func TestCallExpressionParsing(t *testing.T) {
	program := parse(t, "add(1, 2 * 3, 4 + 5);")

	stmt := program.Statements[0].(*ast.ExpressionStatement)
	exp, ok := stmt.Expression.(*ast.CallExpression)
	if !ok {
		t.Fatalf("expected *ast.CallExpression, got %T", stmt.Expression)
	}
	if exp.Function.String() != "add" {
		t.Errorf("expected callee add, got %q", exp.Function.String())
	}
	if len(exp.Arguments) != 3 {
		t.Fatalf("expected 3 arguments, got %d", len(exp.Arguments))
	}

	expected := []string{"1", "(2 * 3)", "(4 + 5)"}
	for i, want := range expected {
		if got := exp.Arguments[i].String(); got != want {
			t.Errorf("argument %d: expected %q, got %q", i, want, got)
		}
	}
}

func TestStringLiteralExpression(t *testing.T) {
	program := parse(t, `"hello world";`)
	lit, ok := program.Statements[0].(*ast.ExpressionStatement).Expression.(*ast.StringLiteral)
	if !ok {
		t.Fatalf("expected *ast.StringLiteral, got %T", program.Statements[0])
	}
	if lit.Value != "hello world" {
		t.Errorf("expected %q, got %q", "hello world", lit.Value)
	}
}

func TestParserDiagnostics(t *testing.T) {
	tests := []struct {
		name           string
		input          string
		expectedErrors []string
		statements     int
	}{
		{
			name:           "missing identifier",
			input:          "let = 5;",
			expectedErrors: []string{"expected next token to be IDENT, got =", "no prefix parse function for = found"},
			statements:     1,
		},
		{
			name:           "missing assign",
			input:          "let x 5;",
			expectedErrors: []string{"expected next token to be =, got INT"},
			statements:     1,
		},
		{
			name:           "unclosed group",
			input:          "(1 + 2",
			expectedErrors: []string{"expected next token to be ), got EOF"},
			statements:     0,
		},
		{
			name:           "if without paren",
			input:          "if x { 1 }",
			expectedErrors: []string{"expected next token to be (, got IDENT", "no prefix parse function for { found", "no prefix parse function for } found"},
			statements:     2,
		},
		{
			name:           "unterminated block",
			input:          "fn(x) { x",
			expectedErrors: []string{"expected next token to be }, got EOF"},
			statements:     0,
		},
		{
			name:           "bad parameter",
			input:          "fn(1) { 1 }",
			expectedErrors: []string{"expected next token to be IDENT, got INT"},
		},
		{
			name:           "integer overflow",
			input:          "99999999999999999999",
			expectedErrors: []string{`could not parse "99999999999999999999" as integer`},
			statements:     0,
		},
		{
			name:           "illegal character",
			input:          "let a = 1; @; let b = 2;",
			expectedErrors: []string{"no prefix parse function for ILLEGAL found"},
			statements:     2,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := New(lexer.New(tt.input))
			program := p.ParseProgram()

			errors := p.Errors()
			if len(errors) < len(tt.expectedErrors) {
				t.Fatalf("expected at least %d errors, got %v", len(tt.expectedErrors), errors)
			}
			for i, want := range tt.expectedErrors {
				if errors[i] != want {
					t.Errorf("error %d: expected %q, got %q", i, want, errors[i])
				}
			}

			if tt.statements > 0 && len(program.Statements) != tt.statements {
				t.Errorf("expected %d statements, got %d: %q", tt.statements, len(program.Statements), program.String())
			}
			for _, stmt := range program.Statements {
				if stmt == nil {
					t.Errorf("nil statement in program")
				}
			}
		})
	}
}

func TestMalformedStatementIsDropped(t *testing.T) {
	p := New(lexer.New("let x = (1 + ; let y = 2;"))
	program := p.ParseProgram()

	if len(p.Errors()) == 0 {
		t.Fatal("expected errors")
	}
	for _, stmt := range program.Statements {
		if let, ok := stmt.(*ast.LetStatement); ok && let.Name.Value == "x" {
			t.Errorf("malformed let statement kept: %q", let.String())
		}
	}
	if len(program.Statements) == 0 || program.Statements[len(program.Statements)-1].String() != "let y = 2;" {
		t.Errorf("expected trailing let y to survive, got %q", program.String())
	}
}

func TestStructuredErrorsCarryPosition(t *testing.T) {
	p := New(lexer.NewWithFilename("let x = 1;\nlet = 2;", "prog.monkey"))
	p.ParseProgram()

	errs := p.StructuredErrors()
	if len(errs) == 0 {
		t.Fatal("expected errors")
	}
	if errs[0].Line != 2 {
		t.Errorf("expected line 2, got %d", errs[0].Line)
	}
	if errs[0].File != "prog.monkey" {
		t.Errorf("expected file prog.monkey, got %q", errs[0].File)
	}
	if errs[0].Code != "PARSE-0001" {
		t.Errorf("expected PARSE-0001, got %q", errs[0].Code)
	}
}
