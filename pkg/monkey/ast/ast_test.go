package ast

import (
	"testing"

	"github.com/sambeau/monkey/pkg/monkey/lexer"
)

func TestString(t *testing.T) {
	program := &Program{
		Statements: []Statement{
			&LetStatement{
				Token: lexer.Token{Type: lexer.LET, Literal: "let"},
				Name: &Identifier{
					Token: lexer.Token{Type: lexer.IDENT, Literal: "myVar"},
					Value: "myVar",
				},
				Value: &Identifier{
					Token: lexer.Token{Type: lexer.IDENT, Literal: "anotherVar"},
					Value: "anotherVar",
				},
			},
		},
	}

	if program.String() != "let myVar = anotherVar;" {
		t.Errorf("program.String() wrong. got=%q", program.String())
	}
}

func ident(name string) *Identifier {
	return &Identifier{Token: lexer.Token{Type: lexer.IDENT, Literal: name}, Value: name}
}

func TestCompoundStrings(t *testing.T) {
	body := &BlockStatement{
		Token: lexer.Token{Type: lexer.LBRACE, Literal: "{"},
		Statements: []Statement{
			&ReturnStatement{
				Token: lexer.Token{Type: lexer.RETURN, Literal: "return"},
				ReturnValue: &InfixExpression{
					Token:    lexer.Token{Type: lexer.PLUS, Literal: "+"},
					Left:     ident("x"),
					Operator: "+",
					Right:    ident("y"),
				},
			},
		},
	}

	tests := []struct {
		name     string
		node     Node
		expected string
	}{
		{
			name: "prefix",
			node: &PrefixExpression{
				Token:    lexer.Token{Type: lexer.MINUS, Literal: "-"},
				Operator: "-",
				Right:    ident("a"),
			},
			expected: "(-a)",
		},
		{
			name: "function literal",
			node: &FunctionLiteral{
				Token:      lexer.Token{Type: lexer.FUNCTION, Literal: "fn"},
				Parameters: []*Identifier{ident("x"), ident("y")},
				Body:       body,
			},
			expected: "fn(x, y) return (x + y);",
		},
		{
			name: "call",
			node: &CallExpression{
				Token:     lexer.Token{Type: lexer.LPAREN, Literal: "("},
				Function:  ident("add"),
				Arguments: []Expression{ident("a"), ident("b")},
			},
			expected: "add(a, b)",
		},
		{
			name: "if else",
			node: &IfExpression{
				Token:       lexer.Token{Type: lexer.IF, Literal: "if"},
				Condition:   ident("c"),
				Consequence: &BlockStatement{Statements: []Statement{&ExpressionStatement{Expression: ident("x")}}},
				Alternative: &BlockStatement{Statements: []Statement{&ExpressionStatement{Expression: ident("y")}}},
			},
			expected: "ifc xelse y",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.node.String(); got != tt.expected {
				t.Errorf("expected %q, got %q", tt.expected, got)
			}
		})
	}
}
