// Package evaluator is the tree-walking interpreter: the runtime value
// model, lexical environments, the builtin registry and Eval itself.
package evaluator

import (
	"fmt"

	"fortio.org/log"

	"github.com/sambeau/monkey/pkg/monkey/ast"
	merrors "github.com/sambeau/monkey/pkg/monkey/errors"
	"github.com/sambeau/monkey/pkg/monkey/lexer"
)

// flow says how control leaves the node that produced a result.
type flow int

const (
	flowNormal flow = iota
	flowReturn // a return statement is unwinding to the nearest call
	flowError  // an error is unwinding to the caller of Eval
)

// result is what every internal evaluation step produces. Sequencing sites
// check flow after each step instead of inspecting the value.
type result struct {
	value Object
	flow  flow
}

func normal(v Object) result    { return result{value: v, flow: flowNormal} }
func returning(v Object) result { return result{value: v, flow: flowReturn} }
func raise(e *Error) result     { return result{value: e, flow: flowError} }

func (r result) interrupted() bool { return r.flow != flowNormal }

// settle turns a value computed by an operator or builtin into a result,
// raising it if it is an error.
func settle(obj Object) result {
	if e, ok := obj.(*Error); ok {
		return raise(e)
	}
	return normal(obj)
}

// raiseAt raises obj, filling in the token position when the error has none.
func raiseAt(obj Object, tok lexer.Token) result {
	if e, ok := obj.(*Error); ok {
		if e.Line == 0 {
			e.Line = tok.Line
			e.Column = tok.Column
		}
		return raise(e)
	}
	return normal(obj)
}

// Eval evaluates node in env and returns its value. A return at top level
// yields the returned value; a runtime error yields the *Error, and nothing
// after the failing statement runs.
func Eval(node ast.Node, env *Environment) Object {
	return eval(node, env).value
}

func eval(node ast.Node, env *Environment) result {
	switch node := node.(type) {
	// Statements
	case *ast.Program:
		log.LogVf("eval program")
		return evalProgram(node, env)

	case *ast.BlockStatement:
		return evalBlockStatement(node, env)

	case *ast.ExpressionStatement:
		return eval(node.Expression, env)

	case *ast.LetStatement:
		val := eval(node.Value, env)
		if val.interrupted() {
			return val
		}
		if log.LogVerbose() {
			log.LogVf("eval let %s to %s", node.Name.Value, val.value.Inspect())
		}
		env.Set(node.Name.Value, val.value)
		return val

	case *ast.ReturnStatement:
		val := eval(node.ReturnValue, env)
		if val.interrupted() {
			return val
		}
		return returning(val.value)

	// Expressions
	case *ast.IntegerLiteral:
		return normal(&Integer{Value: node.Value})

	case *ast.StringLiteral:
		return normal(&String{Value: node.Value})

	case *ast.Boolean:
		return normal(nativeBoolToBooleanObject(node.Value))

	case *ast.PrefixExpression:
		if log.LogVerbose() {
			log.LogVf("eval prefix %s", node.String())
		}
		right := eval(node.Right, env)
		if right.interrupted() {
			return right
		}
		return raiseAt(evalPrefixExpression(node.Operator, right.value), node.Token)

	case *ast.InfixExpression:
		if log.LogVerbose() {
			log.LogVf("eval infix %s", node.String())
		}
		left := eval(node.Left, env)
		if left.interrupted() {
			return left
		}
		right := eval(node.Right, env)
		if right.interrupted() {
			return right
		}
		return raiseAt(evalInfixExpression(node.Operator, left.value, right.value), node.Token)

	case *ast.IfExpression:
		return evalIfExpression(node, env)

	case *ast.Identifier:
		return evalIdentifier(node, env)

	case *ast.FunctionLiteral:
		return normal(&Function{Parameters: node.Parameters, Body: node.Body, Env: env})

	case *ast.CallExpression:
		function := eval(node.Function, env)
		if function.interrupted() {
			return function
		}
		args, stop := evalExpressions(node.Arguments, env)
		if stop != nil {
			return *stop
		}
		return applyFunction(node, function.value, args, env)
	}

	log.Warnf("can't eval node %T", node)
	return raise(&Error{Message: fmt.Sprintf("unknown node type: %T", node)})
}

func evalProgram(program *ast.Program, env *Environment) result {
	res := normal(NULL)

	for _, statement := range program.Statements {
		res = eval(statement, env)

		switch res.flow {
		case flowReturn:
			return normal(res.value)
		case flowError:
			return res
		}
	}

	return res
}

// evalBlockStatement stops at the first return or error but leaves a return
// flowing, so it unwinds through every enclosing block up to the call.
func evalBlockStatement(block *ast.BlockStatement, env *Environment) result {
	res := normal(NULL)

	for _, statement := range block.Statements {
		res = eval(statement, env)

		if res.interrupted() {
			return res
		}
	}

	return res
}

func evalPrefixExpression(operator string, right Object) Object {
	switch operator {
	case "!":
		return nativeBoolToBooleanObject(!isTruthy(right))
	case "-":
		return evalMinusPrefixOperatorExpression(right)
	default:
		return newError("OP-0002", map[string]any{"Operator": operator, "Right": right.Type()})
	}
}

func evalMinusPrefixOperatorExpression(right Object) Object {
	integer, ok := right.(*Integer)
	if !ok {
		return newError("OP-0002", map[string]any{"Operator": "-", "Right": right.Type()})
	}
	return &Integer{Value: -integer.Value}
}

func evalInfixExpression(operator string, left, right Object) Object {
	switch {
	case left.Type() == INTEGER_OBJ && right.Type() == INTEGER_OBJ:
		return evalIntegerInfixExpression(operator, left, right)
	case left.Type() == STRING_OBJ && right.Type() == STRING_OBJ:
		return evalStringInfixExpression(operator, left, right)
	case left.Type() != right.Type():
		return newError("TYPE-0001", infixData(operator, left, right))
	case operator == "==":
		return nativeBoolToBooleanObject(objectsEqual(left, right))
	case operator == "!=":
		return nativeBoolToBooleanObject(!objectsEqual(left, right))
	default:
		return newError("OP-0001", infixData(operator, left, right))
	}
}

func evalIntegerInfixExpression(operator string, left, right Object) Object {
	leftVal := left.(*Integer).Value
	rightVal := right.(*Integer).Value

	switch operator {
	case "+":
		return &Integer{Value: leftVal + rightVal}
	case "-":
		return &Integer{Value: leftVal - rightVal}
	case "*":
		return &Integer{Value: leftVal * rightVal}
	case "/":
		if rightVal == 0 {
			return newError("ARITH-0001", nil)
		}
		return &Integer{Value: leftVal / rightVal}
	case "%":
		if rightVal == 0 {
			return newError("ARITH-0002", nil)
		}
		return &Integer{Value: leftVal % rightVal}
	case "<":
		return nativeBoolToBooleanObject(leftVal < rightVal)
	case ">":
		return nativeBoolToBooleanObject(leftVal > rightVal)
	case "==":
		return nativeBoolToBooleanObject(leftVal == rightVal)
	case "!=":
		return nativeBoolToBooleanObject(leftVal != rightVal)
	default:
		return newError("OP-0001", infixData(operator, left, right))
	}
}

func evalStringInfixExpression(operator string, left, right Object) Object {
	leftVal := left.(*String).Value
	rightVal := right.(*String).Value

	switch operator {
	case "+":
		return &String{Value: leftVal + rightVal}
	case "<":
		return nativeBoolToBooleanObject(leftVal < rightVal)
	case ">":
		return nativeBoolToBooleanObject(leftVal > rightVal)
	case "==":
		return nativeBoolToBooleanObject(leftVal == rightVal)
	case "!=":
		return nativeBoolToBooleanObject(leftVal != rightVal)
	default:
		return newError("OP-0001", infixData(operator, left, right))
	}
}

func infixData(operator string, left, right Object) map[string]any {
	return map[string]any{"Left": left.Type(), "Operator": operator, "Right": right.Type()}
}

// objectsEqual compares two values of the same type. Booleans and null
// compare by value; functions and builtins by identity.
func objectsEqual(left, right Object) bool {
	switch l := left.(type) {
	case *Boolean:
		return l.Value == right.(*Boolean).Value
	case *Null:
		return true
	default:
		return left == right
	}
}

func evalIfExpression(ie *ast.IfExpression, env *Environment) result {
	condition := eval(ie.Condition, env)
	if condition.interrupted() {
		return condition
	}

	truthy := isTruthy(condition.value)
	if log.LogVerbose() {
		log.LogVf("if %s is %t", ie.Condition.String(), truthy)
	}

	if truthy {
		return eval(ie.Consequence, env)
	} else if ie.Alternative != nil {
		return eval(ie.Alternative, env)
	}
	return normal(NULL)
}

// isTruthy reports whether obj counts as true in a condition. Only null and
// false are falsy.
func isTruthy(obj Object) bool {
	switch obj := obj.(type) {
	case *Null:
		return false
	case *Boolean:
		return obj.Value
	default:
		return true
	}
}

func evalIdentifier(node *ast.Identifier, env *Environment) result {
	if val, ok := env.Get(node.Value); ok {
		return normal(val)
	}

	if builtin, ok := builtins[node.Value]; ok {
		return normal(builtin)
	}

	perr := merrors.NewUndefinedIdentifier(node.Value, env.AllIdentifiers())
	return raise(&Error{
		Message: perr.Message,
		Class:   string(perr.Class),
		Code:    perr.Code,
		Hints:   perr.Hints,
		Line:    node.Token.Line,
		Column:  node.Token.Column,
	})
}

// evalExpressions evaluates exps left to right. When one of them does not
// complete normally the rest are skipped and that result is returned.
func evalExpressions(exps []ast.Expression, env *Environment) ([]Object, *result) {
	values := make([]Object, 0, len(exps))

	for _, e := range exps {
		evaluated := eval(e, env)
		if evaluated.interrupted() {
			return nil, &evaluated
		}
		values = append(values, evaluated.value)
	}

	return values, nil
}

// applyFunction is the call boundary: a return flowing out of the body
// stops here and becomes the call's value.
func applyFunction(call *ast.CallExpression, fn Object, args []Object, env *Environment) result {
	switch fn := fn.(type) {
	case *Function:
		if len(args) != len(fn.Parameters) {
			return raiseAt(newError("ARITY-0002", map[string]any{
				"Want": len(fn.Parameters),
				"Got":  len(args),
			}), call.Token)
		}

		extendedEnv := extendFunctionEnv(fn, args)
		evaluated := eval(fn.Body, extendedEnv)
		if evaluated.flow == flowReturn {
			return normal(evaluated.value)
		}
		return evaluated

	case *Builtin:
		log.LogVf("call builtin %s", fn.Name)
		return raiseAt(fn.Fn(env, args...), call.Token)

	default:
		return raiseAt(newError("CALL-0001", map[string]any{"Type": fn.Type()}), call.Token)
	}
}

// extendFunctionEnv creates the call scope. Its parent is the closure's
// captured environment, not the caller's.
func extendFunctionEnv(fn *Function, args []Object) *Environment {
	env := NewEnclosedEnvironment(fn.Env)

	for i, param := range fn.Parameters {
		env.Set(param.Value, args[i])
	}

	return env
}
