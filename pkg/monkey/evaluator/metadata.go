package evaluator

// BuiltinInfo describes a builtin for the help system.
type BuiltinInfo struct {
	Name        string   `json:"name"`
	Params      []string `json:"params"`
	Arity       string   `json:"arity"`
	Description string   `json:"description"`
	Category    string   `json:"category"`
}

// OperatorInfo describes an operator for the help system.
type OperatorInfo struct {
	Symbol      string `json:"symbol"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Category    string `json:"category"`
}

// TypeInfo describes a runtime value type.
type TypeInfo struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

// BuiltinMetadata is keyed by builtin name and must cover every entry in
// the builtin registry.
var BuiltinMetadata = map[string]BuiltinInfo{
	"len": {
		Name:        "len",
		Params:      []string{"str"},
		Arity:       "1",
		Description: "Number of characters in a string",
		Category:    "strings",
	},
	"upper": {
		Name:        "upper",
		Params:      []string{"str"},
		Arity:       "1",
		Description: "Convert a string to upper case",
		Category:    "strings",
	},
	"lower": {
		Name:        "lower",
		Params:      []string{"str"},
		Arity:       "1",
		Description: "Convert a string to lower case",
		Category:    "strings",
	},
	"puts": {
		Name:        "puts",
		Params:      []string{"values..."},
		Arity:       "0+",
		Description: "Print each value on its own line and return null",
		Category:    "output",
	},
	"type": {
		Name:        "type",
		Params:      []string{"value"},
		Arity:       "1",
		Description: "Name of a value's type, e.g. \"INTEGER\"",
		Category:    "introspection",
	},
}

// OperatorMetadata is keyed by operator symbol.
var OperatorMetadata = map[string]OperatorInfo{
	"+":  {Symbol: "+", Name: "add", Description: "Integer addition or string concatenation", Category: "arithmetic"},
	"-":  {Symbol: "-", Name: "subtract", Description: "Integer subtraction, or negation as a prefix", Category: "arithmetic"},
	"*":  {Symbol: "*", Name: "multiply", Description: "Integer multiplication", Category: "arithmetic"},
	"/":  {Symbol: "/", Name: "divide", Description: "Integer division, truncating toward zero", Category: "arithmetic"},
	"%":  {Symbol: "%", Name: "modulus", Description: "Integer remainder", Category: "arithmetic"},
	"<":  {Symbol: "<", Name: "less than", Description: "Integer comparison", Category: "comparison"},
	">":  {Symbol: ">", Name: "greater than", Description: "Integer comparison", Category: "comparison"},
	"==": {Symbol: "==", Name: "equal", Description: "Value equality for integers, strings and booleans", Category: "comparison"},
	"!=": {Symbol: "!=", Name: "not equal", Description: "Negation of ==", Category: "comparison"},
	"!":  {Symbol: "!", Name: "not", Description: "Logical negation of truthiness", Category: "logical"},
}

// TypeMetadata lists the runtime value types in display order.
var TypeMetadata = []TypeInfo{
	{Name: string(INTEGER_OBJ), Description: "64-bit signed integer"},
	{Name: string(BOOLEAN_OBJ), Description: "true or false"},
	{Name: string(STRING_OBJ), Description: "Immutable text"},
	{Name: string(NULL_OBJ), Description: "Absence of a value; falsy"},
	{Name: string(FUNCTION_OBJ), Description: "Closure over its defining environment"},
	{Name: string(BUILTIN_OBJ), Description: "Host-provided function"},
	{Name: string(ERROR_OBJ), Description: "Runtime error; stops evaluation"},
}
