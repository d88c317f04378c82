package evaluator

import (
	"sort"
	"unicode/utf8"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// builtins is consulted only after environment lookup fails, so a user
// binding named like a builtin hides it.
var builtins = map[string]*Builtin{
	"len": {
		Name: "len",
		Fn: func(env *Environment, args ...Object) Object {
			if len(args) != 1 {
				return wrongArgCount("len", "1 argument")
			}
			switch arg := args[0].(type) {
			case *String:
				return &Integer{Value: int64(utf8.RuneCountInString(arg.Value))}
			default:
				return unsupportedArg("len", args[0])
			}
		},
	},
	"puts": {
		Name: "puts",
		Fn: func(env *Environment, args ...Object) Object {
			logger := env.Logger
			if logger == nil {
				logger = DefaultLogger
			}
			for _, arg := range args {
				logger.LogLine(arg.Inspect())
			}
			return NULL
		},
	},
	"upper": {
		Name: "upper",
		Fn: func(env *Environment, args ...Object) Object {
			return mapString("upper", cases.Upper(language.Und), args)
		},
	},
	"lower": {
		Name: "lower",
		Fn: func(env *Environment, args ...Object) Object {
			return mapString("lower", cases.Lower(language.Und), args)
		},
	},
	"type": {
		Name: "type",
		Fn: func(env *Environment, args ...Object) Object {
			if len(args) != 1 {
				return wrongArgCount("type", "1 argument")
			}
			return &String{Value: string(args[0].Type())}
		},
	},
}

// LookupBuiltin returns the builtin registered under name.
func LookupBuiltin(name string) (*Builtin, bool) {
	b, ok := builtins[name]
	return b, ok
}

// BuiltinNames returns the registered builtin names, sorted.
func BuiltinNames() []string {
	names := make([]string, 0, len(builtins))
	for name := range builtins {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func mapString(name string, caser cases.Caser, args []Object) Object {
	if len(args) != 1 {
		return wrongArgCount(name, "1 argument")
	}
	str, ok := args[0].(*String)
	if !ok {
		return unsupportedArg(name, args[0])
	}
	return &String{Value: caser.String(str.Value)}
}

func wrongArgCount(name, want string) *Error {
	return newError("ARITY-0001", map[string]any{"Function": name, "Want": want})
}

func unsupportedArg(name string, arg Object) *Error {
	return newError("ARG-0001", map[string]any{"Function": name, "Type": arg.Type()})
}
