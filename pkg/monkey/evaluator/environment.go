package evaluator

import "sort"

// Environment is one scope in the lexical chain. Closures keep a pointer to
// the environment they were created in, so a scope lives as long as any
// function that captured it.
type Environment struct {
	store  map[string]Object
	outer  *Environment
	Logger Logger // Output for puts
}

// NewEnvironment creates a new top-level environment
func NewEnvironment() *Environment {
	return &Environment{store: make(map[string]Object), Logger: DefaultLogger}
}

// NewEnclosedEnvironment creates a new environment with outer reference
func NewEnclosedEnvironment(outer *Environment) *Environment {
	env := NewEnvironment()
	env.outer = outer
	if outer != nil {
		env.Logger = outer.Logger
	}
	return env
}

// Outer returns the enclosing environment, or nil at top level.
func (e *Environment) Outer() *Environment {
	return e.outer
}

// Get looks name up in this scope and then in each enclosing scope.
func (e *Environment) Get(name string) (Object, bool) {
	value, ok := e.store[name]
	if !ok && e.outer != nil {
		value, ok = e.outer.Get(name)
	}
	return value, ok
}

// Set binds name in this scope only. An existing binding of the same name
// in an outer scope is shadowed, never modified. Errors are not stored.
func (e *Environment) Set(name string, val Object) Object {
	if isError(val) {
		return val
	}
	e.store[name] = val
	return val
}

// Clear removes every binding from this scope.
func (e *Environment) Clear() {
	e.store = make(map[string]Object)
}

// LocalNames returns the names bound directly in this scope, sorted.
func (e *Environment) LocalNames() []string {
	names := make([]string, 0, len(e.store))
	for name := range e.store {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// AllIdentifiers returns the names visible from this scope, including
// builtins, sorted and without duplicates. Used for completion and for
// "Did you mean" hints.
func (e *Environment) AllIdentifiers() []string {
	seen := make(map[string]bool)
	for env := e; env != nil; env = env.outer {
		for name := range env.store {
			seen[name] = true
		}
	}
	for name := range builtins {
		seen[name] = true
	}

	names := make([]string, 0, len(seen))
	for name := range seen {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
