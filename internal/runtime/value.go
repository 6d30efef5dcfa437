// Package runtime defines the value model the evaluator operates on: the
// tagged Value variants, the lexical Environment chain, and the capability
// interface host objects (Database, Model) expose to the evaluator.
package runtime

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/Victra-Studio/privvy/internal/ast"
)

// Kind names a Value's runtime type, used in error messages and as the
// operand key of the binary-operator table.
type Kind string

const (
	KindNull     Kind = "null"
	KindBool     Kind = "bool"
	KindInt      Kind = "int"
	KindFloat    Kind = "float"
	KindString   Kind = "string"
	KindArray    Kind = "array"
	KindMap      Kind = "map"
	KindFunction Kind = "function"
	KindClass    Kind = "class"
	KindInstance Kind = "instance"
	KindHost     Kind = "host"
)

// Value is the interface every runtime value implements.
type Value interface {
	Kind() Kind
	String() string
}

// Null is the single null value.
type Null struct{}

// Nil is the shared Null instance; there is no reason to allocate more than one.
var Nil = Null{}

func (Null) Kind() Kind     { return KindNull }
func (Null) String() string { return "null" }

// Bool wraps a boolean.
type Bool bool

func (b Bool) Kind() Kind { return KindBool }
func (b Bool) String() string {
	if b {
		return "true"
	}
	return "false"
}

// Int wraps a 64-bit signed integer.
type Int int64

func (i Int) Kind() Kind     { return KindInt }
func (i Int) String() string { return strconv.FormatInt(int64(i), 10) }

// Float wraps a 64-bit floating-point number.
type Float float64

func (f Float) Kind() Kind     { return KindFloat }
func (f Float) String() string { return strconv.FormatFloat(float64(f), 'g', -1, 64) }

// String wraps a string value.
type String string

func (s String) Kind() Kind     { return KindString }
func (s String) String() string { return string(s) }

// Array is an ordered, mutable-in-place sequence of values. It has reference
// semantics: holders of the same *Array see each other's mutations.
type Array struct {
	Elements []Value
}

// NewArray wraps a slice of values as an Array.
func NewArray(elements []Value) *Array {
	return &Array{Elements: elements}
}

func (*Array) Kind() Kind { return KindArray }
func (a *Array) String() string {
	parts := make([]string, len(a.Elements))
	for i, e := range a.Elements {
		parts[i] = e.String()
	}
	return "[" + strings.Join(parts, ", ") + "]"
}

// MapKey canonicalizes a Value usable as a Map key (string, int, or float)
// into a comparable string form. Map keys are restricted to primitives per
// the language's data model; other kinds return an error.
func MapKey(v Value) (string, error) {
	switch val := v.(type) {
	case String:
		return "s:" + string(val), nil
	case Int:
		return "i:" + strconv.FormatInt(int64(val), 10), nil
	case Float:
		return "f:" + strconv.FormatFloat(float64(val), 'g', -1, 64), nil
	default:
		return "", fmt.Errorf("unusable as map key: %s", v.Kind())
	}
}

// Map is a mapping from string/number keys to values, with reference
// semantics like Array. Insertion order is not preserved or observable.
type Map struct {
	entries map[string]Value
	// display tracks one representative key-literal per canonical entry, for
	// String() output; order is otherwise insignificant.
	display map[string]Value
}

// NewMap creates an empty Map.
func NewMap() *Map {
	return &Map{entries: make(map[string]Value), display: make(map[string]Value)}
}

// Get looks up a value by its already-canonicalized key.
func (m *Map) Get(key string) (Value, bool) {
	v, ok := m.entries[key]
	return v, ok
}

// Set stores a value under the given key, remembering keyLiteral for display.
func (m *Map) Set(key string, keyLiteral, value Value) {
	m.entries[key] = value
	m.display[key] = keyLiteral
}

// Delete removes a key, reporting whether it was present.
func (m *Map) Delete(key string) bool {
	if _, ok := m.entries[key]; !ok {
		return false
	}
	delete(m.entries, key)
	delete(m.display, key)
	return true
}

// Len returns the number of entries.
func (m *Map) Len() int { return len(m.entries) }

// DisplayKeys returns the original key-literal Value for each entry, in no
// particular order — used to iterate a Map's keys (e.g. to rebuild a Go map
// of column names for a Model descriptor).
func (m *Map) DisplayKeys() []Value {
	keys := make([]Value, 0, len(m.display))
	for _, lit := range m.display {
		keys = append(keys, lit)
	}
	return keys
}

func (*Map) Kind() Kind { return KindMap }
func (m *Map) String() string {
	parts := make([]string, 0, len(m.entries))
	for key, val := range m.entries {
		parts = append(parts, fmt.Sprintf("%s: %s", m.display[key].String(), val.String()))
	}
	return "{" + strings.Join(parts, ", ") + "}"
}

// Function is a closure: a FunctionDeclaration paired with the environment it
// was defined in. This is an ordinary closure allocated each time its
// enclosing FunctionDeclaration or method is evaluated into a first-class
// value and bound via MemberAccess.
type Function struct {
	Decl *ast.FunctionDeclaration
	Env  *Environment
	// This is non-nil when the function is a method bound to a receiver
	// (see MemberAccess method binding); nil for ordinary function values.
	This Value
}

func (*Function) Kind() Kind { return KindFunction }
func (f *Function) String() string {
	name := f.Decl.Name
	if name == "" {
		name = "<constructor>"
	}
	return fmt.Sprintf("<function %s>", name)
}

// Bind returns a copy of f with This set to receiver, used when a method is
// extracted from an instance via MemberAccess.
func (f *Function) Bind(receiver Value) *Function {
	bound := *f
	bound.This = receiver
	return &bound
}

// NativeFunction is a builtin implemented in Go rather than as a
// FunctionDeclaration closure — print, len, str, and friends.
type NativeFunction struct {
	Name string
	Fn   func(args []Value) (Value, error)
}

func (*NativeFunction) Kind() Kind { return KindFunction }
func (n *NativeFunction) String() string {
	return fmt.Sprintf("<builtin %s>", n.Name)
}

// Class is a class value: a name, an optional superclass, an optional
// constructor, and a method table. Env is the scope the class was declared
// in, which becomes the parent scope for method/constructor bodies.
type Class struct {
	Name        string
	Superclass  *Class
	Constructor *ast.FunctionDeclaration
	Methods     map[string]*ast.FunctionDeclaration
	Env         *Environment
}

func (*Class) Kind() Kind        { return KindClass }
func (c *Class) String() string { return fmt.Sprintf("<class %s>", c.Name) }

// FindMethod looks up name on c, then recursively on its superclass chain.
// It returns the declaring class alongside the method so callers can resolve
// the method's lexical scope correctly.
func (c *Class) FindMethod(name string) (*ast.FunctionDeclaration, *Class, bool) {
	if m, ok := c.Methods[name]; ok {
		return m, c, true
	}
	if c.Superclass != nil {
		return c.Superclass.FindMethod(name)
	}
	return nil, nil, false
}

// IsSubclassOf reports whether c is class or a descendant of class.
func (c *Class) IsSubclassOf(class *Class) bool {
	for cur := c; cur != nil; cur = cur.Superclass {
		if cur == class {
			return true
		}
	}
	return false
}

// Instance is a class-bound record with a mutable per-object field map.
// Fields shadow methods for reads only when a field of the same name exists.
type Instance struct {
	Class  *Class
	Fields map[string]Value
}

// NewInstance creates an instance of class with an empty field map.
func NewInstance(class *Class) *Instance {
	return &Instance{Class: class, Fields: make(map[string]Value)}
}

func (*Instance) Kind() Kind { return KindInstance }
func (i *Instance) String() string {
	return fmt.Sprintf("<instance %s>", i.Class.Name)
}

// Truthy implements the language's truthiness rule: null, false, 0, 0.0, and
// "" are falsy; everything else, including empty arrays and maps, is truthy.
func Truthy(v Value) bool {
	switch val := v.(type) {
	case Null:
		return false
	case Bool:
		return bool(val)
	case Int:
		return val != 0
	case Float:
		return val != 0
	case String:
		return val != ""
	default:
		return true
	}
}
