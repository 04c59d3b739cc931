package evaluator

import (
	"strconv"
	"strings"

	"github.com/iqra-lang/iqra/pkg/iqra/ast"
	"github.com/iqra-lang/iqra/pkg/iqra/errors"
)

// ObjectType represents the type of an object
type ObjectType string

const (
	NUMBER_OBJ   ObjectType = "NUMBER"
	STRING_OBJ   ObjectType = "STRING"
	BOOLEAN_OBJ  ObjectType = "BOOLEAN"
	NULL_OBJ     ObjectType = "NULL"
	LIST_OBJ     ObjectType = "LIST"
	MAP_OBJ      ObjectType = "MAP"
	FUNCTION_OBJ ObjectType = "FUNCTION"
	BUILTIN_OBJ  ObjectType = "BUILTIN"
	RETURN_OBJ   ObjectType = "RETURN_VALUE"
	ERROR_OBJ    ObjectType = "ERROR"
)

// arabicTypeNames maps object types to the names the language surfaces to
// programs (the نوع builtin) and to Arabic error messages.
var arabicTypeNames = map[ObjectType]string{
	NUMBER_OBJ:   "رقم",
	STRING_OBJ:   "نص",
	BOOLEAN_OBJ:  "منطقي",
	NULL_OBJ:     "فارغ",
	LIST_OBJ:     "قائمة",
	MAP_OBJ:      "قاموس",
	FUNCTION_OBJ: "دالة",
	BUILTIN_OBJ:  "دالة",
}

// TypeNameAr returns the Arabic name of an object's type.
func TypeNameAr(obj Object) string {
	if name, ok := arabicTypeNames[obj.Type()]; ok {
		return name
	}
	return string(obj.Type())
}

// Object is the interface all values implement
type Object interface {
	Type() ObjectType
	Inspect() string
}

// Number represents numeric values. All numbers are doubles; Inspect
// renders integral values without a decimal point.
type Number struct {
	Value float64
}

func (n *Number) Type() ObjectType { return NUMBER_OBJ }
func (n *Number) Inspect() string {
	return strconv.FormatFloat(n.Value, 'f', -1, 64)
}

// Str represents string values
type Str struct {
	Value string
}

func (s *Str) Type() ObjectType { return STRING_OBJ }
func (s *Str) Inspect() string  { return s.Value }

// Boolean represents صحيح/خطأ
type Boolean struct {
	Value bool
}

func (b *Boolean) Type() ObjectType { return BOOLEAN_OBJ }
func (b *Boolean) Inspect() string {
	if b.Value {
		return "صحيح"
	}
	return "خطأ"
}

// Null represents فارغ
type Null struct{}

func (n *Null) Type() ObjectType { return NULL_OBJ }
func (n *Null) Inspect() string  { return "فارغ" }

// Shared singletons; comparisons against TRUE/FALSE/NULL are pointer
// comparisons.
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

// List represents list values. Lists are held by pointer everywhere, so
// mutating builtins are visible through every binding of the same list.
type List struct {
	Elements []Object
}

func (l *List) Type() ObjectType { return LIST_OBJ }
func (l *List) Inspect() string {
	elements := make([]string, 0, len(l.Elements))
	for _, e := range l.Elements {
		elements = append(elements, inspectNested(e))
	}
	return "[" + strings.Join(elements, ", ") + "]"
}

// Dict represents map values with string keys. Insertion order is part of
// the value: keys tracks first-insertion order, and Inspect and the keys
// builtin iterate in that order. Like List, Dict is shared by pointer.
type Dict struct {
	keys  []string
	pairs map[string]Object
}

// NewDict creates an empty ordered map.
func NewDict() *Dict {
	return &Dict{pairs: map[string]Object{}}
}

func (d *Dict) Type() ObjectType { return MAP_OBJ }
func (d *Dict) Inspect() string {
	pairs := make([]string, 0, len(d.keys))
	for _, k := range d.keys {
		pairs = append(pairs, k+": "+inspectNested(d.pairs[k]))
	}
	return "{" + strings.Join(pairs, ", ") + "}"
}

// Get returns the value for key and whether it exists.
func (d *Dict) Get(key string) (Object, bool) {
	v, ok := d.pairs[key]
	return v, ok
}

// Set stores key→value. A new key goes to the end of the order; updating
// an existing key keeps its position.
func (d *Dict) Set(key string, value Object) {
	if _, ok := d.pairs[key]; !ok {
		d.keys = append(d.keys, key)
	}
	d.pairs[key] = value
}

// Delete removes key, preserving the order of the remaining keys.
func (d *Dict) Delete(key string) {
	if _, ok := d.pairs[key]; !ok {
		return
	}
	delete(d.pairs, key)
	for i, k := range d.keys {
		if k == key {
			d.keys = append(d.keys[:i], d.keys[i+1:]...)
			break
		}
	}
}

// Keys returns the keys in insertion order.
func (d *Dict) Keys() []string { return d.keys }

// Len returns the number of entries.
func (d *Dict) Len() int { return len(d.pairs) }

// inspectNested renders container elements; strings get quotes inside
// containers so [1, "2"] and [1, 2] stay distinguishable.
func inspectNested(obj Object) string {
	if s, ok := obj.(*Str); ok {
		return "\"" + s.Value + "\""
	}
	return obj.Inspect()
}

// Function represents a user-defined function. Env is the definition
// environment, making every function a closure.
type Function struct {
	Name   string
	Params []*ast.Identifier
	Body   *ast.BlockStatement
	Env    *Environment
}

func (f *Function) Type() ObjectType { return FUNCTION_OBJ }
func (f *Function) Inspect() string {
	params := make([]string, 0, len(f.Params))
	for _, p := range f.Params {
		params = append(params, p.Value)
	}
	return "دالة " + f.Name + "(" + strings.Join(params, ", ") + ")"
}

// Builtin wraps a registry entry as a callable value
type Builtin struct {
	Def *BuiltinDef
}

func (b *Builtin) Type() ObjectType { return BUILTIN_OBJ }
func (b *Builtin) Inspect() string  { return "دالة مدمجة " + b.Def.Name }

// ReturnValue wraps the value of a return statement while it unwinds to
// the enclosing function call.
type ReturnValue struct {
	Value Object
}

func (rv *ReturnValue) Type() ObjectType { return RETURN_OBJ }
func (rv *ReturnValue) Inspect() string  { return rv.Value.Inspect() }

// Error wraps a structured runtime error while it unwinds to the nearest
// try/catch or the top-level caller.
type Error struct {
	Err *errors.IqraError
}

func (e *Error) Type() ObjectType { return ERROR_OBJ }
func (e *Error) Inspect() string  { return e.Err.String() }

// newError builds an Error object straight from the catalog.
func newError(code string, data map[string]any) *Error {
	return &Error{Err: errors.New(code, data)}
}

func isError(obj Object) bool {
	if obj != nil {
		return obj.Type() == ERROR_OBJ
	}
	return false
}
