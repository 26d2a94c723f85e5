package interp

import (
	"fmt"

	"github.com/brewlang/brewin/pkg/ast"
)

// Value is a tagged runtime value. Assignment and return use copy
// semantics (Copy), except for the cell-sharing that backs reference
// parameters, which never goes through Copy.
type Value interface {
	// Kind names the value's runtime type: "int", "string", "bool", "nil",
	// "func" or "closure".
	Kind() string

	// String renders the value the way print() formats it.
	String() string

	// Copy returns the value to store when this value is assigned,
	// returned, or passed as a value parameter. Scalars copy trivially;
	// functions and closures return themselves, since their identity is
	// the observable thing (see Equals).
	Copy() Value
}

// IntValue is a 64-bit signed integer.
type IntValue struct {
	Value int64
}

func (v *IntValue) Kind() string   { return "int" }
func (v *IntValue) String() string { return fmt.Sprintf("%d", v.Value) }
func (v *IntValue) Copy() Value    { return &IntValue{Value: v.Value} }

// StringValue is a Brewin string.
type StringValue struct {
	Value string
}

func (v *StringValue) Kind() string   { return "string" }
func (v *StringValue) String() string { return v.Value }
func (v *StringValue) Copy() Value    { return &StringValue{Value: v.Value} }

// BoolValue is a Brewin boolean.
type BoolValue struct {
	Value bool
}

func (v *BoolValue) Kind() string { return "bool" }
func (v *BoolValue) String() string {
	if v.Value {
		return "true"
	}
	return "false"
}
func (v *BoolValue) Copy() Value { return &BoolValue{Value: v.Value} }

// NilValue is the sole nil value.
type NilValue struct{}

func (v *NilValue) Kind() string   { return "nil" }
func (v *NilValue) String() string { return "nil" }
func (v *NilValue) Copy() Value    { return &NilValue{} }

// Nil is the shared nil value instance.
var Nil = &NilValue{}

// FuncValue is a reference to one specific overload of a named, top-level
// function. Identity is the pointer to the underlying declaration: every
// lookup of the same overload from the registry returns a value wrapping
// the same *ast.FunctionDecl, so two FuncValues compare equal exactly when
// they name the same overload.
type FuncValue struct {
	Name string
	Def  *ast.FunctionDecl
}

func (v *FuncValue) Kind() string   { return "func" }
func (v *FuncValue) String() string { return fmt.Sprintf("<function %s>", v.Name) }
func (v *FuncValue) Copy() Value    { return v }

// ClosureValue is a lambda paired with a map of captured variable name to
// captured value. The capture map is owned by the closure and mutated in
// place at the end of every invocation (see call.go), giving closures
// persistent per-closure state across calls. Identity is pointer identity:
// every evaluation of a lambda expression allocates a new ClosureValue, so
// two distinct lambda expressions are never equal even with identical
// bodies and initial captures.
type ClosureValue struct {
	Params     []*ast.Param
	Statements []ast.Statement
	Captures   map[string]Value
}

func (v *ClosureValue) Kind() string   { return "closure" }
func (v *ClosureValue) String() string { return "<lambda>" }
func (v *ClosureValue) Copy() Value    { return v }

// Equals implements == between two values per the language's equality
// rules: func/closure compare by identity; int/bool pairs coerce;
// otherwise cross-kind comparisons are false, same-kind compare by
// value.
func Equals(a, b Value) (bool, error) {
	if af, ok := a.(*FuncValue); ok {
		bf, ok := b.(*FuncValue)
		return ok && af.Def == bf.Def, nil
	}
	if ac, ok := a.(*ClosureValue); ok {
		bc, ok := b.(*ClosureValue)
		return ok && ac == bc, nil
	}
	if _, ok := b.(*FuncValue); ok {
		return false, nil
	}
	if _, ok := b.(*ClosureValue); ok {
		return false, nil
	}

	if isIntOrBool(a) && isIntOrBool(b) && a.Kind() != b.Kind() {
		ab, err := toBool(a)
		if err != nil {
			return false, err
		}
		bb, err := toBool(b)
		if err != nil {
			return false, err
		}
		return ab == bb, nil
	}

	if a.Kind() != b.Kind() {
		return false, nil
	}

	switch av := a.(type) {
	case *IntValue:
		return av.Value == b.(*IntValue).Value, nil
	case *StringValue:
		return av.Value == b.(*StringValue).Value, nil
	case *BoolValue:
		return av.Value == b.(*BoolValue).Value, nil
	case *NilValue:
		return true, nil
	}
	return false, nil
}

func isIntOrBool(v Value) bool {
	return v.Kind() == "int" || v.Kind() == "bool"
}
