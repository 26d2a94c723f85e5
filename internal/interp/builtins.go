package interp

import (
	"strings"

	"github.com/brewlang/brewin/pkg/ast"
)

func isBuiltinName(name string) bool {
	switch name {
	case "print", "inputi", "inputs":
		return true
	}
	return false
}

// callBuiltin dispatches one of the three built-in I/O functions.
func callBuiltin(i *Interpreter, name string, argNodes []ast.Expression, line int) (Value, error) {
	switch name {
	case "print":
		return i.builtinPrint(argNodes)
	case "inputi":
		return i.builtinInput(argNodes, line, true)
	case "inputs":
		return i.builtinInput(argNodes, line, false)
	default:
		return nil, newNameError(line, "No %s() function found", name)
	}
}

func (i *Interpreter) builtinPrint(argNodes []ast.Expression) (Value, error) {
	var sb strings.Builder
	for _, argNode := range argNodes {
		val, err := i.evalExpression(argNode)
		if err != nil {
			return nil, err
		}
		sb.WriteString(formatForPrint(val))
	}
	i.writeLine(sb.String())
	return Nil, nil
}

// builtinInput implements inputi (asInt == true) and inputs (asInt ==
// false). Both print an optional single prompt argument first, then read
// one line of input.
func (i *Interpreter) builtinInput(argNodes []ast.Expression, line int, asInt bool) (Value, error) {
	name := "inputs"
	if asInt {
		name = "inputi"
	}

	if len(argNodes) > 1 {
		return nil, newNameError(line, "No %s() function found that takes > 1 parameter", name)
	}
	if len(argNodes) == 1 {
		prompt, err := i.evalExpression(argNodes[0])
		if err != nil {
			return nil, err
		}
		i.writeLine(formatForPrint(prompt))
	}

	raw, ok := i.readLine()
	if !ok {
		return Nil, nil
	}

	if !asInt {
		return &StringValue{Value: raw}, nil
	}

	n, ok := parseIntLine(raw)
	if !ok {
		return nil, newTypeError(line, "could not parse input %q as an integer", raw)
	}
	return &IntValue{Value: n}, nil
}
