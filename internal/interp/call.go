package interp

import (
	ierrors "github.com/brewlang/brewin/internal/errors"
	"github.com/brewlang/brewin/internal/lexer"
	"github.com/brewlang/brewin/pkg/ast"
)

// callTarget is a resolved, callable body: either a plain function
// overload (closure == nil) or a closure invocation.
type callTarget struct {
	name       string
	params     []*ast.Param
	statements []ast.Statement
	closure    *ClosureValue
}

func (i *Interpreter) evalCall(node *ast.CallExpression) (Value, error) {
	return i.callByName(node.Function, node.Arguments, node.Pos().Line)
}

// callByName implements the call protocol's target-resolution step:
// registry overload by arity, then a live callable variable, then a
// built-in, then NAME_ERROR.
func (i *Interpreter) callByName(name string, argNodes []ast.Expression, line int) (Value, error) {
	argc := len(argNodes)

	if arities, ok := i.registry[name]; ok {
		if fn, ok := arities[argc]; ok {
			return i.invoke(&callTarget{name: name, params: fn.Params, statements: fn.Statements}, argNodes, line)
		}
	}

	if cell, ok := i.env.Get(name); ok {
		switch v := cell.Value.(type) {
		case *FuncValue:
			if len(v.Def.Params) != argc {
				return nil, newTypeError(line, "No %s() function found that takes %d parameters", name, argc)
			}
			return i.invoke(&callTarget{name: name, params: v.Def.Params, statements: v.Def.Statements}, argNodes, line)
		case *ClosureValue:
			if len(v.Params) != argc {
				return nil, newTypeError(line, "No %s() function found that takes %d parameters", name, argc)
			}
			return i.invoke(&callTarget{name: name, params: v.Params, statements: v.Statements, closure: v}, argNodes, line)
		default:
			return nil, newTypeError(line, "%s is not callable", name)
		}
	}

	if isBuiltinName(name) {
		return callBuiltin(i, name, argNodes, line)
	}

	return nil, newNameError(line, "No %s() function found that takes %d parameters", name, argc)
}

// invoke binds arguments, installs closure captures, runs the body, writes
// captures back, and releases the call's scope frame on every exit path.
func (i *Interpreter) invoke(target *callTarget, argNodes []ast.Expression, line int) (Value, error) {
	if len(argNodes) != len(target.params) {
		return nil, newTypeError(line, "No %s() function found that takes %d parameters", target.name, len(argNodes))
	}

	paramCells, err := i.bindArguments(target.params, argNodes)
	if err != nil {
		return nil, err
	}

	if err := i.calls.push(target.name); err != nil {
		return nil, err
	}
	defer i.calls.pop()

	i.env.PushFrame()

	var installedCaptures []string
	if target.closure != nil {
		shadowed := make(map[string]bool, len(target.params))
		for _, p := range target.params {
			shadowed[p.Name] = true
		}
		for name, val := range target.closure.Captures {
			if shadowed[name] {
				continue
			}
			i.env.PushCell(name, &Cell{Value: val})
			installedCaptures = append(installedCaptures, name)
		}
	}

	for idx, param := range target.params {
		i.env.PushCell(param.Name, paramCells[idx])
	}

	defer func() {
		if target.closure != nil {
			for _, name := range installedCaptures {
				if cell, ok := i.env.Get(name); ok {
					target.closure.Captures[name] = cell.Value
				}
			}
		}
		i.env.PopFrame()
	}()

	result, err := i.execBlock(target.statements)
	if err != nil {
		if rerr, ok := err.(*RuntimeError); ok {
			var pos *lexer.Position
			if line > 0 {
				pos = &lexer.Position{Line: line}
			}
			frame := ierrors.NewStackFrame(target.name, "", pos)
			rerr.Trace = append(ierrors.StackTrace{frame}, rerr.Trace...)
		}
		return nil, err
	}
	if result.returned {
		return result.value, nil
	}
	return Nil, nil
}

// bindArguments evaluates arguments left to right and produces one cell per
// parameter: a shared cell for a reference parameter bound to a bare,
// live variable, or a fresh cell holding a deep copy otherwise.
func (i *Interpreter) bindArguments(params []*ast.Param, argNodes []ast.Expression) ([]*Cell, error) {
	cells := make([]*Cell, len(params))

	for idx, param := range params {
		argNode := argNodes[idx]

		if param.ByRef {
			if ident, ok := argNode.(*ast.Identifier); ok {
				if cell, ok := i.env.Get(ident.Name); ok {
					cells[idx] = cell
					continue
				}
			}
		}

		val, err := i.evalExpression(argNode)
		if err != nil {
			return nil, err
		}
		cells[idx] = &Cell{Value: val.Copy()}
	}

	return cells, nil
}
