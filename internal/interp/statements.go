package interp

import "github.com/brewlang/brewin/pkg/ast"

// execResult carries a pending non-local return up through nested
// statement execution. A zero-value execResult means "fell off the end
// without returning".
type execResult struct {
	returned bool
	value    Value
}

// execBlock runs statements in order, stopping as soon as one of them
// produces a return signal.
func (i *Interpreter) execBlock(statements []ast.Statement) (execResult, error) {
	for _, stmt := range statements {
		res, err := i.execStatement(stmt)
		if err != nil {
			return execResult{}, err
		}
		if res.returned {
			return res, nil
		}
	}
	return execResult{}, nil
}

func (i *Interpreter) execStatement(stmt ast.Statement) (execResult, error) {
	switch node := stmt.(type) {
	case *ast.AssignStatement:
		return execResult{}, i.execAssign(node)
	case *ast.ExpressionStatement:
		return execResult{}, i.execExpressionStatement(node)
	case *ast.IfStatement:
		return i.execIf(node)
	case *ast.WhileStatement:
		return i.execWhile(node)
	case *ast.ReturnStatement:
		return i.execReturn(node)
	default:
		return execResult{}, newTypeError(0, "unsupported statement node %T", stmt)
	}
}

func (i *Interpreter) execAssign(node *ast.AssignStatement) error {
	if node.DottedTarget != "" {
		return newTypeError(node.Pos().Line, "dotted assignment targets ('%s') are not supported", node.DottedTarget)
	}

	val, err := i.evalExpression(node.Value)
	if err != nil {
		return err
	}
	i.env.Assign(node.Target, val.Copy())
	return nil
}

func (i *Interpreter) execExpressionStatement(node *ast.ExpressionStatement) error {
	if node.Expression == nil {
		return nil
	}
	_, err := i.evalExpression(node.Expression)
	return err
}

// execIf pushes a scope frame for the branch it takes and pops it on every
// exit path, including a return unwinding through it.
func (i *Interpreter) execIf(node *ast.IfStatement) (execResult, error) {
	i.env.PushFrame()
	defer i.env.PopFrame()

	cond, err := i.evalExpression(node.Condition)
	if err != nil {
		return execResult{}, err
	}
	truthy, err := evalCondition(cond, node.Pos().Line, "If")
	if err != nil {
		return execResult{}, err
	}

	if truthy {
		return i.execBlock(node.Consequence)
	}
	if node.HasAlternative {
		return i.execBlock(node.Alternative)
	}
	return execResult{}, nil
}

// execWhile pushes a single scope frame for the whole loop, so a
// loop-local declaration persists across iterations (later passes
// overwrite its cell rather than introducing a new one), and pops it on
// every exit path.
func (i *Interpreter) execWhile(node *ast.WhileStatement) (execResult, error) {
	i.env.PushFrame()
	defer i.env.PopFrame()

	for {
		cond, err := i.evalExpression(node.Condition)
		if err != nil {
			return execResult{}, err
		}
		truthy, err := evalCondition(cond, node.Pos().Line, "While")
		if err != nil {
			return execResult{}, err
		}
		if !truthy {
			return execResult{}, nil
		}

		res, err := i.execBlock(node.Body)
		if err != nil {
			return execResult{}, err
		}
		if res.returned {
			return res, nil
		}
	}
}

func (i *Interpreter) execReturn(node *ast.ReturnStatement) (execResult, error) {
	if node.ReturnValue == nil {
		return execResult{returned: true, value: Nil}, nil
	}
	val, err := i.evalExpression(node.ReturnValue)
	if err != nil {
		return execResult{}, err
	}
	return execResult{returned: true, value: val.Copy()}, nil
}
