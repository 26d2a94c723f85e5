package interp

import "github.com/brewlang/brewin/pkg/ast"

// evalExpression evaluates an expression node to a Value.
func (i *Interpreter) evalExpression(expr ast.Expression) (Value, error) {
	switch node := expr.(type) {
	case *ast.IntegerLiteral:
		return &IntValue{Value: node.Value}, nil
	case *ast.StringLiteral:
		return &StringValue{Value: node.Value}, nil
	case *ast.BooleanLiteral:
		return &BoolValue{Value: node.Value}, nil
	case *ast.NilLiteral:
		return Nil, nil
	case *ast.ObjectLiteral:
		return nil, newTypeError(node.Pos().Line, "object literals ('@') are not supported")
	case *ast.Identifier:
		return i.evalIdentifier(node)
	case *ast.LambdaExpression:
		return i.evalLambda(node), nil
	case *ast.PrefixExpression:
		return i.evalPrefix(node)
	case *ast.InfixExpression:
		return i.evalInfix(node)
	case *ast.CallExpression:
		return i.evalCall(node)
	case *ast.MethodCallExpression:
		return nil, newTypeError(node.Pos().Line, "method calls ('%s.%s(...)') are not supported", node.Object, node.Method)
	default:
		return nil, newTypeError(0, "unsupported expression node %T", expr)
	}
}

func (i *Interpreter) evalIdentifier(node *ast.Identifier) (Value, error) {
	if cell, ok := i.env.Get(node.Name); ok {
		return cell.Value, nil
	}

	arities, ok := i.registry[node.Name]
	if ok {
		if len(arities) > 1 {
			return nil, newNameError(node.Pos().Line, "%s is ambiguous: multiple overloads exist", node.Name)
		}
		for _, fn := range arities {
			return &FuncValue{Name: node.Name, Def: fn}, nil
		}
	}

	return nil, newNameError(node.Pos().Line, "Variable %s has not been defined", node.Name)
}

// evalLambda captures every currently-live variable binding by value into
// a fresh capture map, independent of subsequent outer mutations.
func (i *Interpreter) evalLambda(node *ast.LambdaExpression) Value {
	return &ClosureValue{
		Params:     node.Params,
		Statements: node.Statements,
		Captures:   i.env.Snapshot(),
	}
}

func (i *Interpreter) evalPrefix(node *ast.PrefixExpression) (Value, error) {
	right, err := i.evalExpression(node.Right)
	if err != nil {
		return nil, err
	}
	return applyUnary(node.Operator, right, node.Pos().Line)
}

// evalInfix always evaluates both operands before combining them: Brewin
// has no short-circuiting operators, even && and ||.
func (i *Interpreter) evalInfix(node *ast.InfixExpression) (Value, error) {
	left, err := i.evalExpression(node.Left)
	if err != nil {
		return nil, err
	}
	right, err := i.evalExpression(node.Right)
	if err != nil {
		return nil, err
	}
	return applyBinary(node.Operator, left, right, node.Pos().Line)
}
