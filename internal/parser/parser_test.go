package parser

import (
	"testing"

	"github.com/brewlang/brewin/internal/lexer"
	"github.com/brewlang/brewin/pkg/ast"
)

func parseProgram(t *testing.T, input string) *ast.Program {
	t.Helper()
	l := lexer.New(input)
	p := New(l)
	program := p.ParseProgram()
	if errs := p.Errors(); len(errs) > 0 {
		t.Fatalf("parser errors: %v", errs)
	}
	return program
}

func TestParseFunctionDecl_NoParams(t *testing.T) {
	program := parseProgram(t, `func main() { print("hi"); }`)

	if len(program.Functions) != 1 {
		t.Fatalf("expected 1 function, got %d", len(program.Functions))
	}
	fn := program.Functions[0]
	if fn.Name != "main" {
		t.Errorf("Name = %q, want %q", fn.Name, "main")
	}
	if len(fn.Params) != 0 {
		t.Errorf("expected 0 params, got %d", len(fn.Params))
	}
	if len(fn.Statements) != 1 {
		t.Fatalf("expected 1 statement, got %d", len(fn.Statements))
	}
}

func TestParseFunctionDecl_RefAndValueParams(t *testing.T) {
	program := parseProgram(t, `func swap(ref a, ref b) { return; }`)

	fn := program.Functions[0]
	if len(fn.Params) != 2 {
		t.Fatalf("expected 2 params, got %d", len(fn.Params))
	}
	if !fn.Params[0].ByRef || fn.Params[0].Name != "a" {
		t.Errorf("param 0 = %+v, want ByRef a", fn.Params[0])
	}
	if !fn.Params[1].ByRef || fn.Params[1].Name != "b" {
		t.Errorf("param 1 = %+v, want ByRef b", fn.Params[1])
	}
}

func TestParseFunctionDecl_MixedParams(t *testing.T) {
	program := parseProgram(t, `func f(a, ref b, c) { return; }`)

	fn := program.Functions[0]
	if len(fn.Params) != 3 {
		t.Fatalf("expected 3 params, got %d", len(fn.Params))
	}
	wantByRef := []bool{false, true, false}
	for i, p := range fn.Params {
		if p.ByRef != wantByRef[i] {
			t.Errorf("param %d ByRef = %v, want %v", i, p.ByRef, wantByRef[i])
		}
	}
}

func TestParseOverloadsByArity(t *testing.T) {
	program := parseProgram(t, `
func f() { return 0; }
func f(a) { return a; }
func f(a, b) { return a + b; }
`)

	if len(program.Functions) != 3 {
		t.Fatalf("expected 3 overloads, got %d", len(program.Functions))
	}
	for i, fn := range program.Functions {
		if fn.Name != "f" {
			t.Errorf("function %d name = %q, want f", i, fn.Name)
		}
		if len(fn.Params) != i {
			t.Errorf("function %d arity = %d, want %d", i, len(fn.Params), i)
		}
	}
}

func TestParseIfElse(t *testing.T) {
	program := parseProgram(t, `
func main() {
  if (x < 10) {
    print("small");
  } else {
    print("big");
  }
}
`)

	fn := program.Functions[0]
	ifStmt, ok := fn.Statements[0].(*ast.IfStatement)
	if !ok {
		t.Fatalf("statement 0 is %T, want *ast.IfStatement", fn.Statements[0])
	}
	if !ifStmt.HasAlternative {
		t.Error("expected HasAlternative == true")
	}
	if len(ifStmt.Consequence) != 1 || len(ifStmt.Alternative) != 1 {
		t.Errorf("expected one statement per branch, got %d/%d",
			len(ifStmt.Consequence), len(ifStmt.Alternative))
	}
}

func TestParseWhile(t *testing.T) {
	program := parseProgram(t, `
func main() {
  while (i < 10) {
    i = i + 1;
  }
}
`)

	fn := program.Functions[0]
	ws, ok := fn.Statements[0].(*ast.WhileStatement)
	if !ok {
		t.Fatalf("statement 0 is %T, want *ast.WhileStatement", fn.Statements[0])
	}
	if len(ws.Body) != 1 {
		t.Fatalf("expected 1 body statement, got %d", len(ws.Body))
	}
}

func TestParseBareReturn(t *testing.T) {
	program := parseProgram(t, `func f() { return; }`)
	rs, ok := program.Functions[0].Statements[0].(*ast.ReturnStatement)
	if !ok {
		t.Fatalf("statement 0 is %T, want *ast.ReturnStatement", program.Functions[0].Statements[0])
	}
	if rs.ReturnValue != nil {
		t.Errorf("expected nil ReturnValue for bare return, got %v", rs.ReturnValue)
	}
}

func TestParseAssignment_PlainAndDotted(t *testing.T) {
	program := parseProgram(t, `
func main() {
  x = 5;
  obj.field = 5;
}
`)

	fn := program.Functions[0]

	plain, ok := fn.Statements[0].(*ast.AssignStatement)
	if !ok {
		t.Fatalf("statement 0 is %T, want *ast.AssignStatement", fn.Statements[0])
	}
	if plain.Target != "x" || plain.DottedTarget != "" {
		t.Errorf("plain assign = %+v, want Target=x", plain)
	}

	dotted, ok := fn.Statements[1].(*ast.AssignStatement)
	if !ok {
		t.Fatalf("statement 1 is %T, want *ast.AssignStatement", fn.Statements[1])
	}
	if dotted.DottedTarget != "obj.field" || dotted.Target != "" {
		t.Errorf("dotted assign = %+v, want DottedTarget=obj.field", dotted)
	}
}

func TestParseLambdaExpression(t *testing.T) {
	program := parseProgram(t, `
func main() {
  f = lambda(x) { return x + 1; };
}
`)

	assign := program.Functions[0].Statements[0].(*ast.AssignStatement)
	lambda, ok := assign.Value.(*ast.LambdaExpression)
	if !ok {
		t.Fatalf("assign value is %T, want *ast.LambdaExpression", assign.Value)
	}
	if len(lambda.Params) != 1 || lambda.Params[0].Name != "x" {
		t.Errorf("lambda params = %+v, want [x]", lambda.Params)
	}
}

func TestParseCallExpression(t *testing.T) {
	program := parseProgram(t, `func main() { foo(1, "a", true); }`)
	exprStmt := program.Functions[0].Statements[0].(*ast.ExpressionStatement)
	call, ok := exprStmt.Expression.(*ast.CallExpression)
	if !ok {
		t.Fatalf("expression is %T, want *ast.CallExpression", exprStmt.Expression)
	}
	if call.Function != "foo" {
		t.Errorf("Function = %q, want foo", call.Function)
	}
	if len(call.Arguments) != 3 {
		t.Fatalf("expected 3 arguments, got %d", len(call.Arguments))
	}
}

func TestParseMethodCallExpression(t *testing.T) {
	program := parseProgram(t, `func main() { obj.method(1); }`)
	exprStmt := program.Functions[0].Statements[0].(*ast.ExpressionStatement)
	call, ok := exprStmt.Expression.(*ast.MethodCallExpression)
	if !ok {
		t.Fatalf("expression is %T, want *ast.MethodCallExpression", exprStmt.Expression)
	}
	if call.Object != "obj" || call.Method != "method" {
		t.Errorf("call = %+v, want Object=obj Method=method", call)
	}
}

func TestParseObjectLiteral(t *testing.T) {
	program := parseProgram(t, `func main() { x = @; }`)
	assign := program.Functions[0].Statements[0].(*ast.AssignStatement)
	if _, ok := assign.Value.(*ast.ObjectLiteral); !ok {
		t.Fatalf("assign value is %T, want *ast.ObjectLiteral", assign.Value)
	}
}

func TestParseUnaryOperators(t *testing.T) {
	program := parseProgram(t, `
func main() {
  a = -5;
  b = !true;
}
`)
	fn := program.Functions[0]

	neg := fn.Statements[0].(*ast.AssignStatement).Value.(*ast.PrefixExpression)
	if neg.Operator != "neg" {
		t.Errorf("Operator = %q, want neg", neg.Operator)
	}

	not := fn.Statements[1].(*ast.AssignStatement).Value.(*ast.PrefixExpression)
	if not.Operator != "!" {
		t.Errorf("Operator = %q, want !", not.Operator)
	}
}

func TestParseBinaryOperatorsAndPrecedence(t *testing.T) {
	program := parseProgram(t, `func main() { x = 1 + 2 * 3; }`)
	assign := program.Functions[0].Statements[0].(*ast.AssignStatement)
	infix := assign.Value.(*ast.InfixExpression)

	if infix.Operator != "+" {
		t.Fatalf("top operator = %q, want +", infix.Operator)
	}
	if _, ok := infix.Left.(*ast.IntegerLiteral); !ok {
		t.Errorf("Left is %T, want *ast.IntegerLiteral", infix.Left)
	}
	right, ok := infix.Right.(*ast.InfixExpression)
	if !ok {
		t.Fatalf("Right is %T, want *ast.InfixExpression (the * term)", infix.Right)
	}
	if right.Operator != "*" {
		t.Errorf("Right operator = %q, want *", right.Operator)
	}
}

func TestParseLogicalOperatorsNonShortCircuitPrecedence(t *testing.T) {
	program := parseProgram(t, `func main() { x = a == b && c || d; }`)
	assign := program.Functions[0].Statements[0].(*ast.AssignStatement)

	or := assign.Value.(*ast.InfixExpression)
	if or.Operator != "||" {
		t.Fatalf("top operator = %q, want ||", or.Operator)
	}
	and := or.Left.(*ast.InfixExpression)
	if and.Operator != "&&" {
		t.Fatalf("middle operator = %q, want &&", and.Operator)
	}
	eq := and.Left.(*ast.InfixExpression)
	if eq.Operator != "==" {
		t.Errorf("inner operator = %q, want ==", eq.Operator)
	}
}

func TestParseGroupedExpression(t *testing.T) {
	program := parseProgram(t, `func main() { x = (1 + 2) * 3; }`)
	assign := program.Functions[0].Statements[0].(*ast.AssignStatement)
	infix := assign.Value.(*ast.InfixExpression)
	if infix.Operator != "*" {
		t.Fatalf("top operator = %q, want *", infix.Operator)
	}
	if _, ok := infix.Left.(*ast.InfixExpression); !ok {
		t.Errorf("Left is %T, want the grouped *ast.InfixExpression", infix.Left)
	}
}

func TestParseProgram_SyntaxErrorRecovery(t *testing.T) {
	l := lexer.New(`func main() { x = ; } garbage func g() { return; }`)
	p := New(l)
	p.ParseProgram()

	if len(p.Errors()) == 0 {
		t.Fatal("expected at least one syntax error")
	}
}
