// Package interp implements the Brewin tree-walking evaluator: the value
// model, environment/scope discipline, call protocol, operator semantics
// and built-ins described by the language.
package interp

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/brewlang/brewin/internal/lexer"
	"github.com/brewlang/brewin/internal/parser"
	"github.com/brewlang/brewin/pkg/ast"
)

// Interpreter runs one Brewin program. Its registry and environment are
// reinitialized by every call to Run, so a single Interpreter can be
// reused across runs, and distinct Interpreters never share state.
type Interpreter struct {
	out io.Writer

	consoleOutput     bool
	input             []string
	maxRecursionDepth int

	registry  map[string]map[int]*ast.FunctionDecl
	env       *Environment
	calls     *callStack
	outputLog []string
	inputCur  int

	lastErrorKind ErrorKind
	lastErrorLine int
	hasError      bool
}

// New creates an Interpreter that writes console echoes to out.
func New(out io.Writer, opts ...Option) *Interpreter {
	i := &Interpreter{
		out:           out,
		consoleOutput: true,
	}
	for _, opt := range opts {
		opt(i)
	}
	i.calls = newCallStack(i.maxRecursionDepth)
	return i
}

func (i *Interpreter) reset() {
	i.registry = make(map[string]map[int]*ast.FunctionDecl)
	i.env = NewEnvironment()
	i.calls = newCallStack(i.maxRecursionDepth)
	i.outputLog = nil
	i.inputCur = 0
	i.lastErrorKind = NoError
	i.lastErrorLine = 0
	i.hasError = false
}

// Run parses and executes source, starting from a synthetic call to
// main() with no arguments. A parse failure or a fatal runtime error is
// returned as error; in the runtime-error case, GetErrorTypeAndLine
// reports the classification.
func (i *Interpreter) Run(source string) error {
	i.reset()

	l := lexer.New(source)
	p := parser.New(l)
	program := p.ParseProgram()

	if errs := p.Errors(); len(errs) > 0 {
		return fmt.Errorf("parsing failed with %d error(s): %s", len(errs), strings.Join(errs, "; "))
	}

	for _, fn := range program.Functions {
		arities, ok := i.registry[fn.Name]
		if !ok {
			arities = make(map[int]*ast.FunctionDecl)
			i.registry[fn.Name] = arities
		}
		arities[len(fn.Params)] = fn
	}

	_, err := i.callByName("main", nil, 0)
	if err != nil {
		if rerr, ok := err.(*RuntimeError); ok {
			i.hasError = true
			i.lastErrorKind = rerr.Kind
			i.lastErrorLine = rerr.Line
		}
		return err
	}
	return nil
}

// GetOutput returns every line produced by print and by inputi/inputs
// prompt echoes, in emission order.
func (i *Interpreter) GetOutput() []string {
	return i.outputLog
}

// GetErrorTypeAndLine reports the last fatal error's classification and
// best-effort line number. ok is true only when the last Run ended in a
// runtime error; it is false after a successful run or a parse failure.
func (i *Interpreter) GetErrorTypeAndLine() (kind ErrorKind, line int, ok bool) {
	return i.lastErrorKind, i.lastErrorLine, i.hasError
}

// writeLine emits one line of output: always recorded for GetOutput, and
// echoed to the underlying writer when console output is enabled.
func (i *Interpreter) writeLine(line string) {
	i.outputLog = append(i.outputLog, line)
	if i.consoleOutput && i.out != nil {
		fmt.Fprintln(i.out, line)
	}
}

// readLine returns the next pre-canned input line, or ("", false) once the
// canned sequence is exhausted.
func (i *Interpreter) readLine() (string, bool) {
	if i.inputCur >= len(i.input) {
		return "", false
	}
	line := i.input[i.inputCur]
	i.inputCur++
	return line, true
}

// formatForPrint renders a value the way print() and input-prompt echoes
// format it: int/string as their text form, bool lowercase, nil as
// "nil", and callables as a stable placeholder.
func formatForPrint(v Value) string {
	return v.String()
}

func parseIntLine(s string) (int64, bool) {
	n, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	if err != nil {
		return 0, false
	}
	return n, true
}
