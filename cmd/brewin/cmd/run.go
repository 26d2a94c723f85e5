package cmd

import (
	"fmt"
	"os"

	"github.com/brewlang/brewin/internal/errors"
	"github.com/brewlang/brewin/internal/interp"
	"github.com/brewlang/brewin/internal/lexer"
	"github.com/brewlang/brewin/internal/parser"
	"github.com/spf13/cobra"
)

var (
	evalExpr string
	dumpAST  bool
	trace    bool
)

var runCmd = &cobra.Command{
	Use:   "run [file]",
	Short: "Run a Brewin program",
	Long: `Execute a Brewin program from a file or inline source.

Examples:
  # Run a script file
  brewin run script.brew

  # Evaluate inline source
  brewin run -e 'func main() { print("hi"); }'

  # Run with an AST dump (for debugging)
  brewin run --dump-ast script.brew`,
	Args: cobra.MaximumNArgs(1),
	RunE: runScript,
}

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().StringVarP(&evalExpr, "eval", "e", "", "evaluate inline source instead of reading from a file")
	runCmd.Flags().BoolVar(&dumpAST, "dump-ast", false, "dump the parsed AST (for debugging)")
	runCmd.Flags().BoolVar(&trace, "trace", false, "print a banner line to stderr before execution (for debugging)")
}

func runScript(_ *cobra.Command, args []string) error {
	var source, filename string

	switch {
	case evalExpr != "":
		source = evalExpr
		filename = "<eval>"
	case len(args) == 1:
		filename = args[0]
		content, err := os.ReadFile(filename)
		if err != nil {
			return fmt.Errorf("failed to read file %s: %w", filename, err)
		}
		source = string(content)
	default:
		return fmt.Errorf("either provide a file path or use -e for inline source")
	}

	l := lexer.New(source)
	p := parser.New(l)
	program := p.ParseProgram()

	if parseErrs := p.Errors(); len(parseErrs) > 0 {
		compilerErrors := errors.FromStringErrors(parseErrs, source, filename)
		fmt.Fprint(os.Stderr, errors.FormatErrors(compilerErrors, true))
		fmt.Fprintln(os.Stderr)
		return fmt.Errorf("parsing failed with %d error(s)", len(parseErrs))
	}

	if dumpAST {
		fmt.Println("AST:")
		fmt.Println(program.String())
		fmt.Println()
	}

	if trace {
		fmt.Fprintf(os.Stderr, "[Trace mode enabled - executing %s]\n", filename)
	}

	interpreter := interp.New(os.Stdout)
	if err := interpreter.Run(source); err != nil {
		fmt.Fprintf(os.Stderr, "Runtime error: %s\n", err)
		if rerr, ok := err.(*interp.RuntimeError); ok && len(rerr.Trace) > 0 {
			fmt.Fprintln(os.Stderr, "Stack trace:")
			fmt.Fprintln(os.Stderr, rerr.Trace.String())
		}
		return fmt.Errorf("execution failed")
	}

	return nil
}
