package cmd

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/Victra-Studio/privvy/internal/eval"
	"github.com/Victra-Studio/privvy/internal/hostdb"
	"github.com/Victra-Studio/privvy/internal/lexer"
	"github.com/Victra-Studio/privvy/internal/parser"
	"github.com/Victra-Studio/privvy/internal/runtime"
	"github.com/spf13/cobra"
)

// declarativeKeywords prefix a statement whose result is never echoed, even
// when it happens to produce a non-null value (e.g. an `if` whose branches
// are expression statements).
var declarativeKeywords = []string{"let", "fun", "class", "if", "while", "for"}

var replCmd = &cobra.Command{
	Use:   "repl",
	Short: "Start an interactive Privvy prompt",
	RunE: func(*cobra.Command, []string) error {
		runREPL(os.Stdin, os.Stdout)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(replCmd)
}

// runREPL reads one line at a time from in, evaluates it against a single
// persistent Evaluator, and echoes non-null expression results. Reserved
// input `exit`/`quit` and end-of-input both terminate the loop; neither a
// parse error nor a runtime error does.
func runREPL(in io.Reader, out io.Writer) {
	fmt.Fprintln(out, "Privvy Programming Language v0.1.0")
	fmt.Fprintln(out, "Type 'exit' or 'quit' to exit")
	fmt.Fprintln(out)

	e := eval.New()
	e.Stdout = out
	e.NewDatabase = func(connStr string) (runtime.HostObject, error) { return hostdb.New(connStr) }
	e.NewModel = func(table string, fields map[string]string) (runtime.HostObject, error) { return hostdb.NewModel(table, fields) }

	scanner := bufio.NewScanner(in)
	for {
		fmt.Fprint(out, ">>> ")
		if !scanner.Scan() {
			fmt.Fprintln(out, "\nGoodbye!")
			return
		}
		line := scanner.Text()
		trimmed := strings.TrimSpace(line)

		if trimmed == "exit" || trimmed == "quit" {
			fmt.Fprintln(out, "Goodbye!")
			return
		}
		if trimmed == "" {
			continue
		}

		evalREPLLine(e, out, line, trimmed)
	}
}

func evalREPLLine(e *eval.Evaluator, out io.Writer, line, trimmed string) {
	p := parser.New(lexer.New(line))
	prog, err := p.ParseProgram()
	if err != nil {
		fmt.Fprintf(out, "Error: %v\n", err)
		return
	}
	if verbose {
		fmt.Fprintf(os.Stderr, "parsed %d statement(s)\n", len(prog.Statements))
	}

	declarative := isDeclarative(trimmed)
	for _, stmt := range prog.Statements {
		val, err := e.RunStatement(stmt)
		if err != nil {
			fmt.Fprintf(out, "Error: %v\n", err)
			return
		}
		if val != nil && val != runtime.Value(runtime.Nil) && !declarative {
			fmt.Fprintln(out, val.String())
		}
	}
}

func isDeclarative(line string) bool {
	for _, kw := range declarativeKeywords {
		if strings.HasPrefix(line, kw) {
			return true
		}
	}
	return false
}
