package cmd

import (
	"fmt"
	"os"
	"time"

	"github.com/Victra-Studio/privvy/pkg/privvy"
	"github.com/spf13/cobra"
)

var (
	evalExpr     string
	maxCallDepth int
)

var runCmd = &cobra.Command{
	Use:   "run [file]",
	Short: "Run a Privvy file or expression",
	Long: `Execute a Privvy program from a file or inline expression.

Examples:
  # Run a script file
  privvy run script.priv

  # Evaluate an inline expression
  privvy run -e 'print("hello")'`,
	Args: cobra.MaximumNArgs(1),
	RunE: runScript,
}

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().StringVarP(&evalExpr, "eval", "e", "", "evaluate inline code instead of reading from file")
	runCmd.Flags().IntVar(&maxCallDepth, "max-call-depth", 0, "override the recursion guard (0 keeps the default)")
}

func runScript(_ *cobra.Command, args []string) error {
	var input string

	switch {
	case evalExpr != "":
		input = evalExpr
	case len(args) == 1:
		content, err := os.ReadFile(args[0])
		if err != nil {
			return fmt.Errorf("failed to read file %s: %w", args[0], err)
		}
		input = string(content)
	default:
		return fmt.Errorf("either provide a file path or use -e flag for inline code")
	}

	opts := []privvy.EngineOption{privvy.WithStdout(os.Stdout)}
	if maxCallDepth > 0 {
		opts = append(opts, privvy.WithMaxCallDepth(maxCallDepth))
	}
	engine, err := privvy.New(opts...)
	if err != nil {
		return fmt.Errorf("failed to create engine: %w", err)
	}

	if verbose {
		fmt.Fprintf(os.Stderr, "Compiling %d byte(s) of source...\n", len(input))
	}
	compileStart := time.Now()
	prog, err := engine.Compile(input)
	if err != nil {
		return fmt.Errorf("Error: %w", err)
	}
	if verbose {
		fmt.Fprintf(os.Stderr, "Compiled in %s\n", time.Since(compileStart))
	}

	runStart := time.Now()
	_, err = engine.Run(prog)
	if verbose {
		fmt.Fprintf(os.Stderr, "Ran in %s\n", time.Since(runStart))
	}
	if err != nil {
		return fmt.Errorf("Error: %w", err)
	}
	return nil
}
