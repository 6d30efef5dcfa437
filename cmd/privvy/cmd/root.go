// Package cmd implements the privvy command-line interface: run, repl, and
// version subcommands wired up through cobra.
package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var (
	// Version information, overridable at build time with -ldflags -X.
	Version   = "0.1.0-dev"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

// verbose gates diagnostic output written to stderr by run and repl
// (compile/eval timing, parsed statement counts) — never stdout, so it
// never changes a script's observable output.
var verbose bool

var rootCmd = &cobra.Command{
	Use:   "privvy",
	Short: "Privvy scripting language interpreter",
	Long: `privvy runs programs written in Privvy, a small dynamically-typed
scripting language with closures, single inheritance, and built-in
Database/Model host objects for talking to SQL backends.`,
	Version: Version,
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.SetVersionTemplate(fmt.Sprintf(`{{with .Name}}{{printf "%%s " .}}{{end}}{{printf "version %%s" .Version}}
Commit: %s
Built:  %s
`, GitCommit, BuildDate))

	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}
