// ----------------------------------------------------------------------------
// FILE: cmd/lcore/main.go
// ----------------------------------------------------------------------------
// PACKAGE: main
// PURPOSE: The lcore CLI: `lcore run <file>` executes a script, `lcore repl`
//          opens the interactive session. Built with cobra/pflag so flag
//          parsing, usage text, and subcommand dispatch follow the same
//          ecosystem convention the rest of the corpus reaches for.
// ----------------------------------------------------------------------------

package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"lcore"
	"lcore/lexer"
	"lcore/parser"
	"lcore/repl"
	"lcore/token"
)

var (
	debugTokens bool
	debugAST    bool
	watchTrace  bool
)

func main() {
	root := &cobra.Command{
		Use:   "lcore",
		Short: "lcore runs and explores programs written in L",
	}

	runCmd := &cobra.Command{
		Use:   "run <file>",
		Short: "Execute an L script file",
		Args:  cobra.ExactArgs(1),
		RunE:  runScript,
	}
	runCmd.Flags().BoolVar(&debugTokens, "debug-tokens", false, "print the token stream before evaluating")
	runCmd.Flags().BoolVar(&debugAST, "debug-ast", false, "print the parsed AST before evaluating")
	runCmd.Flags().BoolVar(&watchTrace, "watch-trace", true, "emit WATCH lines for watched bindings")

	replCmd := &cobra.Command{
		Use:   "repl",
		Short: "Start an interactive session",
		RunE: func(cmd *cobra.Command, args []string) error {
			repl.Start(os.Stdin, os.Stdout)
			return nil
		},
	}

	root.AddCommand(runCmd, replCmd)
	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func runScript(cmd *cobra.Command, args []string) error {
	data, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("reading %s: %w", args[0], err)
	}

	if debugTokens {
		printTokens(string(data))
	}
	if debugAST {
		printAST(string(data))
	}

	result := lcore.RunTraced(string(data), os.Stdout, os.Stdin, watchTrace)
	if len(result.ParseErrors) > 0 {
		fmt.Fprintln(os.Stderr, "parse errors:")
		for _, e := range result.ParseErrors {
			fmt.Fprintf(os.Stderr, "  - %s\n", e)
		}
		os.Exit(1)
	}
	if result.RuntimeErr != "" {
		fmt.Fprintf(os.Stderr, "runtime error: %s\n", result.RuntimeErr)
		os.Exit(1)
	}
	return nil
}

func printTokens(source string) {
	fmt.Println("-- tokens --")
	l := lexer.New(source)
	for tok := l.NextToken(); tok.Kind != token.EOF; tok = l.NextToken() {
		fmt.Printf("%-20s %s\n", tok.Kind, tok.Lexeme)
	}
}

func printAST(source string) {
	l := lexer.New(source)
	p := parser.New(l)
	program := p.ParseProgram()
	if len(p.Errors()) > 0 {
		return
	}
	fmt.Println("-- ast --")
	fmt.Println(program.String())
}
