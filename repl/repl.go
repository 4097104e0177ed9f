// ----------------------------------------------------------------------------
// FILE: repl/repl.go
// ----------------------------------------------------------------------------
// PACKAGE: repl
// PURPOSE: The Read-Eval-Print Loop. Connects a user input stream to the
//          lex->parse->eval pipeline and keeps one Scope alive across lines
//          so bindings and watches persist for the session.
// ----------------------------------------------------------------------------

package repl

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"lcore/evaluator"
	"lcore/lexer"
	"lcore/object"
	"lcore/parser"
	"lcore/token"
)

const (
	PROMPT = "L> "
	LOGO   = `
┏━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━┓
┃  _                                                 ┃
┃ | |    ___ ___  _ __ ___                           ┃
┃ | |   / __/ _ \| '__/ _ \                          ┃
┃ | |__| (_| (_) | | |  __/                          ┃
┃ |_____\___\___/|_|  \___|                          ┃
┃                                                     ┃
┃ L — a small, watched scripting language             ┃
┗━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━┛
`
)

const (
	Reset  = "\033[0m"
	Red    = "\033[31m"
	Green  = "\033[32m"
	Yellow = "\033[33m"
	Blue   = "\033[34m"
	Purple = "\033[35m"
	Cyan   = "\033[36m"
	Gray   = "\033[37m"
	Bold   = "\033[1m"
)

// Start launches the loop: it reads lines from in, evaluates them against
// one persistent Scope, and writes results/WATCH lines to out.
func Start(in io.Reader, out io.Writer) {
	scanner := bufio.NewScanner(in)
	scope := object.NewGlobalScope()
	debugMode := false

	fmt.Fprint(out, LOGO)
	printHelp(out)

	for {
		fmt.Fprint(out, Cyan+PROMPT+Reset)
		if !scanner.Scan() {
			return
		}

		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		if strings.HasPrefix(line, ".") {
			switch line {
			case ".exit":
				fmt.Fprintln(out, Yellow+"Goodbye!"+Reset)
				return
			case ".clear":
				scope = object.NewGlobalScope()
				fmt.Fprintln(out, Green+"Scope cleared."+Reset)
			case ".debug":
				debugMode = !debugMode
				status := "DISABLED"
				if debugMode {
					status = "ENABLED"
				}
				fmt.Fprintf(out, Gray+"Debug mode %s\n"+Reset, status)
			case ".help":
				printHelp(out)
			default:
				fmt.Fprintf(out, Red+"Unknown command: %s. Type .help for info.\n"+Reset, line)
			}
			continue
		}

		if debugMode {
			printTokens(out, line)
		}

		l := lexer.New(line)
		p := parser.New(l)
		program := p.ParseProgram()

		if errs := p.Errors(); len(errs) > 0 {
			printParserErrors(out, errs)
			continue
		}

		if debugMode {
			printAST(out, program)
		}

		result := evaluator.Eval(program, scope, evaluator.NewIO(out, in))
		printEvalResult(out, result)
	}
}

func printHelp(out io.Writer) {
	fmt.Fprintln(out, Gray+"Commands:")
	fmt.Fprintln(out, "  .exit   Quit the REPL")
	fmt.Fprintln(out, "  .clear  Reset the session scope")
	fmt.Fprintln(out, "  .debug  Toggle token/AST tracing")
	fmt.Fprintln(out, "  .help   Show this message"+Reset)
	fmt.Fprintln(out)
}

func printTokens(out io.Writer, line string) {
	fmt.Fprintln(out, Gray+"┌── [ TOKENS ] ──────────────────────────────────────────┐"+Reset)
	l := lexer.New(line)
	for tok := l.NextToken(); tok.Kind != token.EOF; tok = l.NextToken() {
		fmt.Fprintf(out, "│ %-20s : %s\n", tok.Kind, tok.Lexeme)
	}
	fmt.Fprintln(out, Gray+"└────────────────────────────────────────────────────────┘"+Reset)
}

func printAST(out io.Writer, program fmt.Stringer) {
	fmt.Fprintln(out, Gray+"┌── [ AST ] ─────────────────────────────────────────────┐"+Reset)
	if str := program.String(); str != "" {
		fmt.Fprintf(out, "%s\n", str)
	}
	fmt.Fprintln(out, Gray+"└────────────────────────────────────────────────────────┘"+Reset)
}

func printParserErrors(out io.Writer, errors []string) {
	fmt.Fprintln(out, Red+Bold+"Parse errors:"+Reset)
	for _, msg := range errors {
		fmt.Fprintf(out, Red+"  - %s\n"+Reset, msg)
	}
}

// printEvalResult formats the REPL's echoed result, color-coded by kind. A
// Void result (the common case for statements) prints nothing.
func printEvalResult(out io.Writer, v object.Value) {
	switch val := v.(type) {
	case *object.Void:
		return
	case *object.Error:
		fmt.Fprintf(out, Red+Bold+"ERROR: "+Reset+Red+"%s\n"+Reset, val.Message)
	case *object.Int, *object.Float:
		fmt.Fprintf(out, Yellow+"%s\n"+Reset, v.Inspect())
	case *object.Bool:
		color := Green
		if !val.Value {
			color = Red
		}
		fmt.Fprintf(out, color+"%s\n"+Reset, v.Inspect())
	case *object.Str:
		fmt.Fprintf(out, Green+"%q\n"+Reset, val.Value)
	case *object.List, *object.Hash:
		fmt.Fprintf(out, Blue+"%s\n"+Reset, v.Inspect())
	case *object.ReturnSignal:
		printEvalResult(out, val.Value)
	default:
		fmt.Fprintf(out, "%s\n", v.Inspect())
	}
}
