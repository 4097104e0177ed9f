// ----------------------------------------------------------------------------
// FILE: run.go
// ----------------------------------------------------------------------------
// PACKAGE: lcore (root)
// PURPOSE: The entry point the CLI's run subcommand calls through:
//          lex -> parse -> evaluate one source text against fresh or
//          supplied I/O sinks, reporting parse errors and the top-level
//          runtime error (if any) uniformly.
// ----------------------------------------------------------------------------

package lcore

import (
	"fmt"
	"io"
	"strings"

	"lcore/evaluator"
	"lcore/lexer"
	"lcore/object"
	"lcore/parser"
)

// Result is the outcome of one Run call.
type Result struct {
	Value       object.Value
	ParseErrors []string
	RuntimeErr  string
}

// Run lexes, parses, and evaluates source against a fresh global scope,
// writing program output (say/ask prompts, WATCH lines) to out and reading
// ask() input from in.
func Run(source string, out io.Writer, in io.Reader) Result {
	return RunTraced(source, out, in, true)
}

// RunTraced is Run with explicit control over WATCH line emission, used by
// the CLI's --watch-trace flag.
func RunTraced(source string, out io.Writer, in io.Reader, watchTrace bool) Result {
	l := lexer.New(source)
	p := parser.New(l)
	program := p.ParseProgram()

	if errs := p.Errors(); len(errs) > 0 {
		return Result{ParseErrors: errs}
	}

	scope := object.NewGlobalScope()
	evalIO := evaluator.NewIO(out, in)
	evalIO.WatchTrace = watchTrace
	value := evaluator.Eval(program, scope, evalIO)

	res := Result{Value: value}
	if errObj, ok := value.(*object.Error); ok {
		res.RuntimeErr = errObj.Message
	}
	return res
}

// RunWithScope evaluates source against an already-initialized scope,
// letting a caller persist bindings across successive calls.
func RunWithScope(source string, scope *object.Scope, out io.Writer, in io.Reader) Result {
	l := lexer.New(source)
	p := parser.New(l)
	program := p.ParseProgram()

	if errs := p.Errors(); len(errs) > 0 {
		return Result{ParseErrors: errs}
	}

	value := evaluator.Eval(program, scope, evaluator.NewIO(out, in))
	res := Result{Value: value}
	if errObj, ok := value.(*object.Error); ok {
		res.RuntimeErr = errObj.Message
	}
	return res
}

// Describe renders a Result as a one-line summary: parse errors first, else
// a runtime error, else the final expression's inspected value (blank for
// void).
func Describe(r Result) string {
	if len(r.ParseErrors) > 0 {
		return "parse error: " + strings.Join(r.ParseErrors, "; ")
	}
	if r.RuntimeErr != "" {
		return "runtime error: " + r.RuntimeErr
	}
	if r.Value == nil {
		return ""
	}
	if _, ok := r.Value.(*object.Void); ok {
		return ""
	}
	return fmt.Sprintf("%s", r.Value.Inspect())
}
