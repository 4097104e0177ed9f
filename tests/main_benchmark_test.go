// ----------------------------------------------------------------------------
// FILE: tests/main_benchmark_test.go
// ----------------------------------------------------------------------------
// PURPOSE: System-wide benchmarks measuring the full lex->parse->eval
//          pipeline under iterative and recursive load.
// ----------------------------------------------------------------------------

package tests

import (
	"strings"
	"testing"

	"lcore/evaluator"
	"lcore/lexer"
	"lcore/object"
	"lcore/parser"
)

func runBenchCode(b *testing.B, input string) {
	b.Helper()
	l := lexer.New(input)
	p := parser.New(l)
	program := p.ParseProgram()
	if len(p.Errors()) > 0 {
		b.Fatalf("parse errors: %v", p.Errors())
	}
	scope := object.NewGlobalScope()
	evaluator.Eval(program, scope, evaluator.NewIO(&strings.Builder{}, strings.NewReader("")))
}

func BenchmarkSystem_HeavyLoop(b *testing.B) {
	input := `
	sum: int = 0;
	counter: int = 0;
	while counter < 1000 {
		sum = sum + 1;
		counter = counter + 1;
	}
	sum;
	`
	l := lexer.New(input)
	p := parser.New(l)
	program := p.ParseProgram()
	if len(p.Errors()) > 0 {
		b.Fatalf("parse errors: %v", p.Errors())
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		scope := object.NewGlobalScope()
		evaluator.Eval(program, scope, evaluator.NewIO(&strings.Builder{}, strings.NewReader("")))
	}
}

func BenchmarkSystem_DeepRecursion(b *testing.B) {
	input := `
	fn dive(n: int) -> int {
		if n == 0 {
			return 0;
		}
		return dive(n - 1);
	}
	dive(200);
	`
	l := lexer.New(input)
	p := parser.New(l)
	program := p.ParseProgram()
	if len(p.Errors()) > 0 {
		b.Fatalf("parse errors: %v", p.Errors())
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		scope := object.NewGlobalScope()
		evaluator.Eval(program, scope, evaluator.NewIO(&strings.Builder{}, strings.NewReader("")))
	}
}

func BenchmarkSystem_StringConcatenation(b *testing.B) {
	var sb strings.Builder
	sb.WriteString(`str: str = "";` + "\n")
	for i := 0; i < 100; i++ {
		sb.WriteString(`str = str + "a";` + "\n")
	}
	sb.WriteString("str;")
	input := sb.String()

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		runBenchCode(b, input)
	}
}
