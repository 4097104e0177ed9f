// ----------------------------------------------------------------------------
// FILE: tests/system_test.go
// ----------------------------------------------------------------------------
// PURPOSE: System-level integration tests: lexer -> parser -> evaluator
//          exercised together against complete L programs, rather than one
//          package's internals in isolation.
// ----------------------------------------------------------------------------

package tests

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lcore/evaluator"
	"lcore/lexer"
	"lcore/object"
	"lcore/parser"
)

func runCode(t *testing.T, input string) (object.Value, string) {
	t.Helper()
	l := lexer.New(input)
	p := parser.New(l)
	program := p.ParseProgram()
	require.Empty(t, p.Errors(), "parse errors: %v", p.Errors())

	var out strings.Builder
	scope := object.NewGlobalScope()
	result := evaluator.Eval(program, scope, evaluator.NewIO(&out, strings.NewReader("")))
	return result, out.String()
}

func TestSystem_FibonacciRecursion(t *testing.T) {
	input := `
	fn fib(x: int) -> int {
		if x < 2 {
			return x;
		}
		return fib(x - 1) + fib(x - 2);
	}
	fib(10);
	`
	result, _ := runCode(t, input)
	assert.Equal(t, &object.Int{Value: 55}, result)
}

func TestSystem_HigherOrderFunctionOverList(t *testing.T) {
	input := `
	fn double(x: int) -> int {
		return x * 2;
	}
	arr: list = [10, 20, 30];
	total: int = 0;
	foreach item: int in arr {
		total = total + double(item);
	}
	total;
	`
	result, _ := runCode(t, input)
	assert.Equal(t, &object.Int{Value: 120}, result)
}

func TestSystem_ScopeShadowingInsideIf(t *testing.T) {
	input := `
	x: int = 10;
	if true {
		x: int = 20;
		x = x + 1;
	}
	x;
	`
	result, _ := runCode(t, input)
	assert.Equal(t, &object.Int{Value: 10}, result)
}

func TestSystem_UseMutMutatesOuterBinding(t *testing.T) {
	input := `
	total: int = 100;
	fn bump() -> void {
		use mut total;
		total = total + 1;
	}
	bump();
	total;
	`
	result, _ := runCode(t, input)
	assert.Equal(t, &object.Int{Value: 101}, result)
}

func TestSystem_PlainUseIsolatesContainerMutation(t *testing.T) {
	input := `
	items: list = [1, 2];
	fn poke() -> void {
		use items;
		items.push(99);
	}
	poke();
	items.length();
	`
	result, _ := runCode(t, input)
	assert.Equal(t, &object.Int{Value: 2}, result)
}

func TestSystem_WatchEmitsOnMutation(t *testing.T) {
	input := `
	counter: int = 0;
	watch counter;
	counter = counter + 1;
	`
	_, output := runCode(t, input)
	assert.Contains(t, output, "WATCH: counter changed to 1")
}

func TestSystem_DivisionByZeroIsRuntimeError(t *testing.T) {
	result, _ := runCode(t, `10 / 0;`)
	_, ok := result.(*object.Error)
	assert.True(t, ok, "expected a runtime error, got %T", result)
}

func TestSystem_ForTripleDotRangeIsExclusive(t *testing.T) {
	input := `
	total: int = 0;
	for i in 0...5 {
		total = total + i;
	}
	total;
	`
	result, _ := runCode(t, input)
	assert.Equal(t, &object.Int{Value: 10}, result) // 0+1+2+3+4
}
